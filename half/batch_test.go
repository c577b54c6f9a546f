package half

import (
	"math"
	"testing"
)

func TestPack2x16(t *testing.T) {
	v := Pack2x16(FromFloat32(1), FromFloat32(-2))
	if v != 0xC0003C00 {
		t.Fatalf("Pack2x16(1, -2) = 0x%08X, want 0xC0003C00", v)
	}
	lo, hi := Unpack2x16(v)
	if lo.Float32() != 1 || hi.Float32() != -2 {
		t.Errorf("Unpack2x16 = (%v, %v), want (1, -2)", lo, hi)
	}
	if PackFloat32x2(1, -2) != v {
		t.Errorf("PackFloat32x2 disagrees with Pack2x16")
	}
}

func TestPackPairs(t *testing.T) {
	sizes := []int{0, 2, 6, 8, 10, 18}
	for _, n := range sizes {
		src := make([]float32, n)
		for i := range src {
			src[i] = float32(i) - 3.25
		}
		dst := make([]uint32, n/2)
		PackPairs(dst, src)

		for i := range dst {
			want := Pack2x16(FromFloat32(src[2*i]), FromFloat32(src[2*i+1]))
			if dst[i] != want {
				t.Errorf("n=%d: dst[%d] = 0x%08X, want 0x%08X", n, i, dst[i], want)
			}
		}

		back := make([]float32, n)
		UnpackPairs(back, dst)
		for i := range back {
			if back[i] != src[i] {
				t.Errorf("n=%d: back[%d] = %g, want %g", n, i, back[i], src[i])
			}
		}
	}
}

func TestPackPairsSpecials(t *testing.T) {
	src := []float32{float32(math.Copysign(0, -1)), float32(math.NaN()), 1e9, 1e-9}
	dst := make([]uint32, 2)
	PackPairs(dst, src)

	lo, hi := Unpack2x16(dst[0])
	if lo != NegZero {
		t.Errorf("negative zero packed as 0x%04X", lo.Bits())
	}
	if !hi.IsNaN() {
		t.Errorf("NaN packed as 0x%04X", hi.Bits())
	}
	lo, hi = Unpack2x16(dst[1])
	if lo != Inf {
		t.Errorf("1e9 packed as 0x%04X, want +Inf", lo.Bits())
	}
	if hi != Zero {
		t.Errorf("1e-9 packed as 0x%04X, want +0", hi.Bits())
	}
}

func TestPackPairsPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("PackPairs with odd source length did not panic")
		}
	}()
	PackPairs(make([]uint32, 2), make([]float32, 3))
}

func BenchmarkPackPairs(b *testing.B) {
	n := 6 * 1 << 16
	src := make([]float32, n)
	for i := range src {
		src[i] = float32(i%977) * 0.013
	}
	dst := make([]uint32, n/2)
	b.SetBytes(int64(n * 4))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		PackPairs(dst, src)
	}
}

package splat

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCovarianceIdentity(t *testing.T) {
	got := Covariance([4]float32{0, 0, 0, 1}, [3]float32{1, 2, 3})
	assert.Equal(t, [6]float32{1, 0, 0, 4, 0, 9}, got)
}

func TestCovarianceQuarterTurn(t *testing.T) {
	s := float32(math.Sqrt2 / 2)
	// 90 degrees about z swaps the x and y extents.
	got := Covariance([4]float32{0, 0, s, s}, [3]float32{1, 2, 3})
	want := [6]float32{4, 0, 0, 1, 0, 9}
	for i := range want {
		assert.InDeltaf(t, want[i], got[i], 1e-5, "term %d", i)
	}
}

// Σ must match (S·R)ᵀ(S·R) computed with mathgl.
func TestCovarianceMatchesMatrixProduct(t *testing.T) {
	r := rand.New(rand.NewPCG(21, 22))
	for range 100 {
		q := mgl32.Quat{
			W: r.Float32()*2 - 1,
			V: mgl32.Vec3{r.Float32()*2 - 1, r.Float32()*2 - 1, r.Float32()*2 - 1},
		}.Normalize()
		scale := [3]float32{r.Float32() * 3, r.Float32() * 3, r.Float32() * 3}

		// Rows of the rotation block as laid out in the packer.
		rot := q.Mat4().Mat3().Transpose()
		m := mgl32.Diag3(mgl32.Vec3(scale)).Mul3(rot)
		sigma := m.Transpose().Mul3(m)

		got := Covariance([4]float32{q.V[0], q.V[1], q.V[2], q.W}, scale)
		want := [6]float32{
			sigma.At(0, 0), sigma.At(0, 1), sigma.At(0, 2),
			sigma.At(1, 1), sigma.At(1, 2), sigma.At(2, 2),
		}
		for i := range want {
			require.InDeltaf(t, want[i], got[i], 1e-4, "term %d", i)
		}
	}
}

// covarianceReference rounds after every operation in float64, which no
// compiler can contract into a fused multiply-add.
func covarianceReference(rot [4]float32, scale [3]float32) [6]float32 {
	mul := func(a, b float32) float32 { return float32(float64(a) * float64(b)) }
	add := func(a, b float32) float32 { return float32(float64(a) + float64(b)) }
	sub := func(a, b float32) float32 { return float32(float64(a) - float64(b)) }

	x, y, z, w := rot[0], rot[1], rot[2], rot[3]
	r := [9]float32{
		sub(1, mul(2, add(mul(y, y), mul(z, z)))), mul(2, add(mul(x, y), mul(w, z))), mul(2, sub(mul(x, z), mul(w, y))),
		mul(2, sub(mul(x, y), mul(w, z))), sub(1, mul(2, add(mul(x, x), mul(z, z)))), mul(2, add(mul(y, z), mul(w, x))),
		mul(2, add(mul(x, z), mul(w, y))), mul(2, sub(mul(y, z), mul(w, x))), sub(1, mul(2, add(mul(x, x), mul(y, y)))),
	}
	var m [9]float32
	for i := range m {
		m[i] = mul(r[i], scale[i/3])
	}
	dot := func(a, b int) float32 {
		return add(add(mul(m[a], m[b]), mul(m[a+3], m[b+3])), mul(m[a+6], m[b+6]))
	}
	return [6]float32{dot(0, 0), dot(0, 1), dot(0, 2), dot(1, 1), dot(1, 2), dot(2, 2)}
}

func TestCovarianceRoundsEveryProduct(t *testing.T) {
	r := rand.New(rand.NewPCG(23, 24))
	for range 20000 {
		rot := [4]float32{r.Float32()*2 - 1, r.Float32()*2 - 1, r.Float32()*2 - 1, r.Float32()*2 - 1}
		scale := [3]float32{r.Float32() * 3, r.Float32() * 3, r.Float32() * 3}

		got := Covariance(rot, scale)
		want := covarianceReference(rot, scale)
		for k := range want {
			require.Equalf(t, math.Float32bits(want[k]), math.Float32bits(got[k]),
				"term %d for rotation %v scale %v", k, rot, scale)
		}
	}
}

func TestTextureHeight(t *testing.T) {
	tests := []struct {
		count, height int
	}{
		{0, 0},
		{1, 1},
		{1024, 1},
		{1025, 2},
		{2048, 2},
		{1 << 20, 1024},
		{1<<20 + 1, 1025},
	}
	for _, tt := range tests {
		assert.Equalf(t, tt.height, TextureHeight(tt.count), "count=%d", tt.count)
	}
}

func TestGenerateTextureGeometry(t *testing.T) {
	for _, count := range []int{0, 1, 1024, 1025, 3000} {
		tex, err := GenerateTexture(NewSplatSet(count))
		require.NoError(t, err)
		assert.Equal(t, TextureWidth, tex.Width)
		assert.Equal(t, (2*count+TextureWidth-1)/TextureWidth, tex.Height)
		assert.Equal(t, count, tex.Count)
		assert.Len(t, tex.Data, tex.Width*tex.Height*4)
	}
}

func TestGenerateTextureLanes(t *testing.T) {
	set := SplatSet{
		Count:     2,
		Positions: []float32{1.5, -2, 3, 0, 0, 0},
		Scales:    []float32{1, 1, 1, 0, 0, 0},
		Rotations: []float32{0, 0, 0, 1, 0, 0, 0, 1},
		Colors:    []uint8{1, 2, 3, 4, 255, 0, 128, 7},
	}
	tex, err := GenerateTexture(set)
	require.NoError(t, err)

	assert.Equal(t, []uint32{
		math.Float32bits(1.5), math.Float32bits(-2), math.Float32bits(3), 0,
		0x00004400, 0x44000000, 0x44000000, 0x04030201,
	}, tex.Lanes(0))
	assert.Equal(t, []uint32{0, 0, 0, 0, 0, 0, 0, 0x078000ff}, tex.Lanes(1))

	// Padding past the last splat stays zero.
	for _, v := range tex.Data[2*LanesPerSplat:] {
		require.Zero(t, v)
	}

	assert.Equal(t, [3]float32{1.5, -2, 3}, tex.Position(0))
	assert.Equal(t, [4]uint8{1, 2, 3, 4}, tex.Color(0))
	assert.Equal(t, [4]uint8{255, 0, 128, 7}, tex.Color(1))
	assert.Equal(t, [6]float32{4, 0, 0, 4, 0, 4}, tex.Covariance(0))
	assert.Equal(t, [6]float32{}, tex.Covariance(1))
}

func TestGenerateTextureMatchesCovariance(t *testing.T) {
	r := rand.New(rand.NewPCG(23, 24))
	set := randomSet(r, 64, 10)
	tex, err := GenerateTexture(set)
	require.NoError(t, err)

	for i := range set.Count {
		sigma := Covariance(set.Rotation(i), set.Scale(i))
		got := tex.Covariance(i)
		for k := range sigma {
			want := sigma[k] * CovarianceScale
			// binary16 keeps 11 significant bits.
			tol := max(float64(math.Abs(float64(want)))/1024, 1e-4)
			require.InDeltaf(t, want, got[k], tol, "splat %d term %d", i, k)
		}
		require.Equal(t, set.Position(i), tex.Position(i))
		require.Equal(t, set.Color(i), tex.Color(i))
	}
}

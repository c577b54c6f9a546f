package half

// batchSize is the number of pairs handled per unrolled loop iteration.
const batchSize = 4

// Pack2x16 packs two halves into one 32-bit lane: lo in bits 0-15 and hi
// in bits 16-31.
func Pack2x16(lo, hi Half) uint32 {
	return uint32(lo) | uint32(hi)<<16
}

// Unpack2x16 splits a lane produced by Pack2x16.
func Unpack2x16(v uint32) (lo, hi Half) {
	return Half(v), Half(v >> 16)
}

// PackFloat32x2 converts a and b to halves and packs them with a in the
// low 16 bits.
func PackFloat32x2(a, b float32) uint32 {
	return Pack2x16(FromFloat32(a), FromFloat32(b))
}

// PackPairs converts consecutive pairs of src into packed lanes:
// dst[i] holds src[2i] in the low half and src[2i+1] in the high half.
// src must have even length and dst must hold len(src)/2 lanes.
func PackPairs(dst []uint32, src []float32) {
	if len(src)%2 != 0 {
		panic("half: odd source length")
	}
	n := len(src) / 2
	if len(dst) < n {
		panic("half: destination slice too small")
	}

	i := 0
	for ; i+batchSize <= n; i += batchSize {
		j := i * 2
		dst[i] = PackFloat32x2(src[j], src[j+1])
		dst[i+1] = PackFloat32x2(src[j+2], src[j+3])
		dst[i+2] = PackFloat32x2(src[j+4], src[j+5])
		dst[i+3] = PackFloat32x2(src[j+6], src[j+7])
	}
	for ; i < n; i++ {
		dst[i] = PackFloat32x2(src[2*i], src[2*i+1])
	}
}

// UnpackPairs is the inverse of PackPairs: dst must hold 2*len(src) values.
func UnpackPairs(dst []float32, src []uint32) {
	if len(dst) < 2*len(src) {
		panic("half: destination slice too small")
	}
	for i, v := range src {
		lo, hi := Unpack2x16(v)
		dst[2*i] = lo.Float32()
		dst[2*i+1] = hi.Float32()
	}
}

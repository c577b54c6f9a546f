// Package shuffle implements the byte-plane filter applied to texture
// payloads before general-purpose compression.
//
// A packed texture is a stream of fixed-size splat records. Bytes at the
// same offset within each record tend to be similar (float exponents, the
// high halves of binary16 pairs, the always-zero lane, alpha), so the
// filter first groups them into planes and then delta-codes the result:
//
//	Input:  [a0 a1 a2 a3, b0 b1 b2 b3]
//	Planes: [a0 b0, a1 b1, a2 b2, a3 b3]
//	Output: each byte minus its predecessor
//
// Constant planes delta to zero runs; uncorrelated planes stay uncorrelated.
package shuffle

// Split groups the bytes of stride-byte elements into planes. Trailing
// bytes that do not fill an element are copied unchanged. dst must be at
// least len(src) long.
func Split(dst, src []byte, stride int) {
	dst = dst[:len(src)]
	if stride <= 1 {
		copy(dst, src)
		return
	}

	n := len(src) / stride
	for off := 0; off < stride; off++ {
		plane := dst[off*n : (off+1)*n]
		for i := range plane {
			plane[i] = src[i*stride+off]
		}
	}
	copy(dst[n*stride:], src[n*stride:])
}

// Join reverses Split.
func Join(dst, src []byte, stride int) {
	dst = dst[:len(src)]
	if stride <= 1 {
		copy(dst, src)
		return
	}

	n := len(src) / stride
	for off := 0; off < stride; off++ {
		plane := src[off*n : (off+1)*n]
		for i, b := range plane {
			dst[i*stride+off] = b
		}
	}
	copy(dst[n*stride:], src[n*stride:])
}

// Delta replaces every byte after the first with its difference from its
// predecessor, in place.
func Delta(data []byte) {
	i := len(data) - 1
	for ; i >= 8; i -= 8 {
		data[i] -= data[i-1]
		data[i-1] -= data[i-2]
		data[i-2] -= data[i-3]
		data[i-3] -= data[i-4]
		data[i-4] -= data[i-5]
		data[i-5] -= data[i-6]
		data[i-6] -= data[i-7]
		data[i-7] -= data[i-8]
	}
	for ; i >= 1; i-- {
		data[i] -= data[i-1]
	}
}

// Undelta reverses Delta in place.
func Undelta(data []byte) {
	n := len(data)
	i := 1
	for ; i+7 < n; i += 8 {
		data[i] += data[i-1]
		data[i+1] += data[i]
		data[i+2] += data[i+1]
		data[i+3] += data[i+2]
		data[i+4] += data[i+3]
		data[i+5] += data[i+4]
		data[i+6] += data[i+5]
		data[i+7] += data[i+6]
	}
	for ; i < n; i++ {
		data[i] += data[i-1]
	}
}

// Encode returns src split into stride planes and delta coded.
func Encode(src []byte, stride int) []byte {
	out := make([]byte, len(src))
	Split(out, src, stride)
	Delta(out)
	return out
}

// Decode reverses Encode. src is modified.
func Decode(src []byte, stride int) []byte {
	Undelta(src)
	out := make([]byte, len(src))
	Join(out, src, stride)
	return out
}

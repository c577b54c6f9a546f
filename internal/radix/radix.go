// Package radix implements a stable least-significant-digit radix sort over
// unsigned 32-bit keys.
//
// The sort runs four counting-sort passes of one byte each and carries an
// index array alongside the keys, so the caller receives a permutation
// rather than reordered data. Ties on the full key keep input order.
//
// Two kernels implement the same algorithm. Scalar is the reference:
// histogram and scatter per pass. Wide builds all four histograms in one
// unrolled read and skips passes whose digit is constant across the input.
// Both produce bit-identical keys and permutations.
package radix

import "fmt"

const (
	// Passes is the number of 8-bit digits in a key.
	Passes = 4
	// Buckets is the radix.
	Buckets = 256
)

// Kernel selects the execution strategy of Sort.
type Kernel uint8

const (
	// Auto resolves to the kernel returned by Detect.
	Auto Kernel = iota
	// Scalar is the reference per-pass histogram and scatter.
	Scalar
	// Wide fuses the histogram reads and skips identity passes.
	Wide
)

// String returns the kernel name.
func (k Kernel) String() string {
	switch k {
	case Auto:
		return "auto"
	case Scalar:
		return "scalar"
	case Wide:
		return "wide"
	}
	return fmt.Sprintf("Kernel(%d)", uint8(k))
}

// ParseKernel parses a kernel name as produced by String.
func ParseKernel(s string) (Kernel, error) {
	switch s {
	case "", "auto":
		return Auto, nil
	case "scalar":
		return Scalar, nil
	case "wide":
		return Wide, nil
	}
	return Auto, fmt.Errorf("radix: unknown kernel %q", s)
}

// Resolve maps Auto to the detected kernel and returns other kernels
// unchanged.
func (k Kernel) Resolve() Kernel {
	if k == Auto {
		return Detect()
	}
	return k
}

// Sort orders keys ascending and writes the matching permutation into perm:
// after Sort, keys[i] holds the i-th smallest key and perm[i] the input
// position it came from. perm is overwritten with the identity first.
//
// perm, tmpKeys and tmpPerm must be at least len(keys) long; only their
// first len(keys) elements are touched.
func Sort(k Kernel, keys, perm, tmpKeys, tmpPerm []uint32) {
	n := len(keys)
	if len(perm) < n || len(tmpKeys) < n || len(tmpPerm) < n {
		panic("radix: scratch slice too small")
	}
	if n == 0 {
		return
	}
	perm = perm[:n]
	tmpKeys = tmpKeys[:n]
	tmpPerm = tmpPerm[:n]

	for i := range perm {
		perm[i] = uint32(i)
	}

	switch k.Resolve() {
	case Wide:
		sortWide(keys, perm, tmpKeys, tmpPerm)
	default:
		sortScalar(keys, perm, tmpKeys, tmpPerm)
	}
}

// prefixSum turns bucket counts into exclusive start offsets.
func prefixSum(counts *[Buckets]uint32) {
	var total uint32
	for i, c := range counts {
		counts[i] = total
		total += c
	}
}

// scatter moves (key, index) pairs into their bucket slots in input order,
// which keeps the pass stable.
func scatter(offsets *[Buckets]uint32, shift uint, srcKeys, srcPerm, dstKeys, dstPerm []uint32) {
	dstKeys = dstKeys[:len(srcKeys)]
	dstPerm = dstPerm[:len(srcKeys)]
	srcPerm = srcPerm[:len(srcKeys)]
	for i, key := range srcKeys {
		b := (key >> shift) & 0xFF
		pos := offsets[b]
		offsets[b]++
		dstKeys[pos] = key
		dstPerm[pos] = srcPerm[i]
	}
}

func sortScalar(keys, perm, tmpKeys, tmpPerm []uint32) {
	srcKeys, dstKeys := keys, tmpKeys
	srcPerm, dstPerm := perm, tmpPerm

	var counts [Buckets]uint32
	for pass := 0; pass < Passes; pass++ {
		shift := uint(pass * 8)

		counts = [Buckets]uint32{}
		for _, key := range srcKeys {
			counts[(key>>shift)&0xFF]++
		}
		prefixSum(&counts)
		scatter(&counts, shift, srcKeys, srcPerm, dstKeys, dstPerm)

		srcKeys, dstKeys = dstKeys, srcKeys
		srcPerm, dstPerm = dstPerm, srcPerm
	}
	// An even number of passes leaves the result in keys and perm.
}

func sortWide(keys, perm, tmpKeys, tmpPerm []uint32) {
	n := len(keys)

	// Digit counts do not depend on element order, so every pass can use
	// histograms gathered from the input up front.
	var hist [Passes][Buckets]uint32
	i := 0
	for ; i+4 <= n; i += 4 {
		k0, k1, k2, k3 := keys[i], keys[i+1], keys[i+2], keys[i+3]
		hist[0][k0&0xFF]++
		hist[1][(k0>>8)&0xFF]++
		hist[2][(k0>>16)&0xFF]++
		hist[3][k0>>24]++
		hist[0][k1&0xFF]++
		hist[1][(k1>>8)&0xFF]++
		hist[2][(k1>>16)&0xFF]++
		hist[3][k1>>24]++
		hist[0][k2&0xFF]++
		hist[1][(k2>>8)&0xFF]++
		hist[2][(k2>>16)&0xFF]++
		hist[3][k2>>24]++
		hist[0][k3&0xFF]++
		hist[1][(k3>>8)&0xFF]++
		hist[2][(k3>>16)&0xFF]++
		hist[3][k3>>24]++
	}
	for ; i < n; i++ {
		k := keys[i]
		hist[0][k&0xFF]++
		hist[1][(k>>8)&0xFF]++
		hist[2][(k>>16)&0xFF]++
		hist[3][k>>24]++
	}

	srcKeys, dstKeys := keys, tmpKeys
	srcPerm, dstPerm := perm, tmpPerm
	for pass := 0; pass < Passes; pass++ {
		shift := uint(pass * 8)
		h := &hist[pass]

		// A digit shared by every key makes the stable pass an identity.
		if h[(srcKeys[0]>>shift)&0xFF] == uint32(n) {
			continue
		}
		prefixSum(h)
		scatter(h, shift, srcKeys, srcPerm, dstKeys, dstPerm)

		srcKeys, dstKeys = dstKeys, srcKeys
		srcPerm, dstPerm = dstPerm, srcPerm
	}

	if &srcKeys[0] != &keys[0] {
		copy(keys, srcKeys)
		copy(perm, srcPerm)
	}
}

package splat

// Reorder returns a copy of set with every attribute gathered through perm:
// element i of the result is element perm[i] of set.
//
// perm must have one entry per splat. The whole permutation is checked
// before anything is written; an entry >= set.Count fails with an
// *IndexError and no result.
func Reorder(set SplatSet, perm []uint32) (SplatSet, error) {
	if err := set.Validate(); err != nil {
		return SplatSet{}, err
	}
	if err := checkLen("permutation", len(perm), set.Count); err != nil {
		return SplatSet{}, err
	}
	if err := checkIndices(perm, set.Count); err != nil {
		return SplatSet{}, err
	}

	out := NewSplatSet(set.Count)
	gather(out, set, perm)
	return out, nil
}

func checkIndices(perm []uint32, count int) error {
	for i, p := range perm {
		if int64(p) >= int64(count) {
			return &IndexError{Position: i, Index: p, Count: count}
		}
	}
	return nil
}

// gather copies whole tuples from src to dst through perm, which must be
// in range.
func gather(dst, src SplatSet, perm []uint32) {
	gather3(dst.Positions, src.Positions, perm)
	gather3(dst.Scales, src.Scales, perm)
	gather4(dst.Rotations, src.Rotations, perm)
	gather4(dst.Colors, src.Colors, perm)
}

func gather3[T float32 | uint8](dst, src []T, perm []uint32) {
	for i, p := range perm {
		j := 3 * int(p)
		s := src[j : j+3 : j+3]
		d := dst[3*i : 3*i+3 : 3*i+3]
		d[0], d[1], d[2] = s[0], s[1], s[2]
	}
}

func gather4[T float32 | uint8](dst, src []T, perm []uint32) {
	for i, p := range perm {
		j := 4 * int(p)
		s := src[j : j+4 : j+4]
		d := dst[4*i : 4*i+4 : 4*i+4]
		d[0], d[1], d[2], d[3] = s[0], s[1], s[2], s[3]
	}
}

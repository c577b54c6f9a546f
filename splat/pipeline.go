package splat

import "slices"

// SortIndices returns the back-to-front permutation of count splats for a
// 16-element view matrix. It borrows a Sorter from the global pool; the
// result is owned by the caller.
func SortIndices(positions []float32, view []float32, count int) ([]uint32, error) {
	v, err := ViewMatrixFromSlice(view)
	if err != nil {
		return nil, err
	}
	if count < 0 {
		return nil, ErrNegativeCount
	}
	if err := checkLen("positions", len(positions), 3*count); err != nil {
		return nil, err
	}

	s, err := globalSorterPool.Get(count)
	if err != nil {
		return nil, err
	}
	defer globalSorterPool.Put(s)

	return slices.Clone(s.sortIndices(positions, v, count)), nil
}

// SortAndReorder sorts set for a 16-element view matrix and returns a new
// SplatSet with its attributes in back-to-front order. set is not
// modified.
func SortAndReorder(set SplatSet, view []float32) (SplatSet, error) {
	v, err := ViewMatrixFromSlice(view)
	if err != nil {
		return SplatSet{}, err
	}
	if err := set.Validate(); err != nil {
		return SplatSet{}, err
	}

	s, err := globalSorterPool.Get(set.Count)
	if err != nil {
		return SplatSet{}, err
	}
	defer globalSorterPool.Put(s)

	perm := s.sortIndices(set.Positions, v, set.Count)
	out := NewSplatSet(set.Count)
	gather(out, set, perm)
	return out, nil
}

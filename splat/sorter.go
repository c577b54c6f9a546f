package splat

import (
	"github.com/mrjoshuak/go-gsplat/internal/radix"
)

// SorterOptions configures a Sorter.
type SorterOptions struct {
	// Kernel selects the execution strategy. The zero value picks the
	// fastest kernel for the running CPU.
	Kernel Kernel

	// Translate adds the view translation (element 14) to every depth.
	// It shifts all depths equally, so it only changes results through
	// float32 rounding.
	Translate bool
}

// Sorter sorts splats back to front using scratch buffers allocated once
// for up to MaxCount splats.
//
// Slices returned by a Sorter alias its scratch and stay valid until the
// next call on the same Sorter. A Sorter must not be used by more than one
// goroutine at a time.
type Sorter struct {
	maxCount  int
	kernel    Kernel
	translate bool

	keys    []uint32
	tmpKeys []uint32
	perm    []uint32
	tmpPerm []uint32

	// attrs is allocated on the first reorder.
	attrs SplatSet
}

// NewSorter creates a Sorter for up to maxCount splats. opts may be nil.
func NewSorter(maxCount int, opts *SorterOptions) (*Sorter, error) {
	if maxCount < 0 {
		return nil, ErrNegativeCount
	}
	var o SorterOptions
	if opts != nil {
		o = *opts
	}

	s := &Sorter{
		maxCount:  maxCount,
		kernel:    o.Kernel.Resolve(),
		translate: o.Translate,
		keys:      make([]uint32, maxCount),
		tmpKeys:   make([]uint32, maxCount),
		perm:      make([]uint32, maxCount),
		tmpPerm:   make([]uint32, maxCount),
	}
	Logger().Debug("splat: sorter allocated", "max_count", maxCount, "kernel", s.kernel)
	return s, nil
}

// MaxCount returns the largest splat count the Sorter accepts.
func (s *Sorter) MaxCount() int {
	return s.maxCount
}

// Kernel returns the resolved execution kernel.
func (s *Sorter) Kernel() Kernel {
	return s.kernel
}

// Reset zeroes every scratch buffer. Results previously returned by the
// Sorter read as zero afterwards.
func (s *Sorter) Reset() {
	clear(s.keys)
	clear(s.tmpKeys)
	clear(s.perm)
	clear(s.tmpPerm)
	clear(s.attrs.Positions)
	clear(s.attrs.Scales)
	clear(s.attrs.Rotations)
	clear(s.attrs.Colors)
}

func (s *Sorter) checkCapacity(count int) error {
	if count < 0 {
		return ErrNegativeCount
	}
	if count > s.maxCount {
		Logger().Warn("splat: sorter capacity exceeded", "count", count, "max_count", s.maxCount)
		return &CapacityError{Requested: count, Capacity: s.maxCount}
	}
	return nil
}

// SortIndices returns the back-to-front permutation of count splats:
// the depth key of splat perm[i] never exceeds that of perm[i+1], and
// splats with equal keys keep their input order.
func (s *Sorter) SortIndices(positions []float32, view ViewMatrix, count int) ([]uint32, error) {
	if err := s.checkCapacity(count); err != nil {
		return nil, err
	}
	if err := checkLen("positions", len(positions), 3*count); err != nil {
		return nil, err
	}
	return s.sortIndices(positions, view, count), nil
}

func (s *Sorter) sortIndices(positions []float32, view ViewMatrix, count int) []uint32 {
	keys := s.keys[:count]
	computeDepthKeys(s.kernel, keys, positions, view.depthAxis(s.translate))
	radix.Sort(s.kernel, keys, s.perm, s.tmpKeys, s.tmpPerm)
	return s.perm[:count:count]
}

// SortAndReorder sorts set for view and returns its attributes gathered
// into back-to-front order. The result aliases the Sorter's scratch.
func (s *Sorter) SortAndReorder(set SplatSet, view ViewMatrix) (SplatSet, error) {
	if err := set.Validate(); err != nil {
		return SplatSet{}, err
	}
	if err := s.checkCapacity(set.Count); err != nil {
		return SplatSet{}, err
	}

	perm := s.sortIndices(set.Positions, view, set.Count)
	out := s.attrScratch(set.Count)
	gather(out, set, perm)
	return out, nil
}

// SortInPlace sorts set for view and overwrites its slices with the
// reordered attributes.
func (s *Sorter) SortInPlace(set SplatSet, view ViewMatrix) error {
	out, err := s.SortAndReorder(set, view)
	if err != nil {
		return err
	}
	copy(set.Positions, out.Positions)
	copy(set.Scales, out.Scales)
	copy(set.Rotations, out.Rotations)
	copy(set.Colors, out.Colors)
	return nil
}

func (s *Sorter) attrScratch(count int) SplatSet {
	if s.attrs.Positions == nil {
		s.attrs = NewSplatSet(s.maxCount)
	}
	return SplatSet{
		Count:     count,
		Positions: s.attrs.Positions[:3*count : 3*count],
		Scales:    s.attrs.Scales[:3*count : 3*count],
		Rotations: s.attrs.Rotations[:4*count : 4*count],
		Colors:    s.attrs.Colors[:4*count : 4*count],
	}
}

package splat

import (
	"sync"
	"sync/atomic"
)

// sorterSizes are the capacity classes of pooled Sorters.
var sorterSizes = []int{
	1 << 10,
	1 << 13,
	1 << 16,
	1 << 18,
	1 << 20,
	1 << 22,
	1 << 24,
}

// SorterPool manages reusable Sorters in capacity classes so repeated
// sorts of similar-sized sets do not reallocate scratch.
//
// Pooled Sorters use SorterOptions{Kernel: KernelAuto}.
type SorterPool struct {
	pools     []*sync.Pool
	allocs    atomic.Int64
	hitCount  atomic.Int64
	missCount atomic.Int64
}

// globalSorterPool backs the package-level pipeline functions.
var globalSorterPool = NewSorterPool()

// NewSorterPool creates an empty pool.
func NewSorterPool() *SorterPool {
	p := &SorterPool{pools: make([]*sync.Pool, len(sorterSizes))}
	for i := range sorterSizes {
		p.pools[i] = &sync.Pool{}
	}
	return p
}

// sorterClass returns the class index for count, or -1 if count is larger
// than every class.
func sorterClass(count int) int {
	for i, s := range sorterSizes {
		if count <= s {
			return i
		}
	}
	return -1
}

// Get returns a Sorter whose MaxCount is at least count. Call Put when
// done with it and every slice it returned.
func (p *SorterPool) Get(count int) (*Sorter, error) {
	if count < 0 {
		return nil, ErrNegativeCount
	}
	p.allocs.Add(1)

	idx := sorterClass(count)
	if idx < 0 {
		p.missCount.Add(1)
		Logger().Debug("splat: unpooled sorter", "count", count)
		return NewSorter(count, nil)
	}

	if s, ok := p.pools[idx].Get().(*Sorter); ok && s != nil {
		p.hitCount.Add(1)
		return s, nil
	}
	p.missCount.Add(1)
	Logger().Debug("splat: sorter pool miss", "count", count, "class", sorterSizes[idx])
	return NewSorter(sorterSizes[idx], nil)
}

// Put returns s to the pool. Sorters whose capacity is not a pool class
// are dropped.
func (p *SorterPool) Put(s *Sorter) {
	if s == nil {
		return
	}
	idx := sorterClass(s.maxCount)
	if idx < 0 || sorterSizes[idx] != s.maxCount || s.translate || s.kernel != KernelAuto.Resolve() {
		return
	}
	p.pools[idx].Put(s)
}

// Stats returns pool statistics: (allocs, hits, misses).
func (p *SorterPool) Stats() (allocs, hits, misses int64) {
	return p.allocs.Load(), p.hitCount.Load(), p.missCount.Load()
}

// ResetStats resets the pool statistics.
func (p *SorterPool) ResetStats() {
	p.allocs.Store(0)
	p.hitCount.Store(0)
	p.missCount.Store(0)
}

// GlobalPoolStats returns statistics for the pool behind SortIndices,
// SortAndReorder and SortViews.
func GlobalPoolStats() (allocs, hits, misses int64) {
	return globalSorterPool.Stats()
}

package splat

import (
	"runtime"
	"slices"
	"sync"
)

// ParallelConfig configures SortViews.
type ParallelConfig struct {
	// NumWorkers is the number of worker goroutines. 0 means runtime.GOMAXPROCS(0).
	NumWorkers int

	// GrainSize is the minimum number of views per worker. With fewer
	// than GrainSize*NumWorkers views the sort runs sequentially.
	GrainSize int
}

// DefaultParallelConfig returns the default parallel configuration.
func DefaultParallelConfig() ParallelConfig {
	return ParallelConfig{
		NumWorkers: 0,
		GrainSize:  1,
	}
}

var (
	parallelConfig   = DefaultParallelConfig()
	parallelConfigMu sync.RWMutex
)

// SetParallelConfig sets the global parallel configuration.
func SetParallelConfig(config ParallelConfig) {
	parallelConfigMu.Lock()
	defer parallelConfigMu.Unlock()
	parallelConfig = config
}

// GetParallelConfig returns the current parallel configuration.
func GetParallelConfig() ParallelConfig {
	parallelConfigMu.RLock()
	defer parallelConfigMu.RUnlock()
	return parallelConfig
}

func effectiveWorkers(config ParallelConfig) int {
	if config.NumWorkers <= 0 {
		return runtime.GOMAXPROCS(0)
	}
	return config.NumWorkers
}

// parallelChunks splits [0, n) into contiguous chunks and runs fn on each,
// concurrently when worthwhile. It returns the first error encountered.
func parallelChunks(n int, fn func(start, end int) error) error {
	config := GetParallelConfig()
	numWorkers := effectiveWorkers(config)

	if n <= config.GrainSize*numWorkers || numWorkers == 1 {
		return fn(0, n)
	}

	var wg sync.WaitGroup
	var errOnce sync.Once
	var firstErr error
	chunkSize := (n + numWorkers - 1) / numWorkers

	for start := 0; start < n; start += chunkSize {
		end := min(start+chunkSize, n)
		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			if err := fn(s, e); err != nil {
				errOnce.Do(func() {
					firstErr = err
				})
			}
		}(start, end)
	}

	wg.Wait()
	return firstErr
}

// SortViews returns the back-to-front permutation of count splats for each
// view. Views are sorted concurrently, each worker on its own pooled
// Sorter; result i equals SortIndices(positions, views[i], count).
func SortViews(positions []float32, views []ViewMatrix, count int) ([][]uint32, error) {
	if count < 0 {
		return nil, ErrNegativeCount
	}
	if err := checkLen("positions", len(positions), 3*count); err != nil {
		return nil, err
	}

	perms := make([][]uint32, len(views))
	err := parallelChunks(len(views), func(start, end int) error {
		s, err := globalSorterPool.Get(count)
		if err != nil {
			return err
		}
		defer globalSorterPool.Put(s)

		for i := start; i < end; i++ {
			perms[i] = slices.Clone(s.sortIndices(positions, views[i], count))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return perms, nil
}

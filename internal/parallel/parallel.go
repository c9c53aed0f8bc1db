// Package parallel splits index ranges across worker goroutines.
package parallel

import (
	"runtime"
	"sync"
)

// Config configures parallel processing behavior.
type Config struct {
	// Workers is the number of worker goroutines. 0 means runtime.GOMAXPROCS(0).
	Workers int

	// Grain is the minimum number of items per worker before work is split.
	// If n < Grain * Workers, the range runs on the calling goroutine.
	Grain int
}

// EffectiveWorkers returns the number of workers c will use.
func (c Config) EffectiveWorkers() int {
	if c.Workers <= 0 {
		return runtime.GOMAXPROCS(0)
	}
	return c.Workers
}

// For calls fn on contiguous, disjoint sub-ranges [start, end) that
// together cover [0, n). Each call runs on its own goroutine unless the
// range is too small to be worth splitting, in which case fn(0, n) runs
// on the caller. For returns after every call has finished.
func For(c Config, n int, fn func(start, end int)) {
	if n <= 0 {
		return
	}
	workers := c.EffectiveWorkers()
	grain := max(c.Grain, 1)

	if workers == 1 || n < grain*workers {
		fn(0, n)
		return
	}

	var wg sync.WaitGroup
	chunkSize := (n + workers - 1) / workers

	for w := 0; w < workers; w++ {
		start := w * chunkSize
		end := min(start+chunkSize, n)
		if start >= end {
			break
		}

		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			fn(s, e)
		}(start, end)
	}

	wg.Wait()
}

package compute

import (
	"fmt"
	"sync"
)

// minChunk keeps small vectors on the calling goroutine; spawning workers
// for a few hundred sites costs more than the sweep itself.
const minChunk = 256

type ParallelBackend struct {
	workers int
}

func NewParallel(workers int) *ParallelBackend {
	return &ParallelBackend{
		workers: defaultWorkers(workers),
	}
}

func (c *ParallelBackend) Name() string {
	return fmt.Sprintf("%s (%d workers)", KindParallel, c.workers)
}

func (c *ParallelBackend) Available() bool { return c.workers > 1 }
func (c *ParallelBackend) Cleanup()        {}

func (c *ParallelBackend) Workers() int { return c.workers }

func (c *ParallelBackend) For(n int, fn func(start, end int)) {
	if n <= 0 {
		return
	}

	workers := c.workers
	if n/minChunk < workers {
		workers = n / minChunk
	}
	if workers <= 1 {
		fn(0, n)
		return
	}

	chunkSize := (n + workers - 1) / workers

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		start := w * chunkSize
		if start >= n {
			break
		}
		end := start + chunkSize
		if end > n {
			end = n
		}

		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			fn(s, e)
		}(start, end)
	}

	wg.Wait()
}

// Public domain.

// Package parallelfor provides the one concurrency idiom the pipeline
// needs: a data-parallel loop over a known range, where each index is
// owned by exactly one goroutine (spec §5, "map over independent
// outputs"). It is the Go rendition of the original's
// "#pragma omp parallel for".
package parallelfor

import (
	"runtime"
	"sync"
)

// Range calls fn(i) for every i in [0, n), splitting the range into
// contiguous chunks across GOMAXPROCS goroutines. fn must only touch
// index i of any shared destination — callers never alias writes across
// goroutines, so no locking is needed inside fn.
func Range(n int, fn func(i int)) {
	if n == 0 {
		return
	}
	workers := runtime.GOMAXPROCS(0)
	if workers > n {
		workers = n
	}
	if workers <= 1 {
		for i := 0; i < n; i++ {
			fn(i)
		}
		return
	}

	chunk := (n + workers - 1) / workers
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		start := w * chunk
		if start >= n {
			break
		}
		end := start + chunk
		if end > n {
			end = n
		}
		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			for i := start; i < end; i++ {
				fn(i)
			}
		}(start, end)
	}
	wg.Wait()
}

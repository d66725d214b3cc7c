// Package parallel bounds the data-parallel loops used across acceleration
// strategies and integrators (§5: "data-parallel
// loops over bodies ... are executed on a work-stealing thread pool").
//
// Grounded on gekko/particles_ecs.go:particlesCollect, which caps a worker
// pool at runtime.GOMAXPROCS(0) (clamped to the job count) and fans work out
// over a channel with a sync.WaitGroup. This package keeps that shape but
// expresses it with golang.org/x/sync/errgroup, since there is no
// teacher-specific result-channel protocol worth preserving here — each
// worker claims an index range rather than reading from a channel, which
// removes the intermediate allocation entirely.
package parallel

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// maxWorkers mirrors the teacher's cap of 8 concurrent workers for
// CPU-bound per-item work, clamped further to GOMAXPROCS.
const maxWorkers = 8

// For runs fn(i) for every i in [0, n) across a bounded worker pool. It
// blocks until every index has been processed (§5: "parallel-for blocks
// until all work items finish"). fn must only touch data at index i or
// data private to its own goroutine — callers are responsible for the
// index-disjoint write discipline described in §5.
func For(n int, fn func(i int)) {
	if n <= 0 {
		return
	}
	workers := runtime.GOMAXPROCS(0)
	if workers > maxWorkers {
		workers = maxWorkers
	}
	if workers > n {
		workers = n
	}
	if workers < 1 {
		workers = 1
	}
	if workers == 1 {
		for i := 0; i < n; i++ {
			fn(i)
		}
		return
	}

	g, _ := errgroup.WithContext(context.Background())
	chunk := (n + workers - 1) / workers
	for w := 0; w < workers; w++ {
		start := w * chunk
		end := start + chunk
		if start >= n {
			break
		}
		if end > n {
			end = n
		}
		g.Go(func() error {
			for i := start; i < end; i++ {
				fn(i)
			}
			return nil
		})
	}
	_ = g.Wait()
}

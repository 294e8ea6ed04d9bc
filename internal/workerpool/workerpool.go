// Copyright 2025 The go-highway Authors. SPDX-License-Identifier: Apache-2.0

// Package workerpool runs independent translation jobs on a fixed set of
// long-lived goroutines.
//
//	pool := workerpool.New(0)
//	defer pool.Close()
//	pool.Each(len(sites), func(i int) { results[i] = translate(sites[i]) })
package workerpool

import (
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
)

// Pool is a persistent worker pool. It is safe for concurrent use; jobs
// submitted from several goroutines interleave on the same workers.
type Pool struct {
	numWorkers int
	jobs       chan job
	closeOnce  sync.Once
	closed     atomic.Bool
}

type job struct {
	run  func()
	done *sync.WaitGroup
}

// New starts a pool with numWorkers goroutines, or GOMAXPROCS when
// numWorkers <= 0.
func New(numWorkers int) *Pool {
	if numWorkers <= 0 {
		numWorkers = runtime.GOMAXPROCS(0)
	}
	p := &Pool{
		numWorkers: numWorkers,
		jobs:       make(chan job, numWorkers*2),
	}
	for range numWorkers {
		go p.loop()
	}
	return p
}

func (p *Pool) loop() {
	for j := range p.jobs {
		j.run()
		j.done.Done()
	}
}

// NumWorkers returns the number of workers in the pool.
func (p *Pool) NumWorkers() int {
	return p.numWorkers
}

// Close stops the workers after pending jobs finish. Later calls run
// sequentially on the caller's goroutine. Close is idempotent.
func (p *Pool) Close() {
	p.closeOnce.Do(func() {
		p.closed.Store(true)
		close(p.jobs)
	})
}

// Each calls fn(i) for every i in [0, n). Workers grab the next index
// atomically, so uneven jobs balance out. Each returns when every call has
// finished. A panic in fn is re-raised on the caller's goroutine after the
// remaining calls complete.
func (p *Pool) Each(n int, fn func(i int)) {
	p.Batched(n, 1, func(start, end int) {
		for i := start; i < end; i++ {
			fn(i)
		}
	})
}

// Batched is like Each but hands out [start, end) ranges of up to size
// indices per grab.
func (p *Pool) Batched(n, size int, fn func(start, end int)) {
	if n <= 0 {
		return
	}
	size = max(size, 1)
	batches := (n + size - 1) / size
	workers := min(p.numWorkers, batches)

	if workers == 1 || p.closed.Load() {
		fn(0, n)
		return
	}

	var (
		next     atomic.Int64
		wg       sync.WaitGroup
		pmu      sync.Mutex
		panicV   any
		panicked bool
	)
	work := func() {
		defer func() {
			if r := recover(); r != nil {
				pmu.Lock()
				if !panicked {
					panicV, panicked = r, true
				}
				pmu.Unlock()
			}
		}()
		for {
			start := int(next.Add(1)-1) * size
			if start >= n {
				return
			}
			fn(start, min(start+size, n))
		}
	}

	wg.Add(workers)
	for range workers {
		p.jobs <- job{run: work, done: &wg}
	}
	wg.Wait()

	if panicked {
		panic(fmt.Sprintf("workerpool: job panicked: %v", panicV))
	}
}

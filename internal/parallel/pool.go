// Package parallel provides the bounded worker pool used for per-file batch
// work and for splitting the dense table build into independent slices.
package parallel

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"sync"
	"sync/atomic"
)

// PanicError is returned for a task that panicked. The panic is contained to
// that task; sibling tasks keep running.
type PanicError struct {
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("parallel: task panicked: %v", e.Value)
}

// WorkerPool is a fixed set of goroutines pulling tasks from a shared queue.
//
// Tasks are independent: there is no cancellation, and a failing or panicking
// task never affects the others.
//
// Thread safety: WorkerPool is safe for concurrent use.
type WorkerPool struct {
	// workers is the number of worker goroutines.
	workers int

	// tasks is the shared queue. Closing it stops the workers.
	tasks chan func()

	// wg waits for all workers to finish.
	wg sync.WaitGroup

	// running indicates whether the pool is accepting work.
	running atomic.Bool

	// closeMu orders Close against in-flight sends on tasks.
	closeMu sync.RWMutex
}

// NewWorkerPool creates a new worker pool with the specified number of workers.
// If workers is 0 or negative, GOMAXPROCS is used.
// The pool starts immediately and workers begin waiting for work.
func NewWorkerPool(workers int) *WorkerPool {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	p := &WorkerPool{
		workers: workers,
		tasks:   make(chan func(), workers*4),
	}
	p.running.Store(true)

	p.wg.Add(workers)
	for range workers {
		go p.worker()
	}

	return p
}

// worker is the main loop for each worker goroutine.
func (p *WorkerPool) worker() {
	defer p.wg.Done()
	for fn := range p.tasks {
		fn()
	}
}

// Run executes every task and waits for all of them. The returned slice has
// one entry per task, in task order; a panicking task yields a *PanicError.
// If the pool is closed, tasks run sequentially on the calling goroutine.
// Run must not be called from inside a task of the same pool.
func (p *WorkerPool) Run(work []func() error) []error {
	errs := make([]error, len(work))
	if len(work) == 0 {
		return errs
	}

	var completion sync.WaitGroup
	completion.Add(len(work))

	p.closeMu.RLock()
	defer p.closeMu.RUnlock()

	for i, fn := range work {
		task := func() {
			defer completion.Done()
			errs[i] = protect(fn)
		}

		if p.running.Load() {
			p.tasks <- task
		} else {
			task()
		}
	}

	completion.Wait()
	return errs
}

// ForEach calls fn(i) for i in [0, n) across the pool and waits.
// Panics inside fn are re-raised on the caller once all calls finish.
func (p *WorkerPool) ForEach(n int, fn func(i int)) {
	work := make([]func() error, n)
	for i := range work {
		work[i] = func() error {
			fn(i)
			return nil
		}
	}
	for _, err := range p.Run(work) {
		if err != nil {
			panic(err)
		}
	}
}

// protect runs fn, converting a panic into a *PanicError.
func protect(fn func() error) (err error) {
	defer func() {
		if v := recover(); v != nil {
			err = &PanicError{Value: v, Stack: debug.Stack()}
		}
	}()
	return fn()
}

// Close stops accepting work and waits for queued tasks to finish.
// Close is safe to call multiple times.
func (p *WorkerPool) Close() {
	if !p.running.CompareAndSwap(true, false) {
		return
	}

	p.closeMu.Lock()
	close(p.tasks)
	p.closeMu.Unlock()

	p.wg.Wait()
}

// Workers returns the number of workers in the pool.
func (p *WorkerPool) Workers() int {
	return p.workers
}

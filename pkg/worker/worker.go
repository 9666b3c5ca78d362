package worker

import (
	"context"
	"sync"

	"github.com/nimasrn/seller-crm/pkg/logger"
)

type Handler[T any] func(workerIndex int, job T)

// Pool fans jobs out to a fixed number of goroutines. Jobs are consumed
// until Close is called and the buffer is drained.
type Pool[T any] struct {
	jobs    chan T
	workers int
	do      Handler[T]
	waiter  sync.WaitGroup
	once    sync.Once
}

func NewPool[T any](bufferSize, workers int, do Handler[T]) *Pool[T] {
	if workers < 1 {
		workers = 1
	}
	return &Pool[T]{
		jobs:    make(chan T, bufferSize),
		workers: workers,
		do:      do,
	}
}

// Start launches the workers and returns immediately.
func (p *Pool[T]) Start() {
	p.waiter.Add(p.workers)
	for i := 0; i < p.workers; i++ {
		go func(index int) {
			defer p.waiter.Done()
			for job := range p.jobs {
				p.do(index, job)
			}
		}(i)
	}
	logger.Debug("[worker] pool started", "workers", p.workers, "buffer", cap(p.jobs))
}

// Enqueue blocks until a worker or the buffer accepts job, or ctx is done.
// It must not be called after Close.
func (p *Pool[T]) Enqueue(ctx context.Context, job T) error {
	select {
	case p.jobs <- job:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Pending returns the number of buffered jobs not yet picked up.
func (p *Pool[T]) Pending() int {
	return len(p.jobs)
}

// Close stops accepting jobs and waits for the queued ones to finish.
func (p *Pool[T]) Close() {
	p.once.Do(func() {
		close(p.jobs)
	})
	p.waiter.Wait()
	logger.Debug("[worker] pool drained")
}

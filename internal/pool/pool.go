// Package pool provides a fixed-size task execution pool shared by the
// refresh orchestrator and the on-demand detail lookup path.
package pool

import (
	"context"
	"sync"
)

const defaultSize = 10

// Task is a unit of work executed by the pool.
type Task func()

// Pool executes submitted tasks on a fixed number of worker goroutines. It is
// constructed explicitly and passed by reference; there is no ambient global
// pool. Submit must not be called after Close.
type Pool struct {
	tasks chan Task
	wg    sync.WaitGroup
	once  sync.Once
	size  int
}

// New creates a pool with the given number of workers.
func New(size int) *Pool {
	if size <= 0 {
		size = defaultSize
	}
	p := &Pool{
		tasks: make(chan Task),
		size:  size,
	}
	p.wg.Add(size)
	for i := 0; i < size; i++ {
		go p.worker()
	}
	return p
}

func (p *Pool) worker() {
	defer p.wg.Done()
	for task := range p.tasks {
		task()
	}
}

// Submit hands a task to the pool, blocking until a worker accepts it or the
// context is cancelled.
func (p *Pool) Submit(ctx context.Context, task Task) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case p.tasks <- task:
		return nil
	}
}

// Size returns the configured worker count.
func (p *Pool) Size() int {
	return p.size
}

// Close stops accepting tasks and waits for in-flight tasks to finish.
func (p *Pool) Close() {
	p.once.Do(func() {
		close(p.tasks)
	})
	p.wg.Wait()
}

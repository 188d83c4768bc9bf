package pool

import (
	"context"
	"flag"
	"sync"

	"golang.org/x/sync/semaphore"
)

var poolSize = flag.Int("pool.size", 64, "max number of measurement tasks running at once")

// Scheduler runs units of work asynchronously.
type Scheduler interface {
	Go(task func())
}

// Pool is a bounded worker pool. Tasks beyond the bound queue on their own
// goroutine until a slot frees up, so Go never blocks the caller.
type Pool struct {
	sem *semaphore.Weighted
	wg  sync.WaitGroup
}

var (
	sharedOnce sync.Once
	shared     *Pool
)

// Shared returns the process-wide pool sized from -pool.size.
func Shared() *Pool {
	sharedOnce.Do(func() {
		shared = New(*poolSize)
	})
	return shared
}

func New(size int) *Pool {
	if size < 1 {
		size = 1
	}
	return &Pool{
		sem: semaphore.NewWeighted(int64(size)),
	}
}

func (p *Pool) Go(task func()) {
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()

		// background context never cancels, Acquire only returns once a slot is free
		if err := p.sem.Acquire(context.Background(), 1); err != nil {
			return
		}
		defer p.sem.Release(1)

		task()
	}()
}

// Wait blocks until every scheduled task has returned.
func (p *Pool) Wait() {
	p.wg.Wait()
}

// Package worker provides a small bounded worker pool used for
// concurrent aggregate computation against the read-only corpus.
package worker

import (
	"context"
	"sync"
)

// Job is a unit of work.
type Job interface {
	Execute(ctx context.Context) Result
}

// Result is the outcome of one job.
type Result interface {
	GetError() error
}

// Pool runs each submitted job on its own goroutine, with at most the
// configured number executing at once.
type Pool struct {
	sem    chan struct{}
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu      sync.Mutex
	results []Result
}

// NewPool creates a pool with the given concurrency limit (minimum 1).
func NewPool(workers int) *Pool {
	if workers <= 0 {
		workers = 1
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Pool{
		sem:    make(chan struct{}, workers),
		ctx:    ctx,
		cancel: cancel,
	}
}

// Submit schedules a job. Submissions after Shutdown are dropped.
func (p *Pool) Submit(job Job) {
	select {
	case <-p.ctx.Done():
		return
	default:
	}
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		select {
		case p.sem <- struct{}{}:
		case <-p.ctx.Done():
			return
		}
		defer func() { <-p.sem }()

		res := job.Execute(p.ctx)
		p.mu.Lock()
		p.results = append(p.results, res)
		p.mu.Unlock()
	}()
}

// Wait blocks until every submitted job has finished and returns the
// collected results in completion order.
func (p *Pool) Wait() []Result {
	p.wg.Wait()
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.results
}

// Shutdown cancels queued work and waits for running jobs to return.
func (p *Pool) Shutdown() {
	p.cancel()
	p.wg.Wait()
}

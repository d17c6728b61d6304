// Package workerpool bridges the registry's synchronous database/sql
// calls onto a bounded number of concurrent checkouts, independent of
// how many SSH sessions gliderlabs/ssh has spawned goroutines for.
package workerpool

import (
	"context"

	"golang.org/x/sync/semaphore"
)

// Pool caps how many blocking tasks may run concurrently.
type Pool struct {
	sem *semaphore.Weighted
}

// New returns a Pool that allows at most size concurrent tasks.
func New(size int64) *Pool {
	if size <= 0 {
		size = 1
	}
	return &Pool{sem: semaphore.NewWeighted(size)}
}

// Submit runs fn once a slot is free, blocking the caller's goroutine
// until either a slot opens or ctx is canceled. If ctx is canceled
// before a slot opens, Submit returns ctx.Err() without running fn. A
// task already running is allowed to finish; its result is discarded
// by the caller if ctx was canceled in the meantime.
func Submit[T any](ctx context.Context, p *Pool, fn func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	if err := p.sem.Acquire(ctx, 1); err != nil {
		return zero, err
	}
	defer p.sem.Release(1)
	return fn(ctx)
}

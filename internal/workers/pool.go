// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package workers

import (
	"context"
	"errors"
	"sync"

	"golang.org/x/sync/semaphore"
)

// ErrPoolClosed is returned for tasks submitted after [Pool.Close].
var ErrPoolClosed = errors.New("worker pool closed")

// Pool runs tasks on goroutines with at most size of them executing at the
// same time. Go never blocks the caller.
type Pool struct {
	sem *semaphore.Weighted

	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup
}

// NewPool returns a pool executing at most size tasks concurrently. A
// non-positive size means 1.
func NewPool(size int) *Pool {
	if size <= 0 {
		size = 1
	}
	return &Pool{sem: semaphore.NewWeighted(int64(size))}
}

// Go schedules task. The task waits for a free slot; if ctx is done before
// a slot frees up, task is called with the context error instead of
// running its body, so every accepted task is called exactly once.
func (p *Pool) Go(ctx context.Context, task func(ctx context.Context, err error)) error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return ErrPoolClosed
	}
	p.wg.Add(1)
	p.mu.Unlock()

	go func() {
		defer p.wg.Done()

		if err := p.sem.Acquire(ctx, 1); err != nil {
			task(ctx, err)
			return
		}
		defer p.sem.Release(1)

		task(ctx, nil)
	}()
	return nil
}

// Close rejects new tasks and waits for the accepted ones to finish.
func (p *Pool) Close() {
	p.mu.Lock()
	p.closed = true
	p.mu.Unlock()

	p.wg.Wait()
}

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package workers

import "context"

// Callback receives the outcome of an asynchronous operation.
type Callback[T any] func(value T, err error)

// Submit runs fn on pool and returns a future of its outcome. When cb is
// not nil it is delivered on exec (Inline when exec is nil) after the
// future completes.
//
// The future fails with [ErrPoolClosed] when the pool no longer accepts
// work and with the context error when ctx is done before fn started.
func Submit[T any](ctx context.Context, pool *Pool, exec Executor, fn func(ctx context.Context) (T, error), cb Callback[T]) *Future[T] {
	if exec == nil {
		exec = Inline
	}

	f := newFuture[T]()
	finish := func(value T, err error) {
		f.complete(value, err)
		if cb != nil {
			exec.Execute(func() { cb(value, err) })
		}
	}

	err := pool.Go(ctx, func(ctx context.Context, err error) {
		if err != nil {
			var zero T
			finish(zero, err)
			return
		}
		finish(fn(ctx))
	})
	if err != nil {
		var zero T
		finish(zero, err)
	}
	return f
}

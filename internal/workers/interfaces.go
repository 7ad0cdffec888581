// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package workers provides the concurrency primitives of the engine.
//
// It defines the Worker interface and a Workers aggregate that runs several
// long-lived workers together, a bounded task [Pool], generic [Future]
// values and [Executor] implementations that decide where completion
// callbacks are delivered. [Submit] ties them together: it runs a blocking
// core on the pool and hands the result to a callback on the executor.
package workers

import "context"

// Worker is the interface that must be implemented by any long-lived
// background worker. Run blocks until ctx is done or the worker fails.
//
// Example implementation:
//
//	type MyWorker struct{}
//
//	func (w *MyWorker) Run(ctx context.Context) error {
//	    <-ctx.Done()
//	    return nil
//	}
type Worker interface {
	Run(ctx context.Context) error
}

// WorkerFunc adapts a plain function to [Worker].
type WorkerFunc func(ctx context.Context) error

// Run implements [Worker].
func (f WorkerFunc) Run(ctx context.Context) error {
	return f(ctx)
}

// Executor runs completion callbacks. Implementations decide on which
// goroutine the callback runs.
type Executor interface {
	Execute(fn func())
}

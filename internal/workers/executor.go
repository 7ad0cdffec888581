// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package workers

import "sync"

// Inline runs callbacks on the goroutine that completed the task.
var Inline Executor = ExecutorFunc(func(fn func()) { fn() })

// ExecutorFunc adapts a function to [Executor].
type ExecutorFunc func(fn func())

// Execute implements [Executor].
func (f ExecutorFunc) Execute(fn func()) {
	f(fn)
}

// SerialExecutor delivers callbacks one at a time and in submission order
// on a single goroutine, so callbacks never race with each other. The console
// binary delivers the engine's async callbacks on one.
//
// Close must come after the producers stopped: a callback submitted after
// Close is dropped and never runs. Execute reports that with its result.
type SerialExecutor struct {
	mu     sync.Mutex
	cond   *sync.Cond
	queue  []func()
	closed bool
	done   chan struct{}
}

func NewSerialExecutor() *SerialExecutor {
	e := &SerialExecutor{done: make(chan struct{})}
	e.cond = sync.NewCond(&e.mu)
	go e.loop()
	return e
}

// Execute implements [Executor]. It never blocks.
func (e *SerialExecutor) Execute(fn func()) {
	e.TryExecute(fn)
}

// TryExecute queues fn and reports whether it will run; it is false once
// the executor is closed.
func (e *SerialExecutor) TryExecute(fn func()) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return false
	}
	e.queue = append(e.queue, fn)
	e.cond.Signal()
	return true
}

// Close delivers the callbacks already queued and stops the goroutine.
func (e *SerialExecutor) Close() {
	e.mu.Lock()
	e.closed = true
	e.cond.Signal()
	e.mu.Unlock()

	<-e.done
}

func (e *SerialExecutor) loop() {
	defer close(e.done)
	for {
		e.mu.Lock()
		for len(e.queue) == 0 && !e.closed {
			e.cond.Wait()
		}
		if len(e.queue) == 0 {
			e.mu.Unlock()
			return
		}
		fn := e.queue[0]
		e.queue[0] = nil
		e.queue = e.queue[1:]
		e.mu.Unlock()

		fn()
	}
}

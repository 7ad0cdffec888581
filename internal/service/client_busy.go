// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import "sync"

type busyKind int

const (
	busyPush busyKind = iota
	busyPull
)

// busyRegistry tracks the push and pull cycles in flight per collection.
// One registry is shared by every store of an engine.
type busyRegistry struct {
	mu       sync.Mutex
	inFlight map[busyKind]map[string]struct{}
}

func newBusyRegistry() *busyRegistry {
	return &busyRegistry{inFlight: map[busyKind]map[string]struct{}{
		busyPush: {},
		busyPull: {},
	}}
}

// acquire marks kind as running for collection. A second acquire for the
// same pair fails until release is called.
func (b *busyRegistry) acquire(kind busyKind, collection string) (release func(), err error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	running := b.inFlight[kind]
	if _, ok := running[collection]; ok {
		if kind == busyPush {
			return nil, ErrPushInProgress
		}
		return nil, ErrPullInProgress
	}
	running[collection] = struct{}{}

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			delete(running, collection)
			b.mu.Unlock()
		})
	}, nil
}

func (b *busyRegistry) busy(kind busyKind, collection string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, ok := b.inFlight[kind][collection]
	return ok
}

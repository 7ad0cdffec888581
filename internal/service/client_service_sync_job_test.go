// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-sync-store/internal/logger"
	"github.com/MKhiriev/go-sync-store/models"
)

// spyStore counts Push and Pull calls. Methods it does not override panic
// through the nil embedded interface.
type spyStore struct {
	DataStore

	collection string
	mode       models.StoreMode

	pushResult models.PushResult
	pushErr    error
	pullErr    error

	pushes   atomic.Int64
	pulls    atomic.Int64
	pageSize atomic.Int64
}

func (s *spyStore) Collection() string     { return s.collection }
func (s *spyStore) Mode() models.StoreMode { return s.mode }

func (s *spyStore) Push(context.Context) (models.PushResult, error) {
	s.pushes.Add(1)
	return s.pushResult, s.pushErr
}

func (s *spyStore) Pull(_ context.Context, _ models.Query, pageSize int) (models.PullResult, error) {
	s.pulls.Add(1)
	s.pageSize.Store(int64(pageSize))
	return models.PullResult{Count: 1, Pages: 1}, s.pullErr
}

type storeList []DataStore

func (l storeList) Stores() []DataStore { return l }

// recordingListener keeps the events in the order they were fired.
type recordingListener struct {
	mu     sync.Mutex
	events []string
}

func (l *recordingListener) add(event string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, event)
}

func (l *recordingListener) Events() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.events...)
}

func (l *recordingListener) OnPushStarted(c string)                       { l.add("push-start:" + c) }
func (l *recordingListener) OnPushFinished(c string, _ models.PushResult) { l.add("push-done:" + c) }
func (l *recordingListener) OnPullStarted(c string)                       { l.add("pull-start:" + c) }
func (l *recordingListener) OnPullFinished(c string, _ models.PullResult) { l.add("pull-done:" + c) }
func (l *recordingListener) OnFailure(c string, _ error)                  { l.add("failure:" + c) }

func newSpy(collection string, mode models.StoreMode) *spyStore {
	return &spyStore{collection: collection, mode: mode}
}

// ── RunOnce ──────────────────────────────────────────────────────────────────

func TestClientSyncJob_RunOnce_PushesThenPulls(t *testing.T) {
	notes := newSpy("notes", models.StoreModeSync)
	listener := &recordingListener{}
	job := NewClientSyncJob(storeList{notes}, listener, 50, logger.Nop())

	job.RunOnce(context.Background())

	assert.Equal(t, int64(1), notes.pushes.Load())
	assert.Equal(t, int64(1), notes.pulls.Load())
	assert.Equal(t, int64(50), notes.pageSize.Load())
	assert.Equal(t, []string{
		"push-start:notes", "push-done:notes", "pull-start:notes", "pull-done:notes",
	}, listener.Events())
}

func TestClientSyncJob_RunOnce_SkipsNetworkStoresAndDuplicates(t *testing.T) {
	remoteOnly := newSpy("events", models.StoreModeNetwork)
	syncNotes := newSpy("notes", models.StoreModeSync)
	cacheNotes := newSpy("notes", models.StoreModeCache)
	tasks := newSpy("tasks", models.StoreModeAuto)

	job := NewClientSyncJob(storeList{remoteOnly, syncNotes, cacheNotes, tasks}, nil, 10, logger.Nop())
	job.RunOnce(context.Background())

	assert.Zero(t, remoteOnly.pushes.Load())
	assert.Equal(t, int64(1), syncNotes.pushes.Load())
	assert.Zero(t, cacheNotes.pushes.Load(), "a collection is synced once")
	assert.Equal(t, int64(1), tasks.pushes.Load())
}

func TestClientSyncJob_RunOnce_PushErrorsSkipPull(t *testing.T) {
	tests := []struct {
		name   string
		store  *spyStore
		events []string
	}{
		{
			name: "item errors",
			store: &spyStore{collection: "notes", mode: models.StoreModeSync, pushResult: models.PushResult{
				Errors: []models.BatchItemError{{Index: 0, Code: models.CodeNetworkUnreachable}},
			}},
			events: []string{"push-start:notes", "push-done:notes"},
		},
		{
			name:   "push refused",
			store:  &spyStore{collection: "notes", mode: models.StoreModeSync, pushErr: ErrPushInProgress},
			events: []string{"push-start:notes", "failure:notes"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			listener := &recordingListener{}
			job := NewClientSyncJob(storeList{tt.store}, listener, 10, logger.Nop())

			job.RunOnce(context.Background())

			assert.Zero(t, tt.store.pulls.Load())
			assert.Equal(t, tt.events, listener.Events())
		})
	}
}

func TestClientSyncJob_RunOnce_PullFailureIsReported(t *testing.T) {
	notes := &spyStore{collection: "notes", mode: models.StoreModeSync, pullErr: ErrPendingSyncItems}
	tasks := newSpy("tasks", models.StoreModeSync)
	listener := &recordingListener{}

	job := NewClientSyncJob(storeList{notes, tasks}, listener, 10, logger.Nop())
	job.RunOnce(context.Background())

	events := listener.Events()
	assert.Contains(t, events, "failure:notes")
	assert.Contains(t, events, "pull-done:tasks", "one failing store does not stop the round")
}

func TestClientSyncJob_RunOnce_CancelledContext(t *testing.T) {
	notes := newSpy("notes", models.StoreModeSync)
	job := NewClientSyncJob(storeList{notes}, nil, 10, logger.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	job.RunOnce(ctx)

	assert.Zero(t, notes.pushes.Load())
}

// ── Start / Stop ─────────────────────────────────────────────────────────────

func TestClientSyncJob_Start_SyncsPeriodically(t *testing.T) {
	notes := newSpy("notes", models.StoreModeSync)
	job := NewClientSyncJob(storeList{notes}, nil, 10, logger.Nop())

	job.Start(context.Background(), 10*time.Millisecond)
	time.Sleep(55 * time.Millisecond)
	job.Stop()

	got := notes.pushes.Load()
	assert.GreaterOrEqual(t, got, int64(3), "expected several rounds, got %d", got)
}

func TestClientSyncJob_Stop_StopsGoroutine(t *testing.T) {
	notes := newSpy("notes", models.StoreModeSync)
	job := NewClientSyncJob(storeList{notes}, nil, 10, logger.Nop())

	job.Start(context.Background(), 10*time.Millisecond)
	time.Sleep(30 * time.Millisecond)
	job.Stop()

	callsAfterStop := notes.pushes.Load()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, callsAfterStop, notes.pushes.Load(), "no rounds after Stop")
}

func TestClientSyncJob_Stop_Idempotent(t *testing.T) {
	job := NewClientSyncJob(storeList{}, nil, 10, logger.Nop())
	assert.NotPanics(t, func() { job.Stop() })

	job.Start(context.Background(), 10*time.Millisecond)
	job.Stop()
	assert.NotPanics(t, func() { job.Stop() })
}

func TestClientSyncJob_Start_DefaultInterval(t *testing.T) {
	for _, interval := range []time.Duration{0, -time.Second} {
		notes := newSpy("notes", models.StoreModeSync)
		job := NewClientSyncJob(storeList{notes}, nil, 10, logger.Nop())

		job.Start(context.Background(), interval)
		time.Sleep(20 * time.Millisecond)
		job.Stop()

		assert.Zero(t, notes.pushes.Load(), "interval %v falls back to %v", interval, DefaultSyncInterval)
	}
}

func TestClientSyncJob_Restart_KeepsSyncing(t *testing.T) {
	notes := newSpy("notes", models.StoreModeSync)
	job := NewClientSyncJob(storeList{notes}, nil, 10, logger.Nop())
	ctx := context.Background()

	job.Start(ctx, 10*time.Millisecond)
	time.Sleep(30 * time.Millisecond)
	before := notes.pushes.Load()
	require.Greater(t, before, int64(0))

	job.Start(ctx, 10*time.Millisecond)
	time.Sleep(30 * time.Millisecond)
	job.Stop()

	assert.Greater(t, notes.pushes.Load(), before)
}

func TestClientSyncJob_ContextCancel_StopsJob(t *testing.T) {
	job := NewClientSyncJob(storeList{newSpy("notes", models.StoreModeSync)}, nil, 10, logger.Nop())
	ctx, cancel := context.WithCancel(context.Background())

	job.Start(ctx, 10*time.Millisecond)
	time.Sleep(30 * time.Millisecond)
	cancel()

	done := make(chan struct{})
	go func() {
		job.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Stop hung after context cancellation")
	}
}

func TestClientSyncJob_Run_ReturnsOnCancel(t *testing.T) {
	job := NewClientSyncJob(storeList{}, nil, 10, logger.Nop())
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	require.NoError(t, job.Run(ctx, 5*time.Millisecond))
}

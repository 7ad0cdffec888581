// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"sync"
	"time"

	"github.com/MKhiriev/go-sync-store/internal/logger"
	"github.com/MKhiriev/go-sync-store/models"
)

// DefaultSyncInterval is used when a job is started without interval.
const DefaultSyncInterval = 5 * time.Minute

type storeLister interface {
	Stores() []DataStore
}

type clientSyncJob struct {
	stores   storeLister
	listener SyncListener
	pageSize int
	logger   *logger.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewClientSyncJob creates a job that syncs every store listed by stores.
// NETWORK stores are skipped; a collection opened in several modes is
// synced once. The job is idle until Start or Run is called.
func NewClientSyncJob(stores storeLister, listener SyncListener, pageSize int, logger *logger.Logger) ClientSyncJob {
	if listener == nil {
		listener = nopSyncListener{}
	}
	return &clientSyncJob{stores: stores, listener: listener, pageSize: pageSize, logger: logger}
}

// Start implements ClientSyncJob. It stops any previously running job, then
// launches a background goroutine that syncs every interval.
func (j *clientSyncJob) Start(ctx context.Context, interval time.Duration) {
	j.Stop()

	j.mu.Lock()
	jobCtx, cancel := context.WithCancel(ctx)
	j.cancel = cancel
	j.wg.Add(1)
	j.mu.Unlock()

	go func() {
		defer j.wg.Done()
		_ = j.Run(jobCtx, interval)
	}()
}

// Run implements ClientSyncJob.
func (j *clientSyncJob) Run(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		interval = DefaultSyncInterval
	}

	t := time.NewTicker(interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-t.C:
			j.RunOnce(ctx)
		}
	}
}

// RunOnce implements ClientSyncJob. Stores are synced one after another.
func (j *clientSyncJob) RunOnce(ctx context.Context) {
	seen := make(map[string]struct{})
	for _, ds := range j.stores.Stores() {
		if ctx.Err() != nil {
			return
		}
		if !ds.Mode().UsesCache() {
			continue
		}
		if _, ok := seen[ds.Collection()]; ok {
			continue
		}
		seen[ds.Collection()] = struct{}{}

		j.syncStore(ctx, ds)
	}
}

func (j *clientSyncJob) syncStore(ctx context.Context, ds DataStore) {
	collection := ds.Collection()
	log := j.logger.WithCollection(collection)

	j.listener.OnPushStarted(collection)
	pushed, err := ds.Push(ctx)
	if err != nil {
		log.Err(err).Str("func", "clientSyncJob.syncStore").Msg("push failed")
		j.listener.OnFailure(collection, err)
		return
	}
	j.listener.OnPushFinished(collection, pushed)
	if pushed.HaveErrors() {
		log.Warn().Int("errors", len(pushed.Errors)).Msg("pull skipped, items left in queue")
		return
	}

	j.listener.OnPullStarted(collection)
	pulled, err := ds.Pull(ctx, models.Query{}, j.pageSize)
	if err != nil {
		log.Err(err).Str("func", "clientSyncJob.syncStore").Msg("pull failed")
		j.listener.OnFailure(collection, err)
		return
	}
	j.listener.OnPullFinished(collection, pulled)

	log.Debug().Int("pushed", pushed.SuccessCount).Int("pulled", pulled.Count).Msg("collection synced")
}

// Stop implements ClientSyncJob. It cancels the background goroutine's context and
// blocks until the goroutine has fully exited. Safe to call when the job is not
// running (no-op in that case).
func (j *clientSyncJob) Stop() {
	j.mu.Lock()
	cancel := j.cancel
	j.cancel = nil
	j.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	j.wg.Wait()
}

type nopSyncListener struct{}

func (nopSyncListener) OnPushStarted(string)                    {}
func (nopSyncListener) OnPushFinished(string, models.PushResult) {}
func (nopSyncListener) OnPullStarted(string)                    {}
func (nopSyncListener) OnPullFinished(string, models.PullResult) {}
func (nopSyncListener) OnFailure(string, error)                 {}

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"cmp"
	"fmt"
	"slices"
	"sync"

	"github.com/MKhiriev/go-sync-store/internal/adapter"
	"github.com/MKhiriev/go-sync-store/internal/config"
	"github.com/MKhiriev/go-sync-store/internal/logger"
	"github.com/MKhiriev/go-sync-store/internal/store"
	"github.com/MKhiriev/go-sync-store/internal/utils"
	"github.com/MKhiriev/go-sync-store/internal/workers"
	"github.com/MKhiriev/go-sync-store/models"
)

// ClientOption customizes [NewClientServices].
type ClientOption func(*clientOptions)

type clientOptions struct {
	resolver ConflictResolver
	executor workers.Executor
	listener SyncListener
}

// WithConflictResolver replaces [LastWriteWins].
func WithConflictResolver(r ConflictResolver) ClientOption {
	return func(o *clientOptions) { o.resolver = r }
}

// WithExecutor sets where async callbacks are delivered. They run inline on
// the worker by default.
func WithExecutor(e workers.Executor) ClientOption {
	return func(o *clientOptions) { o.executor = e }
}

// WithSyncListener receives the events of the background sync job.
func WithSyncListener(l SyncListener) ClientOption {
	return func(o *clientOptions) { o.listener = l }
}

type storeKey struct {
	collection string
	mode       models.StoreMode
}

// ClientServices is the sync engine of one client. Stores opened from it
// share its cache, queue, busy registry and worker pool.
type ClientServices struct {
	Files   FileTransferManager
	SyncJob ClientSyncJob

	cfg  *config.ClientConfig
	deps storeDeps

	mu     sync.Mutex
	stores map[storeKey]*dataStore
	closed bool
}

func NewClientServices(storages *store.ClientStorages, remote adapter.RemoteService, cfg *config.ClientConfig,
	logger *logger.Logger, opts ...ClientOption) *ClientServices {
	o := clientOptions{resolver: LastWriteWins, executor: workers.Inline}
	for _, opt := range opts {
		opt(&o)
	}

	poolSize := cfg.Workers.PoolSize
	if poolSize <= 0 {
		poolSize = config.DefaultPoolSize
	}
	pool := workers.NewPool(poolSize)
	busy := newBusyRegistry()

	s := &ClientServices{
		cfg: cfg,
		deps: storeDeps{
			cache:    storages.Cache,
			queue:    storages.Queue,
			remote:   remote,
			push:     newPushExecutor(storages.Cache, storages.Queue, remote, o.resolver, busy, cfg.Sync, logger),
			pull:     newPullExecutor(storages.Cache, storages.Queue, remote, busy, cfg.Sync, logger),
			ids:      utils.NewUUIDGenerator(),
			pool:     pool,
			executor: o.executor,
			cfg:      cfg.Sync,
			logger:   logger,
		},
		stores: make(map[storeKey]*dataStore),
	}
	s.Files = NewFileTransferManager(remote, cfg.Transfer, pool, o.executor, logger)
	s.SyncJob = NewClientSyncJob(s, o.listener, cfg.Sync.PageSize, logger)

	return s
}

// Store opens a configured collection in its configured mode.
func (s *ClientServices) Store(collection string) (DataStore, error) {
	c, ok := s.cfg.Collection(collection)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCollection, collection)
	}
	mode := c.Mode
	if mode == "" {
		mode = models.StoreModeSync
	}
	return s.OpenStore(collection, mode)
}

// OpenStore opens collection in mode. Opening the same pair twice returns
// the same store.
func (s *ClientServices) OpenStore(collection string, mode models.StoreMode) (DataStore, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, ErrEngineClosed
	}

	key := storeKey{collection: collection, mode: mode}
	if ds, ok := s.stores[key]; ok {
		return ds, nil
	}

	ds, err := newDataStore(collection, mode, s.deps)
	if err != nil {
		return nil, err
	}
	s.stores[key] = ds
	return ds, nil
}

// Stores returns the opened stores ordered by collection.
func (s *ClientServices) Stores() []DataStore {
	s.mu.Lock()
	defer s.mu.Unlock()

	stores := make([]*dataStore, 0, len(s.stores))
	for _, ds := range s.stores {
		stores = append(stores, ds)
	}
	slices.SortFunc(stores, func(a, b *dataStore) int {
		if c := cmp.Compare(a.collection, b.collection); c != 0 {
			return c
		}
		return cmp.Compare(a.mode, b.mode)
	})

	out := make([]DataStore, len(stores))
	for i, ds := range stores {
		out[i] = ds
	}
	return out
}

// OpenConfigured opens every collection of the configuration.
func (s *ClientServices) OpenConfigured() ([]DataStore, error) {
	stores := make([]DataStore, 0, len(s.cfg.Sync.Collections))
	for _, c := range s.cfg.Sync.Collections {
		ds, err := s.Store(c.Name)
		if err != nil {
			return nil, err
		}
		stores = append(stores, ds)
	}
	return stores, nil
}

// Close stops the sync job and the worker pool. Stores stay usable for
// synchronous calls; async calls fail with [workers.ErrPoolClosed].
func (s *ClientServices) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.mu.Unlock()

	s.SyncJob.Stop()
	s.deps.pool.Close()
}

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/MKhiriev/go-sync-store/internal/adapter"
	"github.com/MKhiriev/go-sync-store/internal/config"
	"github.com/MKhiriev/go-sync-store/internal/logger"
	"github.com/MKhiriev/go-sync-store/internal/store"
	"github.com/MKhiriev/go-sync-store/internal/utils"
	"github.com/MKhiriev/go-sync-store/internal/workers"
	"github.com/MKhiriev/go-sync-store/models"
)

// modePolicy is one row of the mode table.
type modePolicy struct {
	save  func(s *dataStore, ctx context.Context, entities []models.Entity) (models.BatchSaveResult, error)
	del   func(s *dataStore, ctx context.Context, ids []string) (models.BatchDeleteResult, error)
	find  func(s *dataStore, ctx context.Context, id string) (models.Entity, error)
	query func(s *dataStore, ctx context.Context, q models.Query, opts FindOptions) (models.QueryResponse, error)
	count func(s *dataStore, ctx context.Context, filter models.Filter) (int, error)

	// local is set for modes that own a cache and a queue.
	local bool
}

var modePolicies = map[models.StoreMode]modePolicy{
	models.StoreModeNetwork: {
		save:  (*dataStore).saveRemote,
		del:   (*dataStore).deleteRemote,
		find:  (*dataStore).findRemote,
		query: (*dataStore).queryRemote,
		count: (*dataStore).countRemote,
	},
	models.StoreModeSync: {
		save:  (*dataStore).saveLocal,
		del:   (*dataStore).deleteLocal,
		find:  (*dataStore).findLocal,
		query: (*dataStore).queryLocal,
		count: (*dataStore).countLocal,
		local: true,
	},
	models.StoreModeCache: {
		save:  (*dataStore).saveCacheFirst,
		del:   (*dataStore).deleteCacheFirst,
		find:  (*dataStore).findCacheFirst,
		query: (*dataStore).queryCacheFirst,
		count: (*dataStore).countLocal,
		local: true,
	},
	models.StoreModeAuto: {
		save:  (*dataStore).saveAuto,
		del:   (*dataStore).deleteAuto,
		find:  (*dataStore).findAuto,
		query: (*dataStore).queryAuto,
		count: (*dataStore).countAuto,
		local: true,
	},
}

// storeDeps are the collaborators an engine hands to each of its stores.
type storeDeps struct {
	cache  store.LocalCache
	queue  store.SyncQueue
	remote adapter.RemoteService
	push   PushExecutor
	pull   PullExecutor

	ids      *utils.UUIDGenerator
	pool     *workers.Pool
	executor workers.Executor

	cfg    config.ClientSync
	logger *logger.Logger
}

type dataStore struct {
	collection string
	mode       models.StoreMode
	policy     modePolicy

	cache  store.LocalCache
	queue  store.SyncQueue
	remote adapter.RemoteService
	push   PushExecutor
	pull   PullExecutor

	ids      *utils.UUIDGenerator
	pool     *workers.Pool
	executor workers.Executor

	writeTimeout time.Duration
	readTimeout  time.Duration
	pageSize     int

	logger *logger.Logger
}

func newDataStore(collection string, mode models.StoreMode, deps storeDeps) (*dataStore, error) {
	policy, ok := modePolicies[mode]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStoreMode, mode)
	}
	if !models.ValidCollectionName(collection) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidCollection, collection)
	}

	pageSize := deps.cfg.PageSize
	if pageSize <= 0 {
		pageSize = config.DefaultPageSize
	}

	return &dataStore{
		collection:   collection,
		mode:         mode,
		policy:       policy,
		cache:        deps.cache,
		queue:        deps.queue,
		remote:       deps.remote,
		push:         deps.push,
		pull:         deps.pull,
		ids:          deps.ids,
		pool:         deps.pool,
		executor:     deps.executor,
		writeTimeout: deps.cfg.PushTimeout,
		readTimeout:  deps.cfg.PageTimeout,
		pageSize:     pageSize,
		logger:       deps.logger.WithCollection(collection),
	}, nil
}

func (s *dataStore) Collection() string     { return s.collection }
func (s *dataStore) Mode() models.StoreMode { return s.mode }

// ── Writes ──────────────────────────────────────────────────────────────────

func (s *dataStore) Save(ctx context.Context, entity models.Entity) (models.Entity, error) {
	result, err := s.SaveList(ctx, []models.Entity{entity})
	if err != nil {
		return models.Entity{}, err
	}
	if len(result.Errors) > 0 {
		failed := result.Errors[0]
		if failed.Code == models.CodeConflict {
			entity.ID = failed.ID
			return models.Entity{}, s.conflictError(ctx, entity)
		}
		return models.Entity{}, itemError(failed)
	}
	if len(result.Entities) == 0 {
		return models.Entity{}, fmt.Errorf("%w: save returned no entity", adapter.ErrInternalServerError)
	}
	return result.Entities[0], nil
}

func (s *dataStore) SaveList(ctx context.Context, entities []models.Entity) (models.BatchSaveResult, error) {
	if len(entities) == 0 {
		return models.BatchSaveResult{}, nil
	}

	batch, invalid := s.prepare(entities)
	result := models.BatchSaveResult{Errors: invalid}
	if len(batch.entities) == 0 {
		return result, nil
	}

	saved, err := s.policy.save(s, ctx, batch.entities)
	if err != nil {
		return models.BatchSaveResult{}, err
	}

	result.Entities = saved.Entities
	result.Errors = mergeItemErrors(invalid, batch.remap(saved.Errors))
	return result, nil
}

func (s *dataStore) Delete(ctx context.Context, id string) error {
	result, err := s.DeleteIDs(ctx, []string{id})
	if err != nil {
		return err
	}
	if failed := result.Failed(); len(failed) > 0 {
		return itemError(failed[0])
	}
	return nil
}

func (s *dataStore) DeleteIDs(ctx context.Context, ids []string) (models.BatchDeleteResult, error) {
	if len(ids) == 0 {
		return models.BatchDeleteResult{}, nil
	}

	out := make([]models.DeleteItemResult, len(ids))
	valid := make([]string, 0, len(ids))
	positions := make([]int, 0, len(ids))
	for i, id := range ids {
		if !models.ValidEntityID(id) {
			out[i] = failedDelete(models.BatchItemError{
				Index: i, ID: id, Method: models.RequestMethodDelete,
				Code: models.CodeValidation, Message: "invalid entity id",
			})
			continue
		}
		valid = append(valid, id)
		positions = append(positions, i)
	}

	if len(valid) > 0 {
		deleted, err := s.policy.del(s, ctx, valid)
		if err != nil {
			return models.BatchDeleteResult{}, err
		}

		byID := make(map[string]models.DeleteItemResult, len(deleted.Results))
		for _, res := range deleted.Results {
			byID[res.ID] = res
		}
		for j, id := range valid {
			res, ok := byID[id]
			if !ok {
				res = failedDelete(models.BatchItemError{ID: id, Code: models.CodeInternal, Message: "no result for id"})
			}
			if res.Error != nil {
				itemErr := *res.Error
				itemErr.Index = positions[j]
				itemErr.ID = id
				itemErr.Method = models.RequestMethodDelete
				res.Error = &itemErr
			}
			out[positions[j]] = res
		}
	}

	return models.BatchDeleteResult{Results: out}, nil
}

// saveRemote forwards entities to the remote service and leaves the cache
// untouched.
func (s *dataStore) saveRemote(ctx context.Context, entities []models.Entity) (models.BatchSaveResult, error) {
	return s.batchSave(ctx, entities)
}

// saveLocal writes entities to the cache and queues them for push.
func (s *dataStore) saveLocal(ctx context.Context, entities []models.Entity) (models.BatchSaveResult, error) {
	var result models.BatchSaveResult
	for i, entity := range entities {
		staged, err := s.stage(ctx, entity)
		if err != nil {
			result.Errors = append(result.Errors, s.cacheItemError(i, entity.ID, models.RequestMethodSave, err))
			continue
		}
		result.Entities = append(result.Entities, staged)
	}
	return result, nil
}

// saveCacheFirst writes entities to the cache and then to the remote
// service. Entities the remote could not be reached for are queued. A remote
// rejection keeps the local write without queueing it.
func (s *dataStore) saveCacheFirst(ctx context.Context, entities []models.Entity) (models.BatchSaveResult, error) {
	var (
		result  models.BatchSaveResult
		written subset
	)
	for i, entity := range entities {
		entry, err := s.putLocal(ctx, entity)
		if err != nil {
			result.Errors = append(result.Errors, s.cacheItemError(i, entity.ID, models.RequestMethodSave, err))
			continue
		}
		written.add(entry.Entity(), i)
	}
	if len(written.entities) == 0 {
		return result, nil
	}

	saved, err := s.batchSave(ctx, written.entities)
	if err != nil {
		if !adapter.IsOffline(err) {
			return models.BatchSaveResult{}, err
		}

		s.logger.Info().Err(err).Int("entities", len(written.entities)).Msg("remote unreachable, queueing saves")
		for j, entity := range written.entities {
			if _, qErr := s.queue.Enqueue(ctx, s.collection, entity.ID, models.RequestMethodSave); qErr != nil {
				result.Errors = append(result.Errors, s.cacheItemError(written.positions[j], entity.ID, models.RequestMethodSave, qErr))
				continue
			}
			result.Entities = append(result.Entities, entity)
		}
		return result, nil
	}

	s.cacheConfirmed(ctx, saved.Entities)
	s.settleSaved(ctx, saved.Entities)
	result.Entities = saved.Entities
	result.Errors = mergeItemErrors(result.Errors, written.remap(saved.Errors))
	return result, nil
}

// saveAuto saves remotely and falls back to saveLocal while offline.
func (s *dataStore) saveAuto(ctx context.Context, entities []models.Entity) (models.BatchSaveResult, error) {
	saved, err := s.batchSave(ctx, entities)
	if err == nil {
		s.cacheConfirmed(ctx, saved.Entities)
		s.settleSaved(ctx, saved.Entities)
		return saved, nil
	}
	if !adapter.IsOffline(err) {
		return models.BatchSaveResult{}, err
	}

	s.logger.Info().Err(err).Int("entities", len(entities)).Msg("remote unreachable, staging saves")
	return s.saveLocal(ctx, entities)
}

func (s *dataStore) deleteRemote(ctx context.Context, ids []string) (models.BatchDeleteResult, error) {
	return s.batchDelete(ctx, ids)
}

func (s *dataStore) deleteLocal(ctx context.Context, ids []string) (models.BatchDeleteResult, error) {
	var result models.BatchDeleteResult
	for i, id := range ids {
		if err := s.unstage(ctx, id); err != nil {
			result.Results = append(result.Results, failedDelete(s.cacheItemError(i, id, models.RequestMethodDelete, err)))
			continue
		}
		result.Results = append(result.Results, models.DeleteItemResult{ID: id})
	}
	return result, nil
}

func (s *dataStore) deleteCacheFirst(ctx context.Context, ids []string) (models.BatchDeleteResult, error) {
	var (
		result  models.BatchDeleteResult
		removed []string
	)
	for i, id := range ids {
		if err := s.cache.Delete(ctx, s.collection, id); err != nil {
			result.Results = append(result.Results, failedDelete(s.cacheItemError(i, id, models.RequestMethodDelete, err)))
			continue
		}
		removed = append(removed, id)
	}
	if len(removed) == 0 {
		return result, nil
	}

	deleted, err := s.batchDelete(ctx, removed)
	if err != nil {
		if !adapter.IsOffline(err) {
			return models.BatchDeleteResult{}, err
		}

		s.logger.Info().Err(err).Int("ids", len(removed)).Msg("remote unreachable, queueing deletes")
		for _, id := range removed {
			res := models.DeleteItemResult{ID: id}
			if _, qErr := s.queue.Enqueue(ctx, s.collection, id, models.RequestMethodDelete); qErr != nil {
				res = failedDelete(s.cacheItemError(0, id, models.RequestMethodDelete, qErr))
			}
			result.Results = append(result.Results, res)
		}
		return result, nil
	}

	s.settleDeleted(ctx, deleted.Results)
	result.Results = append(result.Results, deleted.Results...)
	return result, nil
}

func (s *dataStore) deleteAuto(ctx context.Context, ids []string) (models.BatchDeleteResult, error) {
	deleted, err := s.batchDelete(ctx, ids)
	if err != nil {
		if !adapter.IsOffline(err) {
			return models.BatchDeleteResult{}, err
		}
		s.logger.Info().Err(err).Int("ids", len(ids)).Msg("remote unreachable, staging deletes")
		return s.deleteLocal(ctx, ids)
	}

	for _, res := range deleted.Results {
		if res.Error != nil && res.Error.Code != models.CodeNotFound {
			continue
		}
		if cErr := s.cache.Delete(ctx, s.collection, res.ID); cErr != nil {
			s.logger.Err(cErr).Str("func", "dataStore.deleteAuto").Str("id", res.ID).Msg("error evicting deleted entity")
		}
	}
	s.settleDeleted(ctx, deleted.Results)
	return deleted, nil
}

// ── Reads ───────────────────────────────────────────────────────────────────

func (s *dataStore) Find(ctx context.Context, id string) (models.Entity, error) {
	if !models.ValidEntityID(id) {
		return models.Entity{}, fmt.Errorf("%w: invalid entity id %q", adapter.ErrValidation, id)
	}
	return s.policy.find(s, ctx, id)
}

func (s *dataStore) FindQuery(ctx context.Context, q models.Query, opts FindOptions) (models.QueryResponse, error) {
	return s.policy.query(s, ctx, q, opts)
}

func (s *dataStore) Count(ctx context.Context, filter models.Filter) (int, error) {
	return s.policy.count(s, ctx, filter)
}

func (s *dataStore) CountNetwork(ctx context.Context, filter models.Filter) (int, error) {
	return s.countRemote(ctx, filter)
}

func (s *dataStore) findRemote(ctx context.Context, id string) (models.Entity, error) {
	entity, err := s.fetch(ctx, id)
	if errors.Is(err, adapter.ErrNotFound) {
		return models.Entity{}, s.notFound(id)
	}
	return entity, err
}

func (s *dataStore) findLocal(ctx context.Context, id string) (models.Entity, error) {
	entry, ok, err := s.cache.Get(ctx, s.collection, id)
	if err != nil {
		return models.Entity{}, fmt.Errorf("%w: %w", ErrCacheUnavailable, err)
	}
	if !ok {
		return models.Entity{}, s.notFound(id)
	}
	return entry.Entity(), nil
}

// findCacheFirst serves a cache hit and fetches a miss from the remote.
func (s *dataStore) findCacheFirst(ctx context.Context, id string) (models.Entity, error) {
	entry, ok, err := s.cache.Get(ctx, s.collection, id)
	if err != nil {
		s.logger.Err(err).Str("func", "dataStore.findCacheFirst").Str("id", id).Msg("cache read failed, asking remote")
	}
	if ok {
		return entry.Entity(), nil
	}

	entity, err := s.findRemote(ctx, id)
	if err != nil {
		return models.Entity{}, err
	}
	s.cacheRemote(ctx, []models.Entity{entity})
	return entity, nil
}

// findAuto asks the remote while it is reachable and the cache otherwise.
// An entity unknown to the remote is still looked up locally while the
// collection has queued saves.
func (s *dataStore) findAuto(ctx context.Context, id string) (models.Entity, error) {
	entity, err := s.fetch(ctx, id)
	switch {
	case err == nil:
		s.cacheRemote(ctx, []models.Entity{entity})
		return entity, nil
	case adapter.IsOffline(err):
		return s.findLocal(ctx, id)
	case errors.Is(err, adapter.ErrNotFound):
		if s.pending(ctx) {
			return s.findLocal(ctx, id)
		}
		return models.Entity{}, s.notFound(id)
	default:
		return models.Entity{}, err
	}
}

func (s *dataStore) queryRemote(ctx context.Context, q models.Query, _ FindOptions) (models.QueryResponse, error) {
	callCtx, cancel := networkContext(ctx, s.readTimeout)
	defer cancel()

	resp, err := s.remote.Query(callCtx, s.collection, q)
	if err != nil {
		return models.QueryResponse{}, fmt.Errorf("query %s: %w", s.collection, err)
	}
	return resp, nil
}

func (s *dataStore) queryLocal(ctx context.Context, q models.Query, _ FindOptions) (models.QueryResponse, error) {
	entries, err := s.cache.Query(ctx, s.collection, q)
	if err != nil {
		return models.QueryResponse{}, fmt.Errorf("%w: %w", ErrCacheUnavailable, err)
	}
	return models.QueryResponse{Items: models.EntitiesFromEntries(entries)}, nil
}

func (s *dataStore) queryCacheFirst(ctx context.Context, q models.Query, opts FindOptions) (models.QueryResponse, error) {
	if opts.Refresh {
		if err := s.refresh(ctx, q); err != nil {
			return models.QueryResponse{}, err
		}
	}
	return s.queryLocal(ctx, q, opts)
}

func (s *dataStore) queryAuto(ctx context.Context, q models.Query, opts FindOptions) (models.QueryResponse, error) {
	resp, err := s.queryRemote(ctx, q, opts)
	if err == nil {
		s.cacheRemote(ctx, resp.Items)
		return resp, nil
	}
	if !adapter.IsOffline(err) {
		return models.QueryResponse{}, err
	}
	return s.queryLocal(ctx, q, opts)
}

// refresh pulls q into the cache. A pull refused because of queued
// mutations or an in-flight pull leaves the cache as it is.
func (s *dataStore) refresh(ctx context.Context, q models.Query) error {
	pageSize := s.pageSize
	if q.IsPaged() {
		pageSize = 0
	}

	result, err := s.pull.Pull(ctx, s.collection, q, pageSize)
	switch {
	case errors.Is(err, ErrPendingSyncItems), errors.Is(err, ErrBusy):
		s.logger.Debug().Err(err).Msg("refresh skipped")
		return nil
	case err != nil:
		return err
	}
	if result.HaveErrors() {
		s.logger.Warn().Int("errors", len(result.Errors)).Int("count", result.Count).Msg("refresh finished with errors")
	}
	return nil
}

func (s *dataStore) countLocal(ctx context.Context, filter models.Filter) (int, error) {
	n, err := s.cache.Count(ctx, s.collection, filter)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrCacheUnavailable, err)
	}
	return n, nil
}

func (s *dataStore) countRemote(ctx context.Context, filter models.Filter) (int, error) {
	callCtx, cancel := networkContext(ctx, s.readTimeout)
	defer cancel()

	n, err := s.remote.Count(callCtx, s.collection, filter)
	if err != nil {
		return 0, fmt.Errorf("count %s: %w", s.collection, err)
	}
	return n, nil
}

func (s *dataStore) countAuto(ctx context.Context, filter models.Filter) (int, error) {
	n, err := s.countRemote(ctx, filter)
	if err != nil && adapter.IsOffline(err) {
		return s.countLocal(ctx, filter)
	}
	return n, err
}

// ── Sync ────────────────────────────────────────────────────────────────────

func (s *dataStore) Push(ctx context.Context) (models.PushResult, error) {
	if !s.policy.local {
		return models.PushResult{}, s.modeError("push")
	}
	return s.push.Push(ctx, s.collection)
}

func (s *dataStore) Pull(ctx context.Context, q models.Query, pageSize int) (models.PullResult, error) {
	if !s.policy.local {
		return models.PullResult{}, s.modeError("pull")
	}
	return s.pull.Pull(ctx, s.collection, q, pageSize)
}

func (s *dataStore) Sync(ctx context.Context, q models.Query, pageSize int) (models.SyncResult, error) {
	var result models.SyncResult
	if !s.policy.local {
		return result, s.modeError("sync")
	}

	pushed, err := s.push.Push(ctx, s.collection)
	result.Push = pushed
	if err != nil {
		return result, err
	}
	if pushed.HaveErrors() {
		return result, fmt.Errorf("%w: %d items were not pushed", ErrPendingSyncItems, len(pushed.Errors))
	}

	pulled, err := s.pull.Pull(ctx, s.collection, q, pageSize)
	result.Pull = pulled
	return result, err
}

func (s *dataStore) Purge(ctx context.Context) (int, error) {
	if !s.policy.local {
		return 0, s.modeError("purge")
	}
	n, err := s.queue.Clear(ctx, s.collection)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrCacheUnavailable, err)
	}
	s.logger.Info().Int("items", n).Msg("sync queue purged")
	return n, nil
}

func (s *dataStore) Clear(ctx context.Context) error {
	if !s.policy.local {
		return s.modeError("clear")
	}
	if _, err := s.queue.Clear(ctx, s.collection); err != nil {
		return fmt.Errorf("%w: %w", ErrCacheUnavailable, err)
	}
	if err := s.cache.ClearCollection(ctx, s.collection); err != nil {
		return fmt.Errorf("%w: %w", ErrCacheUnavailable, err)
	}
	return nil
}

func (s *dataStore) PendingCount(ctx context.Context) (int, error) {
	if !s.policy.local {
		return 0, nil
	}
	n, err := s.queue.Count(ctx, s.collection)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrCacheUnavailable, err)
	}
	return n, nil
}

// ── Async ───────────────────────────────────────────────────────────────────

func (s *dataStore) SaveAsync(ctx context.Context, entity models.Entity, cb workers.Callback[models.Entity]) *workers.Future[models.Entity] {
	return workers.Submit(ctx, s.pool, s.executor, func(ctx context.Context) (models.Entity, error) {
		return s.Save(ctx, entity)
	}, cb)
}

func (s *dataStore) FindAsync(ctx context.Context, id string, cb workers.Callback[models.Entity]) *workers.Future[models.Entity] {
	return workers.Submit(ctx, s.pool, s.executor, func(ctx context.Context) (models.Entity, error) {
		return s.Find(ctx, id)
	}, cb)
}

func (s *dataStore) PushAsync(ctx context.Context, cb workers.Callback[models.PushResult]) *workers.Future[models.PushResult] {
	return workers.Submit(ctx, s.pool, s.executor, s.Push, cb)
}

func (s *dataStore) PullAsync(ctx context.Context, q models.Query, pageSize int, cb workers.Callback[models.PullResult]) *workers.Future[models.PullResult] {
	return workers.Submit(ctx, s.pool, s.executor, func(ctx context.Context) (models.PullResult, error) {
		return s.Pull(ctx, q, pageSize)
	}, cb)
}

func (s *dataStore) SyncAsync(ctx context.Context, q models.Query, pageSize int, cb workers.Callback[models.SyncResult]) *workers.Future[models.SyncResult] {
	return workers.Submit(ctx, s.pool, s.executor, func(ctx context.Context) (models.SyncResult, error) {
		return s.Sync(ctx, q, pageSize)
	}, cb)
}

// ── Helpers ─────────────────────────────────────────────────────────────────

// subset is a filtered request list that remembers where each element came
// from.
type subset struct {
	entities  []models.Entity
	positions []int
}

func (b *subset) add(entity models.Entity, position int) {
	b.entities = append(b.entities, entity)
	b.positions = append(b.positions, position)
}

// remap rewrites indexes of errors reported against b.entities to positions
// in the original list.
func (b *subset) remap(errs []models.BatchItemError) []models.BatchItemError {
	out := make([]models.BatchItemError, 0, len(errs))
	for _, e := range errs {
		if e.Index >= 0 && e.Index < len(b.positions) {
			if e.ID == "" {
				e.ID = b.entities[e.Index].ID
			}
			e.Index = b.positions[e.Index]
		}
		out = append(out, e)
	}
	return out
}

// prepare assigns ids to new entities and sets aside entities with invalid
// ids.
func (s *dataStore) prepare(entities []models.Entity) (subset, []models.BatchItemError) {
	var (
		batch   subset
		invalid []models.BatchItemError
	)
	for i, entity := range entities {
		if entity.ID == "" {
			entity.ID = s.ids.Generate()
		}
		if !models.ValidEntityID(entity.ID) {
			invalid = append(invalid, models.BatchItemError{
				Index: i, ID: entity.ID, Method: models.RequestMethodSave,
				Code: models.CodeValidation, Message: "invalid entity id",
			})
			continue
		}
		batch.add(entity, i)
	}
	return batch, invalid
}

func mergeItemErrors(a, b []models.BatchItemError) []models.BatchItemError {
	merged := append(slices.Clone(a), b...)
	slices.SortStableFunc(merged, func(x, y models.BatchItemError) int {
		return cmp.Compare(x.Index, y.Index)
	})
	return merged
}

// putLocal caches entity. An entity without revision inherits the cached
// one so that its push is checked against the version it was read from.
func (s *dataStore) putLocal(ctx context.Context, entity models.Entity) (models.CacheEntry, error) {
	if entity.Revision == "" {
		cached, ok, err := s.cache.Peek(ctx, s.collection, entity.ID)
		if err != nil {
			return models.CacheEntry{}, err
		}
		if ok {
			entity.Revision = cached.Revision
		}
	}
	return s.cache.Put(ctx, s.collection, entity)
}

// stage caches entity and queues it for push.
func (s *dataStore) stage(ctx context.Context, entity models.Entity) (models.Entity, error) {
	entry, err := s.putLocal(ctx, entity)
	if err != nil {
		return models.Entity{}, err
	}
	if _, err = s.queue.Enqueue(ctx, s.collection, entity.ID, models.RequestMethodSave); err != nil {
		return models.Entity{}, err
	}
	return entry.Entity(), nil
}

// unstage evicts id and queues its deletion.
func (s *dataStore) unstage(ctx context.Context, id string) error {
	if err := s.cache.Delete(ctx, s.collection, id); err != nil {
		return err
	}
	_, err := s.queue.Enqueue(ctx, s.collection, id, models.RequestMethodDelete)
	return err
}

// cacheConfirmed stores entities the remote just accepted.
func (s *dataStore) cacheConfirmed(ctx context.Context, entities []models.Entity) {
	if len(entities) == 0 {
		return
	}
	if err := s.cache.PutBatch(ctx, s.collection, entities); err != nil {
		s.logger.Err(err).Str("func", "dataStore.cacheConfirmed").Msg("error caching saved entities")
	}
}

// settleSaved drops queued mutations of entities the remote just accepted.
// The confirmed write is newer than anything queued for them.
func (s *dataStore) settleSaved(ctx context.Context, entities []models.Entity) {
	for _, entity := range entities {
		s.settle(ctx, entity.ID)
	}
}

// settleDeleted does the same for confirmed deletes. NOT_FOUND counts as
// deleted.
func (s *dataStore) settleDeleted(ctx context.Context, results []models.DeleteItemResult) {
	for _, res := range results {
		if res.Error == nil || res.Error.Code == models.CodeNotFound {
			s.settle(ctx, res.ID)
		}
	}
}

func (s *dataStore) settle(ctx context.Context, id string) {
	if _, err := s.queue.RemoveEntity(ctx, s.collection, id); err != nil {
		s.logger.Err(err).Str("func", "dataStore.settle").Str("id", id).Msg("error dropping superseded queue item")
	}
}

// cacheRemote stores entities read from the remote unless local mutations
// are queued, which a remote read must not overwrite.
func (s *dataStore) cacheRemote(ctx context.Context, entities []models.Entity) {
	if len(entities) == 0 || s.pending(ctx) {
		return
	}
	if err := s.cache.PutBatch(ctx, s.collection, entities); err != nil {
		s.logger.Err(err).Str("func", "dataStore.cacheRemote").Msg("error caching remote entities")
	}
}

// pending reports whether the collection has queued mutations. A queue
// failure counts as pending.
func (s *dataStore) pending(ctx context.Context) bool {
	n, err := s.queue.Count(ctx, s.collection)
	if err != nil {
		s.logger.Err(err).Str("func", "dataStore.pending").Msg("error counting queued items")
		return true
	}
	return n > 0
}

func (s *dataStore) batchSave(ctx context.Context, entities []models.Entity) (models.BatchSaveResult, error) {
	callCtx, cancel := networkContext(ctx, s.writeTimeout)
	defer cancel()

	result, err := s.remote.BatchSave(callCtx, s.collection, entities)
	if err != nil {
		return models.BatchSaveResult{}, fmt.Errorf("batch save %s: %w", s.collection, err)
	}
	return result, nil
}

func (s *dataStore) batchDelete(ctx context.Context, ids []string) (models.BatchDeleteResult, error) {
	callCtx, cancel := networkContext(ctx, s.writeTimeout)
	defer cancel()

	result, err := s.remote.BatchDelete(callCtx, s.collection, ids)
	if err != nil {
		return models.BatchDeleteResult{}, fmt.Errorf("batch delete %s: %w", s.collection, err)
	}
	return result, nil
}

func (s *dataStore) fetch(ctx context.Context, id string) (models.Entity, error) {
	callCtx, cancel := networkContext(ctx, s.readTimeout)
	defer cancel()
	return s.remote.FindByID(callCtx, s.collection, id)
}

// conflictError builds the error returned for a conflicting Save.
func (s *dataStore) conflictError(ctx context.Context, local models.Entity) error {
	conflict := &ConflictError{Collection: s.collection, Local: local}

	remote, err := s.fetch(ctx, local.ID)
	switch {
	case err == nil:
		conflict.Remote = &remote
	case errors.Is(err, adapter.ErrNotFound):
	default:
		return errors.Join(conflict, fmt.Errorf("fetch remote snapshot: %w", err))
	}
	return conflict
}

func (s *dataStore) cacheItemError(index int, id string, method models.RequestMethod, err error) models.BatchItemError {
	s.logger.Err(err).Str("func", "dataStore.cacheItemError").Str("id", id).Msg("local storage failure")
	return models.BatchItemError{
		Index:   index,
		ID:      id,
		Method:  method,
		Code:    models.CodeCacheUnavailable,
		Message: err.Error(),
	}
}

func (s *dataStore) notFound(id string) error {
	return fmt.Errorf("%w: %s/%s", ErrEntityNotFound, s.collection, id)
}

func (s *dataStore) modeError(op string) error {
	return fmt.Errorf("%w: %s on %s store", ErrInvalidStoreMode, op, s.mode)
}

func failedDelete(e models.BatchItemError) models.DeleteItemResult {
	return models.DeleteItemResult{ID: e.ID, Error: &e}
}

// itemError turns a single-item failure into an error matching the
// sentinel of its code.
func itemError(e models.BatchItemError) error {
	return fmt.Errorf("%w: %w", codeError(e.Code), e)
}

func codeError(code models.ErrorCode) error {
	switch code {
	case models.CodeValidation:
		return adapter.ErrValidation
	case models.CodeConflict:
		return ErrConflict
	case models.CodeNotFound:
		return ErrEntityNotFound
	case models.CodeNetworkUnreachable:
		return adapter.ErrNetworkUnreachable
	case models.CodeTimeout:
		return adapter.ErrTimeout
	case models.CodeCacheUnavailable:
		return ErrCacheUnavailable
	case models.CodeUnauthorized:
		return adapter.ErrUnauthorized
	case models.CodeTransferCancelled:
		return ErrTransferCancelled
	default:
		return adapter.ErrInternalServerError
	}
}

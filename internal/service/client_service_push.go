// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MKhiriev/go-sync-store/internal/adapter"
	"github.com/MKhiriev/go-sync-store/internal/config"
	"github.com/MKhiriev/go-sync-store/internal/logger"
	"github.com/MKhiriev/go-sync-store/internal/store"
	"github.com/MKhiriev/go-sync-store/models"
)

type pushExecutor struct {
	cache    store.LocalCache
	queue    store.SyncQueue
	remote   adapter.RemoteService
	resolver ConflictResolver
	busy     *busyRegistry

	batchSize int
	timeout   time.Duration

	logger *logger.Logger
}

func newPushExecutor(cache store.LocalCache, queue store.SyncQueue, remote adapter.RemoteService, resolver ConflictResolver,
	busy *busyRegistry, cfg config.ClientSync, logger *logger.Logger) *pushExecutor {
	if resolver == nil {
		resolver = LastWriteWins
	}
	batchSize := cfg.BatchSize
	if batchSize <= 0 {
		batchSize = config.DefaultBatchSize
	}
	return &pushExecutor{
		cache:     cache,
		queue:     queue,
		remote:    remote,
		resolver:  resolver,
		busy:      busy,
		batchSize: batchSize,
		timeout:   cfg.PushTimeout,
		logger:    logger,
	}
}

// pushCycle accumulates the outcome of one Push call.
type pushCycle struct {
	collection string
	result     models.PushResult
	log        *logger.Logger

	// positions maps a queue sequence to the item's place in the cycle.
	positions map[int64]int
}

func (c *pushCycle) track(items []models.SyncQueueItem) {
	for i, item := range items {
		c.positions[item.Sequence] = c.result.Attempted + i
	}
	c.result.Attempted += len(items)
}

func (c *pushCycle) fail(item models.SyncQueueItem, code models.ErrorCode, message string) {
	c.result.Errors = append(c.result.Errors, models.BatchItemError{
		Index:   c.positions[item.Sequence],
		ID:      item.EntityID,
		Method:  item.Method,
		Code:    code,
		Message: message,
	})
}

// Push implements [PushExecutor].
func (p *pushExecutor) Push(ctx context.Context, collection string) (models.PushResult, error) {
	release, err := p.busy.acquire(busyPush, collection)
	if err != nil {
		return models.PushResult{}, err
	}
	defer release()

	cycle := &pushCycle{
		collection: collection,
		log:        p.logger.WithCollection(collection),
		positions:  make(map[int64]int),
	}

	var after int64
	for {
		if err = ctx.Err(); err != nil {
			return cycle.result, fmt.Errorf("push interrupted: %w", err)
		}

		items, err := p.queue.DequeueAfter(ctx, collection, after, p.batchSize)
		if err != nil {
			cycle.log.Err(err).Str("func", "pushExecutor.Push").Msg("error reading sync queue")
			return cycle.result, fmt.Errorf("read sync queue: %w", err)
		}
		if len(items) == 0 {
			break
		}
		after = items[len(items)-1].Sequence
		cycle.track(items)

		var saves, deletes []models.SyncQueueItem
		for _, item := range items {
			switch item.Method {
			case models.RequestMethodDelete:
				deletes = append(deletes, item)
			default:
				saves = append(saves, item)
			}
		}

		p.pushSaves(ctx, cycle, saves)
		p.pushDeletes(ctx, cycle, deletes)
	}

	cycle.log.Debug().
		Int("attempted", cycle.result.Attempted).
		Int("succeeded", cycle.result.SuccessCount).
		Int("failed", len(cycle.result.Errors)).
		Int("conflicts", len(cycle.result.Conflicts)).
		Msg("push finished")

	return cycle.result, nil
}

func (p *pushExecutor) pushSaves(ctx context.Context, cycle *pushCycle, items []models.SyncQueueItem) {
	if len(items) == 0 {
		return
	}

	entities := make([]models.Entity, 0, len(items))
	sent := make([]models.SyncQueueItem, 0, len(items))
	for _, item := range items {
		entry, ok, err := p.cache.Peek(ctx, cycle.collection, item.EntityID)
		if err != nil {
			cycle.fail(item, models.CodeCacheUnavailable, err.Error())
			continue
		}
		if !ok {
			// nothing left to send; the mutation can never succeed
			p.remove(ctx, cycle, item)
			cycle.fail(item, models.CodeNotFound, "cached entity is missing")
			continue
		}
		entities = append(entities, entry.Entity())
		sent = append(sent, item)
	}
	if len(entities) == 0 {
		return
	}

	res, err := p.batchSave(ctx, cycle.collection, entities)
	if err != nil {
		cycle.log.Err(err).Str("func", "pushExecutor.pushSaves").Int("items", len(sent)).Msg("batch save request failed")
		code := adapter.ErrorCode(err)
		for _, item := range sent {
			cycle.fail(item, code, err.Error())
		}
		return
	}

	confirmed := make(map[string]models.Entity, len(res.Entities))
	for _, e := range res.Entities {
		confirmed[e.ID] = e
	}
	failed := res.FailedIndexes()

	for i, item := range sent {
		if itemErr, bad := failed[i]; bad {
			if itemErr.Code == models.CodeConflict {
				p.resolveConflict(ctx, cycle, item, entities[i])
				continue
			}
			cycle.fail(item, itemErr.Code, itemErr.Message)
			continue
		}

		saved, ok := confirmed[item.EntityID]
		if !ok {
			saved = entities[i]
		}
		p.confirmSave(ctx, cycle, item, saved)
	}
}

// confirmSave removes a pushed SAVE and stores the server copy. When the
// entity was changed again while the request was in flight the local
// payload is kept and only the new revision is recorded.
func (p *pushExecutor) confirmSave(ctx context.Context, cycle *pushCycle, item models.SyncQueueItem, saved models.Entity) {
	cycle.result.SuccessCount++

	removed := p.remove(ctx, cycle, item)
	if removed {
		if _, err := p.cache.Put(ctx, cycle.collection, saved); err != nil {
			cycle.log.Err(err).Str("func", "pushExecutor.confirmSave").Str("id", saved.ID).Msg("error caching pushed entity")
		}
		return
	}

	entry, ok, err := p.cache.Peek(ctx, cycle.collection, item.EntityID)
	if err != nil || !ok {
		return
	}
	local := entry.Entity()
	local.Revision = saved.Revision
	if _, err = p.cache.Put(ctx, cycle.collection, local); err != nil {
		cycle.log.Err(err).Str("func", "pushExecutor.confirmSave").Str("id", saved.ID).Msg("error updating cached revision")
	}
}

func (p *pushExecutor) resolveConflict(ctx context.Context, cycle *pushCycle, item models.SyncQueueItem, local models.Entity) {
	conflict := models.Conflict{Collection: cycle.collection, ID: item.EntityID, Local: local}

	remote, err := p.findRemote(ctx, cycle.collection, item.EntityID)
	switch {
	case err == nil:
		conflict.Remote = &remote
	case errors.Is(err, adapter.ErrNotFound):
	default:
		conflict.Resolution = models.ResolutionSurface
		cycle.result.Conflicts = append(cycle.result.Conflicts, conflict)
		cycle.fail(item, models.CodeConflict, fmt.Sprintf("fetching remote snapshot: %v", err))
		return
	}

	conflict.Resolution = p.resolver.Resolve(ctx, conflict)
	cycle.result.Conflicts = append(cycle.result.Conflicts, conflict)

	switch conflict.Resolution {
	case models.ResolutionKeepLocal:
		retry := local
		retry.Revision = ""
		if conflict.Remote != nil {
			retry.Revision = conflict.Remote.Revision
		}

		res, err := p.batchSave(ctx, cycle.collection, []models.Entity{retry})
		switch {
		case err != nil:
			cycle.fail(item, adapter.ErrorCode(err), err.Error())
		case res.HaveErrors():
			cycle.fail(item, res.Errors[0].Code, res.Errors[0].Message)
		case len(res.Entities) == 0:
			cycle.fail(item, models.CodeInternal, "empty batch save response")
		default:
			p.confirmSave(ctx, cycle, item, res.Entities[0])
		}

	case models.ResolutionAcceptRemote:
		cycle.result.SuccessCount++
		if !p.remove(ctx, cycle, item) {
			return
		}
		if conflict.Remote != nil {
			_, err = p.cache.Put(ctx, cycle.collection, *conflict.Remote)
		} else {
			err = p.cache.Delete(ctx, cycle.collection, item.EntityID)
		}
		if err != nil {
			cycle.log.Err(err).Str("func", "pushExecutor.resolveConflict").Str("id", item.EntityID).Msg("error applying remote snapshot")
		}

	default:
		cycle.fail(item, models.CodeConflict, (&ConflictError{
			Collection: cycle.collection,
			Local:      local,
			Remote:     conflict.Remote,
		}).Error())
	}
}

func (p *pushExecutor) pushDeletes(ctx context.Context, cycle *pushCycle, items []models.SyncQueueItem) {
	if len(items) == 0 {
		return
	}

	ids := make([]string, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.EntityID)
	}

	res, err := p.batchDelete(ctx, cycle.collection, ids)
	if err != nil {
		cycle.log.Err(err).Str("func", "pushExecutor.pushDeletes").Int("items", len(items)).Msg("batch delete request failed")
		code := adapter.ErrorCode(err)
		for _, item := range items {
			cycle.fail(item, code, err.Error())
		}
		return
	}

	outcomes := make(map[string]models.DeleteItemResult, len(res.Results))
	for _, r := range res.Results {
		outcomes[r.ID] = r
	}

	for _, item := range items {
		outcome, ok := outcomes[item.EntityID]
		switch {
		case !ok:
			cycle.fail(item, models.CodeInternal, "id missing from batch delete response")
		case outcome.Error == nil, outcome.Error.Code == models.CodeNotFound:
			// deleting an entity the server no longer has is a success
			cycle.result.SuccessCount++
			p.remove(ctx, cycle, item)
		default:
			cycle.fail(item, outcome.Error.Code, outcome.Error.Message)
		}
	}
}

// remove drops item from the queue unless it was replaced meanwhile.
func (p *pushExecutor) remove(ctx context.Context, cycle *pushCycle, item models.SyncQueueItem) bool {
	removed, err := p.queue.Remove(ctx, item)
	if err != nil {
		cycle.log.Err(err).Str("func", "pushExecutor.remove").Str("id", item.EntityID).Msg("error removing pushed item from queue")
		return false
	}
	return removed
}

func (p *pushExecutor) batchSave(ctx context.Context, collection string, entities []models.Entity) (models.BatchSaveResult, error) {
	callCtx, cancel := networkContext(ctx, p.timeout)
	defer cancel()
	return p.remote.BatchSave(callCtx, collection, entities)
}

func (p *pushExecutor) batchDelete(ctx context.Context, collection string, ids []string) (models.BatchDeleteResult, error) {
	callCtx, cancel := networkContext(ctx, p.timeout)
	defer cancel()
	return p.remote.BatchDelete(callCtx, collection, ids)
}

func (p *pushExecutor) findRemote(ctx context.Context, collection, id string) (models.Entity, error) {
	callCtx, cancel := networkContext(ctx, p.timeout)
	defer cancel()
	return p.remote.FindByID(callCtx, collection, id)
}

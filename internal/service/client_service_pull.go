// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"fmt"
	"time"

	"github.com/MKhiriev/go-sync-store/internal/adapter"
	"github.com/MKhiriev/go-sync-store/internal/config"
	"github.com/MKhiriev/go-sync-store/internal/logger"
	"github.com/MKhiriev/go-sync-store/internal/store"
	"github.com/MKhiriev/go-sync-store/models"
)

type pullExecutor struct {
	cache  store.LocalCache
	queue  store.SyncQueue
	remote adapter.RemoteService
	busy   *busyRegistry

	timeout time.Duration

	logger *logger.Logger
}

func newPullExecutor(cache store.LocalCache, queue store.SyncQueue, remote adapter.RemoteService,
	busy *busyRegistry, cfg config.ClientSync, logger *logger.Logger) *pullExecutor {
	return &pullExecutor{
		cache:   cache,
		queue:   queue,
		remote:  remote,
		busy:    busy,
		timeout: cfg.PageTimeout,
		logger:  logger,
	}
}

// Pull implements [PullExecutor].
//
// A page-level network failure is recorded in the result errors and ends
// the pull; the returned error is reserved for failures that prevent the
// pull from running or from storing what it fetched.
func (p *pullExecutor) Pull(ctx context.Context, collection string, q models.Query, pageSize int) (models.PullResult, error) {
	release, err := p.busy.acquire(busyPull, collection)
	if err != nil {
		return models.PullResult{}, err
	}
	defer release()

	pending, err := p.queue.Count(ctx, collection)
	if err != nil {
		return models.PullResult{}, fmt.Errorf("count pending sync items: %w", err)
	}
	if pending > 0 {
		return models.PullResult{}, fmt.Errorf("%w: %d in %s", ErrPendingSyncItems, pending, collection)
	}

	if pageSize <= 0 {
		return p.pullOnce(ctx, collection, q)
	}
	return p.pullPaged(ctx, collection, q, pageSize)
}

func (p *pullExecutor) pullOnce(ctx context.Context, collection string, q models.Query) (models.PullResult, error) {
	var result models.PullResult

	resp, err := p.query(ctx, collection, q)
	result.Pages = 1
	if err != nil {
		result.Errors = append(result.Errors, pageError(0, err))
		return result, nil
	}

	if q.IsPaged() {
		err = p.cache.PutBatch(ctx, collection, resp.Items)
	} else {
		// the full result set is known: drop cached entries the server no
		// longer returns for this filter
		filter := q.Filter
		if filter == nil {
			filter = models.Filter{}
		}
		err = p.cache.ReplaceQuery(ctx, collection, filter, resp.Items)
	}
	if err != nil {
		p.logger.WithCollection(collection).Err(err).Str("func", "pullExecutor.pullOnce").Msg("error merging pulled entities")
		return result, fmt.Errorf("merge pulled entities: %w", err)
	}

	result.Count = len(resp.Items)
	result.Errors = append(result.Errors, itemErrors(0, resp.Errors)...)
	return result, nil
}

func (p *pullExecutor) pullPaged(ctx context.Context, collection string, q models.Query, pageSize int) (models.PullResult, error) {
	var result models.PullResult

	if len(q.Sort) == 0 {
		// offsets are only stable over a total order
		q.Sort = []models.SortField{{Field: models.IDField}}
	}

	// a pull over the whole filter result learns which ids the server
	// still has
	complete := !q.IsPaged()
	seen := make(map[string]struct{})

	skip := q.Skip
	for page := 0; ; page++ {
		if err := ctx.Err(); err != nil {
			return result, fmt.Errorf("pull interrupted before page %d: %w", page, err)
		}

		resp, err := p.query(ctx, collection, q.Page(skip, pageSize))
		result.Pages++
		if err != nil {
			result.Errors = append(result.Errors, pageError(page, err))
			return result, nil
		}

		if err = p.cache.PutBatch(ctx, collection, resp.Items); err != nil {
			p.logger.WithCollection(collection).Err(err).Str("func", "pullExecutor.pullPaged").Int("page", page).Msg("error merging pulled page")
			return result, fmt.Errorf("merge page %d: %w", page, err)
		}
		result.Count += len(resp.Items)
		result.Errors = append(result.Errors, itemErrors(page, resp.Errors)...)
		for _, e := range resp.Items {
			seen[e.ID] = struct{}{}
		}

		// item errors still occupy a slot of the page
		if returned := len(resp.Items) + countItemErrors(resp.Errors); returned < pageSize {
			if complete && len(result.Errors) == 0 {
				p.evictUnseen(ctx, collection, q.Filter, seen)
			}
			return result, nil
		}
		skip += pageSize
	}
}

// evictUnseen drops cached entries matching filter that the pull did not
// return: the server deleted them. Nothing is evicted once local mutations
// were queued during the pull.
func (p *pullExecutor) evictUnseen(ctx context.Context, collection string, filter models.Filter, seen map[string]struct{}) {
	log := p.logger.WithCollection(collection)

	if pending, err := p.queue.Count(ctx, collection); err != nil || pending > 0 {
		log.Debug().Err(err).Int("pending", pending).Msg("skipping eviction after pull")
		return
	}

	cached, err := p.cache.Query(ctx, collection, models.Query{Filter: filter})
	if err != nil {
		log.Err(err).Str("func", "pullExecutor.evictUnseen").Msg("error listing cached entries")
		return
	}

	evicted := 0
	for _, entry := range cached {
		if _, ok := seen[entry.ID]; ok {
			continue
		}
		if err = p.cache.Delete(ctx, collection, entry.ID); err != nil {
			log.Err(err).Str("func", "pullExecutor.evictUnseen").Str("id", entry.ID).Msg("error evicting entry")
			continue
		}
		evicted++
	}
	if evicted > 0 {
		log.Debug().Int("evicted", evicted).Msg("evicted entries deleted on the server")
	}
}

func (p *pullExecutor) query(ctx context.Context, collection string, q models.Query) (models.QueryResponse, error) {
	callCtx, cancel := networkContext(ctx, p.timeout)
	defer cancel()

	return p.remote.Query(callCtx, collection, q)
}

func pageError(page int, err error) models.QueryError {
	return models.QueryError{Page: page, Index: -1, Code: adapter.ErrorCode(err), Message: err.Error()}
}

func itemErrors(page int, errs []models.QueryError) []models.QueryError {
	out := make([]models.QueryError, 0, len(errs))
	for _, e := range errs {
		e.Page = page
		out = append(out, e)
	}
	return out
}

func countItemErrors(errs []models.QueryError) int {
	n := 0
	for _, e := range errs {
		if e.Index >= 0 {
			n++
		}
	}
	return n
}

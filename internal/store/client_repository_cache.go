// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/MKhiriev/go-sync-store/internal/logger"
	"github.com/MKhiriev/go-sync-store/internal/query"
	"github.com/MKhiriev/go-sync-store/models"
)

// localCache is the SQLite-backed implementation of [LocalCache].
type localCache struct {
	*DB
	logger *logger.Logger

	now func() time.Time

	mu   sync.RWMutex
	ttls map[string]time.Duration
}

// CacheOption configures a [LocalCache] built by [NewLocalCache].
type CacheOption func(*localCache)

// WithClock replaces the clock used to stamp and expire entries.
func WithClock(now func() time.Time) CacheOption {
	return func(c *localCache) {
		c.now = now
	}
}

// WithTTLs sets the initial per-collection lifetimes.
func WithTTLs(ttls map[string]time.Duration) CacheOption {
	return func(c *localCache) {
		for collection, ttl := range ttls {
			if ttl > 0 {
				c.ttls[collection] = ttl
			}
		}
	}
}

// NewLocalCache constructs a [LocalCache] on top of a migrated SQLite db.
func NewLocalCache(db *DB, logger *logger.Logger, opts ...CacheOption) LocalCache {
	c := &localCache{
		DB:     db,
		logger: logger,
		now:    time.Now,
		ttls:   make(map[string]time.Duration),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *localCache) SetTTL(collection string, ttl time.Duration) error {
	if !models.ValidCollectionName(collection) {
		return fmt.Errorf("%w: %q", ErrInvalidCollection, collection)
	}
	if ttl < 0 {
		return fmt.Errorf("%w: %s", ErrInvalidTTL, ttl)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if ttl == 0 {
		delete(c.ttls, collection)
		return nil
	}
	c.ttls[collection] = ttl
	return nil
}

func (c *localCache) TTL(collection string) time.Duration {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.ttls[collection]
}

func (c *localCache) Get(ctx context.Context, collection, id string) (models.CacheEntry, bool, error) {
	entry, found, err := c.Peek(ctx, collection, id)
	if err != nil || !found {
		return models.CacheEntry{}, false, err
	}
	if c.expired(entry) {
		return models.CacheEntry{}, false, nil
	}
	return entry, true, nil
}

func (c *localCache) Peek(ctx context.Context, collection, id string) (models.CacheEntry, bool, error) {
	log := logger.FromContext(ctx)

	if err := validateKey(collection, id); err != nil {
		return models.CacheEntry{}, false, err
	}

	entry, err := c.scanEntry(c.DB.QueryRowContext(ctx, getCacheEntry, collection, id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.CacheEntry{}, false, nil
	}
	if err != nil {
		log.Err(err).
			Str("func", "localCache.Peek").
			Str("collection", collection).
			Str("id", id).
			Msg("failed to read cache entry")
		return models.CacheEntry{}, false, cacheError(ErrScanningRow, err)
	}

	return entry, true, nil
}

func (c *localCache) Query(ctx context.Context, collection string, q models.Query) ([]models.CacheEntry, error) {
	log := logger.FromContext(ctx)

	if !models.ValidCollectionName(collection) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidCollection, collection)
	}
	if err := query.Validate(q); err != nil {
		return nil, err
	}

	cond, err := filterCondition(q.Filter)
	if err != nil {
		return nil, err
	}

	builder := sq.Select(cacheColumns...).
		From(cacheEntriesTable).
		Where(sq.Eq{"collection": collection}).
		Where(cond)
	builder = c.whereFresh(builder, collection)
	builder = applySortAndPaging(builder, q)

	stmt, args, err := builder.ToSql()
	if err != nil {
		log.Err(err).Str("func", "localCache.Query").Str("collection", collection).Msg("failed to build query")
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := c.DB.QueryContext(ctx, stmt, args...)
	if err != nil {
		log.Err(err).
			Str("func", "localCache.Query").
			Str("collection", collection).
			Msg("failed to execute cache query")
		return nil, cacheError(ErrExecutingQuery, err)
	}
	defer rows.Close()

	entries := make([]models.CacheEntry, 0, 50)
	for rows.Next() {
		entry, scanErr := c.scanEntry(rows)
		if scanErr != nil {
			log.Err(scanErr).Str("func", "localCache.Query").Msg("failed to scan cache entry")
			return nil, cacheError(ErrScanningRow, scanErr)
		}
		entries = append(entries, entry)
	}
	if rowsErr := rows.Err(); rowsErr != nil {
		log.Err(rowsErr).Str("func", "localCache.Query").Msg("error occurred during rows iteration")
		return nil, cacheError(ErrScanningRows, rowsErr)
	}

	return entries, nil
}

func (c *localCache) Count(ctx context.Context, collection string, filter models.Filter) (int, error) {
	log := logger.FromContext(ctx)

	if !models.ValidCollectionName(collection) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidCollection, collection)
	}
	if err := query.ValidateFilter(filter); err != nil {
		return 0, err
	}

	cond, err := filterCondition(filter)
	if err != nil {
		return 0, err
	}

	builder := sq.Select("COUNT(*)").
		From(cacheEntriesTable).
		Where(sq.Eq{"collection": collection}).
		Where(cond)
	builder = c.whereFresh(builder, collection)

	stmt, args, err := builder.ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var count int
	if err = c.DB.QueryRowContext(ctx, stmt, args...).Scan(&count); err != nil {
		log.Err(err).Str("func", "localCache.Count").Str("collection", collection).Msg("failed to count cache entries")
		return 0, cacheError(ErrExecutingQuery, err)
	}
	return count, nil
}

func (c *localCache) Put(ctx context.Context, collection string, entity models.Entity) (models.CacheEntry, error) {
	log := logger.FromContext(ctx)

	if err := validateKey(collection, entity.ID); err != nil {
		return models.CacheEntry{}, err
	}
	payload, err := normalizePayload(entity.Payload)
	if err != nil {
		return models.CacheEntry{}, err
	}

	storedAt := c.now()
	if _, err = c.DB.ExecContext(ctx, upsertCacheEntry,
		collection, entity.ID, entity.Revision, payload, storedAt.UnixNano(),
	); err != nil {
		log.Err(err).
			Str("func", "localCache.Put").
			Str("collection", collection).
			Str("id", entity.ID).
			Bool("retryable", c.retryable(err)).
			Msg("failed to upsert cache entry")
		return models.CacheEntry{}, cacheError(ErrExecutingStatement, err)
	}

	entry := models.NewCacheEntry(collection, entity)
	entry.Payload = json.RawMessage(payload)
	c.stamp(&entry, storedAt)
	return entry, nil
}

func (c *localCache) PutBatch(ctx context.Context, collection string, entities []models.Entity) error {
	return c.ReplaceQuery(ctx, collection, nil, entities)
}

func (c *localCache) ReplaceQuery(ctx context.Context, collection string, filter models.Filter, entities []models.Entity) error {
	log := logger.FromContext(ctx)

	if !models.ValidCollectionName(collection) {
		return fmt.Errorf("%w: %q", ErrInvalidCollection, collection)
	}

	payloads := make([]string, len(entities))
	for i, entity := range entities {
		if !models.ValidEntityID(entity.ID) {
			return fmt.Errorf("%w: %q at index %d", ErrInvalidEntityID, entity.ID, i)
		}
		payload, err := normalizePayload(entity.Payload)
		if err != nil {
			return fmt.Errorf("entity %q: %w", entity.ID, err)
		}
		payloads[i] = payload
	}

	var deleteStmt string
	var deleteArgs []any
	if filter != nil {
		var err error
		if deleteStmt, deleteArgs, err = c.buildDelete(collection, filter); err != nil {
			return err
		}
	}

	storedAt := c.now().UnixNano()
	err := c.inTx(ctx, func(tx *sql.Tx) error {
		if deleteStmt != "" {
			if _, err := tx.ExecContext(ctx, deleteStmt, deleteArgs...); err != nil {
				return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
			}
		}

		stmt, err := tx.PrepareContext(ctx, upsertCacheEntry)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
		}
		defer stmt.Close()

		for i, entity := range entities {
			if _, err = stmt.ExecContext(ctx, collection, entity.ID, entity.Revision, payloads[i], storedAt); err != nil {
				return fmt.Errorf("%w: entity %q: %w", ErrExecutingStatement, entity.ID, err)
			}
		}
		return nil
	})
	if err != nil {
		log.Err(err).
			Str("func", "localCache.ReplaceQuery").
			Str("collection", collection).
			Int("entities", len(entities)).
			Msg("failed to write cache batch")
		return fmt.Errorf("%w: %w", ErrCacheUnavailable, err)
	}

	return nil
}

func (c *localCache) Delete(ctx context.Context, collection, id string) error {
	log := logger.FromContext(ctx)

	if err := validateKey(collection, id); err != nil {
		return err
	}

	if _, err := c.DB.ExecContext(ctx, deleteCacheEntry, collection, id); err != nil {
		log.Err(err).
			Str("func", "localCache.Delete").
			Str("collection", collection).
			Str("id", id).
			Msg("failed to delete cache entry")
		return cacheError(ErrExecutingStatement, err)
	}
	return nil
}

func (c *localCache) DeleteQuery(ctx context.Context, collection string, filter models.Filter) (int, error) {
	log := logger.FromContext(ctx)

	stmt, args, err := c.buildDelete(collection, filter)
	if err != nil {
		return 0, err
	}

	res, err := c.DB.ExecContext(ctx, stmt, args...)
	if err != nil {
		log.Err(err).Str("func", "localCache.DeleteQuery").Str("collection", collection).Msg("failed to delete cache entries")
		return 0, cacheError(ErrExecutingStatement, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return 0, cacheError(ErrExecutingStatement, err)
	}
	return int(affected), nil
}

func (c *localCache) ClearCollection(ctx context.Context, collection string) error {
	log := logger.FromContext(ctx)

	if !models.ValidCollectionName(collection) {
		return fmt.Errorf("%w: %q", ErrInvalidCollection, collection)
	}

	if _, err := c.DB.ExecContext(ctx, clearCacheCollection, collection); err != nil {
		log.Err(err).Str("func", "localCache.ClearCollection").Str("collection", collection).Msg("failed to clear collection")
		return cacheError(ErrExecutingStatement, err)
	}
	return nil
}

func (c *localCache) ClearAll(ctx context.Context) error {
	log := logger.FromContext(ctx)

	if _, err := c.DB.ExecContext(ctx, clearCache); err != nil {
		log.Err(err).Str("func", "localCache.ClearAll").Msg("failed to clear cache")
		return cacheError(ErrExecutingStatement, err)
	}
	return nil
}

func (c *localCache) buildDelete(collection string, filter models.Filter) (string, []any, error) {
	if !models.ValidCollectionName(collection) {
		return "", nil, fmt.Errorf("%w: %q", ErrInvalidCollection, collection)
	}
	if err := query.ValidateFilter(filter); err != nil {
		return "", nil, err
	}

	cond, err := filterCondition(filter)
	if err != nil {
		return "", nil, err
	}

	stmt, args, err := sq.Delete(cacheEntriesTable).
		Where(sq.Eq{"collection": collection}).
		Where(cond).
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return stmt, args, nil
}

// whereFresh hides entries older than the collection TTL.
func (c *localCache) whereFresh(b sq.SelectBuilder, collection string) sq.SelectBuilder {
	ttl := c.TTL(collection)
	if ttl <= 0 {
		return b
	}
	return b.Where(sq.GtOrEq{"stored_at": c.now().Add(-ttl).UnixNano()})
}

func (c *localCache) expired(entry models.CacheEntry) bool {
	return entry.ExpiresAt != nil && c.now().After(*entry.ExpiresAt)
}

func (c *localCache) stamp(entry *models.CacheEntry, storedAt time.Time) {
	entry.StoredAt = storedAt
	entry.ExpiresAt = nil
	if ttl := c.TTL(entry.Collection); ttl > 0 {
		expiresAt := storedAt.Add(ttl)
		entry.ExpiresAt = &expiresAt
	}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (c *localCache) scanEntry(row rowScanner) (models.CacheEntry, error) {
	var (
		entry    models.CacheEntry
		payload  string
		storedAt int64
	)
	if err := row.Scan(&entry.Collection, &entry.ID, &entry.Revision, &payload, &storedAt); err != nil {
		return models.CacheEntry{}, err
	}
	entry.Payload = json.RawMessage(payload)
	c.stamp(&entry, time.Unix(0, storedAt))
	return entry, nil
}

func validateKey(collection, id string) error {
	if !models.ValidCollectionName(collection) {
		return fmt.Errorf("%w: %q", ErrInvalidCollection, collection)
	}
	if !models.ValidEntityID(id) {
		return fmt.Errorf("%w: %q", ErrInvalidEntityID, id)
	}
	return nil
}

// normalizePayload returns the payload as a JSON object text; an empty
// payload becomes "{}".
func normalizePayload(payload json.RawMessage) (string, error) {
	if len(payload) == 0 {
		return "{}", nil
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(payload, &obj); err != nil || obj == nil {
		return "", fmt.Errorf("%w: payload must be a JSON object", query.ErrInvalidPayload)
	}
	return string(payload), nil
}

func cacheError(op, err error) error {
	return fmt.Errorf("%w: %w: %w", ErrCacheUnavailable, op, err)
}

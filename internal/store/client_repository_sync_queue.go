// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/MKhiriev/go-sync-store/internal/logger"
	"github.com/MKhiriev/go-sync-store/models"
)

type syncQueue struct {
	*DB
	logger *logger.Logger
	now    func() time.Time
}

// NewSyncQueue constructs a [SyncQueue] stored in the sync_queue table.
func NewSyncQueue(db *DB, logger *logger.Logger) SyncQueue {
	return &syncQueue{
		DB:     db,
		logger: logger,
		now:    time.Now,
	}
}

// Enqueue inserts a pending mutation or replaces the method of the item
// already queued for the same entity, keeping its sequence.
func (s *syncQueue) Enqueue(ctx context.Context, collection, entityID string, method models.RequestMethod) (models.SyncQueueItem, error) {
	log := logger.FromContext(ctx)

	if err := validateKey(collection, entityID); err != nil {
		return models.SyncQueueItem{}, err
	}
	method, err := models.ParseRequestMethod(string(method))
	if err != nil {
		return models.SyncQueueItem{}, err
	}

	row := s.DB.QueryRowContext(ctx, enqueueSyncItem, collection, entityID, string(method), s.now().UnixNano())
	item, err := scanSyncItem(row)
	if err != nil {
		log.Err(err).
			Str("func", "syncQueue.Enqueue").
			Str("collection", collection).
			Str("entity_id", entityID).
			Str("method", string(method)).
			Msg("failed to enqueue sync item")
		return models.SyncQueueItem{}, cacheError(ErrExecutingStatement, err)
	}

	return item, nil
}

// DequeueBatch returns up to maxCount oldest items without removing them.
// A non-positive maxCount returns every item.
func (s *syncQueue) DequeueBatch(ctx context.Context, collection string, maxCount int) ([]models.SyncQueueItem, error) {
	return s.DequeueAfter(ctx, collection, 0, maxCount)
}

func (s *syncQueue) DequeueAfter(ctx context.Context, collection string, afterSequence int64, maxCount int) ([]models.SyncQueueItem, error) {
	log := logger.FromContext(ctx)

	if !models.ValidCollectionName(collection) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidCollection, collection)
	}

	limit := int64(maxCount)
	if maxCount <= 0 {
		limit = math.MaxInt64
	}

	rows, err := s.DB.QueryContext(ctx, dequeueSyncItems, collection, afterSequence, limit)
	if err != nil {
		log.Err(err).
			Str("func", "syncQueue.DequeueAfter").
			Str("collection", collection).
			Msg("failed to query sync queue")
		return nil, cacheError(ErrExecutingQuery, err)
	}
	defer rows.Close()

	items := make([]models.SyncQueueItem, 0, min(limit, 100))
	for rows.Next() {
		item, scanErr := scanSyncItem(rows)
		if scanErr != nil {
			log.Err(scanErr).Str("func", "syncQueue.DequeueAfter").Msg("failed to scan sync item")
			return nil, cacheError(ErrScanningRow, scanErr)
		}
		items = append(items, item)
	}
	if rowsErr := rows.Err(); rowsErr != nil {
		log.Err(rowsErr).Str("func", "syncQueue.DequeueAfter").Msg("error occurred during rows iteration")
		return nil, cacheError(ErrScanningRows, rowsErr)
	}

	return items, nil
}

// Remove deletes item only when the queued row still has the same method
// and generation, so a mutation enqueued during a push stays queued.
func (s *syncQueue) Remove(ctx context.Context, item models.SyncQueueItem) (bool, error) {
	log := logger.FromContext(ctx)

	res, err := s.DB.ExecContext(ctx, removeSyncItem, item.Sequence, string(item.Method), item.Generation)
	if err != nil {
		log.Err(err).
			Str("func", "syncQueue.Remove").
			Int64("sequence", item.Sequence).
			Str("entity_id", item.EntityID).
			Msg("failed to remove sync item")
		return false, cacheError(ErrExecutingStatement, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, cacheError(ErrExecutingStatement, err)
	}
	return affected > 0, nil
}

// RemoveEntity is used once the remote has confirmed a newer write of the
// entity than the one queued.
func (s *syncQueue) RemoveEntity(ctx context.Context, collection, entityID string) (bool, error) {
	if err := validateKey(collection, entityID); err != nil {
		return false, err
	}

	res, err := s.DB.ExecContext(ctx, removeSyncEntity, collection, entityID)
	if err != nil {
		logger.FromContext(ctx).Err(err).
			Str("func", "syncQueue.RemoveEntity").
			Str("collection", collection).
			Str("entity_id", entityID).
			Msg("failed to remove queued entity")
		return false, cacheError(ErrExecutingStatement, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, cacheError(ErrExecutingStatement, err)
	}
	return affected > 0, nil
}

func (s *syncQueue) Clear(ctx context.Context, collection string) (int, error) {
	log := logger.FromContext(ctx)

	if !models.ValidCollectionName(collection) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidCollection, collection)
	}

	res, err := s.DB.ExecContext(ctx, clearSyncQueue, collection)
	if err != nil {
		log.Err(err).Str("func", "syncQueue.Clear").Str("collection", collection).Msg("failed to clear sync queue")
		return 0, cacheError(ErrExecutingStatement, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return 0, cacheError(ErrExecutingStatement, err)
	}
	return int(affected), nil
}

func (s *syncQueue) Count(ctx context.Context, collection string) (int, error) {
	if !models.ValidCollectionName(collection) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidCollection, collection)
	}

	var count int
	if err := s.DB.QueryRowContext(ctx, countSyncItems, collection).Scan(&count); err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "syncQueue.Count").Msg("failed to count sync items")
		return 0, cacheError(ErrExecutingQuery, err)
	}
	return count, nil
}

// Collections lists the collections that have pending items.
func (s *syncQueue) Collections(ctx context.Context) ([]string, error) {
	rows, err := s.DB.QueryContext(ctx, syncQueueCollections)
	if err != nil {
		return nil, cacheError(ErrExecutingQuery, err)
	}
	defer rows.Close()

	var collections []string
	for rows.Next() {
		var collection string
		if err = rows.Scan(&collection); err != nil {
			return nil, cacheError(ErrScanningRow, err)
		}
		collections = append(collections, collection)
	}
	if err = rows.Err(); err != nil {
		return nil, cacheError(ErrScanningRows, err)
	}
	return collections, nil
}

func scanSyncItem(row rowScanner) (models.SyncQueueItem, error) {
	var (
		item       models.SyncQueueItem
		method     string
		enqueuedAt int64
	)
	if err := row.Scan(&item.Sequence, &item.Collection, &item.EntityID, &method, &enqueuedAt, &item.Generation); err != nil {
		return models.SyncQueueItem{}, err
	}
	item.Method = models.RequestMethod(method)
	item.EnqueuedAt = time.Unix(0, enqueuedAt)
	return item, nil
}

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"time"

	"github.com/MKhiriev/go-sync-store/models"
)

//go:generate mockgen -source=client_interfaces.go -destination=../mock/client_store_mock.go -package=mock

// LocalCache persists entities per collection on the client device.
//
// Entries older than the collection TTL are treated as absent by Get, Query
// and Count. They are not removed until overwritten or deleted.
type LocalCache interface {
	Get(ctx context.Context, collection, id string) (models.CacheEntry, bool, error)
	// Peek reads an entry ignoring its TTL.
	Peek(ctx context.Context, collection, id string) (models.CacheEntry, bool, error)
	Query(ctx context.Context, collection string, q models.Query) ([]models.CacheEntry, error)
	Count(ctx context.Context, collection string, filter models.Filter) (int, error)

	Put(ctx context.Context, collection string, entity models.Entity) (models.CacheEntry, error)
	// PutBatch writes all entities in one transaction.
	PutBatch(ctx context.Context, collection string, entities []models.Entity) error
	// ReplaceQuery deletes the entries matching filter and writes entities
	// in the same transaction.
	ReplaceQuery(ctx context.Context, collection string, filter models.Filter, entities []models.Entity) error

	Delete(ctx context.Context, collection, id string) error
	DeleteQuery(ctx context.Context, collection string, filter models.Filter) (int, error)
	ClearCollection(ctx context.Context, collection string) error
	ClearAll(ctx context.Context) error

	// SetTTL sets the lifetime of entries in collection; 0 disables expiry.
	SetTTL(collection string, ttl time.Duration) error
	TTL(collection string) time.Duration
}

// SyncQueue records pending mutations per collection.
//
// At most one item exists per (collection, entity id). Items come back in
// enqueue order and are removed only after the remote confirmed them.
type SyncQueue interface {
	Enqueue(ctx context.Context, collection, entityID string, method models.RequestMethod) (models.SyncQueueItem, error)
	DequeueBatch(ctx context.Context, collection string, maxCount int) ([]models.SyncQueueItem, error)
	// DequeueAfter returns up to maxCount items with a sequence greater than
	// afterSequence.
	DequeueAfter(ctx context.Context, collection string, afterSequence int64, maxCount int) ([]models.SyncQueueItem, error)
	// Remove deletes item unless it was replaced by a newer mutation. It
	// reports whether a row was removed.
	Remove(ctx context.Context, item models.SyncQueueItem) (bool, error)
	// RemoveEntity drops whatever is queued for the entity regardless of
	// method or generation.
	RemoveEntity(ctx context.Context, collection, entityID string) (bool, error)
	Clear(ctx context.Context, collection string) (int, error)
	Count(ctx context.Context, collection string) (int, error)
	Collections(ctx context.Context) ([]string, error)
}

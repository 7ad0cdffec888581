// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

const (
	cacheEntriesTable = "cache_entries"

	upsertCacheEntry = `
		INSERT INTO cache_entries (
			collection,
			id,
			revision,
			payload,
			stored_at
		) VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (collection, id) DO UPDATE SET
			revision = excluded.revision,
			payload = excluded.payload,
			stored_at = excluded.stored_at;`

	getCacheEntry = `
		SELECT
			collection,
			id,
			revision,
			payload,
			stored_at
		FROM cache_entries
		WHERE collection = ? AND id = ?;`

	deleteCacheEntry = `
		DELETE FROM cache_entries
		WHERE collection = ? AND id = ?;`

	clearCacheCollection = `
		DELETE FROM cache_entries
		WHERE collection = ?;`

	clearCache = `DELETE FROM cache_entries;`

	enqueueSyncItem = `
		INSERT INTO sync_queue (
			collection,
			entity_id,
			method,
			enqueued_at
		) VALUES (?, ?, ?, ?)
		ON CONFLICT (collection, entity_id) DO UPDATE SET
			method = excluded.method,
			enqueued_at = excluded.enqueued_at,
			generation = sync_queue.generation + 1
		RETURNING sequence, collection, entity_id, method, enqueued_at, generation;`

	dequeueSyncItems = `
		SELECT sequence, collection, entity_id, method, enqueued_at, generation
		FROM sync_queue
		WHERE collection = ? AND sequence > ?
		ORDER BY sequence
		LIMIT ?;`

	removeSyncItem = `
		DELETE FROM sync_queue
		WHERE sequence = ? AND method = ? AND generation = ?;`

	removeSyncEntity = `
		DELETE FROM sync_queue
		WHERE collection = ? AND entity_id = ?;`

	clearSyncQueue = `
		DELETE FROM sync_queue
		WHERE collection = ?;`

	countSyncItems = `
		SELECT COUNT(*)
		FROM sync_queue
		WHERE collection = ?;`

	syncQueueCollections = `
		SELECT DISTINCT collection
		FROM sync_queue
		ORDER BY collection;`
)

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	sq "github.com/Masterminds/squirrel"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

const (
	saveEntity = `
		INSERT INTO entities (collection, id, revision, payload, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
		ON CONFLICT (collection, id) DO UPDATE SET
			revision = EXCLUDED.revision,
			payload = EXCLUDED.payload,
			updated_at = NOW()
		WHERE entities.revision = $5 OR $5 = ''
		RETURNING revision;`

	findEntityByID = `
		SELECT id, revision, payload
		FROM entities
		WHERE collection = $1 AND id = $2;`

	deleteEntity = `
		DELETE FROM entities
		WHERE collection = $1 AND id = $2;`

	createFile = `
		INSERT INTO files (id, filename, size, mime_type, status, committed, checksum, storage_key)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at;`

	getFile = `
		SELECT id, filename, size, mime_type, status, committed, checksum, storage_key, created_at, updated_at
		FROM files
		WHERE id = $1;`

	updateFileProgress = `
		UPDATE files
		SET committed = $2, status = $3, checksum = $4, updated_at = NOW()
		WHERE id = $1;`
)

// buildFindAllEntitiesQuery selects the entities of collection in insertion
// order, optionally narrowed to ids.
func buildFindAllEntitiesQuery(collection string, ids []string) (string, []any, error) {
	builder := psql.Select("id", "revision", "payload").
		From("entities").
		Where(sq.Eq{"collection": collection}).
		OrderBy("created_at", "id")

	if len(ids) > 0 {
		builder = builder.Where(sq.Eq{"id": ids})
	}

	return builder.ToSql()
}

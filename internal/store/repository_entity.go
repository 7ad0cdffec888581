// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/MKhiriev/go-sync-store/internal/logger"
	"github.com/MKhiriev/go-sync-store/models"
)

// entityRepository is the PostgreSQL-backed implementation of
// [EntityRepository]. Every collection shares the "entities" table; payloads
// are stored as JSONB.
type entityRepository struct {
	*DB
	logger *logger.Logger
}

// NewEntityRepository constructs an [EntityRepository] backed by db.
func NewEntityRepository(db *DB, logger *logger.Logger) EntityRepository {
	return &entityRepository{
		DB:     db,
		logger: logger,
	}
}

// Save upserts a single entity. The ON CONFLICT clause only updates the row
// when the stored revision matches the one supplied by the client; no
// returned row means the precondition failed.
func (r *entityRepository) Save(ctx context.Context, collection string, entity models.Entity, newRevision string) (models.Entity, error) {
	log := logger.FromContext(ctx)

	payload := entity.Payload
	if len(payload) == 0 {
		payload = []byte("{}")
	}

	var revision string
	err := r.DB.QueryRowContext(ctx, saveEntity,
		collection,
		entity.ID,
		newRevision,
		[]byte(payload),
		entity.Revision,
	).Scan(&revision)
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug().
			Str("func", "entityRepository.Save").
			Str("collection", collection).
			Str("id", entity.ID).
			Str("revision", entity.Revision).
			Msg("revision precondition failed")
		return models.Entity{}, ErrRevisionConflict
	}
	if err != nil {
		log.Err(err).
			Str("func", "entityRepository.Save").
			Str("collection", collection).
			Str("id", entity.ID).
			Str("pg_code", postgresError(err)).
			Bool("retryable", r.retryable(err)).
			Msg("failed to upsert entity")
		return models.Entity{}, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return models.Entity{ID: entity.ID, Revision: revision, Payload: payload}, nil
}

func (r *entityRepository) Delete(ctx context.Context, collection, id string) error {
	log := logger.FromContext(ctx)

	res, err := r.DB.ExecContext(ctx, deleteEntity, collection, id)
	if err != nil {
		log.Err(err).
			Str("func", "entityRepository.Delete").
			Str("collection", collection).
			Str("id", id).
			Msg("failed to delete entity")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	if affected == 0 {
		return ErrEntityNotFound
	}
	return nil
}

func (r *entityRepository) FindByID(ctx context.Context, collection, id string) (models.Entity, error) {
	log := logger.FromContext(ctx)

	entity, err := scanEntity(r.DB.QueryRowContext(ctx, findEntityByID, collection, id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Entity{}, ErrEntityNotFound
	}
	if err != nil {
		log.Err(err).
			Str("func", "entityRepository.FindByID").
			Str("collection", collection).
			Str("id", id).
			Msg("failed to scan entity row")
		return models.Entity{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}
	return entity, nil
}

func (r *entityRepository) FindAll(ctx context.Context, collection string, ids ...string) ([]models.Entity, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildFindAllEntitiesQuery(collection, ids)
	if err != nil {
		log.Err(err).Str("func", "entityRepository.FindAll").Msg("failed to create query")
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).
			Str("func", "entityRepository.FindAll").
			Str("collection", collection).
			Int("ids", len(ids)).
			Msg("failed to execute query for entities")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	entities := make([]models.Entity, 0, 50)
	for rows.Next() {
		entity, scanErr := scanEntity(rows)
		if scanErr != nil {
			log.Err(scanErr).Str("func", "entityRepository.FindAll").Msg("failed to scan entity row")
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, scanErr)
		}
		entities = append(entities, entity)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		log.Err(rowsErr).Str("func", "entityRepository.FindAll").Msg("error occurred during rows iteration")
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, rowsErr)
	}

	return entities, nil
}

func scanEntity(row rowScanner) (models.Entity, error) {
	var (
		entity  models.Entity
		payload []byte
	)
	if err := row.Scan(&entity.ID, &entity.Revision, &payload); err != nil {
		return models.Entity{}, err
	}
	entity.Payload = payload
	return entity, nil
}

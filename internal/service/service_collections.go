// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/MKhiriev/go-sync-store/internal/logger"
	"github.com/MKhiriev/go-sync-store/internal/query"
	"github.com/MKhiriev/go-sync-store/internal/store"
	"github.com/MKhiriev/go-sync-store/internal/utils"
	"github.com/MKhiriev/go-sync-store/internal/validators"
	"github.com/MKhiriev/go-sync-store/models"
)

// MaxBatchSize bounds the entities of one BatchSave and the ids of one
// BatchDelete.
const MaxBatchSize = 1000

// collectionService stores entities through an EntityRepository. Every
// accepted save gets a fresh revision.
type collectionService struct {
	entities  store.EntityRepository
	validator validators.Validator
	revisions *utils.UUIDGenerator

	logger *logger.Logger
}

func NewCollectionService(entities store.EntityRepository, logger *logger.Logger) CollectionService {
	return &collectionService{
		entities:  entities,
		validator: validators.NewEntityValidator(),
		revisions: utils.NewUUIDGenerator(),
		logger:    logger,
	}
}

// BatchSave upserts entities one by one. An entity supplying a revision is
// only written while that revision is still the stored one.
func (c *collectionService) BatchSave(ctx context.Context, collection string, entities []models.Entity) (models.BatchSaveResult, error) {
	if err := c.checkBatch(collection, len(entities)); err != nil {
		return models.BatchSaveResult{}, err
	}

	log := logger.FromContext(ctx)
	result := models.BatchSaveResult{Entities: make([]models.Entity, 0, len(entities))}

	for i, entity := range entities {
		if err := c.validator.Validate(ctx, entity); err != nil {
			result.Errors = append(result.Errors, saveError(i, entity.ID, models.CodeValidation, err))
			continue
		}

		saved, err := c.entities.Save(ctx, collection, entity, c.revisions.Generate())
		switch {
		case errors.Is(err, store.ErrRevisionConflict):
			result.Errors = append(result.Errors, saveError(i, entity.ID, models.CodeConflict, err))
		case err != nil:
			log.Err(err).
				Str("func", "collectionService.BatchSave").
				Str("collection", collection).
				Str("id", entity.ID).
				Msg("error saving entity")
			result.Errors = append(result.Errors, saveError(i, entity.ID, models.CodeInternal, err))
		default:
			result.Entities = append(result.Entities, saved)
		}
	}

	return result, nil
}

func (c *collectionService) BatchDelete(ctx context.Context, collection string, ids []string) (models.BatchDeleteResult, error) {
	if err := c.checkBatch(collection, len(ids)); err != nil {
		return models.BatchDeleteResult{}, err
	}

	log := logger.FromContext(ctx)
	result := models.BatchDeleteResult{Results: make([]models.DeleteItemResult, 0, len(ids))}

	for i, id := range ids {
		res := models.DeleteItemResult{ID: id}
		if err := c.validator.Validate(ctx, models.Entity{ID: id}, validators.FieldID); err != nil {
			res.Error = deleteError(i, id, models.CodeValidation, err)
			result.Results = append(result.Results, res)
			continue
		}

		err := c.entities.Delete(ctx, collection, id)
		switch {
		case errors.Is(err, store.ErrEntityNotFound):
			res.Error = deleteError(i, id, models.CodeNotFound, err)
		case err != nil:
			log.Err(err).
				Str("func", "collectionService.BatchDelete").
				Str("collection", collection).
				Str("id", id).
				Msg("error deleting entity")
			res.Error = deleteError(i, id, models.CodeInternal, err)
		}
		result.Results = append(result.Results, res)
	}

	return result, nil
}

// Query evaluates q against the stored entities of collection and reports
// the number of matches before paging.
func (c *collectionService) Query(ctx context.Context, collection string, q models.Query) (models.QueryResponse, error) {
	if err := c.checkCollection(collection); err != nil {
		return models.QueryResponse{}, err
	}
	if err := c.validator.Validate(ctx, q); err != nil {
		return models.QueryResponse{}, fmt.Errorf("%w: %w", ErrInvalidQuery, err)
	}

	stored, err := c.entities.FindAll(ctx, collection)
	if err != nil {
		return models.QueryResponse{}, fmt.Errorf("error loading %s: %w", collection, err)
	}

	items, total, err := query.Apply(stored, q)
	if err != nil {
		return models.QueryResponse{}, fmt.Errorf("error applying query to %s: %w", collection, err)
	}

	return models.QueryResponse{Items: items, TotalCount: &total}, nil
}

func (c *collectionService) Count(ctx context.Context, collection string, filter models.Filter) (int, error) {
	if err := c.checkCollection(collection); err != nil {
		return 0, err
	}
	q := models.Query{Filter: filter}
	if err := c.validator.Validate(ctx, q, validators.FieldFilter); err != nil {
		return 0, fmt.Errorf("%w: %w", ErrInvalidQuery, err)
	}

	stored, err := c.entities.FindAll(ctx, collection)
	if err != nil {
		return 0, fmt.Errorf("error loading %s: %w", collection, err)
	}

	_, total, err := query.Apply(stored, q)
	if err != nil {
		return 0, fmt.Errorf("error applying filter to %s: %w", collection, err)
	}
	return total, nil
}

func (c *collectionService) FindByID(ctx context.Context, collection, id string) (models.Entity, error) {
	if err := c.checkCollection(collection); err != nil {
		return models.Entity{}, err
	}
	if err := c.validator.Validate(ctx, models.Entity{ID: id}, validators.FieldID); err != nil {
		return models.Entity{}, fmt.Errorf("%w: %w", ErrInvalidDataProvided, err)
	}

	return c.entities.FindByID(ctx, collection, id)
}

func (c *collectionService) checkCollection(collection string) error {
	if !models.ValidCollectionName(collection) {
		return fmt.Errorf("%w: collection %q", ErrInvalidDataProvided, collection)
	}
	return nil
}

func (c *collectionService) checkBatch(collection string, n int) error {
	if err := c.checkCollection(collection); err != nil {
		return err
	}
	switch {
	case n == 0:
		return ErrEmptyBatch
	case n > MaxBatchSize:
		return fmt.Errorf("%w: %d items, limit %d", ErrBatchTooLarge, n, MaxBatchSize)
	}
	return nil
}

func saveError(index int, id string, code models.ErrorCode, err error) models.BatchItemError {
	return models.BatchItemError{Index: index, ID: id, Method: models.RequestMethodSave, Code: code, Message: err.Error()}
}

func deleteError(index int, id string, code models.ErrorCode, err error) *models.BatchItemError {
	return &models.BatchItemError{Index: index, ID: id, Method: models.RequestMethodDelete, Code: code, Message: err.Error()}
}

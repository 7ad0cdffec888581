// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MKhiriev/go-sync-store/internal/logger"
	"github.com/MKhiriev/go-sync-store/internal/mock"
	"github.com/MKhiriev/go-sync-store/internal/store"
	"github.com/MKhiriev/go-sync-store/models"
)

func newTestCollections(t *testing.T) (CollectionService, *mock.MockEntityRepository) {
	t.Helper()
	repo := mock.NewMockEntityRepository(gomock.NewController(t))
	return NewCollectionService(repo, logger.Nop()), repo
}

func storedEntity(id, revision, payload string) models.Entity {
	return models.Entity{ID: id, Revision: revision, Payload: json.RawMessage(payload)}
}

// ── BatchSave ────────────────────────────────────────────────────────────────

func TestCollectionService_BatchSave_PerIndexErrors(t *testing.T) {
	svc, repo := newTestCollections(t)
	ctx := context.Background()

	repo.EXPECT().Save(gomock.Any(), "notes", gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, e models.Entity, rev string) (models.Entity, error) {
			switch e.ID {
			case "stale":
				return models.Entity{}, store.ErrRevisionConflict
			case "broken":
				return models.Entity{}, errors.New("connection reset")
			}
			return models.Entity{ID: e.ID, Revision: rev, Payload: e.Payload}, nil
		}).Times(4)

	result, err := svc.BatchSave(ctx, "notes", []models.Entity{
		storedEntity("a", "", `{"v":1}`),
		storedEntity("bad id", "", `{}`),
		storedEntity("stale", "r0", `{}`),
		storedEntity("b", "", `[1]`),
		storedEntity("broken", "", `{}`),
		storedEntity("c", "r1", `{}`),
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "c"}, entityIDs(result.Entities))
	assert.Len(t, result.Entities[0].Revision, 36, "revisions are uuids")
	assert.NotEqual(t, result.Entities[0].Revision, result.Entities[1].Revision)

	require.Len(t, result.Errors, 4)
	want := []struct {
		index int
		code  models.ErrorCode
	}{
		{1, models.CodeValidation},
		{2, models.CodeConflict},
		{3, models.CodeValidation},
		{4, models.CodeInternal},
	}
	for i, w := range want {
		assert.Equal(t, w.index, result.Errors[i].Index)
		assert.Equal(t, w.code, result.Errors[i].Code)
		assert.Equal(t, models.RequestMethodSave, result.Errors[i].Method)
	}
	assert.Equal(t, "stale", result.Errors[1].ID)
}

func TestCollectionService_BatchSave_RejectsWholeBatch(t *testing.T) {
	svc, _ := newTestCollections(t)
	ctx := context.Background()

	tests := []struct {
		name       string
		collection string
		entities   []models.Entity
		wantErr    error
	}{
		{name: "invalid collection", collection: "bad name", entities: []models.Entity{storedEntity("a", "", `{}`)}, wantErr: ErrInvalidDataProvided},
		{name: "empty batch", collection: "notes", wantErr: ErrEmptyBatch},
		{name: "too large", collection: "notes", entities: make([]models.Entity, MaxBatchSize+1), wantErr: ErrBatchTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.BatchSave(ctx, tt.collection, tt.entities)
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

// ── BatchDelete ──────────────────────────────────────────────────────────────

func TestCollectionService_BatchDelete(t *testing.T) {
	svc, repo := newTestCollections(t)

	gomock.InOrder(
		repo.EXPECT().Delete(gomock.Any(), "notes", "a").Return(nil),
		repo.EXPECT().Delete(gomock.Any(), "notes", "gone").Return(store.ErrEntityNotFound),
		repo.EXPECT().Delete(gomock.Any(), "notes", "c").Return(errors.New("db down")),
	)

	result, err := svc.BatchDelete(context.Background(), "notes", []string{"a", "gone", "", "c"})
	require.NoError(t, err)
	require.Len(t, result.Results, 4)

	assert.Equal(t, []string{"a"}, result.Deleted())
	codes := make([]models.ErrorCode, 0, 3)
	for _, f := range result.Failed() {
		codes = append(codes, f.Code)
	}
	assert.Equal(t, []models.ErrorCode{models.CodeNotFound, models.CodeValidation, models.CodeInternal}, codes)
	assert.Equal(t, 2, result.Results[2].Error.Index)
}

// ── Query / Count ────────────────────────────────────────────────────────────

func TestCollectionService_Query(t *testing.T) {
	svc, repo := newTestCollections(t)

	repo.EXPECT().FindAll(gomock.Any(), "notes").Return([]models.Entity{
		storedEntity("a", "r", `{"done":true,"priority":1}`),
		storedEntity("b", "r", `{"done":false,"priority":5}`),
		storedEntity("c", "r", `{"done":true,"priority":3}`),
		storedEntity("d", "r", `{"done":true,"priority":2}`),
	}, nil)

	resp, err := svc.Query(context.Background(), "notes", models.Query{
		Filter: models.Filter{"done": true},
		Sort:   []models.SortField{{Field: "priority", Descending: true}},
		Limit:  2,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "d"}, entityIDs(resp.Items))
	require.NotNil(t, resp.TotalCount)
	assert.Equal(t, 3, *resp.TotalCount)
}

func TestCollectionService_Query_Invalid(t *testing.T) {
	svc, _ := newTestCollections(t)

	_, err := svc.Query(context.Background(), "notes", models.Query{Filter: models.Filter{"$where": "1"}})
	require.ErrorIs(t, err, ErrInvalidQuery)

	_, err = svc.Count(context.Background(), "notes", models.Filter{"bad field": 1})
	require.ErrorIs(t, err, ErrInvalidQuery)
}

func TestCollectionService_Count(t *testing.T) {
	svc, repo := newTestCollections(t)

	repo.EXPECT().FindAll(gomock.Any(), "notes").Return([]models.Entity{
		storedEntity("a", "r", `{"tag":"x"}`),
		storedEntity("b", "r", `{"tag":"y"}`),
		storedEntity("c", "r", `{"tag":"x"}`),
	}, nil)

	n, err := svc.Count(context.Background(), "notes", models.Filter{"tag": "x"})
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

// ── FindByID ─────────────────────────────────────────────────────────────────

func TestCollectionService_FindByID(t *testing.T) {
	svc, repo := newTestCollections(t)
	ctx := context.Background()

	repo.EXPECT().FindByID(gomock.Any(), "notes", "a").Return(storedEntity("a", "r1", `{}`), nil)
	repo.EXPECT().FindByID(gomock.Any(), "notes", "missing").Return(models.Entity{}, store.ErrEntityNotFound)

	got, err := svc.FindByID(ctx, "notes", "a")
	require.NoError(t, err)
	assert.Equal(t, "r1", got.Revision)

	_, err = svc.FindByID(ctx, "notes", "missing")
	require.ErrorIs(t, err, store.ErrEntityNotFound)

	_, err = svc.FindByID(ctx, "notes", "bad id")
	require.ErrorIs(t, err, ErrInvalidDataProvided)
}

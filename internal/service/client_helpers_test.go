// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MKhiriev/go-sync-store/internal/config"
	"github.com/MKhiriev/go-sync-store/internal/logger"
	"github.com/MKhiriev/go-sync-store/internal/mock"
	"github.com/MKhiriev/go-sync-store/internal/store"
	"github.com/MKhiriev/go-sync-store/models"
)

const testCollection = "notes"

// newTestStorages opens a migrated SQLite cache and queue in a temp dir.
func newTestStorages(t *testing.T) *store.ClientStorages {
	t.Helper()

	cfg := &config.ClientConfig{Storage: config.ClientStorage{
		DB: config.ClientDB{DSN: filepath.Join(t.TempDir(), "local.db")},
	}}
	storages, err := store.NewClientStorages(context.Background(), cfg, logger.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { storages.Close() })
	return storages
}

func newTestRemote(t *testing.T) *mock.MockRemoteService {
	t.Helper()
	return mock.NewMockRemoteService(gomock.NewController(t))
}

func ent(id, payload string) models.Entity {
	return models.Entity{ID: id, Payload: json.RawMessage(payload)}
}

func entityIDs(entities []models.Entity) []string {
	out := make([]string, 0, len(entities))
	for _, e := range entities {
		out = append(out, e.ID)
	}
	return out
}

func errorIndexes(errs []models.BatchItemError) []int {
	out := make([]int, 0, len(errs))
	for _, e := range errs {
		out = append(out, e.Index)
	}
	return out
}

// stage caches entities and queues a SAVE for each, like a SYNC store does.
func stage(t *testing.T, s *store.ClientStorages, entities ...models.Entity) {
	t.Helper()
	ctx := context.Background()
	for _, e := range entities {
		_, err := s.Cache.Put(ctx, testCollection, e)
		require.NoError(t, err)
		_, err = s.Queue.Enqueue(ctx, testCollection, e.ID, models.RequestMethodSave)
		require.NoError(t, err)
	}
}

func queuedIDs(t *testing.T, s *store.ClientStorages) []string {
	t.Helper()
	items, err := s.Queue.DequeueBatch(context.Background(), testCollection, 1000)
	require.NoError(t, err)
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.EntityID)
	}
	return out
}

// echoSave confirms every entity with revision "rev-" + id, except the
// indexes listed in fail.
func echoSave(fail map[int]models.ErrorCode) func(context.Context, string, []models.Entity) (models.BatchSaveResult, error) {
	return func(_ context.Context, _ string, entities []models.Entity) (models.BatchSaveResult, error) {
		var res models.BatchSaveResult
		for i, e := range entities {
			if code, bad := fail[i]; bad {
				res.Errors = append(res.Errors, models.BatchItemError{Index: i, Code: code, Message: "rejected"})
				continue
			}
			e.Revision = "rev-" + e.ID
			res.Entities = append(res.Entities, e)
		}
		return res, nil
	}
}

func testSyncConfig() config.ClientSync {
	return config.ClientSync{BatchSize: 100, PageSize: 10}
}

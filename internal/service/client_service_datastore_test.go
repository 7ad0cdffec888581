// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MKhiriev/go-sync-store/internal/adapter"
	"github.com/MKhiriev/go-sync-store/internal/logger"
	"github.com/MKhiriev/go-sync-store/internal/mock"
	"github.com/MKhiriev/go-sync-store/internal/store"
	"github.com/MKhiriev/go-sync-store/internal/utils"
	"github.com/MKhiriev/go-sync-store/internal/workers"
	"github.com/MKhiriev/go-sync-store/models"
)

func newTestStore(t *testing.T, mode models.StoreMode) (*dataStore, *store.ClientStorages, *mock.MockRemoteService) {
	t.Helper()

	storages := newTestStorages(t)
	remote := newTestRemote(t)
	busy := newBusyRegistry()
	cfg := testSyncConfig()
	pool := workers.NewPool(2)
	t.Cleanup(pool.Close)

	ds, err := newDataStore(testCollection, mode, storeDeps{
		cache:    storages.Cache,
		queue:    storages.Queue,
		remote:   remote,
		push:     newPushExecutor(storages.Cache, storages.Queue, remote, nil, busy, cfg, logger.Nop()),
		pull:     newPullExecutor(storages.Cache, storages.Queue, remote, busy, cfg, logger.Nop()),
		ids:      utils.NewUUIDGenerator(),
		pool:     pool,
		executor: workers.Inline,
		cfg:      cfg,
		logger:   logger.Nop(),
	})
	require.NoError(t, err)
	return ds, storages, remote
}

func offline() error {
	return fmt.Errorf("batch save: %w", adapter.ErrNetworkUnreachable)
}

func assertCached(t *testing.T, s *store.ClientStorages, id string, want bool) models.CacheEntry {
	t.Helper()
	entry, ok, err := s.Cache.Peek(context.Background(), testCollection, id)
	require.NoError(t, err)
	assert.Equal(t, want, ok, "cached %s", id)
	return entry
}

func TestNewDataStore_Validation(t *testing.T) {
	_, err := newDataStore("notes", "BOGUS", storeDeps{logger: logger.Nop()})
	require.ErrorIs(t, err, ErrInvalidStoreMode)

	_, err = newDataStore("bad name!", models.StoreModeSync, storeDeps{logger: logger.Nop()})
	require.ErrorIs(t, err, ErrInvalidCollection)
}

// ── SYNC ─────────────────────────────────────────────────────────────────────

func TestDataStore_Sync_SaveIsLocalAndQueued(t *testing.T) {
	ctx := context.Background()
	ds, storages, _ := newTestStore(t, models.StoreModeSync)

	saved, err := ds.Save(ctx, models.Entity{Payload: []byte(`{"title":"a"}`)})
	require.NoError(t, err)
	assert.Len(t, saved.ID, 36, "new entities get a uuid")

	assertCached(t, storages, saved.ID, true)
	assert.Equal(t, []string{saved.ID}, queuedIDs(t, storages))

	n, err := ds.PendingCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestDataStore_Sync_SaveThenDeleteLeavesOneDelete(t *testing.T) {
	ctx := context.Background()
	ds, storages, _ := newTestStore(t, models.StoreModeSync)

	_, err := ds.Save(ctx, ent("x", `{}`))
	require.NoError(t, err)
	require.NoError(t, ds.Delete(ctx, "x"))

	items, err := storages.Queue.DequeueBatch(ctx, testCollection, 10)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "x", items[0].EntityID)
	assert.Equal(t, models.RequestMethodDelete, items[0].Method)
	assertCached(t, storages, "x", false)
}

func TestDataStore_Sync_SaveInheritsCachedRevision(t *testing.T) {
	ctx := context.Background()
	ds, storages, _ := newTestStore(t, models.StoreModeSync)

	_, err := storages.Cache.Put(ctx, testCollection, models.Entity{ID: "a", Revision: "r1", Payload: []byte(`{}`)})
	require.NoError(t, err)

	saved, err := ds.Save(ctx, ent("a", `{"v":2}`))
	require.NoError(t, err)
	assert.Equal(t, "r1", saved.Revision)
}

func TestDataStore_SaveListReportsOriginalIndexes(t *testing.T) {
	ctx := context.Background()
	ds, storages, _ := newTestStore(t, models.StoreModeSync)

	result, err := ds.SaveList(ctx, []models.Entity{
		ent("a", `{}`),
		ent("bad id", `{}`),
		ent("c", `{}`),
	})
	require.NoError(t, err)
	assert.True(t, result.HaveErrors())
	assert.Equal(t, []int{1}, errorIndexes(result.Errors))
	assert.Equal(t, models.CodeValidation, result.Errors[0].Code)
	assert.Equal(t, []string{"a", "c"}, entityIDs(result.Entities))
	assert.Equal(t, []string{"a", "c"}, queuedIDs(t, storages))
}

func TestDataStore_DeleteIDsKeepsRequestOrder(t *testing.T) {
	ds, _, _ := newTestStore(t, models.StoreModeSync)

	result, err := ds.DeleteIDs(context.Background(), []string{"a", "bad id", "c"})
	require.NoError(t, err)
	require.Len(t, result.Results, 3)
	assert.Equal(t, []string{"a", "c"}, result.Deleted())
	failed := result.Failed()
	require.Len(t, failed, 1)
	assert.Equal(t, 1, failed[0].Index)
	assert.Equal(t, "bad id", result.Results[1].ID)
}

func TestDataStore_Sync_FindServesCacheOnly(t *testing.T) {
	ctx := context.Background()
	ds, storages, _ := newTestStore(t, models.StoreModeSync)

	_, err := storages.Cache.Put(ctx, testCollection, ent("a", `{"v":1}`))
	require.NoError(t, err)

	got, err := ds.Find(ctx, "a")
	require.NoError(t, err)
	assert.JSONEq(t, `{"v":1}`, string(got.Payload))

	_, err = ds.Find(ctx, "missing")
	require.ErrorIs(t, err, ErrEntityNotFound)

	resp, err := ds.FindQuery(ctx, models.Query{}, FindOptions{})
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, entityIDs(resp.Items))

	n, err := ds.Count(ctx, models.Filter{})
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestDataStore_PushThenPullThroughSync(t *testing.T) {
	ctx := context.Background()
	ds, storages, remote := newTestStore(t, models.StoreModeSync)
	stage(t, storages, ent("a", `{}`))

	gomock.InOrder(
		remote.EXPECT().BatchSave(gomock.Any(), testCollection, gomock.Any()).DoAndReturn(echoSave(nil)),
		remote.EXPECT().Query(gomock.Any(), testCollection, gomock.Any()).
			Return(models.QueryResponse{Items: []models.Entity{{ID: "a", Revision: "rev-a"}, {ID: "b", Revision: "r1"}}}, nil),
	)

	result, err := ds.Sync(ctx, models.Query{}, 10)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Push.SuccessCount)
	assert.Equal(t, 2, result.Pull.Count)
	assert.False(t, result.HaveErrors())
	assertCached(t, storages, "b", true)
}

func TestDataStore_SyncSkipsPullAfterPushErrors(t *testing.T) {
	ds, storages, remote := newTestStore(t, models.StoreModeSync)
	stage(t, storages, ent("a", `{}`))

	remote.EXPECT().BatchSave(gomock.Any(), testCollection, gomock.Any()).Return(models.BatchSaveResult{}, offline())

	result, err := ds.Sync(context.Background(), models.Query{}, 10)
	require.ErrorIs(t, err, ErrPendingSyncItems)
	assert.Len(t, result.Push.Errors, 1)
	assert.Zero(t, result.Pull.Pages)
}

func TestDataStore_PurgeAndClear(t *testing.T) {
	ctx := context.Background()
	ds, storages, _ := newTestStore(t, models.StoreModeSync)
	stage(t, storages, ent("a", `{}`), ent("b", `{}`))

	n, err := ds.Purge(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assertCached(t, storages, "a", true)

	stage(t, storages, ent("c", `{}`))
	require.NoError(t, ds.Clear(ctx))
	assertCached(t, storages, "a", false)
	assert.Empty(t, queuedIDs(t, storages))
}

// ── NETWORK ──────────────────────────────────────────────────────────────────

func TestDataStore_Network_ForwardsWithoutCaching(t *testing.T) {
	ctx := context.Background()
	ds, storages, remote := newTestStore(t, models.StoreModeNetwork)

	remote.EXPECT().BatchSave(gomock.Any(), testCollection, gomock.Any()).DoAndReturn(echoSave(nil))
	remote.EXPECT().FindByID(gomock.Any(), testCollection, "a").Return(models.Entity{}, adapter.ErrNotFound)

	saved, err := ds.Save(ctx, ent("a", `{}`))
	require.NoError(t, err)
	assert.Equal(t, "rev-a", saved.Revision)
	assertCached(t, storages, "a", false)
	assert.Empty(t, queuedIDs(t, storages))

	_, err = ds.Find(ctx, "a")
	require.ErrorIs(t, err, ErrEntityNotFound)
}

func TestDataStore_Network_RejectsLocalOperations(t *testing.T) {
	ctx := context.Background()
	ds, _, _ := newTestStore(t, models.StoreModeNetwork)

	_, err := ds.Push(ctx)
	require.ErrorIs(t, err, ErrInvalidStoreMode)
	_, err = ds.Pull(ctx, models.Query{}, 0)
	require.ErrorIs(t, err, ErrInvalidStoreMode)
	_, err = ds.Sync(ctx, models.Query{}, 0)
	require.ErrorIs(t, err, ErrInvalidStoreMode)
	_, err = ds.Purge(ctx)
	require.ErrorIs(t, err, ErrInvalidStoreMode)
	require.ErrorIs(t, ds.Clear(ctx), ErrInvalidStoreMode)

	n, err := ds.PendingCount(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestDataStore_SaveConflictCarriesSnapshots(t *testing.T) {
	ds, _, remote := newTestStore(t, models.StoreModeNetwork)

	remote.EXPECT().BatchSave(gomock.Any(), testCollection, gomock.Any()).
		DoAndReturn(echoSave(map[int]models.ErrorCode{0: models.CodeConflict}))
	remote.EXPECT().FindByID(gomock.Any(), testCollection, "a").
		Return(models.Entity{ID: "a", Revision: "r7", Payload: []byte(`{}`)}, nil)

	_, err := ds.Save(context.Background(), models.Entity{ID: "a", Revision: "r1", Payload: []byte(`{}`)})
	require.ErrorIs(t, err, ErrConflict)

	var conflict *ConflictError
	require.True(t, errors.As(err, &conflict))
	assert.Equal(t, "r1", conflict.Local.Revision)
	require.NotNil(t, conflict.Remote)
	assert.Equal(t, "r7", conflict.Remote.Revision)
}

func TestDataStore_Network_CountNetwork(t *testing.T) {
	ds, _, remote := newTestStore(t, models.StoreModeSync)
	remote.EXPECT().Count(gomock.Any(), testCollection, models.Filter{"done": true}).Return(42, nil)

	n, err := ds.CountNetwork(context.Background(), models.Filter{"done": true})
	require.NoError(t, err)
	assert.Equal(t, 42, n)
}

// ── AUTO ─────────────────────────────────────────────────────────────────────

func TestDataStore_Auto_Save(t *testing.T) {
	tests := []struct {
		name       string
		remoteErr  error
		wantErr    error
		wantCached bool
		wantQueued []string
	}{
		{name: "online writes through", wantCached: true},
		{name: "offline falls back to queue", remoteErr: offline(), wantCached: true, wantQueued: []string{"a"}},
		{name: "timeout falls back to queue", remoteErr: adapter.ErrTimeout, wantCached: true, wantQueued: []string{"a"}},
		{name: "validation never falls back", remoteErr: adapter.ErrValidation, wantErr: adapter.ErrValidation},
		{name: "unauthorized never falls back", remoteErr: adapter.ErrUnauthorized, wantErr: adapter.ErrUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ds, storages, remote := newTestStore(t, models.StoreModeAuto)

			call := remote.EXPECT().BatchSave(gomock.Any(), testCollection, gomock.Any())
			if tt.remoteErr != nil {
				call.Return(models.BatchSaveResult{}, tt.remoteErr)
			} else {
				call.DoAndReturn(echoSave(nil))
			}

			_, err := ds.Save(context.Background(), ent("a", `{}`))
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}

			assertCached(t, storages, "a", tt.wantCached)
			assert.Equal(t, len(tt.wantQueued), len(queuedIDs(t, storages)))
		})
	}
}

func TestDataStore_Auto_FindFallsBackToCache(t *testing.T) {
	ctx := context.Background()
	ds, storages, remote := newTestStore(t, models.StoreModeAuto)

	_, err := storages.Cache.Put(ctx, testCollection, ent("a", `{"v":"cached"}`))
	require.NoError(t, err)

	gomock.InOrder(
		remote.EXPECT().FindByID(gomock.Any(), testCollection, "a").Return(models.Entity{}, adapter.ErrNetworkUnreachable),
		remote.EXPECT().FindByID(gomock.Any(), testCollection, "a").
			Return(models.Entity{ID: "a", Revision: "r2", Payload: []byte(`{"v":"remote"}`)}, nil),
	)

	got, err := ds.Find(ctx, "a")
	require.NoError(t, err)
	assert.JSONEq(t, `{"v":"cached"}`, string(got.Payload))

	got, err = ds.Find(ctx, "a")
	require.NoError(t, err)
	assert.JSONEq(t, `{"v":"remote"}`, string(got.Payload))

	entry := assertCached(t, storages, "a", true)
	assert.Equal(t, "r2", entry.Revision, "remote reads refresh the cache")
}

func TestDataStore_Auto_RemoteReadsDoNotOverwritePendingChanges(t *testing.T) {
	ctx := context.Background()
	ds, storages, remote := newTestStore(t, models.StoreModeAuto)
	stage(t, storages, ent("a", `{"v":"local"}`))

	remote.EXPECT().Query(gomock.Any(), testCollection, gomock.Any()).
		Return(models.QueryResponse{Items: []models.Entity{{ID: "a", Revision: "r2", Payload: []byte(`{"v":"remote"}`)}}}, nil)

	resp, err := ds.FindQuery(ctx, models.Query{}, FindOptions{})
	require.NoError(t, err)
	require.Len(t, resp.Items, 1)

	entry := assertCached(t, storages, "a", true)
	assert.JSONEq(t, `{"v":"local"}`, string(entry.Payload))
}

func TestDataStore_Auto_DeleteOffline(t *testing.T) {
	ctx := context.Background()
	ds, storages, remote := newTestStore(t, models.StoreModeAuto)

	_, err := storages.Cache.Put(ctx, testCollection, ent("a", `{}`))
	require.NoError(t, err)

	remote.EXPECT().BatchDelete(gomock.Any(), testCollection, []string{"a"}).
		Return(models.BatchDeleteResult{}, adapter.ErrNetworkUnreachable)

	require.NoError(t, ds.Delete(ctx, "a"))
	assertCached(t, storages, "a", false)
	assert.Equal(t, []string{"a"}, queuedIDs(t, storages))
}

func TestDataStore_OnlineWriteSupersedesQueuedMutation(t *testing.T) {
	for _, mode := range []models.StoreMode{models.StoreModeAuto, models.StoreModeCache} {
		t.Run(string(mode)+" offline delete then online save", func(t *testing.T) {
			ctx := context.Background()
			ds, storages, remote := newTestStore(t, mode)
			_, err := storages.Cache.Put(ctx, testCollection, ent("a", `{"v":1}`))
			require.NoError(t, err)

			remote.EXPECT().BatchDelete(gomock.Any(), testCollection, []string{"a"}).
				Return(models.BatchDeleteResult{}, offline())
			require.NoError(t, ds.Delete(ctx, "a"))
			require.Equal(t, []string{"a"}, queuedIDs(t, storages))

			remote.EXPECT().BatchSave(gomock.Any(), testCollection, gomock.Any()).DoAndReturn(echoSave(nil))
			_, err = ds.Save(ctx, ent("a", `{"v":2}`))
			require.NoError(t, err)

			assert.Empty(t, queuedIDs(t, storages), "the confirmed save replaces the queued delete")
			assertCached(t, storages, "a", true)

			// no BatchDelete is expected: replaying the delete would lose the save
			result, err := ds.Push(ctx)
			require.NoError(t, err)
			assert.Zero(t, result.Attempted)
		})

		t.Run(string(mode)+" offline save then online delete", func(t *testing.T) {
			ctx := context.Background()
			ds, storages, remote := newTestStore(t, mode)

			remote.EXPECT().BatchSave(gomock.Any(), testCollection, gomock.Any()).
				Return(models.BatchSaveResult{}, offline())
			_, err := ds.Save(ctx, ent("a", `{}`))
			require.NoError(t, err)
			require.Equal(t, []string{"a"}, queuedIDs(t, storages))

			remote.EXPECT().BatchDelete(gomock.Any(), testCollection, []string{"a"}).
				Return(models.BatchDeleteResult{Results: []models.DeleteItemResult{{ID: "a"}}}, nil)
			require.NoError(t, ds.Delete(ctx, "a"))

			assert.Empty(t, queuedIDs(t, storages))
			assertCached(t, storages, "a", false)

			result, err := ds.Push(ctx)
			require.NoError(t, err)
			assert.Zero(t, result.Attempted)
			assert.Empty(t, result.Errors)
		})
	}
}

func TestDataStore_RemoteRejectionKeepsQueuedMutation(t *testing.T) {
	ctx := context.Background()
	ds, storages, remote := newTestStore(t, models.StoreModeAuto)
	stage(t, storages, ent("a", `{"v":"offline"}`))

	remote.EXPECT().BatchSave(gomock.Any(), testCollection, gomock.Any()).
		DoAndReturn(echoSave(map[int]models.ErrorCode{0: models.CodeValidation}))
	_, err := ds.Save(ctx, ent("a", `{"v":"bad"}`))
	require.ErrorIs(t, err, adapter.ErrValidation)

	assert.Equal(t, []string{"a"}, queuedIDs(t, storages))
}

func TestDataStore_Auto_CountFallsBackToCache(t *testing.T) {
	ctx := context.Background()
	ds, storages, remote := newTestStore(t, models.StoreModeAuto)

	_, err := storages.Cache.Put(ctx, testCollection, ent("a", `{}`))
	require.NoError(t, err)
	remote.EXPECT().Count(gomock.Any(), testCollection, gomock.Any()).Return(0, adapter.ErrTimeout)

	n, err := ds.Count(ctx, models.Filter{})
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

// ── CACHE ────────────────────────────────────────────────────────────────────

func TestDataStore_Cache_SaveOfflineQueues(t *testing.T) {
	ds, storages, remote := newTestStore(t, models.StoreModeCache)
	remote.EXPECT().BatchSave(gomock.Any(), testCollection, gomock.Any()).Return(models.BatchSaveResult{}, offline())

	saved, err := ds.Save(context.Background(), ent("a", `{}`))
	require.NoError(t, err)
	assert.Equal(t, "a", saved.ID)
	assertCached(t, storages, "a", true)
	assert.Equal(t, []string{"a"}, queuedIDs(t, storages))
}

func TestDataStore_Cache_RemoteRejectionKeepsLocalWrite(t *testing.T) {
	ds, storages, remote := newTestStore(t, models.StoreModeCache)
	remote.EXPECT().BatchSave(gomock.Any(), testCollection, gomock.Any()).
		DoAndReturn(echoSave(map[int]models.ErrorCode{0: models.CodeValidation}))

	_, err := ds.Save(context.Background(), ent("a", `{}`))
	require.ErrorIs(t, err, adapter.ErrValidation)
	assertCached(t, storages, "a", true)
	assert.Empty(t, queuedIDs(t, storages))
}

func TestDataStore_Cache_SaveOnlineStoresServerRevision(t *testing.T) {
	ds, storages, remote := newTestStore(t, models.StoreModeCache)
	remote.EXPECT().BatchSave(gomock.Any(), testCollection, gomock.Any()).DoAndReturn(echoSave(nil))

	_, err := ds.Save(context.Background(), ent("a", `{}`))
	require.NoError(t, err)
	entry := assertCached(t, storages, "a", true)
	assert.Equal(t, "rev-a", entry.Revision)
	assert.Empty(t, queuedIDs(t, storages))
}

func TestDataStore_Cache_FindMissFetchesRemote(t *testing.T) {
	ctx := context.Background()
	ds, storages, remote := newTestStore(t, models.StoreModeCache)

	remote.EXPECT().FindByID(gomock.Any(), testCollection, "a").
		Return(models.Entity{ID: "a", Revision: "r1", Payload: []byte(`{}`)}, nil).Times(1)

	_, err := ds.Find(ctx, "a")
	require.NoError(t, err)
	assertCached(t, storages, "a", true)

	_, err = ds.Find(ctx, "a")
	require.NoError(t, err, "second read is a cache hit")
}

func TestDataStore_Cache_FindQueryRefresh(t *testing.T) {
	ctx := context.Background()
	ds, _, remote := newTestStore(t, models.StoreModeCache)

	remote.EXPECT().Query(gomock.Any(), testCollection, gomock.Any()).
		Return(models.QueryResponse{Items: []models.Entity{ent("a", `{}`), ent("b", `{}`)}}, nil)

	resp, err := ds.FindQuery(ctx, models.Query{}, FindOptions{})
	require.NoError(t, err)
	assert.Empty(t, resp.Items, "no refresh, empty cache")

	resp, err = ds.FindQuery(ctx, models.Query{}, FindOptions{Refresh: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, entityIDs(resp.Items))
}

// ── Async ────────────────────────────────────────────────────────────────────

func TestDataStore_AsyncForms(t *testing.T) {
	ds, storages, _ := newTestStore(t, models.StoreModeSync)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	delivered := make(chan models.Entity, 1)
	saved, err := ds.SaveAsync(ctx, ent("a", `{}`), func(e models.Entity, err error) {
		assert.NoError(t, err)
		delivered <- e
	}).Wait(ctx)
	require.NoError(t, err)
	assert.Equal(t, "a", saved.ID)
	assertCached(t, storages, "a", true)

	select {
	case e := <-delivered:
		assert.Equal(t, "a", e.ID)
	case <-ctx.Done():
		t.Fatal("callback was not delivered")
	}

	found, err := ds.FindAsync(ctx, "a", nil).Wait(ctx)
	require.NoError(t, err)
	assert.Equal(t, "a", found.ID)
}

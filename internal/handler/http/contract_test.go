// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-sync-store/internal/adapter"
	"github.com/MKhiriev/go-sync-store/internal/config"
	"github.com/MKhiriev/go-sync-store/internal/logger"
	"github.com/MKhiriev/go-sync-store/internal/service"
	"github.com/MKhiriev/go-sync-store/internal/store"
	"github.com/MKhiriev/go-sync-store/internal/utils"
	"github.com/MKhiriev/go-sync-store/models"
)

// The remote adapter talks to the router over a real listener.

func newContractRemote(t *testing.T, env *testEnv, token string) adapter.RemoteService {
	t.Helper()
	srv := httptest.NewServer(env.router)
	t.Cleanup(srv.Close)

	remote, err := adapter.NewHTTPRemoteService(config.ClientAdapter{
		HTTPAddress:    srv.URL,
		RequestTimeout: 5 * time.Second,
		Token:          token,
	}, logger.Nop())
	require.NoError(t, err)
	return remote
}

func TestContract_CollectionsRoundTrip(t *testing.T) {
	env := newTestEnv(t)
	remote := newContractRemote(t, env, env.token)
	ctx := context.Background()

	env.collections.batchSave = func(_ context.Context, collection string, entities []models.Entity) (models.BatchSaveResult, error) {
		out := make([]models.Entity, len(entities))
		for i, e := range entities {
			e.Revision = collection + "-rev"
			out[i] = e
		}
		return models.BatchSaveResult{Entities: out}, nil
	}
	env.collections.count = func(context.Context, string, models.Filter) (int, error) { return 3, nil }
	env.collections.findByID = func(context.Context, string, string) (models.Entity, error) {
		return models.Entity{}, store.ErrEntityNotFound
	}
	env.collections.query = func(_ context.Context, _ string, q models.Query) (models.QueryResponse, error) {
		total := 1
		return models.QueryResponse{Items: []models.Entity{{ID: "a", Revision: "r", Payload: json.RawMessage(`{}`)}}, TotalCount: &total}, nil
	}

	require.NoError(t, remote.Ping(ctx))

	saved, err := remote.BatchSave(ctx, "notes", []models.Entity{{ID: "a", Payload: json.RawMessage(`{"v":1}`)}})
	require.NoError(t, err)
	assert.Equal(t, "notes-rev", saved.Entities[0].Revision)

	n, err := remote.Count(ctx, "notes", nil)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	resp, err := remote.Query(ctx, "notes", models.Query{Limit: 1})
	require.NoError(t, err)
	require.NotNil(t, resp.TotalCount)
	assert.Equal(t, 1, *resp.TotalCount)

	_, err = remote.FindByID(ctx, "notes", "a")
	require.ErrorIs(t, err, adapter.ErrNotFound)
	assert.Equal(t, models.CodeNotFound, adapter.ErrorCode(err))
}

func TestContract_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		serviceErr error
		wantErr    error
	}{
		{name: "validation", serviceErr: service.ErrEmptyBatch, wantErr: adapter.ErrValidation},
		{name: "conflict", serviceErr: store.ErrRevisionConflict, wantErr: adapter.ErrConflict},
		{name: "not found", serviceErr: store.ErrEntityNotFound, wantErr: adapter.ErrNotFound},
		{name: "internal", serviceErr: store.ErrExecutingQuery, wantErr: adapter.ErrInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			remote := newContractRemote(t, env, env.token)
			env.collections.batchDelete = func(context.Context, string, []string) (models.BatchDeleteResult, error) {
				return models.BatchDeleteResult{}, tt.serviceErr
			}

			_, err := remote.BatchDelete(context.Background(), "notes", []string{"a"})

			require.ErrorIs(t, err, tt.wantErr)
			assert.False(t, adapter.IsOffline(err))
		})
	}
}

func TestContract_Unauthorized(t *testing.T) {
	env := newTestEnv(t)
	remote := newContractRemote(t, env, "")

	_, err := remote.Count(context.Background(), "notes", nil)

	require.ErrorIs(t, err, adapter.ErrUnauthorized)
	assert.Equal(t, models.CodeUnauthorized, adapter.ErrorCode(err))
}

func TestContract_ChunkedFileTransfer(t *testing.T) {
	env := newTestEnv(t)
	remote := newContractRemote(t, env, env.token)
	ctx := context.Background()

	var stored []byte
	meta := models.FileMetadata{ID: "f1", Filename: "a.bin", Size: 6, UploadURL: service.UploadPath("f1"), Status: models.FileStatusPending}

	env.files.initiate = func(context.Context, models.FileMetadata) (models.FileMetadata, error) { return meta, nil }
	env.files.writeChunk = func(_ context.Context, id string, offset int64, data []byte, checksum string) (models.ChunkAck, error) {
		if offset != int64(len(stored)) {
			return models.ChunkAck{}, service.ErrOffsetMismatch
		}
		if !utils.VerifyChecksum(data, checksum) {
			return models.ChunkAck{}, service.ErrInvalidChecksum
		}
		stored = append(stored, data...)
		status := models.FileStatusInProgress
		if int64(len(stored)) == meta.Size {
			status = models.FileStatusComplete
			meta.Status = status
		}
		return models.ChunkAck{FileID: id, Committed: int64(len(stored)), Status: status}, nil
	}
	env.files.status = func(_ context.Context, id string) (models.ChunkAck, error) {
		return models.ChunkAck{FileID: id, Committed: int64(len(stored)), Status: meta.Status}, nil
	}
	env.files.metadata = func(context.Context, string) (models.FileMetadata, error) { return meta, nil }
	env.files.readRange = func(_ context.Context, _ string, offset, length int64) ([]byte, error) {
		if offset >= int64(len(stored)) {
			return nil, service.ErrInvalidRange
		}
		return stored[offset:min(offset+length, int64(len(stored)))], nil
	}

	created, err := remote.InitiateUpload(ctx, models.FileMetadata{Filename: "a.bin", Size: 6})
	require.NoError(t, err)

	for _, chunk := range [][]byte{[]byte("abc"), []byte("def")} {
		_, err = remote.UploadChunk(ctx, created.UploadURL, int64(len(stored)), chunk, utils.ChunkChecksum(chunk))
		require.NoError(t, err)
	}

	_, err = remote.UploadChunk(ctx, created.UploadURL, 0, []byte("x"), utils.ChunkChecksum([]byte("x")))
	require.ErrorIs(t, err, adapter.ErrConflict)

	ack, err := remote.UploadStatus(ctx, created.UploadURL)
	require.NoError(t, err)
	assert.Equal(t, models.FileStatusComplete, ack.Status)

	part, err := remote.DownloadChunk(ctx, "f1", 2, 3)
	require.NoError(t, err)
	assert.Equal(t, []byte("cde"), part)

	_, err = remote.DownloadChunk(ctx, "f1", 6, 3)
	require.ErrorIs(t, err, adapter.ErrBadRange)
}

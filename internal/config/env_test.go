// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEnv_AllSections(t *testing.T) {
	environ := map[string]string{
		"APP_TOKEN_SIGN_KEY":      "sign",
		"APP_TOKEN_ISSUER":        "issuer",
		"APP_TOKEN_DURATION":      "2h",
		"STORAGE_DB_DATABASE_URI": "/tmp/cache.db",
		"STORAGE_FILES_BACKEND":   "s3",
		"STORAGE_FILES_S3_BUCKET": "blobs",
		"SERVER_ADDRESS":          "127.0.0.1:8080",
		"ADAPTER_ADDRESS":         "http://localhost:8080",
		"ADAPTER_TOKEN":           "token",
		"SYNC_BATCH_SIZE":         "5",
		"SYNC_PAGE_SIZE":          "10",
		"SYNC_PAGE_TIMEOUT":       "3s",
		"SYNC_COLLECTIONS":        "books:SYNC:1h,notes:cache",
		"TRANSFER_CHUNK_SIZE":     "4096",
		"WORKERS_SYNC_INTERVAL":   "1m",
	}

	cfg := &StructuredConfig{}
	require.NoError(t, parseEnv(cfg, environ))

	assert.Equal(t, "sign", cfg.App.TokenSignKey)
	assert.Equal(t, 2*time.Hour, cfg.App.TokenDuration)
	assert.Equal(t, "/tmp/cache.db", cfg.Storage.DB.DSN)
	assert.Equal(t, "s3", cfg.Storage.Files.Backend)
	assert.Equal(t, "blobs", cfg.Storage.Files.S3.Bucket)
	assert.Equal(t, "127.0.0.1:8080", cfg.Server.HTTPAddress)
	assert.Equal(t, "token", cfg.Adapter.Token)
	assert.Equal(t, 5, cfg.Sync.BatchSize)
	assert.Equal(t, 10, cfg.Sync.PageSize)
	assert.Equal(t, 3*time.Second, cfg.Sync.PageTimeout)
	assert.Equal(t, int64(4096), cfg.Transfer.ChunkSize)
	assert.Equal(t, time.Minute, cfg.Workers.SyncInterval)
	assert.Equal(t, []string{"books:SYNC:1h", "notes:cache"}, cfg.Sync.Collections)
}

func TestParseEnv_ProcessEnvironment(t *testing.T) {
	t.Setenv("SYNC_BATCH_SIZE", "9")

	cfg := &StructuredConfig{}
	require.NoError(t, parseEnv(cfg, nil))
	assert.Equal(t, 9, cfg.Sync.BatchSize)
}

func TestParseEnv_Empty(t *testing.T) {
	cfg := &StructuredConfig{}
	require.NoError(t, parseEnv(cfg, map[string]string{}))
	assert.Empty(t, cfg.Sync.Collections)
	assert.Zero(t, cfg.Sync.BatchSize)
}

func TestParseEnv_InvalidDuration(t *testing.T) {
	err := parseEnv(&StructuredConfig{}, map[string]string{"SYNC_PUSH_TIMEOUT": "soon"})
	assert.ErrorContains(t, err, "parse environment")
}

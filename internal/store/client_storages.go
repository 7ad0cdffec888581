// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-sync-store/internal/config"
	"github.com/MKhiriev/go-sync-store/internal/logger"
)

// ClientStorages groups the engine's local storages so that they can be
// passed to the service layer as one value.
type ClientStorages struct {
	Cache LocalCache
	Queue SyncQueue

	db *DB
}

// NewClientStorages opens the SQLite database named by cfg.Storage.DB.DSN,
// applies pending migrations and wires the cache with the configured
// collection TTLs.
func NewClientStorages(ctx context.Context, cfg *config.ClientConfig, log *logger.Logger, opts ...CacheOption) (*ClientStorages, error) {
	log.Info().Msg("creating new storages...")

	db, err := NewConnectSQLite(ctx, cfg.Storage.DB, log)
	if err != nil {
		return nil, fmt.Errorf("sqlite connection error: %w", err)
	}

	if err = db.Migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: migration failed: %w", ErrCacheUnavailable, err)
	}

	opts = append([]CacheOption{WithTTLs(cfg.TTLs())}, opts...)

	return &ClientStorages{
		Cache: NewLocalCache(db, log, opts...),
		Queue: NewSyncQueue(db, log),
		db:    db,
	}, nil
}

// Close releases the database handle.
func (s *ClientStorages) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

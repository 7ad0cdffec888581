// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-sync-store/internal/config"
	"github.com/MKhiriev/go-sync-store/internal/logger"
)

// ServerStorages groups the repositories and the blob storage of the
// reference server.
type ServerStorages struct {
	Entities EntityRepository
	Files    FileRepository
	Blobs    BlobStorage

	db *DB
}

// NewServerStorages connects to PostgreSQL, applies migrations and opens the
// configured blob backend.
func NewServerStorages(ctx context.Context, cfg config.ServerStorage, log *logger.Logger) (*ServerStorages, error) {
	log.Info().Msg("creating new storages...")

	db, err := NewConnectPostgres(ctx, cfg.DB, log)
	if err != nil {
		return nil, fmt.Errorf("postgres connection error: %w", err)
	}

	if err = db.Migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	blobs, err := NewBlobStorage(ctx, cfg.Files)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	return &ServerStorages{
		Entities: NewEntityRepository(db, log),
		Files:    NewFileRepository(db, log),
		Blobs:    blobs,
		db:       db,
	}, nil
}

// NewBlobStorage opens the blob backend named by cfg.Backend.
func NewBlobStorage(ctx context.Context, cfg config.ServerFiles) (BlobStorage, error) {
	switch cfg.Backend {
	case config.FilesBackendFS, "":
		return NewFSBlobStorage(cfg.BinaryDataDir)
	case config.FilesBackendS3:
		return NewS3BlobStorage(ctx, cfg.S3)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFilesBackend, cfg.Backend)
	}
}

// Ping checks the database connection.
func (s *ServerStorages) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close releases the database handle.
func (s *ServerStorages) Close() error {
	return s.db.Close()
}

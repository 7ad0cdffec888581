// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"

	"github.com/MKhiriev/go-sync-store/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/store_mock.go -package=mock

// EntityRepository stores collection entities of the reference server.
type EntityRepository interface {
	// Save upserts entity with newRevision. When entity.Revision is not
	// empty it must match the stored revision, otherwise
	// [ErrRevisionConflict] is returned.
	Save(ctx context.Context, collection string, entity models.Entity, newRevision string) (models.Entity, error)
	Delete(ctx context.Context, collection, id string) error
	FindByID(ctx context.Context, collection, id string) (models.Entity, error)
	// FindAll returns the entities of collection in insertion order. When
	// ids is not empty only those entities are returned.
	FindAll(ctx context.Context, collection string, ids ...string) ([]models.Entity, error)
}

// FileRecord is a stored file together with the key of its content.
type FileRecord struct {
	models.FileMetadata
	StorageKey string
}

// FileRepository stores file metadata and upload progress.
type FileRepository interface {
	Create(ctx context.Context, file FileRecord) (FileRecord, error)
	Get(ctx context.Context, id string) (FileRecord, error)
	UpdateProgress(ctx context.Context, id string, committed int64, status models.FileStatus, checksum string) error
}

// BlobStorage keeps file content addressed by storage key.
type BlobStorage interface {
	// Append writes data at offset, which must equal the current size, and
	// returns the new size.
	Append(ctx context.Context, key string, offset int64, data []byte) (int64, error)
	// Size returns the stored length of key; 0 when nothing was written.
	Size(ctx context.Context, key string) (int64, error)
	// ReadRange returns up to length bytes starting at offset.
	ReadRange(ctx context.Context, key string, offset, length int64) ([]byte, error)
	Delete(ctx context.Context, key string) error
}

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"

	"github.com/MKhiriev/go-sync-store/models"
)

// CollectionService serves the collection endpoints of the reference
// server. Batch operations never fail as a whole because of one entity:
// per-entity failures are reported by index.
type CollectionService interface {
	BatchSave(ctx context.Context, collection string, entities []models.Entity) (models.BatchSaveResult, error)
	BatchDelete(ctx context.Context, collection string, ids []string) (models.BatchDeleteResult, error)
	Query(ctx context.Context, collection string, q models.Query) (models.QueryResponse, error)
	Count(ctx context.Context, collection string, filter models.Filter) (int, error)
	FindByID(ctx context.Context, collection, id string) (models.Entity, error)
}

// FileService serves chunked uploads and ranged downloads.
type FileService interface {
	// Initiate registers a new file and returns it with its upload URL.
	Initiate(ctx context.Context, meta models.FileMetadata) (models.FileMetadata, error)
	// WriteChunk appends data at offset, which must equal the committed size.
	WriteChunk(ctx context.Context, id string, offset int64, data []byte, checksum string) (models.ChunkAck, error)
	Status(ctx context.Context, id string) (models.ChunkAck, error)
	Metadata(ctx context.Context, id string) (models.FileMetadata, error)
	// ReadRange returns content of a complete file.
	ReadRange(ctx context.Context, id string, offset, length int64) ([]byte, error)
}

type AuthService interface {
	CreateToken(ctx context.Context, subject string) (models.Token, error)
	ParseToken(ctx context.Context, tokenString string) (models.Token, error)
}

type AppInfoService interface {
	GetAppVersion(ctx context.Context) string
}

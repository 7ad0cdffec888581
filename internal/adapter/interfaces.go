// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package adapter provides the transport-layer abstraction the sync engine
// uses to talk to the remote collection service.
//
// The primary abstraction is [RemoteService], which decouples the engine
// from the underlying protocol. The package ships an HTTP/REST
// implementation ([NewHTTPRemoteService]) built on resty.
//
// Error values defined in errors.go are mapped from HTTP status codes by
// mapHTTPError and from transport failures by mapTransportError so that
// callers can use [errors.Is] for transport-agnostic error handling
// ([ErrNetworkUnreachable] and [ErrTimeout] mean "offline", [ErrConflict]
// for 409, [ErrValidation] for 400).
package adapter

import (
	"context"

	"github.com/MKhiriev/go-sync-store/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/remote_service_mock.go -package=mock

// RemoteService is the remote collection service contract. Batch
// operations answer per item: a non-nil error means the whole call failed
// and no item was applied.
type RemoteService interface {
	// SetToken stores the bearer token attached to every subsequent request.
	SetToken(token string)

	// Token returns the bearer token currently in use.
	Token() string

	// Ping checks that the remote service is reachable.
	Ping(ctx context.Context) error

	// BatchSave upserts entities. The result lists the confirmed entities in
	// input order and an error per failed input index.
	BatchSave(ctx context.Context, collection string, entities []models.Entity) (models.BatchSaveResult, error)

	// BatchDelete removes ids and reports an outcome per id.
	BatchDelete(ctx context.Context, collection string, ids []string) (models.BatchDeleteResult, error)

	// Query returns the entities matching q.
	Query(ctx context.Context, collection string, q models.Query) (models.QueryResponse, error)

	// FindByID returns one entity or an error wrapping [ErrNotFound].
	FindByID(ctx context.Context, collection, id string) (models.Entity, error)

	// Count returns the number of entities matching filter.
	Count(ctx context.Context, collection string, filter models.Filter) (int, error)

	// InitiateUpload registers a file and returns its metadata with the
	// upload URL to send chunks to.
	InitiateUpload(ctx context.Context, metadata models.FileMetadata) (models.FileMetadata, error)

	// UploadChunk appends data at offset. checksum is the hex BLAKE2b-256
	// digest of data.
	UploadChunk(ctx context.Context, uploadURL string, offset int64, data []byte, checksum string) (models.ChunkAck, error)

	// UploadStatus returns the number of bytes committed for uploadURL.
	UploadStatus(ctx context.Context, uploadURL string) (models.ChunkAck, error)

	// FileMetadata returns the metadata of a file.
	FileMetadata(ctx context.Context, id string) (models.FileMetadata, error)

	// DownloadChunk returns at most length bytes of the file content
	// starting at offset.
	DownloadChunk(ctx context.Context, id string, offset, length int64) ([]byte, error)
}

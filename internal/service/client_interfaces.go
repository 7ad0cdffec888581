// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"io"
	"time"

	"github.com/MKhiriev/go-sync-store/internal/workers"
	"github.com/MKhiriev/go-sync-store/models"
)

// PushExecutor drains the sync queue of a collection to the remote service.
type PushExecutor interface {
	// Push walks the queue oldest first and sends it in batches. Item
	// failures are collected in the result and never stop the cycle; the
	// returned error is set only when the cycle could not run at all.
	Push(ctx context.Context, collection string) (models.PushResult, error)
}

// PullExecutor merges remote query results into the local cache.
type PullExecutor interface {
	// Pull runs q once when pageSize <= 0 and pages through the results
	// pageSize at a time otherwise. Every page is merged atomically.
	Pull(ctx context.Context, collection string, q models.Query, pageSize int) (models.PullResult, error)
}

// ConflictResolver decides what a push does with a revision conflict.
type ConflictResolver interface {
	Resolve(ctx context.Context, conflict models.Conflict) models.ConflictResolution
}

// ConflictResolverFunc adapts a function to [ConflictResolver].
type ConflictResolverFunc func(ctx context.Context, conflict models.Conflict) models.ConflictResolution

// Resolve implements [ConflictResolver].
func (f ConflictResolverFunc) Resolve(ctx context.Context, conflict models.Conflict) models.ConflictResolution {
	return f(ctx, conflict)
}

// LastWriteWins resubmits the local version on top of the remote revision.
var LastWriteWins ConflictResolver = ConflictResolverFunc(func(context.Context, models.Conflict) models.ConflictResolution {
	return models.ResolutionKeepLocal
})

// ProgressListener receives transfer progress after every chunk.
type ProgressListener interface {
	OnProgress(progress models.TransferProgress)
}

// ProgressFunc adapts a function to [ProgressListener].
type ProgressFunc func(progress models.TransferProgress)

// OnProgress implements [ProgressListener].
func (f ProgressFunc) OnProgress(progress models.TransferProgress) {
	f(progress)
}

// FileTransferManager moves binary files to and from the remote service in
// chunks. Every transfer goes PENDING -> IN_PROGRESS and ends COMPLETE,
// CANCELLED or FAILED; the returned metadata carries the final status.
type FileTransferManager interface {
	UploadFile(ctx context.Context, path string, opts TransferOptions) (models.FileMetadata, error)
	UploadFileWithMetadata(ctx context.Context, path string, meta models.FileMetadata, opts TransferOptions) (models.FileMetadata, error)
	UploadStream(ctx context.Context, r io.Reader, meta models.FileMetadata, opts TransferOptions) (models.FileMetadata, error)
	UploadStreamWithFilename(ctx context.Context, filename string, r io.Reader, opts TransferOptions) (models.FileMetadata, error)

	// ResumeUpload continues the upload of meta.UploadURL from the offset
	// committed by the server.
	ResumeUpload(ctx context.Context, path string, meta models.FileMetadata, opts TransferOptions) (models.FileMetadata, error)

	Download(ctx context.Context, id string, w io.Writer, opts TransferOptions) (models.FileMetadata, error)

	// DownloadToFile resumes from the size of an existing partial file.
	DownloadToFile(ctx context.Context, id, path string, opts TransferOptions) (models.FileMetadata, error)

	UploadAsync(ctx context.Context, path string, opts TransferOptions, cb workers.Callback[models.FileMetadata]) *workers.Future[models.FileMetadata]
	DownloadAsync(ctx context.Context, id, path string, opts TransferOptions, cb workers.Callback[models.FileMetadata]) *workers.Future[models.FileMetadata]
}

// FindOptions tunes [DataStore.FindQuery].
type FindOptions struct {
	// Refresh pulls the query from the remote service before a CACHE store
	// reads its cache. Other modes ignore it.
	Refresh bool
}

// DataStore is the handle on one collection. Its mode decides for every
// operation whether it is served by the cache, the remote service, or both.
//
// Push, Pull, Sync, Purge and Clear fail with [ErrInvalidStoreMode] on a
// NETWORK store.
type DataStore interface {
	Collection() string
	Mode() models.StoreMode

	// Save stores one entity and assigns it an id when it has none. A
	// revision conflict is returned as a [*ConflictError].
	Save(ctx context.Context, entity models.Entity) (models.Entity, error)
	// SaveList stores entities and reports failures by their index in
	// entities. The error is set only when nothing could be attempted.
	SaveList(ctx context.Context, entities []models.Entity) (models.BatchSaveResult, error)
	Delete(ctx context.Context, id string) error
	// DeleteIDs deletes ids one by one; results follow the order of ids.
	DeleteIDs(ctx context.Context, ids []string) (models.BatchDeleteResult, error)

	// Find fails with [ErrEntityNotFound] when id is unknown.
	Find(ctx context.Context, id string) (models.Entity, error)
	FindQuery(ctx context.Context, q models.Query, opts FindOptions) (models.QueryResponse, error)
	Count(ctx context.Context, filter models.Filter) (int, error)
	// CountNetwork always asks the remote service.
	CountNetwork(ctx context.Context, filter models.Filter) (int, error)

	Push(ctx context.Context) (models.PushResult, error)
	Pull(ctx context.Context, q models.Query, pageSize int) (models.PullResult, error)
	// Sync pushes the queue and pulls q once the queue is empty.
	Sync(ctx context.Context, q models.Query, pageSize int) (models.SyncResult, error)
	// Purge drops every queued mutation and returns how many there were.
	Purge(ctx context.Context) (int, error)
	// Clear drops the cached entities and the queued mutations.
	Clear(ctx context.Context) error
	PendingCount(ctx context.Context) (int, error)

	SaveAsync(ctx context.Context, entity models.Entity, cb workers.Callback[models.Entity]) *workers.Future[models.Entity]
	FindAsync(ctx context.Context, id string, cb workers.Callback[models.Entity]) *workers.Future[models.Entity]
	PushAsync(ctx context.Context, cb workers.Callback[models.PushResult]) *workers.Future[models.PushResult]
	PullAsync(ctx context.Context, q models.Query, pageSize int, cb workers.Callback[models.PullResult]) *workers.Future[models.PullResult]
	SyncAsync(ctx context.Context, q models.Query, pageSize int, cb workers.Callback[models.SyncResult]) *workers.Future[models.SyncResult]
}

// SyncListener is notified by the background sync job. Every method may be
// called from the job goroutine.
type SyncListener interface {
	OnPushStarted(collection string)
	OnPushFinished(collection string, result models.PushResult)
	OnPullStarted(collection string)
	OnPullFinished(collection string, result models.PullResult)
	OnFailure(collection string, err error)
}

// ClientSyncJob periodically syncs every opened store.
type ClientSyncJob interface {
	// Start runs the job in the background until ctx is done or Stop is
	// called. A running job is restarted.
	Start(ctx context.Context, interval time.Duration)

	// Run is the blocking form of Start. It returns nil once ctx is done.
	Run(ctx context.Context, interval time.Duration) error

	// RunOnce syncs every opened store immediately.
	RunOnce(ctx context.Context)

	Stop()
}

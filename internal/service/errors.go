// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"errors"
	"fmt"

	"github.com/MKhiriev/go-sync-store/models"
)

// Engine errors.
var (
	// ErrBusy is wrapped by every rejection caused by an operation already in
	// flight for the same collection.
	ErrBusy = errors.New("operation already in progress")

	ErrPushInProgress = fmt.Errorf("push: %w", ErrBusy)
	ErrPullInProgress = fmt.Errorf("pull: %w", ErrBusy)

	// ErrPendingSyncItems is returned by pull while the collection still has
	// queued local mutations. Push them first.
	ErrPendingSyncItems = errors.New("collection has pending sync items")

	// ErrInvalidStoreMode is returned for operations the store mode does not
	// allow, such as push on a NETWORK store.
	ErrInvalidStoreMode = errors.New("operation not allowed in this store mode")

	ErrUnknownCollection = errors.New("collection is not configured")
	ErrInvalidCollection = errors.New("invalid collection name")

	// ErrEntityNotFound is returned by Find when the entity is neither cached
	// nor known to the remote service.
	ErrEntityNotFound = errors.New("entity not found")

	// ErrCacheUnavailable wraps local cache and queue failures surfaced by a
	// store.
	ErrCacheUnavailable = errors.New("local cache unavailable")

	ErrEngineClosed = errors.New("engine closed")
)

// File transfer errors.
var (
	ErrTransferCancelled = errors.New("transfer cancelled")
	ErrTransferFailed    = errors.New("transfer failed")
	ErrFileNotReady      = errors.New("file is not complete")
	ErrChecksumMismatch  = errors.New("checksum mismatch")
	ErrInvalidFileSize   = errors.New("invalid file size")
	ErrMissingUploadURL  = errors.New("upload url is missing")
)

// Reference server errors.
var (
	ErrInvalidDataProvided = errors.New("invalid data provided")
	ErrInvalidQuery        = errors.New("invalid query")
	ErrEmptyBatch          = errors.New("empty batch")
	ErrBatchTooLarge       = errors.New("batch too large")
	ErrOffsetMismatch      = errors.New("chunk offset does not match committed size")
	ErrChunkTooLarge       = errors.New("chunk exceeds declared file size")
	ErrInvalidChecksum     = errors.New("chunk checksum mismatch")
	ErrUploadFinished      = errors.New("upload already finished")
	ErrInvalidRange        = errors.New("invalid range")

	ErrTokenIsExpired          = errors.New("token is expired")
	ErrTokenIsExpiredOrInvalid = errors.New("token is expired or invalid")
	ErrTokenCreationFailed     = errors.New("token creation failed")
	ErrVersionIsNotSpecified   = errors.New("app version is not specified")
)

// ConflictError reports a revision conflict together with both snapshots.
// Remote is nil when the entity no longer exists on the server.
type ConflictError struct {
	Collection string
	Local      models.Entity
	Remote     *models.Entity
}

func (e *ConflictError) Error() string {
	if e.Remote == nil {
		return fmt.Sprintf("conflict on %s/%s: removed on server", e.Collection, e.Local.ID)
	}
	return fmt.Sprintf("conflict on %s/%s: local revision %q, remote revision %q",
		e.Collection, e.Local.ID, e.Local.Revision, e.Remote.Revision)
}

// Is matches [ErrConflict].
func (e *ConflictError) Is(target error) bool {
	return target == ErrConflict
}

// ErrConflict matches every [ConflictError].
var ErrConflict = errors.New("conflict")

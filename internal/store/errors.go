// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import "errors"

// Sentinel errors returned by the local cache and the sync queue. Callers
// should use [errors.Is] to match against these values.
var (
	// ErrCacheUnavailable wraps every failure of the local storage engine.
	ErrCacheUnavailable = errors.New("local cache unavailable")

	// ErrInvalidCollection is returned for an empty or malformed collection
	// name.
	ErrInvalidCollection = errors.New("invalid collection name")

	// ErrInvalidEntityID is returned for an empty or malformed entity id.
	ErrInvalidEntityID = errors.New("invalid entity id")

	// ErrInvalidTTL is returned when a negative cache lifetime is set.
	ErrInvalidTTL = errors.New("invalid cache ttl")
)

// Sentinel errors returned by the server repositories and blob storages.
var (
	// ErrEntityNotFound is returned when no entity with the requested id
	// exists in the collection.
	ErrEntityNotFound = errors.New("entity was not found")

	// ErrRevisionConflict is returned when the revision supplied with a save
	// does not match the stored one.
	ErrRevisionConflict = errors.New("entity revision conflict occurred")

	// ErrFileNotFound is returned when the requested file record does not
	// exist.
	ErrFileNotFound = errors.New("file was not found")

	// ErrFileAlreadyExists is returned when a file with the same id is
	// created twice.
	ErrFileAlreadyExists = errors.New("file already exists")

	// ErrFileNotUpdated is returned when an update of a file record affected
	// no rows.
	ErrFileNotUpdated = errors.New("file was not updated")

	// ErrBlobNotFound is returned when a file has no stored content.
	ErrBlobNotFound = errors.New("blob was not found")

	// ErrOffsetMismatch is returned when a chunk is appended at an offset
	// other than the current blob size.
	ErrOffsetMismatch = errors.New("chunk offset does not match committed size")

	// ErrUnknownFilesBackend is returned for an unsupported blob backend.
	ErrUnknownFilesBackend = errors.New("unknown files backend")
)

// Low-level database operation errors. These are returned (or wrapped) by
// repository methods when a SQL-level operation fails before any domain logic
// can be applied.
var (
	// ErrBuildingSQLQuery is returned when constructing a parameterised SQL
	// query fails (e.g. invalid argument count or unsupported type).
	ErrBuildingSQLQuery = errors.New("error building sql query")

	// ErrExecutingQuery is returned when executing a SELECT or similar
	// read-only query against the database fails.
	ErrExecutingQuery = errors.New("error executing sql query")

	// ErrBeginningTransaction is returned when the database driver cannot
	// start a new transaction.
	ErrBeginningTransaction = errors.New("failed to begin transaction")

	// ErrCommitingTransaction is returned when committing an open transaction
	// fails. The transaction is considered rolled back at this point.
	ErrCommitingTransaction = errors.New("failed to commit transaction")

	// ErrExecutingStatement is returned when executing a DML statement
	// (INSERT, UPDATE, DELETE) fails.
	ErrExecutingStatement = errors.New("failed to executing statement")

	// ErrScanningRow is returned when scanning column values from a single
	// result row fails.
	ErrScanningRow = errors.New("failed to scan row")

	// ErrScanningRows is returned when scanning column values during
	// multi-row iteration fails, typically mid-result-set.
	ErrScanningRows = errors.New("failed to scan rows")
)

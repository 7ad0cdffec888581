// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"

	"github.com/MKhiriev/go-sync-store/internal/logger"
	"github.com/MKhiriev/go-sync-store/models"
)

type fileRepository struct {
	*DB
	logger *logger.Logger
}

// NewFileRepository constructs a [FileRepository] backed by the "files" table.
func NewFileRepository(db *DB, logger *logger.Logger) FileRepository {
	return &fileRepository{
		DB:     db,
		logger: logger,
	}
}

func (r *fileRepository) Create(ctx context.Context, file FileRecord) (FileRecord, error) {
	log := logger.FromContext(ctx)

	err := r.DB.QueryRowContext(ctx, createFile,
		file.ID,
		file.Filename,
		file.Size,
		file.MimeType,
		string(file.Status),
		file.Committed,
		file.Checksum,
		file.StorageKey,
	).Scan(&file.CreatedAt, &file.UpdatedAt)
	if err != nil {
		log.Err(err).
			Str("func", "fileRepository.Create").
			Str("file_id", file.ID).
			Msg("failed to insert file")

		switch postgresError(err) {
		case pgerrcode.UniqueViolation:
			return FileRecord{}, ErrFileAlreadyExists
		default:
			return FileRecord{}, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
		}
	}

	return file, nil
}

func (r *fileRepository) Get(ctx context.Context, id string) (FileRecord, error) {
	log := logger.FromContext(ctx)

	var (
		file   FileRecord
		status string
	)
	err := r.DB.QueryRowContext(ctx, getFile, id).Scan(
		&file.ID,
		&file.Filename,
		&file.Size,
		&file.MimeType,
		&status,
		&file.Committed,
		&file.Checksum,
		&file.StorageKey,
		&file.CreatedAt,
		&file.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return FileRecord{}, ErrFileNotFound
	}
	if err != nil {
		log.Err(err).
			Str("func", "fileRepository.Get").
			Str("file_id", id).
			Msg("failed to scan file row")
		return FileRecord{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	file.Status = models.FileStatus(status)
	return file, nil
}

func (r *fileRepository) UpdateProgress(ctx context.Context, id string, committed int64, status models.FileStatus, checksum string) error {
	log := logger.FromContext(ctx)

	res, err := r.DB.ExecContext(ctx, updateFileProgress, id, committed, string(status), checksum)
	if err != nil {
		log.Err(err).
			Str("func", "fileRepository.UpdateProgress").
			Str("file_id", id).
			Msg("failed to update file progress")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	if affected == 0 {
		return ErrFileNotUpdated
	}
	return nil
}

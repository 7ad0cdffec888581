// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"sync"

	"github.com/MKhiriev/go-sync-store/internal/logger"
	"github.com/MKhiriev/go-sync-store/internal/store"
	"github.com/MKhiriev/go-sync-store/internal/utils"
	"github.com/MKhiriev/go-sync-store/internal/validators"
	"github.com/MKhiriev/go-sync-store/models"
)

// checksumReadSize is the window used to hash a finished blob.
const checksumReadSize = 4 << 20

// UploadPath returns the chunk upload URL of file id.
func UploadPath(id string) string {
	return "/api/files/" + id + "/upload"
}

type fileService struct {
	files     store.FileRepository
	blobs     store.BlobStorage
	validator validators.Validator
	ids       *utils.UUIDGenerator

	// locks serializes chunk writes per file.
	locks sync.Map

	logger *logger.Logger
}

func NewFileService(files store.FileRepository, blobs store.BlobStorage, logger *logger.Logger) FileService {
	return &fileService{
		files:     files,
		blobs:     blobs,
		validator: validators.NewEntityValidator(),
		ids:       utils.NewUUIDGenerator(),
		logger:    logger,
	}
}

// Initiate registers meta as a PENDING file. An empty file is complete as
// soon as it is registered.
func (f *fileService) Initiate(ctx context.Context, meta models.FileMetadata) (models.FileMetadata, error) {
	if err := f.validator.Validate(ctx, meta); err != nil {
		return models.FileMetadata{}, fmt.Errorf("%w: %w", ErrInvalidDataProvided, err)
	}

	id := f.ids.Generate()
	record := store.FileRecord{
		FileMetadata: models.FileMetadata{
			ID:        id,
			Filename:  meta.Filename,
			Size:      meta.Size,
			MimeType:  meta.MimeType,
			UploadURL: UploadPath(id),
			Status:    models.FileStatusPending,
		},
		StorageKey: id,
	}
	if meta.Size == 0 {
		record.Status = models.FileStatusComplete
		record.Checksum = hex.EncodeToString(utils.Hash(nil))
	}

	created, err := f.files.Create(ctx, record)
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "fileService.Initiate").Str("file_id", id).Msg("error registering file")
		return models.FileMetadata{}, fmt.Errorf("error registering file: %w", err)
	}

	created.UploadURL = UploadPath(id)
	return created.FileMetadata, nil
}

// WriteChunk commits data at offset. The chunk reaching the declared size
// completes the file and stores the checksum of its whole content.
func (f *fileService) WriteChunk(ctx context.Context, id string, offset int64, data []byte, checksum string) (models.ChunkAck, error) {
	log := logger.FromContext(ctx)

	unlock := f.lock(id)
	defer unlock()

	record, err := f.files.Get(ctx, id)
	if err != nil {
		return models.ChunkAck{}, err
	}

	switch {
	case record.Status.IsTerminal():
		return models.ChunkAck{}, fmt.Errorf("%w: file %s is %s", ErrUploadFinished, id, record.Status)
	case offset != record.Committed:
		return models.ChunkAck{}, fmt.Errorf("%w: offset=%d committed=%d", ErrOffsetMismatch, offset, record.Committed)
	case len(data) == 0:
		return models.ChunkAck{}, fmt.Errorf("%w: empty chunk", ErrInvalidDataProvided)
	case offset+int64(len(data)) > record.Size:
		return models.ChunkAck{}, fmt.Errorf("%w: %d bytes at %d, size %d", ErrChunkTooLarge, len(data), offset, record.Size)
	case checksum != "" && !utils.VerifyChecksum(data, checksum):
		return models.ChunkAck{}, ErrInvalidChecksum
	}

	committed, err := f.blobs.Append(ctx, record.StorageKey, offset, data)
	if errors.Is(err, store.ErrOffsetMismatch) {
		return models.ChunkAck{}, fmt.Errorf("%w: %w", ErrOffsetMismatch, err)
	}
	if err != nil {
		log.Err(err).Str("func", "fileService.WriteChunk").Str("file_id", id).Int64("offset", offset).Msg("error writing chunk")
		return models.ChunkAck{}, fmt.Errorf("error writing chunk: %w", err)
	}

	status := models.FileStatusInProgress
	var sum string
	if committed == record.Size {
		sum, err = f.checksum(ctx, record.StorageKey, record.Size)
		if err != nil {
			log.Err(err).Str("func", "fileService.WriteChunk").Str("file_id", id).Msg("error hashing finished file")
			return models.ChunkAck{}, fmt.Errorf("error hashing file: %w", err)
		}
		status = models.FileStatusComplete
	}

	if err = f.files.UpdateProgress(ctx, id, committed, status, sum); err != nil {
		log.Err(err).Str("func", "fileService.WriteChunk").Str("file_id", id).Msg("error updating upload progress")
		return models.ChunkAck{}, fmt.Errorf("error updating upload progress: %w", err)
	}

	if status == models.FileStatusComplete {
		log.Info().Str("file_id", id).Int64("size", record.Size).Msg("upload complete")
	}
	return models.ChunkAck{FileID: id, Committed: committed, Status: status}, nil
}

func (f *fileService) Status(ctx context.Context, id string) (models.ChunkAck, error) {
	record, err := f.files.Get(ctx, id)
	if err != nil {
		return models.ChunkAck{}, err
	}
	return models.ChunkAck{FileID: id, Committed: record.Committed, Status: record.Status}, nil
}

func (f *fileService) Metadata(ctx context.Context, id string) (models.FileMetadata, error) {
	record, err := f.files.Get(ctx, id)
	if err != nil {
		return models.FileMetadata{}, err
	}
	if !record.Status.IsTerminal() {
		record.UploadURL = UploadPath(id)
	}
	return record.FileMetadata, nil
}

// ReadRange returns up to length bytes from offset. The window is clamped to
// the file size.
func (f *fileService) ReadRange(ctx context.Context, id string, offset, length int64) ([]byte, error) {
	record, err := f.files.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if record.Status != models.FileStatusComplete {
		return nil, fmt.Errorf("%w: file %s is %s", ErrFileNotReady, id, record.Status)
	}
	if offset < 0 || length <= 0 || offset >= record.Size {
		return nil, fmt.Errorf("%w: offset=%d length=%d size=%d", ErrInvalidRange, offset, length, record.Size)
	}

	length = min(length, record.Size-offset)
	data, err := f.blobs.ReadRange(ctx, record.StorageKey, offset, length)
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "fileService.ReadRange").Str("file_id", id).Msg("error reading blob")
		return nil, fmt.Errorf("error reading file: %w", err)
	}
	return data, nil
}

func (f *fileService) checksum(ctx context.Context, key string, size int64) (string, error) {
	h := utils.NewContentHasher()
	for offset := int64(0); offset < size; offset += checksumReadSize {
		data, err := f.blobs.ReadRange(ctx, key, offset, min(checksumReadSize, size-offset))
		if err != nil {
			return "", err
		}
		h.Write(data)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

func (f *fileService) lock(id string) func() {
	mu, _ := f.locks.LoadOrStore(id, &sync.Mutex{})
	m := mu.(*sync.Mutex)
	m.Lock()
	return m.Unlock
}

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"bufio"
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"hash"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/MKhiriev/go-sync-store/internal/adapter"
	"github.com/MKhiriev/go-sync-store/internal/config"
	"github.com/MKhiriev/go-sync-store/internal/logger"
	"github.com/MKhiriev/go-sync-store/internal/utils"
	"github.com/MKhiriev/go-sync-store/internal/workers"
	"github.com/MKhiriev/go-sync-store/models"
)

type fileTransferManager struct {
	remote adapter.RemoteService

	pool     *workers.Pool
	executor workers.Executor

	chunkSize int64
	timeout   time.Duration

	logger *logger.Logger
}

// NewFileTransferManager returns a [FileTransferManager] sending chunks of
// cfg.ChunkSize bytes, each bounded by cfg.ChunkTimeout. Async variants run
// on pool and deliver callbacks on executor.
func NewFileTransferManager(remote adapter.RemoteService, cfg config.ClientTransfer, pool *workers.Pool,
	executor workers.Executor, logger *logger.Logger) FileTransferManager {
	chunkSize := cfg.ChunkSize
	if chunkSize <= 0 {
		chunkSize = config.DefaultChunkSize
	}
	return &fileTransferManager{
		remote:    remote,
		pool:      pool,
		executor:  executor,
		chunkSize: chunkSize,
		timeout:   cfg.ChunkTimeout,
		logger:    logger,
	}
}

// ── Uploads ─────────────────────────────────────────────────────────────────

func (m *fileTransferManager) UploadFile(ctx context.Context, path string, opts TransferOptions) (models.FileMetadata, error) {
	return m.UploadFileWithMetadata(ctx, path, models.FileMetadata{}, opts)
}

func (m *fileTransferManager) UploadFileWithMetadata(ctx context.Context, path string, meta models.FileMetadata, opts TransferOptions) (models.FileMetadata, error) {
	f, err := m.openForUpload(path, &meta)
	if err != nil {
		return failed(meta, err)
	}
	defer f.Close()

	return m.upload(ctx, f, meta, opts)
}

func (m *fileTransferManager) UploadStream(ctx context.Context, r io.Reader, meta models.FileMetadata, opts TransferOptions) (models.FileMetadata, error) {
	if meta.Size < 0 {
		return failed(meta, fmt.Errorf("%w: %d", ErrInvalidFileSize, meta.Size))
	}

	br := bufio.NewReaderSize(r, sniffLen)
	if meta.Size == 0 {
		// an unknown length is learned by spooling; only an empty stream
		// is uploaded as is
		if _, err := br.Peek(1); err == nil {
			return m.uploadSpooled(ctx, br, meta, opts)
		}
	}
	if meta.MimeType == "" {
		// Peek returns what is available on a short stream
		head, _ := br.Peek(sniffLen)
		meta.MimeType = detectMimeType(meta.Filename, head)
	}
	return m.upload(ctx, br, meta, opts)
}

// UploadStreamWithFilename spools r to a temporary file to learn its size
// and uploads that file.
func (m *fileTransferManager) UploadStreamWithFilename(ctx context.Context, filename string, r io.Reader, opts TransferOptions) (models.FileMetadata, error) {
	return m.uploadSpooled(ctx, r, models.FileMetadata{Filename: filepath.Base(filename)}, opts)
}

func (m *fileTransferManager) uploadSpooled(ctx context.Context, r io.Reader, meta models.FileMetadata, opts TransferOptions) (models.FileMetadata, error) {
	tmp, err := os.CreateTemp("", "upload-*")
	if err != nil {
		return failed(meta, fmt.Errorf("create spool file: %w", err))
	}
	defer os.Remove(tmp.Name())
	defer tmp.Close()

	if _, err = io.Copy(tmp, r); err != nil {
		return failed(meta, fmt.Errorf("spool stream: %w", err))
	}

	return m.UploadFileWithMetadata(ctx, tmp.Name(), meta, opts)
}

func (m *fileTransferManager) ResumeUpload(ctx context.Context, path string, meta models.FileMetadata, opts TransferOptions) (models.FileMetadata, error) {
	if meta.UploadURL == "" {
		return failed(meta, ErrMissingUploadURL)
	}

	f, err := m.openForUpload(path, &meta)
	if err != nil {
		return failed(meta, err)
	}
	defer f.Close()

	callCtx, cancel := networkContext(ctx, m.timeout)
	ack, err := m.remote.UploadStatus(callCtx, meta.UploadURL)
	cancel()
	if err != nil {
		return failed(meta, fmt.Errorf("%w: upload status: %w", ErrTransferFailed, err))
	}

	meta.Committed = ack.Committed
	if ack.Status == models.FileStatusComplete {
		meta.Status = models.FileStatusComplete
		return meta, nil
	}
	if ack.Committed > meta.Size {
		return failed(meta, fmt.Errorf("%w: server committed %d of %d bytes", ErrTransferFailed, ack.Committed, meta.Size))
	}

	if _, err = f.Seek(ack.Committed, io.SeekStart); err != nil {
		return failed(meta, fmt.Errorf("seek to committed offset: %w", err))
	}

	return m.sendChunks(ctx, f, meta, ack.Committed, opts)
}

func (m *fileTransferManager) UploadAsync(ctx context.Context, path string, opts TransferOptions, cb workers.Callback[models.FileMetadata]) *workers.Future[models.FileMetadata] {
	return workers.Submit(ctx, m.pool, m.executor, func(ctx context.Context) (models.FileMetadata, error) {
		return m.UploadFile(ctx, path, opts)
	}, cb)
}

// openForUpload opens path and fills the unset metadata fields from it.
func (m *fileTransferManager) openForUpload(path string, meta *models.FileMetadata) (*os.File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open upload source: %w", err)
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("stat upload source: %w", err)
	}
	if info.IsDir() {
		f.Close()
		return nil, fmt.Errorf("%w: %s is a directory", ErrInvalidFileSize, path)
	}

	if meta.Filename == "" {
		meta.Filename = filepath.Base(path)
	}
	switch {
	case meta.Size <= 0:
		meta.Size = info.Size()
	case meta.Size != info.Size():
		f.Close()
		return nil, fmt.Errorf("%w: declared %d bytes, %s has %d", ErrInvalidFileSize, meta.Size, path, info.Size())
	}
	if meta.MimeType == "" {
		head := make([]byte, sniffLen)
		n, _ := f.ReadAt(head, 0)
		meta.MimeType = detectMimeType(meta.Filename, head[:n])
	}
	return f, nil
}

func (m *fileTransferManager) upload(ctx context.Context, r io.Reader, meta models.FileMetadata, opts TransferOptions) (models.FileMetadata, error) {
	meta.Status = models.FileStatusPending
	if opts.cancelled(ctx) {
		meta.Status = models.FileStatusCancelled
		return meta, ErrTransferCancelled
	}

	callCtx, cancel := networkContext(ctx, m.timeout)
	initiated, err := m.remote.InitiateUpload(callCtx, meta)
	cancel()
	if err != nil {
		return failed(meta, fmt.Errorf("%w: initiate upload: %w", ErrTransferFailed, err))
	}
	if initiated.UploadURL == "" {
		return failed(initiated, ErrMissingUploadURL)
	}
	if initiated.Size != meta.Size {
		return failed(initiated, fmt.Errorf("%w: server registered %d bytes, expected %d", ErrTransferFailed, initiated.Size, meta.Size))
	}

	m.logger.Debug().Str("file_id", initiated.ID).Int64("size", initiated.Size).Msg("upload initiated")
	return m.sendChunks(ctx, r, initiated, 0, opts)
}

// sendChunks uploads r from offset until meta.Size bytes are committed.
// Cancellation is observed before every chunk. A source that does not end at
// meta.Size fails before its last chunk is sent, so the server never marks a
// truncated file complete.
func (m *fileTransferManager) sendChunks(ctx context.Context, r io.Reader, meta models.FileMetadata, offset int64, opts TransferOptions) (models.FileMetadata, error) {
	meta.Status = models.FileStatusInProgress
	meta.Committed = offset

	buf := make([]byte, opts.chunkSize(m.chunkSize))
	for chunk := 1; offset < meta.Size; chunk++ {
		if opts.cancelled(ctx) {
			meta.Status = models.FileStatusCancelled
			m.logger.Info().Str("file_id", meta.ID).Int64("committed", offset).Msg("upload cancelled")
			return meta, ErrTransferCancelled
		}

		part := buf[:min(int64(len(buf)), meta.Size-offset)]
		if _, err := io.ReadFull(r, part); err != nil {
			return failed(meta, fmt.Errorf("%w: read chunk %d: %w", ErrTransferFailed, chunk, err))
		}
		if offset+int64(len(part)) == meta.Size {
			// the last chunk is held back until the source is known to end
			if err := expectEOF(r, meta.Size); err != nil {
				m.logger.Warn().Err(err).Str("file_id", meta.ID).Msg("upload source does not match its size")
				return failed(meta, fmt.Errorf("%w: %w", ErrTransferFailed, err))
			}
		}

		callCtx, cancel := networkContext(ctx, m.timeout)
		ack, err := m.remote.UploadChunk(callCtx, meta.UploadURL, offset, part, utils.ChunkChecksum(part))
		cancel()
		if err != nil {
			m.logger.Err(err).Str("func", "fileTransferManager.sendChunks").Str("file_id", meta.ID).Int("chunk", chunk).Msg("chunk upload failed")
			return failed(meta, fmt.Errorf("%w: chunk %d: %w", ErrTransferFailed, chunk, err))
		}
		if ack.Committed != offset+int64(len(part)) {
			return failed(meta, fmt.Errorf("%w: chunk %d: server committed %d, expected %d",
				ErrTransferFailed, chunk, ack.Committed, offset+int64(len(part))))
		}

		offset = ack.Committed
		meta.Committed = offset
		opts.notify(models.TransferProgress{FileID: meta.ID, Transferred: offset, Total: meta.Size, Chunk: chunk})
	}

	meta.Status = models.FileStatusComplete
	return meta, nil
}

// expectEOF fails when r still yields data after size bytes.
func expectEOF(r io.Reader, size int64) error {
	var extra [1]byte
	n, err := io.ReadFull(r, extra[:])
	switch {
	case n > 0:
		return fmt.Errorf("%w: source is longer than %d bytes", ErrInvalidFileSize, size)
	case errors.Is(err, io.EOF):
		return nil
	default:
		return fmt.Errorf("read past %d bytes: %w", size, err)
	}
}

// ── Downloads ───────────────────────────────────────────────────────────────

func (m *fileTransferManager) Download(ctx context.Context, id string, w io.Writer, opts TransferOptions) (models.FileMetadata, error) {
	meta, err := m.readyMetadata(ctx, id)
	if err != nil {
		return meta, err
	}
	return m.receiveChunks(ctx, meta, w, 0, utils.NewContentHasher(), opts)
}

func (m *fileTransferManager) DownloadToFile(ctx context.Context, id, path string, opts TransferOptions) (models.FileMetadata, error) {
	meta, err := m.readyMetadata(ctx, id)
	if err != nil {
		return meta, err
	}

	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		return failed(meta, fmt.Errorf("open download target: %w", err))
	}
	defer f.Close()

	// the bytes already on disk feed the checksum before the download resumes
	hasher := utils.NewContentHasher()
	have, err := io.Copy(hasher, f)
	if err != nil {
		return failed(meta, fmt.Errorf("read partial download: %w", err))
	}
	if have > meta.Size {
		if err = f.Truncate(0); err != nil {
			return failed(meta, fmt.Errorf("truncate download target: %w", err))
		}
		if _, err = f.Seek(0, io.SeekStart); err != nil {
			return failed(meta, fmt.Errorf("rewind download target: %w", err))
		}
		hasher.Reset()
		have = 0
	}

	return m.receiveChunks(ctx, meta, f, have, hasher, opts)
}

func (m *fileTransferManager) DownloadAsync(ctx context.Context, id, path string, opts TransferOptions, cb workers.Callback[models.FileMetadata]) *workers.Future[models.FileMetadata] {
	return workers.Submit(ctx, m.pool, m.executor, func(ctx context.Context) (models.FileMetadata, error) {
		return m.DownloadToFile(ctx, id, path, opts)
	}, cb)
}

func (m *fileTransferManager) readyMetadata(ctx context.Context, id string) (models.FileMetadata, error) {
	callCtx, cancel := networkContext(ctx, m.timeout)
	meta, err := m.remote.FileMetadata(callCtx, id)
	cancel()
	if err != nil {
		return failed(models.FileMetadata{ID: id}, fmt.Errorf("%w: file metadata: %w", ErrTransferFailed, err))
	}
	if meta.Status != models.FileStatusComplete {
		return meta, fmt.Errorf("%w: %s is %s", ErrFileNotReady, id, meta.Status)
	}
	return meta, nil
}

func (m *fileTransferManager) receiveChunks(ctx context.Context, meta models.FileMetadata, w io.Writer, offset int64, hasher hash.Hash, opts TransferOptions) (models.FileMetadata, error) {
	meta.Status = models.FileStatusInProgress
	meta.Committed = offset

	chunkSize := opts.chunkSize(m.chunkSize)
	for chunk := 1; offset < meta.Size; chunk++ {
		if opts.cancelled(ctx) {
			meta.Status = models.FileStatusCancelled
			return meta, ErrTransferCancelled
		}

		callCtx, cancel := networkContext(ctx, m.timeout)
		data, err := m.remote.DownloadChunk(callCtx, meta.ID, offset, min(chunkSize, meta.Size-offset))
		cancel()
		if err != nil {
			m.logger.Err(err).Str("func", "fileTransferManager.receiveChunks").Str("file_id", meta.ID).Int("chunk", chunk).Msg("chunk download failed")
			return failed(meta, fmt.Errorf("%w: chunk %d: %w", ErrTransferFailed, chunk, err))
		}
		if len(data) == 0 {
			return failed(meta, fmt.Errorf("%w: chunk %d: %w", ErrTransferFailed, chunk, io.ErrUnexpectedEOF))
		}

		if _, err = w.Write(data); err != nil {
			return failed(meta, fmt.Errorf("%w: write chunk %d: %w", ErrTransferFailed, chunk, err))
		}
		hasher.Write(data)

		offset += int64(len(data))
		meta.Committed = offset
		opts.notify(models.TransferProgress{FileID: meta.ID, Transferred: offset, Total: meta.Size, Chunk: chunk})
	}

	if meta.Checksum != "" && hex.EncodeToString(hasher.Sum(nil)) != meta.Checksum {
		return failed(meta, ErrChecksumMismatch)
	}

	meta.Status = models.FileStatusComplete
	return meta, nil
}

func failed(meta models.FileMetadata, err error) (models.FileMetadata, error) {
	meta.Status = models.FileStatusFailed
	return meta, err
}

// IsTransferCancelled reports whether err ended a transfer by cancellation.
func IsTransferCancelled(err error) bool {
	return errors.Is(err, ErrTransferCancelled)
}

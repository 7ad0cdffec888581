// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/MKhiriev/go-sync-store/internal/logger"
	"github.com/MKhiriev/go-sync-store/models"
)

// chunkChecksumHeader carries the hex BLAKE2b-256 digest of an uploaded chunk.
const chunkChecksumHeader = "X-Chunk-Checksum"

// initiateUpload handles POST /api/files.
func (h *Handler) initiateUpload(w http.ResponseWriter, r *http.Request) {
	var meta models.FileMetadata
	if err := decodeJSON(w, r, &meta); err != nil {
		writeError(w, r, err)
		return
	}

	created, err := h.services.FileService.Initiate(r.Context(), meta)
	if err != nil {
		writeError(w, r, err)
		return
	}

	w.Header().Set("Location", "/api/files/"+created.ID)
	writeJSON(w, r, http.StatusCreated, created)
}

// uploadChunk handles PUT /api/files/{id}/upload?offset=N. The body is the
// raw chunk.
func (h *Handler) uploadChunk(w http.ResponseWriter, r *http.Request) {
	offset, err := strconv.ParseInt(r.URL.Query().Get("offset"), 10, 64)
	if err != nil || offset < 0 {
		writeError(w, r, ErrInvalidOffset)
		return
	}

	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxChunkBodySize))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, r, fmt.Errorf("%w: %w", ErrBodyTooLarge, err))
			return
		}
		logger.FromRequest(r).Err(err).Str("func", "*Handler.uploadChunk").Msg("error reading chunk body")
		writeError(w, r, err)
		return
	}

	ack, err := h.services.FileService.WriteChunk(r.Context(), chi.URLParam(r, "id"), offset, data, r.Header.Get(chunkChecksumHeader))
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, ack)
}

// uploadStatus handles GET /api/files/{id}/upload.
func (h *Handler) uploadStatus(w http.ResponseWriter, r *http.Request) {
	ack, err := h.services.FileService.Status(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, ack)
}

// fileMetadata handles GET /api/files/{id}.
func (h *Handler) fileMetadata(w http.ResponseWriter, r *http.Request) {
	meta, err := h.services.FileService.Metadata(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, meta)
}

// downloadContent handles GET /api/files/{id}/content. With a Range header
// the answer is 206 with the requested window, otherwise 200 with the whole
// file.
func (h *Handler) downloadContent(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	meta, err := h.services.FileService.Metadata(ctx, id)
	if err != nil {
		writeError(w, r, err)
		return
	}

	contentType := meta.MimeType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Accept-Ranges", "bytes")

	rangeHeader := r.Header.Get("Range")
	if rangeHeader == "" {
		var data []byte
		if meta.Size > 0 || meta.Status != models.FileStatusComplete {
			data, err = h.services.FileService.ReadRange(ctx, id, 0, meta.Size)
			if err != nil {
				writeError(w, r, err)
				return
			}
		}
		w.Header().Set("Content-Type", contentType)
		w.WriteHeader(http.StatusOK)
		w.Write(data)
		return
	}

	offset, length, err := parseRange(rangeHeader)
	if err != nil {
		w.Header().Set("Content-Range", fmt.Sprintf("bytes */%d", meta.Size))
		writeError(w, r, err)
		return
	}

	data, err := h.services.FileService.ReadRange(ctx, id, offset, length)
	if err != nil {
		writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Range", fmt.Sprintf("bytes %d-%d/%d", offset, offset+int64(len(data))-1, meta.Size))
	w.WriteHeader(http.StatusPartialContent)
	w.Write(data)
}

// parseRange accepts a single "bytes=a-b" or "bytes=a-" range and returns
// its offset and length.
func parseRange(header string) (int64, int64, error) {
	ranges, ok := strings.CutPrefix(header, "bytes=")
	if !ok || strings.Contains(ranges, ",") {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidRange, header)
	}

	first, last, ok := strings.Cut(ranges, "-")
	if !ok {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidRange, header)
	}

	offset, err := strconv.ParseInt(strings.TrimSpace(first), 10, 64)
	if err != nil || offset < 0 {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidRange, header)
	}

	last = strings.TrimSpace(last)
	if last == "" {
		return offset, math.MaxInt64 - offset, nil
	}

	end, err := strconv.ParseInt(last, 10, 64)
	if err != nil || end < offset {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidRange, header)
	}
	return offset, end - offset + 1, nil
}

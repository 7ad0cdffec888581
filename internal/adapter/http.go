// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"

	"github.com/go-resty/resty/v2"

	"github.com/MKhiriev/go-sync-store/internal/config"
	"github.com/MKhiriev/go-sync-store/internal/logger"
	"github.com/MKhiriev/go-sync-store/internal/utils"
	"github.com/MKhiriev/go-sync-store/models"
)

// ChunkChecksumHeader carries the hex BLAKE2b-256 digest of an uploaded chunk.
const ChunkChecksumHeader = "X-Chunk-Checksum"

type httpRemoteService struct {
	client *utils.HTTPClient

	mu    sync.RWMutex
	token string

	logger *logger.Logger
}

// NewHTTPRemoteService constructs an HTTP/REST implementation of
// [RemoteService]. It normalises and validates the base URL from
// adapterCfg.HTTPAddress and configures the underlying HTTP client with the
// resolved base URL, request timeout and initial bearer token.
//
// Returns an error wrapping [ErrInvalidAddress] if adapterCfg.HTTPAddress
// is empty or cannot be parsed as a valid URL.
func NewHTTPRemoteService(adapterCfg config.ClientAdapter, logger *logger.Logger) (RemoteService, error) {
	baseURL, err := normalizeBaseURL(adapterCfg.HTTPAddress)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidAddress, err)
	}

	r := &httpRemoteService{
		client: utils.NewHTTPClient(baseURL, adapterCfg.RequestTimeout),
		logger: logger,
	}
	r.SetToken(adapterCfg.Token)
	return r, nil
}

func normalizeBaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("empty address")
	}

	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("address must include host and scheme")
	}

	return strings.TrimRight(u.String(), "/"), nil
}

// SetToken implements [RemoteService].
func (h *httpRemoteService) SetToken(token string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.token = strings.TrimSpace(token)
}

// Token implements [RemoteService].
func (h *httpRemoteService) Token() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.token
}

// Ping implements [RemoteService]. GET /api/ping.
func (h *httpRemoteService) Ping(ctx context.Context) error {
	resp, err := h.client.R().SetContext(ctx).Get("/api/ping")
	if err != nil {
		return mapTransportError("ping request", err)
	}
	return mapHTTPError(resp)
}

// BatchSave implements [RemoteService].
// POST /api/collections/{collection}/batch.
func (h *httpRemoteService) BatchSave(ctx context.Context, collection string, entities []models.Entity) (models.BatchSaveResult, error) {
	var result models.BatchSaveResult
	if err := h.postJSON(ctx, "batch save", collectionPath(collection, "batch"), entities, &result); err != nil {
		return models.BatchSaveResult{}, err
	}
	return result, nil
}

// BatchDelete implements [RemoteService].
// POST /api/collections/{collection}/delete.
func (h *httpRemoteService) BatchDelete(ctx context.Context, collection string, ids []string) (models.BatchDeleteResult, error) {
	var result models.BatchDeleteResult
	if err := h.postJSON(ctx, "batch delete", collectionPath(collection, "delete"), models.BatchDeleteRequest{IDs: ids}, &result); err != nil {
		return models.BatchDeleteResult{}, err
	}
	return result, nil
}

// Query implements [RemoteService].
// POST /api/collections/{collection}/query.
func (h *httpRemoteService) Query(ctx context.Context, collection string, q models.Query) (models.QueryResponse, error) {
	var result models.QueryResponse
	if err := h.postJSON(ctx, "query", collectionPath(collection, "query"), q, &result); err != nil {
		return models.QueryResponse{}, err
	}
	return result, nil
}

// FindByID implements [RemoteService].
// GET /api/collections/{collection}/entities/{id}.
func (h *httpRemoteService) FindByID(ctx context.Context, collection, id string) (models.Entity, error) {
	resp, err := h.authedRequest(ctx).Get(collectionPath(collection, "entities", id))
	if err != nil {
		return models.Entity{}, mapTransportError("find by id request", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.Entity{}, err
	}

	var entity models.Entity
	if err = decode(resp, &entity); err != nil {
		return models.Entity{}, err
	}
	return entity, nil
}

// Count implements [RemoteService].
// POST /api/collections/{collection}/count.
func (h *httpRemoteService) Count(ctx context.Context, collection string, filter models.Filter) (int, error) {
	var result models.CountResponse
	if err := h.postJSON(ctx, "count", collectionPath(collection, "count"), models.CountRequest{Filter: filter}, &result); err != nil {
		return 0, err
	}
	return result.Count, nil
}

// InitiateUpload implements [RemoteService]. POST /api/files.
func (h *httpRemoteService) InitiateUpload(ctx context.Context, metadata models.FileMetadata) (models.FileMetadata, error) {
	var result models.FileMetadata
	if err := h.postJSON(ctx, "initiate upload", "/api/files", metadata, &result); err != nil {
		return models.FileMetadata{}, err
	}
	return result, nil
}

// UploadChunk implements [RemoteService]. PUT {uploadURL}?offset=N with the
// raw chunk as body.
func (h *httpRemoteService) UploadChunk(ctx context.Context, uploadURL string, offset int64, data []byte, checksum string) (models.ChunkAck, error) {
	var ack models.ChunkAck

	resp, err := h.authedRequest(ctx).
		SetHeader("Content-Type", "application/octet-stream").
		SetHeader(ChunkChecksumHeader, checksum).
		SetQueryParam("offset", strconv.FormatInt(offset, 10)).
		SetBody(data).
		Put(uploadURL)
	if err != nil {
		return ack, mapTransportError("upload chunk request", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return ack, err
	}

	err = decode(resp, &ack)
	return ack, err
}

// UploadStatus implements [RemoteService]. GET {uploadURL}.
func (h *httpRemoteService) UploadStatus(ctx context.Context, uploadURL string) (models.ChunkAck, error) {
	var ack models.ChunkAck

	resp, err := h.authedRequest(ctx).Get(uploadURL)
	if err != nil {
		return ack, mapTransportError("upload status request", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return ack, err
	}

	err = decode(resp, &ack)
	return ack, err
}

// FileMetadata implements [RemoteService]. GET /api/files/{id}.
func (h *httpRemoteService) FileMetadata(ctx context.Context, id string) (models.FileMetadata, error) {
	var meta models.FileMetadata

	resp, err := h.authedRequest(ctx).Get("/api/files/" + url.PathEscape(id))
	if err != nil {
		return meta, mapTransportError("file metadata request", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return meta, err
	}

	err = decode(resp, &meta)
	return meta, err
}

// DownloadChunk implements [RemoteService]. GET /api/files/{id}/content
// with a Range header.
func (h *httpRemoteService) DownloadChunk(ctx context.Context, id string, offset, length int64) ([]byte, error) {
	if length <= 0 {
		return nil, fmt.Errorf("%w: non-positive chunk length %d", ErrBadRange, length)
	}

	resp, err := h.authedRequest(ctx).
		SetHeader("Range", fmt.Sprintf("bytes=%d-%d", offset, offset+length-1)).
		Get("/api/files/" + url.PathEscape(id) + "/content")
	if err != nil {
		return nil, mapTransportError("download chunk request", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return nil, err
	}

	body := resp.Body()
	if resp.StatusCode() == http.StatusOK && int64(len(body)) > length {
		// server ignored the range and sent the whole file
		end := min(offset+length, int64(len(body)))
		return body[min(offset, end):end], nil
	}
	return body, nil
}

func (h *httpRemoteService) postJSON(ctx context.Context, op, path string, body, result any) error {
	resp, err := h.authedRequest(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(body).
		Post(path)
	if err != nil {
		h.logger.Debug().Err(err).Str("func", "httpRemoteService.postJSON").Str("path", path).Msg(op + " request failed")
		return mapTransportError(op+" request", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return err
	}

	return decode(resp, result)
}

func (h *httpRemoteService) authedRequest(ctx context.Context) *resty.Request {
	req := h.client.R().SetContext(ctx)
	if token := h.Token(); token != "" {
		req.SetHeader("Authorization", "Bearer "+token)
	}
	return req
}

func decode(resp *resty.Response, v any) error {
	if err := json.Unmarshal(resp.Body(), v); err != nil {
		return fmt.Errorf("%w: %w", ErrDecodingResponse, err)
	}
	return nil
}

func collectionPath(collection string, parts ...string) string {
	var b strings.Builder
	b.WriteString("/api/collections/")
	b.WriteString(url.PathEscape(collection))
	for _, p := range parts {
		b.WriteByte('/')
		b.WriteString(url.PathEscape(p))
	}
	return b.String()
}

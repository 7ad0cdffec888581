// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"errors"
	"net/http"

	"github.com/MKhiriev/go-sync-store/internal/logger"
	"github.com/MKhiriev/go-sync-store/internal/service"
	"github.com/MKhiriev/go-sync-store/internal/store"
	"github.com/MKhiriev/go-sync-store/models"
)

var errorStatusMap = map[error]int{
	ErrInvalidJSON:                http.StatusBadRequest,
	ErrEmptyBody:                  http.StatusBadRequest,
	ErrBodyTooLarge:               http.StatusRequestEntityTooLarge,
	ErrInvalidOffset:              http.StatusBadRequest,
	ErrInvalidRange:               http.StatusRequestedRangeNotSatisfiable,
	ErrNotFound:                   http.StatusNotFound,
	ErrMethodNotAllowed:           http.StatusMethodNotAllowed,
	ErrEmptyAuthorizationHeader:   http.StatusUnauthorized,
	ErrInvalidAuthorizationHeader: http.StatusUnauthorized,

	service.ErrInvalidDataProvided:     http.StatusBadRequest,
	service.ErrInvalidQuery:            http.StatusBadRequest,
	service.ErrEmptyBatch:              http.StatusBadRequest,
	service.ErrBatchTooLarge:           http.StatusRequestEntityTooLarge,
	service.ErrChunkTooLarge:           http.StatusBadRequest,
	service.ErrInvalidChecksum:         http.StatusBadRequest,
	service.ErrOffsetMismatch:          http.StatusConflict,
	service.ErrUploadFinished:          http.StatusConflict,
	service.ErrFileNotReady:            http.StatusConflict,
	service.ErrInvalidRange:            http.StatusRequestedRangeNotSatisfiable,
	service.ErrTokenIsExpired:          http.StatusUnauthorized,
	service.ErrTokenIsExpiredOrInvalid: http.StatusUnauthorized,
	service.ErrVersionIsNotSpecified:   http.StatusNotFound,

	store.ErrInvalidCollection: http.StatusBadRequest,
	store.ErrInvalidEntityID:   http.StatusBadRequest,
	store.ErrEntityNotFound:    http.StatusNotFound,
	store.ErrRevisionConflict:  http.StatusConflict,
	store.ErrFileNotFound:      http.StatusNotFound,
	store.ErrBlobNotFound:      http.StatusNotFound,
	store.ErrOffsetMismatch:    http.StatusConflict,

	store.ErrBuildingSQLQuery:     http.StatusInternalServerError,
	store.ErrExecutingQuery:       http.StatusInternalServerError,
	store.ErrBeginningTransaction: http.StatusInternalServerError,
	store.ErrCommitingTransaction: http.StatusInternalServerError,
	store.ErrExecutingStatement:   http.StatusInternalServerError,
	store.ErrScanningRow:          http.StatusInternalServerError,
	store.ErrScanningRows:         http.StatusInternalServerError,
}

func statusFromError(err error) int {
	for target, status := range errorStatusMap {
		if errors.Is(err, target) {
			return status
		}
	}
	return http.StatusInternalServerError
}

func codeFromStatus(status int) models.ErrorCode {
	switch status {
	case http.StatusBadRequest, http.StatusRequestEntityTooLarge, http.StatusRequestedRangeNotSatisfiable, http.StatusMethodNotAllowed:
		return models.CodeValidation
	case http.StatusUnauthorized, http.StatusForbidden:
		return models.CodeUnauthorized
	case http.StatusNotFound:
		return models.CodeNotFound
	case http.StatusConflict:
		return models.CodeConflict
	case http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return models.CodeTimeout
	default:
		return models.CodeInternal
	}
}

// writeError answers with an [models.ErrorResponse]. Internal failures are
// logged with their cause and reported without it.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFromError(err)

	message := err.Error()
	if status >= http.StatusInternalServerError {
		logger.FromRequest(r).Err(err).Str("path", r.URL.Path).Msg("request failed")
		message = http.StatusText(status)
	} else {
		logger.FromRequest(r).Debug().Err(err).Int("status", status).Str("path", r.URL.Path).Msg("request rejected")
	}

	writeJSON(w, r, status, models.ErrorResponse{Code: codeFromStatus(status), Message: message})
}

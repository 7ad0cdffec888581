// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package validators

import "errors"

var (
	ErrUnsupportedType = errors.New("unsupported type for validation")
	ErrUnknownField    = errors.New("unknown field for validation")

	ErrInvalidEntityID  = errors.New("invalid entity id")
	ErrInvalidRevision  = errors.New("invalid revision")
	ErrInvalidPayload   = errors.New("payload must be a json object")
	ErrPayloadTooLarge  = errors.New("payload too large")
	ErrEmptyIDs         = errors.New("ids list cannot be empty")
	ErrInvalidFilename  = errors.New("invalid filename")
	ErrInvalidFileSize  = errors.New("invalid file size")
	ErrInvalidMimeType  = errors.New("invalid mime type")
	ErrInvalidQuery     = errors.New("invalid query")
	ErrInvalidPageLimit = errors.New("query limit too large")
)

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package validators

import (
	"context"
	"fmt"
	"mime"
	"path/filepath"
	"strings"

	"github.com/MKhiriev/go-sync-store/internal/query"
	"github.com/MKhiriev/go-sync-store/models"
)

// Field name constants used to restrict validation to a subset of fields.
const (
	// FieldID targets the entity id.
	FieldID = "id"

	// FieldRevision targets the optional revision precondition of a save.
	FieldRevision = "revision"

	// FieldPayload targets the JSON payload; it must decode to an object and
	// stay under MaxPayloadSize.
	FieldPayload = "payload"

	// FieldIDs targets the id list of a batch delete.
	FieldIDs = "ids"

	// FieldFilename targets the base name of an uploaded file.
	FieldFilename = "filename"

	// FieldSize targets the declared size of an uploaded file.
	FieldSize = "size"

	// FieldMimeType targets the optional media type of an uploaded file.
	FieldMimeType = "mime_type"

	// FieldFilter targets the filter and sort fields of a query.
	FieldFilter = "filter"

	// FieldPaging targets skip and limit of a query.
	FieldPaging = "paging"
)

// Limits enforced by EntityValidator.
const (
	MaxPayloadSize    = 1 << 20
	MaxRevisionLength = 128
	MaxFilenameLength = 255
	MaxQueryLimit     = 10000
	MaxFileSize       = 10 << 30
	maxMimeTypeLength = 255
)

// EntityValidator implements Validator for the models accepted by the
// reference server: Entity, BatchDeleteRequest, FileMetadata and Query.
// Value and pointer forms are both accepted.
type EntityValidator struct {
}

// NewEntityValidator constructs a new EntityValidator and returns it as the
// Validator interface.
func NewEntityValidator() Validator {
	return &EntityValidator{}
}

// Validate dispatches to the type-specific check. Without fields every
// field of the type is checked.
func (v *EntityValidator) Validate(ctx context.Context, obj any, fields ...string) error {
	switch value := obj.(type) {
	case models.Entity:
		return v.validateEntity(ctx, value, fields...)
	case *models.Entity:
		return v.validateEntity(ctx, *value, fields...)

	case models.BatchDeleteRequest:
		return v.validateDeleteRequest(ctx, value, fields...)
	case *models.BatchDeleteRequest:
		return v.validateDeleteRequest(ctx, *value, fields...)

	case models.FileMetadata:
		return v.validateFileMetadata(ctx, value, fields...)
	case *models.FileMetadata:
		return v.validateFileMetadata(ctx, *value, fields...)

	case models.Query:
		return v.validateQuery(ctx, value, fields...)
	case *models.Query:
		return v.validateQuery(ctx, *value, fields...)

	default:
		return ErrUnsupportedType
	}
}

func (v *EntityValidator) validateEntity(_ context.Context, entity models.Entity, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldID, FieldRevision, FieldPayload}
	}

	for _, f := range fields {
		switch f {
		case FieldID:
			if !models.ValidEntityID(entity.ID) {
				return fmt.Errorf("%w: %q", ErrInvalidEntityID, entity.ID)
			}
		case FieldRevision:
			if len(entity.Revision) > MaxRevisionLength || strings.ContainsAny(entity.Revision, " \t\r\n") {
				return ErrInvalidRevision
			}
		case FieldPayload:
			if len(entity.Payload) > MaxPayloadSize {
				return fmt.Errorf("%w: %d bytes, limit %d", ErrPayloadTooLarge, len(entity.Payload), MaxPayloadSize)
			}
			if len(entity.Payload) == 0 {
				return ErrInvalidPayload
			}
			if _, err := query.NewDocument(entity); err != nil {
				return fmt.Errorf("%w: %w", ErrInvalidPayload, err)
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

func (v *EntityValidator) validateDeleteRequest(_ context.Context, request models.BatchDeleteRequest, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldIDs}
	}

	for _, f := range fields {
		switch f {
		case FieldIDs:
			if len(request.IDs) == 0 {
				return ErrEmptyIDs
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

func (v *EntityValidator) validateFileMetadata(_ context.Context, meta models.FileMetadata, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldFilename, FieldSize, FieldMimeType}
	}

	for _, f := range fields {
		switch f {
		case FieldFilename:
			name := meta.Filename
			if name == "" || len(name) > MaxFilenameLength || filepath.Base(name) != name || name == "." || name == ".." {
				return fmt.Errorf("%w: %q", ErrInvalidFilename, name)
			}
		case FieldSize:
			if meta.Size < 0 || meta.Size > MaxFileSize {
				return fmt.Errorf("%w: %d", ErrInvalidFileSize, meta.Size)
			}
		case FieldMimeType:
			if meta.MimeType == "" {
				continue
			}
			if len(meta.MimeType) > maxMimeTypeLength {
				return ErrInvalidMimeType
			}
			if _, _, err := mime.ParseMediaType(meta.MimeType); err != nil {
				return fmt.Errorf("%w: %w", ErrInvalidMimeType, err)
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

func (v *EntityValidator) validateQuery(_ context.Context, q models.Query, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldFilter, FieldPaging}
	}

	for _, f := range fields {
		switch f {
		case FieldFilter:
			if err := query.Validate(models.Query{Filter: q.Filter, Sort: q.Sort}); err != nil {
				return fmt.Errorf("%w: %w", ErrInvalidQuery, err)
			}
		case FieldPaging:
			if q.Skip < 0 || q.Limit < 0 {
				return fmt.Errorf("%w: skip=%d limit=%d", ErrInvalidQuery, q.Skip, q.Limit)
			}
			if q.Limit > MaxQueryLimit {
				return fmt.Errorf("%w: %d, limit %d", ErrInvalidPageLimit, q.Limit, MaxQueryLimit)
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

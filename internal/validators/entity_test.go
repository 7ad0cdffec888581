// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package validators

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-sync-store/models"
)

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func validEntity() models.Entity {
	return models.Entity{ID: "note-1", Revision: "r1", Payload: json.RawMessage(`{"title":"a"}`)}
}

func validFile() models.FileMetadata {
	return models.FileMetadata{Filename: "report.pdf", Size: 1024, MimeType: "application/pdf"}
}

// ---------------------------------------------------------------------------
// TestValidate_Dispatch
// ---------------------------------------------------------------------------

func TestValidate_Dispatch(t *testing.T) {
	v := NewEntityValidator()
	ctx := context.Background()

	t.Run("unsupported type", func(t *testing.T) {
		require.ErrorIs(t, v.Validate(ctx, "a string"), ErrUnsupportedType)
	})

	t.Run("entity value and pointer", func(t *testing.T) {
		e := validEntity()
		require.NoError(t, v.Validate(ctx, e))
		require.NoError(t, v.Validate(ctx, &e))
	})

	t.Run("file value and pointer", func(t *testing.T) {
		f := validFile()
		require.NoError(t, v.Validate(ctx, f))
		require.NoError(t, v.Validate(ctx, &f))
	})

	t.Run("delete request", func(t *testing.T) {
		require.NoError(t, v.Validate(ctx, models.BatchDeleteRequest{IDs: []string{"a"}}))
		require.ErrorIs(t, v.Validate(ctx, &models.BatchDeleteRequest{}), ErrEmptyIDs)
	})

	t.Run("unknown field", func(t *testing.T) {
		require.ErrorIs(t, v.Validate(ctx, validEntity(), "bogus"), ErrUnknownField)
	})
}

// ---------------------------------------------------------------------------
// TestValidate_Entity
// ---------------------------------------------------------------------------

func TestValidate_Entity(t *testing.T) {
	v := NewEntityValidator()
	ctx := context.Background()

	tests := []struct {
		name    string
		mutate  func(*models.Entity)
		fields  []string
		wantErr error
	}{
		{name: "valid", mutate: func(*models.Entity) {}},
		{name: "empty revision is allowed", mutate: func(e *models.Entity) { e.Revision = "" }},
		{name: "empty id", mutate: func(e *models.Entity) { e.ID = "" }, wantErr: ErrInvalidEntityID},
		{name: "id with space", mutate: func(e *models.Entity) { e.ID = "a b" }, wantErr: ErrInvalidEntityID},
		{name: "revision with space", mutate: func(e *models.Entity) { e.Revision = "r 1" }, wantErr: ErrInvalidRevision},
		{name: "revision too long", mutate: func(e *models.Entity) { e.Revision = strings.Repeat("r", MaxRevisionLength+1) }, wantErr: ErrInvalidRevision},
		{name: "empty payload", mutate: func(e *models.Entity) { e.Payload = nil }, wantErr: ErrInvalidPayload},
		{name: "array payload", mutate: func(e *models.Entity) { e.Payload = json.RawMessage(`[1,2]`) }, wantErr: ErrInvalidPayload},
		{name: "null payload", mutate: func(e *models.Entity) { e.Payload = json.RawMessage(`null`) }, wantErr: ErrInvalidPayload},
		{name: "scalar payload", mutate: func(e *models.Entity) { e.Payload = json.RawMessage(`"x"`) }, wantErr: ErrInvalidPayload},
		{
			name: "payload too large",
			mutate: func(e *models.Entity) {
				e.Payload = json.RawMessage(`{"v":"` + strings.Repeat("x", MaxPayloadSize) + `"}`)
			},
			wantErr: ErrPayloadTooLarge,
		},
		{
			name:   "only the id is checked",
			mutate: func(e *models.Entity) { e.Payload = nil },
			fields: []string{FieldID},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := validEntity()
			tt.mutate(&e)

			err := v.Validate(ctx, e, tt.fields...)
			if tt.wantErr == nil {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

// ---------------------------------------------------------------------------
// TestValidate_FileMetadata
// ---------------------------------------------------------------------------

func TestValidate_FileMetadata(t *testing.T) {
	v := NewEntityValidator()
	ctx := context.Background()

	tests := []struct {
		name    string
		mutate  func(*models.FileMetadata)
		wantErr error
	}{
		{name: "valid", mutate: func(*models.FileMetadata) {}},
		{name: "empty file", mutate: func(f *models.FileMetadata) { f.Size = 0 }},
		{name: "no mime type", mutate: func(f *models.FileMetadata) { f.MimeType = "" }},
		{name: "empty filename", mutate: func(f *models.FileMetadata) { f.Filename = "" }, wantErr: ErrInvalidFilename},
		{name: "path in filename", mutate: func(f *models.FileMetadata) { f.Filename = "../etc/passwd" }, wantErr: ErrInvalidFilename},
		{name: "dot dot", mutate: func(f *models.FileMetadata) { f.Filename = ".." }, wantErr: ErrInvalidFilename},
		{name: "negative size", mutate: func(f *models.FileMetadata) { f.Size = -1 }, wantErr: ErrInvalidFileSize},
		{name: "too large", mutate: func(f *models.FileMetadata) { f.Size = MaxFileSize + 1 }, wantErr: ErrInvalidFileSize},
		{name: "malformed mime", mutate: func(f *models.FileMetadata) { f.MimeType = "not a type/" }, wantErr: ErrInvalidMimeType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := validFile()
			tt.mutate(&f)

			err := v.Validate(ctx, f)
			if tt.wantErr == nil {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

// ---------------------------------------------------------------------------
// TestValidate_Query
// ---------------------------------------------------------------------------

func TestValidate_Query(t *testing.T) {
	v := NewEntityValidator()
	ctx := context.Background()

	assert.NoError(t, v.Validate(ctx, models.Query{}))
	assert.NoError(t, v.Validate(ctx, models.Query{
		Filter: models.Filter{"done": true, "priority": map[string]any{"$gte": 2}},
		Sort:   []models.SortField{{Field: "priority", Descending: true}},
		Skip:   10,
		Limit:  10,
	}))

	assert.ErrorIs(t, v.Validate(ctx, models.Query{Skip: -1}), ErrInvalidQuery)
	assert.ErrorIs(t, v.Validate(ctx, models.Query{Limit: MaxQueryLimit + 1}), ErrInvalidPageLimit)
	assert.ErrorIs(t, v.Validate(ctx, models.Query{Filter: models.Filter{"$bogus": 1}}), ErrInvalidQuery)
	assert.ErrorIs(t, v.Validate(ctx, models.Query{Sort: []models.SortField{{Field: "bad field"}}}), ErrInvalidQuery)
	assert.NoError(t, v.Validate(ctx, models.Query{Limit: MaxQueryLimit + 1}, FieldFilter), "paging not checked")
}

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package query

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-sync-store/models"
)

func entity(t *testing.T, id string, payload map[string]any) models.Entity {
	t.Helper()
	raw, err := json.Marshal(payload)
	require.NoError(t, err)
	return models.Entity{ID: id, Payload: raw}
}

func ids(entities []models.Entity) []string {
	out := make([]string, 0, len(entities))
	for _, e := range entities {
		out = append(out, e.ID)
	}
	return out
}

func fixtures(t *testing.T) []models.Entity {
	return []models.Entity{
		entity(t, "a", map[string]any{"name": "ann", "age": 31, "city": map[string]any{"name": "riga"}}),
		entity(t, "b", map[string]any{"name": "bob", "age": 25, "active": true}),
		entity(t, "c", map[string]any{"name": "cid", "age": 40, "city": map[string]any{"name": "oslo"}}),
		entity(t, "d", map[string]any{"name": "dan"}),
	}
}

// ── Validate ──────────────────────────────────────────────────────────────────

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		query   models.Query
		wantErr error
	}{
		{name: "empty query", query: models.Query{}},
		{name: "equality and operators", query: models.Query{Filter: models.Filter{"age": map[string]any{"$gt": 3}, "name": "x"}}},
		{name: "or of filters", query: models.Query{Filter: models.Filter{"$or": []any{map[string]any{"a": 1}, map[string]any{"b": 2}}}}},
		{name: "negative skip", query: models.Query{Skip: -1}, wantErr: ErrInvalidPaging},
		{name: "bad sort field", query: models.Query{Sort: []models.SortField{{Field: "a b"}}}, wantErr: ErrInvalidField},
		{name: "bad field", query: models.Query{Filter: models.Filter{"a'); drop": 1}}, wantErr: ErrInvalidField},
		{name: "unknown operator", query: models.Query{Filter: models.Filter{"a": map[string]any{"$regex": "x"}}}, wantErr: ErrInvalidOperator},
		{name: "operator at field position", query: models.Query{Filter: models.Filter{"$and": 1}}, wantErr: ErrInvalidOperator},
		{name: "in without list", query: models.Query{Filter: models.Filter{"a": map[string]any{"$in": 1}}}, wantErr: ErrInvalidValue},
		{name: "gt with bool", query: models.Query{Filter: models.Filter{"a": map[string]any{"$gt": true}}}, wantErr: ErrInvalidValue},
		{name: "non scalar equality", query: models.Query{Filter: models.Filter{"a": []any{1}}}, wantErr: ErrInvalidValue},
		{name: "or not a list", query: models.Query{Filter: models.Filter{"$or": "x"}}, wantErr: ErrInvalidValue},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.query)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

// ── Match ─────────────────────────────────────────────────────────────────────

func TestMatch(t *testing.T) {
	tests := []struct {
		name   string
		filter models.Filter
		want   []string
	}{
		{name: "empty filter", filter: nil, want: []string{"a", "b", "c", "d"}},
		{name: "equality", filter: models.Filter{"name": "bob"}, want: []string{"b"}},
		{name: "id equality", filter: models.Filter{"_id": "c"}, want: []string{"c"}},
		{name: "nested path", filter: models.Filter{"city.name": "oslo"}, want: []string{"c"}},
		{name: "gt", filter: models.Filter{"age": map[string]any{"$gt": 30}}, want: []string{"a", "c"}},
		{name: "range", filter: models.Filter{"age": map[string]any{"$gte": 25, "$lt": 40}}, want: []string{"a", "b"}},
		{name: "lte", filter: models.Filter{"age": map[string]any{"$lte": 25}}, want: []string{"b"}},
		{name: "in", filter: models.Filter{"name": map[string]any{"$in": []any{"ann", "dan"}}}, want: []string{"a", "d"}},
		{name: "nin includes missing", filter: models.Filter{"age": map[string]any{"$nin": []any{31, 25}}}, want: []string{"c", "d"}},
		{name: "ne includes missing", filter: models.Filter{"active": map[string]any{"$ne": true}}, want: []string{"a", "c", "d"}},
		{name: "null matches missing", filter: models.Filter{"age": nil}, want: []string{"d"}},
		{name: "or", filter: models.Filter{"$or": []any{map[string]any{"name": "ann"}, map[string]any{"age": 40}}}, want: []string{"a", "c"}},
		{name: "and of keys", filter: models.Filter{"age": map[string]any{"$gt": 20}, "city.name": "riga"}, want: []string{"a"}},
		{name: "type mismatch", filter: models.Filter{"name": map[string]any{"$gt": 3}}, want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := []string{}
			for _, e := range fixtures(t) {
				d, err := NewDocument(e)
				require.NoError(t, err)
				if Match(tt.filter, d) {
					got = append(got, e.ID)
				}
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewDocument_RejectsNonObjectPayload(t *testing.T) {
	_, err := NewDocument(models.Entity{ID: "x", Payload: json.RawMessage(`[1,2]`)})
	assert.ErrorIs(t, err, ErrInvalidPayload)

	_, err = NewDocument(models.Entity{ID: "x", Payload: json.RawMessage(`null`)})
	assert.ErrorIs(t, err, ErrInvalidPayload)

	d, err := NewDocument(models.Entity{ID: "x"})
	require.NoError(t, err)
	assert.True(t, Match(nil, d))
}

// ── Apply ─────────────────────────────────────────────────────────────────────

func TestApply_SortSkipLimit(t *testing.T) {
	q := models.Query{
		Sort:  []models.SortField{{Field: "age", Descending: true}},
		Skip:  1,
		Limit: 2,
	}

	window, total, err := Apply(fixtures(t), q)
	require.NoError(t, err)
	assert.Equal(t, 4, total)
	assert.Equal(t, []string{"a", "b"}, ids(window))
}

func TestApply_MissingValuesSortFirst(t *testing.T) {
	window, _, err := Apply(fixtures(t), models.Query{Sort: []models.SortField{{Field: "age"}}})
	require.NoError(t, err)
	assert.Equal(t, []string{"d", "b", "a", "c"}, ids(window))
}

func TestApply_KeepsInputOrderWithoutSort(t *testing.T) {
	window, total, err := Apply(fixtures(t), models.Query{Filter: models.Filter{"age": map[string]any{"$gt": 0}}})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	assert.Equal(t, []string{"a", "b", "c"}, ids(window))
}

func TestApply_SkipBeyondEnd(t *testing.T) {
	window, total, err := Apply(fixtures(t), models.Query{Skip: 10})
	require.NoError(t, err)
	assert.Equal(t, 4, total)
	assert.Empty(t, window)
}

func TestApply_InvalidQuery(t *testing.T) {
	_, _, err := Apply(fixtures(t), models.Query{Limit: -1})
	assert.ErrorIs(t, err, ErrInvalidPaging)
}

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package utils

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteJSON(t *testing.T) {
	tests := []struct {
		name   string
		data   any
		status int
		body   string
	}{
		{name: "object", data: map[string]string{"id": "b1"}, status: http.StatusOK, body: `{"id":"b1"}`},
		{name: "created", data: struct {
			Revision int64 `json:"revision"`
		}{Revision: 3}, status: http.StatusCreated, body: `{"revision":3}`},
		{name: "nil", data: nil, status: http.StatusOK, body: "null"},
		{name: "slice", data: []int{1, 2}, status: http.StatusConflict, body: "[1,2]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			n, err := WriteJSON(rec, tt.data, tt.status)
			require.NoError(t, err)

			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
			assert.Equal(t, len(tt.body), n)
			assert.JSONEq(t, tt.body, rec.Body.String())
		})
	}
}

func TestWriteJSON_NoContent(t *testing.T) {
	rec := httptest.NewRecorder()
	n, err := WriteJSON(rec, map[string]string{"ignored": "yes"}, http.StatusNoContent)
	require.NoError(t, err)

	assert.Zero(t, n)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())
	assert.Empty(t, rec.Header().Get("Content-Type"))
}

func TestWriteJSON_EncodeFailure(t *testing.T) {
	rec := httptest.NewRecorder()
	_, err := WriteJSON(rec, make(chan int), http.StatusOK)

	assert.ErrorContains(t, err, "encode response")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

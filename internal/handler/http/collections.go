// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MKhiriev/go-sync-store/models"
)

// batchSave handles POST /api/collections/{collection}/batch. Item failures
// are part of a 200 answer; only a rejected batch fails the request.
func (h *Handler) batchSave(w http.ResponseWriter, r *http.Request) {
	var entities []models.Entity
	if err := decodeJSON(w, r, &entities); err != nil {
		writeError(w, r, err)
		return
	}

	result, err := h.services.CollectionService.BatchSave(r.Context(), chi.URLParam(r, "collection"), entities)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, result)
}

// batchDelete handles POST /api/collections/{collection}/delete.
func (h *Handler) batchDelete(w http.ResponseWriter, r *http.Request) {
	var req models.BatchDeleteRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	result, err := h.services.CollectionService.BatchDelete(r.Context(), chi.URLParam(r, "collection"), req.IDs)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, result)
}

// query handles POST /api/collections/{collection}/query.
func (h *Handler) query(w http.ResponseWriter, r *http.Request) {
	var q models.Query
	if err := decodeJSON(w, r, &q); err != nil {
		writeError(w, r, err)
		return
	}

	resp, err := h.services.CollectionService.Query(r.Context(), chi.URLParam(r, "collection"), q)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if resp.Items == nil {
		resp.Items = []models.Entity{}
	}

	writeJSON(w, r, http.StatusOK, resp)
}

// count handles POST /api/collections/{collection}/count. An empty body
// counts the whole collection.
func (h *Handler) count(w http.ResponseWriter, r *http.Request) {
	var req models.CountRequest
	if err := decodeJSON(w, r, &req); err != nil && !errors.Is(err, ErrEmptyBody) {
		writeError(w, r, err)
		return
	}

	n, err := h.services.CollectionService.Count(r.Context(), chi.URLParam(r, "collection"), req.Filter)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, models.CountResponse{Count: n})
}

// findByID handles GET /api/collections/{collection}/entities/{id}.
func (h *Handler) findByID(w http.ResponseWriter, r *http.Request) {
	entity, err := h.services.CollectionService.FindByID(r.Context(), chi.URLParam(r, "collection"), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, entity)
}

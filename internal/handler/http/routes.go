// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer, h.withTraceID, h.withLogging, withGZip)
	if h.requestTimeout > 0 {
		router.Use(middleware.Timeout(h.requestTimeout))
	}

	// routes without authorization
	router.Group(func(r chi.Router) {
		r.Get("/api/ping", h.ping)
		r.Get("/api/version", h.getServerVersion)
	})

	router.Group(func(r chi.Router) {
		r.Use(h.auth)

		r.Route("/api/collections/{collection}", func(r chi.Router) {
			r.Post("/batch", h.batchSave)
			r.Post("/delete", h.batchDelete)
			r.Post("/query", h.query)
			r.Post("/count", h.count)
			r.Get("/entities/{id}", h.findByID)
		})

		r.Post("/api/files", h.initiateUpload)
		r.Get("/api/files/{id}", h.fileMetadata)
		r.Put("/api/files/{id}/upload", h.uploadChunk)
		r.Get("/api/files/{id}/upload", h.uploadStatus)
		r.Get("/api/files/{id}/content", h.downloadContent)
	})

	router.NotFound(h.notFound)
	router.MethodNotAllowed(CheckHTTPMethod(router))

	return router
}

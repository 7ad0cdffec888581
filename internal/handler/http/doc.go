// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package http implements the REST transport of the reference server.
//
// Routes are served by chi. Every request passes through panic recovery,
// trace id propagation, access logging and gzip negotiation. The
// collection and file routes additionally require a bearer token. Handlers
// decode the request, call the service layer and encode the answer as JSON;
// failures are written as [models.ErrorResponse] bodies whose status follows
// errorStatusMap.
package http

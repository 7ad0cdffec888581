// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package validators checks request values before they reach storage:
// entity ids and revisions, JSON payloads, batch id lists, file metadata and
// query filters. Services call it with the field names relevant to the
// operation, so a delete validates only the id while a save validates the
// whole entity.
package validators

import "context"

// Validator checks v. When fields are given only those fields are checked;
// an unknown field name yields ErrUnknownField.
type Validator interface {
	Validate(ctx context.Context, v any, fields ...string) error
}

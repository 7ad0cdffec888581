// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package query

import "errors"

var (
	// ErrInvalidField is returned for a field path that is empty or contains
	// characters outside [A-Za-z0-9_.].
	ErrInvalidField = errors.New("invalid query field")

	// ErrInvalidOperator is returned for an unknown "$" operator.
	ErrInvalidOperator = errors.New("invalid query operator")

	// ErrInvalidValue is returned when an operator receives a value of the
	// wrong shape (e.g. $in without a list).
	ErrInvalidValue = errors.New("invalid query value")

	// ErrInvalidPaging is returned for negative skip or limit.
	ErrInvalidPaging = errors.New("invalid query paging")

	// ErrInvalidPayload is returned when an entity payload is not a JSON object.
	ErrInvalidPayload = errors.New("entity payload is not a json object")
)

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package adapter

import "errors"

// Transport failures. Both mean the remote was not reached in time and
// callers may fall back to offline behaviour.
var (
	// ErrNetworkUnreachable is returned when the request could not be
	// delivered or the server answered 502/503.
	ErrNetworkUnreachable = errors.New("network unreachable")

	// ErrTimeout is returned when the request deadline expired.
	ErrTimeout = errors.New("request timed out")
)

// Errors mapped from HTTP status codes.
var (
	ErrValidation          = errors.New("remote validation error")
	ErrUnauthorized        = errors.New("client unauthorized")
	ErrForbidden           = errors.New("access forbidden")
	ErrNotFound            = errors.New("not found")
	ErrConflict            = errors.New("conflict")
	ErrBadRange            = errors.New("requested range not satisfiable")
	ErrInternalServerError = errors.New("internal server error")
	ErrUnexpectedStatus    = errors.New("unexpected status code")
)

// ErrInvalidAddress is returned by [NewHTTPRemoteService] for an empty or
// malformed base address.
var ErrInvalidAddress = errors.New("invalid adapter http address")

// ErrDecodingResponse is returned when a 2xx body cannot be decoded.
var ErrDecodingResponse = errors.New("error decoding response")

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

// ErrorCode classifies item-level and operation-level failures on the wire.
type ErrorCode string

const (
	CodeNetworkUnreachable ErrorCode = "NETWORK_UNREACHABLE"
	CodeTimeout            ErrorCode = "TIMEOUT"
	CodeValidation         ErrorCode = "VALIDATION_ERROR"
	CodeConflict           ErrorCode = "CONFLICT"
	CodeNotFound           ErrorCode = "NOT_FOUND"
	CodeCacheUnavailable   ErrorCode = "CACHE_UNAVAILABLE"
	CodeTransferCancelled  ErrorCode = "TRANSFER_CANCELLED"
	CodeUnauthorized       ErrorCode = "UNAUTHORIZED"
	CodeInternal           ErrorCode = "INTERNAL_ERROR"
)

// IsRetryable reports whether a later attempt of the same request may
// succeed without changing it.
func (c ErrorCode) IsRetryable() bool {
	switch c {
	case CodeNetworkUnreachable, CodeTimeout, CodeCacheUnavailable, CodeInternal:
		return true
	default:
		return false
	}
}

// ErrorResponse is the JSON body of a failed HTTP call.
type ErrorResponse struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

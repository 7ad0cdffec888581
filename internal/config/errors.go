// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import "errors"

// Validation errors returned when required configuration groups are
// incomplete or invalid.
var (
	// ErrInvalidAdapterConfigs indicates a missing remote address or timeout.
	ErrInvalidAdapterConfigs = errors.New("invalid adapter configuration")
	// ErrInvalidStorageConfigs indicates an empty or in-memory DSN, or an
	// incomplete blob backend.
	ErrInvalidStorageConfigs = errors.New("invalid storage configuration")
	// ErrInvalidAppConfigs indicates missing token settings.
	ErrInvalidAppConfigs = errors.New("invalid app configuration")
	// ErrInvalidWorkerConfigs indicates a negative interval or pool size.
	ErrInvalidWorkerConfigs = errors.New("invalid worker configuration")
	// ErrInvalidSyncConfigs indicates a bad batch size, page size or timeout.
	ErrInvalidSyncConfigs = errors.New("invalid sync configuration")
	// ErrInvalidTransferConfigs indicates a bad chunk size or chunk timeout.
	ErrInvalidTransferConfigs = errors.New("invalid transfer configuration")
	// ErrInvalidCollectionConfigs indicates a malformed or duplicated
	// collection definition.
	ErrInvalidCollectionConfigs = errors.New("invalid collection configuration")
	// ErrInvalidServerConfigs indicates a missing listen address.
	ErrInvalidServerConfigs = errors.New("invalid server configuration")
)

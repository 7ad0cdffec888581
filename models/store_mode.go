// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import (
	"fmt"
	"strings"
)

// StoreMode selects how a data store serves reads and writes.
type StoreMode string

const (
	// StoreModeNetwork forwards every operation to the remote service.
	StoreModeNetwork StoreMode = "NETWORK"
	// StoreModeSync works on the cache and queues writes for an explicit push.
	StoreModeSync StoreMode = "SYNC"
	// StoreModeCache serves from the cache and writes through to the remote.
	StoreModeCache StoreMode = "CACHE"
	// StoreModeAuto behaves like NETWORK while the remote is reachable and
	// like SYNC otherwise.
	StoreModeAuto StoreMode = "AUTO"
)

// ParseStoreMode parses s case-insensitively.
func ParseStoreMode(s string) (StoreMode, error) {
	switch StoreMode(strings.ToUpper(strings.TrimSpace(s))) {
	case StoreModeNetwork:
		return StoreModeNetwork, nil
	case StoreModeSync:
		return StoreModeSync, nil
	case StoreModeCache:
		return StoreModeCache, nil
	case StoreModeAuto:
		return StoreModeAuto, nil
	default:
		return "", fmt.Errorf("unknown store mode %q", s)
	}
}

// UsesCache reports whether the mode keeps a local cache.
func (m StoreMode) UsesCache() bool {
	return m != StoreModeNetwork
}

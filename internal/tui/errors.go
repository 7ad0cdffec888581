// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tui

import (
	"errors"
	"strings"

	"github.com/MKhiriev/go-sync-store/internal/adapter"
	"github.com/MKhiriev/go-sync-store/internal/service"
)

// ErrNoStores is returned by Run when no collection is opened.
var ErrNoStores = errors.New("no collection is opened")

// humanizeError turns engine errors into one line for the status bar.
func humanizeError(err error) string {
	if err == nil {
		return ""
	}

	switch {
	case errors.Is(err, service.ErrBusy):
		return "Another operation is already running on this collection"
	case errors.Is(err, service.ErrPendingSyncItems):
		return "Push the pending changes before pulling"
	case errors.Is(err, service.ErrInvalidStoreMode):
		return "Not available for a NETWORK collection"
	case errors.Is(err, service.ErrTransferCancelled):
		return "Upload cancelled"
	case errors.Is(err, adapter.ErrUnauthorized):
		return "The server rejected the access token"
	case adapter.IsOffline(err):
		return "Network is down or the server is unreachable"
	}

	s := strings.ToLower(err.Error())
	if strings.Contains(s, "connection refused") ||
		strings.Contains(s, "dial tcp") ||
		strings.Contains(s, "no such host") ||
		strings.Contains(s, "network is unreachable") ||
		strings.Contains(s, "i/o timeout") ||
		strings.Contains(s, "context deadline exceeded") {
		return "Network is down or the server is unreachable"
	}

	return err.Error()
}

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import (
	"fmt"
	"strings"
	"time"
)

// RequestMethod is the kind of mutation waiting in the sync queue.
type RequestMethod string

const (
	RequestMethodSave   RequestMethod = "SAVE"
	RequestMethodDelete RequestMethod = "DELETE"
)

// ParseRequestMethod parses s case-insensitively.
func ParseRequestMethod(s string) (RequestMethod, error) {
	switch RequestMethod(strings.ToUpper(strings.TrimSpace(s))) {
	case RequestMethodSave:
		return RequestMethodSave, nil
	case RequestMethodDelete:
		return RequestMethodDelete, nil
	default:
		return "", fmt.Errorf("unknown request method %q", s)
	}
}

func (m RequestMethod) String() string {
	return string(m)
}

// SyncQueueItem is a pending local mutation of one entity.
//
// There is at most one item per (Collection, EntityID). Sequence orders
// items by first enqueue time and is kept when a later mutation of the same
// entity replaces Method. Generation grows with every replacement.
type SyncQueueItem struct {
	Sequence   int64         `json:"sequence"`
	Collection string        `json:"collection"`
	EntityID   string        `json:"entity_id"`
	Method     RequestMethod `json:"method"`
	EnqueuedAt time.Time     `json:"enqueued_at"`
	Generation int64         `json:"generation"`
}

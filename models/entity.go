// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import (
	"encoding/json"
	"regexp"
	"time"
)

// Entity is a single record of a remote collection.
type Entity struct {
	// ID identifies the entity inside its collection.
	ID string `json:"id"`

	// Revision is the version token assigned by the server on every
	// successful save. An empty revision on save means "no precondition".
	Revision string `json:"revision,omitempty"`

	// Payload is the arbitrary JSON object carried by the entity.
	Payload json.RawMessage `json:"payload"`
}

// CacheEntry is an entity mirrored in the local cache.
type CacheEntry struct {
	Collection string          `json:"collection"`
	ID         string          `json:"id"`
	Revision   string          `json:"revision,omitempty"`
	Payload    json.RawMessage `json:"payload"`

	// StoredAt is the moment the entry was written to the cache.
	StoredAt time.Time `json:"stored_at"`

	// ExpiresAt is derived from the collection TTL; nil when the
	// collection never expires.
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

// Entity converts the entry back to its wire representation.
func (e CacheEntry) Entity() Entity {
	return Entity{ID: e.ID, Revision: e.Revision, Payload: e.Payload}
}

// NewCacheEntry builds a cache entry for entity in collection.
// StoredAt is left zero; the cache stamps it on write.
func NewCacheEntry(collection string, entity Entity) CacheEntry {
	return CacheEntry{
		Collection: collection,
		ID:         entity.ID,
		Revision:   entity.Revision,
		Payload:    entity.Payload,
	}
}

// EntitiesFromEntries maps cache entries to entities preserving order.
func EntitiesFromEntries(entries []CacheEntry) []Entity {
	entities := make([]Entity, 0, len(entries))
	for _, entry := range entries {
		entities = append(entities, entry.Entity())
	}
	return entities
}

var collectionNamePattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_-]{0,127}$`)

// ValidCollectionName reports whether name can be used as a collection name.
func ValidCollectionName(name string) bool {
	return collectionNamePattern.MatchString(name)
}

var entityIDPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_.:-]{0,255}$`)

// ValidEntityID reports whether id can be used as an entity id.
func ValidEntityID(id string) bool {
	return entityIDPattern.MatchString(id)
}

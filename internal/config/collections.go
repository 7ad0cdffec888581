// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/MKhiriev/go-sync-store/models"
)

// Collection configures one collection opened by the client.
type Collection struct {
	Name string           `json:"name"`
	Mode models.StoreMode `json:"mode"`

	// TTL is the cache lifetime of the collection entries; 0 never expires.
	TTL Duration `json:"ttl"`
}

// UnmarshalText parses "name:MODE[:ttl]". The mode defaults to SYNC.
func (c *Collection) UnmarshalText(text []byte) error {
	parts := strings.Split(strings.TrimSpace(string(text)), ":")
	if len(parts) == 0 || len(parts) > 3 || parts[0] == "" {
		return fmt.Errorf("%w: %q", ErrInvalidCollectionConfigs, string(text))
	}

	parsed := Collection{Name: parts[0], Mode: models.StoreModeSync}
	if len(parts) > 1 && parts[1] != "" {
		mode, err := models.ParseStoreMode(parts[1])
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidCollectionConfigs, err)
		}
		parsed.Mode = mode
	}
	if len(parts) > 2 && parts[2] != "" {
		ttl, err := time.ParseDuration(parts[2])
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidCollectionConfigs, err)
		}
		parsed.TTL = Duration(ttl)
	}

	*c = parsed
	return nil
}

// UnmarshalJSON accepts either the "name:MODE[:ttl]" string form or an
// object with name, mode and ttl keys.
func (c *Collection) UnmarshalJSON(b []byte) error {
	var raw string
	if err := json.Unmarshal(b, &raw); err == nil {
		return c.UnmarshalText([]byte(raw))
	}

	type plain Collection
	var p plain
	if err := json.Unmarshal(b, &p); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidCollectionConfigs, err)
	}
	if p.Name == "" {
		return fmt.Errorf("%w: empty collection name", ErrInvalidCollectionConfigs)
	}

	mode := models.StoreModeSync
	if p.Mode != "" {
		var err error
		if mode, err = models.ParseStoreMode(string(p.Mode)); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidCollectionConfigs, err)
		}
	}
	p.Mode = mode

	*c = Collection(p)
	return nil
}

// String renders the collection in the "name:MODE:ttl" form.
func (c Collection) String() string {
	return fmt.Sprintf("%s:%s:%s", c.Name, c.Mode, time.Duration(c.TTL))
}

// parseCollections parses "name:MODE[:ttl]" values.
func parseCollections(values []string) ([]Collection, error) {
	var collections []Collection
	for _, raw := range values {
		var c Collection
		if err := c.UnmarshalText([]byte(raw)); err != nil {
			return nil, err
		}
		collections = append(collections, c)
	}
	return collections, nil
}

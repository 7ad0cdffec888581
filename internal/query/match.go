// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package query

import (
	"encoding/json"
	"fmt"

	"github.com/MKhiriev/go-sync-store/models"
)

// Document is an entity with its payload decoded once for evaluation.
type Document struct {
	Entity models.Entity
	fields map[string]any
}

// NewDocument decodes the payload of e. An empty payload is treated as an
// empty object.
func NewDocument(e models.Entity) (Document, error) {
	fields := map[string]any{}
	if len(e.Payload) > 0 {
		if err := json.Unmarshal(e.Payload, &fields); err != nil {
			return Document{}, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
		}
		if fields == nil {
			return Document{}, ErrInvalidPayload
		}
	}
	return Document{Entity: e, fields: fields}, nil
}

// Field returns the value at path; "_id" returns the entity id.
func (d Document) Field(path string) (any, bool) {
	if path == models.IDField {
		return d.Entity.ID, true
	}
	return lookup(d.fields, path)
}

// Match reports whether d satisfies f. An empty filter matches everything.
func Match(f models.Filter, d Document) bool {
	for key, value := range f {
		if key == models.OpOr {
			subs, err := SubFilters(value)
			if err != nil {
				return false
			}
			matched := false
			for _, sub := range subs {
				if Match(sub, d) {
					matched = true
					break
				}
			}
			if !matched {
				return false
			}
			continue
		}

		actual, present := d.Field(key)
		ops, isOps := Operators(value)
		if !isOps {
			if !matchEq(actual, present, value) {
				return false
			}
			continue
		}
		for op, operand := range ops {
			if !matchOp(op, actual, present, operand) {
				return false
			}
		}
	}
	return true
}

func matchEq(actual any, present bool, expected any) bool {
	if expected == nil {
		return !present || actual == nil
	}
	return present && equal(actual, expected)
}

func matchOp(op string, actual any, present bool, operand any) bool {
	switch op {
	case models.OpNe:
		return !matchEq(actual, present, operand)
	case models.OpIn:
		list, _ := operand.([]any)
		for _, v := range list {
			if matchEq(actual, present, v) {
				return true
			}
		}
		return false
	case models.OpNin:
		list, _ := operand.([]any)
		for _, v := range list {
			if matchEq(actual, present, v) {
				return false
			}
		}
		return true
	case models.OpGt, models.OpGte, models.OpLt, models.OpLte:
		if !present {
			return false
		}
		c, ok := compare(actual, operand)
		if !ok {
			return false
		}
		switch op {
		case models.OpGt:
			return c > 0
		case models.OpGte:
			return c >= 0
		case models.OpLt:
			return c < 0
		default:
			return c <= 0
		}
	default:
		return false
	}
}

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package query

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/MKhiriev/go-sync-store/models"
)

var fieldPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)*$`)

// ValidField reports whether field can be used in a filter or sort.
func ValidField(field string) bool {
	return fieldPattern.MatchString(field)
}

// Validate checks the filter, sort fields and paging of q.
func Validate(q models.Query) error {
	if q.Skip < 0 || q.Limit < 0 {
		return fmt.Errorf("%w: skip=%d limit=%d", ErrInvalidPaging, q.Skip, q.Limit)
	}
	for _, s := range q.Sort {
		if !ValidField(s.Field) {
			return fmt.Errorf("%w: sort by %q", ErrInvalidField, s.Field)
		}
	}
	return ValidateFilter(q.Filter)
}

// ValidateFilter checks every key and operator of f recursively.
func ValidateFilter(f models.Filter) error {
	for key, value := range f {
		if key == models.OpOr {
			subs, err := SubFilters(value)
			if err != nil {
				return err
			}
			for _, sub := range subs {
				if err := ValidateFilter(sub); err != nil {
					return err
				}
			}
			continue
		}
		if strings.HasPrefix(key, "$") {
			return fmt.Errorf("%w: %q at field position", ErrInvalidOperator, key)
		}
		if !ValidField(key) {
			return fmt.Errorf("%w: %q", ErrInvalidField, key)
		}
		if err := validateCondition(key, value); err != nil {
			return err
		}
	}
	return nil
}

func validateCondition(field string, value any) error {
	ops, ok := Operators(value)
	if !ok {
		if !IsScalar(value) {
			return fmt.Errorf("%w: %q compares to a non scalar value", ErrInvalidValue, field)
		}
		return nil
	}
	for op, operand := range ops {
		switch op {
		case models.OpIn, models.OpNin:
			list, ok := operand.([]any)
			if !ok {
				return fmt.Errorf("%w: %s on %q needs a list", ErrInvalidValue, op, field)
			}
			for _, v := range list {
				if !IsScalar(v) {
					return fmt.Errorf("%w: %s on %q has a non scalar element", ErrInvalidValue, op, field)
				}
			}
		case models.OpGt, models.OpGte, models.OpLt, models.OpLte:
			if _, isNum := ToNumber(operand); !isNum {
				if _, isStr := operand.(string); !isStr {
					return fmt.Errorf("%w: %s on %q needs a number or a string", ErrInvalidValue, op, field)
				}
			}
		case models.OpNe:
			if !IsScalar(operand) {
				return fmt.Errorf("%w: %s on %q needs a scalar", ErrInvalidValue, op, field)
			}
		default:
			return fmt.Errorf("%w: %q", ErrInvalidOperator, op)
		}
	}
	return nil
}

// Operators returns value as an operator map when every key starts with "$".
func Operators(value any) (map[string]any, bool) {
	var m map[string]any
	switch v := value.(type) {
	case map[string]any:
		m = v
	case models.Filter:
		m = v
	default:
		return nil, false
	}
	if len(m) == 0 {
		return nil, false
	}
	for k := range m {
		if !strings.HasPrefix(k, "$") {
			return nil, false
		}
	}
	return m, true
}

// SubFilters returns the operands of an $or.
func SubFilters(value any) ([]models.Filter, error) {
	switch v := value.(type) {
	case []models.Filter:
		return v, nil
	case []map[string]any:
		subs := make([]models.Filter, 0, len(v))
		for _, m := range v {
			subs = append(subs, m)
		}
		return subs, nil
	case []any:
		subs := make([]models.Filter, 0, len(v))
		for _, item := range v {
			switch m := item.(type) {
			case map[string]any:
				subs = append(subs, m)
			case models.Filter:
				subs = append(subs, m)
			default:
				return nil, fmt.Errorf("%w: $or element is not an object", ErrInvalidValue)
			}
		}
		return subs, nil
	default:
		return nil, fmt.Errorf("%w: $or needs a list of filters", ErrInvalidValue)
	}
}

// IsScalar reports whether v is nil, a bool, a number or a string.
func IsScalar(v any) bool {
	if v == nil {
		return true
	}
	switch v.(type) {
	case bool, string:
		return true
	}
	_, ok := ToNumber(v)
	return ok
}

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package query

import (
	"fmt"
	"sort"

	"github.com/MKhiriev/go-sync-store/models"
)

// Apply filters, sorts and pages entities according to q. It returns the
// selected window and the number of entities matching the filter before
// paging. Entities keep their input order unless q sorts them.
func Apply(entities []models.Entity, q models.Query) ([]models.Entity, int, error) {
	if err := Validate(q); err != nil {
		return nil, 0, err
	}

	docs := make([]Document, 0, len(entities))
	for _, e := range entities {
		d, err := NewDocument(e)
		if err != nil {
			return nil, 0, fmt.Errorf("entity %q: %w", e.ID, err)
		}
		if Match(q.Filter, d) {
			docs = append(docs, d)
		}
	}
	total := len(docs)

	if len(q.Sort) > 0 {
		Sort(docs, q.Sort)
	}

	start := min(q.Skip, len(docs))
	end := len(docs)
	if q.Limit > 0 && start+q.Limit < end {
		end = start + q.Limit
	}

	window := make([]models.Entity, 0, end-start)
	for _, d := range docs[start:end] {
		window = append(window, d.Entity)
	}
	return window, total, nil
}

// Sort orders docs in place by the given fields. The sort is stable.
func Sort(docs []Document, fields []models.SortField) {
	sort.SliceStable(docs, func(i, j int) bool {
		for _, f := range fields {
			c := compareField(docs[i], docs[j], f.Field)
			if c == 0 {
				continue
			}
			if f.Descending {
				return c > 0
			}
			return c < 0
		}
		return false
	})
}

func compareField(a, b Document, field string) int {
	av, ap := a.Field(field)
	bv, bp := b.Field(field)
	ra, rb := rank(av, ap), rank(bv, bp)
	if ra != rb {
		if ra < rb {
			return -1
		}
		return 1
	}
	c, ok := compare(av, bv)
	if !ok {
		return 0
	}
	return c
}

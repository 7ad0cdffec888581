// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

// Filter selects entities by payload fields. A key is either a field path
// ("name", "address.city", IDField) or OpOr. A value is compared for
// equality, or is an operator map such as {"$gt": 3, "$lte": 10}.
type Filter map[string]any

// Filter operators.
const (
	OpOr  = "$or"
	OpIn  = "$in"
	OpNin = "$nin"
	OpGt  = "$gt"
	OpGte = "$gte"
	OpLt  = "$lt"
	OpLte = "$lte"
	OpNe  = "$ne"
)

// IDField addresses the entity id instead of a payload field.
const IDField = "_id"

// SortField orders results by one field.
type SortField struct {
	Field      string `json:"field"`
	Descending bool   `json:"desc,omitempty"`
}

// Query is a filter with optional ordering and paging.
type Query struct {
	Filter Filter      `json:"filter,omitempty"`
	Sort   []SortField `json:"sort,omitempty"`
	Skip   int         `json:"skip,omitempty"`
	Limit  int         `json:"limit,omitempty"`
}

// IsPaged reports whether the query restricts the result window.
func (q Query) IsPaged() bool {
	return q.Skip > 0 || q.Limit > 0
}

// Page returns a copy of q restricted to the given window.
func (q Query) Page(skip, limit int) Query {
	q.Skip = skip
	q.Limit = limit
	return q
}

// ByID returns a query matching a single entity id.
func ByID(id string) Query {
	return Query{Filter: Filter{IDField: id}}
}

// ByIDs returns a query matching any of ids.
func ByIDs(ids ...string) Query {
	values := make([]any, 0, len(ids))
	for _, id := range ids {
		values = append(values, id)
	}
	return Query{Filter: Filter{IDField: map[string]any{OpIn: values}}}
}

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "fmt"

// QueryError is a failure reported while pulling: either one item of a page
// (Index >= 0) or a whole page (Index == -1).
type QueryError struct {
	Page    int       `json:"page"`
	Index   int       `json:"index"`
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

func (e QueryError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("page %d: %s: %s", e.Page, e.Code, e.Message)
	}
	return fmt.Sprintf("page %d item %d: %s: %s", e.Page, e.Index, e.Code, e.Message)
}

// QueryResponse is what the remote returns for a query.
type QueryResponse struct {
	Items      []Entity     `json:"items"`
	TotalCount *int         `json:"total_count,omitempty"`
	Errors     []QueryError `json:"errors,omitempty"`
}

// PullResult is the outcome of pulling a collection into the cache.
type PullResult struct {
	// Count is the number of entities merged into the cache.
	Count int `json:"count"`

	// Pages is the number of page requests issued.
	Pages int `json:"pages"`

	Errors []QueryError `json:"errors,omitempty"`
}

// HaveErrors reports whether the pull hit item or page errors.
func (r PullResult) HaveErrors() bool {
	return len(r.Errors) > 0
}

// CountRequest is the body of a remote count call.
type CountRequest struct {
	Filter Filter `json:"filter,omitempty"`
}

// CountResponse is the answer of a remote count call.
type CountResponse struct {
	Count int `json:"count"`
}

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "fmt"

// BatchItemError describes the failure of one element of a batch request.
type BatchItemError struct {
	// Index is the position of the failed element in the request list.
	Index int `json:"index"`

	// ID is the entity id of the failed element when it is known.
	ID string `json:"id,omitempty"`

	// Method is set for errors reported by push.
	Method RequestMethod `json:"method,omitempty"`

	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

func (e BatchItemError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("item %d (%s): %s: %s", e.Index, e.ID, e.Code, e.Message)
	}
	return fmt.Sprintf("item %d: %s: %s", e.Index, e.Code, e.Message)
}

// BatchSaveResult is the outcome of saving a list of entities in one call.
//
// Entities holds the successfully saved entities in the order of the input
// list. Errors holds one entry per failed input index.
type BatchSaveResult struct {
	Entities []Entity        `json:"entities"`
	Errors   []BatchItemError `json:"errors,omitempty"`
}

// HaveErrors reports whether at least one element failed.
func (r BatchSaveResult) HaveErrors() bool {
	return len(r.Errors) > 0
}

// FailedIndexes returns the set of failed input indexes.
func (r BatchSaveResult) FailedIndexes() map[int]BatchItemError {
	failed := make(map[int]BatchItemError, len(r.Errors))
	for _, e := range r.Errors {
		failed[e.Index] = e
	}
	return failed
}

// DeleteItemResult is the per-id outcome of a batch delete.
type DeleteItemResult struct {
	ID    string          `json:"id"`
	Error *BatchItemError `json:"error,omitempty"`
}

// BatchDeleteResult is the outcome of deleting a list of ids in one call.
type BatchDeleteResult struct {
	Results []DeleteItemResult `json:"results"`
}

// Deleted returns the ids that were removed.
func (r BatchDeleteResult) Deleted() []string {
	ids := make([]string, 0, len(r.Results))
	for _, res := range r.Results {
		if res.Error == nil {
			ids = append(ids, res.ID)
		}
	}
	return ids
}

// Failed returns the per-id errors.
func (r BatchDeleteResult) Failed() []BatchItemError {
	var errs []BatchItemError
	for _, res := range r.Results {
		if res.Error != nil {
			errs = append(errs, *res.Error)
		}
	}
	return errs
}

// HaveErrors reports whether at least one id failed.
func (r BatchDeleteResult) HaveErrors() bool {
	for _, res := range r.Results {
		if res.Error != nil {
			return true
		}
	}
	return false
}

// BatchDeleteRequest is the body of a batch delete call.
type BatchDeleteRequest struct {
	IDs []string `json:"ids"`
}

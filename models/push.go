// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

// ConflictResolution tells the push executor what to do with a conflicting
// local mutation.
type ConflictResolution string

const (
	// ResolutionKeepLocal resubmits the local payload on top of the remote
	// revision (last write wins).
	ResolutionKeepLocal ConflictResolution = "KEEP_LOCAL"

	// ResolutionAcceptRemote stores the remote snapshot in the cache and
	// drops the queued mutation.
	ResolutionAcceptRemote ConflictResolution = "ACCEPT_REMOTE"

	// ResolutionSurface keeps the mutation queued and reports the error.
	ResolutionSurface ConflictResolution = "SURFACE"
)

// Conflict is a write that the server rejected because the remote revision
// moved since the local copy was taken.
type Conflict struct {
	Collection string             `json:"collection"`
	ID         string             `json:"id"`
	Local      Entity             `json:"local"`
	Remote     *Entity            `json:"remote,omitempty"`
	Resolution ConflictResolution `json:"resolution"`
}

// PushResult is the outcome of one push cycle of a collection.
type PushResult struct {
	// Attempted is the number of queue items the cycle tried to push.
	Attempted int `json:"attempted"`

	// SuccessCount is the number of queue items confirmed by the server.
	SuccessCount int `json:"success_count"`

	// Errors lists every item that stays queued. Index is the item's
	// position among the Attempted items of the cycle, in queue order.
	Errors []BatchItemError `json:"errors,omitempty"`

	// Conflicts lists every conflict met during the cycle together with the
	// resolution that was applied.
	Conflicts []Conflict `json:"conflicts,omitempty"`
}

// HaveErrors reports whether some queue items could not be pushed.
func (r PushResult) HaveErrors() bool {
	return len(r.Errors) > 0
}

// Succeeded reports whether every attempted item was pushed.
func (r PushResult) Succeeded() bool {
	return !r.HaveErrors()
}

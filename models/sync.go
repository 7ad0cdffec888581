// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

// SyncResult is the outcome of a push followed by a pull.
type SyncResult struct {
	Push PushResult `json:"push"`
	Pull PullResult `json:"pull"`
}

// HaveErrors reports whether either half recorded an error.
func (r SyncResult) HaveErrors() bool {
	return r.Push.HaveErrors() || r.Pull.HaveErrors()
}

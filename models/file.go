// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "time"

// FileStatus is the state of a file transfer.
type FileStatus string

const (
	FileStatusPending    FileStatus = "PENDING"
	FileStatusInProgress FileStatus = "IN_PROGRESS"
	FileStatusComplete   FileStatus = "COMPLETE"
	FileStatusCancelled  FileStatus = "CANCELLED"
	FileStatusFailed     FileStatus = "FAILED"
)

// IsTerminal reports whether no further transition is possible.
func (s FileStatus) IsTerminal() bool {
	switch s {
	case FileStatusComplete, FileStatusCancelled, FileStatusFailed:
		return true
	default:
		return false
	}
}

// FileMetadata describes a binary file stored by the remote service.
type FileMetadata struct {
	ID        string     `json:"id,omitempty"`
	Filename  string     `json:"filename"`
	Size      int64      `json:"size"`
	MimeType  string     `json:"mime_type,omitempty"`
	UploadURL string     `json:"upload_url,omitempty"`
	Status    FileStatus `json:"status,omitempty"`

	// Committed is the number of bytes the server has accepted so far.
	Committed int64 `json:"committed"`

	// Checksum is the BLAKE2b-256 digest of the complete content, hex encoded.
	Checksum  string    `json:"checksum,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ChunkAck is the server answer to an uploaded chunk or an upload status
// request.
type ChunkAck struct {
	FileID    string     `json:"file_id"`
	Committed int64      `json:"committed"`
	Status    FileStatus `json:"status"`
}

// TransferProgress is reported to progress listeners after every chunk.
type TransferProgress struct {
	FileID      string `json:"file_id"`
	Transferred int64  `json:"transferred"`
	Total       int64  `json:"total"`
	Chunk       int    `json:"chunk"`
}

// Percent returns the transferred share in the range [0, 100].
func (p TransferProgress) Percent() float64 {
	if p.Total <= 0 {
		return 0
	}
	return float64(p.Transferred) * 100 / float64(p.Total)
}

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"bytes"
	"context"
	"mime"
	"path/filepath"
	"sync"

	"github.com/gabriel-vasile/mimetype"

	"github.com/MKhiriev/go-sync-store/models"
)

// CancelToken cancels a transfer between two chunks. The zero value is not
// usable; a nil token never cancels.
type CancelToken struct {
	once sync.Once
	done chan struct{}
}

func NewCancelToken() *CancelToken {
	return &CancelToken{done: make(chan struct{})}
}

// Cancel requests cancellation. Calling it more than once is fine.
func (t *CancelToken) Cancel() {
	t.once.Do(func() { close(t.done) })
}

// Cancelled reports whether Cancel was called.
func (t *CancelToken) Cancelled() bool {
	if t == nil {
		return false
	}
	select {
	case <-t.done:
		return true
	default:
		return false
	}
}

// Done is closed by Cancel. It is nil for a nil token.
func (t *CancelToken) Done() <-chan struct{} {
	if t == nil {
		return nil
	}
	return t.done
}

// TransferOptions tunes a single transfer.
type TransferOptions struct {
	Listener ProgressListener
	Cancel   *CancelToken

	// ChunkSize overrides the configured chunk size when positive.
	ChunkSize int64
}

func (o TransferOptions) chunkSize(def int64) int64 {
	if o.ChunkSize > 0 {
		return o.ChunkSize
	}
	return def
}

func (o TransferOptions) notify(p models.TransferProgress) {
	if o.Listener != nil {
		o.Listener.OnProgress(p)
	}
}

func (o TransferOptions) cancelled(ctx context.Context) bool {
	return ctx.Err() != nil || o.Cancel.Cancelled()
}

// sniffLen is the prefix length mimetype inspects by default.
const sniffLen = 3072

// detectMimeType prefers the filename extension and falls back to content
// sniffing of head.
func detectMimeType(filename string, head []byte) string {
	if ext := filepath.Ext(filename); ext != "" {
		if t := mime.TypeByExtension(ext); t != "" {
			return t
		}
	}
	return mimetype.Detect(head).String()
}

func sniff(head []byte) []byte {
	if len(head) > sniffLen {
		return head[:sniffLen]
	}
	return bytes.Clone(head)
}

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package utils

import (
	"crypto/subtle"
	"encoding/hex"
	"hash"
	"sync"

	"golang.org/x/crypto/blake2b"
)

// hasherPool is a package-level pool of reusable BLAKE2b-256 hash instances.
var hasherPool = sync.Pool{
	New: func() any {
		return NewContentHasher()
	},
}

// NewContentHasher returns an unkeyed streaming BLAKE2b-256 hasher. It is
// used to compute the checksum of a whole file while its chunks are sent.
func NewContentHasher() hash.Hash {
	// New256 only fails for keys longer than 64 bytes.
	h, _ := blake2b.New256(nil)
	return h
}

// Hash computes the BLAKE2b-256 digest of data using a hasher pulled from
// the package pool.
func Hash(data []byte) []byte {
	h := hasherPool.Get().(hash.Hash)
	h.Reset()

	h.Write(data)
	sum := h.Sum(nil)

	h.Reset()
	hasherPool.Put(h)

	return sum
}

// ChunkChecksum returns the hex-encoded BLAKE2b-256 digest of a transfer
// chunk. It is sent in the X-Chunk-Checksum header and verified by the
// server before the chunk is committed.
func ChunkChecksum(data []byte) string {
	return hex.EncodeToString(Hash(data))
}

// VerifyChecksum reports whether checksum is the hex digest of data. The
// comparison runs in constant time.
func VerifyChecksum(data []byte, checksum string) bool {
	want, err := hex.DecodeString(checksum)
	if err != nil {
		return false
	}
	return subtle.ConstantTimeCompare(Hash(data), want) == 1
}

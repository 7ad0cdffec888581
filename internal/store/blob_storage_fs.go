// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// fsBlobStorage keeps every blob as a single file under dir.
type fsBlobStorage struct {
	dir string
	mu  sync.Mutex
}

// NewFSBlobStorage constructs a [BlobStorage] rooted at dir, creating it
// when missing.
func NewFSBlobStorage(dir string) (BlobStorage, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create blob dir: %w", err)
	}
	return &fsBlobStorage{dir: dir}, nil
}

func (s *fsBlobStorage) Append(ctx context.Context, key string, offset int64, data []byte) (int64, error) {
	path, err := s.path(key)
	if err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return 0, fmt.Errorf("open blob: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return 0, fmt.Errorf("stat blob: %w", err)
	}
	if info.Size() != offset {
		return info.Size(), fmt.Errorf("%w: offset=%d size=%d", ErrOffsetMismatch, offset, info.Size())
	}

	if _, err = f.WriteAt(data, offset); err != nil {
		return 0, fmt.Errorf("write blob: %w", err)
	}
	return offset + int64(len(data)), nil
}

func (s *fsBlobStorage) Size(ctx context.Context, key string) (int64, error) {
	path, err := s.path(key)
	if err != nil {
		return 0, err
	}

	info, err := os.Stat(path)
	if errors.Is(err, os.ErrNotExist) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("stat blob: %w", err)
	}
	return info.Size(), nil
}

func (s *fsBlobStorage) ReadRange(ctx context.Context, key string, offset, length int64) ([]byte, error) {
	path, err := s.path(key)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrBlobNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("open blob: %w", err)
	}
	defer f.Close()

	buf := make([]byte, length)
	n, err := f.ReadAt(buf, offset)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("read blob: %w", err)
	}
	return buf[:n], nil
}

func (s *fsBlobStorage) Delete(ctx context.Context, key string) error {
	path, err := s.path(key)
	if err != nil {
		return err
	}
	if err = os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove blob: %w", err)
	}
	return nil
}

func (s *fsBlobStorage) path(key string) (string, error) {
	if key == "" || strings.Contains(key, "..") || strings.ContainsAny(key, `/\`) {
		return "", fmt.Errorf("invalid blob key %q", key)
	}
	return filepath.Join(s.dir, key), nil
}

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"fmt"
	"strings"

	"github.com/MKhiriev/go-sync-store/models"
)

func (cfg *ClientConfig) validate() error {
	if cfg.Storage.DB.DSN == "" || strings.Contains(cfg.Storage.DB.DSN, "memory") {
		return ErrInvalidStorageConfigs
	}

	if cfg.Adapter.HTTPAddress == "" || cfg.Adapter.RequestTimeout < 0 {
		return ErrInvalidAdapterConfigs
	}

	if cfg.Sync.BatchSize < 1 || cfg.Sync.PageSize < 0 || cfg.Sync.PushTimeout < 0 || cfg.Sync.PageTimeout < 0 {
		return ErrInvalidSyncConfigs
	}

	if cfg.Transfer.ChunkSize < 1 || cfg.Transfer.ChunkTimeout < 0 {
		return ErrInvalidTransferConfigs
	}

	if cfg.Workers.SyncInterval < 0 || cfg.Workers.PoolSize < 1 {
		return ErrInvalidWorkerConfigs
	}

	seen := make(map[string]struct{}, len(cfg.Sync.Collections))
	for _, c := range cfg.Sync.Collections {
		if !models.ValidCollectionName(c.Name) || c.TTL < 0 {
			return fmt.Errorf("%w: %q", ErrInvalidCollectionConfigs, c.Name)
		}
		if _, err := models.ParseStoreMode(string(c.Mode)); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidCollectionConfigs, err)
		}
		if _, dup := seen[c.Name]; dup {
			return fmt.Errorf("%w: duplicated %q", ErrInvalidCollectionConfigs, c.Name)
		}
		seen[c.Name] = struct{}{}
	}

	return nil
}

func (cfg *ServerConfig) validate() error {
	if cfg.App.TokenSignKey == "" || cfg.App.TokenIssuer == "" {
		return ErrInvalidAppConfigs
	}

	if cfg.Server.HTTPAddress == "" {
		return ErrInvalidServerConfigs
	}

	if cfg.Storage.DB.DSN == "" {
		return ErrInvalidStorageConfigs
	}

	switch cfg.Storage.Files.Backend {
	case FilesBackendFS:
		if cfg.Storage.Files.BinaryDataDir == "" {
			return fmt.Errorf("%w: empty binary data dir", ErrInvalidStorageConfigs)
		}
	case FilesBackendS3:
		if cfg.Storage.Files.S3.Bucket == "" || cfg.Storage.Files.BinaryDataDir == "" {
			return fmt.Errorf("%w: s3 backend needs a bucket and a staging dir", ErrInvalidStorageConfigs)
		}
	default:
		return fmt.Errorf("%w: unknown files backend %q", ErrInvalidStorageConfigs, cfg.Storage.Files.Backend)
	}

	return nil
}

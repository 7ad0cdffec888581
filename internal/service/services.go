// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"github.com/MKhiriev/go-sync-store/internal/config"
	"github.com/MKhiriev/go-sync-store/internal/logger"
	"github.com/MKhiriev/go-sync-store/internal/store"
)

// Services groups the services of the reference server.
type Services struct {
	AuthService       AuthService
	CollectionService CollectionService
	FileService       FileService
	AppInfoService    AppInfoService
}

func NewServices(storages *store.ServerStorages, cfg *config.ServerConfig, logger *logger.Logger) (*Services, error) {
	appInfo, err := NewAppInfoService(cfg.App, logger)
	if err != nil {
		return nil, err
	}

	return &Services{
		AuthService:       NewAuthService(cfg.App, logger),
		CollectionService: NewCollectionService(storages.Entities, logger),
		FileService:       NewFileService(storages.Files, storages.Blobs, logger),
		AppInfoService:    appInfo,
	}, nil
}

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"fmt"
	"time"
)

// Server defaults applied to zero values.
const (
	DefaultServerRequestTimeout = 30 * time.Second
	DefaultTokenDuration        = 24 * time.Hour
	DefaultFilesBackend         = FilesBackendFS
)

// Blob backends.
const (
	FilesBackendFS = "fs"
	FilesBackendS3 = "s3"
)

// ServerApp holds token settings and the version of the reference server.
type ServerApp struct {
	TokenSignKey  string
	TokenIssuer   string
	TokenDuration time.Duration
	Version       string
}

// ServerFiles holds blob store settings.
type ServerFiles struct {
	Backend       string
	BinaryDataDir string
	S3            S3
}

// ServerStorage groups the PostgreSQL DSN and the blob store.
type ServerStorage struct {
	DB    DB
	Files ServerFiles
}

// ServerConfig is the configuration view of the reference server.
type ServerConfig struct {
	App     ServerApp
	Server  Server
	Storage ServerStorage
}

// GetServerConfig builds and validates a server-specific config view from
// the merged structured configuration.
func GetServerConfig() (*ServerConfig, error) {
	cfg, err := GetStructuredConfig()
	if err != nil {
		return nil, fmt.Errorf("error get structured config: %w", err)
	}

	return NewServerConfig(cfg)
}

// NewServerConfig maps the server fields, applies defaults and validates.
func NewServerConfig(cfg *StructuredConfig) (*ServerConfig, error) {
	backend := cfg.Storage.Files.Backend
	if backend == "" {
		backend = DefaultFilesBackend
	}

	serverCfg := &ServerConfig{
		App: ServerApp{
			TokenSignKey:  cfg.App.TokenSignKey,
			TokenIssuer:   cfg.App.TokenIssuer,
			TokenDuration: orDuration(cfg.App.TokenDuration, DefaultTokenDuration),
			Version:       cfg.App.Version,
		},
		Server: Server{
			HTTPAddress:    cfg.Server.HTTPAddress,
			GRPCAddress:    cfg.Server.GRPCAddress,
			RequestTimeout: orDuration(cfg.Server.RequestTimeout, DefaultServerRequestTimeout),
		},
		Storage: ServerStorage{
			DB: cfg.Storage.DB,
			Files: ServerFiles{
				Backend:       backend,
				BinaryDataDir: cfg.Storage.Files.BinaryDataDir,
				S3:            cfg.Storage.Files.S3,
			},
		},
	}

	return serverCfg, serverCfg.validate()
}

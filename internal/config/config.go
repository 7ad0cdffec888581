// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"time"
)

// StructuredConfig is the top-level configuration container. It aggregates
// all sub-configurations and is populated by merging values from environment
// variables, command-line flags, and an optional JSON file.
//
// Struct tags:
//   - envPrefix: prefix applied to all nested env tag lookups (caarlos0/env).
//   - env: direct environment variable name for scalar fields.
type StructuredConfig struct {
	// App holds token parameters, the application version and the log file.
	App App `envPrefix:"APP_"`

	// Storage holds the database and binary file store settings.
	Storage Storage `envPrefix:"STORAGE_"`

	// Server holds listen addresses and timeouts of the reference server.
	Server Server `envPrefix:"SERVER_"`

	// Adapter holds the remote service endpoint used by the engine.
	Adapter Adapter `envPrefix:"ADAPTER_"`

	// Sync holds push/pull batching, paging and timeouts plus the
	// collections opened by the client.
	Sync Sync `envPrefix:"SYNC_"`

	// Transfer holds chunked file transfer settings.
	Transfer Transfer `envPrefix:"TRANSFER_"`

	// Workers holds background job and dispatch pool settings.
	Workers Workers `envPrefix:"WORKERS_"`

	// JSONFilePath is the optional path to a JSON configuration file.
	// Populated via the CONFIG environment variable or the -c / -config flag.
	JSONFilePath string `env:"CONFIG"`
}

// App holds application-level configuration values.
type App struct {
	// TokenSignKey is the secret key used to sign and verify JWT tokens.
	// Env: APP_TOKEN_SIGN_KEY
	TokenSignKey string `env:"TOKEN_SIGN_KEY"`

	// TokenIssuer is the "iss" claim embedded in and required from every token.
	// Env: APP_TOKEN_ISSUER
	TokenIssuer string `env:"TOKEN_ISSUER"`

	// TokenDuration specifies how long an issued token remains valid.
	// Env: APP_TOKEN_DURATION
	TokenDuration time.Duration `env:"TOKEN_DURATION"`

	// Version is exposed via the /api/version endpoint.
	// Env: APP_VERSION
	Version string `env:"VERSION"`

	// LogFile is the client log destination.
	// Env: APP_LOG_FILE
	LogFile string `env:"LOG_FILE"`
}

// Storage groups the configuration for all storage backends.
type Storage struct {
	DB    DB    `envPrefix:"DB_"`
	Files Files `envPrefix:"FILES_"`
}

// DB holds connection settings for the database: a SQLite file for the
// client, a PostgreSQL DSN for the server.
type DB struct {
	// Env: STORAGE_DB_DATABASE_URI
	DSN string `env:"DATABASE_URI"`
}

// Files holds the server blob store settings.
type Files struct {
	// Backend is "fs" (default) or "s3".
	// Env: STORAGE_FILES_BACKEND
	Backend string `env:"BACKEND"`

	// BinaryDataDir is the directory for uploaded content and for partial
	// uploads of the s3 backend.
	// Env: STORAGE_FILES_BINARY_DATA_DIR
	BinaryDataDir string `env:"BINARY_DATA_DIR"`

	S3 S3 `envPrefix:"S3_"`
}

// S3 holds object storage settings for the s3 blob backend.
type S3 struct {
	Bucket    string `env:"BUCKET"`
	Region    string `env:"REGION"`
	Endpoint  string `env:"ENDPOINT"`
	AccessKey string `env:"ACCESS_KEY"`
	SecretKey string `env:"SECRET_KEY"`
}

// Server holds network and timeout settings for the inbound transport layer.
type Server struct {
	// Env: SERVER_ADDRESS
	HTTPAddress string `env:"ADDRESS"`

	// Env: SERVER_GRPC_ADDRESS
	GRPCAddress string `env:"GRPC_ADDRESS"`

	// Env: SERVER_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`
}

// Adapter holds the outbound remote service settings of the engine.
type Adapter struct {
	// HTTPAddress is the base address of the remote service.
	// Env: ADAPTER_ADDRESS
	HTTPAddress string `env:"ADDRESS"`

	// RequestTimeout bounds calls that have no more specific timeout.
	// Env: ADAPTER_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`

	// Token is the bearer token sent with every request.
	// Env: ADAPTER_TOKEN
	Token string `env:"TOKEN"`
}

// Sync holds the push and pull parameters.
type Sync struct {
	// BatchSize is the maximum number of queue items per push request.
	// Env: SYNC_BATCH_SIZE
	BatchSize int `env:"BATCH_SIZE"`

	// PageSize is the page size of auto-paginated pulls; 0 disables paging.
	// Env: SYNC_PAGE_SIZE
	PageSize int `env:"PAGE_SIZE"`

	// PushTimeout bounds every push network call.
	// Env: SYNC_PUSH_TIMEOUT
	PushTimeout time.Duration `env:"PUSH_TIMEOUT"`

	// PageTimeout bounds every pull page request.
	// Env: SYNC_PAGE_TIMEOUT
	PageTimeout time.Duration `env:"PAGE_TIMEOUT"`

	// Collections lists the collections opened by the client, each written
	// as "name:MODE[:ttl]".
	// Env: SYNC_COLLECTIONS (comma separated)
	Collections []string `env:"COLLECTIONS" envSeparator:","`
}

// Transfer holds chunked file transfer settings.
type Transfer struct {
	// ChunkSize is the number of bytes sent or fetched per chunk.
	// Env: TRANSFER_CHUNK_SIZE
	ChunkSize int64 `env:"CHUNK_SIZE"`

	// ChunkTimeout bounds every chunk request.
	// Env: TRANSFER_CHUNK_TIMEOUT
	ChunkTimeout time.Duration `env:"CHUNK_TIMEOUT"`
}

// Workers holds configuration for background processing.
type Workers struct {
	// SyncInterval is the period of the background sync job; 0 disables it.
	// Env: WORKERS_SYNC_INTERVAL
	SyncInterval time.Duration `env:"SYNC_INTERVAL"`

	// PoolSize is the number of goroutines running async operations.
	// Env: WORKERS_POOL_SIZE
	PoolSize int `env:"POOL_SIZE"`
}

// GetStructuredConfig loads and merges the configuration from all available
// sources in priority order: environment, flags, JSON file.
func GetStructuredConfig() (*StructuredConfig, error) {
	return newConfigBuilder().
		withEnv().
		withFlags().
		withJSON().
		build()
}

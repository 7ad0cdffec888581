// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"fmt"
	"time"
)

// Client defaults applied to zero values.
const (
	DefaultRequestTimeout = 15 * time.Second
	DefaultBatchSize      = 100
	DefaultPageSize       = 10000
	DefaultPushTimeout    = 30 * time.Second
	DefaultPageTimeout    = 30 * time.Second
	DefaultChunkSize      = 1 << 20
	DefaultChunkTimeout   = time.Minute
	DefaultPoolSize       = 4
)

// ClientApp holds client-side application settings.
type ClientApp struct {
	Version string
	LogFile string
}

// ClientAdapter holds network settings used by the remote adapter.
type ClientAdapter struct {
	// HTTPAddress is the base address of the remote service.
	HTTPAddress string
	// RequestTimeout is the default timeout for outbound requests.
	RequestTimeout time.Duration
	// Token is the bearer token sent with every request.
	Token string
}

// ClientDB contains local database connection settings for the client.
type ClientDB struct {
	// DSN is the SQLite database file path.
	DSN string
}

// ClientStorage groups client storage backend settings.
type ClientStorage struct {
	DB ClientDB
}

// ClientSync contains push/pull parameters and the opened collections.
type ClientSync struct {
	BatchSize   int
	PageSize    int
	PushTimeout time.Duration
	PageTimeout time.Duration
	Collections []Collection
}

// ClientTransfer contains chunked transfer parameters.
type ClientTransfer struct {
	ChunkSize    int64
	ChunkTimeout time.Duration
}

// ClientWorkers contains client background worker settings.
type ClientWorkers struct {
	// SyncInterval defines how often the background sync job runs; 0
	// disables the job.
	SyncInterval time.Duration
	PoolSize     int
}

// ClientConfig is the top-level engine configuration assembled from
// [StructuredConfig].
type ClientConfig struct {
	App      ClientApp
	Adapter  ClientAdapter
	Storage  ClientStorage
	Sync     ClientSync
	Transfer ClientTransfer
	Workers  ClientWorkers
}

// GetClientConfig builds and validates a client-specific config view from the
// merged structured configuration.
func GetClientConfig() (*ClientConfig, error) {
	cfg, err := GetStructuredConfig()
	if err != nil {
		return nil, fmt.Errorf("error get structured config: %w", err)
	}

	return NewClientConfig(cfg)
}

// NewClientConfig maps the fields relevant to the engine, applies defaults
// to zero values and validates the result.
func NewClientConfig(cfg *StructuredConfig) (*ClientConfig, error) {
	collections, err := parseCollections(cfg.Sync.Collections)
	if err != nil {
		return nil, err
	}

	clientCfg := &ClientConfig{
		App: ClientApp{
			Version: cfg.App.Version,
			LogFile: cfg.App.LogFile,
		},
		Adapter: ClientAdapter{
			HTTPAddress:    cfg.Adapter.HTTPAddress,
			RequestTimeout: orDuration(cfg.Adapter.RequestTimeout, DefaultRequestTimeout),
			Token:          cfg.Adapter.Token,
		},
		Storage: ClientStorage{
			DB: ClientDB{
				DSN: cfg.Storage.DB.DSN,
			},
		},
		Sync: ClientSync{
			BatchSize:   orInt(cfg.Sync.BatchSize, DefaultBatchSize),
			PageSize:    orInt(cfg.Sync.PageSize, DefaultPageSize),
			PushTimeout: orDuration(cfg.Sync.PushTimeout, DefaultPushTimeout),
			PageTimeout: orDuration(cfg.Sync.PageTimeout, DefaultPageTimeout),
			Collections: collections,
		},
		Transfer: ClientTransfer{
			ChunkSize:    int64(orInt(int(cfg.Transfer.ChunkSize), DefaultChunkSize)),
			ChunkTimeout: orDuration(cfg.Transfer.ChunkTimeout, DefaultChunkTimeout),
		},
		Workers: ClientWorkers{
			SyncInterval: cfg.Workers.SyncInterval,
			PoolSize:     orInt(cfg.Workers.PoolSize, DefaultPoolSize),
		},
	}

	return clientCfg, clientCfg.validate()
}

// Collection returns the configuration of name.
func (cfg *ClientConfig) Collection(name string) (Collection, bool) {
	for _, c := range cfg.Sync.Collections {
		if c.Name == name {
			return c, true
		}
	}
	return Collection{}, false
}

// TTLs returns the cache lifetime of every configured collection.
func (cfg *ClientConfig) TTLs() map[string]time.Duration {
	ttls := make(map[string]time.Duration, len(cfg.Sync.Collections))
	for _, c := range cfg.Sync.Collections {
		ttls[c.Name] = time.Duration(c.TTL)
	}
	return ttls
}

func orInt(v, def int) int {
	if v == 0 {
		return def
	}
	return v
}

func orDuration(v, def time.Duration) time.Duration {
	if v == 0 {
		return def
	}
	return v
}

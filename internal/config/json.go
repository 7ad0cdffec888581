// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// StructuredJSONConfig is the layout of the JSON configuration file.
type StructuredJSONConfig struct {
	App struct {
		TokenSignKey  string   `json:"token_sign_key"`
		TokenIssuer   string   `json:"token_issuer"`
		TokenDuration Duration `json:"token_duration"`
		Version       string   `json:"version"`
		LogFile       string   `json:"log_file"`
	} `json:"app,omitempty"`

	Storage struct {
		DB struct {
			DSN string `json:"dsn"`
		} `json:"db,omitempty"`

		Files struct {
			Backend       string `json:"backend"`
			BinaryDataDir string `json:"binary_data_dir"`
			S3            struct {
				Bucket    string `json:"bucket"`
				Region    string `json:"region"`
				Endpoint  string `json:"endpoint"`
				AccessKey string `json:"access_key"`
				SecretKey string `json:"secret_key"`
			} `json:"s3,omitempty"`
		} `json:"files,omitempty"`
	} `json:"storage,omitempty"`

	Server struct {
		HTTPAddress    string   `json:"http_address"`
		GRPCAddress    string   `json:"grpc_address"`
		RequestTimeout Duration `json:"request_timeout"`
	} `json:"server,omitempty"`

	Adapter struct {
		HTTPAddress    string   `json:"http_address"`
		RequestTimeout Duration `json:"request_timeout"`
		Token          string   `json:"token"`
	} `json:"adapter,omitempty"`

	Sync struct {
		BatchSize   int          `json:"batch_size"`
		PageSize    int          `json:"page_size"`
		PushTimeout Duration     `json:"push_timeout"`
		PageTimeout Duration     `json:"page_timeout"`
		Collections []Collection `json:"collections"`
	} `json:"sync,omitempty"`

	Transfer struct {
		ChunkSize    int64    `json:"chunk_size"`
		ChunkTimeout Duration `json:"chunk_timeout"`
	} `json:"transfer,omitempty"`

	Workers struct {
		SyncInterval Duration `json:"sync_interval"`
		PoolSize     int      `json:"pool_size"`
	} `json:"workers,omitempty"`
}

func parseJSON(jsonFilePath string) (*StructuredConfig, error) {
	jsonFile, err := os.Open(jsonFilePath)
	if err != nil {
		return nil, fmt.Errorf("error reading a json file: %w", err)
	}
	defer jsonFile.Close()

	var jsonCfg StructuredJSONConfig
	if err := json.NewDecoder(jsonFile).Decode(&jsonCfg); err != nil {
		return nil, fmt.Errorf("error decoding json configs: %w", err)
	}

	cfg := &StructuredConfig{
		App: App{
			TokenSignKey:  jsonCfg.App.TokenSignKey,
			TokenIssuer:   jsonCfg.App.TokenIssuer,
			TokenDuration: time.Duration(jsonCfg.App.TokenDuration),
			Version:       jsonCfg.App.Version,
			LogFile:       jsonCfg.App.LogFile,
		},
		Storage: Storage{
			DB: DB{
				DSN: jsonCfg.Storage.DB.DSN,
			},
			Files: Files{
				Backend:       jsonCfg.Storage.Files.Backend,
				BinaryDataDir: jsonCfg.Storage.Files.BinaryDataDir,
				S3: S3{
					Bucket:    jsonCfg.Storage.Files.S3.Bucket,
					Region:    jsonCfg.Storage.Files.S3.Region,
					Endpoint:  jsonCfg.Storage.Files.S3.Endpoint,
					AccessKey: jsonCfg.Storage.Files.S3.AccessKey,
					SecretKey: jsonCfg.Storage.Files.S3.SecretKey,
				},
			},
		},
		Server: Server{
			HTTPAddress:    jsonCfg.Server.HTTPAddress,
			GRPCAddress:    jsonCfg.Server.GRPCAddress,
			RequestTimeout: time.Duration(jsonCfg.Server.RequestTimeout),
		},
		Adapter: Adapter{
			HTTPAddress:    jsonCfg.Adapter.HTTPAddress,
			RequestTimeout: time.Duration(jsonCfg.Adapter.RequestTimeout),
			Token:          jsonCfg.Adapter.Token,
		},
		Sync: Sync{
			BatchSize:   jsonCfg.Sync.BatchSize,
			PageSize:    jsonCfg.Sync.PageSize,
			PushTimeout: time.Duration(jsonCfg.Sync.PushTimeout),
			PageTimeout: time.Duration(jsonCfg.Sync.PageTimeout),
			Collections: collectionSpecs(jsonCfg.Sync.Collections),
		},
		Transfer: Transfer{
			ChunkSize:    jsonCfg.Transfer.ChunkSize,
			ChunkTimeout: time.Duration(jsonCfg.Transfer.ChunkTimeout),
		},
		Workers: Workers{
			SyncInterval: time.Duration(jsonCfg.Workers.SyncInterval),
			PoolSize:     jsonCfg.Workers.PoolSize,
		},
		JSONFilePath: "",
	}

	return cfg, nil
}

func collectionSpecs(collections []Collection) []string {
	if len(collections) == 0 {
		return nil
	}
	values := make([]string, 0, len(collections))
	for _, c := range collections {
		values = append(values, c.String())
	}
	return values
}

// Duration is a wrapper around time.Duration that supports JSON unmarshaling
// from strings like "1h", "30s".
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value))
		return nil
	case string:
		tmp, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		*d = Duration(tmp)
		return nil
	default:
		return json.Unmarshal(b, (*time.Duration)(d))
	}
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

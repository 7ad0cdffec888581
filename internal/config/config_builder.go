// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"errors"
	"flag"
	"fmt"

	"dario.cat/mergo"
)

// layer is one configuration source. Non-zero fields of a later layer
// override earlier ones.
type layer struct {
	source string
	cfg    *StructuredConfig
}

type configBuilder struct {
	layers []layer
	err    error

	// environ and args replace the process environment and command line
	// when set.
	environ map[string]string
	args    []string
}

func newConfigBuilder() *configBuilder {
	return &configBuilder{layers: make([]layer, 0, 3)}
}

func (b *configBuilder) add(source string, cfg *StructuredConfig, err error) *configBuilder {
	if err != nil {
		b.err = errors.Join(b.err, fmt.Errorf("%s: %w", source, err))
		return b
	}
	b.layers = append(b.layers, layer{source: source, cfg: cfg})
	return b
}

func (b *configBuilder) build() (*StructuredConfig, error) {
	if b.err != nil {
		return nil, fmt.Errorf("build config: %w", b.err)
	}

	merged := new(StructuredConfig)
	for _, l := range b.layers {
		if err := mergo.Merge(merged, l.cfg, mergo.WithOverride); err != nil {
			return nil, fmt.Errorf("merge %s config: %w", l.source, err)
		}
	}
	return merged, nil
}

func (b *configBuilder) withEnv() *configBuilder {
	cfg := &StructuredConfig{}
	return b.add("env", cfg, parseEnv(cfg, b.environ))
}

func (b *configBuilder) withFlags() *configBuilder {
	if b.args == nil {
		cfg, err := ParseFlags()
		return b.add("flags", cfg, err)
	}
	cfg, err := parseFlagSet(flag.NewFlagSet("config", flag.ContinueOnError), b.args)
	return b.add("flags", cfg, err)
}

// withJSON loads the file named by the last layer that set a JSON path.
func (b *configBuilder) withJSON() *configBuilder {
	path := b.jsonPath()
	if path == "" {
		return b
	}
	cfg, err := parseJSON(path)
	return b.add("json "+path, cfg, err)
}

func (b *configBuilder) jsonPath() string {
	var path string
	for _, l := range b.layers {
		if l.cfg.JSONFilePath != "" {
			path = l.cfg.JSONFilePath
		}
	}
	return path
}

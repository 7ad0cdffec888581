// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package server

import "context"

// Server runs every enabled transport until ctx is cancelled or a
// termination signal arrives, then shuts them down gracefully.
type Server interface {
	Run(ctx context.Context) error
}

// transport is one listener managed by [Server].
type transport interface {
	// RunServer starts serving requests and blocks until the server stops.
	// A graceful stop returns nil.
	RunServer() error

	// Shutdown stops accepting requests and waits for running ones until ctx
	// is done.
	Shutdown(ctx context.Context) error

	Name() string
}

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package client

import (
	"context"
	"errors"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/MKhiriev/go-sync-store/internal/config"
	"github.com/MKhiriev/go-sync-store/internal/logger"
	"github.com/MKhiriev/go-sync-store/internal/service"
)

var (
	ErrNoEngine  = errors.New("client engine is not provided")
	ErrNoConsole = errors.New("client console is not provided")
)

// App runs the console and the background sync job until either stops.
type App struct {
	job      service.ClientSyncJob
	console  Console
	interval time.Duration
	close    func()

	logger *logger.Logger
}

var _ Client = (*App)(nil)

func NewApp(services *service.ClientServices, console Console, cfg config.ClientWorkers, logger *logger.Logger) (*App, error) {
	if services == nil {
		return nil, ErrNoEngine
	}
	if console == nil {
		return nil, ErrNoConsole
	}

	return &App{
		job:      services.SyncJob,
		console:  console,
		interval: cfg.SyncInterval,
		close:    services.Close,
		logger:   logger,
	}, nil
}

// Run blocks until the console exits or the process receives SIGINT or
// SIGTERM. The engine is closed on return.
func (a *App) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	return a.run(ctx)
}

func (a *App) run(ctx context.Context) error {
	defer a.close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)

	if a.interval > 0 {
		a.logger.Info().Dur("interval", a.interval).Msg("starting background sync")
		g.Go(func() error {
			return a.job.Run(gctx, a.interval)
		})
	} else {
		a.logger.Info().Msg("background sync disabled")
	}

	g.Go(func() error {
		defer cancel()
		return a.console.Run(gctx)
	})

	err := g.Wait()
	if err != nil {
		a.logger.Err(err).Str("func", "App.run").Msg("client stopped with error")
		return err
	}

	a.logger.Info().Msg("client stopped")
	return nil
}

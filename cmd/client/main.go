// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package main

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-sync-store/internal/adapter"
	"github.com/MKhiriev/go-sync-store/internal/client"
	"github.com/MKhiriev/go-sync-store/internal/config"
	"github.com/MKhiriev/go-sync-store/internal/logger"
	"github.com/MKhiriev/go-sync-store/internal/service"
	"github.com/MKhiriev/go-sync-store/internal/store"
	"github.com/MKhiriev/go-sync-store/internal/tui"
	"github.com/MKhiriev/go-sync-store/internal/utils"
	"github.com/MKhiriev/go-sync-store/internal/workers"
	"github.com/MKhiriev/go-sync-store/models"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

const role = "sync-console"

func main() {
	buildInfo := models.NewAppBuildInfo("sync-console", buildVersion, buildDate, buildCommit)
	fmt.Println(buildInfo)

	cfg, err := config.GetClientConfig()
	if err != nil {
		logger.NewClientLogger(role, "").Fatal().Err(err).Msg("error getting configs")
	}
	log := logger.NewClientLogger(role, cfg.App.LogFile)

	if subject, err := utils.ParseSubjectFromJWT(cfg.Adapter.Token); err == nil {
		log.Info().Str("subject", subject).Msg("using access token")
	} else {
		log.Warn().Err(err).Msg("access token is missing or malformed")
	}

	ctx := context.Background()

	storages, err := store.NewClientStorages(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("create local storage")
	}
	defer storages.Close()

	remote, err := adapter.NewHTTPRemoteService(cfg.Adapter, log)
	if err != nil {
		log.Fatal().Err(err).Msg("create remote adapter")
	}

	// async callbacks run one at a time; closed after the services stop
	callbacks := workers.NewSerialExecutor()
	defer callbacks.Close()

	events := tui.NewEvents()
	services := service.NewClientServices(storages, remote, cfg, log,
		service.WithSyncListener(events),
		service.WithExecutor(callbacks),
	)
	if _, err = services.OpenConfigured(); err != nil {
		log.Fatal().Err(err).Msg("open configured collections")
	}

	ui := tui.New(services, services.Files, events, cfg.Sync.PageSize, buildInfo, log)

	app, err := client.NewApp(services, ui, cfg.Workers, log)
	if err != nil {
		log.Fatal().Err(err).Msg("init client app error")
	}

	if err = app.Run(); err != nil {
		log.Error().Err(err).Msg("client run error")
	}
}

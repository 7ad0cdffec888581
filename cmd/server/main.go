// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/MKhiriev/go-sync-store/internal/config"
	"github.com/MKhiriev/go-sync-store/internal/handler"
	"github.com/MKhiriev/go-sync-store/internal/logger"
	"github.com/MKhiriev/go-sync-store/internal/server"
	"github.com/MKhiriev/go-sync-store/internal/service"
	"github.com/MKhiriev/go-sync-store/internal/store"
	"github.com/MKhiriev/go-sync-store/models"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

// issueTokenCommand prints a bearer token for the given subject and exits:
//
//	go-sync-server [flags] issue-token <subject>
const issueTokenCommand = "issue-token"

func main() {
	buildInfo := models.NewAppBuildInfo("sync-server", buildVersion, buildDate, buildCommit)
	fmt.Println(buildInfo)

	log := logger.NewLogger("sync-server")
	cfg, err := config.GetServerConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}
	if cfg.App.Version == "" {
		cfg.App.Version = buildInfo.Version
	}

	ctx := context.Background()

	if subject, ok := issueTokenSubject(os.Args[1:]); ok {
		token, err := service.NewAuthService(cfg.App, log).CreateToken(ctx, subject)
		if err != nil {
			log.Fatal().Err(err).Msg("error issuing token")
		}
		fmt.Println(token.SignedString)
		return
	}

	storages, err := store.NewServerStorages(ctx, cfg.Storage, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating storages")
	}
	defer storages.Close()

	services, err := service.NewServices(storages, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating services")
	}

	handlers, err := handler.NewHandlers(services, cfg.Server, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating handlers")
	}

	srv, err := server.NewServer(handlers, cfg.Server, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating server")
	}

	if err = srv.Run(ctx); err != nil {
		log.Error().Err(err).Msg("server stopped with error")
	}
}

// issueTokenSubject finds "issue-token <subject>" after the flags.
func issueTokenSubject(args []string) (string, bool) {
	for i, arg := range args {
		if arg == issueTokenCommand && i+1 < len(args) {
			return args[i+1], true
		}
	}
	return "", false
}

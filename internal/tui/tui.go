// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tui

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/MKhiriev/go-sync-store/internal/logger"
	"github.com/MKhiriev/go-sync-store/internal/service"
	"github.com/MKhiriev/go-sync-store/models"
)

// StoreLister lists the stores shown by the console.
type StoreLister interface {
	Stores() []service.DataStore
}

// TUI is the operator console of the sync engine.
type TUI struct {
	stores    StoreLister
	files     service.FileTransferManager
	events    *Events
	pageSize  int
	buildInfo models.AppBuildInfo

	logger *logger.Logger
}

// New builds the console. events must be the listener handed to the sync
// job so that background cycles show up on screen.
func New(stores StoreLister, files service.FileTransferManager, events *Events, pageSize int,
	buildInfo models.AppBuildInfo, logger *logger.Logger) *TUI {
	if events == nil {
		events = NewEvents()
	}
	return &TUI{
		stores:    stores,
		files:     files,
		events:    events,
		pageSize:  pageSize,
		buildInfo: buildInfo,
		logger:    logger,
	}
}

// Run shows the console until the user quits or ctx is done.
func (t *TUI) Run(ctx context.Context) error {
	if len(t.stores.Stores()) == 0 {
		return ErrNoStores
	}

	_, err := tea.NewProgram(newModel(ctx, t), tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	if err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		t.logger.Err(err).Str("func", "TUI.Run").Msg("console stopped")
		return err
	}
	return nil
}

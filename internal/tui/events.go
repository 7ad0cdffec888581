// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/MKhiriev/go-sync-store/internal/service"
	"github.com/MKhiriev/go-sync-store/models"
)

const eventsBuffer = 64

// Events forwards background notifications to the console. It implements
// [service.SyncListener] and never blocks the caller: events arriving while
// the buffer is full are dropped.
type Events struct {
	ch  chan tea.Msg
	now func() time.Time
}

var _ service.SyncListener = (*Events)(nil)

func NewEvents() *Events {
	return &Events{ch: make(chan tea.Msg, eventsBuffer), now: time.Now}
}

func (e *Events) OnPushStarted(collection string) {
	e.send(syncEventMsg{collection: collection, kind: eventPushStarted, at: e.now()})
}

func (e *Events) OnPushFinished(collection string, result models.PushResult) {
	e.send(syncEventMsg{collection: collection, kind: eventPushFinished, push: result, at: e.now()})
}

func (e *Events) OnPullStarted(collection string) {
	e.send(syncEventMsg{collection: collection, kind: eventPullStarted, at: e.now()})
}

func (e *Events) OnPullFinished(collection string, result models.PullResult) {
	e.send(syncEventMsg{collection: collection, kind: eventPullFinished, pull: result, at: e.now()})
}

func (e *Events) OnFailure(collection string, err error) {
	e.send(syncEventMsg{collection: collection, kind: eventFailure, err: err, at: e.now()})
}

// progress returns a listener forwarding transfer progress.
func (e *Events) progress() service.ProgressListener {
	return service.ProgressFunc(func(p models.TransferProgress) {
		e.send(uploadProgressMsg{progress: p})
	})
}

func (e *Events) send(msg tea.Msg) {
	select {
	case e.ch <- msg:
	default:
	}
}

// wait delivers the next event. It is re-armed after every event.
func (e *Events) wait() tea.Cmd {
	return func() tea.Msg {
		return <-e.ch
	}
}

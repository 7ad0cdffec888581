// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tui

import (
	"time"

	"github.com/MKhiriev/go-sync-store/models"
)

type eventKind int

const (
	eventPushStarted eventKind = iota
	eventPushFinished
	eventPullStarted
	eventPullFinished
	eventFailure
)

// syncEventMsg is delivered for every background sync job notification.
type syncEventMsg struct {
	collection string
	kind       eventKind
	push       models.PushResult
	pull       models.PullResult
	err        error
	at         time.Time
}

type rowsLoadedMsg struct {
	rows []row
}

type opKind string

const (
	opPush opKind = "push"
	opPull opKind = "pull"
	opSync opKind = "sync"
)

type opDoneMsg struct {
	collection string
	op         opKind
	summary    string
	err        error
	at         time.Time
}

type uploadProgressMsg struct {
	progress models.TransferProgress
}

type uploadDoneMsg struct {
	meta models.FileMetadata
	err  error
}

type copiedMsg struct {
	err error
}

type clearStatusMsg struct{}

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/MKhiriev/go-sync-store/internal/service"
	"github.com/MKhiriev/go-sync-store/models"
)

const statusTTL = 3 * time.Second

// row is one opened store as shown on screen.
type row struct {
	store      service.DataStore
	collection string
	mode       models.StoreMode
	pending    int

	activity string
	at       time.Time
	err      string
}

type uploadState struct {
	path     string
	cancel   *service.CancelToken
	progress models.TransferProgress
}

type model struct {
	ctx       context.Context
	stores    StoreLister
	files     service.FileTransferManager
	events    *Events
	pageSize  int
	buildInfo models.AppBuildInfo

	rows []row
	idx  int

	// running names the manual operation in flight, if any.
	running string

	spinner     spinner.Model
	bar         progress.Model
	input       textinput.Model
	inputActive bool
	upload      *uploadState
	lastFileID  string

	status   string
	errMsg   string
	showInfo bool

	copy func(string) error
	now  func() time.Time
}

func newModel(ctx context.Context, t *TUI) model {
	input := textinput.New()
	input.Placeholder = "/path/to/file"
	input.CharLimit = 4096
	input.Width = 48

	return model{
		ctx:       ctx,
		stores:    t.stores,
		files:     t.files,
		events:    t.events,
		pageSize:  t.pageSize,
		buildInfo: t.buildInfo,
		spinner:   spinner.New(spinner.WithSpinner(spinner.MiniDot)),
		bar:       progress.New(progress.WithDefaultGradient(), progress.WithWidth(40)),
		input:     input,
		copy:      clipboard.WriteAll,
		now:       time.Now,
	}
}

func (m model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.cmdLoadRows(), m.events.wait())
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case rowsLoadedMsg:
		m.rows = mergeRows(m.rows, msg.rows)
		if m.idx >= len(m.rows) {
			m.idx = len(m.rows) - 1
		}
		if m.idx < 0 {
			m.idx = 0
		}
		return m, nil

	case syncEventMsg:
		m.applyEvent(msg)
		if msg.kind == eventPushStarted || msg.kind == eventPullStarted {
			return m, m.events.wait()
		}
		return m, tea.Batch(m.events.wait(), m.cmdLoadRows())

	case opDoneMsg:
		m.running = ""
		for i := range m.rows {
			if m.rows[i].collection != msg.collection {
				continue
			}
			m.rows[i].at = msg.at
			if msg.err != nil {
				m.rows[i].activity = string(msg.op) + " failed"
				m.rows[i].err = humanizeError(msg.err)
				continue
			}
			m.rows[i].activity = msg.summary
			m.rows[i].err = ""
		}
		if msg.err != nil {
			m.errMsg = humanizeError(msg.err)
			return m, m.cmdLoadRows()
		}
		m.errMsg = ""
		m.status = fmt.Sprintf("%s %s: %s", msg.op, msg.collection, msg.summary)
		return m, tea.Batch(m.cmdLoadRows(), clearStatusAfter(statusTTL))

	case uploadProgressMsg:
		if m.upload != nil {
			up := *m.upload
			up.progress = msg.progress
			m.upload = &up
		}
		return m, m.events.wait()

	case uploadDoneMsg:
		m.upload = nil
		if msg.err != nil {
			m.errMsg = humanizeError(msg.err)
			return m, nil
		}
		m.errMsg = ""
		m.lastFileID = msg.meta.ID
		m.status = fmt.Sprintf("Uploaded %s (%s) as %s", msg.meta.Filename, formatBytes(msg.meta.Size), msg.meta.ID)
		return m, nil

	case copiedMsg:
		if msg.err != nil {
			m.errMsg = "Clipboard is unavailable: " + msg.err.Error()
			return m, nil
		}
		m.status = "File id copied to clipboard"
		return m, clearStatusAfter(statusTTL)

	case clearStatusMsg:
		m.status = ""
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	if m.inputActive {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, keys.forceQ) {
		return m.quit()
	}
	if m.showInfo {
		if key.Matches(msg, keys.esc, keys.info) {
			m.showInfo = false
		}
		return m, nil
	}
	if m.inputActive {
		return m.handleInputKey(msg)
	}

	switch {
	case key.Matches(msg, keys.quit):
		return m.quit()
	case key.Matches(msg, keys.up):
		if m.idx > 0 {
			m.idx--
		}
	case key.Matches(msg, keys.down):
		if m.idx < len(m.rows)-1 {
			m.idx++
		}
	case key.Matches(msg, keys.push):
		return m.startOp(opPush)
	case key.Matches(msg, keys.pull):
		return m.startOp(opPull)
	case key.Matches(msg, keys.sync):
		return m.startOp(opSync)
	case key.Matches(msg, keys.refresh):
		return m, m.cmdLoadRows()
	case key.Matches(msg, keys.info):
		m.showInfo = true
	case key.Matches(msg, keys.upload):
		if m.upload != nil {
			m.errMsg = "An upload is already running"
			return m, nil
		}
		m.errMsg = ""
		m.inputActive = true
		m.input.Reset()
		return m, m.input.Focus()
	case key.Matches(msg, keys.esc):
		if m.upload != nil {
			m.upload.cancel.Cancel()
			m.status = "Cancelling upload..."
		}
	case key.Matches(msg, keys.copy):
		if m.lastFileID == "" {
			m.errMsg = "No file uploaded yet"
			return m, nil
		}
		return m, m.cmdCopy(m.lastFileID)
	}
	return m, nil
}

func (m model) handleInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.esc):
		m.inputActive = false
		m.input.Blur()
		return m, nil
	case key.Matches(msg, keys.enter):
		path := strings.TrimSpace(m.input.Value())
		if path == "" {
			m.errMsg = "Enter the path of the file to upload"
			return m, nil
		}
		m.inputActive = false
		m.input.Blur()
		m.errMsg = ""
		m.upload = &uploadState{path: path, cancel: service.NewCancelToken()}
		return m, m.cmdUpload(path, m.upload.cancel)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m model) quit() (tea.Model, tea.Cmd) {
	if m.upload != nil {
		m.upload.cancel.Cancel()
	}
	return m, tea.Quit
}

func (m model) startOp(op opKind) (tea.Model, tea.Cmd) {
	if len(m.rows) == 0 {
		return m, nil
	}
	if m.running != "" {
		m.errMsg = "Wait for " + m.running + " to finish"
		return m, nil
	}

	r := m.rows[m.idx]
	if !r.mode.UsesCache() {
		m.errMsg = humanizeError(service.ErrInvalidStoreMode)
		return m, nil
	}

	m.running = string(op) + " " + r.collection
	m.errMsg = ""
	return m, m.cmdOp(op, r.store)
}

func (m *model) applyEvent(ev syncEventMsg) {
	for i := range m.rows {
		r := &m.rows[i]
		if r.collection != ev.collection {
			continue
		}
		r.at = ev.at
		switch ev.kind {
		case eventPushStarted:
			r.activity = "pushing"
		case eventPullStarted:
			r.activity = "pulling"
		case eventPushFinished:
			r.activity, r.err = pushSummary(ev.push), ""
		case eventPullFinished:
			r.activity, r.err = pullSummary(ev.pull), ""
		case eventFailure:
			r.activity, r.err = "sync failed", humanizeError(ev.err)
		}
	}
}

// mergeRows keeps the activity of stores that were already shown.
func mergeRows(old, fresh []row) []row {
	for i := range fresh {
		for _, o := range old {
			if o.collection == fresh[i].collection && o.mode == fresh[i].mode {
				fresh[i].activity, fresh[i].at = o.activity, o.at
				if fresh[i].err == "" {
					fresh[i].err = o.err
				}
				break
			}
		}
	}
	return fresh
}

// ── Commands ────────────────────────────────────────────────────────────────

func (m model) cmdLoadRows() tea.Cmd {
	ctx, stores := m.ctx, m.stores
	return func() tea.Msg {
		list := stores.Stores()
		rows := make([]row, 0, len(list))
		for _, ds := range list {
			r := row{store: ds, collection: ds.Collection(), mode: ds.Mode()}
			n, err := ds.PendingCount(ctx)
			if err != nil {
				r.err = humanizeError(err)
			}
			r.pending = n
			rows = append(rows, r)
		}
		return rowsLoadedMsg{rows: rows}
	}
}

func (m model) cmdOp(op opKind, ds service.DataStore) tea.Cmd {
	ctx, pageSize, now := m.ctx, m.pageSize, m.now
	return func() tea.Msg {
		done := opDoneMsg{collection: ds.Collection(), op: op}
		switch op {
		case opPush:
			res, err := ds.Push(ctx)
			done.summary, done.err = pushSummary(res), err
		case opPull:
			res, err := ds.Pull(ctx, models.Query{}, pageSize)
			done.summary, done.err = pullSummary(res), err
		case opSync:
			res, err := ds.Sync(ctx, models.Query{}, pageSize)
			done.summary, done.err = pushSummary(res.Push)+", "+pullSummary(res.Pull), err
		}
		done.at = now()
		return done
	}
}

func (m model) cmdUpload(path string, cancel *service.CancelToken) tea.Cmd {
	ctx, files, events := m.ctx, m.files, m.events
	return func() tea.Msg {
		meta, err := files.UploadFile(ctx, path, service.TransferOptions{
			Listener: events.progress(),
			Cancel:   cancel,
		})
		return uploadDoneMsg{meta: meta, err: err}
	}
}

func (m model) cmdCopy(text string) tea.Cmd {
	copyFn := m.copy
	return func() tea.Msg {
		return copiedMsg{err: copyFn(text)}
	}
}

func clearStatusAfter(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return clearStatusMsg{}
	})
}

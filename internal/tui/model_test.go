// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tui

import (
	"context"
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-sync-store/internal/logger"
	"github.com/MKhiriev/go-sync-store/internal/service"
	"github.com/MKhiriev/go-sync-store/models"
)

var fixedNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

// fakeStore implements the DataStore methods the console calls.
type fakeStore struct {
	service.DataStore

	collection string
	mode       models.StoreMode
	pending    int

	pushResult models.PushResult
	pushErr    error
	pullResult models.PullResult
	pullErr    error
	syncResult models.SyncResult
	syncErr    error

	pageSizes []int
}

func (f *fakeStore) Collection() string { return f.collection }
func (f *fakeStore) Mode() models.StoreMode { return f.mode }
func (f *fakeStore) PendingCount(context.Context) (int, error) {
	return f.pending, nil
}

func (f *fakeStore) Push(context.Context) (models.PushResult, error) {
	return f.pushResult, f.pushErr
}

func (f *fakeStore) Pull(_ context.Context, _ models.Query, pageSize int) (models.PullResult, error) {
	f.pageSizes = append(f.pageSizes, pageSize)
	return f.pullResult, f.pullErr
}

func (f *fakeStore) Sync(_ context.Context, _ models.Query, pageSize int) (models.SyncResult, error) {
	f.pageSizes = append(f.pageSizes, pageSize)
	return f.syncResult, f.syncErr
}

type fakeLister []service.DataStore

func (l fakeLister) Stores() []service.DataStore { return l }

type fakeFiles struct {
	service.FileTransferManager
	upload func(ctx context.Context, path string, opts service.TransferOptions) (models.FileMetadata, error)
}

func (f *fakeFiles) UploadFile(ctx context.Context, path string, opts service.TransferOptions) (models.FileMetadata, error) {
	return f.upload(ctx, path, opts)
}

func newTestTUI(files service.FileTransferManager, stores ...*fakeStore) *TUI {
	lister := make(fakeLister, len(stores))
	for i, s := range stores {
		lister[i] = s
	}
	return New(lister, files, NewEvents(), 50, models.NewAppBuildInfo("sync-console", "1.0.0", "2026-01-01", "abc123"), logger.Nop())
}

func newTestModel(t *testing.T, files service.FileTransferManager, stores ...*fakeStore) model {
	t.Helper()
	m := newModel(context.Background(), newTestTUI(files, stores...))
	m.now = func() time.Time { return fixedNow }
	m, _ = update(t, m, m.cmdLoadRows()())
	return m
}

func update(t *testing.T, m model, msg tea.Msg) (model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	mm, ok := next.(model)
	require.True(t, ok)
	return mm, cmd
}

func runeKey(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// ── Rows ────────────────────────────────────────────────────────────────────

func TestModel_RowsAndNavigation(t *testing.T) {
	notes := &fakeStore{collection: "notes", mode: models.StoreModeSync, pending: 3}
	live := &fakeStore{collection: "prices", mode: models.StoreModeNetwork}
	m := newTestModel(t, nil, notes, live)

	require.Len(t, m.rows, 2)
	assert.Equal(t, 3, m.rows[0].pending)

	view := m.View()
	assert.Contains(t, view, "notes")
	assert.Contains(t, view, "NETWORK")

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, 1, m.idx)
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, 1, m.idx, "cursor stops at the last row")
	m, _ = update(t, m, runeKey("k"))
	m, _ = update(t, m, runeKey("k"))
	assert.Equal(t, 0, m.idx)
}

func TestMergeRows_KeepsActivity(t *testing.T) {
	old := []row{{collection: "notes", mode: models.StoreModeSync, activity: "pushed 1/1", at: fixedNow}}
	fresh := []row{
		{collection: "notes", mode: models.StoreModeSync, pending: 2},
		{collection: "tasks", mode: models.StoreModeCache},
	}

	got := mergeRows(old, fresh)
	assert.Equal(t, "pushed 1/1", got[0].activity)
	assert.Equal(t, 2, got[0].pending)
	assert.Empty(t, got[1].activity)
}

// ── Operations ──────────────────────────────────────────────────────────────

func TestModel_Operations(t *testing.T) {
	tests := []struct {
		name       string
		key        string
		store      *fakeStore
		wantStatus string
		wantErr    string
	}{
		{
			name: "push",
			key:  "p",
			store: &fakeStore{collection: "notes", mode: models.StoreModeSync, pushResult: models.PushResult{
				Attempted: 3, SuccessCount: 2, Errors: []models.BatchItemError{{Index: 1}},
			}},
			wantStatus: "push notes: pushed 2/3, 1 failed",
		},
		{
			name:       "pull",
			key:        "l",
			store:      &fakeStore{collection: "notes", mode: models.StoreModeCache, pullResult: models.PullResult{Count: 7, Pages: 1}},
			wantStatus: "pull notes: pulled 7 in 1 page",
		},
		{
			name: "sync",
			key:  "s",
			store: &fakeStore{collection: "notes", mode: models.StoreModeAuto, syncResult: models.SyncResult{
				Push: models.PushResult{Attempted: 1, SuccessCount: 1},
				Pull: models.PullResult{Count: 4, Pages: 2},
			}},
			wantStatus: "sync notes: pushed 1/1, pulled 4 in 2 pages",
		},
		{
			name:    "pull with pending items",
			key:     "l",
			store:   &fakeStore{collection: "notes", mode: models.StoreModeSync, pullErr: service.ErrPendingSyncItems},
			wantErr: "Push the pending changes before pulling",
		},
		{
			name:    "busy",
			key:     "p",
			store:   &fakeStore{collection: "notes", mode: models.StoreModeSync, pushErr: service.ErrPushInProgress},
			wantErr: "Another operation is already running on this collection",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newTestModel(t, nil, tt.store)

			m, cmd := update(t, m, runeKey(tt.key))
			require.NotNil(t, cmd)
			assert.NotEmpty(t, m.running)
			assert.Contains(t, m.View(), m.running)

			m, _ = update(t, m, cmd())
			assert.Empty(t, m.running)
			assert.Equal(t, tt.wantStatus, m.status)
			assert.Equal(t, tt.wantErr, m.errMsg)
			if tt.wantErr != "" {
				assert.Equal(t, tt.wantErr, m.rows[0].err)
			}
		})
	}
}

func TestModel_PullUsesConfiguredPageSize(t *testing.T) {
	notes := &fakeStore{collection: "notes", mode: models.StoreModeSync}
	m := newTestModel(t, nil, notes)

	_, cmd := update(t, m, runeKey("l"))
	cmd()
	assert.Equal(t, []int{50}, notes.pageSizes)
}

func TestModel_OperationRejections(t *testing.T) {
	t.Run("second operation while one runs", func(t *testing.T) {
		m := newTestModel(t, nil, &fakeStore{collection: "notes", mode: models.StoreModeSync})
		m, _ = update(t, m, runeKey("p"))
		m, cmd := update(t, m, runeKey("l"))
		assert.Nil(t, cmd)
		assert.Equal(t, "Wait for push notes to finish", m.errMsg)
	})

	t.Run("network store", func(t *testing.T) {
		m := newTestModel(t, nil, &fakeStore{collection: "prices", mode: models.StoreModeNetwork})
		m, cmd := update(t, m, runeKey("s"))
		assert.Nil(t, cmd)
		assert.Equal(t, "Not available for a NETWORK collection", m.errMsg)
		assert.Empty(t, m.running)
	})
}

// ── Background events ───────────────────────────────────────────────────────

func TestModel_SyncEvents(t *testing.T) {
	m := newTestModel(t, nil,
		&fakeStore{collection: "notes", mode: models.StoreModeSync},
		&fakeStore{collection: "tasks", mode: models.StoreModeSync},
	)
	events := m.events
	events.now = func() time.Time { return fixedNow }

	events.OnPushStarted("notes")
	m, cmd := update(t, m, <-events.ch)
	require.NotNil(t, cmd)
	assert.Equal(t, "pushing", m.rows[0].activity)

	events.OnPushFinished("notes", models.PushResult{Attempted: 2, SuccessCount: 2, Conflicts: []models.Conflict{{}}})
	m, _ = update(t, m, <-events.ch)
	assert.Equal(t, "pushed 2/2, 1 conflict", m.rows[0].activity)
	assert.Contains(t, m.View(), "pushed 2/2, 1 conflict, now")

	events.OnFailure("tasks", errors.New("disk full"))
	m, _ = update(t, m, <-events.ch)
	assert.Equal(t, "disk full", m.rows[1].err)
	assert.Empty(t, m.rows[0].err)
}

func TestEvents_NeverBlock(t *testing.T) {
	events := NewEvents()
	for i := 0; i < eventsBuffer*2; i++ {
		events.OnPullStarted("notes")
	}
	assert.Len(t, events.ch, eventsBuffer)
}

// ── Upload ──────────────────────────────────────────────────────────────────

func TestModel_UploadFlow(t *testing.T) {
	files := &fakeFiles{upload: func(_ context.Context, path string, opts service.TransferOptions) (models.FileMetadata, error) {
		opts.Listener.OnProgress(models.TransferProgress{FileID: "f-1", Transferred: 512, Total: 1024, Chunk: 1})
		return models.FileMetadata{ID: "f-1", Filename: "a.bin", Size: 1024, Status: models.FileStatusComplete}, nil
	}}
	m := newTestModel(t, files, &fakeStore{collection: "notes", mode: models.StoreModeSync})

	var copied string
	m.copy = func(s string) error {
		copied = s
		return nil
	}

	m, _ = update(t, m, runeKey("u"))
	require.True(t, m.inputActive)

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)
	assert.Equal(t, "Enter the path of the file to upload", m.errMsg)

	m.input.SetValue(" /tmp/a.bin ")
	m, cmd = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	require.NotNil(t, m.upload)
	assert.False(t, m.inputActive)
	assert.Equal(t, "/tmp/a.bin", m.upload.path)

	done := cmd()

	m, _ = update(t, m, <-m.events.ch)
	assert.Equal(t, int64(512), m.upload.progress.Transferred)
	assert.Contains(t, m.View(), "512 B / 1.0 kB")

	m, _ = update(t, m, done)
	assert.Nil(t, m.upload)
	assert.Equal(t, "f-1", m.lastFileID)
	assert.Equal(t, "Uploaded a.bin (1.0 kB) as f-1", m.status)

	m, cmd = update(t, m, runeKey("y"))
	require.NotNil(t, cmd)
	m, _ = update(t, m, cmd())
	assert.Equal(t, "f-1", copied)
	assert.Equal(t, "File id copied to clipboard", m.status)
}

func TestModel_UploadCancel(t *testing.T) {
	files := &fakeFiles{upload: func(context.Context, string, service.TransferOptions) (models.FileMetadata, error) {
		return models.FileMetadata{Status: models.FileStatusCancelled}, service.ErrTransferCancelled
	}}
	m := newTestModel(t, files, &fakeStore{collection: "notes", mode: models.StoreModeSync})

	m, _ = update(t, m, runeKey("u"))
	m.input.SetValue("/tmp/a.bin")
	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	token := m.upload.cancel

	m, _ = update(t, m, runeKey("u"))
	assert.Equal(t, "An upload is already running", m.errMsg)

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.True(t, token.Cancelled())

	m, _ = update(t, m, cmd())
	assert.Equal(t, "Upload cancelled", m.errMsg)
	assert.Empty(t, m.lastFileID)
}

func TestModel_UploadInputEscape(t *testing.T) {
	m := newTestModel(t, nil, &fakeStore{collection: "notes", mode: models.StoreModeSync})

	m, _ = update(t, m, runeKey("u"))
	m, _ = update(t, m, runeKey("q"))
	assert.True(t, m.inputActive, "q is typed into the input")
	assert.Equal(t, "q", m.input.Value())

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.False(t, m.inputActive)
	assert.Nil(t, m.upload)
}

func TestModel_CopyWithoutFile(t *testing.T) {
	m := newTestModel(t, nil, &fakeStore{collection: "notes", mode: models.StoreModeSync})
	m, cmd := update(t, m, runeKey("y"))
	assert.Nil(t, cmd)
	assert.Equal(t, "No file uploaded yet", m.errMsg)
}

// ── Misc ────────────────────────────────────────────────────────────────────

func TestModel_InfoAndQuit(t *testing.T) {
	m := newTestModel(t, nil, &fakeStore{collection: "notes", mode: models.StoreModeSync})

	m, _ = update(t, m, runeKey("v"))
	assert.Contains(t, m.View(), "Version: 1.0.0")
	assert.Contains(t, m.View(), "Commit: abc123")

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.False(t, m.showInfo)

	_, cmd := update(t, m, runeKey("q"))
	require.NotNil(t, cmd)
	_, ok := cmd().(tea.QuitMsg)
	assert.True(t, ok)
}

func TestModel_ClearStatus(t *testing.T) {
	m := newTestModel(t, nil, &fakeStore{collection: "notes", mode: models.StoreModeSync})
	m.status = "done"
	m, _ = update(t, m, clearStatusMsg{})
	assert.Empty(t, m.status)
}

func TestTUI_RunWithoutStores(t *testing.T) {
	err := newTestTUI(nil).Run(context.Background())
	require.ErrorIs(t, err, ErrNoStores)
}

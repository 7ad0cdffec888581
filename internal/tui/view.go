// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tui

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/dustin/go-humanize/english"

	"github.com/MKhiriev/go-sync-store/models"
)

const (
	collectionWidth = 20
	modeWidth       = 8
	pendingWidth    = 8
)

func (m model) View() string {
	if m.showInfo {
		return appStyle.Render(renderBuildInfoWindow(m.buildInfo))
	}

	var b strings.Builder
	b.WriteString(headerStyle.Render(padRight("COLLECTION", collectionWidth) + " " +
		padRight("MODE", modeWidth) + " " + padRight("PENDING", pendingWidth) + " LAST ACTIVITY"))
	b.WriteString("\n")

	for i, r := range m.rows {
		line := padRight(r.collection, collectionWidth) + " " +
			padRight(string(r.mode), modeWidth) + " " +
			padRight(pendingText(r), pendingWidth) + " " +
			m.activityText(r)
		if i == m.idx {
			line = selectedStyle.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	if m.running != "" {
		b.WriteString("\n")
		b.WriteString(m.spinner.View() + " " + m.running + "...")
		b.WriteString("\n")
	}
	if m.upload != nil {
		b.WriteString("\n")
		b.WriteString(m.uploadView())
		b.WriteString("\n")
	}
	if m.inputActive {
		b.WriteString("\nUpload file: ")
		b.WriteString(m.input.View())
		b.WriteString("\n")
	}
	if m.lastFileID != "" {
		b.WriteString("\nLast file id: " + m.lastFileID + "\n")
	}

	switch {
	case m.errMsg != "":
		b.WriteString("\n" + errorStyle.Render(m.errMsg))
	case m.status != "":
		b.WriteString("\n" + statusStyle.Render(m.status))
	}

	return appStyle.Render(renderPage("SYNC CONSOLE", b.String(), m.hotKeys()))
}

func (m model) hotKeys() string {
	switch {
	case m.inputActive:
		return "enter: upload  esc: cancel"
	case m.upload != nil:
		return "esc: cancel upload  ↑/↓: select  p: push  l: pull  s: sync  q: quit"
	}
	return "↑/↓: select  p: push  l: pull  s: sync  r: refresh  u: upload  y: copy file id  v: about  q: quit"
}

func (m model) uploadView() string {
	p := m.upload.progress
	line := m.spinner.View() + " Uploading " + fitText(filepath.Base(m.upload.path), 32)
	if p.Total > 0 {
		line += "\n" + m.bar.ViewAs(p.Percent()/100) + " " +
			formatBytes(p.Transferred) + " / " + formatBytes(p.Total)
	}
	return line
}

func (m model) activityText(r row) string {
	if r.err != "" {
		return r.err
	}
	if r.activity == "" {
		return "-"
	}
	if r.at.IsZero() {
		return r.activity
	}
	return r.activity + ", " + humanize.RelTime(r.at, m.now(), "ago", "from now")
}

func pendingText(r row) string {
	if !r.mode.UsesCache() {
		return "-"
	}
	return strconv.Itoa(r.pending)
}

func pushSummary(r models.PushResult) string {
	s := fmt.Sprintf("pushed %d/%d", r.SuccessCount, r.Attempted)
	if n := len(r.Conflicts); n > 0 {
		s += ", " + english.Plural(n, "conflict", "")
	}
	if n := len(r.Errors); n > 0 {
		s += fmt.Sprintf(", %d failed", n)
	}
	return s
}

func pullSummary(r models.PullResult) string {
	s := fmt.Sprintf("pulled %d in %s", r.Count, english.Plural(r.Pages, "page", ""))
	if n := len(r.Errors); n > 0 {
		s += ", " + english.Plural(n, "error", "")
	}
	return s
}

func formatBytes(n int64) string {
	if n < 0 {
		n = 0
	}
	return humanize.Bytes(uint64(n))
}

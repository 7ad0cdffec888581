// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "strings"

// NotAvailable stands in for build fields the linker did not set.
const NotAvailable = "N/A"

// AppBuildInfo describes a binary. Version, Date and Commit are injected with
// -ldflags at build time.
type AppBuildInfo struct {
	Name    string
	Version string
	Date    string
	Commit  string
}

// NewAppBuildInfo trims every field and replaces empty ones with NotAvailable.
func NewAppBuildInfo(name, version, date, commit string) AppBuildInfo {
	return AppBuildInfo{
		Name:    orNotAvailable(name),
		Version: orNotAvailable(version),
		Date:    orNotAvailable(date),
		Commit:  orNotAvailable(commit),
	}
}

func (a AppBuildInfo) String() string {
	return "Application: " + a.Name +
		"\nVersion: " + a.Version +
		"\nDate: " + a.Date +
		"\nCommit: " + a.Commit
}

func orNotAvailable(v string) string {
	if v = strings.TrimSpace(v); v == "" {
		return NotAvailable
	}
	return v
}

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tui

import "github.com/MKhiriev/go-sync-store/models"

func renderBuildInfoWindow(info models.AppBuildInfo) string {
	return renderPage("ABOUT", info.String(), "esc: back")
}

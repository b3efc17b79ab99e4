// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tui

import (
	"strings"

	"github.com/MKhiriev/go-salon-sync/models"
)

func renderBuildInfoWindow(info models.AppBuildInfo) string {
	lines := append([]string{"Application: salon-sync"}, info.Lines()...)
	return renderPage("ABOUT", strings.Join(lines, "\n"), "esc: back")
}

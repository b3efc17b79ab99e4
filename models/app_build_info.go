// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "strings"

// NotAvailable stands in for build metadata the linker did not set.
const NotAvailable = "N/A"

// AppBuildInfo is the version metadata linked into the server and client
// binaries with -ldflags "-X main.buildVersion=...".
type AppBuildInfo struct {
	buildVersion string
	buildDate    string
	buildCommit  string
}

func NewAppBuildInfo(buildVersion, buildDate, buildCommit string) AppBuildInfo {
	return AppBuildInfo{
		buildVersion: strings.TrimSpace(buildVersion),
		buildDate:    strings.TrimSpace(buildDate),
		buildCommit:  strings.TrimSpace(buildCommit),
	}
}

func (a AppBuildInfo) BuildVersion() string { return a.buildVersion }

func (a AppBuildInfo) BuildDate() string { return a.buildDate }

func (a AppBuildInfo) BuildCommit() string { return a.buildCommit }

// Lines renders the metadata as "Build <field>: <value>" lines, printed at
// server startup, by "salon version" and on the TUI about page.
func (a AppBuildInfo) Lines() []string {
	return []string{
		"Build version: " + orNotAvailable(a.buildVersion),
		"Build date: " + orNotAvailable(a.buildDate),
		"Build commit: " + orNotAvailable(a.buildCommit),
	}
}

func orNotAvailable(v string) string {
	if v == "" {
		return NotAvailable
	}
	return v
}

// VersionInfo is the public form of the running binary's version, returned
// by the server's version endpoint.
type VersionInfo struct {
	Version string `json:"version"`
	Date    string `json:"buildDate,omitempty"`
	Commit  string `json:"buildCommit,omitempty"`
}

// VersionInfo combines the configured application version with the build
// metadata. An empty configured version falls back to the build version.
func (a AppBuildInfo) VersionInfo(configured string) VersionInfo {
	if configured == "" {
		configured = a.buildVersion
	}
	return VersionInfo{Version: configured, Date: a.buildDate, Commit: a.buildCommit}
}

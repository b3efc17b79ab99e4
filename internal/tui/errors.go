// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tui

import (
	"errors"
	"strings"

	"github.com/MKhiriev/go-salon-sync/internal/adapter"
	"github.com/MKhiriev/go-salon-sync/internal/app"
	"github.com/MKhiriev/go-salon-sync/internal/service"
)

const (
	msgRemoteUnavailable = "no network or the sync server is unavailable"
	msgIntegrity         = "the sync server rejected the data: hash keys differ"
	msgLocalOnly         = "this collection works offline only until restart"
)

// networkHints are fragments of dial and timeout errors that reach the UI
// without one of the adapter sentinels.
var networkHints = []string{
	"connection refused",
	"dial tcp",
	"no such host",
	"network is unreachable",
	"i/o timeout",
	"context deadline exceeded",
}

func humanizeError(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, service.ErrInvalidRecord):
		return app.MsgInvalidRecord
	case errors.Is(err, service.ErrLocalOnly):
		return msgLocalOnly
	case errors.Is(err, adapter.ErrIntegrityCheck):
		return msgIntegrity
	case errors.Is(err, adapter.ErrRemoteUnavailable):
		return msgRemoteUnavailable
	}

	s := strings.ToLower(err.Error())
	for _, hint := range networkHints {
		if strings.Contains(s, hint) {
			return msgRemoteUnavailable
		}
	}
	return err.Error()
}

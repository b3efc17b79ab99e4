// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package client

import (
	"context"

	"github.com/MKhiriev/go-salon-sync/internal/workers"
)

// Client defines the lifecycle contract of the salon client runtime.
type Client interface {
	// Run keeps collections in sync while foreground runs and blocks until
	// it returns.
	Run(ctx context.Context, foreground workers.Worker) error

	// Close releases stores and ends every subscription.
	Close() error
}

var _ Client = (*App)(nil)

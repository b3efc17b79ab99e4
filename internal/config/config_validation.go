// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"fmt"
	"slices"
	"strings"

	"github.com/MKhiriev/go-salon-sync/models"
)

// validate checks that the merged server [StructuredConfig] can be used at
// startup.
func (cfg *StructuredConfig) validate() error {
	if strings.TrimSpace(cfg.Storage.DB.DSN) == "" {
		return fmt.Errorf("%w: empty dsn", ErrInvalidStorageConfigs)
	}

	switch cfg.Storage.DB.ServerDriver() {
	case DriverPostgres, DriverSQLite:
	default:
		return fmt.Errorf("%w: unsupported server driver %q", ErrInvalidStorageConfigs, cfg.Storage.DB.Driver)
	}

	if cfg.Server.HTTPAddress == "" && cfg.Server.GRPCAddress == "" {
		return fmt.Errorf("%w: no listen address", ErrInvalidServerConfigs)
	}

	if cfg.Server.RequestTimeout < 0 || cfg.Server.WatchTimeout < 0 {
		return fmt.Errorf("%w: negative timeout", ErrInvalidServerConfigs)
	}

	return nil
}

func (cfg *ClientConfig) validate() error {
	if strings.TrimSpace(cfg.Storage.DB.DSN) == "" {
		return fmt.Errorf("%w: empty dsn", ErrInvalidStorageConfigs)
	}

	switch cfg.Storage.DB.Driver {
	case DriverSQLite, DriverBolt, DriverFile:
	default:
		return fmt.Errorf("%w: unsupported local driver %q", ErrInvalidStorageConfigs, cfg.Storage.DB.Driver)
	}

	switch cfg.Adapter.Transport {
	case TransportHTTP:
		if cfg.Adapter.HTTPAddress == "" {
			return fmt.Errorf("%w: empty http address", ErrInvalidAdapterConfigs)
		}
	case TransportGRPC:
		if cfg.Adapter.GRPCAddress == "" {
			return fmt.Errorf("%w: empty grpc address", ErrInvalidAdapterConfigs)
		}
	case TransportNone:
	default:
		return fmt.Errorf("%w: unknown transport %q", ErrInvalidAdapterConfigs, cfg.Adapter.Transport)
	}

	if cfg.Adapter.RequestTimeout < 0 || cfg.Adapter.WatchTimeout < 0 {
		return fmt.Errorf("%w: negative timeout", ErrInvalidAdapterConfigs)
	}

	if cfg.Workers.RefreshInterval < 0 {
		return ErrInvalidWorkerConfigs
	}

	if cfg.Sync.GuardGrace < 0 || cfg.Sync.PushDebounce < 0 {
		return fmt.Errorf("%w: negative duration", ErrInvalidSyncConfigs)
	}

	for _, key := range cfg.Sync.Collections {
		if !slices.Contains(models.SalonCollections, key) {
			return fmt.Errorf("%w: unknown collection %q", ErrInvalidSyncConfigs, key)
		}
	}

	return nil
}

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"fmt"
	"strings"

	"github.com/caarlos0/env/v11"
)

// parseEnv fills cfg from the environment through the env and envPrefix
// tags of [StructuredConfig]. A list such as SYNC_COLLECTIONS="clients, staff,"
// is trimmed and loses its empty items.
func parseEnv(cfg *StructuredConfig) error {
	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("error getting env configs: %w", err)
	}

	cfg.Sync.Collections = compactList(cfg.Sync.Collections)
	return nil
}

// compactList trims every item and drops the empty ones. A list left with
// no items becomes nil so it does not override lower-priority sources.
func compactList(items []string) []string {
	var out []string
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

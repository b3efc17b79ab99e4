package config

import (
	"fmt"
	"slices"

	"github.com/MKhiriev/go-salon-sync/models"
)

// ClientConfig is the client configuration assembled from
// [StructuredConfig]. Storage.DB.Driver is always resolved.
type ClientConfig struct {
	// App contains the payload integrity key and version.
	App App
	// Adapter contains the remote store transport settings.
	Adapter Adapter
	// Storage contains the durable local store settings.
	Storage Storage
	// Sync contains the engine tuning.
	Sync Sync
	// Workers contains background job settings.
	Workers Workers
	// Log contains log level and file.
	Log Log
}

// LoadClientConfig builds and validates the client configuration. Sources
// are merged with this precedence:
//  1. Environment variables
//  2. overrides (values set by the CLI flags; may be nil)
//  3. Config file (path resolved from sources 1 and 2)
//  4. Client defaults
func LoadClientConfig(overrides *StructuredConfig) (*ClientConfig, error) {
	cfg, err := newConfigBuilder().
		withEnv().
		with(overrides).
		withFile().
		withDefaults(clientDefaults()).
		build()
	if err != nil {
		return nil, fmt.Errorf("error get structured config: %w", err)
	}

	clientCfg := &ClientConfig{
		App:     cfg.App,
		Adapter: cfg.Adapter,
		Storage: Storage{
			DB: DB{
				DSN:    cfg.Storage.DB.DSN,
				Driver: cfg.Storage.DB.ClientDriver(),
			},
		},
		Sync:    cfg.Sync,
		Workers: cfg.Workers,
		Log:     cfg.Log,
	}

	return clientCfg, clientCfg.validate()
}

// Collections returns the collection keys the client should open.
func (cfg *ClientConfig) Collections() []string {
	if len(cfg.Sync.Collections) == 0 {
		return slices.Clone(models.SalonCollections)
	}
	return slices.Clone(cfg.Sync.Collections)
}

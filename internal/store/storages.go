package store

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-salon-sync/internal/config"
	"github.com/MKhiriev/go-salon-sync/internal/logger"
)

// Storages groups the server-side repositories.
type Storages struct {
	Collections CollectionRepository
	db          *DB
}

// NewStorages connects to the server database, applies migrations and wires
// the repositories.
func NewStorages(ctx context.Context, cfg config.Storage, log *logger.Logger) (*Storages, error) {
	log.Info().Str("driver", cfg.DB.ServerDriver()).Msg("creating new storages...")

	db, err := NewConnectDB(ctx, cfg.DB, log)
	if err != nil {
		return nil, fmt.Errorf("database connection error: %w", err)
	}

	if err := db.Migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	return &Storages{
		Collections: NewCollectionRepository(db, log),
		db:          db,
	}, nil
}

// Close releases the database connection.
func (s *Storages) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// NewLocalStore opens the client's durable local store using the driver
// resolved in cfg (see [config.DB.ClientDriver]).
func NewLocalStore(ctx context.Context, cfg config.DB, log *logger.Logger) (LocalStore, error) {
	driver := cfg.Driver
	if driver == "" {
		driver = cfg.ClientDriver()
	}

	log.Debug().Str("func", "NewLocalStore").Str("driver", driver).Str("dsn", cfg.DSN).Msg("opening local store")

	switch driver {
	case config.DriverSQLite:
		return NewSQLiteLocalStore(ctx, cfg.DSN, log)
	case config.DriverBolt:
		return NewBoltLocalStore(cfg.DSN, log)
	case config.DriverFile:
		return NewFileLocalStore(cfg.DSN)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedDriver, driver)
	}
}

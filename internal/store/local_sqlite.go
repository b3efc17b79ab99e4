package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/MKhiriev/go-salon-sync/internal/logger"
)

// sqliteLocalStore keeps every collection as one row of the "collections"
// table in a local sqlite file.
type sqliteLocalStore struct {
	*DB
	logger *logger.Logger
}

// NewSQLiteLocalStore opens (creating if needed) the sqlite file at dsn and
// applies the schema.
func NewSQLiteLocalStore(ctx context.Context, dsn string, log *logger.Logger) (LocalStore, error) {
	db, err := NewConnectSQLite(ctx, dsn, log)
	if err != nil {
		return nil, fmt.Errorf("sqlite connection error: %w", err)
	}

	if err := db.Migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	return newSQLiteLocalStore(db, log), nil
}

func newSQLiteLocalStore(db *DB, log *logger.Logger) *sqliteLocalStore {
	return &sqliteLocalStore{DB: db, logger: log}
}

func (s *sqliteLocalStore) Get(ctx context.Context, key string) (string, bool, error) {
	query, args, err := buildGetValueQuery(s.builder(), key)
	if err != nil {
		return "", false, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var value string
	err = s.DB.QueryRowContext(ctx, query, args...).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		s.logger.Err(err).Str("func", "sqliteLocalStore.Get").Str("key", key).Msg("failed to read collection")
		return "", false, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	return value, true, nil
}

func (s *sqliteLocalStore) Set(ctx context.Context, key, value string) error {
	query, args, err := buildUpsertCollectionQuery(s.builder(), key, value, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var version int64
	if err = s.DB.QueryRowContext(ctx, query, args...).Scan(&version); err != nil {
		s.logger.Err(err).Str("func", "sqliteLocalStore.Set").Str("key", key).Msg("failed to write collection")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return nil
}

func (s *sqliteLocalStore) Close() error {
	return s.DB.Close()
}

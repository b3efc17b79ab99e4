package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/MKhiriev/go-salon-sync/internal/logger"
	"github.com/MKhiriev/go-salon-sync/models"
)

const (
	retryBase     = 50 * time.Millisecond
	retryAttempts = 3
)

// collectionRepository is the SQL implementation of [CollectionRepository]
// on top of the "collections" table. Transient failures classified by the
// DB's [ErrorClassificator] are retried with exponential backoff.
type collectionRepository struct {
	*DB
	logger *logger.Logger
	now    func() time.Time
}

// NewCollectionRepository constructs a [CollectionRepository] backed by db.
func NewCollectionRepository(db *DB, logger *logger.Logger) CollectionRepository {
	return &collectionRepository{
		DB:     db,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

func (r *collectionRepository) Get(ctx context.Context, key string) (models.CollectionEntry, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildGetCollectionQuery(r.builder(), key)
	if err != nil {
		log.Err(err).Str("func", "collectionRepository.Get").Str("key", key).Msg("failed to create query")
		return models.CollectionEntry{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var entry models.CollectionEntry
	err = r.withRetry(ctx, func(ctx context.Context) error {
		row := r.DB.QueryRowContext(ctx, query, args...)
		var scanErr error
		entry, scanErr = scanCollection(row)
		return scanErr
	})
	if errors.Is(err, sql.ErrNoRows) {
		return models.CollectionEntry{}, ErrNotFound
	}
	if err != nil {
		log.Err(err).Str("func", "collectionRepository.Get").Str("key", key).Msg("failed to get collection")
		return models.CollectionEntry{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	return entry, nil
}

func (r *collectionRepository) Put(ctx context.Context, key, value string) (models.CollectionEntry, error) {
	log := logger.FromContext(ctx)

	now := r.now()
	query, args, err := buildUpsertCollectionQuery(r.builder(), key, value, now)
	if err != nil {
		log.Err(err).Str("func", "collectionRepository.Put").Str("key", key).Msg("failed to create query")
		return models.CollectionEntry{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var version int64
	err = r.withRetry(ctx, func(ctx context.Context) error {
		return r.DB.QueryRowContext(ctx, query, args...).Scan(&version)
	})
	if errors.Is(err, sql.ErrNoRows) {
		return models.CollectionEntry{}, ErrCollectionNotSaved
	}
	if err != nil {
		log.Err(err).Str("func", "collectionRepository.Put").Str("key", key).Msg("failed to upsert collection")
		return models.CollectionEntry{}, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	log.Debug().Str("func", "collectionRepository.Put").Str("key", key).Int64("version", version).Msg("collection saved")

	return models.CollectionEntry{
		Key:       key,
		Value:     value,
		Version:   version,
		UpdatedAt: &now,
	}, nil
}

func (r *collectionRepository) List(ctx context.Context) ([]models.CollectionEntry, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildListCollectionsQuery(r.builder())
	if err != nil {
		log.Err(err).Str("func", "collectionRepository.List").Msg("failed to create query")
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", "collectionRepository.List").Msg("failed to execute query for listing collections")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	entries := make([]models.CollectionEntry, 0, len(models.SalonCollections))
	for rows.Next() {
		entry, scanErr := scanCollection(rows)
		if scanErr != nil {
			log.Err(scanErr).Str("func", "collectionRepository.List").Msg("failed to scan collection row")
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, scanErr)
		}
		entries = append(entries, entry)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		log.Err(rowsErr).Str("func", "collectionRepository.List").Msg("error occurred during rows iteration")
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, rowsErr)
	}

	return entries, nil
}

func (r *collectionRepository) withRetry(ctx context.Context, op func(ctx context.Context) error) error {
	backoff := retry.WithMaxRetries(retryAttempts, retry.NewExponential(retryBase))
	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		err := op(ctx)
		if err != nil && r.retryable(err) {
			r.logger.Warn().Err(err).Str("func", "collectionRepository.withRetry").Msg("transient database error, retrying")
			return retry.RetryableError(err)
		}
		return err
	})
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCollection(row rowScanner) (models.CollectionEntry, error) {
	var (
		entry     models.CollectionEntry
		updatedAt sql.NullTime
	)
	if err := row.Scan(&entry.Key, &entry.Value, &entry.Version, &updatedAt); err != nil {
		return models.CollectionEntry{}, err
	}
	if updatedAt.Valid {
		t := updatedAt.Time.UTC()
		entry.UpdatedAt = &t
	}
	return entry, nil
}

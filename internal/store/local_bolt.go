package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/MKhiriev/go-salon-sync/internal/logger"
)

var collectionsBucket = []byte("collections")

// boltLocalStore keeps collections in a single bbolt bucket keyed by
// collection key.
type boltLocalStore struct {
	db     *bolt.DB
	logger *logger.Logger
}

// NewBoltLocalStore opens the bbolt file at path. A second process opening
// the same file waits up to one second for the lock.
func NewBoltLocalStore(path string, log *logger.Logger) (LocalStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create bolt dir: %w", err)
		}
	}

	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		log.Err(err).Str("func", "NewBoltLocalStore").Str("path", path).Msg("error opening bolt file")
		return nil, fmt.Errorf("open bolt file: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(collectionsBucket)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create bolt bucket: %w", err)
	}

	return &boltLocalStore{db: db, logger: log}, nil
}

func (s *boltLocalStore) Get(ctx context.Context, key string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}

	var (
		value string
		ok    bool
	)
	err := s.db.View(func(tx *bolt.Tx) error {
		raw := tx.Bucket(collectionsBucket).Get([]byte(key))
		if raw != nil {
			// raw is only valid inside the transaction
			value, ok = string(raw), true
		}
		return nil
	})
	if err != nil {
		return "", false, s.wrap(err)
	}

	return value, ok, nil
}

func (s *boltLocalStore) Set(ctx context.Context, key, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	err := s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(collectionsBucket).Put([]byte(key), []byte(value))
	})
	if err != nil {
		s.logger.Err(err).Str("func", "boltLocalStore.Set").Str("key", key).Msg("failed to write collection")
		return s.wrap(err)
	}

	return nil
}

func (s *boltLocalStore) Close() error {
	return s.db.Close()
}

func (s *boltLocalStore) wrap(err error) error {
	if errors.Is(err, bolt.ErrDatabaseNotOpen) {
		return ErrStoreClosed
	}
	return fmt.Errorf("bolt: %w", err)
}

package adapter

import (
	"context"
	"errors"
	"fmt"

	"github.com/MKhiriev/go-salon-sync/internal/logger"
	"github.com/MKhiriev/go-salon-sync/internal/service"
)

type localRemoteStore struct {
	service service.CollectionService
	subs    *subscriptions
}

// NewLocalRemoteStore returns a [RemoteStore] that calls the server-side
// collection service in the same process. It is used for single-process
// deployments and to run several sync engines against one store in tests.
func NewLocalRemoteStore(collections service.CollectionService, logger *logger.Logger) RemoteStore {
	return &localRemoteStore{
		service: collections,
		subs:    newSubscriptions(logger),
	}
}

func (l *localRemoteStore) Get(ctx context.Context, key string) (string, bool, error) {
	if l.subs.closed() {
		return "", false, ErrClosed
	}

	entry, err := l.service.Get(ctx, key)
	if errors.Is(err, service.ErrCollectionNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, mapServiceError(err)
	}

	return entry.Value, true, nil
}

func (l *localRemoteStore) Set(ctx context.Context, key, text string) error {
	if l.subs.closed() {
		return ErrClosed
	}

	if _, err := l.service.Set(ctx, key, text); err != nil {
		return mapServiceError(err)
	}
	return nil
}

func (l *localRemoteStore) Subscribe(key string, onChange func()) (func(), error) {
	return l.subs.subscribe(key, l.watch, onChange)
}

func (l *localRemoteStore) watch(ctx context.Context, key string, since int64, seen func(int64)) error {
	entry, err := l.service.Watch(ctx, key, since)
	if err != nil {
		return err
	}
	seen(entry.Version)
	return nil
}

func (l *localRemoteStore) Close() error {
	l.subs.close()
	return nil
}

func mapServiceError(err error) error {
	if errors.Is(err, service.ErrInvalidDataProvided) {
		return fmt.Errorf("%w: %w", ErrBadRequest, err)
	}
	return fmt.Errorf("%w: %w", ErrInternalServerError, err)
}

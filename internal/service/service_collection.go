// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/MKhiriev/go-salon-sync/internal/logger"
	"github.com/MKhiriev/go-salon-sync/internal/metrics"
	"github.com/MKhiriev/go-salon-sync/internal/store"
	"github.com/MKhiriev/go-salon-sync/models"
)

type collectionService struct {
	repository store.CollectionRepository
	hub        *watchHub

	logger *logger.Logger
}

// NewCollectionService returns the server-side collection store backed by
// repository. Writes are announced to watchers of the same process only.
func NewCollectionService(repository store.CollectionRepository, logger *logger.Logger) CollectionService {
	return &collectionService{
		repository: repository,
		hub:        newWatchHub(),
		logger:     logger,
	}
}

func (s *collectionService) Get(ctx context.Context, key string) (models.CollectionEntry, error) {
	entry, err := s.repository.Get(ctx, key)
	if errors.Is(err, store.ErrNotFound) {
		return models.CollectionEntry{}, fmt.Errorf("%w: %s", ErrCollectionNotFound, key)
	}
	if err != nil {
		return models.CollectionEntry{}, err
	}
	return entry, nil
}

func (s *collectionService) Set(ctx context.Context, key, value string) (models.CollectionEntry, error) {
	entry, err := s.repository.Put(ctx, key, value)
	if err != nil {
		return models.CollectionEntry{}, err
	}

	metrics.RecordCollectionWrite(key)
	s.hub.publish(key)

	return entry, nil
}

func (s *collectionService) List(ctx context.Context) ([]models.CollectionEntry, error) {
	return s.repository.List(ctx)
}

// Watch implements CollectionService. A key that was never written has
// version 0, so watching it from version 0 waits for the first write.
func (s *collectionService) Watch(ctx context.Context, key string, sinceVersion int64) (models.CollectionEntry, error) {
	done := metrics.TrackWatcher()
	defer done()

	for {
		// grab the channel before reading so a concurrent Set cannot slip by
		changed := s.hub.wait(key)

		entry, err := s.repository.Get(ctx, key)
		switch {
		case errors.Is(err, store.ErrNotFound):
			entry = models.CollectionEntry{Key: key}
		case err != nil:
			return models.CollectionEntry{}, err
		}

		if entry.Version > sinceVersion {
			return entry, nil
		}

		select {
		case <-ctx.Done():
			return models.CollectionEntry{}, ctx.Err()
		case <-changed:
		}
	}
}

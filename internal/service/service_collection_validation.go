package service

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-salon-sync/internal/validators"
	"github.com/MKhiriev/go-salon-sync/models"
)

// CollectionValidationService rejects malformed keys and values before they
// reach the wrapped service. Every rejection wraps ErrInvalidDataProvided.
type CollectionValidationService struct {
	inner     CollectionService
	validator validators.Validator
}

func NewCollectionValidationService() CollectionServiceWrapper {
	return &CollectionValidationService{
		validator: validators.NewCollectionValidator(),
	}
}

func (v *CollectionValidationService) Get(ctx context.Context, key string) (models.CollectionEntry, error) {
	if err := v.validator.Validate(ctx, models.GetCollectionRequest{Key: key}); err != nil {
		return models.CollectionEntry{}, fmt.Errorf("%w: %w", ErrInvalidDataProvided, err)
	}
	return v.inner.Get(ctx, key)
}

func (v *CollectionValidationService) Set(ctx context.Context, key, value string) (models.CollectionEntry, error) {
	if err := v.validator.Validate(ctx, models.PutCollectionRequest{Key: key, Value: value}); err != nil {
		return models.CollectionEntry{}, fmt.Errorf("%w: %w", ErrInvalidDataProvided, err)
	}
	return v.inner.Set(ctx, key, value)
}

func (v *CollectionValidationService) List(ctx context.Context) ([]models.CollectionEntry, error) {
	return v.inner.List(ctx)
}

func (v *CollectionValidationService) Watch(ctx context.Context, key string, sinceVersion int64) (models.CollectionEntry, error) {
	if err := v.validator.Validate(ctx, models.WatchRequest{Key: key, Version: sinceVersion}); err != nil {
		return models.CollectionEntry{}, fmt.Errorf("%w: %w", ErrInvalidDataProvided, err)
	}
	return v.inner.Watch(ctx, key, sinceVersion)
}

func (v *CollectionValidationService) Wrap(inner CollectionService) CollectionService {
	v.inner = inner
	return v
}

package store

import (
	"context"

	"github.com/MKhiriev/go-salon-sync/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/store_mock.go -package=mock

// LocalStore is the durable key-value persistence backing every collection
// on the client. Values are opaque serialized collections; a missing key is
// reported with ok == false and a nil error.
type LocalStore interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Close() error
}

// CollectionRepository is the server-side persistence of collection values.
// Every Put bumps the entry version by one.
type CollectionRepository interface {
	Get(ctx context.Context, key string) (models.CollectionEntry, error)
	Put(ctx context.Context, key, value string) (models.CollectionEntry, error)
	List(ctx context.Context) ([]models.CollectionEntry, error)
}

// ErrorClassificator decides whether a failed database call may be retried.
type ErrorClassificator interface {
	Classify(err error) ErrorClassification
}

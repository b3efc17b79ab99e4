package service

import (
	"context"

	"github.com/MKhiriev/go-salon-sync/models"
)

// RemoteCollectionStore is the shared key-to-text store every client of the
// salon synchronizes with. It is satisfied by adapter.RemoteStore.
type RemoteCollectionStore interface {
	// Get returns the text stored under key. found is false and err is nil
	// when the key was never written.
	Get(ctx context.Context, key string) (text string, found bool, err error)

	// Set replaces the whole value stored under key.
	Set(ctx context.Context, key, text string) error

	// Subscribe registers onChange for successful writes to key by any
	// client. The returned function ends the subscription.
	Subscribe(key string, onChange func()) (unsubscribe func(), err error)
}

// CollectionService is the server side of the remote store: a versioned
// key-to-text map with change notification.
type CollectionService interface {
	// Get returns the entry stored under key or ErrCollectionNotFound.
	Get(ctx context.Context, key string) (models.CollectionEntry, error)

	// Set validates and stores value under key, bumping its version, and
	// wakes every watcher of key.
	Set(ctx context.Context, key, value string) (models.CollectionEntry, error)

	// List returns every stored entry ordered by key.
	List(ctx context.Context) ([]models.CollectionEntry, error)

	// Watch blocks until the version stored under key is greater than
	// sinceVersion and returns that entry. It returns ctx.Err() when ctx ends
	// first.
	Watch(ctx context.Context, key string, sinceVersion int64) (models.CollectionEntry, error)
}

// CollectionServiceWrapper defines middleware composition for
// CollectionService. Implementations wrap an existing service to add
// behavior such as validation or logging.
type CollectionServiceWrapper interface {
	Wrap(CollectionService) CollectionService
}

type AppInfoService interface {
	GetAppVersion(ctx context.Context) string
	GetVersionInfo(ctx context.Context) models.VersionInfo
}

// Refresher is anything that can pull its remote state on demand.
type Refresher interface {
	Refresh(ctx context.Context) error
}

// RefresherFunc adapts a plain function, such as [Registry.RefreshAll], to
// [Refresher].
type RefresherFunc func(ctx context.Context) error

func (f RefresherFunc) Refresh(ctx context.Context) error {
	return f(ctx)
}

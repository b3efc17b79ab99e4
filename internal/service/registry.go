package service

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/MKhiriev/go-salon-sync/internal/logger"
	"github.com/MKhiriev/go-salon-sync/internal/store"
	"github.com/MKhiriev/go-salon-sync/models"
)

// handle is the type-erased view of a [Collection] kept by the registry.
type handle interface {
	Key() string
	Status() Status
	Refresh(ctx context.Context) error
	Close()

	encoded() (string, error)
	upsertJSON(raw []byte) error
	observeAny(fn func()) func()
}

// Registry hands out exactly one [Collection] per key. Opening a key twice
// returns the handle created first, so every consumer shares one
// coordinator and one subscription.
type Registry struct {
	ctx    context.Context
	local  store.LocalStore
	remote RemoteCollectionStore
	opts   SyncOptions
	log    *logger.Logger

	mu      sync.Mutex
	handles map[string]handle
	closed  bool
}

// NewRegistry creates a registry whose collections persist to local and
// synchronize with remote. A nil remote opens every collection in
// local-only mode. ctx bounds the lifetime of all background work.
func NewRegistry(ctx context.Context, local store.LocalStore, remote RemoteCollectionStore, opts SyncOptions, log *logger.Logger) *Registry {
	return &Registry{
		ctx:     ctx,
		local:   local,
		remote:  remote,
		opts:    opts,
		log:     log,
		handles: make(map[string]handle),
	}
}

// OpenCollection returns the collection registered under key, creating it
// with initial as the starting value when nothing is stored locally.
func OpenCollection[T models.Record](reg *Registry, key string, initial []T) (*Collection[T], error) {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	if reg.closed {
		return nil, ErrRegistryClosed
	}

	if h, ok := reg.handles[key]; ok {
		col, ok := h.(*Collection[T])
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrCollectionTypeMismatch, key)
		}
		return col, nil
	}

	col := newCollection(reg.ctx, key, reg.local, reg.remote, initial, reg.opts, reg.log)
	reg.handles[key] = col

	return col, nil
}

// Keys returns the keys of every open collection, sorted.
func (r *Registry) Keys() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	keys := make([]string, 0, len(r.handles))
	for key := range r.handles {
		keys = append(keys, key)
	}
	slices.Sort(keys)

	return keys
}

func (r *Registry) snapshot() []handle {
	r.mu.Lock()
	defer r.mu.Unlock()

	handles := make([]handle, 0, len(r.handles))
	for _, h := range r.handles {
		handles = append(handles, h)
	}
	slices.SortFunc(handles, func(a, b handle) int {
		return cmp.Compare(a.Key(), b.Key())
	})

	return handles
}

// Statuses returns the sync status of every open collection ordered by key.
func (r *Registry) Statuses() []Status {
	handles := r.snapshot()

	out := make([]Status, 0, len(handles))
	for _, h := range handles {
		out = append(out, h.Status())
	}

	return out
}

// RefreshAll pulls every open collection. Local-only collections are
// skipped; other failures are joined.
func (r *Registry) RefreshAll(ctx context.Context) error {
	var errs []error
	for _, h := range r.snapshot() {
		err := h.Refresh(ctx)
		if err == nil || errors.Is(err, ErrLocalOnly) || errors.Is(err, ErrCollectionClosed) {
			continue
		}
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

func (r *Registry) lookup(key string) (handle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	h, ok := r.handles[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownCollection, key)
	}
	return h, nil
}

// Encoded returns the current value of the collection under key as a JSON
// array.
func (r *Registry) Encoded(key string) (string, error) {
	h, err := r.lookup(key)
	if err != nil {
		return "", err
	}
	return h.encoded()
}

// UpsertJSON decodes raw as one record of the collection under key and
// upserts it. The record must carry an id; it is stored as given, so the
// caller stamps lastModified.
func (r *Registry) UpsertJSON(key string, raw []byte) error {
	h, err := r.lookup(key)
	if err != nil {
		return err
	}
	return h.upsertJSON(raw)
}

// Observe calls fn with the key of every open collection that publishes a
// change. Collections opened later are not observed.
func (r *Registry) Observe(fn func(key string)) (cancel func()) {
	handles := r.snapshot()

	cancels := make([]func(), 0, len(handles))
	for _, h := range handles {
		key := h.Key()
		cancels = append(cancels, h.observeAny(func() { fn(key) }))
	}

	return func() {
		for _, c := range cancels {
			c()
		}
	}
}

// Close closes and forgets the collection under key. A later OpenCollection
// for the same key starts a fresh coordinator from the local copy.
func (r *Registry) Close(key string) error {
	r.mu.Lock()
	h, ok := r.handles[key]
	delete(r.handles, key)
	r.mu.Unlock()

	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownCollection, key)
	}
	h.Close()

	return nil
}

// CloseAll closes every collection. The registry refuses new collections
// afterwards. The stores themselves are owned by the caller.
func (r *Registry) CloseAll() {
	r.mu.Lock()
	r.closed = true
	handles := make([]handle, 0, len(r.handles))
	for _, h := range r.handles {
		handles = append(handles, h)
	}
	clear(r.handles)
	r.mu.Unlock()

	var wg sync.WaitGroup
	for _, h := range handles {
		wg.Add(1)
		go func() {
			defer wg.Done()
			h.Close()
		}()
	}
	wg.Wait()
}

// Salon groups the eight collections of one salon.
type Salon struct {
	Clients      *Collection[models.Client]
	Services     *Collection[models.Service]
	Staff        *Collection[models.Staff]
	Transactions *Collection[models.Transaction]
	Appointments *Collection[models.Appointment]
	Enquiries    *Collection[models.Enquiry]
	Feedbacks    *Collection[models.Feedback]
	Categories   *Collection[models.Category]
}

// OpenSalon opens every salon collection. Categories, services and staff
// start from the default catalogue when nothing is stored locally. The
// defaults carry [models.SeedEpoch], so a pull always prefers the remote
// copy of a default record, and they are not pushed until edited.
func OpenSalon(reg *Registry) (*Salon, error) {
	return OpenSalonCollections(reg, models.SalonCollections...)
}

// OpenSalonCollections opens only the listed salon collections. Fields of
// the returned Salon for keys not listed stay nil.
func OpenSalonCollections(reg *Registry, keys ...string) (*Salon, error) {
	var (
		s   Salon
		err error
	)

	for _, key := range keys {
		switch key {
		case models.CollectionClients:
			s.Clients, err = OpenCollection[models.Client](reg, key, nil)
		case models.CollectionServices:
			s.Services, err = OpenCollection(reg, key, models.SeedServices(models.SeedEpoch))
		case models.CollectionStaff:
			s.Staff, err = OpenCollection(reg, key, models.SeedStaff(models.SeedEpoch))
		case models.CollectionTransactions:
			s.Transactions, err = OpenCollection[models.Transaction](reg, key, nil)
		case models.CollectionAppointments:
			s.Appointments, err = OpenCollection[models.Appointment](reg, key, nil)
		case models.CollectionEnquiries:
			s.Enquiries, err = OpenCollection[models.Enquiry](reg, key, nil)
		case models.CollectionFeedbacks:
			s.Feedbacks, err = OpenCollection[models.Feedback](reg, key, nil)
		case models.CollectionCategories:
			s.Categories, err = OpenCollection(reg, key, models.SeedCategories(models.SeedEpoch))
		default:
			err = fmt.Errorf("%w: %s", ErrUnknownCollection, key)
		}
		if err != nil {
			return nil, err
		}
	}

	return &s, nil
}

package service

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/MKhiriev/go-salon-sync/internal/logger"
	"github.com/MKhiriev/go-salon-sync/internal/store"
	"github.com/MKhiriev/go-salon-sync/models"
)

// Change is delivered to observers after every published value.
type Change[T models.Record] struct {
	// Value is a private copy of the collection after the change.
	Value []T
	// Origin tells whether the change came from the application or a pull.
	Origin Origin
	// Revision increases by one with every published value. Observers that
	// receive changes out of order can drop stale ones by comparing it.
	Revision uint64

	col      *Collection[T]
	dispatch *atomic.Bool
}

// Update applies fn to the collection as a consequence of this change.
// Called from the observer while a pulled change is being delivered, the
// update keeps the remote origin and is never pushed on its own. Called at
// any other time it behaves like [Collection.Update].
func (ch Change[T]) Update(fn func(current []T) []T) {
	if ch.col == nil {
		return
	}
	if ch.Origin == OriginRemote && ch.dispatch != nil && ch.dispatch.Load() {
		ch.col.apply(fn, OriginRemote)
		return
	}
	ch.col.Update(fn)
}

// Collection is the live, observable view of one synchronized collection.
// Reads never block on the network. Writes update memory and the local
// store before they return and are pushed to the remote store in the
// background.
//
// A Collection is obtained from [OpenCollection] and must be shared by every
// consumer of its key within the process.
type Collection[T models.Record] struct {
	key   string
	local store.LocalStore
	state *SyncState
	coord *syncCoordinator[T]
	log   *logger.Logger

	// writeMu serializes publish and persist so the local store always
	// receives values in publish order.
	writeMu sync.Mutex

	mu           sync.RWMutex
	value        []T
	revision     uint64
	observers    map[int]func(Change[T])
	nextObserver int
}

func newCollection[T models.Record](ctx context.Context, key string, local store.LocalStore, remote RemoteCollectionStore, initial []T, opts SyncOptions, log *logger.Logger) *Collection[T] {
	log = log.ForCollection(key)

	c := &Collection[T]{
		key:       key,
		local:     local,
		state:     newSyncState(key),
		log:       log,
		observers: make(map[int]func(Change[T])),
	}
	c.value = c.load(ctx, initial)
	c.coord = newSyncCoordinator(c, remote, c.state, opts, log)
	c.coord.start(ctx)

	return c
}

// load reads the last persisted value. initial is used when nothing is
// stored yet or the stored text cannot be decoded.
func (c *Collection[T]) load(ctx context.Context, initial []T) []T {
	fallback := slices.Clone(initial)
	if fallback == nil {
		fallback = []T{}
	}
	if c.local == nil {
		return fallback
	}

	text, ok, err := c.local.Get(ctx, c.key)
	if err != nil {
		c.log.Err(err).Msg("cannot read local copy, starting from the initial value")
		return fallback
	}
	if !ok {
		return fallback
	}

	stored, err := DecodeCollection[T](text)
	if err != nil {
		c.log.Err(err).Msg("local copy is corrupted, starting from the initial value")
		return fallback
	}

	return stored
}

// Key returns the collection key.
func (c *Collection[T]) Key() string {
	return c.key
}

// Value returns a copy of the current collection.
func (c *Collection[T]) Value() []T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.value)
}

// Set replaces the whole collection.
func (c *Collection[T]) Set(value []T) {
	next := slices.Clone(value)
	c.Update(func([]T) []T { return next })
}

// Update replaces the collection with fn applied to a copy of the current
// value. fn must not call back into the same collection.
//
// While a pulled value is being published the update is tagged remote. If it
// changed the value it is still pushed once the guard is lowered; observers
// that recompute the collection from a pulled change use [Change.Update]
// instead.
func (c *Collection[T]) Update(fn func(current []T) []T) {
	if c.state.closed() {
		c.log.Debug().Msg("update on a closed collection ignored")
		return
	}

	origin := c.state.originForUpdate()
	if origin == OriginLocal {
		c.apply(fn, OriginLocal)
		return
	}

	var changed bool
	applied := c.apply(func(current []T) []T {
		before, _ := EncodeCollection(current)
		next := fn(current)
		after, _ := EncodeCollection(next)
		changed = after != before
		return next
	}, OriginRemote)

	if applied && changed && !c.state.markGuardedChange() {
		c.coord.schedulePush()
	}
}

// apply publishes fn(current), persists it and notifies observers. It
// returns false when the collection is already closed.
func (c *Collection[T]) apply(fn func(current []T) []T, origin Origin) bool {
	c.writeMu.Lock()

	if c.state.closed() {
		c.writeMu.Unlock()
		return false
	}

	c.mu.Lock()
	next := fn(slices.Clone(c.value))
	if next == nil {
		next = []T{}
	}
	c.value = next
	c.revision++
	if origin == OriginLocal {
		c.state.markLocalEdit()
	}
	change := Change[T]{Value: slices.Clone(next), Origin: origin, Revision: c.revision}
	observers := make([]func(Change[T]), 0, len(c.observers))
	for _, fn := range c.observers {
		observers = append(observers, fn)
	}
	c.mu.Unlock()

	c.persist(change.Value)
	c.writeMu.Unlock()

	dispatch := new(atomic.Bool)
	dispatch.Store(true)
	for _, observer := range observers {
		observer(Change[T]{
			Value:    slices.Clone(change.Value),
			Origin:   change.Origin,
			Revision: change.Revision,
			col:      c,
			dispatch: dispatch,
		})
	}
	dispatch.Store(false)

	c.coord.onChange(origin)

	return true
}

func (c *Collection[T]) persist(value []T) {
	if c.local == nil {
		return
	}

	text, err := EncodeCollection(value)
	if err != nil {
		c.log.Err(err).Msg("cannot serialize collection for the local store")
		return
	}

	if err = c.local.Set(context.Background(), c.key, text); err != nil {
		c.log.Err(err).Msg("cannot persist collection locally")
	}
}

// Observe registers fn for every published change and returns a function
// that removes it. fn runs on the goroutine that made the change. To derive
// a new value from a pulled change without pushing it, fn calls
// [Change.Update].
func (c *Collection[T]) Observe(fn func(Change[T])) (cancel func()) {
	c.mu.Lock()
	id := c.nextObserver
	c.nextObserver++
	c.observers[id] = fn
	c.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			c.mu.Lock()
			delete(c.observers, id)
			c.mu.Unlock()
		})
	}
}

// Status returns a snapshot of the collection's sync state.
func (c *Collection[T]) Status() Status {
	st := c.state.snapshot()

	c.mu.RLock()
	st.Records = len(c.value)
	c.mu.RUnlock()

	return st
}

// Refresh pulls the remote value and merges it now instead of waiting for a
// change notification. It returns ErrLocalOnly when the collection has no
// working remote store and ErrCollectionClosed after Close.
func (c *Collection[T]) Refresh(ctx context.Context) error {
	return c.coord.refresh(ctx)
}

// Close ends the remote subscription and stops background work. The local
// store already holds the latest value; a push still pending is dropped and
// the value reaches the remote with the next local edit. Close is
// idempotent.
func (c *Collection[T]) Close() {
	if c.state.closed() {
		return
	}
	c.coord.stop()

	c.mu.Lock()
	clear(c.observers)
	c.mu.Unlock()
}

func (c *Collection[T]) encoded() (string, error) {
	return EncodeCollection(c.Value())
}

func (c *Collection[T]) upsertJSON(raw []byte) error {
	var rec T
	if err := json.Unmarshal(raw, &rec); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidRecord, err)
	}
	if strings.TrimSpace(rec.RecordID()) == "" {
		return fmt.Errorf("%w: missing id", ErrInvalidRecord)
	}
	Upsert(c, rec)
	return nil
}

func (c *Collection[T]) observeAny(fn func()) func() {
	return c.Observe(func(Change[T]) { fn() })
}

// Upsert replaces the record with rec's id or appends rec when the id is
// new. The caller stamps rec, typically with rec.Syncable.Touched(now).
func Upsert[T models.Record](c *Collection[T], rec T) {
	c.Update(func(current []T) []T {
		i := slices.IndexFunc(current, func(r T) bool { return r.RecordID() == rec.RecordID() })
		if i < 0 {
			return append(current, rec)
		}
		current[i] = rec
		return current
	})
}

// Find returns the record with id.
func Find[T models.Record](c *Collection[T], id string) (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	i := slices.IndexFunc(c.value, func(r T) bool { return r.RecordID() == id })
	if i < 0 {
		var zero T
		return zero, false
	}
	return c.value[i], true
}

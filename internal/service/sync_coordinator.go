// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/MKhiriev/go-salon-sync/internal/logger"
	"github.com/MKhiriev/go-salon-sync/internal/metrics"
	"github.com/MKhiriev/go-salon-sync/internal/utils"
	"github.com/MKhiriev/go-salon-sync/models"
)

// traceIDs tags every pull and push so one id follows it to the server.
var traceIDs = utils.NewUUIDGenerator()

// SyncOptions tunes the coordinator of every collection opened through a
// [Registry].
type SyncOptions struct {
	// GuardGrace keeps the remote guard raised for this long after a pulled
	// value is published. Updates arriving inside the window are treated as
	// consequences of the pull. Zero lowers the guard as soon as observers
	// have been notified.
	GuardGrace time.Duration

	// PushDebounce delays a push so that a burst of local edits results in a
	// single write. Zero pushes as soon as the pusher is free.
	PushDebounce time.Duration

	// Now is the clock used for status timestamps. Defaults to time.Now.
	Now func() time.Time
}

func (o SyncOptions) now() time.Time {
	if o.Now != nil {
		return o.Now()
	}
	return time.Now()
}

// syncCoordinator drives the pull and push paths of one collection. Pulls
// are serialized on one goroutine, pushes on another. Subscription callbacks
// only signal the pull goroutine, so a burst of notifications collapses into
// one pull.
type syncCoordinator[T models.Record] struct {
	col    *Collection[T]
	remote RemoteCollectionStore
	state  *SyncState
	opts   SyncOptions
	log    *logger.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	pullCh    chan struct{}
	pushCh    chan struct{}
	refreshCh chan chan error

	mu         sync.Mutex
	graceTimer *time.Timer
}

func newSyncCoordinator[T models.Record](col *Collection[T], remote RemoteCollectionStore, state *SyncState, opts SyncOptions, log *logger.Logger) *syncCoordinator[T] {
	return &syncCoordinator[T]{
		col:       col,
		remote:    remote,
		state:     state,
		opts:      opts,
		log:       log,
		pullCh:    make(chan struct{}, 1),
		pushCh:    make(chan struct{}, 1),
		refreshCh: make(chan chan error),
	}
}

// start subscribes to the remote key and launches the pull and push loops.
// Without a remote, or when the subscription cannot be established, the
// collection stays local-only for the rest of its life.
func (c *syncCoordinator[T]) start(parent context.Context) {
	if c.remote == nil {
		c.localOnly(fmt.Errorf("%w: no remote store configured", ErrLocalOnly))
		return
	}

	unsubscribe, err := c.remote.Subscribe(c.state.key, c.notify)
	if err != nil {
		c.localOnly(fmt.Errorf("subscribe: %w", err))
		return
	}
	c.state.setUnsubscribe(unsubscribe)

	if !c.state.transition(StatePullingInitial) {
		unsubscribe()
		return
	}

	c.ctx, c.cancel = context.WithCancel(parent)

	c.wg.Add(2)
	go c.pullLoop()
	go c.pushLoop()

	c.notify()
}

func (c *syncCoordinator[T]) localOnly(reason error) {
	if c.state.goLocalOnly(reason) {
		c.log.Warn().Err(reason).Msg("remote store unavailable, collection continues in local-only mode")
	}
}

// notify is the subscription callback. It never blocks.
func (c *syncCoordinator[T]) notify() {
	select {
	case c.pullCh <- struct{}{}:
	default:
	}
}

func (c *syncCoordinator[T]) pullLoop() {
	defer c.wg.Done()

	for {
		select {
		case <-c.ctx.Done():
			return
		case <-c.pullCh:
			_ = c.pull(c.ctx)
		case reply := <-c.refreshCh:
			reply <- c.pull(c.ctx)
		}
	}
}

// refresh asks the pull loop for an out-of-band pull and waits for it.
func (c *syncCoordinator[T]) refresh(ctx context.Context) error {
	switch c.state.State() {
	case StateTornDown:
		return ErrCollectionClosed
	case StateLocalOnly:
		return ErrLocalOnly
	}
	if c.ctx == nil {
		return ErrLocalOnly
	}

	reply := make(chan error, 1)
	select {
	case c.refreshCh <- reply:
	case <-c.ctx.Done():
		return ErrCollectionClosed
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case err := <-reply:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// pull fetches the remote value, merges it into the live value and publishes
// the result under the remote guard. A pull never pushes what it received:
// the only pushes it can lead to carry local edits the remote has not
// acknowledged yet.
func (c *syncCoordinator[T]) pull(ctx context.Context) error {
	traceID := traceIDs.Generate()
	text, found, err := c.remote.Get(utils.WithTraceID(ctx, traceID), c.state.key)
	if err != nil {
		if c.state.closed() || errors.Is(err, context.Canceled) {
			return ErrCollectionClosed
		}
		c.log.Err(err).Str("trace_id", traceID).Msg("pull failed, will retry on next notification")
		c.state.completePull(c.opts.now(), err)
		metrics.RecordPull(c.state.key, metrics.ResultError, 0)
		return fmt.Errorf("pull %s: %w", c.state.key, err)
	}

	result := metrics.ResultOK
	var remote []T
	switch {
	case !found:
		result = metrics.ResultAbsent
	default:
		remote, err = DecodeCollection[T](text)
		if err != nil {
			c.log.Warn().Err(err).Msg("remote payload is malformed, merging against an empty collection")
			result = metrics.ResultMalformed
			remote = nil
		}
	}

	c.state.raiseGuard()
	var merged []T
	applied := c.col.apply(func(current []T) []T {
		merged = Merge(current, remote)
		return merged
	}, OriginRemote)
	if !applied {
		c.state.lowerGuard()
		return ErrCollectionClosed
	}

	if c.state.completePull(c.opts.now(), nil) {
		c.log.Info().Int("records", len(merged)).Msg("initial sync completed")
	}
	metrics.RecordPull(c.state.key, result, len(merged))

	c.releaseGuard()

	return nil
}

// releaseGuard lowers the remote guard, immediately or after GuardGrace. A
// push is scheduled only for unpushed edits: ones made before the first
// pull, ones made under the guard, and ones whose push failed.
func (c *syncCoordinator[T]) releaseGuard() {
	lower := func() {
		c.state.lowerGuard()
		if c.state.hasUnpushedEdits() {
			c.schedulePush()
		}
	}

	c.mu.Lock()
	if c.graceTimer != nil {
		c.graceTimer.Stop()
		c.graceTimer = nil
	}
	if c.opts.GuardGrace > 0 {
		c.graceTimer = time.AfterFunc(c.opts.GuardGrace, lower)
		c.mu.Unlock()
		return
	}
	c.mu.Unlock()

	lower()
}

// onChange is called by the collection after every published change.
func (c *syncCoordinator[T]) onChange(origin Origin) {
	if origin == OriginLocal {
		c.schedulePush()
	}
}

// schedulePush marks the collection dirty. Pushes are held back until the
// first pull completed so that a stale startup snapshot never overwrites
// the remote.
func (c *syncCoordinator[T]) schedulePush() {
	if c.ctx == nil || !c.state.InitialSynced() {
		return
	}
	if c.state.State() != StateSubscribed {
		return
	}

	select {
	case c.pushCh <- struct{}{}:
	default:
	}
}

func (c *syncCoordinator[T]) pushLoop() {
	defer c.wg.Done()

	for {
		select {
		case <-c.ctx.Done():
			return
		case <-c.pushCh:
		}

		if c.opts.PushDebounce > 0 {
			t := time.NewTimer(c.opts.PushDebounce)
			select {
			case <-c.ctx.Done():
				t.Stop()
				return
			case <-t.C:
			}
		}

		// the push reads the latest value, so signals raised meanwhile are covered
		select {
		case <-c.pushCh:
		default:
		}

		c.push(c.ctx)
	}
}

// push writes the live value as it is now, so a push never carries a value
// older than the latest local update.
func (c *syncCoordinator[T]) push(ctx context.Context) {
	c.state.beginPush()
	value := c.col.Value()

	text, err := EncodeCollection(value)
	if err != nil {
		c.log.Err(err).Msg("cannot serialize collection for push")
		c.state.completePush(c.opts.now(), err)
		metrics.RecordPush(c.state.key, err)
		return
	}

	traceID := traceIDs.Generate()
	err = c.remote.Set(utils.WithTraceID(ctx, traceID), c.state.key, text)
	if err != nil && c.state.closed() {
		return
	}
	c.state.completePush(c.opts.now(), err)
	metrics.RecordPush(c.state.key, err)
	if err != nil {
		c.log.Err(err).Str("trace_id", traceID).Msg("push failed, will retry after the next pull or edit")
		return
	}

	c.log.Debug().Int("records", len(value)).Msg("collection pushed")
}

// stop tears the coordinator down and waits for both loops to exit.
func (c *syncCoordinator[T]) stop() {
	unsubscribe := c.state.tearDown()

	if c.cancel != nil {
		c.cancel()
	}
	if unsubscribe != nil {
		unsubscribe()
	}

	c.mu.Lock()
	if c.graceTimer != nil {
		c.graceTimer.Stop()
		c.graceTimer = nil
	}
	c.mu.Unlock()

	c.wg.Wait()
}

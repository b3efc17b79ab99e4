package client

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MKhiriev/go-salon-sync/internal/adapter"
	"github.com/MKhiriev/go-salon-sync/internal/config"
	"github.com/MKhiriev/go-salon-sync/internal/logger"
	"github.com/MKhiriev/go-salon-sync/internal/service"
	"github.com/MKhiriev/go-salon-sync/internal/store"
	"github.com/MKhiriev/go-salon-sync/internal/workers"
)

const statusPollInterval = 50 * time.Millisecond

// App owns the client-side sync stack: the local store, the optional remote
// store and the registry holding every open salon collection.
type App struct {
	local    store.LocalStore
	remote   adapter.RemoteStore
	registry *service.Registry
	salon    *service.Salon
	refresh  *service.RefreshJob

	cancel context.CancelFunc
	logger *logger.Logger
}

// NewApp opens the local store, connects the configured transport and opens
// the configured collections. Collections start syncing right away; the
// returned App must be closed.
func NewApp(ctx context.Context, cfg *config.ClientConfig, logger *logger.Logger) (*App, error) {
	local, err := store.NewLocalStore(ctx, cfg.Storage.DB, logger)
	if err != nil {
		return nil, fmt.Errorf("create local store: %w", err)
	}

	remote, err := adapter.NewRemoteStore(cfg.Adapter, cfg.App, logger)
	if err != nil {
		_ = local.Close()
		return nil, fmt.Errorf("create remote store: %w", err)
	}

	return newApp(ctx, local, remote, cfg, logger)
}

func newApp(ctx context.Context, local store.LocalStore, remote adapter.RemoteStore, cfg *config.ClientConfig, logger *logger.Logger) (*App, error) {
	// a nil adapter must reach the registry as a nil interface
	var remoteStore service.RemoteCollectionStore
	if remote != nil {
		remoteStore = remote
	} else {
		logger.Info().Msg("no remote transport configured, collections run local-only")
	}

	ctx, cancel := context.WithCancel(ctx)
	registry := service.NewRegistry(ctx, local, remoteStore, service.SyncOptions{
		GuardGrace:   cfg.Sync.GuardGrace,
		PushDebounce: cfg.Sync.PushDebounce,
	}, logger)

	a := &App{
		local:    local,
		remote:   remote,
		registry: registry,
		refresh:  service.NewRefreshJob(registry, cfg.Workers.RefreshInterval, logger),
		cancel:   cancel,
		logger:   logger,
	}

	salon, err := service.OpenSalonCollections(registry, cfg.Collections()...)
	if err != nil {
		_ = a.Close()
		return nil, fmt.Errorf("open collections: %w", err)
	}
	a.salon = salon

	return a, nil
}

// Registry returns the registry of open collections.
func (a *App) Registry() *service.Registry {
	return a.registry
}

// Salon returns the typed collections. Fields of collections not enabled
// in the config are nil.
func (a *App) Salon() *service.Salon {
	return a.salon
}

// Run runs the periodic refresh next to foreground and returns when
// foreground does. A nil foreground runs until ctx is cancelled.
func (a *App) Run(ctx context.Context, foreground workers.Worker) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	group := workers.NewWorkers(a.refresh)
	if foreground != nil {
		group.Add(workers.WorkerFunc(func(ctx context.Context) error {
			defer cancel()
			return foreground.Run(ctx)
		}))
	}

	err := group.Run(ctx)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// WaitInitialSync blocks until every open collection finished its first
// pull or fell back to local-only mode.
func (a *App) WaitInitialSync(ctx context.Context) error {
	return a.waitFor(ctx, func(st service.Status) bool {
		return st.InitialSynced || st.State == service.StateLocalOnly
	})
}

// WaitPushed blocks until the collection under key has pushed more than
// pushes times, or cannot push at all.
func (a *App) WaitPushed(ctx context.Context, key string, pushes int) error {
	return a.waitFor(ctx, func(st service.Status) bool {
		return st.Key != key || st.Pushes > pushes || st.State == service.StateLocalOnly
	})
}

func (a *App) waitFor(ctx context.Context, done func(service.Status) bool) error {
	t := time.NewTicker(statusPollInterval)
	defer t.Stop()

	for {
		ready := true
		for _, st := range a.registry.Statuses() {
			if !done(st) {
				ready = false
				break
			}
		}
		if ready {
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
		}
	}
}

// Status returns the status of the collection under key.
func (a *App) Status(key string) (service.Status, error) {
	for _, st := range a.registry.Statuses() {
		if st.Key == key {
			return st, nil
		}
	}
	return service.Status{}, fmt.Errorf("%w: %s", service.ErrUnknownCollection, key)
}

// Close closes every collection, then the remote and local stores.
func (a *App) Close() error {
	a.refresh.Stop()
	a.registry.CloseAll()
	a.cancel()

	var errs []error
	if a.remote != nil {
		if err := a.remote.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close remote store: %w", err))
		}
	}
	if err := a.local.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close local store: %w", err))
	}

	return errors.Join(errs...)
}

package adapter

import (
	"context"
	"net"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"

	"github.com/MKhiriev/go-salon-sync/internal/config"
	myGRPC "github.com/MKhiriev/go-salon-sync/internal/handler/grpc"
	"github.com/MKhiriev/go-salon-sync/internal/logger"
	"github.com/MKhiriev/go-salon-sync/internal/service"
	"github.com/MKhiriev/go-salon-sync/internal/store"
	"github.com/MKhiriev/go-salon-sync/models"
)

// newCollectionService returns the validated server-side service over an
// in-memory sqlite database.
func newCollectionService(t *testing.T) service.CollectionService {
	t.Helper()
	storages, err := store.NewStorages(context.Background(), config.Storage{
		DB: config.DB{DSN: config.MemoryDSN, Driver: config.DriverSQLite},
	}, logger.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = storages.Close() })

	return service.NewCollectionValidationService().Wrap(
		service.NewCollectionService(storages.Collections, logger.Nop()),
	)
}

// ── NewRemoteStore ───────────────────────────────────────────────────────────

func TestNewRemoteStore(t *testing.T) {
	tests := []struct {
		name      string
		cfg       config.Adapter
		wantNil   bool
		wantErrIs error
	}{
		{name: "http", cfg: config.Adapter{Transport: config.TransportHTTP, HTTPAddress: "localhost:8080"}},
		{name: "grpc", cfg: config.Adapter{Transport: config.TransportGRPC, GRPCAddress: "localhost:9090"}},
		{name: "none", cfg: config.Adapter{Transport: config.TransportNone}, wantNil: true},
		{name: "unknown", cfg: config.Adapter{Transport: "carrier-pigeon"}, wantErrIs: ErrUnknownTransport},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := NewRemoteStore(tt.cfg, config.App{}, logger.Nop())
			if tt.wantErrIs != nil {
				require.ErrorIs(t, err, tt.wantErrIs)
				return
			}
			require.NoError(t, err)
			if tt.wantNil {
				assert.Nil(t, s)
				return
			}
			require.NotNil(t, s)
			assert.NoError(t, s.Close())
		})
	}
}

func TestNewRemoteStore_InvalidAddresses(t *testing.T) {
	_, err := NewRemoteStore(config.Adapter{Transport: config.TransportHTTP}, config.App{}, logger.Nop())
	assert.Error(t, err)

	_, err = NewRemoteStore(config.Adapter{Transport: config.TransportGRPC}, config.App{}, logger.Nop())
	assert.Error(t, err)
}

// ── in-process store ─────────────────────────────────────────────────────────

func TestLocalRemoteStore_GetSetSubscribe(t *testing.T) {
	ctx := context.Background()
	s := NewLocalRemoteStore(newCollectionService(t), logger.Nop())
	defer s.Close()

	_, found, err := s.Get(ctx, "clients")
	require.NoError(t, err)
	assert.False(t, found)

	var calls atomic.Int64
	unsubscribe, err := s.Subscribe("clients", func() { calls.Add(1) })
	require.NoError(t, err)
	defer unsubscribe()

	// baseline
	require.Eventually(t, func() bool { return calls.Load() == 1 }, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, s.Set(ctx, "clients", `[{"id":"A"}]`))
	require.Eventually(t, func() bool { return calls.Load() == 2 }, 2*time.Second, 10*time.Millisecond)

	text, found, err := s.Get(ctx, "clients")
	require.NoError(t, err)
	assert.True(t, found)
	assert.JSONEq(t, `[{"id":"A"}]`, text)
}

func TestLocalRemoteStore_RejectsInvalidPayload(t *testing.T) {
	s := NewLocalRemoteStore(newCollectionService(t), logger.Nop())
	defer s.Close()

	err := s.Set(context.Background(), "clients", `{"id":"A"}`)

	assert.ErrorIs(t, err, ErrBadRequest)
}

func TestLocalRemoteStore_Closed(t *testing.T) {
	s := NewLocalRemoteStore(newCollectionService(t), logger.Nop())
	require.NoError(t, s.Close())

	_, _, err := s.Get(context.Background(), "clients")
	assert.ErrorIs(t, err, ErrClosed)
	assert.ErrorIs(t, s.Set(context.Background(), "clients", "[]"), ErrClosed)
	_, err = s.Subscribe("clients", func() {})
	assert.ErrorIs(t, err, ErrClosed)
}

// openDevice opens the clients collection of one simulated device.
func openDevice(t *testing.T, remote RemoteStore) *service.Collection[models.Client] {
	t.Helper()
	reg := service.NewRegistry(context.Background(), store.NewMemoryLocalStore(), remote, service.SyncOptions{}, logger.Nop())
	t.Cleanup(reg.CloseAll)

	clients, err := service.OpenCollection[models.Client](reg, models.CollectionClients, nil)
	require.NoError(t, err)
	require.Eventually(t, func() bool { return clients.Status().InitialSynced }, 2*time.Second, 10*time.Millisecond)

	return clients
}

func TestLocalRemoteStore_TwoDevicesConverge(t *testing.T) {
	collections := newCollectionService(t)
	remoteA := NewLocalRemoteStore(collections, logger.Nop())
	remoteB := NewLocalRemoteStore(collections, logger.Nop())
	t.Cleanup(func() {
		_ = remoteA.Close()
		_ = remoteB.Close()
	})

	deviceA := openDevice(t, remoteA)
	deviceB := openDevice(t, remoteB)

	now := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	service.Upsert(deviceA, models.Client{Syncable: models.Syncable{ID: "c1"}.Touched(now), Name: "Anna"})

	require.Eventually(t, func() bool {
		c, ok := service.Find(deviceB, "c1")
		return ok && c.Name == "Anna"
	}, 3*time.Second, 10*time.Millisecond)

	service.Upsert(deviceB, models.Client{Syncable: models.Syncable{ID: "c1"}.Touched(now.Add(time.Hour)), Name: "Anna K."})

	require.Eventually(t, func() bool {
		c, ok := service.Find(deviceA, "c1")
		return ok && c.Name == "Anna K."
	}, 3*time.Second, 10*time.Millisecond)
	assert.Len(t, deviceA.Value(), 1)
}

// ── gRPC store ───────────────────────────────────────────────────────────────

func startGRPCServer(t *testing.T, collections service.CollectionService) string {
	t.Helper()
	lis, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	h := myGRPC.NewHandler(&service.Services{CollectionService: collections}, testHashKey, logger.Nop())
	srv := grpc.NewServer(h.ServerOptions()...)
	h.Register(srv)

	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)

	return lis.Addr().String()
}

func newGRPCStore(t *testing.T, addr string) RemoteStore {
	t.Helper()
	s, err := NewGRPCRemoteStore(config.Adapter{
		GRPCAddress:    addr,
		RequestTimeout: 2 * time.Second,
	}, config.App{HashKey: testHashKey}, logger.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestGRPCRemoteStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	addr := startGRPCServer(t, newCollectionService(t))
	s := newGRPCStore(t, addr)

	_, found, err := s.Get(ctx, "staff")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, s.Set(ctx, "staff", `[{"id":"s1","name":"Mia"}]`))

	text, found, err := s.Get(ctx, "staff")
	require.NoError(t, err)
	assert.True(t, found)
	assert.JSONEq(t, `[{"id":"s1","name":"Mia"}]`, text)
}

func TestGRPCRemoteStore_InvalidPayload(t *testing.T) {
	addr := startGRPCServer(t, newCollectionService(t))
	s := newGRPCStore(t, addr)

	err := s.Set(context.Background(), "staff", `[{"name":"no id"}]`)

	assert.ErrorIs(t, err, ErrBadRequest)
}

func TestGRPCRemoteStore_SubscribeStreamsWrites(t *testing.T) {
	ctx := context.Background()
	collections := newCollectionService(t)
	addr := startGRPCServer(t, collections)
	s := newGRPCStore(t, addr)

	var calls atomic.Int64
	unsubscribe, err := s.Subscribe("staff", func() { calls.Add(1) })
	require.NoError(t, err)
	defer unsubscribe()

	require.Eventually(t, func() bool { return calls.Load() == 1 }, 3*time.Second, 10*time.Millisecond)

	_, err = collections.Set(ctx, "staff", `[{"id":"s1"}]`)
	require.NoError(t, err)
	require.Eventually(t, func() bool { return calls.Load() == 2 }, 3*time.Second, 10*time.Millisecond)

	_, err = collections.Set(ctx, "staff", `[{"id":"s1"},{"id":"s2"}]`)
	require.NoError(t, err)
	require.Eventually(t, func() bool { return calls.Load() == 3 }, 3*time.Second, 10*time.Millisecond)
}

func TestGRPCRemoteStore_Unreachable(t *testing.T) {
	lis, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := lis.Addr().String()
	require.NoError(t, lis.Close())

	s := newGRPCStore(t, addr)
	_, _, err = s.Get(context.Background(), "staff")

	assert.ErrorIs(t, err, ErrRemoteUnavailable)
}

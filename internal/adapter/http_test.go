// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package adapter

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-salon-sync/internal/config"
	"github.com/MKhiriev/go-salon-sync/internal/logger"
	"github.com/MKhiriev/go-salon-sync/internal/utils"
	"github.com/MKhiriev/go-salon-sync/models"
)

const testHashKey = "testhashkey"

// newTestStore builds an httpRemoteStore pointed at the test server.
func newTestStore(t *testing.T, serverURL string) *httpRemoteStore {
	t.Helper()
	adapterCfg := config.Adapter{
		HTTPAddress:    serverURL,
		RequestTimeout: 2 * time.Second,
		WatchTimeout:   time.Second,
	}
	appCfg := config.App{HashKey: testHashKey}

	s, err := NewHTTPRemoteStore(adapterCfg, appCfg, logger.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s.(*httpRemoteStore)
}

func writeEntry(w http.ResponseWriter, entry models.CollectionEntry) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(entry)
}

// ── Get ──────────────────────────────────────────────────────────────────────

func TestGet_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/collections/clients", r.URL.Path)
		writeEntry(w, models.CollectionEntry{Key: "clients", Value: `[{"id":"A"}]`, Version: 3})
	}))
	defer srv.Close()

	s := newTestStore(t, srv.URL)
	text, found, err := s.Get(context.Background(), "clients")

	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, `[{"id":"A"}]`, text)
}

func TestGet_NotFoundMeansAbsent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	s := newTestStore(t, srv.URL)
	text, found, err := s.Get(context.Background(), "clients")

	require.NoError(t, err)
	assert.False(t, found)
	assert.Empty(t, text)
}

func TestGet_InternalServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("internal server error"))
	}))
	defer srv.Close()

	s := newTestStore(t, srv.URL)
	_, _, err := s.Get(context.Background(), "clients")

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInternalServerError)
}

func TestGet_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	s := newTestStore(t, url)
	_, _, err := s.Get(context.Background(), "clients")

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRemoteUnavailable)
}

func TestGet_CanceledContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	s := newTestStore(t, srv.URL)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := s.Get(ctx, "clients")

	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestGet_ForwardsTraceID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "trace-42", r.Header.Get(utils.TraceIDHeader))
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	s := newTestStore(t, srv.URL)
	_, _, err := s.Get(utils.WithTraceID(context.Background(), "trace-42"), "clients")

	require.NoError(t, err)
}

// ── Set ──────────────────────────────────────────────────────────────────────

func TestSet_SendsValueAndHash(t *testing.T) {
	const value = `[{"id":"A","name":"Anna"}]`

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/api/collections/clients", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req models.SetCollectionRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, value, req.Value)
		assert.Equal(t, utils.HashString(value, testHashKey), req.Hash)

		writeEntry(w, models.CollectionEntry{Key: "clients", Value: req.Value, Version: 1})
	}))
	defer srv.Close()

	s := newTestStore(t, srv.URL)
	err := s.Set(context.Background(), "clients", value)

	require.NoError(t, err)
}

func TestSet_Errors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		wantErr error
	}{
		{name: "bad request", status: http.StatusBadRequest, wantErr: ErrBadRequest},
		{name: "integrity", status: http.StatusUnprocessableEntity, wantErr: ErrIntegrityCheck},
		{name: "bad gateway", status: http.StatusBadGateway, wantErr: ErrBadGateway},
		{name: "unavailable", status: http.StatusServiceUnavailable, wantErr: ErrRemoteUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}))
			defer srv.Close()

			s := newTestStore(t, srv.URL)
			err := s.Set(context.Background(), "clients", "[]")

			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestSet_UnknownStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	defer srv.Close()

	s := newTestStore(t, srv.URL)
	err := s.Set(context.Background(), "clients", "[]")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "418")
}

// ── Subscribe ────────────────────────────────────────────────────────────────

// watchServer answers watch polls from a version counter bumped by the test.
type watchServer struct {
	version atomic.Int64
	polls   atomic.Int64
	failFor atomic.Int64
}

func (ws *watchServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/api/collections/clients/watch" {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	ws.polls.Add(1)
	if ws.failFor.Load() > 0 {
		ws.failFor.Add(-1)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	since, err := strconv.ParseInt(r.URL.Query().Get("version"), 10, 64)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	deadline := time.After(200 * time.Millisecond)
	for {
		if v := ws.version.Load(); v > since {
			writeEntry(w, models.CollectionEntry{Key: "clients", Version: v})
			return
		}
		select {
		case <-r.Context().Done():
			return
		case <-deadline:
			w.WriteHeader(http.StatusNoContent)
			return
		case <-time.After(5 * time.Millisecond):
		}
	}
}

func TestSubscribe_NotifiesOnBaselineAndWrites(t *testing.T) {
	ws := &watchServer{}
	ws.version.Store(2)
	srv := httptest.NewServer(ws)
	defer srv.Close()

	s := newTestStore(t, srv.URL)

	var calls atomic.Int64
	unsubscribe, err := s.Subscribe("clients", func() { calls.Add(1) })
	require.NoError(t, err)
	defer unsubscribe()

	require.Eventually(t, func() bool { return calls.Load() == 1 }, 2*time.Second, 10*time.Millisecond)

	// idle polls end with 204 and must not notify
	time.Sleep(300 * time.Millisecond)
	assert.Equal(t, int64(1), calls.Load())

	ws.version.Store(3)
	require.Eventually(t, func() bool { return calls.Load() == 2 }, 2*time.Second, 10*time.Millisecond)
}

func TestSubscribe_UnsubscribeStopsNotifications(t *testing.T) {
	ws := &watchServer{}
	srv := httptest.NewServer(ws)
	defer srv.Close()

	s := newTestStore(t, srv.URL)

	var calls atomic.Int64
	unsubscribe, err := s.Subscribe("clients", func() { calls.Add(1) })
	require.NoError(t, err)
	require.Eventually(t, func() bool { return calls.Load() == 1 }, 2*time.Second, 10*time.Millisecond)

	unsubscribe()
	unsubscribe()

	ws.version.Store(10)
	time.Sleep(300 * time.Millisecond)
	assert.Equal(t, int64(1), calls.Load())
}

func TestSubscribe_RecoversAfterFailures(t *testing.T) {
	ws := &watchServer{}
	ws.failFor.Store(2)
	ws.version.Store(1)
	srv := httptest.NewServer(ws)
	defer srv.Close()

	s := newTestStore(t, srv.URL)

	var calls atomic.Int64
	unsubscribe, err := s.Subscribe("clients", func() { calls.Add(1) })
	require.NoError(t, err)
	defer unsubscribe()

	require.Eventually(t, func() bool { return calls.Load() == 1 }, 5*time.Second, 10*time.Millisecond)
	assert.GreaterOrEqual(t, ws.polls.Load(), int64(3))
}

// ── Close ────────────────────────────────────────────────────────────────────

func TestClose_RejectsFurtherCalls(t *testing.T) {
	srv := httptest.NewServer(&watchServer{})
	defer srv.Close()

	s := newTestStore(t, srv.URL)
	_, err := s.Subscribe("clients", func() {})
	require.NoError(t, err)

	require.NoError(t, s.Close())

	_, _, err = s.Get(context.Background(), "clients")
	assert.ErrorIs(t, err, ErrClosed)
	assert.ErrorIs(t, s.Set(context.Background(), "clients", "[]"), ErrClosed)
	_, err = s.Subscribe("clients", func() {})
	assert.ErrorIs(t, err, ErrClosed)
}

// ── normalizeBaseURL ─────────────────────────────────────────────────────────

func TestNormalizeBaseURL(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"valid http", "http://localhost:8080", "http://localhost:8080", false},
		{"no scheme", "localhost:8080", "http://localhost:8080", false},
		{"trailing slash", "http://localhost:8080/", "http://localhost:8080", false},
		{"spaces", "  localhost:8080 ", "http://localhost:8080", false},
		{"empty", "", "", true},
		{"no host", "http://", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := normalizeBaseURL(tt.input)
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

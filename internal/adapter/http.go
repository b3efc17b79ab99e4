package adapter

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/MKhiriev/go-salon-sync/internal/config"
	"github.com/MKhiriev/go-salon-sync/internal/logger"
	"github.com/MKhiriev/go-salon-sync/internal/utils"
	"github.com/MKhiriev/go-salon-sync/models"
)

const (
	collectionPath = "/api/collections/{key}"
	watchPath      = "/api/collections/{key}/watch"
)

type httpRemoteStore struct {
	client      *utils.HTTPClient
	watchClient *utils.HTTPClient

	hashKey      string
	watchTimeout time.Duration

	subs   *subscriptions
	logger *logger.Logger
}

// NewHTTPRemoteStore constructs the REST implementation of [RemoteStore].
// It normalises and validates the base URL from adapterCfg.HTTPAddress and
// configures two HTTP clients: one bounded by the request timeout for Get and
// Set, and one for long-poll watches that outlives the server's poll window.
//
// When appCfg.HashKey is set, every Set carries a hex HMAC-SHA256 of the
// value so the server can verify its integrity.
func NewHTTPRemoteStore(adapterCfg config.Adapter, appCfg config.App, logger *logger.Logger) (RemoteStore, error) {
	baseURL, err := normalizeBaseURL(adapterCfg.HTTPAddress)
	if err != nil {
		return nil, fmt.Errorf("invalid adapter http address: %w", err)
	}

	client := utils.NewHTTPClient()
	client.
		SetBaseURL(baseURL).
		SetTimeout(adapterCfg.RequestTimeout)

	watchClient := utils.NewHTTPClient()
	watchClient.SetBaseURL(baseURL)
	if adapterCfg.WatchTimeout > 0 {
		watchClient.SetTimeout(adapterCfg.WatchTimeout + adapterCfg.RequestTimeout)
	}

	if appCfg.HashKey != "" {
		utils.InitHasherPool(appCfg.HashKey)
	}

	return &httpRemoteStore{
		client:       client,
		watchClient:  watchClient,
		hashKey:      appCfg.HashKey,
		watchTimeout: adapterCfg.WatchTimeout,
		subs:         newSubscriptions(logger),
		logger:       logger,
	}, nil
}

func normalizeBaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("empty address")
	}

	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("address must include host and scheme")
	}

	return strings.TrimRight(u.String(), "/"), nil
}

// Get implements [RemoteStore]. It calls GET /api/collections/{key}; a 404
// means the key was never written.
func (h *httpRemoteStore) Get(ctx context.Context, key string) (string, bool, error) {
	if h.subs.closed() {
		return "", false, ErrClosed
	}

	var entry models.CollectionEntry
	resp, err := h.client.R().
		SetContext(ctx).
		SetPathParam("key", key).
		SetResult(&entry).
		Get(collectionPath)
	if err != nil {
		return "", false, fmt.Errorf("%w: get %s: %w", ErrRemoteUnavailable, key, err)
	}
	if resp.StatusCode() == http.StatusNotFound {
		return "", false, nil
	}
	if err = mapHTTPError(resp); err != nil {
		return "", false, err
	}

	return entry.Value, true, nil
}

// Set implements [RemoteStore]. It calls PUT /api/collections/{key} with the
// value and its integrity hash.
func (h *httpRemoteStore) Set(ctx context.Context, key, text string) error {
	if h.subs.closed() {
		return ErrClosed
	}

	req := models.SetCollectionRequest{Value: text}
	if h.hashKey != "" {
		req.Hash = utils.HashValue(text)
	}

	resp, err := h.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetPathParam("key", key).
		SetBody(req).
		Put(collectionPath)
	if err != nil {
		return fmt.Errorf("%w: set %s: %w", ErrRemoteUnavailable, key, err)
	}

	return mapHTTPError(resp)
}

// Subscribe implements [RemoteStore] with repeated long polls of
// GET /api/collections/{key}/watch. The server answers with the entry as soon
// as its version passes the one sent, or 204 when the poll window ends.
func (h *httpRemoteStore) Subscribe(key string, onChange func()) (func(), error) {
	return h.subs.subscribe(key, h.watch, onChange)
}

func (h *httpRemoteStore) watch(ctx context.Context, key string, since int64, seen func(int64)) error {
	req := h.watchClient.R().
		SetContext(ctx).
		SetPathParam("key", key).
		SetQueryParam("version", strconv.FormatInt(since, 10))
	if h.watchTimeout > 0 {
		req.SetQueryParam("timeout", h.watchTimeout.String())
	}

	var entry models.CollectionEntry
	resp, err := req.SetResult(&entry).Get(watchPath)
	if err != nil {
		return fmt.Errorf("%w: watch %s: %w", ErrRemoteUnavailable, key, err)
	}
	if resp.StatusCode() == http.StatusNoContent {
		return nil
	}
	if err = mapHTTPError(resp); err != nil {
		return err
	}

	seen(entry.Version)
	return nil
}

// Close implements [RemoteStore]. It ends every subscription.
func (h *httpRemoteStore) Close() error {
	h.subs.close()
	return nil
}

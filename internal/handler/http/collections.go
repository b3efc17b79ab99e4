// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MKhiriev/go-salon-sync/internal/logger"
	"github.com/MKhiriev/go-salon-sync/internal/utils"
	"github.com/MKhiriev/go-salon-sync/models"
)

// maxPutBody leaves room for JSON escaping of the largest accepted value.
const maxPutBody = 64 << 20

func (h *Handler) getCollection(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")

	entry, err := h.services.CollectionService.Get(r.Context(), key)
	if err != nil {
		writeError(w, r, err, "*Handler.getCollection")
		return
	}

	h.writeJSON(w, r, entry, http.StatusOK)
}

func (h *Handler) putCollection(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")

	var req models.SetCollectionRequest
	if err := utils.ReadJSON(w, r, &req, maxPutBody); err != nil {
		if !errors.Is(err, utils.ErrBodyTooLarge) {
			err = fmt.Errorf("%w: %w", ErrInvalidJSON, err)
		}
		writeError(w, r, err, "*Handler.putCollection")
		return
	}

	entry, err := h.services.CollectionService.Set(r.Context(), key, req.Value)
	if err != nil {
		writeError(w, r, err, "*Handler.putCollection")
		return
	}

	logger.FromRequest(r).Debug().Str("key", key).Int64("version", entry.Version).Msg("collection stored")
	h.writeJSON(w, r, entry, http.StatusOK)
}

func (h *Handler) listCollections(w http.ResponseWriter, r *http.Request) {
	entries, err := h.services.CollectionService.List(r.Context())
	if err != nil {
		writeError(w, r, err, "*Handler.listCollections")
		return
	}
	if entries == nil {
		entries = []models.CollectionEntry{}
	}

	h.writeJSON(w, r, models.CollectionList{Collections: entries, Length: len(entries)}, http.StatusOK)
}

// watchCollection holds the request until the key's version passes the
// "version" query parameter, then answers with the entry. When nothing is
// written within the poll window it answers 204 and the client polls again.
func (h *Handler) watchCollection(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")

	since, timeout, err := h.watchParams(r)
	if err != nil {
		writeError(w, r, err, "*Handler.watchCollection")
		return
	}

	ctx := r.Context()
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	entry, err := h.services.CollectionService.Watch(ctx, key, since)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) && r.Context().Err() == nil {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		if r.Context().Err() != nil {
			// client went away
			return
		}
		writeError(w, r, err, "*Handler.watchCollection")
		return
	}

	h.writeJSON(w, r, entry, http.StatusOK)
}

// watchParams parses the version and timeout query parameters. A missing
// version watches for the first write; the timeout is capped by the server's
// watch window.
func (h *Handler) watchParams(r *http.Request) (int64, time.Duration, error) {
	query := r.URL.Query()

	var since int64
	if raw := query.Get("version"); raw != "" {
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return 0, 0, fmt.Errorf("%w: version %q", ErrInvalidWatchParams, raw)
		}
		since = v
	}

	timeout := h.watchTimeout
	if raw := query.Get("timeout"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil || d <= 0 {
			return 0, 0, fmt.Errorf("%w: timeout %q", ErrInvalidWatchParams, raw)
		}
		if timeout <= 0 || d < timeout {
			timeout = d
		}
	}

	return since, timeout, nil
}

func (h *Handler) writeJSON(w http.ResponseWriter, r *http.Request, data any, status int) {
	if _, err := utils.WriteJSON(w, data, status); err != nil {
		logger.FromRequest(r).Err(err).Msg("failed to write response")
	}
}

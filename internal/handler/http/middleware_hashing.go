package http

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"

	"github.com/MKhiriev/go-salon-sync/internal/logger"
	"github.com/MKhiriev/go-salon-sync/internal/utils"
	"github.com/MKhiriev/go-salon-sync/models"
)

// collectionHashing verifies the HMAC-SHA256 sent with a PUT payload. It is
// a no-op when the server has no hash key configured.
func (h *Handler) collectionHashing(next http.Handler) http.Handler {
	if h.hashKey == "" {
		return next
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromRequest(r)

		body, err := io.ReadAll(r.Body)
		if err != nil {
			log.Err(err).Str("func", "*Handler.collectionHashing").Msg("failed to read request body")
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		// restore request body
		r.Body = io.NopCloser(bytes.NewReader(body))

		var req models.SetCollectionRequest
		if err = json.Unmarshal(body, &req); err != nil {
			log.Err(err).Str("func", "*Handler.collectionHashing").Msg("failed to decode JSON")
			http.Error(w, "Invalid JSON", http.StatusBadRequest)
			return
		}

		if !utils.VerifyValue(req.Value, req.Hash) {
			log.Error().Str("func", "*Handler.collectionHashing").
				Str("hash from request", req.Hash).
				Msg("hashes are not equal")
			http.Error(w, ErrIntegrityCheck.Error(), http.StatusUnprocessableEntity)
			return
		}

		next.ServeHTTP(w, r)
	})
}

package http

import (
	"errors"
	"net/http"

	"github.com/MKhiriev/go-salon-sync/internal/logger"
	"github.com/MKhiriev/go-salon-sync/internal/service"
	"github.com/MKhiriev/go-salon-sync/internal/store"
	"github.com/MKhiriev/go-salon-sync/internal/utils"
)

var errorStatusMap = map[error]int{
	ErrIntegrityCheck:     http.StatusUnprocessableEntity,
	ErrInvalidJSON:        http.StatusBadRequest,
	ErrInvalidWatchParams: http.StatusBadRequest,

	utils.ErrBodyTooLarge: http.StatusRequestEntityTooLarge,

	service.ErrInvalidDataProvided: http.StatusBadRequest,
	service.ErrCollectionNotFound:  http.StatusNotFound,

	store.ErrCollectionNotSaved: http.StatusInternalServerError,
	store.ErrBuildingSQLQuery:   http.StatusInternalServerError,
	store.ErrExecutingQuery:     http.StatusInternalServerError,
	store.ErrExecutingStatement: http.StatusInternalServerError,
	store.ErrScanningRow:        http.StatusInternalServerError,
	store.ErrScanningRows:       http.StatusInternalServerError,
}

func statusFromError(err error) int {
	for target, status := range errorStatusMap {
		if errors.Is(err, target) {
			return status
		}
	}
	return http.StatusInternalServerError
}

// writeError logs err and answers with the mapped status. Server-side
// failures are reported without their details.
func writeError(w http.ResponseWriter, r *http.Request, err error, fn string) {
	status := statusFromError(err)
	logger.FromRequest(r).Err(err).Str("func", fn).Int("status", status).Send()

	message := err.Error()
	if status >= http.StatusInternalServerError {
		message = http.StatusText(status)
	}
	http.Error(w, message, status)
}

package http

import (
	"net/http"

	"github.com/rs/zerolog"

	"github.com/MKhiriev/go-salon-sync/internal/utils"
)

const (
	traceIDHeader = utils.TraceIDHeader
	// maxTraceIDLength bounds trace ids accepted from callers.
	maxTraceIDLength = 64
)

var traceIDs = utils.NewUUIDGenerator()

// withTraceID stores a request logger carrying "trace_id" in the request
// context and echoes the id in the response. A caller-supplied id is reused
// when it is short enough.
func (h *Handler) withTraceID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		traceID := r.Header.Get(traceIDHeader)
		if traceID == "" || len(traceID) > maxTraceIDLength {
			traceID = traceIDs.Generate()
		}

		l := h.logger.GetChildLogger()
		l.UpdateContext(func(c zerolog.Context) zerolog.Context {
			return c.Str("trace_id", traceID)
		})
		r = r.WithContext(l.WithContext(utils.WithTraceID(r.Context(), traceID)))

		w.Header().Set(traceIDHeader, traceID)
		next.ServeHTTP(w, r)
	})
}

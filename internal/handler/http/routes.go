package http

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/MKhiriev/go-salon-sync/internal/metrics"
)

func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(h.withTraceID, h.withLogging)

	router.Group(func(r chi.Router) {
		r.Use(withGZip)

		r.Get("/api/version", h.getServerVersion)
		r.Get("/api/version/info", h.getVersionInfo)

		r.Get("/api/collections", h.listCollections)
		r.Get("/api/collections/{key}", h.getCollection)
		r.With(h.collectionHashing).Put("/api/collections/{key}", h.putCollection)
		r.Get("/api/collections/{key}/watch", h.watchCollection)
	})

	// promhttp negotiates its own compression
	router.Handle("/metrics", metrics.Handler())

	router.MethodNotAllowed(CheckHTTPMethod(router))

	return router
}

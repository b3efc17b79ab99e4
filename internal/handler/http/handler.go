package http

import (
	"time"

	"github.com/MKhiriev/go-salon-sync/internal/config"
	"github.com/MKhiriev/go-salon-sync/internal/logger"
	"github.com/MKhiriev/go-salon-sync/internal/service"
)

type Handler struct {
	services *service.Services

	// hashKey enables the integrity check of PUT payloads when not empty.
	hashKey string
	// watchTimeout caps how long a watch request may be held open.
	watchTimeout time.Duration

	logger *logger.Logger
}

func NewHandler(services *service.Services, cfg config.StructuredConfig, logger *logger.Logger) *Handler {
	logger.Info().Msg("http handler created")
	return &Handler{
		services:     services,
		hashKey:      cfg.App.HashKey,
		watchTimeout: cfg.Server.WatchTimeout,
		logger:       logger,
	}
}

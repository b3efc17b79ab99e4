package service

import (
	"github.com/MKhiriev/go-salon-sync/internal/config"
	"github.com/MKhiriev/go-salon-sync/internal/logger"
	"github.com/MKhiriev/go-salon-sync/internal/store"
	"github.com/MKhiriev/go-salon-sync/models"
)

type Services struct {
	CollectionService CollectionService
	AppInfoService    AppInfoService
}

func NewServices(storages *store.Storages, cfg config.StructuredConfig, build models.AppBuildInfo, logger *logger.Logger) (*Services, error) {
	appInfo, err := NewAppInfoService(cfg.App, build, logger)
	if err != nil {
		return nil, err
	}

	collections := NewCollectionValidationService().Wrap(
		NewCollectionService(storages.Collections, logger),
	)

	return &Services{
		CollectionService: collections,
		AppInfoService:    appInfo,
	}, nil
}

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/MKhiriev/go-salon-sync/internal/config"
	"github.com/MKhiriev/go-salon-sync/internal/handler"
	"github.com/MKhiriev/go-salon-sync/internal/logger"
	"github.com/MKhiriev/go-salon-sync/internal/metrics"
	"github.com/MKhiriev/go-salon-sync/internal/server"
	"github.com/MKhiriev/go-salon-sync/internal/service"
	"github.com/MKhiriev/go-salon-sync/internal/store"
	"github.com/MKhiriev/go-salon-sync/internal/utils"
	"github.com/MKhiriev/go-salon-sync/models"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	build := models.NewAppBuildInfo(buildVersion, buildDate, buildCommit)
	printBuildInfo(build)

	log := logger.NewLogger("salon-server")
	cfg, err := config.GetStructuredConfig(os.Args[1:])
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}
	if err = logger.SetLevel(cfg.Log.Level); err != nil {
		log.Fatal().Err(err).Msg("invalid log level")
	}

	log.Debug().Any("config", cfg).Msg("received configs")

	if cfg.App.HashKey != "" {
		utils.InitHasherPool(cfg.App.HashKey)
	}
	metrics.RegisterMetrics()

	storages, err := store.NewStorages(context.Background(), cfg.Storage, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating storages")
	}
	defer func() {
		if err := storages.Close(); err != nil {
			log.Err(err).Msg("error closing storages")
		}
	}()

	services, err := service.NewServices(storages, *cfg, build, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating services")
	}

	handlers, err := handler.NewHandlers(services, *cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating handlers")
	}

	srv, err := server.NewServer(handlers, cfg.Server, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating server")
	}

	srv.RunServer()
}

func printBuildInfo(build models.AppBuildInfo) {
	for _, line := range build.Lines() {
		fmt.Println(line)
	}
}

package config

import (
	"strings"
	"time"
)

// Supported storage drivers.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverBolt     = "bolt"
	DriverFile     = "file"
)

// Supported client transports.
const (
	TransportHTTP = "http"
	TransportGRPC = "grpc"
	TransportNone = "none"
)

// MemoryDSN selects a non-persistent local store. Useful for tests and
// throwaway sessions.
const MemoryDSN = ":memory:"

func serverDefaults() *StructuredConfig {
	return &StructuredConfig{
		App: App{
			Version: "dev",
		},
		Storage: Storage{
			DB: DB{
				DSN: "salon-server.db",
			},
		},
		Server: Server{
			HTTPAddress:    "localhost:8080",
			GRPCAddress:    "localhost:9090",
			RequestTimeout: 10 * time.Second,
			WatchTimeout:   30 * time.Second,
		},
		Log: Log{
			Level: "info",
		},
	}
}

func clientDefaults() *StructuredConfig {
	return &StructuredConfig{
		App: App{
			Version: "dev",
		},
		Storage: Storage{
			DB: DB{
				DSN: "salon.db",
			},
		},
		Adapter: Adapter{
			Transport:      TransportHTTP,
			HTTPAddress:    "localhost:8080",
			GRPCAddress:    "localhost:9090",
			RequestTimeout: 10 * time.Second,
			WatchTimeout:   30 * time.Second,
		},
		Workers: Workers{
			RefreshInterval: 5 * time.Minute,
		},
		Log: Log{
			Level: "info",
		},
	}
}

// ServerDriver returns the configured server driver, inferring postgres from
// a postgres URL and sqlite otherwise.
func (db DB) ServerDriver() string {
	if db.Driver != "" {
		return strings.ToLower(db.Driver)
	}
	dsn := strings.ToLower(db.DSN)
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		return DriverPostgres
	}
	return DriverSQLite
}

// ClientDriver returns the configured local store driver. Without an explicit
// driver, ":memory:" and *.json select the file store, *.bolt selects bbolt
// and anything else sqlite.
func (db DB) ClientDriver() string {
	if db.Driver != "" {
		return strings.ToLower(db.Driver)
	}
	dsn := strings.ToLower(db.DSN)
	switch {
	case dsn == MemoryDSN, strings.HasSuffix(dsn, ".json"):
		return DriverFile
	case strings.HasSuffix(dsn, ".bolt"):
		return DriverBolt
	default:
		return DriverSQLite
	}
}

package config

import "errors"

// Validation errors returned when required configuration groups are
// incomplete or invalid.
var (
	// ErrInvalidAdapterConfigs indicates invalid client adapter settings
	// (for example, an unknown transport or a missing address).
	ErrInvalidAdapterConfigs = errors.New("invalid adapter configuration")
	// ErrInvalidStorageConfigs indicates invalid storage settings
	// (for example, empty DSN or unsupported driver).
	ErrInvalidStorageConfigs = errors.New("invalid storage configuration")
	// ErrInvalidServerConfigs indicates invalid server listen settings.
	ErrInvalidServerConfigs = errors.New("invalid server configuration")
	// ErrInvalidWorkerConfigs indicates invalid background worker settings
	// (for example, a negative refresh interval).
	ErrInvalidWorkerConfigs = errors.New("invalid worker configuration")
	// ErrInvalidSyncConfigs indicates negative engine timings or unknown
	// collection names.
	ErrInvalidSyncConfigs = errors.New("invalid sync configuration")
	// ErrInvalidConfigFile indicates a config file that could not be decoded.
	ErrInvalidConfigFile = errors.New("invalid config file")
	// ErrInvalidFlags indicates malformed command-line flags.
	ErrInvalidFlags = errors.New("invalid flags")
)

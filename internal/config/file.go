package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// fileConfig mirrors [StructuredConfig] with serialization tags for every
// supported config file format. Durations use [Duration] so they can be
// written as "30s" in any of them.
type fileConfig struct {
	App struct {
		HashKey string `json:"hash_key" toml:"hash_key" yaml:"hash_key"`
		Version string `json:"version" toml:"version" yaml:"version"`
	} `json:"app" toml:"app" yaml:"app"`

	Storage struct {
		DB struct {
			DSN    string `json:"dsn" toml:"dsn" yaml:"dsn"`
			Driver string `json:"driver" toml:"driver" yaml:"driver"`
		} `json:"db" toml:"db" yaml:"db"`
	} `json:"storage" toml:"storage" yaml:"storage"`

	Server struct {
		HTTPAddress    string   `json:"http_address" toml:"http_address" yaml:"http_address"`
		GRPCAddress    string   `json:"grpc_address" toml:"grpc_address" yaml:"grpc_address"`
		RequestTimeout Duration `json:"request_timeout" toml:"request_timeout" yaml:"request_timeout"`
		WatchTimeout   Duration `json:"watch_timeout" toml:"watch_timeout" yaml:"watch_timeout"`
	} `json:"server" toml:"server" yaml:"server"`

	Adapter struct {
		Transport      string   `json:"transport" toml:"transport" yaml:"transport"`
		HTTPAddress    string   `json:"http_address" toml:"http_address" yaml:"http_address"`
		GRPCAddress    string   `json:"grpc_address" toml:"grpc_address" yaml:"grpc_address"`
		RequestTimeout Duration `json:"request_timeout" toml:"request_timeout" yaml:"request_timeout"`
		WatchTimeout   Duration `json:"watch_timeout" toml:"watch_timeout" yaml:"watch_timeout"`
	} `json:"adapter" toml:"adapter" yaml:"adapter"`

	Sync struct {
		GuardGrace   Duration `json:"guard_grace" toml:"guard_grace" yaml:"guard_grace"`
		PushDebounce Duration `json:"push_debounce" toml:"push_debounce" yaml:"push_debounce"`
		Collections  []string `json:"collections" toml:"collections" yaml:"collections"`
	} `json:"sync" toml:"sync" yaml:"sync"`

	Workers struct {
		RefreshInterval Duration `json:"refresh_interval" toml:"refresh_interval" yaml:"refresh_interval"`
	} `json:"workers" toml:"workers" yaml:"workers"`

	Log struct {
		Level string `json:"level" toml:"level" yaml:"level"`
		File  string `json:"file" toml:"file" yaml:"file"`
	} `json:"log" toml:"log" yaml:"log"`
}

// parseFile reads a config file, choosing the decoder by extension:
// .toml, .yaml/.yml, anything else is treated as JSON.
func parseFile(path string) (*StructuredConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading config file %s: %w", path, err)
	}

	var fc fileConfig
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		err = toml.Unmarshal(data, &fc)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &fc)
	default:
		err = json.Unmarshal(data, &fc)
	}
	if err != nil {
		return nil, fmt.Errorf("%w %s: %w", ErrInvalidConfigFile, path, err)
	}

	return fc.toStructured(), nil
}

func (fc *fileConfig) toStructured() *StructuredConfig {
	return &StructuredConfig{
		App: App{
			HashKey: fc.App.HashKey,
			Version: fc.App.Version,
		},
		Storage: Storage{
			DB: DB{
				DSN:    fc.Storage.DB.DSN,
				Driver: fc.Storage.DB.Driver,
			},
		},
		Server: Server{
			HTTPAddress:    fc.Server.HTTPAddress,
			GRPCAddress:    fc.Server.GRPCAddress,
			RequestTimeout: time.Duration(fc.Server.RequestTimeout),
			WatchTimeout:   time.Duration(fc.Server.WatchTimeout),
		},
		Adapter: Adapter{
			Transport:      fc.Adapter.Transport,
			HTTPAddress:    fc.Adapter.HTTPAddress,
			GRPCAddress:    fc.Adapter.GRPCAddress,
			RequestTimeout: time.Duration(fc.Adapter.RequestTimeout),
			WatchTimeout:   time.Duration(fc.Adapter.WatchTimeout),
		},
		Sync: Sync{
			GuardGrace:   time.Duration(fc.Sync.GuardGrace),
			PushDebounce: time.Duration(fc.Sync.PushDebounce),
			Collections:  fc.Sync.Collections,
		},
		Workers: Workers{
			RefreshInterval: time.Duration(fc.Workers.RefreshInterval),
		},
		Log: Log{
			Level: fc.Log.Level,
			File:  fc.Log.File,
		},
	}
}

// Duration is a wrapper around time.Duration that decodes from strings like
// "1h" or "30s" in JSON, TOML and YAML. Bare JSON numbers are nanoseconds.
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value))
		return nil
	case string:
		return d.UnmarshalText([]byte(value))
	default:
		return fmt.Errorf("invalid duration %s", string(b))
	}
}

// UnmarshalText is used by the TOML decoder.
func (d *Duration) UnmarshalText(text []byte) error {
	tmp, err := time.ParseDuration(strings.TrimSpace(string(text)))
	if err != nil {
		return err
	}
	*d = Duration(tmp)
	return nil
}

func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	return d.UnmarshalText([]byte(node.Value))
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

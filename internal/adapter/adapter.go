package adapter

import (
	"fmt"

	"github.com/MKhiriev/go-salon-sync/internal/config"
	"github.com/MKhiriev/go-salon-sync/internal/logger"
)

// NewRemoteStore builds the [RemoteStore] selected by adapterCfg.Transport.
// The "none" transport yields a nil store, which puts every collection in
// local-only mode.
func NewRemoteStore(adapterCfg config.Adapter, appCfg config.App, logger *logger.Logger) (RemoteStore, error) {
	switch adapterCfg.Transport {
	case config.TransportHTTP:
		return NewHTTPRemoteStore(adapterCfg, appCfg, logger)
	case config.TransportGRPC:
		return NewGRPCRemoteStore(adapterCfg, appCfg, logger)
	case config.TransportNone:
		return nil, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownTransport, adapterCfg.Transport)
	}
}

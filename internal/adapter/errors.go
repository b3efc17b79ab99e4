package adapter

import "errors"

// Transport-agnostic errors returned by every [RemoteStore] implementation.
var (
	ErrBadRequest          = errors.New("bad request")
	ErrNotFound            = errors.New("not found")
	ErrIntegrityCheck      = errors.New("payload integrity check failed")
	ErrInternalServerError = errors.New("internal server error")
	ErrBadGateway          = errors.New("bad gateway")

	// ErrRemoteUnavailable is returned when the remote store cannot be
	// reached at all (connection refused, timeout, DNS).
	ErrRemoteUnavailable = errors.New("remote store unavailable")

	// ErrClosed is returned by a [RemoteStore] after Close.
	ErrClosed = errors.New("remote store closed")

	// ErrUnknownTransport is returned by [NewRemoteStore] for an unsupported
	// transport name.
	ErrUnknownTransport = errors.New("unknown transport")
)

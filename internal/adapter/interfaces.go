// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package adapter provides transport-layer abstractions for reaching the
// shared salon collection store.
//
// The primary abstraction is [RemoteStore], which decouples the sync engine
// from the underlying protocol. The package ships an HTTP implementation
// ([NewHTTPRemoteStore]), a gRPC implementation ([NewGRPCRemoteStore]) and an
// in-process one ([NewLocalRemoteStore]) that calls the server-side service
// directly.
//
// Transport failures are mapped to the sentinel values in errors.go so that
// callers can use [errors.Is] regardless of protocol (e.g. [ErrNotFound] for
// 404, [ErrRemoteUnavailable] when the server cannot be reached).
package adapter

import (
	"context"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/remote_store_mock.go -package=mock

// RemoteStore is a shared key-to-text store. Several clients may Set the same
// key concurrently; Subscribe delivers a payload-free notification after any
// client's write succeeds.
type RemoteStore interface {
	// Get returns the text stored under key. A key that was never written is
	// reported with found == false and a nil error.
	Get(ctx context.Context, key string) (text string, found bool, err error)

	// Set replaces the whole value stored under key.
	Set(ctx context.Context, key, text string) error

	// Subscribe registers onChange for writes to key. onChange may be called
	// from any goroutine and must not block. The returned function cancels
	// the subscription and is safe to call more than once.
	Subscribe(key string, onChange func()) (unsubscribe func(), err error)

	// Close releases transport resources and ends every subscription.
	Close() error
}

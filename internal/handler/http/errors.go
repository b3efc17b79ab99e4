// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import "errors"

// Sentinel errors produced by the transport layer itself. Callers can match
// against them with [errors.Is].
var (
	// ErrIntegrityCheck is returned when the hash sent with a PUT payload
	// does not match the HMAC computed by the server.
	ErrIntegrityCheck = errors.New("integrity check failed")

	// ErrInvalidJSON is returned when a request body cannot be decoded.
	ErrInvalidJSON = errors.New("invalid JSON was passed")

	// ErrInvalidWatchParams is returned when the version or timeout query
	// parameter of a watch request cannot be parsed.
	ErrInvalidWatchParams = errors.New("invalid watch parameters")
)

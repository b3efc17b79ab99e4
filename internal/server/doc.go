// Package server runs the shared collection store behind its transports.
//
// NewServer starts an HTTP listener for the REST and long-poll watch API and
// a gRPC listener for the streaming API, depending on which addresses are
// configured. RunServer blocks until a termination signal arrives or one
// listener fails, then shuts both down. Watches still open after the
// shutdown grace period are cut.
package server

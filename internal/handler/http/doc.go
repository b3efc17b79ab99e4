// Package http implements the REST transport of the salon collection store.
//
// It wires the chi routes for reading, writing, listing and long-poll
// watching collections, plus the version and metrics endpoints. Request
// tracing, access logging, compression and payload integrity checks are
// handled by middleware before requests reach the service layer.
package http

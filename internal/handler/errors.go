package handler

import "errors"

// errNoTransports is returned by NewHandlers when the server config names
// neither an HTTP nor a gRPC address. The collection store would be
// unreachable, so startup fails.
var errNoTransports = errors.New("no transport handlers: set an HTTP or gRPC address")

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package server

import "errors"

// errNoTransports is returned by NewServer when no listener could be set
// up: either both addresses are empty or no handler exists for them.
var errNoTransports = errors.New("no collection transport to serve: set an HTTP or gRPC address")

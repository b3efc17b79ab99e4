// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package client implements the salon client runtime.
//
// It wires the local store, the configured remote transport and the
// collection registry into a single process lifecycle, and runs the
// periodic refresh next to whatever drives the collections in the
// foreground (the CLI commands or the terminal UI).
package client

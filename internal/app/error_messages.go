// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package app contains user-facing message strings shared by the salon
// client commands and the terminal UI.
//
// All Msg* constants are human-readable texts printed to the terminal to
// describe the outcome of an operation. Keeping them in one place keeps the
// wording identical between the CLI and the TUI.
package app

const (
	// MsgLocalOnly is shown for a collection that keeps working offline
	// because no remote store is configured or its subscription failed.
	MsgLocalOnly = "working offline, changes are kept on this device"

	// MsgSyncing is shown while the first pull of a collection is running.
	MsgSyncing = "syncing"

	// MsgSynced is shown once a collection has completed its first pull.
	MsgSynced = "synced"

	// MsgRefreshDone is shown after a manual refresh of all collections.
	MsgRefreshDone = "refresh complete"

	// MsgRefreshFailed prefixes the error of a manual refresh.
	MsgRefreshFailed = "refresh failed"

	// MsgCopied is shown after a record was copied to the clipboard.
	MsgCopied = "copied to clipboard"

	// MsgClipboardUnavailable is shown when the system clipboard cannot be
	// used, e.g. in a headless session.
	MsgClipboardUnavailable = "clipboard is not available"

	// MsgNoRecords is shown for an empty collection.
	MsgNoRecords = "no records"

	// MsgInvalidRecord is printed when a record passed to put is not a JSON
	// object with an id.
	MsgInvalidRecord = "record must be a JSON object with an id"

	// MsgRecordSaved is printed after put stored a record locally.
	MsgRecordSaved = "record saved"

	// MsgPushPending is printed when a command exits before the remote store
	// confirmed its write; the next session reconciles it.
	MsgPushPending = "not yet pushed, it will be synced on the next start"

	// MsgInitialSyncTimeout is printed when the first pull did not finish in
	// time and local data is shown instead.
	MsgInitialSyncTimeout = "remote store did not answer in time, showing local data"
)

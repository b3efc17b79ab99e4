package service

import "errors"

// Sync engine errors.
var (
	// ErrMalformedRemotePayload marks a pulled value that is not a JSON array
	// of records. The pull continues as if the remote were empty.
	ErrMalformedRemotePayload = errors.New("malformed remote payload")

	// ErrLocalOnly is returned by Refresh when the collection has no usable
	// remote store.
	ErrLocalOnly = errors.New("collection is in local-only mode")

	// ErrCollectionClosed is returned by Refresh after Close.
	ErrCollectionClosed = errors.New("collection is closed")

	// ErrCollectionTypeMismatch is returned by OpenCollection when the key is
	// already open with a different record type.
	ErrCollectionTypeMismatch = errors.New("collection already open with a different record type")

	// ErrRegistryClosed is returned by OpenCollection after CloseAll.
	ErrRegistryClosed = errors.New("registry is closed")

	// ErrUnknownCollection is returned for a key the registry has not opened.
	ErrUnknownCollection = errors.New("unknown collection")

	// ErrInvalidRecord is returned by UpsertJSON for a record that does not
	// decode or has no id.
	ErrInvalidRecord = errors.New("invalid record")
)

// Remote store (server side) errors.
var (
	// ErrInvalidDataProvided wraps every validation failure of a write.
	ErrInvalidDataProvided = errors.New("invalid data provided")

	ErrCollectionNotFound = errors.New("collection not found")

	ErrVersionIsNotSpecified = errors.New("app version is not specified")
)

package models

import "time"

// CollectionEntry is the remote store's view of one key: the opaque
// serialized collection plus a monotonically increasing version that
// watchers use to detect writes.
type CollectionEntry struct {
	Key       string     `json:"key"`
	Value     string     `json:"value"`
	Version   int64      `json:"version"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

// SetCollectionRequest replaces the whole value stored under a key.
type SetCollectionRequest struct {
	// Value is the serialized collection (a JSON array of records).
	Value string `json:"value"`

	// Hash is the hex HMAC-SHA256 of Value. It is checked by the server when
	// an integrity key is configured and ignored otherwise.
	Hash string `json:"hash,omitempty"`
}

// CollectionList is the response of the key listing endpoint.
type CollectionList struct {
	Collections []CollectionEntry `json:"collections"`
	Length      int               `json:"length"`
}

// WatchRequest asks the remote store to report the first write to Key with a
// version greater than Version.
type WatchRequest struct {
	Key     string `json:"key"`
	Version int64  `json:"version"`
}

// GetCollectionRequest asks for the current value of Key.
type GetCollectionRequest struct {
	Key string `json:"key"`
}

// PutCollectionRequest is the gRPC form of [SetCollectionRequest].
type PutCollectionRequest struct {
	Key   string `json:"key"`
	Value string `json:"value"`
	Hash  string `json:"hash,omitempty"`
}

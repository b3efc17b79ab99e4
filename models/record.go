// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Record is the constraint the sync engine places on collection elements.
// The engine only ever looks at the identifier and the modification time;
// every other field of a record is opaque to it.
type Record interface {
	// RecordID returns the identifier that is unique within a collection and
	// stable for the lifetime of the record.
	RecordID() string

	// ModifiedAt returns the parsed last-modification instant. ok is false
	// when the record carries no timestamp or the timestamp cannot be parsed.
	ModifiedAt() (t time.Time, ok bool)
}

// Syncable carries the two attributes shared by every salon record. It is
// embedded by value into each record type so that the record satisfies
// [Record] without additional code.
type Syncable struct {
	// ID is the canonical identifier of the record inside its collection.
	ID string `json:"id"`

	// LastModified is an RFC 3339 timestamp of the last edit. It is empty
	// only for records created before timestamps were tracked.
	LastModified string `json:"lastModified,omitempty"`
}

// RecordID implements [Record].
func (s Syncable) RecordID() string {
	return s.ID
}

// ModifiedAt implements [Record].
func (s Syncable) ModifiedAt() (time.Time, bool) {
	return ParseTimestamp(s.LastModified)
}

// Touched returns a copy of s with LastModified set to now.
func (s Syncable) Touched(now time.Time) Syncable {
	s.LastModified = FormatTimestamp(now)
	return s
}

// FormatTimestamp renders t the way records store it: UTC, RFC 3339 with
// millisecond precision.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000Z07:00")
}

// ParseTimestamp parses a record timestamp. Both second and sub-second
// RFC 3339 forms are accepted.
func ParseTimestamp(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}

	t, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return time.Time{}, false
	}

	return t, true
}

// StampJSON checks that raw is a JSON object with a non-empty "id" and
// returns it with "lastModified" set to now. Fields unknown to the caller
// are kept.
func StampJSON(raw []byte, now time.Time) ([]byte, error) {
	var fields map[string]any
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("record is not a JSON object: %w", err)
	}
	if id, _ := fields["id"].(string); strings.TrimSpace(id) == "" {
		return nil, errors.New("record has no id")
	}

	fields["lastModified"] = FormatTimestamp(now)
	return json.Marshal(fields)
}

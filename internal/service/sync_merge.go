// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/MKhiriev/go-salon-sync/models"
)

// Merge reconciles a local and a remote collection by record id using
// last-write-wins on lastModified.
//
// Local records are the starting point. A remote record with an unknown id
// is added; a remote record with a known id replaces the local one only when
// both timestamps parse and the remote one is strictly later. Ties and
// missing timestamps keep the local version.
//
// The output holds local records in their original order followed by
// remote-only records in remote order. Neither input is modified. Duplicate
// ids inside one input collapse onto their first position.
func Merge[T models.Record](local, remote []T) []T {
	merged := make([]T, 0, len(local)+len(remote))
	index := make(map[string]int, len(local)+len(remote))

	for _, rec := range local {
		id := rec.RecordID()
		if i, ok := index[id]; ok {
			merged[i] = rec
			continue
		}
		index[id] = len(merged)
		merged = append(merged, rec)
	}

	for _, rec := range remote {
		id := rec.RecordID()
		i, ok := index[id]
		if !ok {
			index[id] = len(merged)
			merged = append(merged, rec)
			continue
		}
		if newer(rec, merged[i]) {
			merged[i] = rec
		}
	}

	return merged
}

// newer reports whether a carries a strictly later timestamp than b. Records
// without a parsable timestamp are never newer and never older.
func newer[T models.Record](a, b T) bool {
	at, aok := a.ModifiedAt()
	bt, bok := b.ModifiedAt()
	return aok && bok && at.After(bt)
}

// DecodeCollection parses a serialized collection. Blank text is an empty
// collection; anything else must be a JSON array. A JSON null decodes to an
// empty collection.
func DecodeCollection[T models.Record](text string) ([]T, error) {
	if strings.TrimSpace(text) == "" {
		return []T{}, nil
	}

	var out []T
	if err := json.Unmarshal([]byte(text), &out); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedRemotePayload, err)
	}
	if out == nil {
		out = []T{}
	}

	return out, nil
}

// EncodeCollection serializes a collection as a JSON array. A nil collection
// is written as [].
func EncodeCollection[T models.Record](records []T) (string, error) {
	if records == nil {
		records = []T{}
	}

	data, err := json.Marshal(records)
	if err != nil {
		return "", fmt.Errorf("encode collection: %w", err)
	}

	return string(data), nil
}

// MergePayload decodes text and merges it into local. When text is malformed
// the remote is treated as empty: a copy of local is returned together with
// the decode error so the caller can log it.
func MergePayload[T models.Record](local []T, text string) ([]T, error) {
	remote, err := DecodeCollection[T](text)
	if err != nil {
		return Merge(local, nil), err
	}
	return Merge(local, remote), nil
}

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"strings"
	"testing"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	dollar   = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	question = sq.StatementBuilder.PlaceholderFormat(sq.Question)
)

func Test_buildGetCollectionQuery(t *testing.T) {
	query, args, err := buildGetCollectionQuery(dollar, "clients")
	require.NoError(t, err)

	require.Equal(t, []any{"clients"}, args)

	q := strings.ToLower(query)
	for _, col := range collectionColumns {
		assert.Contains(t, q, col)
	}
	assert.Contains(t, q, "from collections")
	assert.Contains(t, query, "collection_key = $1")
}

func Test_buildListCollectionsQuery(t *testing.T) {
	query, args, err := buildListCollectionsQuery(dollar)
	require.NoError(t, err)

	assert.Empty(t, args)
	assert.NotContains(t, strings.ToLower(query), "where")
	assert.Contains(t, strings.ToLower(query), "order by collection_key")
}

func Test_buildUpsertCollectionQuery_Placeholders(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	tests := []struct {
		name    string
		builder sq.StatementBuilderType
		want    string
	}{
		{name: "postgres", builder: dollar, want: "VALUES ($1,$2,$3,$4)"},
		{name: "sqlite", builder: question, want: "VALUES (?,?,?,?)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			query, args, err := buildUpsertCollectionQuery(tt.builder, "staff", "[]", now)
			require.NoError(t, err)

			assert.Contains(t, query, tt.want)
			assert.Contains(t, query, "ON CONFLICT (collection_key)")
			assert.Contains(t, query, "version = collections.version + 1")
			assert.Contains(t, query, "RETURNING version")
			assert.Equal(t, []any{"staff", "[]", 1, now}, args)
		})
	}
}

func Test_buildGetValueQuery(t *testing.T) {
	query, args, err := buildGetValueQuery(question, "enquiries")
	require.NoError(t, err)

	assert.Equal(t, []any{"enquiries"}, args)
	assert.Contains(t, query, "SELECT value FROM collections")
	assert.Contains(t, query, "collection_key = ?")
}

package store

import (
	"time"

	sq "github.com/Masterminds/squirrel"
)

const collectionsTable = "collections"

var collectionColumns = []string{"collection_key", "value", "version", "updated_at"}

// upsertCollectionSuffix is valid for both postgres and sqlite >= 3.35.
const upsertCollectionSuffix = `ON CONFLICT (collection_key) DO UPDATE SET
		value = excluded.value,
		version = collections.version + 1,
		updated_at = excluded.updated_at
	RETURNING version`

func buildGetCollectionQuery(b sq.StatementBuilderType, key string) (string, []any, error) {
	return b.Select(collectionColumns...).
		From(collectionsTable).
		Where(sq.Eq{"collection_key": key}).
		ToSql()
}

func buildListCollectionsQuery(b sq.StatementBuilderType) (string, []any, error) {
	return b.Select(collectionColumns...).
		From(collectionsTable).
		OrderBy("collection_key").
		ToSql()
}

func buildGetValueQuery(b sq.StatementBuilderType, key string) (string, []any, error) {
	return b.Select("value").
		From(collectionsTable).
		Where(sq.Eq{"collection_key": key}).
		ToSql()
}

// buildUpsertCollectionQuery inserts key with version 1 or replaces its value
// and bumps the version. The new version is returned.
func buildUpsertCollectionQuery(b sq.StatementBuilderType, key, value string, now time.Time) (string, []any, error) {
	return b.Insert(collectionsTable).
		Columns(collectionColumns...).
		Values(key, value, 1, now).
		Suffix(upsertCollectionSuffix).
		ToSql()
}

package store

import "errors"

// Sentinel errors returned by stores and repositories. Callers should use
// [errors.Is] to match against these values.
var (
	// ErrNotFound is returned by [CollectionRepository.Get] when no value has
	// ever been written under the key.
	ErrNotFound = errors.New("collection is not found")

	// ErrStoreClosed is returned by a [LocalStore] after Close.
	ErrStoreClosed = errors.New("local store is closed")

	// ErrUnsupportedDriver is returned by the store factories for an
	// unknown driver name.
	ErrUnsupportedDriver = errors.New("unsupported storage driver")

	// ErrCollectionNotSaved is returned when an upsert completes without
	// reporting the stored version.
	ErrCollectionNotSaved = errors.New("collection was not saved")
)

// Low-level database operation errors. These are returned (or wrapped) by
// repository methods when a SQL-level operation fails before any domain logic
// can be applied.
var (
	// ErrBuildingSQLQuery is returned when constructing a parameterised SQL
	// query fails.
	ErrBuildingSQLQuery = errors.New("error building sql query")

	// ErrExecutingQuery is returned when executing a SELECT fails.
	ErrExecutingQuery = errors.New("error executing sql query")

	// ErrExecutingStatement is returned when executing an INSERT or UPDATE
	// fails.
	ErrExecutingStatement = errors.New("failed to executing statement")

	// ErrScanningRow is returned when scanning a single result row fails.
	ErrScanningRow = errors.New("failed to scan collection row")

	// ErrScanningRows is returned when multi-row iteration fails.
	ErrScanningRows = errors.New("failed to scan collection rows")
)

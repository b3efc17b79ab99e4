package store

import (
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

// ErrorClassification tells the collection repository what to do with a
// failed statement: retry it with backoff or return it to the caller.
type ErrorClassification int

const (
	// NonRetryable is the zero value and covers every error nobody
	// recognised as transient.
	NonRetryable ErrorClassification = iota
	// Retryable marks a failure that a later attempt may not hit, such as a
	// dropped connection or a deadlock victim.
	Retryable
)

func (c ErrorClassification) String() string {
	if c == Retryable {
		return "retryable"
	}
	return "non-retryable"
}

// PostgresErrorClassifier implements [ErrorClassificator] for the pgx driver.
type PostgresErrorClassifier struct{}

func NewPostgresErrorClassifier() *PostgresErrorClassifier {
	return &PostgresErrorClassifier{}
}

// Classify implements [ErrorClassificator]. Errors that do not wrap a
// *pgconn.PgError are never retried.
func (c *PostgresErrorClassifier) Classify(err error) ErrorClassification {
	var pgErr *pgconn.PgError
	if err == nil || !errors.As(err, &pgErr) {
		return NonRetryable
	}
	return ClassifyPgError(pgErr)
}

// ClassifyPgError decides by SQLSTATE class. A collection write is one
// upsert, so rerunning it after a lost connection (class 08), a rolled back
// transaction (class 40) or a server that is still starting (57P03) is safe.
// Everything else, including constraint and syntax errors, is final.
func ClassifyPgError(pgErr *pgconn.PgError) ErrorClassification {
	switch {
	case pgErr == nil:
		return NonRetryable
	case pgerrcode.IsConnectionException(pgErr.Code),
		pgerrcode.IsTransactionRollback(pgErr.Code),
		pgErr.Code == pgerrcode.CannotConnectNow:
		return Retryable
	default:
		return NonRetryable
	}
}

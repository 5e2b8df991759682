// internal/database/retry.go
package database

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"regexp"
	"time"

	"github.com/lib/pq"
	"github.com/rs/zerolog/log"

	"github.com/promesto/backend/internal/constants"
)

// transientPattern matches driver error messages that indicate a lost or
// exhausted connection rather than a bad query. Matching is case-insensitive
// and is applied to every error in the unwrap chain, so wrapped causes are
// still recognized.
var transientPattern = regexp.MustCompile(`(?i)` +
	`server has closed the connection|` +
	`connection reset|` +
	`broken pipe|` +
	`connection pool|` +
	`timed out fetching a new connection|` +
	`econnreset|` +
	`bad connection`)

// IsRetryableError reports whether an error is a transient connection
// failure worth retrying. Query errors (syntax, constraint violations,
// sql.ErrNoRows) are never retryable.
func IsRetryableError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, sql.ErrNoRows) {
		return false
	}
	if errors.Is(err, driver.ErrBadConn) {
		return true
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		// 53300 is too_many_connections; class 08 covers the
		// connection exception family.
		if pqErr.Code == "53300" || pqErr.Code.Class() == "08" {
			return true
		}
	}

	// Walk the unwrap chain so causes wrapped with fmt.Errorf("%w") or
	// stored as a struct field still match.
	for e := err; e != nil; e = errors.Unwrap(e) {
		if transientPattern.MatchString(e.Error()) {
			return true
		}
	}

	return false
}

// Executor wraps a Querier with a bounded retry loop for transient
// connection errors. Each operation is attempted up to
// constants.DBMaxAttempts times with a fixed constants.DBRetryDelay
// between attempts. Non-retryable errors propagate immediately.
//
// Retried statements are re-executed in full, so writes routed through
// the executor should be idempotent or tolerant of duplicates.
type Executor struct {
	db Querier
}

// NewExecutor creates a retrying executor over the given query surface.
func NewExecutor(db Querier) *Executor {
	return &Executor{db: db}
}

// ExecContext executes a statement, retrying on transient connection errors.
func (e *Executor) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	var result sql.Result
	err := e.retry(ctx, query, func() error {
		var execErr error
		result, execErr = e.db.ExecContext(ctx, query, args...)
		return execErr
	})
	return result, err
}

// QueryContext executes a query, retrying on transient connection errors.
func (e *Executor) QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	var rows *sql.Rows
	err := e.retry(ctx, query, func() error {
		var queryErr error
		rows, queryErr = e.db.QueryContext(ctx, query, args...)
		return queryErr
	})
	return rows, err
}

// QueryRowContext executes a single-row query, retrying on transient
// connection errors. sql.Row defers its error to Scan, so the row's Err
// is inspected per attempt; sql.ErrNoRows is a result, not a failure,
// and is returned to the caller on the first attempt.
func (e *Executor) QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row {
	var row *sql.Row
	// The retry helper never sees sql.ErrNoRows as retryable, so a
	// missing row exits the loop immediately.
	_ = e.retry(ctx, query, func() error {
		row = e.db.QueryRowContext(ctx, query, args...)
		return row.Err()
	})
	return row
}

// retry runs op up to DBMaxAttempts times, sleeping DBRetryDelay between
// attempts. The sleep respects context cancellation.
func (e *Executor) retry(ctx context.Context, query string, op func() error) error {
	var err error
	for attempt := 1; attempt <= constants.DBMaxAttempts; attempt++ {
		err = op()
		if err == nil || !IsRetryableError(err) {
			return err
		}

		if attempt == constants.DBMaxAttempts {
			break
		}

		log.Warn().
			Err(err).
			Int("attempt", attempt).
			Int("max_attempts", constants.DBMaxAttempts).
			Msg("Transient database error, retrying")

		select {
		case <-time.After(constants.DBRetryDelay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	log.Error().
		Err(err).
		Int("attempts", constants.DBMaxAttempts).
		Msg("Database operation failed after retries")
	return err
}

// Package database provides database access and management for the ProMesto API.
// It implements a connection pool, transaction management, and a retrying
// query executor for transient connection failures.
package database

import (
	"context"
	"database/sql"
)

// Querier defines the query surface repositories depend on.
// Both *Pool and *Executor satisfy it, so a repository is wired with
// retries or without them purely by construction, and tests can pass
// a sqlmock-backed pool directly.
type Querier interface {
	// ExecContext executes a query without returning any rows.
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)

	// QueryContext executes a query that returns rows.
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)

	// QueryRowContext executes a query that is expected to return at most one row.
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// Compile-time checks that the pool and the retrying executor both
// satisfy the repository query surface.
var (
	_ Querier = (*sql.DB)(nil)
	_ Querier = (*Pool)(nil)
	_ Querier = (*Executor)(nil)
)

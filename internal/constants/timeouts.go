package constants

import "time"

// Server Timeouts
const (
	DefaultReadTimeout     = 5 * time.Second
	DefaultWriteTimeout    = 10 * time.Second
	DefaultShutdownTimeout = 30 * time.Second
	DefaultIdleTimeout     = 120 * time.Second
)

// Database Timeouts
const (
	DBConnectionTimeout  = 10 * time.Second
	DBHealthCheckTimeout = 5 * time.Second
	DBConnMaxLifetime    = 1 * time.Hour
	DBConnMaxIdleTime    = 30 * time.Minute

	// ViewDBQueryTimeout bounds every table browser operation.
	ViewDBQueryTimeout = 15 * time.Second
)

// Retry policy for transient database connection failures.
const (
	// DBRetryDelay is the fixed wait between attempts.
	DBRetryDelay = 300 * time.Millisecond

	// DBMaxAttempts is the total number of attempts, including the first.
	DBMaxAttempts = 3
)

// Authentication Timeouts
const (
	DefaultJWTExpiry        = 15 * time.Minute
	DefaultJWTRefreshExpiry = 7 * 24 * time.Hour // 7 days

	// GoogleHTTPTimeout bounds calls to Google's token and userinfo endpoints.
	GoogleHTTPTimeout = 10 * time.Second
)

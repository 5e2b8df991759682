// Package constants provides shared constant values used throughout the application.
//
// The defaults.go file defines default values and limits used throughout the
// application. These constants provide sensible defaults for configuration
// settings and establish boundaries for resource usage.
package constants

// Default Pagination Values define the parameters used for paginated responses.
const (
	// DefaultPage is the default page number for paginated results when not specified.
	DefaultPage = 1

	// DefaultPageSize is the fixed number of items per list page.
	DefaultPageSize = 10

	// MaxPageSize is the maximum allowable page size to prevent excessive resource usage.
	MaxPageSize = 100

	// MinPageSize is the minimum allowable page size.
	MinPageSize = 1
)

// Default Configuration Values define fallback settings when not specified in configuration.
const (
	// DefaultServerPort is the default HTTP server port.
	DefaultServerPort = 8080

	// DefaultDBPort is the default PostgreSQL port.
	DefaultDBPort = 5432

	// DefaultDBMaxConnections is the default maximum number of database connections.
	DefaultDBMaxConnections = 20

	// DefaultDBMinConnections is the default minimum number of database connections.
	DefaultDBMinConnections = 5

	// DefaultLogLevel is the default logging verbosity level.
	DefaultLogLevel = "info"

	// DefaultLogFormat is the default logging output format.
	DefaultLogFormat = "json"

	// DefaultListCacheSize is the default number of cached list pages.
	DefaultListCacheSize = 512

	// DefaultJWTIssuer is the default issuer claim for session tokens.
	DefaultJWTIssuer = "promesto-api"
)

// Rate Limiting Values define the request budgets for the public API.
const (
	// DefaultRateLimitPerSecond is the sustained request rate allowed per client.
	DefaultRateLimitPerSecond = 10.0

	// DefaultRateLimitBurst is the number of requests a client may burst above the sustained rate.
	DefaultRateLimitBurst = 20

	// AuthRateLimitPerSecond is the sustained rate for authentication endpoints.
	AuthRateLimitPerSecond = 1.0

	// AuthRateLimitBurst is the burst size for authentication endpoints.
	AuthRateLimitBurst = 5

	// RateLimitCategoryAuth selects the authentication rate budget.
	RateLimitCategoryAuth = "auth"

	// RateLimitCategoryAPI selects the general API rate budget.
	RateLimitCategoryAPI = "api"
)

// Environment Types define the recognized application running environments.
const (
	// EnvDevelopment identifies a development environment with debugging features enabled.
	EnvDevelopment = "development"

	// EnvTesting identifies a testing environment for automated tests.
	EnvTesting = "testing"

	// EnvProduction identifies a production environment with optimized settings.
	EnvProduction = "production"
)

// Input Limits define the accepted sizes for user-provided content.
const (
	// MaxRequestBodySize is the maximum size in bytes for HTTP request bodies.
	MaxRequestBodySize = 1 << 20 // 1 MB

	// MinTitleLength is the minimum length of a place title.
	MinTitleLength = 1

	// MaxTitleLength is the maximum length of a place title.
	MaxTitleLength = 200

	// MinContentLength is the minimum length of place content.
	MinContentLength = 1

	// MaxContentLength is the maximum length of place content.
	MaxContentLength = 5000
)

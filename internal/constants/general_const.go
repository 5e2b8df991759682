// Package constants provides shared constant values used throughout the application.
//
// The general_const.go file defines general-purpose constants related to routing,
// request parameters, headers, and authentication. These constants ensure consistent
// API patterns and URL structure throughout the application.
package constants

// Base Routes define the root URL paths for different parts of the API.
const (
	// APIBasePath is the root path prefix for all API endpoints.
	APIBasePath = "/api"

	// HealthPath is the endpoint for health checks and system status.
	HealthPath = "/health"
)

// URL Parameters define path parameter names used in route definitions.
const (
	// ParamID is the URL parameter for generic resource identifiers.
	ParamID = "id"

	// ParamTable is the URL parameter for table browser table keys.
	ParamTable = "table"

	// ParamTarget is the URL parameter for table browser database targets.
	ParamTarget = "target"
)

// Query Parameters define common query string parameter names.
const (
	// QueryParamPage is the query parameter for pagination page number.
	QueryParamPage = "page"

	// QueryParamPageSize is the query parameter for pagination page size.
	QueryParamPageSize = "page_size"

	// QueryParamSearch is the query parameter for list search text.
	QueryParamSearch = "search"

	// QueryParamSort is the query parameter for public list ordering.
	QueryParamSort = "sort"
)

// Sort Orders define the accepted values for the public list sort parameter.
const (
	// SortRecent orders public places by creation time, newest first.
	SortRecent = "recent"

	// SortPopular orders public places by like count, then by creation time.
	SortPopular = "popular"
)

// Headers define HTTP header names used by the API.
const (
	// HeaderAuthorization is the standard authorization header.
	HeaderAuthorization = "Authorization"

	// HeaderXAdminKey carries the admin key for table browser access.
	HeaderXAdminKey = "X-Admin-Key"

	// HeaderXRequestID carries the request correlation ID.
	HeaderXRequestID = "X-Request-ID"

	// HeaderContentType is the standard content type header.
	HeaderContentType = "Content-Type"

	// ContentTypeJSON is the JSON content type value.
	ContentTypeJSON = "application/json"
)

// Security header values applied to every response.
const (
	// HeaderXContentTypeOptions is the content type options header.
	HeaderXContentTypeOptions = "X-Content-Type-Options"

	// ContentTypeOptionsNoSniff disables MIME type sniffing.
	ContentTypeOptionsNoSniff = "nosniff"

	// HeaderXFrameOptions is the frame options header.
	HeaderXFrameOptions = "X-Frame-Options"

	// FrameOptionsDeny forbids framing entirely.
	FrameOptionsDeny = "DENY"

	// HeaderXXSSProtection is the legacy XSS filter header.
	HeaderXXSSProtection = "X-XSS-Protection"

	// XSSProtectionModeBlock enables blocking mode in older browsers.
	XSSProtectionModeBlock = "1; mode=block"

	// HeaderReferrerPolicy is the referrer policy header.
	HeaderReferrerPolicy = "Referrer-Policy"

	// ReferrerPolicyStrictOrigin limits referrer information on cross-origin requests.
	ReferrerPolicyStrictOrigin = "strict-origin-when-cross-origin"

	// HeaderContentSecurityPolicy is the content security policy header.
	HeaderContentSecurityPolicy = "Content-Security-Policy"

	// CSPDefaultSrc restricts content sources to the API's own origin.
	CSPDefaultSrc = "default-src 'self'"
)

// Authentication constants define token handling conventions.
const (
	// BearerTokenPrefix is the prefix for bearer tokens in the Authorization header.
	BearerTokenPrefix = "Bearer "

	// AuthTokenCookie is the cookie name used as a fallback token carrier.
	AuthTokenCookie = "auth_token"

	// TokenTypeAccess identifies short-lived access tokens.
	TokenTypeAccess = "access"

	// TokenTypeRefresh identifies long-lived refresh tokens.
	TokenTypeRefresh = "refresh"
)

// Context keys for storing authenticated user information and request metadata.
const (
	// UserIDContextKey is the context key for the authenticated user ID.
	UserIDContextKey = "user_id"

	// EmailContextKey is the context key for the authenticated user's email.
	EmailContextKey = "email"

	// NameContextKey is the context key for the authenticated user's display name.
	NameContextKey = "name"

	// RequestIDContextKey is the context key for the request correlation ID.
	RequestIDContextKey = "request_id"
)

// Table browser targets name the two configured database environments.
const (
	// ViewDBTargetLocal selects the local database target.
	ViewDBTargetLocal = "local"

	// ViewDBTargetProduction selects the production database target.
	ViewDBTargetProduction = "production"
)

// Package constants provides shared constant values used throughout the application.
//
// The errorcodes.go file defines constants related to error handling, categorization,
// and messaging. User-facing error messages are crafted to be informative without
// revealing implementation details.
package constants

// Error Types define the categories of errors that can occur in the application.
const (
	// ErrorNotFound indicates that a requested resource could not be found.
	ErrorNotFound = "resource not found"

	// ErrorUnauthorized indicates that authentication is required but was not provided.
	ErrorUnauthorized = "unauthorized access"

	// ErrorForbidden indicates that the requester lacks sufficient permissions.
	ErrorForbidden = "forbidden access"

	// ErrorBadRequest indicates that the request was malformed or invalid.
	ErrorBadRequest = "invalid request"

	// ErrorInternalServer indicates an unexpected internal error.
	ErrorInternalServer = "internal server error"

	// ErrorValidation indicates that input validation failed.
	ErrorValidation = "validation error"

	// ErrorDuplicate indicates an attempt to create a resource that already exists.
	ErrorDuplicate = "duplicate resource"

	// ErrorUnavailable indicates that the storage layer could not serve the request.
	ErrorUnavailable = "service unavailable"

	// ErrorTimeout indicates that a database operation exceeded its deadline.
	ErrorTimeout = "operation timed out"
)

// Response Error Codes are machine-readable codes included in error responses.
const (
	CodeBadRequest       = "bad_request"
	CodeUnauthorized     = "unauthorized"
	CodeForbidden        = "forbidden"
	CodeNotFound         = "not_found"
	CodeMethodNotAllowed = "method_not_allowed"
	CodeConflict         = "conflict"
	CodeValidationError  = "validation_error"
	CodeInternalError    = "internal_error"
	CodeUnavailable      = "service_unavailable"
	CodeTimeout          = "timeout"
	CodeTokenExpired     = "token_expired"
	CodeTokenInvalid     = "token_invalid"
)

// User-Facing Error Messages define standardized messages safe to present to users.
const (
	// MsgAuthRequired indicates that the user must sign in to perform the action.
	MsgAuthRequired = "Please sign in to continue"

	// MsgSignInToLike indicates that liking requires an authenticated session.
	MsgSignInToLike = "Sign in to like places"

	// MsgAccessDenied indicates that the user lacks permission for the requested action.
	MsgAccessDenied = "You don't have permission to perform this action"

	// MsgPlaceNotFound indicates that the requested place does not exist.
	MsgPlaceNotFound = "Place not found"

	// MsgOnlyPublicLikeable indicates that private places cannot be liked.
	MsgOnlyPublicLikeable = "Only public places can be liked"

	// MsgTryAgainLater is the generic message for unexpected storage failures.
	MsgTryAgainLater = "Something went wrong, please try again later"

	// MsgServiceUnavailable indicates that list data could not be loaded.
	MsgServiceUnavailable = "Service is temporarily unavailable"

	// MsgViewDBTimeout is the distinguished table browser timeout message.
	MsgViewDBTimeout = "Database connection timed out, check the target configuration"

	// MsgInternalServerError provides a generic server error message.
	MsgInternalServerError = "An internal server error occurred"

	// MsgTokenExpired indicates that the user's authentication token has expired.
	MsgTokenExpired = "Authentication token has expired"

	// MsgInvalidToken indicates that the provided token is invalid.
	MsgInvalidToken = "Invalid token"

	// MsgRequestBodyTooLarge indicates that the request payload exceeds size limits.
	MsgRequestBodyTooLarge = "Request body too large"

	// MsgEmptyRequestBody indicates that a request body was expected but not provided.
	MsgEmptyRequestBody = "Request body must not be empty"

	// MsgMalformedJSON indicates that the request body contains invalid JSON.
	MsgMalformedJSON = "Request body contains malformed JSON"
)

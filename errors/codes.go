// Package errors provides the error taxonomy for deploy actions.
// It extends Go's standard error handling with structured error codes and a
// separation between the caller-facing message and the underlying cause.
package errors

// ErrorCode represents a specific failure kind of a deploy action.
// Error codes are string-based for debuggability and natural JSON serialization.
type ErrorCode string

const (
	// Validation errors.

	// CodeInvalidInput indicates the provided input is invalid or malformed.
	CodeInvalidInput ErrorCode = "INVALID_INPUT"

	// CodeMethodNotAllowed indicates the request method is not processed by the action.
	CodeMethodNotAllowed ErrorCode = "METHOD_NOT_ALLOWED"

	// CodeInvalidConfig indicates a configuration error prevents the operation.
	CodeInvalidConfig ErrorCode = "INVALID_CONFIGURATION"

	// Upstream errors.

	// CodeFetchFailed indicates the repository could not be retrieved.
	CodeFetchFailed ErrorCode = "FETCH_FAILED"

	// CodeDeployFailed indicates the external deploy tool reported a failure.
	CodeDeployFailed ErrorCode = "DEPLOY_FAILED"

	// CodeTimeout indicates an operation exceeded its time limit or was cancelled.
	CodeTimeout ErrorCode = "TIMEOUT"

	// System errors.

	// CodeInternal indicates an internal system error occurred.
	CodeInternal ErrorCode = "INTERNAL_ERROR"

	// Generic errors.

	// CodeUnknown indicates an unknown or unclassified error occurred.
	CodeUnknown ErrorCode = "UNKNOWN"
)

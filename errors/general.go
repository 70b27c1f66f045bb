package errors

const (
	UnknownErrorCode          = 100_001
	ValidationFailedErrorCode = 100_002
)

var UnknownError = new(UnknownErrorCode, "UnknownError", "unexpected error: %s")

// ValidationFailedError indicates request body does not pass binding validation
var ValidationFailedError = new(ValidationFailedErrorCode, "ValidationFailed", "validation failed: %s")

package errors

const (
	ProfanityDetectedErrorCode = 400_001
	TooManyLinksErrorCode      = 400_002
	PingbackFailedErrorCode    = 500_001
	UnknownOptionErrorCode     = 600_001
	InvalidOptionErrorCode     = 600_002
)

// ProfanityDetectedError indicates a comment body is rejected by the profanity filter
var ProfanityDetectedError = new(ProfanityDetectedErrorCode, "ProfanityDetected", "Content of %s is not allowed")

// TooManyLinksError indicates submitted sketch looks like link spam
var TooManyLinksError = new(TooManyLinksErrorCode, "TooManyLinks", "Sketch contains too many links")

// PingbackFailedError carries the pingback fault code returned or inferred for a target
var PingbackFailedError = new(PingbackFailedErrorCode, "PingbackFailed", "Pingback to %s failed with fault %d")

// UnknownOptionError indicates a settings option name is not part of the settings schema
var UnknownOptionError = new(UnknownOptionErrorCode, "UnknownOption", "Option %s is not recognized")

// InvalidOptionError indicates a settings option value cannot be coerced to its type
var InvalidOptionError = new(InvalidOptionErrorCode, "InvalidOption", "Option %s has invalid value %q")

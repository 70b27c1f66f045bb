package pingback

import (
	stderrors "errors"

	serverError "github.com/supakorn-kn/go-sketchpatch/errors"
)

// Fault codes of the pingback protocol.
const (
	FaultGeneric           = 0
	FaultSourceNotFound    = 16
	FaultNoLink            = 17
	FaultTargetNotFound    = 32
	FaultTargetNotEnabled  = 33
	FaultAlreadyRegistered = 48
	FaultAccessDenied      = 49
	FaultUpstream          = 50
)

// FaultError is a PingbackFailed error that keeps the numeric fault code.
type FaultError struct {
	Code    int
	Target  string
	Message string
	err     serverError.BaseError
}

func newFault(target string, code int) *FaultError {
	return &FaultError{Code: code, Target: target, err: serverError.PingbackFailedError.New(target, code)}
}

func (e *FaultError) Error() string {

	if e.Message != "" {
		return e.err.Error() + ": " + e.Message
	}

	return e.err.Error()
}

func (e *FaultError) Unwrap() error {
	return e.err
}

// FaultCode extracts the pingback fault code from err.
func FaultCode(err error) (int, bool) {

	var fault *FaultError
	if stderrors.As(err, &fault) {
		return fault.Code, true
	}

	return 0, false
}

package errors

import (
	stderrors "errors"
	"fmt"
	"reflect"
)

type Error interface {
	error
	New(args ...any) BaseError
}

type BaseError struct {
	Code    int    `json:"code"`
	Name    string `json:"name"`
	Message string `json:"message"`

	messageFormat string
}

func (e BaseError) Error() string {
	return e.Message
}

// New returns a copy of the template with its message rendered from args.
// Templates are shared package variables, so the receiver is never modified.
func (e BaseError) New(args ...any) BaseError {

	e.Message = e.messageFormat
	if len(args) > 0 {
		e.Message = fmt.Sprintf(e.messageFormat, args...)
	}

	return e
}

func (e BaseError) IsNil() bool {
	return reflect.ValueOf(e).IsZero()
}

func TryAssertError(err error) (BaseError, bool) {

	var asserted BaseError
	ok := stderrors.As(err, &asserted)
	return asserted, ok
}

// IsError reports whether err, or anything it wraps, was created from the same template.
func IsError(err error, expectedError Error) bool {

	asserted, ok := TryAssertError(err)
	if !ok {
		return false
	}

	return asserted.Code == expectedError.New().Code
}

func new(errorCode int, name string, messageFormat string) Error {

	return BaseError{Code: errorCode, Name: name, messageFormat: messageFormat}
}

package apperr

import (
	"fmt"
	"net/http"

	"github.com/pkg/errors"
)

// Error is an operational error: an expected, user-facing failure whose
// status code and message are safe to return as-is.
type Error struct {
	StatusCode int
	Message    string
	Details    any
	cause      error
}

func New(statusCode int, message string) *Error {
	return &Error{StatusCode: statusCode, Message: message, cause: errors.New(message)}
}

func Newf(statusCode int, format string, args ...any) *Error {
	return New(statusCode, fmt.Sprintf(format, args...))
}

// Wrap records err as the cause of an operational error.
func Wrap(err error, statusCode int, message string) *Error {
	return &Error{StatusCode: statusCode, Message: message, cause: errors.WithStack(err)}
}

func (e *Error) WithDetails(details any) *Error {
	e.Details = details
	return e
}

func (e *Error) Error() string {
	if e.cause == nil || e.cause.Error() == e.Message {
		return e.Message
	}
	return e.Message + ": " + e.cause.Error()
}

func (e *Error) Unwrap() error {
	return e.cause
}

func BadRequest(message string) *Error {
	return New(http.StatusBadRequest, message)
}

func Unauthorized(message string) *Error {
	return New(http.StatusUnauthorized, message)
}

func Forbidden(message string) *Error {
	return New(http.StatusForbidden, message)
}

func NotFound(message string) *Error {
	return New(http.StatusNotFound, message)
}

// BodyParseError reports a request body that could not be decoded.
type BodyParseError struct {
	Err error
}

func (e *BodyParseError) Error() string {
	return "parsing request body: " + e.Err.Error()
}

func (e *BodyParseError) Unwrap() error {
	return e.Err
}

// UploadError marks a failure that happened while receiving a file upload.
type UploadError struct {
	Err error
}

func (e *UploadError) Error() string {
	return "receiving upload: " + e.Err.Error()
}

func (e *UploadError) Unwrap() error {
	return e.Err
}

type stackTracer interface {
	StackTrace() errors.StackTrace
}

// stackOf returns the outermost stack trace recorded in err's chain.
func stackOf(err error) string {
	for err != nil {
		if st, ok := err.(stackTracer); ok {
			return fmt.Sprintf("%s%+v", err.Error(), st.StackTrace())
		}
		err = errors.Unwrap(err)
	}
	return ""
}

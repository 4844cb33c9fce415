// Package errors defines the coded errors archgraph reports to users.
//
// Only the outer layers produce them: the pipeline, configuration, the CLI
// and the HTTP server. Scanning, merging, layout and rendering are total over
// their inputs and signal problems by returning less data.
//
// A [Code] names the failure class and decides how it surfaces: the CLI
// prints [UserMessage], the server answers with [HTTPStatus].
//
//	if err := errors.ValidateProjectRoot(root); errors.Is(err, errors.ErrCodeFileNotFound) {
//	    ...
//	}
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code is a machine-readable failure class.
type Code string

const (
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidPath   Code = "INVALID_PATH"
	ErrCodeInvalidConfig Code = "INVALID_CONFIG"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"
	ErrCodeInvalidGraph  Code = "INVALID_GRAPH"

	ErrCodeNotFound     Code = "NOT_FOUND"
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"

	ErrCodeScanFailed Code = "SCAN_FAILED"
	ErrCodeTimeout    Code = "TIMEOUT"

	ErrCodeCache       Code = "CACHE_ERROR"
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

var statusByCode = map[Code]int{
	ErrCodeInvalidInput:  http.StatusBadRequest,
	ErrCodeInvalidPath:   http.StatusBadRequest,
	ErrCodeInvalidConfig: http.StatusBadRequest,
	ErrCodeInvalidFormat: http.StatusBadRequest,
	ErrCodeInvalidGraph:  http.StatusBadRequest,
	ErrCodeNotFound:      http.StatusNotFound,
	ErrCodeFileNotFound:  http.StatusNotFound,
	ErrCodeTimeout:       http.StatusGatewayTimeout,
	ErrCodeUnsupported:   http.StatusNotImplemented,
}

// Status returns the HTTP status for c. Unlisted codes are server errors.
func (c Code) Status() int {
	if s, ok := statusByCode[c]; ok {
		return s
	}
	return http.StatusInternalServerError
}

// Error carries a Code, a message meant for the user, and an optional cause.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	s := string(e.Code) + ": " + e.Message
	if e.Cause != nil {
		s += ": " + e.Cause.Error()
	}
	return s
}

func (e *Error) Unwrap() error { return e.Cause }

// New returns an Error with a formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap returns an Error whose cause is err.
func Wrap(code Code, err error, format string, args ...any) *Error {
	e := New(code, format, args...)
	e.Cause = err
	return e
}

// GetCode returns the code of the outermost *Error in err's chain, or "".
func GetCode(err error) Code {
	if e, ok := asError(err); ok {
		return e.Code
	}
	return ""
}

// Is reports whether the outermost *Error in err's chain has code.
func Is(err error, code Code) bool {
	return err != nil && GetCode(err) == code
}

// UserMessage returns err's message without the code prefix or cause, for
// display. Errors without a code are returned verbatim.
func UserMessage(err error) string {
	if e, ok := asError(err); ok {
		return e.Message
	}
	return err.Error()
}

// HTTPStatus maps err to a response status via its code.
func HTTPStatus(err error) int {
	return GetCode(err).Status()
}

func asError(err error) (*Error, bool) {
	var e *Error
	ok := errors.As(err, &e)
	return e, ok
}

// Package errors provides structured API errors with a fixed code-to-status mapping
// and the failure envelope sent to clients.
package errors

import (
	"errors"
	"fmt"
	"net/http"
	"runtime/debug"
)

// Code is the machine-readable category of an API error.
type Code string

const (
	CodeInvalidInput       Code = "INVALID_INPUT"
	CodeMissingParameter   Code = "MISSING_PARAMETER"
	CodeNotFound           Code = "RESOURCE_NOT_FOUND"
	CodeUnauthorized       Code = "UNAUTHORIZED"
	CodeForbidden          Code = "FORBIDDEN"
	CodeRateLimitExceeded  Code = "RATE_LIMIT_EXCEEDED"
	CodeConflict           Code = "CONFLICT"
	CodeInternal           Code = "INTERNAL_ERROR"
	CodeDatabase           Code = "DATABASE_ERROR"
	CodeExternalAPI        Code = "EXTERNAL_API_ERROR"
	CodeServiceUnavailable Code = "SERVICE_UNAVAILABLE"
)

var codeStatus = map[Code]int{
	CodeInvalidInput:       http.StatusBadRequest,
	CodeMissingParameter:   http.StatusBadRequest,
	CodeNotFound:           http.StatusNotFound,
	CodeUnauthorized:       http.StatusUnauthorized,
	CodeForbidden:          http.StatusForbidden,
	CodeRateLimitExceeded:  http.StatusTooManyRequests,
	CodeConflict:           http.StatusConflict,
	CodeInternal:           http.StatusInternalServerError,
	CodeDatabase:           http.StatusInternalServerError,
	CodeExternalAPI:        http.StatusBadGateway,
	CodeServiceUnavailable: http.StatusServiceUnavailable,
}

// Codes returns every known error code.
func Codes() []Code {
	return []Code{
		CodeInvalidInput, CodeMissingParameter, CodeNotFound, CodeUnauthorized,
		CodeForbidden, CodeRateLimitExceeded, CodeConflict, CodeInternal,
		CodeDatabase, CodeExternalAPI, CodeServiceUnavailable,
	}
}

// Status returns the HTTP status for the code. Unknown codes map to 500.
func (c Code) Status() int {
	if status, ok := codeStatus[c]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// Error is a structured API error.
type Error struct {
	Code    Code
	Message string
	Details map[string]any
	Cause   error
	Stack   string
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// HTTPStatus returns the status code for this error.
func (e *Error) HTTPStatus() int {
	return e.Code.Status()
}

// WithDetail adds a detail field to the error (chainable).
func (e *Error) WithDetail(key string, value any) *Error {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// WithStack records a stack trace on the error (chainable).
func (e *Error) WithStack(stack []byte) *Error {
	e.Stack = string(stack)
	return e
}

func newError(code Code, message string, cause error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Cause:   cause,
		Details: make(map[string]any),
	}
}

// New creates an error with an explicit code.
func New(code Code, message string) *Error {
	return newError(code, message, nil)
}

func InvalidInput(message string) *Error {
	return newError(CodeInvalidInput, message, nil)
}

func MissingParameter(name string) *Error {
	return newError(CodeMissingParameter, fmt.Sprintf("missing required parameter: %s", name), nil).
		WithDetail("parameter", name)
}

func NotFound(message string) *Error {
	return newError(CodeNotFound, message, nil)
}

func Unauthorized(message string) *Error {
	return newError(CodeUnauthorized, message, nil)
}

func Forbidden(message string) *Error {
	return newError(CodeForbidden, message, nil)
}

func RateLimitExceeded(message string) *Error {
	return newError(CodeRateLimitExceeded, message, nil)
}

func Conflict(message string) *Error {
	return newError(CodeConflict, message, nil)
}

func Internal(message string, cause error) *Error {
	return newError(CodeInternal, message, cause)
}

func Database(message string, cause error) *Error {
	return newError(CodeDatabase, message, cause)
}

func ExternalAPI(message string, cause error) *Error {
	return newError(CodeExternalAPI, message, cause)
}

func ServiceUnavailable(message string) *Error {
	return newError(CodeServiceUnavailable, message, nil)
}

// AsStructured converts any error into a structured Error.
// If the chain already holds an *Error it is returned unchanged, otherwise the
// error is wrapped as INTERNAL_ERROR with the current stack.
func AsStructured(err error) *Error {
	if err == nil {
		return nil
	}

	var structuredErr *Error
	if errors.As(err, &structuredErr) {
		return structuredErr
	}

	return Internal("internal server error", err).WithStack(debug.Stack())
}

// Body is the error object inside the failure envelope.
type Body struct {
	Code       Code           `json:"code"`
	Message    string         `json:"message"`
	StatusCode int            `json:"statusCode"`
	Details    map[string]any `json:"details,omitempty"`
}

// Envelope is the JSON structure sent to clients on failure.
type Envelope struct {
	Success bool `json:"success"`
	Error   Body `json:"error"`
}

// Response builds the failure envelope. Cause and stack are only exposed when
// includeDebug is set, which callers do outside production.
func (e *Error) Response(includeDebug bool) Envelope {
	var details map[string]any
	if len(e.Details) > 0 || (includeDebug && (e.Cause != nil || e.Stack != "")) {
		details = make(map[string]any, len(e.Details)+2)
		for k, v := range e.Details {
			details[k] = v
		}
	}
	if includeDebug {
		if e.Cause != nil {
			details["cause"] = e.Cause.Error()
		}
		if e.Stack != "" {
			details["stack"] = e.Stack
		}
	}

	return Envelope{
		Success: false,
		Error: Body{
			Code:       e.Code,
			Message:    e.Message,
			StatusCode: e.HTTPStatus(),
			Details:    details,
		},
	}
}

// FromStatus maps an HTTP status produced by framework middleware onto a code.
func FromStatus(status int) Code {
	switch status {
	case http.StatusBadRequest, http.StatusRequestEntityTooLarge, http.StatusUnsupportedMediaType:
		return CodeInvalidInput
	case http.StatusUnauthorized:
		return CodeUnauthorized
	case http.StatusForbidden:
		return CodeForbidden
	case http.StatusNotFound, http.StatusMethodNotAllowed:
		return CodeNotFound
	case http.StatusConflict:
		return CodeConflict
	case http.StatusTooManyRequests:
		return CodeRateLimitExceeded
	case http.StatusBadGateway:
		return CodeExternalAPI
	case http.StatusServiceUnavailable:
		return CodeServiceUnavailable
	default:
		return CodeInternal
	}
}

package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Standard sentinel errors for common cases.
var (
	ErrNotFound         = errors.New("resource not found")
	ErrAlreadyExists    = errors.New("resource already exists")
	ErrInvalidInput     = errors.New("invalid input")
	ErrInternal         = errors.New("internal error")
	ErrServiceUnavail   = errors.New("service unavailable")
	ErrMissingField     = errors.New("missing field")
	ErrUnknownLocation  = errors.New("unknown location")
	ErrInvalidArgument  = errors.New("invalid argument")
	ErrMethodNotAllowed = errors.New("method not allowed")
	ErrTooManyRequests  = errors.New("too many requests")
)

// AppError represents a structured application error with HTTP status mapping.
type AppError struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
	Status  int               `json:"-"`
	Err     error             `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NotFound creates a 404 error.
func NotFound(resource, id string) *AppError {
	return &AppError{
		Code:    "NOT_FOUND",
		Message: fmt.Sprintf("%s with id %s not found", resource, id),
		Status:  http.StatusNotFound,
		Err:     ErrNotFound,
	}
}

// AlreadyExists creates a 409 error.
func AlreadyExists(resource, field, value string) *AppError {
	return &AppError{
		Code:    "ALREADY_EXISTS",
		Message: fmt.Sprintf("%s with %s %q already exists", resource, field, value),
		Status:  http.StatusConflict,
		Err:     ErrAlreadyExists,
	}
}

// InvalidInput creates a 400 error.
func InvalidInput(message string) *AppError {
	return &AppError{
		Code:    "INVALID_INPUT",
		Message: message,
		Status:  http.StatusBadRequest,
		Err:     ErrInvalidInput,
	}
}

// MissingField creates a 400 error for a required field that was empty or
// absent. fields maps each offending field to a short reason and may be nil.
func MissingField(message string, fields map[string]string) *AppError {
	return &AppError{
		Code:    "MISSING_FIELD",
		Message: message,
		Fields:  fields,
		Status:  http.StatusBadRequest,
		Err:     ErrMissingField,
	}
}

// UnknownLocation creates a 400 error for a location outside the known set.
func UnknownLocation(message string) *AppError {
	return &AppError{
		Code:    "UNKNOWN_LOCATION",
		Message: message,
		Status:  http.StatusBadRequest,
		Err:     ErrUnknownLocation,
	}
}

// InvalidArgument creates a 400 error for a malformed query argument.
func InvalidArgument(message string) *AppError {
	return &AppError{
		Code:    "INVALID_ARGUMENT",
		Message: message,
		Status:  http.StatusBadRequest,
		Err:     ErrInvalidArgument,
	}
}

// MethodNotAllowed creates a 405 error.
func MethodNotAllowed(method string) *AppError {
	return &AppError{
		Code:    "METHOD_NOT_ALLOWED",
		Message: fmt.Sprintf("method %s not allowed", method),
		Status:  http.StatusMethodNotAllowed,
		Err:     ErrMethodNotAllowed,
	}
}

// PayloadTooLarge creates a 413 error for a request body over limit bytes.
func PayloadTooLarge(limit int64) *AppError {
	return &AppError{
		Code:    "PAYLOAD_TOO_LARGE",
		Message: fmt.Sprintf("request body must not exceed %d bytes", limit),
		Status:  http.StatusRequestEntityTooLarge,
		Err:     ErrInvalidInput,
	}
}

// TooManyRequests creates a 429 error.
func TooManyRequests() *AppError {
	return &AppError{
		Code:    "RATE_LIMITED",
		Message: "too many requests",
		Status:  http.StatusTooManyRequests,
		Err:     ErrTooManyRequests,
	}
}

// ServiceUnavailable creates a 503 error.
func ServiceUnavailable(message string, err error) *AppError {
	return &AppError{
		Code:    "SERVICE_UNAVAILABLE",
		Message: message,
		Status:  http.StatusServiceUnavailable,
		Err:     errors.Join(ErrServiceUnavail, err),
	}
}

// Internal creates a 500 error.
func Internal(err error) *AppError {
	return &AppError{
		Code:    "INTERNAL_ERROR",
		Message: "an internal error occurred",
		Status:  http.StatusInternalServerError,
		Err:     err,
	}
}

// HTTPStatus returns the HTTP status code for the given error.
func HTTPStatus(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Status
	}

	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrAlreadyExists):
		return http.StatusConflict
	case errors.Is(err, ErrInvalidInput), errors.Is(err, ErrMissingField),
		errors.Is(err, ErrUnknownLocation), errors.Is(err, ErrInvalidArgument):
		return http.StatusBadRequest
	case errors.Is(err, ErrMethodNotAllowed):
		return http.StatusMethodNotAllowed
	case errors.Is(err, ErrTooManyRequests):
		return http.StatusTooManyRequests
	case errors.Is(err, ErrServiceUnavail):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

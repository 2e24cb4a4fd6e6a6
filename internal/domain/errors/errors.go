package errors

import (
	"net/http"

	"attendance/internal/errors"
)

// AppError defines the interface for application-specific errors
type AppError interface {
	error
	HTTPCode() int     // HTTP status code
	ErrorCode() string // Business error code
	Message() string   // User-friendly error message
	Details() string   // Detailed error information (optional)
}

// BaseError is a basic error structure that implements the AppError interface
type BaseError struct {
	httpCode  int
	errorCode string
	message   string
	details   string
}

// NewBaseError creates a new base error
func NewBaseError(httpCode int, errorCode, message, details string) *BaseError {
	return &BaseError{
		httpCode:  httpCode,
		errorCode: errorCode,
		message:   message,
		details:   details,
	}
}

// Error implements the error interface
func (e *BaseError) Error() string {
	if e.details == "" {
		return e.message
	}

	return e.message + ": " + e.details
}

// Is matches any BaseError carrying the same business error code, so that
// copies produced by WithDetails still satisfy errors.Is against the predefined value.
func (e *BaseError) Is(target error) bool {
	var other *BaseError
	if !errors.As(target, &other) {
		return false
	}

	return other.errorCode == e.errorCode
}

// WrapMessage wraps the error with additional context message
func (e *BaseError) WrapMessage(message string) error {
	return errors.Wrap(e, message)
}

// HTTPCode returns the HTTP status code
func (e *BaseError) HTTPCode() int {
	return e.httpCode
}

// ErrorCode returns the business error code
func (e *BaseError) ErrorCode() string {
	return e.errorCode
}

// Message returns the user-friendly error message
func (e *BaseError) Message() string {
	return e.message
}

// Details returns detailed error information
func (e *BaseError) Details() string {
	return e.details
}

// WithDetails adds detailed error information
func (e *BaseError) WithDetails(details string) *BaseError {
	return &BaseError{
		httpCode:  e.httpCode,
		errorCode: e.errorCode,
		message:   e.message,
		details:   details,
	}
}

// Predefined error types
var (
	// QR rotation errors
	ErrGenerationFailure = NewBaseError(
		http.StatusBadGateway,
		"GENERATION_FAILURE",
		"Failed to generate QR",
		"",
	)

	ErrTokenUnavailable = NewBaseError(
		http.StatusNotFound,
		"TOKEN_UNAVAILABLE",
		"No QR token is currently displayed",
		"",
	)

	// Geofence errors
	ErrMarkupParseFailure = NewBaseError(
		http.StatusUnprocessableEntity,
		"MARKUP_PARSE_FAILURE",
		"Boundary document has no usable coordinates",
		"",
	)

	ErrInvalidVertexInput = NewBaseError(
		http.StatusBadRequest,
		"INVALID_VERTEX_INPUT",
		"A polygon needs at least 3 valid vertices",
		"",
	)

	ErrDerivedFieldEdit = NewBaseError(
		http.StatusConflict,
		"DERIVED_FIELD_EDIT",
		"Center and radius are derived from the polygon boundary",
		"",
	)

	ErrBoundaryNotFound = NewBaseError(
		http.StatusNotFound,
		"BOUNDARY_NOT_FOUND",
		"Office area has no polygon boundary",
		"",
	)

	ErrAreaNameRequired = NewBaseError(
		http.StatusBadRequest,
		"AREA_NAME_REQUIRED",
		"Please provide a name for the geofence",
		"",
	)

	// Backend errors
	ErrBackendFailure = NewBaseError(
		http.StatusBadGateway,
		"BACKEND_FAILURE",
		"Backend request failed",
		"",
	)

	ErrBackendUnauthorized = NewBaseError(
		http.StatusUnauthorized,
		"BACKEND_UNAUTHORIZED",
		"Backend rejected the station credentials",
		"",
	)

	ErrOfficeAreaNotFound = NewBaseError(
		http.StatusNotFound,
		"OFFICE_AREA_NOT_FOUND",
		"Office area not found",
		"",
	)
)

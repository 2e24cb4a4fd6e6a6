package response

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Business error codes produced by the delivery layer itself. Domain errors
// carry their own codes.
const (
	CodeInvalidInput    = "INVALID_INPUT"
	CodeValidationError = "VALIDATION_ERROR"
	CodeHTTPError       = "HTTP_ERROR"
	CodeInternalError   = "INTERNAL_ERROR"
)

// Response unified API response structure
type Response struct {
	Success bool       `json:"success"`
	Code    int        `json:"code"`    // HTTP status code
	Message string     `json:"message"` // User-friendly message
	Data    any        `json:"data,omitempty"`
	Error   *ErrorInfo `json:"error,omitempty"`
}

// ErrorInfo detailed error information
type ErrorInfo struct {
	Code    string `json:"code"`    // Business error code, e.g., "MARKUP_PARSE_FAILURE"
	Details string `json:"details"` // Detailed error description
}

// Success successful response
func Success(c echo.Context, statusCode int, data any, message string) error {
	if message == "" {
		message = "Success"
	}

	return c.JSON(statusCode, Response{
		Success: true,
		Code:    statusCode,
		Message: message,
		Data:    data,
	})
}

// Error error response
func Error(c echo.Context, statusCode int, errorCode string, message string, details string) error {
	if message == "" {
		message = http.StatusText(statusCode)
	}

	return c.JSON(statusCode, Response{
		Success: false,
		Code:    statusCode,
		Message: message,
		Error: &ErrorInfo{
			Code:    errorCode,
			Details: details,
		},
	})
}

// BindingError reports a request body that could not be decoded
func BindingError(c echo.Context, message string) error {
	return Error(c, http.StatusBadRequest, CodeInvalidInput, message, "")
}

// ValidationError reports a decoded request that failed validation
func ValidationError(c echo.Context, err error) error {
	return Error(c, http.StatusBadRequest, CodeValidationError, "Request validation failed", err.Error())
}

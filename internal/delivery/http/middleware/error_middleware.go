package middleware

import (
	"fmt"
	"log/slog"
	"net/http"

	deliverycontext "attendance/internal/delivery/context"
	"attendance/internal/delivery/http/response"
	domainerrors "attendance/internal/domain/errors"
	"attendance/internal/errors"

	"github.com/labstack/echo/v4"
)

// ErrorMiddleware error handling middleware
type ErrorMiddleware struct {
	logger *slog.Logger
}

// NewErrorMiddleware creates a new error handling middleware
func NewErrorMiddleware(logger *slog.Logger) *ErrorMiddleware {
	return &ErrorMiddleware{
		logger: logger,
	}
}

// HandleHTTPError handles errors as Echo's HTTPErrorHandler
func (m *ErrorMiddleware) HandleHTTPError(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var appErr domainerrors.AppError
	if errors.As(err, &appErr) {
		if appErr.HTTPCode() >= http.StatusInternalServerError {
			m.requestLogger(c).Warn("Request failed",
				slog.String("code", appErr.ErrorCode()),
				slog.Any("error", err),
			)
		}

		m.write(c, response.Error(c, appErr.HTTPCode(), appErr.ErrorCode(), appErr.Message(), appErr.Details()))

		return
	}

	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		message := http.StatusText(httpErr.Code)
		if msg, ok := httpErr.Message.(string); ok {
			message = msg
		} else if httpErr.Message != nil {
			message = fmt.Sprint(httpErr.Message)
		}

		m.write(c, response.Error(c, httpErr.Code, response.CodeHTTPError, message, ""))

		return
	}

	m.requestLogger(c).Error("Unhandled error",
		slog.Any("error", err),
		slog.String("cause", errors.Cause(err).Error()),
		slog.String("path", c.Request().URL.Path),
		slog.String("method", c.Request().Method),
	)

	m.write(c, response.Error(c, http.StatusInternalServerError, response.CodeInternalError, "Internal server error", ""))
}

func (m *ErrorMiddleware) requestLogger(c echo.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(c.Request().Context(), m.logger)
}

func (m *ErrorMiddleware) write(c echo.Context, err error) {
	if err != nil {
		m.logger.Error("Failed to write error response", slog.Any("error", err))
	}
}

package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"flightdeck/internal/delivery/http/response"
	domainerrors "flightdeck/internal/domain/errors"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// ErrorMiddleware turns errors bubbling out of handlers into the right
// surface: the JSON envelope for /api routes, a rendered info page for HTML
// routes. Internal details never leave the server log.
type ErrorMiddleware struct {
	logger *slog.Logger
}

// NewErrorMiddleware creates a new error handling middleware
func NewErrorMiddleware(logger *slog.Logger) *ErrorMiddleware {
	return &ErrorMiddleware{
		logger: logger,
	}
}

// HandleHTTPError handles errors as Echo's HTTPErrorHandler.
func (m *ErrorMiddleware) HandleHTTPError(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	statusCode, errorCode, message := m.classify(err, c)

	if isAPIRequest(c) {
		if writeErr := response.Error(c, statusCode, errorCode, message, ""); writeErr != nil {
			m.logger.Error("Failed to write error response", slog.Any("error", writeErr))
		}

		return
	}

	if renderErr := c.Render(statusCode, "info.html", map[string]any{
		"Title":   http.StatusText(statusCode),
		"Message": message,
	}); renderErr != nil {
		m.logger.Error("Failed to render error page", slog.Any("error", renderErr))
		_ = c.String(statusCode, message)
	}
}

func (m *ErrorMiddleware) classify(err error, c echo.Context) (int, string, string) {
	var appErr domainerrors.AppError
	if errors.As(err, &appErr) {
		return appErr.HTTPCode(), appErr.ErrorCode(), appErr.Message()
	}

	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		message := http.StatusText(httpErr.Code)
		if text, ok := httpErr.Message.(string); ok {
			message = text
		}

		return httpErr.Code, "HTTP_ERROR", message
	}

	// Everything else is an internal failure: log the detail, return the
	// generic message.
	m.logger.Error("Unhandled error",
		slog.Any("error", err),
		slog.String("path", c.Request().URL.Path),
		slog.String("method", c.Request().Method),
	)

	return domainerrors.ErrInternalError.HTTPCode(),
		domainerrors.ErrInternalError.ErrorCode(),
		domainerrors.ErrInternalError.Message()
}

func isAPIRequest(c echo.Context) bool {
	return strings.HasPrefix(c.Request().URL.Path, "/api/")
}

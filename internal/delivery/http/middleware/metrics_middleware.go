package middleware

import (
	"net/http"
	"time"

	domainerrors "flightdeck/internal/domain/errors"
	"flightdeck/internal/infra/metrics"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// MetricsMiddleware records per-request counters and latency.
type MetricsMiddleware struct {
	collector *metrics.Collector
}

// NewMetricsMiddleware creates a new metrics middleware.
func NewMetricsMiddleware(collector *metrics.Collector) *MetricsMiddleware {
	return &MetricsMiddleware{collector: collector}
}

// Handle observes every finished request, including ones that errored.
func (m *MetricsMiddleware) Handle(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()
		err := next(c)

		// A returned error has not reached the HTTPErrorHandler yet, so the
		// response status still reads 200 here. Classify it the same way the
		// error handler will.
		status := c.Response().Status
		if err != nil {
			status = statusForError(err)
		}

		m.collector.RecordRequest(c.Request().Method, status)
		m.collector.RecordLatency(time.Since(start))

		return err
	}
}

func statusForError(err error) int {
	var appErr domainerrors.AppError
	if errors.As(err, &appErr) {
		return appErr.HTTPCode()
	}

	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.Code
	}

	return http.StatusInternalServerError
}

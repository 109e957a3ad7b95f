package middleware

import (
	"errors"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/cattyman919/contact/app/utils/metrics"
)

const unmatchedRoute = "unmatched"

// Metrics records request count and latency per route template
func Metrics() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)

			// unknown paths share one label value
			route := c.Path()
			if route == "" || errors.Is(err, echo.ErrNotFound) || errors.Is(err, echo.ErrMethodNotAllowed) {
				route = unmatchedRoute
			}

			metrics.RecordHTTPRequest(c.Request().Method, route, responseStatus(c, err), time.Since(start).Seconds())
			return err
		}
	}
}

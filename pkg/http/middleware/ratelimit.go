package middleware

import (
	"github.com/labstack/echo/v4"
)

// Gate is the admission-control surface the middleware needs; satisfied by
// the sliding-window limiter.
type Gate interface {
	Allow(key string) bool
	Remaining(key string) int
}

// RateLimit applies the gate keyed by client IP. Denied requests never reach
// the handler; denied writes the refusal response. onDenied is optional.
func RateLimit(gate Gate, onDenied func(key string), denied func(c echo.Context) error) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key := c.RealIP()
			if !gate.Allow(key) {
				if onDenied != nil {
					onDenied(key)
				}
				return denied(c)
			}
			return next(c)
		}
	}
}

package http

import (
	"time"

	"github.com/labstack/echo/v4"

	"github.com/CryptoZapCommunity/crypto-zap-dash/pkg/http/middleware"
)

// RateLimitGate applies an inbound rate gate keyed by client IP. Denials
// answer with the ERR_RATE_LIMITED envelope and a Retry-After hint of the
// gate window.
func RateLimitGate(gate middleware.Gate, window time.Duration, onDenied func(key string)) echo.MiddlewareFunc {
	return middleware.RateLimit(gate, onDenied, func(c echo.Context) error {
		return AppErrorResponse(c, RateLimitedError(window))
	})
}

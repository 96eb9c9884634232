package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// BotConcurrencyLimiter bounds how many verification-claim requests
// may be in flight at once across all bot workers, independent of the
// rate limiter guarding /reserve. A full semaphore returns 429 rather
// than queuing, since a blocked bot worker is better told to back off
// and retry than held open.
func BotConcurrencyLimiter(limit int) echo.MiddlewareFunc {
	sem := make(chan struct{}, limit)
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
				return next(c)
			default:
				return c.JSON(http.StatusTooManyRequests, echo.Map{"error": "bot concurrency limit reached"})
			}
		}
	}
}

package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/labstack/echo/v4"
)

// RequireSharedSecret validates the caller against a static API key
// (ADMIN_API_KEY or BOT_API_KEY) carried in the given header, using a
// constant-time comparison so response timing can't leak how many
// leading bytes of the key matched. The original source compared the
// header with plain string equality; this closes that timing side
// channel without changing the admission contract.
func RequireSharedSecret(header, expected, role string) echo.MiddlewareFunc {
	expectedBytes := []byte(expected)
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			got := []byte(c.Request().Header.Get(header))
			if len(got) != len(expectedBytes) || subtle.ConstantTimeCompare(got, expectedBytes) != 1 {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid api key"})
			}
			c.Set("role", role)
			return next(c)
		}
	}
}

package middleware

import (
	"crypto/subtle"
	"errors"
	"net/http"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

var (
	errInvalidToken  = errors.New("invalid token")
	errInvalidClaims = errors.New("invalid claims")
)

// JWTAuth validates the access token carried raw in the Authorization
// header (no "Bearer " prefix — the wire contract is the bare token
// string) and stores the 'sub' claim under the "user_id" context key
// and the 'role' claim under "role".
func JWTAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw := c.Request().Header.Get("Authorization")
			if raw == "" {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing token"})
			}
			if err := applyJWTClaims(c, secret, raw); err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": err.Error()})
			}
			return next(c)
		}
	}
}

func applyJWTClaims(c echo.Context, secret, raw string) error {
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, echo.ErrUnauthorized
		}
		return []byte(secret), nil
	})
	if err != nil || !tok.Valid {
		return errInvalidToken
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return errInvalidClaims
	}
	c.Set("user_id", claims["sub"])
	c.Set("role", claims["role"])
	return nil
}

// JWTOrAdmin implements the admission layer's mixed auth: the same
// Authorization header carries either a raw ADMIN_API_KEY or a user
// JWT, and the caller branches on role downstream. The admin shared
// secret is checked first with a constant-time comparison; anything
// else is parsed as a JWT.
func JWTOrAdmin(jwtSecret, adminKey string) echo.MiddlewareFunc {
	adminKeyBytes := []byte(adminKey)
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw := c.Request().Header.Get("Authorization")
			if raw == "" {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing credentials"})
			}
			got := []byte(raw)
			if len(got) == len(adminKeyBytes) && subtle.ConstantTimeCompare(got, adminKeyBytes) == 1 {
				c.Set("role", "admin")
				return next(c)
			}
			if err := applyJWTClaims(c, jwtSecret, raw); err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": err.Error()})
			}
			return next(c)
		}
	}
}

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequireSharedSecretAcceptsMatchingKey(t *testing.T) {
	e := echo.New()
	mw := RequireSharedSecret("X-Admin-Key", "super-secret", "admin")

	var gotRole any
	handler := mw(func(c echo.Context) error {
		gotRole = c.Get("role")
		return c.NoContent(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodPost, "/admin/tickets/1/refund/start", nil)
	req.Header.Set("X-Admin-Key", "super-secret")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, handler(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "admin", gotRole)
}

func TestRequireSharedSecretRejectsWrongOrMissingKey(t *testing.T) {
	e := echo.New()
	mw := RequireSharedSecret("X-Bot-Key", "bot-secret", "bot")
	handler := mw(func(c echo.Context) error {
		t.Fatal("handler should not be called on bad key")
		return nil
	})

	for _, got := range []string{"", "wrong", "bot-secre", "bot-secret-extra"} {
		req := httptest.NewRequest(http.MethodPost, "/verify/claim", nil)
		if got != "" {
			req.Header.Set("X-Bot-Key", got)
		}
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		require.NoError(t, handler(c))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	}
}

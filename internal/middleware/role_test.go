package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequireRoleAllowsListedRole(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPatch, "/api/tickets/1", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("role", "seller")

	called := false
	handler := RequireRole("seller", "admin")(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})

	require.NoError(t, handler(c))
	assert.True(t, called)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireRoleRejectsUnlistedOrMissingRole(t *testing.T) {
	e := echo.New()
	handler := RequireRole("seller", "admin")(func(c echo.Context) error {
		t.Fatal("handler should not be called for a disallowed role")
		return nil
	})

	req := httptest.NewRequest(http.MethodPatch, "/api/tickets/1", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("role", "bot")

	require.NoError(t, handler(c))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	req2 := httptest.NewRequest(http.MethodPatch, "/api/tickets/1", nil)
	rec2 := httptest.NewRecorder()
	c2 := e.NewContext(req2, rec2)

	require.NoError(t, handler(c2))
	assert.Equal(t, http.StatusForbidden, rec2.Code)
}

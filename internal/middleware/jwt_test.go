package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fahyen/ticket-exchange/internal/utils"
)

func newRequestWithAuth(t *testing.T, auth string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/tickets/my-listings", nil)
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestJWTAuthAcceptsRawTokenWithoutBearerPrefix(t *testing.T) {
	userID := uuid.New()
	tok, err := utils.NewAccessToken("test-secret", userID, "seller", 60)
	require.NoError(t, err)

	c, rec := newRequestWithAuth(t, tok.Token)
	var gotUserID, gotRole any
	handler := JWTAuth("test-secret")(func(c echo.Context) error {
		gotUserID = c.Get("user_id")
		gotRole = c.Get("role")
		return c.NoContent(http.StatusOK)
	})

	require.NoError(t, handler(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, userID.String(), gotUserID)
	assert.Equal(t, "seller", gotRole)
}

func TestJWTAuthRejectsMissingOrWrongSecret(t *testing.T) {
	tok, err := utils.NewAccessToken("right-secret", uuid.New(), "buyer", 60)
	require.NoError(t, err)

	c, rec := newRequestWithAuth(t, tok.Token)
	handler := JWTAuth("wrong-secret")(func(c echo.Context) error {
		t.Fatal("handler should not be called on bad signature")
		return nil
	})
	require.NoError(t, handler(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	c2, rec2 := newRequestWithAuth(t, "")
	handler2 := JWTAuth("right-secret")(func(c echo.Context) error {
		t.Fatal("handler should not be called with no token")
		return nil
	})
	require.NoError(t, handler2(c2))
	assert.Equal(t, http.StatusUnauthorized, rec2.Code)
}

func TestJWTOrAdminRecognizesAdminSharedSecret(t *testing.T) {
	c, rec := newRequestWithAuth(t, "admin-secret")
	var gotRole any
	handler := JWTOrAdmin("jwt-secret", "admin-secret")(func(c echo.Context) error {
		gotRole = c.Get("role")
		return c.NoContent(http.StatusOK)
	})

	require.NoError(t, handler(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "admin", gotRole)
}

func TestJWTOrAdminFallsBackToJWTForNonAdminCallers(t *testing.T) {
	userID := uuid.New()
	tok, err := utils.NewAccessToken("jwt-secret", userID, "seller", 60)
	require.NoError(t, err)

	c, rec := newRequestWithAuth(t, tok.Token)
	var gotUserID, gotRole any
	handler := JWTOrAdmin("jwt-secret", "admin-secret")(func(c echo.Context) error {
		gotUserID = c.Get("user_id")
		gotRole = c.Get("role")
		return c.NoContent(http.StatusOK)
	})

	require.NoError(t, handler(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, userID.String(), gotUserID)
	assert.Equal(t, "seller", gotRole)
}

func TestJWTOrAdminRejectsGarbageCredential(t *testing.T) {
	c, rec := newRequestWithAuth(t, "not-a-jwt-and-not-the-admin-key")
	handler := JWTOrAdmin("jwt-secret", "admin-secret")(func(c echo.Context) error {
		t.Fatal("handler should not be called on garbage credential")
		return nil
	})
	require.NoError(t, handler(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

package utils

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fahyen/ticket-exchange/internal/apperr"
)

type sampleListingRequest struct {
	GameID     string `json:"game_id" validate:"required,uuid"`
	Section    string `json:"section" validate:"required"`
	PriceCents int64  `json:"price_cents" validate:"gte=0"`
}

func bindJSON(t *testing.T, body string) (sampleListingRequest, error) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/tickets", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var dst sampleListingRequest
	err := BindAndValidate(c, &dst)
	return dst, err
}

func TestBindAndValidateAcceptsWellFormedRequest(t *testing.T) {
	dst, err := bindJSON(t, `{"game_id":"5f8a3c2e-1b2d-4e3f-9a1b-2c3d4e5f6a7b","section":"A","price_cents":1500}`)
	require.NoError(t, err)
	assert.Equal(t, "A", dst.Section)
	assert.Equal(t, int64(1500), dst.PriceCents)
}

func TestBindAndValidateRejectsMissingRequiredField(t *testing.T) {
	_, err := bindJSON(t, `{"game_id":"5f8a3c2e-1b2d-4e3f-9a1b-2c3d4e5f6a7b","price_cents":1500}`)
	require.Error(t, err)
	var ae *apperr.Error
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, apperr.KindInvalidInput, ae.Kind)
}

func TestBindAndValidateRejectsInvalidUUID(t *testing.T) {
	_, err := bindJSON(t, `{"game_id":"not-a-uuid","section":"A","price_cents":0}`)
	require.Error(t, err)
}

func TestBindAndValidateRejectsNegativePrice(t *testing.T) {
	_, err := bindJSON(t, `{"game_id":"5f8a3c2e-1b2d-4e3f-9a1b-2c3d4e5f6a7b","section":"A","price_cents":-1}`)
	require.Error(t, err)
}

func TestBindAndValidateRejectsMalformedJSON(t *testing.T) {
	_, err := bindJSON(t, `{not json`)
	require.Error(t, err)
}

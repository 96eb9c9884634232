package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/fahyen/ticket-exchange/internal/apperr"
	"github.com/fahyen/ticket-exchange/internal/service"
)

// AdminHandler exposes the seller's sale-completion endpoint and the
// admin's refund endpoints. The refund endpoints are gated on the
// ADMIN_API_KEY shared secret rather than JWT admission.
type AdminHandler struct {
	Lifecycle *service.Lifecycle
}

func NewAdminHandler(l *service.Lifecycle) *AdminHandler {
	if l == nil {
		panic("handler: nil lifecycle service")
	}
	return &AdminHandler{Lifecycle: l}
}

// MarkSold records a completed transfer (T11), seller-initiated.
func (h *AdminHandler) MarkSold(c echo.Context) error {
	ticketID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return apperr.Respond(c, apperr.InvalidInput("invalid ticket id"))
	}
	sellerID, err := callerIDFromContext(c)
	if err != nil {
		return apperr.Respond(c, err)
	}
	t, err := h.Lifecycle.MarkSold(c.Request().Context(), ticketID, sellerID)
	if err != nil {
		return apperr.Respond(c, err)
	}
	return c.JSON(http.StatusOK, t)
}

// StartRefund begins an admin-initiated refund (T12).
func (h *AdminHandler) StartRefund(c echo.Context) error {
	ticketID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return apperr.Respond(c, apperr.InvalidInput("invalid ticket id"))
	}
	t, err := h.Lifecycle.StartRefund(c.Request().Context(), ticketID)
	if err != nil {
		return apperr.Respond(c, err)
	}
	return c.JSON(http.StatusOK, t)
}

// CompleteRefund finalizes a refund once the processor has
// acknowledged it (T13).
func (h *AdminHandler) CompleteRefund(c echo.Context) error {
	ticketID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return apperr.Respond(c, apperr.InvalidInput("invalid ticket id"))
	}
	t, err := h.Lifecycle.CompleteRefund(c.Request().Context(), ticketID)
	if err != nil {
		return apperr.Respond(c, err)
	}
	return c.JSON(http.StatusOK, t)
}

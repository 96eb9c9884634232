package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/fahyen/ticket-exchange/internal/apperr"
	"github.com/fahyen/ticket-exchange/internal/service"
)

// ReservationHandler exposes the buyer-facing reservation leasing
// surface. It sits behind both JWT admission and the in-process
// reserve rate limiter. There is no release endpoint: a buyer never
// explicitly gives up a lease — the gatekeeper commits it, the reaper
// revokes it, or a later buyer steals a stale one.
type ReservationHandler struct {
	Lifecycle *service.Lifecycle
}

func NewReservationHandler(l *service.Lifecycle) *ReservationHandler {
	if l == nil {
		panic("handler: nil lifecycle service")
	}
	return &ReservationHandler{Lifecycle: l}
}

// Reserve grants the calling buyer a bounded-time exclusive lease on a
// verified ticket (T5).
func (h *ReservationHandler) Reserve(c echo.Context) error {
	ticketID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return apperr.Respond(c, apperr.InvalidInput("invalid ticket id"))
	}
	buyerID, err := callerIDFromContext(c)
	if err != nil {
		return apperr.Respond(c, err)
	}
	t, err := h.Lifecycle.Reserve(c.Request().Context(), ticketID, buyerID)
	if err != nil {
		return apperr.Respond(c, err)
	}
	return c.JSON(http.StatusOK, t)
}

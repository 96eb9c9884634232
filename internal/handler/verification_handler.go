package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/fahyen/ticket-exchange/internal/apperr"
	"github.com/fahyen/ticket-exchange/internal/service"
	"github.com/fahyen/ticket-exchange/internal/utils"
)

// VerificationHandler exposes the bot-facing verification claim pool.
// Callers authenticate with the shared BOT_API_KEY and are additionally
// bounded by the in-process bot concurrency semaphore. Bots carry no
// individual identity beyond that shared secret, so claim/verify/
// unclaim never thread a bot id through the lifecycle engine.
type VerificationHandler struct {
	Lifecycle *service.Lifecycle
}

func NewVerificationHandler(l *service.Lifecycle) *VerificationHandler {
	if l == nil {
		panic("handler: nil lifecycle service")
	}
	return &VerificationHandler{Lifecycle: l}
}

type claimReq struct {
	EventName  string `json:"event_name" validate:"required"`
	Section    string `json:"seat_section" validate:"required"`
	Row        string `json:"seat_row" validate:"required"`
	SeatNumber string `json:"seat_number" validate:"required"`
}

// Claim pops the oldest unclaimed Unverified ticket matching the
// requested seat tuple (T2).
func (h *VerificationHandler) Claim(c echo.Context) error {
	var req claimReq
	if err := utils.BindAndValidate(c, &req); err != nil {
		return apperr.Respond(c, err)
	}
	t, err := h.Lifecycle.ClaimForVerification(c.Request().Context(), req.EventName, req.Section, req.Row, req.SeatNumber)
	if err != nil {
		return apperr.Respond(c, err)
	}
	return c.JSON(http.StatusOK, t)
}

// Verify accepts a claimed listing (T3).
func (h *VerificationHandler) Verify(c echo.Context) error {
	ticketID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return apperr.Respond(c, apperr.InvalidInput("invalid ticket id"))
	}
	t, err := h.Lifecycle.CompleteVerification(c.Request().Context(), ticketID)
	if err != nil {
		return apperr.Respond(c, err)
	}
	return c.JSON(http.StatusOK, t)
}

// Unclaim returns a claimed listing to the unverified pool (T4).
func (h *VerificationHandler) Unclaim(c echo.Context) error {
	ticketID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return apperr.Respond(c, apperr.InvalidInput("invalid ticket id"))
	}
	t, err := h.Lifecycle.UnclaimVerification(c.Request().Context(), ticketID)
	if err != nil {
		return apperr.Respond(c, err)
	}
	return c.JSON(http.StatusOK, t)
}

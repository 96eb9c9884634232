package handler

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"github.com/fahyen/ticket-exchange/internal/apperr"
	"github.com/fahyen/ticket-exchange/internal/processor"
	"github.com/fahyen/ticket-exchange/internal/service"
)

const capturableEventType = "payment_intent.amount_capturable_updated"

// WebhookHandler receives processor webhook deliveries and runs them
// through the gatekeeper. Every event type other than
// amount_capturable_updated — including payment_failed — is
// acknowledged and dropped without further action, matching the
// original source's event filter.
type WebhookHandler struct {
	Processor  *processor.Client
	Gatekeeper *service.Gatekeeper
}

func NewWebhookHandler(p *processor.Client, g *service.Gatekeeper) *WebhookHandler {
	if p == nil || g == nil {
		panic("handler: nil processor or gatekeeper")
	}
	return &WebhookHandler{Processor: p, Gatekeeper: g}
}

type webhookEvent struct {
	Type string `json:"type"`
	Data struct {
		Object struct {
			ID       string            `json:"id"`
			Amount   int64             `json:"amount"`
			Currency string            `json:"currency"`
			Metadata map[string]string `json:"metadata"`
		} `json:"object"`
	} `json:"data"`
}

// Handle verifies the webhook signature, and for
// amount_capturable_updated events only, runs the gatekeeper check.
// Every delivery whose signature verifies gets 200 — a malformed
// payload, missing metadata or a failed capture/cancel downstream is
// logged, never surfaced as an error status. A missing or invalid
// signature gets 401; a body that cannot be read (before the signature
// can be checked) gets 400.
func (h *WebhookHandler) Handle(c echo.Context) error {
	sig := c.Request().Header.Get("Stripe-Signature")
	if sig == "" {
		return apperr.Respond(c, apperr.Unauthorized("missing webhook signature"))
	}

	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return apperr.Respond(c, apperr.InvalidInput("unreadable request body"))
	}

	if err := h.Processor.VerifyWebhookSignature(body, sig); err != nil {
		return apperr.Respond(c, apperr.Unauthorized("invalid webhook signature"))
	}

	var ev webhookEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		log.Error().Err(err).Msg("webhook: malformed payload")
		return c.JSON(http.StatusOK, echo.Map{"received": true})
	}

	if ev.Type != capturableEventType {
		return c.JSON(http.StatusOK, echo.Map{"received": true})
	}

	ticketID, err := uuid.Parse(ev.Data.Object.Metadata["ticket_id"])
	if err != nil {
		log.Error().Str("payment_intent_id", ev.Data.Object.ID).Msg("webhook: missing/invalid ticket_id metadata")
		return c.JSON(http.StatusOK, echo.Map{"received": true})
	}
	buyerID, err := uuid.Parse(ev.Data.Object.Metadata["buyer_id"])
	if err != nil {
		log.Error().Str("payment_intent_id", ev.Data.Object.ID).Msg("webhook: missing/invalid buyer_id metadata")
		return c.JSON(http.StatusOK, echo.Map{"received": true})
	}

	duplicate, err := h.Gatekeeper.Handle(c.Request().Context(), ev.Data.Object.ID, ticketID, buyerID, ev.Data.Object.Amount, ev.Data.Object.Currency)
	if err != nil {
		log.Error().Err(err).Str("payment_intent_id", ev.Data.Object.ID).Msg("webhook: gatekeeper check failed")
		return c.JSON(http.StatusOK, echo.Map{"received": true})
	}

	return c.JSON(http.StatusOK, echo.Map{"received": true, "duplicate": duplicate})
}

package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/fahyen/ticket-exchange/internal/apperr"
	"github.com/fahyen/ticket-exchange/internal/model"
	"github.com/fahyen/ticket-exchange/internal/processor"
	"github.com/fahyen/ticket-exchange/internal/queue"
	"github.com/fahyen/ticket-exchange/internal/queuepublisher"
	"github.com/fahyen/ticket-exchange/internal/repository"
)

// Gatekeeper implements the webhook's idempotent capture/cancel
// decision (§4.4): the sole idempotency guard is the payment_intents
// INSERT ... ON CONFLICT DO NOTHING — a duplicate delivery never
// re-runs the guarded UPDATE. The handler is responsible for verifying
// the signature and filtering to amount_capturable_updated events
// before calling Handle.
type Gatekeeper struct {
	Tickets        *repository.TicketRepo
	PaymentIntents *repository.PaymentIntentRepo
	Events         *repository.TicketEventRepo
	Processor      *processor.Client

	AMQPURL           string
	ReservationWindow time.Duration
}

// Handle runs the gatekeeper check for a single amount_capturable_updated
// delivery. duplicate is true when this payment intent id was already
// seen — the caller should still respond 200, just without having
// touched anything.
func (g *Gatekeeper) Handle(ctx context.Context, paymentIntentID string, ticketID, buyerID uuid.UUID, amount int64, currency string) (duplicate bool, err error) {
	inserted, err := g.PaymentIntents.Insert(ctx, paymentIntentID, ticketID, buyerID, amount, currency)
	if err != nil {
		return false, apperr.Internal(err)
	}
	if !inserted {
		return true, nil
	}

	ticket, err := g.Tickets.MarkPaid(ctx, ticketID, buyerID, g.ReservationWindow)
	if err == repository.ErrConflict {
		// Branch B: the lease no longer matches (expired, released, or
		// already settled elsewhere) — cancel rather than capture.
		if setErr := g.PaymentIntents.SetStatus(ctx, paymentIntentID, model.PaymentIntentCancelled); setErr != nil {
			log.Error().Err(setErr).Msg("gatekeeper: failed to record cancelled intent")
		}
		if cancelErr := g.Processor.Cancel(ctx, paymentIntentID); cancelErr != nil {
			log.Error().Err(cancelErr).Str("payment_intent_id", paymentIntentID).Msg("gatekeeper: processor cancel failed")
		}
		return false, nil
	}
	if err != nil {
		return false, apperr.Internal(err)
	}

	// Branch A: capture.
	if setErr := g.PaymentIntents.SetStatus(ctx, paymentIntentID, model.PaymentIntentCaptured); setErr != nil {
		log.Error().Err(setErr).Msg("gatekeeper: failed to record captured intent")
	}
	if captureErr := g.Processor.Capture(ctx, paymentIntentID); captureErr != nil {
		log.Error().Err(captureErr).Str("payment_intent_id", paymentIntentID).Msg("gatekeeper: processor capture failed")
	}
	if evErr := g.Events.Record(ctx, ticketID, model.StatusReserved, model.StatusPaid, "gatekeeper"); evErr != nil {
		log.Error().Err(evErr).Msg("gatekeeper: failed to write audit event")
	}
	go func() {
		_ = queuepublisher.PublishTicketLifecycle(context.Background(), g.AMQPURL, queue.TicketLifecycleEvent{
			TicketID:   ticket.ID.String(),
			FromStatus: string(model.StatusReserved),
			ToStatus:   string(model.StatusPaid),
			Actor:      "gatekeeper",
			OccurredAt: time.Now().UTC(),
		})
	}()
	return false, nil
}

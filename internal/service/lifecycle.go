// Package service implements the exchange's core transactional logic:
// listing creation, the verification claim pool, reservation leasing,
// the payment gatekeeper, and the reaper tasks. Every lifecycle edge
// is a single guarded repository call — this layer adds the request
// validation, quota checks, and audit/event side-effects around those
// calls, never a second read-then-write step.
package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/fahyen/ticket-exchange/internal/apperr"
	"github.com/fahyen/ticket-exchange/internal/model"
	"github.com/fahyen/ticket-exchange/internal/queue"
	"github.com/fahyen/ticket-exchange/internal/queuepublisher"
	"github.com/fahyen/ticket-exchange/internal/repository"
)

// Lifecycle wires the ticket/game repositories and audit trail into
// the operations the HTTP handlers call directly: list, create,
// cancel/price-edit, verification claim/complete/unclaim, and
// reservation leasing.
type Lifecycle struct {
	Tickets *repository.TicketRepo
	Games   *repository.GameRepo
	Events  *repository.TicketEventRepo

	AMQPURL string

	TransferDeadline       time.Duration
	ReservationWindow      time.Duration
	MaxReservationsPerUser int
}

// CreateTicket lists a new ticket for sale (T1). The listing cutoff on
// the referenced game is enforced here since it is collaborator data,
// not a column this repository owns; event_name/event_date are
// likewise denormalized from the game catalog rather than accepted
// from the caller.
func (l *Lifecycle) CreateTicket(ctx context.Context, sellerID, gameID uuid.UUID, level, section, row, seatNumber string, price int64) (*model.Ticket, error) {
	if price < 0 {
		return nil, apperr.InvalidInput("price must be non-negative")
	}
	game, err := l.Games.GetByID(ctx, gameID)
	if err != nil {
		if err == repository.ErrGameNotFound {
			return nil, apperr.InvalidInput("unknown game_id")
		}
		return nil, apperr.Internal(err)
	}
	if time.Now().After(game.ListingCutoff) {
		return nil, apperr.InvalidInput("listing cutoff for this game has passed")
	}

	t := &model.Ticket{
		SellerID:         sellerID,
		GameID:           gameID,
		EventName:        game.Name,
		EventDate:        game.GameTime,
		Level:            level,
		Section:          section,
		Row:              row,
		SeatNumber:       seatNumber,
		Price:            price,
		TransferDeadline: time.Now().Add(l.TransferDeadline),
	}
	if err := l.Tickets.Create(ctx, t); err != nil {
		if err == repository.ErrConflict {
			return nil, apperr.Conflict("seat is already listed for this event")
		}
		return nil, apperr.Internal(err)
	}
	l.audit(ctx, t.ID, "", model.StatusUnverified, sellerID.String())
	return t, nil
}

// GetTicket returns a single ticket, 404 if unknown.
func (l *Lifecycle) GetTicket(ctx context.Context, id uuid.UUID) (*model.Ticket, error) {
	t, err := l.Tickets.GetByID(ctx, id)
	if err == repository.ErrNotFound {
		return nil, apperr.NotFound("ticket not found")
	}
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return t, nil
}

// ListVerified returns the public browsing surface for a game.
func (l *Lifecycle) ListVerified(ctx context.Context, gameID uuid.UUID) ([]*model.Ticket, error) {
	ts, err := l.Tickets.ListVerified(ctx, gameID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return ts, nil
}

// ListMyListings returns every ticket a seller has listed, optionally
// filtered to a single status.
func (l *Lifecycle) ListMyListings(ctx context.Context, sellerID uuid.UUID, status *model.TicketStatus) ([]*model.Ticket, error) {
	ts, err := l.Tickets.ListBySeller(ctx, sellerID, status)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return ts, nil
}

// ClaimForVerification is the verification claim pool entry point
// (T2): it hands the calling bot the oldest unclaimed Unverified
// ticket matching the requested seat tuple, or apperr.NotFound when no
// such row is available.
func (l *Lifecycle) ClaimForVerification(ctx context.Context, eventName, section, row, seatNumber string) (*model.Ticket, error) {
	t, err := l.Tickets.ClaimForVerification(ctx, eventName, section, row, seatNumber)
	if err == repository.ErrNotFound {
		return nil, apperr.NotFound("no matching unverified ticket available")
	}
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return t, nil
}

// CompleteVerification accepts a claimed listing (T3).
func (l *Lifecycle) CompleteVerification(ctx context.Context, id uuid.UUID) (*model.Ticket, error) {
	t, err := l.Tickets.CompleteVerification(ctx, id)
	if err == repository.ErrConflict {
		return nil, apperr.Conflict("ticket is not in verifying state")
	}
	if err != nil {
		return nil, apperr.Internal(err)
	}
	l.audit(ctx, id, model.StatusVerifying, model.StatusVerified, "bot")
	return t, nil
}

// UnclaimVerification returns a claimed listing to the unverified pool
// (T4), bot-initiated.
func (l *Lifecycle) UnclaimVerification(ctx context.Context, id uuid.UUID) (*model.Ticket, error) {
	t, err := l.Tickets.UnclaimVerification(ctx, id)
	if err == repository.ErrConflict {
		return nil, apperr.Conflict("ticket is not in verifying state")
	}
	if err != nil {
		return nil, apperr.Internal(err)
	}
	l.audit(ctx, id, model.StatusVerifying, model.StatusUnverified, "bot")
	return t, nil
}

// CancelTicket withdraws a listing before it sells (T9), seller-
// initiated; ownership is enforced by the guarded UPDATE itself.
func (l *Lifecycle) CancelTicket(ctx context.Context, ticketID, sellerID uuid.UUID) (*model.Ticket, error) {
	t, err := l.Tickets.Cancel(ctx, ticketID, sellerID)
	if err == repository.ErrConflict {
		return nil, apperr.Conflict("ticket cannot be cancelled in its current state")
	}
	if err != nil {
		return nil, apperr.Internal(err)
	}
	l.audit(ctx, ticketID, t.Status, model.StatusCancelled, sellerID.String())
	return t, nil
}

// UpdatePrice edits a seller's asking price ahead of the next
// reservation; a price already snapshotted into price_at_reservation
// for an existing lease is unaffected.
func (l *Lifecycle) UpdatePrice(ctx context.Context, ticketID, sellerID uuid.UUID, price int64) (*model.Ticket, error) {
	if price < 0 {
		return nil, apperr.InvalidInput("price must be non-negative")
	}
	t, err := l.Tickets.UpdatePrice(ctx, ticketID, sellerID, price)
	if err == repository.ErrConflict {
		return nil, apperr.Conflict("ticket cannot be edited in its current state")
	}
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return t, nil
}

// Reserve grants a buyer an exclusive lease on a verified ticket
// (T5), enforcing the per-buyer active-reservation quota and
// transparently stealing a stale lease when the existing hold has
// already expired.
func (l *Lifecycle) Reserve(ctx context.Context, ticketID, buyerID uuid.UUID) (*model.Ticket, error) {
	active, err := l.Tickets.CountActiveReservationsForBuyer(ctx, buyerID, l.ReservationWindow)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if active >= l.MaxReservationsPerUser {
		return nil, apperr.Conflict("reservation quota exceeded")
	}

	from := model.StatusVerified
	t, err := l.Tickets.Reserve(ctx, ticketID, buyerID)
	if err == repository.ErrConflict {
		stolen, stealErr := l.Tickets.StealStaleReservation(ctx, ticketID, buyerID, l.ReservationWindow)
		if stealErr == repository.ErrConflict {
			return nil, apperr.Conflict("ticket is not available for reservation")
		}
		if stealErr != nil {
			return nil, apperr.Internal(stealErr)
		}
		t = stolen
		from = model.StatusReserved
	} else if err != nil {
		return nil, apperr.Internal(err)
	}
	l.audit(ctx, ticketID, from, model.StatusReserved, buyerID.String())
	return t, nil
}

// MarkSold records a completed transfer (T11).
func (l *Lifecycle) MarkSold(ctx context.Context, ticketID, sellerID uuid.UUID) (*model.Ticket, error) {
	t, err := l.Tickets.MarkSold(ctx, ticketID, sellerID)
	if err == repository.ErrConflict {
		return nil, apperr.Conflict("ticket is not paid or not owned by this seller")
	}
	if err != nil {
		return nil, apperr.Internal(err)
	}
	l.audit(ctx, ticketID, model.StatusPaid, model.StatusSold, sellerID.String())
	return t, nil
}

// StartRefund begins an admin-initiated refund (T12).
func (l *Lifecycle) StartRefund(ctx context.Context, ticketID uuid.UUID) (*model.Ticket, error) {
	t, err := l.Tickets.StartRefund(ctx, ticketID)
	if err == repository.ErrConflict {
		return nil, apperr.Conflict("ticket is not eligible for refund")
	}
	if err != nil {
		return nil, apperr.Internal(err)
	}
	l.audit(ctx, ticketID, model.StatusPaid, model.StatusRefunding, "admin")
	return t, nil
}

// CompleteRefund finalizes a refund once the processor acknowledges it
// (T13).
func (l *Lifecycle) CompleteRefund(ctx context.Context, ticketID uuid.UUID) (*model.Ticket, error) {
	t, err := l.Tickets.CompleteRefund(ctx, ticketID)
	if err == repository.ErrConflict {
		return nil, apperr.Conflict("ticket is not in refunding state")
	}
	if err != nil {
		return nil, apperr.Internal(err)
	}
	l.audit(ctx, ticketID, model.StatusRefunding, model.StatusCancelled, "admin")
	return t, nil
}

// audit writes the durable ticket_events row and best-effort publishes
// an amqp notification. Both are ambient: a failure here never rolls
// back or masks the transition that already committed.
func (l *Lifecycle) audit(ctx context.Context, ticketID uuid.UUID, from, to model.TicketStatus, actor string) {
	if err := l.Events.Record(ctx, ticketID, from, to, actor); err != nil {
		return
	}
	if to != model.StatusPaid && to != model.StatusSold && to != model.StatusCancelled {
		return
	}
	go func() {
		_ = queuepublisher.PublishTicketLifecycle(context.Background(), l.AMQPURL, queue.TicketLifecycleEvent{
			TicketID:   ticketID.String(),
			FromStatus: string(from),
			ToStatus:   string(to),
			Actor:      actor,
			OccurredAt: time.Now().UTC(),
		})
	}()
}

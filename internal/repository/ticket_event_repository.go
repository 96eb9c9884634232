package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/fahyen/ticket-exchange/internal/model"
)

// TicketEventRepo appends audit rows for completed lifecycle
// transitions. It is never consulted by the lifecycle engine itself —
// writes here never block or fail a transition's outcome.
type TicketEventRepo struct {
	db *sql.DB
}

func NewTicketEventRepo(db *sql.DB) *TicketEventRepo { return &TicketEventRepo{db: db} }

func (r *TicketEventRepo) Record(ctx context.Context, ticketID uuid.UUID, from, to model.TicketStatus, actor string) error {
	const q = `
		INSERT INTO ticket_events (id, ticket_id, from_status, to_status, actor, at)
		VALUES ($1, $2, $3, $4, $5, now())`
	_, err := r.db.ExecContext(ctx, q, uuid.New(), ticketID, from, to, actor)
	return err
}

package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/fahyen/ticket-exchange/internal/model"
)

// PaymentIntentRepo records the processor's payment intents. Its
// Insert method is the sole idempotency guard for the webhook
// gatekeeper: a duplicate delivery's INSERT ... ON CONFLICT DO NOTHING
// affects zero rows, which the caller reads as "already handled."
type PaymentIntentRepo struct {
	db *sql.DB
}

func NewPaymentIntentRepo(db *sql.DB) *PaymentIntentRepo { return &PaymentIntentRepo{db: db} }

// Insert attempts to record a newly observed payment intent, carrying
// the processor's settled amount/currency so a capture or cancel
// failure can be manually reconciled against a durable record.
// inserted is false when a row with this id already existed — the
// caller must treat that as a duplicate delivery and skip the
// gatekeeper check entirely, never re-running it.
func (r *PaymentIntentRepo) Insert(ctx context.Context, id string, ticketID, buyerID uuid.UUID, amount int64, currency string) (inserted bool, err error) {
	const q = `
		INSERT INTO payment_intents (id, ticket_id, buyer_id, amount, currency, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, now(), now())
		ON CONFLICT (id) DO NOTHING
		RETURNING id`
	var got string
	err = r.db.QueryRowContext(ctx, q, id, ticketID, buyerID, amount, currency, model.PaymentIntentCapturable).Scan(&got)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// SetStatus records the gatekeeper's capture/cancel decision against
// the payment intent row.
func (r *PaymentIntentRepo) SetStatus(ctx context.Context, id string, status model.PaymentIntentStatus) error {
	const q = `UPDATE payment_intents SET status = $1, updated_at = now() WHERE id = $2`
	_, err := r.db.ExecContext(ctx, q, status, id)
	return err
}

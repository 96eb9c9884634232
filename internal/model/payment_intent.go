package model

import (
	"time"

	"github.com/google/uuid"
)

// PaymentIntentStatus tracks the processor-side outcome recorded by the
// gatekeeper, separate from the ticket's own status.
type PaymentIntentStatus string

const (
	PaymentIntentCreated    PaymentIntentStatus = "created"
	PaymentIntentCapturable PaymentIntentStatus = "capturable"
	PaymentIntentCaptured   PaymentIntentStatus = "captured"
	PaymentIntentCancelled  PaymentIntentStatus = "cancelled"
)

// PaymentIntent is the durable idempotency record for a processor
// webhook delivery: its primary key is the processor's own intent id,
// and the sole idempotency guard is an INSERT ... ON CONFLICT DO NOTHING
// against it (see service/gatekeeper.go).
//
// Fields:
//
//	ID       – processor-assigned payment intent id (primary key).
//	TicketID – ticket this intent settles.
//	BuyerID  – buyer whose reservation this intent is capturing.
//	Amount   – settled amount, minor currency units, as reported by the processor.
//	Currency – ISO currency code, as reported by the processor.
//	Status   – created/capturable/captured/cancelled, set by the gatekeeper.
//	CreatedAt, UpdatedAt – audit timestamps.
type PaymentIntent struct {
	ID       string
	TicketID uuid.UUID
	BuyerID  uuid.UUID
	Amount   int64
	Currency string
	Status   PaymentIntentStatus

	CreatedAt time.Time
	UpdatedAt time.Time
}

package model

import (
	"time"

	"github.com/google/uuid"
)

// TicketEvent is an append-only audit row written alongside every
// successful lifecycle transition. It is never read by the lifecycle
// engine itself — only by the audit consumer and operational tooling.
type TicketEvent struct {
	ID       uuid.UUID
	TicketID uuid.UUID
	From     TicketStatus
	To       TicketStatus
	Actor    string
	At       time.Time
}

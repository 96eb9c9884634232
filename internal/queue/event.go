// Package queue defines message payloads exchanged over the message broker.
package queue

import "time"

// TicketLifecycleEvent is published whenever a ticket completes a
// lifecycle transition the operator cares about downstream (paid,
// sold, cancelled). It carries enough information for the audit
// consumer to log the change without querying the primary database.
type TicketLifecycleEvent struct {
	TicketID   string    `json:"ticket_id"`
	FromStatus string    `json:"from_status"`
	ToStatus   string    `json:"to_status"`
	Actor      string    `json:"actor"`
	OccurredAt time.Time `json:"occurred_at"`
}

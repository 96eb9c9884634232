package model

import (
	"time"

	"github.com/google/uuid"
)

// TicketStatus enumerates the lifecycle states a ticket moves through
// from listing to sale or cancellation.
type TicketStatus string

const (
	StatusUnverified TicketStatus = "unverified"
	StatusVerifying  TicketStatus = "verifying"
	StatusVerified   TicketStatus = "verified"
	StatusReserved   TicketStatus = "reserved"
	StatusPaid       TicketStatus = "paid"
	StatusSold       TicketStatus = "sold"
	StatusRefunding  TicketStatus = "refunding"
	StatusCancelled  TicketStatus = "cancelled"
)

// Ticket is a single listing moving through the exchange's lifecycle
// state machine. SellerID, GameID, the event identity and seat fields
// are set at creation and never change; every other field is mutated
// only by one of the single-statement transitions in the repository
// layer.
//
// Fields:
//
//	ID                      – primary key.
//	SellerID                – owning seller (collaborator-owned users table).
//	GameID                  – game this ticket admits to (collaborator-owned games table).
//	EventName, EventDate    – denormalized from the game catalog at creation time.
//	Level, Section, Row,
//	SeatNumber              – physical seat coordinates, set at listing time.
//	Price                   – seller's asking price, in minor currency units.
//	Status                  – current lifecycle state.
//	TransferDeadline        – unverified tickets past this instant are reaped.
//	ReservedBy              – buyer holding the active reservation lease, if any.
//	ReservedAt              – when the active lease was taken.
//	PriceAtReservation      – price snapshot frozen at reservation time.
//	CreatedAt, UpdatedAt    – audit timestamps.
type Ticket struct {
	ID       uuid.UUID `json:"id"`
	SellerID uuid.UUID `json:"seller_id"`
	GameID   uuid.UUID `json:"game_id"`

	EventName string    `json:"event_name"`
	EventDate time.Time `json:"event_date"`

	Level      string `json:"level"`
	Section    string `json:"seat_section"`
	Row        string `json:"seat_row"`
	SeatNumber string `json:"seat_number"`

	Price int64 `json:"price"`

	Status TicketStatus `json:"status"`

	TransferDeadline time.Time `json:"transfer_deadline"`

	ReservedBy         *uuid.UUID `json:"reserved_by,omitempty"`
	ReservedAt         *time.Time `json:"reserved_at,omitempty"`
	PriceAtReservation *int64     `json:"price_at_reservation,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

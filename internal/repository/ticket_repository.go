package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/fahyen/ticket-exchange/internal/model"
)

// ErrNotFound signals that a row the caller expected to exist was not
// returned by a query — translated by handlers into HTTP 404.
var ErrNotFound = errors.New("not found")

const pgUniqueViolation = "23505"

// TicketRepo encapsulates every SQL statement that advances a ticket
// through its lifecycle. Every transition is exactly one
// UPDATE ... WHERE id = $1 AND status = $2 AND <guard> RETURNING ...
// (or DELETE ... RETURNING for the unverified reaper); zero rows
// returned means the precondition did not hold, and callers translate
// that into ErrConflict.
type TicketRepo struct {
	db *sql.DB
}

func NewTicketRepo(db *sql.DB) *TicketRepo { return &TicketRepo{db: db} }

func (r *TicketRepo) DB() *sql.DB { return r.db }

// Create inserts a new ticket in the Unverified state (T1). A
// concurrent insert that collides with the live unique partial index
// on (event_name, section, row, seat_number) surfaces as ErrConflict,
// not a raw driver error.
func (r *TicketRepo) Create(ctx context.Context, t *model.Ticket) error {
	const q = `
		INSERT INTO tickets (id, seller_id, game_id, event_name, event_date,
			level, section, row, seat_number, price, status, transfer_deadline,
			created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, now(), now())
		RETURNING created_at, updated_at`
	t.ID = uuid.New()
	t.Status = model.StatusUnverified
	err := r.db.QueryRowContext(ctx, q,
		t.ID, t.SellerID, t.GameID, t.EventName, t.EventDate,
		t.Level, t.Section, t.Row, t.SeatNumber, t.Price, t.Status, t.TransferDeadline,
	).Scan(&t.CreatedAt, &t.UpdatedAt)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return ErrConflict
	}
	return err
}

// GetByID reads a single ticket by id.
func (r *TicketRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.Ticket, error) {
	const q = `SELECT ` + ticketColumns + ` FROM tickets WHERE id = $1`
	t := &model.Ticket{}
	err := r.db.QueryRowContext(ctx, q, id).Scan(ticketScanArgs(t)...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}

// ListVerified returns verified-and-unreserved tickets for a game,
// the public browsing surface. Rows carry every ticket column,
// seller_id included; verified rows have no reserved_by.
func (r *TicketRepo) ListVerified(ctx context.Context, gameID uuid.UUID) ([]*model.Ticket, error) {
	const q = `
		SELECT ` + ticketColumns + `
		FROM tickets
		WHERE game_id = $1 AND status = $2
		ORDER BY price ASC, created_at ASC`
	return r.queryList(ctx, q, gameID, model.StatusVerified)
}

// ListBySeller returns every ticket owned by a seller, optionally
// filtered to a single status, for the seller's "my listings" view.
func (r *TicketRepo) ListBySeller(ctx context.Context, sellerID uuid.UUID, status *model.TicketStatus) ([]*model.Ticket, error) {
	if status != nil {
		const q = `
			SELECT ` + ticketColumns + `
			FROM tickets
			WHERE seller_id = $1 AND status = $2
			ORDER BY created_at DESC`
		return r.queryList(ctx, q, sellerID, *status)
	}
	const q = `
		SELECT ` + ticketColumns + `
		FROM tickets
		WHERE seller_id = $1
		ORDER BY created_at DESC`
	return r.queryList(ctx, q, sellerID)
}

func (r *TicketRepo) queryList(ctx context.Context, q string, args ...any) ([]*model.Ticket, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*model.Ticket
	for rows.Next() {
		t := &model.Ticket{}
		if err := rows.Scan(ticketScanArgs(t)...); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// ClaimForVerification is the verification claim pool (T2): it
// atomically pops the oldest Unverified ticket matching the requested
// seat tuple that is not already locked by a concurrent claimant, and
// marks it Verifying. The SELECT ... FOR UPDATE SKIP LOCKED subquery is
// what prevents two bots racing the same row — a plain SELECT-then-
// UPDATE would reintroduce the TOCTOU window this query exists to
// close.
func (r *TicketRepo) ClaimForVerification(ctx context.Context, eventName, section, row, seatNumber string) (*model.Ticket, error) {
	const q = `
		UPDATE tickets
		SET status = $1, updated_at = now()
		WHERE id = (
			SELECT id FROM tickets
			WHERE status = $2
				AND event_name = $3 AND section = $4 AND row = $5 AND seat_number = $6
				AND transfer_deadline > now()
			ORDER BY created_at ASC
			FOR UPDATE SKIP LOCKED
			LIMIT 1
		)
		RETURNING ` + ticketColumns
	t := &model.Ticket{}
	err := r.db.QueryRowContext(ctx, q,
		model.StatusVerifying, model.StatusUnverified, eventName, section, row, seatNumber,
	).Scan(ticketScanArgs(t)...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}

// CompleteVerification transitions a claimed ticket to Verified (T3).
func (r *TicketRepo) CompleteVerification(ctx context.Context, id uuid.UUID) (*model.Ticket, error) {
	return r.transition(ctx,
		`UPDATE tickets SET status = $1, updated_at = now()
		 WHERE id = $2 AND status = $3
		 RETURNING `+ticketColumns,
		[]any{model.StatusVerified, id, model.StatusVerifying})
}

// UnclaimVerification returns a claimed ticket to Unverified (T4) when
// the bot determines the listing is invalid or abandons the claim. The
// reaper's timeout path is ReapStuckVerifying, not this method.
func (r *TicketRepo) UnclaimVerification(ctx context.Context, id uuid.UUID) (*model.Ticket, error) {
	return r.transition(ctx,
		`UPDATE tickets SET status = $1, updated_at = now()
		 WHERE id = $2 AND status = $3
		 RETURNING `+ticketColumns,
		[]any{model.StatusUnverified, id, model.StatusVerifying})
}

// Cancel withdraws a listing before it is reserved (T9), guarded on
// the caller actually owning it.
func (r *TicketRepo) Cancel(ctx context.Context, id, sellerID uuid.UUID) (*model.Ticket, error) {
	const q = `
		UPDATE tickets SET status = $1, updated_at = now()
		WHERE id = $2 AND status IN ($3, $4) AND seller_id = $5
		RETURNING ` + ticketColumns
	return r.transition(ctx, q, []any{model.StatusCancelled, id, model.StatusUnverified, model.StatusVerified, sellerID})
}

// UpdatePrice edits a seller's asking price (not the frozen
// price_at_reservation snapshot) on a listing that has not yet reached
// a terminal state.
func (r *TicketRepo) UpdatePrice(ctx context.Context, id, sellerID uuid.UUID, price int64) (*model.Ticket, error) {
	const q = `
		UPDATE tickets SET price = $1, updated_at = now()
		WHERE id = $2 AND seller_id = $3 AND status NOT IN ($4, $5)
		RETURNING ` + ticketColumns
	return r.transition(ctx, q, []any{price, id, sellerID, model.StatusSold, model.StatusCancelled})
}

// Reserve grants a buyer the exclusive lease (T5), snapshotting the
// price and starting the reservation window clock.
func (r *TicketRepo) Reserve(ctx context.Context, id, buyerID uuid.UUID) (*model.Ticket, error) {
	const q = `
		UPDATE tickets
		SET status = $1, reserved_by = $2, reserved_at = now(),
			price_at_reservation = price, updated_at = now()
		WHERE id = $3 AND status = $4
		RETURNING ` + ticketColumns
	return r.transition(ctx, q, []any{model.StatusReserved, buyerID, id, model.StatusVerified})
}

// StealStaleReservation reclaims a reservation whose lease has expired
// in favor of a new buyer (T6), guarding on the existing lease
// actually being past reservationWindow.
func (r *TicketRepo) StealStaleReservation(ctx context.Context, id, buyerID uuid.UUID, reservationWindow time.Duration) (*model.Ticket, error) {
	const q = `
		UPDATE tickets
		SET reserved_by = $1, reserved_at = now(),
			price_at_reservation = price, updated_at = now()
		WHERE id = $2 AND status = $3 AND reserved_at < now() - make_interval(secs => $4)
		RETURNING ` + ticketColumns
	return r.transition(ctx, q, []any{buyerID, id, model.StatusReserved, reservationWindow.Seconds()})
}

// MarkPaid is the gatekeeper's capture branch (T8): the sole guard is
// that the ticket is still Reserved by the same buyer within the
// reservation window — re-derived at settlement time, not trusted from
// the original reservation call.
func (r *TicketRepo) MarkPaid(ctx context.Context, id, buyerID uuid.UUID, reservationWindow time.Duration) (*model.Ticket, error) {
	const q = `
		UPDATE tickets
		SET status = $1, updated_at = now()
		WHERE id = $2 AND status = $3 AND reserved_by = $4
			AND reserved_at > now() - make_interval(secs => $5)
		RETURNING ` + ticketColumns
	return r.transition(ctx, q, []any{model.StatusPaid, id, model.StatusReserved, buyerID, reservationWindow.Seconds()})
}

// MarkSold records a completed transfer, seller-initiated.
func (r *TicketRepo) MarkSold(ctx context.Context, id, sellerID uuid.UUID) (*model.Ticket, error) {
	const q = `
		UPDATE tickets SET status = $1, updated_at = now()
		WHERE id = $2 AND status = $3 AND seller_id = $4
		RETURNING ` + ticketColumns
	return r.transition(ctx, q, []any{model.StatusSold, id, model.StatusPaid, sellerID})
}

// StartRefund moves a paid or sold ticket into Refunding,
// admin-initiated.
func (r *TicketRepo) StartRefund(ctx context.Context, id uuid.UUID) (*model.Ticket, error) {
	const q = `
		UPDATE tickets SET status = $1, updated_at = now()
		WHERE id = $2 AND status IN ($3, $4)
		RETURNING ` + ticketColumns
	return r.transition(ctx, q, []any{model.StatusRefunding, id, model.StatusPaid, model.StatusSold})
}

// CompleteRefund finalizes a refund once the processor has
// acknowledged it.
func (r *TicketRepo) CompleteRefund(ctx context.Context, id uuid.UUID) (*model.Ticket, error) {
	const q = `
		UPDATE tickets SET status = $1, updated_at = now()
		WHERE id = $2 AND status = $3
		RETURNING ` + ticketColumns
	return r.transition(ctx, q, []any{model.StatusCancelled, id, model.StatusRefunding})
}

// transition runs a single-statement guarded UPDATE and returns the
// updated row, or ErrConflict when zero rows matched the guard.
func (r *TicketRepo) transition(ctx context.Context, q string, args []any) (*model.Ticket, error) {
	t := &model.Ticket{}
	err := r.db.QueryRowContext(ctx, q, args...).Scan(ticketScanArgs(t)...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrConflict
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}

const ticketColumns = `id, seller_id, game_id, event_name, event_date,
	level, section, row, seat_number, price,
	status, transfer_deadline, reserved_by,
	reserved_at, price_at_reservation, created_at, updated_at`

// ticketScanArgs returns the Scan destinations matching ticketColumns,
// in order, shared by every query/transition above so the column list
// and the scan list can never drift apart.
func ticketScanArgs(t *model.Ticket) []any {
	return []any{
		&t.ID, &t.SellerID, &t.GameID, &t.EventName, &t.EventDate,
		&t.Level, &t.Section, &t.Row, &t.SeatNumber, &t.Price,
		&t.Status, &t.TransferDeadline, &t.ReservedBy,
		&t.ReservedAt, &t.PriceAtReservation, &t.CreatedAt, &t.UpdatedAt,
	}
}

// ReapExpiredUnverified deletes Unverified tickets whose transfer
// deadline has passed (T10), skipping rows a concurrent reaper run has
// already locked so two overlapping reaper ticks never deadlock each
// other.
func (r *TicketRepo) ReapExpiredUnverified(ctx context.Context) ([]uuid.UUID, error) {
	const q = `
		DELETE FROM tickets
		WHERE id IN (
			SELECT id FROM tickets
			WHERE status = $1 AND transfer_deadline <= now()
			FOR UPDATE SKIP LOCKED
		)
		RETURNING id`
	rows, err := r.db.QueryContext(ctx, q, model.StatusUnverified)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// ReapStuckVerifying resets tickets that have sat in Verifying for
// longer than timeout back to Unverified, clearing the stale claim so
// another bot can pick the listing back up (T4, reaper path).
func (r *TicketRepo) ReapStuckVerifying(ctx context.Context, timeout time.Duration) (int64, error) {
	const q = `
		UPDATE tickets
		SET status = $1, updated_at = now()
		WHERE status = $2 AND updated_at < now() - make_interval(secs => $3)`
	res, err := r.db.ExecContext(ctx, q, model.StatusUnverified, model.StatusVerifying, timeout.Seconds())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// ReapExpiredReservations resets reservations whose lease has expired
// back to Verified (T7), clearing the buyer's lease and price
// snapshot.
func (r *TicketRepo) ReapExpiredReservations(ctx context.Context, window time.Duration) (int64, error) {
	const q = `
		UPDATE tickets
		SET status = $1, reserved_by = NULL, reserved_at = NULL,
			price_at_reservation = NULL, updated_at = now()
		WHERE status = $2 AND reserved_at < now() - make_interval(secs => $3)`
	res, err := r.db.ExecContext(ctx, q, model.StatusVerified, model.StatusReserved, window.Seconds())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// CountActiveReservationsForBuyer supports the per-buyer reservation
// quota guard in the reservation leasing service: only leases still
// within the reservation window count against the quota, so a stale,
// un-reaped row never locks a buyer out between reaper ticks.
func (r *TicketRepo) CountActiveReservationsForBuyer(ctx context.Context, buyerID uuid.UUID, reservationWindow time.Duration) (int, error) {
	const q = `
		SELECT count(*) FROM tickets
		WHERE status = $1 AND reserved_by = $2
			AND reserved_at > now() - make_interval(secs => $3)`
	var n int
	err := r.db.QueryRowContext(ctx, q, model.StatusReserved, buyerID, reservationWindow.Seconds()).Scan(&n)
	return n, err
}

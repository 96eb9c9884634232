package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Game mirrors the subset of the collaborator-owned games/catalog
// table the exchange needs to validate a listing against: its name,
// kickoff time, and the cutoff after which new listings are refused.
type Game struct {
	ID            uuid.UUID
	Name          string
	GameTime      time.Time
	ListingCutoff time.Time
}

// ErrGameNotFound is returned when a ticket references a game id the
// catalog collaborator doesn't know about.
var ErrGameNotFound = errors.New("game not found")

// GameRepo is a thin read-only accessor into the catalog collaborator's
// table — the exchange never writes to games.
type GameRepo struct {
	db *sql.DB
}

func NewGameRepo(db *sql.DB) *GameRepo { return &GameRepo{db: db} }

func (r *GameRepo) GetByID(ctx context.Context, id uuid.UUID) (*Game, error) {
	const q = `SELECT id, name, game_time, listing_cutoff FROM games WHERE id = $1`
	g := &Game{}
	err := r.db.QueryRowContext(ctx, q, id).Scan(&g.ID, &g.Name, &g.GameTime, &g.ListingCutoff)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrGameNotFound
	}
	if err != nil {
		return nil, err
	}
	return g, nil
}

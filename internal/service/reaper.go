package service

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/fahyen/ticket-exchange/internal/repository"
)

// ReaperConfig carries the three independent tickers and the timeouts
// each task checks against, matching the original source's cleanup.rs
// one-task-per-interval layout rather than a single combined loop.
type ReaperConfig struct {
	UnverifiedCleanupInterval time.Duration
	VerifyingCleanupInterval time.Duration
	VerifyingTimeout         time.Duration
	ReservationCleanupInterval time.Duration
	ReservationWindow        time.Duration
}

// Reaper runs the three background tasks that keep the lifecycle
// machine from wedging on crashed bots or abandoned reservations. Each
// task ticks independently and is safe to run concurrently with itself
// across multiple server instances — every statement is a guarded
// UPDATE/DELETE, so double-running a tick is a no-op, not a bug.
type Reaper struct {
	Tickets *repository.TicketRepo
	Cfg     ReaperConfig
}

// Start launches all three reaper loops and returns immediately; they
// run until ctx is cancelled.
func (r *Reaper) Start(ctx context.Context) {
	go r.loop(ctx, r.Cfg.UnverifiedCleanupInterval, r.reapUnverified)
	go r.loop(ctx, r.Cfg.VerifyingCleanupInterval, r.reapStuckVerifying)
	go r.loop(ctx, r.Cfg.ReservationCleanupInterval, r.reapExpiredReservations)
}

func (r *Reaper) loop(ctx context.Context, interval time.Duration, task func(context.Context)) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			task(ctx)
		}
	}
}

func (r *Reaper) reapUnverified(ctx context.Context) {
	ids, err := r.Tickets.ReapExpiredUnverified(ctx)
	if err != nil {
		log.Error().Err(err).Msg("reaper: expire unverified failed")
		return
	}
	if len(ids) > 0 {
		log.Info().Int("count", len(ids)).Msg("reaper: deleted expired unverified tickets")
	}
}

func (r *Reaper) reapStuckVerifying(ctx context.Context) {
	n, err := r.Tickets.ReapStuckVerifying(ctx, r.Cfg.VerifyingTimeout)
	if err != nil {
		log.Error().Err(err).Msg("reaper: reset stuck verifying failed")
		return
	}
	if n > 0 {
		log.Info().Int64("count", n).Msg("reaper: reset stuck verifying tickets")
	}
}

func (r *Reaper) reapExpiredReservations(ctx context.Context) {
	n, err := r.Tickets.ReapExpiredReservations(ctx, r.Cfg.ReservationWindow)
	if err != nil {
		log.Error().Err(err).Msg("reaper: reset expired reservations failed")
		return
	}
	if n > 0 {
		log.Info().Int64("count", n).Msg("reaper: reset expired reservations")
	}
}

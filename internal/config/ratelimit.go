package config

import "time"

// RateLimitConfig configures the in-process token bucket guarding
// POST /api/tickets/:id/reserve. It is intentionally NOT keyed by user
// or IP and NOT backed by Redis: the spec requires only per-instance
// correctness, not cluster-wide fairness, so a single shared bucket per
// server process is sufficient (mirrors the original source's single
// non-keyed governor limiter).
type RateLimitConfig struct {
	Requests int
	Window   time.Duration
}

func LoadRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		Requests: envInt("RATE_LIMIT_REQUESTS", 100),
		Window:   envDur("RATE_LIMIT_WINDOW_SECONDS", 60*time.Second),
	}
}

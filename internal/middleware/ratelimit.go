package middleware

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/fahyen/ticket-exchange/internal/config"
)

// tokenBucket is a single, non-keyed, in-process token bucket. The
// reservation endpoint's rate limit only needs to hold per-instance —
// the exchange explicitly does not promise fleet-wide fairness, so
// there is no Redis round trip here, unlike the response cache
// middleware. Mirrors the original source's single shared governor
// limiter rather than a per-key scheme.
type tokenBucket struct {
	mu         sync.Mutex
	tokens     float64
	capacity   float64
	refillRate float64 // tokens per second
	last       time.Time
}

func newTokenBucket(capacity int, window time.Duration) *tokenBucket {
	rate := float64(capacity) / window.Seconds()
	return &tokenBucket{
		tokens:     float64(capacity),
		capacity:   float64(capacity),
		refillRate: rate,
		last:       time.Now(),
	}
}

func (b *tokenBucket) allow() (ok bool, remaining int, retryAfter time.Duration) {
	b.mu.Lock()
	defer b.mu.Unlock()

	now := time.Now()
	elapsed := now.Sub(b.last).Seconds()
	b.last = now
	b.tokens = math.Min(b.capacity, b.tokens+elapsed*b.refillRate)

	if b.tokens >= 1 {
		b.tokens--
		return true, int(b.tokens), 0
	}
	deficit := 1 - b.tokens
	wait := time.Duration(deficit/b.refillRate*1000) * time.Millisecond
	return false, 0, wait
}

// NewReserveRateLimiter returns middleware enforcing cfg.Requests per
// cfg.Window across the whole process, shared by every caller hitting
// the wrapped route.
func NewReserveRateLimiter(cfg config.RateLimitConfig) echo.MiddlewareFunc {
	bucket := newTokenBucket(cfg.Requests, cfg.Window)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			allowed, remaining, retryAfter := bucket.allow()

			c.Response().Header().Set("X-RateLimit-Limit", strconv.Itoa(cfg.Requests))
			c.Response().Header().Set("X-RateLimit-Remaining", strconv.Itoa(remaining))

			if !allowed {
				secs := int(math.Ceil(retryAfter.Seconds()))
				c.Response().Header().Set("Retry-After", strconv.Itoa(secs))
				return c.JSON(http.StatusTooManyRequests, echo.Map{"error": "rate limit exceeded"})
			}
			return next(c)
		}
	}
}

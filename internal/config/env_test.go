package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEnvStrFallsBackToDefaultWhenUnset(t *testing.T) {
	t.Setenv("TICKET_EXCHANGE_TEST_STR", "")
	assert.Equal(t, "fallback", envStr("TICKET_EXCHANGE_TEST_STR", "fallback"))

	t.Setenv("TICKET_EXCHANGE_TEST_STR", "configured")
	assert.Equal(t, "configured", envStr("TICKET_EXCHANGE_TEST_STR", "fallback"))
}

func TestEnvIntParsesOrFallsBack(t *testing.T) {
	t.Setenv("TICKET_EXCHANGE_TEST_INT", "42")
	assert.Equal(t, 42, envInt("TICKET_EXCHANGE_TEST_INT", 7))

	t.Setenv("TICKET_EXCHANGE_TEST_INT", "not-a-number")
	assert.Equal(t, 7, envInt("TICKET_EXCHANGE_TEST_INT", 7))
}

func TestEnvDurAcceptsBareSecondsOrDurationString(t *testing.T) {
	t.Setenv("TICKET_EXCHANGE_TEST_DUR", "60")
	assert.Equal(t, 60*time.Second, envDur("TICKET_EXCHANGE_TEST_DUR", time.Minute))

	t.Setenv("TICKET_EXCHANGE_TEST_DUR", "90s")
	assert.Equal(t, 90*time.Second, envDur("TICKET_EXCHANGE_TEST_DUR", time.Minute))

	t.Setenv("TICKET_EXCHANGE_TEST_DUR", "")
	assert.Equal(t, time.Minute, envDur("TICKET_EXCHANGE_TEST_DUR", time.Minute))
}

func TestEnvBoolParsesCommonTruthyFalsyForms(t *testing.T) {
	t.Setenv("TICKET_EXCHANGE_TEST_BOOL", "true")
	assert.True(t, envBool("TICKET_EXCHANGE_TEST_BOOL", false))

	t.Setenv("TICKET_EXCHANGE_TEST_BOOL", "off")
	assert.False(t, envBool("TICKET_EXCHANGE_TEST_BOOL", true))

	t.Setenv("TICKET_EXCHANGE_TEST_BOOL", "")
	assert.True(t, envBool("TICKET_EXCHANGE_TEST_BOOL", true))
}

func TestLoadRateLimitConfigDefaults(t *testing.T) {
	t.Setenv("RATE_LIMIT_REQUESTS", "")
	t.Setenv("RATE_LIMIT_WINDOW_SECONDS", "")
	cfg := LoadRateLimitConfig()
	assert.Equal(t, 100, cfg.Requests)
	assert.Equal(t, 60*time.Second, cfg.Window)
}

func TestLoadReaperConfigDefaults(t *testing.T) {
	for _, key := range []string{
		"TRANSFER_DEADLINE_CLEANUP_INTERVAL_HOURS",
		"VERIFYING_CLEANUP_INTERVAL_SECONDS",
		"VERIFYING_TIMEOUT_MINUTES",
		"RESERVATION_CLEANUP_INTERVAL_SECONDS",
		"TOTAL_RESERVATION_WINDOW_MINUTES",
	} {
		t.Setenv(key, "")
	}
	cfg := LoadReaperConfig()
	assert.Equal(t, time.Hour, cfg.UnverifiedCleanupInterval)
	assert.Equal(t, 60*time.Second, cfg.VerifyingCleanupInterval)
	assert.Equal(t, 10*time.Minute, cfg.VerifyingTimeout)
	assert.Equal(t, 60*time.Second, cfg.ReservationCleanupInterval)
	assert.Equal(t, 7*time.Minute, cfg.ReservationWindow)
}

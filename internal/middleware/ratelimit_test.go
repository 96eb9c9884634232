package middleware

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenBucketAllowsUpToCapacityThenBlocks(t *testing.T) {
	b := newTokenBucket(3, time.Minute)

	for i := 0; i < 3; i++ {
		ok, _, _ := b.allow()
		require.True(t, ok, "request %d should be allowed within capacity", i)
	}

	ok, remaining, retryAfter := b.allow()
	assert.False(t, ok)
	assert.Equal(t, 0, remaining)
	assert.Greater(t, retryAfter, time.Duration(0))
}

func TestTokenBucketRefillsOverTime(t *testing.T) {
	b := newTokenBucket(1, time.Second)

	ok, _, _ := b.allow()
	require.True(t, ok)

	ok, _, _ = b.allow()
	require.False(t, ok, "bucket should be empty immediately after draining its single token")

	b.last = b.last.Add(-2 * time.Second)

	ok, remaining, _ := b.allow()
	assert.True(t, ok, "bucket should have refilled after waiting past the window")
	assert.Equal(t, 0, remaining)
}

package server

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/Tyrowin/lanchat/internal/config"
)

func TestRateLimiter(t *testing.T) {
	now := time.Unix(0, 0)
	clock := func() time.Time { return now }
	rl := newRateLimiter(config.RateLimitConfig{Burst: 2, RefillInterval: time.Second}, clock)

	assert.True(t, rl.allow())
	assert.True(t, rl.allow())
	assert.False(t, rl.allow(), "burst exhausted")

	now = now.Add(500 * time.Millisecond)
	assert.True(t, rl.allow(), "half an interval refills one token")
	assert.False(t, rl.allow())

	now = now.Add(10 * time.Second)
	assert.True(t, rl.allow())
	assert.True(t, rl.allow())
	assert.False(t, rl.allow(), "refill is capped at the burst size")
}

func TestRateLimiterDefaults(t *testing.T) {
	rl := newRateLimiter(config.RateLimitConfig{}, nil)
	assert.True(t, rl.allow())
}

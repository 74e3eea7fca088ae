package server

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRateLimiterAllow(t *testing.T) {
	limiter := newRateLimiter(2, time.Hour)

	assert.True(t, limiter.Allow("a"))
	assert.True(t, limiter.Allow("a"))
	assert.False(t, limiter.Allow("a"))

	// Other callers have their own budget.
	assert.True(t, limiter.Allow("b"))
}

func TestRateLimiterWindowReset(t *testing.T) {
	limiter := newRateLimiter(1, 10*time.Millisecond)

	assert.True(t, limiter.Allow("a"))
	assert.False(t, limiter.Allow("a"))

	time.Sleep(20 * time.Millisecond)
	assert.True(t, limiter.Allow("a"))
}

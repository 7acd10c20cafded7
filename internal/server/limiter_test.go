package server

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLimiterEvictsIdleClients(t *testing.T) {
	clock := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	l := NewIPRateLimiter(1, 1)
	l.now = func() time.Time { return clock }

	l.getLimiter("10.0.0.1")
	l.getLimiter("10.0.0.2")
	require.Len(t, l.ips, 2)

	clock = clock.Add(limiterIdleTTL / 2)
	l.getLimiter("10.0.0.2")

	clock = clock.Add(limiterIdleTTL/2 + time.Second)
	l.getLimiter("10.0.0.3")

	assert.Len(t, l.ips, 2)
	assert.NotContains(t, l.ips, "10.0.0.1")
	assert.Contains(t, l.ips, "10.0.0.2")
	assert.Contains(t, l.ips, "10.0.0.3")
}

func TestLimiterKeepsBucketForActiveClient(t *testing.T) {
	clock := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	l := NewIPRateLimiter(0.001, 1)
	l.now = func() time.Time { return clock }

	first := l.getLimiter("10.0.0.1")
	require.True(t, first.Allow())

	clock = clock.Add(time.Minute)
	assert.Same(t, first, l.getLimiter("10.0.0.1"))
	assert.False(t, l.getLimiter("10.0.0.1").Allow())
}

package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPool_Allow(t *testing.T) {
	p := NewPool(0.001, 2)

	assert.True(t, p.Allow("alice"))
	assert.True(t, p.Allow("alice"))
	assert.False(t, p.Allow("alice"))

	assert.True(t, p.Allow("bob"), "keys have separate buckets")
}

func TestNewPool_Defaults(t *testing.T) {
	p := NewPool(0, 0)
	assert.Equal(t, float64(defaultRPS), p.rps)
	assert.Equal(t, defaultBurst, p.burst)
}

func TestPool_EvictsIdleBuckets(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	p := NewPool(0.001, 1)
	p.now = func() time.Time { return now }

	assert.True(t, p.Allow("alice"))
	assert.True(t, p.Allow("bob"))
	assert.False(t, p.Allow("alice"))
	assert.Equal(t, 2, p.Len())

	now = now.Add(idleTTL / 2)
	assert.False(t, p.Allow("alice"), "bucket is kept while active")

	now = now.Add(idleTTL)
	assert.True(t, p.Allow("alice"), "idle bucket was dropped and recreated full")
	assert.Equal(t, 1, p.Len(), "bob was idle and evicted")
}

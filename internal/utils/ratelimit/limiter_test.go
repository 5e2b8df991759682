package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLimiterAllow(t *testing.T) {
	t.Run("BurstIsHonored", func(t *testing.T) {
		limiter := NewLimiter(1, 3)

		// The full bucket covers the burst
		assert.True(t, limiter.Allow())
		assert.True(t, limiter.Allow())
		assert.True(t, limiter.Allow())

		// The bucket is now empty
		assert.False(t, limiter.Allow())
	})

	t.Run("TokensRefillOverTime", func(t *testing.T) {
		limiter := NewLimiter(100, 1)

		assert.True(t, limiter.Allow())
		assert.False(t, limiter.Allow())

		// At 100 tokens/s a short sleep is enough to refill one
		time.Sleep(20 * time.Millisecond)
		assert.True(t, limiter.Allow())
	})

	t.Run("RefillCapsAtCapacity", func(t *testing.T) {
		limiter := NewLimiter(1000, 2)

		time.Sleep(20 * time.Millisecond)

		assert.True(t, limiter.Allow())
		assert.True(t, limiter.Allow())
		assert.False(t, limiter.Allow())
	})
}

func TestStoreAllow(t *testing.T) {
	t.Run("ClientsGetIndependentBuckets", func(t *testing.T) {
		store := NewStore(Rate{RequestsPerSecond: 1, Burst: 1}, time.Minute)

		assert.True(t, store.Allow("10.0.0.1", "api"))
		assert.False(t, store.Allow("10.0.0.1", "api"))

		// A different client still has a full bucket
		assert.True(t, store.Allow("10.0.0.2", "api"))
	})

	t.Run("CategoriesGetIndependentBuckets", func(t *testing.T) {
		store := NewStore(Rate{RequestsPerSecond: 1, Burst: 1}, time.Minute)

		assert.True(t, store.Allow("10.0.0.1", "api"))
		assert.True(t, store.Allow("10.0.0.1", "auth"))
	})

	t.Run("CategoryRateOverridesDefault", func(t *testing.T) {
		store := NewStore(Rate{RequestsPerSecond: 1, Burst: 1}, time.Minute)
		store.SetRate("auth", Rate{RequestsPerSecond: 1, Burst: 3})

		assert.True(t, store.Allow("10.0.0.1", "auth"))
		assert.True(t, store.Allow("10.0.0.1", "auth"))
		assert.True(t, store.Allow("10.0.0.1", "auth"))
		assert.False(t, store.Allow("10.0.0.1", "auth"))
	})
}

func TestStoreEvictIdle(t *testing.T) {
	store := NewStore(Rate{RequestsPerSecond: 1, Burst: 1}, time.Hour)

	store.Allow("10.0.0.1", "api")
	assert.Len(t, store.limiters, 1)

	// Nothing is idle yet
	store.evictIdle()
	assert.Len(t, store.limiters, 1)

	// Force the bucket to look stale
	store.mu.Lock()
	for _, limiter := range store.limiters {
		limiter.lastSeen = time.Now().Add(-2 * maxIdle)
	}
	store.mu.Unlock()

	store.evictIdle()
	assert.Empty(t, store.limiters)
}

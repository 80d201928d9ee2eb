package ratelimiter

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTokenBucketBurstAndRefill(t *testing.T) {
	now := time.Unix(0, 0)
	tb := newTokenBucket(2, 3, func() time.Time { return now })

	for i := 0; i < 3; i++ {
		assert.True(t, tb.Allow(), "request %d within burst", i)
	}
	assert.False(t, tb.Allow())

	now = now.Add(500 * time.Millisecond)
	assert.True(t, tb.Allow())
	assert.False(t, tb.Allow())

	now = now.Add(time.Hour)
	assert.True(t, tb.full())
}

func TestKeyedTokenBucketIsolatesKeys(t *testing.T) {
	now := time.Unix(0, 0)
	k := newKeyedTokenBucket(1, 1, func() time.Time { return now })

	assert.True(t, k.Allow("10.0.0.1"))
	assert.False(t, k.Allow("10.0.0.1"))
	assert.True(t, k.Allow("10.0.0.2"))
	assert.Equal(t, 2, k.size())
}

func TestKeyedTokenBucketSweepsIdleKeys(t *testing.T) {
	now := time.Unix(0, 0)
	k := newKeyedTokenBucket(1, 1, func() time.Time { return now })
	k.sweepEach = 2

	k.Allow("a")
	now = now.Add(time.Minute)
	k.Allow("b")

	assert.Equal(t, 1, k.size(), "a refilled and was dropped, b was just drained")
}

func TestKeyedTokenBucketSweepDoesNotRefundConcurrentKeys(t *testing.T) {
	now := time.Unix(0, 0)
	k := newKeyedTokenBucket(1, 1, func() time.Time { return now })
	k.sweepEach = 1

	var mu sync.Mutex
	allowed := map[string]int{}
	var wg sync.WaitGroup
	for i := 0; i < 200; i++ {
		key := "a"
		if i%2 == 1 {
			key = "b"
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			if k.Allow(key) {
				mu.Lock()
				allowed[key]++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, map[string]int{"a": 1, "b": 1}, allowed)
}

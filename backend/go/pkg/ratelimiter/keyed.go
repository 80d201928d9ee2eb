package ratelimiter

import (
	"sync"
	"time"
)

// KeyedTokenBucket keeps one token bucket per key. Buckets that have refilled
// completely are dropped during sweeps so idle clients do not accumulate.
type KeyedTokenBucket struct {
	rate      float64
	capacity  int
	now       func() time.Time
	mu        sync.Mutex
	buckets   map[string]*tokenBucket
	calls     int
	sweepEach int
}

// NewKeyedTokenBucket creates a per-key limiter with the given refill rate and burst.
func NewKeyedTokenBucket(rate float64, capacity int) *KeyedTokenBucket {
	return newKeyedTokenBucket(rate, capacity, time.Now)
}

func newKeyedTokenBucket(rate float64, capacity int, now func() time.Time) *KeyedTokenBucket {
	return &KeyedTokenBucket{
		rate:      rate,
		capacity:  capacity,
		now:       now,
		buckets:   make(map[string]*tokenBucket),
		sweepEach: 1024,
	}
}

// Allow consumes a token from key's bucket. The token is taken while k.mu is
// held so a concurrent sweep cannot drop the bucket in between.
func (k *KeyedTokenBucket) Allow(key string) bool {
	k.mu.Lock()
	defer k.mu.Unlock()

	b, ok := k.buckets[key]
	if !ok {
		b = newTokenBucket(k.rate, k.capacity, k.now)
		k.buckets[key] = b
	}
	k.calls++
	if k.calls%k.sweepEach == 0 {
		k.sweep(key)
	}
	return b.Allow()
}

// sweep must be called with k.mu held. The bucket for current is kept.
func (k *KeyedTokenBucket) sweep(current string) {
	for key, b := range k.buckets {
		if key != current && b.full() {
			delete(k.buckets, key)
		}
	}
}

// size returns the number of tracked keys.
func (k *KeyedTokenBucket) size() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return len(k.buckets)
}

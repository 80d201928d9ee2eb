package ratelimiter

// KeyedRateLimiter applies an independent limit per key, e.g. per client IP.
type KeyedRateLimiter interface {
	Allow(key string) bool
}

package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"resumevault-backend/internal/shared/server/respond"
)

// RateLimitConfig controls the per-identity token bucket.
type RateLimitConfig struct {
	// Capacity is the burst size of the bucket.
	Capacity float64
	// RefillPerSecond is how many tokens return per second.
	RefillPerSecond float64
}

// DefaultRateLimit allows short bursts of uploads without letting one
// identity saturate the extractors.
func DefaultRateLimit() RateLimitConfig {
	return RateLimitConfig{Capacity: 20, RefillPerSecond: 5}
}

type bucket struct {
	tokens   float64
	lastSeen time.Time
}

type rateLimiter struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	cfg     RateLimitConfig
	now     func() time.Time
}

func newRateLimiter(cfg RateLimitConfig) *rateLimiter {
	return &rateLimiter{
		buckets: make(map[string]*bucket),
		cfg:     cfg,
		now:     time.Now,
	}
}

func (rl *rateLimiter) allow(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	b, ok := rl.buckets[key]
	if !ok {
		b = &bucket{tokens: rl.cfg.Capacity, lastSeen: now}
		rl.buckets[key] = b
	}

	elapsed := now.Sub(b.lastSeen).Seconds()
	b.tokens += elapsed * rl.cfg.RefillPerSecond
	if b.tokens > rl.cfg.Capacity {
		b.tokens = rl.cfg.Capacity
	}
	b.lastSeen = now

	if b.tokens < 1 {
		return false
	}
	b.tokens--
	return true
}

// RateLimit throttles requests per authenticated identity, falling back to
// the remote address for unauthenticated paths.
func RateLimit(cfg RateLimitConfig) gin.HandlerFunc {
	rl := newRateLimiter(cfg)
	return func(c *gin.Context) {
		key := UserIDFromContext(c)
		if key == "" {
			key = c.ClientIP()
		}
		if !rl.allow(key) {
			respond.Error(c, http.StatusTooManyRequests, "rate_limited", "Too many requests, slow down", nil)
			return
		}
		c.Next()
	}
}

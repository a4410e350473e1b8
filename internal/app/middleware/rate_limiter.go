package middleware

import (
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/zYagamiBR/hoa-helper/internal/error/code"
	"github.com/zYagamiBR/hoa-helper/internal/error/response"
)

// TokenBucket is a simple token bucket limiter
type TokenBucket struct {
	rate       float64 // tokens added per second
	capacity   int
	tokens     float64
	lastRefill time.Time
	lastUsed   time.Time
	mu         sync.Mutex
}

// NewTokenBucket creates a full bucket
func NewTokenBucket(rate float64, capacity int) *TokenBucket {
	now := time.Now()
	return &TokenBucket{
		rate:       rate,
		capacity:   capacity,
		tokens:     float64(capacity),
		lastRefill: now,
		lastUsed:   now,
	}
}

// Allow takes one token if available
func (tb *TokenBucket) Allow() bool {
	return tb.allowAt(time.Now())
}

func (tb *TokenBucket) allowAt(now time.Time) bool {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	elapsed := now.Sub(tb.lastRefill).Seconds()
	if elapsed > 0 {
		tb.tokens += elapsed * tb.rate
		if tb.tokens > float64(tb.capacity) {
			tb.tokens = float64(tb.capacity)
		}
		tb.lastRefill = now
	}
	tb.lastUsed = now

	if tb.tokens >= 1 {
		tb.tokens--
		return true
	}
	return false
}

func (tb *TokenBucket) idleSince(now time.Time) time.Duration {
	tb.mu.Lock()
	defer tb.mu.Unlock()
	return now.Sub(tb.lastUsed)
}

// RateLimiterConfig configures RateLimiter
type RateLimiterConfig struct {
	Rate       float64                   // requests per second
	Burst      int                       // bucket capacity
	ExpiryTime time.Duration             // idle buckets older than this are dropped
	KeyFunc    func(*gin.Context) string // defaults to the client IP
}

// DefaultRateLimiterConfig is used for zero fields
var DefaultRateLimiterConfig = RateLimiterConfig{
	Rate:       20,
	Burst:      40,
	ExpiryTime: 10 * time.Minute,
}

// RateLimiter holds one bucket per key
type RateLimiter struct {
	cfg     RateLimiterConfig
	mu      sync.Mutex
	buckets map[string]*TokenBucket
}

// NewRateLimiter creates a limiter, filling zero config fields with defaults
func NewRateLimiter(cfg RateLimiterConfig) *RateLimiter {
	if cfg.Rate <= 0 {
		cfg.Rate = DefaultRateLimiterConfig.Rate
	}
	if cfg.Burst <= 0 {
		cfg.Burst = DefaultRateLimiterConfig.Burst
	}
	if cfg.ExpiryTime <= 0 {
		cfg.ExpiryTime = DefaultRateLimiterConfig.ExpiryTime
	}
	if cfg.KeyFunc == nil {
		cfg.KeyFunc = func(c *gin.Context) string { return c.ClientIP() }
	}
	return &RateLimiter{cfg: cfg, buckets: make(map[string]*TokenBucket)}
}

func (rl *RateLimiter) bucket(key string) *TokenBucket {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	b, ok := rl.buckets[key]
	if !ok {
		b = NewTokenBucket(rl.cfg.Rate, rl.cfg.Burst)
		rl.buckets[key] = b
	}
	return b
}

// Cleanup drops buckets idle for longer than ExpiryTime
func (rl *RateLimiter) Cleanup() {
	now := time.Now()
	rl.mu.Lock()
	defer rl.mu.Unlock()
	for key, b := range rl.buckets {
		if b.idleSince(now) > rl.cfg.ExpiryTime {
			delete(rl.buckets, key)
		}
	}
}

// Middleware rejects requests over the limit with 429
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.bucket(rl.cfg.KeyFunc(c)).Allow() {
			response.Fail(c, code.ErrTooManyRequests)
			return
		}
		c.Next()
	}
}

// IPRateLimiter limits requests per client IP
func IPRateLimiter(rate float64, burst int) gin.HandlerFunc {
	return NewRateLimiter(RateLimiterConfig{Rate: rate, Burst: burst}).Middleware()
}

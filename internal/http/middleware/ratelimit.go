// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// Rate limiting is split in two: a Limiter decides whether a key may
// proceed, and RateLimit turns that decision into middleware. Two limiters
// exist: the in-process token bucket below (golang.org/x/time/rate) and the
// Redis fixed window in redis_limiter.go for deployments running more than
// one instance.
//
// Replays of an Idempotency-Key are never limited, so a client retrying an
// ambiguous booking always gets its original answer back.
package middleware

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// Limiter decides whether the request identified by key may proceed.
// A non-nil error means the limiter could not decide; RateLimit then lets
// the request through.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// KeyFunc maps a request to a bucket identity.
type KeyFunc func(*gin.Context) string

// KeyByIP keys buckets by client IP. The API has no user identities.
func KeyByIP() KeyFunc {
	return func(c *gin.Context) string { return "ip:" + c.ClientIP() }
}

// IsRateBypass reports whether IdempotencyValidator exempted the request.
func IsRateBypass(c *gin.Context) bool {
	v, _ := c.Get(ctxKeyRateBypass)
	b, _ := v.(bool)
	return b
}

// RateLimit enforces l per keyFn(c). Rejections get a 429 envelope with
// Retry-After; backend labels the rejection metric.
func RateLimit(l Limiter, keyFn KeyFunc, backend string) gin.HandlerFunc {
	if keyFn == nil {
		keyFn = KeyByIP()
	}
	return func(c *gin.Context) {
		if IsRateBypass(c) {
			c.Next()
			return
		}
		allowed, err := l.Allow(c.Request.Context(), keyFn(c))
		if err != nil {
			LoggerFrom(c).Warn().Err(err).Str("backend", backend).Msg("rate limiter unavailable, failing open")
			c.Next()
			return
		}
		if allowed {
			c.Next()
			return
		}
		rateLimited.WithLabelValues(backend).Inc()
		c.Header("Retry-After", "1")
		c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
			"request_id": RequestIDFrom(c),
			"code":       "too_many_requests",
			"message":    "rate limit exceeded",
		})
	}
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter is an in-process token bucket per key. Idle buckets are
// evicted opportunistically every gcEvery lookups.
type RateLimiter struct {
	rps   rate.Limit
	burst int
	keyFn KeyFunc

	mu       sync.Mutex
	visitors map[string]*visitor
	ttl      time.Duration
	lookups  uint64
	gcEvery  uint64
}

// NewRateLimiter returns a limiter refilling rps tokens per second with the
// given burst (coerced to at least 1).
func NewRateLimiter(rps float64, burst int, keyFn KeyFunc) *RateLimiter {
	if burst <= 0 {
		burst = 1
	}
	return &RateLimiter{
		rps:      rate.Limit(rps),
		burst:    burst,
		keyFn:    keyFn,
		visitors: make(map[string]*visitor),
		ttl:      10 * time.Minute,
		gcEvery:  5000,
	}
}

// Allow consumes one token from key's bucket. It never errors.
func (rl *RateLimiter) Allow(_ context.Context, key string) (bool, error) {
	return rl.bucket(key).Allow(), nil
}

// Handler installs rl as middleware.
func (rl *RateLimiter) Handler() gin.HandlerFunc {
	return RateLimit(rl, rl.keyFn, "memory")
}

// bucket returns key's limiter, creating it on first use. Eviction runs
// before the lookup so a stale bucket is replaced rather than refreshed.
func (rl *RateLimiter) bucket(key string) *rate.Limiter {
	now := time.Now()
	rl.mu.Lock()
	defer rl.mu.Unlock()

	rl.lookups++
	if rl.lookups >= rl.gcEvery {
		for k, v := range rl.visitors {
			if now.Sub(v.lastSeen) >= rl.ttl {
				delete(rl.visitors, k)
			}
		}
		rl.lookups = 0
	}

	if v, ok := rl.visitors[key]; ok {
		v.lastSeen = now
		return v.limiter
	}
	lim := rate.NewLimiter(rl.rps, rl.burst)
	rl.visitors[key] = &visitor{limiter: lim, lastSeen: now}
	return lim
}

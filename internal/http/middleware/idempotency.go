// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file implements Idempotency-Key support for unsafe methods. The
// validator checks the header, stashes the key, and asks a lookup whether a
// completed result already exists for (scope, key). Handlers serve the
// replay themselves; the middleware only annotates the request so that the
// rate limiter can let replays through.
//
// A scope is "METHOD route-template", e.g. "POST /api/appointments", so the
// same key sent to two different endpoints never collides.
package middleware

import (
	"context"
	"net/http"
	"regexp"
	"time"

	"github.com/gin-gonic/gin"
)

// HeaderIdempotencyKey is the request header carrying the client's key.
const HeaderIdempotencyKey = "Idempotency-Key"

// HeaderIdempotencyReplayed is set to "true" on responses served from a
// stored result.
const HeaderIdempotencyReplayed = "Idempotency-Replayed"

const (
	ctxKeyIdemKey    = "idem.key"
	ctxKeyIdemReplay = "idem.replay"
	ctxKeyRateBypass = "rate.bypass"
)

var defaultKeyPattern = regexp.MustCompile(`^[A-Za-z0-9._~\-:]+$`)

// GetIdempotencyKey returns the key validated by IdempotencyValidator.
func GetIdempotencyKey(c *gin.Context) (string, bool) {
	v, _ := c.Get(ctxKeyIdemKey)
	s, _ := v.(string)
	return s, s != ""
}

// IsReplay reports whether the lookup found a stored result for this key.
func IsReplay(c *gin.Context) bool {
	v, _ := c.Get(ctxKeyIdemReplay)
	b, _ := v.(bool)
	return b
}

// IdempotencyScope returns the scope under which c's key is recorded.
func IdempotencyScope(c *gin.Context) string {
	path := c.FullPath()
	if path == "" {
		path = c.Request.URL.Path
	}
	return c.Request.Method + " " + path
}

// IdempotencyOptions configures header validation.
type IdempotencyOptions struct {
	// MaxLen caps the key length; <= 0 means 200.
	MaxLen int
	// Pattern restricts allowed characters; nil means ^[A-Za-z0-9._~\-:]+$.
	Pattern *regexp.Regexp
	// Methods lists the methods the header is honoured on; empty means POST.
	Methods []string
}

// IdempotencyLookup reports whether a still-valid result exists for
// (scope, key). Errors are treated as a miss.
type IdempotencyLookup func(ctx context.Context, scope, key string, now time.Time) (exists bool, err error)

// IdempotencyValidator validates the Idempotency-Key header on the configured
// methods. Invalid keys are rejected with 400; a lookup hit marks the request
// as a replay and exempts it from rate limiting. Other methods pass through
// untouched.
func IdempotencyValidator(opts IdempotencyOptions, lookup IdempotencyLookup) gin.HandlerFunc {
	maxLen := opts.MaxLen
	if maxLen <= 0 {
		maxLen = 200
	}
	pat := opts.Pattern
	if pat == nil {
		pat = defaultKeyPattern
	}
	methods := map[string]struct{}{}
	for _, m := range opts.Methods {
		methods[m] = struct{}{}
	}
	if len(methods) == 0 {
		methods[http.MethodPost] = struct{}{}
	}

	return func(c *gin.Context) {
		key := c.GetHeader(HeaderIdempotencyKey)
		if _, ok := methods[c.Request.Method]; !ok || key == "" {
			c.Next()
			return
		}
		if len(key) > maxLen || !pat.MatchString(key) {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"request_id": RequestIDFrom(c),
				"code":       "bad_idempotency_key",
				"message":    "invalid Idempotency-Key",
			})
			return
		}
		c.Set(ctxKeyIdemKey, key)

		if lookup != nil {
			exists, err := lookup(c.Request.Context(), IdempotencyScope(c), key, time.Now().UTC())
			if err != nil {
				LoggerFrom(c).Warn().Err(err).Msg("idempotency lookup failed")
			}
			if exists {
				c.Set(ctxKeyIdemReplay, true)
				c.Set(ctxKeyRateBypass, true)
			}
		}
		c.Next()
	}
}

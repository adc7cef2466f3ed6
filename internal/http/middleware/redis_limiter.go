package middleware

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// fixedWindow increments the window counter and arms its expiry on the
// first hit, atomically.
var fixedWindow = redis.NewScript(`
local n = redis.call("INCR", KEYS[1])
if n == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return n
`)

// RedisLimiter is a fixed-window limiter shared by every instance pointing
// at the same Redis.
type RedisLimiter struct {
	rdb    redis.Scripter
	limit  int64
	window time.Duration
	prefix string
}

// NewRedisLimiter allows limit requests per key per window. Defaults: 60
// per minute, keys prefixed "randevu:rl".
func NewRedisLimiter(rdb redis.Scripter, limit int, window time.Duration, prefix string) *RedisLimiter {
	if limit <= 0 {
		limit = 60
	}
	if window <= 0 {
		window = time.Minute
	}
	if prefix = strings.TrimSpace(prefix); prefix == "" {
		prefix = "randevu:rl"
	}
	return &RedisLimiter{rdb: rdb, limit: int64(limit), window: window, prefix: prefix}
}

// Allow counts one hit for key in the current window.
func (l *RedisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	res, err := fixedWindow.Run(ctx, l.rdb, []string{l.prefix + ":" + key}, l.window.Milliseconds()).Result()
	if err != nil {
		return false, err
	}
	var n int64
	switch v := res.(type) {
	case int64:
		n = v
	case string:
		if n, err = strconv.ParseInt(v, 10, 64); err != nil {
			return false, err
		}
	default:
		return false, fmt.Errorf("rate limiter: unexpected script result %T", res)
	}
	return n <= l.limit, nil
}

package middleware

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

func TestNewRedisLimiter_Defaults(t *testing.T) {
	l := NewRedisLimiter(nil, 0, 0, "  ")
	if l.limit != 60 || l.window != time.Minute || l.prefix != "randevu:rl" {
		t.Fatalf("defaults = %+v", l)
	}
}

func TestRedisLimiter_UnreachableReturnsError(t *testing.T) {
	rdb := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { _ = rdb.Close() })

	l := NewRedisLimiter(rdb, 5, time.Second, "t")
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if _, err := l.Allow(ctx, "ip:1.2.3.4"); err == nil {
		t.Fatalf("expected error from unreachable redis")
	}
}

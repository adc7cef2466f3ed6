package middleware

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func idemRouter(t *testing.T, lookup IdempotencyLookup, seen *[]string) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID(), IdempotencyValidator(IdempotencyOptions{MaxLen: 16}, lookup))
	h := func(c *gin.Context) {
		k, _ := GetIdempotencyKey(c)
		*seen = append(*seen, k+"|"+boolStr(IsReplay(c))+"|"+boolStr(IsRateBypass(c)))
		c.Status(http.StatusOK)
	}
	r.POST("/api/appointments", h)
	r.GET("/api/appointments", h)
	return r
}

func boolStr(b bool) string {
	if b {
		return "t"
	}
	return "f"
}

func TestIdempotencyValidator_NoHeader(t *testing.T) {
	called := false
	lookup := func(context.Context, string, string, time.Time) (bool, error) {
		called = true
		return false, nil
	}
	var seen []string
	r := idemRouter(t, lookup, &seen)

	if w := serve(r, http.MethodPost, "/api/appointments", nil); w.Code != http.StatusOK {
		t.Fatalf("status %d", w.Code)
	}
	if called || seen[0] != "|f|f" {
		t.Fatalf("called=%v seen=%v", called, seen)
	}
}

func TestIdempotencyValidator_InvalidKeys(t *testing.T) {
	var seen []string
	r := idemRouter(t, nil, &seen)

	for _, key := range []string{strings.Repeat("a", 17), "bad key!"} {
		w := serve(r, http.MethodPost, "/api/appointments", map[string]string{HeaderIdempotencyKey: key})
		if w.Code != http.StatusBadRequest || !strings.Contains(w.Body.String(), "bad_idempotency_key") {
			t.Fatalf("key %q: status %d body %s", key, w.Code, w.Body.String())
		}
	}
	if len(seen) != 0 {
		t.Fatalf("handler ran for invalid key")
	}
}

func TestIdempotencyValidator_IgnoresOtherMethods(t *testing.T) {
	var seen []string
	r := idemRouter(t, nil, &seen)

	w := serve(r, http.MethodGet, "/api/appointments", map[string]string{HeaderIdempotencyKey: "bad key!"})
	if w.Code != http.StatusOK || seen[0] != "|f|f" {
		t.Fatalf("GET should pass through: %d %v", w.Code, seen)
	}
}

func TestIdempotencyValidator_LookupMissAndHit(t *testing.T) {
	var gotScope string
	lookup := func(_ context.Context, scope, key string, _ time.Time) (bool, error) {
		gotScope = scope
		return key == "hit-1", nil
	}
	var seen []string
	r := idemRouter(t, lookup, &seen)

	serve(r, http.MethodPost, "/api/appointments", map[string]string{HeaderIdempotencyKey: "miss-1"})
	serve(r, http.MethodPost, "/api/appointments", map[string]string{HeaderIdempotencyKey: "hit-1"})

	if gotScope != "POST /api/appointments" {
		t.Fatalf("scope = %q", gotScope)
	}
	if seen[0] != "miss-1|f|f" || seen[1] != "hit-1|t|t" {
		t.Fatalf("seen = %v", seen)
	}
}

package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func captureLogger(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := log.Logger
	t.Cleanup(func() { log.Logger = prev })
	log.Logger = zerolog.New(&buf)
	return &buf
}

func serve(r *gin.Engine, method, target string, hdr map[string]string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, target, nil)
	for k, v := range hdr {
		req.Header.Set(k, v)
	}
	r.ServeHTTP(w, req)
	return w
}

func TestRequestID_GenerateAndPropagate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID())
	r.GET("/rid", func(c *gin.Context) {
		c.String(http.StatusOK, RequestIDFrom(c))
	})

	w := serve(r, http.MethodGet, "/rid", nil)
	gen := w.Header().Get(requestIDHeader)
	if gen == "" || w.Body.String() != gen {
		t.Fatalf("generated id %q, body %q", gen, w.Body.String())
	}

	w = serve(r, http.MethodGet, "/rid", map[string]string{"x-request-id": "abc-123"})
	if got := w.Header().Get(requestIDHeader); got != "abc-123" {
		t.Fatalf("expected propagated request id, got %q", got)
	}
}

func TestRecovery_PanicsToJSON500AndLogs(t *testing.T) {
	gin.SetMode(gin.TestMode)
	buf := captureLogger(t)

	r := gin.New()
	r.Use(RequestID(), RedactingLogger(RedactOptions{}), Recovery())
	r.GET("/panic", func(c *gin.Context) { panic("kaboom") })

	w := serve(r, http.MethodGet, "/panic", map[string]string{requestIDHeader: "rid-1"})
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid json body: %v", err)
	}
	if body["code"] != "internal_error" || body["request_id"] != "rid-1" {
		t.Fatalf("unexpected body: %v", body)
	}
	if out := buf.String(); !strings.Contains(out, "panic recovered") || !strings.Contains(out, `"request_id":"rid-1"`) {
		t.Fatalf("expected panic log with request id, got:\n%s", out)
	}
}

func TestRecovery_PanicAfterWrite_NoJSON(t *testing.T) {
	gin.SetMode(gin.TestMode)
	_ = captureLogger(t)

	r := gin.New()
	r.Use(RequestID(), Recovery())
	r.GET("/late", func(c *gin.Context) {
		c.String(http.StatusOK, "partial")
		panic("late")
	})

	w := serve(r, http.MethodGet, "/late", nil)
	if strings.Contains(w.Body.String(), "internal_error") {
		t.Fatalf("JSON envelope written after body: %q", w.Body.String())
	}
}

func TestLoggerFrom_FallbackAndRequestScoped(t *testing.T) {
	gin.SetMode(gin.TestMode)

	buf := captureLogger(t)
	r := gin.New()
	r.Use(RequestID())
	r.GET("/use", func(c *gin.Context) {
		LoggerFrom(c).Info().Msg("fallback")
		c.Status(http.StatusOK)
	})
	serve(r, http.MethodGet, "/use", nil)
	if out := buf.String(); !strings.Contains(out, `"message":"fallback"`) || strings.Contains(out, `"request_id"`) {
		t.Fatalf("fallback logger output: %s", out)
	}

	buf = captureLogger(t)
	r = gin.New()
	r.Use(RequestID(), RedactingLogger(RedactOptions{}))
	r.GET("/use", func(c *gin.Context) {
		LoggerFrom(c).Info().Msg("scoped")
		zerolog.Ctx(c.Request.Context()).Info().Msg("from ctx")
		c.Status(http.StatusOK)
	})
	serve(r, http.MethodGet, "/use", map[string]string{requestIDHeader: "rid-2"})
	out := buf.String()
	for _, want := range []string{`"message":"scoped"`, `"message":"from ctx"`, `"request_id":"rid-2"`} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %s in:\n%s", want, out)
		}
	}
}

func TestHelpers_asString_and_truncate(t *testing.T) {
	if asString("x") != "x" || asString(123) != "" {
		t.Fatalf("asString failed")
	}
	if truncate("hello", 10) != "hello" || truncate("abc", 0) != "abc" {
		t.Fatalf("truncate no-op failed")
	}
	if got := truncate("abcdefgh", 5); got != "abcde…" {
		t.Fatalf("truncate = %q", got)
	}
}

// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// RedactingLogger is the access log. Customer names and phone numbers travel
// in query strings (search, phone filters) and in the customer-history path,
// so everything except the route template is scrubbed before it is logged.
// Bodies are never logged.
package middleware

import (
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

const maxQueryLogLength = 2048

// RedactOptions configures RedactingLogger.
type RedactOptions struct {
	// MaskHeaders are replaced with [REDACTED] in addition to Authorization,
	// Cookie and Set-Cookie. Case-insensitive.
	MaskHeaders []string
	// MaskQuery lists query parameters whose values are dropped entirely,
	// e.g. free-text customer search.
	MaskQuery []string
}

var (
	uuidRE  = regexp.MustCompile(`(?i)\b[0-9a-f]{8}-[0-9a-f]{4}-[1-5][0-9a-f]{3}-[89ab][0-9a-f]{3}-[0-9a-f]{12}\b`)
	emailRE = regexp.MustCompile(`(?i)\b[a-z0-9._%+\-]+@[a-z0-9.\-]+\.[a-z]{2,}\b`)
	// Ten or more digits with optional single separators: 0532 123 45 67,
	// +90 (532) 123-4567. Dates (8 digits) do not match.
	phoneRE = regexp.MustCompile(`\+?\(?\d(?:[ .()-]{0,2}\d){9,}`)
)

// redact scrubs ids, emails and phone numbers. UUIDs go first so the phone
// pattern never eats their digit groups.
func redact(s string) string {
	if s == "" {
		return s
	}
	s = uuidRE.ReplaceAllString(s, "[REDACTED:id]")
	s = emailRE.ReplaceAllString(s, "[REDACTED:email]")
	return phoneRE.ReplaceAllString(s, "[REDACTED:phone]")
}

// redactQuery drops masked parameters and scrubs the rest.
func redactQuery(raw string, masked map[string]struct{}) string {
	if raw == "" {
		return raw
	}
	vals, err := url.ParseQuery(raw)
	if err != nil {
		return redact(raw)
	}
	for k := range vals {
		if _, ok := masked[strings.ToLower(k)]; ok {
			vals[k] = []string{"[REDACTED]"}
		}
	}
	dec, err := url.QueryUnescape(vals.Encode())
	if err != nil {
		dec = vals.Encode()
	}
	return redact(truncate(dec, maxQueryLogLength))
}

// RedactingLogger attaches a request-scoped zerolog.Logger (also reachable
// through zerolog.Ctx on the request context) and writes one access-log
// line per request: info for 2xx/3xx, warn for 4xx, error for 5xx.
func RedactingLogger(opts RedactOptions) gin.HandlerFunc {
	maskHeaders := map[string]struct{}{
		"authorization": {},
		"cookie":        {},
		"set-cookie":    {},
	}
	for _, h := range opts.MaskHeaders {
		if h = strings.ToLower(strings.TrimSpace(h)); h != "" {
			maskHeaders[h] = struct{}{}
		}
	}
	maskQuery := make(map[string]struct{}, len(opts.MaskQuery))
	for _, q := range opts.MaskQuery {
		if q = strings.ToLower(strings.TrimSpace(q)); q != "" {
			maskQuery[q] = struct{}{}
		}
	}

	return func(c *gin.Context) {
		start := time.Now()

		// The route template never contains customer data; the raw path may.
		path := c.FullPath()
		if path == "" {
			path = redact(c.Request.URL.Path)
		}

		l := log.With().
			Str("request_id", RequestIDFrom(c)).
			Str("method", c.Request.Method).
			Str("path", path).
			Logger()
		c.Set(loggerKey, &l)
		c.Request = c.Request.WithContext(l.WithContext(c.Request.Context()))

		headers := make(map[string]string, len(c.Request.Header))
		for k, vv := range c.Request.Header {
			if _, ok := maskHeaders[strings.ToLower(k)]; ok {
				headers[k] = "[REDACTED]"
				continue
			}
			headers[k] = redact(strings.Join(vv, ", "))
		}
		query := redactQuery(c.Request.URL.RawQuery, maskQuery)

		c.Next()

		status := c.Writer.Status()
		ev := l.Info()
		switch {
		case status >= 500 || len(c.Errors) > 0:
			ev = l.Error()
		case status >= 400:
			ev = l.Warn()
		}
		if len(c.Errors) > 0 {
			ev = ev.Str("errors", redact(c.Errors.String()))
		}
		ev.
			Str("query", query).
			Str("remote_ip", c.ClientIP()).
			Int("status", status).
			Int("bytes", c.Writer.Size()).
			Dur("latency", time.Since(start)).
			Interface("headers", headers).
			Msg("http_request")
	}
}

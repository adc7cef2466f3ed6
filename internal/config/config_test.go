package config

import (
	"os"
	"reflect"
	"strings"
	"testing"
	"time"
)

// --- MustLoad ---

func TestMustLoad_PanicsOnInvalidConfig(t *testing.T) {
	t.Setenv("LOG_LEVEL", "verbose") // invalid -> Load() error
	defer func() {
		if r := recover(); r == nil {
			t.Fatalf("MustLoad should panic on invalid config")
		}
	}()
	_ = MustLoad()
}

// --- Load success + normalization + parsing ---

func TestLoad_Success_DefaultsAndOverrides(t *testing.T) {
	// Server timeouts / sizes (valid)
	t.Setenv("PORT", "8088")
	t.Setenv("READ_TIMEOUT", "2s")
	t.Setenv("READ_HEADER_TIMEOUT", "1s")
	t.Setenv("WRITE_TIMEOUT", "3s")
	t.Setenv("IDLE_TIMEOUT", "4s")
	t.Setenv("MAX_HEADER_BYTES", "8192")
	t.Setenv("GIN_MODE", "weird") // will normalize to "release"
	t.Setenv("GZIP_ENABLED", "off")
	t.Setenv("STRICT_JSON", "true")

	// Logging / Docs
	t.Setenv("LOG_LEVEL", "warning") // will normalize to "warn"
	t.Setenv("LOG_PRETTY", "yes")
	t.Setenv("LOG_FILE", "/var/log/randevu.log")
	t.Setenv("LOG_FILE_MAX_MB", "10")
	t.Setenv("SWAGGER_ENABLED", "on")
	t.Setenv("API_BASE_PATH", "api/v2/") // no leading slash + trailing slash -> "/api/v2"

	// App
	t.Setenv("DB_PATH", "db.sqlite")
	t.Setenv("REPORT_TIMEZONE", "UTC")

	// Rate limiting (use invalids for parse to fall back to defaults)
	t.Setenv("RATE_RPS", "x")      // -> default 5.0
	t.Setenv("RATE_BURST", "nope") // -> default 10
	t.Setenv("RATE_WINDOW_LIMIT", "30")
	t.Setenv("REDIS_ADDR", "redis:6379")
	t.Setenv("REDIS_DB", "2")

	// Web protection
	t.Setenv("CORS_ALLOWED_ORIGINS", " https://a.com , , http://b ")
	t.Setenv("ENABLE_HSTS", "TRUE")
	t.Setenv("HSTS_MAX_AGE", "24h")

	// Idempotency
	t.Setenv("IDEMPOTENCY_TTL", "48h")

	// SMS
	t.Setenv("SMS_ENABLED", "1")
	t.Setenv("TWILIO_ACCOUNT_SID", "AC123")
	t.Setenv("TWILIO_AUTH_TOKEN", "tok")
	t.Setenv("SMS_FROM", "+15005550006")
	t.Setenv("SMS_COUNTRY_CODE", "+49")
	t.Setenv("SMS_TIMEOUT", "3s")

	// OTEL
	t.Setenv("OTEL_ENABLED", "1")
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "otel:4317")
	t.Setenv("OTEL_EXPORTER_OTLP_INSECURE", "0")
	t.Setenv("OTEL_SERVICE_NAME", "svc")
	t.Setenv("OTEL_TRACES_SAMPLER_ARG", "0.75")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	// Server
	if cfg.Port != "8088" ||
		cfg.ReadTimeout != 2*time.Second ||
		cfg.ReadHeaderTimeout != 1*time.Second ||
		cfg.WriteTimeout != 3*time.Second ||
		cfg.IdleTimeout != 4*time.Second ||
		cfg.MaxHeaderBytes != 8192 ||
		cfg.GinMode != "release" ||
		cfg.GzipEnabled || !cfg.StrictJSON {
		t.Fatalf("server fields unexpected: %+v", cfg)
	}

	// Logging / Docs
	if cfg.LogLevel != "warn" || !cfg.LogPretty || !cfg.SwaggerEnabled || cfg.APIBasePath != "/api/v2" {
		t.Fatalf("logging/docs unexpected: %+v", cfg)
	}
	if cfg.LogFile.Path != "/var/log/randevu.log" || cfg.LogFile.MaxSizeMB != 10 || cfg.LogFile.MaxBackups != 5 || !cfg.LogFile.Compress {
		t.Fatalf("log file unexpected: %+v", cfg.LogFile)
	}

	// App
	if cfg.DBPath != "db.sqlite" || cfg.ReportLocation != time.UTC {
		t.Fatalf("app fields unexpected: %+v", cfg)
	}

	// Rate limiting (parse fallback to defaults)
	if cfg.RateRPS != 5.0 || cfg.RateBurst != 10 || cfg.RateWindowLimit != 30 {
		t.Fatalf("rate limiting unexpected: %+v", cfg)
	}
	if cfg.Redis != (RedisConfig{Addr: "redis:6379", DB: 2}) {
		t.Fatalf("redis unexpected: %+v", cfg.Redis)
	}

	// Web protection
	if !reflect.DeepEqual(cfg.CORS.AllowedOrigins, []string{"https://a.com", "http://b"}) {
		t.Fatalf("cors origins unexpected: %#v", cfg.CORS.AllowedOrigins)
	}
	if !cfg.Security.EnableHSTS || cfg.Security.HSTSMaxAge != 24*time.Hour {
		t.Fatalf("security unexpected: %+v", cfg.Security)
	}

	// Idempotency
	if cfg.IdempotencyTTL != 48*time.Hour || cfg.IdempotencyPurgeEvery != time.Hour {
		t.Fatalf("idempotency unexpected: %v %v", cfg.IdempotencyTTL, cfg.IdempotencyPurgeEvery)
	}

	// SMS
	want := SMSConfig{Enabled: true, AccountSID: "AC123", AuthToken: "tok", From: "+15005550006", CountryCode: "49", Timeout: 3 * time.Second}
	if cfg.SMS != want {
		t.Fatalf("sms unexpected: %+v", cfg.SMS)
	}

	// OTEL
	if !cfg.OTEL.Enabled || cfg.OTEL.Endpoint != "otel:4317" || cfg.OTEL.Insecure || cfg.OTEL.ServiceName != "svc" || cfg.OTEL.SampleRatio != 0.75 {
		t.Fatalf("otel unexpected: %+v", cfg.OTEL)
	}
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.APIBasePath != "/api" {
		t.Fatalf("API_BASE_PATH default expected '/api', got %q", cfg.APIBasePath)
	}
	if cfg.DBPath != "randevu.db" || cfg.ReportTimezone != "Europe/Istanbul" || cfg.ReportLocation == nil {
		t.Fatalf("app defaults unexpected: %+v", cfg)
	}
	if cfg.ReportLocation.String() != "Europe/Istanbul" {
		t.Fatalf("location = %s", cfg.ReportLocation)
	}
	if cfg.Redis.Addr != "" || cfg.SMS.Enabled || cfg.SMS.CountryCode != "90" || cfg.StrictJSON || !cfg.GzipEnabled {
		t.Fatalf("optional features should default off: %+v", cfg)
	}
	if cfg.OTEL.ServiceName != "randevu" {
		t.Fatalf("service name default = %q", cfg.OTEL.ServiceName)
	}
}

// --- Load validations (each case triggers exactly one validation error) ---

func TestLoad_ValidationErrors(t *testing.T) {
	cases := []struct {
		name, key, val, want string
	}{
		{"invalid LOG_LEVEL", "LOG_LEVEL", "verbose", "LOG_LEVEL"},
		{"empty PORT via spaces", "PORT", "   ", "PORT must not be empty"},
		{"non-positive timeouts", "READ_TIMEOUT", "0s", "timeouts must be positive"},
		{"max header bytes <= 0", "MAX_HEADER_BYTES", "0", "MAX_HEADER_BYTES"},
		{"empty DB_PATH", "DB_PATH", "   ", "DB_PATH must not be empty"},
		{"unknown timezone", "REPORT_TIMEZONE", "Mars/Olympus", "REPORT_TIMEZONE"},
		{"rate rps negative", "RATE_RPS", "-1", "RATE_RPS"},
		{"rate burst < 1", "RATE_BURST", "0", "RATE_BURST"},
		{"window limit < 1", "RATE_WINDOW_LIMIT", "0", "RATE_WINDOW_LIMIT"},
		{"hsts max age negative", "HSTS_MAX_AGE", "-1s", "HSTS_MAX_AGE"},
		{"idempotency ttl non-positive", "IDEMPOTENCY_TTL", "0s", "IDEMPOTENCY_TTL"},
		{"purge interval non-positive", "IDEMPOTENCY_PURGE_INTERVAL", "-1m", "IDEMPOTENCY_PURGE_INTERVAL"},
		{"otel sample ratio out of range", "OTEL_TRACES_SAMPLER_ARG", "1.5", "OTEL_TRACES_SAMPLER_ARG"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv(tc.key, tc.val)
			if _, err := Load(); err == nil || !containsErr(err, tc.want) {
				t.Fatalf("expected %s validation error, got: %v", tc.want, err)
			}
		})
	}

	t.Run("log file size", func(t *testing.T) {
		t.Setenv("LOG_FILE", "app.log")
		t.Setenv("LOG_FILE_MAX_MB", "0")
		if _, err := Load(); err == nil || !containsErr(err, "LOG_FILE_MAX_MB") {
			t.Fatalf("expected LOG_FILE_MAX_MB validation error, got: %v", err)
		}
	})
	t.Run("sms country code", func(t *testing.T) {
		t.Setenv("SMS_ENABLED", "true")
		t.Setenv("SMS_COUNTRY_CODE", "tr")
		if _, err := Load(); err == nil || !containsErr(err, "SMS_COUNTRY_CODE") {
			t.Fatalf("expected SMS_COUNTRY_CODE validation error, got: %v", err)
		}
	})
}

// --- helpers ---

func TestHelpers_getenv(t *testing.T) {
	t.Setenv("X_EMPTY", "")
	if getenv("X_EMPTY", "d") != "d" {
		t.Fatalf("getenv should fall back to default on empty var")
	}
	t.Setenv("X_SET", "val")
	if getenv("X_SET", "d") != "val" {
		t.Fatalf("getenv should read set value")
	}
}

func TestHelpers_getfloat_getint_getdur(t *testing.T) {
	t.Setenv("F_VALID", "3.14")
	if getfloat("F_VALID", 0) != 3.14 {
		t.Fatalf("getfloat parse failed")
	}
	t.Setenv("F_BAD", "nope")
	if getfloat("F_BAD", 1.23) != 1.23 {
		t.Fatalf("getfloat default on bad parse failed")
	}

	t.Setenv("I_VALID", "42")
	if getint("I_VALID", 0) != 42 {
		t.Fatalf("getint parse failed")
	}
	t.Setenv("I_BAD", "x")
	if getint("I_BAD", 7) != 7 {
		t.Fatalf("getint default on bad parse failed")
	}

	t.Setenv("D_VALID", "150ms")
	if getdur("D_VALID", time.Second) != 150*time.Millisecond {
		t.Fatalf("getdur parse failed")
	}
	t.Setenv("D_BAD", "zzz")
	if getdur("D_BAD", 2*time.Second) != 2*time.Second {
		t.Fatalf("getdur default on bad parse failed")
	}
}

func TestHelpers_getbool(t *testing.T) {
	t.Setenv("B_T", " On ")
	if !getbool("B_T", false) {
		t.Fatalf("getbool should read true")
	}
	t.Setenv("B_F", "no")
	if getbool("B_F", true) {
		t.Fatalf("getbool should read false")
	}
	// default on unset/empty/garbage
	t.Setenv("B_EMPTY", "")
	t.Setenv("B_BAD", "sometimes")
	if !getbool("B_EMPTY", true) || getbool("B_EMPTY", false) || !getbool("B_BAD", true) {
		t.Fatalf("getbool default behavior unexpected")
	}
}

func TestHelpers_splitCSV_and_normalizeBasePath(t *testing.T) {
	if out := splitCSV(""); out != nil {
		t.Fatalf("splitCSV empty should return nil")
	}
	in := " a, ,b ,  c  ,"
	want := []string{"a", "b", "c"}
	if got := splitCSV(in); !reflect.DeepEqual(got, want) {
		t.Fatalf("splitCSV mismatch: got %#v want %#v", got, want)
	}

	if normalizeBasePath("") != "/" {
		t.Fatalf("normalizeBasePath empty -> '/' failed")
	}
	if normalizeBasePath("api") != "/api" {
		t.Fatalf("normalizeBasePath missing leading slash failed")
	}
	if normalizeBasePath("/api/") != "/api" {
		t.Fatalf("normalizeBasePath trailing slash trim failed")
	}
	if normalizeBasePath(" / ") != "/" {
		t.Fatalf("normalizeBasePath whitespace failed")
	}
}

// Ensure tests don't leak env to others.
func TestMain(m *testing.M) {
	for _, k := range []string{"PORT", "DB_PATH", "REPORT_TIMEZONE", "REDIS_ADDR", "SMS_ENABLED", "LOG_FILE"} {
		os.Unsetenv(k)
	}
	os.Exit(m.Run())
}

// containsErr reports whether err's message contains the given substring.
func containsErr(err error, want string) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), want)
}

func TestMustLoad_Success_NoPanic(t *testing.T) {
	defer func() {
		if r := recover(); r != nil {
			t.Fatalf("MustLoad should not panic on valid defaults, got: %v", r)
		}
	}()
	cfg := MustLoad()
	if cfg.APIBasePath == "" {
		t.Fatalf("unexpected empty config from MustLoad")
	}
}

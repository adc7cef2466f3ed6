// Package config provides application configuration loaded from environment
// variables with defaults and validation. It centralizes server timeouts,
// logging, the database path, reporting timezone, rate limiting, SMS and
// observability settings.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	// Embedded zone database so REPORT_TIMEZONE resolves on minimal images.
	_ "time/tzdata"

	"github.com/fatihsenyuz/Randevu/internal/utils"
)

// CORSConfig defines Cross-Origin Resource Sharing settings.
type CORSConfig struct {
	AllowedOrigins []string
}

// SecurityConfig defines security-related settings such as HSTS.
type SecurityConfig struct {
	EnableHSTS bool
	HSTSMaxAge time.Duration
}

// OTELConfig defines OpenTelemetry observability settings.
type OTELConfig struct {
	Enabled     bool    // OTEL_ENABLED
	Endpoint    string  // OTEL_EXPORTER_OTLP_ENDPOINT (e.g. "otel:4317")
	Insecure    bool    // OTEL_EXPORTER_OTLP_INSECURE (true if no TLS)
	ServiceName string  // OTEL_SERVICE_NAME
	SampleRatio float64 // OTEL_TRACES_SAMPLER_ARG in [0..1]
}

// LogFileConfig enables a rotating log file next to stdout.
type LogFileConfig struct {
	Path       string // LOG_FILE; empty disables file output
	MaxSizeMB  int    // LOG_FILE_MAX_MB
	MaxBackups int    // LOG_FILE_MAX_BACKUPS
	MaxAgeDays int    // LOG_FILE_MAX_AGE_DAYS
	Compress   bool   // LOG_FILE_COMPRESS
}

// RedisConfig points the rate limiter at a shared Redis. Empty Addr keeps
// the in-process limiter.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// SMSConfig configures customer notifications.
type SMSConfig struct {
	Enabled     bool
	AccountSID  string
	AuthToken   string
	From        string
	CountryCode string
	Timeout     time.Duration
}

// Config holds all configuration values for the application.
type Config struct {
	// Server
	Port              string        // just the number
	ReadTimeout       time.Duration // e.g. 15s
	ReadHeaderTimeout time.Duration // e.g. 10s
	WriteTimeout      time.Duration // e.g. 20s
	IdleTimeout       time.Duration // e.g. 60s
	MaxHeaderBytes    int           // bytes
	GinMode           string        // debug|release|test
	GzipEnabled       bool          // compress responses
	StrictJSON        bool          // reject unknown JSON fields

	// Logging / Docs
	LogLevel       string // debug|info|warn|error|fatal|panic
	LogPretty      bool   // pretty console logs in dev
	LogFile        LogFileConfig
	SwaggerEnabled bool   // enable Swagger UI route
	APIBasePath    string // base path for API routes

	// App
	DBPath         string         // SQLite path
	ReportTimezone string         // IANA zone for "today" on the dashboard
	ReportLocation *time.Location // resolved ReportTimezone

	// Rate limiting
	RateRPS         float64 // tokens per second (>= 0)
	RateBurst       int     // bucket size (>= 1)
	RateWindowLimit int     // requests per minute per client with Redis
	Redis           RedisConfig

	// Web protection
	CORS     CORSConfig
	Security SecurityConfig

	// Idempotency
	IdempotencyTTL        time.Duration // how long a given Idempotency-Key is valid
	IdempotencyPurgeEvery time.Duration // sweep interval for expired keys

	// Notifications
	SMS SMSConfig

	// Observability
	OTEL OTELConfig
}

// MustLoad loads the configuration and panics if validation fails.
func MustLoad() Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

// Load reads configuration from environment variables,
// applies defaults, normalizes values, and validates the result.
func Load() (Config, error) {
	cfg := Config{
		// Server
		Port:              getenv("PORT", "8080"),
		ReadTimeout:       getdur("READ_TIMEOUT", 15*time.Second),
		ReadHeaderTimeout: getdur("READ_HEADER_TIMEOUT", 10*time.Second),
		WriteTimeout:      getdur("WRITE_TIMEOUT", 20*time.Second),
		IdleTimeout:       getdur("IDLE_TIMEOUT", 60*time.Second),
		MaxHeaderBytes:    getint("MAX_HEADER_BYTES", 1<<20),
		GinMode:           strings.ToLower(getenv("GIN_MODE", "release")),
		GzipEnabled:       getbool("GZIP_ENABLED", true),
		StrictJSON:        getbool("STRICT_JSON", false),

		// Logging / Docs
		LogLevel:  strings.ToLower(getenv("LOG_LEVEL", "info")),
		LogPretty: getbool("LOG_PRETTY", false),
		LogFile: LogFileConfig{
			Path:       getenv("LOG_FILE", ""),
			MaxSizeMB:  getint("LOG_FILE_MAX_MB", 100),
			MaxBackups: getint("LOG_FILE_MAX_BACKUPS", 5),
			MaxAgeDays: getint("LOG_FILE_MAX_AGE_DAYS", 28),
			Compress:   getbool("LOG_FILE_COMPRESS", true),
		},
		SwaggerEnabled: getbool("SWAGGER_ENABLED", false),
		APIBasePath:    normalizeBasePath(getenv("API_BASE_PATH", "/api")),

		// App
		DBPath:         getenv("DB_PATH", "randevu.db"),
		ReportTimezone: getenv("REPORT_TIMEZONE", "Europe/Istanbul"),

		// Rate limiting
		RateRPS:         getfloat("RATE_RPS", 5.0),
		RateBurst:       getint("RATE_BURST", 10),
		RateWindowLimit: getint("RATE_WINDOW_LIMIT", 120),
		Redis: RedisConfig{
			Addr:     getenv("REDIS_ADDR", ""),
			Password: getenv("REDIS_PASSWORD", ""),
			DB:       getint("REDIS_DB", 0),
		},

		// Web protection
		CORS: CORSConfig{
			AllowedOrigins: splitCSV(getenv("CORS_ALLOWED_ORIGINS", "")),
		},
		Security: SecurityConfig{
			EnableHSTS: getbool("ENABLE_HSTS", false),
			HSTSMaxAge: getdur("HSTS_MAX_AGE", 180*24*time.Hour),
		},

		// Idempotency
		IdempotencyTTL:        getdur("IDEMPOTENCY_TTL", 24*time.Hour),
		IdempotencyPurgeEvery: getdur("IDEMPOTENCY_PURGE_INTERVAL", time.Hour),

		// Notifications
		SMS: SMSConfig{
			Enabled:     getbool("SMS_ENABLED", false),
			AccountSID:  getenv("TWILIO_ACCOUNT_SID", ""),
			AuthToken:   getenv("TWILIO_AUTH_TOKEN", ""),
			From:        getenv("SMS_FROM", ""),
			CountryCode: strings.TrimPrefix(getenv("SMS_COUNTRY_CODE", "90"), "+"),
			Timeout:     getdur("SMS_TIMEOUT", 10*time.Second),
		},

		// Observability (OpenTelemetry)
		OTEL: OTELConfig{
			Enabled:     getbool("OTEL_ENABLED", false),
			Endpoint:    getenv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
			Insecure:    getbool("OTEL_EXPORTER_OTLP_INSECURE", true),
			ServiceName: getenv("OTEL_SERVICE_NAME", "randevu"),
			SampleRatio: getfloat("OTEL_TRACES_SAMPLER_ARG", 1.0),
		},
	}

	// --- normalization ---
	if cfg.LogLevel == "warning" {
		cfg.LogLevel = "warn"
	}
	switch cfg.GinMode {
	case "debug", "release", "test":
	default:
		cfg.GinMode = "release"
	}

	// --- validation ---
	switch cfg.LogLevel {
	case "debug", "info", "warn", "error", "fatal", "panic":
	default:
		return cfg, errors.New("LOG_LEVEL must be one of: debug, info, warn, error, fatal, panic")
	}
	if strings.TrimSpace(cfg.Port) == "" {
		return cfg, errors.New("PORT must not be empty")
	}
	if cfg.ReadTimeout <= 0 || cfg.ReadHeaderTimeout <= 0 || cfg.WriteTimeout <= 0 || cfg.IdleTimeout <= 0 {
		return cfg, errors.New("timeouts must be positive durations")
	}
	if cfg.MaxHeaderBytes <= 0 {
		return cfg, errors.New("MAX_HEADER_BYTES must be > 0")
	}
	if strings.TrimSpace(cfg.DBPath) == "" {
		return cfg, errors.New("DB_PATH must not be empty")
	}
	loc, err := time.LoadLocation(cfg.ReportTimezone)
	if err != nil {
		return cfg, fmt.Errorf("REPORT_TIMEZONE: %w", err)
	}
	cfg.ReportLocation = loc
	if cfg.RateRPS < 0 {
		return cfg, errors.New("RATE_RPS must be >= 0")
	}
	if cfg.RateBurst < 1 {
		return cfg, errors.New("RATE_BURST must be >= 1")
	}
	if cfg.RateWindowLimit < 1 {
		return cfg, errors.New("RATE_WINDOW_LIMIT must be >= 1")
	}
	if cfg.Security.HSTSMaxAge < 0 {
		return cfg, errors.New("HSTS_MAX_AGE must be >= 0")
	}
	if cfg.IdempotencyTTL <= 0 {
		return cfg, errors.New("IDEMPOTENCY_TTL must be > 0")
	}
	if cfg.IdempotencyPurgeEvery <= 0 {
		return cfg, errors.New("IDEMPOTENCY_PURGE_INTERVAL must be > 0")
	}
	if cfg.LogFile.Path != "" && cfg.LogFile.MaxSizeMB <= 0 {
		return cfg, errors.New("LOG_FILE_MAX_MB must be > 0")
	}
	if cfg.SMS.Enabled {
		if _, err := strconv.Atoi(cfg.SMS.CountryCode); err != nil || cfg.SMS.CountryCode == "" {
			return cfg, errors.New("SMS_COUNTRY_CODE must be a calling code such as 90")
		}
	}
	if cfg.OTEL.SampleRatio < 0 || cfg.OTEL.SampleRatio > 1 {
		return cfg, errors.New("OTEL_TRACES_SAMPLER_ARG must be in [0,1]")
	}

	return cfg, nil
}

// ---- helpers ----

func getenv(k, def string) string {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		return v
	}
	return def
}

func getfloat(k string, def float64) float64 {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func getint(k string, def int) int {
	return utils.AtoiDefault(os.Getenv(k), def)
}

func getbool(k string, def bool) bool {
	if v, ok := utils.ParseBool(os.Getenv(k)); ok {
		return v
	}
	return def
}

func getdur(k string, def time.Duration) time.Duration {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func splitCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		t := strings.TrimSpace(p)
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}

// normalizeBasePath ensures leading '/' and strips trailing '/' (except root).
func normalizeBasePath(p string) string {
	p = strings.TrimSpace(p)
	if p == "" {
		return "/"
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	if len(p) > 1 && strings.HasSuffix(p, "/") {
		p = strings.TrimRight(p, "/")
	}
	return p
}

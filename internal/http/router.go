// Package httpapi wires the HTTP transport (Gin) to application services,
// middleware, and route handlers. It centralizes cross-cutting concerns such
// as tracing, correlation IDs, logging/redaction, panic recovery, metrics,
// compression, CORS, security headers, idempotency, and rate limiting.
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"gorm.io/gorm"

	"github.com/fatihsenyuz/Randevu/internal/config"
	"github.com/fatihsenyuz/Randevu/internal/docs"
	"github.com/fatihsenyuz/Randevu/internal/domain"
	"github.com/fatihsenyuz/Randevu/internal/http/handlers"
	"github.com/fatihsenyuz/Randevu/internal/http/middleware"
	"github.com/fatihsenyuz/Randevu/internal/notify"
	"github.com/fatihsenyuz/Randevu/internal/repo"
	"github.com/fatihsenyuz/Randevu/internal/services"
)

// catalogRepoShim adapts the repository free functions to the
// services.CatalogRepo interface expected by the CatalogService.
type catalogRepoShim struct{}

// CreateService proxies repo.CreateService.
func (catalogRepoShim) CreateService(ctx context.Context, db *gorm.DB, name string, price decimal.Decimal) (*domain.Service, error) {
	return repo.CreateService(ctx, db, name, price)
}

// ListServices proxies repo.ListServices.
func (catalogRepoShim) ListServices(ctx context.Context, db *gorm.DB) ([]domain.Service, error) {
	return repo.ListServices(ctx, db)
}

// GetService proxies repo.GetService.
func (catalogRepoShim) GetService(ctx context.Context, db *gorm.DB, id string) (*domain.Service, error) {
	return repo.GetService(ctx, db, id)
}

// UpdateService proxies repo.UpdateService.
func (catalogRepoShim) UpdateService(ctx context.Context, db *gorm.DB, id, name string, price decimal.Decimal) error {
	return repo.UpdateService(ctx, db, id, name, price)
}

// DeleteService proxies repo.DeleteService.
func (catalogRepoShim) DeleteService(ctx context.Context, db *gorm.DB, id string) error {
	return repo.DeleteService(ctx, db, id)
}

// Deps carries the collaborators the entrypoint builds from configuration.
type Deps struct {
	// Notifier sends booking and completion SMS. Nil disables them.
	Notifier notify.Notifier
	// Redis, when set, backs a shared fixed-window rate limiter instead of
	// the in-process token bucket.
	Redis redis.Scripter
}

// RegisterRoutes attaches all middleware and HTTP endpoints to the given Gin
// engine and mounts the public API under cfg.APIBasePath.
//
// Middleware order matters:
//  1. OpenTelemetry: trace everything
//  2. RequestID: generate/propagate correlation id
//  3. RedactingLogger: structured logs with PII scrubbing
//  4. Recovery: capture panics after logger
//  5. Body size limiter
//  6. Metrics
//  7. Idempotency validator (before rate limiter to allow bypass on replay)
//  8. Rate limiter (per IP, bypass on replay)
//  9. CORS, security headers and compression
func RegisterRoutes(r *gin.Engine, db *gorm.DB, cfg config.Config, deps Deps) {
	r.HandleMethodNotAllowed = true

	// 1) Trace all HTTP requests
	r.Use(otelgin.Middleware(cfg.OTEL.ServiceName))

	// 2) Correlate requests and logs
	r.Use(middleware.RequestID())

	// 3) Structured logging with redaction; customer phone numbers are PII
	r.Use(middleware.RedactingLogger(middleware.RedactOptions{
		MaskQuery: []string{"search", "phone"},
	}))

	// 4) Panic recovery to JSON 500 (with request id)
	r.Use(middleware.Recovery())

	// 5) Global body size limit (1 MiB)
	r.Use(limitBody(1 << 20))

	// 6) Prometheus metrics and /metrics endpoint
	r.Use(middleware.Metrics())
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// 7) Idempotency validation (before rate limiting)
	r.Use(middleware.IdempotencyValidator(
		middleware.IdempotencyOptions{MaxLen: 200},
		func(ctx context.Context, scope, key string, now time.Time) (bool, error) {
			rec, err := repo.GetIdempotency(ctx, db, scope, key, now)
			if err != nil || rec == nil {
				return false, nil
			}
			return true, nil
		},
	))

	// 8) Rate limiter per IP: shared window in Redis, else token bucket
	if deps.Redis != nil {
		rl := middleware.NewRedisLimiter(deps.Redis, cfg.RateWindowLimit, time.Minute, "")
		r.Use(middleware.RateLimit(rl, middleware.KeyByIP(), "redis"))
	} else {
		rl := middleware.NewRateLimiter(cfg.RateRPS, cfg.RateBurst, middleware.KeyByIP())
		r.Use(rl.Handler())
	}

	// 9) CORS posture (safe defaults: allow all if none configured)
	allowHeaders := []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.HeaderIdempotencyKey}
	exposeHeaders := []string{"X-Request-ID", "Content-Length", middleware.HeaderIdempotencyReplayed}
	if len(cfg.CORS.AllowedOrigins) == 0 {
		// Force ACAO: * even for requests without an Origin header.
		r.Use(func(c *gin.Context) {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
			c.Next()
		})
		r.Use(cors.New(cors.Config{
			AllowAllOrigins:  true,
			AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders:     allowHeaders,
			ExposeHeaders:    exposeHeaders,
			AllowCredentials: false, // must remain false with AllowAllOrigins
			MaxAge:           12 * time.Hour,
		}))
	} else {
		allowed := make(map[string]struct{}, len(cfg.CORS.AllowedOrigins))
		for _, o := range cfg.CORS.AllowedOrigins {
			allowed[o] = struct{}{}
		}
		r.Use(func(c *gin.Context) {
			if origin := c.GetHeader("Origin"); origin != "" {
				if _, ok := allowed[origin]; ok {
					h := c.Writer.Header()
					h.Set("Access-Control-Allow-Origin", origin)
					h.Add("Vary", "Origin")
				}
			}
			c.Next()
		})
		r.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.CORS.AllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders:     allowHeaders,
			ExposeHeaders:    exposeHeaders,
			AllowCredentials: false,
			MaxAge:           12 * time.Hour,
		}))
	}

	// Security headers (HSTS only when enabled and request is HTTPS)
	r.Use(middleware.SecurityHeaders(middleware.SecurityOptions{
		EnableHSTS:   cfg.Security.EnableHSTS,
		HSTSMaxAge:   cfg.Security.HSTSMaxAge,
		NoStore:      false,
		EnablePolicy: true,
	}))

	if cfg.GzipEnabled {
		r.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{"/metrics"})))
	}

	// Fallbacks
	r.NoRoute(func(c *gin.Context) {
		handlers.Fail(c, http.StatusNotFound, handlers.ErrCodeNotFound, "route not found")
	})
	r.NoMethod(func(c *gin.Context) {
		handlers.Fail(c, http.StatusMethodNotAllowed, handlers.ErrCodeMethodNotAllowed, "method not allowed")
	})

	// Liveness/health
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	if cfg.SwaggerEnabled {
		docs.SwaggerInfo.BasePath = cfg.APIBasePath
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	// Dependency injection: services ← repo/db/notifier
	ledger := &services.LedgerService{DB: db}
	h := handlers.New(
		services.NewCatalogService(db, catalogRepoShim{}),
		services.NewAppointmentService(db, ledger, deps.Notifier),
		ledger,
		services.NewDashboardService(db, cfg.ReportLocation),
		&services.SettingsService{DB: db},
		handlers.WithStrictJSON(cfg.StrictJSON),
		handlers.WithIdempotencyTTL(cfg.IdempotencyTTL),
	)

	// Public API
	api := groupWithPrefix(r, cfg.APIBasePath)
	{
		// Catalog
		api.POST("/services", h.CreateService)
		api.GET("/services", h.ListServices)
		api.GET("/services/:id", h.GetService)
		api.PUT("/services/:id", h.UpdateService)
		api.DELETE("/services/:id", h.DeleteService)

		// Appointments
		api.POST("/appointments", h.CreateAppointment)
		api.GET("/appointments", h.ListAppointments)
		api.GET("/appointments/slots", h.ListSlots)
		api.GET("/appointments/:id", h.GetAppointment)
		api.PUT("/appointments/:id", h.UpdateAppointment)
		api.PUT("/appointments/:id/status", h.UpdateAppointmentStatus)
		api.DELETE("/appointments/:id", h.DeleteAppointment)
		api.GET("/customers/:phone/history", h.CustomerHistory)

		// Cash register
		api.GET("/transactions", h.ListTransactions)
		api.PUT("/transactions/:id", h.UpdateTransaction)
		api.DELETE("/transactions/:id", h.DeleteTransaction)

		// Dashboard and settings
		api.GET("/stats/dashboard", h.DashboardStats)
		api.GET("/settings", h.GetSettings)
		api.PUT("/settings", h.UpdateSettings)
	}
}

// limitBody returns a Gin middleware that caps the request body size for all
// endpoints to maxBytes using http.MaxBytesReader. Requests exceeding the cap
// will cause downstream body reads to error.
func limitBody(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

// groupWithPrefix mounts a group at prefix, treating "/" (or empty) as root.
func groupWithPrefix(r *gin.Engine, prefix string) *gin.RouterGroup {
	if prefix == "" || prefix == "/" {
		return r.Group("")
	}
	return r.Group(prefix)
}

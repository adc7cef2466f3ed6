package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/fatihsenyuz/Randevu/internal/config"
	httpapi "github.com/fatihsenyuz/Randevu/internal/http"
	"github.com/fatihsenyuz/Randevu/internal/notify"
	"github.com/fatihsenyuz/Randevu/internal/observability"
	"github.com/fatihsenyuz/Randevu/internal/repo"
	"github.com/fatihsenyuz/Randevu/internal/sysutil"
)

func newServeCommand() *cobra.Command {
	var shutdownTimeout time.Duration

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			logFile := sysutil.SetupLogger(cfg, cfg.OTEL.ServiceName)
			defer logFile.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg, shutdownTimeout)
		},
	}
	cmd.Flags().DurationVar(&shutdownTimeout, "shutdown-timeout", 15*time.Second, "maximum time to wait for in-flight requests on shutdown")
	return cmd
}

func serve(ctx context.Context, cfg config.Config, shutdownTimeout time.Duration) error {
	// Money goes over the wire as JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true
	gin.SetMode(cfg.GinMode)

	shutdownOTel, err := observability.SetupOTel(ctx, cfg.OTEL, version)
	if err != nil {
		return err
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownOTel(sctx); err != nil {
			log.Warn().Err(err).Msg("otel shutdown")
		}
	}()

	db, err := repo.OpenSQLite(cfg.DBPath)
	if err != nil {
		return err
	}
	defer closeDB(db)
	if err := repo.AutoMigrate(db); err != nil {
		return err
	}

	deps := httpapi.Deps{Notifier: notify.New(notify.Config(cfg.SMS))}
	if cfg.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer rdb.Close()
		pctx, cancel := context.WithTimeout(ctx, 2*time.Second)
		if err := rdb.Ping(pctx).Err(); err != nil {
			log.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("redis unreachable; rate limiter will fail open until it recovers")
		}
		cancel()
		deps.Redis = rdb
	}

	r := gin.New()
	httpapi.RegisterRoutes(r, db, cfg, deps)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
		MaxHeaderBytes:    cfg.MaxHeaderBytes,
	}

	go purgeIdempotency(ctx, db, cfg.IdempotencyPurgeEvery, time.Now)

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Str("base_path", cfg.APIBasePath).Str("version", version).Msg("http server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(sctx); err != nil {
		return err
	}
	log.Info().Msg("server stopped")
	return nil
}

// purgeIdempotency deletes expired Idempotency-Key records every interval
// until ctx is done.
func purgeIdempotency(ctx context.Context, db *gorm.DB, every time.Duration, now func() time.Time) {
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			n, err := repo.PurgeExpiredIdempotency(ctx, db, now().UTC())
			if err != nil {
				log.Warn().Err(err).Msg("idempotency purge failed")
				continue
			}
			if n > 0 {
				log.Debug().Int64("deleted", n).Msg("expired idempotency keys purged")
			}
		}
	}
}

func closeDB(db *gorm.DB) {
	sqlDB, err := db.DB()
	if err != nil {
		return
	}
	if err := sqlDB.Close(); err != nil {
		log.Warn().Err(err).Msg("close database")
	}
}

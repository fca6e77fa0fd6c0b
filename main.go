// main.go runs the hiring API server.
//
//  1. Configuration and structured logger
//  2. Schema migrations (optional)
//  3. DB initialisation with retry, logging and metrics hooks
//  4. HTTP server with graceful shutdown
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/Skryldev/hiring-api/api"
	"github.com/Skryldev/hiring-api/config"
	"github.com/Skryldev/hiring-api/db"
	"github.com/Skryldev/hiring-api/ingest"
	"github.com/Skryldev/hiring-api/metrics"
	"github.com/Skryldev/hiring-api/migrations"
	"github.com/Skryldev/hiring-api/repo"

	// Blank-import every supported driver so it self-registers with database/sql.
	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// ── 1. Configuration and logger ──────────────────────────────────────
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := slog.New(api.WithRequestID(cfg.NewLogger().Handler()))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dsn, err := cfg.DB.ResolveDSN()
	if err != nil {
		return err
	}

	// ── 2. Migrations ────────────────────────────────────────────────────
	//
	// The database container may still be starting, so migrations share the
	// connection retry policy.
	retry := db.RetryConfig{
		MaxAttempts: cfg.DB.ConnectAttempts,
		Delay:       cfg.DB.ConnectDelay,
		OnRetry: func(attempt int, err error) {
			logger.Warn("database not ready, retrying", "attempt", attempt, "error", err)
		},
	}

	if cfg.DB.RunMigrationsOnStart {
		err := db.WithRetry(ctx, retry, func() error {
			return db.DefaultErrorMapper().Map(migrations.Up(cfg.DB.Driver, dsn, logger))
		})
		if err != nil {
			return fmt.Errorf("migrations: %w", err)
		}
		logger.Info("migrations applied", "driver", cfg.DB.Driver)
	}

	// ── 3. DB initialisation ─────────────────────────────────────────────
	m := metrics.New()

	poolCfg := cfg.DB.PoolConfig()
	poolCfg.DSN = dsn
	poolCfg.Hooks = []db.Hook{
		db.NewLogHook(db.LogHookConfig{
			Logger:             logger,
			SlowQueryThreshold: cfg.DB.SlowQueryThreshold,
			LogArgs:            cfg.DB.LogArgs,
		}),
		db.NewMetricsHook(m),
	}

	var database *db.DB
	err = db.WithRetry(ctx, retry, func() error {
		var openErr error
		database, openErr = db.Open(poolCfg)
		return openErr
	})
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer database.Close()

	logger.Info("database connected",
		"driver", database.DriverName(),
		"max_open_conns", database.Stats().MaxOpenConnections)

	// ── 4. HTTP server ───────────────────────────────────────────────────
	handler := api.NewHandler(
		ingest.NewLoader(database, cfg.IngestMode, logger),
		repo.NewReportRepo(database),
		database,
		m,
		logger,
		api.Options{
			StrictStatus:   cfg.HTTP.StrictStatus,
			MaxUploadBytes: cfg.HTTP.MaxUploadBytes,
			DefaultYear:    cfg.ReportYear,
		},
	)

	srv := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           handler.Routes(),
		ReadHeaderTimeout: cfg.HTTP.ReadHeaderTimeout,
		ReadTimeout:       cfg.HTTP.ReadTimeout,
		WriteTimeout:      cfg.HTTP.WriteTimeout,
		IdleTimeout:       cfg.HTTP.IdleTimeout,
		ErrorLog:          slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("http server listening",
			"addr", srv.Addr,
			"ingest_mode", cfg.IngestMode,
			"strict_status", cfg.HTTP.StrictStatus)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down http server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"wfgpos/internal/config"
	"wfgpos/internal/infra"
	"wfgpos/internal/router"
	"wfgpos/internal/worker"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	// Structured logger. dev: pretty, prod: JSON
	if cfg.Env != "production" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}

	loc, err := time.LoadLocation(cfg.ReportTimezone)
	if err != nil {
		log.Fatal().Err(err).Str("tz", cfg.ReportTimezone).Msg("invalid REPORT_TIMEZONE")
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	if err := infra.RunMigrations(db); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	rdb, err := infra.NewRedis(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Async day-summary emails. Handlers are wired here (composition root)
	// so the pool has every infrastructure dependency.
	mailer := infra.NewMailer(cfg)
	if !mailer.Configured() {
		log.Warn().Msg("SMTP_HOST not set, day summary emails will fail and land in the DLQ")
	}
	smtpCB := infra.NewCircuitBreaker("smtp", infra.DefaultCBConfig())
	dispatcher := worker.NewDispatcher(rdb)
	worker.NewPool(rdb, map[string]worker.Handler{
		worker.JobDaySummary: worker.NewDaySummaryWorker(mailer, smtpCB, rdb, cfg.PDFStoragePath),
	}).Start(ctx, cfg.WorkerPoolSize)

	svcs := router.NewServices(cfg, db, dispatcher, loc)

	if cfg.ReportCronEnabled {
		sched, err := worker.StartReportScheduler(ctx, svcs.Reports, loc)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to start report scheduler")
		}
		defer func() { _ = sched.Shutdown() }()
	}

	r := router.New(cfg, db, rdb, svcs, loc)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown on SIGINT / SIGTERM
	go func() {
		log.Info().Msgf("wfgpos backend listening on :%d", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server…")
	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("forced shutdown")
	}
	log.Info().Msg("server exited")
}

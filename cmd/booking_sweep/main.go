package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"chargeshare/internal/app"
	"chargeshare/internal/config"
	"chargeshare/internal/pkg/logger"
	"chargeshare/internal/scheduler"
)

// booking_sweep activates and completes due bookings. With SWEEP_ONCE it runs
// a single pass, which suits an external cron; otherwise it loops every
// SWEEP_INTERVAL until signalled.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	zl, err := logger.New(config.IsProdLike(cfg.AppEnv), cfg.LogLevel)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = zl.Sync() }()

	a, err := app.New(cfg, zl)
	if err != nil {
		zl.Fatal("startup failed", zap.Error(err))
	}
	defer func() { _ = a.Close() }()

	sweeper := scheduler.NewSweeper(a.Bookings, a.Notifier, zl.Named("sweep"))

	if cfg.SweepOnce {
		res, err := sweeper.RunOnce(context.Background())
		if err != nil {
			zl.Fatal("booking sweep failed", zap.Error(err))
		}
		zl.Info("booking sweep completed",
			zap.Int("activated", res.Activated),
			zap.Int("completed", res.Completed),
			zap.Int("skipped", res.Skipped),
		)
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sched, err := sweeper.Start(ctx, cfg.SweepInterval)
	if err != nil {
		zl.Fatal("booking sweep failed to start", zap.Error(err))
	}
	<-ctx.Done()

	if err := sched.Shutdown(); err != nil {
		zl.Error("booking sweep shutdown", zap.Error(err))
	}
}

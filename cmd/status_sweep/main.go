package main

import (
	"context"
	"flag"
	"log"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"courtly/internal/config"
	"courtly/internal/database"
	"courtly/internal/pkg/logger"
	"courtly/internal/statussweep"
)

// status_sweep reconciles stored booking and membership statuses once, for an
// external cron. With -loop it keeps running on a ticker every SWEEP_INTERVAL;
// -interval overrides that period and implies -loop.
func main() {
	loop := flag.Bool("loop", false, "repeat the sweep every SWEEP_INTERVAL instead of exiting")
	override := flag.Duration("interval", 0, "repeat the sweep at this interval instead of exiting")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	zl, err := logger.Init(cfg.AppEnv, cfg.LogLevel)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = zl.Sync() }()

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		zl.Fatal("db connect failed", zap.Error(err))
	}

	r := statussweep.NewReconciler(db)
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if interval := loopInterval(*loop, *override, cfg.SweepInterval); interval > 0 {
		zl.Info("status sweep looping", zap.Duration("interval", interval))
		<-r.Schedule(ctx, statussweep.ScheduleConfig{Interval: interval})
		zl.Info("status sweep stopped")
		return
	}

	report, err := r.Run(ctx, time.Now())
	if err != nil {
		zl.Fatal("status sweep failed", zap.Error(err))
	}
	zl.Info("status sweep completed", zap.Int64("updated", report.Total()))
}

// loopInterval is zero for a one-shot run.
func loopInterval(loop bool, override, configured time.Duration) time.Duration {
	if override > 0 {
		return override
	}
	if loop {
		return configured
	}
	return 0
}

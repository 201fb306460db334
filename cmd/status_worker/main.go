package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"courtly/internal/config"
	"courtly/internal/database"
	"courtly/internal/pkg/logger"
	"courtly/internal/statussweep"
)

// status_worker runs the asynq scheduler that enqueues status:reconcile on
// SWEEP_CRON in the business time zone, and the server that processes it.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	zl, err := logger.Init(cfg.AppEnv, cfg.LogLevel)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = zl.Sync() }()

	loc, err := cfg.Location()
	if err != nil {
		zl.Fatal("timezone", zap.Error(err))
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		zl.Fatal("db connect failed", zap.Error(err))
	}
	reconciler := statussweep.NewReconciler(db)

	redisOpt := asynq.RedisClientOpt{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	}
	asynqLog := zl.Named("asynq").Sugar()

	srv := asynq.NewServer(redisOpt, asynq.Config{
		Concurrency: 1,
		Queues:      map[string]int{"default": 1},
		Logger:      asynqLog,
	})
	mux := asynq.NewServeMux()
	mux.HandleFunc(statussweep.TypeReconcile, reconciler.TaskHandler(nil))

	scheduler := asynq.NewScheduler(redisOpt, &asynq.SchedulerOpts{
		Location: loc,
		Logger:   asynqLog,
	})
	entryID, err := scheduler.Register(cfg.SweepCron, statussweep.NewReconcileTask(), asynq.Unique(cfg.SweepInterval))
	if err != nil {
		zl.Fatal("register periodic sweep", zap.String("cron", cfg.SweepCron), zap.Error(err))
	}

	if err := srv.Start(mux); err != nil {
		zl.Fatal("asynq server", zap.Error(err))
	}
	if err := scheduler.Start(); err != nil {
		srv.Shutdown()
		zl.Fatal("asynq scheduler", zap.Error(err))
	}
	zl.Info("status worker started",
		zap.String("cron", cfg.SweepCron),
		zap.String("timezone", loc.String()),
		zap.String("entry", entryID),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	zl.Info("status worker stopping")
	scheduler.Shutdown()
	srv.Shutdown()
}

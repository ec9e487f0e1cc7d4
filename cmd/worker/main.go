package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"

	"github.com/shipdeck/shipdeck/internal/app"
	"github.com/shipdeck/shipdeck/internal/auth"
	jobmetrics "github.com/shipdeck/shipdeck/internal/jobs"
	"github.com/shipdeck/shipdeck/internal/platform/cache"
	"github.com/shipdeck/shipdeck/internal/platform/db"
	"github.com/shipdeck/shipdeck/internal/session"
	"github.com/shipdeck/shipdeck/internal/staff"
	"github.com/shipdeck/shipdeck/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping worker startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect database", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	metrics := jobmetrics.NewMetrics(nil)
	sessionStore := session.NewStore(redisClient, cfg.SessionCookieName, cfg.SessionTTL, cfg.IsProduction())
	staffRepo := staff.NewRepository(pool)
	authRepo := auth.NewRepository(pool)

	resyncJob := &jobs.GrantResyncHandler{
		Grants:   staffRepo,
		Sessions: authRepo,
		Store:    sessionStore,
		Logger:   logger,
		Metrics:  metrics,
	}
	sweepJob := &jobs.SessionSweepHandler{
		Sweeper: authRepo,
		Logger:  logger,
		Metrics: metrics,
	}

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts: asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		Logger:    logger,
		Handlers: []jobs.TaskHandler{
			{Type: jobs.TaskGrantResync, Handler: resyncJob.Handle},
			{Type: jobs.TaskSessionSweep, Handler: sweepJob.Handle},
		},
		Cron: []jobs.CronRegistration{
			{Spec: "45 3 * * *", Task: jobs.NewSessionSweepTask(), Options: []asynq.Option{asynq.MaxRetry(3)}},
		},
	})
	if err != nil {
		logger.Error("init worker", slog.Any("error", err))
		os.Exit(1)
	}

	if err := worker.Run(ctx); err != nil && err != context.Canceled {
		logger.Error("worker run", slog.Any("error", err))
		os.Exit(1)
	}
}

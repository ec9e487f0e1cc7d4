package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/shipdeck/shipdeck/internal/app"
	"github.com/shipdeck/shipdeck/internal/audit"
	"github.com/shipdeck/shipdeck/internal/auth"
	"github.com/shipdeck/shipdeck/internal/authz"
	"github.com/shipdeck/shipdeck/internal/dashboard"
	"github.com/shipdeck/shipdeck/internal/guard"
	"github.com/shipdeck/shipdeck/internal/masterdata/categories"
	"github.com/shipdeck/shipdeck/internal/masterdata/cities"
	"github.com/shipdeck/shipdeck/internal/masterdata/pincodes"
	"github.com/shipdeck/shipdeck/internal/masterdata/warehouses"
	"github.com/shipdeck/shipdeck/internal/menu"
	"github.com/shipdeck/shipdeck/internal/observability"
	"github.com/shipdeck/shipdeck/internal/orders"
	"github.com/shipdeck/shipdeck/internal/platform/cache"
	"github.com/shipdeck/shipdeck/internal/platform/db"
	"github.com/shipdeck/shipdeck/internal/session"
	"github.com/shipdeck/shipdeck/internal/shared"
	"github.com/shipdeck/shipdeck/internal/staff"
	"github.com/shipdeck/shipdeck/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
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

	dbpool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer dbpool.Close()

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

	sessionStore := session.NewStore(redisClient, cfg.SessionCookieName, cfg.SessionTTL, cfg.IsProduction())
	csrfManager := shared.NewCSRFManager(cfg.CSRFSecret)
	auditLogger := shared.NewAuditLogger(dbpool)
	metrics := observability.NewMetrics()

	evaluator := authz.Evaluator{OnEmpty: authz.DenyOnEmpty}
	if cfg.PermissionFailOpen {
		evaluator.OnEmpty = authz.AllowOnEmpty
	}
	gate := guard.Middleware{Evaluator: evaluator, Logger: logger}

	resyncClient, err := jobs.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	if err != nil {
		logger.Error("init jobs client", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := resyncClient.Close(); err != nil {
			logger.Warn("jobs client close", slog.Any("error", err))
		}
	}()

	staffRepo := staff.NewRepository(dbpool)
	staffService := staff.NewService(staffRepo, auditLogger, resyncClient, logger)
	staffHandler := staff.NewHandler(logger, staffService, gate)

	authRepo := auth.NewRepository(dbpool)
	authService := auth.NewService(authRepo)
	authHandler := auth.NewHandler(logger, authService, sessionStore, csrfManager, staffRepo)

	refresher := guard.NewRefresher(sessionStore, staffRepo, logger)
	guards := map[authz.Panel]guard.Guard{}
	for _, panel := range authz.Panels() {
		guards[panel] = guard.Guard{
			Panel:     panel,
			Store:     sessionStore,
			Refresher: refresher,
			Logger:    logger,
			Metrics:   metrics,
		}
	}

	menuHandler := menu.NewHandler(menu.NewBuilder(evaluator))
	dashboardHandler := dashboard.NewHandler(logger, dashboard.NewService(dashboard.NewPGRepository(dbpool)))

	categoriesHandler := categories.NewHandler(logger, categories.NewService(categories.NewRepository(dbpool)), gate)
	citiesHandler := cities.NewHandler(logger, cities.NewService(cities.NewRepository(dbpool)), gate)
	warehousesHandler := warehouses.NewHandler(logger, warehouses.NewService(warehouses.NewRepository(dbpool)), gate)
	pincodesHandler := pincodes.NewHandler(logger, pincodes.NewService(pincodes.NewRepository(dbpool)), gate)
	ordersHandler := orders.NewHandler(logger, orders.NewService(orders.NewRepository(dbpool), auditLogger, logger), gate)

	auditHandler := audit.NewHandler(logger, audit.NewRepository(dbpool), gate)

	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()
	jobHandler := jobs.NewHandler(inspector, logger)

	router := app.NewRouter(app.RouterParams{
		Logger:            logger,
		Config:            cfg,
		SessionStore:      sessionStore,
		CSRFManager:       csrfManager,
		Guards:            guards,
		AuthHandler:       authHandler,
		MenuHandler:       menuHandler,
		DashboardHandler:  dashboardHandler,
		StaffHandler:      staffHandler,
		CategoriesHandler: categoriesHandler,
		CitiesHandler:     citiesHandler,
		WarehousesHandler: warehousesHandler,
		PincodesHandler:   pincodesHandler,
		OrdersHandler:     ordersHandler,
		AuditHandler:      auditHandler,
		JobHandler:        jobHandler,
		Metrics:           metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}

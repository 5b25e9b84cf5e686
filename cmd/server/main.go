package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"go.uber.org/zap"

	"github.com/mamadbah2/dairy/internal/config"
	"github.com/mamadbah2/dairy/internal/dashboard"
	"github.com/mamadbah2/dairy/internal/repository"
	"github.com/mamadbah2/dairy/internal/scheduler"
	"github.com/mamadbah2/dairy/internal/server/handlers"
	"github.com/mamadbah2/dairy/internal/server/router"
	"github.com/mamadbah2/dairy/internal/service/admin"
	reportingsvc "github.com/mamadbah2/dairy/internal/service/reporting"
	whatsappclient "github.com/mamadbah2/dairy/pkg/clients/whatsapp"
	"github.com/mamadbah2/dairy/pkg/logger"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New(cfg.Log.Level))
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	loc, err := cfg.Dashboard.Location()
	if err != nil {
		baseLogger.Fatal("invalid timezone", zap.Error(err))
	}

	source, err := repository.NewSource(context.Background(), *cfg, logger.Named(baseLogger, "repo"))
	if err != nil {
		baseLogger.Fatal("failed to init data source", zap.Error(err))
	}
	defer func() {
		if err := source.Cleanup(context.Background()); err != nil {
			baseLogger.Error("failed to release data source", zap.Error(err))
		}
	}()

	dashboardSvc := admin.NewService(source.Source, dashboard.Options{
		WindowDays: cfg.Dashboard.WindowDays,
		Chart: dashboard.ChartOptions{
			ChartHeight: cfg.Dashboard.ChartHeight,
			MinScale:    cfg.Dashboard.MinScale,
		},
	}, loc, logger.Named(baseLogger, "svc.dashboard"))
	reportingSvc := reportingsvc.NewService(dashboardSvc, cfg.Dashboard.CurrencyLabel, logger.Named(baseLogger, "svc.reporting"))

	var notifier whatsappclient.Notifier
	if cfg.WhatsApp.Enabled() {
		notifier = whatsappclient.NewClient(cfg.WhatsApp)
		baseLogger.Info("whatsapp digest enabled", zap.String("manager_id", cfg.WhatsApp.ManagerID))
	} else {
		baseLogger.Warn("whatsapp credentials missing, daily digest disabled")
	}

	sched := scheduler.NewScheduler(*cfg, loc, dashboardSvc, reportingSvc, notifier, logger.Named(baseLogger, "scheduler"))
	if err := sched.Start(); err != nil {
		baseLogger.Fatal("failed to start scheduler", zap.Error(err))
	}
	defer func() { <-sched.Stop().Done() }()

	dashboardHandler := handlers.NewDashboardHandler(dashboardSvc, sched, cfg.Dashboard.CurrencyLabel, logger.Named(baseLogger, "handlers.dashboard"))
	engine, err := router.New(dashboardHandler, logger.Named(baseLogger, "router"))
	if err != nil {
		baseLogger.Fatal("failed to init router", zap.Error(err))
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		warmCtx, cancel := context.WithTimeout(ctx, 2*time.Minute)
		defer cancel()
		dashboardSvc.Refresh(warmCtx)
	}()

	go func() {
		baseLogger.Info("server starting", zap.String("port", cfg.Server.Port), zap.String("backend", cfg.Backend))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			baseLogger.Fatal("http server crashed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	baseLogger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		baseLogger.Error("graceful shutdown failed", zap.Error(err))
	}
}

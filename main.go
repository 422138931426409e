package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"pos-proximity/internal/config"
	"pos-proximity/internal/dataset"
	"pos-proximity/internal/jobs"
	"pos-proximity/internal/logger"
	"pos-proximity/internal/metrics"
	"pos-proximity/internal/server"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	jobRetention = 6 * time.Hour
	pruneEvery   = 30 * time.Minute
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	appLogger, err := logger.New(cfg.IsDevelopment())
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer appLogger.Sync()

	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}
	metrics.MustRegisterAll()

	holder := dataset.NewHolder(dataset.FileLoader(cfg.DataFile, dataset.Options{
		Encoding: cfg.DataEncoding,
		Sheet:    cfg.DataSheet,
		Comma:    cfg.Comma(),
	}), appLogger)

	// keep serving with an empty store; the dashboard can retry via reload
	if _, err := holder.Reload(); err != nil {
		appLogger.Error("initial dataset load failed", zap.String("file", cfg.DataFile), zap.Error(err))
	}

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	registry := jobs.NewRegistry()
	go pruneJobs(ctx, registry, appLogger)

	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: server.New(ctx, cfg, holder, registry, appLogger).Router(),
	}

	go func() {
		appLogger.Info("starting server", zap.String("port", cfg.ServerPort))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Fatal("listen failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("shutting down server...")
	// running exports are cancelled with the base context
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("server forced to shutdown", zap.Error(err))
	}

	appLogger.Info("server exiting")
}

func pruneJobs(ctx context.Context, registry *jobs.Registry, appLogger *zap.Logger) {
	ticker := time.NewTicker(pruneEvery)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if n := registry.Prune(now.Add(-jobRetention)); n > 0 {
				appLogger.Debug("pruned finished jobs", zap.Int("count", n))
			}
		}
	}
}

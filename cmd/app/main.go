package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"todo_app/internal/config"
	httpServer "todo_app/internal/http"
	"todo_app/internal/http/middleware"
	"todo_app/internal/logger"
	"todo_app/internal/repository"
	"todo_app/internal/service"
	"todo_app/internal/ws"

	"github.com/gin-gonic/gin"
)

var version = "dev"

func main() {
	cfg := config.Load()
	logger.Init(cfg.LogLevel, cfg.LogJSON)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	store, err := repository.OpenTaskStore(ctx, cfg.StorageDriver, cfg.DataPath, cfg.DatabaseURL)
	cancel()
	if err != nil {
		logger.Fatal("failed to open task store", "driver", cfg.StorageDriver, "error", err)
	}
	defer store.Close()

	middleware.InitRedisRateLimiter(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	defer middleware.CloseRedisRateLimiter()

	hub := ws.NewHub()
	tasks := service.NewTaskService(store, service.WithPublisher(hub))

	r := gin.New()
	r.Use(gin.Recovery())

	httpServer.RegisterRoutes(r, tasks, httpServer.RouteConfig{
		Version:       version,
		Store:         store,
		Hub:           hub,
		AllowedOrigin: cfg.AllowedOrigin,
		RateLimit:     cfg.APIRateLimit,
		RateWindow:    cfg.APIRateWindow,
	})

	srv := &http.Server{
		Addr:    ":" + cfg.AppPort,
		Handler: r,
	}

	go func() {
		logger.Info("server started", "port", cfg.AppPort, "storage", cfg.StorageDriver)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("listen failed", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
	}

	logger.Info("server exited")
}

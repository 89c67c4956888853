package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"realtime_kanban/internal/config"
	httpServer "realtime_kanban/internal/http"
	"realtime_kanban/internal/http/middleware"
	"realtime_kanban/internal/logger"
	"realtime_kanban/internal/service"
	"realtime_kanban/internal/store"
	"realtime_kanban/internal/ws"

	"github.com/gin-gonic/gin"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("invalid configuration", "error", err)
	}
	logger.Init(cfg.LogLevel, cfg.LogJSON)
	log := logger.Get()
	gin.SetMode(gin.ReleaseMode)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tasks := store.Open(ctx, cfg, log)
	defer tasks.Close()

	hub := ws.NewHub(log)
	hubCtx, stopHub := context.WithCancel(context.Background())
	go hub.Run(hubCtx)

	limiter, closeLimiter := middleware.RateLimit(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB,
		cfg.APIRateLimit, cfg.APIRateWindow, log)
	defer closeLimiter()

	r := httpServer.NewRouter(httpServer.Deps{
		Tasks:         service.NewTaskService(tasks, hub, log),
		Hub:           hub,
		Log:           log,
		Version:       cfg.AppVersion,
		AllowedOrigin: cfg.AllowedOrigin,
		RateLimit:     limiter,
	})

	srv := &http.Server{
		Addr:    cfg.Address(),
		Handler: r,
	}

	go func() {
		log.Info("server started", "port", cfg.AppPort, "store", cfg.StoreDriver, "version", cfg.AppVersion)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("listen failed", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	log.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	// Shutdown does not touch hijacked websocket connections; stopping the
	// hub closes them.
	stopHub()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server forced to shutdown", "error", err)
	}

	log.Info("server exited")
}

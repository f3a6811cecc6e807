package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alimgiray/agrocontrol/internal/handlers"
	"github.com/alimgiray/agrocontrol/internal/services"
	"github.com/alimgiray/agrocontrol/internal/workers"
	"github.com/alimgiray/agrocontrol/pkg/config"
	"github.com/alimgiray/agrocontrol/pkg/logger"
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

func main() {
	// Load configuration
	if err := config.Load(); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	cfg := config.AppConfig

	logger.Init(cfg.Log.Level, cfg.Log.Format)
	log := logger.Component("main")

	gin.SetMode(cfg.Server.Mode)

	// Initialize dependencies
	limiter := rate.NewLimiter(rate.Limit(cfg.Backend.RateLimit), cfg.Backend.Burst)
	backend := services.NewBackendClient(cfg.Backend.BaseURL, cfg.Backend.Timeout, limiter)
	workspaceService := services.NewWorkspaceService(backend, cfg.Workspace.AutoCloseDelay)
	reportService := services.NewReportService()

	router, err := handlers.NewRouter(handlers.RouterConfig{
		SessionSecret: cfg.Session.Secret,
		CORSOrigins:   cfg.Server.CORSOrigins,
	}, workspaceService, reportService)
	if err != nil {
		log.WithError(err).Fatal("Failed to build router")
	}

	// Start workers
	workerManager := workers.NewWorkerManager(
		workers.NewWorkspaceSweeper("workspace-sweeper", workspaceService, cfg.Workspace.SweepInterval, cfg.Workspace.IdleTTL),
	)
	if err := workerManager.StartAll(); err != nil {
		log.WithError(err).Fatal("Failed to start workers")
	}

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.WithField("backend", cfg.Backend.BaseURL).Infof("Server starting on :%s", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("Server failed to start")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.WithError(err).Error("Server forced to shutdown")
	}
	if err := workerManager.StopAll(); err != nil {
		log.WithError(err).Error("Failed to stop workers")
	}

	log.Info("Server stopped")
}

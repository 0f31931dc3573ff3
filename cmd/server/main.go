package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nzbiodata/bioweb/api/internal/config"
	"github.com/nzbiodata/bioweb/api/internal/handlers"
	"github.com/nzbiodata/bioweb/api/internal/logger"
	"github.com/nzbiodata/bioweb/api/internal/middleware"
	"github.com/nzbiodata/bioweb/api/internal/services"
	"github.com/nzbiodata/bioweb/api/internal/store"
)

const (
	shutdownTimeout = 30 * time.Second
)

func main() {
	// Load configuration from environment variables
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize structured logger
	log := logger.New(cfg.Server.Env)
	log.Info("Starting BioWeb API", map[string]interface{}{
		"version":     handlers.APIVersion,
		"environment": cfg.Server.Env,
		"port":        cfg.Server.Port,
		"data_dir":    cfg.Data.Dir,
	})

	// Load the survey datasets once at startup. A failure does not stop the
	// server; queries return 503 with the loader's message until the data
	// files are fixed and the process restarted.
	var loadError string
	st, err := store.Load(cfg.Data.Dir, store.Files{
		Bat:          cfg.Data.BatFile,
		Herp:         cfg.Data.HerpFile,
		ThreatStatus: cfg.Data.ThreatStatusFile,
	})
	if err != nil {
		loadError = err.Error()
		log.Error("Failed to load survey datasets", err, map[string]interface{}{
			"data_dir": cfg.Data.Dir,
		})
	} else {
		log.Info("Survey datasets loaded", map[string]interface{}{
			"bat_records":           st.BatCount(),
			"herp_records":          st.HerpCount(),
			"threat_status_entries": st.ThreatCount(),
		})
	}

	// Setup Gin router
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	// Add middleware in order: RequestID -> Logger -> Recovery -> CORS
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(log))
	router.Use(middleware.Recovery(log))
	router.Use(middleware.CORS(cfg.CORS.Origins))

	// Register health check routes
	healthHandler := handlers.NewHealthHandler(st, loadError, cfg.Server.Env)
	router.GET("/health", healthHandler.Health)
	router.GET("/health/ready", healthHandler.Ready)
	router.GET("/api/v1/info", healthHandler.Info)

	// Initialize the summarizer services when the datasets are available
	var batService services.BatService
	var herpService services.HerpService
	if st != nil {
		batService = services.NewBatService(st, log)
		herpService = services.NewHerpService(st, log)
	}

	// Initialize handlers
	queryHandler := handlers.NewQueryHandler(batService, herpService, loadError)

	// Register API v1 routes
	v1 := router.Group("/api/v1")
	{
		v1.GET("/summary", queryHandler.Summary)

		export := v1.Group("/export")
		{
			export.GET("/bat/occurrences", queryHandler.DownloadBatOccurrences)
			export.GET("/bat/summary", queryHandler.DownloadBatSummary)
			export.GET("/herp/occurrences", queryHandler.DownloadHerpOccurrences)
			export.GET("/herp/summary", queryHandler.DownloadHerpSummary)
		}
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: router,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server listening", map[string]interface{}{
			"port": cfg.Server.Port,
			"addr": srv.Addr,
		})
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start", err, nil)
		}
	}()

	// Wait for interrupt signal (SIGINT or SIGTERM)
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	// Graceful shutdown
	log.Info("Shutting down server...", nil)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", err, map[string]interface{}{
			"timeout": shutdownTimeout.String(),
		})
	}

	log.Info("Server exited", nil)
}

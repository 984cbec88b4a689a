package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"fittrack/internal/assistant"
	"fittrack/internal/config"
	"fittrack/internal/database"
	"fittrack/internal/exercisedb"
	"fittrack/internal/handlers"
	"fittrack/internal/metrics"
	"fittrack/internal/middleware"
	"fittrack/internal/tracker"
	"fittrack/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	}))
	slog.SetDefault(logger)

	logger.Info("Starting fittrack server",
		"host", cfg.Host,
		"port", cfg.Port,
		"database", cfg.DatabasePath,
		"timezone", cfg.Timezone,
		"log_level", cfg.LogLevel)

	db, err := database.Open(cfg.DatabasePath)
	if err != nil {
		logger.Error("Failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.Init(); err != nil {
		logger.Error("Failed to initialize database schema", "error", err)
		os.Exit(1)
	}
	logger.Info("Database opened successfully")

	svc := tracker.New(db,
		tracker.WithLocation(cfg.Location),
		tracker.WithDefaultCalorieTarget(cfg.DefaultCalorieTarget),
	)
	exercises := exercisedb.NewClient(cfg.ExerciseDBAPIKey, cfg.ExerciseDBHost, logger)
	if !exercises.Configured() {
		logger.Warn("ExerciseDB API key not set, exercise suggestions are disabled")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	agents := map[string]assistant.Agent{
		assistant.Butler:  nil,
		assistant.Trainer: nil,
	}
	if cfg.AssistantsEnabled() {
		client, err := assistant.NewGeminiClient(ctx, cfg.GeminiAPIKey)
		if err != nil {
			logger.Error("Failed to create Gemini client", "error", err)
			os.Exit(1)
		}
		agents[assistant.Butler] = assistant.NewGeminiAgent(client.Models, cfg.GeminiModel, assistant.ButlerPersona(svc, exercises))
		agents[assistant.Trainer] = assistant.NewGeminiAgent(client.Models, cfg.GeminiModel, assistant.TrainerPersona(svc))
		logger.Info("Assistants enabled", "model", cfg.GeminiModel)
	} else {
		logger.Warn("GEMINI_API_KEY not set, assistants are disabled")
	}

	mux := http.NewServeMux()
	handlers.NewAPI(svc).Register(mux)
	handlers.NewAssistantHandler(agents, assistant.NewThreadStore()).Register(mux)

	mux.Handle("GET /health", middleware.WrapHandler(metrics.EndpointHealth, func(w http.ResponseWriter, r *http.Request) {
		if err := db.Health(r.Context()); err != nil {
			logger.Error("Health check failed", "error", err)
			http.Error(w, "database unavailable", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	}))

	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 90 * time.Second, // assistant turns may chain several model calls
		IdleTimeout:  120 * time.Second,
	}

	if cfg.ReconcileInterval > 0 {
		reconciler := worker.NewWorker(db, svc, cfg.ReconcileInterval)
		go func() {
			if err := reconciler.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("Reconciler failed", "error", err)
			}
		}()
	}

	var metricsServer *http.Server
	if cfg.MetricsEnabled {
		go func() {
			logger.Info("Starting table stats collector")
			metrics.StartTableStatsCollector(ctx, db, database.Tables, 15*time.Second)
		}()

		metricsMux := http.NewServeMux()
		metricsMux.Handle("/metrics", promhttp.Handler())

		metricsAddr := fmt.Sprintf("%s:%d", cfg.MetricsHost, cfg.MetricsPort)
		metricsServer = &http.Server{
			Addr:    metricsAddr,
			Handler: metricsMux,
		}

		go func() {
			logger.Info("Metrics server listening", "addr", metricsAddr)
			if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Error("Metrics server failed", "error", err)
			}
		}()
	}

	go func() {
		logger.Info("HTTP server listening", "addr", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("HTTP server failed", "error", err)
			os.Exit(1)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down gracefully...")

	// Stop background loops before draining requests
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown failed", "error", err)
	}

	if metricsServer != nil {
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("Metrics server shutdown failed", "error", err)
		}
	}

	logger.Info("Server stopped")
}

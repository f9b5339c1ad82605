package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/medicure/medicure-api/assistant"
	"github.com/medicure/medicure-api/classifier"
	"github.com/medicure/medicure-api/config"
	"github.com/medicure/medicure-api/data"
	"github.com/medicure/medicure-api/health"
	"github.com/medicure/medicure-api/logging"
	"github.com/medicure/medicure-api/prediction"
	"github.com/medicure/medicure-api/remedies"
	"github.com/medicure/medicure-api/scheduler"
	"github.com/medicure/medicure-api/server"
	"github.com/medicure/medicure-api/validation"
)

// loadEnvFile reads .env from the working directory. When launched from
// elsewhere (systemd, cron), it falls back to the executable's directory so
// relative paths like the model artifacts and log directory still resolve.
func loadEnvFile() {
	if err := godotenv.Load(); err == nil {
		return
	}

	ex, err := os.Executable()
	if err != nil {
		logging.Error("Failed to get executable path", "error", err)
		os.Exit(1)
	}

	if err := os.Chdir(filepath.Dir(ex)); err != nil {
		logging.Error("Failed to change directory", "error", err)
		os.Exit(1)
	}

	// A missing .env is fine at this point, the environment may be set
	// directly by the service manager
	_ = godotenv.Load()
}

func main() {
	loadEnvFile()

	cfg, err := config.Load()
	if err != nil {
		logging.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	logging.InitLoggerWithConfig("logs", cfg)

	logging.Info("Starting MediCure API",
		"env", cfg.Env.String(),
		"model_dir", cfg.ModelDir,
		"remedies_file", cfg.RemediesFile,
	)

	// Everything the handlers serve is loaded before the listener starts.
	// Any load failure here is fatal: the API never runs with partial data.
	models, err := classifier.LoadSet(cfg.ModelDir)
	if err != nil {
		logging.Error("Failed to load classifier models", "error", err, "dir", cfg.ModelDir)
		os.Exit(1)
	}

	records, err := remedies.LoadDataset(cfg.RemediesFile)
	if err != nil {
		logging.Error("Failed to load remedies dataset", "error", err, "file", cfg.RemediesFile)
		os.Exit(1)
	}

	ctx := context.Background()
	aiClient, err := assistant.NewClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, cfg.AITimeout)
	if err != nil {
		logging.Error("Failed to create AI client", "error", err)
		os.Exit(1)
	}

	store := data.NewContainer()
	if err := store.SetData(models, records); err != nil {
		logging.Error("Failed to populate data container", "error", err)
		os.Exit(1)
	}
	store.SetServerStartTime(time.Now())

	validator := validation.NewInputValidator()

	srv := server.NewServer(cfg, server.Dependencies{
		Health:    health.NewHealthChecker(store),
		Predictor: prediction.NewService(store, validator, cfg.PredictTopK),
		Remedies:  remedies.NewFinder(store, aiClient),
		Chat:      aiClient,
		Validator: validator,
	})

	housekeeping := scheduler.NewScheduler(store, server.GlobalRateLimiter())
	if err := housekeeping.Start(); err != nil {
		logging.Error("Failed to start housekeeping scheduler", "error", err)
		os.Exit(1)
	}

	// Channel to listen for interrupt signals
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	// Start the server in a goroutine
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Block until a signal is received
	<-quit
	logging.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logging.Error("Server shutdown error", "error", err)
	}

	housekeeping.Stop()

	logging.Info("Server shutdown complete")

	if logging.DefaultLoggingService != nil {
		if err := logging.DefaultLoggingService.Close(); err != nil {
			os.Exit(1)
		}
	}
}

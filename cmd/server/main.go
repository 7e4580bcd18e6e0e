// Package main is the entry point for the oracles gateway: a pay-per-call
// HTTP API that fronts internal oracle backends and public financial data
// providers, metered with x402 payment challenges.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aristath/oracles/internal/config"
	"github.com/aristath/oracles/internal/di"
	"github.com/aristath/oracles/internal/server"
	"github.com/aristath/oracles/pkg/logger"
)

const shutdownBudget = 10 * time.Second

// main orchestrates startup and shutdown:
// 1. Loads configuration from environment variables (.env file)
// 2. Initializes logging
// 3. Wires all dependencies via the DI container
// 4. Starts the scheduler and the HTTP server
// 5. Waits for SIGINT/SIGTERM and shuts down gracefully
func main() {
	cfg, err := config.Load()
	if err != nil {
		// Use fallback logger if config fails
		fallbackLog := logger.New(logger.Config{
			Level:  "info",
			Pretty: true,
		})
		fallbackLog.Fatal().Err(err).Msg("Failed to load configuration")
	}

	log := logger.New(logger.Config{
		Level:   cfg.LogLevel,
		Pretty:  cfg.DevMode,
		Service: "oracles",
	})
	logger.SetGlobalLogger(log)

	log.Info().
		Str("version", config.Version).
		Str("network", cfg.Network).
		Bool("dev_mode", cfg.DevMode).
		Msg("Starting oracles gateway")

	container, _, err := di.Wire(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to wire dependencies")
	}

	srv := server.New(server.Config{
		Log:       log,
		Config:    cfg,
		Container: container,
	})

	container.Scheduler.Start()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	log.Info().Int("port", cfg.Port).Msg("Gateway started")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("Shutting down gateway...")

	// Stop scheduled probes and scans before the hub they publish to goes away.
	container.Scheduler.Stop()

	// Closing the hub ends every websocket subscription.
	container.ArbitrageHub.Close()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownBudget)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Gateway stopped")
}

package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"yamdb/internal/config"
	"yamdb/internal/logger"
)

func main() {
	// --- Configuration ---
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}
	logger.Init(cfg.LogLevel, cfg.LogFormat)

	// --- Database, mail dispatch, services and routes ---
	app, err := NewApp(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize application")
	}

	// --- Start HTTP Server ---
	log.Info().Str("addr", cfg.AppPort).Msg("starting server")

	// Graceful shutdown handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := app.Fiber.Listen(cfg.AppPort); err != nil {
			log.Fatal().Err(err).Msg("server failed to start")
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	<-quit
	log.Info().Msg("shutting down server")

	if err := app.Fiber.Shutdown(); err != nil {
		log.Error().Err(err).Msg("error during Fiber shutdown")
	}
	if err := app.Close(); err != nil {
		log.Error().Err(err).Msg("error releasing resources")
	}

	log.Info().Msg("server gracefully stopped")
}

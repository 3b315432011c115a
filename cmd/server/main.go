// Package main implements the entry point for the tiku mastery engine:
// the API server that tracks per-point mastery, schedules reviews, scores
// diagnostic attempts, and aggregates study engagement.
package main

import (
	"context"
	"log"
	"log/slog"

	"github.com/caimi124/tiku-engine/internal/config"
	"github.com/caimi124/tiku-engine/internal/platform/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appLogger, err := logger.Setup(cfg.Server)
	if err != nil {
		log.Fatalf("Failed to set up logger: %v", err)
	}

	slog.Info("Server configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel)

	app, err := newApplication(cfg, appLogger)
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}

	if err := app.startHTTPServer(context.Background(), app.setupRouter()); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}

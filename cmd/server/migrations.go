package main

import (
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/caimi124/tiku-engine/internal/platform/postgres"
	"github.com/pressly/goose/v3"
)

// migrationTableName is the table goose uses to track applied versions.
const migrationTableName = "schema_migrations"

// slogGooseLogger adapts the goose logger interface to use slog
type slogGooseLogger struct{}

// Printf implements the goose.Logger Printf method by forwarding messages to slog.Info
func (l *slogGooseLogger) Printf(format string, v ...interface{}) {
	slog.Info(fmt.Sprintf(format, v...))
}

// Fatalf implements the goose.Logger Fatalf method by forwarding error messages to slog.Error
// Note: Unlike the standard Fatalf behavior, this does NOT call os.Exit
// so that main can handle application exit consistently
func (l *slogGooseLogger) Fatalf(format string, v ...interface{}) {
	slog.Error(fmt.Sprintf(format, v...))
}

// runMigrations applies any pending schema migrations from the embedded
// migrations directory. It is called at startup before the stores are wired.
func runMigrations(db *sql.DB, logger *slog.Logger) error {
	migrationLogger := logger.With(slog.String("component", "migrations"))

	goose.SetLogger(&slogGooseLogger{})
	goose.SetBaseFS(postgres.Migrations)
	goose.SetTableName(migrationTableName)

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set dialect: %w", err)
	}

	startTime := time.Now()
	migrationLogger.Info("Applying pending migrations")

	if err := goose.Up(db, "migrations"); err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	version, err := goose.GetDBVersion(db)
	if err != nil {
		migrationLogger.Warn("Failed to retrieve current migration version", "error", err)
	} else {
		migrationLogger.Info("Migrations applied",
			"version", version,
			"duration_ms", time.Since(startTime).Milliseconds())
	}

	return nil
}

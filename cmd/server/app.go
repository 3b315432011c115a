package main

import (
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/caimi124/tiku-engine/internal/config"
	"github.com/caimi124/tiku-engine/internal/domain/mastery"
	"github.com/caimi124/tiku-engine/internal/domain/review"
	"github.com/caimi124/tiku-engine/internal/platform/postgres"
	"github.com/caimi124/tiku-engine/internal/service"
	"github.com/caimi124/tiku-engine/internal/service/diagnostic"
	"github.com/caimi124/tiku-engine/internal/service/mastery_review"
)

// application holds the wired dependencies of the running server.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	masteryReviewService mastery_review.MasteryReviewService
	diagnosticService    diagnostic.DiagnosticService
	engagementService    service.EngagementService
}

// newApplication connects to the database, applies pending migrations, and
// wires the store, domain, and service layers together.
func newApplication(cfg *config.Config, logger *slog.Logger) (*application, error) {
	db, err := setupDatabase(cfg, logger)
	if err != nil {
		return nil, err
	}

	if err := runMigrations(db, logger); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	// Stores
	masteryStore := postgres.NewPostgresMasteryRecordStore(db, logger)
	outcomeStore := postgres.NewPostgresAttemptOutcomeStore(db, logger)
	diagnosticStore := postgres.NewPostgresDiagnosticStore(db, logger)
	questionStore := postgres.NewPostgresQuestionStore(db, logger)
	dailyStatStore := postgres.NewPostgresDailyStatStore(db, logger)

	// Domain services
	masteryService := mastery.NewServiceWithParams(mastery.NewParams(mastery.ParamsConfig{
		CorrectGain:        cfg.Engine.CorrectGain,
		IncorrectRetention: cfg.Engine.IncorrectRetention,
		MasteryStreak:      cfg.Engine.MasteryStreak,
	}))
	scheduler := review.NewDefaultService()

	weights, err := config.NewWeightsProvider(cfg.Engine.WeightsFile, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to load weight tables: %w", err)
	}

	// Application services
	masteryReviewService := mastery_review.NewMasteryReviewService(
		db,
		masteryStore,
		outcomeStore,
		questionStore,
		masteryService,
		scheduler,
		weights,
		logger,
	)
	diagnosticService := diagnostic.NewDiagnosticService(
		db,
		diagnosticStore,
		questionStore,
		masteryReviewService,
		cfg.Engine.QuestionsPerAttempt,
		logger,
	)
	engagementService := service.NewEngagementService(dailyStatStore, logger)

	return &application{
		config:               cfg,
		logger:               logger,
		db:                   db,
		masteryReviewService: masteryReviewService,
		diagnosticService:    diagnosticService,
		engagementService:    engagementService,
	}, nil
}

// cleanup releases resources held by the application.
func (app *application) cleanup() {
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("failed to close database connection", "error", err)
		}
	}
}

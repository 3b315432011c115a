package api

import (
	"log/slog"
	"net/http"

	"github.com/caimi124/tiku-engine/internal/api/shared"
	"github.com/caimi124/tiku-engine/internal/platform/logger"
	"github.com/caimi124/tiku-engine/internal/redact"
	"github.com/caimi124/tiku-engine/internal/service/diagnostic"
)

// DiagnosticHandler handles diagnostic attempt HTTP requests
type DiagnosticHandler struct {
	diagnosticService diagnostic.DiagnosticService
	logger            *slog.Logger
}

// NewDiagnosticHandler creates a new DiagnosticHandler
func NewDiagnosticHandler(
	diagnosticService diagnostic.DiagnosticService,
	logger *slog.Logger,
) *DiagnosticHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for DiagnosticHandler")
	}

	return &DiagnosticHandler{
		diagnosticService: diagnosticService,
		logger:            logger.With(slog.String("component", "diagnostic_handler")),
	}
}

// CreateAttemptRequest represents the request body for opening an attempt
type CreateAttemptRequest struct {
	Certificate string `json:"certificate" validate:"required"`
	Subject     string `json:"subject" validate:"required"`
	ChapterCode string `json:"chapter_code"`
}

// CreateAttempt handles POST /users/{userID}/diagnostics requests
// It opens a new in-progress attempt and delivers its question set.
func (h *DiagnosticHandler) CreateAttempt(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, err := getPathUUID(r, "userID")
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	var req CreateAttemptRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		log.Warn("invalid request format",
			slog.String("error", redact.Error(err)),
			slog.String("user_id", userID.String()))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := shared.Validate.Struct(req); err != nil {
		log.Warn("validation error",
			slog.String("error", redact.Error(err)),
			slog.String("user_id", userID.String()))
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return
	}

	created, err := h.diagnosticService.CreateAttempt(
		r.Context(),
		userID,
		req.Certificate,
		req.Subject,
		req.ChapterCode,
	)
	if err != nil {
		statusCode := MapErrorToStatusCode(err)
		safeMessage := GetSafeErrorMessage(err)
		if statusCode == http.StatusInternalServerError {
			safeMessage = "Failed to create diagnostic attempt"
		}
		shared.RespondWithErrorAndLog(w, r, statusCode, safeMessage, err)
		return
	}

	log.Debug("created diagnostic attempt",
		slog.String("user_id", userID.String()),
		slog.String("attempt_id", created.Attempt.ID.String()),
		slog.Int("questions", len(created.Questions)))
	shared.RespondWithJSON(w, r, http.StatusCreated, created)
}

// RecordAnswerRequest represents the request body for recording an answer
type RecordAnswerRequest struct {
	QuestionID     string `json:"question_id" validate:"required,uuid"`
	SelectedOption string `json:"selected_option" validate:"required"`
}

// RecordAnswer handles POST /users/{userID}/diagnostics/{attemptID}/answers requests
// It stores or replaces the user's selection for one question.
func (h *DiagnosticHandler) RecordAnswer(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, err := getPathUUID(r, "userID")
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	attemptID, err := getPathUUID(r, "attemptID")
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	var req RecordAnswerRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		log.Warn("invalid request format",
			slog.String("error", redact.Error(err)),
			slog.String("attempt_id", attemptID.String()))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := shared.Validate.Struct(req); err != nil {
		log.Warn("validation error",
			slog.String("error", redact.Error(err)),
			slog.String("attempt_id", attemptID.String()))
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return
	}

	err = h.diagnosticService.RecordAnswer(
		r.Context(),
		userID,
		attemptID,
		mustParseUUID(req.QuestionID),
		req.SelectedOption,
	)
	if err != nil {
		statusCode := MapErrorToStatusCode(err)
		safeMessage := GetSafeErrorMessage(err)
		if statusCode == http.StatusInternalServerError {
			safeMessage = "Failed to record answer"
		}
		shared.RespondWithErrorAndLog(w, r, statusCode, safeMessage, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Submit handles POST /users/{userID}/diagnostics/{attemptID}/submit requests
// It scores the attempt and performs the one-way completion transition.
func (h *DiagnosticHandler) Submit(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, err := getPathUUID(r, "userID")
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	attemptID, err := getPathUUID(r, "attemptID")
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.diagnosticService.Submit(r.Context(), userID, attemptID)
	if err != nil {
		statusCode := MapErrorToStatusCode(err)
		safeMessage := GetSafeErrorMessage(err)
		if statusCode == http.StatusInternalServerError {
			safeMessage = "Failed to submit diagnostic attempt"
		}
		shared.RespondWithErrorAndLog(w, r, statusCode, safeMessage, err)
		return
	}

	log.Debug("submitted diagnostic attempt",
		slog.String("user_id", userID.String()),
		slog.String("attempt_id", attemptID.String()),
		slog.Int("total", result.Attempt.TotalQuestions),
		slog.Int("correct", result.Attempt.CorrectQuestions))
	shared.RespondWithJSON(w, r, http.StatusOK, result)
}

package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/caimi124/tiku-engine/internal/api/shared"
	"github.com/caimi124/tiku-engine/internal/platform/logger"
	"github.com/caimi124/tiku-engine/internal/redact"
	"github.com/caimi124/tiku-engine/internal/service"
)

// defaultHeatmapDays is the trailing window for the study heatmap.
const defaultHeatmapDays = 90

// EngagementHandler handles study activity HTTP requests
type EngagementHandler struct {
	engagementService service.EngagementService
	logger            *slog.Logger
}

// NewEngagementHandler creates a new EngagementHandler
func NewEngagementHandler(
	engagementService service.EngagementService,
	logger *slog.Logger,
) *EngagementHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for EngagementHandler")
	}

	return &EngagementHandler{
		engagementService: engagementService,
		logger:            logger.With(slog.String("component", "engagement_handler")),
	}
}

// RecordStudyTimeRequest represents the request body for logging study time
type RecordStudyTimeRequest struct {
	Day     string `json:"day" validate:"required,datetime=2006-01-02"`
	Minutes int    `json:"minutes" validate:"required,min=1"`
}

// RecordStudyTime handles POST /users/{userID}/study-time requests
// It adds study minutes to the user's counter for a calendar day.
func (h *EngagementHandler) RecordStudyTime(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, err := getPathUUID(r, "userID")
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	var req RecordStudyTimeRequest
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

	// Day already passed the datetime tag
	day, _ := time.Parse("2006-01-02", req.Day)

	err = h.engagementService.RecordStudyTime(r.Context(), userID, day, req.Minutes)
	if err != nil {
		statusCode := MapErrorToStatusCode(err)
		safeMessage := GetSafeErrorMessage(err)
		if statusCode == http.StatusInternalServerError {
			safeMessage = "Failed to record study time"
		}
		shared.RespondWithErrorAndLog(w, r, statusCode, safeMessage, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Heatmap handles GET /users/{userID}/engagement/heatmap requests
// It returns bucketed daily study intensity for the trailing window.
func (h *EngagementHandler) Heatmap(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, err := getPathUUID(r, "userID")
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	days, err := getQueryInt(r, "days", defaultHeatmapDays)
	if err != nil || days <= 0 {
		shared.RespondWithError(w, r, http.StatusBadRequest, "days must be a positive integer")
		return
	}

	cells, err := h.engagementService.Heatmap(r.Context(), userID, time.Now().UTC(), days)
	if err != nil {
		statusCode := MapErrorToStatusCode(err)
		safeMessage := GetSafeErrorMessage(err)
		if statusCode == http.StatusInternalServerError {
			safeMessage = "Failed to build study heatmap"
		}
		shared.RespondWithErrorAndLog(w, r, statusCode, safeMessage, err)
		return
	}

	log.Debug("built study heatmap",
		slog.String("user_id", userID.String()),
		slog.Int("cells", len(cells)))
	shared.RespondWithJSON(w, r, http.StatusOK, cells)
}

// StreakResponse represents the response data for the study streak
type StreakResponse struct {
	StreakDays int `json:"streak_days"`
}

// Streak handles GET /users/{userID}/engagement/streak requests
// It returns the user's current consecutive-day study streak.
func (h *EngagementHandler) Streak(w http.ResponseWriter, r *http.Request) {
	userID, err := getPathUUID(r, "userID")
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	streak, err := h.engagementService.Streak(r.Context(), userID, time.Now().UTC())
	if err != nil {
		statusCode := MapErrorToStatusCode(err)
		safeMessage := GetSafeErrorMessage(err)
		if statusCode == http.StatusInternalServerError {
			safeMessage = "Failed to compute study streak"
		}
		shared.RespondWithErrorAndLog(w, r, statusCode, safeMessage, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, StreakResponse{StreakDays: streak})
}

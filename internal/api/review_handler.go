package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/caimi124/tiku-engine/internal/api/shared"
	"github.com/caimi124/tiku-engine/internal/domain"
	"github.com/caimi124/tiku-engine/internal/platform/logger"
	"github.com/caimi124/tiku-engine/internal/redact"
	"github.com/caimi124/tiku-engine/internal/service/mastery_review"
)

// defaultRecommendationLimit caps how many ranked candidates a single
// recommendation request returns when the client does not ask for a count.
const defaultRecommendationLimit = 20

// MasteryRecordResponse represents the response data for a mastery record
type MasteryRecordResponse struct {
	UserID         string     `json:"user_id"`
	PointID        string     `json:"point_id"`
	Score          float64    `json:"score"`
	Status         string     `json:"status"`
	WrongCount     int        `json:"wrong_count"`
	IsWeakPoint    bool       `json:"is_weak_point"`
	IsMastered     bool       `json:"is_mastered"`
	LastReviewedAt *time.Time `json:"last_reviewed_at,omitempty"`
}

// DuePointResponse represents one point due for review
type DuePointResponse struct {
	Record       MasteryRecordResponse `json:"record"`
	NextReviewAt time.Time             `json:"next_review_at"`
}

// ReviewHandler handles mastery and review scheduling HTTP requests
type ReviewHandler struct {
	reviewService mastery_review.MasteryReviewService
	logger        *slog.Logger
}

// NewReviewHandler creates a new ReviewHandler
func NewReviewHandler(
	reviewService mastery_review.MasteryReviewService,
	logger *slog.Logger,
) *ReviewHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for ReviewHandler")
	}

	return &ReviewHandler{
		reviewService: reviewService,
		logger:        logger.With(slog.String("component", "review_handler")),
	}
}

// RecordOutcomeRequest represents the request body for recording an answer outcome
type RecordOutcomeRequest struct {
	PointID    string     `json:"point_id" validate:"required,uuid"`
	IsCorrect  *bool      `json:"is_correct" validate:"required"`
	AnsweredAt *time.Time `json:"answered_at"`
}

// RecordOutcome handles POST /users/{userID}/outcomes requests
// It applies one answer outcome to the user's mastery record for a point.
func (h *ReviewHandler) RecordOutcome(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, err := getPathUUID(r, "userID")
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	var req RecordOutcomeRequest
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

	// PointID already passed the uuid tag
	pointID := mustParseUUID(req.PointID)

	answeredAt := time.Now().UTC()
	if req.AnsweredAt != nil {
		answeredAt = req.AnsweredAt.UTC()
	}

	record, err := h.reviewService.RecordOutcome(r.Context(), userID, pointID, *req.IsCorrect, answeredAt)
	if err != nil {
		statusCode := MapErrorToStatusCode(err)
		safeMessage := GetSafeErrorMessage(err)
		if statusCode == http.StatusInternalServerError {
			safeMessage = "Failed to record outcome"
		}
		shared.RespondWithErrorAndLog(w, r, statusCode, safeMessage, err)
		return
	}

	log.Debug("successfully recorded outcome",
		slog.String("user_id", userID.String()),
		slog.String("point_id", pointID.String()),
		slog.Float64("score", record.Score))
	shared.RespondWithJSON(w, r, http.StatusOK, recordToResponse(record))
}

// ListDue handles GET /users/{userID}/reviews/due requests
// It returns the user's points whose review date has arrived today.
func (h *ReviewHandler) ListDue(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, err := getPathUUID(r, "userID")
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	due, err := h.reviewService.ListDueToday(r.Context(), userID, time.Now().UTC())
	if err != nil {
		statusCode := MapErrorToStatusCode(err)
		safeMessage := GetSafeErrorMessage(err)
		if statusCode == http.StatusInternalServerError {
			safeMessage = "Failed to list due reviews"
		}
		shared.RespondWithErrorAndLog(w, r, statusCode, safeMessage, err)
		return
	}

	response := make([]DuePointResponse, 0, len(due))
	for _, d := range due {
		response = append(response, DuePointResponse{
			Record:       recordToResponse(d.Record),
			NextReviewAt: d.NextReviewAt,
		})
	}

	log.Debug("listed due reviews",
		slog.String("user_id", userID.String()),
		slog.Int("count", len(response)))
	shared.RespondWithJSON(w, r, http.StatusOK, response)
}

// Recommendations handles GET /users/{userID}/reviews/recommendations requests
// It returns the user's due and weak points ranked by weighted priority.
func (h *ReviewHandler) Recommendations(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, err := getPathUUID(r, "userID")
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	limit, err := getQueryInt(r, "limit", defaultRecommendationLimit)
	if err != nil || limit <= 0 {
		shared.RespondWithError(w, r, http.StatusBadRequest, "limit must be a positive integer")
		return
	}

	recs, err := h.reviewService.Recommend(r.Context(), userID, time.Now().UTC(), limit)
	if err != nil {
		statusCode := MapErrorToStatusCode(err)
		safeMessage := GetSafeErrorMessage(err)
		if statusCode == http.StatusInternalServerError {
			safeMessage = "Failed to rank recommendations"
		}
		shared.RespondWithErrorAndLog(w, r, statusCode, safeMessage, err)
		return
	}

	log.Debug("ranked recommendations",
		slog.String("user_id", userID.String()),
		slog.Int("count", len(recs)))
	shared.RespondWithJSON(w, r, http.StatusOK, recs)
}

// WrongBook handles GET /users/{userID}/wrong-book requests
// It returns the user's wrong-question book.
func (h *ReviewHandler) WrongBook(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, err := getPathUUID(r, "userID")
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	records, err := h.reviewService.ListWrongBook(r.Context(), userID)
	if err != nil {
		statusCode := MapErrorToStatusCode(err)
		safeMessage := GetSafeErrorMessage(err)
		if statusCode == http.StatusInternalServerError {
			safeMessage = "Failed to list wrong-question book"
		}
		shared.RespondWithErrorAndLog(w, r, statusCode, safeMessage, err)
		return
	}

	response := make([]MasteryRecordResponse, 0, len(records))
	for _, record := range records {
		response = append(response, recordToResponse(record))
	}

	log.Debug("listed wrong-question book",
		slog.String("user_id", userID.String()),
		slog.Int("count", len(response)))
	shared.RespondWithJSON(w, r, http.StatusOK, response)
}

// recordToResponse converts a domain.MasteryRecord to a MasteryRecordResponse
func recordToResponse(record *domain.MasteryRecord) MasteryRecordResponse {
	response := MasteryRecordResponse{
		UserID:      record.UserID.String(),
		PointID:     record.PointID.String(),
		Score:       record.Score,
		Status:      string(record.Status()),
		WrongCount:  record.WrongCount,
		IsWeakPoint: record.IsWeakPoint,
		IsMastered:  record.IsMastered,
	}
	if !record.LastReviewedAt.IsZero() {
		t := record.LastReviewedAt
		response.LastReviewedAt = &t
	}
	return response
}

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caimi124/tiku-engine/internal/domain"
	"github.com/caimi124/tiku-engine/internal/mocks"
	"github.com/caimi124/tiku-engine/internal/service/mastery_review"
)

// newReviewRouter mounts a ReviewHandler on the same route shape the server
// uses, so chi URL parameters resolve in tests.
func newReviewRouter(svc mastery_review.MasteryReviewService) http.Handler {
	handler := NewReviewHandler(svc, testLogger())

	r := chi.NewRouter()
	r.Route("/api/users/{userID}", func(r chi.Router) {
		r.Post("/outcomes", handler.RecordOutcome)
		r.Get("/reviews/due", handler.ListDue)
		r.Get("/reviews/recommendations", handler.Recommendations)
		r.Get("/wrong-book", handler.WrongBook)
	})
	return r
}

func TestRecordOutcomeEndpoint(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	pointID := uuid.New()
	answeredAt := time.Date(2026, 3, 10, 9, 30, 0, 0, time.UTC)

	record := &domain.MasteryRecord{
		UserID:         userID,
		PointID:        pointID,
		Score:          30,
		WrongCount:     0,
		IsWeakPoint:    true,
		LastReviewedAt: answeredAt,
	}

	tests := []struct {
		name           string
		body           string
		serviceErr     error
		expectedStatus int
	}{
		{
			name:           "records outcome",
			body:           fmt.Sprintf(`{"point_id":%q,"is_correct":true,"answered_at":"2026-03-10T09:30:00Z"}`, pointID),
			expectedStatus: http.StatusOK,
		},
		{
			name:           "missing is_correct",
			body:           fmt.Sprintf(`{"point_id":%q}`, pointID),
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "malformed point id",
			body:           `{"point_id":"not-a-uuid","is_correct":true}`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "unknown point",
			body:           fmt.Sprintf(`{"point_id":%q,"is_correct":true}`, pointID),
			serviceErr:     mastery_review.ErrPointNotFound,
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "stale outcome",
			body:           fmt.Sprintf(`{"point_id":%q,"is_correct":true}`, pointID),
			serviceErr:     mastery_review.ErrOutcomeOutOfOrder,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "service failure",
			body:           fmt.Sprintf(`{"point_id":%q,"is_correct":true}`, pointID),
			serviceErr:     errors.New("database error"),
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			mockService := &mocks.MockMasteryReviewService{
				Record: record,
				Err:    tc.serviceErr,
			}
			router := newReviewRouter(mockService)

			req := httptest.NewRequest(
				http.MethodPost,
				fmt.Sprintf("/api/users/%s/outcomes", userID),
				bytes.NewBufferString(tc.body),
			)
			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, req)

			assert.Equal(t, tc.expectedStatus, rr.Code)

			if tc.expectedStatus == http.StatusOK {
				var resp MasteryRecordResponse
				require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
				assert.Equal(t, pointID.String(), resp.PointID)
				assert.Equal(t, 30.0, resp.Score)
				assert.Equal(t, "weak", resp.Status)
				assert.True(t, resp.IsWeakPoint)

				require.Equal(t, 1, mockService.RecordOutcomeCalls.Count)
				assert.Equal(t, userID, mockService.RecordOutcomeCalls.UserIDs[0])
				assert.Equal(t, pointID, mockService.RecordOutcomeCalls.PointIDs[0])
				assert.True(t, mockService.RecordOutcomeCalls.Outcomes[0])
				assert.Equal(t, answeredAt, mockService.RecordOutcomeCalls.Answered[0])
			}
		})
	}
}

func TestRecordOutcomeEndpoint_DefaultsAnsweredAtToNow(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	pointID := uuid.New()
	record := &domain.MasteryRecord{UserID: userID, PointID: pointID, Score: 30, IsWeakPoint: true}

	mockService := &mocks.MockMasteryReviewService{Record: record}
	router := newReviewRouter(mockService)

	before := time.Now().UTC()
	body := fmt.Sprintf(`{"point_id":%q,"is_correct":false}`, pointID)
	req := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/api/users/%s/outcomes", userID), bytes.NewBufferString(body))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	require.Equal(t, 1, mockService.RecordOutcomeCalls.Count)
	got := mockService.RecordOutcomeCalls.Answered[0]
	assert.False(t, got.Before(before))
	assert.False(t, got.After(time.Now().UTC()))
}

func TestListDueEndpoint(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	pointID := uuid.New()
	nextReview := time.Date(2026, 3, 12, 0, 0, 0, 0, time.UTC)

	mockService := &mocks.MockMasteryReviewService{
		DuePoints: []mastery_review.DuePoint{
			{
				Record: &domain.MasteryRecord{
					UserID:         userID,
					PointID:        pointID,
					Score:          45,
					WrongCount:     2,
					IsWeakPoint:    true,
					LastReviewedAt: nextReview.AddDate(0, 0, -2),
				},
				NextReviewAt: nextReview,
			},
		},
	}
	router := newReviewRouter(mockService)

	req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/api/users/%s/reviews/due", userID), nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)

	var resp []DuePointResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	require.Len(t, resp, 1)
	assert.Equal(t, pointID.String(), resp[0].Record.PointID)
	assert.Equal(t, "weak", resp[0].Record.Status)
	assert.True(t, resp[0].NextReviewAt.Equal(nextReview))
}

func TestListDueEndpoint_InvalidUserID(t *testing.T) {
	t.Parallel()

	router := newReviewRouter(&mocks.MockMasteryReviewService{})

	req := httptest.NewRequest(http.MethodGet, "/api/users/not-a-uuid/reviews/due", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestRecommendationsEndpoint(t *testing.T) {
	t.Parallel()

	userID := uuid.New()

	t.Run("passes limit through and returns ranking", func(t *testing.T) {
		var gotLimit int
		mockService := &mocks.MockMasteryReviewService{
			RecommendFn: func(ctx context.Context, id uuid.UUID, today time.Time, limit int) ([]mastery_review.Recommendation, error) {
				gotLimit = limit
				return []mastery_review.Recommendation{
					{PointID: uuid.New(), Score: 40, Priority: 9.0, ChapterWeight: 5, PointTypeWeight: 3},
				}, nil
			},
		}
		router := newReviewRouter(mockService)

		req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/api/users/%s/reviews/recommendations?limit=5", userID), nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, 5, gotLimit)

		var resp []mastery_review.Recommendation
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
		require.Len(t, resp, 1)
		assert.Equal(t, 9.0, resp[0].Priority)
	})

	t.Run("defaults the limit", func(t *testing.T) {
		var gotLimit int
		mockService := &mocks.MockMasteryReviewService{
			RecommendFn: func(ctx context.Context, id uuid.UUID, today time.Time, limit int) ([]mastery_review.Recommendation, error) {
				gotLimit = limit
				return nil, nil
			},
		}
		router := newReviewRouter(mockService)

		req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/api/users/%s/reviews/recommendations", userID), nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, defaultRecommendationLimit, gotLimit)
	})

	t.Run("rejects a non-positive limit", func(t *testing.T) {
		router := newReviewRouter(&mocks.MockMasteryReviewService{})

		req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/api/users/%s/reviews/recommendations?limit=0", userID), nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestWrongBookEndpoint(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	mockService := &mocks.MockMasteryReviewService{
		WrongBook: []*domain.MasteryRecord{
			{UserID: userID, PointID: uuid.New(), Score: 20, WrongCount: 3, IsWeakPoint: true},
			{UserID: userID, PointID: uuid.New(), Score: 55, WrongCount: 1, IsWeakPoint: true},
		},
	}
	router := newReviewRouter(mockService)

	req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/api/users/%s/wrong-book", userID), nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)

	var resp []MasteryRecordResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	require.Len(t, resp, 2)
	assert.Equal(t, 3, resp[0].WrongCount)
	assert.Nil(t, resp[0].LastReviewedAt)
}

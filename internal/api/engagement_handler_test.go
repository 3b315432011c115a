package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caimi124/tiku-engine/internal/mocks"
	"github.com/caimi124/tiku-engine/internal/service"
)

// newEngagementRouter mounts an EngagementHandler on the server's route shape.
func newEngagementRouter(svc service.EngagementService) http.Handler {
	handler := NewEngagementHandler(svc, testLogger())

	r := chi.NewRouter()
	r.Route("/api/users/{userID}", func(r chi.Router) {
		r.Post("/study-time", handler.RecordStudyTime)
		r.Get("/engagement/heatmap", handler.Heatmap)
		r.Get("/engagement/streak", handler.Streak)
	})
	return r
}

func TestRecordStudyTimeEndpoint(t *testing.T) {
	t.Parallel()

	userID := uuid.New()

	tests := []struct {
		name           string
		body           string
		serviceErr     error
		expectedStatus int
	}{
		{
			name:           "records study time",
			body:           `{"day":"2026-03-10","minutes":25}`,
			expectedStatus: http.StatusNoContent,
		},
		{
			name:           "malformed day",
			body:           `{"day":"10/03/2026","minutes":25}`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "missing minutes",
			body:           `{"day":"2026-03-10"}`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "negative minutes",
			body:           `{"day":"2026-03-10","minutes":-5}`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "service rejects minutes",
			body:           `{"day":"2026-03-10","minutes":10}`,
			serviceErr:     service.ErrInvalidStudyMinutes,
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var gotDay time.Time
			var gotMinutes int
			mockService := &mocks.MockEngagementService{
				RecordStudyTimeFn: func(ctx context.Context, id uuid.UUID, day time.Time, minutes int) error {
					gotDay = day
					gotMinutes = minutes
					return tc.serviceErr
				},
			}
			router := newEngagementRouter(mockService)

			req := httptest.NewRequest(
				http.MethodPost,
				fmt.Sprintf("/api/users/%s/study-time", userID),
				bytes.NewBufferString(tc.body),
			)
			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, req)

			assert.Equal(t, tc.expectedStatus, rr.Code)

			if tc.expectedStatus == http.StatusNoContent {
				assert.Equal(t, time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC), gotDay)
				assert.Equal(t, 25, gotMinutes)
			}
		})
	}
}

func TestHeatmapEndpoint(t *testing.T) {
	t.Parallel()

	userID := uuid.New()

	t.Run("returns bucketed cells", func(t *testing.T) {
		var gotDays int
		mockService := &mocks.MockEngagementService{
			HeatmapFn: func(ctx context.Context, id uuid.UUID, today time.Time, days int) ([]service.HeatmapCell, error) {
				gotDays = days
				return []service.HeatmapCell{
					{Day: time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC), StudyMinutes: 45, Level: 3},
					{Day: time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC), StudyMinutes: 10, Level: 1},
				}, nil
			},
		}
		router := newEngagementRouter(mockService)

		req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/api/users/%s/engagement/heatmap?days=30", userID), nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, 30, gotDays)

		var resp []service.HeatmapCell
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
		require.Len(t, resp, 2)
		assert.Equal(t, 3, resp[0].Level)
		assert.Equal(t, 45, resp[0].StudyMinutes)
	})

	t.Run("defaults the window", func(t *testing.T) {
		var gotDays int
		mockService := &mocks.MockEngagementService{
			HeatmapFn: func(ctx context.Context, id uuid.UUID, today time.Time, days int) ([]service.HeatmapCell, error) {
				gotDays = days
				return nil, nil
			},
		}
		router := newEngagementRouter(mockService)

		req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/api/users/%s/engagement/heatmap", userID), nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, defaultHeatmapDays, gotDays)
	})

	t.Run("rejects a non-positive window", func(t *testing.T) {
		router := newEngagementRouter(&mocks.MockEngagementService{})

		req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/api/users/%s/engagement/heatmap?days=-1", userID), nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestStreakEndpoint(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	mockService := &mocks.MockEngagementService{StreakDays: 7}
	router := newEngagementRouter(mockService)

	req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/api/users/%s/engagement/streak", userID), nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)

	var resp StreakResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.Equal(t, 7, resp.StreakDays)
}

package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// getPathUUID extracts a UUID from the URL path parameters.
//
// Returns:
//   - (uuid.UUID, nil): The parsed UUID if valid
//   - (uuid.UUID{}, error): A zero UUID and an error if the parameter is
//     missing or malformed
func getPathUUID(r *http.Request, paramName string) (uuid.UUID, error) {
	pathParam := chi.URLParam(r, paramName)
	if pathParam == "" {
		return uuid.Nil, fmt.Errorf("%s is required", paramName)
	}

	id, err := uuid.Parse(pathParam)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%s has invalid format", paramName)
	}

	return id, nil
}

// mustParseUUID parses a string that already passed uuid validation.
func mustParseUUID(s string) uuid.UUID {
	id, _ := uuid.Parse(s)
	return id
}

// getQueryInt extracts an integer query parameter, returning the fallback
// when the parameter is absent. A malformed value is an error.
func getQueryInt(r *http.Request, name string, fallback int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback, nil
	}

	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer", name)
	}

	return value, nil
}

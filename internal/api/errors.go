package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/caimi124/tiku-engine/internal/service"
	"github.com/caimi124/tiku-engine/internal/service/diagnostic"
	"github.com/caimi124/tiku-engine/internal/service/mastery_review"
	"github.com/caimi124/tiku-engine/internal/store"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	// Authorization errors
	case errors.Is(err, diagnostic.ErrAttemptNotOwned):
		return http.StatusForbidden

	// Not found errors
	case errors.Is(err, store.ErrMasteryRecordNotFound),
		errors.Is(err, store.ErrAttemptNotFound),
		errors.Is(err, store.ErrQuestionNotFound),
		errors.Is(err, store.ErrPointNotFound),
		errors.Is(err, diagnostic.ErrAttemptNotFound),
		errors.Is(err, mastery_review.ErrPointNotFound):
		return http.StatusNotFound

	// Conflict errors
	case errors.Is(err, diagnostic.ErrAttemptCompleted),
		errors.Is(err, diagnostic.ErrSubjectNotReady):
		return http.StatusConflict

	// Bad request errors
	case errors.Is(err, store.ErrInvalidEntity),
		errors.Is(err, mastery_review.ErrOutcomeOutOfOrder),
		errors.Is(err, service.ErrInvalidStudyMinutes):
		return http.StatusBadRequest

	// Default: internal server error
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. This prevents leaking sensitive internal details.
func GetSafeErrorMessage(err error) string {
	// Handle nil error
	if err == nil {
		return "An unexpected error occurred"
	}

	switch {
	// Authorization errors
	case errors.Is(err, diagnostic.ErrAttemptNotOwned):
		return "You do not own this attempt"

	// Not found errors
	case errors.Is(err, store.ErrAttemptNotFound),
		errors.Is(err, diagnostic.ErrAttemptNotFound):
		return "Diagnostic attempt not found"

	case errors.Is(err, store.ErrMasteryRecordNotFound):
		return "Mastery record not found"

	case errors.Is(err, store.ErrQuestionNotFound):
		return "Question not found"

	case errors.Is(err, store.ErrPointNotFound),
		errors.Is(err, mastery_review.ErrPointNotFound):
		return "Knowledge point not found"

	// Conflict errors
	case errors.Is(err, diagnostic.ErrAttemptCompleted):
		return "Diagnostic attempt already completed"

	case errors.Is(err, diagnostic.ErrSubjectNotReady):
		return "No questions available for this subject yet"

	// Bad request errors
	case errors.Is(err, mastery_review.ErrOutcomeOutOfOrder):
		return "Outcome is older than the last recorded review"

	case errors.Is(err, service.ErrInvalidStudyMinutes):
		return "Study minutes must be positive"

	case errors.Is(err, store.ErrInvalidEntity):
		return "Invalid entity data"

	// Default case for unknown errors
	default:
		return "An unexpected error occurred"
	}
}

// SanitizeValidationError removes sensitive details from validation errors
// and returns a user-friendly message.
func SanitizeValidationError(err error) string {
	errMsg := err.Error()

	// Example format: "Key: 'RecordOutcomeRequest.PointID' Error:Field
	// validation for 'PointID' failed on the 'required' tag"
	if strings.Contains(errMsg, "Field validation") {
		parts := strings.Split(errMsg, "Error:")
		if len(parts) >= 2 {
			fieldParts := strings.Split(parts[1], "'")
			if len(fieldParts) >= 3 {
				field := fieldParts[1]
				var tag string
				if len(fieldParts) >= 5 {
					tag = fieldParts[3]
				}

				if tag != "" {
					return fmt.Sprintf("Invalid %s: %s", field, getValidationTagMessage(tag))
				}
				return fmt.Sprintf("Invalid %s", field)
			}
		}
	}

	return "Validation error"
}

// getValidationTagMessage maps validation tags to user-friendly error messages
func getValidationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "uuid":
		return "invalid identifier format"
	case "min":
		return "too small"
	case "max":
		return "too large"
	case "oneof":
		return "invalid value"
	default:
		return "validation failed"
	}
}

package domain

import (
	"errors"

	"github.com/google/uuid"
)

// OptionKind distinguishes how an answer option is rendered.
type OptionKind string

// Possible option kind values.
const (
	OptionKindText  OptionKind = "text"
	OptionKindImage OptionKind = "image"
)

// Question-specific validation errors
var (
	// ErrQuestionIDEmpty is returned when a question ID is empty or nil.
	ErrQuestionIDEmpty = errors.New("question ID cannot be empty")

	// ErrQuestionSubjectEmpty is returned when a question's subject is empty.
	ErrQuestionSubjectEmpty = errors.New("question subject cannot be empty")

	// ErrQuestionNoOptions is returned when a question has no answer options.
	ErrQuestionNoOptions = errors.New("question must have at least two options")

	// ErrQuestionOptionKeyEmpty is returned when an option key is empty.
	ErrQuestionOptionKeyEmpty = errors.New("question option key cannot be empty")

	// ErrQuestionDuplicateOption is returned when two options share a key.
	ErrQuestionDuplicateOption = errors.New("question option keys must be unique")

	// ErrQuestionCorrectUnknown is returned when the correct option key is not
	// one of the question's options.
	ErrQuestionCorrectUnknown = errors.New("question correct option must be one of its options")
)

// QuestionOption is one answer choice: a stable key ("A", "B", ...) plus
// either rendered text or a reference to an image asset. Options are an
// ordered set, not an open map, so rendering and scoring stay deterministic.
type QuestionOption struct {
	Key      string     `json:"key"`
	Kind     OptionKind `json:"kind"`
	Text     string     `json:"text,omitempty"`
	ImageRef string     `json:"image_ref,omitempty"`
}

// Question is one exam question. It is content-pipeline-owned reference data;
// the engine reads it for diagnostic delivery and scoring. PointID links the
// question to a knowledge point and may be Nil for untagged legacy content.
type Question struct {
	ID            uuid.UUID        `json:"id"`
	Certificate   string           `json:"certificate"`
	Subject       string           `json:"subject"`
	ChapterCode   string           `json:"chapter_code"`
	Stem          string           `json:"stem"`
	Options       []QuestionOption `json:"options"`
	CorrectOption string           `json:"correct_option"`
	PointID       uuid.UUID        `json:"point_id,omitempty"`
}

// Validate checks if the Question has valid data.
func (q *Question) Validate() error {
	if q.ID == uuid.Nil {
		return ErrQuestionIDEmpty
	}

	if q.Subject == "" {
		return ErrQuestionSubjectEmpty
	}

	if len(q.Options) < 2 {
		return ErrQuestionNoOptions
	}

	seen := make(map[string]struct{}, len(q.Options))
	for _, opt := range q.Options {
		if opt.Key == "" {
			return ErrQuestionOptionKeyEmpty
		}
		if _, dup := seen[opt.Key]; dup {
			return ErrQuestionDuplicateOption
		}
		seen[opt.Key] = struct{}{}
	}

	if _, ok := seen[q.CorrectOption]; !ok {
		return ErrQuestionCorrectUnknown
	}

	return nil
}

package model

import (
	"time"

	"github.com/google/uuid"
)

// AnswerType enumerates the supported question kinds.
type AnswerType string

const (
	// AnswerTypeMultiple is a fixed option list with one designated
	// correct option, auto-scored by exact string match.
	AnswerTypeMultiple AnswerType = "multiple"
	// AnswerTypeOpen is a free-text question; answers are recorded but
	// never auto-scored.
	AnswerTypeOpen AnswerType = "open"
)

// Question is embedded in a Test. Questions have no lifecycle of their
// own; their order inside the test defines display order.
type Question struct {
	ID            uuid.UUID  `json:"id"`
	Text          string     `json:"text"`
	Options       []string   `json:"options"`
	CorrectAnswer string     `json:"correctAnswer"`
	AnswerType    AnswerType `json:"answerType"`
}

// Test represents an authored test. The slug is the public sharing
// capability: it is opaque, globally unique, and immutable once set.
type Test struct {
	ID              uuid.UUID  `json:"id"`
	Title           string     `json:"title"`
	OwnerID         uuid.UUID  `json:"ownerId"`
	Questions       []Question `json:"questions"`
	Slug            string     `json:"slug"`
	DurationSeconds int        `json:"durationSeconds"`
	CreatedAt       time.Time  `json:"createdAt"`
	// SubmissionCount is filled from the stats cache on owner listings.
	// Zero when counters are unavailable; never persisted.
	SubmissionCount int64 `json:"submissionCount,omitempty"`
}

// QuestionInput is a question as submitted by the authoring client.
// Variant rules (options/correctAnswer presence per answerType) are
// checked by the test service, not by binding tags.
type QuestionInput struct {
	Text          string   `json:"text" binding:"required,min=1,max=2000"`
	Options       []string `json:"options" binding:"omitempty,max=20,dive,min=1,max=500"`
	CorrectAnswer string   `json:"correctAnswer" binding:"omitempty,max=500"`
	AnswerType    string   `json:"answerType" binding:"required,oneof=multiple open"`
}

// CreateTestRequest is the payload for creating a new test.
// Duration is in seconds; 0 means unlimited.
type CreateTestRequest struct {
	Title     string          `json:"title" binding:"required,min=1,max=255"`
	Questions []QuestionInput `json:"questions" binding:"required,min=1,dive"`
	Duration  int             `json:"duration" binding:"omitempty,min=0,max=86400"`
}

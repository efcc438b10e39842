package model

import (
	"time"

	"github.com/google/uuid"
)

// Answer is a single submitted answer, stored exactly as given.
type Answer struct {
	QuestionID     uuid.UUID `json:"questionId"`
	SelectedAnswer string    `json:"selectedAnswer"`
}

// Result is one persisted record of a single submission event. Results
// are append-only: the score is computed once and never updated, and
// multiple Results may exist for the same (student, test) pair.
type Result struct {
	ID        uuid.UUID `json:"id"`
	TestID    uuid.UUID `json:"testId"`
	StudentID uuid.UUID `json:"studentId"`
	Answers   []Answer  `json:"answers"`
	Score     int       `json:"score"`
	CreatedAt time.Time `json:"createdAt"`
}

// SubmitRequest is the payload for submitting a completed test.
// An empty answers list is valid and yields a zero score.
type SubmitRequest struct {
	Answers []Answer `json:"answers" binding:"omitempty,dive"`
}

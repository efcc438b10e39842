package model

// SubmissionEvent is the queue payload emitted after a result is
// persisted, consumed by the stats worker. Losing one is acceptable:
// Postgres remains the source of truth for results.
type SubmissionEvent struct {
	TestID      string `json:"test_id"`
	StudentID   string `json:"student_id"`
	Score       int    `json:"score"`
	SubmittedAt int64  `json:"submitted_at"`
}

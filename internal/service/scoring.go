package service

import "github.com/quizshare/quizshare-backend/internal/model"

// Score computes the score for a submitted answer set against a test's
// questions. It iterates the test's own question order, not the
// submitted answer order, so the result is independent of how the
// client arranged its payload.
//
// Only multiple-choice questions can score: each contributes one point
// when the first submitted answer carrying its question ID is exactly
// string-equal to the correct answer (case-sensitive, no trimming).
// Open-ended answers are recorded by the caller but never scored.
// Unanswered questions and answers referencing unknown question IDs
// contribute nothing.
func Score(questions []model.Question, answers []model.Answer) int {
	score := 0
	for _, q := range questions {
		if q.AnswerType != model.AnswerTypeMultiple {
			continue
		}
		for _, a := range answers {
			if a.QuestionID != q.ID {
				continue
			}
			if a.SelectedAnswer == q.CorrectAnswer {
				score++
			}
			break
		}
	}
	return score
}

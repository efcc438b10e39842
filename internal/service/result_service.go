package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/quizshare/quizshare-backend/internal/config"
	"github.com/quizshare/quizshare-backend/internal/model"
	"github.com/rs/zerolog"
)

// ErrNotTestOwner is returned when the owner-only results policy is
// enabled and the caller does not own the test.
var ErrNotTestOwner = errors.New("caller does not own this test")

// ResultStore is the persistence contract the result service needs.
// Satisfied by repository.ResultRepository.
type ResultStore interface {
	Create(ctx context.Context, res *model.Result) error
	ListByTestAndStudent(ctx context.Context, testID, studentID uuid.UUID) ([]model.Result, error)
	ListByTest(ctx context.Context, testID uuid.UUID) ([]model.Result, error)
}

// SubmissionQueue publishes submission events for the stats worker.
type SubmissionQueue interface {
	EnqueueSubmission(ctx context.Context, ev model.SubmissionEvent) error
}

// ResultService accepts submissions, scores them and serves result
// queries. Scoring is deterministic per submission event; submissions
// are never deduplicated — each call stores a fresh result, so retakes
// produce multiple rows for the same (student, test) pair.
type ResultService struct {
	cfg     *config.Config
	results ResultStore
	tests   TestStore
	queue   SubmissionQueue
	log     zerolog.Logger
}

// NewResultService creates a new ResultService.
func NewResultService(
	cfg *config.Config,
	results ResultStore,
	tests TestStore,
	queue SubmissionQueue,
	log zerolog.Logger,
) *ResultService {
	return &ResultService{
		cfg:     cfg,
		results: results,
		tests:   tests,
		queue:   queue,
		log:     log.With().Str("component", "result_service").Logger(),
	}
}

// Submit scores an answer set against the test's question order and
// persists a new result. The submitted answers are stored verbatim,
// including entries for unknown question IDs and empty strings. No
// time-limit check happens here: the duration is advisory and a late
// submission scores normally.
func (s *ResultService) Submit(ctx context.Context, testID, studentID uuid.UUID, answers []model.Answer) (*model.Result, error) {
	test, err := s.tests.GetByID(ctx, testID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTestNotFound
		}
		return nil, fmt.Errorf("get test: %w", err)
	}

	if answers == nil {
		answers = []model.Answer{}
	}

	result := &model.Result{
		TestID:    testID,
		StudentID: studentID,
		Answers:   answers,
		Score:     Score(test.Questions, answers),
	}

	if err := s.results.Create(ctx, result); err != nil {
		return nil, fmt.Errorf("persist result: %w", err)
	}

	// Fire-and-forget: counters are convenience data, a failed enqueue
	// must not fail the submission.
	ev := model.SubmissionEvent{
		TestID:      testID.String(),
		StudentID:   studentID.String(),
		Score:       result.Score,
		SubmittedAt: time.Now().Unix(),
	}
	if err := s.queue.EnqueueSubmission(ctx, ev); err != nil {
		s.log.Warn().Err(err).Str("test_id", testID.String()).Msg("submission event enqueue failed")
	}

	return result, nil
}

// ListForStudent returns the caller's own results for a test.
func (s *ResultService) ListForStudent(ctx context.Context, testID, studentID uuid.UUID) ([]model.Result, error) {
	results, err := s.results.ListByTestAndStudent(ctx, testID, studentID)
	if err != nil {
		return nil, fmt.Errorf("list results: %w", err)
	}
	return results, nil
}

// ListAllForTest returns every result for a test. By default any
// authenticated caller may read these; with RESTRICT_RESULTS_TO_OWNER
// set, only the test's owner may.
func (s *ResultService) ListAllForTest(ctx context.Context, testID, callerID uuid.UUID) ([]model.Result, error) {
	if s.cfg.RestrictResultsToOwner {
		test, err := s.tests.GetByID(ctx, testID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, ErrTestNotFound
			}
			return nil, fmt.Errorf("get test: %w", err)
		}
		if test.OwnerID != callerID {
			return nil, ErrNotTestOwner
		}
	}

	results, err := s.results.ListByTest(ctx, testID)
	if err != nil {
		return nil, fmt.Errorf("list results: %w", err)
	}
	return results, nil
}

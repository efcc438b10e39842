package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/quizshare/quizshare-backend/internal/model"
	"github.com/quizshare/quizshare-backend/internal/repository"
	"github.com/rs/zerolog"
)

// Domain errors.
var (
	ErrTestNotFound  = errors.New("test not found")
	ErrSlugExhausted = errors.New("could not generate a unique slug")
)

// slugAttempts bounds the check-or-retry loop for slug generation.
// A UUID collision is already negligible; the retry turns the residual
// case into a transient server error instead of silent corruption.
const slugAttempts = 3

// ValidationError carries field-level problems with a test definition.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string { return "invalid test definition" }

// TestStore is the persistence contract the test service needs.
// Satisfied by repository.TestRepository.
type TestStore interface {
	Create(ctx context.Context, t *model.Test) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Test, error)
	GetBySlug(ctx context.Context, slug string) (*model.Test, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]model.Test, error)
}

// TestCache is the read-cache and counters contract, backed by Redis.
// All methods are best-effort: callers log failures and fall through to
// the store.
type TestCache interface {
	GetTestBySlug(ctx context.Context, slug string) (*model.Test, error)
	SetTestBySlug(ctx context.Context, t *model.Test) error
	TestStats(ctx context.Context, testIDs []uuid.UUID) (map[uuid.UUID]int64, error)
}

// TestService handles test authoring and slug resolution.
type TestService struct {
	store TestStore
	cache TestCache
	log   zerolog.Logger
}

// NewTestService creates a new TestService.
func NewTestService(store TestStore, cache TestCache, log zerolog.Logger) *TestService {
	return &TestService{
		store: store,
		cache: cache,
		log:   log.With().Str("component", "test_service").Logger(),
	}
}

// Create validates the question set, assigns question IDs, generates a
// unique public slug and persists the test. Any authenticated identity
// may create tests; role gating, if any, belongs to the routes.
func (s *TestService) Create(ctx context.Context, ownerID uuid.UUID, req *model.CreateTestRequest) (*model.Test, error) {
	questions, err := buildQuestions(req.Questions)
	if err != nil {
		return nil, err
	}

	test := &model.Test{
		Title:           req.Title,
		OwnerID:         ownerID,
		Questions:       questions,
		DurationSeconds: req.Duration,
	}

	for attempt := 0; attempt < slugAttempts; attempt++ {
		test.Slug = uuid.New().String()
		err = s.store.Create(ctx, test)
		if err == nil {
			if cacheErr := s.cache.SetTestBySlug(ctx, test); cacheErr != nil {
				s.log.Warn().Err(cacheErr).Str("slug", test.Slug).Msg("slug cache write failed")
			}
			return test, nil
		}
		if !errors.Is(err, repository.ErrSlugTaken) {
			return nil, fmt.Errorf("create test: %w", err)
		}
		s.log.Warn().Str("slug", test.Slug).Msg("slug collision, retrying")
	}
	return nil, ErrSlugExhausted
}

// ListByOwner returns the owner's tests in store order, enriched with
// submission counters when the stats cache is reachable.
func (s *TestService) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]model.Test, error) {
	tests, err := s.store.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list tests: %w", err)
	}

	if len(tests) > 0 {
		ids := make([]uuid.UUID, len(tests))
		for i := range tests {
			ids[i] = tests[i].ID
		}
		stats, err := s.cache.TestStats(ctx, ids)
		if err != nil {
			s.log.Warn().Err(err).Msg("stats lookup failed")
		} else {
			for i := range tests {
				tests[i].SubmissionCount = stats[tests[i].ID]
			}
		}
	}

	return tests, nil
}

// GetBySlug resolves a test by its public slug, reading through the
// Redis cache. The slug is the sharing capability: any authenticated
// identity may fetch it, ownership is not checked.
func (s *TestService) GetBySlug(ctx context.Context, slug string) (*model.Test, error) {
	if cached, err := s.cache.GetTestBySlug(ctx, slug); err == nil && cached != nil {
		return cached, nil
	}

	test, err := s.store.GetBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTestNotFound
		}
		return nil, fmt.Errorf("get test by slug: %w", err)
	}

	if err := s.cache.SetTestBySlug(ctx, test); err != nil {
		s.log.Warn().Err(err).Str("slug", slug).Msg("slug cache write failed")
	}
	return test, nil
}

// buildQuestions checks the tagged question variants and assigns IDs.
// multiple: at least two options, correct answer one of them.
// open: no options, no correct answer.
func buildQuestions(inputs []model.QuestionInput) ([]model.Question, error) {
	fields := make(map[string]string)
	questions := make([]model.Question, 0, len(inputs))

	for i, in := range inputs {
		key := fmt.Sprintf("questions[%d]", i)
		switch model.AnswerType(in.AnswerType) {
		case model.AnswerTypeMultiple:
			if len(in.Options) < 2 {
				fields[key] = "multiple-choice questions need at least two options"
				continue
			}
			if in.CorrectAnswer == "" {
				fields[key] = "multiple-choice questions need a correct answer"
				continue
			}
			if !containsString(in.Options, in.CorrectAnswer) {
				fields[key] = "correct answer must be one of the options"
				continue
			}
		case model.AnswerTypeOpen:
			if len(in.Options) > 0 || in.CorrectAnswer != "" {
				fields[key] = "open questions take no options or correct answer"
				continue
			}
		}

		questions = append(questions, model.Question{
			ID:            uuid.New(),
			Text:          in.Text,
			Options:       in.Options,
			CorrectAnswer: in.CorrectAnswer,
			AnswerType:    model.AnswerType(in.AnswerType),
		})
	}

	if len(fields) > 0 {
		return nil, &ValidationError{Fields: fields}
	}
	return questions, nil
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

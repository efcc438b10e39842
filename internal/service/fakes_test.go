package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/quizshare/quizshare-backend/internal/model"
	"github.com/quizshare/quizshare-backend/internal/repository"
)

// In-memory store fakes. They mirror the repository contracts,
// including pgx.ErrNoRows for missing rows and the repository
// sentinel errors for unique-index conflicts.

type fakeUserStore struct {
	byID       map[uuid.UUID]*model.User
	byUsername map[string]*model.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{
		byID:       make(map[uuid.UUID]*model.User),
		byUsername: make(map[string]*model.User),
	}
}

func (f *fakeUserStore) Create(_ context.Context, u *model.User) error {
	if _, exists := f.byUsername[u.Username]; exists {
		return repository.ErrUsernameTaken
	}
	u.ID = uuid.New()
	u.CreatedAt = time.Now()
	cp := *u
	f.byID[u.ID] = &cp
	f.byUsername[u.Username] = &cp
	return nil
}

func (f *fakeUserStore) GetByUsername(_ context.Context, username string) (*model.User, error) {
	u, ok := f.byUsername[username]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUserStore) GetByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	u, ok := f.byID[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	cp := *u
	return &cp, nil
}

type fakeTestStore struct {
	byID   map[uuid.UUID]*model.Test
	bySlug map[string]*model.Test
	// slugRejections makes the next N creates fail with ErrSlugTaken,
	// simulating slug collisions.
	slugRejections int
	createCalls    int
}

func newFakeTestStore() *fakeTestStore {
	return &fakeTestStore{
		byID:   make(map[uuid.UUID]*model.Test),
		bySlug: make(map[string]*model.Test),
	}
}

func (f *fakeTestStore) Create(_ context.Context, t *model.Test) error {
	f.createCalls++
	if f.slugRejections > 0 {
		f.slugRejections--
		return repository.ErrSlugTaken
	}
	if _, exists := f.bySlug[t.Slug]; exists {
		return repository.ErrSlugTaken
	}
	t.ID = uuid.New()
	t.CreatedAt = time.Now()
	cp := *t
	f.byID[t.ID] = &cp
	f.bySlug[t.Slug] = &cp
	return nil
}

func (f *fakeTestStore) GetByID(_ context.Context, id uuid.UUID) (*model.Test, error) {
	t, ok := f.byID[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	cp := *t
	return &cp, nil
}

func (f *fakeTestStore) GetBySlug(_ context.Context, slug string) (*model.Test, error) {
	t, ok := f.bySlug[slug]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	cp := *t
	return &cp, nil
}

func (f *fakeTestStore) ListByOwner(_ context.Context, ownerID uuid.UUID) ([]model.Test, error) {
	var tests []model.Test
	for _, t := range f.byID {
		if t.OwnerID == ownerID {
			tests = append(tests, *t)
		}
	}
	return tests, nil
}

type fakeTestCache struct {
	bySlug   map[string]*model.Test
	stats    map[uuid.UUID]int64
	getErr   error
	setErr   error
	statsErr error
	getCalls int
	setCalls int
}

func newFakeTestCache() *fakeTestCache {
	return &fakeTestCache{
		bySlug: make(map[string]*model.Test),
		stats:  make(map[uuid.UUID]int64),
	}
}

func (f *fakeTestCache) GetTestBySlug(_ context.Context, slug string) (*model.Test, error) {
	f.getCalls++
	if f.getErr != nil {
		return nil, f.getErr
	}
	t, ok := f.bySlug[slug]
	if !ok {
		return nil, nil
	}
	cp := *t
	return &cp, nil
}

func (f *fakeTestCache) SetTestBySlug(_ context.Context, t *model.Test) error {
	f.setCalls++
	if f.setErr != nil {
		return f.setErr
	}
	cp := *t
	f.bySlug[t.Slug] = &cp
	return nil
}

func (f *fakeTestCache) TestStats(_ context.Context, testIDs []uuid.UUID) (map[uuid.UUID]int64, error) {
	if f.statsErr != nil {
		return nil, f.statsErr
	}
	stats := make(map[uuid.UUID]int64)
	for _, id := range testIDs {
		if n, ok := f.stats[id]; ok {
			stats[id] = n
		}
	}
	return stats, nil
}

type fakeResultStore struct {
	results   []model.Result
	createErr error
}

func (f *fakeResultStore) Create(_ context.Context, res *model.Result) error {
	if f.createErr != nil {
		return f.createErr
	}
	res.ID = uuid.New()
	res.CreatedAt = time.Now()
	f.results = append(f.results, *res)
	return nil
}

func (f *fakeResultStore) ListByTestAndStudent(_ context.Context, testID, studentID uuid.UUID) ([]model.Result, error) {
	var out []model.Result
	for _, r := range f.results {
		if r.TestID == testID && r.StudentID == studentID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeResultStore) ListByTest(_ context.Context, testID uuid.UUID) ([]model.Result, error) {
	var out []model.Result
	for _, r := range f.results {
		if r.TestID == testID {
			out = append(out, r)
		}
	}
	return out, nil
}

type fakeSubmissionQueue struct {
	events     []model.SubmissionEvent
	enqueueErr error
}

func (f *fakeSubmissionQueue) EnqueueSubmission(_ context.Context, ev model.SubmissionEvent) error {
	if f.enqueueErr != nil {
		return f.enqueueErr
	}
	f.events = append(f.events, ev)
	return nil
}

package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/quizshare/quizshare-backend/internal/config"
	"github.com/quizshare/quizshare-backend/internal/model"
	"github.com/rs/zerolog"
)

type resultFixture struct {
	svc     *ResultService
	results *fakeResultStore
	tests   *fakeTestStore
	queue   *fakeSubmissionQueue
}

func newResultFixture(cfg *config.Config) *resultFixture {
	f := &resultFixture{
		results: &fakeResultStore{},
		tests:   newFakeTestStore(),
		queue:   &fakeSubmissionQueue{},
	}
	f.svc = NewResultService(cfg, f.results, f.tests, f.queue, zerolog.Nop())
	return f
}

// seedTest puts a three-question test (two multiple, one open) into the
// store and returns it.
func (f *resultFixture) seedTest(t *testing.T, ownerID uuid.UUID) *model.Test {
	t.Helper()
	test := &model.Test{
		Title:   "Seeded",
		OwnerID: ownerID,
		Slug:    uuid.New().String(),
		Questions: []model.Question{
			mcq(uuid.New(), "Paris", "Paris", "Lyon"),
			mcq(uuid.New(), "Berlin", "Berlin", "Hamburg"),
			openQ(uuid.New()),
		},
	}
	if err := f.tests.Create(context.Background(), test); err != nil {
		t.Fatalf("seed test: %v", err)
	}
	return test
}

func TestSubmitScoresAndPersists(t *testing.T) {
	f := newResultFixture(&config.Config{})
	test := f.seedTest(t, uuid.New())
	studentID := uuid.New()

	answers := []model.Answer{
		{QuestionID: test.Questions[0].ID, SelectedAnswer: "Paris"},
		{QuestionID: test.Questions[1].ID, SelectedAnswer: "Madrid"},
		{QuestionID: test.Questions[2].ID, SelectedAnswer: "some essay"},
	}
	res, err := f.svc.Submit(context.Background(), test.ID, studentID, answers)
	if err != nil {
		t.Fatalf("Submit returned error: %v", err)
	}
	if res.Score != 1 {
		t.Errorf("score = %d, want 1", res.Score)
	}
	if res.ID == uuid.Nil {
		t.Error("result ID not assigned")
	}
	if res.StudentID != studentID {
		t.Errorf("student = %s, want %s", res.StudentID, studentID)
	}
	if len(res.Answers) != 3 {
		t.Errorf("stored %d answers, want all 3 verbatim", len(res.Answers))
	}
	if len(f.results.results) != 1 {
		t.Fatalf("store holds %d results, want 1", len(f.results.results))
	}
	if len(f.queue.events) != 1 {
		t.Fatalf("queue holds %d events, want 1", len(f.queue.events))
	}
	ev := f.queue.events[0]
	if ev.TestID != test.ID.String() || ev.Score != 1 {
		t.Errorf("event = %+v, want test %s score 1", ev, test.ID)
	}
}

func TestSubmitScoreIndependentOfAnswerOrder(t *testing.T) {
	f := newResultFixture(&config.Config{})
	test := f.seedTest(t, uuid.New())
	studentID := uuid.New()

	forward := []model.Answer{
		{QuestionID: test.Questions[0].ID, SelectedAnswer: "Paris"},
		{QuestionID: test.Questions[1].ID, SelectedAnswer: "Berlin"},
	}
	reversed := []model.Answer{
		{QuestionID: test.Questions[1].ID, SelectedAnswer: "Berlin"},
		{QuestionID: test.Questions[0].ID, SelectedAnswer: "Paris"},
	}

	a, err := f.svc.Submit(context.Background(), test.ID, studentID, forward)
	if err != nil {
		t.Fatalf("Submit returned error: %v", err)
	}
	b, err := f.svc.Submit(context.Background(), test.ID, studentID, reversed)
	if err != nil {
		t.Fatalf("Submit returned error: %v", err)
	}
	if a.Score != 2 || b.Score != 2 {
		t.Errorf("scores = %d, %d, want 2 for both orders", a.Score, b.Score)
	}
}

func TestSubmitEmptyAnswers(t *testing.T) {
	f := newResultFixture(&config.Config{})
	test := f.seedTest(t, uuid.New())

	res, err := f.svc.Submit(context.Background(), test.ID, uuid.New(), nil)
	if err != nil {
		t.Fatalf("Submit returned error: %v", err)
	}
	if res.Score != 0 {
		t.Errorf("score = %d, want 0", res.Score)
	}
	if res.Answers == nil {
		t.Error("answers stored as nil, want empty list")
	}
	if len(f.results.results) != 1 {
		t.Error("empty submission was not persisted")
	}
}

func TestSubmitUnknownTest(t *testing.T) {
	f := newResultFixture(&config.Config{})

	_, err := f.svc.Submit(context.Background(), uuid.New(), uuid.New(), nil)
	if !errors.Is(err, ErrTestNotFound) {
		t.Fatalf("error = %v, want ErrTestNotFound", err)
	}
	if len(f.results.results) != 0 {
		t.Error("result persisted for unknown test")
	}
}

func TestSubmitRetakesAppend(t *testing.T) {
	f := newResultFixture(&config.Config{})
	test := f.seedTest(t, uuid.New())
	studentID := uuid.New()
	answers := []model.Answer{
		{QuestionID: test.Questions[0].ID, SelectedAnswer: "Paris"},
	}

	first, err := f.svc.Submit(context.Background(), test.ID, studentID, answers)
	if err != nil {
		t.Fatalf("Submit returned error: %v", err)
	}
	second, err := f.svc.Submit(context.Background(), test.ID, studentID, answers)
	if err != nil {
		t.Fatalf("Submit returned error: %v", err)
	}
	if first.ID == second.ID {
		t.Error("retake reused the result ID")
	}
	if first.Score != second.Score {
		t.Errorf("scores differ across identical retakes: %d vs %d", first.Score, second.Score)
	}
	if len(f.results.results) != 2 {
		t.Errorf("store holds %d results, want 2", len(f.results.results))
	}
}

func TestSubmitSurvivesEnqueueFailure(t *testing.T) {
	f := newResultFixture(&config.Config{})
	test := f.seedTest(t, uuid.New())
	f.queue.enqueueErr = errors.New("redis down")

	res, err := f.svc.Submit(context.Background(), test.ID, uuid.New(), nil)
	if err != nil {
		t.Fatalf("Submit returned error: %v", err)
	}
	if res.ID == uuid.Nil {
		t.Error("result not persisted despite enqueue failure")
	}
}

func TestListForStudentFiltersToCaller(t *testing.T) {
	f := newResultFixture(&config.Config{})
	test := f.seedTest(t, uuid.New())
	alice := uuid.New()
	bob := uuid.New()

	if _, err := f.svc.Submit(context.Background(), test.ID, alice, nil); err != nil {
		t.Fatalf("Submit returned error: %v", err)
	}
	if _, err := f.svc.Submit(context.Background(), test.ID, alice, nil); err != nil {
		t.Fatalf("Submit returned error: %v", err)
	}
	if _, err := f.svc.Submit(context.Background(), test.ID, bob, nil); err != nil {
		t.Fatalf("Submit returned error: %v", err)
	}

	results, err := f.svc.ListForStudent(context.Background(), test.ID, alice)
	if err != nil {
		t.Fatalf("ListForStudent returned error: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}
	for _, r := range results {
		if r.StudentID != alice {
			t.Errorf("result %s belongs to %s, not the caller", r.ID, r.StudentID)
		}
	}
}

func TestListAllForTestOpenByDefault(t *testing.T) {
	f := newResultFixture(&config.Config{})
	test := f.seedTest(t, uuid.New())

	if _, err := f.svc.Submit(context.Background(), test.ID, uuid.New(), nil); err != nil {
		t.Fatalf("Submit returned error: %v", err)
	}
	if _, err := f.svc.Submit(context.Background(), test.ID, uuid.New(), nil); err != nil {
		t.Fatalf("Submit returned error: %v", err)
	}

	// Any authenticated caller, not the owner.
	results, err := f.svc.ListAllForTest(context.Background(), test.ID, uuid.New())
	if err != nil {
		t.Fatalf("ListAllForTest returned error: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}
}

func TestListAllForTestOwnerRestriction(t *testing.T) {
	f := newResultFixture(&config.Config{RestrictResultsToOwner: true})
	ownerID := uuid.New()
	test := f.seedTest(t, ownerID)

	if _, err := f.svc.Submit(context.Background(), test.ID, uuid.New(), nil); err != nil {
		t.Fatalf("Submit returned error: %v", err)
	}

	if _, err := f.svc.ListAllForTest(context.Background(), test.ID, uuid.New()); !errors.Is(err, ErrNotTestOwner) {
		t.Fatalf("non-owner error = %v, want ErrNotTestOwner", err)
	}

	results, err := f.svc.ListAllForTest(context.Background(), test.ID, ownerID)
	if err != nil {
		t.Fatalf("owner call returned error: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("owner got %d results, want 1", len(results))
	}
}

func TestListAllForTestRestrictedUnknownTest(t *testing.T) {
	f := newResultFixture(&config.Config{RestrictResultsToOwner: true})

	_, err := f.svc.ListAllForTest(context.Background(), uuid.New(), uuid.New())
	if !errors.Is(err, ErrTestNotFound) {
		t.Fatalf("error = %v, want ErrTestNotFound", err)
	}
}

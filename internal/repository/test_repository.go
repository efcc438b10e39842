package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/quizshare/quizshare-backend/internal/model"
)

// ErrSlugTaken is returned when the slug unique index rejects an insert.
var ErrSlugTaken = errors.New("test with this slug already exists")

// TestRepository handles test data access. Questions are embedded in
// the row as a JSONB array; their order is authoritative.
type TestRepository struct {
	pool *pgxpool.Pool
}

// NewTestRepository creates a new TestRepository.
func NewTestRepository(pool *pgxpool.Pool) *TestRepository {
	return &TestRepository{pool: pool}
}

// Create inserts a new test with its embedded questions.
func (r *TestRepository) Create(ctx context.Context, t *model.Test) error {
	questions, err := json.Marshal(t.Questions)
	if err != nil {
		return fmt.Errorf("marshal questions: %w", err)
	}

	err = r.pool.QueryRow(ctx,
		`INSERT INTO tests (title, owner_id, questions, slug, duration_seconds)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at`,
		t.Title, t.OwnerID, questions, t.Slug, t.DurationSeconds,
	).Scan(&t.ID, &t.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrSlugTaken
		}
		return err
	}
	return nil
}

// GetByID retrieves a test by its UUID.
func (r *TestRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Test, error) {
	return r.scanOne(r.pool.QueryRow(ctx,
		`SELECT id, title, owner_id, questions, slug, duration_seconds, created_at
		 FROM tests WHERE id = $1`, id))
}

// GetBySlug retrieves a test by its public slug.
func (r *TestRepository) GetBySlug(ctx context.Context, slug string) (*model.Test, error) {
	return r.scanOne(r.pool.QueryRow(ctx,
		`SELECT id, title, owner_id, questions, slug, duration_seconds, created_at
		 FROM tests WHERE slug = $1`, slug))
}

// ListByOwner retrieves all tests created by the given owner,
// newest first.
func (r *TestRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]model.Test, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, title, owner_id, questions, slug, duration_seconds, created_at
		 FROM tests WHERE owner_id = $1
		 ORDER BY created_at DESC`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tests []model.Test
	for rows.Next() {
		var (
			t   model.Test
			raw []byte
		)
		if err := rows.Scan(&t.ID, &t.Title, &t.OwnerID, &raw, &t.Slug, &t.DurationSeconds, &t.CreatedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(raw, &t.Questions); err != nil {
			return nil, fmt.Errorf("unmarshal questions: %w", err)
		}
		tests = append(tests, t)
	}
	return tests, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *TestRepository) scanOne(row rowScanner) (*model.Test, error) {
	var (
		t   model.Test
		raw []byte
	)
	err := row.Scan(&t.ID, &t.Title, &t.OwnerID, &raw, &t.Slug, &t.DurationSeconds, &t.CreatedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(raw, &t.Questions); err != nil {
		return nil, fmt.Errorf("unmarshal questions: %w", err)
	}
	return &t, nil
}

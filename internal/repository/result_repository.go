package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/quizshare/quizshare-backend/internal/model"
)

// ResultRepository handles result data access. Results are append-only:
// there is no update or delete path.
type ResultRepository struct {
	pool *pgxpool.Pool
}

// NewResultRepository creates a new ResultRepository.
func NewResultRepository(pool *pgxpool.Pool) *ResultRepository {
	return &ResultRepository{pool: pool}
}

// Create inserts a new result. Answers are stored verbatim, in the
// order the client submitted them.
func (r *ResultRepository) Create(ctx context.Context, res *model.Result) error {
	answers, err := json.Marshal(res.Answers)
	if err != nil {
		return fmt.Errorf("marshal answers: %w", err)
	}

	return r.pool.QueryRow(ctx,
		`INSERT INTO results (test_id, student_id, answers, score)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at`,
		res.TestID, res.StudentID, answers, res.Score,
	).Scan(&res.ID, &res.CreatedAt)
}

// ListByTestAndStudent retrieves all results one student produced for a
// test, oldest first.
func (r *ResultRepository) ListByTestAndStudent(ctx context.Context, testID, studentID uuid.UUID) ([]model.Result, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, test_id, student_id, answers, score, created_at
		 FROM results
		 WHERE test_id = $1 AND student_id = $2
		 ORDER BY created_at ASC`, testID, studentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanResults(rows)
}

// ListByTest retrieves all results for a test, oldest first.
func (r *ResultRepository) ListByTest(ctx context.Context, testID uuid.UUID) ([]model.Result, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, test_id, student_id, answers, score, created_at
		 FROM results
		 WHERE test_id = $1
		 ORDER BY created_at ASC`, testID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanResults(rows)
}

func scanResults(rows pgx.Rows) ([]model.Result, error) {
	var results []model.Result
	for rows.Next() {
		var (
			res model.Result
			raw []byte
		)
		if err := rows.Scan(&res.ID, &res.TestID, &res.StudentID, &raw, &res.Score, &res.CreatedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(raw, &res.Answers); err != nil {
			return nil, fmt.Errorf("unmarshal answers: %w", err)
		}
		results = append(results, res)
	}
	return results, rows.Err()
}

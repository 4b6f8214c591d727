package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"splatbot/internal/models"
)

type QuizRepo struct {
	pool *pgxpool.Pool
}

func NewQuizRepo(pool *pgxpool.Pool) *QuizRepo {
	return &QuizRepo{pool: pool}
}

func (r *QuizRepo) CreateSession(ctx context.Context, q *models.QuizSession) error {
	q.ID = uuid.New()

	query := `
		INSERT INTO quiz_sessions (id, user_id, quiz_type, category, total_questions)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING started_at`

	return r.pool.QueryRow(ctx, query,
		q.ID, q.UserID, q.QuizType, q.Category, q.TotalQuestions,
	).Scan(&q.StartedAt)
}

func (r *QuizRepo) GetSessionByID(ctx context.Context, id uuid.UUID) (*models.QuizSession, error) {
	q := &models.QuizSession{}
	query := `SELECT id, user_id, quiz_type, category, total_questions, correct_answers, score, started_at, completed_at
		FROM quiz_sessions WHERE id = $1`

	err := r.pool.QueryRow(ctx, query, id).Scan(
		&q.ID, &q.UserID, &q.QuizType, &q.Category, &q.TotalQuestions,
		&q.CorrectAnswers, &q.Score, &q.StartedAt, &q.CompletedAt,
	)
	if err != nil {
		return nil, err
	}
	return q, nil
}

// CompleteSession stamps the completion time and final tallies. The WHERE
// guard makes the stamp one-shot: a second call finds no row to update and
// leaves the first result intact.
func (r *QuizRepo) CompleteSession(ctx context.Context, id uuid.UUID, correctAnswers int, score float64) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE quiz_sessions
		SET completed_at = NOW(), correct_answers = $2, score = $3
		WHERE id = $1 AND completed_at IS NULL
	`, id, correctAnswers, score)
	return err
}

func (r *QuizRepo) CountCompletedByUser(ctx context.Context, userID uuid.UUID) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx,
		"SELECT COUNT(*) FROM quiz_sessions WHERE user_id = $1 AND completed_at IS NOT NULL", userID,
	).Scan(&count)
	return count, err
}

func (r *QuizRepo) LastCompletedAt(ctx context.Context, userID uuid.UUID) (*time.Time, error) {
	var ts pgtype.Timestamptz
	err := r.pool.QueryRow(ctx,
		"SELECT MAX(completed_at) FROM quiz_sessions WHERE user_id = $1", userID,
	).Scan(&ts)
	if err != nil {
		return nil, err
	}

	if !ts.Valid {
		return nil, nil
	}

	t := ts.Time
	return &t, nil
}

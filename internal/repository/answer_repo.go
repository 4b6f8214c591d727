package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"splatbot/internal/models"
)

type AnswerRepo struct {
	pool *pgxpool.Pool
}

func NewAnswerRepo(pool *pgxpool.Pool) *AnswerRepo {
	return &AnswerRepo{pool: pool}
}

func (r *AnswerRepo) Create(ctx context.Context, a *models.AnswerRecord) error {
	a.ID = uuid.New()

	query := `
		INSERT INTO user_answers (id, user_id, question_id, selected_answer, is_correct, time_taken_seconds)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING answered_at`

	return r.pool.QueryRow(ctx, query,
		a.ID, a.UserID, a.QuestionID, a.SelectedAnswer, a.IsCorrect, a.TimeTakenSeconds,
	).Scan(&a.AnsweredAt)
}

// CategoryBreakdown groups a user's answer history by the owning question's
// category. Categories the user never answered in do not appear.
func (r *AnswerRepo) CategoryBreakdown(ctx context.Context, userID uuid.UUID) ([]models.CategoryStat, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT q.category,
			COUNT(a.id) AS total,
			COUNT(a.id) FILTER (WHERE a.is_correct) AS correct
		FROM user_answers a
		JOIN questions q ON q.id = a.question_id
		WHERE a.user_id = $1
		GROUP BY q.category
		ORDER BY q.category
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stats := make([]models.CategoryStat, 0)
	for rows.Next() {
		var s models.CategoryStat
		if err := rows.Scan(&s.Category, &s.Total, &s.Correct); err != nil {
			return nil, err
		}
		if s.Total > 0 {
			s.Accuracy = float64(s.Correct) / float64(s.Total) * 100
		}
		stats = append(stats, s)
	}
	return stats, rows.Err()
}

func (r *AnswerRepo) CountByUser(ctx context.Context, userID uuid.UUID) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM user_answers WHERE user_id = $1", userID).Scan(&count)
	return count, err
}

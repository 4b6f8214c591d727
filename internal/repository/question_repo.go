package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"splatbot/internal/models"
)

// SplatSubcategories are the sample-program-derived question groups.
var SplatSubcategories = []string{"badlex", "badparse", "badsemantics", "badexecution", "goodexecution"}

type QuestionRepo struct {
	pool *pgxpool.Pool
}

func NewQuestionRepo(pool *pgxpool.Pool) *QuestionRepo {
	return &QuestionRepo{pool: pool}
}

const questionColumns = `id, category, subcategory, question_text, code,
	option_a, option_b, option_c, option_d, option_e,
	correct_answer, explanation, difficulty,
	source_file, line_number, column_number, created_at`

func scanQuestion(row pgx.Row) (*models.Question, error) {
	q := &models.Question{}
	err := row.Scan(
		&q.ID, &q.Category, &q.Subcategory, &q.QuestionText, &q.Code,
		&q.OptionA, &q.OptionB, &q.OptionC, &q.OptionD, &q.OptionE,
		&q.CorrectAnswer, &q.Explanation, &q.Difficulty,
		&q.SourceFile, &q.LineNumber, &q.ColumnNumber, &q.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return q, nil
}

func (r *QuestionRepo) Create(ctx context.Context, q *models.Question) error {
	q.ID = uuid.New()
	if q.Difficulty == "" {
		q.Difficulty = "medium"
	}

	query := `
		INSERT INTO questions (id, category, subcategory, question_text, code,
			option_a, option_b, option_c, option_d, option_e,
			correct_answer, explanation, difficulty,
			source_file, line_number, column_number)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		RETURNING created_at`

	return r.pool.QueryRow(ctx, query,
		q.ID, q.Category, q.Subcategory, q.QuestionText, q.Code,
		q.OptionA, q.OptionB, q.OptionC, q.OptionD, q.OptionE,
		q.CorrectAnswer, q.Explanation, q.Difficulty,
		q.SourceFile, q.LineNumber, q.ColumnNumber,
	).Scan(&q.CreatedAt)
}

// Exists reports whether a question with the same ingestion identity
// (source_file, question_text) is already stored.
func (r *QuestionRepo) Exists(ctx context.Context, sourceFile *string, questionText string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM questions
			WHERE COALESCE(source_file, '') = COALESCE($1, '') AND question_text = $2
		)
	`, sourceFile, questionText).Scan(&exists)
	return exists, err
}

func (r *QuestionRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Question, error) {
	query := `SELECT ` + questionColumns + ` FROM questions WHERE id = $1`
	return scanQuestion(r.pool.QueryRow(ctx, query, id))
}

func (r *QuestionRepo) collect(ctx context.Context, query string, args ...interface{}) ([]*models.Question, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var questions []*models.Question
	for rows.Next() {
		q, err := scanQuestion(rows)
		if err != nil {
			return nil, err
		}
		questions = append(questions, q)
	}
	return questions, rows.Err()
}

// RandomByCategory samples up to limit questions from one category. A single
// SELECT cannot return the same row twice, so a draw never repeats a question.
// An empty result is a valid outcome, not an error.
func (r *QuestionRepo) RandomByCategory(ctx context.Context, category string, limit int) ([]*models.Question, error) {
	query := `SELECT ` + questionColumns + ` FROM questions
		WHERE category = $1 ORDER BY RANDOM() LIMIT $2`
	return r.collect(ctx, query, category, limit)
}

func (r *QuestionRepo) RandomBySubcategory(ctx context.Context, subcategory string, limit int) ([]*models.Question, error) {
	query := `SELECT ` + questionColumns + ` FROM questions
		WHERE subcategory = $1 ORDER BY RANDOM() LIMIT $2`
	return r.collect(ctx, query, subcategory, limit)
}

func (r *QuestionRepo) RandomAcross(ctx context.Context, limit int) ([]*models.Question, error) {
	query := `SELECT ` + questionColumns + ` FROM questions
		ORDER BY RANDOM() LIMIT $1`
	return r.collect(ctx, query, limit)
}

// RandomSplat samples across all sample-program-derived subcategories.
func (r *QuestionRepo) RandomSplat(ctx context.Context, limit int) ([]*models.Question, error) {
	query := `SELECT ` + questionColumns + ` FROM questions
		WHERE subcategory = ANY($1) ORDER BY RANDOM() LIMIT $2`
	return r.collect(ctx, query, SplatSubcategories, limit)
}

func (r *QuestionRepo) CountAll(ctx context.Context) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM questions").Scan(&count)
	return count, err
}

func (r *QuestionRepo) CountByCategory(ctx context.Context) (map[string]int, error) {
	rows, err := r.pool.Query(ctx, "SELECT category, COUNT(*) FROM questions GROUP BY category")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var category string
		var count int
		if err := rows.Scan(&category, &count); err != nil {
			return nil, err
		}
		counts[category] = count
	}
	return counts, rows.Err()
}

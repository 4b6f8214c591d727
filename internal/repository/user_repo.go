package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"splatbot/internal/models"
)

type UserRepo struct {
	pool *pgxpool.Pool
}

func NewUserRepo(pool *pgxpool.Pool) *UserRepo {
	return &UserRepo{pool: pool}
}

func (r *UserRepo) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (id, telegram_id, username, first_name)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at, last_active`

	user.ID = uuid.New()

	return r.pool.QueryRow(ctx, query,
		user.ID, user.TelegramID, user.Username, user.FirstName,
	).Scan(&user.CreatedAt, &user.LastActive)
}

func (r *UserRepo) GetByTelegramID(ctx context.Context, telegramID int64) (*models.User, error) {
	user := &models.User{}
	query := `SELECT id, telegram_id, username, first_name, created_at, last_active,
			total_answered, correct_answers, current_streak, best_streak
		FROM users WHERE telegram_id = $1`

	err := r.pool.QueryRow(ctx, query, telegramID).Scan(
		&user.ID, &user.TelegramID, &user.Username, &user.FirstName,
		&user.CreatedAt, &user.LastActive,
		&user.TotalAnswered, &user.CorrectAnswers, &user.CurrentStreak, &user.BestStreak,
	)
	if err != nil {
		return nil, err
	}
	return user, nil
}

// GetOrCreate returns the profile for a telegram id, creating it on first
// contact. Profiles are never deleted.
func (r *UserRepo) GetOrCreate(ctx context.Context, telegramID int64, username, firstName *string) (*models.User, error) {
	user, err := r.GetByTelegramID(ctx, telegramID)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	user = &models.User{
		TelegramID: telegramID,
		Username:   username,
		FirstName:  firstName,
	}
	if err := r.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// ApplyAnswer folds one graded answer into the profile counters. A correct
// answer extends the running streak and may raise the best streak; an
// incorrect one resets the running streak without touching the best.
func (r *UserRepo) ApplyAnswer(ctx context.Context, telegramID int64, correct bool) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE users SET
			total_answered = total_answered + 1,
			correct_answers = correct_answers + CASE WHEN $2 THEN 1 ELSE 0 END,
			current_streak = CASE WHEN $2 THEN current_streak + 1 ELSE 0 END,
			best_streak = GREATEST(best_streak, CASE WHEN $2 THEN current_streak + 1 ELSE 0 END),
			last_active = NOW()
		WHERE telegram_id = $1
	`, telegramID, correct)
	return err
}

func (r *UserRepo) TouchLastActive(ctx context.Context, telegramID int64) error {
	_, err := r.pool.Exec(ctx, "UPDATE users SET last_active = $1 WHERE telegram_id = $2", time.Now(), telegramID)
	return err
}

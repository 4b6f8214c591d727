package models

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID         uuid.UUID `json:"id"`
	TelegramID int64     `json:"telegram_id"`
	Username   *string   `json:"username"`
	FirstName  *string   `json:"first_name"`
	CreatedAt  time.Time `json:"created_at"`
	LastActive time.Time `json:"last_active"`

	TotalAnswered  int `json:"total_answered"`
	CorrectAnswers int `json:"correct_answers"`
	CurrentStreak  int `json:"current_streak"`
	BestStreak     int `json:"best_streak"`
}

// Accuracy is the user's overall answer accuracy in percent.
func (u *User) Accuracy() float64 {
	if u.TotalAnswered == 0 {
		return 0
	}
	return float64(u.CorrectAnswers) / float64(u.TotalAnswered) * 100
}

// DisplayName prefers the first name, falling back to the username.
func (u *User) DisplayName() string {
	if u.FirstName != nil && *u.FirstName != "" {
		return *u.FirstName
	}
	if u.Username != nil && *u.Username != "" {
		return *u.Username
	}
	return "student"
}

package models

import (
	"time"

	"github.com/google/uuid"
)

type QuizSession struct {
	ID             uuid.UUID  `json:"id"`
	UserID         uuid.UUID  `json:"user_id"`
	QuizType       string     `json:"quiz_type"`
	Category       string     `json:"category"`
	TotalQuestions int        `json:"total_questions"`
	CorrectAnswers int        `json:"correct_answers"`
	Score          float64    `json:"score"`
	StartedAt      time.Time  `json:"started_at"`
	CompletedAt    *time.Time `json:"completed_at"`
}

// IsCompleted reports whether the session has been finalized.
func (q *QuizSession) IsCompleted() bool {
	return q.CompletedAt != nil
}

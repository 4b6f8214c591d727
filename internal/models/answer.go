package models

import (
	"time"

	"github.com/google/uuid"
)

// AnswerRecord is one graded answer. Rows are append-only; IsCorrect is fixed
// at grading time and never rewritten.
type AnswerRecord struct {
	ID               uuid.UUID `json:"id"`
	UserID           uuid.UUID `json:"user_id"`
	QuestionID       uuid.UUID `json:"question_id"`
	SelectedAnswer   string    `json:"selected_answer"`
	IsCorrect        bool      `json:"is_correct"`
	TimeTakenSeconds *int      `json:"time_taken_seconds"`
	AnsweredAt       time.Time `json:"answered_at"`
}

// CategoryStat is one row of a per-category accuracy breakdown.
type CategoryStat struct {
	Category string  `json:"category"`
	Total    int     `json:"total"`
	Correct  int     `json:"correct"`
	Accuracy float64 `json:"accuracy"`
}

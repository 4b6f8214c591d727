package models

import (
	"time"

	"github.com/google/uuid"
)

// OptionLetters are the labels a question may use, in storage order.
var OptionLetters = []string{"A", "B", "C", "D", "E"}

type Question struct {
	ID           uuid.UUID `json:"id"`
	Category     string    `json:"category"`
	Subcategory  *string   `json:"subcategory"`
	QuestionText string    `json:"question_text"`
	Code         *string   `json:"code"`
	OptionA      string    `json:"option_a"`
	OptionB      string    `json:"option_b"`
	OptionC      *string   `json:"option_c"`
	OptionD      *string   `json:"option_d"`
	OptionE      *string   `json:"option_e"`
	CorrectAnswer string   `json:"correct_answer"`
	Explanation  string    `json:"explanation"`
	Difficulty   string    `json:"difficulty"`
	SourceFile   *string   `json:"source_file"`
	LineNumber   *int      `json:"line_number"`
	ColumnNumber *int      `json:"column_number"`
	CreatedAt    time.Time `json:"created_at"`
}

// Option pairs a stored letter with its text.
type Option struct {
	Letter string
	Text   string
}

// Options returns the present options in storage order. A and B are always
// present; C through E only when set.
func (q *Question) Options() []Option {
	opts := []Option{
		{Letter: "A", Text: q.OptionA},
		{Letter: "B", Text: q.OptionB},
	}
	for _, extra := range []struct {
		letter string
		text   *string
	}{
		{"C", q.OptionC},
		{"D", q.OptionD},
		{"E", q.OptionE},
	} {
		if extra.text != nil && *extra.text != "" {
			opts = append(opts, Option{Letter: extra.letter, Text: *extra.text})
		}
	}
	return opts
}

// OptionText returns the text behind a letter, or "" when the letter is not
// a present option.
func (q *Question) OptionText(letter string) string {
	for _, opt := range q.Options() {
		if opt.Letter == letter {
			return opt.Text
		}
	}
	return ""
}

// CorrectOptionText returns the text of the stored correct option.
func (q *Question) CorrectOptionText() string {
	return q.OptionText(q.CorrectAnswer)
}

package ingest

import (
	"fmt"

	"splatbot/internal/models"
)

// Draft is one question record as it appears in a batch file. Optionality is
// explicit here and checked before anything reaches the store.
type Draft struct {
	Category     string  `json:"category"`
	Subcategory  *string `json:"subcategory,omitempty"`
	QuestionText string  `json:"question_text"`
	Code         *string `json:"code,omitempty"`
	OptionA      string  `json:"option_a"`
	OptionB      string  `json:"option_b"`
	OptionC      *string `json:"option_c,omitempty"`
	OptionD      *string `json:"option_d,omitempty"`
	OptionE      *string `json:"option_e,omitempty"`
	CorrectAnswer string `json:"correct_answer"`
	Explanation  string  `json:"explanation"`
	Difficulty   string  `json:"difficulty,omitempty"`
	SourceFile   *string `json:"source_file,omitempty"`
	LineNumber   *int    `json:"line_number,omitempty"`
	ColumnNumber *int    `json:"column_number,omitempty"`
}

// Validate checks the required/optional field contract. Options A and B must
// be present; the correct letter must label a present option.
func (d *Draft) Validate() error {
	if d.Category == "" {
		return fmt.Errorf("missing category")
	}
	if d.QuestionText == "" {
		return fmt.Errorf("missing question_text")
	}
	if d.OptionA == "" || d.OptionB == "" {
		return fmt.Errorf("options A and B are required")
	}
	if d.Explanation == "" {
		return fmt.Errorf("missing explanation")
	}

	switch d.CorrectAnswer {
	case "A", "B":
	case "C":
		if d.OptionC == nil || *d.OptionC == "" {
			return fmt.Errorf("correct_answer C but option_c is absent")
		}
	case "D":
		if d.OptionD == nil || *d.OptionD == "" {
			return fmt.Errorf("correct_answer D but option_d is absent")
		}
	case "E":
		if d.OptionE == nil || *d.OptionE == "" {
			return fmt.Errorf("correct_answer E but option_e is absent")
		}
	default:
		return fmt.Errorf("correct_answer %q is not a letter A-E", d.CorrectAnswer)
	}

	return nil
}

// ToQuestion builds the immutable store record. Difficulty defaults to
// "medium", as in the batch format.
func (d *Draft) ToQuestion() *models.Question {
	difficulty := d.Difficulty
	if difficulty == "" {
		difficulty = "medium"
	}

	return &models.Question{
		Category:      d.Category,
		Subcategory:   d.Subcategory,
		QuestionText:  d.QuestionText,
		Code:          d.Code,
		OptionA:       d.OptionA,
		OptionB:       d.OptionB,
		OptionC:       d.OptionC,
		OptionD:       d.OptionD,
		OptionE:       d.OptionE,
		CorrectAnswer: d.CorrectAnswer,
		Explanation:   d.Explanation,
		Difficulty:    difficulty,
		SourceFile:    d.SourceFile,
		LineNumber:    d.LineNumber,
		ColumnNumber:  d.ColumnNumber,
	}
}

package ingest

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"splatbot/internal/models"
)

func strPtr(s string) *string { return &s }

func TestDraftValidate(t *testing.T) {
	valid := Draft{
		Category:      "lexer",
		QuestionText:  "What does the lexer produce?",
		OptionA:       "Tokens",
		OptionB:       "An AST",
		CorrectAnswer: "A",
		Explanation:   "Phase 1 turns characters into tokens.",
	}

	tests := []struct {
		name    string
		mutate  func(d *Draft)
		wantErr bool
	}{
		{"valid minimal", func(d *Draft) {}, false},
		{"missing category", func(d *Draft) { d.Category = "" }, true},
		{"missing question text", func(d *Draft) { d.QuestionText = "" }, true},
		{"missing option b", func(d *Draft) { d.OptionB = "" }, true},
		{"missing explanation", func(d *Draft) { d.Explanation = "" }, true},
		{"lowercase letter", func(d *Draft) { d.CorrectAnswer = "a" }, true},
		{"letter out of range", func(d *Draft) { d.CorrectAnswer = "F" }, true},
		{"correct C without option C", func(d *Draft) { d.CorrectAnswer = "C" }, true},
		{"correct C with option C", func(d *Draft) {
			d.CorrectAnswer = "C"
			d.OptionC = strPtr("Bytecode")
		}, false},
		{"correct E with option E", func(d *Draft) {
			d.CorrectAnswer = "E"
			d.OptionE = strPtr("Nothing")
		}, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			d := valid
			tc.mutate(&d)

			err := d.Validate()
			if tc.wantErr && err == nil {
				t.Error("Expected validation error, got nil")
			}
			if !tc.wantErr && err != nil {
				t.Errorf("Expected valid draft, got %v", err)
			}
		})
	}
}

func TestDraftToQuestion_DefaultsDifficulty(t *testing.T) {
	d := Draft{
		Category:      "cfg",
		QuestionText:  "What does BNF describe?",
		OptionA:       "Grammar",
		OptionB:       "Tokens",
		CorrectAnswer: "A",
		Explanation:   "BNF is grammar notation.",
	}

	q := d.ToQuestion()
	if q.Difficulty != "medium" {
		t.Errorf("Expected default difficulty 'medium', got %q", q.Difficulty)
	}
}

type memoryStore struct {
	questions []*models.Question
}

func (m *memoryStore) Exists(_ context.Context, sourceFile *string, questionText string) (bool, error) {
	for _, q := range m.questions {
		sameSource := (q.SourceFile == nil && sourceFile == nil) ||
			(q.SourceFile != nil && sourceFile != nil && *q.SourceFile == *sourceFile)
		if sameSource && q.QuestionText == questionText {
			return true, nil
		}
	}
	return false, nil
}

func (m *memoryStore) Create(_ context.Context, q *models.Question) error {
	m.questions = append(m.questions, q)
	return nil
}

func writeBatch(t *testing.T, dir, name string, drafts []Draft) {
	t.Helper()

	data, err := json.Marshal(drafts)
	if err != nil {
		t.Fatalf("Failed to marshal batch: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, name), data, 0o644); err != nil {
		t.Fatalf("Failed to write batch file: %v", err)
	}
}

func TestLoadAll_Idempotent(t *testing.T) {
	dir := t.TempDir()
	writeBatch(t, dir, "splat_tests.json", []Draft{
		{
			Category:      "lexer",
			Subcategory:   strPtr("badlex"),
			QuestionText:  "What exception does this SPLAT code throw?",
			OptionA:       "LexException",
			OptionB:       "ParseException",
			CorrectAnswer: "A",
			Explanation:   "Invalid character.",
			SourceFile:    strPtr("test_badlex_1.splat"),
		},
		{
			Category:      "lexer",
			Subcategory:   strPtr("badlex"),
			QuestionText:  "What exception does this SPLAT code throw?",
			OptionA:       "LexException",
			OptionB:       "ParseException",
			CorrectAnswer: "A",
			Explanation:   "Unclosed string.",
			SourceFile:    strPtr("test_badlex_2.splat"),
		},
	})

	store := &memoryStore{}
	loader := NewLoader(dir, store)

	first, err := loader.LoadAll(context.Background())
	if err != nil {
		t.Fatalf("First load failed: %v", err)
	}
	if first.Inserted != 2 {
		t.Errorf("Expected 2 inserted, got %d", first.Inserted)
	}

	second, err := loader.LoadAll(context.Background())
	if err != nil {
		t.Fatalf("Second load failed: %v", err)
	}
	if second.Inserted != 0 {
		t.Errorf("Expected re-run to insert nothing, got %d", second.Inserted)
	}
	if second.Skipped != 2 {
		t.Errorf("Expected 2 skipped on re-run, got %d", second.Skipped)
	}
	if len(store.questions) != 2 {
		t.Errorf("Expected store row count unchanged at 2, got %d", len(store.questions))
	}
}

func TestLoadAll_SkipsInvalidRecords(t *testing.T) {
	dir := t.TempDir()
	writeBatch(t, dir, "compiler_phases.json", []Draft{
		{
			Category:      "parser",
			QuestionText:  "What does the parser build?",
			OptionA:       "An AST",
			OptionB:       "Tokens",
			CorrectAnswer: "A",
			Explanation:   "Phase 2 builds the tree.",
		},
		{
			// missing correct_answer
			Category:     "parser",
			QuestionText: "Broken record",
			OptionA:      "X",
			OptionB:      "Y",
			Explanation:  "n/a",
		},
	})

	store := &memoryStore{}
	result, err := NewLoader(dir, store).LoadAll(context.Background())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if result.Inserted != 1 {
		t.Errorf("Expected 1 inserted, got %d", result.Inserted)
	}
	if result.Skipped != 1 {
		t.Errorf("Expected 1 skipped, got %d", result.Skipped)
	}
}

func TestLoadAll_MissingFileIsNotFatal(t *testing.T) {
	store := &memoryStore{}
	result, err := NewLoader(t.TempDir(), store).LoadAll(context.Background())
	if err != nil {
		t.Fatalf("Expected missing batch files to be tolerated, got %v", err)
	}
	if result.Inserted != 0 {
		t.Errorf("Expected nothing inserted, got %d", result.Inserted)
	}
}

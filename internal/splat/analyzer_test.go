package splat

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestAnalyze_ClassifiesByFilenameToken(t *testing.T) {
	tests := []struct {
		name         string
		filename     string
		source       string
		wantCategory string
		wantSub      string
		wantCorrect  string
	}{
		{
			"bad lex", "test_badlex_1.splat", `program x begin a := 1 @ end`,
			"lexer", "badlex", "A",
		},
		{
			"bad parse", "test_badparse_3.splat", `x := 1`,
			"parser", "badparse", "B",
		},
		{
			"bad semantics", "test_badsemantics_type_2.splat", "program x begin a := true end",
			"semantics", "badsemantics", "C",
		},
		{
			"bad execution", "test_badexecution_1.splat", `program x begin a := 1 / 0 end`,
			"executor", "badexecution", "D",
		},
		{
			"good execution", "test_goodexecution_5.splat", `program x begin print "hi" end`,
			"executor", "goodexecution", "E",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			draft, ok := Analyze(tc.filename, tc.source)
			if !ok {
				t.Fatalf("Expected %s to classify", tc.filename)
			}

			if draft.Category != tc.wantCategory {
				t.Errorf("Expected category %q, got %q", tc.wantCategory, draft.Category)
			}
			if draft.Subcategory == nil || *draft.Subcategory != tc.wantSub {
				t.Errorf("Expected subcategory %q, got %v", tc.wantSub, draft.Subcategory)
			}
			if draft.CorrectAnswer != tc.wantCorrect {
				t.Errorf("Expected correct answer %q, got %q", tc.wantCorrect, draft.CorrectAnswer)
			}
			if draft.SourceFile == nil || *draft.SourceFile != tc.filename {
				t.Errorf("Expected source file %q, got %v", tc.filename, draft.SourceFile)
			}
			if err := draft.Validate(); err != nil {
				t.Errorf("Generated draft does not validate: %v", err)
			}
		})
	}
}

func TestAnalyze_UnknownFilename(t *testing.T) {
	if _, ok := Analyze("readme.txt", "whatever"); ok {
		t.Error("Expected unmatched filename to produce no draft")
	}
}

func TestAnalyze_FirstMatchWins(t *testing.T) {
	// a filename carrying two tokens classifies by rule order, not position
	draft, ok := Analyze("test_badlex_then_badparse.splat", "program { }")
	if !ok {
		t.Fatal("Expected classification")
	}
	if draft.Category != "lexer" {
		t.Errorf("Expected the earlier rule (lexer) to win, got %q", draft.Category)
	}
}

func TestLexReason(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   string
	}{
		{"braces", "program { }", "braces"},
		{"standalone bang", "a ! b", "standalone"},
		{"plain assignment", "a = 1", "':=' for assignment"},
		{"unclosed string", `print "oops`, "not properly closed"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			reason := lexReason(tc.source)
			if !strings.Contains(reason, tc.want) {
				t.Errorf("Expected reason containing %q, got %q", tc.want, reason)
			}
		})
	}
}

func TestParseReason(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   string
	}{
		{"no program keyword", "begin end", "'program' keyword"},
		{"unbalanced begin end", "program x begin begin end", "mismatched 'begin' and 'end'"},
		{"no statements", "program x begin end", "invalid statement syntax"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			reason := parseReason(tc.source)
			if !strings.Contains(reason, tc.want) {
				t.Errorf("Expected reason containing %q, got %q", tc.want, reason)
			}
		})
	}
}

func TestPredictOutput(t *testing.T) {
	source := `program greet begin print "Hello" print " world" end`
	if got := predictOutput(source); got != "Hello world" {
		t.Errorf("Expected concatenated literals, got %q", got)
	}

	if got := predictOutput("program x begin print a end"); got != "program output" {
		t.Errorf("Expected placeholder for non-literal prints, got %q", got)
	}
}

func TestAnalyzeDir(t *testing.T) {
	dir := t.TempDir()

	files := map[string]string{
		"test_badlex_1.splat":        "program x begin a := 1 @ end",
		"test_goodexecution_1.splat": `program x begin print "ok" end`,
		"notes.txt":                  "not a test program",
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatalf("Failed to write fixture: %v", err)
		}
	}

	drafts, err := AnalyzeDir(dir)
	if err != nil {
		t.Fatalf("AnalyzeDir failed: %v", err)
	}

	if len(drafts) != 2 {
		t.Fatalf("Expected 2 drafts, got %d", len(drafts))
	}
	for _, d := range drafts {
		if err := d.Validate(); err != nil {
			t.Errorf("Draft from %v does not validate: %v", d.SourceFile, err)
		}
	}
}

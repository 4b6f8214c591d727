// Package splat turns sample SPLAT test programs into quiz question drafts.
// The classification is a filename/substring heuristic, not an analysis of
// the language: it is best-effort by construction.
package splat

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"splatbot/internal/ingest"
)

// rule maps a filename token to a question builder. Rules are tried in
// order; the first token found in the filename wins.
type rule struct {
	token string
	build func(filename, source string) ingest.Draft
}

var rules = []rule{
	{"_badlex", lexQuestion},
	{"_badparse", parseQuestion},
	{"_badsemantics", semanticQuestion},
	{"_badexecution", executionQuestion},
	{"_goodexecution", goodExecutionQuestion},
}

// Analyze classifies one test program by its filename and produces a quiz
// question draft. The second return is false when no rule matches.
func Analyze(filename, source string) (ingest.Draft, bool) {
	for _, r := range rules {
		if strings.Contains(filename, r.token) {
			return r.build(filename, strings.TrimSpace(source)), true
		}
	}
	return ingest.Draft{}, false
}

// AnalyzeDir runs Analyze over every *.splat file in dir. Unreadable or
// unclassifiable files are skipped.
func AnalyzeDir(dir string) ([]ingest.Draft, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "*.splat"))
	if err != nil {
		return nil, err
	}

	var drafts []ingest.Draft
	for _, path := range matches {
		source, err := os.ReadFile(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: cannot read %s: %v\n", path, err)
			continue
		}

		draft, ok := Analyze(filepath.Base(path), string(source))
		if !ok {
			continue
		}
		drafts = append(drafts, draft)
	}

	return drafts, nil
}

func strPtr(s string) *string { return &s }

// exceptionOptions is the standard option set for "which exception" questions.
func exceptionOptions(d *ingest.Draft) {
	d.OptionA = "LexException - Invalid character"
	d.OptionB = "ParseException - Syntax error"
	d.OptionC = strPtr("SemanticAnalysisException - Type error")
	d.OptionD = strPtr("ExecutionException - Runtime error")
	d.OptionE = strPtr("No exception (executes successfully)")
}

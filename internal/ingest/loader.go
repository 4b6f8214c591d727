package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"splatbot/internal/models"
)

// BatchFiles are the fixed question sources, in load order.
var BatchFiles = []string{
	"splat_tests.json",
	"cfg_grammar.json",
	"compiler_phases.json",
	"java_basics.json",
}

// QuestionStore is the write side the loader needs.
type QuestionStore interface {
	Exists(ctx context.Context, sourceFile *string, questionText string) (bool, error)
	Create(ctx context.Context, q *models.Question) error
}

type Loader struct {
	dir   string
	store QuestionStore
}

func NewLoader(dir string, store QuestionStore) *Loader {
	return &Loader{dir: dir, store: store}
}

// Result counts one loader run.
type Result struct {
	Inserted int
	Skipped  int // already present or invalid
}

// LoadAll ingests every batch file. Idempotent: records already stored under
// the same (source_file, question_text) identity are skipped, so a re-run
// with the same inputs inserts nothing. A missing file is a warning; an
// invalid record is skipped, not fatal.
func (l *Loader) LoadAll(ctx context.Context) (Result, error) {
	var result Result

	for _, filename := range BatchFiles {
		drafts, err := l.readBatch(filename)
		if err != nil {
			log.Printf("Warning: skipping %s: %v", filename, err)
			continue
		}

		for i := range drafts {
			inserted, err := l.ingest(ctx, &drafts[i])
			if err != nil {
				return result, fmt.Errorf("failed to ingest %s record %d: %w", filename, i, err)
			}
			if inserted {
				result.Inserted++
			} else {
				result.Skipped++
			}
		}
	}

	return result, nil
}

func (l *Loader) readBatch(filename string) ([]Draft, error) {
	data, err := os.ReadFile(filepath.Join(l.dir, filename))
	if err != nil {
		return nil, err
	}

	var drafts []Draft
	if err := json.Unmarshal(data, &drafts); err != nil {
		return nil, fmt.Errorf("failed to parse batch: %w", err)
	}
	return drafts, nil
}

func (l *Loader) ingest(ctx context.Context, d *Draft) (bool, error) {
	if err := d.Validate(); err != nil {
		log.Printf("Warning: invalid question record skipped: %v", err)
		return false, nil
	}

	exists, err := l.store.Exists(ctx, d.SourceFile, d.QuestionText)
	if err != nil {
		return false, err
	}
	if exists {
		// duplicate ingestion is not an error
		return false, nil
	}

	if err := l.store.Create(ctx, d.ToQuestion()); err != nil {
		return false, err
	}
	return true, nil
}

package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"splatbot/internal/splat"
)

// splatgen scans a directory of .splat test programs and emits a question
// batch file ready for the bot's question loader.
func main() {
	var (
		dir = flag.String("dir", "splat_tests", "directory containing .splat test files")
		out = flag.String("out", "questions/splat_tests.json", "output batch file")
	)
	flag.Parse()

	drafts, err := splat.AnalyzeDir(*dir)
	if err != nil {
		log.Fatalf("✗ Failed to analyze %s: %v", *dir, err)
	}
	if len(drafts) == 0 {
		log.Fatalf("✗ No classifiable .splat files found in %s", *dir)
	}

	data, err := json.MarshalIndent(drafts, "", "  ")
	if err != nil {
		log.Fatalf("✗ Failed to encode questions: %v", err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(*out, data, 0o644); err != nil {
		log.Fatalf("✗ Failed to write %s: %v", *out, err)
	}

	fmt.Printf("✓ Wrote %d questions to %s\n", len(drafts), *out)
}

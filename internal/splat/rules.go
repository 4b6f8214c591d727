package splat

import (
	"fmt"
	"regexp"
	"strings"

	"splatbot/internal/ingest"
)

const splatIdentifierChars = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789_()[]{}:;,+-*/<>=!&| \t\n\"'"

// lexReason guesses which character the lexer rejects. Checks run from most
// to least specific; an unclosed string overrides everything.
func lexReason(source string) string {
	reason := ""

	switch {
	case strings.Contains(source, "{"):
		reason = "SPLAT uses 'begin' and 'end' keywords, not braces"
	case strings.Contains(source, "!") && !strings.Contains(source, "!="):
		reason = "SPLAT does not support '!' as a standalone operator"
	case strings.Contains(source, `\`) && !strings.Contains(source, `\n`) && !strings.Contains(source, `\t`):
		reason = "Backslash is only valid in string escape sequences"
	case strings.Contains(source, "=") && !strings.Contains(source, ":=") && !strings.Contains(source, "=="):
		reason = "SPLAT uses ':=' for assignment, not '='"
	default:
		for _, ch := range source {
			if !strings.ContainsRune(splatIdentifierChars, ch) {
				reason = fmt.Sprintf("'%c' is not a valid character in SPLAT", ch)
				break
			}
		}
		if reason == "" {
			reason = "it contains an invalid character sequence"
		}
	}

	if strings.Count(source, `"`)%2 != 0 {
		reason = "a string literal is not properly closed"
	}

	return reason
}

func lexQuestion(filename, source string) ingest.Draft {
	d := ingest.Draft{
		Category:     "lexer",
		Subcategory:  strPtr("badlex"),
		SourceFile:   strPtr(filename),
		QuestionText: "What exception does this SPLAT code throw?",
		Code:         strPtr(source),
		CorrectAnswer: "A",
		Difficulty:   "easy",
	}
	exceptionOptions(&d)
	d.Explanation = fmt.Sprintf(
		"This code throws a LexException because %s. The lexer (Phase 1) identifies individual tokens and catches invalid characters before parsing begins.",
		lexReason(source))
	return d
}

func parseReason(source string) string {
	switch {
	case !strings.Contains(strings.ToLower(source), "program"):
		return "it is missing the 'program' keyword at the start"
	case strings.Count(source, "begin") != strings.Count(source, "end"):
		return "it has mismatched 'begin' and 'end' keywords"
	case !strings.Contains(source, ":=") && !strings.Contains(source, "return") && !strings.Contains(source, "print"):
		return "it uses invalid statement syntax"
	case strings.Contains(source, "(") && strings.Contains(source, ")") &&
		strings.Count(source, "(") != strings.Count(source, ")"):
		return "it has mismatched parentheses"
	default:
		return "it violates SPLAT grammar rules"
	}
}

func parseQuestion(filename, source string) ingest.Draft {
	d := ingest.Draft{
		Category:     "parser",
		Subcategory:  strPtr("badparse"),
		SourceFile:   strPtr(filename),
		QuestionText: "What exception does this SPLAT code throw?",
		Code:         strPtr(source),
		CorrectAnswer: "B",
		Difficulty:   "medium",
	}
	exceptionOptions(&d)
	d.Explanation = fmt.Sprintf(
		"This code throws a ParseException because %s. The parser (Phase 2) builds an Abstract Syntax Tree and detects syntax errors that violate the grammar.",
		parseReason(source))
	return d
}

func semanticReason(filename, source string) string {
	lowerName := strings.ToLower(filename)
	switch {
	case strings.Contains(filename, "not declared") || strings.Contains(filename, "not defined"):
		return "it references an undeclared variable or function"
	case strings.Contains(lowerName, "type"):
		return "there is a type mismatch (e.g., assigning Integer to Boolean)"
	case strings.Contains(lowerName, "duplicate"):
		return "it has duplicate variable or function declarations"
	case strings.Contains(source, "return") && strings.Contains(source, "void"):
		return "a void function has a return value, or vice versa"
	}

	// fall back to code inspection
	for _, line := range strings.Split(source, "\n") {
		if strings.Contains(line, ":=") && (strings.Contains(line, "true") || strings.Contains(line, "false")) {
			return "there is a type mismatch between Integer and Boolean"
		}
	}
	if strings.Contains(source, "return") &&
		(strings.Contains(source, "Integer") || strings.Contains(source, "Boolean")) {
		return "the return type doesn't match the function declaration"
	}
	return "it violates semantic rules like type checking or scope rules"
}

func semanticQuestion(filename, source string) ingest.Draft {
	d := ingest.Draft{
		Category:     "semantics",
		Subcategory:  strPtr("badsemantics"),
		SourceFile:   strPtr(filename),
		QuestionText: "What exception does this SPLAT code throw?",
		Code:         strPtr(source),
		CorrectAnswer: "C",
		Difficulty:   "medium",
	}
	exceptionOptions(&d)
	d.OptionC = strPtr("SemanticAnalysisException - Type/scope error")
	d.Explanation = fmt.Sprintf(
		"This code throws a SemanticAnalysisException because %s. The semantic analyzer (Phase 3) performs type checking and validates scope rules after parsing.",
		semanticReason(filename, source))
	return d
}

func executionReason(source string) string {
	switch {
	case strings.Contains(source, "/ 0") || strings.Contains(source, "% 0"):
		return "it explicitly divides or uses modulus by zero"
	case strings.Contains(source, "Height") && strings.Contains(source, ":= 0"):
		return "it divides by an uninitialized variable (default value 0)"
	default:
		return "it attempts division by zero"
	}
}

func executionQuestion(filename, source string) ingest.Draft {
	d := ingest.Draft{
		Category:     "executor",
		Subcategory:  strPtr("badexecution"),
		SourceFile:   strPtr(filename),
		QuestionText: "What exception does this SPLAT code throw?",
		Code:         strPtr(source),
		CorrectAnswer: "D",
		Difficulty:   "hard",
	}
	exceptionOptions(&d)
	d.OptionD = strPtr("ExecutionException - Runtime error (division by zero)")
	d.Explanation = fmt.Sprintf(
		"This code throws an ExecutionException because %s. The executor (Phase 4) runs the program and detects runtime errors like division by zero.",
		executionReason(source))
	return d
}

var printLiteralRe = regexp.MustCompile(`print\s+"([^"]+)"`)

// predictOutput concatenates literal print arguments. Best effort only; a
// program printing computed values falls back to a placeholder.
func predictOutput(source string) string {
	matches := printLiteralRe.FindAllStringSubmatch(source, -1)
	if len(matches) == 0 {
		return "program output"
	}

	var out strings.Builder
	for _, m := range matches {
		out.WriteString(m[1])
	}
	return out.String()
}

func goodExecutionQuestion(filename, source string) ingest.Draft {
	d := ingest.Draft{
		Category:     "executor",
		Subcategory:  strPtr("goodexecution"),
		SourceFile:   strPtr(filename),
		QuestionText: "What is the output of this SPLAT program?",
		Code:         strPtr(source),
		OptionA:      "Throws LexException",
		OptionB:      "Throws ParseException",
		OptionC:      strPtr("Throws SemanticAnalysisException"),
		OptionD:      strPtr("Throws ExecutionException"),
		OptionE:      strPtr(fmt.Sprintf("Executes successfully (output: %s)", predictOutput(source))),
		CorrectAnswer: "E",
		Difficulty:   "medium",
		Explanation:  "This code executes successfully. It passes all four compiler phases (Lexer, Parser, Semantic Analyzer, Executor) and produces output.",
	}
	return d
}

// Package jerr implements the three error categories of spec.md §7,
// adapted from sentra's SentraError shape (internal/errors/errors.go) to
// this engine's domain.
package jerr

import (
	"fmt"

	"github.com/pkg/errors"
)

// Category distinguishes the two non-verdict error kinds spec.md §7 names.
// Program verdicts (category 1) are not represented here at all — they are
// ordinary verdict.Verdict return values, never errors.
type Category string

const (
	// InvalidInput covers unknown opcode tags, malformed ids, unparseable
	// descriptors, and malformed case lines. The analysis aborts with no
	// partial results.
	InvalidInput Category = "invalid input"
	// Invariant covers internal bugs: stack-depth mismatches at join,
	// out-of-range PCs, type mismatches in opcode operands. These fail
	// loud: they are raised as panics, and the interpreters recover them
	// and return them as errors.
	Invariant Category = "invariant violation"
)

// AnalysisError is the engine's typed error, carrying the category, the
// stage that detected it, and the offending text — the fields spec.md §7
// requires category-2 failures to report.
type AnalysisError struct {
	Category  Category
	Stage     string
	Offending string
	Cause     error
}

func (e *AnalysisError) Error() string {
	if e.Offending == "" {
		return fmt.Sprintf("%s at %s: %v", e.Category, e.Stage, e.Cause)
	}
	return fmt.Sprintf("%s at %s: %q: %v", e.Category, e.Stage, e.Offending, e.Cause)
}

func (e *AnalysisError) Unwrap() error { return e.Cause }

// InvalidInputf builds a category-2 error with a stack trace attached via
// github.com/pkg/errors, so verbose CLI output can show where detection
// happened.
func InvalidInputf(stage, offending string, format string, args ...any) error {
	return &AnalysisError{
		Category:  InvalidInput,
		Stage:     stage,
		Offending: offending,
		Cause:     errors.WithStack(fmt.Errorf(format, args...)),
	}
}

// Invariantf builds a category-3 error. Callers that detect an invariant
// violation should panic with this value rather than return it — spec.md
// §7 specifies these "fail loud and fast".
func Invariantf(stage string, format string, args ...any) *AnalysisError {
	return &AnalysisError{
		Category: Invariant,
		Stage:    stage,
		Cause:    errors.WithStack(fmt.Errorf(format, args...)),
	}
}

// Fatal panics with an Invariantf error. concrete.RunState and
// abstract.Analyze recover from this and return it as an error, which the
// cmd/jpamb subcommands report as a failed command.
func Fatal(stage string, format string, args ...any) {
	panic(Invariantf(stage, format, args...))
}

// Recover turns a recovered panic value produced by Fatal into an error;
// non-AnalysisError panics are re-panicked, since they indicate a bug
// outside the three defined categories.
func Recover(r any) error {
	if r == nil {
		return nil
	}
	if ae, ok := r.(*AnalysisError); ok {
		return ae
	}
	panic(r)
}

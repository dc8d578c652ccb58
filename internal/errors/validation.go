package errors

import (
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/google/go-cmp/cmp"
)

// Named validation errors. Each one describes exactly one mutually exclusive
// or missing-field condition; callers match them with errors.Is.
var (
	ErrNoUnit                  = stderrors.New("a plugin or a preset must be provided")
	ErrPluginAndPreset         = stderrors.New("a plugin and a preset cannot be provided at the same time")
	ErrTestsListAndMap         = stderrors.New("tests must be provided either as a list or as a map, not both")
	ErrSkipAndOnly             = stderrors.New("cannot enable both skip and only in the same test")
	ErrCodeAndCodeFixture      = stderrors.New("code cannot be provided with codeFixture")
	ErrOutputAndOutputFixture  = stderrors.New("output cannot be provided with outputFixture")
	ErrExecAndExecFixture      = stderrors.New("exec cannot be provided with execFixture")
	ErrExecWithCode            = stderrors.New("exec or execFixture cannot be provided with code or codeFixture")
	ErrExecWithOutput          = stderrors.New("exec or execFixture cannot be provided with output or outputFixture")
	ErrSnapshotWithOutput      = stderrors.New("output or outputFixture cannot be provided when snapshot is enabled")
	ErrSnapshotWithExec        = stderrors.New("exec or execFixture cannot be provided when snapshot is enabled")
	ErrSnapshotWithThrows      = stderrors.New("throws cannot be provided when snapshot is enabled")
	ErrThrowsWithOutput        = stderrors.New("output or outputFixture cannot be provided with throws")
	ErrThrowsWithExec          = stderrors.New("exec or execFixture cannot be provided with throws")
	ErrMissingCode             = stderrors.New("a code, codeFixture, exec, or execFixture property must be provided")
	ErrEmptyCode               = stderrors.New("code, codeFixture, exec, or execFixture must resolve to non-empty text unless throws is set")
	ErrInvalidThrows           = stderrors.New("throws must be a bool, string, *regexp.Regexp, func(error) bool, or ErrorType matcher")
	ErrFixtureCodeAndExec      = stderrors.New("a fixture directory cannot contain both a code file and an exec file")
	ErrFixtureExecWithOutput   = stderrors.New("a fixture directory cannot contain both an exec file and an output file")
	ErrFixtureThrowsWithOutput = stderrors.New("a fixture directory cannot contain an output file when throws is set")
	ErrMultipleOptionsFiles    = stderrors.New("a fixture directory cannot contain more than one options file")
	ErrInvalidEndOfLine        = stderrors.New(`endOfLine must be one of "lf", "crlf", "auto", "preserve", or "none"`)
	ErrInvalidTitleNumbering   = stderrors.New(`titleNumbering must be one of "all", "tests-only", "fixtures-only", or "none"`)
)

// RangeError reports a malformed numeric selection filter.
type RangeError struct {
	Variable string // Environment variable name
	Value    string // Raw value of the variable
	Reason   string
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("invalid environment variable %s=%q: %s", e.Variable, e.Value, e.Reason)
}

// AssertionError is an expected-versus-actual mismatch.
type AssertionError struct {
	Title    string
	Message  string
	Expected string
	Actual   string
}

func (e *AssertionError) Error() string {
	var b strings.Builder
	if e.Title != "" {
		fmt.Fprintf(&b, "[%s] ", e.Title)
	}
	b.WriteString(e.Message)
	if diff := e.Diff(); diff != "" {
		b.WriteString(" (-expected +actual):\n")
		b.WriteString(diff)
	}
	return b.String()
}

// Diff returns a line-oriented diff of Expected and Actual.
func (e *AssertionError) Diff() string {
	if e.Expected == e.Actual {
		return ""
	}
	return cmp.Diff(strings.Split(e.Expected, "\n"), strings.Split(e.Actual, "\n"))
}

// Mismatch creates an AssertionError with a structured payload.
func Mismatch(title, message, expected, actual string) *AssertionError {
	return &AssertionError{
		Title:    title,
		Message:  message,
		Expected: expected,
		Actual:   actual,
	}
}

// IsAssertion reports whether err is an assertion failure of either shape.
func IsAssertion(err error) bool {
	var ae *AssertionError
	if stderrors.As(err, &ae) {
		return true
	}
	return KindOf(err) == KindAssertion
}

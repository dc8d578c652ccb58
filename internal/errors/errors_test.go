package errors

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestHarnessError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *HarnessError
		expected string
	}{
		{
			name:     "message only",
			err:      &HarnessError{Message: "something failed"},
			expected: "something failed",
		},
		{
			name:     "with title",
			err:      &HarnessError{Title: "1. adds semicolons", Message: "transformation failed"},
			expected: "[1. adds semicolons] transformation failed",
		},
		{
			name:     "with cause",
			err:      &HarnessError{Kind: KindTransform, Message: "transformation failed", Cause: errors.New("boom")},
			expected: "transformation failed: boom",
		},
		{
			name:     "config kind does not repeat cause",
			err:      InvalidOptions("t", ErrSkipAndOnly),
			expected: "[t] failed to validate configuration: cannot enable both skip and only in the same test",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.expected {
				t.Errorf("Error() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestHarnessError_Unwrap(t *testing.T) {
	cause := errors.New("underlying error")
	err := &HarnessError{
		Message: "wrapper",
		Cause:   cause,
	}

	if got := err.Unwrap(); got != cause {
		t.Errorf("Unwrap() = %v, want %v", got, cause)
	}

	errNoCause := &HarnessError{Message: "no cause"}
	if got := errNoCause.Unwrap(); got != nil {
		t.Errorf("Unwrap() = %v, want nil", got)
	}
}

func TestInvalidOptions_MatchesRule(t *testing.T) {
	err := InvalidOptions("title", ErrCodeAndCodeFixture)
	if !errors.Is(err, ErrCodeAndCodeFixture) {
		t.Error("errors.Is(err, ErrCodeAndCodeFixture) = false, want true")
	}
	if errors.Is(err, ErrSkipAndOnly) {
		t.Error("errors.Is(err, ErrSkipAndOnly) = true, want false")
	}
	if err.Kind != KindConfig {
		t.Errorf("Kind = %v, want %v", err.Kind, KindConfig)
	}
}

func TestTeardown_KeepsBodyErrorAsCause(t *testing.T) {
	body := Mismatch("t", "output mismatch", "a", "b")
	err := Teardown("t", errors.New("cleanup failed"), body)

	if KindOf(err) != KindTeardown {
		t.Errorf("KindOf() = %v, want %v", KindOf(err), KindTeardown)
	}
	var ae *AssertionError
	if !errors.As(err, &ae) {
		t.Fatal("errors.As(err, *AssertionError) = false, want true")
	}
	if !strings.Contains(err.Error(), "cleanup failed") {
		t.Errorf("Error() = %q, want it to mention teardown failure", err.Error())
	}
}

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorKind
	}{
		{"nil", nil, KindRuntime},
		{"plain", errors.New("x"), KindRuntime},
		{"config", Config("bad"), KindConfig},
		{"environment", Environment("missing"), KindEnvironment},
		{"wrapped setup", fmt.Errorf("ctx: %w", Setup("t", errors.New("x"))), KindSetup},
		{"assertion", Mismatch("t", "m", "a", "b"), KindAssertion},
		{"range", &RangeError{Variable: "TEST_NUM_SKIP", Value: "5-2"}, KindConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := KindOf(tt.err); got != tt.want {
				t.Errorf("KindOf() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGetExitCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"nil", nil, ExitSuccess},
		{"config", Config("x"), ExitConfigError},
		{"range", &RangeError{Variable: "TEST_NUM_ONLY"}, ExitConfigError},
		{"environment", Environment("x"), ExitEnvironmentError},
		{"assertion", Assertion("t", "x"), ExitRuntimeError},
		{"plain", errors.New("x"), ExitRuntimeError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetExitCode(tt.err); got != tt.expected {
				t.Errorf("GetExitCode() = %d, want %d", got, tt.expected)
			}
		})
	}
}

func TestAssertionError_Diff(t *testing.T) {
	err := Mismatch("t", "output mismatch", "a\nb", "a\nc")

	if err.Diff() == "" {
		t.Fatal("Diff() = \"\", want non-empty diff")
	}
	if !strings.Contains(err.Error(), "-expected +actual") {
		t.Errorf("Error() = %q, want diff header", err.Error())
	}

	same := Mismatch("t", "m", "x", "x")
	if same.Diff() != "" {
		t.Errorf("Diff() = %q, want empty for equal values", same.Diff())
	}
}

func TestRangeError_Error(t *testing.T) {
	err := &RangeError{Variable: "TEST_NUM_SKIP", Value: "5-2", Reason: "range start is greater than range end"}
	want := `invalid environment variable TEST_NUM_SKIP="5-2": range start is greater than range end`
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

// Package errors provides structured error types for the plugin tester.
package errors

import (
	stderrors "errors"
	"fmt"
)

// Exit codes used by the command-line front end.
const (
	ExitSuccess          = 0 // Success
	ExitRuntimeError     = 1 // Runtime error (a case failed, etc.)
	ExitConfigError      = 2 // Configuration error (invalid options, bad env filters, etc.)
	ExitEnvironmentError = 3 // Environment error (missing host primitive, etc.)
)

// ErrorKind represents the type of error.
type ErrorKind int

const (
	KindRuntime ErrorKind = iota
	KindConfig
	KindEnvironment
	KindSetup
	KindTeardown
	KindAssertion
	KindTransform
)

func (k ErrorKind) String() string {
	switch k {
	case KindConfig:
		return "bad configuration"
	case KindEnvironment:
		return "environment incompatibility"
	case KindSetup:
		return "setup failure"
	case KindTeardown:
		return "teardown failure"
	case KindAssertion:
		return "assertion failure"
	case KindTransform:
		return "transform failure"
	default:
		return "runtime error"
	}
}

// HarnessError is the base error type for the plugin tester.
type HarnessError struct {
	Kind    ErrorKind
	Message string
	Title   string // Test title if applicable
	Cause   error  // Underlying error
}

func (e *HarnessError) Error() string {
	msg := e.Message
	if e.Title != "" {
		msg = fmt.Sprintf("[%s] %s", e.Title, e.Message)
	}
	if e.Cause != nil && e.Kind != KindConfig {
		return fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

func (e *HarnessError) Unwrap() error {
	return e.Cause
}

// ExitCode returns the appropriate exit code for this error.
func (e *HarnessError) ExitCode() int {
	switch e.Kind {
	case KindConfig:
		return ExitConfigError
	case KindEnvironment:
		return ExitEnvironmentError
	default:
		return ExitRuntimeError
	}
}

// New creates a new runtime error.
func New(message string) *HarnessError {
	return &HarnessError{
		Kind:    KindRuntime,
		Message: message,
	}
}

// Newf creates a new runtime error with formatting.
func Newf(format string, args ...interface{}) *HarnessError {
	return New(fmt.Sprintf(format, args...))
}

// Config creates a new configuration error.
func Config(message string) *HarnessError {
	return &HarnessError{
		Kind:    KindConfig,
		Message: message,
	}
}

// Configf creates a new configuration error with formatting.
func Configf(format string, args ...interface{}) *HarnessError {
	return Config(fmt.Sprintf(format, args...))
}

// Environment creates a new environment error.
func Environment(message string) *HarnessError {
	return &HarnessError{
		Kind:    KindEnvironment,
		Message: message,
	}
}

// Environmentf creates a new environment error with formatting.
func Environmentf(format string, args ...interface{}) *HarnessError {
	return Environment(fmt.Sprintf(format, args...))
}

// Wrap wraps an error with additional context.
func Wrap(err error, message string) *HarnessError {
	return &HarnessError{
		Kind:    KindRuntime,
		Message: message,
		Cause:   err,
	}
}

// Setup wraps an error returned by a setup hook.
func Setup(title string, err error) *HarnessError {
	return &HarnessError{
		Kind:    KindSetup,
		Title:   title,
		Message: "problem during setup",
		Cause:   err,
	}
}

// Teardown wraps an error returned by a teardown action. bodyErr, when
// non-nil, is the failure of the test body that ran before teardown; it
// becomes the cause so that neither error is lost.
func Teardown(title string, err, bodyErr error) *HarnessError {
	return &HarnessError{
		Kind:    KindTeardown,
		Title:   title,
		Message: fmt.Sprintf("problem during teardown: %v", err),
		Cause:   bodyErr,
	}
}

// Transform wraps an error returned by the transformation function when no
// error was expected.
func Transform(title string, err error) *HarnessError {
	return &HarnessError{
		Kind:    KindTransform,
		Title:   title,
		Message: "transformation failed",
		Cause:   err,
	}
}

// Assertion creates an assertion failure without a structured payload.
func Assertion(title, message string) *HarnessError {
	return &HarnessError{
		Kind:    KindAssertion,
		Title:   title,
		Message: message,
	}
}

// InvalidOptions reports a bad-configuration error for a named test case.
// The returned error matches rule with errors.Is.
func InvalidOptions(title string, rule error) *HarnessError {
	return &HarnessError{
		Kind:    KindConfig,
		Title:   title,
		Message: fmt.Sprintf("failed to validate configuration: %v", rule),
		Cause:   rule,
	}
}

// KindOf returns the kind of the outermost classified error in err's chain,
// or KindRuntime when there is none.
func KindOf(err error) ErrorKind {
	for err != nil {
		switch e := err.(type) {
		case *HarnessError:
			return e.Kind
		case *AssertionError:
			return KindAssertion
		case *RangeError:
			return KindConfig
		}
		err = stderrors.Unwrap(err)
	}
	return KindRuntime
}

// GetExitCode returns the exit code for an error.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	switch KindOf(err) {
	case KindConfig:
		return ExitConfigError
	case KindEnvironment:
		return ExitEnvironmentError
	default:
		return ExitRuntimeError
	}
}

package plugintester

import "github.com/AndreyAkinshin/plugintester/internal/errors"

// Exit codes returned by the plugintester CLI.
const (
	// ExitSuccess indicates the command completed successfully.
	ExitSuccess = 0

	// ExitFailure indicates a runtime failure.
	ExitFailure = 1

	// ExitConfigError indicates a configuration error (invalid options file,
	// malformed TEST_NUM_SKIP, etc.).
	ExitConfigError = 2

	// ExitEnvError indicates the host runner lacks a needed primitive.
	ExitEnvError = 3
)

// ErrorKind classifies harness errors.
type ErrorKind = errors.ErrorKind

// Error kinds.
const (
	KindRuntime     = errors.KindRuntime
	KindConfig      = errors.KindConfig
	KindEnvironment = errors.KindEnvironment
	KindSetup       = errors.KindSetup
	KindTeardown    = errors.KindTeardown
	KindAssertion   = errors.KindAssertion
	KindTransform   = errors.KindTransform
)

// KindOf classifies err.
func KindOf(err error) ErrorKind {
	return errors.KindOf(err)
}

// AssertionError is an expected-versus-actual mismatch.
type AssertionError = errors.AssertionError

// Validation errors, matched with errors.Is.
var (
	ErrNoUnit             = errors.ErrNoUnit
	ErrPluginAndPreset    = errors.ErrPluginAndPreset
	ErrTestsListAndMap    = errors.ErrTestsListAndMap
	ErrSkipAndOnly        = errors.ErrSkipAndOnly
	ErrCodeAndCodeFixture = errors.ErrCodeAndCodeFixture
	ErrMissingCode        = errors.ErrMissingCode
	ErrEmptyCode          = errors.ErrEmptyCode
	ErrInvalidThrows      = errors.ErrInvalidThrows
)

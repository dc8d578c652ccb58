package config

import (
	"fmt"

	"github.com/AndreyAkinshin/plugintester/internal/textutil"
)

// ValidationError represents a fixture options validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate checks decoded options for semantic errors the schema cannot
// express.
func Validate(opts *FixtureOptions) error {
	if err := validateThrows(opts.Throws); err != nil {
		return err
	}
	if !textutil.EndOfLine(opts.EndOfLine).Valid() {
		return &ValidationError{
			Field:   "endOfLine",
			Message: `must be "lf", "crlf", "auto", "preserve", or "none"`,
		}
	}
	return nil
}

func validateThrows(v any) error {
	switch v.(type) {
	case nil, bool, string:
		return nil
	default:
		return &ValidationError{Field: "throws", Message: "must be a boolean or a string"}
	}
}

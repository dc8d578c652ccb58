package config

import "strings"

// Default values for fixture options.
const (
	DefaultFixtureOutputName = "output"
	DefaultEndOfLine         = "lf"
)

// applyDefaults fills in default values for unset option fields.
func applyDefaults(opts *FixtureOptions) {
	if opts.FixtureOutputName == "" {
		opts.FixtureOutputName = DefaultFixtureOutputName
	}
	if opts.FixtureOutputExt != "" && !strings.HasPrefix(opts.FixtureOutputExt, ".") {
		opts.FixtureOutputExt = "." + opts.FixtureOutputExt
	}
}

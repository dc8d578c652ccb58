// Package selection resolves whether a registered case is skipped, focused,
// or run normally, combining explicit flags with environment filters.
package selection

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/AndreyAkinshin/plugintester/internal/errors"
)

// Environment variables read by FromEnv.
const (
	EnvSkip    = "TEST_SKIP"     // Regexp; matching titles are skipped
	EnvOnly    = "TEST_ONLY"     // Regexp; matching titles are focused
	EnvNumSkip = "TEST_NUM_SKIP" // Numbers and ranges; matching cases are skipped
	EnvNumOnly = "TEST_NUM_ONLY" // Numbers and ranges; matching cases are focused
)

// Mode is the effective registration mode of a case.
type Mode int

const (
	ModeNormal Mode = iota
	ModeSkip
	ModeOnly
)

func (m Mode) String() string {
	switch m {
	case ModeSkip:
		return "skip"
	case ModeOnly:
		return "only"
	default:
		return "normal"
	}
}

// Range is an inclusive range of case numbers.
type Range struct {
	Start int
	End   int
}

// Ranges is a set of inclusive ranges.
type Ranges []Range

// Contains reports whether n falls in any range.
func (r Ranges) Contains(n int) bool {
	for _, rg := range r {
		if n >= rg.Start && n <= rg.End {
			return true
		}
	}
	return false
}

var rangeEntryPattern = regexp.MustCompile(`^(\d+)(?:\s*-\s*(\d+))?$`)

// ParseRanges parses a comma-separated list of numbers and inclusive a-b
// ranges. Blank entries and surrounding whitespace are ignored. variable
// names the source of value in errors.
func ParseRanges(variable, value string) (Ranges, error) {
	var ranges Ranges
	for _, entry := range strings.Split(value, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		m := rangeEntryPattern.FindStringSubmatch(entry)
		if m == nil {
			return nil, &errors.RangeError{
				Variable: variable,
				Value:    value,
				Reason:   fmt.Sprintf("%q is not a number or an inclusive range like 2-4", entry),
			}
		}
		start, err := strconv.Atoi(m[1])
		if err != nil {
			return nil, &errors.RangeError{Variable: variable, Value: value, Reason: err.Error()}
		}
		end := start
		if m[2] != "" {
			end, err = strconv.Atoi(m[2])
			if err != nil {
				return nil, &errors.RangeError{Variable: variable, Value: value, Reason: err.Error()}
			}
		}
		if start > end {
			return nil, &errors.RangeError{
				Variable: variable,
				Value:    value,
				Reason:   fmt.Sprintf("range %q starts after it ends", entry),
			}
		}
		ranges = append(ranges, Range{Start: start, End: end})
	}
	return ranges, nil
}

// Filters holds the parsed environment filters for one suite invocation.
type Filters struct {
	SkipName *regexp.Regexp
	OnlyName *regexp.Regexp
	SkipNums Ranges
	OnlyNums Ranges
}

// FromEnv parses the four selection variables using getenv.
func FromEnv(getenv func(string) string) (*Filters, error) {
	f := &Filters{}
	var err error

	if f.SkipName, err = compileName(EnvSkip, getenv(EnvSkip)); err != nil {
		return nil, err
	}
	if f.OnlyName, err = compileName(EnvOnly, getenv(EnvOnly)); err != nil {
		return nil, err
	}
	if f.SkipNums, err = ParseRanges(EnvNumSkip, getenv(EnvNumSkip)); err != nil {
		return nil, err
	}
	if f.OnlyNums, err = ParseRanges(EnvNumOnly, getenv(EnvNumOnly)); err != nil {
		return nil, err
	}
	return f, nil
}

func compileName(variable, value string) (*regexp.Regexp, error) {
	if value == "" {
		return nil, nil
	}
	re, err := regexp.Compile(value)
	if err != nil {
		return nil, errors.Configf("invalid environment variable %s=%q: %v", variable, value, err)
	}
	return re, nil
}

// Resolve computes the effective mode of a case. Filters take precedence
// over explicit flags in this order: name skip, number skip, name only,
// number only. A number of 0 means "not numbered" and never matches a
// numeric filter. Callers must reject skip && only before calling Resolve.
func (f *Filters) Resolve(skip, only bool, number int, title string) Mode {
	if f != nil {
		switch {
		case f.SkipName != nil && f.SkipName.MatchString(title):
			return ModeSkip
		case number > 0 && f.SkipNums.Contains(number):
			return ModeSkip
		case f.OnlyName != nil && f.OnlyName.MatchString(title):
			return ModeOnly
		case number > 0 && f.OnlyNums.Contains(number):
			return ModeOnly
		}
	}
	switch {
	case skip:
		return ModeSkip
	case only:
		return ModeOnly
	default:
		return ModeNormal
	}
}

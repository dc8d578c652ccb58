package normalize

import (
	"regexp"

	"github.com/AndreyAkinshin/plugintester/internal/errors"
	"github.com/AndreyAkinshin/plugintester/internal/model"
)

// Fields records which optional fields a test descriptor sets. Blank is set
// when the resolved input holds only whitespace.
type Fields struct {
	Skip, Only            bool
	Code, CodeFixture     bool
	Output, OutputFixture bool
	Exec, ExecFixture     bool
	Snapshot              bool
	Throws                bool
	Blank                 bool
}

func (f Fields) anyCode() bool   { return f.Code || f.CodeFixture }
func (f Fields) anyOutput() bool { return f.Output || f.OutputFixture }
func (f Fields) anyExec() bool   { return f.Exec || f.ExecFixture }

type rule struct {
	violated func(Fields) bool
	err      error
}

// rules are evaluated in order; the first violated rule is reported.
var rules = []rule{
	{func(f Fields) bool { return f.Skip && f.Only }, errors.ErrSkipAndOnly},
	{func(f Fields) bool { return f.Code && f.CodeFixture }, errors.ErrCodeAndCodeFixture},
	{func(f Fields) bool { return f.Output && f.OutputFixture }, errors.ErrOutputAndOutputFixture},
	{func(f Fields) bool { return f.Exec && f.ExecFixture }, errors.ErrExecAndExecFixture},
	{func(f Fields) bool { return f.anyExec() && f.anyCode() }, errors.ErrExecWithCode},
	{func(f Fields) bool { return f.anyExec() && f.anyOutput() }, errors.ErrExecWithOutput},
	{func(f Fields) bool { return f.Snapshot && f.anyOutput() }, errors.ErrSnapshotWithOutput},
	{func(f Fields) bool { return f.Snapshot && f.anyExec() }, errors.ErrSnapshotWithExec},
	{func(f Fields) bool { return f.Snapshot && f.Throws }, errors.ErrSnapshotWithThrows},
	{func(f Fields) bool { return f.Throws && f.anyOutput() }, errors.ErrThrowsWithOutput},
	{func(f Fields) bool { return f.Throws && f.anyExec() }, errors.ErrThrowsWithExec},
	{func(f Fields) bool { return !f.anyCode() && !f.anyExec() && !f.Throws }, errors.ErrMissingCode},
	{func(f Fields) bool { return f.Blank && !f.Throws }, errors.ErrEmptyCode},
}

// Check returns the named validation error of the first rule f violates, or
// nil.
func Check(f Fields) error {
	for _, r := range rules {
		if r.violated(f) {
			return r.err
		}
	}
	return nil
}

// ThrowsSet reports whether v requests error capture. It returns
// errors.ErrInvalidThrows for values of an unsupported type.
func ThrowsSet(v any) (bool, error) {
	switch t := v.(type) {
	case nil:
		return false, nil
	case bool:
		return t, nil
	case string, func(error) bool, model.ErrorMatcher:
		return true, nil
	case *regexp.Regexp:
		return t != nil, nil
	default:
		return false, errors.ErrInvalidThrows
	}
}

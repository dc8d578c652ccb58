// Package model provides the data types shared by the resolver, normaliser,
// and driver. This package exists to break import cycles between them and the
// public plugintester package, which re-exports these types.
package model

import (
	"context"
	stderrors "errors"
	"reflect"

	"github.com/AndreyAkinshin/plugintester/internal/numbering"
	"github.com/AndreyAkinshin/plugintester/internal/textutil"
)

// TransformOptions are the options handed to the transformation function.
type TransformOptions = map[string]any

// Result is what the transformation function produces.
type Result struct {
	Code string
	Map  any // Source map or other metadata; never inspected
}

// Engine is the transformation function under both calling conventions.
// TransformContext is preferred when both are set.
type Engine struct {
	Transform        func(code string, opts TransformOptions) (*Result, error)
	TransformContext func(ctx context.Context, code string, opts TransformOptions) (*Result, error)
}

// Valid reports whether at least one calling convention is available.
func (e Engine) Valid() bool {
	return e.Transform != nil || e.TransformContext != nil
}

// Run invokes the preferred calling convention.
func (e Engine) Run(ctx context.Context, code string, opts TransformOptions) (*Result, error) {
	if e.TransformContext != nil {
		return e.TransformContext(ctx, code, opts)
	}
	return e.Transform(code, opts)
}

// UnitKind distinguishes plugins from presets.
type UnitKind int

const (
	KindPlugin UnitKind = iota
	KindPreset
)

func (k UnitKind) String() string {
	if k == KindPreset {
		return "preset"
	}
	return "plugin"
}

// UnitEntry is the unit under test as it appears in a plugin or preset list.
type UnitEntry struct {
	Name    string
	Unit    any
	Options map[string]any
}

// Namer is implemented by units that know their own name.
type Namer interface {
	Name() string
}

// FormatContext describes the file being formatted.
type FormatContext struct {
	Cwd      string
	Filename string
	Filepath string
}

// Formatter normalises transformed output before comparison.
type Formatter func(code string, fc FormatContext) (string, error)

// TeardownFunc releases what a setup acquired.
type TeardownFunc func() error

// SetupFunc prepares a case. A non-nil returned TeardownFunc runs after the
// case's explicit teardown.
type SetupFunc func() (TeardownFunc, error)

// Evaluator runs transformed code for exec-mode cases. A non-nil error fails
// the case.
type Evaluator interface {
	Evaluate(ctx context.Context, code, filename string) error
}

// Snapshotter compares a value against a recorded snapshot named name.
type Snapshotter interface {
	MatchSnapshot(name, value string) error
}

// ErrorMatcher is the "constructor" form of an error expectation.
type ErrorMatcher struct {
	Type  reflect.Type
	match func(error) bool
}

// Matches reports whether err's chain contains an error of the matcher's type.
func (m ErrorMatcher) Matches(err error) bool {
	return m.match != nil && m.match(err)
}

// NewErrorMatcher builds a matcher for error type T using errors.As.
func NewErrorMatcher[T error]() ErrorMatcher {
	return ErrorMatcher{
		Type: reflect.TypeFor[T](),
		match: func(err error) bool {
			var target T
			return stderrors.As(err, &target)
		},
	}
}

// TestObject is a raw, user-written test descriptor.
type TestObject struct {
	Title string
	Skip  bool
	Only  bool

	Code        string
	CodeFixture string // Path relative to SuiteOptions.FilePath's directory

	Output        *string // nil: assert unchanged
	OutputFixture string

	Exec        string
	ExecFixture string

	Snapshot *bool // nil: use the suite default

	// Throws is the error-capture expectation: nil or false (none), true,
	// string (substring), *regexp.Regexp, func(error) bool, or ErrorMatcher.
	Throws any

	PluginOptions    map[string]any
	PresetOptions    map[string]any
	TransformOptions TransformOptions

	Formatter Formatter
	EndOfLine textutil.EndOfLine

	Setup    SetupFunc
	Teardown TeardownFunc
}

// SuiteOptions is the root configuration of one suite invocation.
type SuiteOptions struct {
	Engine Engine

	Plugin        any
	PluginName    string
	PluginOptions map[string]any

	Preset        any
	PresetName    string
	PresetOptions map[string]any

	Title         string // Root describe title; defaults to the unit name
	SuppressTitle bool   // Register cases without a root describe block

	FilePath string // Base path for fixture paths and the default filename

	TransformOptions TransformOptions
	Formatter        Formatter // nil selects the default formatter
	EndOfLine        textutil.EndOfLine

	TitleNumbering        numbering.Mode
	RestartTitleNumbering bool
	Counter               *numbering.Counter

	Snapshot bool
	Setup    SetupFunc
	Teardown TeardownFunc

	Fixtures          string
	FixtureOutputName string
	FixtureOutputExt  string
	FixtureMatch      string // Doublestar pattern over fixture paths relative to Fixtures

	Tests []*TestObject
	// TestsByTitle runs in sorted key order. A key is the case title unless
	// the object sets its own; it takes precedence over the unit name.
	TestsByTitle map[string]*TestObject

	Evaluator   Evaluator
	Snapshotter Snapshotter
	Getenv      func(string) string
}

// Mode of an assertion.
type AssertMode int

const (
	AssertUnchanged AssertMode = iota
	AssertEqual
	AssertSnapshot
	AssertThrows
	AssertExec
)

func (m AssertMode) String() string {
	switch m {
	case AssertEqual:
		return "equal"
	case AssertSnapshot:
		return "snapshot"
	case AssertThrows:
		return "throws"
	case AssertExec:
		return "exec"
	default:
		return "unchanged"
	}
}

// TestCase is a normalised, runnable case.
type TestCase struct {
	Title  numbering.Title
	Skip   bool
	Only   bool
	Scope  numbering.Scope
	Assert AssertMode

	Code     string // Input handed to the transformation function
	Expected string // Expected output for AssertEqual
	// OutputPath is where a fixture's expected output lives. When set and the
	// file does not exist, the driver writes the actual output there.
	OutputPath string
	Throws     any

	Filename         string
	TransformOptions TransformOptions
	UnitOptions      map[string]any // Options of the unit under test
	Formatter        Formatter
	EndOfLine        textutil.EndOfLine

	Setup    SetupFunc
	Teardown TeardownFunc
}

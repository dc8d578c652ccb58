// Package plugintester turns declarative test descriptions into registered
// test cases for a transformation plugin or preset.
//
// A suite names the unit under test, a transformation function, inline tests,
// and an optional fixture directory:
//
//	func TestMyPlugin(t *testing.T) {
//		plugintester.Run(t, plugintester.SuiteOptions{
//			Engine:     plugintester.Engine{Transform: transform},
//			Plugin:     myPlugin,
//			PluginName: "my-plugin",
//			FilePath:   "plugin_test.go",
//			Fixtures:   "testdata/fixtures",
//			Tests: []*plugintester.TestObject{
//				{Code: "var a = 1;"},
//				{Title: "renames", Code: "var a;", Output: plugintester.Ptr("var b;")},
//			},
//		})
//	}
package plugintester

import (
	"testing"

	"github.com/AndreyAkinshin/plugintester/internal/model"
	"github.com/AndreyAkinshin/plugintester/internal/numbering"
	"github.com/AndreyAkinshin/plugintester/internal/runner"
	"github.com/AndreyAkinshin/plugintester/internal/runorder"
	"github.com/AndreyAkinshin/plugintester/internal/textutil"
)

type (
	SuiteOptions     = model.SuiteOptions
	TestObject       = model.TestObject
	Engine           = model.Engine
	Result           = model.Result
	TransformOptions = model.TransformOptions
	UnitEntry        = model.UnitEntry
	Formatter        = model.Formatter
	FormatContext    = model.FormatContext
	SetupFunc        = model.SetupFunc
	TeardownFunc     = model.TeardownFunc
	Evaluator        = model.Evaluator
	Snapshotter      = model.Snapshotter
	ErrorMatcher     = model.ErrorMatcher
	Host             = runner.Host
	CaseFunc         = runner.CaseFunc
	Mode             = numbering.Mode
	EndOfLine        = textutil.EndOfLine
	Counter          = numbering.Counter
	CommandEvaluator = runner.CommandEvaluator
)

// Title numbering modes.
const (
	NumberAll          = numbering.ModeAll
	NumberTestsOnly    = numbering.ModeTestsOnly
	NumberFixturesOnly = numbering.ModeFixturesOnly
	NumberNone         = numbering.ModeNone
)

// Line ending policies.
const (
	EOLLF       = textutil.EOLLF
	EOLCRLF     = textutil.EOLCRLF
	EOLAuto     = textutil.EOLAuto
	EOLPreserve = textutil.EOLPreserve
	EOLNone     = textutil.EOLNone
)

// Place these in a plugins or presets list to choose where the unit under
// test runs. Without them it runs after every other configured unit.
var (
	RunPluginUnderTestHere = runorder.PluginHere
	RunPresetUnderTestHere = runorder.PresetHere
)

// Ptr returns a pointer to v, for optional fields such as TestObject.Output.
func Ptr[T any](v T) *T {
	return &v
}

// ErrorType expects the transformation to fail with an error of type T
// somewhere in its chain.
func ErrorType[T error]() ErrorMatcher {
	return model.NewErrorMatcher[T]()
}

// NewCounter returns a title counter independent of the process-wide one.
func NewCounter() *Counter {
	return &numbering.Counter{}
}

// Run registers the suite as subtests of t and executes them. Configuration
// errors fail t before any case runs.
func Run(t *testing.T, opts SuiteOptions) {
	t.Helper()
	host := runner.NewTestingHost(t)
	if err := PluginTester(host, opts); err != nil {
		t.Fatal(err)
	}
	host.Execute()
}

// PluginTester validates opts and registers every case with host.
// Configuration errors are returned before anything is registered.
func PluginTester(host Host, opts SuiteOptions) error {
	if err := runner.Require(host); err != nil {
		return err
	}
	s, err := newSuite(host, opts)
	if err != nil {
		return err
	}
	plan, err := s.plan()
	if err != nil {
		return err
	}
	return s.register(host, plan)
}

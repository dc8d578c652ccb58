// Package normalize validates raw test descriptors and fixtures and turns
// them into runnable test cases.
package normalize

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/AndreyAkinshin/plugintester/internal/errors"
	"github.com/AndreyAkinshin/plugintester/internal/fixtures"
	"github.com/AndreyAkinshin/plugintester/internal/merge"
	"github.com/AndreyAkinshin/plugintester/internal/model"
	"github.com/AndreyAkinshin/plugintester/internal/numbering"
	"github.com/AndreyAkinshin/plugintester/internal/textutil"
)

// Transform option keys filled in for every case.
const (
	KeyFilename   = "filename"
	KeyCwd        = "cwd"
	KeyBabelrc    = "babelrc"
	KeyConfigFile = "configFile"
)

// Suite holds the suite-level defaults every case starts from.
type Suite struct {
	Kind             model.UnitKind
	UnitOptions      map[string]any
	FilePath         string
	TransformOptions model.TransformOptions
	Formatter        model.Formatter
	EndOfLine        textutil.EndOfLine
	Snapshot         bool
	Setup            model.SetupFunc
	Teardown         model.TeardownFunc
}

// baseDir is the directory relative fixture paths are resolved against.
func (s *Suite) baseDir() string {
	if s.FilePath == "" {
		return ""
	}
	return filepath.Dir(s.FilePath)
}

func (s *Suite) unitOptions(plugin, preset map[string]any) map[string]any {
	if s.Kind == model.KindPreset {
		return merge.Merge(s.UnitOptions, preset)
	}
	return merge.Merge(s.UnitOptions, plugin)
}

// Inline normalises a test written in code. title has already been assigned
// by the numbering controller.
func Inline(s *Suite, obj *model.TestObject, title numbering.Title) (*model.TestCase, error) {
	snapshot := s.Snapshot
	if obj.Snapshot != nil {
		snapshot = *obj.Snapshot
	}
	throws, err := ThrowsSet(obj.Throws)
	if err != nil {
		return nil, errors.InvalidOptions(title.Full, err)
	}

	f := Fields{
		Skip:          obj.Skip,
		Only:          obj.Only,
		Code:          obj.Code != "",
		CodeFixture:   obj.CodeFixture != "",
		Output:        obj.Output != nil,
		OutputFixture: obj.OutputFixture != "",
		Exec:          obj.Exec != "",
		ExecFixture:   obj.ExecFixture != "",
		Snapshot:      snapshot,
		Throws:        throws,
	}
	if err := Check(f); err != nil {
		return nil, errors.InvalidOptions(title.Full, err)
	}

	tc := &model.TestCase{
		Title:       title,
		Skip:        obj.Skip,
		Only:        obj.Only,
		Scope:       numbering.ScopeTest,
		Throws:      obj.Throws,
		UnitOptions: s.unitOptions(obj.PluginOptions, obj.PresetOptions),
		Formatter:   s.Formatter,
		EndOfLine:   s.EndOfLine,
		Setup:       s.Setup,
		Teardown:    s.Teardown,
	}
	if obj.Formatter != nil {
		tc.Formatter = obj.Formatter
	}
	if obj.EndOfLine != "" {
		tc.EndOfLine = obj.EndOfLine
	}
	if obj.Setup != nil {
		tc.Setup = obj.Setup
	}
	if obj.Teardown != nil {
		tc.Teardown = obj.Teardown
	}

	var pathHint string
	switch {
	case f.Code:
		tc.Code = textutil.StripIndent(obj.Code)
	case f.CodeFixture:
		pathHint = s.resolvePath(obj.CodeFixture)
		if tc.Code, err = readFixture(title.Full, pathHint); err != nil {
			return nil, err
		}
	case f.Exec:
		tc.Code = textutil.StripIndent(obj.Exec)
	case f.ExecFixture:
		pathHint = s.resolvePath(obj.ExecFixture)
		if tc.Code, err = readFixture(title.Full, pathHint); err != nil {
			return nil, err
		}
	}

	switch {
	case f.anyExec():
		tc.Assert = model.AssertExec
	case throws:
		tc.Assert = model.AssertThrows
	case snapshot:
		tc.Assert = model.AssertSnapshot
	case f.Output:
		tc.Assert = model.AssertEqual
		tc.Expected = textutil.StripIndent(*obj.Output)
	case f.OutputFixture:
		tc.Assert = model.AssertEqual
		if tc.Expected, err = readFixture(title.Full, s.resolvePath(obj.OutputFixture)); err != nil {
			return nil, err
		}
	default:
		tc.Assert = model.AssertUnchanged
	}

	f.Blank = blank(tc.Code)
	if err := Check(f); err != nil {
		return nil, errors.InvalidOptions(title.Full, err)
	}

	if pathHint == "" {
		pathHint = s.FilePath
	}
	tc.TransformOptions, tc.Filename = s.transformOptions(obj.TransformOptions, pathHint)
	return tc, nil
}

// Fixture normalises a resolved fixture directory.
func Fixture(s *Suite, fx *fixtures.Fixture, title numbering.Title) (*model.TestCase, error) {
	opts := fx.Options
	throws, err := ThrowsSet(opts.Throws)
	if err != nil {
		return nil, errors.InvalidOptions(title.Full, err)
	}
	if err := Check(Fields{
		Skip:        opts.Skip,
		Only:        opts.Only,
		CodeFixture: !fx.IsExec(),
		ExecFixture: fx.IsExec(),
		Throws:      throws,
		Blank:       blank(fx.Input),
	}); err != nil {
		return nil, errors.InvalidOptions(title.Full, err)
	}

	tc := &model.TestCase{
		Title:       title,
		Skip:        opts.Skip,
		Only:        opts.Only,
		Scope:       numbering.ScopeFixture,
		Code:        fx.Input,
		Throws:      opts.Throws,
		UnitOptions: s.unitOptions(opts.PluginOptions, opts.PresetOptions),
		Formatter:   s.Formatter,
		EndOfLine:   s.EndOfLine,
		Setup:       s.Setup,
		Teardown:    s.Teardown,
	}
	if opts.EndOfLine != "" {
		tc.EndOfLine = textutil.EndOfLine(opts.EndOfLine)
	}

	inputPath := fx.CodePath
	switch {
	case fx.IsExec():
		tc.Assert = model.AssertExec
		inputPath = fx.ExecPath
	case throws:
		tc.Assert = model.AssertThrows
	default:
		tc.Assert = model.AssertEqual
		tc.OutputPath = fx.OutputPath
		tc.Expected = fx.Output
	}

	local := merge.Merge(map[string]any{KeyCwd: fx.Dir}, opts.TransformOptions)
	tc.TransformOptions, tc.Filename = s.transformOptions(local, inputPath)
	return tc, nil
}

// transformOptions layers the defaults, the suite options, and the case
// options, then fills in the filename from pathHint unless the case set one.
func (s *Suite) transformOptions(own model.TransformOptions, pathHint string) (model.TransformOptions, string) {
	defaults := map[string]any{KeyBabelrc: false, KeyConfigFile: false}
	opts := merge.Merge(defaults, s.TransformOptions, own)

	filename, _ := opts[KeyFilename].(string)
	if filename == "" && pathHint != "" {
		filename = pathHint
		opts[KeyFilename] = filename
	}
	if _, ok := opts[KeyCwd]; !ok && filename != "" {
		opts[KeyCwd] = filepath.Dir(filename)
	}
	return opts, filename
}

func (s *Suite) resolvePath(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(s.baseDir(), p)
}

// readFixture loads a fixture file verbatim.
func readFixture(title, path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", &errors.HarnessError{
			Kind:    errors.KindConfig,
			Title:   title,
			Message: "failed to read fixture file " + path,
			Cause:   err,
		}
	}
	return string(data), nil
}

func blank(code string) bool {
	return strings.TrimSpace(code) == ""
}

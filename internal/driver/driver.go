// Package driver executes normalised test cases against the transformation
// function.
package driver

import (
	"context"
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/AndreyAkinshin/plugintester/internal/errors"
	"github.com/AndreyAkinshin/plugintester/internal/model"
	"github.com/AndreyAkinshin/plugintester/internal/output"
	"github.com/AndreyAkinshin/plugintester/internal/runner"
	"github.com/AndreyAkinshin/plugintester/internal/runorder"
	"github.com/AndreyAkinshin/plugintester/internal/snapshot"
	"github.com/AndreyAkinshin/plugintester/internal/textutil"
)

// Driver runs cases of one suite.
type Driver struct {
	Engine   model.Engine
	Kind     model.UnitKind
	UnitName string
	Unit     any

	Evaluator   model.Evaluator   // Required by exec cases
	Snapshotter model.Snapshotter // Required by snapshot cases
	Log         *output.Writer    // Nil selects output.Default
}

// Body returns the host case body for tc.
func (d *Driver) Body(tc *model.TestCase) runner.CaseFunc {
	return func(ctx context.Context) error {
		return d.Run(ctx, tc)
	}
}

// Run executes tc: setup, transformation and assertion, then teardown.
//
// A failing setup is logged and returned; teardown does not run. Teardown
// actions run whatever the body's outcome, the explicit teardown first and
// the one returned by setup second. Teardown failures are joined and
// returned with the body's failure, if any, as their cause.
func (d *Driver) Run(ctx context.Context, tc *model.TestCase) error {
	title := tc.Title.Full
	d.log().Debug("running %q (%s)", title, tc.Assert)

	var fromSetup model.TeardownFunc
	if tc.Setup != nil {
		td, err := tc.Setup()
		if err != nil {
			d.log().CaseProblem(title, "problem during setup", err)
			return errors.Setup(title, err)
		}
		fromSetup = td
	}

	bodyErr := d.body(ctx, tc)

	var teardownErrs []error
	for _, td := range []model.TeardownFunc{tc.Teardown, fromSetup} {
		if td == nil {
			continue
		}
		if err := td(); err != nil {
			teardownErrs = append(teardownErrs, err)
		}
	}
	if len(teardownErrs) > 0 {
		return errors.Teardown(title, stderrors.Join(teardownErrs...), bodyErr)
	}
	return bodyErr
}

func (d *Driver) body(ctx context.Context, tc *model.TestCase) error {
	title := tc.Title.Full
	opts := d.collate(tc)

	result, err := d.Engine.Run(ctx, tc.Code, opts)
	if tc.Assert == model.AssertThrows {
		if err == nil {
			return errors.Assertion(title, "expected transformation to return an error, but it did not")
		}
		return matchError(title, tc.Throws, err)
	}
	if err != nil {
		return errors.Transform(title, err)
	}
	if result == nil {
		return errors.Transform(title, stderrors.New("transformation returned no result"))
	}

	actual, err := d.format(tc, opts, result.Code)
	if err != nil {
		return err
	}

	switch tc.Assert {
	case model.AssertExec:
		return d.exec(ctx, tc, actual)
	case model.AssertSnapshot:
		return d.snapshot(tc, actual)
	case model.AssertEqual:
		return d.equal(tc, actual)
	default:
		expected := textutil.ConvertEOL(tc.Code, tc.EndOfLine, tc.Code)
		if textutil.Trim(actual) != textutil.Trim(expected) {
			return errors.Mismatch(title, "expected output not to change, but it did", textutil.Trim(expected), textutil.Trim(actual))
		}
		return nil
	}
}

// collate splices the unit under test into the plugin or preset list.
func (d *Driver) collate(tc *model.TestCase) model.TransformOptions {
	entry := model.UnitEntry{Name: d.UnitName, Unit: d.Unit, Options: tc.UnitOptions}
	if d.Kind == model.KindPreset {
		return runorder.Apply(tc.TransformOptions, nil, entry)
	}
	return runorder.Apply(tc.TransformOptions, entry, nil)
}

func (d *Driver) format(tc *model.TestCase, opts model.TransformOptions, code string) (string, error) {
	if tc.Formatter != nil {
		cwd, _ := opts["cwd"].(string)
		formatted, err := tc.Formatter(code, model.FormatContext{
			Cwd:      cwd,
			Filename: filepath.Base(tc.Filename),
			Filepath: tc.Filename,
		})
		if err != nil {
			return "", &errors.HarnessError{
				Kind:    errors.KindTransform,
				Title:   tc.Title.Full,
				Message: "formatting the transformed output failed",
				Cause:   err,
			}
		}
		code = formatted
	}
	return textutil.ConvertEOL(code, tc.EndOfLine, tc.Code), nil
}

func (d *Driver) exec(ctx context.Context, tc *model.TestCase, actual string) error {
	title := tc.Title.Full
	if textutil.Trim(actual) == "" {
		return errors.Assertion(title, "transformed exec output is empty")
	}
	if d.Evaluator == nil {
		return errors.Environment("exec mode needs an evaluator, but none is configured")
	}
	if err := d.Evaluator.Evaluate(ctx, actual, tc.Filename); err != nil {
		return &errors.HarnessError{
			Kind:    errors.KindAssertion,
			Title:   title,
			Message: "exec failed",
			Cause:   err,
		}
	}
	return nil
}

func (d *Driver) snapshot(tc *model.TestCase, actual string) error {
	title := tc.Title.Full
	if textutil.Trim(actual) == textutil.Trim(tc.Code) {
		return errors.Assertion(title, "code was unmodified but a snapshot was requested; disable snapshot if the code should not change")
	}
	if d.Snapshotter == nil {
		return errors.Environment("snapshot mode needs a snapshotter, but none is available")
	}
	return d.Snapshotter.MatchSnapshot(title, snapshot.Format(textutil.Trim(tc.Code), textutil.Trim(actual)))
}

// equal compares against the expected output. A fixture whose output file
// does not exist yet gets it written and passes.
func (d *Driver) equal(tc *model.TestCase, actual string) error {
	title := tc.Title.Full
	expected := tc.Expected
	message := "actual output does not match expected output"

	if tc.OutputPath != "" {
		data, err := os.ReadFile(tc.OutputPath)
		switch {
		case os.IsNotExist(err):
			d.log().Debug("writing fixture output %s", tc.OutputPath)
			if err := os.WriteFile(tc.OutputPath, []byte(textutil.Trim(actual)+"\n"), 0644); err != nil {
				return errors.Wrap(err, "failed to write fixture output "+tc.OutputPath)
			}
			return nil
		case err != nil:
			return errors.Wrap(err, "failed to read fixture output "+tc.OutputPath)
		}
		expected = string(data)
		message = fmt.Sprintf("actual output does not match %s", filepath.Base(tc.OutputPath))
	}

	expected = textutil.Trim(textutil.ConvertEOL(expected, tc.EndOfLine, tc.Code))
	if got := textutil.Trim(actual); got != expected {
		return errors.Mismatch(title, message, expected, got)
	}
	return nil
}

// matchError checks a transformation error against an error expectation.
func matchError(title string, expectation any, err error) error {
	switch want := expectation.(type) {
	case bool:
		return nil
	case string:
		if !strings.Contains(err.Error(), want) {
			return errors.Mismatch(title, "transformation error does not contain the expected text", want, err.Error())
		}
	case *regexp.Regexp:
		if !want.MatchString(err.Error()) {
			return errors.Mismatch(title, "transformation error does not match the expected pattern", want.String(), err.Error())
		}
	case func(error) bool:
		if !want(err) {
			return errors.Assertion(title, fmt.Sprintf("transformation error was rejected by the expectation: %v", err))
		}
	case model.ErrorMatcher:
		if !want.Matches(err) {
			return errors.Mismatch(title, "transformation error is not of the expected type", want.Type.String(), fmt.Sprintf("%T", err))
		}
	default:
		return errors.InvalidOptions(title, errors.ErrInvalidThrows)
	}
	return nil
}

func (d *Driver) log() *output.Writer {
	if d.Log != nil {
		return d.Log
	}
	return output.Default
}

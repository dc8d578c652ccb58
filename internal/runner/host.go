// Package runner adapts host test runners to the plugin tester: it registers
// describe blocks and cases, then executes them in registration order.
package runner

import (
	"context"

	"github.com/AndreyAkinshin/plugintester/internal/errors"
	"github.com/AndreyAkinshin/plugintester/internal/model"
)

// CaseFunc is the body of one registered case. A non-nil error fails it.
type CaseFunc func(ctx context.Context) error

// Host is the registration surface of a test runner.
type Host interface {
	Describe(title string, body func(Host))
	It(title string, body CaseFunc)
}

// Skipper is implemented by hosts that can register skipped cases.
type Skipper interface {
	ItSkip(title string, body CaseFunc)
}

// Focuser is implemented by hosts that can register focused cases.
type Focuser interface {
	ItOnly(title string, body CaseFunc)
}

// SnapshotProvider is implemented by hosts with a snapshot primitive.
type SnapshotProvider interface {
	Snapshotter() model.Snapshotter
}

// Require returns an environment error when host is nil.
func Require(host Host) error {
	if host == nil {
		return errors.Environment("the host test runner does not provide describe and it")
	}
	return nil
}

// Skip registers a skipped case. It fails when host cannot skip.
func Skip(host Host, title string, body CaseFunc) error {
	s, ok := host.(Skipper)
	if !ok {
		return errors.Environmentf("the host test runner cannot skip cases (needed by %q)", title)
	}
	s.ItSkip(title, body)
	return nil
}

// Only registers a focused case. It fails when host cannot focus.
func Only(host Host, title string, body CaseFunc) error {
	f, ok := host.(Focuser)
	if !ok {
		return errors.Environmentf("the host test runner cannot focus cases (needed by %q)", title)
	}
	f.ItOnly(title, body)
	return nil
}

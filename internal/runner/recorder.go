package runner

import (
	"context"
	"fmt"
	"strings"
)

// Status is the outcome of an executed case.
type Status int

const (
	StatusPassed Status = iota
	StatusFailed
	StatusSkipped
)

func (s Status) String() string {
	switch s {
	case StatusFailed:
		return "failed"
	case StatusSkipped:
		return "skipped"
	default:
		return "passed"
	}
}

// Outcome is the result of one case executed by a Recorder.
type Outcome struct {
	Path   string // Describe titles and case title joined by " > "
	Status Status
	Reason string // Why the case was skipped
	Err    error
}

// Recorder is an in-memory host. It records registrations and executes them
// sequentially on demand.
type Recorder struct {
	*scope
}

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{scope: newScope()}
}

// Execute runs every registered case in registration order. A canceled
// context stops execution before the next case starts.
func (r *Recorder) Execute(ctx context.Context) []Outcome {
	var outcomes []Outcome
	var walk func(prefix []string, n *node) bool
	walk = func(prefix []string, n *node) bool {
		for _, c := range n.children {
			path := append(append([]string(nil), prefix...), c.title)
			if c.isGroup() {
				if !walk(path, c) {
					return false
				}
				continue
			}
			if ctx.Err() != nil {
				return false
			}
			outcomes = append(outcomes, r.run(ctx, strings.Join(path, " > "), c))
		}
		return true
	}
	walk(nil, r.node)
	return outcomes
}

func (r *Recorder) run(ctx context.Context, path string, n *node) (o Outcome) {
	o.Path = path
	if reason := r.reg.skipReason(n); reason != "" {
		o.Status = StatusSkipped
		o.Reason = reason
		return o
	}
	defer func() {
		if p := recover(); p != nil {
			o.Status = StatusFailed
			o.Err = fmt.Errorf("panic: %v", p)
		}
	}()
	if err := n.body(ctx); err != nil {
		o.Status = StatusFailed
		o.Err = err
	}
	return o
}

// Failures combines the errors of failed outcomes, each prefixed with its
// case path. It returns nil when nothing failed.
func Failures(outcomes []Outcome) error {
	var errs []error
	for _, o := range outcomes {
		if o.Status == StatusFailed {
			errs = append(errs, formatCaseError(o.Path, o.Err))
		}
	}
	return combineErrors(errs)
}

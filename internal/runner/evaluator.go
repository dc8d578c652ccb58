package runner

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/AndreyAkinshin/plugintester/internal/errors"
)

// CommandEvaluator runs exec-mode output by writing it to a temporary file
// and invoking Command with that file's path as the last argument.
type CommandEvaluator struct {
	Command []string          // Program and leading arguments, e.g. {"node"}
	Dir     string            // Working directory; empty means the current one
	Env     map[string]string // Added to the process environment
	Ext     string            // Temporary file extension when filename has none
}

// Evaluate implements model.Evaluator. A non-zero exit fails with the
// combined output of the command.
func (e *CommandEvaluator) Evaluate(ctx context.Context, code, filename string) error {
	if len(e.Command) == 0 {
		return errors.Environment("exec evaluator has no command configured")
	}

	ext := filepath.Ext(filename)
	if ext == "" {
		ext = e.Ext
	}
	f, err := os.CreateTemp("", "plugintester-exec-*"+ext)
	if err != nil {
		return errors.Wrap(err, "failed to create exec file")
	}
	defer os.Remove(f.Name())
	if _, err := f.WriteString(code); err != nil {
		f.Close()
		return errors.Wrap(err, "failed to write exec file")
	}
	if err := f.Close(); err != nil {
		return errors.Wrap(err, "failed to write exec file")
	}

	args := append(append([]string(nil), e.Command[1:]...), f.Name())
	cmd := exec.CommandContext(ctx, e.Command[0], args...)
	cmd.Dir = e.Dir
	cmd.Env = os.Environ()
	for k, v := range e.Env {
		cmd.Env = append(cmd.Env, k+"="+v)
	}

	var captured bytes.Buffer
	cmd.Stdout = &captured
	cmd.Stderr = &captured

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s failed: %w\n%s", strings.Join(e.Command, " "), err, strings.TrimSpace(captured.String()))
	}
	return nil
}

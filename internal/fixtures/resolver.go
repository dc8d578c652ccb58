package fixtures

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/AndreyAkinshin/plugintester/internal/config"
	"github.com/AndreyAkinshin/plugintester/internal/errors"
	"github.com/AndreyAkinshin/plugintester/internal/merge"
	"github.com/AndreyAkinshin/plugintester/internal/output"
)

// File name patterns recognised inside a fixture directory.
const (
	codePattern   = "code.*"
	execPattern   = "exec.*"
	outputPattern = "%s.*"
)

// Resolver walks fixture directories.
type Resolver struct {
	// Log receives unknown-option warnings and debug traces. Nil selects
	// output.Default.
	Log *output.Writer

	// Match, when set, keeps only fixtures whose slash-separated path
	// relative to the root matches this doublestar pattern.
	Match string
}

// Resolve walks root and returns its fixtures and groups in directory order.
// inherited holds suite-level option defaults in fixture-options form. A root
// that does not exist or is not a directory yields no nodes.
func (r *Resolver) Resolve(root string, inherited map[string]any) ([]Node, error) {
	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		r.log().Debug("fixtures root %s is not a directory; no fixtures registered", root)
		return nil, nil
	}
	if r.Match != "" && !doublestar.ValidatePattern(r.Match) {
		return nil, errors.Configf("invalid fixture match pattern %q", r.Match)
	}

	own, err := r.loadOptions(root)
	if err != nil {
		return nil, err
	}
	layered := merge.Merge(inherited, config.Inheritable(own))

	return r.children(root, root, layered)
}

// children resolves every subdirectory of dir, passing inherited down by
// value.
func (r *Resolver) children(root, dir string, inherited map[string]any) ([]Node, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Configf("failed to read fixture directory %s: %v", dir, err)
	}

	var nodes []Node
	for _, entry := range entries {
		if !entry.IsDir() || skipDir(entry.Name()) {
			continue
		}
		node, ok, err := r.resolveDir(root, filepath.Join(dir, entry.Name()), inherited)
		if err != nil {
			return nil, err
		}
		if ok {
			nodes = append(nodes, node)
		}
	}
	return nodes, nil
}

// resolveDir resolves one directory. ok is false when neither the directory
// nor any descendant holds a fixture.
func (r *Resolver) resolveDir(root, dir string, inherited map[string]any) (Node, bool, error) {
	own, err := r.loadOptions(dir)
	if err != nil {
		return Node{}, false, err
	}
	name := filepath.Base(dir)

	files, err := listFiles(dir)
	if err != nil {
		return Node{}, false, err
	}
	codeFile, err := single(dir, files, codePattern, "code")
	if err != nil {
		return Node{}, false, err
	}
	execFile, err := single(dir, files, execPattern, "exec")
	if err != nil {
		return Node{}, false, err
	}

	if codeFile == "" && execFile == "" {
		children, err := r.children(root, dir, merge.Merge(inherited, config.Inheritable(own)))
		if err != nil {
			return Node{}, false, err
		}
		if len(children) == 0 {
			return Node{}, false, nil
		}
		return Node{Name: name, Dir: dir, Title: dirTitle(name), Children: children}, true, nil
	}

	if !r.matches(root, dir) {
		return Node{}, false, nil
	}
	if codeFile != "" && execFile != "" {
		return Node{}, false, fixtureError(dir, errors.ErrFixtureCodeAndExec)
	}

	opts, err := config.Decode(merge.Merge(inherited, own))
	if err != nil {
		return Node{}, false, fmt.Errorf("fixture %s: %w", dir, err)
	}

	fx, err := buildFixture(dir, files, codeFile, execFile, opts)
	if err != nil {
		return Node{}, false, err
	}
	fx.Title = opts.Title
	if fx.Title == "" {
		fx.Title = dirTitle(name)
	}

	r.log().Debug("resolved fixture %s (exec=%v, output exists=%v)", dir, fx.IsExec(), fx.OutputExists)
	return Node{Name: name, Dir: dir, Title: fx.Title, Fixture: fx}, true, nil
}

func buildFixture(dir string, files []string, codeFile, execFile string, opts *config.FixtureOptions) (*Fixture, error) {
	fx := &Fixture{Dir: dir, Options: opts}

	outputFiles := matching(files, fmt.Sprintf(outputPattern, opts.FixtureOutputName))
	throws := opts.Throws != nil && opts.Throws != false

	if execFile != "" {
		if len(outputFiles) > 0 {
			return nil, fixtureError(dir, errors.ErrFixtureExecWithOutput)
		}
		fx.ExecPath = filepath.Join(dir, execFile)
		input, err := readFile(fx.ExecPath)
		if err != nil {
			return nil, err
		}
		fx.Input = input
		return fx, nil
	}

	fx.CodePath = filepath.Join(dir, codeFile)
	input, err := readFile(fx.CodePath)
	if err != nil {
		return nil, err
	}
	fx.Input = input

	ext := opts.FixtureOutputExt
	if ext == "" {
		ext = filepath.Ext(codeFile)
	}
	fx.OutputPath = filepath.Join(dir, opts.FixtureOutputName+ext)

	if throws {
		if len(outputFiles) > 0 {
			return nil, fixtureError(dir, errors.ErrFixtureThrowsWithOutput)
		}
		fx.OutputPath = ""
		return fx, nil
	}

	if _, err := os.Stat(fx.OutputPath); err == nil {
		out, err := readFile(fx.OutputPath)
		if err != nil {
			return nil, err
		}
		fx.Output = out
		fx.OutputExists = true
	} else if !os.IsNotExist(err) {
		return nil, errors.Configf("failed to stat fixture output %s: %v", fx.OutputPath, err)
	}
	return fx, nil
}

func (r *Resolver) loadOptions(dir string) (map[string]any, error) {
	path, err := config.FindOptionsFile(dir)
	if err != nil {
		return nil, err
	}
	if path == "" {
		return nil, nil
	}
	doc, warnings, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	for _, w := range warnings {
		r.log().Warning("%s: %s", path, w)
	}
	return doc, nil
}

func (r *Resolver) matches(root, dir string) bool {
	if r.Match == "" {
		return true
	}
	rel, err := filepath.Rel(root, dir)
	if err != nil {
		return false
	}
	ok, err := doublestar.Match(r.Match, filepath.ToSlash(rel))
	return err == nil && ok
}

func (r *Resolver) log() *output.Writer {
	if r.Log != nil {
		return r.Log
	}
	return output.Default
}

// skipDir reports directories that are never fixtures.
func skipDir(name string) bool {
	return strings.HasPrefix(name, ".") || name == "__snapshots__" || name == "node_modules"
}

// dirTitle turns a directory name into a title.
func dirTitle(name string) string {
	return strings.ReplaceAll(name, "-", " ")
}

func listFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Configf("failed to read fixture directory %s: %v", dir, err)
	}
	var files []string
	for _, entry := range entries {
		if !entry.IsDir() {
			files = append(files, entry.Name())
		}
	}
	sort.Strings(files)
	return files, nil
}

func matching(files []string, pattern string) []string {
	var out []string
	for _, f := range files {
		if ok, _ := doublestar.Match(pattern, f); ok {
			out = append(out, f)
		}
	}
	return out
}

// single returns the only file matching pattern, "" when none does, or a
// configuration error when several do.
func single(dir string, files []string, pattern, what string) (string, error) {
	found := matching(files, pattern)
	switch len(found) {
	case 0:
		return "", nil
	case 1:
		return found[0], nil
	default:
		return "", errors.Configf("fixture %s: found more than one %s file: %s", dir, what, strings.Join(found, ", "))
	}
}

func readFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", errors.Configf("failed to read fixture file %s: %v", path, err)
	}
	return string(data), nil
}

func fixtureError(dir string, rule error) error {
	return &errors.HarnessError{
		Kind:    errors.KindConfig,
		Title:   dir,
		Message: fmt.Sprintf("failed to validate fixture: %v", rule),
		Cause:   rule,
	}
}

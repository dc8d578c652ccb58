package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/AndreyAkinshin/plugintester/internal/errors"
	"github.com/AndreyAkinshin/plugintester/internal/output"
)

func fixtureTree(t *testing.T, cases ...string) string {
	t.Helper()
	root := t.TempDir()
	for _, c := range cases {
		dir := filepath.Join(root, filepath.FromSlash(c))
		if err := os.MkdirAll(dir, 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(filepath.Join(dir, "code.js"), []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}
	}
	return root
}

func runCLI(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), args, output.NewWithWriters(&stdout, &stderr, false))
	return code, stdout.String(), stderr.String()
}

func clearFilters(t *testing.T) {
	t.Helper()
	for _, v := range []string{"TEST_SKIP", "TEST_ONLY", "TEST_NUM_SKIP", "TEST_NUM_ONLY"} {
		t.Setenv(v, "")
	}
}

func TestList(t *testing.T) {
	clearFilters(t)
	t.Setenv("TEST_NUM_SKIP", "2")
	root := fixtureTree(t, "adds-semicolons", "group/nested-case", "other")

	code, stdout, stderr := runCLI(t, "list", root)
	if code != errors.ExitSuccess {
		t.Fatalf("exit code = %d, want %d (stderr: %s)", code, errors.ExitSuccess, stderr)
	}
	for _, want := range []string{
		"=== " + root + " ===",
		"1. adds semicolons",
		"group > 2. nested case",
		"3. other",
		"selection filters:",
		"  - TEST_NUM_SKIP=2",
		"3 case(s) in 1 root(s)",
	} {
		if !strings.Contains(stdout, want) {
			t.Errorf("stdout missing %q:\n%s", want, stdout)
		}
	}

	var skipLine string
	for _, line := range strings.Split(stdout, "\n") {
		if strings.Contains(line, "nested case") {
			skipLine = line
		}
	}
	if !strings.HasSuffix(strings.TrimSpace(skipLine), "skip") {
		t.Errorf("nested case line = %q, want skip mode", skipLine)
	}
}

func TestList_MatchAndNumbering(t *testing.T) {
	clearFilters(t)
	root := fixtureTree(t, "a/one", "a/two", "b/three")

	code, stdout, _ := runCLI(t, "list", "--match", "a/**", "--numbering", "none", root)
	if code != errors.ExitSuccess {
		t.Fatalf("exit code = %d, want %d", code, errors.ExitSuccess)
	}
	if strings.Contains(stdout, "three") {
		t.Errorf("stdout lists a fixture excluded by --match:\n%s", stdout)
	}
	if !strings.Contains(stdout, "a > one") || strings.Contains(stdout, "1. one") {
		t.Errorf("stdout = %q, want unnumbered titles", stdout)
	}
}

func TestList_MultipleRootsKeepOrder(t *testing.T) {
	clearFilters(t)
	first := fixtureTree(t, "first-case")
	second := fixtureTree(t, "second-case")

	code, stdout, _ := runCLI(t, "list", second, first)
	if code != errors.ExitSuccess {
		t.Fatalf("exit code = %d", code)
	}
	if strings.Index(stdout, second) > strings.Index(stdout, first) {
		t.Errorf("roots printed out of argument order:\n%s", stdout)
	}
	if !strings.Contains(stdout, "1. first case") || !strings.Contains(stdout, "1. second case") {
		t.Errorf("each root should number independently:\n%s", stdout)
	}
}

func TestList_Quiet(t *testing.T) {
	clearFilters(t)
	t.Setenv("TEST_SKIP", "other")
	root := fixtureTree(t, "first", "other")

	code, stdout, _ := runCLI(t, "list", "--quiet", root)
	if code != errors.ExitSuccess {
		t.Fatalf("exit code = %d, want %d", code, errors.ExitSuccess)
	}
	if !strings.Contains(stdout, "1. first") {
		t.Errorf("stdout missing case table:\n%s", stdout)
	}
	for _, unwanted := range []string{"selection filters:", "TEST_SKIP=other", "case(s) in"} {
		if strings.Contains(stdout, unwanted) {
			t.Errorf("stdout contains %q in quiet mode:\n%s", unwanted, stdout)
		}
	}
}

func TestList_Errors(t *testing.T) {
	clearFilters(t)
	root := fixtureTree(t, "a")

	tests := []struct {
		name  string
		setup func(t *testing.T)
		args  []string
		code  int
	}{
		{"no directories", nil, []string{"list"}, errors.ExitRuntimeError},
		{"bad numeric filter", func(t *testing.T) { t.Setenv("TEST_NUM_ONLY", "5-2") }, []string{"list", root}, errors.ExitConfigError},
		{"bad numbering", nil, []string{"list", "--numbering", "odd", root}, errors.ExitConfigError},
		{"bad match", nil, []string{"list", "--match", "[", root}, errors.ExitConfigError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.setup != nil {
				tt.setup(t)
			}
			code, _, stderr := runCLI(t, tt.args...)
			if code != tt.code {
				t.Errorf("exit code = %d, want %d (stderr: %s)", code, tt.code, stderr)
			}
			if !strings.Contains(stderr, "plugintester:") {
				t.Errorf("stderr = %q, want prefixed error", stderr)
			}
		})
	}
}

func TestList_MissingRoot(t *testing.T) {
	clearFilters(t)
	code, stdout, _ := runCLI(t, "list", filepath.Join(t.TempDir(), "missing"))
	if code != errors.ExitSuccess {
		t.Fatalf("exit code = %d, want success", code)
	}
	if !strings.Contains(stdout, "no fixtures found") {
		t.Errorf("stdout = %q, want empty-tree notice", stdout)
	}
}

func TestVersion(t *testing.T) {
	code, stdout, _ := runCLI(t, "--version")
	if code != errors.ExitSuccess || !strings.Contains(stdout, Version) {
		t.Errorf("--version = (%d, %q), want version output", code, stdout)
	}
}

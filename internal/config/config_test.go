package config

import (
	stderrors "errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/AndreyAkinshin/plugintester/internal/errors"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestFindOptionsFile_None(t *testing.T) {
	path, err := FindOptionsFile(t.TempDir())
	if err != nil {
		t.Fatalf("FindOptionsFile() error = %v", err)
	}
	if path != "" {
		t.Errorf("FindOptionsFile() = %q, want empty", path)
	}
}

func TestFindOptionsFile_Single(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "options.yaml"), "title: x\n")

	path, err := FindOptionsFile(dir)
	if err != nil {
		t.Fatalf("FindOptionsFile() error = %v", err)
	}
	if filepath.Base(path) != "options.yaml" {
		t.Errorf("FindOptionsFile() = %q, want options.yaml", path)
	}
}

func TestFindOptionsFile_Multiple(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "options.json"), "{}")
	writeFile(t, filepath.Join(dir, "options.toml"), "")

	_, err := FindOptionsFile(dir)
	if !stderrors.Is(err, errors.ErrMultipleOptionsFiles) {
		t.Fatalf("FindOptionsFile() error = %v, want ErrMultipleOptionsFiles", err)
	}
	if errors.KindOf(err) != errors.KindConfig {
		t.Errorf("KindOf() = %v, want %v", errors.KindOf(err), errors.KindConfig)
	}
}

func TestLoad_AllFormatsDecodeToSameDocument(t *testing.T) {
	want := map[string]any{
		"title":            "adds semicolons",
		"only":             true,
		"transformOptions": map[string]any{"plugins": []any{"a", "b"}},
		"pluginOptions":    map[string]any{"depth": float64(2)},
	}

	files := map[string]string{
		"options.json": `{"title": "adds semicolons", "only": true,
			"transformOptions": {"plugins": ["a", "b"]}, "pluginOptions": {"depth": 2}}`,
		"options.yaml": "title: adds semicolons\nonly: true\ntransformOptions:\n  plugins: [a, b]\npluginOptions:\n  depth: 2\n",
		"options.toml": "title = \"adds semicolons\"\nonly = true\n[transformOptions]\nplugins = [\"a\", \"b\"]\n[pluginOptions]\ndepth = 2\n",
	}

	for name, content := range files {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)
			writeFile(t, path, content)

			doc, warnings, err := Load(path)
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			if len(warnings) != 0 {
				t.Errorf("warnings = %v, want none", warnings)
			}
			if diff := cmp.Diff(want, doc); diff != "" {
				t.Errorf("Load() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestLoad_EmptyYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "options.yml")
	writeFile(t, path, "")

	doc, _, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(doc) != 0 {
		t.Errorf("Load() = %v, want empty document", doc)
	}
}

func TestLoad_UnknownFieldWarnings(t *testing.T) {
	path := filepath.Join(t.TempDir(), "options.json")
	writeFile(t, path, `{"$schema": "x", "title": "t", "babelOptions": {}, "zzz": 1}`)

	_, warnings, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(warnings) != 2 {
		t.Fatalf("warnings = %v, want 2", warnings)
	}
	if !strings.Contains(warnings[0], `"babelOptions"`) || !strings.Contains(warnings[1], `"zzz"`) {
		t.Errorf("warnings = %v, want babelOptions then zzz", warnings)
	}
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		wantMsg string
	}{
		{"invalid json", "options.json", `{`, "failed to parse"},
		{"invalid yaml", "options.yaml", "title: [", "failed to parse"},
		{"schema violation", "options.json", `{"only": "yes"}`, "invalid options file"},
		{"not an object", "options.json", `[1]`, "invalid options file"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), tt.file)
			writeFile(t, path, tt.content)

			_, _, err := Load(path)
			if err == nil {
				t.Fatal("Load() expected error")
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("error = %q, want it to contain %q", err.Error(), tt.wantMsg)
			}
			if errors.KindOf(err) != errors.KindConfig {
				t.Errorf("KindOf() = %v, want %v", errors.KindOf(err), errors.KindConfig)
			}
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, _, err := Load(filepath.Join(t.TempDir(), "options.json"))
	if err == nil || !strings.Contains(err.Error(), "failed to read") {
		t.Errorf("Load() error = %v, want read failure", err)
	}
}

func TestDecode_AppliesDefaults(t *testing.T) {
	opts, err := Decode(map[string]any{"fixtureOutputExt": "mjs", "throws": "boom"})
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if opts.FixtureOutputName != DefaultFixtureOutputName {
		t.Errorf("FixtureOutputName = %q, want %q", opts.FixtureOutputName, DefaultFixtureOutputName)
	}
	if opts.FixtureOutputExt != ".mjs" {
		t.Errorf("FixtureOutputExt = %q, want %q", opts.FixtureOutputExt, ".mjs")
	}
	if opts.Throws != "boom" {
		t.Errorf("Throws = %v, want %q", opts.Throws, "boom")
	}
}

func TestDecode_ValidationErrors(t *testing.T) {
	tests := []struct {
		name  string
		doc   map[string]any
		field string
	}{
		{"bad throws", map[string]any{"throws": float64(1)}, "throws"},
		{"bad end of line", map[string]any{"endOfLine": "cr"}, "endOfLine"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.doc)
			var ve *ValidationError
			if !stderrors.As(err, &ve) {
				t.Fatalf("Decode() error = %v, want *ValidationError", err)
			}
			if ve.Field != tt.field {
				t.Errorf("Field = %q, want %q", ve.Field, tt.field)
			}
		})
	}
}

func TestInheritable_DropsTitle(t *testing.T) {
	doc := map[string]any{"title": "x", "only": true}
	got := Inheritable(doc)

	if diff := cmp.Diff(map[string]any{"only": true}, got); diff != "" {
		t.Errorf("Inheritable() mismatch (-want +got):\n%s", diff)
	}
	if _, ok := doc["title"]; !ok {
		t.Error("Inheritable() mutated its input")
	}
}

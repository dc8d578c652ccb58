package snapshot

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/AndreyAkinshin/plugintester/internal/errors"
)

func env(vars map[string]string) func(string) string {
	return func(k string) string { return vars[k] }
}

func TestFormat(t *testing.T) {
	got := Format("a", "b")
	want := "a\n\n      ↓ ↓ ↓ ↓ ↓ ↓\n\nb"
	if got != want {
		t.Errorf("Format() = %q, want %q", got, want)
	}
}

func TestStore_RecordsThenMatches(t *testing.T) {
	path := filepath.Join(t.TempDir(), "__snapshots__", "Suite.snap.yaml")
	value := Format("var a;", "var a = 1;\nvar b;")

	s := Open(path, env(nil))
	if err := s.MatchSnapshot("1. case", value); err != nil {
		t.Fatalf("MatchSnapshot() first call error = %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("snapshot file was not written: %v", err)
	}

	reopened := Open(path, env(nil))
	if err := reopened.MatchSnapshot("1. case", value); err != nil {
		t.Errorf("MatchSnapshot() after reload error = %v", err)
	}

	err := reopened.MatchSnapshot("1. case", "different")
	if !errors.IsAssertion(err) {
		t.Fatalf("MatchSnapshot() error = %v, want assertion failure", err)
	}
	if !strings.Contains(err.Error(), "snapshot mismatch") {
		t.Errorf("error = %q, want snapshot mismatch message", err.Error())
	}
}

func TestStore_Update(t *testing.T) {
	path := filepath.Join(t.TempDir(), "s.snap.yaml")
	if err := Open(path, env(nil)).MatchSnapshot("k", "old"); err != nil {
		t.Fatal(err)
	}

	if err := Open(path, env(map[string]string{EnvUpdate: "1"})).MatchSnapshot("k", "new"); err != nil {
		t.Fatalf("MatchSnapshot() with update error = %v", err)
	}
	if err := Open(path, env(nil)).MatchSnapshot("k", "new"); err != nil {
		t.Errorf("updated snapshot did not persist: %v", err)
	}
}

func TestStore_CIDoesNotWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "s.snap.yaml")

	err := Open(path, env(map[string]string{EnvCI: "true"})).MatchSnapshot("k", "v")
	if errors.KindOf(err) != errors.KindAssertion {
		t.Fatalf("MatchSnapshot() error = %v, want assertion failure", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("snapshot file exists after CI run, stat error = %v", err)
	}
}

func TestStore_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "s.snap.yaml")
	if err := os.WriteFile(path, []byte("- not\n- a map\n"), 0644); err != nil {
		t.Fatal(err)
	}
	err := Open(path, env(nil)).MatchSnapshot("k", "v")
	if errors.KindOf(err) != errors.KindConfig {
		t.Errorf("MatchSnapshot() error = %v, want configuration error", err)
	}
}

func TestTruthy(t *testing.T) {
	for _, v := range []string{"", "0", "false", "FALSE", " no "} {
		if truthy(v) {
			t.Errorf("truthy(%q) = true, want false", v)
		}
	}
	for _, v := range []string{"1", "true", "yes"} {
		if !truthy(v) {
			t.Errorf("truthy(%q) = false, want true", v)
		}
	}
}

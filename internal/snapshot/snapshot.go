// Package snapshot stores recorded transformation results in YAML files.
package snapshot

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/AndreyAkinshin/plugintester/internal/errors"
)

// Environment variables controlling how mismatches and missing entries are
// handled.
const (
	EnvUpdate = "UPDATE_SNAPSHOTS"
	EnvCI     = "CI"
)

// Separator divides the input code from the transformed output in a
// snapshot value.
const Separator = "↓ ↓ ↓ ↓ ↓ ↓"

// Format renders the snapshot value of one transformation.
func Format(code, output string) string {
	return fmt.Sprintf("%s\n\n      %s\n\n%s", code, Separator, output)
}

// Store is a snapshot file holding named entries. It is safe for concurrent
// use by cases of the same suite.
type Store struct {
	path   string
	update bool
	ci     bool

	mu      sync.Mutex
	loaded  bool
	entries map[string]string
}

// Open returns a store backed by path. The file is read on first use.
// getenv supplies EnvUpdate and EnvCI; nil selects os.Getenv.
func Open(path string, getenv func(string) string) *Store {
	if getenv == nil {
		getenv = os.Getenv
	}
	return &Store{
		path:   path,
		update: truthy(getenv(EnvUpdate)),
		ci:     truthy(getenv(EnvCI)),
	}
}

// Path returns the backing file path.
func (s *Store) Path() string {
	return s.path
}

// MatchSnapshot compares value with the entry recorded under name. A missing
// entry is recorded, unless running under CI. A differing entry is a
// mismatch, unless updating is enabled.
func (s *Store) MatchSnapshot(name, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.load(); err != nil {
		return err
	}

	recorded, ok := s.entries[name]
	switch {
	case ok && recorded == value:
		return nil
	case ok && !s.update:
		return errors.Mismatch(name, "snapshot mismatch", recorded, value)
	case !ok && s.ci && !s.update:
		return errors.Assertion(name, fmt.Sprintf("missing snapshot in %s; snapshots are not written when %s is set", s.path, EnvCI))
	}

	s.entries[name] = value
	return s.save()
}

func (s *Store) load() error {
	if s.loaded {
		return nil
	}
	s.entries = map[string]string{}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			s.loaded = true
			return nil
		}
		return errors.Wrap(err, "failed to read snapshot file "+s.path)
	}
	if err := yaml.Unmarshal(data, &s.entries); err != nil {
		return errors.Configf("failed to parse snapshot file %s: %v", s.path, err)
	}
	if s.entries == nil {
		s.entries = map[string]string{}
	}
	s.loaded = true
	return nil
}

func (s *Store) save() error {
	data, err := yaml.Marshal(s.entries)
	if err != nil {
		return errors.Wrap(err, "failed to encode snapshots")
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return errors.Wrap(err, "failed to create snapshot directory")
	}
	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return errors.Wrap(err, "failed to write snapshot file "+s.path)
	}
	return nil
}

func truthy(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "", "0", "false", "no":
		return false
	}
	return true
}

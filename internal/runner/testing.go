package runner

import (
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/AndreyAkinshin/plugintester/internal/model"
	"github.com/AndreyAkinshin/plugintester/internal/snapshot"
)

// SnapshotDir is where TestingHost keeps snapshot files, relative to the
// package under test.
var SnapshotDir = filepath.Join("testdata", "__snapshots__")

// TestingHost registers cases against go test. Registration only builds a
// tree; Execute runs it as subtests of t.
type TestingHost struct {
	*scope
	t *testing.T

	snapOnce sync.Once
	snap     *snapshot.Store
}

// NewTestingHost creates a host over t.
func NewTestingHost(t *testing.T) *TestingHost {
	return &TestingHost{scope: newScope(), t: t}
}

// Snapshotter returns the snapshot store of the test, one file per top-level
// test function.
func (h *TestingHost) Snapshotter() model.Snapshotter {
	h.snapOnce.Do(func() {
		name := strings.ReplaceAll(h.t.Name(), "/", "_") + ".snap.yaml"
		h.snap = snapshot.Open(filepath.Join(SnapshotDir, name), nil)
	})
	return h.snap
}

// Execute runs the registered tree as nested subtests in registration order.
func (h *TestingHost) Execute() {
	h.t.Helper()
	h.run(h.t, h.node)
}

func (h *TestingHost) run(t *testing.T, n *node) {
	for _, c := range n.children {
		if c.isGroup() {
			t.Run(c.title, func(t *testing.T) {
				h.run(t, c)
			})
			continue
		}
		t.Run(c.title, func(t *testing.T) {
			if reason := h.reg.skipReason(c); reason != "" {
				t.Skip(reason)
			}
			if err := c.body(t.Context()); err != nil {
				t.Fatal(err)
			}
		})
	}
}

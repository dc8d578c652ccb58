// Package fixtures resolves a fixture directory tree into test cases.
package fixtures

import (
	"github.com/AndreyAkinshin/plugintester/internal/config"
)

// Node is one entry of a resolved fixture tree: either a group of nested
// entries or a single fixture.
type Node struct {
	Name     string   // Directory base name
	Dir      string   // Absolute or caller-relative directory path
	Title    string   // Display title before numbering
	Children []Node   // Set for groups
	Fixture  *Fixture // Set for leaves
}

// IsGroup reports whether the node groups other nodes.
func (n Node) IsGroup() bool {
	return n.Fixture == nil
}

// Fixture is a directory that holds a code or exec input file.
type Fixture struct {
	Dir     string
	Title   string
	Options *config.FixtureOptions

	CodePath string // Input file in code mode
	ExecPath string // Input file in exec mode
	Input    string // Contents of CodePath or ExecPath

	OutputPath   string // Where the expected output lives
	OutputExists bool
	Output       string // Contents of OutputPath when it exists
}

// IsExec reports whether the fixture runs in exec mode.
func (f *Fixture) IsExec() bool {
	return f.ExecPath != ""
}

// Count returns the number of fixtures in nodes, recursively.
func Count(nodes []Node) int {
	n := 0
	for _, node := range nodes {
		if node.IsGroup() {
			n += Count(node.Children)
		} else {
			n++
		}
	}
	return n
}

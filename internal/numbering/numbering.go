// Package numbering assigns sequence numbers to test titles.
package numbering

import (
	"fmt"
	"sync"
)

// Mode selects which titles display their number.
type Mode string

const (
	ModeAll          Mode = "all"
	ModeTestsOnly    Mode = "tests-only"
	ModeFixturesOnly Mode = "fixtures-only"
	ModeNone         Mode = "none"
)

// Valid reports whether m is a known mode. The empty mode is valid and
// means ModeAll.
func (m Mode) Valid() bool {
	switch m {
	case "", ModeAll, ModeTestsOnly, ModeFixturesOnly, ModeNone:
		return true
	}
	return false
}

// Scope identifies where a title came from.
type Scope int

const (
	ScopeTest Scope = iota
	ScopeFixture
)

// Counter is a monotonically increasing sequence shared by every suite that
// uses it. It is safe for concurrent use.
type Counter struct {
	mu sync.Mutex
	n  int
}

// Global is the process-wide counter used when a suite does not supply one.
var Global = &Counter{}

// Next increments the counter and returns the new value.
func (c *Counter) Next() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.n++
	return c.n
}

// Current returns the last value handed out.
func (c *Counter) Current() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.n
}

// Restart resets the counter to zero.
func (c *Counter) Restart() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.n = 0
}

// Title is a display title together with its assigned number.
type Title struct {
	Raw    string // Title without the numeric prefix
	Number int    // 0 when no number was assigned
	Full   string // Title as displayed
}

// Controller decides how titles are numbered for one suite invocation.
type Controller struct {
	counter *Counter
	mode    Mode
}

// NewController creates a controller over counter. A nil counter selects
// Global.
func NewController(counter *Counter, mode Mode) *Controller {
	if counter == nil {
		counter = Global
	}
	if mode == "" {
		mode = ModeAll
	}
	return &Controller{counter: counter, mode: mode}
}

// Next assigns the next title for raw in scope.
//
// ModeAll numbers and displays every title. ModeTestsOnly and
// ModeFixturesOnly advance the shared counter only for the matching scope.
// ModeNone still advances the counter so that numeric selection filters keep
// working; the number is just not displayed.
func (c *Controller) Next(raw string, scope Scope) Title {
	switch c.mode {
	case ModeTestsOnly:
		if scope != ScopeTest {
			return Title{Raw: raw, Full: raw}
		}
	case ModeFixturesOnly:
		if scope != ScopeFixture {
			return Title{Raw: raw, Full: raw}
		}
	case ModeNone:
		return Title{Raw: raw, Number: c.counter.Next(), Full: raw}
	}
	n := c.counter.Next()
	return Title{Raw: raw, Number: n, Full: fmt.Sprintf("%d. %s", n, raw)}
}

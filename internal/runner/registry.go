package runner

import (
	"errors"
	"fmt"
	"strings"
)

type caseMode int

const (
	modeNormal caseMode = iota
	modeSkip
	modeOnly
)

// node is a describe block (body == nil) or a case.
type node struct {
	title    string
	mode     caseMode
	body     CaseFunc
	children []*node
}

func (n *node) isGroup() bool {
	return n.body == nil
}

// registry is the registration tree shared by every scope of one host.
type registry struct {
	root    node
	focused bool
	cases   int
}

// scope registers into one describe block of a registry.
type scope struct {
	reg  *registry
	node *node
}

func newScope() *scope {
	reg := &registry{}
	return &scope{reg: reg, node: &reg.root}
}

func (s *scope) Describe(title string, body func(Host)) {
	child := &node{title: title}
	s.node.children = append(s.node.children, child)
	body(&scope{reg: s.reg, node: child})
}

func (s *scope) It(title string, body CaseFunc) {
	s.add(title, modeNormal, body)
}

func (s *scope) ItSkip(title string, body CaseFunc) {
	s.add(title, modeSkip, body)
}

func (s *scope) ItOnly(title string, body CaseFunc) {
	s.reg.focused = true
	s.add(title, modeOnly, body)
}

func (s *scope) add(title string, mode caseMode, body CaseFunc) {
	s.node.children = append(s.node.children, &node{title: title, mode: mode, body: body})
	s.reg.cases++
}

// skipReason returns why n does not run, or "" when it runs.
func (r *registry) skipReason(n *node) string {
	switch {
	case n.mode == modeSkip:
		return "skipped"
	case r.focused && n.mode != modeOnly:
		return "skipped: another case is focused"
	}
	return ""
}

// Len returns the number of registered cases.
func (s *scope) Len() int {
	return s.reg.cases
}

// Registration describes one registered case.
type Registration struct {
	Path string // Describe titles and case title joined by " > "
	Skip bool
	Only bool
}

// Registered returns every registered case in registration order.
func (s *scope) Registered() []Registration {
	var out []Registration
	var walk func(prefix []string, n *node)
	walk = func(prefix []string, n *node) {
		for _, c := range n.children {
			path := append(append([]string(nil), prefix...), c.title)
			if c.isGroup() {
				walk(path, c)
				continue
			}
			out = append(out, Registration{
				Path: strings.Join(path, " > "),
				Skip: c.mode == modeSkip,
				Only: c.mode == modeOnly,
			})
		}
	}
	walk(nil, s.node)
	return out
}

// Paths returns the path of every registered case in registration order.
func (s *scope) Paths() []string {
	regs := s.Registered()
	out := make([]string, len(regs))
	for i, r := range regs {
		out[i] = r.Path
	}
	return out
}

// combineErrors joins case failures into one error.
func combineErrors(errs []error) error {
	if len(errs) == 0 {
		return nil
	}
	if len(errs) == 1 {
		return errs[0]
	}
	return errors.Join(errs...)
}

// formatCaseError prefixes err with the case path.
func formatCaseError(path string, err error) error {
	return fmt.Errorf("[%s] %w", path, err)
}

package plugintester

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/AndreyAkinshin/plugintester/internal/driver"
	"github.com/AndreyAkinshin/plugintester/internal/errors"
	"github.com/AndreyAkinshin/plugintester/internal/fixtures"
	"github.com/AndreyAkinshin/plugintester/internal/model"
	"github.com/AndreyAkinshin/plugintester/internal/normalize"
	"github.com/AndreyAkinshin/plugintester/internal/numbering"
	"github.com/AndreyAkinshin/plugintester/internal/output"
	"github.com/AndreyAkinshin/plugintester/internal/runner"
	"github.com/AndreyAkinshin/plugintester/internal/selection"
)

// suite is one validated invocation.
type suite struct {
	opts     SuiteOptions
	kind     model.UnitKind
	unitName string
	title    string

	filters  *selection.Filters
	titles   *numbering.Controller
	defaults *normalize.Suite
	driver   *driver.Driver
	log      *output.Writer
}

// planned is a describe block (tc == nil) or a case with its effective mode.
type planned struct {
	title    string
	children []planned
	tc       *model.TestCase
	mode     selection.Mode
}

func newSuite(host Host, opts SuiteOptions) (*suite, error) {
	if err := validate(opts); err != nil {
		return nil, err
	}
	getenv := opts.Getenv
	if getenv == nil {
		getenv = os.Getenv
	}
	filters, err := selection.FromEnv(getenv)
	if err != nil {
		return nil, err
	}

	s := &suite{opts: opts, filters: filters, log: output.Default}
	unit := opts.Plugin
	s.unitName = unitName(opts.Plugin, opts.PluginName, "unknown plugin")
	unitOptions := opts.PluginOptions
	if opts.Preset != nil {
		s.kind = model.KindPreset
		unit = opts.Preset
		s.unitName = unitName(opts.Preset, opts.PresetName, "unknown preset")
		unitOptions = opts.PresetOptions
	}
	s.title = opts.Title
	if s.title == "" {
		s.title = s.unitName
	}

	counter := opts.Counter
	if counter == nil {
		counter = numbering.Global
	}
	if opts.RestartTitleNumbering {
		counter.Restart()
	}
	s.titles = numbering.NewController(counter, opts.TitleNumbering)

	formatter := opts.Formatter
	if formatter == nil {
		formatter = DefaultFormatter
	}
	s.defaults = &normalize.Suite{
		Kind:             s.kind,
		UnitOptions:      unitOptions,
		FilePath:         opts.FilePath,
		TransformOptions: opts.TransformOptions,
		Formatter:        formatter,
		EndOfLine:        opts.EndOfLine,
		Snapshot:         opts.Snapshot,
		Setup:            opts.Setup,
		Teardown:         opts.Teardown,
	}

	snapshotter := opts.Snapshotter
	if snapshotter == nil {
		if p, ok := host.(runner.SnapshotProvider); ok {
			snapshotter = p.Snapshotter()
		}
	}
	s.driver = &driver.Driver{
		Engine:      opts.Engine,
		Kind:        s.kind,
		UnitName:    s.unitName,
		Unit:        unit,
		Evaluator:   opts.Evaluator,
		Snapshotter: snapshotter,
		Log:         s.log,
	}
	return s, nil
}

// validate checks the suite-level invariants.
func validate(opts SuiteOptions) error {
	var rule error
	switch {
	case !opts.Engine.Valid():
		return errors.Config("failed to validate configuration: an Engine with Transform or TransformContext must be provided")
	case opts.Plugin == nil && opts.Preset == nil:
		rule = errors.ErrNoUnit
	case opts.Plugin != nil && opts.Preset != nil:
		rule = errors.ErrPluginAndPreset
	case len(opts.Tests) > 0 && len(opts.TestsByTitle) > 0:
		rule = errors.ErrTestsListAndMap
	case !opts.TitleNumbering.Valid():
		rule = errors.ErrInvalidTitleNumbering
	case !opts.EndOfLine.Valid():
		rule = errors.ErrInvalidEndOfLine
	}
	if rule != nil {
		return errors.InvalidOptions("", rule)
	}
	return nil
}

// unitName picks the explicit name, then the unit's own name, then fallback.
func unitName(unit any, explicit, fallback string) string {
	if explicit != "" {
		return explicit
	}
	if n, ok := unit.(model.Namer); ok && n.Name() != "" {
		return n.Name()
	}
	return fallback
}

// plan resolves fixtures and inline tests into the tree to register.
// Fixtures come first, grouped under "<title> fixtures".
func (s *suite) plan() ([]planned, error) {
	var out []planned

	if s.opts.Fixtures != "" {
		nodes, err := s.resolveFixtures()
		if err != nil {
			return nil, err
		}
		if len(nodes) > 0 {
			children, err := s.planFixtures(nodes)
			if err != nil {
				return nil, err
			}
			out = append(out, planned{title: s.title + " fixtures", children: children})
		}
	}

	tests, err := s.planTests()
	if err != nil {
		return nil, err
	}
	return append(out, tests...), nil
}

func (s *suite) resolveFixtures() ([]fixtures.Node, error) {
	root := s.opts.Fixtures
	if !filepath.IsAbs(root) && s.opts.FilePath != "" {
		root = filepath.Join(filepath.Dir(s.opts.FilePath), root)
	}
	inherited := map[string]any{}
	if s.opts.FixtureOutputName != "" {
		inherited["fixtureOutputName"] = s.opts.FixtureOutputName
	}
	if s.opts.FixtureOutputExt != "" {
		inherited["fixtureOutputExt"] = s.opts.FixtureOutputExt
	}
	r := &fixtures.Resolver{Log: s.log, Match: s.opts.FixtureMatch}
	return r.Resolve(root, inherited)
}

func (s *suite) planFixtures(nodes []fixtures.Node) ([]planned, error) {
	out := make([]planned, 0, len(nodes))
	for _, n := range nodes {
		if n.IsGroup() {
			children, err := s.planFixtures(n.Children)
			if err != nil {
				return nil, err
			}
			out = append(out, planned{title: n.Title, children: children})
			continue
		}
		title := s.titles.Next(n.Title, numbering.ScopeFixture)
		tc, err := normalize.Fixture(s.defaults, n.Fixture, title)
		if err != nil {
			return nil, err
		}
		out = append(out, s.leaf(tc))
	}
	return out, nil
}

func (s *suite) planTests() ([]planned, error) {
	type entry struct {
		key string
		obj *model.TestObject
	}
	var entries []entry
	for _, obj := range s.opts.Tests {
		entries = append(entries, entry{obj: obj})
	}
	keys := make([]string, 0, len(s.opts.TestsByTitle))
	for k := range s.opts.TestsByTitle {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		entries = append(entries, entry{key: k, obj: s.opts.TestsByTitle[k]})
	}

	var out []planned
	for _, e := range entries {
		if e.obj == nil {
			continue
		}
		raw := e.obj.Title
		if raw == "" {
			raw = e.key
		}
		if raw == "" {
			raw = s.unitName
		}
		tc, err := normalize.Inline(s.defaults, e.obj, s.titles.Next(raw, numbering.ScopeTest))
		if err != nil {
			return nil, err
		}
		out = append(out, s.leaf(tc))
	}
	return out, nil
}

func (s *suite) leaf(tc *model.TestCase) planned {
	mode := s.filters.Resolve(tc.Skip, tc.Only, tc.Title.Number, tc.Title.Full)
	return planned{title: tc.Title.Full, tc: tc, mode: mode}
}

// register hands the plan to host, inside the root describe block unless it
// is suppressed.
func (s *suite) register(host Host, plan []planned) error {
	if s.opts.SuppressTitle {
		return s.registerAll(host, plan)
	}
	var err error
	host.Describe(s.title, func(h Host) {
		err = s.registerAll(h, plan)
	})
	return err
}

func (s *suite) registerAll(h Host, plan []planned) error {
	for _, p := range plan {
		if p.tc == nil {
			var err error
			h.Describe(p.title, func(g Host) {
				err = s.registerAll(g, p.children)
			})
			if err != nil {
				return err
			}
			continue
		}

		body := s.driver.Body(p.tc)
		var err error
		switch p.mode {
		case selection.ModeSkip:
			err = runner.Skip(h, p.title, body)
		case selection.ModeOnly:
			err = runner.Only(h, p.title, body)
		default:
			h.It(p.title, body)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

package cli

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/AndreyAkinshin/plugintester/internal/output"
	"github.com/AndreyAkinshin/plugintester/internal/runner"
	"github.com/AndreyAkinshin/plugintester/internal/selection"
	"github.com/AndreyAkinshin/plugintester/pkg/plugintester"
)

// listOptions are the flags of the list command.
type listOptions struct {
	match      string
	numbering  string
	outputName string
	outputExt  string
}

// listing is the resolved case list of one fixture root.
type listing struct {
	root  string
	cases []runner.Registration
}

// listUnit stands in for the unit under test; list never transforms.
type listUnit struct{}

func (listUnit) Name() string { return "plugintester" }

func noTransform(code string, _ plugintester.TransformOptions) (*plugintester.Result, error) {
	return &plugintester.Result{Code: code}, nil
}

// NewListCmd creates the list subcommand.
func NewListCmd(w *output.Writer) *cobra.Command {
	var opts listOptions
	cmd := &cobra.Command{
		Use:   "list <fixtures-dir>...",
		Short: "List the cases a fixture tree registers, with numbers and selection",
		Long: `List resolves each fixture directory the way a suite would and prints
every case with its numbered title and the mode it would run in under the
current TEST_SKIP, TEST_ONLY, TEST_NUM_SKIP, and TEST_NUM_ONLY filters.
No transformation is run.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			listings, err := resolveAll(cmd.Context(), args, opts)
			if err != nil {
				return err
			}
			printListings(w, listings, os.Getenv)
			return nil
		},
	}
	cmd.Flags().StringVar(&opts.match, "match", "", "only list fixtures whose relative path matches this glob (supports **)")
	cmd.Flags().StringVar(&opts.numbering, "numbering", string(plugintester.NumberAll), "title numbering: all, tests-only, fixtures-only, none")
	cmd.Flags().StringVar(&opts.outputName, "output-name", "", "fixture output file name without extension")
	cmd.Flags().StringVar(&opts.outputExt, "output-ext", "", "fixture output file extension")
	return cmd
}

// resolveAll resolves every root concurrently. Results keep argument order.
func resolveAll(ctx context.Context, roots []string, opts listOptions) ([]listing, error) {
	listings := make([]listing, len(roots))
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, root := range roots {
		g.Go(func() error {
			if gCtx.Err() != nil {
				return gCtx.Err()
			}
			cases, err := resolveRoot(root, opts)
			if err != nil {
				return fmt.Errorf("%s: %w", root, err)
			}
			listings[i] = listing{root: root, cases: cases}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return listings, nil
}

func resolveRoot(root string, opts listOptions) ([]runner.Registration, error) {
	rec := runner.NewRecorder()
	err := plugintester.PluginTester(rec, plugintester.SuiteOptions{
		Engine:            plugintester.Engine{Transform: noTransform},
		Plugin:            listUnit{},
		SuppressTitle:     true,
		Fixtures:          root,
		FixtureMatch:      opts.match,
		FixtureOutputName: opts.outputName,
		FixtureOutputExt:  opts.outputExt,
		TitleNumbering:    plugintester.Mode(opts.numbering),
		Counter:           plugintester.NewCounter(),
		Getenv:            os.Getenv,
	})
	if err != nil {
		return nil, err
	}
	return rec.Registered(), nil
}

func printListings(w *output.Writer, listings []listing, getenv func(string) string) {
	if filters := activeFilters(getenv); len(filters) > 0 {
		w.Info("selection filters:")
		w.List(filters)
	}
	total := 0
	for _, l := range listings {
		w.Section(l.root)
		if len(l.cases) == 0 {
			w.Info("no fixtures found")
			continue
		}
		rows := make([][]string, 0, len(l.cases))
		for _, c := range l.cases {
			rows = append(rows, []string{strings.TrimPrefix(c.Path, "plugintester fixtures > "), mode(c)})
		}
		w.Table([]string{"CASE", "MODE"}, rows)
		total += len(l.cases)
	}
	w.Success("%d case(s) in %d root(s)", total, len(listings))
}

func activeFilters(getenv func(string) string) []string {
	var filters []string
	for _, name := range []string{selection.EnvSkip, selection.EnvOnly, selection.EnvNumSkip, selection.EnvNumOnly} {
		if v := getenv(name); v != "" {
			filters = append(filters, name+"="+v)
		}
	}
	return filters
}

func mode(r runner.Registration) string {
	switch {
	case r.Skip:
		return "skip"
	case r.Only:
		return "only"
	default:
		return "run"
	}
}

package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/tangleguard/layered/pkg/gallery"
	"github.com/tangleguard/layered/pkg/pipeline"
	"github.com/tangleguard/layered/pkg/render/svg"
)

// newExamplesCmd creates the examples command, which lays out every graph in
// the built-in gallery and writes one SVG per graph.
func newExamplesCmd(configPath *string) *cobra.Command {
	var (
		outDir string
		list   bool
		flags  layoutFlags
	)

	cmd := &cobra.Command{
		Use:   "examples",
		Short: "Write one SVG per built-in example graph",
		Long: `Write one SVG per built-in example graph.

The gallery covers the interesting pipeline behaviors: straight chains,
split-rejoin shapes, forced crossings, cycles, long skip edges and a seeded
random DAG. Use --list to see the names without rendering anything.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if list {
				for _, ex := range gallery.Examples() {
					printInfo("%-12s %s", ex.Name, ex.Description)
				}
				return nil
			}
			cfg, err := loadConfig(*configPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			opts := cfg.pipelineOptions()
			flags.apply(cmd, &opts)
			return runExamples(cmd, outDir, opts)
		},
	}

	cmd.Flags().StringVarP(&outDir, "out-dir", "d", "examples-out", "directory for the rendered SVGs")
	cmd.Flags().BoolVar(&list, "list", false, "list example names instead of rendering")
	flags.register(cmd)

	return cmd
}

func runExamples(cmd *cobra.Command, outDir string, opts pipeline.Options) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)
	opts.Logger = logger

	if err := os.MkdirAll(outDir, 0755); err != nil {
		return fmt.Errorf("create %s: %w", outDir, err)
	}

	runner := pipeline.NewRunner(nil, nil)
	defer runner.Close()

	type rendered struct {
		name      string
		nodes     int
		crossings int
		path      string
	}

	prog := newProgress(logger)
	spinner := newSpinnerWithContext(ctx, "Laying out examples...")
	spinner.Start()

	var results []rendered
	for _, ex := range gallery.Examples() {
		spinner.SetMessage("Laying out %s...", ex.Name)

		g := ex.Build()
		l, _, err := runner.ComputeLayout(ctx, g, opts)
		if err != nil {
			spinner.StopWithError("Layout of " + ex.Name + " failed")
			return fmt.Errorf("layout %s: %w", ex.Name, err)
		}

		path := filepath.Join(outDir, ex.Name+".svg")
		if err := os.WriteFile(path, svg.Render(&l.Result), 0644); err != nil {
			spinner.Stop()
			return fmt.Errorf("write %s: %w", path, err)
		}
		results = append(results, rendered{ex.Name, g.NodeCount(), l.Crossings, path})
	}
	spinner.Stop()

	for _, r := range results {
		printSuccess("%-12s %d nodes, %d crossings", r.name, r.nodes, r.crossings)
		printFile(r.path)
	}
	prog.done(fmt.Sprintf("Rendered %d examples", len(results)))

	return nil
}

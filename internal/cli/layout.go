package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tangleguard/layered/pkg/graph"
	"github.com/tangleguard/layered/pkg/pipeline"
)

// newLayoutCmd creates the layout command for computing layouts from graph
// JSON files.
func newLayoutCmd(configPath *string) *cobra.Command {
	var (
		output  string
		noCache bool
		flags   layoutFlags
	)

	cmd := &cobra.Command{
		Use:   "layout [graph.json]",
		Short: "Compute a layered layout from a graph JSON file",
		Long: `Compute a layered layout from a graph JSON file.

The layout command reads a graph (nodes and directed edges), runs the full
pipeline (cycle removal, rank assignment, crossing reduction, coordinate
assignment), and writes a layout.json with node positions, edge polylines,
per-rank orderings and the final crossing count.

Results are cached locally for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*configPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			opts := cfg.pipelineOptions()
			flags.apply(cmd, &opts)
			return runLayout(cmd, args[0], opts, output, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.layout.json)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	flags.register(cmd)

	return cmd
}

// layoutFlags groups the layout option flags shared by commands that run the
// pipeline. Flag values override config file values only when set.
type layoutFlags struct {
	direction string
	heuristic string
	nodeSep   float64
	rankSep   float64
	maxSweeps int
}

func (f *layoutFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.direction, "direction", "", "rank direction: top-to-bottom (default), left-to-right")
	cmd.Flags().StringVar(&f.heuristic, "heuristic", "", "crossing heuristic: median (default), barycenter")
	cmd.Flags().Float64Var(&f.nodeSep, "node-sep", 0, "minimum gap between nodes in a rank")
	cmd.Flags().Float64Var(&f.rankSep, "rank-sep", 0, "gap between ranks")
	cmd.Flags().IntVar(&f.maxSweeps, "max-sweeps", 0, "crossing reduction sweep cap")
}

func (f *layoutFlags) apply(cmd *cobra.Command, opts *pipeline.Options) {
	if cmd.Flags().Changed("direction") {
		opts.Direction = f.direction
	}
	if cmd.Flags().Changed("heuristic") {
		opts.Heuristic = f.heuristic
	}
	if cmd.Flags().Changed("node-sep") {
		opts.NodeSeparation = f.nodeSep
	}
	if cmd.Flags().Changed("rank-sep") {
		opts.RankSeparation = f.rankSep
	}
	if cmd.Flags().Changed("max-sweeps") {
		opts.MaxSweeps = f.maxSweeps
	}
}

// runLayout loads the graph, computes the layout, and writes output.
func runLayout(cmd *cobra.Command, input string, opts pipeline.Options, output string, noCache bool) error {
	ctx := cmd.Context()
	g, err := graph.ReadGraphFile(input)
	if err != nil {
		return fmt.Errorf("load graph %s: %w", input, err)
	}

	runner := pipeline.NewRunner(newCache(noCache), nil)
	defer runner.Close()

	opts.Logger = loggerFromContext(ctx)

	spinner := newSpinnerWithContext(ctx,
		fmt.Sprintf("Computing layout (%d nodes, %d edges)...", g.NodeCount(), g.EdgeCount()))
	spinner.Start()

	l, cacheHit, err := runner.ComputeLayout(ctx, g, opts)
	if err != nil {
		spinner.StopWithError("Layout failed")
		return fmt.Errorf("compute layout: %w", err)
	}

	if ctx.Err() != nil {
		spinner.Stop()
		return ctx.Err()
	}

	outputPath := output
	if outputPath == "" {
		base := strings.TrimSuffix(input, filepath.Ext(input))
		outputPath = base + ".layout.json"
	}

	spinner.SetMessage("Writing %s...", outputPath)
	err = graph.WriteLayoutFile(l, outputPath)
	spinner.Stop()
	if err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}

	printSuccess("Layout complete")
	printFile(outputPath)
	printStats(g.NodeCount(), g.EdgeCount(), l.Crossings, cacheHit)
	printNextStep("Render", appName+" render "+outputPath)

	return nil
}

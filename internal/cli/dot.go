package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tangleguard/layered/pkg/graph"
	"github.com/tangleguard/layered/pkg/pipeline"
	"github.com/tangleguard/layered/pkg/render/dot"
)

// newDotCmd creates the dot command for exporting graphs through Graphviz.
func newDotCmd() *cobra.Command {
	var (
		output  string
		format  string
		rankdir string
	)

	cmd := &cobra.Command{
		Use:   "dot [graph.json]",
		Short: "Export a graph to Graphviz DOT, SVG, or PNG",
		Long: `Export a graph to Graphviz DOT, SVG, or PNG.

The dot command bypasses this repository's layout engine and lets the
embedded Graphviz engine draw the input graph instead. Comparing its output
with 'layout' + 'render' is the quickest way to inspect how the two engines
treat the same structure.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDot(cmd, args[0], output, format, rankdir)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.<format>)")
	cmd.Flags().StringVarP(&format, "format", "f", pipeline.FormatDOT, "output format: dot (default), svg, png")
	cmd.Flags().StringVar(&rankdir, "rankdir", "TB", "Graphviz rank direction: TB, LR")

	return cmd
}

func runDot(cmd *cobra.Command, input, output, format, rankdir string) error {
	g, err := graph.ReadGraphFile(input)
	if err != nil {
		return fmt.Errorf("load graph %s: %w", input, err)
	}

	text := dot.ToDOT(g, dot.Options{Rankdir: rankdir})

	var data []byte
	switch format {
	case pipeline.FormatDOT:
		data = []byte(text)
	case pipeline.FormatSVG:
		if data, err = dot.RenderSVG(cmd.Context(), text); err != nil {
			return fmt.Errorf("render SVG: %w", err)
		}
	case pipeline.FormatPNG:
		if data, err = dot.RenderPNG(cmd.Context(), text); err != nil {
			return fmt.Errorf("render PNG: %w", err)
		}
	default:
		return fmt.Errorf("invalid format: %q (dot supports dot, svg, png)", format)
	}

	outputPath := output
	if outputPath == "" {
		outputPath = strings.TrimSuffix(input, filepath.Ext(input)) + "." + format
	}

	if err := os.WriteFile(outputPath, data, 0644); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}

	printSuccess("Exported %s", format)
	printFile(outputPath)
	return nil
}

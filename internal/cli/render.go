package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tangleguard/layered/pkg/graph"
	"github.com/tangleguard/layered/pkg/pipeline"
	"github.com/tangleguard/layered/pkg/render/svg"
)

// newRenderCmd creates the render command for turning computed layouts into
// viewable documents.
func newRenderCmd() *cobra.Command {
	var (
		output string
		format string
		guides bool
	)

	cmd := &cobra.Command{
		Use:   "render [layout.json]",
		Short: "Render a computed layout to SVG",
		Long: `Render a computed layout to SVG.

The render command consumes a layout.json file produced by 'layout' and
writes a standalone SVG document. Use -f json to re-emit the layout
unchanged, which is useful in shell pipelines.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(args[0], output, format, guides)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.svg)")
	cmd.Flags().StringVarP(&format, "format", "f", pipeline.FormatSVG, "output format: svg (default), json")
	cmd.Flags().BoolVar(&guides, "rank-guides", false, "draw a horizontal guide line per node row (per rank top-to-bottom)")

	return cmd
}

func runRender(input, output, format string, guides bool) error {
	if format != pipeline.FormatSVG && format != pipeline.FormatJSON {
		return fmt.Errorf("invalid format: %q (render supports svg, json)", format)
	}

	l, err := graph.ReadLayoutFile(input)
	if err != nil {
		return fmt.Errorf("load layout %s: %w", input, err)
	}

	var data []byte
	switch format {
	case pipeline.FormatJSON:
		if data, err = graph.MarshalLayout(l); err != nil {
			return err
		}
	default:
		var opts []svg.Option
		if guides {
			opts = append(opts, svg.WithRankGuides())
		}
		data = svg.Render(&l.Result, opts...)
	}

	outputPath := output
	if outputPath == "" {
		base := strings.TrimSuffix(input, filepath.Ext(input))
		base = strings.TrimSuffix(base, ".layout")
		outputPath = base + "." + format
	}

	if err := os.WriteFile(outputPath, data, 0644); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}

	printSuccess("Rendered %s", format)
	printFile(outputPath)
	return nil
}

package cli

import (
	"context"
	"os"
	"path/filepath"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/tangleguard/layered/pkg/buildinfo"
	"github.com/tangleguard/layered/pkg/cache"
)

// appName is the application name used for directories and display.
const appName = "layered"

// Execute runs the layered CLI and returns an error if any command fails.
// This is the main entry point for the CLI application.
//
// The function sets up the root command with all subcommands (layout,
// render, dot, examples, serve), configures logging based on the --verbose
// flag, and executes the command tree. The logger is attached to the
// context and accessible to all commands via loggerFromContext.
func Execute(ctx context.Context) error {
	var (
		verbose    bool
		configPath string
	)

	root := &cobra.Command{
		Use:          appName,
		Short:        "Layered computes hierarchical drawings of directed graphs",
		Long: `Layered is a Sugiyama-style layout engine for directed graphs. It breaks
cycles, assigns ranks, reduces edge crossings, and positions nodes, then
renders the result as SVG or serves it over HTTP.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := charmlog.InfoLevel
			if verbose {
				level = charmlog.DebugLevel
			}
			ctx := withLogger(cmd.Context(), newLogger(os.Stderr, level))
			cmd.SetContext(ctx)
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to a layered.toml config file")

	root.AddCommand(newLayoutCmd(&configPath))
	root.AddCommand(newRenderCmd())
	root.AddCommand(newDotCmd())
	root.AddCommand(newExamplesCmd(&configPath))
	root.AddCommand(newServeCmd(&configPath))

	return root.ExecuteContext(ctx)
}

// newCache opens the CLI's file cache under the user cache directory, or a
// null cache when caching is disabled or the directory is unavailable.
func newCache(noCache bool) cache.Cache {
	if noCache {
		return cache.NewNullCache()
	}
	base, err := os.UserCacheDir()
	if err != nil {
		return cache.NewNullCache()
	}
	c, err := cache.NewFileCache(filepath.Join(base, appName))
	if err != nil {
		return cache.NewNullCache()
	}
	return c
}

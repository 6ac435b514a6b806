// Package pipeline orchestrates the graph → layout → render flow shared by
// the CLI and the HTTP server. Centralizing it keeps both entry points
// behaving identically: same defaults, same cache keys, same logging.
//
// # Usage
//
//	runner := pipeline.NewRunner(fileCache, nil)
//	defer runner.Close()
//
//	opts := pipeline.Options{Direction: "top-to-bottom", Format: "svg"}
//	l, hit, err := runner.ComputeLayout(ctx, g, opts)
package pipeline

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/tangleguard/layered/pkg/layout"
)

// Output formats understood by the CLI commands and the HTTP API.
const (
	FormatSVG  = "svg"
	FormatJSON = "json"
	FormatDOT  = "dot"
	FormatPNG  = "png"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatJSON: true,
	FormatDOT:  true,
	FormatPNG:  true,
}

// DefaultCacheTTL is how long cached layouts stay valid. Layouts are pure
// functions of their inputs, so the TTL only bounds disk usage.
const DefaultCacheTTL = 0 // no expiry

// Options configures one pipeline run. String fields use the serialized
// spellings so the struct round-trips through JSON for the HTTP API.
type Options struct {
	// Layout options; zero values fall back to the engine defaults.
	Direction      string  `json:"direction,omitempty"`
	Heuristic      string  `json:"heuristic,omitempty"`
	NodeSeparation float64 `json:"node_separation,omitempty"`
	RankSeparation float64 `json:"rank_separation,omitempty"`
	MaxSweeps      int     `json:"max_sweeps,omitempty"`

	// Render options.
	Format string `json:"format,omitempty"`

	// Runtime options (not serialized, not part of cache keys).
	Logger *log.Logger `json:"-"`
}

// LayoutOptions translates the serialized option spellings into the
// engine's option record.
func (o Options) LayoutOptions() (layout.Options, error) {
	dir, err := layout.ParseDirection(o.Direction)
	if err != nil {
		return layout.Options{}, err
	}
	heur, err := layout.ParseHeuristic(o.Heuristic)
	if err != nil {
		return layout.Options{}, err
	}
	return layout.Options{
		Direction:      dir,
		Heuristic:      heur,
		NodeSeparation: o.NodeSeparation,
		RankSeparation: o.RankSeparation,
		MaxSweeps:      o.MaxSweeps,
	}, nil
}

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return fmt.Errorf("invalid format: %q (must be one of: svg, json, dot, png)", format)
	}
	return nil
}

// logger returns the configured logger or a discarding one.
func (o Options) logger() *log.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return log.NewWithOptions(io.Discard, log.Options{})
}

// cacheKeyOptions strips the render and runtime fields so equal layout inputs
// share a cache entry regardless of output format.
func (o Options) cacheKeyOptions() Options {
	o.Format = ""
	o.Logger = nil
	return o
}

package cli

import (
	"os"

	"github.com/BurntSushi/toml"

	"github.com/tangleguard/layered/pkg/pipeline"
)

// defaultConfigFile is looked up in the working directory when --config is
// not given. A missing file is not an error; built-in defaults apply.
const defaultConfigFile = "layered.toml"

// Config carries user defaults loaded from a TOML file. Command-line flags
// override anything set here; unset fields fall back to the engine defaults.
//
// Example file:
//
//	[layout]
//	direction = "left-to-right"
//	node_separation = 60
//	rank_separation = 90
//	max_sweeps = 12
//	heuristic = "barycenter"
//
//	[render]
//	format = "svg"
type Config struct {
	Layout LayoutConfig `toml:"layout"`
	Render RenderConfig `toml:"render"`
	Serve  ServeConfig  `toml:"serve"`
}

// LayoutConfig holds layout option defaults.
type LayoutConfig struct {
	Direction      string  `toml:"direction"`
	NodeSeparation float64 `toml:"node_separation"`
	RankSeparation float64 `toml:"rank_separation"`
	MaxSweeps      int     `toml:"max_sweeps"`
	Heuristic      string  `toml:"heuristic"`
}

// RenderConfig holds the [render] section. It is decoded from the file, but
// no command reads it: render takes its format from the --format flag.
type RenderConfig struct {
	Format string `toml:"format"`
}

// ServeConfig holds server defaults.
type ServeConfig struct {
	Addr        string `toml:"addr"`
	Redis       string `toml:"redis"`
	CachePrefix string `toml:"cache_prefix"`
}

// loadConfig reads the TOML config at path. When path is empty, the default
// file is tried and its absence is tolerated; a path given explicitly must
// exist.
func loadConfig(path string) (Config, error) {
	var cfg Config

	explicit := path != ""
	if !explicit {
		path = defaultConfigFile
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if explicit {
			return cfg, err
		}
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// pipelineOptions maps the config's layout section onto pipeline options.
// Zero-valued fields stay zero so the engine defaults still apply.
func (c Config) pipelineOptions() pipeline.Options {
	return pipeline.Options{
		Direction:      c.Layout.Direction,
		Heuristic:      c.Layout.Heuristic,
		NodeSeparation: c.Layout.NodeSeparation,
		RankSeparation: c.Layout.RankSeparation,
		MaxSweeps:      c.Layout.MaxSweeps,
	}
}

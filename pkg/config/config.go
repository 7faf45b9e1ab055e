// Package config loads the stormlabel.toml configuration file.
//
// Every section is optional; missing sections and fields fall back to
// package defaults, so an empty file (or no file at all) yields the
// same behavior as the built-in defaults. Validation is fail-fast: a
// config that passes Load will not abort a run later.
package config

import (
	"os"

	"github.com/BurntSushi/toml"

	"github.com/stormlabel/stormlabel/pkg/cluster"
	"github.com/stormlabel/stormlabel/pkg/errors"
	"github.com/stormlabel/stormlabel/pkg/label"
	"github.com/stormlabel/stormlabel/pkg/place"
)

// DefaultFileName is the config file looked up in the working
// directory when no explicit path is given.
const DefaultFileName = "stormlabel.toml"

// Render configures map output.
type Render struct {
	// Format is the output image format: png, svg, or pdf.
	Format string `json:"format" toml:"format"`

	// WidthInches and HeightInches are the canvas size.
	WidthInches  float64 `json:"width_inches" toml:"width_inches"`
	HeightInches float64 `json:"height_inches" toml:"height_inches"`

	// Title is drawn above the map.
	Title string `json:"title" toml:"title"`

	// Leaders draws a line from each label box to its cluster centroid.
	Leaders bool `json:"leaders" toml:"leaders"`
}

// Default render parameters.
const (
	DefaultRenderFormat = "png"
	DefaultRenderWidth  = 12.0
	DefaultRenderHeight = 9.0
)

var renderFormats = map[string]bool{"png": true, "svg": true, "pdf": true}

// Config is the full stormlabel configuration.
type Config struct {
	Metrics   label.Metrics   `json:"metrics" toml:"metrics"`
	Cluster   cluster.Options `json:"cluster" toml:"cluster"`
	Heuristic place.Heuristic `json:"heuristic" toml:"heuristic"`
	Resolver  place.Resolver  `json:"resolver" toml:"resolver"`
	Render    Render          `json:"render" toml:"render"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		Metrics: label.DefaultMetrics(),
		Cluster: cluster.Options{
			Eps:          cluster.DefaultEps,
			MinPoints:    cluster.DefaultMinPoints,
			AnglePenalty: cluster.DefaultAnglePenalty,
		},
		Heuristic: place.DefaultHeuristic(),
		Resolver:  place.DefaultResolver(),
		Render: Render{
			Format:       DefaultRenderFormat,
			WidthInches:  DefaultRenderWidth,
			HeightInches: DefaultRenderHeight,
			Title:        "Hurricane Landfalls",
			Leaders:      true,
		},
	}
}

// Validate checks the whole configuration, failing on the first
// problem.
func (c Config) Validate() error {
	if err := c.Metrics.Validate(); err != nil {
		return err
	}
	if err := c.Resolver.Validate(); err != nil {
		return err
	}
	if c.Cluster.Eps < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "cluster eps must not be negative, got %v", c.Cluster.Eps)
	}
	if c.Cluster.MinPoints < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "cluster min_points must not be negative, got %d", c.Cluster.MinPoints)
	}
	if c.Cluster.AnglePenalty < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "cluster angle_penalty must not be negative, got %v", c.Cluster.AnglePenalty)
	}
	if !renderFormats[c.Render.Format] {
		return errors.New(errors.ErrCodeInvalidConfig, "render format must be png, svg, or pdf, got %q", c.Render.Format)
	}
	if c.Render.WidthInches <= 0 || c.Render.HeightInches <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "render canvas must have positive size, got %vx%v",
			c.Render.WidthInches, c.Render.HeightInches)
	}
	return nil
}

// PlaceOptions converts the config into engine options. The logger is
// left nil for the caller to fill in.
func (c Config) PlaceOptions() place.Options {
	return place.Options{
		Metrics:   c.Metrics,
		Heuristic: c.Heuristic,
		Resolver:  c.Resolver,
	}
}

// Load reads and validates a config file. Fields the file omits keep
// their defaults. An empty path loads DefaultFileName if it exists and
// plain defaults otherwise.
func Load(path string) (Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultFileName
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			if explicit {
				return Config{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "config file %s", path)
			}
			return Default(), nil
		}
		return Config{}, errors.Wrap(errors.ErrCodeInternal, err, "read config %s", path)
	}

	cfg := Default()
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse config %s", path)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

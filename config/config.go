// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Validation errors. Validate wraps these so callers can match with errors.Is.
var (
	ErrInvalidCellSize  = errors.New("cell size must be positive and at least twice the initial radius")
	ErrInvalidCapacity  = errors.New("capacity must be positive")
	ErrInvalidSeedCount = errors.New("seed count out of range")
	ErrInvalidParameter = errors.New("invalid growth parameter")
)

// Config holds all simulation configuration parameters.
type Config struct {
	Screen    ScreenConfig    `yaml:"screen"`
	Growth    GrowthConfig    `yaml:"growth"`
	Telemetry TelemetryConfig `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
}

// GrowthConfig holds the growth engine parameters.
type GrowthConfig struct {
	InitialPoints int `yaml:"initial_points"`
	MaxNodes      int `yaml:"max_nodes"`

	CellWidth  float64 `yaml:"cell_width"`
	CellHeight float64 `yaml:"cell_height"`

	InitialRadius  float64 `yaml:"initial_radius"`
	InitialSpacing float64 `yaml:"initial_spacing"`
	InitialJitter  float64 `yaml:"initial_jitter"` // degrees

	RadiusShrinkFactor float64 `yaml:"radius_shrink_factor"`
	JitterGrowthFactor float64 `yaml:"jitter_growth_factor"`
	ColorDarkenFactor  float64 `yaml:"color_darken_factor"`

	ForkMinRadius float64 `yaml:"fork_min_radius"`
	// ForkK sets the fork chance in percent to (branch + k) * k. Branch ids
	// only grow, so later branches fork more often than early ones.
	ForkK     float64 `yaml:"fork_k"`
	ForkTurn  float64 `yaml:"fork_turn"` // degrees
	ForkBoost float64 `yaml:"fork_boost"`

	IDExemption int `yaml:"id_exemption"`

	ColorMin   int `yaml:"color_min"`
	ColorRange int `yaml:"color_range"`
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow int `yaml:"stats_window"` // ticks
	PerfWindow  int `yaml:"perf_window"`  // ticks
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	ScreenW32 float32 // Screen.Width as float32
	ScreenH32 float32 // Screen.Height as float32
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Default returns a fresh copy of the embedded defaults.
func Default() *Config {
	cfg, err := Load("")
	if err != nil {
		panic(fmt.Sprintf("config: embedded defaults are invalid: %v", err))
	}
	return cfg
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Only overwrites fields present in the file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	cfg.computeDerived()

	return cfg, nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.ScreenW32 = float32(c.Screen.Width)
	c.Derived.ScreenH32 = float32(c.Screen.Height)
}

// Validate checks every section and reports all problems at once.
func (c *Config) Validate() error {
	var errs []error
	if c.Screen.Width <= 0 || c.Screen.Height <= 0 {
		errs = append(errs, fmt.Errorf("screen size %dx%d: %w", c.Screen.Width, c.Screen.Height, ErrInvalidParameter))
	}
	if err := c.Growth.Validate(); err != nil {
		errs = append(errs, err)
	}
	if c.Telemetry.StatsWindow < 0 || c.Telemetry.PerfWindow < 0 {
		errs = append(errs, fmt.Errorf("telemetry windows must not be negative: %w", ErrInvalidParameter))
	}
	return errors.Join(errs...)
}

// Validate checks the growth parameters. Radii never grow along a lineage, so
// a cell at least twice the initial radius keeps 3x3 neighbourhood queries
// complete.
func (g GrowthConfig) Validate() error {
	var errs []error
	if g.CellWidth <= 0 || g.CellHeight <= 0 ||
		g.CellWidth < 2*g.InitialRadius || g.CellHeight < 2*g.InitialRadius {
		errs = append(errs, fmt.Errorf("growth.cell %vx%v with radius %v: %w",
			g.CellWidth, g.CellHeight, g.InitialRadius, ErrInvalidCellSize))
	}
	if g.MaxNodes <= 0 {
		errs = append(errs, fmt.Errorf("growth.max_nodes %d: %w", g.MaxNodes, ErrInvalidCapacity))
	}
	if g.InitialPoints < 0 {
		errs = append(errs, fmt.Errorf("growth.initial_points %d: %w", g.InitialPoints, ErrInvalidSeedCount))
	}
	if g.InitialRadius <= 0 || g.InitialSpacing <= 0 || g.InitialJitter < 0 {
		errs = append(errs, fmt.Errorf("growth initial radius/spacing/jitter %v/%v/%v: %w",
			g.InitialRadius, g.InitialSpacing, g.InitialJitter, ErrInvalidParameter))
	}
	if g.RadiusShrinkFactor < 1 {
		errs = append(errs, fmt.Errorf("growth.radius_shrink_factor %v must be >= 1: %w", g.RadiusShrinkFactor, ErrInvalidParameter))
	}
	if g.JitterGrowthFactor <= 0 || g.ColorDarkenFactor < 0 || g.ForkBoost <= 0 {
		errs = append(errs, fmt.Errorf("growth fork factors jitter=%v darken=%v boost=%v: %w",
			g.JitterGrowthFactor, g.ColorDarkenFactor, g.ForkBoost, ErrInvalidParameter))
	}
	if g.IDExemption < 0 {
		errs = append(errs, fmt.Errorf("growth.id_exemption %d: %w", g.IDExemption, ErrInvalidParameter))
	}
	if g.ColorMin < 0 || g.ColorRange <= 0 || g.ColorMin+g.ColorRange > 256 {
		errs = append(errs, fmt.Errorf("growth colour range [%d,%d): %w", g.ColorMin, g.ColorMin+g.ColorRange, ErrInvalidParameter))
	}
	return errors.Join(errs...)
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation configuration parameters.
type Config struct {
	Field       FieldConfig       `yaml:"field"`
	Population  PopulationConfig  `yaml:"population"`
	Pollinator  PollinatorConfig  `yaml:"pollinator"`
	Interaction InteractionConfig `yaml:"interaction"`
	Evolution   EvolutionConfig   `yaml:"evolution"`
	Environment EnvironmentConfig `yaml:"environment"`
	Telemetry   TelemetryConfig   `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// FieldConfig holds the flower field geometry.
type FieldConfig struct {
	Width      float64 `yaml:"width"`
	Height     float64 `yaml:"height"`
	PadX       float64 `yaml:"pad_x"`       // Horizontal layout padding
	PadY       float64 `yaml:"pad_y"`       // Vertical layout padding
	HUDBand    float64 `yaml:"hud_band"`    // Height reserved at the bottom for the HUD
	GridJitter float64 `yaml:"grid_jitter"` // Random offset applied to grid slots
}

// PopulationConfig holds flower population bounds.
type PopulationConfig struct {
	Initial int `yaml:"initial"`
	Min     int `yaml:"min"`
	Max     int `yaml:"max"`
}

// PollinatorConfig holds pollinator movement and energy parameters.
type PollinatorConfig struct {
	Species        string  `yaml:"species"`
	MaxSpeed       float64 `yaml:"max_speed"`
	SpeedCost      float64 `yaml:"speed_cost"`      // Energy per unit of speed per tick
	HoverCost      float64 `yaml:"hover_cost"`      // Energy per tick while probing, scaled by (1 - hover skill)
	CruiseCost     float64 `yaml:"cruise_cost"`     // Energy per tick while not probing
	BaseTurnRate   float64 `yaml:"base_turn_rate"`  // Steering limit at hover skill 0
	HoverTurnRate  float64 `yaml:"hover_turn_rate"` // Extra steering limit per unit hover skill
	ApproachEnergy float64 `yaml:"approach_energy"` // Energy floor applied when an approach starts
}

// InteractionConfig holds interaction state machine parameters.
type InteractionConfig struct {
	ProximityThreshold float64 `yaml:"proximity_threshold"` // Distance to guide point that triggers a probe
	ResultDwellTicks   int     `yaml:"result_dwell_ticks"`  // Ticks the result is held before returning to idle
	AutoselectInterval int     `yaml:"autoselect_interval"` // Ticks between automatic generations
}

// EvolutionConfig holds genetic algorithm parameters.
type EvolutionConfig struct {
	EliteFraction  float64 `yaml:"elite_fraction"`
	MinElites      int     `yaml:"min_elites"`
	MutationScale  float64 `yaml:"mutation_scale"`
	RelocateJitter float64 `yaml:"relocate_jitter"` // Max offset of a child from its parent's center
	MarginX        float64 `yaml:"margin_x"`        // Horizontal keep-out margin for relocated children
	MarginTop      float64 `yaml:"margin_top"`
	MarginBottom   float64 `yaml:"margin_bottom"`
}

// EnvironmentConfig holds wind and day cycle defaults.
type EnvironmentConfig struct {
	TimeOfDay     float64 `yaml:"time_of_day"`
	TimeSpeed     float64 `yaml:"time_speed"`
	MaxTimeSpeed  float64 `yaml:"max_time_speed"`
	WindStrength  float64 `yaml:"wind_strength"`
	WindDirection float64 `yaml:"wind_direction"` // Degrees
	GustFrequency float64 `yaml:"gust_frequency"` // Noise advance per tick
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	HallOfFameSize      int     `yaml:"hall_of_fame_size"`
	BookmarkHistorySize int     `yaml:"bookmark_history_size"`
	SurgeMultiplier     float64 `yaml:"surge_multiplier"`    // Success rate over rolling mean that counts as a surge
	SurgeMinAttempts    int     `yaml:"surge_min_attempts"`  // Probes needed before a surge is reported
	ConvergenceStdDev   float64 `yaml:"convergence_std_dev"` // Spur length spread below which the population counts as converged
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	MinX, MaxX float64 // Bounds for relocated children
	MinY, MaxY float64
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
		// The embedded file is part of the binary; failing to parse it is a build defect.
		panic(fmt.Sprintf("config: embedded defaults: %v", err))
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
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	cfg.computeDerived()

	return cfg, nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	if c.Population.Min < 1 {
		c.Population.Min = 1
	}
	if c.Population.Max < c.Population.Min {
		c.Population.Max = c.Population.Min
	}
	if c.Evolution.MinElites < 1 {
		c.Evolution.MinElites = 1
	}

	c.Derived.MinX = c.Evolution.MarginX
	c.Derived.MaxX = c.Field.Width - c.Evolution.MarginX
	c.Derived.MinY = c.Evolution.MarginTop
	c.Derived.MaxY = c.Field.Height - c.Evolution.MarginBottom
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

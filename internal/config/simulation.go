package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/reyhaanzameer-7744/traffic-Q/internal/junction"
	"github.com/reyhaanzameer-7744/traffic-Q/internal/scheduler"
)

// DefaultConfigPath is the path to the canonical simulation defaults file.
const DefaultConfigPath = "config/simulation.defaults.json"

// Limits accepted for the interactive settings.
const (
	MinRounds    = 1
	MaxRounds    = 3
	MinStepDelay = 200 * time.Millisecond
	MaxStepDelay = 2 * time.Second
)

// SimulationConfig represents the settings for a simulation run. Fields
// omitted from the JSON file are nil and fall back to defaults through the
// Get* methods, so partial configs are safe.
type SimulationConfig struct {
	Rounds       *int    `json:"rounds,omitempty"`
	StepDelay    *string `json:"step_delay,omitempty"` // duration string like "500ms"
	PriorityLane *string `json:"priority_lane,omitempty"`

	// Scheduling and traffic generation
	StepsPerVisit *int    `json:"steps_per_visit,omitempty"`
	MinCars       *int    `json:"min_cars,omitempty"`
	MaxCars       *int    `json:"max_cars,omitempty"`
	Seed          *uint64 `json:"seed,omitempty"`

	// Output
	OutputDir *string `json:"output_dir,omitempty"`
}

// Helper functions to create pointers
func ptrInt(v int) *int          { return &v }
func ptrString(v string) *string { return &v }
func ptrUint64(v uint64) *uint64 { return &v }

// EmptySimulationConfig returns a SimulationConfig with all fields set to nil.
func EmptySimulationConfig() *SimulationConfig {
	return &SimulationConfig{}
}

// LoadSimulationConfig loads a SimulationConfig from a JSON file.
// The file must have a .json extension and be under 1MB.
func LoadSimulationConfig(path string) (*SimulationConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024 // 1MB
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := EmptySimulationConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks that the configuration values are valid.
func (c *SimulationConfig) Validate() error {
	if c.Rounds != nil {
		if *c.Rounds < MinRounds || *c.Rounds > MaxRounds {
			return fmt.Errorf("rounds must be between %d and %d, got %d", MinRounds, MaxRounds, *c.Rounds)
		}
	}

	if c.StepDelay != nil && *c.StepDelay != "" {
		d, err := time.ParseDuration(*c.StepDelay)
		if err != nil {
			return fmt.Errorf("invalid step_delay '%s': %w", *c.StepDelay, err)
		}
		if d < MinStepDelay || d > MaxStepDelay {
			return fmt.Errorf("step_delay must be between %s and %s, got %s", MinStepDelay, MaxStepDelay, d)
		}
	}

	if c.PriorityLane != nil {
		if _, err := junction.ParseLane(*c.PriorityLane); err != nil {
			return fmt.Errorf("invalid priority_lane: %w", err)
		}
	}

	if c.StepsPerVisit != nil && *c.StepsPerVisit < 1 {
		return fmt.Errorf("steps_per_visit must be at least 1, got %d", *c.StepsPerVisit)
	}

	minCars, maxCars := c.GetMinCars(), c.GetMaxCars()
	if minCars < 0 {
		return fmt.Errorf("min_cars must be non-negative, got %d", minCars)
	}
	if maxCars < minCars {
		return fmt.Errorf("max_cars (%d) must not be less than min_cars (%d)", maxCars, minCars)
	}

	return nil
}

// GetRounds returns the rounds value or the default.
func (c *SimulationConfig) GetRounds() int {
	if c.Rounds == nil {
		return 1
	}
	return *c.Rounds
}

// GetStepDelay parses and returns the StepDelay as a time.Duration.
func (c *SimulationConfig) GetStepDelay() time.Duration {
	if c.StepDelay == nil || *c.StepDelay == "" {
		return 500 * time.Millisecond // default
	}
	d, err := time.ParseDuration(*c.StepDelay)
	if err != nil {
		return 500 * time.Millisecond // default on parse error
	}
	return d
}

// GetPriorityLane returns the configured priority lane, or junction.NoLane.
func (c *SimulationConfig) GetPriorityLane() junction.Lane {
	if c.PriorityLane == nil {
		return junction.NoLane
	}
	l, err := junction.ParseLane(*c.PriorityLane)
	if err != nil {
		return junction.NoLane
	}
	return l
}

// GetStepsPerVisit returns the steps_per_visit value or the default.
func (c *SimulationConfig) GetStepsPerVisit() int {
	if c.StepsPerVisit == nil {
		return scheduler.DefaultStepsPerVisit
	}
	return *c.StepsPerVisit
}

// GetMinCars returns the min_cars value or the default.
func (c *SimulationConfig) GetMinCars() int {
	if c.MinCars == nil {
		return 3
	}
	return *c.MinCars
}

// GetMaxCars returns the max_cars value or the default.
func (c *SimulationConfig) GetMaxCars() int {
	if c.MaxCars == nil {
		return 8
	}
	return *c.MaxCars
}

// GetSeed returns the seed value, or 0 meaning "seed randomly".
func (c *SimulationConfig) GetSeed() uint64 {
	if c.Seed == nil {
		return 0
	}
	return *c.Seed
}

// GetOutputDir returns the output_dir value or the default.
func (c *SimulationConfig) GetOutputDir() string {
	if c.OutputDir == nil || *c.OutputDir == "" {
		return "runs"
	}
	return *c.OutputDir
}

// SetRounds overrides the rounds value.
func (c *SimulationConfig) SetRounds(v int) { c.Rounds = ptrInt(v) }

// SetStepDelay overrides the step delay.
func (c *SimulationConfig) SetStepDelay(d time.Duration) { c.StepDelay = ptrString(d.String()) }

// SetPriorityLane overrides the priority lane. An empty name clears it.
func (c *SimulationConfig) SetPriorityLane(name string) { c.PriorityLane = ptrString(name) }

// SetSeed overrides the random seed.
func (c *SimulationConfig) SetSeed(v uint64) { c.Seed = ptrUint64(v) }

// SetOutputDir overrides the output directory.
func (c *SimulationConfig) SetOutputDir(dir string) { c.OutputDir = ptrString(dir) }

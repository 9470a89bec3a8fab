package config

import (
	"fmt"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
)

// ConfigFile is the optional YAML file read by Load.
const ConfigFile = "scenario-engine.yaml"

// Config holds engine-wide defaults for scenario-engine.
// Configuration can come from a YAML file (scenario-engine.yaml) or
// environment variables. Environment variables always override YAML values.
type Config struct {
	// RTol is the relative tolerance used by aggregation-consistency checks.
	RTol float64 `yaml:"rtol" env:"SCENARIO_ENGINE_RTOL" env-default:"1e-5"`

	// ATol is the absolute tolerance used by aggregation-consistency checks.
	ATol float64 `yaml:"atol" env:"SCENARIO_ENGINE_ATOL" env-default:"1e-8"`

	// Separator splits variable names into hierarchy segments.
	Separator string `yaml:"separator" env:"SCENARIO_ENGINE_SEPARATOR" env-default:"|"`

	// PlaceholderModel is the model label assigned to non-diagnostic rows
	// when converting a yearly frame to the continuous representation.
	PlaceholderModel string `yaml:"placeholder_model" env:"SCENARIO_ENGINE_PLACEHOLDER_MODEL" env-default:"N/A"`
}

// Load reads configuration from scenario-engine.yaml with environment
// variable overrides. A missing file is not an error; defaults and the
// environment apply.
func Load() (*Config, error) {
	cfg := &Config{}

	if _, err := os.Stat(ConfigFile); err == nil {
		if err := cleanenv.ReadConfig(ConfigFile, cfg); err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", ConfigFile, err)
		}
	} else {
		if err := cleanenv.ReadEnv(cfg); err != nil {
			return nil, fmt.Errorf("failed to read environment: %w", err)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Default returns the built-in defaults without touching file or environment.
func Default() *Config {
	return &Config{
		RTol:             1e-5,
		ATol:             1e-8,
		Separator:        "|",
		PlaceholderModel: "N/A",
	}
}

func (c *Config) validate() error {
	if c.RTol < 0 || c.ATol < 0 {
		return fmt.Errorf("tolerances must be non-negative (rtol=%g, atol=%g)", c.RTol, c.ATol)
	}
	if c.Separator == "" {
		return fmt.Errorf("separator must not be empty")
	}
	return nil
}

// Close reports whether a and b are equal within the configured tolerances.
// Mirrors the usual |a-b| <= atol + rtol*|b| closeness test; exact float
// equality is never required.
func (c *Config) Close(a, b float64) bool {
	diff := a - b
	if diff < 0 {
		diff = -diff
	}
	ref := b
	if ref < 0 {
		ref = -ref
	}
	return diff <= c.ATol+c.RTol*ref
}

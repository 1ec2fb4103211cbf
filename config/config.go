// Package config loads tally's YAML configuration.
package config

import "fmt"

// Config represents the complete tally configuration
type Config struct {
	BaseDir string `yaml:"-"` // Directory containing config file, for resolving relative paths

	// Evaluation defaults
	EmBase        float64 `yaml:"em_base"`        // Pixels per css em (default 16)
	PPIBase       float64 `yaml:"ppi_base"`       // Pixels per inch (default 96)
	DecimalPlaces int     `yaml:"decimal_places"` // Formatted output precision; -1 = automatic

	// Currency rate overrides, USD per one unit (e.g. eur: 1.09). These
	// patch the built-in static table without a rebuild.
	Rates map[string]float64 `yaml:"rates"`

	// App surface
	HistoryFile string `yaml:"history_file"` // REPL history location
	Store       string `yaml:"store"`        // Document store path or DSN (sqlite path, postgres://, mysql://)

	AI AIConfig `yaml:"ai"`
}

// AIConfig controls the optional AI fallback interpreter.
type AIConfig struct {
	Enabled bool   `yaml:"enabled"`
	Model   string `yaml:"model"`   // defaults to "gemini-2.0-flash"
	APIKey  string `yaml:"api_key"` // defaults to $GEMINI_API_KEY
}

// Defaults returns a Config with the conventional defaults applied.
func Defaults() *Config {
	return &Config{
		EmBase:        16,
		PPIBase:       96,
		DecimalPlaces: -1,
	}
}

// Validate checks config consistency after CLI overrides are applied.
func Validate(cfg *Config) error {
	if cfg.EmBase <= 0 {
		return fmt.Errorf("em_base must be positive, got %v", cfg.EmBase)
	}
	if cfg.PPIBase <= 0 {
		return fmt.Errorf("ppi_base must be positive, got %v", cfg.PPIBase)
	}
	if cfg.DecimalPlaces < -1 || cfg.DecimalPlaces > 20 {
		return fmt.Errorf("decimal_places must be -1..20, got %d", cfg.DecimalPlaces)
	}
	for code, rate := range cfg.Rates {
		if rate <= 0 {
			return fmt.Errorf("rate for %s must be positive, got %v", code, rate)
		}
	}
	return nil
}

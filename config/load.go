// load.go - Config file resolution and loading with ENV interpolation

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"gopkg.in/yaml.v3"
)

// Load reads configuration from a file with ENV interpolation.
// If configPath is empty, it searches default locations; a missing config
// file is not an error, defaults apply.
func Load(configPath string, getenv func(string) string) (*Config, error) {
	path := resolveConfigPath(configPath, getenv)
	if path == "" {
		return Defaults(), nil
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve config path: %w", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	data = interpolateEnv(data, getenv)

	cfg := Defaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	cfg.BaseDir = filepath.Dir(absPath)

	// Resolve relative paths against the config file's directory.
	if cfg.Store != "" && !hasDSNScheme(cfg.Store) && !filepath.IsAbs(cfg.Store) {
		cfg.Store = filepath.Join(cfg.BaseDir, cfg.Store)
	}
	if cfg.HistoryFile != "" && !filepath.IsAbs(cfg.HistoryFile) {
		cfg.HistoryFile = filepath.Join(cfg.BaseDir, cfg.HistoryFile)
	}

	return cfg, nil
}

// resolveConfigPath picks the config file:
// 1. explicit path, 2. TALLY_CONFIG, 3. ./tally.yaml, 4. ~/.config/tally/tally.yaml
func resolveConfigPath(configPath string, getenv func(string) string) string {
	if configPath != "" {
		return configPath
	}
	if env := getenv("TALLY_CONFIG"); env != "" {
		return env
	}
	if _, err := os.Stat("tally.yaml"); err == nil {
		return "tally.yaml"
	}
	if home, err := os.UserHomeDir(); err == nil {
		candidate := filepath.Join(home, ".config", "tally", "tally.yaml")
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	return ""
}

var envPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// interpolateEnv replaces ${VAR} references with environment values.
func interpolateEnv(data []byte, getenv func(string) string) []byte {
	return envPattern.ReplaceAllFunc(data, func(match []byte) []byte {
		name := envPattern.FindSubmatch(match)[1]
		return []byte(getenv(string(name)))
	})
}

var dsnScheme = regexp.MustCompile(`^[a-z][a-z0-9+.-]*://`)

func hasDSNScheme(s string) bool { return dsnScheme.MatchString(s) }

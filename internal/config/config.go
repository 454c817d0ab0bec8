// Package config provides configuration loading and structs for tunefeat.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application.
type Config struct {
	Debug   bool          `yaml:"debug"`
	Dataset DatasetConfig `yaml:"dataset"`
	Search  SearchConfig  `yaml:"search"`
	Output  OutputConfig  `yaml:"output"`
}

// DatasetConfig describes where the track table lives and how to read it.
type DatasetConfig struct {
	Path       string `yaml:"path"`
	Format     string `yaml:"format"`    // auto, csv, xlsx, sqlite
	Delimiter  string `yaml:"delimiter"` // csv only; empty picks by extension
	Sheet      string `yaml:"sheet"`     // xlsx only; empty means first sheet
	Table      string `yaml:"table"`     // sqlite only
	SkipHeader bool   `yaml:"skip_header"`
	Watch      bool   `yaml:"watch"`
}

// SearchConfig holds lookup and suggestion settings.
type SearchConfig struct {
	Suggestions    *bool `yaml:"suggestions"`
	MaxSuggestions int   `yaml:"max_suggestions"`
	Fuzziness      int   `yaml:"fuzziness"`
}

// SuggestionsOrDefault returns whether not-found lookups get suggestions; defaults to true when unset.
func (s *SearchConfig) SuggestionsOrDefault() bool {
	if s.Suggestions != nil {
		return *s.Suggestions
	}
	return true
}

// OutputConfig holds report rendering settings.
type OutputConfig struct {
	Format string `yaml:"format"`
}

var (
	validFormats       = map[string]bool{"auto": true, "csv": true, "xlsx": true, "sqlite": true}
	validOutputFormats = map[string]bool{"text": true, "json": true, "compact": true}
)

// Load reads and parses the config file at path, expands paths, and applies defaults.
// Returns an error if the file cannot be read, parsed, or validated.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	ApplyDefaults(&cfg)

	configDir := filepath.Dir(path)
	cfg.Dataset.Path = expandPath(cfg.Dataset.Path, configDir)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks enumerated settings. An empty dataset path is allowed here;
// callers that need a dataset report it when they try to load one.
func (c *Config) Validate() error {
	if !validFormats[c.Dataset.Format] {
		return fmt.Errorf("invalid dataset format %q (want auto, csv, xlsx, or sqlite)", c.Dataset.Format)
	}
	if len([]rune(c.Dataset.Delimiter)) > 1 {
		return fmt.Errorf("invalid dataset delimiter %q: must be a single character", c.Dataset.Delimiter)
	}
	if !validOutputFormats[c.Output.Format] {
		return fmt.Errorf("invalid output format %q (want text, json, or compact)", c.Output.Format)
	}
	if c.Search.Fuzziness < 1 || c.Search.Fuzziness > 2 {
		return fmt.Errorf("invalid search fuzziness %d: must be 1 or 2", c.Search.Fuzziness)
	}
	return nil
}

// expandPath converts a path to absolute. Paths starting with "./" are relative to configDir;
// other relative paths are relative to the home directory. Empty stays empty.
func expandPath(path string, configDir string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	if strings.HasPrefix(path, "./") || strings.HasPrefix(path, "../") || path == "." {
		return filepath.Join(configDir, path)
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, path)
	}
	return path
}

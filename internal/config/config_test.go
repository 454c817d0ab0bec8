package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
dataset:
  path: "/data/spotify.csv"
  format: csv
  delimiter: ";"
  watch: true
output:
  format: json
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Dataset.Path != "/data/spotify.csv" || cfg.Dataset.Format != "csv" || cfg.Dataset.Delimiter != ";" {
		t.Errorf("unexpected dataset config: %+v", cfg.Dataset)
	}
	if !cfg.Dataset.Watch {
		t.Error("watch should be true when set")
	}
	if cfg.Output.Format != "json" {
		t.Errorf("output format = %q, want json", cfg.Output.Format)
	}
	if cfg.Debug {
		t.Error("debug should default to false when unset")
	}
}

func TestLoad_debugTrue(t *testing.T) {
	path := writeConfig(t, `
debug: true
dataset:
  path: "/data/spotify.csv"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if !cfg.Debug {
		t.Error("debug should be true when set in config")
	}
}

func TestLoad_expandPathDotSlashRelativeToConfigDir(t *testing.T) {
	path := writeConfig(t, `
dataset:
  path: "./data/spotify_data.csv"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	want := filepath.Join(filepath.Dir(path), "data", "spotify_data.csv")
	if cfg.Dataset.Path != want {
		t.Errorf("dataset path = %s, want %s", cfg.Dataset.Path, want)
	}
}

func TestLoad_emptyPathStaysEmpty(t *testing.T) {
	path := writeConfig(t, "debug: false\n")
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Dataset.Path != "" {
		t.Errorf("dataset path = %q, want empty", cfg.Dataset.Path)
	}
}

func TestLoad_invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantMsg string
	}{
		{"bad format", "dataset:\n  format: parquet\n", "invalid dataset format"},
		{"bad delimiter", "dataset:\n  delimiter: \"ab\"\n", "invalid dataset delimiter"},
		{"bad output", "output:\n  format: html\n", "invalid output format"},
		{"bad fuzziness", "search:\n  fuzziness: 5\n", "invalid search fuzziness"},
		{"negative fuzziness", "search:\n  fuzziness: -1\n", "invalid search fuzziness"},
		{"bad yaml", "dataset: [\n", "failed to parse config"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("error = %v, want containing %q", err, tt.wantMsg)
			}
		})
	}
}

func TestLoad_missingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing config file")
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)
	if cfg.Dataset.Format != "auto" {
		t.Errorf("default format: got %s", cfg.Dataset.Format)
	}
	if cfg.Dataset.Table != "tracks" {
		t.Errorf("default table: got %s", cfg.Dataset.Table)
	}
	if cfg.Search.MaxSuggestions != 5 {
		t.Errorf("default max_suggestions: got %d", cfg.Search.MaxSuggestions)
	}
	if cfg.Search.Fuzziness != 2 {
		t.Errorf("default fuzziness: got %d", cfg.Search.Fuzziness)
	}
	if cfg.Output.Format != "text" {
		t.Errorf("default output format: got %s", cfg.Output.Format)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestLoad_zeroFuzzinessMeansDefault(t *testing.T) {
	cfg, err := Load(writeConfig(t, "search:\n  fuzziness: 0\n"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Search.Fuzziness != 2 {
		t.Errorf("fuzziness = %d, want default 2", cfg.Search.Fuzziness)
	}
}

func TestValidate_fuzzinessRange(t *testing.T) {
	for _, f := range []int{0, 3} {
		cfg := Default()
		cfg.Search.Fuzziness = f
		if err := cfg.Validate(); err == nil || !strings.Contains(err.Error(), "must be 1 or 2") {
			t.Errorf("fuzziness %d: Validate() = %v", f, err)
		}
	}
}

func TestSearchConfig_SuggestionsOrDefault(t *testing.T) {
	t.Run("nil_returns_true", func(t *testing.T) {
		s := &SearchConfig{}
		if got := s.SuggestionsOrDefault(); !got {
			t.Errorf("SuggestionsOrDefault() = %v, want true", got)
		}
	})
	t.Run("false_returns_false", func(t *testing.T) {
		f := false
		s := &SearchConfig{Suggestions: &f}
		if got := s.SuggestionsOrDefault(); got {
			t.Errorf("SuggestionsOrDefault() = %v, want false", got)
		}
	})
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Dataset.Path != "" {
		t.Errorf("Dataset.Path = %q, want empty", cfg.Dataset.Path)
	}
	if cfg.Dataset.Format != "auto" || cfg.Output.Format != "text" {
		t.Errorf("defaults not applied: %+v", cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}
}

// Package config loads and persists the YAML configuration file.
// Missing keys fall back to defaults so configs written by older
// releases keep working; migrations add the new keys on upgrade.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds user-tunable settings.
type Config struct {
	// DatabasePath is the SQLite file location. Empty means the default
	// location next to the config file.
	DatabasePath string `yaml:"database_path,omitempty"`

	// DefaultPosition is the position code used when a punch does not
	// specify one.
	DefaultPosition string `yaml:"default_position"`

	// WorkDuration is the nominal daily work time, e.g. "8h" or "7h36m".
	// Used to compute the expected exit time.
	WorkDuration string `yaml:"work_duration"`

	// MinLunchBreak and MaxLunchBreak bound the lunch break in minutes,
	// both for validation and for clamping inferred breaks.
	MinLunchBreak int `yaml:"min_duration_lunch_break"`
	MaxLunchBreak int `yaml:"max_duration_lunch_break"`

	// LunchWindowStart and LunchWindowEnd delimit the clock range in
	// which a gap between an out and the next in counts as lunch.
	LunchWindowStart string `yaml:"lunch_window_start"`
	LunchWindowEnd   string `yaml:"lunch_window_end"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		DefaultPosition:  "O",
		WorkDuration:     "8h",
		MinLunchBreak:    30,
		MaxLunchBreak:    90,
		LunchWindowStart: "12:00",
		LunchWindowEnd:   "14:30",
	}
}

// DefaultDir returns the application's state directory, ~/.punchlog.
func DefaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving home directory: %w", err)
	}
	return filepath.Join(home, ".punchlog"), nil
}

// DefaultPath returns the default config file location.
func DefaultPath() (string, error) {
	dir, err := DefaultDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "punchlog.yaml"), nil
}

// Load reads the config at path, filling unset keys with defaults.
// A missing file is not an error: the defaults are returned as-is.
func Load(path string) (Config, error) {
	cfg := Default()

	raw, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}

	// A config written by an older release may carry empty or zero
	// values for keys it predates.
	def := Default()
	if cfg.DefaultPosition == "" {
		cfg.DefaultPosition = def.DefaultPosition
	}
	if cfg.WorkDuration == "" {
		cfg.WorkDuration = def.WorkDuration
	}
	if cfg.MinLunchBreak <= 0 {
		cfg.MinLunchBreak = def.MinLunchBreak
	}
	if cfg.MaxLunchBreak <= 0 {
		cfg.MaxLunchBreak = def.MaxLunchBreak
	}
	if cfg.LunchWindowStart == "" {
		cfg.LunchWindowStart = def.LunchWindowStart
	}
	if cfg.LunchWindowEnd == "" {
		cfg.LunchWindowEnd = def.LunchWindowEnd
	}
	return cfg, nil
}

// Save writes the config to path atomically, creating the parent
// directory if needed.
func (c Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	out, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, out, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return os.Rename(tmp, path)
}

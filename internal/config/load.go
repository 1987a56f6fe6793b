package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Load resolves configuration for the given directory. An empty dir means
// DefaultConfigDir. A missing settings file is not an error; the directory
// itself is created later by the store.
func Load(dir string) (*Config, error) {
	cfg := &Config{}

	// 1. Set defaults
	setDefaults(cfg)

	if dir == "" {
		dir = DefaultConfigDir()
	}
	cfg.Dir = expandPath(dir)

	// 2. Settings file
	if err := loadConfigFile(cfg, cfg.SettingsPath()); err != nil {
		return nil, fmt.Errorf("loading config file %s: %w", cfg.SettingsPath(), err)
	}

	// 3. Compute derived values
	if err := finalizeConfig(cfg); err != nil {
		return nil, fmt.Errorf("finalizing config: %w", err)
	}

	return cfg, nil
}

// loadConfigFile decodes TOML from path into cfg. Keys not present in the
// file keep their current values.
func loadConfigFile(cfg *Config, path string) error {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return fmt.Errorf("unknown key %q", undecoded[0].String())
	}
	return nil
}

// finalizeConfig validates values and makes the config directory absolute.
func finalizeConfig(cfg *Config) error {
	if !filepath.IsAbs(cfg.Dir) {
		abs, err := filepath.Abs(cfg.Dir)
		if err != nil {
			return fmt.Errorf("resolving config dir: %w", err)
		}
		cfg.Dir = abs
	}
	if cfg.TodoFile == "" {
		return fmt.Errorf("todo_file must not be empty")
	}
	if cfg.HistoryFile == "" {
		return fmt.Errorf("history_file must not be empty")
	}
	if cfg.HistoryLimit < 0 {
		return fmt.Errorf("history_limit must be >= 0, got %d", cfg.HistoryLimit)
	}
	if cfg.Prompt == "" {
		cfg.Prompt = DefaultPrompt
	}
	return nil
}

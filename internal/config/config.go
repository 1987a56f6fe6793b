package config

import (
	"os"
	"path/filepath"
)

// AppName is the application directory name.
const AppName = "iforgor"

// Default values.
const (
	DefaultTodoFile     = "todos.json"
	DefaultHistoryFile  = "history"
	DefaultConfigFile   = "config.toml"
	DefaultHistoryLimit = 1000
	DefaultPrompt       = "iforgor 💀> "
	DefaultColor        = true
	DefaultPromptColor  = "205"
	DefaultLogLevel     = "warn"
	DefaultLogFormat    = "text"
)

// Config holds the full configuration for iforgor.
type Config struct {
	// Paths, relative to Dir unless absolute or ~/ prefixed
	TodoFile    string `toml:"todo_file"`
	HistoryFile string `toml:"history_file"`

	// Line editor
	HistoryLimit int    `toml:"history_limit"`
	Prompt       string `toml:"prompt"`

	// Output
	Color       bool   `toml:"color"`
	PromptColor string `toml:"prompt_color"` // lipgloss colour, "" for unstyled

	// Logging configuration
	LogLevel  string `toml:"log_level"`
	LogFormat string `toml:"log_format"`

	// Config directory (computed)
	Dir string `toml:"-"`
}

// DefaultConfigDir returns the default configuration directory.
// Uses XDG_CONFIG_HOME if set, otherwise $HOME/.config.
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home := os.Getenv("HOME")
	if home == "" {
		var err error
		if home, err = os.UserHomeDir(); err != nil {
			// Fall back to the working directory if home can't be determined
			return filepath.Join(".config", AppName)
		}
	}
	return filepath.Join(home, ".config", AppName)
}

// setDefaults fills cfg with built-in defaults.
func setDefaults(cfg *Config) {
	cfg.TodoFile = DefaultTodoFile
	cfg.HistoryFile = DefaultHistoryFile
	cfg.HistoryLimit = DefaultHistoryLimit
	cfg.Prompt = DefaultPrompt
	cfg.Color = DefaultColor
	cfg.PromptColor = DefaultPromptColor
	cfg.LogLevel = DefaultLogLevel
	cfg.LogFormat = DefaultLogFormat
}

// TodoPath returns the absolute path of the task document.
func (c *Config) TodoPath() string {
	return c.resolve(c.TodoFile)
}

// HistoryPath returns the absolute path of the history file.
func (c *Config) HistoryPath() string {
	return c.resolve(c.HistoryFile)
}

// SettingsPath returns the path of the optional settings file.
func (c *Config) SettingsPath() string {
	return filepath.Join(c.Dir, DefaultConfigFile)
}

func (c *Config) resolve(p string) string {
	p = expandPath(p)
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(c.Dir, p)
}

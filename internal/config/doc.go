// Package config handles configuration loading and defaults.
//
// Configuration is resolved in priority order:
// 1. Built-in defaults
// 2. Settings file config.toml inside the config directory (optional)
// 3. Derived values (absolute paths, ~ expansion)
//
// The config directory is:
// - $XDG_CONFIG_HOME/iforgor when XDG_CONFIG_HOME is set
// - $HOME/.config/iforgor otherwise
//
// The directory holds the task document (todos.json), the line editor
// history (history) and the optional settings file.
package config

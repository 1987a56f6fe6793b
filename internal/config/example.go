package config

// ExampleConfig returns an example settings file showing all available options.
func ExampleConfig() string {
	return `# iforgor settings (config.toml in the config directory)
# Every key is optional.

# Task document, relative to the config directory (absolute and ~/ paths work too)
todo_file = "todos.json"

# Line editor history file and the number of entries kept
history_file = "history"
history_limit = 1000

# Main prompt
prompt = "iforgor 💀> "

# Colourise messages when stdout is a terminal
color = true

# Terminal prompt colour (ANSI number or #rrggbb), "" for no styling
prompt_color = "205"

# Diagnostics on stderr: debug, info, warn, error
log_level = "warn"

# Log format: text, json, logfmt
log_format = "text"
`
}

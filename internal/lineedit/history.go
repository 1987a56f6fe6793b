package lineedit

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// History is the list of previously entered lines, persisted one per line
// in a plain text file. The oldest entries are dropped once the limit is
// reached; a limit of 0 keeps everything.
type History struct {
	path    string
	limit   int
	entries []string
}

// NewHistory creates an empty history backed by path.
func NewHistory(path string, limit int) *History {
	return &History{path: path, limit: limit}
}

// Path returns the history file location.
func (h *History) Path() string {
	return h.path
}

// Load replaces the in-memory entries with the content of the history file.
// A missing file is created empty.
func (h *History) Load() error {
	data, err := os.ReadFile(h.path)
	if errors.Is(err, fs.ErrNotExist) {
		h.entries = nil
		return h.Save()
	}
	if err != nil {
		return fmt.Errorf("read history file: %w", err)
	}

	h.entries = h.entries[:0]
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		h.Add(scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read history file: %w", err)
	}
	return nil
}

// Add records a line. Blank lines and immediate repeats are skipped.
func (h *History) Add(line string) {
	line = strings.TrimRight(line, "\r\n")
	if strings.TrimSpace(line) == "" {
		return
	}
	if n := len(h.entries); n > 0 && h.entries[n-1] == line {
		return
	}
	h.entries = append(h.entries, line)
	if h.limit > 0 && len(h.entries) > h.limit {
		h.entries = append([]string(nil), h.entries[len(h.entries)-h.limit:]...)
	}
}

// Clear drops every entry and persists the now empty history.
func (h *History) Clear() error {
	h.entries = nil
	return h.Save()
}

// Entries returns a copy of the entries, oldest first.
func (h *History) Entries() []string {
	return append([]string(nil), h.entries...)
}

// Len returns the number of entries.
func (h *History) Len() int {
	return len(h.entries)
}

// Save writes the entries to the history file.
func (h *History) Save() error {
	if err := os.MkdirAll(filepath.Dir(h.path), 0o755); err != nil {
		return fmt.Errorf("create history dir: %w", err)
	}

	var b strings.Builder
	for _, entry := range h.entries {
		b.WriteString(entry)
		b.WriteByte('\n')
	}
	if err := os.WriteFile(h.path, []byte(b.String()), 0o600); err != nil {
		return fmt.Errorf("write history file: %w", err)
	}
	return nil
}

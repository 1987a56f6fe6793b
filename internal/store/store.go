// Package store persists the task list as a single JSON document.
//
// The document is a JSON array of tasks. It lives inside the config
// directory, which is created on first use together with an empty
// document ("[]"). Writes go to a temporary file in the same directory that
// is then renamed over the document, so a crash mid-write leaves the
// previous version intact.
//
// The store keeps no reference to the slices it loads or saves.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/nibzard/iforgor/internal/logging"
	"github.com/nibzard/iforgor/internal/todo"
)

// Permissions for created directories and files.
const (
	dirMode  = 0o755
	fileMode = 0o644
)

// emptyDocument is written when the task file does not exist yet.
var emptyDocument = []byte("[]")

// Store loads and saves tasks at a fixed path.
type Store struct {
	path   string
	logger *log.Logger
	schema *jsonschema.Schema
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the diagnostic logger.
func WithLogger(logger *log.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New creates a store for the task document at path. The parent directory
// of path is treated as the config directory.
func New(path string, opts ...Option) (*Store, error) {
	schema, err := compileSchema()
	if err != nil {
		return nil, fmt.Errorf("compile document schema: %w", err)
	}
	s := &Store{
		path:   path,
		logger: logging.Discard(),
		schema: schema,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Path returns the location of the task document.
func (s *Store) Path() string {
	return s.path
}

// Load reads the task document. A missing config directory or document is
// created and an empty list returned. Unreadable, malformed or structurally
// invalid documents are errors.
func (s *Store) Load() ([]todo.Task, error) {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, dirMode); err != nil {
		return nil, fmt.Errorf("create config dir: %w", err)
	}

	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		if err := os.WriteFile(s.path, emptyDocument, fileMode); err != nil {
			return nil, fmt.Errorf("create todo file: %w", err)
		}
		s.logger.Info("created todo file", "path", s.path)
		return []todo.Task{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read todo file: %w", err)
	}

	if err := validateDocument(s.schema, data); err != nil {
		return nil, fmt.Errorf("parse todo file %s: %w", s.path, err)
	}

	var tasks []todo.Task
	if err := json.Unmarshal(data, &tasks); err != nil {
		return nil, fmt.Errorf("parse todo file %s: %w", s.path, err)
	}
	if tasks == nil {
		tasks = []todo.Task{}
	}

	s.logger.Debug("loaded tasks", "path", s.path, "count", len(tasks))
	return tasks, nil
}

// Save replaces the task document with tasks.
func (s *Store) Save(tasks []todo.Task) error {
	if tasks == nil {
		tasks = []todo.Task{}
	}
	data, err := json.MarshalIndent(tasks, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal tasks: %w", err)
	}

	// Add trailing newline
	data = append(data, '\n')

	if err := writeFileAtomic(s.path, data); err != nil {
		return fmt.Errorf("write todo file: %w", err)
	}

	s.logger.Debug("saved tasks", "path", s.path, "count", len(tasks))
	return nil
}

// writeFileAtomic writes data to a temp file next to path and renames it
// into place.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		_ = os.Remove(tmpPath)
		return err
	}
	if err := tmp.Chmod(fileMode); err != nil {
		tmp.Close()
		_ = os.Remove(tmpPath)
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}
	return nil
}

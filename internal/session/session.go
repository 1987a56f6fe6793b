// Package session runs the interactive todo REPL.
//
// A Session owns the in-memory task list for the lifetime of the process.
// It reads a line, classifies it with a command.Parser, applies it to the
// list and repeats until the user exits, interrupts or input ends. Every one
// of those endings goes through Close, which saves the history and the
// task list exactly once.
package session

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/fatih/color"

	"github.com/nibzard/iforgor/internal/command"
	"github.com/nibzard/iforgor/internal/lineedit"
	"github.com/nibzard/iforgor/internal/logging"
	"github.com/nibzard/iforgor/internal/todo"
)

// Messages printed for user input errors.
const (
	MsgNotFound = "Such todo doesn't exist"
	MsgBadID    = "Unable to parse the id"
	MsgUnknown  = "Unknown"
)

// DefaultPrompt is the main REPL prompt.
const DefaultPrompt = "iforgor 💀> "

// State is the lifecycle state of a Session.
type State int

const (
	Running State = iota
	Terminated
)

func (s State) String() string {
	if s == Terminated {
		return "terminated"
	}
	return "running"
}

// Store loads and saves the task list.
type Store interface {
	Load() ([]todo.Task, error)
	Save(tasks []todo.Task) error
}

// History is the line editor history.
type History interface {
	Add(line string)
	Clear() error
	Save() error
}

// Session is a single REPL run.
type Session struct {
	store   Store
	editor  lineedit.Editor
	history History
	parser  *command.Parser
	logger  *log.Logger
	out     io.Writer
	prompt  string
	tasks   []todo.Task
	state   State

	colorOutput bool
	errorColor  *color.Color
	infoColor   *color.Color
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the diagnostic logger.
func WithLogger(logger *log.Logger) Option {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithOutput sets where REPL output is written. Defaults to io.Discard.
func WithOutput(w io.Writer) Option {
	return func(s *Session) {
		s.out = w
	}
}

// WithPrompt overrides the main prompt.
func WithPrompt(prompt string) Option {
	return func(s *Session) {
		if prompt != "" {
			s.prompt = prompt
		}
	}
}

// WithColor enables coloured messages.
func WithColor(enabled bool) Option {
	return func(s *Session) {
		s.colorOutput = enabled
	}
}

// New creates a session and loads the task list from store.
func New(store Store, editor lineedit.Editor, history History, opts ...Option) (*Session, error) {
	s := &Session{
		store:      store,
		editor:     editor,
		history:    history,
		logger:     logging.Discard(),
		out:        io.Discard,
		prompt:     DefaultPrompt,
		errorColor: color.New(color.FgRed),
		infoColor:  color.New(color.FgYellow),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.parser = command.NewParser(editor, history)

	tasks, err := store.Load()
	if err != nil {
		return nil, fmt.Errorf("load tasks: %w", err)
	}
	s.tasks = tasks
	s.logger.Debug("session started", "tasks", len(tasks))
	return s, nil
}

// Tasks returns a copy of the current task list.
func (s *Session) Tasks() []todo.Task {
	return append([]todo.Task(nil), s.tasks...)
}

// State returns the lifecycle state.
func (s *Session) State() State {
	return s.state
}

// Run drives the REPL until exit, interrupt or end of input, then saves
// through Close. Errors are persistence or input failures and are fatal.
func (s *Session) Run(ctx context.Context) error {
	if s.state == Terminated {
		return errors.New("session already terminated")
	}

	for {
		stop, err := s.Step(ctx)
		if err != nil {
			if reason, ok := shutdownReason(err); ok {
				s.logger.Debug("shutting down", "reason", reason)
				return s.Close()
			}
			return err
		}
		if stop {
			s.logger.Debug("shutting down", "reason", "exit")
			return s.Close()
		}
	}
}

// Step reads, parses and executes a single line.
func (s *Session) Step(ctx context.Context) (bool, error) {
	line, err := s.editor.Prompt(ctx, s.prompt)
	if err != nil {
		return false, err
	}
	cmd, err := s.parser.Parse(ctx, line)
	if err != nil {
		return false, err
	}
	s.logger.Debug("command", "input", line, "parsed", cmd.String())
	return s.Execute(ctx, cmd)
}

// Execute applies cmd to the task list. It reports whether the session
// should stop.
func (s *Session) Execute(ctx context.Context, cmd command.Command) (bool, error) {
	switch cmd.Kind {
	case command.Exit:
		return true, nil

	case command.Nothing:
		return false, nil

	case command.List:
		for i, task := range s.tasks {
			fmt.Fprintf(s.out, "%d. %s\n", i+1, task)
		}

	case command.Create:
		task, err := todo.Create(ctx, s.editor, s.out)
		if err != nil {
			return false, err
		}
		s.tasks = append(s.tasks, task)

	case command.Done, command.Delete, command.Details:
		ix, ok := s.resolve(cmd)
		if !ok {
			return false, nil
		}
		switch cmd.Kind {
		case command.Done:
			s.tasks[ix].Toggle()
		case command.Delete:
			s.tasks = append(s.tasks[:ix], s.tasks[ix+1:]...)
		case command.Details:
			fmt.Fprint(s.out, s.tasks[ix].Details())
		}

	default:
		s.printInfo(MsgUnknown)
	}
	return false, nil
}

// resolve maps a command's id to a list position, printing why when it
// cannot.
func (s *Session) resolve(cmd command.Command) (int, bool) {
	if cmd.IDErr != nil {
		s.printError(MsgBadID)
	}
	ix, ok := cmd.Ref(len(s.tasks))
	if !ok {
		s.printError(MsgNotFound)
	}
	return ix, ok
}

// Close saves the history and the task list. Only the first call does
// anything.
func (s *Session) Close() error {
	if s.state == Terminated {
		return nil
	}
	s.state = Terminated

	if s.history != nil {
		if err := s.history.Save(); err != nil {
			return fmt.Errorf("save history: %w", err)
		}
	}
	if err := s.store.Save(s.tasks); err != nil {
		return fmt.Errorf("save tasks: %w", err)
	}
	s.logger.Debug("session saved", "tasks", len(s.tasks))
	return nil
}

// shutdownReason reports whether err ends the session gracefully.
func shutdownReason(err error) (string, bool) {
	switch {
	case errors.Is(err, lineedit.ErrInterrupted):
		return "interrupt", true
	case errors.Is(err, io.EOF):
		return "end of input", true
	default:
		return "", false
	}
}

func (s *Session) printError(message string) {
	if s.colorOutput {
		s.errorColor.Fprintln(s.out, message)
	} else {
		fmt.Fprintln(s.out, message)
	}
}

func (s *Session) printInfo(message string) {
	if s.colorOutput {
		s.infoColor.Fprintln(s.out, message)
	} else {
		fmt.Fprintln(s.out, message)
	}
}

// Package cmd implements the iforgor command line entry point.
package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"

	"github.com/nibzard/iforgor/internal/config"
	"github.com/nibzard/iforgor/internal/lineedit"
	"github.com/nibzard/iforgor/internal/logging"
	"github.com/nibzard/iforgor/internal/session"
	"github.com/nibzard/iforgor/internal/store"
)

// Version is set via ldflags at build time.
var Version = "dev"

// ErrUsage is returned for unexpected command line arguments.
var ErrUsage = errors.New("usage error")

// streams bundles the process standard streams so tests can replace them.
type streams struct {
	in  io.Reader
	out io.Writer
	err io.Writer
}

// Run executes the iforgor CLI.
func Run(ctx context.Context, args []string) error {
	return run(ctx, args, streams{in: os.Stdin, out: os.Stdout, err: os.Stderr})
}

func run(ctx context.Context, args []string, s streams) error {
	fs := flag.NewFlagSet("iforgor", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	help := fs.Bool("help", false, "Show help")
	fs.BoolVar(help, "h", false, "Show help")
	showVersion := fs.Bool("version", false, "Show version")
	fs.BoolVar(showVersion, "v", false, "Show version")

	if err := fs.Parse(args); err != nil {
		printUsage(fs, s.err)
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}
	if *help {
		printUsage(fs, s.out)
		return nil
	}
	if *showVersion {
		fmt.Fprintf(s.out, "iforgor version %s\n", Version)
		return nil
	}
	if fs.NArg() > 0 {
		printUsage(fs, s.err)
		return fmt.Errorf("%w: unexpected arguments: %v", ErrUsage, fs.Args())
	}

	return replCommand(ctx, s)
}

// replCommand wires configuration, storage and the line editor into a
// session and runs it.
func replCommand(ctx context.Context, s streams) error {
	cfg, err := config.Load("")
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := logging.NewFromConfig(s.err, cfg.LogLevel, cfg.LogFormat)
	logger.Debug("config resolved", "dir", cfg.Dir)

	st, err := store.New(cfg.TodoPath(), store.WithLogger(logger))
	if err != nil {
		return fmt.Errorf("initializing store: %w", err)
	}
	logger.Debug("store ready", "path", st.Path())

	history := lineedit.NewHistory(cfg.HistoryPath(), cfg.HistoryLimit)
	editor := lineedit.New(s.in, s.out, history, lineedit.WithPromptStyle(promptStyle(cfg)))

	sess, err := session.New(st, editor, history,
		session.WithLogger(logger),
		session.WithOutput(s.out),
		session.WithPrompt(cfg.Prompt),
		session.WithColor(cfg.Color && lineedit.IsTTY(s.out)),
	)
	if err != nil {
		return err
	}

	if err := history.Load(); err != nil {
		return fmt.Errorf("loading history: %w", err)
	}
	logger.Debug("history loaded", "path", history.Path(), "entries", history.Len())

	return sess.Run(ctx)
}

// promptStyle returns the terminal prompt style for cfg.
func promptStyle(cfg *config.Config) lipgloss.Style {
	if !cfg.Color || cfg.PromptColor == "" {
		return lipgloss.NewStyle()
	}
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color(cfg.PromptColor)).
		Bold(true)
}

// printUsage prints the usage message.
func printUsage(fs *flag.FlagSet, w io.Writer) {
	fmt.Fprintln(w, "iforgor - a tiny interactive todo list")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  iforgor [options]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands (at the prompt):")
	fmt.Fprintln(w, "  list, ls                 List tasks")
	fmt.Fprintln(w, "  create, add              Create a task")
	fmt.Fprintln(w, "  done [id]                Toggle a task's completion")
	fmt.Fprintln(w, "  show, details [id]       Show a task")
	fmt.Fprintln(w, "  delete, remove [id]      Delete a task")
	fmt.Fprintln(w, "  clear_history            Forget the command history")
	fmt.Fprintln(w, "  exit                     Save and quit (ctrl+c and ctrl+d also save)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Options:")
	fs.SetOutput(w)
	fs.PrintDefaults()
	fs.SetOutput(io.Discard)
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Files live in %s\n", config.DefaultConfigDir())
	fmt.Fprintln(w)
	fmt.Fprint(w, config.ExampleConfig())
}

// Package lineedit reads lines from the user with a prompt and keeps a
// persisted history of what was entered.
//
// Two editors are provided. Terminal runs a small bubbletea program per line
// with history navigation on the arrow keys. Plain reads from any io.Reader
// and is used when stdin is not a terminal. Both report ctrl+c / SIGINT as
// ErrInterrupted and end of input as io.EOF.
package lineedit

import (
	"context"
	"errors"
	"io"
	"os"

	"github.com/mattn/go-isatty"
)

// ErrInterrupted is returned when the user interrupts a read.
var ErrInterrupted = errors.New("interrupted")

// Editor prompts for and returns one line of input, without the trailing
// newline.
type Editor interface {
	Prompt(ctx context.Context, prompt string) (string, error)
}

// New returns a Terminal editor when both in and out are terminals and a
// Plain editor otherwise. opts only apply to a Terminal.
func New(in io.Reader, out io.Writer, history *History, opts ...TerminalOption) Editor {
	if IsTTY(in) && IsTTY(out) {
		return NewTerminal(in, out, history, opts...)
	}
	return NewPlain(in, out)
}

// IsTTY reports whether v is an *os.File attached to a terminal.
func IsTTY(v interface{}) bool {
	f, ok := v.(*os.File)
	if !ok {
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

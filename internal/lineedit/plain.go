package lineedit

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
)

type lineResult struct {
	line string
	err  error
}

// Plain reads lines from an io.Reader. Reading happens on a background
// goroutine so a pending read can be abandoned when ctx is cancelled.
type Plain struct {
	in    io.Reader
	out   io.Writer
	lines chan lineResult
	once  sync.Once
}

// NewPlain creates a plain editor reading from in and echoing prompts to out.
func NewPlain(in io.Reader, out io.Writer) *Plain {
	return &Plain{
		in:    in,
		out:   out,
		lines: make(chan lineResult),
	}
}

func (p *Plain) start() {
	go func() {
		defer close(p.lines)
		scanner := bufio.NewScanner(p.in)
		for scanner.Scan() {
			p.lines <- lineResult{line: strings.TrimRight(scanner.Text(), "\r")}
		}
		if err := scanner.Err(); err != nil {
			p.lines <- lineResult{err: err}
		}
	}()
}

// Prompt writes prompt and waits for the next line.
func (p *Plain) Prompt(ctx context.Context, prompt string) (string, error) {
	p.once.Do(p.start)

	fmt.Fprint(p.out, prompt)
	// A cancelled context wins over a line that is already waiting.
	if ctx.Err() != nil {
		fmt.Fprintln(p.out)
		return "", ErrInterrupted
	}
	select {
	case <-ctx.Done():
		fmt.Fprintln(p.out)
		return "", ErrInterrupted
	case r, ok := <-p.lines:
		if ctx.Err() != nil {
			fmt.Fprintln(p.out)
			return "", ErrInterrupted
		}
		if !ok {
			fmt.Fprintln(p.out)
			return "", io.EOF
		}
		if r.err != nil {
			return "", fmt.Errorf("read input: %w", r.err)
		}
		return r.line, nil
	}
}

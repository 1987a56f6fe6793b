package todo

import (
	"context"
	"fmt"
	"io"
	"strings"
)

const (
	// DoneMark is shown between brackets for completed tasks.
	DoneMark = "✔"
	// PendingMark is shown between brackets for open tasks.
	PendingMark = " "
)

// Prompts used while creating a task.
const (
	NamePrompt        = "(name) "
	DescriptionPrompt = "(description) "
)

// EmptyNameMessage is printed when the user submits a blank name.
const EmptyNameMessage = "Name cannot be empty!"

// Task represents a single todo item.
type Task struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Done        bool   `json:"done"`
}

// Prompter requests one line of input from the user.
type Prompter interface {
	Prompt(ctx context.Context, prompt string) (string, error)
}

// Create builds a new task interactively. It keeps asking for a name until a
// non-blank one is given, then asks once for an optional description.
// Errors from the prompter (interrupt, end of input) abort creation.
func Create(ctx context.Context, p Prompter, w io.Writer) (Task, error) {
	var name string
	for {
		line, err := p.Prompt(ctx, NamePrompt)
		if err != nil {
			return Task{}, err
		}
		name = strings.TrimSpace(line)
		if name != "" {
			break
		}
		fmt.Fprintln(w, EmptyNameMessage)
	}

	description, err := p.Prompt(ctx, DescriptionPrompt)
	if err != nil {
		return Task{}, err
	}

	return Task{
		Name:        name,
		Description: strings.TrimSpace(description),
		Done:        false,
	}, nil
}

// Toggle flips the completion state.
func (t *Task) Toggle() {
	t.Done = !t.Done
}

// Mark returns the completion glyph for the task.
func (t Task) Mark() string {
	if t.Done {
		return DoneMark
	}
	return PendingMark
}

// String renders the task as "[<mark>] <name>".
func (t Task) String() string {
	return fmt.Sprintf("[%s] %s", t.Mark(), t.Name)
}

// Details renders the full view of the task.
func (t Task) Details() string {
	description := t.Description
	if strings.TrimSpace(description) == "" {
		description = "-"
	}
	state := "no"
	if t.Done {
		state = "yes"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Name: %s\n", t.Name)
	fmt.Fprintf(&b, "Description: %s\n", description)
	fmt.Fprintf(&b, "Done: %s\n", state)
	return b.String()
}

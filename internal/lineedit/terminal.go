package lineedit

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var promptStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("205")).
	Bold(true)

// TerminalOption configures a Terminal editor.
type TerminalOption func(*Terminal)

// WithPromptStyle overrides the style used to render prompts.
func WithPromptStyle(style lipgloss.Style) TerminalOption {
	return func(t *Terminal) {
		t.promptStyle = style
	}
}

// Terminal is an interactive line editor. Each Prompt call runs an inline
// bubbletea program that owns the terminal until enter, ctrl+c or ctrl+d.
type Terminal struct {
	in          io.Reader
	out         io.Writer
	history     *History
	promptStyle lipgloss.Style
}

// NewTerminal creates a terminal editor. history may be nil.
func NewTerminal(in io.Reader, out io.Writer, history *History, opts ...TerminalOption) *Terminal {
	t := &Terminal{
		in:          in,
		out:         out,
		history:     history,
		promptStyle: promptStyle,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Prompt reads one line. Up and down walk through the history.
func (t *Terminal) Prompt(ctx context.Context, prompt string) (string, error) {
	var entries []string
	if t.history != nil {
		entries = t.history.Entries()
	}
	model := newLineModel(prompt, entries, t.promptStyle)

	program := tea.NewProgram(model,
		tea.WithContext(ctx),
		tea.WithInput(t.in),
		tea.WithOutput(t.out),
	)
	finalModel, err := program.Run()
	if err != nil {
		if ctx.Err() != nil || errors.Is(err, tea.ErrProgramKilled) || errors.Is(err, tea.ErrInterrupted) {
			return "", ErrInterrupted
		}
		return "", fmt.Errorf("read input: %w", err)
	}

	m, ok := finalModel.(*lineModel)
	if !ok {
		return "", fmt.Errorf("read input: unexpected model %T", finalModel)
	}
	return m.Result()
}

type lineOutcome int

const (
	outcomePending lineOutcome = iota
	outcomeSubmitted
	outcomeInterrupted
	outcomeEOF
)

// lineModel is a single-line input with history navigation.
type lineModel struct {
	input   textinput.Model
	prompt  string
	style   lipgloss.Style
	history []string
	cursor  int    // position in history; len(history) is the fresh line
	draft   string // fresh line saved while browsing history
	outcome lineOutcome
}

func newLineModel(prompt string, history []string, style lipgloss.Style) *lineModel {
	ti := textinput.New()
	ti.Prompt = prompt
	ti.PromptStyle = style
	ti.CharLimit = 0
	ti.Focus()

	return &lineModel{
		input:   ti,
		prompt:  prompt,
		style:   style,
		history: history,
		cursor:  len(history),
	}
}

// Result returns the submitted line or the reason nothing was submitted.
func (m *lineModel) Result() (string, error) {
	switch m.outcome {
	case outcomeSubmitted:
		return m.input.Value(), nil
	case outcomeInterrupted:
		return "", ErrInterrupted
	default:
		return "", io.EOF
	}
}

func (m *lineModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m *lineModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyEnter:
			m.outcome = outcomeSubmitted
			return m, tea.Quit
		case tea.KeyCtrlC:
			m.outcome = outcomeInterrupted
			return m, tea.Quit
		case tea.KeyCtrlD:
			if m.input.Value() == "" {
				m.outcome = outcomeEOF
				return m, tea.Quit
			}
		case tea.KeyUp:
			m.historyPrev()
			return m, nil
		case tea.KeyDown:
			m.historyNext()
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *lineModel) historyPrev() {
	if m.cursor == 0 {
		return
	}
	if m.cursor == len(m.history) {
		m.draft = m.input.Value()
	}
	m.cursor--
	m.input.SetValue(m.history[m.cursor])
	m.input.CursorEnd()
}

func (m *lineModel) historyNext() {
	if m.cursor >= len(m.history) {
		return
	}
	m.cursor++
	if m.cursor == len(m.history) {
		m.input.SetValue(m.draft)
	} else {
		m.input.SetValue(m.history[m.cursor])
	}
	m.input.CursorEnd()
}

func (m *lineModel) View() string {
	switch m.outcome {
	case outcomePending:
		return m.input.View()
	case outcomeSubmitted:
		// Leave the entered line on screen without the cursor.
		return m.style.Render(m.prompt) + m.input.Value() + "\n"
	default:
		return m.style.Render(m.prompt) + "\n"
	}
}

package session

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/nibzard/iforgor/internal/command"
	"github.com/nibzard/iforgor/internal/lineedit"
	"github.com/nibzard/iforgor/internal/store"
	"github.com/nibzard/iforgor/internal/todo"
)

// scriptedEditor answers prompts from a fixed script. When the script runs
// out it returns end, which defaults to io.EOF.
type scriptedEditor struct {
	lines   []string
	prompts []string
	end     error
}

func (e *scriptedEditor) Prompt(_ context.Context, prompt string) (string, error) {
	e.prompts = append(e.prompts, prompt)
	if len(e.lines) == 0 {
		if e.end != nil {
			return "", e.end
		}
		return "", io.EOF
	}
	line := e.lines[0]
	e.lines = e.lines[1:]
	return line, nil
}

// memStore keeps tasks in memory and counts saves.
type memStore struct {
	tasks   []todo.Task
	saves   int
	saveErr error
	loadErr error
}

func (m *memStore) Load() ([]todo.Task, error) {
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	return append([]todo.Task(nil), m.tasks...), nil
}

func (m *memStore) Save(tasks []todo.Task) error {
	m.saves++
	if m.saveErr != nil {
		return m.saveErr
	}
	m.tasks = append([]todo.Task(nil), tasks...)
	return nil
}

type harness struct {
	session *Session
	store   *memStore
	editor  *scriptedEditor
	history *lineedit.History
	out     *bytes.Buffer
}

func newHarness(t *testing.T, tasks []todo.Task, lines ...string) *harness {
	t.Helper()
	h := &harness{
		store:   &memStore{tasks: tasks},
		editor:  &scriptedEditor{lines: lines},
		history: lineedit.NewHistory(filepath.Join(t.TempDir(), "history"), 0),
		out:     &bytes.Buffer{},
	}
	s, err := New(h.store, h.editor, h.history, WithOutput(h.out))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	h.session = s
	return h
}

func threeTasks() []todo.Task {
	return []todo.Task{
		{Name: "one"},
		{Name: "two", Done: true},
		{Name: "three", Description: "third"},
	}
}

func TestScenarioCreateListDoneExit(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "iforgor")
	st, err := store.New(filepath.Join(dir, "todos.json"))
	if err != nil {
		t.Fatal(err)
	}
	history := lineedit.NewHistory(filepath.Join(dir, "history"), 0)
	editor := &scriptedEditor{lines: []string{
		"create", "Buy milk", "",
		"list",
		"done 1",
		"list",
		"exit",
	}}
	var out bytes.Buffer

	s, err := New(st, editor, history, WithOutput(&out))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if err := s.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	got := out.String()
	first := strings.Index(got, "1. [ ] Buy milk\n")
	second := strings.Index(got, "1. [✔] Buy milk\n")
	if first < 0 || second < 0 || second < first {
		t.Fatalf("unexpected output %q", got)
	}
	if s.State() != Terminated {
		t.Errorf("State: got %v, want terminated", s.State())
	}

	data, err := os.ReadFile(filepath.Join(dir, "todos.json"))
	if err != nil {
		t.Fatalf("todo file missing: %v", err)
	}
	var saved []map[string]interface{}
	if err := json.Unmarshal(data, &saved); err != nil {
		t.Fatalf("todo file is not a JSON array: %v", err)
	}
	if len(saved) != 1 || saved[0]["name"] != "Buy milk" || saved[0]["done"] != true {
		t.Errorf("saved document: got %v", saved)
	}

	wantHistory := []string{"create", "list", "done 1", "list"}
	if got := history.Entries(); !reflect.DeepEqual(got, wantHistory) {
		t.Errorf("history: got %q, want %q", got, wantHistory)
	}
	if _, err := os.Stat(filepath.Join(dir, "history")); err != nil {
		t.Errorf("history file not saved: %v", err)
	}

	wantPrompts := []string{DefaultPrompt, todo.NamePrompt, todo.DescriptionPrompt, DefaultPrompt, DefaultPrompt, DefaultPrompt, DefaultPrompt}
	if !reflect.DeepEqual(editor.prompts, wantPrompts) {
		t.Errorf("prompts: got %q, want %q", editor.prompts, wantPrompts)
	}
}

func TestDoneTogglesOnlyTarget(t *testing.T) {
	for id := 1; id <= 3; id++ {
		h := newHarness(t, threeTasks())
		before := h.session.Tasks()

		if _, err := h.session.Execute(context.Background(), command.Command{Kind: command.Done, ID: id}); err != nil {
			t.Fatal(err)
		}
		after := h.session.Tasks()
		for i := range before {
			flipped := before[i].Done != after[i].Done
			if flipped != (i == id-1) {
				t.Errorf("done %d: task %d flipped=%v", id, i+1, flipped)
			}
		}

		if _, err := h.session.Execute(context.Background(), command.Command{Kind: command.Done, ID: id}); err != nil {
			t.Fatal(err)
		}
		if !reflect.DeepEqual(h.session.Tasks(), before) {
			t.Errorf("done %d twice should restore the list", id)
		}
	}
}

func TestInvalidReferencesLeaveListUnchanged(t *testing.T) {
	kinds := []command.Kind{command.Done, command.Delete, command.Details}
	refs := []struct {
		name    string
		cmd     func(command.Kind) command.Command
		wantBad bool
	}{
		{"zero", func(k command.Kind) command.Command { return command.Command{Kind: k, ID: 0} }, false},
		{"past end", func(k command.Kind) command.Command { return command.Command{Kind: k, ID: 4} }, false},
		{"far past end", func(k command.Kind) command.Command { return command.Command{Kind: k, ID: 100} }, false},
		{"unparsed", func(k command.Kind) command.Command {
			return command.Command{Kind: k, IDErr: command.ErrInvalidID}
		}, true},
	}

	for _, kind := range kinds {
		for _, ref := range refs {
			t.Run(kind.String()+"/"+ref.name, func(t *testing.T) {
				h := newHarness(t, threeTasks())
				stop, err := h.session.Execute(context.Background(), ref.cmd(kind))
				if err != nil || stop {
					t.Fatalf("Execute: stop=%v err=%v", stop, err)
				}
				if !reflect.DeepEqual(h.session.Tasks(), threeTasks()) {
					t.Errorf("list changed: %v", h.session.Tasks())
				}
				want := MsgNotFound + "\n"
				if ref.wantBad {
					want = MsgBadID + "\n" + want
				}
				if h.out.String() != want {
					t.Errorf("output: got %q, want %q", h.out.String(), want)
				}
			})
		}
	}
}

func TestSignedAndHugeIDs(t *testing.T) {
	h := newHarness(t, threeTasks(), "done +1", "delete 9999999999999999999", "exit")
	if err := h.session.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	want := threeTasks()
	want[0].Done = true
	if !reflect.DeepEqual(h.session.Tasks(), want) {
		t.Errorf("tasks: got %v, want %v", h.session.Tasks(), want)
	}
	if got := h.out.String(); got != MsgNotFound+"\n" {
		t.Errorf("output: got %q, want only %q", got, MsgNotFound)
	}
}

func TestDeleteShiftsLaterTasks(t *testing.T) {
	h := newHarness(t, threeTasks())
	if _, err := h.session.Execute(context.Background(), command.Command{Kind: command.Delete, ID: 2}); err != nil {
		t.Fatal(err)
	}

	got := h.session.Tasks()
	want := []todo.Task{{Name: "one"}, {Name: "three", Description: "third"}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("after delete 2: got %v, want %v", got, want)
	}

	// Former task 3 is now task 2
	h.out.Reset()
	if _, err := h.session.Execute(context.Background(), command.Command{Kind: command.Details, ID: 2}); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(h.out.String(), "Name: three") {
		t.Errorf("details 2 after delete: got %q", h.out.String())
	}
}

func TestListNumbersTasks(t *testing.T) {
	h := newHarness(t, threeTasks())
	if _, err := h.session.Execute(context.Background(), command.Command{Kind: command.List}); err != nil {
		t.Fatal(err)
	}
	want := "1. [ ] one\n2. [✔] two\n3. [ ] three\n"
	if h.out.String() != want {
		t.Errorf("list output: got %q, want %q", h.out.String(), want)
	}
}

func TestListEmpty(t *testing.T) {
	h := newHarness(t, nil)
	if _, err := h.session.Execute(context.Background(), command.Command{Kind: command.List}); err != nil {
		t.Fatal(err)
	}
	if h.out.Len() != 0 {
		t.Errorf("expected no output, got %q", h.out.String())
	}
}

func TestUnknownCommand(t *testing.T) {
	h := newHarness(t, threeTasks(), "frobnicate", "exit")
	if err := h.session.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if !strings.Contains(h.out.String(), MsgUnknown+"\n") {
		t.Errorf("expected %q in output, got %q", MsgUnknown, h.out.String())
	}
	if !reflect.DeepEqual(h.store.tasks, threeTasks()) {
		t.Errorf("list changed: %v", h.store.tasks)
	}
}

func TestPromptedID(t *testing.T) {
	h := newHarness(t, threeTasks(), "done", "3", "exit")
	if err := h.session.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if !h.store.tasks[2].Done {
		t.Error("task 3 should be done")
	}
	if h.editor.prompts[1] != command.IDPrompt {
		t.Errorf("second prompt: got %q, want %q", h.editor.prompts[1], command.IDPrompt)
	}
}

func TestShutdownPaths(t *testing.T) {
	tests := []struct {
		name  string
		lines []string
		end   error
	}{
		{"exit", []string{"done 1", "exit"}, nil},
		{"interrupt at main prompt", []string{"done 1"}, lineedit.ErrInterrupted},
		{"end of input", []string{"done 1"}, io.EOF},
		{"interrupt while asking for id", []string{"done 1", "delete"}, lineedit.ErrInterrupted},
		{"interrupt during create", []string{"done 1", "add", "half"}, lineedit.ErrInterrupted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, threeTasks(), tt.lines...)
			h.editor.end = tt.end

			if err := h.session.Run(context.Background()); err != nil {
				t.Fatalf("Run failed: %v", err)
			}
			if h.store.saves != 1 {
				t.Errorf("saves: got %d, want exactly 1", h.store.saves)
			}
			if len(h.store.tasks) != 3 || !h.store.tasks[0].Done {
				t.Errorf("saved tasks: got %v", h.store.tasks)
			}
			if _, err := os.Stat(h.history.Path()); err != nil {
				t.Errorf("history not saved: %v", err)
			}
		})
	}
}

func TestCloseRunsOnce(t *testing.T) {
	h := newHarness(t, threeTasks())
	if err := h.session.Close(); err != nil {
		t.Fatal(err)
	}
	if err := h.session.Close(); err != nil {
		t.Fatal(err)
	}
	if h.store.saves != 1 {
		t.Errorf("saves: got %d, want 1", h.store.saves)
	}
	if err := h.session.Run(context.Background()); err == nil {
		t.Error("Run after Close should fail")
	}
}

func TestSaveFailureIsReturned(t *testing.T) {
	h := newHarness(t, threeTasks(), "exit")
	h.store.saveErr = errors.New("read-only file system")

	err := h.session.Run(context.Background())
	if err == nil || !strings.Contains(err.Error(), "save tasks") {
		t.Fatalf("expected save error, got %v", err)
	}
}

func TestLoadFailureIsReturned(t *testing.T) {
	st := &memStore{loadErr: errors.New("parse todo file: unexpected end of JSON input")}
	_, err := New(st, &scriptedEditor{}, nil)
	if err == nil || !strings.Contains(err.Error(), "load tasks") {
		t.Fatalf("expected load error, got %v", err)
	}
}

func TestUnexpectedReadErrorIsFatal(t *testing.T) {
	h := newHarness(t, threeTasks())
	h.editor.end = errors.New("terminal went away")

	err := h.session.Run(context.Background())
	if err == nil || !strings.Contains(err.Error(), "terminal went away") {
		t.Fatalf("expected read error, got %v", err)
	}
	if h.store.saves != 0 {
		t.Errorf("saves: got %d, want 0", h.store.saves)
	}
}

func TestWithPrompt(t *testing.T) {
	editor := &scriptedEditor{lines: []string{"exit"}}
	s, err := New(&memStore{}, editor, nil, WithPrompt("> "))
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	if editor.prompts[0] != "> " {
		t.Errorf("prompt: got %q, want %q", editor.prompts[0], "> ")
	}
}

func TestClearHistoryCommand(t *testing.T) {
	h := newHarness(t, nil, "list", "clear_history", "exit")
	if err := h.session.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if h.history.Len() != 0 {
		t.Errorf("history: got %q, want empty", h.history.Entries())
	}
}

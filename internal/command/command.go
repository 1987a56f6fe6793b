// Package command turns a line typed at the REPL prompt into a Command.
//
// Lines are matched against an ordered rule table; the first matching rule
// wins. Exact keywords are checked before prefixes, and among prefixes
// show/details come before delete/remove, which come before done.
//
//	exit                  Exit
//	list | ls             List
//	clear_history         Nothing (history cleared)
//	create | add          Create
//	show* | details*      Details(id)
//	delete* | remove*     Delete(id)
//	done*                 Done(id)
//	anything else         Unknown
//
// Id-bearing commands take the id as the last space-separated token
// ("done 3"). When the line is a single token ("done") the id is requested
// with a separate "(id) " prompt.
package command

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/nibzard/iforgor/internal/utils"
)

// IDPrompt is shown when an id-bearing command was typed without an id.
const IDPrompt = "(id) "

// ErrInvalidID is set on a Command whose id could not be parsed as a
// non-negative integer.
var ErrInvalidID = errors.New("unable to parse the id")

// Kind identifies a command variant.
type Kind int

const (
	Unknown Kind = iota
	Nothing
	List
	Exit
	Create
	Done
	Delete
	Details
)

var kindNames = map[Kind]string{
	Unknown: "unknown",
	Nothing: "nothing",
	List:    "list",
	Exit:    "exit",
	Create:  "create",
	Done:    "done",
	Delete:  "delete",
	Details: "details",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// TakesID reports whether the kind refers to a task by position.
func (k Kind) TakesID() bool {
	return k == Done || k == Delete || k == Details
}

// Command is a parsed REPL line.
type Command struct {
	Kind Kind
	// ID is the 1-based task position for Done, Delete and Details.
	// 0 never refers to a task.
	ID int
	// IDErr is ErrInvalidID when the id token was not a number.
	IDErr error
}

// Ref returns the 0-based position of the referenced task and whether it
// lies within a list of length n.
func (c Command) Ref(n int) (int, bool) {
	if c.IDErr != nil || c.ID < 1 || c.ID > n {
		return 0, false
	}
	return c.ID - 1, true
}

func (c Command) String() string {
	if c.Kind.TakesID() {
		return fmt.Sprintf("%s(%d)", c.Kind, c.ID)
	}
	return c.Kind.String()
}

// Prompter requests one more line of input.
type Prompter interface {
	Prompt(ctx context.Context, prompt string) (string, error)
}

// History records entered lines.
type History interface {
	Add(line string)
	Clear() error
}

type matchFunc func(line string) bool

func exact(words ...string) matchFunc {
	return func(line string) bool {
		for _, w := range words {
			if line == w {
				return true
			}
		}
		return false
	}
}

func prefix(words ...string) matchFunc {
	return func(line string) bool {
		for _, w := range words {
			if strings.HasPrefix(line, w) {
				return true
			}
		}
		return false
	}
}

// rule maps a line pattern to a command kind.
type rule struct {
	match  matchFunc
	kind   Kind
	record bool // add the line to history
	clear  bool // wipe the history
}

// rules is evaluated top to bottom.
var rules = []rule{
	{match: exact("exit"), kind: Exit},
	{match: exact("list", "ls"), kind: List, record: true},
	{match: exact("clear_history"), kind: Nothing, clear: true},
	{match: exact("create", "add"), kind: Create, record: true},
	{match: prefix("show", "details"), kind: Details, record: true},
	{match: prefix("delete", "remove"), kind: Delete, record: true},
	{match: prefix("done"), kind: Done, record: true},
}

// Parser classifies REPL lines.
type Parser struct {
	prompter Prompter
	history  History
}

// NewParser creates a parser. prompter is used to ask for a missing id;
// history receives every recognised line except exit and clear_history.
func NewParser(prompter Prompter, history History) *Parser {
	return &Parser{prompter: prompter, history: history}
}

// Parse classifies line. The returned error is only ever the prompter's
// (interrupt or end of input while asking for an id) or a failure to clear
// the history; bad ids are reported through Command.IDErr.
func (p *Parser) Parse(ctx context.Context, line string) (Command, error) {
	trimmed := strings.TrimSpace(line)

	for _, r := range rules {
		if !r.match(trimmed) {
			continue
		}
		if r.record {
			p.record(line)
		}
		if r.clear && p.history != nil {
			if err := p.history.Clear(); err != nil {
				return Command{Kind: Nothing}, fmt.Errorf("clear history: %w", err)
			}
		}
		if !r.kind.TakesID() {
			return Command{Kind: r.kind}, nil
		}
		return p.withID(ctx, r.kind, trimmed)
	}

	p.record(line)
	return Command{Kind: Unknown}, nil
}

func (p *Parser) withID(ctx context.Context, kind Kind, trimmed string) (Command, error) {
	token, count := utils.LastToken(trimmed, " ")
	if count <= 1 {
		answer, err := p.prompter.Prompt(ctx, IDPrompt)
		if err != nil {
			return Command{Kind: kind}, err
		}
		token = answer
	}

	id, err := ParseID(token)
	if err != nil {
		return Command{Kind: kind, ID: 0, IDErr: err}, nil
	}
	return Command{Kind: kind, ID: id}, nil
}

func (p *Parser) record(line string) {
	if p.history != nil {
		p.history.Add(line)
	}
}

// ParseID parses a task id: a non-negative base-10 integer with an optional
// leading '+', surrounding whitespace allowed. Values too large for an int
// are clamped so they resolve as out of range rather than unparsable.
func ParseID(s string) (int, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "+")
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, ErrInvalidID
	}
	if n > math.MaxInt {
		return math.MaxInt, nil
	}
	return int(n), nil
}

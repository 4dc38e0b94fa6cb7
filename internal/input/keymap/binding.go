package keymap

import (
	"strings"

	"github.com/dshills/rstedit/internal/input"
)

// Context holds the flags binding conditions are evaluated against.
// Missing flags are false.
type Context map[string]bool

// Context flags set by the terminal editor.
const (
	FlagReadOnly      = "editorReadonly"
	FlagTableSelected = "tableSelected"
	FlagHasSelection  = "editorHasSelection"
)

// Binding represents a single key-to-action mapping.
type Binding struct {
	// Keys is the key that triggers this binding.
	// Formats: "ctrl+b", "Ctrl+B", "<C-b>", "shift+tab"
	Keys string

	// Action is the command to execute.
	// Examples: "rst.bold", "rst.key.enter", "cursor.moveUp"
	Action string

	// Args are fixed arguments for the action.
	Args map[string]any

	// When is a condition over Context flags: names joined with "&&",
	// each optionally negated with "!". Empty means always.
	When string

	// Description documents the binding.
	Description string
}

// NewBinding creates a new binding with the given keys and action.
func NewBinding(keys, action string) Binding {
	return Binding{Keys: keys, Action: action}
}

// WithArgs sets arguments for this binding.
func (b Binding) WithArgs(args map[string]any) Binding {
	b.Args = args
	return b
}

// WithWhen sets the condition for this binding.
func (b Binding) WithWhen(when string) Binding {
	b.When = when
	return b
}

// WithDescription sets the description for this binding.
func (b Binding) WithDescription(desc string) Binding {
	b.Description = desc
	return b
}

// Matches evaluates the binding condition in ctx.
func (b Binding) Matches(ctx Context) bool {
	if strings.TrimSpace(b.When) == "" {
		return true
	}
	for _, term := range strings.Split(b.When, "&&") {
		term = strings.TrimSpace(term)
		want := true
		for strings.HasPrefix(term, "!") {
			want = !want
			term = strings.TrimSpace(term[1:])
		}
		if ctx[term] != want {
			return false
		}
	}
	return true
}

// ToAction builds the dispatcher action for this binding. A "text"
// argument becomes the action text.
func (b Binding) ToAction() input.Action {
	a := input.NewAction(b.Action).FromSource(input.SourceKeyboard)
	for k, v := range b.Args {
		if k == "text" {
			if s, ok := v.(string); ok {
				a = a.WithText(s)
				continue
			}
		}
		a = a.WithArg(k, v)
	}
	return a
}

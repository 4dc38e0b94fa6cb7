package buffer

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Edit represents a text edit operation.
// It specifies a range to replace and the new text.
type Edit struct {
	Range   Range  // The range to replace
	NewText string // The replacement text
}

// NewReplace creates an Edit that replaces a range with text.
func NewReplace(r Range, newText string) Edit {
	return Edit{Range: r, NewText: newText}
}

// NewInsert creates an Edit that inserts text at a position.
func NewInsert(pos Position, text string) Edit {
	return Edit{
		Range:   Range{Start: pos, End: pos},
		NewText: text,
	}
}

// NewDelete creates an Edit that deletes a range of text.
func NewDelete(r Range) Edit {
	return Edit{Range: r}
}

// NewLineReplace creates an Edit that replaces the full text of one line.
func NewLineReplace(line int, oldText, newText string) Edit {
	return Edit{
		Range:   NewRange(line, 0, line, utf8.RuneCountInString(oldText)),
		NewText: newText,
	}
}

// String returns a human-readable representation of the edit.
func (e Edit) String() string {
	if e.Range.IsEmpty() {
		return fmt.Sprintf("Insert(%s, %q)", e.Range.Start, e.NewText)
	}
	if e.NewText == "" {
		return fmt.Sprintf("Delete%s", e.Range.String())
	}
	return fmt.Sprintf("Replace%s with %q", e.Range.String(), e.NewText)
}

// IsNoOp returns true if this edit does nothing.
func (e Edit) IsNoOp() bool {
	return e.Range.IsEmpty() && e.NewText == ""
}

// Change records an applied edit.
// Range is in the coordinates of the document before the batch was applied;
// NewRange is in the coordinates after the whole batch was applied.
type Change struct {
	Range    Range
	NewRange Range
	OldText  string
	NewText  string
}

// Invert returns the edit that undoes this change when applied to the
// document produced by the batch.
func (c Change) Invert() Edit {
	return Edit{Range: c.NewRange, NewText: c.OldText}
}

// ToEdit converts a Change to an Edit for reapplication.
func (c Change) ToEdit() Edit {
	return Edit{Range: c.Range, NewText: c.NewText}
}

// EndAfter returns the position right after text inserted at start.
func EndAfter(start Position, text string) Position {
	return endAfterInsert(start, text)
}

func endAfterInsert(start Position, text string) Position {
	text = normalizeNewlines(text)
	nl := strings.Count(text, "\n")
	if nl == 0 {
		return Position{Line: start.Line, Character: start.Character + utf8.RuneCountInString(text)}
	}
	last := text[strings.LastIndexByte(text, '\n')+1:]
	return Position{Line: start.Line + nl, Character: utf8.RuneCountInString(last)}
}

func normalizeNewlines(s string) string {
	if !strings.ContainsRune(s, '\r') {
		return s
	}
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}

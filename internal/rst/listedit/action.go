package listedit

import (
	"github.com/dshills/rstedit/internal/engine/buffer"
	"github.com/dshills/rstedit/internal/engine/cursor"
)

// RenumberMode selects where renumbering starts once an action's edits
// have been applied.
type RenumberMode uint8

const (
	// RenumberNone skips renumbering.
	RenumberNone RenumberMode = iota
	// RenumberAtSelection starts at the first enumerated item inside the
	// selection, or at the selection's active line.
	RenumberAtSelection
	// RenumberNextMarker starts at the next enumerated item at or below
	// Action.From, or at the selection's start line when From is
	// FromSelection.
	RenumberNextMarker
)

// FromSelection makes RenumberNextMarker search from the selection start.
const FromSelection = -1

// Action is the result of a list command.
type Action struct {
	// Handled is false when the caller should perform the key's default
	// behavior. Renumbering still applies after the default edit.
	Handled bool

	Edits []buffer.Edit

	// Selection is the cursor after the edits. Nil means the caller maps
	// the current selection through the edits.
	Selection *cursor.Selection

	Renumber RenumberMode
	From     int
}

func unhandled() Action {
	return Action{}
}

func handled(edits []buffer.Edit, sel *cursor.Selection, mode RenumberMode) Action {
	return Action{Handled: true, Edits: edits, Selection: sel, Renumber: mode, From: FromSelection}
}

func caret(line, char int) *cursor.Selection {
	s := cursor.At(line, char)
	return &s
}

// RenumberStart returns the line renumbering starts at for the document
// after the action's edits, with sel the selection after those edits.
// A negative result means no renumbering.
func (a Action) RenumberStart(doc buffer.Reader, sel cursor.Selection) int {
	switch a.Renumber {
	case RenumberAtSelection:
		return StartLine(doc, sel)
	case RenumberNextMarker:
		from := a.From
		if from == FromSelection {
			from = sel.Start().Line
		}
		line := NextMarkerLine(doc, from)
		if line == NotFound {
			return StartLine(doc, sel)
		}
		return line
	}
	return -1
}

// FollowUp returns the renumbering edits for the document after the
// action's edits. They belong to the same undo step.
func FollowUp(doc buffer.Reader, sel cursor.Selection, a Action, s Settings) []buffer.Edit {
	return Renumber(doc, a.RenumberStart(doc, sel), s)
}

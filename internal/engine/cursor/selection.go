package cursor

import (
	"fmt"

	"github.com/dshills/rstedit/internal/engine/buffer"
)

// Position is an alias for buffer.Position for convenience.
type Position = buffer.Position

// Range is an alias for buffer.Range for convenience.
type Range = buffer.Range

// Clamper maps a position to the nearest valid one in a document.
type Clamper interface {
	ClampPosition(p Position) Position
}

// Selection represents a range of selected text.
// Anchor is where the selection started; Active is the caret.
type Selection struct {
	Anchor Position
	Active Position
}

// NewSelection creates a selection from anchor to active.
func NewSelection(anchor, active Position) Selection {
	return Selection{Anchor: anchor, Active: active}
}

// NewCursorSelection creates a caret with no extent.
func NewCursorSelection(p Position) Selection {
	return Selection{Anchor: p, Active: p}
}

// At creates a caret at line and character.
func At(line, char int) Selection {
	return NewCursorSelection(buffer.Pos(line, char))
}

// NewRangeSelection creates a forward selection covering r.
func NewRangeSelection(r Range) Selection {
	r = r.Normalize()
	return Selection{Anchor: r.Start, Active: r.End}
}

// IsEmpty returns true if the selection is a caret.
func (s Selection) IsEmpty() bool {
	return s.Anchor.Equal(s.Active)
}

// IsSingleLine returns true if anchor and active are on the same line.
func (s Selection) IsSingleLine() bool {
	return s.Anchor.Line == s.Active.Line
}

// Range returns the selection as a range (always Start <= End).
func (s Selection) Range() Range {
	return Range{Start: s.Start(), End: s.End()}
}

// Start returns the lower bound of the selection.
func (s Selection) Start() Position {
	if s.Anchor.Compare(s.Active) <= 0 {
		return s.Anchor
	}
	return s.Active
}

// End returns the upper bound of the selection.
func (s Selection) End() Position {
	if s.Anchor.Compare(s.Active) >= 0 {
		return s.Anchor
	}
	return s.Active
}

// IsForward returns true if the caret is at or after the anchor.
func (s Selection) IsForward() bool {
	return s.Anchor.Compare(s.Active) <= 0
}

// Extend returns a selection with the same anchor and a new caret.
func (s Selection) Extend(p Position) Selection {
	return Selection{Anchor: s.Anchor, Active: p}
}

// MoveTo returns a caret at p.
func (s Selection) MoveTo(p Position) Selection {
	return NewCursorSelection(p)
}

// Collapse collapses the selection to a caret at the active position.
func (s Selection) Collapse() Selection {
	return NewCursorSelection(s.Active)
}

// Contains returns true if p lies within the selection, ends included.
func (s Selection) Contains(p Position) bool {
	return p.Compare(s.Start()) >= 0 && p.Compare(s.End()) <= 0
}

// Overlaps returns true if the selections share any position.
func (s Selection) Overlaps(other Selection) bool {
	return s.Start().Compare(other.End()) <= 0 && other.Start().Compare(s.End()) <= 0
}

// Merge returns the smallest selection covering both.
// The direction of s is preserved.
func (s Selection) Merge(other Selection) Selection {
	start, end := s.Start(), s.End()
	if other.Start().Before(start) {
		start = other.Start()
	}
	if other.End().After(end) {
		end = other.End()
	}
	if s.IsForward() {
		return Selection{Anchor: start, Active: end}
	}
	return Selection{Anchor: end, Active: start}
}

// Clamp returns the selection with both ends clamped to the document.
func (s Selection) Clamp(c Clamper) Selection {
	return Selection{Anchor: c.ClampPosition(s.Anchor), Active: c.ClampPosition(s.Active)}
}

// Equals returns true if both selections have the same anchor and caret.
func (s Selection) Equals(other Selection) bool {
	return s.Anchor.Equal(other.Anchor) && s.Active.Equal(other.Active)
}

// String returns a human-readable representation of the selection.
func (s Selection) String() string {
	if s.IsEmpty() {
		return fmt.Sprintf("Cursor%s", s.Active)
	}
	return fmt.Sprintf("Selection%s->%s", s.Anchor, s.Active)
}

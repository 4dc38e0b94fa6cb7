package buffer

import (
	"fmt"
	"sync/atomic"
)

// Position is a zero-based line and character position.
// Character counts runes from the start of the line.
type Position struct {
	Line      int
	Character int
}

// Pos is shorthand for Position{Line: line, Character: char}.
func Pos(line, char int) Position {
	return Position{Line: line, Character: char}
}

// String returns a human-readable representation of the position.
func (p Position) String() string {
	return fmt.Sprintf("(%d:%d)", p.Line, p.Character)
}

// Compare returns -1 if p < other, 0 if p == other, 1 if p > other.
func (p Position) Compare(other Position) int {
	if p.Line < other.Line {
		return -1
	}
	if p.Line > other.Line {
		return 1
	}
	if p.Character < other.Character {
		return -1
	}
	if p.Character > other.Character {
		return 1
	}
	return 0
}

// Before returns true if p comes before other.
func (p Position) Before(other Position) bool {
	return p.Compare(other) < 0
}

// After returns true if p comes after other.
func (p Position) After(other Position) bool {
	return p.Compare(other) > 0
}

// Equal returns true if both positions are the same.
func (p Position) Equal(other Position) bool {
	return p.Compare(other) == 0
}

// WithCharacter returns p moved to another character on the same line.
func (p Position) WithCharacter(char int) Position {
	return Position{Line: p.Line, Character: char}
}

// RevisionID uniquely identifies a document revision.
// Each modification to the document creates a new revision.
type RevisionID uint64

var revisionCounter uint64

// NewRevisionID generates a new unique revision ID.
func NewRevisionID() RevisionID {
	return RevisionID(atomic.AddUint64(&revisionCounter, 1))
}

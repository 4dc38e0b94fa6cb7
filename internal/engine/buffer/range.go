package buffer

import "fmt"

// Range is a span between two positions.
// Start is inclusive, End is exclusive: [Start, End).
type Range struct {
	Start Position
	End   Position
}

// NewRange creates a range from line/character pairs.
func NewRange(startLine, startChar, endLine, endChar int) Range {
	return Range{
		Start: Position{Line: startLine, Character: startChar},
		End:   Position{Line: endLine, Character: endChar},
	}
}

// LineRange returns the range covering lines [first, last] including the
// text of the last line but not its line break.
func LineRange(first, last, lastLen int) Range {
	return NewRange(first, 0, last, lastLen)
}

// String returns a human-readable representation of the range.
func (r Range) String() string {
	return fmt.Sprintf("[%s:%s)", r.Start.String(), r.End.String())
}

// IsEmpty returns true if start equals end.
func (r Range) IsEmpty() bool {
	return r.Start.Equal(r.End)
}

// IsValid returns true if start <= end.
func (r Range) IsValid() bool {
	return r.Start.Compare(r.End) <= 0
}

// IsSingleLine returns true if the range spans only one line.
func (r Range) IsSingleLine() bool {
	return r.Start.Line == r.End.Line
}

// Contains returns true if the given position is within the range.
func (r Range) Contains(p Position) bool {
	return p.Compare(r.Start) >= 0 && p.Compare(r.End) < 0
}

// Overlaps returns true if this range overlaps with another range.
// Touching ranges do not overlap.
func (r Range) Overlaps(other Range) bool {
	return r.Start.Before(other.End) && other.Start.Before(r.End)
}

// Normalize returns the range with Start <= End.
func (r Range) Normalize() Range {
	if r.IsValid() {
		return r
	}
	return Range{Start: r.End, End: r.Start}
}

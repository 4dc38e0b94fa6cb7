package buffer

import (
	"strings"
	"unicode/utf8"
)

// Snapshot provides a read-only view of a document at a specific point in
// time. It is safe for concurrent access and will not change even if the
// original document is modified.
type Snapshot struct {
	lines      []string
	revisionID RevisionID
	lineEnding LineEnding
}

// Text returns the full snapshot content.
func (s *Snapshot) Text() string {
	return strings.Join(s.lines, s.lineEnding.Sequence())
}

// LineCount returns the number of lines.
func (s *Snapshot) LineCount() int {
	return len(s.lines)
}

// LineText returns the text of a specific line (without line break).
func (s *Snapshot) LineText(line int) string {
	if line < 0 || line >= len(s.lines) {
		return ""
	}
	return s.lines[line]
}

// LineLen returns the length of a line in runes.
func (s *Snapshot) LineLen(line int) int {
	return utf8.RuneCountInString(s.LineText(line))
}

// TextRange returns the text in the given range, lines joined with "\n".
func (s *Snapshot) TextRange(r Range) string {
	return textRange(s.lines, r)
}

// ClampPosition returns the nearest valid position.
func (s *Snapshot) ClampPosition(p Position) Position {
	return clampPosition(s.lines, p)
}

// RevisionID returns the revision ID of this snapshot.
func (s *Snapshot) RevisionID() RevisionID {
	return s.revisionID
}

// LineEnding returns the snapshot's line ending style.
func (s *Snapshot) LineEnding() LineEnding {
	return s.lineEnding
}

package buffer

import (
	"errors"
	"io"
	"sort"
	"strings"
	"sync"
	"unicode/utf8"
)

// Errors returned by document operations.
var (
	ErrPositionOutOfRange = errors.New("position out of range")
	ErrRangeInvalid       = errors.New("invalid range")
	ErrEditsOverlap       = errors.New("edits overlap")
)

// LineEnding specifies the line ending style used when the document is
// serialized.
type LineEnding uint8

const (
	LineEndingLF   LineEnding = iota // Unix: \n
	LineEndingCRLF                   // Windows: \r\n
	LineEndingCR                     // Old Mac: \r
)

// String returns the string representation of the line ending.
func (le LineEnding) String() string {
	switch le {
	case LineEndingCRLF:
		return "\\r\\n"
	case LineEndingCR:
		return "\\r"
	default:
		return "\\n"
	}
}

// Sequence returns the actual line ending characters.
func (le LineEnding) Sequence() string {
	switch le {
	case LineEndingCRLF:
		return "\r\n"
	case LineEndingCR:
		return "\r"
	default:
		return "\n"
	}
}

// Reader provides read access to lines of text.
type Reader interface {
	// LineCount returns the number of lines (at least 1).
	LineCount() int
	// LineText returns the text of a line without its line break.
	// Out of range lines return "".
	LineText(line int) string
}

// Document is a thread-safe, line-based text document.
// Lines are stored without line breaks; storage is copy-on-write so
// snapshots can share it.
type Document struct {
	mu         sync.RWMutex
	lines      []string
	revisionID RevisionID
	lineEnding LineEnding
	tabWidth   int
}

// NewDocument creates a new empty document.
func NewDocument(opts ...Option) *Document {
	d := &Document{
		lines:      []string{""},
		revisionID: NewRevisionID(),
		lineEnding: LineEndingLF,
		tabWidth:   4,
	}

	for _, opt := range opts {
		opt(d)
	}

	return d
}

// NewDocumentFromString creates a document with initial content.
func NewDocumentFromString(s string, opts ...Option) *Document {
	d := NewDocument(opts...)
	d.lines = splitLines(s)
	return d
}

// NewDocumentFromReader creates a document from an io.Reader.
// The line ending style is detected from the content.
func NewDocumentFromReader(r io.Reader, opts ...Option) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	text := string(data)
	opts = append([]Option{WithDetectedLineEnding(text)}, opts...)
	return NewDocumentFromString(text, opts...), nil
}

// splitLines splits text on any line ending style.
func splitLines(s string) []string {
	return strings.Split(normalizeNewlines(s), "\n")
}

// Read Operations

// Text returns the full document content joined with the document's
// line ending.
func (d *Document) Text() string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return strings.Join(d.lines, d.lineEnding.Sequence())
}

// LineCount returns the number of lines.
func (d *Document) LineCount() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.lines)
}

// LineText returns the text of a specific line (without line break).
func (d *Document) LineText(line int) string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if line < 0 || line >= len(d.lines) {
		return ""
	}
	return d.lines[line]
}

// LineLen returns the length of a line in runes.
func (d *Document) LineLen(line int) int {
	return utf8.RuneCountInString(d.LineText(line))
}

// Lines returns a copy of all lines.
func (d *Document) Lines() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]string, len(d.lines))
	copy(out, d.lines)
	return out
}

// TextRange returns the text in the given range, lines joined with "\n".
// The range is clamped to the document.
func (d *Document) TextRange(r Range) string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return textRange(d.lines, r)
}

// ClampPosition returns the nearest valid position.
func (d *Document) ClampPosition(p Position) Position {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return clampPosition(d.lines, p)
}

// EndPosition returns the position after the last character.
func (d *Document) EndPosition() Position {
	d.mu.RLock()
	defer d.mu.RUnlock()
	last := len(d.lines) - 1
	return Position{Line: last, Character: utf8.RuneCountInString(d.lines[last])}
}

// Write Operations

// SetText replaces the whole content and returns the change.
func (d *Document) SetText(s string) Change {
	d.mu.Lock()
	defer d.mu.Unlock()

	last := len(d.lines) - 1
	old := strings.Join(d.lines, "\n")
	oldRange := NewRange(0, 0, last, utf8.RuneCountInString(d.lines[last]))
	d.lines = splitLines(s)
	d.revisionID = NewRevisionID()

	return Change{
		Range:    oldRange,
		NewRange: Range{Start: Position{}, End: endAfterInsert(Position{}, s)},
		OldText:  old,
		NewText:  normalizeNewlines(s),
	}
}

// ApplyEdit applies a single edit.
func (d *Document) ApplyEdit(edit Edit) (Change, error) {
	changes, err := d.ApplyEdits([]Edit{edit})
	if err != nil {
		return Change{}, err
	}
	return changes[0], nil
}

// ApplyEdits applies multiple edits atomically.
// Every range is interpreted against the document as it was before the
// batch. Edits may be given in any order but must not overlap; two inserts
// at the same position are applied in the order given. If any edit is
// invalid, the document is left unchanged.
//
// The returned changes are in the order the edits were given.
func (d *Document) ApplyEdits(edits []Edit) ([]Change, error) {
	if len(edits) == 0 {
		return nil, nil
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	// Validate all ranges before touching anything
	for _, e := range edits {
		if !e.Range.IsValid() {
			return nil, ErrRangeInvalid
		}
		if !validPosition(d.lines, e.Range.Start) || !validPosition(d.lines, e.Range.End) {
			return nil, ErrPositionOutOfRange
		}
	}

	order := make([]int, len(edits))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return edits[order[a]].Range.Start.Before(edits[order[b]].Range.Start)
	})

	for i := 1; i < len(order); i++ {
		prev := edits[order[i-1]].Range
		cur := edits[order[i]].Range
		if cur.Start.Before(prev.End) {
			return nil, ErrEditsOverlap
		}
	}

	changes := make([]Change, len(edits))

	// Compute post-batch ranges in ascending order
	lineDelta := 0
	prevEndLine := -1
	charDelta := 0
	for _, idx := range order {
		e := edits[idx]
		start := Position{Line: e.Range.Start.Line + lineDelta, Character: e.Range.Start.Character}
		if e.Range.Start.Line == prevEndLine {
			start.Character += charDelta
		}
		newEnd := endAfterInsert(start, e.NewText)

		changes[idx] = Change{
			Range:    e.Range,
			NewRange: Range{Start: start, End: newEnd},
			OldText:  textRange(d.lines, e.Range),
			NewText:  normalizeNewlines(e.NewText),
		}

		lineDelta += (newEnd.Line - start.Line) - (e.Range.End.Line - e.Range.Start.Line)
		prevEndLine = e.Range.End.Line
		charDelta = newEnd.Character - e.Range.End.Character
	}

	// Apply bottom-up on a fresh slice so snapshots stay valid
	lines := make([]string, len(d.lines))
	copy(lines, d.lines)
	for i := len(order) - 1; i >= 0; i-- {
		lines = splice(lines, edits[order[i]])
	}

	d.lines = lines
	d.revisionID = NewRevisionID()
	return changes, nil
}

// splice applies one edit to lines and returns the new slice.
func splice(lines []string, e Edit) []string {
	startLine := []rune(lines[e.Range.Start.Line])
	endLine := []rune(lines[e.Range.End.Line])
	prefix := string(startLine[:e.Range.Start.Character])
	suffix := string(endLine[e.Range.End.Character:])

	parts := strings.Split(normalizeNewlines(e.NewText), "\n")
	parts[0] = prefix + parts[0]
	parts[len(parts)-1] += suffix

	out := make([]string, 0, len(lines)-(e.Range.End.Line-e.Range.Start.Line)+len(parts)-1)
	out = append(out, lines[:e.Range.Start.Line]...)
	out = append(out, parts...)
	out = append(out, lines[e.Range.End.Line+1:]...)
	return out
}

// Document State

// RevisionID returns the current revision ID.
func (d *Document) RevisionID() RevisionID {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.revisionID
}

// IsEmpty returns true if the document holds no text.
func (d *Document) IsEmpty() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.lines) == 1 && d.lines[0] == ""
}

// LineEnding returns the document's line ending style.
func (d *Document) LineEnding() LineEnding {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.lineEnding
}

// TabWidth returns the document's tab width.
func (d *Document) TabWidth() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.tabWidth
}

// SetLineEnding sets the line ending used by Text.
func (d *Document) SetLineEnding(le LineEnding) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.lineEnding = le
}

// Snapshot returns a read-only snapshot of the current state.
// Safe for concurrent access from other goroutines.
func (d *Document) Snapshot() *Snapshot {
	d.mu.RLock()
	defer d.mu.RUnlock()

	return &Snapshot{
		lines:      d.lines, // never mutated in place
		revisionID: d.revisionID,
		lineEnding: d.lineEnding,
	}
}

// Helpers shared with Snapshot

func validPosition(lines []string, p Position) bool {
	if p.Line < 0 || p.Line >= len(lines) || p.Character < 0 {
		return false
	}
	return p.Character <= utf8.RuneCountInString(lines[p.Line])
}

func clampPosition(lines []string, p Position) Position {
	if p.Line < 0 {
		return Position{}
	}
	if p.Line >= len(lines) {
		last := len(lines) - 1
		return Position{Line: last, Character: utf8.RuneCountInString(lines[last])}
	}
	n := utf8.RuneCountInString(lines[p.Line])
	if p.Character < 0 {
		p.Character = 0
	}
	if p.Character > n {
		p.Character = n
	}
	return p
}

func textRange(lines []string, r Range) string {
	r = r.Normalize()
	start := clampPosition(lines, r.Start)
	end := clampPosition(lines, r.End)

	if start.Line == end.Line {
		rs := []rune(lines[start.Line])
		return string(rs[start.Character:end.Character])
	}

	var sb strings.Builder
	sb.WriteString(string([]rune(lines[start.Line])[start.Character:]))
	for l := start.Line + 1; l < end.Line; l++ {
		sb.WriteByte('\n')
		sb.WriteString(lines[l])
	}
	sb.WriteByte('\n')
	sb.WriteString(string([]rune(lines[end.Line])[:end.Character]))
	return sb.String()
}

// Lines adapts a plain slice of strings to the Reader interface.
type Lines []string

// LineCount implements Reader.
func (l Lines) LineCount() int {
	return len(l)
}

// LineText implements Reader.
func (l Lines) LineText(line int) string {
	if line < 0 || line >= len(l) {
		return ""
	}
	return l[line]
}

var (
	_ Reader = (*Document)(nil)
	_ Reader = (*Snapshot)(nil)
	_ Reader = Lines(nil)
)

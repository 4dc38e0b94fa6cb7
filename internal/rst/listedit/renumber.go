package listedit

import (
	"strings"

	"github.com/dshills/rstedit/internal/engine/buffer"
	"github.com/dshills/rstedit/internal/engine/cursor"
)

const (
	// HeadingStop is returned by NextMarkerLine when a heading line ends
	// the search.
	HeadingStop = -1
	// NotFound is returned by NextMarkerLine when the document ends
	// before an enumerated item is found.
	NotFound = -2
)

// LookUpward returns the number the item on line should carry, given the
// item's leading indentation. It scans upward for an enumerated item at the
// same indentation and returns its number plus one. It returns 1 when it
// reaches a parent item, a less indented paragraph line or the top of the
// document.
func LookUpward(doc buffer.Reader, line, indent int) int {
	for l := min(line, doc.LineCount()) - 1; l >= 0; l-- {
		text := doc.LineText(l)

		if m, ok := ParseMarker(text); ok {
			lead := m.Indent()
			if lead == indent {
				return m.Number + 1
			}
			if strings.ContainsRune(m.Leading, '\t') {
				if lead+1 <= indent {
					return 1
				}
			} else if lead+m.Width() <= indent {
				return 1
			}
			continue
		}

		if lead, ok := leadingWidth(text); ok && lead <= indent {
			break
		}
	}
	return 1
}

// NextMarkerLine returns the first enumerated item line at or after from.
// A line starting with '#' ends the search with HeadingStop; reaching the
// end of the document gives NotFound.
func NextMarkerLine(doc buffer.Reader, from int) int {
	for l := max(from, 0); l < doc.LineCount(); l++ {
		text := doc.LineText(l)
		if strings.HasPrefix(text, "#") {
			return HeadingStop
		}
		if IsMarkerLine(text) {
			return l
		}
	}
	return NotFound
}

// StartLine returns the line renumbering starts from for a selection: the
// first enumerated item inside it, or the active line when there is none.
// It returns HeadingStop when a heading precedes any item.
func StartLine(doc buffer.Reader, sel cursor.Selection) int {
	line := NextMarkerLine(doc, sel.Start().Line)
	if line == NotFound || line > sel.End().Line {
		line = sel.Active.Line
	}
	return line
}

// overlay is a Reader that shows pending line rewrites over a document.
type overlay struct {
	doc   buffer.Reader
	lines map[int]string
}

func newOverlay(doc buffer.Reader) *overlay {
	return &overlay{doc: doc, lines: make(map[int]string)}
}

func (o *overlay) LineCount() int {
	return o.doc.LineCount()
}

func (o *overlay) LineText(line int) string {
	if t, ok := o.lines[line]; ok {
		return t
	}
	return o.doc.LineText(line)
}

func (o *overlay) set(line int, text string) {
	o.lines[line] = text
}

// Renumber fixes the numbering of the enumerated list run starting at
// line start. Each item is compared with LookUpward; wrong numbers are
// rewritten and the scan moves on to the next item of the list.
//
// After the start line, an item that is already correct ends the run at
// its own level: when it is no deeper than the start item the run stops,
// otherwise its sub-list is skipped and the scan continues with the next
// shallower item.
//
// No edits are produced when auto renumbering is off, the marker style is
// "one" or start is not an enumerated item. Edits are against doc.
func Renumber(doc buffer.Reader, start int, s Settings) []buffer.Edit {
	if !s.AutoRenumber || s.Marker == MarkerOne {
		return nil
	}
	if start < 0 || start >= doc.LineCount() {
		return nil
	}

	ov := newOverlay(doc)
	var edits []buffer.Edit

	base := -1
	skip := -1
	line := start
	for line >= 0 {
		text := ov.LineText(line)
		m, ok := ParseMarker(text)
		if !ok {
			break
		}
		width := m.Width()
		indent := m.Indent()

		switch {
		case base < 0:
			base = indent
		case skip >= 0 && indent >= skip:
			line = nextItem(ov, line, width)
			continue
		}
		skip = -1

		fixed := LookUpward(ov, line, indent)
		switch {
		case fixed != m.Number:
			nm := m.Renumber(fixed)
			edits = append(edits, buffer.NewReplace(
				buffer.NewRange(line, indent, line, indent+width),
				strings.TrimPrefix(nm.String(), nm.Leading),
			))
			ov.set(line, nm.String()+text[len(m.String()):])
		case line == start:
		case indent <= base:
			return edits
		default:
			skip = indent
		}

		line = nextItem(ov, line, width)
	}

	return edits
}

// nextItem returns the next enumerated item line after line, skipping
// blank lines and continuation lines. For markers of width four or less a
// continuation line must be indented by at least the marker width; wider
// markers take any text until the next item. It returns -1 when the list
// ends.
func nextItem(doc buffer.Reader, line, width int) int {
	indent := strings.Repeat(" ", width)
	for l := line + 1; l < doc.LineCount(); l++ {
		text := doc.LineText(l)
		if IsMarkerLine(text) {
			return l
		}
		if strings.TrimSpace(text) == "" {
			continue
		}
		if strings.HasPrefix(text, "#") {
			return -1
		}
		if width <= 4 && !strings.HasPrefix(text, indent) {
			return -1
		}
	}
	return -1
}

package listedit

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/dshills/rstedit/internal/engine/buffer"
	"github.com/dshills/rstedit/internal/engine/cursor"
)

var (
	reItemHead    = regexp.MustCompile(`^\s*([-+*•‣⁃]|[0-9]+[.)]|#.) +(\[[ x]\] +)?`)
	reAlignItem   = regexp.MustCompile(`^(\s*)(([-+*]|[0-9]+[.)]) +)(\[[ x]\] +)?`)
	reNestedEmpty = regexp.MustCompile(`^\s+([-+*]|[0-9]+[.)]) $`)
	reTopEmpty    = regexp.MustCompile(`^([-+*]|[0-9]+[.)]) $`)
	reEmptyTask   = regexp.MustCompile(`^\s*([-+*]|[0-9]+[.)]) +(\[[ x]\] )$`)
)

// OnTab indents (or with shift, outdents) the list items under the
// selection. It is unhandled when the cursor is past the item marker of a
// single-line caret, or the line is not a list item.
func OnTab(doc buffer.Reader, sel cursor.Selection, shift bool, s Settings) Action {
	pos := sel.Start()
	text := doc.LineText(pos.Line)
	head := reItemHead.FindString(text)
	if head == "" {
		return unhandled()
	}
	if !shift && sel.IsEmpty() && pos.Character > utf8.RuneCountInString(head) {
		return unhandled()
	}
	if shift {
		return Outdent(doc, sel, s)
	}
	return Indent(doc, sel, s)
}

// Indent shifts the non-empty lines under the selection right. With
// adaptive indentation the width aligns the first line with the text of
// the closest enclosing item above; without one it falls back to the tab
// size.
func Indent(doc buffer.Reader, sel cursor.Selection, s Settings) Action {
	size := indentSize(doc, sel, s)
	pad := strings.Repeat(" ", size)

	var edits []buffer.Edit
	delta := 0
	first, last := selectedLines(sel)
	for l := first; l <= last; l++ {
		if doc.LineText(l) == "" {
			continue
		}
		edits = append(edits, buffer.NewInsert(buffer.Pos(l, 0), pad))
		if l == sel.Active.Line {
			delta = size
		}
	}
	return shifted(edits, sel, delta)
}

// Outdent shifts the lines under the selection left by the indentation
// size, never removing more than a line's leading whitespace.
func Outdent(doc buffer.Reader, sel cursor.Selection, s Settings) Action {
	size := indentSize(doc, sel, s)

	var edits []buffer.Edit
	delta := 0
	first, last := selectedLines(sel)
	for l := first; l <= last; l++ {
		text := doc.LineText(l)
		limit := utf8.RuneCountInString(text)
		if lead, ok := leadingWidth(text); ok {
			limit = lead
		}
		n := min(size, limit)
		if n == 0 {
			continue
		}
		edits = append(edits, buffer.NewDelete(buffer.NewRange(l, 0, l, n)))
		if l == sel.Active.Line {
			delta = -n
		}
	}
	return shifted(edits, sel, delta)
}

// shifted builds the action for a line shift. A caret moves with its
// line text by delta.
func shifted(edits []buffer.Edit, sel cursor.Selection, delta int) Action {
	if len(edits) == 0 {
		return handled(nil, nil, RenumberNone)
	}
	if !sel.IsEmpty() || delta == 0 {
		return handled(edits, nil, RenumberAtSelection)
	}
	return handled(edits, caret(sel.Active.Line, max(0, sel.Active.Character+delta)), RenumberAtSelection)
}

// selectedLines returns the lines a line command acts on. A multi-line
// selection ending at column 0 leaves its last line alone.
func selectedLines(sel cursor.Selection) (int, int) {
	start, end := sel.Start(), sel.End()
	last := end.Line
	if !sel.IsEmpty() && end.Character == 0 && last > start.Line {
		last--
	}
	return start.Line, last
}

func indentSize(doc buffer.Reader, sel cursor.Selection, s Settings) int {
	if !s.Indentation.Adaptive {
		if s.Indentation.Spaces > 0 {
			return s.Indentation.Spaces
		}
		return s.tabSize()
	}
	line := sel.Start().Line
	indent, _ := leadingWidth(doc.LineText(line))
	if n, ok := alignWidth(doc, line, indent); ok {
		return n
	}
	return s.tabSize()
}

// alignWidth finds the nearest item above line whose indentation does not
// exceed indent and returns the width of its marker and spaces.
func alignWidth(doc buffer.Reader, line, indent int) (int, bool) {
	for l := line - 1; l >= 0; l-- {
		m := reAlignItem.FindStringSubmatch(doc.LineText(l))
		if m == nil {
			continue
		}
		if utf8.RuneCountInString(m[1]) <= indent {
			return utf8.RuneCountInString(m[2]), true
		}
	}
	return 0, false
}

// OnBackspace handles Backspace on empty list items: a nested empty item
// is outdented, a top-level one loses its marker and an empty task box is
// removed. A non-empty selection falls through to a plain delete followed
// by renumbering.
func OnBackspace(doc buffer.Reader, sel cursor.Selection, s Settings) Action {
	if !sel.IsEmpty() {
		return Action{Renumber: RenumberNextMarker, From: FromSelection}
	}

	pos := sel.Active
	rs := []rune(doc.LineText(pos.Line))
	c := min(max(pos.Character, 0), len(rs))
	before := string(rs[:c])

	switch {
	case reNestedEmpty.MatchString(before):
		return Outdent(doc, sel, s)

	case reTopEmpty.MatchString(before):
		edit := buffer.NewReplace(buffer.NewRange(pos.Line, 0, pos.Line, c), strings.Repeat(" ", c))
		return handled([]buffer.Edit{edit}, caret(pos.Line, c), RenumberNextMarker)

	case reEmptyTask.MatchString(before):
		edit := buffer.NewDelete(buffer.NewRange(pos.Line, c-4, pos.Line, c))
		return handled([]buffer.Edit{edit}, caret(pos.Line, c-4), RenumberNextMarker)
	}

	return unhandled()
}

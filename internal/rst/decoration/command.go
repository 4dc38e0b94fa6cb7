package decoration

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/dshills/rstedit/internal/engine/buffer"
	"github.com/dshills/rstedit/internal/engine/cursor"
)

// Outcome is the edit batch produced by a decoration command, computed
// against the document before any of it is applied.
type Outcome struct {
	Edits      []buffer.Edit
	Selections []cursor.Selection
	Removed    bool
}

// Apply toggles kind for every selection. Markers enclosing any selection
// are removed; only when no selection had markers to remove is every
// selection wrapped instead.
func Apply(doc buffer.Reader, sels []cursor.Selection, kind Kind) Outcome {
	if out, ok := removeAll(doc, sels, kind); ok {
		return out
	}
	return insertAll(doc, sels, kind)
}

// lineState tracks one line rewritten by successive selections.
type lineState struct {
	orig string
	text string
	maps []analysis
}

// mapFrom maps p through the analyses from index i on.
func (ls *lineState) mapFrom(i, p int) int {
	if ls == nil {
		return p
	}
	for _, a := range ls.maps[i:] {
		p = a.mapPos(p)
	}
	return p
}

type pending struct {
	sel        cursor.Selection
	start, end buffer.Position
	startStep  int
	endStep    int
}

func removeAll(doc buffer.Reader, sels []cursor.Selection, kind Kind) (Outcome, bool) {
	lines := make(map[int]*lineState)
	state := func(l int) *lineState {
		ls, ok := lines[l]
		if !ok {
			t := doc.LineText(l)
			ls = &lineState{orig: t, text: t}
			lines[l] = ls
		}
		return ls
	}

	ordered := cursor.SortByStart(sels)
	work := make([]pending, len(ordered))
	for k, sel := range ordered {
		s, e := sel.Start(), sel.End()
		// positions in the current text of their lines
		sc := lines[s.Line].mapFrom(0, s.Character)
		ec := lines[e.Line].mapFrom(0, e.Character)

		count := e.Line - s.Line + 1
		p := pending{sel: sel}
		for i := 0; i < count; i++ {
			l := s.Line + i
			ls := state(l)
			from, to := lineSpan(i, count, utf8.RuneCountInString(ls.text), sc, ec)
			a := analyze(ls.text, from, to, kind)
			ls.maps = append(ls.maps, a)
			if a.changed() {
				ls.text = a.text()
			}
			if i == 0 {
				p.start = buffer.Pos(l, a.mapPos(sc))
				p.startStep = len(ls.maps)
			}
			if i == count-1 {
				p.end = buffer.Pos(l, a.mapPos(ec))
				p.endStep = len(ls.maps)
			}
		}
		work[k] = p
	}

	var out Outcome
	for l := range lines {
		ls := lines[l]
		if ls.text != ls.orig {
			out.Removed = true
			out.Edits = append(out.Edits, buffer.NewLineReplace(l, ls.orig, ls.text))
		}
	}
	if !out.Removed {
		return Outcome{}, false
	}

	sortEdits(out.Edits)
	out.Selections = make([]cursor.Selection, len(work))
	for k, p := range work {
		start := buffer.Pos(p.start.Line, lines[p.start.Line].mapFrom(p.startStep, p.start.Character))
		end := buffer.Pos(p.end.Line, lines[p.end.Line].mapFrom(p.endStep, p.end.Character))
		out.Selections[k] = orient(p.sel, start, end)
	}
	return out, true
}

func insertAll(doc buffer.Reader, sels []cursor.Selection, kind Kind) Outcome {
	var out Outcome
	shift := make(map[int]int)

	for _, sel := range cursor.SortByStart(sels) {
		s, e := sel.Start(), sel.End()
		startLine := []rune(doc.LineText(s.Line))
		endLine := []rune(doc.LineText(e.Line))
		if sel.IsEmpty() && len(startLine) == 0 {
			out.Selections = append(out.Selections, sel)
			continue
		}

		before, after := Affixes(runeAt(startLine, s.Character-1), runeAt(endLine, e.Character), kind)
		text := textBetween(doc, s, e)
		out.Edits = append(out.Edits, buffer.NewReplace(sel.Range(), before+text+after))

		nb, na := utf8.RuneCountInString(before), utf8.RuneCountInString(after)
		newStart := buffer.Pos(s.Line, s.Character+shift[s.Line]+nb)
		shift[s.Line] += nb
		newEnd := buffer.Pos(e.Line, e.Character+shift[e.Line])
		shift[e.Line] += na
		out.Selections = append(out.Selections, orient(sel, newStart, newEnd))
	}
	return out
}

// textBetween returns the document text from s to e.
func textBetween(doc buffer.Reader, s, e buffer.Position) string {
	if s.Line == e.Line {
		rs := []rune(doc.LineText(s.Line))
		return string(rs[clamp(s.Character, 0, len(rs)):clamp(e.Character, 0, len(rs))])
	}
	var sb strings.Builder
	first := []rune(doc.LineText(s.Line))
	sb.WriteString(string(first[clamp(s.Character, 0, len(first)):]))
	for l := s.Line + 1; l < e.Line; l++ {
		sb.WriteByte('\n')
		sb.WriteString(doc.LineText(l))
	}
	last := []rune(doc.LineText(e.Line))
	sb.WriteByte('\n')
	sb.WriteString(string(last[:clamp(e.Character, 0, len(last))]))
	return sb.String()
}

// orient builds a selection from start to end with the direction of sel.
func orient(sel cursor.Selection, start, end buffer.Position) cursor.Selection {
	if sel.IsForward() {
		return cursor.NewSelection(start, end)
	}
	return cursor.NewSelection(end, start)
}

func sortEdits(edits []buffer.Edit) {
	sort.Slice(edits, func(i, j int) bool {
		return edits[i].Range.Start.Before(edits[j].Range.Start)
	})
}

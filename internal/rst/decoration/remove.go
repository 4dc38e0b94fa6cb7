package decoration

// analysis is the outcome of removing markers around one selection of a
// single line.
type analysis struct {
	elems []Elem
	keep  []bool
}

// analyze decides which elements of line survive removing the markers that
// enclose [start, end). The element at end is examined too, so a caret
// right before a closing marker still reaches it.
func analyze(line string, start, end int, kind Kind) analysis {
	elems := Tag(line, kind)
	n := len(elems)
	a := analysis{elems: elems, keep: make([]bool, n)}
	if n == 0 {
		return a
	}

	// an empty selection at the end of the line looks at the last element
	if start == end && end > n-1 {
		start--
		end--
	}
	start = clamp(start, 0, n)
	end = clamp(end, start, n)
	stop := min(end+1, n)

	needForward, needBackward := NoSide, NoSide
	for i := start; i < stop; i++ {
		el := elems[i]
		if !el.Deco {
			a.keep[i] = true
			continue
		}
		if i == start {
			needForward = el.Side
		}
		if i == stop-1 {
			needBackward = el.Side
		}
	}

	a.walk(start-1, -1, -1, needForward, Back, Front)
	a.walk(stop, n, 1, needBackward, Front, Back)
	return a
}

// walk scans outward from the selection, from i toward limit. need is the
// side of the marker the selection touched on this end. closing is the
// side of a marker that closes a span lying entirely outside the walk
// origin; opening is the side of the marker that belongs to the span
// enclosing the selection.
func (a *analysis) walk(i, limit, step int, need, closing, opening Side) {
	const (
		exclNone = iota
		exclIn
		exclDone
	)

	if need == closing {
		// The selection started on a closing marker: skip the rest of
		// that span, then keep everything.
		status := exclNone
		for ; i != limit; i += step {
			el := a.elems[i]
			if !el.Deco {
				a.keep[i] = true
				if status == exclIn {
					status = exclDone
				}
				continue
			}
			if el.Side == opening && status == exclNone {
				status = exclIn
			}
			a.keep[i] = status == exclDone
		}
		return
	}

	passed := false
	for ; i != limit; i += step {
		el := a.elems[i]
		switch {
		case !el.Deco || passed:
			a.keep[i] = true
		case el.Side == closing:
			a.keep[i] = true
			passed = true
		}
	}
}

// text returns the line with the dropped markers removed.
func (a analysis) text() string {
	out := make([]rune, 0, len(a.elems))
	for i, el := range a.elems {
		if a.keep[i] {
			out = append(out, el.Char)
		}
	}
	return string(out)
}

// changed reports whether any element was dropped.
func (a analysis) changed() bool {
	for _, k := range a.keep {
		if !k {
			return true
		}
	}
	return false
}

// mapPos maps a character offset in the old line to the new line.
func (a analysis) mapPos(p int) int {
	p = clamp(p, 0, len(a.elems))
	n := 0
	for i := 0; i < p; i++ {
		if a.keep[i] {
			n++
		}
	}
	return n
}

// Remove removes the markers of kind that enclose the selection
// [start, end) of line. It reports whether anything was removed.
func Remove(line string, start, end int, kind Kind) (string, bool) {
	a := analyze(line, start, end, kind)
	if !a.changed() {
		return line, false
	}
	return a.text(), true
}

// Result is the outcome of toggling a decoration on one line.
// Start and End select the decorated text in the new line.
type Result struct {
	Line    string
	Removed bool
	Start   int
	End     int
}

// Toggle removes the markers of kind around [start, end) of line, or wraps
// the selection in them when there is nothing to remove. An empty line is
// left alone.
func Toggle(line string, start, end int, kind Kind) Result {
	if line == "" {
		return Result{}
	}
	if start > end {
		start, end = end, start
	}

	a := analyze(line, start, end, kind)
	if a.changed() {
		return Result{
			Line:    a.text(),
			Removed: true,
			Start:   a.mapPos(start),
			End:     a.mapPos(end),
		}
	}

	rs := []rune(line)
	start = clamp(start, 0, len(rs))
	end = clamp(end, start, len(rs))
	before, after := Affixes(runeAt(rs, start-1), runeAt(rs, end), kind)

	out := string(rs[:start]) + before + string(rs[start:end]) + after + string(rs[end:])
	inner := start + len([]rune(before))
	return Result{
		Line:  out,
		Start: inner,
		End:   inner + end - start,
	}
}

// Affixes returns the text to insert before and after a selection to wrap
// it in markers. prev and next are the runes around the selection, or 0
// when there is none. A space is added on a side whose neighbour is
// neither absent nor a space.
func Affixes(prev, next rune, kind Kind) (before, after string) {
	m := kind.Marker()
	before, after = m, m
	if prev != 0 && prev != ' ' {
		before = " " + m
	}
	if next != 0 && next != ' ' {
		after = m + " "
	}
	return before, after
}

// Wrap returns text wrapped in markers of kind, given the runes around it.
func Wrap(text string, prev, next rune, kind Kind) string {
	before, after := Affixes(prev, next, kind)
	return before + text + after
}

// RemoveLines applies Remove to a multi-line selection. The first line is
// processed from startChar to its end, middle lines whole, and the last line
// up to endChar. A single line uses [startChar, endChar).
func RemoveLines(lines []string, startChar, endChar int, kind Kind) ([]string, bool) {
	out := make([]string, len(lines))
	removed := false
	for i, line := range lines {
		s, e := lineSpan(i, len(lines), len([]rune(line)), startChar, endChar)
		nl, ok := Remove(line, s, e, kind)
		out[i] = nl
		removed = removed || ok
	}
	return out, removed
}

// lineSpan returns the part of line i of count lines covered by a
// selection from startChar on the first line to endChar on the last.
func lineSpan(i, count, length, startChar, endChar int) (int, int) {
	switch {
	case count == 1:
		return startChar, endChar
	case i == 0:
		return startChar, length
	case i == count-1:
		return 0, endChar
	default:
		return 0, length
	}
}

func runeAt(rs []rune, i int) rune {
	if i < 0 || i >= len(rs) {
		return 0
	}
	return rs[i]
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

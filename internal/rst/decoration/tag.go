package decoration

import "unicode"

// Tag splits line into elements and tags every marker rune of each
// recognized span.
//
// A span is a front marker at the start of the line or after whitespace,
// followed by a non-space rune that does not start another marker run; then
// the shortest possible text; then a back marker preceded by a non-space rune
// that does not end another marker run, and followed by whitespace or the end
// of the line. Scanning resumes after each span.
func Tag(line string, kind Kind) []Elem {
	rs := []rune(line)
	elems := make([]Elem, len(rs))
	for i, r := range rs {
		elems[i] = Plain(r)
	}

	m := []rune(kind.Marker())
	pos := 0
	for pos < len(rs) {
		f, b, ok := nextSpan(rs, pos, m)
		if !ok {
			break
		}
		for i := range m {
			elems[f+i] = Deco(rs[f+i], Front)
			elems[b+i] = Deco(rs[b+i], Back)
		}
		// the whitespace after the back marker belongs to this span
		pos = b + len(m) + 1
	}
	return elems
}

// nextSpan finds the earliest span starting at or after pos.
// It returns the indices of the front and back markers.
func nextSpan(rs []rune, pos int, m []rune) (front, back int, ok bool) {
	n := len(m)
	for f := pos; f+n <= len(rs); f++ {
		if f > pos && !unicode.IsSpace(rs[f-1]) {
			continue
		}
		if !hasAt(rs, f, m) {
			continue
		}
		inner := f + n
		if inner >= len(rs) || unicode.IsSpace(rs[inner]) {
			continue
		}
		if runFrom(rs, inner, m[0]) >= n {
			continue
		}

		for b := inner + 1; b+n <= len(rs); b++ {
			if unicode.IsSpace(rs[b-1]) || runBefore(rs, b, pos, m[0]) >= n {
				continue
			}
			if !hasAt(rs, b, m) {
				continue
			}
			if after := b + n; after < len(rs) && !unicode.IsSpace(rs[after]) {
				continue
			}
			return f, b, true
		}
	}
	return 0, 0, false
}

func hasAt(rs []rune, i int, m []rune) bool {
	if i+len(m) > len(rs) {
		return false
	}
	for j, r := range m {
		if rs[i+j] != r {
			return false
		}
	}
	return true
}

// runFrom counts consecutive r starting at i.
func runFrom(rs []rune, i int, r rune) int {
	n := 0
	for ; i < len(rs) && rs[i] == r; i++ {
		n++
	}
	return n
}

// runBefore counts consecutive r ending right before i, not looking
// before floor.
func runBefore(rs []rune, i, floor int, r rune) int {
	n := 0
	for i--; i >= floor && rs[i] == r; i-- {
		n++
	}
	return n
}

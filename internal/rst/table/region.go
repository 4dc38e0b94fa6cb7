package table

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/dshills/rstedit/internal/engine/buffer"
)

var reBegin = regexp.MustCompile(`^\+-[-+]+-\+$`)

// Region is a span of table lines, End exclusive.
type Region struct {
	Begin int
	End   int
}

// Contains reports whether line falls inside the region.
func (r Region) Contains(line int) bool {
	return line >= r.Begin && line < r.End
}

// Len returns the number of lines.
func (r Region) Len() int {
	return r.End - r.Begin
}

// Regions scans doc for grid tables.
func Regions(doc buffer.Reader) []Region {
	var out []Region
	begin := -1
	n := doc.LineCount()

	for i := 0; i < n; i++ {
		text := doc.LineText(i)
		if begin < 0 {
			if reBegin.MatchString(text) {
				begin = i
			}
			continue
		}
		if endsTable(text) {
			out = append(out, Region{Begin: begin, End: i})
			begin = -1
		}
	}
	if begin >= 0 {
		out = append(out, Region{Begin: begin, End: n})
	}
	return out
}

// FindRegion returns the table containing line.
func FindRegion(doc buffer.Reader, line int) (Region, bool) {
	for _, r := range Regions(doc) {
		if r.Contains(line) {
			return r, true
		}
		if r.Begin > line {
			break
		}
	}
	return Region{}, false
}

// IsSelected reports whether line is inside a table.
func IsSelected(doc buffer.Reader, line int) bool {
	_, ok := FindRegion(doc, line)
	return ok
}

// gridEnd returns the end of the grid lines of r: the first line not
// starting with '+' or '|'. A row with a leading "-|" remove gesture
// still belongs to the grid.
func gridEnd(doc buffer.Reader, r Region) int {
	for l := r.Begin; l < r.End; l++ {
		text := doc.LineText(l)
		if !strings.HasPrefix(text, "+") && !strings.HasPrefix(text, "|") && !strings.HasPrefix(text, "-|") {
			return l
		}
	}
	return r.End
}

func endsTable(line string) bool {
	if line == "" {
		return true
	}
	r, _ := utf8.DecodeRuneInString(line)
	return !unicode.IsSpace(r) && r != '+' && r != '|' && r != '-'
}

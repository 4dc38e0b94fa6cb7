package listedit

import (
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

var (
	reOrdered     = regexp.MustCompile(`^(\s*)([0-9]+)([.)])( +)`)
	reOrderedLine = regexp.MustCompile(`^\s*[0-9]+[.)] +`)
	reLeading     = regexp.MustCompile(`^(\s*)\S`)
)

// Marker is a parsed enumerated list prefix such as "  12. ".
type Marker struct {
	Leading   string
	Number    int
	Delimiter byte
	Trailing  string

	digits string
}

// ParseMarker parses the enumerated list prefix of line.
func ParseMarker(line string) (Marker, bool) {
	m := reOrdered.FindStringSubmatch(line)
	if m == nil {
		return Marker{}, false
	}
	n, err := strconv.Atoi(m[2])
	if err != nil {
		return Marker{}, false
	}
	return Marker{
		Leading:   m[1],
		Number:    n,
		Delimiter: m[3][0],
		Trailing:  m[4],
		digits:    m[2],
	}, true
}

// IsMarkerLine reports whether line starts an enumerated item.
func IsMarkerLine(line string) bool {
	return reOrderedLine.MatchString(line)
}

// Digits returns the number as written.
func (m Marker) Digits() string {
	if m.digits != "" {
		return m.digits
	}
	return strconv.Itoa(m.Number)
}

// Indent returns the width of the leading whitespace.
func (m Marker) Indent() int {
	return utf8.RuneCountInString(m.Leading)
}

// Width returns the width of number, delimiter and trailing spaces.
func (m Marker) Width() int {
	return len(m.Digits()) + 1 + len(m.Trailing)
}

// String returns the full prefix.
func (m Marker) String() string {
	return m.Leading + m.Digits() + string(m.Delimiter) + m.Trailing
}

// Renumber returns the marker with number n. Leading whitespace and
// delimiter are kept; trailing spaces are adjusted so the text after the
// marker stays aligned, keeping at least one space.
func (m Marker) Renumber(n int) Marker {
	digits := strconv.Itoa(n)
	pad := max(1, m.Width()-len(digits)-1)
	return Marker{
		Leading:   m.Leading,
		Number:    n,
		Delimiter: m.Delimiter,
		Trailing:  strings.Repeat(" ", pad),
		digits:    digits,
	}
}

// leadingWidth returns the width of the leading whitespace of a non-blank
// line. ok is false for blank lines.
func leadingWidth(line string) (int, bool) {
	m := reLeading.FindStringSubmatch(line)
	if m == nil {
		return 0, false
	}
	return utf8.RuneCountInString(m[1]), true
}

func isBlank(line string) bool {
	return strings.TrimSpace(line) == ""
}

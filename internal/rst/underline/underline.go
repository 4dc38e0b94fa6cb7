// Package underline implements section heading commands: underlining a
// title line, cycling the level of an existing underline and turning a
// trigger character into a heading rule.
package underline

import (
	"strings"
	"unicode/utf8"

	"github.com/rivo/uniseg"
	"golang.org/x/text/unicode/norm"

	"github.com/dshills/rstedit/internal/engine/buffer"
	"github.com/dshills/rstedit/internal/engine/cursor"
)

// Chars lists the underline characters from the highest section level to
// the lowest.
var Chars = []rune{'=', '-', ':', '.', '\'', '"', '~', '^', '*', '+', '#'}

// Width returns the display width of s after NFC normalization. East
// Asian wide characters count as two columns.
func Width(s string) int {
	return uniseg.StringWidth(norm.NFC.String(s))
}

// Next returns the underline character one level below current, or one
// level above when reverse is set. The list wraps around; an unknown
// character starts from the top.
func Next(current rune, reverse bool) rune {
	idx := -1
	for i, c := range Chars {
		if c == current {
			idx = i
			break
		}
	}
	if reverse {
		idx--
	} else {
		idx++
	}
	n := len(Chars)
	return Chars[((idx%n)+n)%n]
}

// Current returns the underline character of next when next is a run of
// a single underline character at least as long as line.
func Current(line, next string) (rune, bool) {
	n := utf8.RuneCountInString(next)
	if n < utf8.RuneCountInString(line) {
		return 0, false
	}
	for _, c := range Chars {
		if next == strings.Repeat(string(c), n) {
			return c, true
		}
	}
	return 0, false
}

// Underline underlines the line of each selection. A title without an
// underline gets a '=' rule; an existing underline moves to the next
// level, or the previous one with reverse. Empty lines are skipped.
func Underline(doc buffer.Reader, sels []cursor.Selection, reverse bool) []buffer.Edit {
	var edits []buffer.Edit
	seen := make(map[int]bool)

	for _, sel := range sels {
		l := sel.Active.Line
		if seen[l] {
			continue
		}
		seen[l] = true

		line := doc.LineText(l)
		if line == "" {
			continue
		}
		width := Width(line)

		if l < doc.LineCount()-1 {
			next := doc.LineText(l + 1)
			if c, ok := Current(line, next); ok {
				edits = append(edits, buffer.NewLineReplace(l+1, next,
					strings.Repeat(string(Next(c, reverse)), width)))
				continue
			}
		}

		edits = append(edits, buffer.NewInsert(
			buffer.Pos(l, utf8.RuneCountInString(line)),
			"\n"+strings.Repeat("=", width),
		))
	}
	return edits
}

// AddHeading replaces the line of each selection with a rule of trigger.
// The rule matches the width of the line above when that is longer than
// five columns; otherwise it is five characters followed by a blank line.
func AddHeading(doc buffer.Reader, sels []cursor.Selection, trigger rune) []buffer.Edit {
	var edits []buffer.Edit
	seen := make(map[int]bool)
	mark := string(trigger)

	for _, sel := range sels {
		l := sel.Start().Line
		if seen[l] {
			continue
		}
		seen[l] = true

		text := strings.Repeat(mark, 5) + "\n\n"
		if l > 0 {
			if w := Width(doc.LineText(l - 1)); w > 5 {
				text = strings.Repeat(mark, w) + "\n"
			}
		}
		edits = append(edits, buffer.NewLineReplace(l, doc.LineText(l), text))
	}
	return edits
}

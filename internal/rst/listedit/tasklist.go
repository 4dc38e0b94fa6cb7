package listedit

import (
	"regexp"
	"unicode/utf8"

	"github.com/dshills/rstedit/internal/engine/buffer"
	"github.com/dshills/rstedit/internal/engine/cursor"
)

var (
	reUnchecked = regexp.MustCompile(`^(\s*([-+*]|[0-9]+[.)]) +\[) \]`)
	reChecked   = regexp.MustCompile(`^(\s*([-+*]|[0-9]+[.)]) +\[)x\]`)
)

// ToggleTaskList flips the checkboxes of the task items under the
// selections. The first checkbox found decides the new state; only boxes
// in the opposite state are then flipped. Boundary lines of a multi-line
// selection only count when the selection covers part of their text.
func ToggleTaskList(doc buffer.Reader, sels []cursor.Selection) []buffer.Edit {
	type box struct {
		line, col int
	}

	var boxes []box
	seen := make(map[int]bool)
	check := -1 // 1 checks, 0 unchecks

	for _, sel := range sels {
		start, end := sel.Start(), sel.End()
		for l := start.Line; l <= end.Line; l++ {
			text := doc.LineText(l)
			if !sel.IsSingleLine() {
				if l == start.Line && start.Character == utf8.RuneCountInString(text) {
					continue
				}
				if l == end.Line && end.Character == 0 {
					continue
				}
			}
			if seen[l] {
				continue
			}

			if m := reUnchecked.FindStringSubmatch(text); m != nil && check != 0 {
				check = 1
				seen[l] = true
				boxes = append(boxes, box{l, utf8.RuneCountInString(m[1])})
			} else if m := reChecked.FindStringSubmatch(text); m != nil && check != 1 {
				check = 0
				seen[l] = true
				boxes = append(boxes, box{l, utf8.RuneCountInString(m[1])})
			}
		}
	}

	if check < 0 {
		return nil
	}

	mark := " "
	if check == 1 {
		mark = "x"
	}

	edits := make([]buffer.Edit, 0, len(boxes))
	for _, b := range boxes {
		edits = append(edits, buffer.NewReplace(buffer.NewRange(b.line, b.col, b.line, b.col+1), mark))
	}
	return edits
}

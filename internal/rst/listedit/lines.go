package listedit

import (
	"strings"

	"github.com/dshills/rstedit/internal/engine/buffer"
	"github.com/dshills/rstedit/internal/engine/cursor"
)

// MoveLines moves the lines under the selection one line up or down and
// renumbers the list around them.
func MoveLines(doc buffer.Reader, sel cursor.Selection, up bool) Action {
	first, last := selectedLines(sel)
	block := linesOf(doc, first, last)

	if up {
		if first == 0 {
			return handled(nil, nil, RenumberNone)
		}
		above := doc.LineText(first - 1)
		edit := buffer.NewReplace(
			buffer.NewRange(first-1, 0, last, len([]rune(doc.LineText(last)))),
			strings.Join(block, "\n")+"\n"+above,
		)
		moved := shiftSelection(sel, -1)
		return handled([]buffer.Edit{edit}, &moved, RenumberAtSelection)
	}

	if last >= doc.LineCount()-1 {
		return handled(nil, nil, RenumberNone)
	}
	below := doc.LineText(last + 1)
	edit := buffer.NewReplace(
		buffer.NewRange(first, 0, last+1, len([]rune(below))),
		below+"\n"+strings.Join(block, "\n"),
	)
	moved := shiftSelection(sel, 1)
	a := handled([]buffer.Edit{edit}, &moved, RenumberNextMarker)
	// The line moved up over the block may now be out of order.
	a.From = moved.Start().Line - 1
	return a
}

// CopyLines duplicates the lines under the selection above or below them
// and renumbers. The selection ends up on the lower copy when copying down
// and stays on the upper copy when copying up.
func CopyLines(doc buffer.Reader, sel cursor.Selection, up bool) Action {
	first, last := selectedLines(sel)
	block := strings.Join(linesOf(doc, first, last), "\n")

	if up {
		edit := buffer.NewInsert(buffer.Pos(first, 0), block+"\n")
		kept := sel
		return handled([]buffer.Edit{edit}, &kept, RenumberAtSelection)
	}

	edit := buffer.NewInsert(buffer.Pos(last, len([]rune(doc.LineText(last)))), "\n"+block)
	moved := shiftSelection(sel, last-first+1)
	return handled([]buffer.Edit{edit}, &moved, RenumberAtSelection)
}

func linesOf(doc buffer.Reader, first, last int) []string {
	out := make([]string, 0, last-first+1)
	for l := first; l <= last; l++ {
		out = append(out, doc.LineText(l))
	}
	return out
}

func shiftSelection(sel cursor.Selection, delta int) cursor.Selection {
	return cursor.NewSelection(
		buffer.Pos(sel.Anchor.Line+delta, sel.Anchor.Character),
		buffer.Pos(sel.Active.Line+delta, sel.Active.Character),
	)
}

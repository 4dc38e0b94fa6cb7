package cursor

import (
	"sort"

	"github.com/dshills/rstedit/internal/engine/buffer"
)

// TransformPosition maps a position taken before an edit batch to the
// document produced by the batch.
//
// Rules:
//   - A position before every change is unchanged.
//   - A position at or after the end of a change follows that change's
//     replacement text. Inserts at the position push it forward.
//   - A position strictly inside a replaced range moves to the end of the
//     replacement text.
func TransformPosition(p Position, changes []buffer.Change) Position {
	var (
		best  *buffer.Change
		found bool
	)
	for i := range changes {
		ch := &changes[i]
		if ch.Range.Start.Before(p) && p.Before(ch.Range.End) {
			return ch.NewRange.End
		}
		if ch.Range.End.Compare(p) <= 0 {
			if !found || ch.Range.End.Compare(best.Range.End) >= 0 {
				best, found = ch, true
			}
		}
	}
	if !found {
		return p
	}

	if p.Line == best.Range.End.Line {
		return Position{
			Line:      best.NewRange.End.Line,
			Character: best.NewRange.End.Character + p.Character - best.Range.End.Character,
		}
	}
	return Position{
		Line:      p.Line + best.NewRange.End.Line - best.Range.End.Line,
		Character: p.Character,
	}
}

// TransformSelection maps a selection through an edit batch.
func TransformSelection(sel Selection, changes []buffer.Change) Selection {
	return Selection{
		Anchor: TransformPosition(sel.Anchor, changes),
		Active: TransformPosition(sel.Active, changes),
	}
}

// TransformSet maps every selection in the set through an edit batch.
func TransformSet(s *Set, changes []buffer.Change) {
	if len(changes) == 0 {
		return
	}
	s.MapInPlace(func(sel Selection) Selection {
		return TransformSelection(sel, changes)
	})
}

// SortByStart returns the selections ordered by start position,
// keeping the original order for equal starts.
func SortByStart(sels []Selection) []Selection {
	out := make([]Selection, len(sels))
	copy(out, sels)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Start().Before(out[j].Start())
	})
	return out
}

package handler

import (
	"fmt"

	"github.com/dshills/rstedit/internal/dispatcher/execctx"
	"github.com/dshills/rstedit/internal/engine"
	"github.com/dshills/rstedit/internal/engine/buffer"
	"github.com/dshills/rstedit/internal/engine/cursor"
)

// Apply applies edits through the context engine as one batch. On a dry
// run the edits are only reported.
func Apply(ctx *execctx.ExecutionContext, edits []buffer.Edit, opts engine.ApplyOptions) Result {
	if len(edits) == 0 && opts.Selections == nil {
		return NoOp()
	}
	if ctx.DryRun {
		return Success().WithEdits(edits).WithSelections(opts.Selections)
	}

	changes, err := ctx.Engine.Apply(edits, opts)
	if err != nil {
		return Error(fmt.Errorf("apply %d edits: %w", len(edits), err))
	}
	return Success().
		WithEdits(edits).
		WithChanges(changes).
		WithSelections(ctx.Engine.Selections())
}

// CaretsAfter returns, for each edit, a caret right after its new text in
// the document produced by the batch. Edits must be sorted by start and
// must not overlap.
func CaretsAfter(edits []buffer.Edit) []cursor.Selection {
	out := make([]cursor.Selection, len(edits))
	lineDelta, charDelta, prevEnd := 0, 0, -1
	for i, e := range edits {
		start := buffer.Pos(e.Range.Start.Line+lineDelta, e.Range.Start.Character)
		if e.Range.Start.Line == prevEnd {
			start.Character += charDelta
		}
		end := buffer.EndAfter(start, e.NewText)
		out[i] = cursor.NewCursorSelection(end)

		lineDelta += (end.Line - start.Line) - (e.Range.End.Line - e.Range.Start.Line)
		charDelta = end.Character - e.Range.End.Character
		prevEnd = e.Range.End.Line
	}
	return out
}

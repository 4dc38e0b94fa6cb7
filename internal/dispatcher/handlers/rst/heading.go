package rst

import (
	"unicode/utf8"

	"github.com/dshills/rstedit/internal/dispatcher/execctx"
	"github.com/dshills/rstedit/internal/dispatcher/handler"
	"github.com/dshills/rstedit/internal/engine"
	"github.com/dshills/rstedit/internal/input"
	"github.com/dshills/rstedit/internal/rst/underline"
)

func underlineHeading(reverse bool) actionFunc {
	return func(a input.Action, ctx *execctx.ExecutionContext) handler.Result {
		edits := underline.Underline(ctx.Engine.Document(), ctx.Engine.Selections(), reverse)
		if len(edits) == 0 {
			return handler.NoOp()
		}
		return handler.Apply(ctx, sortEdits(edits), engine.NewUndoStep().Named("underline"))
	}
}

// addHeading turns the line of each selection into a heading rule of the
// trigger character (default '=') and leaves the caret after it.
func addHeading(a input.Action, ctx *execctx.ExecutionContext) handler.Result {
	trigger := '='
	if r, _ := utf8.DecodeRuneInString(a.Args.Text); r != utf8.RuneError {
		trigger = r
	}

	edits := sortEdits(underline.AddHeading(ctx.Engine.Document(), ctx.Engine.Selections(), trigger))
	if len(edits) == 0 {
		return handler.NoOp()
	}
	carets := handler.CaretsAfter(edits)
	opts := engine.NewUndoStep().Named("add heading").WithSelections(carets[:1])
	return handler.Apply(ctx, edits, opts)
}

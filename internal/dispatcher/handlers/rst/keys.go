package rst

import (
	"errors"

	"github.com/dshills/rstedit/internal/dispatcher/execctx"
	"github.com/dshills/rstedit/internal/dispatcher/handler"
	"github.com/dshills/rstedit/internal/input"
	"github.com/dshills/rstedit/internal/rst/listedit"
	"github.com/dshills/rstedit/internal/rst/table"
)

// inTable reports whether the primary cursor is inside a grid table.
func inTable(ctx *execctx.ExecutionContext) bool {
	sel := ctx.Engine.PrimarySelection()
	return table.IsSelected(ctx.Engine.Document(), sel.Active.Line)
}

// enter runs the table gesture under the cursor, or continues the list.
func enter(a input.Action, ctx *execctx.ExecutionContext) handler.Result {
	doc := ctx.Engine.Document()
	sel := ctx.Engine.PrimarySelection()

	if inTable(ctx) {
		ch, err := table.Enter(doc, sel, ctx.Settings.Table)
		return applyTable(ctx, ch, err, "table enter")
	}
	if multi(ctx) {
		return handler.Passthrough()
	}
	return applyList(ctx, listedit.OnEnter(doc, sel, listedit.NoModifier, ctx.Settings.List), "enter")
}

// shiftEnter moves up a cell in a table and is a plain line break
// elsewhere.
func shiftEnter(a input.Action, ctx *execctx.ExecutionContext) handler.Result {
	if inTable(ctx) {
		ch, err := table.Navigate(ctx.Engine.Document(), ctx.Engine.PrimarySelection(), table.Up, ctx.Settings.Table)
		return applyTable(ctx, ch, err, "table up")
	}
	return handler.Passthrough()
}

// ctrlEnter continues the list below the current line.
func ctrlEnter(a input.Action, ctx *execctx.ExecutionContext) handler.Result {
	if multi(ctx) || inTable(ctx) {
		return handler.Passthrough()
	}
	doc := ctx.Engine.Document()
	return applyList(ctx, listedit.OnEnter(doc, ctx.Engine.PrimarySelection(), listedit.Ctrl, ctx.Settings.List), "enter")
}

// altEnter splits the table cell under the cursor.
func altEnter(a input.Action, ctx *execctx.ExecutionContext) handler.Result {
	if !inTable(ctx) {
		return handler.Passthrough()
	}
	ch, err := table.NewLine(ctx.Engine.Document(), ctx.Engine.PrimarySelection(), ctx.Settings.Table)
	if errors.Is(err, table.ErrAtLineEnd) {
		return handler.Passthrough()
	}
	return applyTable(ctx, ch, err, "table new line")
}

// tab moves between table cells, or indents and outdents list items.
func tab(shift bool) actionFunc {
	return func(a input.Action, ctx *execctx.ExecutionContext) handler.Result {
		doc := ctx.Engine.Document()
		sel := ctx.Engine.PrimarySelection()

		if inTable(ctx) {
			dir := table.Right
			if shift {
				dir = table.Left
			}
			ch, err := table.Navigate(doc, sel, dir, ctx.Settings.Table)
			return applyTable(ctx, ch, err, "table move")
		}
		if multi(ctx) {
			return handler.Passthrough()
		}
		return applyList(ctx, listedit.OnTab(doc, sel, shift, ctx.Settings.List), "indent")
	}
}

func backspace(a input.Action, ctx *execctx.ExecutionContext) handler.Result {
	if multi(ctx) {
		return handler.Passthrough()
	}
	doc := ctx.Engine.Document()
	return applyList(ctx, listedit.OnBackspace(doc, ctx.Engine.PrimarySelection(), ctx.Settings.List), "delete")
}

package rst

import (
	"strings"
	"unicode/utf8"

	"github.com/dshills/rstedit/internal/dispatcher/execctx"
	"github.com/dshills/rstedit/internal/dispatcher/handler"
	"github.com/dshills/rstedit/internal/engine"
	"github.com/dshills/rstedit/internal/engine/buffer"
	"github.com/dshills/rstedit/internal/engine/cursor"
	"github.com/dshills/rstedit/internal/input"
	"github.com/dshills/rstedit/internal/rst/table"
)

// createTable inserts an empty grid of rows x cols (default 2 x 2) on its
// own lines at the primary selection.
func createTable(a input.Action, ctx *execctx.ExecutionContext) handler.Result {
	rows, cols := a.Args.GetInt(ArgRows), a.Args.GetInt(ArgCols)
	if _, ok := a.Args.Get(ArgRows); !ok {
		rows = 2
	}
	if _, ok := a.Args.Get(ArgCols); !ok {
		cols = 2
	}

	lines, err := table.CreateEmptyGrid(rows, cols, ctx.Settings.Table)
	if err != nil {
		return handler.Error(err)
	}
	return insertGrid(ctx, ctx.Engine.PrimarySelection(), lines, "create table")
}

// tableFromData converts delimited text into a grid. The text comes from
// the action or, when empty, from the primary selection, which the grid
// then replaces.
func tableFromData(a input.Action, ctx *execctx.ExecutionContext) handler.Result {
	sel := ctx.Engine.PrimarySelection()
	data := a.Args.Text
	if data == "" {
		data = ctx.Engine.Snapshot().TextRange(sel.Range())
	}

	delim := table.GuessDelimiter(data)
	if d := a.Args.GetString(ArgDelimiter); d != "" {
		delim, _ = utf8.DecodeRuneInString(d)
	}

	lines, err := table.DataToTable(data, delim, ctx.Settings.Table)
	if err != nil {
		return handler.Error(err)
	}
	return insertGrid(ctx, sel, lines, "data to table")
}

// insertGrid replaces sel with the grid lines, breaking the surrounding
// text so the grid starts and ends its own lines. The caret lands in the
// first cell.
func insertGrid(ctx *execctx.ExecutionContext, sel cursor.Selection, lines []string, name string) handler.Result {
	doc := ctx.Engine.Document()
	start, end := sel.Start(), sel.End()

	grid := strings.Join(lines, "\n")
	first := start.Line
	if start.Character > 0 {
		grid = "\n" + grid
		first++
	}
	if end.Character < utf8.RuneCountInString(doc.LineText(end.Line)) {
		grid += "\n"
	}

	edit := buffer.NewReplace(sel.Range(), grid)
	opts := engine.NewUndoStep().Named(name).WithSelections([]cursor.Selection{cursor.At(first+1, 2)})
	return handler.Apply(ctx, []buffer.Edit{edit}, opts)
}

// tableSelected reports whether the primary cursor is inside a grid table.
func tableSelected(a input.Action, ctx *execctx.ExecutionContext) handler.Result {
	if err := ctx.Validate(); err != nil {
		return handler.Error(err)
	}
	return handler.SuccessWithData("selected", inTable(ctx))
}

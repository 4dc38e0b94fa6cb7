package editor

import (
	"errors"
	"strings"

	"github.com/dshills/rstedit/internal/dispatcher/execctx"
	"github.com/dshills/rstedit/internal/dispatcher/handler"
	"github.com/dshills/rstedit/internal/engine"
	"github.com/dshills/rstedit/internal/engine/buffer"
	"github.com/dshills/rstedit/internal/engine/cursor"
	"github.com/dshills/rstedit/internal/input"
)

// Action names.
const (
	ActionType        = "edit.type"
	ActionNewline     = "edit.newline"
	ActionTab         = "edit.tab"
	ActionDeleteLeft  = "edit.deleteLeft"
	ActionDeleteRight = "edit.deleteRight"
	ActionLineBelow   = "edit.insertLineBelow"
	ActionOutdent     = "edit.outdentLines"
	ActionUndo        = "edit.undo"
	ActionRedo        = "edit.redo"
)

// Handler handles the "edit" namespace.
type Handler struct {
	*handler.BaseNamespaceHandler
}

// New creates the edit namespace handler.
func New() *Handler {
	h := &Handler{BaseNamespaceHandler: handler.NewBaseNamespaceHandler("edit")}
	h.Register(ActionType, editing(func(a input.Action, ctx *execctx.ExecutionContext) handler.Result {
		return Type(ctx, a.Args.Text)
	}))
	h.Register(ActionNewline, editing(func(a input.Action, ctx *execctx.ExecutionContext) handler.Result {
		return Type(ctx, "\n")
	}))
	h.Register(ActionTab, editing(func(a input.Action, ctx *execctx.ExecutionContext) handler.Result {
		return tab(ctx)
	}))
	h.Register(ActionDeleteLeft, editing(func(a input.Action, ctx *execctx.ExecutionContext) handler.Result {
		return deleteChar(ctx, true)
	}))
	h.Register(ActionDeleteRight, editing(func(a input.Action, ctx *execctx.ExecutionContext) handler.Result {
		return deleteChar(ctx, false)
	}))
	h.Register(ActionLineBelow, editing(func(a input.Action, ctx *execctx.ExecutionContext) handler.Result {
		return lineBelow(ctx)
	}))
	h.Register(ActionOutdent, editing(func(a input.Action, ctx *execctx.ExecutionContext) handler.Result {
		return outdent(ctx)
	}))
	h.Register(ActionUndo, editing(undo))
	h.Register(ActionRedo, editing(redo))
	return h
}

// editing wraps fn with the edit validation.
func editing(fn func(input.Action, *execctx.ExecutionContext) handler.Result) func(input.Action, *execctx.ExecutionContext) handler.Result {
	return func(a input.Action, ctx *execctx.ExecutionContext) handler.Result {
		if err := ctx.ValidateForEdit(); err != nil {
			return handler.Error(err)
		}
		return fn(a, ctx)
	}
}

// Type replaces every selection with text and leaves a caret after it.
func Type(ctx *execctx.ExecutionContext, text string) handler.Result {
	if text == "" {
		return handler.NoOp()
	}

	sels := cursor.SortByStart(ctx.Engine.Selections())
	edits := make([]buffer.Edit, len(sels))
	for i, sel := range sels {
		edits[i] = buffer.NewReplace(sel.Range(), text)
	}
	return apply(ctx, edits, "type")
}

// tab inserts spaces up to the next tab stop at every selection.
func tab(ctx *execctx.ExecutionContext) handler.Result {
	size := ctx.Settings.List.TabSize
	if size <= 0 {
		size = 4
	}

	sels := cursor.SortByStart(ctx.Engine.Selections())
	edits := make([]buffer.Edit, len(sels))
	for i, sel := range sels {
		col := sel.Start().Character
		edits[i] = buffer.NewReplace(sel.Range(), strings.Repeat(" ", size-col%size))
	}
	return apply(ctx, edits, "tab")
}

// lineBelow opens an empty line under the line of each selection.
func lineBelow(ctx *execctx.ExecutionContext) handler.Result {
	doc := ctx.Engine.Document()

	var edits []buffer.Edit
	seen := make(map[int]bool)
	for _, sel := range cursor.SortByStart(ctx.Engine.Selections()) {
		l := sel.End().Line
		if seen[l] {
			continue
		}
		seen[l] = true
		end := buffer.Pos(l, len([]rune(doc.LineText(l))))
		edits = append(edits, buffer.NewInsert(end, "\n"))
	}
	return apply(ctx, edits, "insert line")
}

// outdent removes up to one tab stop of leading spaces from every line
// touched by a selection.
func outdent(ctx *execctx.ExecutionContext) handler.Result {
	size := ctx.Settings.List.TabSize
	if size <= 0 {
		size = 4
	}
	doc := ctx.Engine.Document()

	var edits []buffer.Edit
	seen := make(map[int]bool)
	for _, sel := range cursor.SortByStart(ctx.Engine.Selections()) {
		for l := sel.Start().Line; l <= sel.End().Line; l++ {
			if seen[l] {
				continue
			}
			seen[l] = true
			text := doc.LineText(l)
			n := len(text) - len(strings.TrimLeft(text, " "))
			if n = min(n, size); n > 0 {
				edits = append(edits, buffer.NewDelete(buffer.NewRange(l, 0, l, n)))
			}
		}
	}
	if len(edits) == 0 {
		return handler.NoOp()
	}
	return handler.Apply(ctx, edits, engine.NewUndoStep().Named("outdent"))
}

// deleteChar deletes the selection, or one character left or right of
// each caret.
func deleteChar(ctx *execctx.ExecutionContext, left bool) handler.Result {
	doc := ctx.Engine.Document()
	last := doc.LineCount() - 1

	var edits []buffer.Edit
	var prev buffer.Range
	for _, sel := range cursor.SortByStart(ctx.Engine.Selections()) {
		r := sel.Range()
		if sel.IsEmpty() {
			p := sel.Active
			n := len([]rune(doc.LineText(p.Line)))
			switch {
			case left && p.Character > 0:
				r = buffer.NewRange(p.Line, p.Character-1, p.Line, p.Character)
			case left && p.Line > 0:
				r = buffer.NewRange(p.Line-1, len([]rune(doc.LineText(p.Line-1))), p.Line, 0)
			case !left && p.Character < n:
				r = buffer.NewRange(p.Line, p.Character, p.Line, p.Character+1)
			case !left && p.Line < last:
				r = buffer.NewRange(p.Line, n, p.Line+1, 0)
			default:
				continue
			}
		}
		// carets next to each other would delete overlapping ranges
		if len(edits) > 0 && r.Start.Before(prev.End) {
			continue
		}
		edits = append(edits, buffer.NewDelete(r))
		prev = r
	}
	return apply(ctx, edits, "delete")
}

// apply applies sorted edits as one undo step with carets after each.
func apply(ctx *execctx.ExecutionContext, edits []buffer.Edit, name string) handler.Result {
	if len(edits) == 0 {
		return handler.NoOp()
	}
	opts := engine.NewUndoStep().Named(name).WithSelections(handler.CaretsAfter(edits))
	return handler.Apply(ctx, edits, opts)
}

// repeat is the larger of the action's and the context's repeat count, so
// a count set on the action holds without the dispatcher.
func repeat(a input.Action, ctx *execctx.ExecutionContext) int {
	return max(a.Count, ctx.GetCount())
}

func undo(a input.Action, ctx *execctx.ExecutionContext) handler.Result {
	for range repeat(a, ctx) {
		if err := ctx.Engine.Undo(); err != nil {
			if errors.Is(err, engine.ErrNothingToUndo) {
				return handler.NoOpWithMessage("nothing to undo")
			}
			return handler.Error(err)
		}
	}
	return handler.Success().WithSelections(ctx.Engine.Selections())
}

func redo(a input.Action, ctx *execctx.ExecutionContext) handler.Result {
	for range repeat(a, ctx) {
		if err := ctx.Engine.Redo(); err != nil {
			if errors.Is(err, engine.ErrNothingToRedo) {
				return handler.NoOpWithMessage("nothing to redo")
			}
			return handler.Error(err)
		}
	}
	return handler.Success().WithSelections(ctx.Engine.Selections())
}

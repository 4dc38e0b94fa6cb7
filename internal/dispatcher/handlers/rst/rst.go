package rst

import (
	"errors"
	"sort"

	"github.com/dshills/rstedit/internal/dispatcher/execctx"
	"github.com/dshills/rstedit/internal/dispatcher/handler"
	"github.com/dshills/rstedit/internal/dispatcher/handlers/editor"
	"github.com/dshills/rstedit/internal/engine"
	"github.com/dshills/rstedit/internal/engine/buffer"
	"github.com/dshills/rstedit/internal/engine/cursor"
	"github.com/dshills/rstedit/internal/input"
	"github.com/dshills/rstedit/internal/rst/decoration"
	"github.com/dshills/rstedit/internal/rst/table"
)

// Action names.
const (
	ActionBold      = "rst.bold"
	ActionItalic    = "rst.italic"
	ActionInlineRaw = "rst.inlineRaw"

	ActionEnter      = "rst.key.enter"
	ActionShiftEnter = "rst.key.shiftEnter"
	ActionCtrlEnter  = "rst.key.ctrlEnter"
	ActionAltEnter   = "rst.key.altEnter"
	ActionTab        = "rst.key.tab"
	ActionShiftTab   = "rst.key.shiftTab"
	ActionBackspace  = "rst.key.backspace"

	ActionToggleTask = "rst.list.toggleTask"
	ActionMoveUp     = "rst.list.moveUp"
	ActionMoveDown   = "rst.list.moveDown"
	ActionCopyUp     = "rst.list.copyUp"
	ActionCopyDown   = "rst.list.copyDown"
	ActionIndent     = "rst.list.indent"
	ActionOutdent    = "rst.list.outdent"
	ActionRenumber   = "rst.list.renumber"

	ActionUnderline        = "rst.heading.underline"
	ActionUnderlineReverse = "rst.heading.underlineReverse"
	ActionAddHeading       = "rst.heading.add"

	ActionTableCreate   = "rst.table.create"
	ActionTableFromData = "rst.table.fromData"
	ActionTableSelected = "rst.table.selected"

	ActionInsertRelPath = "rst.insertRelPath"
)

// Argument keys read from input.ActionArgs.Extra.
const (
	ArgRows      = "rows"
	ArgCols      = "cols"
	ArgDelimiter = "delimiter"
	ArgTarget    = "target"
	ArgWithExt   = "withExt"
)

// Passthroughs maps each key action to the edit action that runs when the
// rst behavior does not apply.
func Passthroughs() map[string]string {
	return map[string]string{
		ActionEnter:      editor.ActionNewline,
		ActionShiftEnter: editor.ActionNewline,
		ActionCtrlEnter:  editor.ActionLineBelow,
		ActionAltEnter:   editor.ActionNewline,
		ActionTab:        editor.ActionTab,
		ActionShiftTab:   editor.ActionOutdent,
		ActionBackspace:  editor.ActionDeleteLeft,
	}
}

// Handler handles the "rst" namespace.
type Handler struct {
	*handler.BaseNamespaceHandler
}

type actionFunc = func(input.Action, *execctx.ExecutionContext) handler.Result

// New creates the rst namespace handler.
func New() *Handler {
	h := &Handler{BaseNamespaceHandler: handler.NewBaseNamespaceHandler("rst")}

	h.Register(ActionBold, editing(decorate(decoration.Bold)))
	h.Register(ActionItalic, editing(decorate(decoration.Italic)))
	h.Register(ActionInlineRaw, editing(decorate(decoration.InlineLiteral)))

	h.Register(ActionEnter, editing(enter))
	h.Register(ActionShiftEnter, editing(shiftEnter))
	h.Register(ActionCtrlEnter, editing(ctrlEnter))
	h.Register(ActionAltEnter, editing(altEnter))
	h.Register(ActionTab, editing(tab(false)))
	h.Register(ActionShiftTab, editing(tab(true)))
	h.Register(ActionBackspace, editing(backspace))

	h.Register(ActionToggleTask, editing(toggleTask))
	h.Register(ActionMoveUp, editing(moveLines(true)))
	h.Register(ActionMoveDown, editing(moveLines(false)))
	h.Register(ActionCopyUp, editing(copyLines(true)))
	h.Register(ActionCopyDown, editing(copyLines(false)))
	h.Register(ActionIndent, editing(indent))
	h.Register(ActionOutdent, editing(outdent))
	h.Register(ActionRenumber, editing(renumber))

	h.Register(ActionUnderline, editing(underlineHeading(false)))
	h.Register(ActionUnderlineReverse, editing(underlineHeading(true)))
	h.Register(ActionAddHeading, editing(addHeading))

	h.Register(ActionTableCreate, editing(createTable))
	h.Register(ActionTableFromData, editing(tableFromData))
	h.Register(ActionTableSelected, tableSelected)

	h.Register(ActionInsertRelPath, editing(insertRelPath))
	return h
}

// editing wraps fn with the edit validation.
func editing(fn actionFunc) actionFunc {
	return func(a input.Action, ctx *execctx.ExecutionContext) handler.Result {
		if err := ctx.ValidateForEdit(); err != nil {
			return handler.Error(err)
		}
		return fn(a, ctx)
	}
}

func decorate(kind decoration.Kind) actionFunc {
	return func(a input.Action, ctx *execctx.ExecutionContext) handler.Result {
		out := decoration.Apply(ctx.Engine.Document(), ctx.Engine.Selections(), kind)
		if len(out.Edits) == 0 {
			return handler.NoOp()
		}
		opts := engine.NewUndoStep().Named(kind.String()).WithSelections(out.Selections)
		return handler.Apply(ctx, out.Edits, opts).WithData("removed", out.Removed)
	}
}

// applyTable applies a table change as one undo step. A grid that cannot
// be re-flowed is left alone and the key falls through.
func applyTable(ctx *execctx.ExecutionContext, ch table.Change, err error, name string) handler.Result {
	if errors.Is(err, table.ErrMalformedGrid) {
		ctx.Log().Warn("%s: table left unchanged: %v", name, err)
		return handler.Passthrough()
	}
	if err != nil {
		return handler.Error(err)
	}
	opts := engine.NewUndoStep().Named(name).WithSelections([]cursor.Selection{ch.Selection})
	return handler.Apply(ctx, []buffer.Edit{ch.Edit}, opts)
}

// multi reports whether the engine holds more than one selection.
func multi(ctx *execctx.ExecutionContext) bool {
	return len(ctx.Engine.Selections()) > 1
}

func sortEdits(edits []buffer.Edit) []buffer.Edit {
	sort.SliceStable(edits, func(i, j int) bool {
		return edits[i].Range.Start.Before(edits[j].Range.Start)
	})
	return edits
}

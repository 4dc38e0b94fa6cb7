package cursor

import (
	"unicode/utf8"

	"github.com/dshills/rstedit/internal/dispatcher/execctx"
	"github.com/dshills/rstedit/internal/dispatcher/handler"
	"github.com/dshills/rstedit/internal/engine/buffer"
	"github.com/dshills/rstedit/internal/engine/cursor"
	"github.com/dshills/rstedit/internal/input"
)

// Action names for cursor movements.
const (
	ActionMoveLeft      = "cursor.moveLeft"
	ActionMoveRight     = "cursor.moveRight"
	ActionMoveUp        = "cursor.moveUp"
	ActionMoveDown      = "cursor.moveDown"
	ActionMoveLineStart = "cursor.moveLineStart"
	ActionMoveLineEnd   = "cursor.moveLineEnd"
	ActionMoveFirstLine = "cursor.moveFirstLine"
	ActionMoveLastLine  = "cursor.moveLastLine"
	ActionCollapse      = "cursor.collapse"
)

// Handler implements namespace-based cursor movement handling.
type Handler struct{}

// NewHandler creates a new cursor handler.
func NewHandler() *Handler {
	return &Handler{}
}

// Namespace returns the cursor namespace.
func (h *Handler) Namespace() string {
	return "cursor"
}

// CanHandle returns true if this handler can process the action.
func (h *Handler) CanHandle(actionName string) bool {
	switch actionName {
	case ActionMoveLeft, ActionMoveRight, ActionMoveUp, ActionMoveDown,
		ActionMoveLineStart, ActionMoveLineEnd, ActionMoveFirstLine, ActionMoveLastLine,
		ActionCollapse:
		return true
	}
	return false
}

// Actions lists the handled action names.
func (h *Handler) Actions() []string {
	return []string{
		ActionCollapse, ActionMoveDown, ActionMoveFirstLine, ActionMoveLastLine,
		ActionMoveLeft, ActionMoveLineEnd, ActionMoveLineStart, ActionMoveRight, ActionMoveUp,
	}
}

// motion maps a caret position to its target.
type motion func(doc buffer.Reader, p buffer.Position, count int) buffer.Position

// HandleAction processes a cursor action.
func (h *Handler) HandleAction(action input.Action, ctx *execctx.ExecutionContext) handler.Result {
	if err := ctx.Validate(); err != nil {
		return handler.Error(err)
	}

	var m motion
	switch action.Name {
	case ActionMoveLeft:
		m = moveLeft
	case ActionMoveRight:
		m = moveRight
	case ActionMoveUp:
		m = func(doc buffer.Reader, p buffer.Position, n int) buffer.Position {
			return moveVertical(doc, p, -n)
		}
	case ActionMoveDown:
		m = moveVertical
	case ActionMoveLineStart:
		m = func(_ buffer.Reader, p buffer.Position, _ int) buffer.Position {
			return buffer.Pos(p.Line, 0)
		}
	case ActionMoveLineEnd:
		m = func(doc buffer.Reader, p buffer.Position, _ int) buffer.Position {
			return buffer.Pos(p.Line, lineLen(doc, p.Line))
		}
	case ActionMoveFirstLine:
		m = func(buffer.Reader, buffer.Position, int) buffer.Position {
			return buffer.Pos(0, 0)
		}
	case ActionMoveLastLine:
		m = func(doc buffer.Reader, _ buffer.Position, _ int) buffer.Position {
			return buffer.Pos(doc.LineCount()-1, 0)
		}
	case ActionCollapse:
		m = func(_ buffer.Reader, p buffer.Position, _ int) buffer.Position { return p }
	default:
		return handler.Errorf("unknown cursor action: %s", action.Name)
	}

	extend := action.Args.GetBool("select")
	doc := ctx.Engine.Document()
	count := max(action.Count, ctx.GetCount())

	sels := ctx.Engine.Selections()
	out := make([]cursor.Selection, len(sels))
	for i, sel := range sels {
		target := m(doc, sel.Active, count)
		if extend {
			out[i] = sel.Extend(target)
		} else {
			out[i] = sel.MoveTo(target)
		}
	}
	if action.Name == ActionCollapse && len(out) > 1 {
		out = out[:1]
	}

	ctx.Engine.SetSelections(out)
	return handler.Success().WithSelections(ctx.Engine.Selections())
}

func lineLen(doc buffer.Reader, line int) int {
	return utf8.RuneCountInString(doc.LineText(line))
}

// moveLeft moves back count characters, crossing line breaks.
func moveLeft(doc buffer.Reader, p buffer.Position, count int) buffer.Position {
	for range count {
		switch {
		case p.Character > 0:
			p.Character--
		case p.Line > 0:
			p.Line--
			p.Character = lineLen(doc, p.Line)
		}
	}
	return p
}

// moveRight moves forward count characters, crossing line breaks.
func moveRight(doc buffer.Reader, p buffer.Position, count int) buffer.Position {
	last := doc.LineCount() - 1
	for range count {
		switch {
		case p.Character < lineLen(doc, p.Line):
			p.Character++
		case p.Line < last:
			p.Line++
			p.Character = 0
		}
	}
	return p
}

// moveVertical moves delta lines, keeping the column where the line
// allows.
func moveVertical(doc buffer.Reader, p buffer.Position, delta int) buffer.Position {
	line := min(max(p.Line+delta, 0), doc.LineCount()-1)
	return buffer.Pos(line, min(p.Character, lineLen(doc, line)))
}

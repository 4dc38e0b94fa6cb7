package rst

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/dshills/rstedit/internal/dispatcher/execctx"
	"github.com/dshills/rstedit/internal/dispatcher/handler"
	"github.com/dshills/rstedit/internal/engine"
	"github.com/dshills/rstedit/internal/engine/buffer"
	"github.com/dshills/rstedit/internal/engine/cursor"
	"github.com/dshills/rstedit/internal/input"
	"github.com/dshills/rstedit/internal/rst/listedit"
)

// applyList applies a list action together with the renumbering of the
// affected list as one batch and one undo step. An unhandled action passes
// through, except when it still asks for renumbering: then the selection
// is deleted here so the renumber pass can follow it.
func applyList(ctx *execctx.ExecutionContext, a listedit.Action, name string) handler.Result {
	if !a.Handled {
		if a.Renumber == listedit.RenumberNone {
			return handler.Passthrough()
		}
		sel := ctx.Engine.PrimarySelection()
		start := cursor.NewCursorSelection(sel.Start())
		a.Edits = []buffer.Edit{buffer.NewDelete(sel.Range())}
		a.Selection = &start
	}

	if ctx.DryRun {
		return previewList(ctx, a)
	}

	opts := engine.NewUndoStep().Named(name)
	p, err := planList(ctx, a)
	if err != nil {
		return handler.Error(err)
	}
	if len(p.follow) == 0 {
		if a.Selection != nil {
			opts = opts.WithSelections([]cursor.Selection{*a.Selection})
		}
		return handler.Apply(ctx, a.Edits, opts)
	}

	var edits []buffer.Edit
	if edit, ok := lineDiff(ctx.Engine.Document(), p.scratch); ok {
		edits = append(edits, edit)
	}
	res := handler.Apply(ctx, edits, opts.WithSelections([]cursor.Selection{p.sel}))
	if res.IsError() {
		return res
	}
	return res.WithData("renumbered", len(p.follow))
}

// listPlan is a list action and its renumbering worked out on a scratch
// copy of the document.
type listPlan struct {
	scratch *buffer.Document
	// follow holds the renumber edits, in coordinates of the document
	// after the action's own edits.
	follow []buffer.Edit
	// sel is the selection after both.
	sel cursor.Selection
}

func planList(ctx *execctx.ExecutionContext, a listedit.Action) (listPlan, error) {
	scratch := buffer.NewDocumentFromString(text(ctx.Engine.Document()))
	changes, err := scratch.ApplyEdits(a.Edits)
	if err != nil {
		return listPlan{}, fmt.Errorf("list edit: %w", err)
	}

	sel := cursor.TransformSelection(ctx.Engine.PrimarySelection(), changes)
	if a.Selection != nil {
		sel = *a.Selection
	}
	follow := listedit.FollowUp(scratch, sel, a, ctx.Settings.List)
	if len(follow) == 0 {
		return listPlan{scratch: scratch, sel: sel}, nil
	}
	if _, err := scratch.ApplyEdits(follow); err != nil {
		return listPlan{}, fmt.Errorf("renumber: %w", err)
	}

	sel = cursor.Selection{
		Anchor: pastMarkers(sel.Anchor, follow),
		Active: pastMarkers(sel.Active, follow),
	}
	return listPlan{scratch: scratch, follow: follow, sel: sel}, nil
}

// pastMarkers moves p across single-line marker replacements on its line.
// A position inside a replaced marker keeps its column, clamped to the new
// marker.
func pastMarkers(p buffer.Position, edits []buffer.Edit) buffer.Position {
	for _, e := range edits {
		r := e.Range
		if r.Start.Line != p.Line || r.Start.Character >= p.Character {
			continue
		}
		n := utf8.RuneCountInString(e.NewText)
		if r.End.Character <= p.Character {
			p.Character += n - (r.End.Character - r.Start.Character)
		} else {
			p.Character = min(p.Character, r.Start.Character+n)
		}
	}
	return p
}

// lineDiff returns one edit turning the lines of from into those of to,
// spanning only the lines that differ.
func lineDiff(from, to buffer.Reader) (buffer.Edit, bool) {
	n, m := from.LineCount(), to.LineCount()
	head := 0
	for head < n && head < m && from.LineText(head) == to.LineText(head) {
		head++
	}
	if head == n && head == m {
		return buffer.Edit{}, false
	}
	tail := 0
	for tail < n-head && tail < m-head && from.LineText(n-1-tail) == to.LineText(m-1-tail) {
		tail++
	}

	mid := make([]string, 0, m-head-tail)
	for l := head; l < m-tail; l++ {
		mid = append(mid, to.LineText(l))
	}
	repl := strings.Join(mid, "\n")
	width := func(l int) int { return utf8.RuneCountInString(from.LineText(l)) }

	switch last := n - tail - 1; {
	case last >= head && len(mid) > 0:
		return buffer.NewReplace(buffer.NewRange(head, 0, last, width(last)), repl), true
	case last >= head && last+1 < n:
		return buffer.NewDelete(buffer.NewRange(head, 0, last+1, 0)), true
	case last >= head:
		return buffer.NewDelete(buffer.NewRange(head-1, width(head-1), last, width(last))), true
	case head < n:
		return buffer.NewInsert(buffer.Pos(head, 0), repl+"\n"), true
	default:
		return buffer.NewInsert(buffer.Pos(head-1, width(head-1)), "\n"+repl), true
	}
}

// previewList reports a list action and its renumbering without touching
// the document. The renumber edits are in coordinates of the document
// after the action's own edits.
func previewList(ctx *execctx.ExecutionContext, a listedit.Action) handler.Result {
	p, err := planList(ctx, a)
	if err != nil {
		return handler.Error(fmt.Errorf("preview: %w", err))
	}
	res := handler.Success().WithEdits(a.Edits).WithEdits(p.follow).WithSelections([]cursor.Selection{p.sel})
	if len(res.Edits) == 0 {
		res.Status = handler.StatusNoOp
	}
	return res.WithData("renumbered", len(p.follow))
}

// text joins the lines of doc.
func text(doc buffer.Reader) string {
	lines := make([]string, doc.LineCount())
	for i := range lines {
		lines[i] = doc.LineText(i)
	}
	return strings.Join(lines, "\n")
}

func toggleTask(a input.Action, ctx *execctx.ExecutionContext) handler.Result {
	edits := listedit.ToggleTaskList(ctx.Engine.Document(), ctx.Engine.Selections())
	if len(edits) == 0 {
		return handler.NoOpWithMessage("no task item under the cursor")
	}
	return handler.Apply(ctx, edits, engine.NewUndoStep().Named("toggle task"))
}

func moveLines(up bool) actionFunc {
	return func(a input.Action, ctx *execctx.ExecutionContext) handler.Result {
		return applyList(ctx, listedit.MoveLines(ctx.Engine.Document(), ctx.Engine.PrimarySelection(), up), "move lines")
	}
}

func copyLines(up bool) actionFunc {
	return func(a input.Action, ctx *execctx.ExecutionContext) handler.Result {
		return applyList(ctx, listedit.CopyLines(ctx.Engine.Document(), ctx.Engine.PrimarySelection(), up), "copy lines")
	}
}

func indent(a input.Action, ctx *execctx.ExecutionContext) handler.Result {
	return applyList(ctx, listedit.Indent(ctx.Engine.Document(), ctx.Engine.PrimarySelection(), ctx.Settings.List), "indent")
}

func outdent(a input.Action, ctx *execctx.ExecutionContext) handler.Result {
	return applyList(ctx, listedit.Outdent(ctx.Engine.Document(), ctx.Engine.PrimarySelection(), ctx.Settings.List), "outdent")
}

// renumber fixes the ordered list at the cursor.
func renumber(a input.Action, ctx *execctx.ExecutionContext) handler.Result {
	doc := ctx.Engine.Document()
	start := listedit.StartLine(doc, ctx.Engine.PrimarySelection())
	edits := listedit.Renumber(doc, start, ctx.Settings.List)
	if len(edits) == 0 {
		return handler.NoOp()
	}
	return handler.Apply(ctx, edits, engine.NewUndoStep().Named("renumber"))
}

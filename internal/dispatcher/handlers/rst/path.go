package rst

import (
	"github.com/dshills/rstedit/internal/dispatcher/execctx"
	"github.com/dshills/rstedit/internal/dispatcher/handler"
	"github.com/dshills/rstedit/internal/engine"
	"github.com/dshills/rstedit/internal/engine/buffer"
	"github.com/dshills/rstedit/internal/input"
	"github.com/dshills/rstedit/internal/rst/paths"
)

// insertRelPath replaces the primary selection with the target path
// relative to the document's directory.
func insertRelPath(a input.Action, ctx *execctx.ExecutionContext) handler.Result {
	if ctx.FilePath == "" {
		return handler.Error(execctx.ErrMissingFilePath)
	}
	target := a.Args.GetString(ArgTarget)
	if target == "" {
		target = a.Args.Text
	}
	if target == "" {
		return handler.Errorf("insert path: no target")
	}

	rel, err := paths.Relative(ctx.FilePath, target, a.Args.GetBool(ArgWithExt))
	if err != nil {
		return handler.Error(err)
	}

	edits := []buffer.Edit{buffer.NewReplace(ctx.Engine.PrimarySelection().Range(), rel)}
	opts := engine.NewUndoStep().Named("insert path").WithSelections(handler.CaretsAfter(edits))
	return handler.Apply(ctx, edits, opts).WithData("path", rel)
}

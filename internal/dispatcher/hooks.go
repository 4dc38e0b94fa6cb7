package dispatcher

import (
	"github.com/dshills/rstedit/internal/dispatcher/execctx"
	"github.com/dshills/rstedit/internal/dispatcher/handler"
	"github.com/dshills/rstedit/internal/input"
)

// PreDispatchHook is called before an action is dispatched.
// Returning false cancels the dispatch.
type PreDispatchHook interface {
	// PreDispatch may modify the action or context.
	PreDispatch(action *input.Action, ctx *execctx.ExecutionContext) bool
}

// PostDispatchHook is called after an action is dispatched.
type PostDispatchHook interface {
	// PostDispatch may inspect or modify the result.
	PostDispatch(action *input.Action, ctx *execctx.ExecutionContext, result *handler.Result)
}

// PreDispatchFunc is a function adapter for PreDispatchHook.
type PreDispatchFunc func(action *input.Action, ctx *execctx.ExecutionContext) bool

// PreDispatch implements PreDispatchHook.
func (f PreDispatchFunc) PreDispatch(action *input.Action, ctx *execctx.ExecutionContext) bool {
	return f(action, ctx)
}

// PostDispatchFunc is a function adapter for PostDispatchHook.
type PostDispatchFunc func(action *input.Action, ctx *execctx.ExecutionContext, result *handler.Result)

// PostDispatch implements PostDispatchHook.
func (f PostDispatchFunc) PostDispatch(action *input.Action, ctx *execctx.ExecutionContext, result *handler.Result) {
	f(action, ctx, result)
}

// LoggingHook logs every dispatch through the context logger.
type LoggingHook struct{}

// PreDispatch logs the action being dispatched.
func (LoggingHook) PreDispatch(action *input.Action, ctx *execctx.ExecutionContext) bool {
	ctx.Log().Debug("dispatching action: %s (count=%d, source=%s)", action.Name, ctx.GetCount(), action.Source)
	return true
}

// PostDispatch logs the dispatch result.
func (LoggingHook) PostDispatch(action *input.Action, ctx *execctx.ExecutionContext, result *handler.Result) {
	if result.IsError() {
		ctx.Log().Warn("dispatch failed: %s: %v", action.Name, result.Error)
		return
	}
	ctx.Log().Debug("dispatch complete: %s -> %s (%d changes)", action.Name, result.Status, len(result.Changes))
}

// ReadOnlyHook cancels editing actions on a read-only engine.
type ReadOnlyHook struct {
	// Allowed lists actions that do not modify the document.
	Allowed map[string]bool
}

// PreDispatch cancels the action when the engine is read-only.
func (h ReadOnlyHook) PreDispatch(action *input.Action, ctx *execctx.ExecutionContext) bool {
	if !ctx.IsReadOnly() || h.Allowed[action.Name] {
		return true
	}
	ctx.Log().Info("read-only buffer, skipping %s", action.Name)
	return false
}

// CountLimitHook enforces a maximum repeat count.
type CountLimitHook struct {
	MaxCount int
}

// NewCountLimitHook creates a new count limit hook.
func NewCountLimitHook(maxCount int) *CountLimitHook {
	return &CountLimitHook{MaxCount: maxCount}
}

// PreDispatch limits the repeat count of the context and the action.
func (h *CountLimitHook) PreDispatch(action *input.Action, ctx *execctx.ExecutionContext) bool {
	if h.MaxCount <= 0 {
		return true
	}
	ctx.Count = min(ctx.Count, h.MaxCount)
	action.Count = min(action.Count, h.MaxCount)
	return true
}

// Package handler defines how actions are handled: the Handler and
// NamespaceHandler interfaces, adapters for plain functions, and the
// Result every handler returns.
package handler

import (
	"errors"
	"fmt"
	"sort"

	"github.com/dshills/rstedit/internal/dispatcher/execctx"
	"github.com/dshills/rstedit/internal/input"
)

// ErrUnknownAction is reported by a namespace handler asked to run an
// action it has no function for.
var ErrUnknownAction = errors.New("unknown action")

// Handler runs actions registered under an exact name.
type Handler interface {
	Handle(action input.Action, ctx *execctx.ExecutionContext) Result
	CanHandle(actionName string) bool
}

// Func adapts a function to Handler. It accepts every action; the
// registry decides which names reach it.
type Func func(action input.Action, ctx *execctx.ExecutionContext) Result

// Handle calls f.
func (f Func) Handle(action input.Action, ctx *execctx.ExecutionContext) Result {
	if f == nil {
		return Errorf("nil handler for %s", action.Name)
	}
	return f(action, ctx)
}

// CanHandle always reports true.
func (f Func) CanHandle(string) bool {
	return true
}

// Named returns a Handler accepting only the action name.
func Named(name string, fn Func) Handler {
	return named{name: name, fn: fn}
}

type named struct {
	name string
	fn   Func
}

func (n named) Handle(action input.Action, ctx *execctx.ExecutionContext) Result {
	return n.fn.Handle(action, ctx)
}

func (n named) CanHandle(actionName string) bool {
	return actionName == n.name
}

// NamespaceHandler serves every action of a namespace, the part of the
// name before the first dot ("rst" in "rst.bold").
type NamespaceHandler interface {
	HandleAction(action input.Action, ctx *execctx.ExecutionContext) Result
	CanHandle(actionName string) bool
	Namespace() string
}

// Namespaced exposes a namespace handler as a Handler.
func Namespaced(h NamespaceHandler) Handler {
	return namespaced{h}
}

type namespaced struct{ NamespaceHandler }

func (n namespaced) Handle(action input.Action, ctx *execctx.ExecutionContext) Result {
	return n.HandleAction(action, ctx)
}

// BaseNamespaceHandler is a NamespaceHandler backed by a table of action
// functions. Namespace packages embed it and register their actions.
type BaseNamespaceHandler struct {
	namespace string
	actions   map[string]Func
}

// NewBaseNamespaceHandler creates an empty handler for namespace.
func NewBaseNamespaceHandler(namespace string) *BaseNamespaceHandler {
	return &BaseNamespaceHandler{
		namespace: namespace,
		actions:   make(map[string]Func),
	}
}

// Register binds fn to the full action name, replacing an earlier one.
func (h *BaseNamespaceHandler) Register(actionName string, fn func(action input.Action, ctx *execctx.ExecutionContext) Result) {
	h.actions[actionName] = fn
}

// Namespace returns the namespace name.
func (h *BaseNamespaceHandler) Namespace() string {
	return h.namespace
}

// CanHandle reports whether an action function is registered.
func (h *BaseNamespaceHandler) CanHandle(actionName string) bool {
	_, ok := h.actions[actionName]
	return ok
}

// Actions returns the registered action names, sorted.
func (h *BaseNamespaceHandler) Actions() []string {
	names := make([]string, 0, len(h.actions))
	for name := range h.actions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// HandleAction runs the function registered for the action.
func (h *BaseNamespaceHandler) HandleAction(action input.Action, ctx *execctx.ExecutionContext) Result {
	fn, ok := h.actions[action.Name]
	if !ok {
		return Error(fmt.Errorf("%s: %w: %s", h.namespace, ErrUnknownAction, action.Name))
	}
	return fn(action, ctx)
}

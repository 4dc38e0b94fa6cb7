// Package dispatcher routes actions to handlers and coordinates execution.
package dispatcher

import (
	"fmt"
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/dshills/rstedit/internal/dispatcher/execctx"
	"github.com/dshills/rstedit/internal/dispatcher/handler"
	"github.com/dshills/rstedit/internal/input"
)

// SettingsProvider returns the settings snapshot for one dispatch.
type SettingsProvider func() execctx.Settings

// Dispatcher routes actions to handlers and coordinates execution.
type Dispatcher struct {
	mu sync.RWMutex

	// Core components
	registry *Registry
	router   *Router

	// Editor state
	engine   execctx.EngineInterface
	settings SettingsProvider
	logger   execctx.Logger
	filePath string

	// Configuration
	config Config

	// Metrics
	metrics *Metrics

	// Hooks
	preHooks  []PreDispatchHook
	postHooks []PostDispatchHook
}

// New creates a new dispatcher with the given configuration.
func New(config Config) *Dispatcher {
	d := &Dispatcher{
		registry: NewRegistry(),
		router:   NewRouter(),
		config:   config,
	}

	if config.EnableMetrics {
		d.metrics = NewMetrics()
	}
	if config.MaxRepeatCount > 0 {
		d.preHooks = append(d.preHooks, NewCountLimitHook(config.MaxRepeatCount))
	}

	return d
}

// NewWithDefaults creates a new dispatcher with default configuration.
func NewWithDefaults() *Dispatcher {
	return New(DefaultConfig())
}

// SetEngine sets the text engine.
func (d *Dispatcher) SetEngine(e execctx.EngineInterface) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.engine = e
}

// Engine returns the text engine.
func (d *Dispatcher) Engine() execctx.EngineInterface {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.engine
}

// SetSettingsProvider sets where settings are read from on every dispatch.
func (d *Dispatcher) SetSettingsProvider(p SettingsProvider) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.settings = p
}

// SetLogger sets the logger handed to handlers.
func (d *Dispatcher) SetLogger(l execctx.Logger) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.logger = l
}

// SetFilePath sets the path of the document being edited.
func (d *Dispatcher) SetFilePath(path string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.filePath = path
}

// SetPassthrough registers the action to run when the handler of action
// returns a passthrough result.
func (d *Dispatcher) SetPassthrough(action, fallback string) {
	d.router.SetPassthrough(action, fallback)
}

// Dispatch executes an action synchronously.
func (d *Dispatcher) Dispatch(action input.Action) handler.Result {
	return d.dispatchInternal(action, false)
}

// DryRun computes the edits of an action without applying them.
func (d *Dispatcher) DryRun(action input.Action) handler.Result {
	return d.dispatchInternal(action, true)
}

// dispatchInternal is the core dispatch logic.
func (d *Dispatcher) dispatchInternal(action input.Action, dryRun bool) handler.Result {
	startTime := time.Now()

	if action.Name == "" {
		return handler.Error(ErrInvalidAction)
	}

	ctx := d.buildContext()
	ctx.DryRun = dryRun
	if action.Count > 0 {
		ctx.Count = action.Count
	}

	if !d.runPreHooks(&action, ctx) {
		return handler.Error(fmt.Errorf("%w: %s", ErrActionCancelled, action.Name))
	}

	result := d.execute(action, ctx)

	if fallback, ok := d.router.Passthrough(action.Name); ok && result.IsPassthrough() {
		ctx.Log().Debug("passthrough %s -> %s", action.Name, fallback)
		fb := action
		fb.Name = fallback
		result = d.execute(fb, ctx)
	}

	d.runPostHooks(&action, ctx, &result)

	if d.metrics != nil {
		d.metrics.RecordDispatch(action.Name, time.Since(startTime), result.Status)
	}

	return result
}

// execute finds the handler for action and runs it.
func (d *Dispatcher) execute(action input.Action, ctx *execctx.ExecutionContext) handler.Result {
	h := d.router.Route(action.Name)
	if h == nil {
		h = d.registry.Get(action.Name)
	}
	if h == nil {
		return handler.Error(fmt.Errorf("%w: %s", ErrNoHandler, action.Name))
	}

	if d.config.RecoverFromPanic {
		return d.executeWithRecovery(h, action, ctx)
	}
	return h.Handle(action, ctx)
}

// executeWithRecovery executes a handler with panic recovery.
func (d *Dispatcher) executeWithRecovery(h handler.Handler, action input.Action, ctx *execctx.ExecutionContext) (result handler.Result) {
	defer func() {
		if r := recover(); r != nil {
			stack := make([]byte, 4096)
			n := runtime.Stack(stack, false)

			ctx.Log().Error("handler panic for %s: %v\n%s", action.Name, r, string(stack[:n]))
			result = handler.Error(fmt.Errorf("%w: %s: %v", ErrPanic, action.Name, r))

			if d.metrics != nil {
				d.metrics.RecordPanic(action.Name)
			}
		}
	}()

	return h.Handle(action, ctx)
}

// buildContext builds an execution context from current state.
func (d *Dispatcher) buildContext() *execctx.ExecutionContext {
	d.mu.RLock()
	defer d.mu.RUnlock()

	ctx := execctx.New().
		WithEngine(d.engine).
		WithLogger(d.logger).
		WithFilePath(d.filePath)
	if d.settings != nil {
		ctx.Settings = d.settings()
	}
	return ctx
}

// RegisterHandler registers a handler for an exact action name.
func (d *Dispatcher) RegisterHandler(actionName string, h handler.Handler) {
	d.registry.Register(actionName, h)
}

// RegisterNamespace registers a namespace handler.
func (d *Dispatcher) RegisterNamespace(namespace string, h handler.NamespaceHandler) {
	d.router.RegisterNamespace(namespace, h)
}

// UnregisterHandler removes a handler for an action name.
func (d *Dispatcher) UnregisterHandler(actionName string) {
	d.registry.Unregister(actionName)
}

// CanDispatch returns true if some handler accepts the action.
func (d *Dispatcher) CanDispatch(actionName string) bool {
	return d.router.CanRoute(actionName) || d.registry.Has(actionName)
}

// Actions returns every action name the dispatcher can route, sorted.
func (d *Dispatcher) Actions() []string {
	seen := make(map[string]bool)
	for _, name := range d.router.Actions() {
		seen[name] = true
	}
	for _, name := range d.registry.List() {
		seen[name] = true
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// RegisterPreHook registers a pre-dispatch hook.
func (d *Dispatcher) RegisterPreHook(hook PreDispatchHook) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.preHooks = append(d.preHooks, hook)
}

// RegisterPostHook registers a post-dispatch hook.
func (d *Dispatcher) RegisterPostHook(hook PostDispatchHook) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.postHooks = append(d.postHooks, hook)
}

// runPreHooks runs all pre-dispatch hooks.
// Returns false if any hook cancels the action.
func (d *Dispatcher) runPreHooks(action *input.Action, ctx *execctx.ExecutionContext) bool {
	d.mu.RLock()
	hooks := make([]PreDispatchHook, len(d.preHooks))
	copy(hooks, d.preHooks)
	d.mu.RUnlock()

	for _, h := range hooks {
		if !h.PreDispatch(action, ctx) {
			return false
		}
	}
	return true
}

// runPostHooks runs all post-dispatch hooks.
func (d *Dispatcher) runPostHooks(action *input.Action, ctx *execctx.ExecutionContext, result *handler.Result) {
	d.mu.RLock()
	hooks := make([]PostDispatchHook, len(d.postHooks))
	copy(hooks, d.postHooks)
	d.mu.RUnlock()

	for _, h := range hooks {
		h.PostDispatch(action, ctx, result)
	}
}

// Registry returns the handler registry.
func (d *Dispatcher) Registry() *Registry {
	return d.registry
}

// Router returns the action router.
func (d *Dispatcher) Router() *Router {
	return d.router
}

// Metrics returns the metrics collector (may be nil if disabled).
func (d *Dispatcher) Metrics() *Metrics {
	return d.metrics
}

// Config returns the dispatcher configuration.
func (d *Dispatcher) Config() Config {
	return d.config
}

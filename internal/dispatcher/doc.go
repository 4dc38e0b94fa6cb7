// Package dispatcher routes actions to handlers and coordinates execution.
//
// Actions come from key bindings, the command line and Lua scripts. They
// are routed in two tiers:
//
//  1. Namespace Router: actions are routed by the prefix before the first
//     dot ("rst.bold" goes to the "rst" namespace handler).
//
//  2. Handler Registry: an exact action name maps to one handler. Lua
//     commands register here.
//
// When an action is dispatched:
//
//  1. An ExecutionContext is built from the engine, a settings snapshot,
//     the logger and the document path
//  2. Pre-dispatch hooks run (they may modify or cancel the action)
//  3. The handler runs, with panic recovery unless disabled
//  4. A passthrough result runs the registered fallback action
//  5. Post-dispatch hooks run
//  6. Metrics are recorded (if enabled)
//
// # Usage
//
//	d := dispatcher.NewWithDefaults()
//	d.SetEngine(eng)
//	d.SetSettingsProvider(cfg.Snapshot)
//	rst.Register(d)
//
//	result := d.Dispatch(input.NewAction("rst.bold"))
//
// Hooks observe or cancel dispatches:
//
//	d.RegisterPreHook(dispatcher.PreDispatchFunc(func(action *input.Action, ctx *execctx.ExecutionContext) bool {
//	    return true
//	}))
package dispatcher

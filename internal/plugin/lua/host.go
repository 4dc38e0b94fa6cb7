package lua

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/rstedit/internal/dispatcher/execctx"
	"github.com/dshills/rstedit/internal/dispatcher/handler"
	"github.com/dshills/rstedit/internal/engine"
	"github.com/dshills/rstedit/internal/engine/buffer"
	"github.com/dshills/rstedit/internal/input"
)

// CommandPrefix is the namespace of actions registered by scripts.
const CommandPrefix = "script."

// ModuleName is the module scripts require to reach the editor.
const ModuleName = "rst"

// Dispatcher is the part of the action dispatcher the host uses.
type Dispatcher interface {
	RegisterHandler(actionName string, h handler.Handler)
	UnregisterHandler(actionName string)
	Dispatch(action input.Action) handler.Result
}

// Host runs user scripts in one sandboxed state and exposes their
// commands as dispatcher actions.
type Host struct {
	state      *State
	bridge     *Bridge
	dispatcher Dispatcher
	logger     execctx.Logger
	stateOpts  []StateOption

	// runMu serializes command invocations; current is only touched
	// while it is held or while a chunk is loading.
	runMu    sync.Mutex
	current  *invocation
	mu       sync.Mutex
	commands map[string]*lua.LFunction
	sources  map[string]string
	loading  string
}

// invocation is the state of one running script command.
type invocation struct {
	ctx     *execctx.ExecutionContext
	action  input.Action
	edits   []buffer.Edit
	changes []buffer.Change
	opened  bool
	moved   bool
}

// HostOption configures a Host.
type HostOption func(*Host)

// WithLogger sets the logger for script output and load errors.
func WithLogger(l execctx.Logger) HostOption {
	return func(h *Host) {
		if l != nil {
			h.logger = l
		}
	}
}

// WithStateOptions passes options to the underlying State.
func WithStateOptions(opts ...StateOption) HostOption {
	return func(h *Host) {
		h.stateOpts = append(h.stateOpts, opts...)
	}
}

// NewHost creates a host whose scripts register commands with d.
func NewHost(d Dispatcher, opts ...HostOption) (*Host, error) {
	h := &Host{
		dispatcher: d,
		logger:     nopLogger{},
		commands:   make(map[string]*lua.LFunction),
		sources:    make(map[string]string),
	}
	for _, opt := range opts {
		opt(h)
	}

	stateOpts := append([]StateOption{WithPrint(func(s string) {
		h.logger.Info("lua: %s", s)
	})}, h.stateOpts...)

	state, err := NewState(stateOpts...)
	if err != nil {
		return nil, fmt.Errorf("create lua state: %w", err)
	}
	h.state = state
	h.bridge = NewBridge(state.L)
	state.PreloadModule(ModuleName, h.moduleFuncs())
	return h, nil
}

// LoadDir runs every *.lua file in dir in name order. A missing
// directory loads nothing. A file that fails is logged and skipped; the
// failures are returned together.
func (h *Host) LoadDir(dir string) error {
	dir, err := ExpandHome(dir)
	if err != nil {
		return err
	}
	files, err := filepath.Glob(filepath.Join(dir, "*.lua"))
	if err != nil {
		return fmt.Errorf("list scripts: %w", err)
	}

	var errs []error
	for _, f := range files {
		if err := h.LoadFile(f); err != nil {
			h.logger.Error("%v", err)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// LoadFile runs one script file.
func (h *Host) LoadFile(path string) error {
	h.setLoading(filepath.Base(path))
	defer h.setLoading("")

	if err := h.state.DoFile(path); err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	h.logger.Debug("loaded script %s", path)
	return nil
}

// LoadString runs a chunk of Lua code. name labels commands it registers.
func (h *Host) LoadString(name, code string) error {
	h.setLoading(name)
	defer h.setLoading("")

	if err := h.state.DoString(code); err != nil {
		return fmt.Errorf("load %s: %w", name, err)
	}
	return nil
}

func (h *Host) setLoading(name string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.loading = name
}

// Commands returns the registered script action names, sorted.
func (h *Host) Commands() []string {
	h.mu.Lock()
	defer h.mu.Unlock()

	out := make([]string, 0, len(h.commands))
	for name := range h.commands {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Source returns the script that registered a command.
func (h *Host) Source(action string) string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.sources[action]
}

// Close unregisters every script command and closes the state.
func (h *Host) Close() error {
	for _, name := range h.Commands() {
		h.dispatcher.UnregisterHandler(name)
	}
	h.mu.Lock()
	h.commands = make(map[string]*lua.LFunction)
	h.sources = make(map[string]string)
	h.mu.Unlock()
	return h.state.Close()
}

// register binds fn to a script action, replacing an earlier binding of
// the same name.
func (h *Host) register(name string, fn *lua.LFunction) string {
	if !strings.HasPrefix(name, CommandPrefix) {
		name = CommandPrefix + name
	}

	h.mu.Lock()
	h.commands[name] = fn
	h.sources[name] = h.loading
	h.mu.Unlock()

	h.dispatcher.RegisterHandler(name, handler.Named(name, h.handle))
	return name
}

// handle runs the script function bound to a.Name.
func (h *Host) handle(a input.Action, ctx *execctx.ExecutionContext) handler.Result {
	h.mu.Lock()
	fn, ok := h.commands[a.Name]
	h.mu.Unlock()
	if !ok {
		return handler.Errorf("no script command %s", a.Name)
	}

	h.runMu.Lock()
	defer h.runMu.Unlock()

	inv := &invocation{ctx: ctx, action: a}
	h.current = inv
	defer func() { h.current = nil }()

	var ret []lua.LValue
	err := h.state.run(func() error {
		var err error
		ret, err = h.state.pcall(fn, []lua.LValue{h.actionTable(a)})
		return err
	})
	if err != nil {
		return handler.Error(fmt.Errorf("%s: %w", a.Name, err))
	}
	return inv.result(ret)
}

// actionTable converts an action to the table passed to a command.
func (h *Host) actionTable(a input.Action) *lua.LTable {
	t := h.L().CreateTable(0, 4)
	t.RawSetString("name", lua.LString(a.Name))
	t.RawSetString("text", lua.LString(a.Args.Text))
	t.RawSetString("count", lua.LNumber(max(a.Count, 1)))
	extra := make(map[string]any, len(a.Args.Extra))
	for k, v := range a.Args.Extra {
		extra[k] = v
	}
	t.RawSetString("args", h.bridge.ToLuaValue(extra))
	return t
}

// L returns the Lua state of the host.
func (h *Host) L() *lua.LState {
	return h.state.L
}

// result builds the handler result from what the command did and what it
// returned. Returning false declines; a string return becomes the
// status message.
func (inv *invocation) result(ret []lua.LValue) handler.Result {
	var msg string
	if len(ret) > 0 {
		if s, ok := ret[0].(lua.LString); ok {
			msg = string(s)
		}
		if ret[0] == lua.LFalse {
			if len(ret) > 1 {
				msg = ret[1].String()
			}
			return handler.NoOpWithMessage(msg)
		}
	}

	if len(inv.edits) == 0 && !inv.moved {
		return handler.NoOpWithMessage(msg)
	}
	r := handler.Success().WithMessage(msg).WithEdits(inv.edits).WithChanges(inv.changes)
	if inv.ctx.Engine != nil {
		r = r.WithSelections(inv.ctx.Engine.Selections())
	}
	return r
}

// apply applies edits for the running command. The first batch opens an
// undo step named after the action; later batches merge into it.
func (inv *invocation) apply(edits []buffer.Edit) error {
	if err := inv.ctx.ValidateForEdit(); err != nil {
		return err
	}
	inv.edits = append(inv.edits, edits...)
	if inv.ctx.DryRun {
		return nil
	}

	opts := engine.MergeUndoStep()
	if !inv.opened {
		opts = engine.NewUndoStep().Named(inv.action.Name)
	}
	changes, err := inv.ctx.Engine.Apply(edits, opts)
	if err != nil {
		return err
	}
	inv.opened = true
	inv.changes = append(inv.changes, changes...)
	return nil
}

// ExpandHome replaces a leading "~" with the user's home directory.
func ExpandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("expand %s: %w", path, err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}

// nopLogger discards everything.
type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Info(string, ...any)  {}
func (nopLogger) Warn(string, ...any)  {}
func (nopLogger) Error(string, ...any) {}

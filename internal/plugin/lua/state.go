package lua

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	lua "github.com/yuin/gopher-lua"
)

// Default limits for a Lua state.
const (
	DefaultExecutionTimeout = 2 * time.Second
	DefaultCallStackSize    = 256
)

// State wraps gopher-lua with a restricted library set and per-call
// timeouts.
//
// gopher-lua's LState is not goroutine-safe. Every entry point takes the
// state mutex, so Go functions called back from Lua must not re-enter the
// State.
type State struct {
	L *lua.LState

	mu sync.Mutex

	executionTimeout time.Duration
	callStackSize    int
	print            func(string)

	sandbox *Sandbox
	closed  bool
}

// StateOption configures a State.
type StateOption func(*State)

// WithExecutionTimeout sets the timeout for every chunk and call. Zero
// disables the timeout.
func WithExecutionTimeout(d time.Duration) StateOption {
	return func(s *State) {
		s.executionTimeout = d
	}
}

// WithCallStackSize bounds the Lua call stack.
func WithCallStackSize(n int) StateOption {
	return func(s *State) {
		if n > 0 {
			s.callStackSize = n
		}
	}
}

// WithPrint redirects the Lua print function.
func WithPrint(fn func(string)) StateOption {
	return func(s *State) {
		s.print = fn
	}
}

// NewState creates a new sandboxed Lua state.
func NewState(opts ...StateOption) (*State, error) {
	state := &State{
		executionTimeout: DefaultExecutionTimeout,
		callStackSize:    DefaultCallStackSize,
	}
	for _, opt := range opts {
		opt(state)
	}

	L := lua.NewState(lua.Options{
		SkipOpenLibs:  true,
		CallStackSize: state.callStackSize,
	})
	state.L = L

	openSafeLibraries(L)

	state.sandbox = NewSandbox(L, state.print)
	state.sandbox.Install()

	return state, nil
}

// openSafeLibraries opens only the libraries scripts may use. io, os and
// debug stay closed; package is opened for require and then locked down
// by the sandbox.
func openSafeLibraries(L *lua.LState) {
	for _, lib := range []struct {
		name string
		fn   lua.LGFunction
	}{
		{lua.LoadLibName, lua.OpenPackage},
		{lua.BaseLibName, lua.OpenBase},
		{lua.TabLibName, lua.OpenTable},
		{lua.StringLibName, lua.OpenString},
		{lua.MathLibName, lua.OpenMath},
	} {
		L.Push(L.NewFunction(lib.fn))
		L.Push(lua.LString(lib.name))
		L.Call(1, 0)
	}
}

// DoFile executes a Lua file.
func (s *State) DoFile(path string) error {
	return s.run(func() error {
		return s.L.DoFile(path)
	})
}

// DoString executes a Lua chunk.
func (s *State) DoString(code string) error {
	return s.run(func() error {
		return s.L.DoString(code)
	})
}

// Call calls a global Lua function with the given arguments.
// Returns an empty slice (not nil) if the function returns no values.
func (s *State) Call(fn string, args ...lua.LValue) ([]lua.LValue, error) {
	var results []lua.LValue
	err := s.run(func() error {
		fnVal := s.L.GetGlobal(fn)
		f, ok := fnVal.(*lua.LFunction)
		if !ok {
			return fmt.Errorf("%q is not a function (got %s)", fn, fnVal.Type())
		}
		var err error
		results, err = s.pcall(f, args)
		return err
	})
	return results, err
}

// CallFunction calls a Lua function value.
func (s *State) CallFunction(fn *lua.LFunction, args ...lua.LValue) ([]lua.LValue, error) {
	var results []lua.LValue
	err := s.run(func() error {
		var err error
		results, err = s.pcall(fn, args)
		return err
	})
	return results, err
}

// pcall calls fn and collects the values it returns. The caller holds
// the mutex.
func (s *State) pcall(fn *lua.LFunction, args []lua.LValue) ([]lua.LValue, error) {
	top := s.L.GetTop()

	s.L.Push(fn)
	for _, arg := range args {
		s.L.Push(arg)
	}
	if err := s.L.PCall(len(args), lua.MultRet, nil); err != nil {
		return nil, err
	}

	n := s.L.GetTop() - top
	results := make([]lua.LValue, 0, max(n, 0))
	for i := 1; i <= n; i++ {
		results = append(results, s.L.Get(top+i))
	}
	if n > 0 {
		s.L.Pop(n)
	}
	return results, nil
}

// run executes fn under the mutex with the execution timeout installed
// and panics recovered.
func (s *State) run(fn func() error) (err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStateClosed
	}

	ctx := context.Background()
	if s.executionTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.executionTimeout)
		defer cancel()
		s.L.SetContext(ctx)
		defer s.L.RemoveContext()
	}

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("lua panic: %v", r)
		}
		if err != nil && errors.Is(ctx.Err(), context.DeadlineExceeded) {
			err = fmt.Errorf("%w after %s", ErrExecutionTimeout, s.executionTimeout)
		}
	}()
	return fn()
}

// GetGlobal returns a global variable value.
func (s *State) GetGlobal(name string) lua.LValue {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return lua.LNil
	}
	return s.L.GetGlobal(name)
}

// SetGlobal sets a global variable.
func (s *State) SetGlobal(name string, value lua.LValue) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.L.SetGlobal(name, value)
}

// PreloadModule makes a module available to require. The module table is
// also bound to the global of the same name.
func (s *State) PreloadModule(name string, funcs map[string]lua.LGFunction) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}

	mod := s.L.SetFuncs(s.L.NewTable(), funcs)
	s.L.PreloadModule(name, func(L *lua.LState) int {
		L.Push(mod)
		return 1
	})
	s.L.SetGlobal(name, mod)
	s.sandbox.Allow(name)
}

// LuaState returns the underlying gopher-lua state. Access through it
// bypasses the mutex and the timeout.
func (s *State) LuaState() *lua.LState {
	return s.L
}

// IsClosed returns true if the state has been closed.
func (s *State) IsClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// Close releases all resources associated with the Lua state.
// After Close is called, all other methods will return ErrStateClosed.
func (s *State) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}

	s.L.Close()
	s.closed = true
	return nil
}

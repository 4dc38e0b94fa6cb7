package lua

import (
	"strings"

	lua "github.com/yuin/gopher-lua"
)

// Sandbox restricts what scripts can reach: no file loading, no module
// search path, and require limited to the safe libraries and the modules
// the editor preloads.
type Sandbox struct {
	L       *lua.LState
	print   func(string)
	allowed map[string]bool
}

// NewSandbox creates a sandbox for L. print receives the output of the
// Lua print function; nil keeps the default.
func NewSandbox(L *lua.LState, print func(string)) *Sandbox {
	return &Sandbox{
		L:     L,
		print: print,
		allowed: map[string]bool{
			"string": true,
			"table":  true,
			"math":   true,
		},
	}
}

// Install sets up the sandbox restrictions.
func (s *Sandbox) Install() {
	for _, name := range []string{"dofile", "loadfile", "load", "loadstring", "module"} {
		s.L.SetGlobal(name, lua.LNil)
	}

	s.installPrint()
	s.installSafeRequire()
}

// Allow permits require of a preloaded module.
func (s *Sandbox) Allow(module string) {
	s.allowed[module] = true
}

// Allowed reports whether require may load module.
func (s *Sandbox) Allowed(module string) bool {
	return s.allowed[module]
}

// installPrint replaces print with one that writes to the sandbox output.
func (s *Sandbox) installPrint() {
	if s.print == nil {
		return
	}
	s.L.SetGlobal("print", s.L.NewFunction(func(L *lua.LState) int {
		n := L.GetTop()
		parts := make([]string, n)
		for i := 1; i <= n; i++ {
			parts[i-1] = L.ToStringMeta(L.Get(i)).String()
		}
		s.print(strings.Join(parts, "\t"))
		return 0
	}))
}

// installSafeRequire clears the module search paths and wraps require so
// that only allowed modules load.
func (s *Sandbox) installSafeRequire() {
	if pkg, ok := s.L.GetGlobal("package").(*lua.LTable); ok {
		s.L.SetField(pkg, "path", lua.LString(""))
		s.L.SetField(pkg, "cpath", lua.LString(""))
	}

	original := s.L.GetGlobal("require")
	s.L.SetGlobal("require", s.L.NewFunction(func(L *lua.LState) int {
		name := L.CheckString(1)
		if !s.allowed[name] {
			L.RaiseError("module %q is not available", name)
			return 0
		}
		L.Push(original)
		L.Push(lua.LString(name))
		L.Call(1, 1)
		return 1
	}))
}

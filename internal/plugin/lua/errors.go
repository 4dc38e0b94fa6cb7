package lua

import "errors"

// Errors for Lua state operations.
var (
	// ErrStateClosed is returned when operating on a closed state.
	ErrStateClosed = errors.New("lua state is closed")

	// ErrExecutionTimeout is returned when a chunk or call runs past the
	// execution timeout.
	ErrExecutionTimeout = errors.New("lua execution timeout")

	// ErrNoDocument is raised by document functions called while no
	// command is running.
	ErrNoDocument = errors.New("no document: not inside a command")

	// ErrNestedScript is raised when a script command dispatches another
	// script command.
	ErrNestedScript = errors.New("script commands cannot dispatch script commands")
)

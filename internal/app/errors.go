package app

import (
	"errors"
	"fmt"
)

// Application errors.
var (
	// ErrUnknownAction is returned when no handler serves an action.
	ErrUnknownAction = errors.New("unknown action")

	// ErrNoFile indicates the document has no file to save to.
	ErrNoFile = errors.New("document has no file")

	// ErrUnsavedChanges indicates there are unsaved changes.
	ErrUnsavedChanges = errors.New("unsaved changes")
)

// OperationError records a failed operation on a target such as a file.
type OperationError struct {
	Op     string // e.g. "open", "save", "run"
	Target string // e.g. a file path or an action name
	Err    error
}

// NewOperationError creates a new OperationError.
func NewOperationError(op, target string, err error) *OperationError {
	return &OperationError{Op: op, Target: target, Err: err}
}

func (e *OperationError) Error() string {
	msg := e.Op
	if e.Target != "" {
		msg = fmt.Sprintf("%s %s", e.Op, e.Target)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *OperationError) Unwrap() error {
	return e.Err
}

// InitError reports a component that failed to start.
type InitError struct {
	Component string
	Err       error
}

func (e *InitError) Error() string {
	return fmt.Sprintf("init %s: %v", e.Component, e.Err)
}

func (e *InitError) Unwrap() error {
	return e.Err
}

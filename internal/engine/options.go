package engine

import (
	"github.com/dshills/rstedit/internal/engine/buffer"
	"github.com/dshills/rstedit/internal/engine/history"
)

// Default configuration values.
const (
	DefaultTabWidth       = 4
	DefaultMaxUndoEntries = history.DefaultMaxEntries
)

// Option configures an Engine during creation.
type Option func(*Engine)

// WithContent sets the initial content of the engine.
func WithContent(content string) Option {
	return func(e *Engine) {
		e.initContent = content
	}
}

// WithTabWidth sets the tab width for the engine.
func WithTabWidth(width int) Option {
	return func(e *Engine) {
		if width > 0 {
			e.tabWidth = width
		}
	}
}

// WithLineEnding sets the line ending style for the engine.
func WithLineEnding(ending buffer.LineEnding) Option {
	return func(e *Engine) {
		e.lineEnding = ending
		e.lineEndingSet = true
	}
}

// WithMaxUndoEntries sets the maximum number of undo history entries.
func WithMaxUndoEntries(max int) Option {
	return func(e *Engine) {
		if max > 0 {
			e.maxUndoEntries = max
		}
	}
}

// WithReadOnly creates a read-only engine.
// Apply returns ErrReadOnly.
func WithReadOnly() Option {
	return func(e *Engine) {
		e.readOnly = true
	}
}

// ApplyOptions controls how an applied batch joins the undo history.
type ApplyOptions struct {
	// UndoStopBefore starts a new undo step. When false, the batch merges
	// into the previous step.
	UndoStopBefore bool

	// UndoStopAfter closes the step. When false, the next batch merges
	// into this one.
	UndoStopAfter bool

	// Name labels the undo step.
	Name string

	// Selections replaces the selections after the batch. When nil, the
	// current selections are mapped through the batch.
	Selections []Selection
}

// NewUndoStep returns options for a batch that forms its own undo step.
func NewUndoStep() ApplyOptions {
	return ApplyOptions{UndoStopBefore: true, UndoStopAfter: true}
}

// MergeUndoStep returns options for a batch that joins the previous step.
func MergeUndoStep() ApplyOptions {
	return ApplyOptions{UndoStopBefore: false, UndoStopAfter: true}
}

// Named returns a copy of o with the given undo step name.
func (o ApplyOptions) Named(name string) ApplyOptions {
	o.Name = name
	return o
}

// WithSelections returns a copy of o that sets sels after the batch.
func (o ApplyOptions) WithSelections(sels []Selection) ApplyOptions {
	o.Selections = sels
	return o
}

// Package execctx provides the execution context for action handlers.
package execctx

import (
	"github.com/dshills/rstedit/internal/engine"
	"github.com/dshills/rstedit/internal/engine/buffer"
	"github.com/dshills/rstedit/internal/engine/cursor"
	"github.com/dshills/rstedit/internal/rst/listedit"
	"github.com/dshills/rstedit/internal/rst/table"
)

// EngineInterface abstracts the text engine for handlers.
type EngineInterface interface {
	// Read operations
	Document() buffer.Reader
	Snapshot() *buffer.Snapshot
	IsReadOnly() bool

	// Write operations
	Apply(edits []buffer.Edit, opts engine.ApplyOptions) ([]buffer.Change, error)
	Undo() error
	Redo() error

	// Selections
	Selections() []cursor.Selection
	PrimarySelection() cursor.Selection
	SetSelections(sels []cursor.Selection)
}

// Logger is the logging surface handlers use.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// nopLogger discards everything.
type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Info(string, ...any)  {}
func (nopLogger) Warn(string, ...any)  {}
func (nopLogger) Error(string, ...any) {}

// Settings is the configuration snapshot handlers read.
type Settings struct {
	List  listedit.Settings
	Table table.Options
}

// DefaultSettings returns the built-in settings.
func DefaultSettings() Settings {
	return Settings{
		List:  listedit.DefaultSettings(),
		Table: table.DefaultOptions(),
	}
}

// ExecutionContext provides context for action execution.
type ExecutionContext struct {
	// Engine provides access to the document, selections and history.
	Engine EngineInterface

	// Settings is read once per dispatch.
	Settings Settings

	// Logger receives handler diagnostics.
	Logger Logger

	// Buffer metadata
	FilePath string

	// Execution options
	Count  int  // Repeat count (1 if not specified)
	DryRun bool // If true, edits are computed but not applied

	// Data holds handler-specific context data.
	Data map[string]interface{}
}

// New creates a new execution context.
func New() *ExecutionContext {
	return &ExecutionContext{
		Settings: DefaultSettings(),
		Logger:   nopLogger{},
		Count:    1,
		Data:     make(map[string]interface{}),
	}
}

// WithEngine returns the context with the engine set.
func (ctx *ExecutionContext) WithEngine(e EngineInterface) *ExecutionContext {
	ctx.Engine = e
	return ctx
}

// WithSettings returns the context with settings set.
func (ctx *ExecutionContext) WithSettings(s Settings) *ExecutionContext {
	ctx.Settings = s
	return ctx
}

// WithLogger returns the context with the logger set.
func (ctx *ExecutionContext) WithLogger(l Logger) *ExecutionContext {
	if l != nil {
		ctx.Logger = l
	}
	return ctx
}

// WithFilePath returns the context with the document path set.
func (ctx *ExecutionContext) WithFilePath(path string) *ExecutionContext {
	ctx.FilePath = path
	return ctx
}

// WithCount returns the context with repeat count set.
func (ctx *ExecutionContext) WithCount(count int) *ExecutionContext {
	if count > 0 {
		ctx.Count = count
	}
	return ctx
}

// WithDryRun returns the context with dry run mode enabled.
func (ctx *ExecutionContext) WithDryRun(dryRun bool) *ExecutionContext {
	ctx.DryRun = dryRun
	return ctx
}

// GetCount returns the repeat count, defaulting to 1.
func (ctx *ExecutionContext) GetCount() int {
	if ctx.Count <= 0 {
		return 1
	}
	return ctx.Count
}

// Log returns the context logger, never nil.
func (ctx *ExecutionContext) Log() Logger {
	if ctx.Logger == nil {
		return nopLogger{}
	}
	return ctx.Logger
}

// HasSelection returns true if any selection is non-empty.
func (ctx *ExecutionContext) HasSelection() bool {
	if ctx.Engine == nil {
		return false
	}
	for _, sel := range ctx.Engine.Selections() {
		if !sel.IsEmpty() {
			return true
		}
	}
	return false
}

// IsReadOnly returns true if the buffer is read-only.
func (ctx *ExecutionContext) IsReadOnly() bool {
	return ctx.Engine != nil && ctx.Engine.IsReadOnly()
}

// SetData sets a context data value.
func (ctx *ExecutionContext) SetData(key string, value interface{}) {
	if ctx.Data == nil {
		ctx.Data = make(map[string]interface{})
	}
	ctx.Data[key] = value
}

// GetData retrieves a context data value.
func (ctx *ExecutionContext) GetData(key string) (interface{}, bool) {
	if ctx.Data == nil {
		return nil, false
	}
	v, ok := ctx.Data[key]
	return v, ok
}

// GetDataString retrieves a string value from context data.
func (ctx *ExecutionContext) GetDataString(key string) string {
	if v, ok := ctx.GetData(key); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// Validate checks that the context has all required components.
func (ctx *ExecutionContext) Validate() error {
	if ctx.Engine == nil {
		return ErrMissingEngine
	}
	return nil
}

// ValidateForEdit checks that the context is valid for editing operations.
func (ctx *ExecutionContext) ValidateForEdit() error {
	if err := ctx.Validate(); err != nil {
		return err
	}
	if ctx.IsReadOnly() {
		return ErrReadOnly
	}
	return nil
}

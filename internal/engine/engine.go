package engine

import (
	"io"
	"sync"

	"github.com/dshills/rstedit/internal/engine/buffer"
	"github.com/dshills/rstedit/internal/engine/cursor"
	"github.com/dshills/rstedit/internal/engine/history"
)

// Re-export commonly used types for convenience.
type (
	// Position is a line/character position.
	Position = buffer.Position

	// Range is a half-open span between two positions.
	Range = buffer.Range

	// Edit replaces a range with new text.
	Edit = buffer.Edit

	// Change records an applied edit.
	Change = buffer.Change

	// Selection represents a caret or selected range.
	Selection = cursor.Selection

	// LineEnding specifies the line ending style.
	LineEnding = buffer.LineEnding

	// RevisionID identifies a document revision.
	RevisionID = buffer.RevisionID
)

// Re-export constants.
const (
	LineEndingLF   = buffer.LineEndingLF
	LineEndingCRLF = buffer.LineEndingCRLF
	LineEndingCR   = buffer.LineEndingCR
)

// Engine is the facade over document, selections and undo history.
type Engine struct {
	mu sync.RWMutex

	doc     *buffer.Document
	sels    *cursor.Set
	history *history.History

	// openStep is set when the last batch was applied without an undo
	// stop after it.
	openStep bool

	// Configuration
	tabWidth       int
	lineEnding     buffer.LineEnding
	lineEndingSet  bool
	maxUndoEntries int
	readOnly       bool

	initContent string
}

func newEngine(opts []Option) *Engine {
	e := &Engine{
		tabWidth:       DefaultTabWidth,
		lineEnding:     buffer.LineEndingLF,
		maxUndoEntries: DefaultMaxUndoEntries,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.sels = cursor.NewSet(cursor.At(0, 0))
	e.history = history.New(e.maxUndoEntries)
	return e
}

func (e *Engine) docOptions() []buffer.Option {
	return []buffer.Option{
		buffer.WithTabWidth(e.tabWidth),
		buffer.WithLineEnding(e.lineEnding),
	}
}

// New creates a new Engine with the given options.
func New(opts ...Option) *Engine {
	e := newEngine(opts)
	e.doc = buffer.NewDocumentFromString(e.initContent, e.docOptions()...)
	return e
}

// NewFromReader creates an Engine from an io.Reader. Unless WithLineEnding
// is given, the line ending is detected from the content.
func NewFromReader(r io.Reader, opts ...Option) (*Engine, error) {
	e := newEngine(opts)

	docOpts := []buffer.Option{buffer.WithTabWidth(e.tabWidth)}
	if e.lineEndingSet {
		docOpts = append(docOpts, buffer.WithLineEnding(e.lineEnding))
	}
	doc, err := buffer.NewDocumentFromReader(r, docOpts...)
	if err != nil {
		return nil, err
	}
	e.doc = doc
	e.lineEnding = doc.LineEnding()
	return e, nil
}

// Read Operations

// Document returns read access to the document.
func (e *Engine) Document() buffer.Reader {
	return e.doc
}

// Snapshot returns a read-only snapshot of the document.
func (e *Engine) Snapshot() *buffer.Snapshot {
	return e.doc.Snapshot()
}

// Text returns the full document content.
func (e *Engine) Text() string {
	return e.doc.Text()
}

// LineCount returns the number of lines.
func (e *Engine) LineCount() int {
	return e.doc.LineCount()
}

// LineText returns the text of a line without its line break.
func (e *Engine) LineText(line int) string {
	return e.doc.LineText(line)
}

// TextRange returns the text in r.
func (e *Engine) TextRange(r Range) string {
	return e.doc.TextRange(r)
}

// RevisionID returns the current document revision.
func (e *Engine) RevisionID() RevisionID {
	return e.doc.RevisionID()
}

// LineEnding returns the document's line ending.
func (e *Engine) LineEnding() LineEnding {
	return e.doc.LineEnding()
}

// TabWidth returns the configured tab width.
func (e *Engine) TabWidth() int {
	return e.doc.TabWidth()
}

// IsReadOnly reports whether the engine rejects edits.
func (e *Engine) IsReadOnly() bool {
	return e.readOnly
}

// Write Operations

// Apply applies edits as one atomic batch and records it in the undo
// history. Every range refers to the document before the batch. On error
// nothing changes.
func (e *Engine) Apply(edits []Edit, opts ApplyOptions) ([]Change, error) {
	if e.readOnly {
		return nil, ErrReadOnly
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	batch := make([]Edit, 0, len(edits))
	for _, ed := range edits {
		if !ed.IsNoOp() {
			batch = append(batch, ed)
		}
	}

	if len(batch) == 0 {
		if opts.Selections != nil {
			e.sels.SetAll(opts.Selections)
		}
		return nil, nil
	}

	before := e.sels.All()
	changes, err := e.doc.ApplyEdits(batch)
	if err != nil {
		return nil, err
	}

	if opts.Selections != nil {
		e.sels.SetAll(opts.Selections)
	} else {
		cursor.TransformSet(e.sels, changes)
	}
	e.sels.Clamp(e.doc)

	merge := !opts.UndoStopBefore || e.openStep
	e.history.Record(opts.Name, changes, before, e.sels.All(), merge)
	e.openStep = !opts.UndoStopAfter

	return changes, nil
}

// SetText replaces the whole document and clears the undo history.
func (e *Engine) SetText(text string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.doc.SetText(text)
	e.history.Clear()
	e.openStep = false
	e.sels.Reset(cursor.At(0, 0))
}

// Undo/Redo

// Undo reverts the newest undo step.
func (e *Engine) Undo() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.openStep = false
	if err := e.history.Undo(e.doc, e.sels); err != nil {
		return err
	}
	e.sels.Clamp(e.doc)
	return nil
}

// Redo re-applies the newest undone step.
func (e *Engine) Redo() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.openStep = false
	if err := e.history.Redo(e.doc, e.sels); err != nil {
		return err
	}
	e.sels.Clamp(e.doc)
	return nil
}

// CanUndo returns true if undo is available.
func (e *Engine) CanUndo() bool {
	return e.history.CanUndo()
}

// CanRedo returns true if redo is available.
func (e *Engine) CanRedo() bool {
	return e.history.CanRedo()
}

// UndoCount returns the number of undo steps.
func (e *Engine) UndoCount() int {
	return e.history.UndoCount()
}

// BeginUndoGroup starts a group; every batch until EndUndoGroup forms a
// single undo step.
func (e *Engine) BeginUndoGroup(name string) {
	e.history.BeginGroup(name)
}

// EndUndoGroup ends the current group.
func (e *Engine) EndUndoGroup() {
	e.history.EndGroup()
}

// UndoInfo describes the available undo steps, oldest first.
func (e *Engine) UndoInfo() []history.OperationInfo {
	return e.history.UndoInfo()
}

// Selections

// Selections returns a copy of all selections, primary first.
func (e *Engine) Selections() []Selection {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.sels.All()
}

// PrimarySelection returns the primary selection.
func (e *Engine) PrimarySelection() Selection {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.sels.Primary()
}

// SetSelections replaces all selections, clamped to the document.
func (e *Engine) SetSelections(sels []Selection) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.sels.SetAll(sels)
	e.sels.Clamp(e.doc)
	e.openStep = false
}

// SetSelection replaces all selections with one.
func (e *Engine) SetSelection(sel Selection) {
	e.SetSelections([]Selection{sel})
}

// AddSelection adds a selection.
func (e *Engine) AddSelection(sel Selection) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.sels.Add(sel.Clamp(e.doc))
}

// ClearSecondary removes all selections except the primary.
func (e *Engine) ClearSecondary() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.sels.Clear()
}

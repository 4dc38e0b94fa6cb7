package history

import (
	"errors"
	"sync"

	"github.com/dshills/rstedit/internal/engine/buffer"
	"github.com/dshills/rstedit/internal/engine/cursor"
)

// Common errors for history operations.
var (
	ErrNothingToUndo = errors.New("nothing to undo")
	ErrNothingToRedo = errors.New("nothing to redo")
)

// DefaultMaxEntries is used when a non-positive limit is given.
const DefaultMaxEntries = 1000

// History manages undo/redo state for a document.
type History struct {
	mu sync.Mutex

	undoStack []*Entry
	redoStack []*Entry

	// Grouping state
	grouping  bool
	groupName string
	group     *Entry

	maxEntries int
}

// New creates a history manager keeping at most maxEntries undo entries.
func New(maxEntries int) *History {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	return &History{maxEntries: maxEntries}
}

// Record adds an applied batch to the history and clears the redo stack.
// With merge set, the batch joins the newest undo entry when there is one.
func (h *History) Record(name string, changes []buffer.Change, before, after []Selection, merge bool) {
	if len(changes) == 0 {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	h.redoStack = nil

	if h.grouping {
		if h.group == nil {
			h.group = newEntry(h.groupName, changes, before, after)
		} else {
			h.group.merge(changes, after)
		}
		return
	}

	if merge && len(h.undoStack) > 0 {
		h.undoStack[len(h.undoStack)-1].merge(changes, after)
		return
	}

	h.pushLocked(newEntry(name, changes, before, after))
}

// pushLocked adds an entry without acquiring the lock.
func (h *History) pushLocked(e *Entry) {
	h.undoStack = append(h.undoStack, e)

	if len(h.undoStack) > h.maxEntries {
		excess := len(h.undoStack) - h.maxEntries
		h.undoStack = h.undoStack[excess:]
	}
}

// Undo reverts the newest entry and restores the selections it started with.
// The lock is released while the document is edited.
func (h *History) Undo(a Applier, sels *cursor.Set) error {
	h.mu.Lock()
	if len(h.undoStack) == 0 {
		h.mu.Unlock()
		return ErrNothingToUndo
	}
	entry := h.undoStack[len(h.undoStack)-1]
	h.undoStack = h.undoStack[:len(h.undoStack)-1]
	h.mu.Unlock()

	if err := entry.undo(a); err != nil {
		h.mu.Lock()
		h.undoStack = append(h.undoStack, entry)
		h.mu.Unlock()
		return err
	}

	if sels != nil && len(entry.Before) > 0 {
		sels.SetAll(entry.Before)
	}

	h.mu.Lock()
	h.redoStack = append(h.redoStack, entry)
	h.mu.Unlock()
	return nil
}

// Redo re-applies the newest undone entry.
func (h *History) Redo(a Applier, sels *cursor.Set) error {
	h.mu.Lock()
	if len(h.redoStack) == 0 {
		h.mu.Unlock()
		return ErrNothingToRedo
	}
	entry := h.redoStack[len(h.redoStack)-1]
	h.redoStack = h.redoStack[:len(h.redoStack)-1]
	h.mu.Unlock()

	if err := entry.redo(a); err != nil {
		h.mu.Lock()
		h.redoStack = append(h.redoStack, entry)
		h.mu.Unlock()
		return err
	}

	if sels != nil && len(entry.After) > 0 {
		sels.SetAll(entry.After)
	}

	h.mu.Lock()
	h.undoStack = append(h.undoStack, entry)
	h.mu.Unlock()
	return nil
}

// CanUndo returns true if undo is available.
func (h *History) CanUndo() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.undoStack) > 0
}

// CanRedo returns true if redo is available.
func (h *History) CanRedo() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.redoStack) > 0
}

// UndoCount returns the number of undo entries.
func (h *History) UndoCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.undoStack)
}

// RedoCount returns the number of redo entries.
func (h *History) RedoCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.redoStack)
}

// Clear removes all undo/redo history.
func (h *History) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.undoStack = nil
	h.redoStack = nil
	h.grouping = false
	h.group = nil
}

// UndoInfo returns info about available undo entries, oldest first.
func (h *History) UndoInfo() []OperationInfo {
	h.mu.Lock()
	defer h.mu.Unlock()

	out := make([]OperationInfo, len(h.undoStack))
	for i, e := range h.undoStack {
		out[i] = e.info()
	}
	return out
}

// PeekUndo returns info about the next undo entry without removing it.
func (h *History) PeekUndo() (OperationInfo, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.undoStack) == 0 {
		return OperationInfo{}, false
	}
	return h.undoStack[len(h.undoStack)-1].info(), true
}

// PeekRedo returns info about the next redo entry without removing it.
func (h *History) PeekRedo() (OperationInfo, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.redoStack) == 0 {
		return OperationInfo{}, false
	}
	return h.redoStack[len(h.redoStack)-1].info(), true
}

// SetMaxEntries changes the maximum number of undo entries.
// If the current stack is larger, oldest entries are removed.
func (h *History) SetMaxEntries(max int) {
	if max <= 0 {
		max = DefaultMaxEntries
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	h.maxEntries = max
	if len(h.undoStack) > max {
		h.undoStack = h.undoStack[len(h.undoStack)-max:]
	}
}

// MaxEntries returns the maximum number of undo entries.
func (h *History) MaxEntries() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.maxEntries
}

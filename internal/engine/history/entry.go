package history

import (
	"time"

	"github.com/google/uuid"

	"github.com/dshills/rstedit/internal/engine/buffer"
	"github.com/dshills/rstedit/internal/engine/cursor"
)

// Selection is an alias for cursor.Selection for convenience.
type Selection = cursor.Selection

// Applier applies an edit batch atomically.
type Applier interface {
	ApplyEdits(edits []buffer.Edit) ([]buffer.Change, error)
}

// Entry is one undo unit.
type Entry struct {
	ID        uuid.UUID
	Name      string
	Batches   [][]buffer.Change
	Before    []Selection
	After     []Selection
	Timestamp time.Time
}

func newEntry(name string, changes []buffer.Change, before, after []Selection) *Entry {
	return &Entry{
		ID:        uuid.New(),
		Name:      name,
		Batches:   [][]buffer.Change{changes},
		Before:    cloneSelections(before),
		After:     cloneSelections(after),
		Timestamp: time.Now(),
	}
}

// merge appends a batch to the entry.
func (e *Entry) merge(changes []buffer.Change, after []Selection) {
	e.Batches = append(e.Batches, changes)
	e.After = cloneSelections(after)
	e.Timestamp = time.Now()
}

// ChangeCount returns the number of changes across all batches.
func (e *Entry) ChangeCount() int {
	n := 0
	for _, b := range e.Batches {
		n += len(b)
	}
	return n
}

// undo reverts the entry's batches, newest first.
// If a batch fails, batches already reverted are re-applied.
func (e *Entry) undo(a Applier) error {
	for i := len(e.Batches) - 1; i >= 0; i-- {
		batch := e.Batches[i]
		inverse := make([]buffer.Edit, len(batch))
		for j, ch := range batch {
			inverse[j] = ch.Invert()
		}
		if _, err := a.ApplyEdits(inverse); err != nil {
			e.replay(a, i+1)
			return err
		}
	}
	return nil
}

// redo re-applies the entry's batches, oldest first.
func (e *Entry) redo(a Applier) error {
	return e.replay(a, 0)
}

func (e *Entry) replay(a Applier, from int) error {
	for _, batch := range e.Batches[from:] {
		edits := make([]buffer.Edit, len(batch))
		for j, ch := range batch {
			edits[j] = ch.ToEdit()
		}
		if _, err := a.ApplyEdits(edits); err != nil {
			return err
		}
	}
	return nil
}

// OperationInfo describes an entry for display.
type OperationInfo struct {
	ID          uuid.UUID
	Description string
	Changes     int
	Timestamp   time.Time
}

func (e *Entry) info() OperationInfo {
	return OperationInfo{
		ID:          e.ID,
		Description: e.Name,
		Changes:     e.ChangeCount(),
		Timestamp:   e.Timestamp,
	}
}

func cloneSelections(sels []Selection) []Selection {
	if sels == nil {
		return nil
	}
	out := make([]Selection, len(sels))
	copy(out, sels)
	return out
}

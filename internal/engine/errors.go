package engine

import (
	"errors"

	"github.com/dshills/rstedit/internal/engine/buffer"
	"github.com/dshills/rstedit/internal/engine/history"
)

// Errors returned by engine operations.
var (
	// ErrPositionOutOfRange indicates a position outside the document.
	ErrPositionOutOfRange = buffer.ErrPositionOutOfRange

	// ErrRangeInvalid indicates a range with end before start.
	ErrRangeInvalid = buffer.ErrRangeInvalid

	// ErrEditsOverlap indicates two edits of a batch overlap.
	ErrEditsOverlap = buffer.ErrEditsOverlap

	// ErrNothingToUndo indicates the undo stack is empty.
	ErrNothingToUndo = history.ErrNothingToUndo

	// ErrNothingToRedo indicates the redo stack is empty.
	ErrNothingToRedo = history.ErrNothingToRedo

	// ErrReadOnly indicates an edit was attempted on a read-only engine.
	ErrReadOnly = errors.New("engine is read-only")
)

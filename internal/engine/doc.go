// Package engine provides the editing engine that rst commands run against.
//
// An Engine combines a line-based buffer.Document, the multi-selection
// state of the editor and the undo history. Commands read the document,
// compute a batch of edits against that pre-batch state, then call Apply
// once:
//
//	e := engine.New(engine.WithContent("plain text"))
//	e.SetSelections([]engine.Selection{cursor.At(0, 6)})
//
//	_, err := e.Apply(edits, engine.NewUndoStep())
//
// # Undo Steps
//
// ApplyOptions carries two flags. UndoStopBefore=false merges the batch into
// the previous undo step; UndoStopAfter=false lets the next batch merge into
// this one. Follow-up passes such as list renumbering use MergeUndoStep so a
// single undo reverts the edit and the pass together.
//
// # Atomicity
//
// Apply validates every range and rejects overlapping edits before the
// document is touched. A rejected batch leaves document, selections and
// history unchanged.
//
// # Thread Safety
//
// All Engine methods are safe for concurrent use.
package engine

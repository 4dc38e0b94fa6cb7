// Package history provides undo/redo for the editing engine.
//
// Every applied edit batch is recorded as a list of buffer.Change values.
// An Entry groups one or more batches that undo together, along with the
// selections before and after, and carries a unique ID.
//
//	h := history.New(1000)
//	h.Record("Bold", changes, before, after, false)
//	h.Undo(doc, sels)
//
// # Merging
//
// Record with merge set appends the batch to the newest entry instead of
// starting a new one. Edit commands use it for follow-up batches such as a
// list renumber pass that must undo together with the edit that caused it.
//
// # Grouping
//
// BeginGroup/EndGroup collect every batch recorded in between into a single
// entry:
//
//	defer h.GroupScope("Table: add row").End()
package history

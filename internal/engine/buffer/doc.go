// Package buffer provides the line-based document model used by the editing
// engine and by the reStructuredText editing commands.
//
// The buffer package provides:
//
//   - Thread-safe read/write access via sync.RWMutex
//   - Line/character positions (character offsets count runes)
//   - Atomic multi-range edits: a batch is validated as a whole before any
//     line is touched, so a rejected batch never partially applies
//   - Change records in post-edit coordinates for undo/redo
//   - Read-only snapshots that share storage with the document
//   - Line ending detection and normalization
//
// Basic usage:
//
//	doc := buffer.NewDocumentFromString("1. a\n3. b")
//
//	changes, err := doc.ApplyEdits([]buffer.Edit{
//	    buffer.NewReplace(buffer.NewRange(1, 0, 1, 1), "2"),
//	})
//
//	snap := doc.Snapshot()
//	fmt.Println(snap.LineText(1)) // "2. b"
//
// Algorithms that only read lines accept the Reader interface, which is
// implemented by Document, Snapshot and the Lines helper type.
package buffer

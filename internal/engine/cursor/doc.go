// Package cursor provides selection state for the editing engine.
//
// A Selection uses the anchor/active model: Anchor is where the selection
// started and Active is where the caret is. When the two are equal the
// selection is a plain caret. Positions are line/character pairs from the
// buffer package.
//
// Set holds one or more selections kept sorted by start position and merged
// when they overlap. The first selection is the primary one.
//
// After an edit batch has been applied, TransformSet moves every selection
// through the batch's changes:
//
//	changes, _ := doc.ApplyEdits(edits)
//	cursor.TransformSet(set, changes)
//
// Selection is an immutable value type. Set is not thread-safe; the engine
// guards it with its own lock.
package cursor

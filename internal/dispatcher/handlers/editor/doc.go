// Package editor provides the plain text editing handlers that run when no
// reStructuredText behavior applies: typing, newline, tab, deletion and
// undo/redo. Every handler works on all selections as one edit batch.
//
// Register with the dispatcher:
//
//	d.RegisterNamespace("edit", editor.New())
//
// Dispatch:
//
//	d.Dispatch(input.NewAction(editor.ActionType).WithText("hello"))
package editor

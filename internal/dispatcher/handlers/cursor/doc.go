// Package cursor provides handlers for caret movement.
//
// Every movement applies to all selections. With the "select" argument
// set, the active end moves and the anchor stays, extending the selection:
//
//	d.Dispatch(input.NewAction(cursor.ActionMoveRight).WithArg("select", true))
package cursor

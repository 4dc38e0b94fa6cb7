// Package input defines the actions that flow from key bindings, the
// command line and Lua scripts into the dispatcher.
//
// An action is a dotted name such as "rst.table.create" with optional
// arguments:
//
//	a := input.NewAction("rst.table.create").
//		WithArg("rows", 3).
//		WithArg("cols", 2).
//		FromSource(input.SourceCommand)
//
// The key bindings that produce actions live in the keymap subpackage.
package input

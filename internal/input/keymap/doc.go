// Package keymap maps key presses to dispatcher actions.
//
// Keys are written in readable or Vim notation and normalized to one
// canonical form:
//
//	"Ctrl+B"     -> "ctrl+b"
//	"<C-b>"      -> "ctrl+b"
//	"Shift+Tab"  -> "shift+tab"
//	"<A-CR>"     -> "alt+enter"
//
// A binding may carry a condition over named context flags:
//
//	Binding{Keys: "enter", Action: "rst.key.enter", When: "!editorReadonly"}
//
// Usage:
//
//	km := keymap.Default()
//	if action, ok := km.Lookup("ctrl+b", keymap.Context{}); ok {
//		d.Dispatch(action)
//	}
package keymap

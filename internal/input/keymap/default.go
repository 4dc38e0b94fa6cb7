package keymap

// Default returns the built-in bindings of the terminal editor.
func Default() *Keymap {
	k := New("default")
	for _, b := range defaultBindings {
		if err := k.AddBinding(b); err != nil {
			panic(err)
		}
	}
	return k
}

const editable = "!" + FlagReadOnly

var defaultBindings = []Binding{
	// Movement
	{Keys: "left", Action: "cursor.moveLeft"},
	{Keys: "right", Action: "cursor.moveRight"},
	{Keys: "up", Action: "cursor.moveUp"},
	{Keys: "down", Action: "cursor.moveDown"},
	{Keys: "home", Action: "cursor.moveLineStart"},
	{Keys: "end", Action: "cursor.moveLineEnd"},
	{Keys: "ctrl+home", Action: "cursor.moveFirstLine"},
	{Keys: "ctrl+end", Action: "cursor.moveLastLine"},
	{Keys: "shift+left", Action: "cursor.moveLeft", Args: map[string]any{"select": true}},
	{Keys: "shift+right", Action: "cursor.moveRight", Args: map[string]any{"select": true}},
	{Keys: "shift+up", Action: "cursor.moveUp", Args: map[string]any{"select": true}},
	{Keys: "shift+down", Action: "cursor.moveDown", Args: map[string]any{"select": true}},
	{Keys: "shift+home", Action: "cursor.moveLineStart", Args: map[string]any{"select": true}},
	{Keys: "shift+end", Action: "cursor.moveLineEnd", Args: map[string]any{"select": true}},
	{Keys: "esc", Action: "cursor.collapse"},

	// Plain editing
	{Keys: "delete", Action: "edit.deleteRight", When: editable},
	{Keys: "ctrl+z", Action: "edit.undo", When: editable},
	{Keys: "ctrl+y", Action: "edit.redo", When: editable},

	// reStructuredText keys
	{Keys: "enter", Action: "rst.key.enter", When: editable, Description: "Continue list or table gesture"},
	{Keys: "shift+enter", Action: "rst.key.shiftEnter", When: editable},
	{Keys: "ctrl+enter", Action: "rst.key.ctrlEnter", When: editable},
	{Keys: "alt+enter", Action: "rst.key.altEnter", When: editable, Description: "Split table cell"},
	{Keys: "tab", Action: "rst.key.tab", When: editable},
	{Keys: "shift+tab", Action: "rst.key.shiftTab", When: editable},
	{Keys: "backspace", Action: "rst.key.backspace", When: editable},

	// reStructuredText commands
	{Keys: "ctrl+b", Action: "rst.bold", When: editable},
	{Keys: "alt+i", Action: "rst.italic", When: editable},
	{Keys: "alt+l", Action: "rst.inlineRaw", When: editable},
	{Keys: "alt+c", Action: "rst.list.toggleTask", When: editable},
	{Keys: "alt+up", Action: "rst.list.moveUp", When: editable},
	{Keys: "alt+down", Action: "rst.list.moveDown", When: editable},
	{Keys: "alt+shift+up", Action: "rst.list.copyUp", When: editable},
	{Keys: "alt+shift+down", Action: "rst.list.copyDown", When: editable},
	{Keys: "alt+]", Action: "rst.list.indent", When: editable},
	{Keys: "alt+[", Action: "rst.list.outdent", When: editable},
	{Keys: "alt+n", Action: "rst.list.renumber", When: editable},
	{Keys: "alt+h", Action: "rst.heading.underline", When: editable},
	{Keys: "alt+shift+h", Action: "rst.heading.underlineReverse", When: editable},
	{Keys: "alt+t", Action: "rst.table.create", When: editable + " && !" + FlagTableSelected},
	{Keys: "alt+shift+t", Action: "rst.table.fromData", When: editable + " && " + FlagHasSelection},

	// Application
	{Keys: "ctrl+s", Action: "app.save"},
	{Keys: "ctrl+q", Action: "app.quit"},
}

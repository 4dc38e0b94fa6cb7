package input

// ActionSource indicates where an action originated.
type ActionSource uint8

const (
	// SourceKeyboard indicates the action came from a key binding.
	SourceKeyboard ActionSource = iota
	// SourceCommand indicates the action came from the command line.
	SourceCommand
	// SourceScript indicates the action came from a Lua script.
	SourceScript
	// SourceInternal indicates the action was generated by the editor.
	SourceInternal
)

// String returns a human-readable name for the source.
func (s ActionSource) String() string {
	switch s {
	case SourceKeyboard:
		return "keyboard"
	case SourceCommand:
		return "command"
	case SourceScript:
		return "script"
	case SourceInternal:
		return "internal"
	default:
		return "unknown"
	}
}

// ActionArgs holds arguments for an action.
type ActionArgs struct {
	// Text for insert operations and data conversion.
	Text string

	// Extra holds additional key-value pairs for extensibility.
	Extra map[string]interface{}
}

// Get retrieves a value from Extra.
func (a ActionArgs) Get(key string) (interface{}, bool) {
	if a.Extra == nil {
		return nil, false
	}
	v, ok := a.Extra[key]
	return v, ok
}

// GetString retrieves a string value from Extra.
func (a ActionArgs) GetString(key string) string {
	if v, ok := a.Get(key); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// GetInt retrieves an int value from Extra.
func (a ActionArgs) GetInt(key string) int {
	if v, ok := a.Get(key); ok {
		switch n := v.(type) {
		case int:
			return n
		case int64:
			return int(n)
		case float64:
			return int(n)
		}
	}
	return 0
}

// GetBool retrieves a bool value from Extra.
func (a ActionArgs) GetBool(key string) bool {
	if v, ok := a.Get(key); ok {
		if b, ok := v.(bool); ok {
			return b
		}
	}
	return false
}

// Action represents a command to be executed by the dispatcher.
type Action struct {
	// Name is the command identifier (e.g., "rst.bold", "rst.key.enter").
	Name string

	// Args contains command-specific arguments.
	Args ActionArgs

	// Source indicates where this action originated.
	Source ActionSource

	// Count is the repeat count. Zero means once.
	Count int
}

// NewAction creates an action with the given name.
func NewAction(name string) Action {
	return Action{Name: name}
}

// WithCount returns a copy of the action with the specified count.
func (a Action) WithCount(count int) Action {
	a.Count = count
	return a
}

// WithText returns a copy of the action with the text argument set.
func (a Action) WithText(text string) Action {
	a.Args.Text = text
	return a
}

// WithArg returns a copy of the action with an extra argument set.
func (a Action) WithArg(key string, value interface{}) Action {
	extra := make(map[string]interface{}, len(a.Args.Extra)+1)
	for k, v := range a.Args.Extra {
		extra[k] = v
	}
	extra[key] = value
	a.Args.Extra = extra
	return a
}

// FromSource returns a copy of the action with the source set.
func (a Action) FromSource(src ActionSource) Action {
	a.Source = src
	return a
}

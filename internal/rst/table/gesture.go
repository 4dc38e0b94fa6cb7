package table

// GestureKind is the structural operation an Enter keystroke requests.
type GestureKind uint8

const (
	SelectDown GestureKind = iota
	AddRow
	AddColumn
	RemoveRow
	RemoveColumn
	MoveColumnRight
	MoveColumnLeft
	MoveRowUp
	MoveRowDown
)

var gestureNames = [...]string{
	SelectDown:      "selectDown",
	AddRow:          "addRow",
	AddColumn:       "addColumn",
	RemoveRow:       "removeRow",
	RemoveColumn:    "removeColumn",
	MoveColumnRight: "moveColumnRight",
	MoveColumnLeft:  "moveColumnLeft",
	MoveRowUp:       "moveRowUp",
	MoveRowDown:     "moveRowDown",
}

func (k GestureKind) String() string {
	if int(k) < len(gestureNames) {
		return gestureNames[k]
	}
	return "unknown"
}

// Gesture is a classified Enter keystroke.
type Gesture struct {
	Kind GestureKind

	// Trigger is the number of typed gesture runes right before the
	// cursor. They are removed from the grid by the operation.
	Trigger int

	// AtPipe is set when the gesture rune sits right before a '|'
	// rather than right after one.
	AtPipe bool
}

// Classify inspects the runes around char on line. Add row wins over add
// column, then remove, move column right and left, move row up and down;
// anything else selects the cell below.
func Classify(line string, char int) Gesture {
	rs := []rune(line)
	c := min(max(char, 0), len(rs))
	atEnd := c == len(rs)

	var prev, post rune
	var prev2 string
	if c >= 1 {
		prev = rs[c-1]
	}
	if c >= 2 {
		prev2 = string(rs[c-2 : c])
	}
	if c < len(rs) {
		post = rs[c]
	}

	afterPipe := func(r rune) bool { return prev2 == "|"+string(r) }
	beforePipe := func(r rune) bool { return prev == r && post == '|' }
	doubled := func(r rune) bool { return prev2 == string(r)+string(r) }

	typed := func(k GestureKind, r rune) Gesture {
		return Gesture{Kind: k, Trigger: 1, AtPipe: !afterPipe(r)}
	}

	switch {
	case atEnd && prev == '|':
		return Gesture{Kind: AddRow}

	case afterPipe('+') || beforePipe('+'):
		return typed(AddColumn, '+')

	case afterPipe('-') || beforePipe('-'):
		if atEnd || len(rs) >= 2 && rs[0] == '-' && rs[1] == '|' {
			return typed(RemoveRow, '-')
		}
		return typed(RemoveColumn, '-')

	case afterPipe('>') || doubled('>') || beforePipe('>'):
		return typed(MoveColumnRight, '>')

	case afterPipe('<') || doubled('<') || beforePipe('<'):
		return typed(MoveColumnLeft, '<')

	case afterPipe('^') || doubled('^') || beforePipe('^'):
		return typed(MoveRowUp, '^')

	case afterPipe('v') || doubled('v') || beforePipe('v'):
		return typed(MoveRowDown, 'v')
	}

	return Gesture{Kind: SelectDown}
}

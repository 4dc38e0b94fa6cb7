package decoration

import "fmt"

// Kind identifies a decoration marker.
type Kind uint8

const (
	Bold Kind = iota
	Italic
	InlineLiteral
)

// Marker returns the marker text for the kind.
func (k Kind) Marker() string {
	switch k {
	case Italic:
		return "*"
	case InlineLiteral:
		return "``"
	default:
		return "**"
	}
}

// String returns the command name of the kind.
func (k Kind) String() string {
	switch k {
	case Bold:
		return "bold"
	case Italic:
		return "italic"
	case InlineLiteral:
		return "inlineRaw"
	default:
		return fmt.Sprintf("Kind(%d)", k)
	}
}

// ParseKind parses a kind name. Both "inlineRaw" and "literal" name
// InlineLiteral.
func ParseKind(name string) (Kind, bool) {
	switch name {
	case "bold", "strong":
		return Bold, true
	case "italic", "emphasis":
		return Italic, true
	case "inlineRaw", "literal":
		return InlineLiteral, true
	}
	return 0, false
}

// Side tells which end of a span a marker rune sits on.
type Side uint8

const (
	NoSide Side = iota
	Front
	Back
)

// String returns the side name.
func (s Side) String() string {
	switch s {
	case Front:
		return "front"
	case Back:
		return "back"
	default:
		return "none"
	}
}

// Elem is one rune of a tagged line: either plain text or a marker rune
// with its side.
type Elem struct {
	Char rune
	Deco bool
	Side Side
}

// Plain returns a plain element.
func Plain(r rune) Elem {
	return Elem{Char: r}
}

// Deco returns a marker element.
func Deco(r rune, side Side) Elem {
	return Elem{Char: r, Deco: true, Side: side}
}

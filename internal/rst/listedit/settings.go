package listedit

import (
	"fmt"
	"strconv"
	"strings"
)

// MarkerStyle selects how new enumerated items are numbered.
type MarkerStyle string

const (
	// MarkerOrdered numbers items 1, 2, 3...
	MarkerOrdered MarkerStyle = "ordered"
	// MarkerOne numbers every item 1.
	MarkerOne MarkerStyle = "one"
)

// ParseMarkerStyle parses "ordered" or "one".
func ParseMarkerStyle(s string) (MarkerStyle, error) {
	switch MarkerStyle(strings.ToLower(strings.TrimSpace(s))) {
	case MarkerOrdered:
		return MarkerOrdered, nil
	case MarkerOne:
		return MarkerOne, nil
	}
	return "", fmt.Errorf("invalid marker style %q", s)
}

// IndentationSize is either adaptive or a fixed number of spaces.
type IndentationSize struct {
	Adaptive bool
	Spaces   int
}

// Adaptive is the adaptive indentation size.
var Adaptive = IndentationSize{Adaptive: true}

// ParseIndentationSize parses "adaptive" or a positive integer.
func ParseIndentationSize(s string) (IndentationSize, error) {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, "adaptive") {
		return Adaptive, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return IndentationSize{}, fmt.Errorf("invalid indentation size %q", s)
	}
	return IndentationSize{Spaces: n}, nil
}

// String returns "adaptive" or the number of spaces.
func (s IndentationSize) String() string {
	if s.Adaptive {
		return "adaptive"
	}
	return strconv.Itoa(s.Spaces)
}

// Settings holds the options the list commands read.
type Settings struct {
	Marker       MarkerStyle
	AutoRenumber bool
	Indentation  IndentationSize

	// TabSize is the fallback indentation when adaptive indentation
	// finds no list item to align with.
	TabSize int
}

// DefaultSettings returns the default list settings.
func DefaultSettings() Settings {
	return Settings{
		Marker:       MarkerOrdered,
		AutoRenumber: true,
		Indentation:  Adaptive,
		TabSize:      4,
	}
}

func (s Settings) tabSize() int {
	if s.TabSize <= 0 {
		return 4
	}
	return s.TabSize
}

package listedit

import (
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/dshills/rstedit/internal/engine/buffer"
	"github.com/dshills/rstedit/internal/engine/cursor"
)

// Modifier is the key modifier held with Enter.
type Modifier uint8

const (
	NoModifier Modifier = iota
	// Shift inserts a plain line break.
	Shift
	// Ctrl continues the list below the current line regardless of the
	// cursor column.
	Ctrl
)

var (
	reEmptyItem  = regexp.MustCompile(`^(>|([-+*•‣⁃]|[0-9]+[.)]|#.)( +\[[ x]\])?)$`)
	reQuote      = regexp.MustCompile(`^> `)
	reBulletHead = regexp.MustCompile(`^(\s*([-+*•‣⁃]|#.) +(\[[ x]\] +)?)`)
	reOrderHead  = regexp.MustCompile(`^(\s*)([0-9]+)([.)])( +)((\[[ x]\] +)?)`)
)

// OnEnter computes the list continuation for Enter pressed with the given
// selection. Unhandled actions mean a plain line break.
func OnEnter(doc buffer.Reader, sel cursor.Selection, mod Modifier, s Settings) Action {
	if mod == Shift {
		return unhandled()
	}

	pos := sel.Active
	text := doc.LineText(pos.Line)
	rs := []rune(text)
	c := min(max(pos.Character, 0), len(rs))
	before := string(rs[:c])
	after := string(rs[c:])
	lineLen := len(rs)

	if isThematicBreak(text) {
		return unhandled()
	}

	breakAt := pos
	if mod == Ctrl {
		breakAt = buffer.Pos(pos.Line, lineLen)
	}

	continueWith := func(prefix string, mode RenumberMode) Action {
		edit := buffer.NewInsert(breakAt, "\n"+prefix)
		return handled([]buffer.Edit{edit}, caret(pos.Line+1, utf8.RuneCountInString(prefix)), mode)
	}

	if reEmptyItem.MatchString(strings.TrimSpace(before)) && strings.TrimSpace(after) == "" {
		// An empty item ends the list: clear it and break the line.
		edit := buffer.NewReplace(buffer.NewRange(pos.Line, 0, pos.Line, lineLen), "\n")
		return handled([]buffer.Edit{edit}, caret(pos.Line+1, 0), RenumberNextMarker)
	}

	if reQuote.MatchString(before) {
		return continueWith("> ", RenumberNone)
	}

	if m := reBulletHead.FindStringSubmatch(before); m != nil {
		return continueWith(strings.Replace(m[1], "[x]", "[ ]", 1), RenumberNone)
	}

	if m := reOrderHead.FindStringSubmatch(before); m != nil {
		leading, digits, delim, trailing, task := m[1], m[2], m[3], m[4], m[5]

		marker := "1"
		if s.Marker == MarkerOrdered {
			if n, err := strconv.Atoi(digits); err == nil {
				marker = strconv.Itoa(n + 1)
			}
		}
		textIndent := len(digits) + len(delim) + len(trailing)
		pad := max(1, textIndent-len(marker)-len(delim))
		task = strings.Replace(task, "[x]", "[ ]", 1)

		return continueWith(leading+marker+delim+strings.Repeat(" ", pad)+task, RenumberAtSelection)
	}

	return unhandled()
}

// isThematicBreak reports whether line is a run of three or more '-' or
// '*', ignoring whitespace.
func isThematicBreak(line string) bool {
	compact := strings.Join(strings.Fields(line), "")
	if len(compact) <= 2 {
		return false
	}
	return strings.Trim(compact, "-") == "" || strings.Trim(compact, "*") == ""
}

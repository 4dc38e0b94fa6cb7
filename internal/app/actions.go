package app

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dshills/rstedit/internal/config"
	"github.com/dshills/rstedit/internal/engine/buffer"
	"github.com/dshills/rstedit/internal/engine/cursor"
	"github.com/dshills/rstedit/internal/input"
)

// ParseAction parses a command-line action such as
// "rst.table.create rows=3 cols=2". The text argument fills the action
// text; other arguments are typed with config.ParseValue. In the text,
// \n and \t stand for a newline and a tab.
func ParseAction(spec string) (input.Action, error) {
	fields := strings.Fields(spec)
	if len(fields) == 0 {
		return input.Action{}, fmt.Errorf("empty action")
	}

	a := input.NewAction(fields[0])
	for _, f := range fields[1:] {
		key, value, ok := strings.Cut(f, "=")
		if !ok || key == "" {
			return input.Action{}, fmt.Errorf("action %s: argument %q is not key=value", fields[0], f)
		}
		if key == "text" {
			a = a.WithText(unescape(value))
			continue
		}
		a = a.WithArg(key, config.ParseValue(value))
	}
	return a, nil
}

var unescaper = strings.NewReplacer(`\n`, "\n", `\t`, "\t", `\s`, " ", `\\`, `\`)

func unescape(s string) string {
	return unescaper.Replace(s)
}

// ParseSelection parses "line:col" or "line:col-line:col" with one-based
// numbers into a selection. The second form selects from the first
// position to the second.
func ParseSelection(spec string) (cursor.Selection, error) {
	from, to, isRange := strings.Cut(spec, "-")

	anchor, err := parsePosition(from)
	if err != nil {
		return cursor.Selection{}, err
	}
	if !isRange {
		return cursor.NewSelection(anchor, anchor), nil
	}

	active, err := parsePosition(to)
	if err != nil {
		return cursor.Selection{}, err
	}
	return cursor.NewSelection(anchor, active), nil
}

func parsePosition(s string) (buffer.Position, error) {
	ls, cs, ok := strings.Cut(s, ":")
	if !ok {
		cs = "1"
	}
	line, err := strconv.Atoi(strings.TrimSpace(ls))
	if err != nil || line < 1 {
		return buffer.Position{}, fmt.Errorf("invalid line in %q", s)
	}
	col, err := strconv.Atoi(strings.TrimSpace(cs))
	if err != nil || col < 1 {
		return buffer.Position{}, fmt.Errorf("invalid column in %q", s)
	}
	return buffer.Pos(line-1, col-1), nil
}

// Select sets the selections of the document, clamped to its text.
func (a *App) Select(sels ...cursor.Selection) {
	doc := a.doc.Engine.Document()
	clamped := make([]cursor.Selection, len(sels))
	for i, s := range sels {
		clamped[i] = cursor.NewSelection(clamp(doc, s.Anchor), clamp(doc, s.Active))
	}
	a.doc.Engine.SetSelections(clamped)
}

func clamp(doc buffer.Reader, p buffer.Position) buffer.Position {
	line := min(max(p.Line, 0), doc.LineCount()-1)
	n := len([]rune(doc.LineText(line)))
	return buffer.Pos(line, min(max(p.Character, 0), n))
}

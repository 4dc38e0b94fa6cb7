package terminal

import (
	"fmt"
	"path/filepath"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/uniseg"

	"github.com/dshills/rstedit/internal/engine/buffer"
	"github.com/dshills/rstedit/internal/engine/cursor"
	"github.com/dshills/rstedit/internal/rst/table"
	"github.com/dshills/rstedit/internal/rst/underline"
)

// Styles are the display styles of the editor.
type Styles struct {
	Text      tcell.Style
	Heading   tcell.Style
	Table     tcell.Style
	Selection tcell.Style
	Status    tcell.Style
}

// DefaultStyles returns the built-in styles.
func DefaultStyles() Styles {
	return Styles{
		Text:      tcell.StyleDefault,
		Heading:   tcell.StyleDefault.Bold(true),
		Table:     tcell.StyleDefault.Foreground(tcell.ColorTeal),
		Selection: tcell.StyleDefault.Reverse(true),
		Status:    tcell.StyleDefault.Reverse(true),
	}
}

// Draw renders the document, the selections and the status line.
func (e *Editor) Draw() {
	e.screen.Clear()
	width, height := e.screen.Size()
	rows := height - 1
	if rows < 1 || width < 1 {
		e.screen.Show()
		return
	}

	doc := e.engine.Document()
	tabWidth := max(e.engine.TabWidth(), 1)
	primary := e.engine.PrimarySelection()
	e.scrollTo(doc, primary.Active, width, rows, tabWidth)

	sels := e.engine.Selections()
	kinds := lineKinds(doc, e.topLine, rows)
	for y := range rows {
		line := e.topLine + y
		if line >= doc.LineCount() {
			break
		}
		e.drawLine(doc.LineText(line), line, y, width, tabWidth, e.styles.style(kinds[y]), sels)
	}

	e.drawStatus(width, height-1, primary.Active)

	col := displayCol(doc.LineText(primary.Active.Line), primary.Active.Character, tabWidth)
	e.screen.ShowCursor(col-e.leftCol, primary.Active.Line-e.topLine)
	e.screen.Show()
}

// scrollTo moves the viewport so p is visible.
func (e *Editor) scrollTo(doc buffer.Reader, p buffer.Position, width, rows, tabWidth int) {
	if p.Line < e.topLine {
		e.topLine = p.Line
	}
	if p.Line >= e.topLine+rows {
		e.topLine = p.Line - rows + 1
	}

	col := displayCol(doc.LineText(p.Line), p.Character, tabWidth)
	if col < e.leftCol {
		e.leftCol = col
	}
	if col >= e.leftCol+width {
		e.leftCol = col - width + 1
	}
}

func (e *Editor) drawLine(text string, line, y, width, tabWidth int, style tcell.Style, sels []cursor.Selection) {
	col := 0
	char := 0
	for _, r := range text {
		st := style
		if selected(sels, buffer.Pos(line, char)) {
			st = e.styles.Selection
		}

		w := runeWidth(r)
		if r == '\t' {
			w = tabWidth - col%tabWidth
			r = ' '
		}
		for i := range w {
			x := col + i - e.leftCol
			if x >= 0 && x < width && (i == 0 || r == ' ') {
				e.screen.SetContent(x, y, r, nil, st)
			}
		}
		col += w
		char++
		if col-e.leftCol >= width {
			return
		}
	}
}

func (e *Editor) drawStatus(width, y int, p buffer.Position) {
	name := "[no file]"
	if e.path != "" {
		name = filepath.Base(e.path)
	}
	if e.Modified() {
		name += " [+]"
	}
	if e.engine.IsReadOnly() {
		name += " [RO]"
	}

	left := fmt.Sprintf(" %s  %d:%d", name, p.Line+1, p.Character+1)
	if e.status != "" {
		left += "  " + e.status
	}

	x := 0
	for _, r := range left {
		if x >= width {
			break
		}
		e.screen.SetContent(x, y, r, nil, e.styles.Status)
		x += runeWidth(r)
	}
	for ; x < width; x++ {
		e.screen.SetContent(x, y, ' ', nil, e.styles.Status)
	}
}

// lineKind classifies a line for styling.
type lineKind uint8

const (
	kindText lineKind = iota
	kindHeading
	kindTable
)

func (s Styles) style(k lineKind) tcell.Style {
	switch k {
	case kindHeading:
		return s.Heading
	case kindTable:
		return s.Table
	default:
		return s.Text
	}
}

// lineKinds classifies the visible lines: section titles with their
// underlines, and grid table lines.
func lineKinds(doc buffer.Reader, top, rows int) []lineKind {
	kinds := make([]lineKind, rows)
	for _, r := range table.Regions(doc) {
		for l := max(r.Begin, top); l < min(r.End, top+rows); l++ {
			kinds[l-top] = kindTable
		}
	}
	for y := range rows {
		line := top + y
		if kinds[y] != kindText || line+1 >= doc.LineCount() {
			continue
		}
		if _, ok := underline.Current(doc.LineText(line), doc.LineText(line+1)); ok && doc.LineText(line) != "" {
			kinds[y] = kindHeading
			if y+1 < rows {
				kinds[y+1] = kindHeading
			}
		}
	}
	return kinds
}

func selected(sels []cursor.Selection, p buffer.Position) bool {
	for _, s := range sels {
		if !s.IsEmpty() && !p.Before(s.Start()) && p.Before(s.End()) {
			return true
		}
	}
	return false
}

// displayCol returns the screen column of character char in text.
func displayCol(text string, char, tabWidth int) int {
	col := 0
	i := 0
	for _, r := range text {
		if i >= char {
			break
		}
		if r == '\t' {
			col += tabWidth - col%tabWidth
		} else {
			col += runeWidth(r)
		}
		i++
	}
	return col
}

// runeWidth is the cell width of r, at least one.
func runeWidth(r rune) int {
	return max(uniseg.StringWidth(string(r)), 1)
}

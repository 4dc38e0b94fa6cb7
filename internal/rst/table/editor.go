package table

import (
	"fmt"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/dshills/rstedit/internal/engine/buffer"
	"github.com/dshills/rstedit/internal/engine/cursor"
)

// Direction is a cursor or row/column movement direction.
type Direction uint8

const (
	Up Direction = iota
	Down
	Left
	Right
)

// Options configures table rendering.
type Options struct {
	MinCellWidth int
}

// DefaultOptions returns the default table options.
func DefaultOptions() Options {
	return Options{MinCellWidth: DefaultMinWidth}
}

// Change is the result of a table operation: one edit replacing the whole
// table and the selection afterwards.
type Change struct {
	Edit      buffer.Edit
	Selection cursor.Selection
}

// Editor applies structural operations to the table under the cursor.
type Editor struct {
	begin    int
	oldLines []string
	grid     *Grid

	row, line, col int

	// pipes is the number of column separators before the cursor.
	pipes int
	// offset is the cursor's rune offset in its cell text.
	offset int
}

// NewEditor parses the table containing pos. The trigger runes typed
// right before pos are dropped from the grid.
func NewEditor(doc buffer.Reader, pos buffer.Position, trigger int, opts Options) (*Editor, error) {
	region, ok := FindRegion(doc, pos.Line)
	if !ok {
		return nil, ErrNotInTable
	}
	end := gridEnd(doc, region)
	if pos.Line >= end {
		return nil, ErrNotInTable
	}

	lines := make([]string, 0, end-region.Begin)
	for l := region.Begin; l < end; l++ {
		lines = append(lines, doc.LineText(l))
	}
	e := &Editor{begin: region.Begin, oldLines: lines}

	// Work on a copy with the gesture removed.
	work := slices.Clone(lines)
	at := pos.Line - region.Begin
	rs := []rune(work[at])
	c := min(max(pos.Character, 0), len(rs))
	if trigger > 0 && c >= trigger {
		rs = append(rs[:c-trigger:c-trigger], rs[c:]...)
		c -= trigger
		work[at] = string(rs)
	}

	g, err := Parse(work)
	if err != nil {
		return nil, err
	}
	g.MinWidth = opts.MinCellWidth
	e.grid = g

	e.locate(work, at, c)
	return e, nil
}

// locate finds the cell under line offset at and rune offset c. On a
// border line the cursor belongs to the row below it.
func (e *Editor) locate(lines []string, at, c int) {
	isBorder := func(i int) bool { return strings.HasPrefix(lines[i], "+") }

	row, line := 0, 0
	for i := 1; i < at; i++ {
		if isBorder(i) {
			row++
			line = 0
		} else {
			line++
		}
	}
	sep := '|'
	if at > 0 && isBorder(at) {
		row++
		line = 0
	}
	if isBorder(at) {
		sep = '+'
	}
	e.row = min(row, len(e.grid.Rows)-1)
	e.line = min(line, len(e.grid.Rows[e.row].Lines)-1)

	rs := []rune(lines[at])
	lastSep := -1
	for i := 0; i < c && i < len(rs); i++ {
		if rs[i] == sep {
			e.pipes++
			lastSep = i
		}
	}
	e.col = min(max(e.pipes-1, 0), e.grid.Cols-1)

	if sep == '|' && lastSep >= 0 && e.pipes-1 == e.col {
		text := e.grid.Cell(e.row, e.line, e.col)
		e.offset = min(max(c-lastSep-2, 0), utf8.RuneCountInString(text))
	}
}

// Grid returns the parsed table.
func (e *Editor) Grid() *Grid {
	return e.grid
}

// Cell returns the row, line and column under the cursor.
func (e *Editor) Cell() (row, line, col int) {
	return e.row, e.line, e.col
}

// AddRow inserts an empty row below the cursor's row.
func (e *Editor) AddRow() Change {
	e.grid.InsertRow(e.row + 1)
	return e.change(e.row+1, 0, e.col, true)
}

// RemoveRow deletes the cursor's row. A table keeps its last row.
func (e *Editor) RemoveRow() Change {
	e.grid.DeleteRow(e.row)
	return e.change(min(e.row, len(e.grid.Rows)-1), 0, e.col, true)
}

// AddColumn inserts an empty column at the separator next to the
// gesture: after it when the gesture follows a '|', before the next one
// when atPipe is set.
func (e *Editor) AddColumn(atPipe bool) Change {
	at := e.pipes - 1
	if atPipe {
		at = e.pipes
	}
	at = min(max(at, 0), e.grid.Cols)
	e.grid.InsertColumn(at)
	return e.change(e.row, 0, at, true)
}

// RemoveColumn deletes the cursor's column. A table keeps its last
// column.
func (e *Editor) RemoveColumn() Change {
	e.grid.DeleteColumn(e.col)
	return e.change(e.row, 0, min(e.col, e.grid.Cols-1), true)
}

// MoveColumn swaps the cursor's column with its left or right neighbour.
func (e *Editor) MoveColumn(dir Direction) Change {
	to := e.col + 1
	if dir == Left {
		to = e.col - 1
	}
	if !e.grid.SwapColumns(e.col, to) {
		to = e.col
	}
	return e.change(e.row, 0, to, true)
}

// MoveRow swaps the cursor's row with the one above or below.
func (e *Editor) MoveRow(dir Direction) Change {
	to := e.row + 1
	if dir == Up {
		to = e.row - 1
	}
	if !e.grid.SwapRows(e.row, to) {
		to = e.row
	}
	return e.change(to, 0, e.col, true)
}

// SelectionChange re-flows the table and selects the neighbouring cell.
// Left and Right wrap across rows; movement stops at the table edges.
func (e *Editor) SelectionChange(dir Direction) Change {
	row, col := e.row, e.col
	rows, cols := len(e.grid.Rows), e.grid.Cols

	switch dir {
	case Up:
		row = max(row-1, 0)
	case Down:
		row = min(row+1, rows-1)
	case Left:
		if col > 0 {
			col--
		} else if row > 0 {
			row, col = row-1, cols-1
		}
	case Right:
		if col < cols-1 {
			col++
		} else if row < rows-1 {
			row, col = row+1, 0
		}
	}
	return e.change(row, 0, col, true)
}

// AddNewLine splits the cursor's cell at the cursor, moving the rest of
// its text to a new line of the same row.
func (e *Editor) AddNewLine() Change {
	e.grid.SplitLine(e.row, e.line, e.col, e.offset)
	return e.change(e.row, e.line+1, e.col, false)
}

// change renders the grid into a replacement of the old table lines with
// the cursor on the given cell line, selecting its text when selectText is
// set.
func (e *Editor) change(row, line, col int, selectText bool) Change {
	lines := e.grid.Render()

	last := len(e.oldLines) - 1
	edit := buffer.NewReplace(
		buffer.NewRange(e.begin, 0, e.begin+last, utf8.RuneCountInString(e.oldLines[last])),
		strings.Join(lines, "\n"),
	)

	at, char := e.grid.CellPos(row, line, col)
	start := buffer.Pos(e.begin+at, char)
	sel := cursor.NewCursorSelection(start)
	if selectText {
		n := utf8.RuneCountInString(e.grid.Cell(row, line, col))
		sel = cursor.NewSelection(start, start.WithCharacter(char+n))
	}
	return Change{Edit: edit, Selection: sel}
}

// Apply runs the operation a gesture requests.
func (e *Editor) Apply(g Gesture) Change {
	switch g.Kind {
	case AddRow:
		return e.AddRow()
	case AddColumn:
		return e.AddColumn(g.AtPipe)
	case RemoveRow:
		return e.RemoveRow()
	case RemoveColumn:
		return e.RemoveColumn()
	case MoveColumnRight:
		return e.MoveColumn(Right)
	case MoveColumnLeft:
		return e.MoveColumn(Left)
	case MoveRowUp:
		return e.MoveRow(Up)
	case MoveRowDown:
		return e.MoveRow(Down)
	}
	return e.SelectionChange(Down)
}

// Enter handles Enter inside a table. On the top border it opens a line
// above the table and on the bottom border a line below it; elsewhere the
// keystroke is classified as a gesture and the matching operation runs.
func Enter(doc buffer.Reader, sel cursor.Selection, opts Options) (Change, error) {
	start, end := sel.Start(), sel.End()
	region, ok := FindRegion(doc, start.Line)
	if !ok {
		return Change{}, ErrNotInTable
	}

	if start.Line == region.Begin {
		return Change{
			Edit:      buffer.NewInsert(buffer.Pos(start.Line, 0), "\n"),
			Selection: cursor.At(start.Line+1, 0),
		}, nil
	}
	if last := gridEnd(doc, region) - 1; end.Line == last {
		return Change{
			Edit:      buffer.NewInsert(buffer.Pos(last, utf8.RuneCountInString(doc.LineText(last))), "\n"),
			Selection: cursor.At(last+1, 0),
		}, nil
	}

	g := Classify(doc.LineText(end.Line), end.Character)
	e, err := NewEditor(doc, end, g.Trigger, opts)
	if err != nil {
		return Change{}, fmt.Errorf("table enter: %w", err)
	}
	return e.Apply(g), nil
}

// Navigate re-flows the table and moves to the neighbouring cell.
func Navigate(doc buffer.Reader, sel cursor.Selection, dir Direction, opts Options) (Change, error) {
	e, err := NewEditor(doc, sel.Active, 0, opts)
	if err != nil {
		return Change{}, err
	}
	return e.SelectionChange(dir), nil
}

// NewLine splits the cell under the cursor. It is not available at the
// end of a line.
func NewLine(doc buffer.Reader, sel cursor.Selection, opts Options) (Change, error) {
	pos := sel.Active
	if pos.Character >= utf8.RuneCountInString(doc.LineText(pos.Line)) {
		return Change{}, ErrAtLineEnd
	}
	e, err := NewEditor(doc, pos, 0, opts)
	if err != nil {
		return Change{}, err
	}
	return e.AddNewLine(), nil
}

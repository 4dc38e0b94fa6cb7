package table

import (
	"fmt"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/dshills/rstedit/internal/rst/underline"
)

// DefaultMinWidth is the narrowest rendered column.
const DefaultMinWidth = 3

// Row is one table row. Each line holds one text per column.
type Row struct {
	Lines [][]string
}

func newRow(cols int) Row {
	return Row{Lines: [][]string{make([]string, cols)}}
}

// Grid is a parsed grid table.
type Grid struct {
	Cols int
	Rows []Row

	// Header is the number of rows above the '=' rule, 0 without one.
	Header int

	// MinWidth is the narrowest rendered column; 0 means DefaultMinWidth.
	MinWidth int
}

// Parse parses the lines of a grid table. Tables with spanning cells or
// ragged rows return ErrMalformedGrid.
func Parse(lines []string) (*Grid, error) {
	if len(lines) < 3 {
		return nil, fmt.Errorf("%w: too few lines", ErrMalformedGrid)
	}

	cols, fill, ok := parseBorder(lines[0])
	if !ok || fill != '-' {
		return nil, fmt.Errorf("%w: bad top border", ErrMalformedGrid)
	}

	g := &Grid{Cols: cols}
	var cur *Row

	for i, line := range lines[1:] {
		if strings.HasPrefix(line, "+") {
			n, fill, ok := parseBorder(line)
			if !ok || n != cols {
				return nil, fmt.Errorf("%w: bad border on line %d", ErrMalformedGrid, i+1)
			}
			if cur == nil {
				return nil, fmt.Errorf("%w: empty row on line %d", ErrMalformedGrid, i+1)
			}
			g.Rows = append(g.Rows, *cur)
			cur = nil

			if fill == '=' {
				if g.Header != 0 {
					return nil, fmt.Errorf("%w: second header rule on line %d", ErrMalformedGrid, i+1)
				}
				g.Header = len(g.Rows)
			}
			continue
		}

		cells, ok := parseContent(line, cols)
		if !ok {
			return nil, fmt.Errorf("%w: bad row on line %d", ErrMalformedGrid, i+1)
		}
		if cur == nil {
			cur = &Row{}
		}
		cur.Lines = append(cur.Lines, cells)
	}

	if cur != nil {
		return nil, fmt.Errorf("%w: missing bottom border", ErrMalformedGrid)
	}
	return g, nil
}

// parseBorder splits a border line into its segments. All segments must
// use the same fill, '-' or '='.
func parseBorder(line string) (int, byte, bool) {
	line = strings.TrimRight(line, " ")
	if len(line) < 3 || line[0] != '+' || line[len(line)-1] != '+' {
		return 0, 0, false
	}

	segs := strings.Split(line[1:len(line)-1], "+")
	fill := segs[0][0:min(1, len(segs[0]))]
	if fill != "-" && fill != "=" {
		return 0, 0, false
	}
	for _, s := range segs {
		if s == "" || strings.Trim(s, fill) != "" {
			return 0, 0, false
		}
	}
	return len(segs), fill[0], true
}

func parseContent(line string, cols int) ([]string, bool) {
	line = strings.TrimRight(line, " ")
	if len(line) < 2 || line[0] != '|' || line[len(line)-1] != '|' {
		return nil, false
	}

	parts := strings.Split(line[1:len(line)-1], "|")
	if len(parts) != cols {
		return nil, false
	}
	cells := make([]string, cols)
	for i, p := range parts {
		cells[i] = strings.TrimRight(strings.TrimPrefix(p, " "), " ")
	}
	return cells, true
}

// Widths returns the display width of every column.
func (g *Grid) Widths() []int {
	floor := g.MinWidth
	if floor <= 0 {
		floor = DefaultMinWidth
	}

	widths := make([]int, g.Cols)
	for c := range widths {
		widths[c] = floor
	}
	for _, row := range g.Rows {
		for _, cells := range row.Lines {
			for c, text := range cells {
				widths[c] = max(widths[c], underline.Width(text))
			}
		}
	}
	return widths
}

// Render returns the table lines with every column padded to its widest
// cell.
func (g *Grid) Render() []string {
	widths := g.Widths()

	out := []string{border(widths, '-')}
	for r, row := range g.Rows {
		for _, cells := range row.Lines {
			line, _ := content(cells, widths)
			out = append(out, line)
		}
		fill := byte('-')
		// The bottom border is never a header rule.
		if r+1 == g.Header && r+1 < len(g.Rows) {
			fill = '='
		}
		out = append(out, border(widths, fill))
	}
	return out
}

func border(widths []int, fill byte) string {
	var sb strings.Builder
	sb.WriteByte('+')
	for _, w := range widths {
		sb.WriteString(strings.Repeat(string(fill), w+2))
		sb.WriteByte('+')
	}
	return sb.String()
}

// content renders one text line of a row and returns the rune offset of
// every cell's text.
func content(cells []string, widths []int) (string, []int) {
	var sb strings.Builder
	starts := make([]int, len(cells))
	pos := 0

	sb.WriteByte('|')
	pos++
	for c, text := range cells {
		sb.WriteByte(' ')
		pos++
		starts[c] = pos

		sb.WriteString(text)
		pad := widths[c] - underline.Width(text)
		sb.WriteString(strings.Repeat(" ", pad))
		sb.WriteString(" |")
		pos += utf8.RuneCountInString(text) + pad + 2
	}
	return sb.String(), starts
}

// Cell returns the text of a cell line.
func (g *Grid) Cell(row, line, col int) string {
	return g.Rows[row].Lines[line][col]
}

// CellPos returns the rendered position of a cell line's text: the line
// offset from the top border and the rune offset in that line.
func (g *Grid) CellPos(row, line, col int) (int, int) {
	offset := 1
	for r := 0; r < row; r++ {
		offset += len(g.Rows[r].Lines) + 1
	}
	_, starts := content(g.Rows[row].Lines[line], g.Widths())
	return offset + line, starts[col]
}

// Structural operations

// InsertRow inserts an empty row before index at.
func (g *Grid) InsertRow(at int) {
	at = min(max(at, 0), len(g.Rows))
	g.Rows = slices.Insert(g.Rows, at, newRow(g.Cols))
	if at < g.Header {
		g.Header++
	}
}

// DeleteRow removes row i. The last remaining row is kept.
func (g *Grid) DeleteRow(i int) bool {
	if len(g.Rows) <= 1 || i < 0 || i >= len(g.Rows) {
		return false
	}
	g.Rows = slices.Delete(g.Rows, i, i+1)
	if i < g.Header {
		g.Header--
	}
	return true
}

// InsertColumn inserts an empty column before index at.
func (g *Grid) InsertColumn(at int) {
	at = min(max(at, 0), g.Cols)
	for r := range g.Rows {
		for l := range g.Rows[r].Lines {
			g.Rows[r].Lines[l] = slices.Insert(g.Rows[r].Lines[l], at, "")
		}
	}
	g.Cols++
}

// DeleteColumn removes column i. The last remaining column is kept.
func (g *Grid) DeleteColumn(i int) bool {
	if g.Cols <= 1 || i < 0 || i >= g.Cols {
		return false
	}
	for r := range g.Rows {
		for l := range g.Rows[r].Lines {
			g.Rows[r].Lines[l] = slices.Delete(g.Rows[r].Lines[l], i, i+1)
		}
	}
	g.Cols--
	return true
}

// SwapColumns exchanges columns i and j.
func (g *Grid) SwapColumns(i, j int) bool {
	if i < 0 || j < 0 || i >= g.Cols || j >= g.Cols || i == j {
		return false
	}
	for r := range g.Rows {
		for _, cells := range g.Rows[r].Lines {
			cells[i], cells[j] = cells[j], cells[i]
		}
	}
	return true
}

// SwapRows exchanges rows i and j. The header rule stays in place.
func (g *Grid) SwapRows(i, j int) bool {
	if i < 0 || j < 0 || i >= len(g.Rows) || j >= len(g.Rows) || i == j {
		return false
	}
	g.Rows[i], g.Rows[j] = g.Rows[j], g.Rows[i]
	return true
}

// SplitLine breaks a cell line at a rune offset: the text after it moves
// to a new line inserted below, with empty cells in the other columns.
func (g *Grid) SplitLine(row, line, col, offset int) {
	r := &g.Rows[row]
	rs := []rune(r.Lines[line][col])
	offset = min(max(offset, 0), len(rs))

	next := make([]string, g.Cols)
	next[col] = strings.TrimLeft(string(rs[offset:]), " ")
	r.Lines[line][col] = strings.TrimRight(string(rs[:offset]), " ")
	r.Lines = slices.Insert(r.Lines, line+1, next)
}

package table

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

// CreateEmptyGrid renders an empty table. Tables with more than one row
// get a header rule below the first.
func CreateEmptyGrid(rows, cols int, opts Options) ([]string, error) {
	if rows < 1 || cols < 1 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidSize, rows, cols)
	}

	g := &Grid{Cols: cols, MinWidth: opts.MinCellWidth}
	for range rows {
		g.Rows = append(g.Rows, newRow(cols))
	}
	if rows > 1 {
		g.Header = 1
	}
	return g.Render(), nil
}

// DataToTable converts delimited text into a table. The first record
// becomes the header; short records are padded with empty cells.
func DataToTable(text string, delim rune, opts Options) ([]string, error) {
	r := csv.NewReader(strings.NewReader(text))
	r.Comma = delim
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	var records [][]string
	cols := 0
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read table data: %w", err)
		}
		records = append(records, rec)
		cols = max(cols, len(rec))
	}
	if len(records) == 0 || cols == 0 {
		return nil, ErrNoData
	}

	g := &Grid{Cols: cols, MinWidth: opts.MinCellWidth}
	for _, rec := range records {
		cells := make([]string, cols)
		for i, field := range rec {
			cells[i] = cleanCell(field)
		}
		g.Rows = append(g.Rows, Row{Lines: [][]string{cells}})
	}
	if len(g.Rows) > 1 {
		g.Header = 1
	}
	return g.Render(), nil
}

// cleanCell flattens a field to one line; '|' would split the cell.
func cleanCell(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	return strings.ReplaceAll(s, "|", "/")
}

// GuessDelimiter picks tab, comma or semicolon, whichever occurs most in
// the first line of text.
func GuessDelimiter(text string) rune {
	first, _, _ := strings.Cut(text, "\n")
	best, count := ',', 0
	for _, d := range []rune{'\t', ',', ';'} {
		if n := strings.Count(first, string(d)); n > count {
			best, count = d, n
		}
	}
	return best
}

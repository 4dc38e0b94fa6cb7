package table

import (
	"errors"
	"strings"
	"testing"

	"github.com/dshills/rstedit/internal/engine/buffer"
	"github.com/dshills/rstedit/internal/engine/cursor"
	"github.com/dshills/rstedit/internal/rst/underline"
)

const sample = `+-----+-----+
| a   | b   |
+=====+=====+
| 1   | 2   |
+-----+-----+`

// withLine returns sample with one line replaced.
func withLine(line int, text string) string {
	lines := strings.Split(sample, "\n")
	lines[line] = text
	return strings.Join(lines, "\n")
}

// applyChange applies a change to text and returns the new text.
func applyChange(t *testing.T, text string, ch Change) string {
	t.Helper()
	doc := buffer.NewDocumentFromString(text)
	if _, err := doc.ApplyEdit(ch.Edit); err != nil {
		t.Fatalf("apply failed: %v", err)
	}
	return doc.Text()
}

// assertAligned checks that every separator of every line sits in the
// same display column as the '+' of the top border.
func assertAligned(t *testing.T, lines []string) {
	t.Helper()

	columns := func(line string) []int {
		var out []int
		col := 0
		for _, r := range line {
			if r == '+' || r == '|' {
				out = append(out, col)
			}
			col += underline.Width(string(r))
		}
		return out
	}

	want := columns(lines[0])
	for i, line := range lines {
		got := columns(line)
		if len(got) != len(want) {
			t.Fatalf("line %d %q: %d separators, want %d", i, line, len(got), len(want))
		}
		for j := range got {
			if got[j] != want[j] {
				t.Fatalf("line %d %q: separator %d at column %d, want %d", i, line, j, got[j], want[j])
			}
		}
	}
}

func TestRegions(t *testing.T) {
	doc := buffer.Lines{
		"intro",
		"",
		"+-----+-----+",
		"| a   | b   |",
		"+-----+-----+",
		"",
		"after",
		"+---+",
		"| x |",
		"+---+",
	}

	regions := Regions(doc)
	want := []Region{{Begin: 2, End: 5}, {Begin: 7, End: 10}}
	if len(regions) != len(want) {
		t.Fatalf("expected %d regions, got %v", len(want), regions)
	}
	for i := range want {
		if regions[i] != want[i] {
			t.Errorf("region %d: expected %v, got %v", i, want[i], regions[i])
		}
	}

	tests := []struct {
		line int
		want bool
	}{
		{0, false},
		{2, true},
		{3, true},
		{4, true},
		{5, false},
		{8, true},
	}
	for _, tc := range tests {
		if got := IsSelected(doc, tc.line); got != tc.want {
			t.Errorf("IsSelected(%d) = %v, want %v", tc.line, got, tc.want)
		}
	}
}

func TestRegionEndsAtUnindentedText(t *testing.T) {
	doc := buffer.Lines{"+---+---+", "| a | b |", "+---+---+", "next"}

	r, ok := FindRegion(doc, 1)
	if !ok {
		t.Fatal("expected table")
	}
	if r.End != 3 {
		t.Errorf("expected end 3, got %d", r.End)
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name   string
		line   string
		char   int
		kind   GestureKind
		atPipe bool
	}{
		{"enter at row end", "| a | b |", 9, AddRow, false},
		{"plus after pipe", "| a | b |+", 10, AddColumn, false},
		{"plus before pipe", "| a +| b |", 5, AddColumn, true},
		{"minus at row end", "| a | b |-", 10, RemoveRow, false},
		{"minus in row", "| a |- b |", 6, RemoveColumn, false},
		{"minus at line start", "-| a | b |", 1, RemoveRow, true},
		{"move right", "| a |> b |", 6, MoveColumnRight, false},
		{"move right doubled", "| a >>| b |", 6, MoveColumnRight, true},
		{"move left", "| a |< b |", 6, MoveColumnLeft, false},
		{"move up", "| a |^ b |", 6, MoveRowUp, false},
		{"move down", "| a |v b |", 6, MoveRowDown, false},
		{"inside cell", "| a | b |", 3, SelectDown, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			g := Classify(tc.line, tc.char)
			if g.Kind != tc.kind {
				t.Fatalf("expected %s, got %s", tc.kind, g.Kind)
			}
			if g.AtPipe != tc.atPipe {
				t.Errorf("expected AtPipe %v, got %v", tc.atPipe, g.AtPipe)
			}
			wantTrigger := 1
			if tc.kind == AddRow || tc.kind == SelectDown {
				wantTrigger = 0
			}
			if g.Trigger != wantTrigger {
				t.Errorf("expected trigger %d, got %d", wantTrigger, g.Trigger)
			}
		})
	}
}

func TestParseRenderRoundTrip(t *testing.T) {
	lines := strings.Split(sample, "\n")

	g, err := Parse(lines)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if g.Cols != 2 || len(g.Rows) != 2 || g.Header != 1 {
		t.Fatalf("unexpected grid: cols=%d rows=%d header=%d", g.Cols, len(g.Rows), g.Header)
	}

	if got := strings.Join(g.Render(), "\n"); got != sample {
		t.Errorf("render mismatch:\n%s", got)
	}
}

func TestRenderReflows(t *testing.T) {
	g, err := Parse([]string{
		"+---+---+",
		"| long text | b |",
		"| 日本 | c |",
		"+---+---+",
	})
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	got := g.Render()
	want := []string{
		"+-----------+-----+",
		"| long text | b   |",
		"| 日本      | c   |",
		"+-----------+-----+",
	}
	if strings.Join(got, "\n") != strings.Join(want, "\n") {
		t.Errorf("expected\n%s\ngot\n%s", strings.Join(want, "\n"), strings.Join(got, "\n"))
	}
	assertAligned(t, got)
}

func TestParseMalformed(t *testing.T) {
	tests := []struct {
		name  string
		lines []string
	}{
		{"spanning cell", []string{"+-----+-----+", "| wide      |", "+-----+-----+"}},
		{"no bottom border", []string{"+---+", "| a |", "| b |"}},
		{"row span", []string{"+---+---+", "| a | b |", "+---+   +", "| c |   |", "+---+---+"}},
		{"too short", []string{"+---+"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Parse(tc.lines); !errors.Is(err, ErrMalformedGrid) {
				t.Errorf("expected ErrMalformedGrid, got %v", err)
			}
		})
	}
}

func TestEnterOperations(t *testing.T) {
	tests := []struct {
		name string
		text string
		sel  cursor.Selection
		want string
		sel2 cursor.Selection
	}{
		{
			"add row",
			sample, cursor.At(3, 13),
			sample + "\n|     |     |\n+-----+-----+",
			cursor.At(5, 8),
		},
		{
			"add column",
			withLine(1, "| a   | b   |+"), cursor.At(1, 14),
			"+-----+-----+-----+\n| a   | b   |     |\n+=====+=====+=====+\n| 1   | 2   |     |\n+-----+-----+-----+",
			cursor.At(1, 14),
		},
		{
			"remove column",
			withLine(1, "| a   |- b   |"), cursor.At(1, 8),
			"+-----+\n| a   |\n+=====+\n| 1   |\n+-----+",
			cursor.NewSelection(buffer.Pos(1, 2), buffer.Pos(1, 3)),
		},
		{
			"remove row",
			withLine(3, "| 1   | 2   |-"), cursor.At(3, 14),
			"+-----+-----+\n| a   | b   |\n+-----+-----+",
			cursor.NewSelection(buffer.Pos(1, 8), buffer.Pos(1, 9)),
		},
		{
			"remove row from line start",
			withLine(3, "-| 1   | 2   |"), cursor.At(3, 1),
			"+-----+-----+\n| a   | b   |\n+-----+-----+",
			cursor.NewSelection(buffer.Pos(1, 2), buffer.Pos(1, 3)),
		},
		{
			"move column right",
			withLine(1, "|> a   | b   |"), cursor.At(1, 2),
			"+-----+-----+\n| b   | a   |\n+=====+=====+\n| 2   | 1   |\n+-----+-----+",
			cursor.NewSelection(buffer.Pos(1, 8), buffer.Pos(1, 9)),
		},
		{
			"move row down",
			withLine(1, "|v a   | b   |"), cursor.At(1, 2),
			"+-----+-----+\n| 1   | 2   |\n+=====+=====+\n| a   | b   |\n+-----+-----+",
			cursor.NewSelection(buffer.Pos(3, 2), buffer.Pos(3, 3)),
		},
		{
			"select down",
			sample, cursor.At(1, 3),
			sample,
			cursor.NewSelection(buffer.Pos(3, 2), buffer.Pos(3, 3)),
		},
		{
			"line above table",
			sample, cursor.At(0, 3),
			"\n" + sample,
			cursor.At(1, 0),
		},
		{
			"line below table",
			sample, cursor.At(4, 2),
			sample + "\n",
			cursor.At(5, 0),
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			doc := buffer.NewDocumentFromString(tc.text)
			ch, err := Enter(doc, tc.sel, DefaultOptions())
			if err != nil {
				t.Fatalf("enter failed: %v", err)
			}

			got := applyChange(t, tc.text, ch)
			if got != tc.want {
				t.Errorf("expected\n%s\ngot\n%s", tc.want, got)
			}
			if !ch.Selection.Equals(tc.sel2) {
				t.Errorf("expected selection %s, got %s", tc.sel2, ch.Selection)
			}
		})
	}
}

func TestColumnOperationsKeepRowsAligned(t *testing.T) {
	tests := []struct {
		name string
		text string
		sel  cursor.Selection
		cols int
	}{
		{"add column", withLine(1, "| a   | b   |+"), cursor.At(1, 14), 3},
		{"remove column", withLine(1, "| a   |- b   |"), cursor.At(1, 8), 1},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			doc := buffer.NewDocumentFromString(tc.text)
			ch, err := Enter(doc, tc.sel, DefaultOptions())
			if err != nil {
				t.Fatalf("enter failed: %v", err)
			}

			lines := strings.Split(applyChange(t, tc.text, ch), "\n")
			g, err := Parse(lines)
			if err != nil {
				t.Fatalf("result does not parse: %v", err)
			}
			if len(g.Rows) != 2 {
				t.Errorf("expected 2 rows, got %d", len(g.Rows))
			}
			if g.Cols != tc.cols {
				t.Errorf("expected %d columns, got %d", tc.cols, g.Cols)
			}
			assertAligned(t, lines)
		})
	}
}

func TestNavigateReflows(t *testing.T) {
	text := withLine(1, "| abcdefg | b |")
	doc := buffer.NewDocumentFromString(text)

	ch, err := Navigate(doc, cursor.At(1, 5), Right, DefaultOptions())
	if err != nil {
		t.Fatalf("navigate failed: %v", err)
	}

	want := "+---------+-----+\n| abcdefg | b   |\n+=========+=====+\n| 1       | 2   |\n+---------+-----+"
	if got := applyChange(t, text, ch); got != want {
		t.Errorf("expected\n%s\ngot\n%s", want, got)
	}
	wantSel := cursor.NewSelection(buffer.Pos(1, 12), buffer.Pos(1, 13))
	if !ch.Selection.Equals(wantSel) {
		t.Errorf("expected selection %s, got %s", wantSel, ch.Selection)
	}
}

func TestNavigate(t *testing.T) {
	tests := []struct {
		name string
		from cursor.Selection
		dir  Direction
		want cursor.Selection
	}{
		{"right", cursor.At(1, 2), Right, cursor.NewSelection(buffer.Pos(1, 8), buffer.Pos(1, 9))},
		{"right wraps", cursor.At(1, 8), Right, cursor.NewSelection(buffer.Pos(3, 2), buffer.Pos(3, 3))},
		{"left wraps", cursor.At(3, 2), Left, cursor.NewSelection(buffer.Pos(1, 8), buffer.Pos(1, 9))},
		{"left at start", cursor.At(1, 2), Left, cursor.NewSelection(buffer.Pos(1, 2), buffer.Pos(1, 3))},
		{"up", cursor.At(3, 8), Up, cursor.NewSelection(buffer.Pos(1, 8), buffer.Pos(1, 9))},
		{"down at bottom", cursor.At(3, 2), Down, cursor.NewSelection(buffer.Pos(3, 2), buffer.Pos(3, 3))},
	}

	doc := buffer.NewDocumentFromString(sample)
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ch, err := Navigate(doc, tc.from, tc.dir, DefaultOptions())
			if err != nil {
				t.Fatalf("navigate failed: %v", err)
			}
			if !ch.Selection.Equals(tc.want) {
				t.Errorf("expected selection %s, got %s", tc.want, ch.Selection)
			}
		})
	}
}

func TestNewLineSplitsCell(t *testing.T) {
	text := withLine(3, "| 12  | 2   |")
	doc := buffer.NewDocumentFromString(text)

	ch, err := NewLine(doc, cursor.At(3, 3), DefaultOptions())
	if err != nil {
		t.Fatalf("new line failed: %v", err)
	}

	want := "+-----+-----+\n| a   | b   |\n+=====+=====+\n| 1   | 2   |\n| 2   |     |\n+-----+-----+"
	if got := applyChange(t, text, ch); got != want {
		t.Errorf("expected\n%s\ngot\n%s", want, got)
	}
	if !ch.Selection.Equals(cursor.At(4, 2)) {
		t.Errorf("unexpected selection %s", ch.Selection)
	}

	if _, err := NewLine(doc, cursor.At(3, 13), DefaultOptions()); !errors.Is(err, ErrAtLineEnd) {
		t.Errorf("expected ErrAtLineEnd, got %v", err)
	}
}

func TestNotInTable(t *testing.T) {
	doc := buffer.Lines{"plain text"}
	if _, err := Enter(doc, cursor.At(0, 0), DefaultOptions()); !errors.Is(err, ErrNotInTable) {
		t.Errorf("expected ErrNotInTable, got %v", err)
	}
	if _, err := Navigate(doc, cursor.At(0, 0), Right, DefaultOptions()); !errors.Is(err, ErrNotInTable) {
		t.Errorf("expected ErrNotInTable, got %v", err)
	}
}

func TestCreateEmptyGrid(t *testing.T) {
	lines, err := CreateEmptyGrid(2, 2, DefaultOptions())
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	want := "+-----+-----+\n|     |     |\n+=====+=====+\n|     |     |\n+-----+-----+"
	if got := strings.Join(lines, "\n"); got != want {
		t.Errorf("expected\n%s\ngot\n%s", want, got)
	}

	if _, err := CreateEmptyGrid(0, 1, DefaultOptions()); !errors.Is(err, ErrInvalidSize) {
		t.Errorf("expected ErrInvalidSize, got %v", err)
	}
}

func TestDataToTable(t *testing.T) {
	lines, err := DataToTable("a,b\n1,2", ',', DefaultOptions())
	if err != nil {
		t.Fatalf("convert failed: %v", err)
	}
	if got := strings.Join(lines, "\n"); got != sample {
		t.Errorf("expected\n%s\ngot\n%s", sample, got)
	}

	lines, err = DataToTable("name\tqty\tnote\nwidget\t12", '\t', DefaultOptions())
	if err != nil {
		t.Fatalf("convert failed: %v", err)
	}
	want := "+--------+-----+------+\n| name   | qty | note |\n+========+=====+======+\n| widget | 12  |      |\n+--------+-----+------+"
	if got := strings.Join(lines, "\n"); got != want {
		t.Errorf("expected\n%s\ngot\n%s", want, got)
	}
	assertAligned(t, lines)

	if _, err := DataToTable("", ',', DefaultOptions()); !errors.Is(err, ErrNoData) {
		t.Errorf("expected ErrNoData, got %v", err)
	}
}

func TestGuessDelimiter(t *testing.T) {
	tests := []struct {
		text string
		want rune
	}{
		{"a\tb\tc\n1\t2\t3", '\t'},
		{"a;b;c", ';'},
		{"a,b", ','},
		{"single", ','},
	}

	for _, tc := range tests {
		if got := GuessDelimiter(tc.text); got != tc.want {
			t.Errorf("GuessDelimiter(%q) = %q, want %q", tc.text, got, tc.want)
		}
	}
}

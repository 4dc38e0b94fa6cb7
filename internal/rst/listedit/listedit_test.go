package listedit

import (
	"testing"

	"github.com/dshills/rstedit/internal/engine/buffer"
	"github.com/dshills/rstedit/internal/engine/cursor"
)

// run applies an action and its renumbering to text and returns the
// resulting text and selection.
func run(t *testing.T, text string, sel cursor.Selection, act Action, s Settings) (string, cursor.Selection) {
	t.Helper()

	doc := buffer.NewDocumentFromString(text)
	changes, err := doc.ApplyEdits(act.Edits)
	if err != nil {
		t.Fatalf("apply failed: %v", err)
	}

	after := cursor.TransformSelection(sel, changes)
	if act.Selection != nil {
		after = *act.Selection
	}

	if _, err := doc.ApplyEdits(FollowUp(doc, after, act, s)); err != nil {
		t.Fatalf("renumber failed: %v", err)
	}
	return doc.Text(), after
}

func TestParseMarker(t *testing.T) {
	tests := []struct {
		line   string
		ok     bool
		number int
		indent int
		width  int
	}{
		{"1. item", true, 1, 0, 3},
		{"  12) item", true, 12, 2, 4},
		{"3.   spaced", true, 3, 0, 5},
		{"1.item", false, 0, 0, 0},
		{"- bullet", false, 0, 0, 0},
		{"text", false, 0, 0, 0},
	}

	for _, tc := range tests {
		m, ok := ParseMarker(tc.line)
		if ok != tc.ok {
			t.Errorf("ParseMarker(%q) ok = %v, want %v", tc.line, ok, tc.ok)
			continue
		}
		if !ok {
			continue
		}
		if m.Number != tc.number || m.Indent() != tc.indent || m.Width() != tc.width {
			t.Errorf("ParseMarker(%q) = %d/%d/%d, want %d/%d/%d",
				tc.line, m.Number, m.Indent(), m.Width(), tc.number, tc.indent, tc.width)
		}
	}
}

func TestMarkerRenumberKeepsAlignment(t *testing.T) {
	m, _ := ParseMarker("10. x")

	if got := m.Renumber(3).String(); got != "3.  " {
		t.Errorf("expected %q, got %q", "3.  ", got)
	}

	m, _ = ParseMarker("9. x")
	if got := m.Renumber(10).String(); got != "10. " {
		t.Errorf("expected %q, got %q", "10. ", got)
	}
}

func TestRenumber(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		start int
		want  string
	}{
		{"fixes run", "1. a\n3. b\n4. c", 0, "1. a\n2. b\n3. c"},
		{"widens padding", "1. a\n9. b\n10. c", 0, "1. a\n2. b\n3.  c"},
		{"stops at correct item", "1. a\n2. b\n5. c", 0, "1. a\n2. b\n5. c"},
		{"continuation lines", "1. a\n   more\n\n3. b", 0, "1. a\n   more\n\n2. b"},
		{"nested list", "1. a\n   5. x\n   6. y\n2. b", 0, "1. a\n   1. x\n   2. y\n2. b"},
		{"correct sub-list continues outer run", "1. a\n3. b\n   1. x\n   2. y\n4. c", 0, "1. a\n2. b\n   1. x\n   2. y\n3. c"},
		{"indented item continuation", "  1. a\n    text\n  3. b", 0, "  1. a\n    text\n  2. b"},
		{"short continuation ends list", "1. a\n  text\n3. b", 0, "1. a\n  text\n3. b"},
		{"wide marker takes any text", "1.   a\n  text\n3.   b", 0, "1.   a\n  text\n2.   b"},
		{"paragraph restarts", "1. a\n\ntext\n\n3. b", 4, "1. a\n\ntext\n\n1. b"},
		{"heading ends run", "1. a\n# h\n7. c", 0, "1. a\n# h\n7. c"},
		{"not an item", "text\n3. b", 0, "text\n3. b"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			doc := buffer.NewDocumentFromString(tc.text)
			if _, err := doc.ApplyEdits(Renumber(doc, tc.start, DefaultSettings())); err != nil {
				t.Fatalf("apply failed: %v", err)
			}
			if doc.Text() != tc.want {
				t.Errorf("expected %q, got %q", tc.want, doc.Text())
			}
		})
	}
}

func TestRenumberGuards(t *testing.T) {
	doc := buffer.Lines{"1. a", "3. b"}

	off := DefaultSettings()
	off.AutoRenumber = false
	if edits := Renumber(doc, 0, off); len(edits) != 0 {
		t.Errorf("auto renumber off: expected no edits, got %v", edits)
	}

	one := DefaultSettings()
	one.Marker = MarkerOne
	if edits := Renumber(doc, 0, one); len(edits) != 0 {
		t.Errorf("marker one: expected no edits, got %v", edits)
	}

	if edits := Renumber(doc, -1, DefaultSettings()); len(edits) != 0 {
		t.Errorf("negative start: expected no edits, got %v", edits)
	}
}

func TestLookUpward(t *testing.T) {
	tests := []struct {
		name   string
		lines  buffer.Lines
		line   int
		indent int
		want   int
	}{
		{"previous sibling", buffer.Lines{"4. a", "x. b"}, 1, 0, 5},
		{"top of document", buffer.Lines{"1. a"}, 0, 0, 1},
		{"parent item", buffer.Lines{"3. a", "   1. b"}, 1, 3, 1},
		{"paragraph", buffer.Lines{"1. a", "text", "2. b"}, 2, 0, 1},
		{"skips deeper items", buffer.Lines{"2. a", "   7. x", "3. b"}, 2, 0, 3},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := LookUpward(tc.lines, tc.line, tc.indent); got != tc.want {
				t.Errorf("expected %d, got %d", tc.want, got)
			}
		})
	}
}

func TestNextMarkerLine(t *testing.T) {
	tests := []struct {
		lines buffer.Lines
		from  int
		want  int
	}{
		{buffer.Lines{"a", "2) x"}, 0, 1},
		{buffer.Lines{"text", "# head", "1. a"}, 0, HeadingStop},
		{buffer.Lines{"a", "b"}, 0, NotFound},
	}

	for _, tc := range tests {
		if got := NextMarkerLine(tc.lines, tc.from); got != tc.want {
			t.Errorf("NextMarkerLine(%q) = %d, want %d", tc.lines, got, tc.want)
		}
	}
}

func TestOnEnter(t *testing.T) {
	one := DefaultSettings()
	one.Marker = MarkerOne

	tests := []struct {
		name     string
		text     string
		caret    cursor.Selection
		mod      Modifier
		settings Settings
		want     string
		wantSel  cursor.Selection
	}{
		{"ordered", "3. item", cursor.At(0, 7), NoModifier, DefaultSettings(), "3. item\n4. ", cursor.At(1, 3)},
		{"marker one", "10. x", cursor.At(0, 5), NoModifier, one, "10. x\n1.  ", cursor.At(1, 4)},
		{"task item", "* [x] done", cursor.At(0, 10), NoModifier, DefaultSettings(), "* [x] done\n* [ ] ", cursor.At(1, 6)},
		{"quote", "> quote", cursor.At(0, 7), NoModifier, DefaultSettings(), "> quote\n> ", cursor.At(1, 2)},
		{"auto enumerator", "#. auto", cursor.At(0, 7), NoModifier, DefaultSettings(), "#. auto\n#. ", cursor.At(1, 3)},
		{"ctrl breaks at line end", "1. ab", cursor.At(0, 3), Ctrl, DefaultSettings(), "1. ab\n2. ", cursor.At(1, 3)},
		{"empty item ends list", "- a\n- ", cursor.At(1, 2), NoModifier, DefaultSettings(), "- a\n\n", cursor.At(2, 0)},
		{"renumbers following items", "1. a\n2. b", cursor.At(0, 4), NoModifier, DefaultSettings(), "1. a\n2. \n3. b", cursor.At(1, 3)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			doc := buffer.NewDocumentFromString(tc.text)
			act := OnEnter(doc, tc.caret, tc.mod, tc.settings)
			if !act.Handled {
				t.Fatal("expected enter to be handled")
			}

			got, sel := run(t, tc.text, tc.caret, act, tc.settings)
			if got != tc.want {
				t.Errorf("expected %q, got %q", tc.want, got)
			}
			if !sel.Equals(tc.wantSel) {
				t.Errorf("expected selection %s, got %s", tc.wantSel, sel)
			}
		})
	}
}

func TestOnEnterUnhandled(t *testing.T) {
	tests := []struct {
		name string
		text string
		mod  Modifier
	}{
		{"plain text", "plain", NoModifier},
		{"thematic break", "- - -", NoModifier},
		{"shift", "1. item", Shift},
	}

	for _, tc := range tests {
		doc := buffer.Lines{tc.text}
		if act := OnEnter(doc, cursor.At(0, len(tc.text)), tc.mod, DefaultSettings()); act.Handled {
			t.Errorf("%s: expected unhandled enter", tc.name)
		}
	}
}

func TestOnTab(t *testing.T) {
	fixed := DefaultSettings()
	fixed.Indentation = IndentationSize{Spaces: 2}

	tests := []struct {
		name     string
		text     string
		caret    cursor.Selection
		shift    bool
		settings Settings
		want     string
	}{
		{"indent aligns and renumbers", "1. a\n2. b", cursor.At(1, 0), false, DefaultSettings(), "1. a\n   1. b"},
		{"outdent renumbers", "1. a\n   1. b", cursor.At(1, 3), true, DefaultSettings(), "1. a\n2. b"},
		{"falls back to tab size", "- a", cursor.At(0, 0), false, DefaultSettings(), "    - a"},
		{"fixed size", "- a\n- b", cursor.At(1, 1), false, fixed, "- a\n  - b"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			doc := buffer.NewDocumentFromString(tc.text)
			act := OnTab(doc, tc.caret, tc.shift, tc.settings)
			if !act.Handled {
				t.Fatal("expected tab to be handled")
			}
			if got, _ := run(t, tc.text, tc.caret, act, tc.settings); got != tc.want {
				t.Errorf("expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestOnTabUnhandled(t *testing.T) {
	if act := OnTab(buffer.Lines{"1. abc"}, cursor.At(0, 5), false, DefaultSettings()); act.Handled {
		t.Error("caret past marker should not be handled")
	}
	if act := OnTab(buffer.Lines{"abc"}, cursor.At(0, 0), false, DefaultSettings()); act.Handled {
		t.Error("non-list line should not be handled")
	}
}

func TestOnBackspace(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		caret   cursor.Selection
		want    string
		wantSel cursor.Selection
	}{
		{"nested item outdents", "- a\n  - ", cursor.At(1, 4), "- a\n- ", cursor.At(1, 2)},
		{"top level marker cleared", "1. ", cursor.At(0, 3), "   ", cursor.At(0, 3)},
		{"task box removed", "- [ ] ", cursor.At(0, 6), "- ", cursor.At(0, 2)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			doc := buffer.NewDocumentFromString(tc.text)
			act := OnBackspace(doc, tc.caret, DefaultSettings())
			if !act.Handled {
				t.Fatal("expected backspace to be handled")
			}
			got, sel := run(t, tc.text, tc.caret, act, DefaultSettings())
			if got != tc.want {
				t.Errorf("expected %q, got %q", tc.want, got)
			}
			if !sel.Equals(tc.wantSel) {
				t.Errorf("expected selection %s, got %s", tc.wantSel, sel)
			}
		})
	}
}

func TestOnBackspaceFallsThrough(t *testing.T) {
	act := OnBackspace(buffer.Lines{"1. abc"}, cursor.NewSelection(buffer.Pos(0, 3), buffer.Pos(0, 6)), DefaultSettings())
	if act.Handled {
		t.Error("selection delete should be left to the caller")
	}
	if act.Renumber != RenumberNextMarker {
		t.Error("selection delete should still renumber")
	}

	act = OnBackspace(buffer.Lines{"- a"}, cursor.At(0, 3), DefaultSettings())
	if act.Handled || act.Renumber != RenumberNone {
		t.Error("plain backspace should be untouched")
	}
}

func TestToggleTaskList(t *testing.T) {
	tests := []struct {
		name string
		text string
		sels []cursor.Selection
		want string
	}{
		{
			"first box decides",
			"- [ ] a\n- [x] b\n- [ ] c",
			[]cursor.Selection{cursor.NewSelection(buffer.Pos(0, 0), buffer.Pos(2, 1))},
			"- [x] a\n- [x] b\n- [x] c",
		},
		{
			"uncheck",
			"1. [x] a",
			[]cursor.Selection{cursor.At(0, 0)},
			"1. [ ] a",
		},
		{
			"boundary lines skipped",
			"- [ ] a\n- [ ] b",
			[]cursor.Selection{cursor.NewSelection(buffer.Pos(0, 7), buffer.Pos(1, 0))},
			"- [ ] a\n- [ ] b",
		},
		{
			"several carets",
			"- [x] a\ntext\n* [x] c",
			[]cursor.Selection{cursor.At(0, 0), cursor.At(2, 0)},
			"- [ ] a\ntext\n* [ ] c",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			doc := buffer.NewDocumentFromString(tc.text)
			if _, err := doc.ApplyEdits(ToggleTaskList(doc, tc.sels)); err != nil {
				t.Fatalf("apply failed: %v", err)
			}
			if doc.Text() != tc.want {
				t.Errorf("expected %q, got %q", tc.want, doc.Text())
			}
		})
	}
}

func TestMoveAndCopyLines(t *testing.T) {
	tests := []struct {
		name string
		text string
		sel  cursor.Selection
		act  func(buffer.Reader, cursor.Selection) Action
		want string
	}{
		{
			"move up",
			"1. a\n2. b\n3. c", cursor.At(2, 0),
			func(d buffer.Reader, s cursor.Selection) Action { return MoveLines(d, s, true) },
			"1. a\n2. c\n3. b",
		},
		{
			"move down",
			"1. a\n2. b\n3. c", cursor.At(0, 0),
			func(d buffer.Reader, s cursor.Selection) Action { return MoveLines(d, s, false) },
			"1. b\n2. a\n3. c",
		},
		{
			"copy down",
			"1. a\n2. b", cursor.At(0, 1),
			func(d buffer.Reader, s cursor.Selection) Action { return CopyLines(d, s, false) },
			"1. a\n2. a\n3. b",
		},
		{
			"move first line up",
			"1. a\n2. b", cursor.At(0, 0),
			func(d buffer.Reader, s cursor.Selection) Action { return MoveLines(d, s, true) },
			"1. a\n2. b",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			doc := buffer.NewDocumentFromString(tc.text)
			got, _ := run(t, tc.text, tc.sel, tc.act(doc, tc.sel), DefaultSettings())
			if got != tc.want {
				t.Errorf("expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestParseSettings(t *testing.T) {
	if _, err := ParseMarkerStyle("bogus"); err == nil {
		t.Error("expected error for unknown marker style")
	}
	if s, err := ParseMarkerStyle("One"); err != nil || s != MarkerOne {
		t.Errorf("expected MarkerOne, got %q (%v)", s, err)
	}

	size, err := ParseIndentationSize("adaptive")
	if err != nil || !size.Adaptive {
		t.Errorf("expected adaptive, got %v (%v)", size, err)
	}
	size, err = ParseIndentationSize("3")
	if err != nil || size.Spaces != 3 {
		t.Errorf("expected 3 spaces, got %v (%v)", size, err)
	}
	if _, err := ParseIndentationSize("0"); err == nil {
		t.Error("expected error for zero size")
	}
}

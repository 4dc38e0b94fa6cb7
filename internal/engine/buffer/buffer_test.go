package buffer

import (
	"errors"
	"strings"
	"testing"
)

func TestNewDocument(t *testing.T) {
	d := NewDocument()

	if !d.IsEmpty() {
		t.Error("new document should be empty")
	}

	if d.LineCount() != 1 {
		t.Errorf("expected 1 line, got %d", d.LineCount())
	}
}

func TestNewDocumentFromStringMultiline(t *testing.T) {
	d := NewDocumentFromString("line1\r\nline2\rline3")

	if d.LineCount() != 3 {
		t.Fatalf("expected 3 lines, got %d", d.LineCount())
	}

	for i, want := range []string{"line1", "line2", "line3"} {
		if got := d.LineText(i); got != want {
			t.Errorf("line %d: expected %q, got %q", i, want, got)
		}
	}

	if d.LineText(7) != "" {
		t.Error("out of range line should be empty")
	}
}

func TestNewDocumentFromReaderDetectsCRLF(t *testing.T) {
	d, err := NewDocumentFromReader(strings.NewReader("a\r\nb\r\n"))
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}

	if d.LineEnding() != LineEndingCRLF {
		t.Errorf("expected CRLF, got %s", d.LineEnding())
	}
	if d.Text() != "a\r\nb\r\n" {
		t.Errorf("round trip mismatch: %q", d.Text())
	}
}

func TestApplyEditReplaceSingleLine(t *testing.T) {
	d := NewDocumentFromString("Hello World")

	ch, err := d.ApplyEdit(NewReplace(NewRange(0, 6, 0, 11), "Gopher"))
	if err != nil {
		t.Fatalf("edit failed: %v", err)
	}

	if d.Text() != "Hello Gopher" {
		t.Errorf("expected 'Hello Gopher', got %q", d.Text())
	}
	if ch.OldText != "World" {
		t.Errorf("expected old text 'World', got %q", ch.OldText)
	}
	if ch.NewRange != NewRange(0, 6, 0, 12) {
		t.Errorf("unexpected new range %s", ch.NewRange)
	}
}

func TestApplyEditInsertNewline(t *testing.T) {
	d := NewDocumentFromString("ab")

	if _, err := d.ApplyEdit(NewInsert(Pos(0, 1), "\nx\n")); err != nil {
		t.Fatalf("insert failed: %v", err)
	}

	if d.Text() != "a\nx\nb" {
		t.Errorf("expected %q, got %q", "a\nx\nb", d.Text())
	}
}

func TestApplyEditsMultiRangePostCoordinates(t *testing.T) {
	d := NewDocumentFromString("one two\nthree")

	edits := []Edit{
		NewReplace(NewRange(1, 0, 1, 5), "3"),
		NewInsert(Pos(0, 0), "0\n"),
		NewReplace(NewRange(0, 4, 0, 7), "2"),
	}

	changes, err := d.ApplyEdits(edits)
	if err != nil {
		t.Fatalf("apply failed: %v", err)
	}

	if d.Text() != "0\none 2\n3" {
		t.Fatalf("unexpected text %q", d.Text())
	}

	// changes are reported in input order, in post-batch coordinates
	want := []Range{
		NewRange(2, 0, 2, 1),
		NewRange(0, 0, 1, 0),
		NewRange(1, 4, 1, 5),
	}
	for i, ch := range changes {
		if ch.NewRange != want[i] {
			t.Errorf("change %d: expected %s, got %s", i, want[i], ch.NewRange)
		}
	}
}

func TestApplyEditsSameLineShift(t *testing.T) {
	d := NewDocumentFromString("a b c")

	changes, err := d.ApplyEdits([]Edit{
		NewReplace(NewRange(0, 0, 0, 1), "AAA"),
		NewReplace(NewRange(0, 4, 0, 5), "C"),
	})
	if err != nil {
		t.Fatalf("apply failed: %v", err)
	}

	if d.Text() != "AAA b C" {
		t.Fatalf("unexpected text %q", d.Text())
	}
	if changes[1].NewRange != NewRange(0, 6, 0, 7) {
		t.Errorf("expected shifted range, got %s", changes[1].NewRange)
	}
}

func TestApplyEditsInvertRestores(t *testing.T) {
	original := "1. a\n3. b\n4. c"
	d := NewDocumentFromString(original)

	changes, err := d.ApplyEdits([]Edit{
		NewReplace(NewRange(1, 0, 1, 1), "2"),
		NewReplace(NewRange(2, 0, 2, 1), "3"),
		NewInsert(Pos(0, 4), "\nnew"),
	})
	if err != nil {
		t.Fatalf("apply failed: %v", err)
	}

	inverse := make([]Edit, len(changes))
	for i, ch := range changes {
		inverse[i] = ch.Invert()
	}
	if _, err := d.ApplyEdits(inverse); err != nil {
		t.Fatalf("undo failed: %v", err)
	}

	if d.Text() != original {
		t.Errorf("expected %q after undo, got %q", original, d.Text())
	}
}

func TestApplyEditsOverlapLeavesDocumentUnchanged(t *testing.T) {
	d := NewDocumentFromString("hello world")
	rev := d.RevisionID()

	_, err := d.ApplyEdits([]Edit{
		NewReplace(NewRange(0, 0, 0, 5), "HELLO"),
		NewReplace(NewRange(0, 3, 0, 8), "x"),
	})
	if !errors.Is(err, ErrEditsOverlap) {
		t.Fatalf("expected ErrEditsOverlap, got %v", err)
	}

	if d.Text() != "hello world" {
		t.Errorf("document changed on failed batch: %q", d.Text())
	}
	if d.RevisionID() != rev {
		t.Error("revision changed on failed batch")
	}
}

func TestApplyEditsOutOfRange(t *testing.T) {
	d := NewDocumentFromString("abc")

	tests := []struct {
		name string
		edit Edit
		want error
	}{
		{"line past end", NewInsert(Pos(3, 0), "x"), ErrPositionOutOfRange},
		{"char past end", NewInsert(Pos(0, 4), "x"), ErrPositionOutOfRange},
		{"reversed", NewReplace(NewRange(0, 2, 0, 1), "x"), ErrRangeInvalid},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := d.ApplyEdit(tc.edit); !errors.Is(err, tc.want) {
				t.Errorf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestSameInsertPositionKeepsOrder(t *testing.T) {
	d := NewDocumentFromString("x")

	if _, err := d.ApplyEdits([]Edit{
		NewInsert(Pos(0, 0), "A"),
		NewInsert(Pos(0, 0), "B"),
	}); err != nil {
		t.Fatalf("apply failed: %v", err)
	}

	if d.Text() != "ABx" {
		t.Errorf("expected 'ABx', got %q", d.Text())
	}
}

func TestTextRangeMultiline(t *testing.T) {
	d := NewDocumentFromString("héllo\nwörld\nend")

	got := d.TextRange(NewRange(0, 1, 2, 2))
	if got != "éllo\nwörld\nen" {
		t.Errorf("unexpected range text %q", got)
	}
}

func TestSnapshotIsolation(t *testing.T) {
	d := NewDocumentFromString("before")
	snap := d.Snapshot()

	if _, err := d.ApplyEdit(NewReplace(NewRange(0, 0, 0, 6), "after")); err != nil {
		t.Fatalf("edit failed: %v", err)
	}

	if snap.LineText(0) != "before" {
		t.Errorf("snapshot changed: %q", snap.LineText(0))
	}
	if d.LineText(0) != "after" {
		t.Errorf("document not changed: %q", d.LineText(0))
	}
}

func TestClampPosition(t *testing.T) {
	d := NewDocumentFromString("ab\ncde")

	tests := []struct {
		in, want Position
	}{
		{Pos(-1, 3), Pos(0, 0)},
		{Pos(0, 9), Pos(0, 2)},
		{Pos(5, 0), Pos(1, 3)},
		{Pos(1, -2), Pos(1, 0)},
	}

	for _, tc := range tests {
		if got := d.ClampPosition(tc.in); got != tc.want {
			t.Errorf("ClampPosition(%s) = %s, want %s", tc.in, got, tc.want)
		}
	}
}

func TestDetectLineEnding(t *testing.T) {
	tests := []struct {
		text string
		want LineEnding
	}{
		{"a\nb", LineEndingLF},
		{"a\r\nb\r\n", LineEndingCRLF},
		{"a\rb\r", LineEndingCR},
		{"plain", LineEndingLF},
	}

	for _, tc := range tests {
		if got := DetectLineEnding(tc.text); got != tc.want {
			t.Errorf("DetectLineEnding(%q) = %s, want %s", tc.text, got, tc.want)
		}
	}
}

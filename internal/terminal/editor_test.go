package terminal

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/rstedit/internal/dispatcher"
	cursorhandler "github.com/dshills/rstedit/internal/dispatcher/handlers/cursor"
	"github.com/dshills/rstedit/internal/dispatcher/handlers/editor"
	rsthandlers "github.com/dshills/rstedit/internal/dispatcher/handlers/rst"
	"github.com/dshills/rstedit/internal/engine"
	"github.com/dshills/rstedit/internal/engine/buffer"
	"github.com/dshills/rstedit/internal/engine/cursor"
	"github.com/dshills/rstedit/internal/input/keymap"
)

type fixture struct {
	screen tcell.SimulationScreen
	engine *engine.Engine
	editor *Editor
	saved  []string
}

func newFixture(t *testing.T, text string, engOpts ...engine.Option) *fixture {
	t.Helper()

	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	screen.SetSize(30, 6)
	t.Cleanup(screen.Fini)

	e := engine.New(append([]engine.Option{engine.WithContent(text)}, engOpts...)...)
	d := dispatcher.NewWithDefaults()
	d.SetEngine(e)
	d.RegisterNamespace("cursor", cursorhandler.NewHandler())
	d.RegisterNamespace("edit", editor.New())
	d.RegisterNamespace("rst", rsthandlers.New())
	for action, fallback := range rsthandlers.Passthroughs() {
		d.SetPassthrough(action, fallback)
	}

	f := &fixture{screen: screen, engine: e}
	f.editor = New(screen, e, d, keymap.Default(),
		WithPath("/docs/index.rst"),
		WithSave(func() error {
			f.saved = append(f.saved, e.Text())
			return nil
		}),
	)
	return f
}

func (f *fixture) key(k tcell.Key, r rune, mod tcell.ModMask) {
	f.editor.HandleEvent(tcell.NewEventKey(k, r, mod))
}

func (f *fixture) typeText(s string) {
	for _, r := range s {
		f.key(tcell.KeyRune, r, tcell.ModNone)
	}
}

// row returns the text drawn on screen row y, right-trimmed.
func (f *fixture) row(y int) string {
	cells, w, _ := f.screen.GetContents()
	var sb strings.Builder
	for x := range w {
		c := cells[y*w+x]
		if len(c.Runes) == 0 {
			sb.WriteRune(' ')
			continue
		}
		sb.WriteRune(c.Runes[0])
	}
	return strings.TrimRight(sb.String(), " ")
}

func (f *fixture) style(x, y int) tcell.Style {
	cells, w, _ := f.screen.GetContents()
	return cells[y*w+x].Style
}

func TestTyping(t *testing.T) {
	f := newFixture(t, "")
	f.typeText("Hello")

	if got := f.engine.Text(); got != "Hello" {
		t.Errorf("text = %q, want %q", got, "Hello")
	}
	if !f.editor.Modified() {
		t.Error("Modified() = false after typing")
	}
}

func TestKeysRunRstActions(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		sel   cursor.Selection
		keys  []*tcell.EventKey
		want  string
		caret buffer.Position
	}{
		{
			name:  "enter continues list",
			text:  "1. a",
			sel:   cursor.At(0, 4),
			keys:  []*tcell.EventKey{tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModNone)},
			want:  "1. a\n2. ",
			caret: buffer.Pos(1, 3),
		},
		{
			name:  "enter on plain text",
			text:  "plain",
			sel:   cursor.At(0, 5),
			keys:  []*tcell.EventKey{tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModNone)},
			want:  "plain\n",
			caret: buffer.Pos(1, 0),
		},
		{
			name:  "ctrl b bolds selection",
			text:  "some text",
			sel:   cursor.NewSelection(buffer.Pos(0, 5), buffer.Pos(0, 9)),
			keys:  []*tcell.EventKey{tcell.NewEventKey(tcell.KeyCtrlB, 0, tcell.ModCtrl)},
			want:  "some **text**",
			caret: buffer.Pos(0, 11),
		},
		{
			name:  "alt h underlines heading",
			text:  "Title",
			sel:   cursor.At(0, 0),
			keys:  []*tcell.EventKey{tcell.NewEventKey(tcell.KeyRune, 'h', tcell.ModAlt)},
			want:  "Title\n=====",
			caret: buffer.Pos(0, 0),
		},
		{
			name: "backspace then undo",
			text: "ab",
			sel:  cursor.At(0, 2),
			keys: []*tcell.EventKey{
				tcell.NewEventKey(tcell.KeyBackspace2, 0, tcell.ModNone),
				tcell.NewEventKey(tcell.KeyCtrlZ, 0, tcell.ModCtrl),
			},
			want:  "ab",
			caret: buffer.Pos(0, 2),
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t, tc.text)
			f.engine.SetSelection(tc.sel)
			for _, ev := range tc.keys {
				f.editor.HandleEvent(ev)
			}

			if got := f.engine.Text(); got != tc.want {
				t.Errorf("text = %q, want %q", got, tc.want)
			}
			if got := f.engine.PrimarySelection().Active; got != tc.caret {
				t.Errorf("caret = %v, want %v", got, tc.caret)
			}
		})
	}
}

func TestPasteSkipsListBehavior(t *testing.T) {
	f := newFixture(t, "1. a")
	f.engine.SetSelection(cursor.At(0, 4))

	f.editor.HandleEvent(tcell.NewEventPaste(true))
	f.key(tcell.KeyEnter, 0, tcell.ModNone)
	f.typeText("x")
	f.key(tcell.KeyTab, 0, tcell.ModNone)
	f.editor.HandleEvent(tcell.NewEventPaste(false))

	if got, want := f.engine.Text(), "1. a\nx\t"; got != want {
		t.Errorf("text = %q, want %q", got, want)
	}

	f.key(tcell.KeyEnter, 0, tcell.ModNone)
	if got := f.engine.LineCount(); got != 3 {
		t.Errorf("LineCount() = %d after paste ended, want 3", got)
	}
}

func TestSave(t *testing.T) {
	f := newFixture(t, "text")
	f.engine.SetSelection(cursor.At(0, 4))
	f.typeText("!")

	f.key(tcell.KeyCtrlS, 0, tcell.ModCtrl)

	if len(f.saved) != 1 || f.saved[0] != "text!" {
		t.Errorf("saved = %q", f.saved)
	}
	if f.editor.Modified() {
		t.Error("Modified() = true after save")
	}
	if !strings.Contains(f.editor.Status(), "index.rst") {
		t.Errorf("Status() = %q", f.editor.Status())
	}
}

func TestSaveFailure(t *testing.T) {
	f := newFixture(t, "text")
	f.editor.save = func() error { return errors.New("disk full") }
	f.typeText("x")

	f.key(tcell.KeyCtrlS, 0, tcell.ModCtrl)

	if !f.editor.Modified() {
		t.Error("Modified() = false after failed save")
	}
	if !strings.Contains(f.editor.Status(), "disk full") {
		t.Errorf("Status() = %q", f.editor.Status())
	}
}

func TestQuit(t *testing.T) {
	t.Run("unmodified", func(t *testing.T) {
		f := newFixture(t, "text")
		f.key(tcell.KeyCtrlQ, 0, tcell.ModCtrl)
		if !f.editor.Done() {
			t.Error("Done() = false")
		}
	})

	t.Run("modified asks again", func(t *testing.T) {
		f := newFixture(t, "text")
		f.typeText("x")

		f.key(tcell.KeyCtrlQ, 0, tcell.ModCtrl)
		if f.editor.Done() {
			t.Fatal("quit without confirmation")
		}
		if !strings.Contains(f.editor.Status(), "unsaved") {
			t.Errorf("Status() = %q", f.editor.Status())
		}

		f.key(tcell.KeyCtrlQ, 0, tcell.ModCtrl)
		if !f.editor.Done() {
			t.Error("Done() = false after second ctrl+q")
		}
	})

	t.Run("other key resets confirmation", func(t *testing.T) {
		f := newFixture(t, "text")
		f.typeText("x")

		f.key(tcell.KeyCtrlQ, 0, tcell.ModCtrl)
		f.key(tcell.KeyLeft, 0, tcell.ModNone)
		f.key(tcell.KeyCtrlQ, 0, tcell.ModCtrl)
		if f.editor.Done() {
			t.Error("quit after confirmation was reset")
		}
	})
}

func TestReadOnly(t *testing.T) {
	f := newFixture(t, "1. a", engine.WithReadOnly())
	f.engine.SetSelection(cursor.At(0, 4))

	f.typeText("x")
	f.key(tcell.KeyEnter, 0, tcell.ModNone)
	f.key(tcell.KeyCtrlB, 0, tcell.ModCtrl)

	if got := f.engine.Text(); got != "1. a" {
		t.Errorf("text = %q, want unchanged", got)
	}

	f.editor.Draw()
	if status := f.row(5); !strings.Contains(status, "[RO]") {
		t.Errorf("status line = %q", status)
	}
}

func TestDraw(t *testing.T) {
	f := newFixture(t, "Title\n=====\n\nbody\ttext")
	f.engine.SetSelection(cursor.NewSelection(buffer.Pos(3, 0), buffer.Pos(3, 4)))
	f.editor.Draw()

	rows := []string{"Title", "=====", "", "body    text"}
	for y, want := range rows {
		if got := f.row(y); got != want {
			t.Errorf("row %d = %q, want %q", y, got, want)
		}
	}

	if _, _, attrs := f.style(0, 0).Decompose(); attrs&tcell.AttrBold == 0 {
		t.Error("heading is not bold")
	}
	if _, _, attrs := f.style(0, 3).Decompose(); attrs&tcell.AttrReverse == 0 {
		t.Error("selection is not reversed")
	}
	if _, _, attrs := f.style(5, 3).Decompose(); attrs&tcell.AttrReverse != 0 {
		t.Error("text after the selection is reversed")
	}

	status := f.row(5)
	if !strings.Contains(status, "index.rst") || !strings.Contains(status, "4:5") {
		t.Errorf("status line = %q", status)
	}
	if x, y, visible := f.screen.GetCursor(); !visible || x != 4 || y != 3 {
		t.Errorf("cursor = (%d, %d, %v), want (4, 3, true)", x, y, visible)
	}
}

func TestDrawScrolls(t *testing.T) {
	lines := make([]string, 30)
	for i := range lines {
		lines[i] = fmt.Sprintf("line%d", i)
	}
	f := newFixture(t, strings.Join(lines, "\n"))

	f.engine.SetSelection(cursor.At(20, 2))
	f.editor.Draw()
	if got := f.row(0); got != "line16" {
		t.Errorf("top row = %q, want line16", got)
	}
	if _, y, _ := f.screen.GetCursor(); y != 4 {
		t.Errorf("cursor row = %d, want 4", y)
	}

	f.engine.SetSelection(cursor.At(2, 0))
	f.editor.Draw()
	if got := f.row(0); got != "line2" {
		t.Errorf("top row = %q, want line2", got)
	}
}

func TestDrawScrollsHorizontally(t *testing.T) {
	long := strings.Repeat("a", 40) + "END"
	f := newFixture(t, long)

	f.engine.SetSelection(cursor.At(0, 43))
	f.editor.Draw()
	if got := f.row(0); !strings.HasSuffix(got, "END") {
		t.Errorf("row = %q, want it to end with END", got)
	}
	if x, _, _ := f.screen.GetCursor(); x != 29 {
		t.Errorf("cursor column = %d, want 29", x)
	}
}

func TestDrawTable(t *testing.T) {
	grid := "+---+\n| a |\n+---+"
	f := newFixture(t, "intro\n"+grid)
	f.editor.Draw()

	want := DefaultStyles().Table
	if got := f.style(0, 1); got != want {
		t.Errorf("table style = %v, want %v", got, want)
	}
	if got := f.style(0, 0); got == want {
		t.Error("text line drawn in table style")
	}
}

func TestRunQuits(t *testing.T) {
	f := newFixture(t, "text")
	f.screen.InjectKey(tcell.KeyRune, 'x', tcell.ModNone)
	f.screen.InjectKey(tcell.KeyCtrlQ, 0, tcell.ModCtrl)
	f.screen.InjectKey(tcell.KeyCtrlQ, 0, tcell.ModCtrl)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := f.editor.Run(ctx); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if got := f.engine.Text(); got != "xtext" {
		t.Errorf("text = %q, want %q", got, "xtext")
	}
}

func TestRunCancelled(t *testing.T) {
	f := newFixture(t, "text")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := f.editor.Run(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Run() error = %v, want context.Canceled", err)
	}
}

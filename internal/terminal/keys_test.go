package terminal

import (
	"testing"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/rstedit/internal/input/keymap"
)

func TestKeyString(t *testing.T) {
	tests := []struct {
		name string
		ev   *tcell.EventKey
		want string
		ok   bool
	}{
		{"ctrl letter", tcell.NewEventKey(tcell.KeyCtrlB, 0, tcell.ModCtrl), "ctrl+b", true},
		{"ctrl rune", tcell.NewEventKey(tcell.KeyRune, 's', tcell.ModCtrl), "ctrl+s", true},
		{"alt letter", tcell.NewEventKey(tcell.KeyRune, 'i', tcell.ModAlt), "alt+i", true},
		{"alt shifted letter", tcell.NewEventKey(tcell.KeyRune, 'H', tcell.ModAlt), "alt+shift+h", true},
		{"meta is alt", tcell.NewEventKey(tcell.KeyRune, 't', tcell.ModMeta), "alt+t", true},
		{"alt bracket", tcell.NewEventKey(tcell.KeyRune, ']', tcell.ModAlt), "alt+]", true},
		{"backtab", tcell.NewEventKey(tcell.KeyBacktab, 0, tcell.ModNone), "shift+tab", true},
		{"enter", tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModNone), "enter", true},
		{"alt enter", tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModAlt), "alt+enter", true},
		{"shift arrow", tcell.NewEventKey(tcell.KeyLeft, 0, tcell.ModShift), "shift+left", true},
		{"alt shift arrow", tcell.NewEventKey(tcell.KeyUp, 0, tcell.ModAlt|tcell.ModShift), "alt+shift+up", true},
		{"backspace2", tcell.NewEventKey(tcell.KeyBackspace2, 0, tcell.ModNone), "backspace", true},
		{"ctrl space", tcell.NewEventKey(tcell.KeyCtrlSpace, 0, tcell.ModCtrl), "ctrl+space", true},
		{"plain rune", tcell.NewEventKey(tcell.KeyRune, 'x', tcell.ModNone), "x", true},
		{"shifted rune", tcell.NewEventKey(tcell.KeyRune, 'X', tcell.ModShift), "X", true},
		{"function key", tcell.NewEventKey(tcell.KeyF5, 0, tcell.ModNone), "", false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := KeyString(tc.ev)
			if ok != tc.ok {
				t.Fatalf("KeyString() ok = %v, want %v", ok, tc.ok)
			}
			if !ok {
				return
			}
			if want := keymap.MustNormalize(tc.want); got != want {
				t.Errorf("KeyString() = %q, want %q", got, want)
			}
		})
	}
}

func TestIsText(t *testing.T) {
	tests := []struct {
		name string
		ev   *tcell.EventKey
		want bool
	}{
		{"letter", tcell.NewEventKey(tcell.KeyRune, 'a', tcell.ModNone), true},
		{"shifted letter", tcell.NewEventKey(tcell.KeyRune, 'A', tcell.ModShift), true},
		{"alt letter", tcell.NewEventKey(tcell.KeyRune, 'a', tcell.ModAlt), false},
		{"ctrl letter", tcell.NewEventKey(tcell.KeyRune, 'a', tcell.ModCtrl), false},
		{"enter", tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModNone), false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsText(tc.ev); got != tc.want {
				t.Errorf("IsText() = %v, want %v", got, tc.want)
			}
		})
	}
}

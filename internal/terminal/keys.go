package terminal

import (
	"unicode"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/rstedit/internal/input/keymap"
)

// namedKeys maps tcell special keys to keymap key names.
var namedKeys = map[tcell.Key]string{
	tcell.KeyEnter:      "enter",
	tcell.KeyTab:        "tab",
	tcell.KeyBackspace:  "backspace",
	tcell.KeyBackspace2: "backspace",
	tcell.KeyDelete:     "delete",
	tcell.KeyEscape:     "esc",
	tcell.KeyUp:         "up",
	tcell.KeyDown:       "down",
	tcell.KeyLeft:       "left",
	tcell.KeyRight:      "right",
	tcell.KeyHome:       "home",
	tcell.KeyEnd:        "end",
	tcell.KeyPgUp:       "pgup",
	tcell.KeyPgDn:       "pgdn",
	tcell.KeyInsert:     "insert",
}

// KeyString returns the canonical keymap form of a key event, such as
// "ctrl+b", "alt+shift+h" or "enter". Plain printable runes come back
// as the rune itself. ok is false for keys with no name.
func KeyString(ev *tcell.EventKey) (string, bool) {
	mods := modifiers(ev.Modifiers())

	switch k := ev.Key(); {
	case k == tcell.KeyBacktab:
		return keymap.Format(mods|keymap.ModShift, "tab"), true
	case k == tcell.KeyCtrlSpace || k == tcell.KeyNUL:
		return keymap.Format(mods|keymap.ModCtrl, "space"), true
	case namedKeys[k] != "":
		return keymap.Format(mods, namedKeys[k]), true
	case k >= tcell.KeyCtrlA && k <= tcell.KeyCtrlZ:
		return keymap.Format(mods|keymap.ModCtrl, string(rune('a'+k-tcell.KeyCtrlA))), true
	case k != tcell.KeyRune:
		return "", false
	}

	r := ev.Rune()
	if mods&(keymap.ModCtrl|keymap.ModAlt) != 0 {
		if unicode.IsUpper(r) {
			mods |= keymap.ModShift
			r = unicode.ToLower(r)
		}
		if r == ' ' {
			return keymap.Format(mods, "space"), true
		}
	} else {
		// the rune already carries shift
		mods = keymap.ModNone
	}
	return keymap.Format(mods, string(r)), true
}

// IsText reports whether ev types a character: a rune with no ctrl or
// alt held.
func IsText(ev *tcell.EventKey) bool {
	return ev.Key() == tcell.KeyRune && ev.Modifiers()&(tcell.ModCtrl|tcell.ModAlt|tcell.ModMeta) == 0
}

func modifiers(m tcell.ModMask) keymap.Modifier {
	var mods keymap.Modifier
	if m&tcell.ModCtrl != 0 {
		mods |= keymap.ModCtrl
	}
	if m&(tcell.ModAlt|tcell.ModMeta) != 0 {
		mods |= keymap.ModAlt
	}
	if m&tcell.ModShift != 0 {
		mods |= keymap.ModShift
	}
	return mods
}

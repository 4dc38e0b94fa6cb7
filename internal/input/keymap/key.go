package keymap

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// Parse errors.
var (
	ErrEmptySpec   = errors.New("empty key specification")
	ErrInvalidSpec = errors.New("invalid key specification")
)

// Modifier is a set of modifier keys.
type Modifier uint8

const (
	ModNone  Modifier = 0
	ModCtrl  Modifier = 1 << 0
	ModAlt   Modifier = 1 << 1
	ModShift Modifier = 1 << 2
)

// Has reports whether m contains mod.
func (m Modifier) Has(mod Modifier) bool {
	return m&mod != 0
}

// keyAliases maps accepted key names to canonical ones.
var keyAliases = map[string]string{
	"enter": "enter", "return": "enter", "cr": "enter",
	"tab": "tab", "backtab": "shift+tab",
	"backspace": "backspace", "bs": "backspace",
	"delete": "delete", "del": "delete",
	"escape": "esc", "esc": "esc",
	"space": "space",
	"up": "up", "down": "down", "left": "left", "right": "right",
	"home": "home", "end": "end",
	"pageup": "pgup", "pgup": "pgup", "pagedown": "pgdn", "pgdn": "pgdn",
	"insert": "insert",
}

// Normalize returns the canonical form of a key specification:
// lower-case modifiers in the order ctrl, alt, shift joined to the key
// name with '+'.
func Normalize(spec string) (string, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return "", ErrEmptySpec
	}

	var mods Modifier
	var name string
	var err error

	switch {
	case strings.HasPrefix(spec, "<") && strings.HasSuffix(spec, ">") && len(spec) > 2:
		mods, name, err = splitVim(spec[1 : len(spec)-1])
	case len(spec) > 1 && strings.Contains(spec, "+"):
		mods, name, err = splitReadable(spec)
	default:
		name = spec
	}
	if err != nil {
		return "", err
	}
	return format(mods, name)
}

// MustNormalize is Normalize for specifications known to be valid.
func MustNormalize(spec string) string {
	k, err := Normalize(spec)
	if err != nil {
		panic(err)
	}
	return k
}

// Format builds the canonical key string from its parts.
func Format(mods Modifier, name string) string {
	k, err := format(mods, name)
	if err != nil {
		return ""
	}
	return k
}

func splitVim(inner string) (Modifier, string, error) {
	parts := strings.Split(inner, "-")
	// "<C-->" binds the minus key
	if strings.HasSuffix(inner, "--") {
		parts = append(strings.Split(strings.TrimSuffix(inner, "--"), "-"), "-")
	}
	var mods Modifier
	for _, p := range parts[:len(parts)-1] {
		switch strings.ToLower(p) {
		case "c":
			mods |= ModCtrl
		case "a", "m":
			mods |= ModAlt
		case "s":
			mods |= ModShift
		default:
			return 0, "", fmt.Errorf("%w: unknown modifier %q", ErrInvalidSpec, p)
		}
	}
	return mods, parts[len(parts)-1], nil
}

func splitReadable(spec string) (Modifier, string, error) {
	parts := strings.Split(spec, "+")
	// "ctrl++" binds the plus key
	if strings.HasSuffix(spec, "++") {
		parts = append(strings.Split(strings.TrimSuffix(spec, "++"), "+"), "+")
	}
	var mods Modifier
	for _, p := range parts[:len(parts)-1] {
		switch strings.ToLower(strings.TrimSpace(p)) {
		case "ctrl", "control":
			mods |= ModCtrl
		case "alt", "option", "meta":
			mods |= ModAlt
		case "shift":
			mods |= ModShift
		default:
			return 0, "", fmt.Errorf("%w: unknown modifier %q", ErrInvalidSpec, p)
		}
	}
	return mods, strings.TrimSpace(parts[len(parts)-1]), nil
}

func format(mods Modifier, name string) (string, error) {
	if name == "" {
		return "", ErrInvalidSpec
	}

	if utf8.RuneCountInString(name) == 1 {
		// Shifted letters are written upper case without the modifier.
		if mods.Has(ModShift) && mods&^ModShift == 0 {
			name = strings.ToUpper(name)
			mods = ModNone
		} else if mods != ModNone {
			name = strings.ToLower(name)
		}
	} else {
		alias, ok := keyAliases[strings.ToLower(name)]
		if !ok {
			return "", fmt.Errorf("%w: unknown key %q", ErrInvalidSpec, name)
		}
		if strings.HasPrefix(alias, "shift+") {
			mods |= ModShift
			alias = strings.TrimPrefix(alias, "shift+")
		}
		name = alias
	}

	var sb strings.Builder
	if mods.Has(ModCtrl) {
		sb.WriteString("ctrl+")
	}
	if mods.Has(ModAlt) {
		sb.WriteString("alt+")
	}
	if mods.Has(ModShift) {
		sb.WriteString("shift+")
	}
	sb.WriteString(name)
	return sb.String(), nil
}

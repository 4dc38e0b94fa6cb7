package keymap

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		spec string
		want string
	}{
		{"a", "a"},
		{"A", "A"},
		{"Ctrl+B", "ctrl+b"},
		{"<C-b>", "ctrl+b"},
		{"shift+ctrl+Up", "ctrl+shift+up"},
		{"Shift+a", "A"},
		{"<A-CR>", "alt+enter"},
		{"Return", "enter"},
		{"backtab", "shift+tab"},
		{"alt+]", "alt+]"},
		{"ctrl++", "ctrl++"},
		{"<C-->", "ctrl+-"},
		{"PageDown", "pgdn"},
	}

	for _, tc := range tests {
		got, err := Normalize(tc.spec)
		if err != nil {
			t.Errorf("Normalize(%q) failed: %v", tc.spec, err)
			continue
		}
		if got != tc.want {
			t.Errorf("Normalize(%q) = %q, want %q", tc.spec, got, tc.want)
		}
	}
}

func TestNormalizeErrors(t *testing.T) {
	tests := []struct {
		spec string
		want error
	}{
		{"", ErrEmptySpec},
		{"  ", ErrEmptySpec},
		{"hyper+a", ErrInvalidSpec},
		{"ctrl+nokey", ErrInvalidSpec},
		{"<X-a>", ErrInvalidSpec},
	}

	for _, tc := range tests {
		if _, err := Normalize(tc.spec); !errors.Is(err, tc.want) {
			t.Errorf("Normalize(%q) error = %v, want %v", tc.spec, err, tc.want)
		}
	}
}

func TestFormat(t *testing.T) {
	if got := Format(ModCtrl|ModShift, "Up"); got != "ctrl+shift+up" {
		t.Errorf("unexpected %q", got)
	}
	if got := Format(ModNone, ""); got != "" {
		t.Errorf("expected empty for invalid key, got %q", got)
	}
}

func TestBindingMatches(t *testing.T) {
	tests := []struct {
		when string
		ctx  Context
		want bool
	}{
		{"", nil, true},
		{"tableSelected", Context{"tableSelected": true}, true},
		{"tableSelected", nil, false},
		{"!editorReadonly", nil, true},
		{"!editorReadonly", Context{"editorReadonly": true}, false},
		{"!editorReadonly && tableSelected", Context{"tableSelected": true}, true},
		{"!!tableSelected", Context{"tableSelected": true}, true},
	}

	for _, tc := range tests {
		b := NewBinding("x", "a").WithWhen(tc.when)
		if got := b.Matches(tc.ctx); got != tc.want {
			t.Errorf("when %q in %v = %v, want %v", tc.when, tc.ctx, got, tc.want)
		}
	}
}

func TestLookupPrefersNewestMatch(t *testing.T) {
	k := New("test")
	mustAdd(t, k, NewBinding("Enter", "edit.newline"))
	mustAdd(t, k, NewBinding("enter", "rst.key.enter").WithWhen("!editorReadonly"))

	a, ok := k.Lookup("enter", Context{})
	if !ok || a.Name != "rst.key.enter" {
		t.Errorf("expected rst.key.enter, got %q", a.Name)
	}

	a, ok = k.Lookup("enter", Context{FlagReadOnly: true})
	if !ok || a.Name != "edit.newline" {
		t.Errorf("expected fallback binding, got %q", a.Name)
	}

	if _, ok := k.Lookup("ctrl+x", nil); ok {
		t.Error("expected no binding")
	}
}

func TestBindingArgs(t *testing.T) {
	b := NewBinding("alt+1", "rst.heading.add").WithArgs(map[string]any{"text": "=", "level": 1})
	a := b.ToAction()

	if a.Args.Text != "=" {
		t.Errorf("expected text argument, got %q", a.Args.Text)
	}
	if a.Args.GetInt("level") != 1 {
		t.Errorf("expected level argument, got %v", a.Args.Extra)
	}
}

func TestDefault(t *testing.T) {
	k := Default()

	tests := []struct {
		key  string
		ctx  Context
		want string
		ok   bool
	}{
		{"enter", nil, "rst.key.enter", true},
		{"ctrl+b", nil, "rst.bold", true},
		{"ctrl+b", Context{FlagReadOnly: true}, "", false},
		{"alt+t", Context{FlagTableSelected: true}, "", false},
		{"shift+tab", nil, "rst.key.shiftTab", true},
		{"ctrl+q", Context{FlagReadOnly: true}, "app.quit", true},
	}

	for _, tc := range tests {
		a, ok := k.Lookup(tc.key, tc.ctx)
		if ok != tc.ok || a.Name != tc.want {
			t.Errorf("%s: got %q/%v, want %q/%v", tc.key, a.Name, ok, tc.want, tc.ok)
		}
	}
}

func TestLoadReader(t *testing.T) {
	k := Default()
	before := k.Len()

	src := `[
		// Place your key bindings in this file
		{"key": "ctrl+e", "command": "rst.inlineRaw"},
		{"key": "ctrl+b", "command": "-rst.bold"},
		{"key": "alt+1", "command": "rst.heading.add", "args": {"text": "#"}, "when": "!editorReadonly"},
	]`
	if err := k.LoadReader(strings.NewReader(src)); err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if _, ok := k.Lookup("ctrl+b", nil); ok {
		t.Error("ctrl+b should be unbound")
	}
	if a, ok := k.Lookup("alt+1", nil); !ok || a.Args.Text != "#" {
		t.Errorf("expected heading binding, got %+v", a)
	}
	if k.Len() != before+1 {
		t.Errorf("expected %d bindings, got %d", before+1, k.Len())
	}

	if err := k.LoadReader(strings.NewReader(`[{"key": "hyper+x", "command": "a"}]`)); !errors.Is(err, ErrInvalidSpec) {
		t.Errorf("expected ErrInvalidSpec, got %v", err)
	}
}

func TestSaveAndLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keybindings.json")

	k := New("user")
	mustAdd(t, k, NewBinding("ctrl+e", "rst.inlineRaw").WithWhen("!editorReadonly"))
	if err := k.SaveFile(path); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	loaded := New("loaded")
	if err := loaded.LoadFile(path); err != nil {
		t.Fatalf("load failed: %v", err)
	}
	b, ok := loaded.Binding("ctrl+e", nil)
	if !ok || b.Action != "rst.inlineRaw" || b.When != "!editorReadonly" {
		t.Errorf("unexpected binding %+v", b)
	}
}

func mustAdd(t *testing.T, k *Keymap, b Binding) {
	t.Helper()
	if err := k.AddBinding(b); err != nil {
		t.Fatalf("add %q: %v", b.Keys, err)
	}
}

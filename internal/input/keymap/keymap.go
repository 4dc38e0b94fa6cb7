package keymap

import (
	"fmt"
	"sort"
	"sync"

	"github.com/dshills/rstedit/internal/input"
)

// Keymap holds key bindings. Later bindings for the same key take
// precedence over earlier ones, so user bindings are added last.
type Keymap struct {
	mu sync.RWMutex

	// Name is the keymap identifier.
	Name string

	bindings map[string][]Binding
	count    int
}

// New creates an empty keymap.
func New(name string) *Keymap {
	return &Keymap{Name: name, bindings: make(map[string][]Binding)}
}

// Add binds keys to action.
func (k *Keymap) Add(keys, action string) error {
	return k.AddBinding(NewBinding(keys, action))
}

// AddBinding adds a fully configured binding.
func (k *Keymap) AddBinding(b Binding) error {
	if b.Action == "" {
		return fmt.Errorf("binding %q: empty action", b.Keys)
	}
	norm, err := Normalize(b.Keys)
	if err != nil {
		return fmt.Errorf("binding %q: %w", b.Keys, err)
	}
	b.Keys = norm

	k.mu.Lock()
	defer k.mu.Unlock()
	k.bindings[norm] = append(k.bindings[norm], b)
	k.count++
	return nil
}

// Unbind removes every binding of keys.
func (k *Keymap) Unbind(keys string) error {
	norm, err := Normalize(keys)
	if err != nil {
		return err
	}

	k.mu.Lock()
	defer k.mu.Unlock()
	k.count -= len(k.bindings[norm])
	delete(k.bindings, norm)
	return nil
}

// Lookup returns the action of the newest binding for key whose
// condition holds in ctx. key must be normalized.
func (k *Keymap) Lookup(key string, ctx Context) (input.Action, bool) {
	b, ok := k.Binding(key, ctx)
	if !ok {
		return input.Action{}, false
	}
	return b.ToAction(), true
}

// Binding returns the newest matching binding for key.
func (k *Keymap) Binding(key string, ctx Context) (Binding, bool) {
	k.mu.RLock()
	defer k.mu.RUnlock()

	list := k.bindings[key]
	for i := len(list) - 1; i >= 0; i-- {
		if list[i].Matches(ctx) {
			return list[i], true
		}
	}
	return Binding{}, false
}

// Len returns the number of bindings.
func (k *Keymap) Len() int {
	k.mu.RLock()
	defer k.mu.RUnlock()
	return k.count
}

// Bindings returns all bindings sorted by key, in precedence order per key.
func (k *Keymap) Bindings() []Binding {
	k.mu.RLock()
	defer k.mu.RUnlock()

	keys := make([]string, 0, len(k.bindings))
	for key := range k.bindings {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	out := make([]Binding, 0, k.count)
	for _, key := range keys {
		out = append(out, k.bindings[key]...)
	}
	return out
}

// Merge adds every binding of other after the bindings of k.
func (k *Keymap) Merge(other *Keymap) {
	for _, b := range other.Bindings() {
		// already normalized
		_ = k.AddBinding(b)
	}
}

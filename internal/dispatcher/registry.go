package dispatcher

import (
	"sort"
	"sync"

	"github.com/dshills/rstedit/internal/dispatcher/handler"
)

// Registry maps exact action names to handlers. Actions outside any
// namespace handler live here, such as the commands of Lua scripts.
type Registry struct {
	mu       sync.RWMutex
	handlers map[string]handler.Handler
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		handlers: make(map[string]handler.Handler),
	}
}

// Register binds h to action and returns the handler it replaced, if any.
func (r *Registry) Register(action string, h handler.Handler) handler.Handler {
	r.mu.Lock()
	defer r.mu.Unlock()
	prev := r.handlers[action]
	r.handlers[action] = h
	return prev
}

// Unregister removes the handler of action and reports whether there
// was one.
func (r *Registry) Unregister(action string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.handlers[action]
	delete(r.handlers, action)
	return ok
}

// Get returns the handler of action, or nil.
func (r *Registry) Get(action string) handler.Handler {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.handlers[action]
}

// Has reports whether action has a handler.
func (r *Registry) Has(action string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.handlers[action]
	return ok
}

// List returns the registered action names, sorted.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.handlers))
	for name := range r.handlers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of registered actions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.handlers)
}

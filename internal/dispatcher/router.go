package dispatcher

import (
	"sort"
	"strings"
	"sync"

	"github.com/dshills/rstedit/internal/dispatcher/handler"
)

// Router routes dotted action names to namespace handlers and holds the
// passthrough table used when a handler declines an action.
//
// "rst.key.enter" is routed to the "rst" namespace. If that handler
// returns a passthrough result and a passthrough is set for the action,
// the dispatcher runs the fallback action instead, e.g. "edit.newline".
type Router struct {
	mu          sync.RWMutex
	namespaces  map[string]handler.NamespaceHandler
	passthrough map[string]string
}

// NewRouter creates an empty router.
func NewRouter() *Router {
	return &Router{
		namespaces:  make(map[string]handler.NamespaceHandler),
		passthrough: make(map[string]string),
	}
}

// RegisterNamespace routes every action named "<namespace>.*" to h,
// replacing an earlier handler of the same namespace.
func (r *Router) RegisterNamespace(namespace string, h handler.NamespaceHandler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.namespaces[namespace] = h
}

// UnregisterNamespace removes a namespace handler.
func (r *Router) UnregisterNamespace(namespace string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.namespaces, namespace)
}

// Namespace returns the handler of a namespace, or nil.
func (r *Router) Namespace(namespace string) handler.NamespaceHandler {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.namespaces[namespace]
}

// Namespaces returns the registered namespaces, sorted.
func (r *Router) Namespaces() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.namespaces))
	for name := range r.namespaces {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Route returns the handler for an action, or nil when its namespace is
// unknown or the namespace handler does not accept it.
func (r *Router) Route(action string) handler.Handler {
	h := r.lookup(action)
	if h == nil {
		return nil
	}
	return handler.Namespaced(h)
}

// CanRoute reports whether Route would find a handler.
func (r *Router) CanRoute(action string) bool {
	return r.lookup(action) != nil
}

func (r *Router) lookup(action string) handler.NamespaceHandler {
	namespace, _ := SplitAction(action)
	if namespace == "" {
		return nil
	}

	r.mu.RLock()
	h, ok := r.namespaces[namespace]
	r.mu.RUnlock()
	if !ok || !h.CanHandle(action) {
		return nil
	}
	return h
}

// SetPassthrough sets the action run when the handler of action declines.
// An empty fallback removes the entry.
func (r *Router) SetPassthrough(action, fallback string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if fallback == "" {
		delete(r.passthrough, action)
		return
	}
	r.passthrough[action] = fallback
}

// Passthrough returns the fallback action of action.
func (r *Router) Passthrough(action string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	fallback, ok := r.passthrough[action]
	return fallback, ok
}

// Actions returns the actions of every namespace handler that lists
// them, sorted.
func (r *Router) Actions() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var names []string
	for _, h := range r.namespaces {
		if lister, ok := h.(interface{ Actions() []string }); ok {
			names = append(names, lister.Actions()...)
		}
	}
	sort.Strings(names)
	return names
}

// SplitAction splits "rst.table.create" into "rst" and "table.create".
// A name without a dot has no namespace.
func SplitAction(action string) (namespace, name string) {
	namespace, name, ok := strings.Cut(action, ".")
	if !ok {
		return "", action
	}
	return namespace, name
}

package layer

import (
	"fmt"
	"sort"
	"sync"
)

// Manager manages configuration layers and provides merged access.
type Manager struct {
	mu     sync.RWMutex
	layers []*Layer       // Sorted by priority (ascending)
	merged map[string]any // Cached merged result
	dirty  bool
}

// NewManager creates a new layer manager.
func NewManager() *Manager {
	return &Manager{dirty: true}
}

// Put adds a layer, replacing any existing layer with the same name.
// Layers are kept sorted by priority.
func (m *Manager) Put(layer *Layer) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, l := range m.layers {
		if l.Name == layer.Name {
			m.layers[i] = layer
			m.dirty = true
			return
		}
	}

	m.layers = append(m.layers, layer)
	sort.SliceStable(m.layers, func(i, j int) bool {
		return m.layers[i].Priority < m.layers[j].Priority
	})
	m.dirty = true
}

// Remove removes a layer by name.
// Returns true if the layer was found and removed.
func (m *Manager) Remove(name string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, l := range m.layers {
		if l.Name == name {
			m.layers = append(m.layers[:i], m.layers[i+1:]...)
			m.dirty = true
			return true
		}
	}
	return false
}

// Layer returns a layer by name, or nil.
func (m *Manager) Layer(name string) *Layer {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.find(name)
}

// Layers returns a copy of all layers sorted by priority.
func (m *Manager) Layers() []*Layer {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]*Layer, len(m.layers))
	copy(result, m.layers)
	return result
}

// Merge combines all layers into a single configuration map.
// Results are cached until a layer changes.
func (m *Manager) Merge() map[string]any {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.dirty || m.merged == nil {
		result := make(map[string]any)
		for _, l := range m.layers {
			result = DeepMerge(result, l.Data)
		}
		m.merged = result
		m.dirty = false
	}

	return cloneMap(m.merged)
}

// Get returns the effective value for a setting path and the layer that
// provides it.
func (m *Manager) Get(path string) (any, *Layer, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for i := len(m.layers) - 1; i >= 0; i-- {
		l := m.layers[i]
		if val, ok := GetByPath(l.Data, path); ok {
			return val, l, true
		}
	}
	return nil, nil, false
}

// Set sets a value in a named layer.
func (m *Manager) Set(layerName, path string, value any) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	l := m.find(layerName)
	if l == nil {
		return fmt.Errorf("layer not found: %s", layerName)
	}
	if l.Data == nil {
		l.Data = make(map[string]any)
	}

	SetByPath(l.Data, path, value)
	m.dirty = true
	return nil
}

// WhichLayer returns the name of the layer that provides a value.
func (m *Manager) WhichLayer(path string) string {
	_, l, found := m.Get(path)
	if !found {
		return ""
	}
	return l.Name
}

// find finds a layer by name (must be called with lock held).
func (m *Manager) find(name string) *Layer {
	for _, l := range m.layers {
		if l.Name == name {
			return l
		}
	}
	return nil
}

package history

// BeginGroup starts a group. Batches recorded until EndGroup form a single
// undo entry. Nested calls are ignored.
func (h *History) BeginGroup(name string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.grouping {
		return
	}
	h.grouping = true
	h.groupName = name
	h.group = nil
}

// EndGroup finishes a group and pushes its entry, if any batch was recorded.
func (h *History) EndGroup() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if !h.grouping {
		return
	}
	h.grouping = false

	if h.group != nil {
		h.pushLocked(h.group)
		h.group = nil
	}
}

// CancelGroup ends a group without adding it to history.
// Note: batches already applied still affect the document.
func (h *History) CancelGroup() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.grouping = false
	h.group = nil
}

// IsGrouping returns true if a group is open.
func (h *History) IsGrouping() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.grouping
}

// GroupScope provides a convenient way to group batches using defer.
//
//	defer h.GroupScope("Renumber").End()
type GroupScope struct {
	history *History
	active  bool
}

// GroupScope starts a new group scope.
func (h *History) GroupScope(name string) *GroupScope {
	h.BeginGroup(name)
	return &GroupScope{history: h, active: true}
}

// End ends the group scope. Only the first call has effect.
func (g *GroupScope) End() {
	if g.active {
		g.history.EndGroup()
		g.active = false
	}
}

// Cancel cancels the group scope.
func (g *GroupScope) Cancel() {
	if g.active {
		g.history.CancelGroup()
		g.active = false
	}
}

// Transaction runs fn inside a group. If fn fails, the group is cancelled
// and the batches it recorded are reverted through a.
func (h *History) Transaction(name string, a Applier, fn func() error) error {
	h.BeginGroup(name)

	if err := fn(); err != nil {
		h.mu.Lock()
		pending := h.group
		h.grouping = false
		h.group = nil
		h.mu.Unlock()

		if pending != nil {
			if uerr := pending.undo(a); uerr != nil {
				return uerr
			}
		}
		return err
	}

	h.EndGroup()
	return nil
}

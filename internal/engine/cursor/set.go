package cursor

import "sort"

// Set manages multiple selections.
// Selections are kept sorted by start position and non-overlapping.
// The first selection is the primary selection.
type Set struct {
	selections []Selection
}

// NewSet creates a set with a single selection.
func NewSet(initial Selection) *Set {
	return &Set{selections: []Selection{initial}}
}

// NewSetFromSlice creates a set from a slice of selections.
// The selections are sorted and merged.
func NewSetFromSlice(selections []Selection) *Set {
	s := &Set{}
	s.SetAll(selections)
	return s
}

// Primary returns the primary (first) selection.
func (s *Set) Primary() Selection {
	if len(s.selections) == 0 {
		return Selection{}
	}
	return s.selections[0]
}

// All returns a copy of all selections.
func (s *Set) All() []Selection {
	out := make([]Selection, len(s.selections))
	copy(out, s.selections)
	return out
}

// Count returns the number of selections.
func (s *Set) Count() int {
	return len(s.selections)
}

// IsMulti returns true if there are multiple selections.
func (s *Set) IsMulti() bool {
	return len(s.selections) > 1
}

// Get returns the selection at index, or an empty selection when out of range.
func (s *Set) Get(index int) Selection {
	if index < 0 || index >= len(s.selections) {
		return Selection{}
	}
	return s.selections[index]
}

// Add adds a selection, merging with overlapping ones.
func (s *Set) Add(sel Selection) {
	s.selections = append(s.selections, sel)
	s.normalize()
}

// Reset replaces all selections with a single selection.
func (s *Set) Reset(sel Selection) {
	s.selections = []Selection{sel}
}

// SetAll replaces all selections. An empty slice leaves a caret at (0:0).
func (s *Set) SetAll(sels []Selection) {
	if len(sels) == 0 {
		s.selections = []Selection{{}}
		return
	}
	s.selections = make([]Selection, len(sels))
	copy(s.selections, sels)
	s.normalize()
}

// Clear removes all selections except the primary.
func (s *Set) Clear() {
	if len(s.selections) > 1 {
		s.selections = s.selections[:1]
	}
}

// HasSelection returns true if any selection has extent.
func (s *Set) HasSelection() bool {
	for _, sel := range s.selections {
		if !sel.IsEmpty() {
			return true
		}
	}
	return false
}

// MapInPlace applies f to each selection.
func (s *Set) MapInPlace(f func(sel Selection) Selection) {
	for i, sel := range s.selections {
		s.selections[i] = f(sel)
	}
	s.normalize()
}

// CollapseAll collapses all selections to carets.
func (s *Set) CollapseAll() {
	s.MapInPlace(Selection.Collapse)
}

// Clamp clamps all selections to the document.
func (s *Set) Clamp(c Clamper) {
	s.MapInPlace(func(sel Selection) Selection { return sel.Clamp(c) })
}

// Clone returns a deep copy of the set.
func (s *Set) Clone() *Set {
	return &Set{selections: s.All()}
}

// Ranges returns all selection ranges.
func (s *Set) Ranges() []Range {
	out := make([]Range, len(s.selections))
	for i, sel := range s.selections {
		out[i] = sel.Range()
	}
	return out
}

// Equals returns true if two sets hold the same selections.
func (s *Set) Equals(other *Set) bool {
	if other == nil || s.Count() != other.Count() {
		return false
	}
	for i, sel := range s.selections {
		if !sel.Equals(other.selections[i]) {
			return false
		}
	}
	return true
}

// normalize sorts selections and merges overlapping or adjacent ones.
func (s *Set) normalize() {
	if len(s.selections) <= 1 {
		return
	}

	sort.SliceStable(s.selections, func(i, j int) bool {
		si, sj := s.selections[i].Start(), s.selections[j].Start()
		if c := si.Compare(sj); c != 0 {
			return c < 0
		}
		// Same start: larger ranges first
		return s.selections[i].End().After(s.selections[j].End())
	})

	merged := s.selections[:1]
	for _, sel := range s.selections[1:] {
		last := &merged[len(merged)-1]
		if sel.Start().Compare(last.End()) <= 0 {
			*last = last.Merge(sel)
		} else {
			merged = append(merged, sel)
		}
	}
	s.selections = merged
}

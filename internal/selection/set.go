package selection

import "slices"

// Set is the active selection: entity indices in the order they were
// selected. The last one supplies the style mirrored into the host UI.
type Set struct {
	indices []int
}

// Indices returns a copy of the selected indices.
func (s *Set) Indices() []int {
	return slices.Clone(s.indices)
}

func (s *Set) Len() int      { return len(s.indices) }
func (s *Set) IsEmpty() bool { return len(s.indices) == 0 }

func (s *Set) Contains(i int) bool {
	return slices.Contains(s.indices, i)
}

// Last returns the most recently selected index.
func (s *Set) Last() (int, bool) {
	if len(s.indices) == 0 {
		return -1, false
	}
	return s.indices[len(s.indices)-1], true
}

// Replace makes indices the whole selection.
func (s *Set) Replace(indices ...int) {
	s.indices = s.indices[:0]
	s.Add(indices...)
}

// Add appends indices that are not selected yet.
func (s *Set) Add(indices ...int) {
	for _, i := range indices {
		if !s.Contains(i) {
			s.indices = append(s.indices, i)
		}
	}
}

// Toggle removes i when selected and adds it otherwise. It reports whether i
// is selected afterwards.
func (s *Set) Toggle(i int) bool {
	if idx := slices.Index(s.indices, i); idx >= 0 {
		s.indices = slices.Delete(s.indices, idx, idx+1)
		return false
	}
	s.indices = append(s.indices, i)
	return true
}

func (s *Set) Clear() {
	s.indices = s.indices[:0]
}

// Prune drops indices at or beyond n, for after the drawing shrank.
func (s *Set) Prune(n int) {
	s.indices = slices.DeleteFunc(s.indices, func(i int) bool { return i < 0 || i >= n })
}

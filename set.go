package codecable

import (
	"iter"
	"maps"
)

// Set is an unordered collection of distinct elements.
type Set[A comparable] map[A]struct{}

func NewSet[A comparable](elements ...A) Set[A] {
	s := make(Set[A], len(elements))
	for _, e := range elements {
		s.Add(e)
	}
	return s
}

// Add inserts e and reports whether it was not present yet.
func (s Set[A]) Add(e A) bool {
	if _, ok := s[e]; ok {
		return false
	}
	s[e] = struct{}{}
	return true
}

func (s Set[A]) Contains(e A) bool {
	_, ok := s[e]
	return ok
}

func (s Set[A]) Len() int {
	return len(s)
}

func (s Set[A]) All() iter.Seq[A] {
	return maps.Keys(s)
}

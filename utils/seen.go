package utils

// SeenSet tracks keys in first-seen order. Not safe for concurrent use.
type SeenSet struct {
	seen  map[string]struct{}
	order []string
}

// NewSeenSet creates an empty set
func NewSeenSet() *SeenSet {
	return &SeenSet{seen: make(map[string]struct{})}
}

// Add returns true if key is new (not seen before), false if duplicate
func (s *SeenSet) Add(key string) bool {
	if _, exists := s.seen[key]; exists {
		return false
	}
	s.seen[key] = struct{}{}
	s.order = append(s.order, key)
	return true
}

// Count returns the number of tracked keys
func (s *SeenSet) Count() int {
	return len(s.order)
}

// Keys returns the tracked keys in the order they were first added
func (s *SeenSet) Keys() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

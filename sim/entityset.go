package sim

// EntitySet is an insertion-ordered set of entities with O(1) membership,
// insertion, removal, and positional access. Removal swaps the last member
// into the vacated position, so order is stable only in the absence of
// removals; positional access exists to support deterministic seeded
// sampling, not stable iteration.
//
// The zero value is ready to use.
type EntitySet struct {
	members []EntityID
	pos     map[EntityID]int
}

// NewEntitySet returns an empty set with capacity for n members.
func NewEntitySet(n int) *EntitySet {
	return &EntitySet{
		members: make([]EntityID, 0, n),
		pos:     make(map[EntityID]int, n),
	}
}

// Add inserts e. Adding a member already in the set is a no-op.
func (s *EntitySet) Add(e EntityID) {
	if s.pos == nil {
		s.pos = make(map[EntityID]int)
	}
	if _, ok := s.pos[e]; ok {
		return
	}
	s.pos[e] = len(s.members)
	s.members = append(s.members, e)
}

// Remove deletes e and reports whether it was present. The last member is
// swapped into the vacated slot.
func (s *EntitySet) Remove(e EntityID) bool {
	i, ok := s.pos[e]
	if !ok {
		return false
	}
	last := len(s.members) - 1
	if i != last {
		moved := s.members[last]
		s.members[i] = moved
		s.pos[moved] = i
	}
	s.members = s.members[:last]
	delete(s.pos, e)
	return true
}

// Contains reports whether e is in the set.
func (s *EntitySet) Contains(e EntityID) bool {
	_, ok := s.pos[e]
	return ok
}

// Len returns the number of members.
func (s *EntitySet) Len() int {
	return len(s.members)
}

// At returns the member at index i. Valid indices are 0 through Len()-1;
// anything else panics like a slice access would.
func (s *EntitySet) At(i int) EntityID {
	return s.members[i]
}

// Slice returns a copy of the members in their current order.
func (s *EntitySet) Slice() []EntityID {
	out := make([]EntityID, len(s.members))
	copy(out, s.members)
	return out
}

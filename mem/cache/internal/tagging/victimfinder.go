package tagging

// A VictimFinder decides which way of a set receives a new tag. It returns
// false if the set still has room to add a way instead.
type VictimFinder interface {
	FindVictim(set *Set) (wayID int, ok bool)
}

// LRUVictimFinder evicts the least recently used block.
type LRUVictimFinder struct {
}

// NewLRUVictimFinder returns a newly constructed lru evictor
func NewLRUVictimFinder() *LRUVictimFinder {
	e := new(LRUVictimFinder)
	return e
}

// FindVictim prefers an invalid block. Only when every way is valid and no
// more ways can be added, the least recently used block is chosen.
func (e *LRUVictimFinder) FindVictim(set *Set) (int, bool) {
	wayID, ok := set.LRUWay()
	if !ok {
		return 0, false
	}

	if !set.Block(wayID).IsValid {
		return wayID, true
	}

	if set.NumWaysAllocated() < set.Capacity() {
		return 0, false
	}

	return wayID, true
}

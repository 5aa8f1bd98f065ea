// Package tagging keeps the per-set tag state of a set-associative cache.
package tagging

import "fmt"

// noWay marks the absence of a neighbour in the recency list.
const noWay = -1

// A Block of a cache is the information that is associated with a cache line.
type Block struct {
	Tag     uint64
	WayID   int
	IsValid bool

	prev int
	next int
}

// A Set is a list of blocks where a certain piece of memory can be stored at.
//
// Blocks live in a slice and are addressed by way ID. The recency order is an
// intrusive doubly linked list threaded through the blocks by way ID, from
// mru (most recently used) to lru. Invalid blocks always sit behind every valid
// block, so the lru end is also where the next free way is found.
type Set struct {
	numWays     int
	preallocate bool

	blocks   []Block
	tagToWay map[uint64]int
	mru      int
	lru      int
	numValid int

	victimFinder VictimFinder
}

// NewSet creates a set with numWays ways. When preallocate is true, all ways
// are created up front as invalid blocks and are filled before any recency
// based eviction happens. Otherwise ways are added lazily as tags arrive.
func NewSet(numWays int, preallocate bool) *Set {
	if numWays <= 0 {
		panic(fmt.Sprintf("set must have at least one way, got %d", numWays))
	}

	s := &Set{
		numWays:      numWays,
		preallocate:  preallocate,
		victimFinder: NewLRUVictimFinder(),
	}

	s.Reset()

	return s
}

// Reset returns the set to its cold state.
func (s *Set) Reset() {
	s.blocks = make([]Block, 0, s.numWays)
	s.tagToWay = make(map[uint64]int, s.numWays)
	s.mru = noWay
	s.lru = noWay
	s.numValid = 0

	if !s.preallocate {
		return
	}

	for i := 0; i < s.numWays; i++ {
		s.blocks = append(s.blocks, Block{WayID: i, prev: noWay, next: noWay})
		s.pushBack(i)
	}
}

// Capacity returns the number of ways in the set.
func (s *Set) Capacity() int {
	return s.numWays
}

// Len returns the number of valid blocks in the set.
func (s *Set) Len() int {
	return s.numValid
}

// Preallocated tells if all the ways were created at construction time.
func (s *Set) Preallocated() bool {
	return s.preallocate
}

// Lookup finds the valid block that holds tag. It does not change the
// recency order.
func (s *Set) Lookup(tag uint64) (Block, bool) {
	wayID, ok := s.tagToWay[tag]
	if !ok {
		return Block{}, false
	}

	return s.blocks[wayID], true
}

// Get reports whether tag is held by a valid block. On a hit, the block
// becomes the most recently used one. A miss leaves the set untouched.
func (s *Set) Get(tag uint64) bool {
	wayID, ok := s.tagToWay[tag]
	if !ok {
		return false
	}

	s.Visit(wayID)

	return true
}

// Put records tag as the most recently used block of the set. If a valid
// block had to be replaced to make room, it is returned as the victim.
func (s *Set) Put(tag uint64) (victim Block, evicted bool) {
	if wayID, ok := s.tagToWay[tag]; ok {
		s.Visit(wayID)
		return Block{}, false
	}

	wayID, found := s.victimFinder.FindVictim(s)
	if !found {
		wayID = s.grow()
	}

	block := &s.blocks[wayID]
	if block.IsValid {
		victim = *block
		evicted = true

		delete(s.tagToWay, block.Tag)
		s.numValid--
	}

	block.Tag = tag
	block.IsValid = true
	s.tagToWay[tag] = wayID
	s.numValid++

	s.Visit(wayID)

	return victim, evicted
}

// Visit moves the block to the most recently used position.
func (s *Set) Visit(wayID int) {
	if s.mru == wayID {
		return
	}

	s.unlink(wayID)
	s.pushFront(wayID)
}

// Tags returns the tags of the valid blocks, most recently used first.
func (s *Set) Tags() []uint64 {
	tags := make([]uint64, 0, s.numValid)

	for wayID := s.mru; wayID != noWay; wayID = s.blocks[wayID].next {
		block := s.blocks[wayID]
		if !block.IsValid {
			break
		}

		tags = append(tags, block.Tag)
	}

	return tags
}

// LRUWay returns the way at the least recently used end of the set. It
// returns false if the set does not have any way yet.
func (s *Set) LRUWay() (int, bool) {
	if s.lru == noWay {
		return 0, false
	}

	return s.lru, true
}

// Block returns a copy of the block at wayID.
func (s *Set) Block(wayID int) Block {
	return s.blocks[wayID]
}

// NumWaysAllocated returns how many ways currently have storage.
func (s *Set) NumWaysAllocated() int {
	return len(s.blocks)
}

func (s *Set) grow() int {
	wayID := len(s.blocks)
	if wayID >= s.numWays {
		panic("set is full but no victim is found")
	}

	s.blocks = append(s.blocks, Block{WayID: wayID, prev: noWay, next: noWay})
	s.pushBack(wayID)

	return wayID
}

func (s *Set) pushFront(wayID int) {
	block := &s.blocks[wayID]
	block.prev = noWay
	block.next = s.mru

	if s.mru != noWay {
		s.blocks[s.mru].prev = wayID
	}

	s.mru = wayID

	if s.lru == noWay {
		s.lru = wayID
	}
}

func (s *Set) pushBack(wayID int) {
	block := &s.blocks[wayID]
	block.prev = s.lru
	block.next = noWay

	if s.lru != noWay {
		s.blocks[s.lru].next = wayID
	}

	s.lru = wayID

	if s.mru == noWay {
		s.mru = wayID
	}
}

func (s *Set) unlink(wayID int) {
	block := &s.blocks[wayID]

	if block.prev != noWay {
		s.blocks[block.prev].next = block.next
	} else {
		s.mru = block.next
	}

	if block.next != noWay {
		s.blocks[block.next].prev = block.prev
	} else {
		s.lru = block.prev
	}

	block.prev = noWay
	block.next = noWay
}

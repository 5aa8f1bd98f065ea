// Package cache simulates a set-associative cache with least-recently-used
// replacement and counts how often a stream of addresses hits or misses.
package cache

import (
	"github.com/sarchlab/cachesim/mem/cache/internal/tagging"
	"github.com/sarchlab/cachesim/sim/hooking"
)

// AccessResult describes what happened to a single address.
type AccessResult struct {
	Address uint64
	SetID   uint64
	Tag     uint64
	Hit     bool

	// Evicted is set when a valid block had to leave the set to make room.
	Evicted    bool
	EvictedTag uint64
}

// Stats summarizes the accesses that a cache has seen.
type Stats struct {
	Hits     uint64
	Misses   uint64
	MissRate float64
}

// Cache is a set-associative cache that only tracks tags. It is not safe for
// concurrent use; addresses must be fed in trace order.
type Cache struct {
	hooking.HookableBase

	name     string
	variant  Variant
	geometry Geometry

	// Sets are created on first access.
	sets map[uint64]*tagging.Set

	hits   uint64
	misses uint64
}

// Name returns the name of the cache.
func (c *Cache) Name() string {
	return c.name
}

// Geometry returns the geometry the cache was built with.
func (c *Cache) Geometry() Geometry {
	return c.geometry
}

// Variant returns how the sets of the cache allocate their ways.
func (c *Cache) Variant() Variant {
	return c.variant
}

// Access looks up an address. A hit refreshes the recency of the block. A miss
// brings the block in, evicting the least recently used block of the set if
// the set is full.
func (c *Cache) Access(address uint64) AccessResult {
	setID, tag := c.geometry.Decompose(address)
	set := c.set(setID)

	result := AccessResult{
		Address: address,
		SetID:   setID,
		Tag:     tag,
	}

	if set.Get(tag) {
		c.hits++
		result.Hit = true
		c.traceAccess(result)

		return result
	}

	c.misses++

	victim, evicted := set.Put(tag)
	if evicted {
		result.Evicted = true
		result.EvictedTag = victim.Tag
		c.traceEviction(result)
	}

	c.traceAccess(result)

	return result
}

// Hits returns the number of accesses that hit.
func (c *Cache) Hits() uint64 {
	return c.hits
}

// Misses returns the number of accesses that missed.
func (c *Cache) Misses() uint64 {
	return c.misses
}

// NumAccesses returns the number of accesses so far.
func (c *Cache) NumAccesses() uint64 {
	return c.hits + c.misses
}

// MissRate returns the fraction of accesses that missed, or 0 if there was no
// access at all.
func (c *Cache) MissRate() float64 {
	total := c.hits + c.misses
	if total == 0 {
		return 0
	}

	return float64(c.misses) / float64(total)
}

// Stats returns a snapshot of the counters.
func (c *Cache) Stats() Stats {
	return Stats{
		Hits:     c.hits,
		Misses:   c.misses,
		MissRate: c.MissRate(),
	}
}

// NumSets returns the number of sets in the cache.
func (c *Cache) NumSets() int {
	return int(c.geometry.NumSets)
}

// NumSetsTouched returns how many sets have been accessed since the cache was
// built or reset.
func (c *Cache) NumSetsTouched() int {
	return len(c.sets)
}

// SetContents returns the tags held by a set, most recently used first.
func (c *Cache) SetContents(setID uint64) []uint64 {
	set, ok := c.sets[setID]
	if !ok {
		return nil
	}

	return set.Tags()
}

func (c *Cache) set(setID uint64) *tagging.Set {
	set, ok := c.sets[setID]
	if !ok {
		set = tagging.NewSet(
			int(c.geometry.Associativity),
			c.variant == VariantValidBit)
		c.sets[setID] = set
	}

	return set
}

// Reset empties every set and clears the counters.
func (c *Cache) Reset() {
	c.sets = make(map[uint64]*tagging.Set)

	c.hits = 0
	c.misses = 0
}

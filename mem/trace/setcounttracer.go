package trace

import (
	"sort"

	"github.com/sarchlab/cachesim/mem/cache"
	"github.com/sarchlab/cachesim/sim/hooking"
)

// SetCount holds the activity of a single set.
type SetCount struct {
	SetID     uint64
	Hits      uint64
	Misses    uint64
	Evictions uint64
}

// SetCountTracer counts hits, misses, and evictions per set.
type SetCountTracer struct {
	counts map[uint64]*SetCount
}

// NewSetCountTracer creates a new SetCountTracer.
func NewSetCountTracer() *SetCountTracer {
	return &SetCountTracer{
		counts: make(map[uint64]*SetCount),
	}
}

// Func counts the access.
func (t *SetCountTracer) Func(ctx hooking.HookCtx) {
	if ctx.Pos != cache.HookPosAccess {
		return
	}

	result := ctx.Item.(cache.AccessResult)

	count, ok := t.counts[result.SetID]
	if !ok {
		count = &SetCount{SetID: result.SetID}
		t.counts[result.SetID] = count
	}

	switch {
	case result.Hit:
		count.Hits++
	case result.Evicted:
		count.Misses++
		count.Evictions++
	default:
		count.Misses++
	}
}

// Count returns the activity of a set. Untouched sets report all zeros.
func (t *SetCountTracer) Count(setID uint64) SetCount {
	count, ok := t.counts[setID]
	if !ok {
		return SetCount{SetID: setID}
	}

	return *count
}

// TouchedSets returns the counts of every set that saw at least one access,
// ordered by set ID.
func (t *SetCountTracer) TouchedSets() []SetCount {
	counts := make([]SetCount, 0, len(t.counts))
	for _, c := range t.counts {
		counts = append(counts, *c)
	}

	sort.Slice(counts, func(i, j int) bool {
		return counts[i].SetID < counts[j].SetID
	})

	return counts
}

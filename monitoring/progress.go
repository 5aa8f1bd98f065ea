package monitoring

import (
	"sync"
	"time"

	"github.com/sarchlab/cachesim/mem/cache"
	"github.com/sarchlab/cachesim/sim/hooking"
)

// A ProgressBar tracks how many accesses a cache has served since the bar was
// created. It can be attached to a cache as a hook.
type ProgressBar struct {
	sync.Mutex
	Name      string
	StartTime time.Time
	Finished  uint64

	now func() time.Time
}

// NewProgressBar creates a progress bar that starts now.
func NewProgressBar(name string) *ProgressBar {
	return &ProgressBar{
		Name:      name,
		StartTime: time.Now(),
		now:       time.Now,
	}
}

// Func counts one finished access.
func (b *ProgressBar) Func(ctx hooking.HookCtx) {
	if ctx.Pos != cache.HookPosAccess {
		return
	}

	b.IncrementFinished(1)
}

// IncrementFinished add a certain amount to finished element.
func (b *ProgressBar) IncrementFinished(amount uint64) {
	b.Lock()
	defer b.Unlock()

	b.Finished += amount
}

// Elapsed returns the wall time since the bar started.
func (b *ProgressBar) Elapsed() time.Duration {
	return b.now().Sub(b.StartTime)
}

// Rate returns the finished accesses per second, or 0 before any time has
// passed.
func (b *ProgressBar) Rate() float64 {
	b.Lock()
	finished := b.Finished
	b.Unlock()

	elapsed := b.Elapsed().Seconds()
	if elapsed <= 0 {
		return 0
	}

	return float64(finished) / elapsed
}

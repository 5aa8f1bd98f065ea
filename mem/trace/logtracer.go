package trace

import (
	"log"

	"github.com/sarchlab/cachesim/mem/cache"
	"github.com/sarchlab/cachesim/sim/hooking"
)

// A LogTracer is a hook that writes one line per cache access.
type LogTracer struct {
	logger *log.Logger
}

// NewLogTracer creates a new LogTracer.
func NewLogTracer(logger *log.Logger) *LogTracer {
	return &LogTracer{logger: logger}
}

// Func prints the access.
func (t *LogTracer) Func(ctx hooking.HookCtx) {
	if ctx.Pos != cache.HookPosAccess {
		return
	}

	result := ctx.Item.(cache.AccessResult)

	if result.Hit {
		t.logger.Printf("hit, 0x%x, %d, 0x%x\n",
			result.Address, result.SetID, result.Tag)
		return
	}

	if result.Evicted {
		t.logger.Printf("miss, 0x%x, %d, 0x%x, evict 0x%x\n",
			result.Address, result.SetID, result.Tag, result.EvictedTag)
		return
	}

	t.logger.Printf("miss, 0x%x, %d, 0x%x\n",
		result.Address, result.SetID, result.Tag)
}

package trace

import (
	"context"

	"github.com/sarchlab/cachesim/mem/cache"
)

// An Accessor is anything that can serve a memory access.
type Accessor interface {
	Access(address uint64) cache.AccessResult
}

// Replay sends every address of the trace to the accessor, in trace order. It
// returns the number of addresses replayed. Replay stops at the first read
// error or when ctx is cancelled.
func Replay(ctx context.Context, r *Reader, a Accessor) (uint64, error) {
	var n uint64

	for {
		if err := ctx.Err(); err != nil {
			return n, err
		}

		address, ok := r.Next()
		if !ok {
			return n, r.Err()
		}

		a.Access(address)
		n++
	}
}

package cache

import "github.com/sarchlab/cachesim/sim/hooking"

// HookPosAccess marks that an access has been classified and applied. The
// item is the AccessResult.
var HookPosAccess = &hooking.HookPos{Name: "CacheAccess"}

// HookPosEvict marks that a valid block is replaced. The item is the
// AccessResult of the access that caused the eviction.
var HookPosEvict = &hooking.HookPos{Name: "CacheEvict"}

func (c *Cache) traceAccess(result AccessResult) {
	if c.NumHooks() == 0 {
		return
	}

	ctx := hooking.HookCtx{
		Domain: c,
		Pos:    HookPosAccess,
		Item:   result,
	}

	c.InvokeHook(ctx)
}

func (c *Cache) traceEviction(result AccessResult) {
	if c.NumHooks() == 0 {
		return
	}

	ctx := hooking.HookCtx{
		Domain: c,
		Pos:    HookPosEvict,
		Item:   result,
	}

	c.InvokeHook(ctx)
}

package trace

import (
	"github.com/sarchlab/cachesim/datarecording"
	"github.com/sarchlab/cachesim/mem/cache"
	"github.com/sarchlab/cachesim/sim/hooking"
)

// AccessTableName is the table that a DBTracer writes into.
const AccessTableName = "cache_accesses"

// AccessEntry is one row of the access table.
type AccessEntry struct {
	RunID      string
	Seq        uint64
	Address    uint64
	SetID      uint64
	Tag        uint64
	Hit        bool
	Evicted    bool
	EvictedTag uint64
}

// A DBTracer is a hook that records every cache access into a database.
type DBTracer struct {
	dataRecorder datarecording.DataRecorder
	runID        string
	seq          uint64
}

// NewDBTracer creates a DBTracer that tags every row with runID.
func NewDBTracer(
	dataRecorder datarecording.DataRecorder,
	runID string,
) *DBTracer {
	t := &DBTracer{
		dataRecorder: dataRecorder,
		runID:        runID,
	}

	if !hasTable(dataRecorder, AccessTableName) {
		dataRecorder.CreateTable(AccessTableName, AccessEntry{})
	}

	return t
}

// Func records the access.
func (t *DBTracer) Func(ctx hooking.HookCtx) {
	if ctx.Pos != cache.HookPosAccess {
		return
	}

	result := ctx.Item.(cache.AccessResult)
	t.seq++

	entry := AccessEntry{
		RunID:      t.runID,
		Seq:        t.seq,
		Address:    result.Address,
		SetID:      result.SetID,
		Tag:        result.Tag,
		Hit:        result.Hit,
		Evicted:    result.Evicted,
		EvictedTag: result.EvictedTag,
	}

	t.dataRecorder.InsertData(AccessTableName, entry)
}

func hasTable(dataRecorder datarecording.DataRecorder, name string) bool {
	for _, t := range dataRecorder.ListTables() {
		if t == name {
			return true
		}
	}

	return false
}

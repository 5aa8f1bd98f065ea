package trace

import (
	"context"

	"github.com/sarchlab/cachesim/datarecording"
)

// SummaryTableName is the table that holds one row per simulation run.
const SummaryTableName = "run_summaries"

// Run statuses stored in RunSummary.Status.
const (
	RunCompleted = "completed"
	RunAborted   = "aborted"
)

// RunSummary is the outcome of replaying one trace through one cache. An
// aborted run keeps the counts reached before the replay stopped, and Error
// tells why it stopped.
type RunSummary struct {
	RunID          string
	Status         string
	Error          string
	TraceFile      string
	CacheSizeKiB   uint64
	BlockSizeWords uint64
	Associativity  uint64
	Variant        string
	NumSets        uint64
	Hits           uint64
	Misses         uint64
	MissRate       float64
	CPUPercent     float64
	RSSBytes       uint64
}

// RecordRunSummary stores a summary and flushes the recorder.
func RecordRunSummary(
	dataRecorder datarecording.DataRecorder,
	summary RunSummary,
) {
	if !hasTable(dataRecorder, SummaryTableName) {
		dataRecorder.CreateTable(SummaryTableName, RunSummary{})
	}

	dataRecorder.InsertData(SummaryTableName, summary)
	dataRecorder.Flush()
}

// LoadRunSummaries reads back every recorded summary in insertion order.
func LoadRunSummaries(
	ctx context.Context,
	dataReader datarecording.DataReader,
) ([]RunSummary, error) {
	dataReader.MapTable(SummaryTableName, RunSummary{})

	rows, _, err := dataReader.Query(ctx, SummaryTableName,
		datarecording.QueryParams{OrderBy: "rowid"})
	if err != nil {
		return nil, err
	}

	summaries := make([]RunSummary, 0, len(rows))
	for _, row := range rows {
		summaries = append(summaries, *row.(*RunSummary))
	}

	return summaries, nil
}

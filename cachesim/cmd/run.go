package cmd

import (
	"fmt"
	"io"
	"log"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sarchlab/cachesim/datarecording"
	"github.com/sarchlab/cachesim/mem/cache"
	"github.com/sarchlab/cachesim/mem/trace"
	"github.com/sarchlab/cachesim/monitoring"
	"github.com/sarchlab/cachesim/sim"
)

type simulationArgs struct {
	traceFile      string
	cacheSizeKiB   uint64
	blockSizeWords uint64
	associativity  uint64
}

func parseSimulationArgs(args []string) (simulationArgs, error) {
	a := simulationArgs{traceFile: args[0]}

	fields := []struct {
		name string
		dst  *uint64
	}{
		{"cache size (KiB)", &a.cacheSizeKiB},
		{"block size (words)", &a.blockSizeWords},
		{"set degree", &a.associativity},
	}

	for i, f := range fields {
		v, err := strconv.ParseUint(args[i+1], 10, 64)
		if err != nil {
			return simulationArgs{}, fmt.Errorf(
				"invalid %s %q: %w", f.name, args[i+1], err)
		}

		*f.dst = v
	}

	return a, nil
}

func (o *options) runSimulation(cmd *cobra.Command, args []string) error {
	simArgs, err := parseSimulationArgs(args)
	if err != nil {
		return err
	}

	traceReader, err := trace.OpenFile(simArgs.traceFile)
	if err != nil {
		return err
	}
	defer traceReader.Close()

	c, err := cache.MakeBuilder().
		WithCacheSizeKiB(simArgs.cacheSizeKiB).
		WithBlockSizeWords(simArgs.blockSizeWords).
		WithAssociativity(simArgs.associativity).
		WithVariant(o.variant).
		Build("Cache")
	if err != nil {
		return err
	}

	progress := monitoring.NewProgressBar("replay")
	c.AcceptHook(progress)

	setCounts := trace.NewSetCountTracer()
	if o.dumpSets {
		c.AcceptHook(setCounts)
	}

	if o.logAccesses {
		logger := log.New(cmd.ErrOrStderr(), "", 0)
		c.AcceptHook(trace.NewLogTracer(logger))
	}

	var dataRecorder datarecording.DataRecorder
	runID := o.idGenerator().Generate()

	if o.record != "" {
		dataRecorder, err = datarecording.New(o.record)
		if err != nil {
			return err
		}
		defer dataRecorder.Close()

		c.AcceptHook(trace.NewDBTracer(dataRecorder, runID))
	}

	_, err = trace.Replay(cmd.Context(), traceReader.Reader, c)
	if err != nil {
		if dataRecorder != nil {
			recordSummary(dataRecorder, runID, simArgs, c, err)
		}

		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Miss Rate = %.5f\n", c.MissRate())

	if o.verbose {
		fmt.Fprintf(out, "hits = %d, misses = %d, sets = %d, variant = %s\n",
			c.Hits(), c.Misses(), c.NumSets(), c.Variant())
		log.Printf("replayed %d accesses in %s (%.0f accesses/s)",
			progress.Finished, progress.Elapsed(), progress.Rate())
	}

	if o.dumpSets {
		dumpSets(out, c, setCounts)
	}

	if dataRecorder != nil {
		recordSummary(dataRecorder, runID, simArgs, c, nil)
	}

	return nil
}

func (o *options) idGenerator() sim.IDGenerator {
	if o.deterministicIDs {
		return sim.NewSequentialIDGenerator()
	}

	return sim.GetIDGenerator()
}

func dumpSets(w io.Writer, c *cache.Cache, setCounts *trace.SetCountTracer) {
	for _, count := range setCounts.TouchedSets() {
		tags := c.SetContents(count.SetID)
		if len(tags) == 0 {
			continue
		}

		hexTags := make([]string, len(tags))
		for i, tag := range tags {
			hexTags[i] = fmt.Sprintf("0x%x", tag)
		}

		fmt.Fprintf(w, "Set %d => [%s] (hits %d, misses %d, evictions %d)\n",
			count.SetID, strings.Join(hexTags, ", "),
			count.Hits, count.Misses, count.Evictions)
	}
}

func recordSummary(
	dataRecorder datarecording.DataRecorder,
	runID string,
	simArgs simulationArgs,
	c *cache.Cache,
	replayErr error,
) {
	summary := trace.RunSummary{
		RunID:          runID,
		Status:         trace.RunCompleted,
		TraceFile:      simArgs.traceFile,
		CacheSizeKiB:   simArgs.cacheSizeKiB,
		BlockSizeWords: simArgs.blockSizeWords,
		Associativity:  simArgs.associativity,
		Variant:        c.Variant().String(),
		NumSets:        uint64(c.NumSets()),
		Hits:           c.Hits(),
		Misses:         c.Misses(),
		MissRate:       c.MissRate(),
	}

	if replayErr != nil {
		summary.Status = trace.RunAborted
		summary.Error = replayErr.Error()
	}

	snapshot, err := monitoring.TakeResourceSnapshot()
	if err != nil {
		log.Printf("cannot measure resource usage: %v", err)
	} else {
		summary.CPUPercent = snapshot.CPUPercent
		summary.RSSBytes = snapshot.RSSBytes
	}

	trace.RecordRunSummary(dataRecorder, summary)
}

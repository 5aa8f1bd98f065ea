package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/sarchlab/cachesim/datarecording"
	"github.com/sarchlab/cachesim/mem/trace"
)

func newReportCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "report <recording.sqlite3>",
		Short: "List the runs stored in a recording.",
		Args:  exactArgsWithUsage(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dataReader, err := datarecording.NewReader(args[0])
			if err != nil {
				return err
			}
			defer dataReader.Close()

			summaries, err := trace.LoadRunSummaries(cmd.Context(), dataReader)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w,
				"RUN\tSTATUS\tTRACE\tKiB\tWORDS\tWAYS\tVARIANT\tHITS\t"+
					"MISSES\tMISS RATE")

			for _, s := range summaries {
				missRate := fmt.Sprintf("%.5f", s.MissRate)
				if s.Status == trace.RunAborted {
					missRate = "-"
				}

				fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%d\t%s\t%d\t%d\t%s\n",
					s.RunID, s.Status, s.TraceFile, s.CacheSizeKiB,
					s.BlockSizeWords, s.Associativity, s.Variant,
					s.Hits, s.Misses, missRate)
			}

			return w.Flush()
		},
	}
}

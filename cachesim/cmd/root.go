// Package cmd provides the command-line interface for cachesim.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"

	"github.com/sarchlab/cachesim/mem/cache"
)

const (
	envVariant = "CACHESIM_VARIANT"
	envRecord  = "CACHESIM_RECORD"

	defaultEnvFile = ".env"
)

type options struct {
	variant     cache.Variant
	record      string
	logAccesses bool
	dumpSets    bool
	verbose     bool
	envFile     string

	deterministicIDs bool
}

// NewRootCommand builds the cachesim command tree.
func NewRootCommand() *cobra.Command {
	o := &options{variant: cache.VariantValidBit}

	rootCmd := &cobra.Command{
		Use: "cachesim <trace_file> <cache_size_KiB> <block_size_words> " +
			"<set_degree>",
		Short: "Replay a memory address trace through a set-associative " +
			"LRU cache.",
		Long: `cachesim reads one hexadecimal address per line from the ` +
			`trace file, feeds the addresses to a cache of the given size ` +
			`(KiB), block size (4-byte words), and set degree (ways per ` +
			`set), and prints the resulting miss rate.`,
		Args:          exactArgsWithUsage(4),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return o.applyEnv(cmd)
		},
		RunE: o.runSimulation,
	}

	flags := rootCmd.Flags()
	flags.Var(&o.variant, "variant",
		"how sets allocate their ways: valid-bit or tag-only "+
			"(env "+envVariant+")")
	flags.StringVar(&o.record, "record", "",
		"record accesses and the run summary into <path>.sqlite3 "+
			"(env "+envRecord+")")
	flags.BoolVar(&o.logAccesses, "log-accesses", false,
		"log every access to stderr")
	flags.BoolVar(&o.dumpSets, "dump-sets", false,
		"print the content of every non-empty set after the run")
	flags.BoolVarP(&o.verbose, "verbose", "v", false,
		"print hit and miss counts")
	flags.BoolVar(&o.deterministicIDs, "deterministic-ids", false,
		"number recorded runs 1, 2, 3... instead of using unique IDs")

	rootCmd.PersistentFlags().StringVar(&o.envFile, "env-file",
		defaultEnvFile, "file to load default settings from")

	rootCmd.AddCommand(newReportCommand())

	return rootCmd
}

func exactArgsWithUsage(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		err := cobra.ExactArgs(n)(cmd, args)
		if err != nil {
			return fmt.Errorf("%w\nUsage: %s", err, cmd.UseLine())
		}

		return nil
	}
}

// applyEnv loads the env file and fills in the flags that were not given on
// the command line. A missing default env file is not an error.
func (o *options) applyEnv(cmd *cobra.Command) error {
	err := godotenv.Load(o.envFile)
	if err != nil {
		envFileGiven := cmd.Flags().Changed("env-file")
		if envFileGiven || !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("loading %s: %w", o.envFile, err)
		}
	}

	flags := cmd.Flags()
	if flags.Lookup("variant") == nil {
		return nil
	}

	if v, ok := os.LookupEnv(envVariant); ok && !flags.Changed("variant") {
		err := o.variant.Set(v)
		if err != nil {
			return fmt.Errorf("%s: %w", envVariant, err)
		}
	}

	if v, ok := os.LookupEnv(envRecord); ok && !flags.Changed("record") {
		o.record = v
	}

	return nil
}

// Execute runs the command line and exits with a non-zero status on any
// error.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err := NewRootCommand().ExecuteContext(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		atexit.Exit(1)
	}
}

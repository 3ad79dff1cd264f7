package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/subcommands"
	"github.com/rs/zerolog"

	"github.com/catelix/etfperformance"
	"github.com/catelix/etfperformance/rates"
)

// predictCmd holds the flags for the 'predict' subcommand.
type predictCmd struct {
	configFlags
	output     string
	snapshotDB string
}

func (*predictCmd) Name() string { return "predict" }
func (*predictCmd) Synopsis() string {
	return "project every holding's price at the configured horizons"
}
func (*predictCmd) Usage() string {
	return `efp predict [-c <currency>] [-horizons <years,...>] [-o <file>]

  Runs the full pipeline: fits a seasonal model per symbol, projects the
  price at each horizon, and writes the predictions table. Per-symbol
  failures leave null forecast cells; the run goes on.

  The per-symbol gain/loss snapshot of the run is appended to a local
  SQLite database (-snapshot-db '' to skip).
`
}

func (c *predictCmd) SetFlags(f *flag.FlagSet) {
	c.configFlags.SetFlags(f)
	f.StringVar(&c.output, "o", "predictions.csv", "Output file for the predictions table")
	f.StringVar(&c.snapshotDB, "snapshot-db", "snapshots.db", "SQLite file for run snapshots, empty to skip")
}

func (c *predictCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := c.Config()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	log := logger()

	pf, err := readPortfolio(log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading holdings: %v\n", err)
		return subcommands.ExitFailure
	}
	fetcher, err := openFetcher(log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening series source: %v\n", err)
		return subcommands.ExitFailure
	}

	pipeline := etfperformance.NewPipeline(cfg, fetcher, rates.NewClient(), log)
	res, err := pipeline.Run(ctx, pf)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error running pipeline: %v\n", err)
		return subcommands.ExitFailure
	}

	out, err := os.Create(c.output)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating output file: %v\n", err)
		return subcommands.ExitFailure
	}
	defer out.Close()
	if err := etfperformance.WritePredictions(out, res.Report, res.Portfolio); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing predictions table: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Fprintf(os.Stderr, "Wrote predictions table to %q.\n", c.output)

	if c.snapshotDB != "" {
		if err := saveSnapshot(c.snapshotDB, res, log); err != nil {
			fmt.Fprintf(os.Stderr, "Error saving snapshot: %v\n", err)
			return subcommands.ExitFailure
		}
	}
	return subcommands.ExitSuccess
}

func saveSnapshot(path string, res *etfperformance.RunResult, log zerolog.Logger) error {
	snaps := etfperformance.BuildSnapshots(res.Portfolio, res.Enriched)
	store, err := etfperformance.OpenSnapshotStore(path, log)
	if err != nil {
		return err
	}
	defer store.Close()
	return store.Save(time.Now(), snaps)
}

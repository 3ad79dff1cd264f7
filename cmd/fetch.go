package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"github.com/catelix/etfperformance"
	"github.com/catelix/etfperformance/date"
	"github.com/catelix/etfperformance/yahoo"
)

// fetchCmd holds the flags for the 'fetch' subcommand.
type fetchCmd struct {
	lookback int
}

func (*fetchCmd) Name() string     { return "fetch" }
func (*fetchCmd) Synopsis() string { return "download price histories into the local store" }
func (*fetchCmd) Usage() string {
	return `efp fetch [-lookback <years>]

  Downloads the price history of every symbol in the holdings table and
  writes the local store file. Later runs read the store instead of the
  network, so a whole analysis can be replayed offline.
`
}

func (c *fetchCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.lookback, "lookback", etfperformance.DefaultConfig().LookbackYears, "Years of history to request")
}

func (c *fetchCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	log := logger()

	pf, err := readPortfolio(log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading holdings: %v\n", err)
		return subcommands.ExitFailure
	}

	client := yahoo.NewClient()
	lookback := date.Lookback(date.Today(), c.lookback)

	store := etfperformance.NewSeriesStore()
	for _, symbol := range pf.Symbols() {
		series, err := client.FetchHistory(symbol, lookback)
		if err != nil {
			log.Warn().Err(err).Str("symbol", symbol).Msg("history fetch failed")
			continue
		}
		store.Put(series)
		log.Info().Str("symbol", symbol).Int("observations", series.Len()).Msg("history fetched")
	}
	if store.Len() == 0 {
		fmt.Fprintf(os.Stderr, "Error: no history could be fetched\n")
		return subcommands.ExitFailure
	}

	out, err := os.Create(*storeFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating store file: %v\n", err)
		return subcommands.ExitFailure
	}
	defer out.Close()
	if err := etfperformance.ExportStore(out, store); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing store file: %v\n", err)
		return subcommands.ExitFailure
	}

	fmt.Fprintf(os.Stderr, "Wrote %d series to %q.\n", store.Len(), *storeFile)
	return subcommands.ExitSuccess
}

package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"github.com/catelix/etfperformance"
	"github.com/catelix/etfperformance/date"
	"github.com/catelix/etfperformance/rates"
)

// enrichCmd holds the flags for the 'enrich' subcommand.
type enrichCmd struct {
	configFlags
	output string
}

func (*enrichCmd) Name() string { return "enrich" }
func (*enrichCmd) Synopsis() string {
	return "write the holdings table extended with market metrics"
}
func (*enrichCmd) Usage() string {
	return `efp enrich [-c <currency>] [-o <file>]

  Reads the holdings table, computes last close, moving average, annualized
  volatility and expense ratio for every row, and writes the enriched table.
  Input columns are passed through verbatim; rows whose history cannot be
  fetched keep their input cells and carry empty metric cells.
`
}

func (c *enrichCmd) SetFlags(f *flag.FlagSet) {
	c.configFlags.SetFlags(f)
	f.StringVar(&c.output, "o", "enriched_portfolio.csv", "Output file for the enriched table")
}

func (c *enrichCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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

	lookback := date.Lookback(date.Today(), cfg.LookbackYears)
	store := etfperformance.NewSeriesStore()
	for _, symbol := range pf.Symbols() {
		series, err := fetcher.FetchHistory(symbol, lookback)
		if err != nil {
			log.Warn().Err(err).Str("symbol", symbol).Msg("history fetch failed")
			continue
		}
		store.Put(series)
	}

	conv := etfperformance.NewConverter(rates.NewClient())
	enricher := etfperformance.NewEnricher(cfg, conv, log)
	enriched := make(map[int]*etfperformance.EnrichedHolding, pf.Len())
	for _, h := range pf.Holdings() {
		series, ok := store.Get(h.Symbol)
		if !ok {
			enriched[h.Row] = nil
			continue
		}
		e, err := enricher.Enrich(h, series)
		if err != nil {
			log.Warn().Err(err).Str("symbol", h.Symbol).Int("row", h.Row).Msg("enrichment failed")
			enriched[h.Row] = nil
			continue
		}
		enriched[h.Row] = &e
	}

	out, err := os.Create(c.output)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating output file: %v\n", err)
		return subcommands.ExitFailure
	}
	defer out.Close()
	if err := etfperformance.WriteEnriched(out, pf, enriched); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing enriched table: %v\n", err)
		return subcommands.ExitFailure
	}

	fmt.Fprintf(os.Stderr, "Wrote enriched table to %q.\n", c.output)
	return subcommands.ExitSuccess
}

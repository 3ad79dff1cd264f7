// Package cmd implements the CLI application that projects a holdings table
// into long-horizon values.
package cmd

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/google/subcommands"
	"github.com/rs/zerolog"

	"github.com/catelix/etfperformance"
	"github.com/catelix/etfperformance/date"
	"github.com/catelix/etfperformance/yahoo"
)

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(&fetchCmd{}, "data")
	c.Register(&enrichCmd{}, "pipeline")
	c.Register(&predictCmd{}, "pipeline")
	c.Register(&reportCmd{}, "pipeline")
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var portfolioFile = flag.String("portfolio-file", "portfolio.csv", "Path to the holdings table (CSV export)")
var storeFile = flag.String("store-file", "series.jsonl", "Path to the local price history store (JSONL format)")
var verbose = flag.Bool("v", false, "Enable debug logging")

// logger returns the per-run diagnostic logger.
func logger() zerolog.Logger {
	level := zerolog.InfoLevel
	if *verbose {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level).With().Timestamp().Logger()
}

// readPortfolio loads and parses the holdings table.
func readPortfolio(log zerolog.Logger) (*etfperformance.Portfolio, error) {
	f, err := os.Open(*portfolioFile)
	if err != nil {
		return nil, fmt.Errorf("cannot open holdings table: %w", err)
	}
	defer f.Close()

	pf, skipped, err := etfperformance.ReadHoldings(f)
	if err != nil {
		return nil, err
	}
	for _, row := range skipped {
		log.Warn().Int("row", row).Msg("holdings row skipped: unparseable key column")
	}
	return pf, nil
}

// openFetcher returns the series source: the local store when it exists,
// live Yahoo otherwise.
func openFetcher(log zerolog.Logger) (etfperformance.Fetcher, error) {
	f, err := os.Open(*storeFile)
	if errors.Is(err, fs.ErrNotExist) {
		log.Debug().Str("file", *storeFile).Msg("no local store, fetching live")
		return yahoo.NewClient(), nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return etfperformance.ImportStore(f)
}

// configFlags is the shared pipeline configuration surface of the pipeline
// subcommands.
type configFlags struct {
	baseCurrency string
	horizons     string
	frequency    string
	maWindow     int
	minHistory   int
	workers      int
	lookback     int
}

func (c *configFlags) SetFlags(f *flag.FlagSet) {
	defaults := etfperformance.DefaultConfig()
	f.StringVar(&c.baseCurrency, "c", defaults.BaseCurrency, "Base currency for all monetary outputs")
	f.StringVar(&c.horizons, "horizons", "5,10,15", "Comma-separated projection horizons in years")
	f.StringVar(&c.frequency, "frequency", defaults.Frequency.String(), "Sampling granularity: daily or monthly")
	f.IntVar(&c.maWindow, "ma-window", defaults.MAWindow, "Moving average window in observations")
	f.IntVar(&c.minHistory, "min-history", 0, "Minimum observations to fit the model (0: two seasonal cycles)")
	f.IntVar(&c.workers, "workers", defaults.Workers, "Concurrent per-symbol tasks")
	f.IntVar(&c.lookback, "lookback", defaults.LookbackYears, "Years of history to request")
}

func (c *configFlags) Config() (etfperformance.Config, error) {
	cfg := etfperformance.DefaultConfig()
	cfg.BaseCurrency = c.baseCurrency
	cfg.MAWindow = c.maWindow
	cfg.MinHistory = c.minHistory
	cfg.Workers = c.workers
	cfg.LookbackYears = c.lookback

	frequency, err := date.ParsePeriod(c.frequency)
	if err != nil {
		return cfg, err
	}
	cfg.Frequency = frequency

	cfg.Horizons = cfg.Horizons[:0]
	for _, part := range strings.Split(c.horizons, ",") {
		years, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || years <= 0 {
			return cfg, fmt.Errorf("invalid horizon %q: want a positive year count", part)
		}
		cfg.Horizons = append(cfg.Horizons, years)
	}
	slices.Sort(cfg.Horizons)
	cfg.Horizons = slices.Compact(cfg.Horizons)
	return cfg, nil
}

package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/google/subcommands"

	"github.com/catelix/etfperformance"
	"github.com/catelix/etfperformance/date"
	"github.com/catelix/etfperformance/rates"
	"github.com/catelix/etfperformance/renderer"
)

// reportCmd holds the flags for the 'report' subcommand.
type reportCmd struct {
	configFlags
}

func (*reportCmd) Name() string { return "report" }
func (*reportCmd) Synopsis() string {
	return "display the portfolio projection as a markdown report"
}
func (*reportCmd) Usage() string {
	return `efp report [-c <currency>] [-horizons <years,...>]

  Runs the pipeline and renders the portfolio totals and the per-instrument
  breakdown, today and at each horizon, to the terminal.
`
}

func (c *reportCmd) SetFlags(f *flag.FlagSet) {
	c.configFlags.SetFlags(f)
}

func (c *reportCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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

	report := renderer.NewReport(res.Report, date.Today().String())
	printMarkdown(renderer.RenderReport(report))
	return subcommands.ExitSuccess
}

// printMarkdown renders markdown for the terminal, falling back to the raw
// text when styling fails (e.g. no TTY).
func printMarkdown(md string) {
	out, err := glamour.Render(md, "auto")
	if err != nil {
		fmt.Print(md)
		return
	}
	fmt.Print(out)
}

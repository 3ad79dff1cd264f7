package etfperformance

import (
	"context"
	"fmt"
	"math"
	"sync"

	"github.com/rs/zerolog"

	"github.com/catelix/etfperformance/date"
)

// Pipeline wires the whole run: series acquisition, enrichment, forecasting,
// horizon extraction and aggregation.
type Pipeline struct {
	cfg     Config
	fetcher Fetcher
	conv    *Converter
	log     zerolog.Logger
}

func NewPipeline(cfg Config, fetcher Fetcher, rates RateSource, log zerolog.Logger) *Pipeline {
	return &Pipeline{
		cfg:     cfg,
		fetcher: fetcher,
		conv:    NewConverter(rates),
		log:     log.With().Str("component", "pipeline").Logger(),
	}
}

// RunResult carries every table a run produces.
type RunResult struct {
	Portfolio *Portfolio
	Store     *SeriesStore

	// Enriched has one entry per holding row; nil marks a row whose history
	// could not be fetched.
	Enriched map[int]*EnrichedHolding

	Report *Report
}

// Run executes the pipeline over the holdings table.
//
// Per-instrument failures (no history, too little history, non-convergence)
// are isolated: the instrument's rows carry null forecast fields, a
// diagnostic is logged, and the run continues. Only contract violations
// (ErrHorizonOutOfRange, ErrUnmatchedHolding) and an empty table abort the
// run.
func (p *Pipeline) Run(ctx context.Context, pf *Portfolio) (*RunResult, error) {
	if pf.Len() == 0 {
		return nil, fmt.Errorf("empty holdings table")
	}
	if err := pf.NormalizeWeights(); err != nil {
		return nil, err
	}

	symbols := pf.Symbols()
	store := p.buildStore(ctx, symbols)

	enricher := NewEnricher(p.cfg, p.conv, p.log)
	enriched := make(map[int]*EnrichedHolding, pf.Len())
	for _, h := range pf.Holdings() {
		series, ok := store.Get(h.Symbol)
		if !ok {
			enriched[h.Row] = nil
			continue
		}
		e, err := enricher.Enrich(h, series)
		if err != nil {
			p.log.Warn().Err(err).Str("symbol", h.Symbol).Int("row", h.Row).Msg("enrichment failed")
			enriched[h.Row] = nil
			continue
		}
		enriched[h.Row] = &e
	}

	estimates := p.forecastAll(ctx, store, symbols)
	if estimates.err != nil {
		return nil, estimates.err
	}

	predictions := make(map[int]*Prediction, pf.Len())
	for _, h := range pf.Holdings() {
		points, ok := estimates.bySymbol[h.Symbol]
		if !ok {
			predictions[h.Row] = nil
			continue
		}
		today := math.NaN()
		if e := enriched[h.Row]; e != nil {
			today = e.LastClose
		}
		pred := &Prediction{Holding: h, Today: today, Estimates: make(map[int]float64, len(points))}
		for _, pt := range points {
			pred.Estimates[pt.Years] = pt.Price
		}
		predictions[h.Row] = pred
	}

	report, err := Aggregate(pf, enriched, predictions, p.cfg)
	if err != nil {
		return nil, err
	}

	return &RunResult{Portfolio: pf, Store: store, Enriched: enriched, Report: report}, nil
}

// buildStore fetches every distinct symbol's history, one pool task per
// symbol. A failed fetch excludes that symbol from the store and the run
// goes on without it.
func (p *Pipeline) buildStore(ctx context.Context, symbols []string) *SeriesStore {
	lookback := p.lookback()
	type fetched struct {
		symbol string
		series *PriceSeries
		err    error
	}
	results := make(chan fetched)

	go p.forEachSymbol(ctx, symbols, func(symbol string) {
		series, err := p.fetcher.FetchHistory(symbol, lookback)
		if err == nil && series.Len() == 0 {
			err = fmt.Errorf("%w: %s: empty history", ErrDataUnavailable, symbol)
		}
		results <- fetched{symbol: symbol, series: series, err: err}
	}, func() { close(results) })

	store := NewSeriesStore()
	for r := range results {
		if r.err != nil {
			p.log.Warn().Err(r.err).Str("symbol", r.symbol).Msg("history fetch failed")
			continue
		}
		store.Put(r.series)
	}
	return store
}

type horizonEstimates struct {
	bySymbol map[string][]HorizonEstimate
	err      error
}

// forecastAll fits one model per symbol present in the store and extracts the
// requested horizons, converting estimates into the base currency with the
// same fallback policy as the enricher.
func (p *Pipeline) forecastAll(ctx context.Context, store *SeriesStore, symbols []string) horizonEstimates {
	forecaster := NewForecaster(p.cfg, p.log)
	steps := p.cfg.horizonPeriods()

	type fitted struct {
		symbol string
		seq    *ForecastSequence
		err    error
	}
	results := make(chan fitted)

	go p.forEachSymbol(ctx, symbols, func(symbol string) {
		series, ok := store.Get(symbol)
		if !ok {
			results <- fitted{symbol: symbol, err: fmt.Errorf("%w: %s", ErrDataUnavailable, symbol)}
			return
		}
		seq, err := forecaster.FitAndForecast(series, steps)
		results <- fitted{symbol: symbol, seq: seq, err: err}
	}, func() { close(results) })

	out := horizonEstimates{bySymbol: make(map[string][]HorizonEstimate)}
	for r := range results {
		if r.err != nil {
			p.log.Warn().Err(r.err).Str("symbol", r.symbol).Msg("forecast failed")
			continue
		}
		points, err := ExtractHorizons(r.seq, p.cfg.Horizons)
		if err != nil {
			// a horizon past the fitted length is a configuration bug, not
			// an instrument failure: fail the run
			out.err = err
			continue
		}
		series, _ := store.Get(r.symbol)
		for i := range points {
			points[i].Price = p.toBase(r.symbol, points[i].Price, series.Currency())
		}
		out.bySymbol[r.symbol] = points
	}
	return out
}

// forEachSymbol runs fn over symbols on a bounded worker pool and then calls
// done. Task outputs are unordered; the aggregation join is keyed by row
// identity so arrival order does not matter.
func (p *Pipeline) forEachSymbol(ctx context.Context, symbols []string, fn func(symbol string), done func()) {
	workers := p.cfg.Workers
	if workers < 1 {
		workers = 1
	}
	jobs := make(chan string)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for symbol := range jobs {
				fn(symbol)
			}
		}()
	}
	for _, symbol := range symbols {
		if ctx.Err() != nil {
			break
		}
		jobs <- symbol
	}
	close(jobs)
	wg.Wait()
	done()
}

func (p *Pipeline) toBase(symbol string, amount float64, from string) float64 {
	converted, err := p.conv.Convert(amount, from, p.cfg.BaseCurrency)
	if err != nil {
		p.log.Warn().Err(err).Str("symbol", symbol).Msg("rate lookup failed, keeping unconverted estimate")
		return amount
	}
	return converted
}

func (p *Pipeline) lookback() date.Range {
	today := date.Today()
	return date.Lookback(today, p.cfg.LookbackYears)
}

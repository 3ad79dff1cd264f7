package etfperformance

import (
	"errors"
	"fmt"
	"math"

	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/stat"
)

// EnrichedHolding is a Holding extended with market-derived metrics.
// LastClose and MA50 are expressed in the run's base currency when a spot
// rate was available; Currency always keeps the instrument's native currency
// so a consumer can tell whether conversion happened.
type EnrichedHolding struct {
	Holding
	LastClose    float64
	MA50         float64 // NaN when the history is shorter than the window
	Volatility   float64 // annualized, unit-less, never converted
	ExpenseRatio float64
	Currency     string
}

// Enricher derives per-holding metrics from a price series.
// It is a pure function of (holding, series, config): it never mutates the
// series store and repeated runs on the same inputs yield identical metrics.
type Enricher struct {
	cfg  Config
	conv *Converter
	log  zerolog.Logger
}

func NewEnricher(cfg Config, conv *Converter, log zerolog.Logger) *Enricher {
	return &Enricher{cfg: cfg, conv: conv, log: log.With().Str("component", "enricher").Logger()}
}

// Enrich computes last close, trailing moving average, annualized volatility
// and expense ratio for one holding.
//
// The annualization factor follows the series' native sampling frequency
// (sqrt(252) daily, sqrt(12) monthly). A failed currency conversion falls
// back to the unconverted amount with a warning: availability over accuracy,
// and the Currency field exposes that no conversion took place.
func (e *Enricher) Enrich(h Holding, series *PriceSeries) (EnrichedHolding, error) {
	lastClose, ok := series.LastClose()
	if !ok {
		return EnrichedHolding{}, fmt.Errorf("%w: %s: empty series", ErrDataUnavailable, h.Symbol)
	}

	ma, ok := series.MovingAverage(e.cfg.MAWindow)
	if !ok {
		e.log.Debug().Str("symbol", h.Symbol).Int("window", e.cfg.MAWindow).
			Int("observations", series.Len()).Msg("insufficient history for moving average")
		ma = math.NaN()
	}

	volatility := math.NaN()
	if returns := series.Returns(); len(returns) > 0 {
		factor := math.Sqrt(float64(series.Period().PerYear()))
		volatility = stat.StdDev(returns, nil) * factor
	}

	lastClose = e.toBase(h.Symbol, lastClose, series.Currency())
	if !math.IsNaN(ma) {
		ma = e.toBase(h.Symbol, ma, series.Currency())
	}

	return EnrichedHolding{
		Holding:      h,
		LastClose:    lastClose,
		MA50:         ma,
		Volatility:   volatility,
		ExpenseRatio: series.ExpenseRatio(),
		Currency:     series.Currency(),
	}, nil
}

// toBase converts a monetary amount into the base currency, keeping the
// original amount when the rate lookup fails.
func (e *Enricher) toBase(symbol string, amount float64, from string) float64 {
	converted, err := e.conv.Convert(amount, from, e.cfg.BaseCurrency)
	if err != nil {
		if errors.Is(err, ErrRateUnavailable) {
			e.log.Warn().Str("symbol", symbol).Str("from", from).Str("to", e.cfg.BaseCurrency).
				Msg("rate lookup failed, keeping unconverted amount")
			return amount
		}
		return amount
	}
	return converted
}

package etfperformance

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/catelix/etfperformance/date"
	"github.com/catelix/etfperformance/sarima"
)

// ForecastSequence is the forecast of one symbol: predicted prices indexed by
// future period offset, produced by exactly one model fit. Never mutated
// after creation.
type ForecastSequence struct {
	symbol string
	period date.Period
	values []float64
}

func (f *ForecastSequence) Symbol() string      { return f.symbol }
func (f *ForecastSequence) Period() date.Period { return f.period }
func (f *ForecastSequence) Len() int            { return len(f.values) }

// Value returns the predicted price at the zero-based period offset.
func (f *ForecastSequence) Value(offset int) float64 { return f.values[offset] }

// Forecaster fits the seasonal model and extracts multi-period forecasts.
type Forecaster struct {
	cfg Config
	log zerolog.Logger
}

func NewForecaster(cfg Config, log zerolog.Logger) *Forecaster {
	return &Forecaster{cfg: cfg, log: log.With().Str("component", "forecaster").Logger()}
}

// FitAndForecast resamples the series onto the run's period grid, fits a
// SARIMA(1,1,1)(1,1,1)s model with an annual seasonal period, and forecasts
// horizonPeriods steps past the last observed period.
//
// It fails with ErrInsufficientHistory when the resampled series is shorter
// than the configured minimum (default two seasonal cycles), and with
// ErrModelFitFailed when the optimizer does not converge. No partial
// forecast is ever returned.
func (f *Forecaster) FitAndForecast(series *PriceSeries, horizonPeriods int) (*ForecastSequence, error) {
	resampled := series.Resample(f.cfg.Frequency)

	if n := resampled.Len(); n < f.cfg.minHistory() {
		return nil, fmt.Errorf("%w: %s: %d observations at %s granularity, need %d",
			ErrInsufficientHistory, series.Symbol(), n, f.cfg.Frequency, f.cfg.minHistory())
	}

	values := make([]float64, 0, resampled.Len())
	for _, v := range resampled.Values() {
		values = append(values, v)
	}

	order := sarima.Order{Seasonal: f.cfg.Frequency.PerYear()}
	model, err := sarima.Fit(values, order)
	if err != nil {
		if errors.Is(err, sarima.ErrNotConverged) {
			return nil, fmt.Errorf("%w: %s: %v", ErrModelFitFailed, series.Symbol(), err)
		}
		return nil, fmt.Errorf("%w: %s: %v", ErrInsufficientHistory, series.Symbol(), err)
	}

	f.log.Debug().Str("symbol", series.Symbol()).Int("observations", len(values)).
		Int("steps", horizonPeriods).Msg("model fitted")

	return &ForecastSequence{
		symbol: series.Symbol(),
		period: f.cfg.Frequency,
		values: model.Forecast(horizonPeriods),
	}, nil
}

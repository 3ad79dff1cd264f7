package etfperformance

import "github.com/catelix/etfperformance/date"

// Config gathers the recognized pipeline options. The zero value is not
// usable; start from DefaultConfig and override.
type Config struct {
	// BaseCurrency is the ISO 4217 code all monetary outputs are normalized into.
	BaseCurrency string

	// Horizons are the requested projection horizons, in years, ascending.
	Horizons []int

	// Frequency is the sampling granularity used for the whole run when
	// resampling and forecasting.
	Frequency date.Period

	// MAWindow is the trailing window, in observations, of the moving average.
	MAWindow int

	// MinHistory is the minimum number of resampled observations required to
	// fit the seasonal model. Zero means twice the seasonal period.
	MinHistory int

	// Workers bounds the number of concurrent per-symbol tasks.
	Workers int

	// LookbackYears is how far back price history is requested.
	LookbackYears int
}

// DefaultConfig returns the defaults: USD, 5/10/15 year horizons, monthly
// sampling, 50-period moving average, 4 workers, 5 years of history.
func DefaultConfig() Config {
	return Config{
		BaseCurrency:  "USD",
		Horizons:      []int{5, 10, 15},
		Frequency:     date.Monthly,
		MAWindow:      50,
		Workers:       4,
		LookbackYears: 5,
	}
}

// minHistory resolves the minimum observation count, defaulting to two full
// seasonal cycles.
func (c Config) minHistory() int {
	if c.MinHistory > 0 {
		return c.MinHistory
	}
	return 2 * c.Frequency.PerYear()
}

// horizonPeriods returns the number of forecast steps needed to cover the
// largest requested horizon.
func (c Config) horizonPeriods() int {
	max := 0
	for _, h := range c.Horizons {
		if h > max {
			max = h
		}
	}
	return max * c.Frequency.PerYear()
}

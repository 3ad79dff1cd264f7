package etfperformance

import (
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/catelix/etfperformance/date"
)

// monthlySeries builds a monthly series of n observations on the first of each
// month starting at 'from'.
func monthlySeries(symbol, currency string, from date.Date, n int, f func(i int) float64) *PriceSeries {
	s := NewPriceSeries(symbol, currency, date.Monthly)
	for i := 0; i < n; i++ {
		s.Append(from.AddMonths(i), f(i))
	}
	return s
}

func TestFitAndForecastLength(t *testing.T) {
	cfg := DefaultConfig() // monthly, min history 24
	forecaster := NewForecaster(cfg, zerolog.Nop())

	s := monthlySeries("AAA", "USD", date.New(2020, 1, 1), 60, func(i int) float64 { return 100 + float64(i) })

	steps := 15 * 12
	seq, err := forecaster.FitAndForecast(s, steps)
	if err != nil {
		t.Fatalf("FitAndForecast() error = %v", err)
	}
	if seq.Len() != steps {
		t.Errorf("Len() = %v want %v", seq.Len(), steps)
	}
	if seq.Symbol() != "AAA" || seq.Period() != date.Monthly {
		t.Errorf("sequence identity = %v %v want AAA monthly", seq.Symbol(), seq.Period())
	}
}

func TestFitAndForecastInsufficientHistory(t *testing.T) {
	cfg := DefaultConfig()
	forecaster := NewForecaster(cfg, zerolog.Nop())

	// 10 monthly observations, below the two-cycle minimum of 24
	s := monthlySeries("AAA", "USD", date.New(2024, 1, 1), 10, func(i int) float64 { return 100 })

	seq, err := forecaster.FitAndForecast(s, 60)
	if !errors.Is(err, ErrInsufficientHistory) {
		t.Errorf("FitAndForecast() error = %v want ErrInsufficientHistory", err)
	}
	if seq != nil {
		t.Errorf("no partial forecast should be returned, got %v", seq)
	}
}

func TestFitAndForecastResamples(t *testing.T) {
	cfg := DefaultConfig()
	forecaster := NewForecaster(cfg, zerolog.Nop())

	// a dense daily series still fits at the run's monthly granularity
	s := dailySeries("AAA", "USD", date.New(2020, 1, 1), 5*365, func(i int) float64 { return 100 + float64(i)/30 })

	seq, err := forecaster.FitAndForecast(s, 24)
	if err != nil {
		t.Fatalf("FitAndForecast() error = %v", err)
	}
	if seq.Period() != date.Monthly {
		t.Errorf("Period() = %v want monthly", seq.Period())
	}
}

func TestFitAndForecastMinHistoryOverride(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MinHistory = 40
	forecaster := NewForecaster(cfg, zerolog.Nop())

	// 30 observations pass the default minimum but not the override
	s := monthlySeries("AAA", "USD", date.New(2022, 1, 1), 30, func(i int) float64 { return 100 + float64(i) })

	if _, err := forecaster.FitAndForecast(s, 24); !errors.Is(err, ErrInsufficientHistory) {
		t.Errorf("FitAndForecast() error = %v want ErrInsufficientHistory", err)
	}
}

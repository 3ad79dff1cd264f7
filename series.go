package etfperformance

import (
	"fmt"
	"iter"

	"gonum.org/v1/gonum/stat"

	"github.com/catelix/etfperformance/date"
)

// PriceSeries is the ordered price history of one symbol: strictly increasing
// dates, no duplicates, with the currency prices are quoted in and the native
// sampling granularity of the source.
type PriceSeries struct {
	symbol       string
	currency     string
	period       date.Period
	expenseRatio float64
	prices       date.History[float64]
}

// NewPriceSeries returns an empty series for a symbol quoted in currency,
// sampled at the given native granularity.
func NewPriceSeries(symbol, currency string, period date.Period) *PriceSeries {
	return &PriceSeries{symbol: symbol, currency: currency, period: period}
}

func (s *PriceSeries) Symbol() string      { return s.symbol }
func (s *PriceSeries) Currency() string    { return s.currency }
func (s *PriceSeries) Period() date.Period { return s.period }

// ExpenseRatio is fund metadata carried alongside the series, 0 when the
// source does not publish one.
func (s *PriceSeries) ExpenseRatio() float64     { return s.expenseRatio }
func (s *PriceSeries) SetExpenseRatio(r float64) { s.expenseRatio = r }

// Append records the price observed on a day. A duplicate date overwrites.
func (s *PriceSeries) Append(on date.Date, price float64) { s.prices.Append(on, price) }

// Len returns the number of observations.
func (s *PriceSeries) Len() int { return s.prices.Len() }

// Values iterates observations in chronological order.
func (s *PriceSeries) Values() iter.Seq2[date.Date, float64] { return s.prices.Values() }

// LastClose returns the most recent observation.
func (s *PriceSeries) LastClose() (float64, bool) {
	if s.prices.Len() == 0 {
		return 0, false
	}
	_, v := s.prices.Latest()
	return v, true
}

// MovingAverage returns the mean of the trailing window observations, or
// false when the history is shorter than the window ("insufficient history",
// never silently padded).
func (s *PriceSeries) MovingAverage(window int) (float64, bool) {
	values := s.prices.Raw()
	if len(values) < window {
		return 0, false
	}
	return stat.Mean(values[len(values)-window:], nil), true
}

// Returns computes period-over-period fractional changes of the raw series.
func (s *PriceSeries) Returns() []float64 {
	values := s.prices.Raw()
	if len(values) < 2 {
		return nil
	}
	returns := make([]float64, 0, len(values)-1)
	for i := 1; i < len(values); i++ {
		if values[i-1] != 0 {
			returns = append(returns, (values[i]-values[i-1])/values[i-1])
		}
	}
	return returns
}

// Resample projects the series onto the fixed grid of p, carrying the last
// known value forward into gaps. Values are never interpolated and
// observations are never dropped from consideration: each grid point takes
// the most recent observation on or before it. The grid starts at the first
// grid point covered by an observation and ends at the last observation.
func (s *PriceSeries) Resample(p date.Period) *PriceSeries {
	out := NewPriceSeries(s.symbol, s.currency, p)
	out.expenseRatio = s.expenseRatio
	if s.prices.Len() == 0 {
		return out
	}
	first, _ := s.prices.First()
	last, _ := s.prices.Latest()

	on := p.StartOf(first)
	if on.Before(first) {
		// no observation can fill this grid point yet
		on = p.Next(on)
	}
	for !on.After(last) {
		v, ok := s.prices.ValueAsOf(on)
		if ok {
			out.prices.Append(on, v)
		}
		on = p.Next(on)
	}
	return out
}

// Fetcher is the series acquisition boundary. Implementations return the
// price history of a symbol over a lookback range, or fail when the symbol is
// unknown, the history is empty, or the upstream is unreachable.
type Fetcher interface {
	FetchHistory(symbol string, lookback date.Range) (*PriceSeries, error)
}

// SeriesStore maps symbols to their price history. It is built once per run
// and read-only afterwards.
type SeriesStore struct {
	series map[string]*PriceSeries
}

func NewSeriesStore() *SeriesStore {
	return &SeriesStore{series: make(map[string]*PriceSeries)}
}

func (st *SeriesStore) Put(s *PriceSeries) { st.series[s.symbol] = s }

func (st *SeriesStore) Get(symbol string) (*PriceSeries, bool) {
	s, ok := st.series[symbol]
	return s, ok
}

func (st *SeriesStore) Has(symbol string) bool {
	_, ok := st.series[symbol]
	return ok
}

func (st *SeriesStore) Len() int { return len(st.series) }

// FetchHistory makes a populated store usable as a Fetcher, so a run can be
// replayed offline from a previously exported store. The lookback range is
// ignored: the store returns whatever history it holds.
func (st *SeriesStore) FetchHistory(symbol string, _ date.Range) (*PriceSeries, error) {
	s, ok := st.series[symbol]
	if !ok {
		return nil, fmt.Errorf("%w: %s not in store", ErrDataUnavailable, symbol)
	}
	return s, nil
}

var _ Fetcher = (*SeriesStore)(nil)

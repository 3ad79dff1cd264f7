package etfperformance

import (
	"fmt"
	"math"
)

// Prediction is one predictions-table row: the original holding joined, by
// row identity, with today's price and the per-horizon point estimates.
// Estimates is nil when the instrument's forecast failed; the row is still
// emitted with null forecast fields.
type Prediction struct {
	Holding
	Today     float64         // NaN when no usable history existed
	Estimates map[int]float64 // horizon years -> price in base currency
}

// SymbolSummary is the per-instrument rollup: sums across all rows sharing a
// symbol.
type SymbolSummary struct {
	Symbol     string
	Quantity   Quantity
	TotalToday Money
	TotalAt    map[int]Money
}

// Report is the final portfolio projection: per-row monetary values, the
// per-symbol rollup, and whole-portfolio totals, all in the base currency.
type Report struct {
	BaseCurrency string
	Horizons     []int
	Predictions  []Prediction
	Symbols      []SymbolSummary
	TotalToday   Money
	TotalAt      map[int]Money
}

// Aggregate joins enriched holdings and predictions back onto the holdings
// table by row index and computes quantity-weighted monetary totals.
//
// Both maps must contain an entry for every row of the table (a nil entry
// marks an isolated upstream failure); a missing key is a join contract
// violation and fails with ErrUnmatchedHolding. Rows whose metrics or
// forecasts failed contribute nothing to the sums but are never dropped.
func Aggregate(pf *Portfolio, enriched map[int]*EnrichedHolding, predictions map[int]*Prediction, cfg Config) (*Report, error) {
	report := &Report{
		BaseCurrency: cfg.BaseCurrency,
		Horizons:     cfg.Horizons,
		TotalToday:   M(0, cfg.BaseCurrency),
		TotalAt:      zeroTotals(cfg),
	}

	bySymbol := make(map[string]*SymbolSummary)
	var order []string

	for _, h := range pf.Holdings() {
		e, ok := enriched[h.Row]
		if !ok {
			return nil, fmt.Errorf("%w: row %d (%s) has no enrichment record", ErrUnmatchedHolding, h.Row, h.Symbol)
		}
		p, ok := predictions[h.Row]
		if !ok {
			return nil, fmt.Errorf("%w: row %d (%s) has no prediction record", ErrUnmatchedHolding, h.Row, h.Symbol)
		}
		if p == nil {
			p = &Prediction{Holding: h, Today: math.NaN()}
		}
		report.Predictions = append(report.Predictions, *p)

		sum := bySymbol[h.Symbol]
		if sum == nil {
			sum = &SymbolSummary{
				Symbol:     h.Symbol,
				TotalToday: M(0, cfg.BaseCurrency),
				TotalAt:    zeroTotals(cfg),
			}
			bySymbol[h.Symbol] = sum
			order = append(order, h.Symbol)
		}
		sum.Quantity = sum.Quantity.Add(h.Quantity)

		if e != nil && !math.IsNaN(e.LastClose) {
			value := M(e.LastClose, cfg.BaseCurrency).Mul(h.Quantity)
			sum.TotalToday = sum.TotalToday.Add(value)
			report.TotalToday = report.TotalToday.Add(value)
		}
		for _, years := range cfg.Horizons {
			price, ok := p.Estimates[years]
			if !ok || math.IsNaN(price) {
				continue
			}
			value := M(price, cfg.BaseCurrency).Mul(h.Quantity)
			sum.TotalAt[years] = sum.TotalAt[years].Add(value)
			report.TotalAt[years] = report.TotalAt[years].Add(value)
		}
	}

	for _, symbol := range order {
		report.Symbols = append(report.Symbols, *bySymbol[symbol])
	}
	return report, nil
}

func zeroTotals(cfg Config) map[int]Money {
	totals := make(map[int]Money, len(cfg.Horizons))
	for _, years := range cfg.Horizons {
		totals[years] = M(0, cfg.BaseCurrency)
	}
	return totals
}

package renderer

import (
	"fmt"

	"github.com/catelix/etfperformance"
)

// Report is the presentation shape of a portfolio projection.
// Horizon columns are pre-ordered so templates never iterate maps.
type Report struct {
	// Date of the run, already formatted.
	Date string
	// BaseCurrency all monetary values are expressed in.
	BaseCurrency string
	// Totals holds the whole-portfolio value today and at each horizon.
	Totals []HorizonValue
	// Symbols is the per-instrument breakdown, in first-appearance order.
	Symbols []ReportSymbol
}

// HorizonValue is one labeled monetary column ("today", "5 years", ...).
type HorizonValue struct {
	Label string
	Value etfperformance.Money
}

// ReportSymbol is the rollup of all rows sharing one symbol.
type ReportSymbol struct {
	Symbol   string
	Quantity etfperformance.Quantity
	Values   []HorizonValue
}

// NewReport builds the presentation shape from a pipeline report.
func NewReport(r *etfperformance.Report, runDate string) *Report {
	out := &Report{
		Date:         runDate,
		BaseCurrency: r.BaseCurrency,
		Totals:       horizonValues(r.Horizons, r.TotalToday, r.TotalAt),
	}
	for _, s := range r.Symbols {
		out.Symbols = append(out.Symbols, ReportSymbol{
			Symbol:   s.Symbol,
			Quantity: s.Quantity,
			Values:   horizonValues(r.Horizons, s.TotalToday, s.TotalAt),
		})
	}
	return out
}

func horizonValues(horizons []int, today etfperformance.Money, at map[int]etfperformance.Money) []HorizonValue {
	values := []HorizonValue{{Label: "today", Value: today}}
	for _, years := range horizons {
		values = append(values, HorizonValue{
			Label: fmt.Sprintf("%d years", years),
			Value: at[years],
		})
	}
	return values
}

package etfperformance

import (
	"fmt"
	"math"
)

// HorizonEstimate is the value of a forecast sequence at the period offset
// nearest to a requested year horizon.
type HorizonEstimate struct {
	Symbol string
	Years  int
	Price  float64
}

// horizonOffset maps a year horizon to the zero-based forecast offset of the
// last period of that year.
func horizonOffset(years, periodsPerYear int) int {
	return int(math.Round(float64(years)*float64(periodsPerYear))) - 1
}

// ExtractHorizons returns one point estimate per requested horizon.
//
// The offset for horizon h is round(h*periodsPerYear)-1. A horizon beyond the
// fitted forecast is a caller error (the fit must cover the largest requested
// horizon) and fails with ErrHorizonOutOfRange.
func ExtractHorizons(seq *ForecastSequence, years []int) ([]HorizonEstimate, error) {
	ppy := seq.Period().PerYear()
	estimates := make([]HorizonEstimate, 0, len(years))
	for _, h := range years {
		offset := horizonOffset(h, ppy)
		if offset < 0 || offset >= seq.Len() {
			return nil, fmt.Errorf("%w: %d years is offset %d on a %d-period forecast",
				ErrHorizonOutOfRange, h, offset, seq.Len())
		}
		estimates = append(estimates, HorizonEstimate{
			Symbol: seq.Symbol(),
			Years:  h,
			Price:  seq.Value(offset),
		})
	}
	return estimates, nil
}

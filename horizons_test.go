package etfperformance

import (
	"errors"
	"testing"

	"github.com/catelix/etfperformance/date"
)

func testSequence(n int) *ForecastSequence {
	values := make([]float64, n)
	for i := range values {
		values[i] = float64(i)
	}
	return &ForecastSequence{symbol: "AAA", period: date.Monthly, values: values}
}

func TestExtractHorizons(t *testing.T) {
	seq := testSequence(180)

	estimates, err := ExtractHorizons(seq, []int{5, 10, 15})
	if err != nil {
		t.Fatalf("ExtractHorizons() error = %v", err)
	}
	if len(estimates) != 3 {
		t.Fatalf("len(estimates) = %v want 3", len(estimates))
	}

	// the h-year point is the last period of that year: offset h*12-1
	wantOffsets := []int{59, 119, 179}
	for i, e := range estimates {
		if e.Price != float64(wantOffsets[i]) {
			t.Errorf("estimate[%d].Price = %v want offset %d", i, e.Price, wantOffsets[i])
		}
		if e.Symbol != "AAA" {
			t.Errorf("estimate[%d].Symbol = %q want AAA", i, e.Symbol)
		}
	}

	// offsets are strictly increasing with the horizon
	for i := 1; i < len(wantOffsets); i++ {
		if wantOffsets[i] <= wantOffsets[i-1] {
			t.Errorf("offsets not strictly increasing: %v", wantOffsets)
		}
	}
}

func TestExtractHorizonsOutOfRange(t *testing.T) {
	seq := testSequence(60) // covers 5 years at monthly granularity

	_, err := ExtractHorizons(seq, []int{5, 10})
	if !errors.Is(err, ErrHorizonOutOfRange) {
		t.Errorf("ExtractHorizons() error = %v want ErrHorizonOutOfRange", err)
	}
}

func TestHorizonOffsetDaily(t *testing.T) {
	if got := horizonOffset(1, 252); got != 251 {
		t.Errorf("horizonOffset(1, 252) = %v want 251", got)
	}
	if got := horizonOffset(5, 12); got != 59 {
		t.Errorf("horizonOffset(5, 12) = %v want 59", got)
	}
}

package etfperformance

import (
	"errors"
	"math"
	"testing"
)

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.Horizons = []int{5, 10}
	return cfg
}

// fullRecords builds matching enrichment and prediction records for every row.
func fullRecords(pf *Portfolio, lastClose float64, estimates map[int]float64) (map[int]*EnrichedHolding, map[int]*Prediction) {
	enriched := make(map[int]*EnrichedHolding)
	predictions := make(map[int]*Prediction)
	for _, h := range pf.Holdings() {
		enriched[h.Row] = &EnrichedHolding{Holding: h, LastClose: lastClose, Currency: "USD"}
		predictions[h.Row] = &Prediction{Holding: h, Today: lastClose, Estimates: estimates}
	}
	return enriched, predictions
}

func TestAggregateTotals(t *testing.T) {
	cfg := testConfig()
	pf := newTestPortfolio() // VWCE.DE x10, EUNL.DE x5, VWCE.DE x3
	enriched, predictions := fullRecords(pf, 100, map[int]float64{5: 150, 10: 200})

	report, err := Aggregate(pf, enriched, predictions, cfg)
	if err != nil {
		t.Fatalf("Aggregate() error = %v", err)
	}

	if len(report.Predictions) != pf.Len() {
		t.Errorf("len(Predictions) = %v want %v", len(report.Predictions), pf.Len())
	}
	// 18 units at 100 today, 150 at 5y, 200 at 10y
	if want := M(1800, "USD"); !report.TotalToday.Equal(want) {
		t.Errorf("TotalToday = %v want %v", report.TotalToday, want)
	}
	if want := M(2700, "USD"); !report.TotalAt[5].Equal(want) {
		t.Errorf("TotalAt[5] = %v want %v", report.TotalAt[5], want)
	}
	if want := M(3600, "USD"); !report.TotalAt[10].Equal(want) {
		t.Errorf("TotalAt[10] = %v want %v", report.TotalAt[10], want)
	}

	// per-symbol rollup: rows 0 and 2 share VWCE.DE
	if len(report.Symbols) != 2 {
		t.Fatalf("len(Symbols) = %v want 2", len(report.Symbols))
	}
	vwce := report.Symbols[0]
	if vwce.Symbol != "VWCE.DE" || !vwce.Quantity.Equal(Q(13)) {
		t.Errorf("Symbols[0] = %v x%v want VWCE.DE x13", vwce.Symbol, vwce.Quantity)
	}
	if want := M(1300, "USD"); !vwce.TotalToday.Equal(want) {
		t.Errorf("VWCE.DE TotalToday = %v want %v", vwce.TotalToday, want)
	}
}

func TestAggregateNullRowsKept(t *testing.T) {
	cfg := testConfig()
	pf := newTestPortfolio()
	enriched, predictions := fullRecords(pf, 100, map[int]float64{5: 150, 10: 200})

	// row 1 failed upstream: present with a nil record
	enriched[1] = nil
	predictions[1] = nil

	report, err := Aggregate(pf, enriched, predictions, cfg)
	if err != nil {
		t.Fatalf("Aggregate() error = %v", err)
	}

	// the failed row is emitted, with null fields
	if len(report.Predictions) != 3 {
		t.Fatalf("len(Predictions) = %v want 3", len(report.Predictions))
	}
	if !math.IsNaN(report.Predictions[1].Today) {
		t.Errorf("failed row Today = %v want NaN", report.Predictions[1].Today)
	}
	if report.Predictions[1].Estimates != nil {
		t.Errorf("failed row Estimates = %v want nil", report.Predictions[1].Estimates)
	}

	// and contributes nothing to the sums: 13 units left
	if want := M(1300, "USD"); !report.TotalToday.Equal(want) {
		t.Errorf("TotalToday = %v want %v", report.TotalToday, want)
	}
	if want := M(1950, "USD"); !report.TotalAt[5].Equal(want) {
		t.Errorf("TotalAt[5] = %v want %v", report.TotalAt[5], want)
	}
}

func TestAggregateUnmatchedHolding(t *testing.T) {
	cfg := testConfig()
	pf := newTestPortfolio()
	enriched, predictions := fullRecords(pf, 100, nil)

	// a missing key is a contract violation, unlike a nil entry
	delete(predictions, 2)

	_, err := Aggregate(pf, enriched, predictions, cfg)
	if !errors.Is(err, ErrUnmatchedHolding) {
		t.Errorf("Aggregate() error = %v want ErrUnmatchedHolding", err)
	}

	enriched2, predictions2 := fullRecords(pf, 100, nil)
	delete(enriched2, 0)
	_, err = Aggregate(pf, enriched2, predictions2, cfg)
	if !errors.Is(err, ErrUnmatchedHolding) {
		t.Errorf("Aggregate() error = %v want ErrUnmatchedHolding", err)
	}
}

func TestAggregatePartialEstimates(t *testing.T) {
	cfg := testConfig()
	pf := newTestPortfolio()
	// only the 5-year estimate exists
	enriched, predictions := fullRecords(pf, 100, map[int]float64{5: 150})

	report, err := Aggregate(pf, enriched, predictions, cfg)
	if err != nil {
		t.Fatalf("Aggregate() error = %v", err)
	}
	if want := M(2700, "USD"); !report.TotalAt[5].Equal(want) {
		t.Errorf("TotalAt[5] = %v want %v", report.TotalAt[5], want)
	}
	if !report.TotalAt[10].IsZero() {
		t.Errorf("TotalAt[10] = %v want zero with no 10-year estimates", report.TotalAt[10])
	}
}

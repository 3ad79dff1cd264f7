package etfperformance

import (
	"strings"
	"testing"

	"github.com/catelix/etfperformance/date"
)

func TestStoreRoundtrip(t *testing.T) {
	store := NewSeriesStore()
	vwce := dailySeries("VWCE.DE", "EUR", date.New(2025, 1, 1), 5, func(i int) float64 { return 100 + float64(i) })
	vwce.SetExpenseRatio(0.0022)
	store.Put(vwce)
	store.Put(monthlySeries("EUNL.DE", "USD", date.New(2024, 1, 1), 3, func(i int) float64 { return 50 }))

	var b strings.Builder
	if err := ExportStore(&b, store); err != nil {
		t.Fatalf("ExportStore() error = %v", err)
	}

	// one line per symbol, in lexical order for stable diffs
	lines := strings.Split(strings.TrimSpace(b.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("export has %d lines want 2", len(lines))
	}
	if !strings.Contains(lines[0], "EUNL.DE") || !strings.Contains(lines[1], "VWCE.DE") {
		t.Errorf("export order not lexical:\n%s", b.String())
	}

	got, err := ImportStore(strings.NewReader(b.String()))
	if err != nil {
		t.Fatalf("ImportStore() error = %v", err)
	}
	if got.Len() != 2 {
		t.Fatalf("imported %d series want 2", got.Len())
	}

	s, ok := got.Get("VWCE.DE")
	if !ok {
		t.Fatalf("VWCE.DE missing after roundtrip")
	}
	if s.Currency() != "EUR" || s.Period() != date.Daily || s.ExpenseRatio() != 0.0022 {
		t.Errorf("metadata lost: %v %v %v", s.Currency(), s.Period(), s.ExpenseRatio())
	}
	if s.Len() != 5 {
		t.Fatalf("VWCE.DE has %d observations want 5", s.Len())
	}
	if v, ok := s.LastClose(); !ok || v != 104 {
		t.Errorf("LastClose() = %v want 104", v)
	}
	for on, v := range s.Values() {
		if want := 100 + float64(on.Day()-1); v != want {
			t.Errorf("observation on %s = %v want %v", on, v, want)
		}
	}
}

func TestImportStoreSkipsBlankLines(t *testing.T) {
	in := `{"symbol":"AAA","currency":"USD","period":"daily","history":{"2025-01-01":1}}

{"symbol":"BBB","currency":"USD","period":"monthly","history":{"2025-01-01":2}}
`
	store, err := ImportStore(strings.NewReader(in))
	if err != nil {
		t.Fatalf("ImportStore() error = %v", err)
	}
	if store.Len() != 2 {
		t.Errorf("imported %d series want 2", store.Len())
	}
}

func TestImportStoreRejectsGarbage(t *testing.T) {
	if _, err := ImportStore(strings.NewReader("not json\n")); err == nil {
		t.Errorf("ImportStore() on garbage should fail")
	}
	if _, err := ImportStore(strings.NewReader(`{"symbol":"A","currency":"USD","period":"hourly","history":{}}` + "\n")); err == nil {
		t.Errorf("ImportStore() with an unknown period should fail")
	}
}

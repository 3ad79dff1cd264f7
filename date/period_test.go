package date

import "testing"

func TestParsePeriod(t *testing.T) {
	tests := []struct {
		in      string
		want    Period
		wantErr bool
	}{
		{in: "daily", want: Daily},
		{in: "day", want: Daily},
		{in: "Monthly", want: Monthly},
		{in: "month", want: Monthly},
		{in: "weekly", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			p, err := ParsePeriod(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParsePeriod(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if err == nil && p != tt.want {
				t.Errorf("ParsePeriod(%q) = %v want %v", tt.in, p, tt.want)
			}
		})
	}
}

func TestPerYear(t *testing.T) {
	if got := Daily.PerYear(); got != 252 {
		t.Errorf("Daily.PerYear() = %v want 252", got)
	}
	if got := Monthly.PerYear(); got != 12 {
		t.Errorf("Monthly.PerYear() = %v want 12", got)
	}
}

func TestGrid(t *testing.T) {
	d := New(2025, 7, 17)

	if got := Monthly.StartOf(d); got != New(2025, 7, 1) {
		t.Errorf("Monthly.StartOf = %v want 2025-07-01", got)
	}
	if got := Daily.StartOf(d); got != d {
		t.Errorf("Daily.StartOf = %v want %v", got, d)
	}
	if got := Monthly.Next(New(2025, 12, 1)); got != New(2026, 1, 1) {
		t.Errorf("Monthly.Next = %v want 2026-01-01", got)
	}
	if got := Daily.Next(d); got != New(2025, 7, 18) {
		t.Errorf("Daily.Next = %v want 2025-07-18", got)
	}
}

package etfperformance

import "testing"

func TestMoneyString(t *testing.T) {
	tests := []struct {
		m    Money
		want string
	}{
		{m: M(1800, "USD"), want: "$1,800.00"},
		{m: M(1234.5, "EUR"), want: "€1,234.50"},
		{m: M(0, "USD"), want: "$0.00"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.m.String(); got != tt.want {
				t.Errorf("String() = %q want %q", got, tt.want)
			}
		})
	}
}

func TestMoneyMul(t *testing.T) {
	got := M(100.10, "USD").Mul(Q(3))
	if want := M(300.30, "USD"); !got.Equal(want) {
		t.Errorf("Mul() = %v want %v", got, want)
	}
}

func TestMoneyAdd(t *testing.T) {
	got := M(1, "USD").Add(M(2, "USD"))
	if want := M(3, "USD"); !got.Equal(want) {
		t.Errorf("Add() = %v want %v", got, want)
	}

	// the empty currency is weak: it takes the other operand's
	got = Money{}.Add(M(2, "USD"))
	if got.Currency() != "USD" {
		t.Errorf("Add() currency = %q want USD", got.Currency())
	}

	defer func() {
		if recover() == nil {
			t.Errorf("Add() across currencies should panic")
		}
	}()
	M(1, "USD").Add(M(1, "EUR"))
}

func TestQuantityExact(t *testing.T) {
	// 0.1+0.2 is where float sums drift; decimals must not
	got := Q(0.1).Add(Q(0.2))
	if !got.Equal(Q(0.3)) {
		t.Errorf("0.1 + 0.2 = %v want 0.3", got)
	}
	if got.String() != "0.3" {
		t.Errorf("String() = %q want 0.3", got.String())
	}
}

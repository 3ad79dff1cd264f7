package date

import (
	"fmt"
	"strings"
)

// Period is the fixed sampling granularity used throughout one run for series
// alignment and forecasting.
type Period int

const (
	Daily Period = iota
	Monthly
)

func (p Period) String() string {
	switch p {
	case Daily:
		return "daily"
	case Monthly:
		return "monthly"
	default:
		panic(fmt.Sprintf("unknown period %d", p))
	}
}

func ParsePeriod(p string) (Period, error) {
	switch strings.ToLower(p) {
	case "daily", "day":
		return Daily, nil
	case "monthly", "month":
		return Monthly, nil
	default:
		return Daily, fmt.Errorf("unknown period %q", p)
	}
}

// PerYear returns the number of periods in one year: the annualization factor
// for volatility and the horizon-to-offset scale. 252 trading days, 12 months.
func (p Period) PerYear() int {
	switch p {
	case Daily:
		return 252
	case Monthly:
		return 12
	default:
		panic(fmt.Sprintf("unknown period %d", p))
	}
}

// StartOf snaps a date onto the period grid: the first day of the month for
// Monthly, the day itself for Daily.
func (p Period) StartOf(d Date) Date {
	switch p {
	case Daily:
		return d
	case Monthly:
		return New(d.Year(), d.Month(), 1)
	default:
		panic(fmt.Sprintf("unknown period %d", p))
	}
}

// Next returns the following grid point.
func (p Period) Next(d Date) Date {
	switch p {
	case Daily:
		return d.Add(1)
	case Monthly:
		return d.AddMonths(1)
	default:
		panic(fmt.Sprintf("unknown period %d", p))
	}
}

package date

import "fmt"

// Range represents an inclusive range of dates.
type Range struct{ From, To Date }

// Lookback returns the range ending at 'to' and starting 'years' earlier.
func Lookback(to Date, years int) Range {
	return Range{From: New(to.Year()-years, to.Month(), to.Day()), To: to}
}

// Contains return true date is included in the range (boundaries included)
func (r Range) Contains(date Date) bool { return !date.Before(r.From) && !date.After(r.To) }

// Identifier compute a unique identifier for the Range.
func (r Range) Identifier() string { return fmt.Sprintf("%s_%s", r.From, r.To) }

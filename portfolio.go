package etfperformance

import (
	"fmt"
	"strings"
)

// Holding is one row of the input holdings table.
//
// Row is the stable identity used to re-join derived records: symbols are NOT
// unique across rows, so joining by symbol would silently merge lots.
type Holding struct {
	Row      int
	Symbol   string
	Quantity Quantity
	Weight   float64 // normalized share of the portfolio, 0 when absent

	// passthrough holds every other input column, preserved verbatim.
	passthrough map[string]string
}

// Field returns the verbatim value of a passthrough column.
// Lookup ignores case and treats ' ' and '_' as equivalent.
func (h Holding) Field(name string) (string, bool) {
	want := foldColumn(name)
	for k, v := range h.passthrough {
		if foldColumn(k) == want {
			return v, true
		}
	}
	return "", false
}

func foldColumn(name string) string {
	return strings.ToLower(strings.ReplaceAll(name, " ", "_"))
}

// Portfolio is the ordered holdings table of one run.
type Portfolio struct {
	columns  []string // original header, in input order
	weighted bool     // the input had a Weight column
	holdings []Holding
}

// NewPortfolio returns an empty table with the given input header.
func NewPortfolio(columns []string, weighted bool) *Portfolio {
	return &Portfolio{columns: columns, weighted: weighted}
}

// Append adds a holding row, assigning its stable row index.
func (p *Portfolio) Append(symbol string, quantity Quantity, weight float64, passthrough map[string]string) {
	p.holdings = append(p.holdings, Holding{
		Row:         len(p.holdings),
		Symbol:      symbol,
		Quantity:    quantity,
		Weight:      weight,
		passthrough: passthrough,
	})
}

// Columns returns the original input header.
func (p *Portfolio) Columns() []string { return p.columns }

// Weighted reports whether the input table had a Weight column.
func (p *Portfolio) Weighted() bool { return p.weighted }

// Len returns the number of holding rows.
func (p *Portfolio) Len() int { return len(p.holdings) }

// Holdings returns the rows in input order.
func (p *Portfolio) Holdings() []Holding { return p.holdings }

// Symbols returns the distinct symbols in first-appearance order.
func (p *Portfolio) Symbols() []string {
	seen := make(map[string]bool, len(p.holdings))
	var symbols []string
	for _, h := range p.holdings {
		if !seen[h.Symbol] {
			seen[h.Symbol] = true
			symbols = append(symbols, h.Symbol)
		}
	}
	return symbols
}

// NormalizeWeights rescales the Weight column so it sums to 1.
// It is a no-op on tables without weights.
func (p *Portfolio) NormalizeWeights() error {
	if !p.weighted {
		return nil
	}
	var sum float64
	for _, h := range p.holdings {
		sum += h.Weight
	}
	if sum <= 0 {
		return fmt.Errorf("cannot normalize weights: sum is %v", sum)
	}
	for i := range p.holdings {
		p.holdings[i].Weight /= sum
	}
	return nil
}

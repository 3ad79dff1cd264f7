package etfperformance

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/catelix/etfperformance/date"
)

// this file contains functions to handle the series store import/export
// format. It should remain human readable, single file and easy to diff.

// jseries is the readable version of the format: one JSON object per line,
// one line per symbol. History properties are dates in the date package
// format, values are prices in the series currency.
type jseries struct {
	Symbol       string             `json:"symbol"`
	Currency     string             `json:"currency"`
	Period       string             `json:"period"`
	ExpenseRatio float64            `json:"expense_ratio,omitempty"`
	History      map[string]float64 `json:"history"`
}

// ImportStore reads a series store from 'r' in the import/export format
// (JSONL, one symbol per line).
func ImportStore(r io.Reader) (*SeriesStore, error) {
	store := NewSeriesStore()
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 1024*1024), 16*1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(strings.TrimSpace(string(line))) == 0 {
			continue
		}
		var js jseries
		if err := json.Unmarshal(line, &js); err != nil {
			return nil, fmt.Errorf("cannot parse line for store import format: %q: %w", string(line), err)
		}
		period, err := date.ParsePeriod(js.Period)
		if err != nil {
			return nil, fmt.Errorf("cannot import series %q: %w", js.Symbol, err)
		}
		series := NewPriceSeries(js.Symbol, js.Currency, period)
		series.SetExpenseRatio(js.ExpenseRatio)
		for day, price := range js.History {
			on, err := date.Parse(day)
			if err != nil {
				return nil, fmt.Errorf("cannot import series %q: %w", js.Symbol, err)
			}
			series.Append(on, price)
		}
		store.Put(series)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return store, nil
}

// ExportStore writes the series store to 'w' in the import/export format,
// symbols in lexical order so the output is stable.
func ExportStore(w io.Writer, store *SeriesStore) error {
	symbols := make([]string, 0, store.Len())
	for symbol := range store.series {
		symbols = append(symbols, symbol)
	}
	sort.Strings(symbols)

	enc := json.NewEncoder(w)
	for _, symbol := range symbols {
		series := store.series[symbol]
		js := jseries{
			Symbol:       series.Symbol(),
			Currency:     series.Currency(),
			Period:       series.Period().String(),
			ExpenseRatio: series.ExpenseRatio(),
			History:      make(map[string]float64, series.Len()),
		}
		for on, price := range series.Values() {
			js.History[on.String()] = price
		}
		if err := enc.Encode(js); err != nil {
			return fmt.Errorf("cannot export series %q: %w", symbol, err)
		}
	}
	return nil
}

package etfperformance

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"
)

// this file reads the brokerage-exported holdings table and writes the two
// output tables. Input columns that the pipeline does not interpret are
// passed through verbatim, in their original order.

// ReadHoldings parses a holdings CSV. The table must have Symbol and
// Quantity columns (header names are matched ignoring case and ' '/'_'
// differences); Weight is optional. Rows whose Quantity (or Weight, when the
// column exists) cannot be parsed are skipped; their row numbers are
// returned so the caller can report them.
func ReadHoldings(r io.Reader) (pf *Portfolio, skipped []int, err error) {
	records, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("cannot read holdings table: %w", err)
	}
	if len(records) < 1 {
		return nil, nil, fmt.Errorf("holdings table has no header")
	}

	header := records[0]
	symbolCol, quantityCol, weightCol := -1, -1, -1
	for i, name := range header {
		switch foldColumn(name) {
		case "symbol":
			symbolCol = i
		case "quantity":
			quantityCol = i
		case "weight":
			weightCol = i
		}
	}
	if symbolCol < 0 || quantityCol < 0 {
		return nil, nil, fmt.Errorf("holdings table needs Symbol and Quantity columns, got %v", header)
	}

	pf = NewPortfolio(header, weightCol >= 0)
	for n, record := range records[1:] {
		if len(record) != len(header) {
			skipped = append(skipped, n+1)
			continue
		}
		quantity, err := strconv.ParseFloat(record[quantityCol], 64)
		if err != nil || quantity < 0 {
			skipped = append(skipped, n+1)
			continue
		}
		weight := 0.0
		if weightCol >= 0 {
			weight, err = strconv.ParseFloat(record[weightCol], 64)
			if err != nil {
				skipped = append(skipped, n+1)
				continue
			}
		}
		passthrough := make(map[string]string)
		for i, cell := range record {
			if i == symbolCol || i == quantityCol || i == weightCol {
				continue
			}
			passthrough[header[i]] = cell
		}
		pf.Append(record[symbolCol], Q(quantity), weight, passthrough)
	}
	return pf, skipped, nil
}

// enrichedColumns are appended to the input header in the enriched table.
var enrichedColumns = []string{"Last_Close", "MA50", "Volatility", "Expense_Ratio", "Currency"}

// WriteEnriched writes the enriched holdings table: every input column
// verbatim plus the metric columns. Rows whose enrichment failed carry empty
// metric cells.
func WriteEnriched(w io.Writer, pf *Portfolio, enriched map[int]*EnrichedHolding) error {
	out := csv.NewWriter(w)
	if err := out.Write(append(append([]string{}, pf.Columns()...), enrichedColumns...)); err != nil {
		return err
	}
	for _, h := range pf.Holdings() {
		record := inputCells(pf, h)
		if e := enriched[h.Row]; e != nil {
			record = append(record,
				formatFloat(e.LastClose),
				formatFloat(e.MA50),
				formatFloat(e.Volatility),
				formatFloat(e.ExpenseRatio),
				e.Currency,
			)
		} else {
			record = append(record, "", "", "", "", "")
		}
		if err := out.Write(record); err != nil {
			return err
		}
	}
	out.Flush()
	return out.Error()
}

// WritePredictions writes the predictions table: every input column verbatim
// plus "today" and one "<N> years" column per requested horizon. Rows whose
// forecast failed carry empty forecast cells.
func WritePredictions(w io.Writer, report *Report, pf *Portfolio) error {
	header := append([]string{}, pf.Columns()...)
	header = append(header, "today")
	for _, years := range report.Horizons {
		header = append(header, fmt.Sprintf("%d years", years))
	}

	out := csv.NewWriter(w)
	if err := out.Write(header); err != nil {
		return err
	}
	for _, p := range report.Predictions {
		record := inputCells(pf, p.Holding)
		record = append(record, formatFloat(p.Today))
		for _, years := range report.Horizons {
			price, ok := p.Estimates[years]
			if !ok {
				price = math.NaN()
			}
			record = append(record, formatFloat(price))
		}
		if err := out.Write(record); err != nil {
			return err
		}
	}
	out.Flush()
	return out.Error()
}

// inputCells rebuilds the original row: interpreted columns from their parsed
// values (Weight after normalization), everything else verbatim.
func inputCells(pf *Portfolio, h Holding) []string {
	record := make([]string, 0, len(pf.Columns()))
	for _, name := range pf.Columns() {
		switch foldColumn(name) {
		case "symbol":
			record = append(record, h.Symbol)
		case "quantity":
			record = append(record, h.Quantity.String())
		case "weight":
			record = append(record, formatFloat(h.Weight))
		default:
			cell, _ := h.Field(name)
			record = append(record, cell)
		}
	}
	return record
}

// formatFloat renders a metric cell; NaN (insufficient history or an
// isolated failure) becomes an empty cell.
func formatFloat(f float64) string {
	if math.IsNaN(f) {
		return ""
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

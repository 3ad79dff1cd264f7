// Package yahoo fetches historical prices from the Yahoo Finance chart API.
// It implements the pipeline's series acquisition boundary.
package yahoo

import (
	"fmt"
	"net/http"
	"time"

	"github.com/PaesslerAG/jsonpath"

	"github.com/catelix/etfperformance"
	"github.com/catelix/etfperformance/date"
)

const defaultBaseURL = "https://query1.finance.yahoo.com"

// Client fetches daily price history. Responses are cached on disk for the
// day, so repeated runs do not hammer the API.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient returns a chart-API client with a daily-expiring disk cache.
func NewClient() *Client {
	return &Client{baseURL: defaultBaseURL, http: newDailyCachingClient()}
}

var _ etfperformance.Fetcher = (*Client)(nil)

// FetchHistory returns the daily close series of a symbol over the lookback
// range, quoted in the instrument's native currency.
//
//	https://query1.finance.yahoo.com/v8/finance/chart/VWCE.DE?period1=...&period2=...&interval=1d
//	{
//	  "chart": {
//	    "result": [{
//	      "meta": { "currency": "EUR", ... },
//	      "timestamp": [1706572800, ...],
//	      "indicators": { "quote": [{ "close": [105.12, null, ...] }] }
//	    }],
//	    "error": null
//	  }
//	}
func (c *Client) FetchHistory(symbol string, lookback date.Range) (*etfperformance.PriceSeries, error) {
	addr := fmt.Sprintf("%s/v8/finance/chart/%s?period1=%d&period2=%d&interval=1d",
		c.baseURL, symbol, lookback.From.Unix(), lookback.To.Add(1).Unix())

	var jobj any
	if err := jwget(c.http, addr, &jobj); err != nil {
		return nil, fmt.Errorf("cannot fetch history for %q: %w", symbol, err)
	}

	// the API reports symbol-level failures in-band
	if desc, err := jsonpath.Get("$.chart.error.description", jobj); err == nil && desc != nil {
		return nil, fmt.Errorf("cannot fetch history for %q: %v", symbol, desc)
	}

	currency := "USD" // default when the meta omits it
	if jval, err := jsonpath.Get("$.chart.result[0].meta.currency", jobj); err == nil {
		if s, ok := jval.(string); ok && s != "" {
			currency = s
		}
	}

	timestamps, err := jsonList(jobj, "$.chart.result[0].timestamp")
	if err != nil {
		return nil, fmt.Errorf("cannot fetch history for %q: %w", symbol, err)
	}
	closes, err := jsonList(jobj, "$.chart.result[0].indicators.quote[0].close")
	if err != nil {
		return nil, fmt.Errorf("cannot fetch history for %q: %w", symbol, err)
	}
	if len(timestamps) != len(closes) {
		return nil, fmt.Errorf("cannot fetch history for %q: %d timestamps but %d closes",
			symbol, len(timestamps), len(closes))
	}

	series := etfperformance.NewPriceSeries(symbol, currency, date.Daily)
	for i, jts := range timestamps {
		ts, ok := jts.(float64)
		if !ok {
			continue
		}
		// a null close is a non-trading slot, not a zero price
		price, ok := closes[i].(float64)
		if !ok {
			continue
		}
		on := date.New(time.Unix(int64(ts), 0).UTC().Date())
		series.Append(on, price)
	}
	if series.Len() == 0 {
		return nil, fmt.Errorf("empty history for %q", symbol)
	}

	if ratio, ok := c.fetchExpenseRatio(symbol); ok {
		series.SetExpenseRatio(ratio)
	}
	return series, nil
}

// fetchExpenseRatio asks the quoteSummary endpoint for the fund's annual
// expense ratio. Best effort: most failures just mean the instrument is not
// a fund, and the ratio stays 0.
func (c *Client) fetchExpenseRatio(symbol string) (float64, bool) {
	addr := fmt.Sprintf("%s/v10/finance/quoteSummary/%s?modules=fundProfile", c.baseURL, symbol)

	var jobj any
	if err := jwget(c.http, addr, &jobj); err != nil {
		return 0, false
	}
	path := "$.quoteSummary.result[0].fundProfile.feesExpensesInvestment.annualReportExpenseRatio.raw"
	jval, err := jsonpath.Get(path, jobj)
	if err != nil {
		return 0, false
	}
	ratio, ok := jval.(float64)
	return ratio, ok
}

// jsonList extracts a JSON array from the payload.
func jsonList(jobj any, path string) ([]any, error) {
	jval, err := jsonpath.Get(path, jobj)
	if err != nil {
		return nil, fmt.Errorf("missing %q in response", path)
	}
	jlist, ok := jval.([]any)
	if !ok {
		return nil, fmt.Errorf("%q is not a list", path)
	}
	return jlist, nil
}

package yahoo

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/catelix/etfperformance/date"
)

const chartPayload = `{
  "chart": {
    "result": [{
      "meta": { "currency": "EUR" },
      "timestamp": [1706572800, 1706659200, 1706745600],
      "indicators": { "quote": [{ "close": [105.12, null, 106.40] }] }
    }],
    "error": null
  }
}`

const fundPayload = `{
  "quoteSummary": {
    "result": [{
      "fundProfile": {
        "feesExpensesInvestment": { "annualReportExpenseRatio": { "raw": 0.0022 } }
      }
    }]
  }
}`

// newTestClient points a Client at a stub chart API.
func newTestClient(handler http.HandlerFunc) (*Client, *httptest.Server) {
	server := httptest.NewServer(handler)
	return &Client{baseURL: server.URL, http: server.Client()}, server
}

func TestFetchHistory(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasPrefix(r.URL.Path, "/v8/finance/chart/VWCE.DE"):
			fmt.Fprint(w, chartPayload)
		case strings.HasPrefix(r.URL.Path, "/v10/finance/quoteSummary/VWCE.DE"):
			fmt.Fprint(w, fundPayload)
		default:
			http.NotFound(w, r)
		}
	})
	defer server.Close()

	lookback := date.Lookback(date.New(2024, 2, 1), 1)
	series, err := client.FetchHistory("VWCE.DE", lookback)
	if err != nil {
		t.Fatalf("FetchHistory() error = %v", err)
	}

	if series.Symbol() != "VWCE.DE" || series.Currency() != "EUR" || series.Period() != date.Daily {
		t.Errorf("series identity = %v %v %v", series.Symbol(), series.Currency(), series.Period())
	}
	// the null close is a non-trading slot, not an observation
	if series.Len() != 2 {
		t.Errorf("Len() = %v want 2", series.Len())
	}
	if v, ok := series.LastClose(); !ok || v != 106.40 {
		t.Errorf("LastClose() = %v want 106.40", v)
	}
	if series.ExpenseRatio() != 0.0022 {
		t.Errorf("ExpenseRatio() = %v want 0.0022", series.ExpenseRatio())
	}
}

func TestFetchHistoryExpenseRatioBestEffort(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/v8/finance/chart/") {
			fmt.Fprint(w, chartPayload)
			return
		}
		// not a fund: quoteSummary fails, the fetch must still succeed
		http.NotFound(w, r)
	})
	defer server.Close()

	series, err := client.FetchHistory("AAPL", date.Lookback(date.New(2024, 2, 1), 1))
	if err != nil {
		t.Fatalf("FetchHistory() error = %v", err)
	}
	if series.ExpenseRatio() != 0 {
		t.Errorf("ExpenseRatio() = %v want 0", series.ExpenseRatio())
	}
}

func TestFetchHistoryAPIError(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"chart":{"result":null,"error":{"code":"Not Found","description":"No data found, symbol may be delisted"}}}`)
	})
	defer server.Close()

	if _, err := client.FetchHistory("GONE", date.Lookback(date.New(2024, 2, 1), 1)); err == nil {
		t.Errorf("FetchHistory() on an in-band API error should fail")
	}
}

func TestFetchHistoryEmpty(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/v8/finance/chart/") {
			fmt.Fprint(w, `{"chart":{"result":[{"meta":{"currency":"USD"},"timestamp":[],"indicators":{"quote":[{"close":[]}]}}],"error":null}}`)
			return
		}
		http.NotFound(w, r)
	})
	defer server.Close()

	if _, err := client.FetchHistory("EMPTY", date.Lookback(date.New(2024, 2, 1), 1)); err == nil {
		t.Errorf("FetchHistory() on an empty history should fail")
	}
}

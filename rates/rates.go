// Package rates looks up spot exchange rates from the frankfurter.app API.
// It implements the pipeline's rate boundary.
package rates

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/catelix/etfperformance"
)

const defaultBaseURL = "https://api.frankfurter.app"

// Client is a minimal spot-rate source. No caching here: the pipeline's
// Converter already caches per currency pair for the run.
type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient() *Client {
	return &Client{baseURL: defaultBaseURL, http: new(http.Client)}
}

var _ etfperformance.RateSource = (*Client)(nil)

// SpotRate returns the latest rate for one unit of 'from' expressed in 'to'.
//
//	https://api.frankfurter.app/latest?from=EUR&to=USD
//	{"amount":1.0,"base":"EUR","date":"2026-08-28","rates":{"USD":1.1012}}
func (c *Client) SpotRate(from, to string) (float64, error) {
	addr := fmt.Sprintf("%s/latest?from=%s&to=%s", c.baseURL, from, to)

	resp, err := c.http.Get(addr)
	if err != nil {
		return 0, fmt.Errorf("cannot fetch rate %s->%s: %w", from, to, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("cannot fetch rate %s->%s: %s", from, to, resp.Status)
	}

	var payload struct {
		Rates map[string]float64 `json:"rates"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return 0, fmt.Errorf("cannot parse rate %s->%s: %w", from, to, err)
	}
	rate, ok := payload.Rates[to]
	if !ok || rate <= 0 {
		return 0, fmt.Errorf("no rate for %s->%s in response", from, to)
	}
	return rate, nil
}

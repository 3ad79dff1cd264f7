package rates

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestSpotRate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("from"); got != "EUR" {
			t.Errorf("from = %q want EUR", got)
		}
		if got := r.URL.Query().Get("to"); got != "USD" {
			t.Errorf("to = %q want USD", got)
		}
		fmt.Fprint(w, `{"amount":1.0,"base":"EUR","date":"2026-08-28","rates":{"USD":1.1012}}`)
	}))
	defer server.Close()

	client := &Client{baseURL: server.URL, http: server.Client()}
	rate, err := client.SpotRate("EUR", "USD")
	if err != nil {
		t.Fatalf("SpotRate() error = %v", err)
	}
	if rate != 1.1012 {
		t.Errorf("SpotRate() = %v want 1.1012", rate)
	}
}

func TestSpotRateMissingPair(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"amount":1.0,"base":"EUR","date":"2026-08-28","rates":{}}`)
	}))
	defer server.Close()

	client := &Client{baseURL: server.URL, http: server.Client()}
	if _, err := client.SpotRate("EUR", "XXX"); err == nil {
		t.Errorf("SpotRate() with no rate in the response should fail")
	}
}

func TestSpotRateHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	client := &Client{baseURL: server.URL, http: server.Client()}
	if _, err := client.SpotRate("EUR", "USD"); err == nil {
		t.Errorf("SpotRate() on a 500 should fail")
	}
}

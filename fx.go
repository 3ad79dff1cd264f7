package etfperformance

import (
	"fmt"
	"sync"
)

// RateSource is the spot exchange-rate boundary.
type RateSource interface {
	SpotRate(from, to string) (float64, error)
}

// Converter normalizes amounts into a target currency through a RateSource.
//
// Rates are quasi-constant for a run's duration, so lookups go through a
// read-through cache keyed by currency pair: populated on first miss under a
// lock (single writer), never invalidated mid-run. Converting between
// identical currencies returns the amount unchanged without touching the
// source at all.
type Converter struct {
	source RateSource

	mu    sync.Mutex
	rates map[string]float64
}

func NewConverter(source RateSource) *Converter {
	return &Converter{source: source, rates: make(map[string]float64)}
}

// Convert returns amount expressed in the 'to' currency.
// A failed lookup is reported as ErrRateUnavailable; the caller decides
// whether to propagate the unconverted amount. No retries are attempted.
func (c *Converter) Convert(amount float64, from, to string) (float64, error) {
	if from == to {
		return amount, nil
	}
	rate, err := c.rate(from, to)
	if err != nil {
		return amount, err
	}
	return amount * rate, nil
}

func (c *Converter) rate(from, to string) (float64, error) {
	key := from + to
	c.mu.Lock()
	defer c.mu.Unlock()
	if rate, ok := c.rates[key]; ok {
		return rate, nil
	}
	rate, err := c.source.SpotRate(from, to)
	if err != nil {
		return 0, fmt.Errorf("%w: %s->%s: %v", ErrRateUnavailable, from, to, err)
	}
	c.rates[key] = rate
	return rate, nil
}

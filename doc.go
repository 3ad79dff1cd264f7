// Package etfperformance turns a brokerage-exported holdings list into
// long-horizon monetary projections.
//
// The pipeline fetches each instrument's price history, enriches every holding
// with market-derived metrics (last close, 50-period moving average,
// annualized volatility), normalizes monetary fields into a single base
// currency, fits a seasonal autoregressive model per instrument, extracts
// point estimates at the requested year horizons, and joins the results back
// onto the original holdings rows to produce portfolio-level totals.
//
// Holdings rows keep their identity by position, never by symbol: the same
// ticker may appear on several rows (lots bought at different times) and each
// row receives its own copy of the per-instrument results.
package etfperformance

package etfperformance

import "errors"

// Failure taxonomy of the pipeline.
//
// The first four are data failures: they are isolated to the one instrument or
// rate lookup that triggered them and never abort a run. The last two indicate
// an internal contract violation and fail the run.
var (
	// ErrDataUnavailable reports that no usable price history exists for a
	// symbol: unknown ticker, empty history or an upstream outage.
	ErrDataUnavailable = errors.New("price history unavailable")

	// ErrRateUnavailable reports a failed spot exchange-rate lookup.
	ErrRateUnavailable = errors.New("exchange rate unavailable")

	// ErrInsufficientHistory reports a series too short to fit a seasonal
	// model (fewer observations than twice the seasonal period).
	ErrInsufficientHistory = errors.New("insufficient history")

	// ErrModelFitFailed reports that the model optimizer did not converge.
	ErrModelFitFailed = errors.New("model fit failed")

	// ErrHorizonOutOfRange reports a requested horizon beyond the fitted
	// forecast length. The caller must fit with enough horizon periods.
	ErrHorizonOutOfRange = errors.New("horizon out of forecast range")

	// ErrUnmatchedHolding reports a holding row with no matching forecast
	// record during aggregation.
	ErrUnmatchedHolding = errors.New("unmatched holding row")
)

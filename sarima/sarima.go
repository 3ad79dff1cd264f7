// Package sarima fits a multiplicative seasonal ARIMA model to a univariate
// series and extrapolates it.
//
// The model is SARIMA(p,1,q)(P,1,Q)s with p,q,P,Q fixed to 1: one regular and
// one seasonal autoregressive term, one regular and one seasonal
// moving-average term, one regular and one seasonal difference. Parameters
// are estimated by minimizing the conditional sum of squared one-step
// residuals (CSS), a standard approximation to maximum likelihood. The
// optimizer is iterative-numeric: for a fixed series repeated fits converge
// to the same parameters within optimizer tolerance, but forecasts are not
// bit-reproducible across numeric backends.
package sarima

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/optimize"
)

// ErrNotConverged reports that the CSS optimizer failed to converge or
// produced a non-finite objective. No model is returned in that case.
var ErrNotConverged = errors.New("optimizer did not converge")

// Order is the fixed model order. Seasonal is the seasonal period s (12 for
// monthly data with an annual cycle). Orders of the AR, MA, differencing and
// seasonal terms are all 1 and not configurable.
type Order struct {
	Seasonal int
}

// MinObservations is the shortest series the fit accepts for a given seasonal
// period: two full cycles, below which the seasonal difference leaves nothing
// to estimate on.
func (o Order) MinObservations() int { return 2 * o.Seasonal }

// Model is a fitted SARIMA(1,1,1)(1,1,1)s model. Immutable after Fit.
type Model struct {
	order Order

	// parameters of (1 - phi B)(1 - sphi B^s) w = (1 + theta B)(1 + stheta B^s) e
	phi, theta, sphi, stheta float64

	levels []float64 // original series
	diffed []float64 // after regular and seasonal differencing
	resid  []float64 // one-step residuals on diffed, presample zeros
}

// Fit estimates the model on series with the given order.
// It fails with ErrNotConverged when the optimizer cannot find finite
// parameters, and never returns a partially fitted model.
func Fit(series []float64, order Order) (*Model, error) {
	if order.Seasonal < 2 {
		return nil, fmt.Errorf("seasonal period must be at least 2, got %d", order.Seasonal)
	}
	if len(series) < order.MinObservations() {
		return nil, fmt.Errorf("need at least %d observations, got %d", order.MinObservations(), len(series))
	}

	diffed := difference(series, order.Seasonal)

	problem := optimize.Problem{
		Func: func(x []float64) float64 { return css(diffed, order.Seasonal, x) },
	}
	// small non-zero starting point; at exactly 0 the objective surface is
	// flat in the MA directions for white-noise-like series
	initial := []float64{0.1, 0.1, 0.1, 0.1}

	result, err := optimize.Minimize(problem, initial, &optimize.Settings{}, &optimize.NelderMead{})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotConverged, err)
	}
	switch result.Status {
	case optimize.Success, optimize.FunctionConvergence, optimize.GradientThreshold:
	default:
		return nil, fmt.Errorf("%w: status %v", ErrNotConverged, result.Status)
	}
	if !isFinite(result.F) || !allFinite(result.X) {
		return nil, fmt.Errorf("%w: non-finite objective", ErrNotConverged)
	}

	m := &Model{
		order:  order,
		phi:    result.X[0],
		theta:  result.X[1],
		sphi:   result.X[2],
		stheta: result.X[3],
		levels: append([]float64(nil), series...),
		diffed: diffed,
	}
	m.resid = residuals(diffed, order.Seasonal, result.X)
	return m, nil
}

// Forecast extrapolates the fitted series by steps periods.
// The returned slice has exactly steps values; index 0 is one period past the
// last observation.
func (m *Model) Forecast(steps int) []float64 {
	s := m.order.Seasonal
	n := len(m.diffed)

	// Extend the differenced series recursively, with future shocks at their
	// expectation (zero).
	w := append(append([]float64(nil), m.diffed...), make([]float64, steps)...)
	e := append(append([]float64(nil), m.resid...), make([]float64, steps)...)
	for t := n; t < n+steps; t++ {
		w[t] = m.phi*at(w, t-1) + m.sphi*at(w, t-s) - m.phi*m.sphi*at(w, t-s-1) +
			m.theta*at(e, t-1) + m.stheta*at(e, t-s) + m.theta*m.stheta*at(e, t-s-1)
	}

	// Undo the seasonal then the regular difference to get back to levels.
	// y is the regular-differenced series; w[i] corresponds to y[i+s], so the
	// forecast step k extends y with y_{ny+k} = w[n+k] + y_{ny+k-s}.
	y := regularDifference(m.levels)
	ny := len(y)
	for k := 0; k < steps; k++ {
		y = append(y, w[n+k]+y[ny+k-s])
	}

	out := make([]float64, steps)
	last := m.levels[len(m.levels)-1]
	for k := 0; k < steps; k++ {
		last += y[ny+k]
		out[k] = last
	}
	return out
}

// difference applies one regular then one seasonal difference of lag s.
func difference(series []float64, s int) []float64 {
	y := regularDifference(series)
	if len(y) <= s {
		return nil
	}
	w := make([]float64, len(y)-s)
	for i := range w {
		w[i] = y[i+s] - y[i]
	}
	return w
}

func regularDifference(series []float64) []float64 {
	if len(series) < 2 {
		return nil
	}
	y := make([]float64, len(series)-1)
	for i := range y {
		y[i] = series[i+1] - series[i]
	}
	return y
}

// css is the conditional sum of squared one-step residuals, with an infinite
// penalty outside the stationarity/invertibility box |param| < 1.
func css(w []float64, s int, x []float64) float64 {
	for _, p := range x {
		if math.Abs(p) >= 1 {
			return math.Inf(1)
		}
	}
	resid := residuals(w, s, x)
	sum := 0.0
	for _, r := range resid {
		sum += r * r
	}
	if !isFinite(sum) {
		return math.Inf(1)
	}
	return sum
}

// residuals runs the one-step prediction recursion over the differenced
// series, treating presample values and shocks as zero.
func residuals(w []float64, s int, x []float64) []float64 {
	phi, theta, sphi, stheta := x[0], x[1], x[2], x[3]
	e := make([]float64, len(w))
	for t := range w {
		pred := phi*at(w, t-1) + sphi*at(w, t-s) - phi*sphi*at(w, t-s-1) +
			theta*at(e, t-1) + stheta*at(e, t-s) + theta*stheta*at(e, t-s-1)
		e[t] = w[t] - pred
	}
	return e
}

// at reads a series with zero for negative (presample) indices.
func at(v []float64, i int) float64 {
	if i < 0 {
		return 0
	}
	return v[i]
}

func isFinite(f float64) bool { return !math.IsNaN(f) && !math.IsInf(f, 0) }

func allFinite(v []float64) bool {
	for _, f := range v {
		if !isFinite(f) {
			return false
		}
	}
	return true
}

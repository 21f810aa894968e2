// Package uncertainty propagates declared emission-factor uncertainty into a
// 95% confidence interval around a point estimate via Monte Carlo sampling.
//
// Samples are drawn from a log-normal distribution parameterized so the mean
// approximates the point estimate and every draw is strictly positive, which
// a plain normal cannot guarantee once the implied spread crosses zero. The
// PRNG is seeded explicitly, so identical inputs always reproduce the same
// interval.
package uncertainty

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// Iteration bounds and defaults.
const (
	// DefaultIterations is the sample count used when the caller passes 0.
	DefaultIterations = 10_000

	// MinIterations is the smallest sample count that still yields stable
	// 2.5th/97.5th percentiles.
	MinIterations = 100

	// MaxIterations bounds memory for one simulation.
	MaxIterations = 1_000_000
)

// Percentile positions of the 95% confidence interval.
const (
	lowerQuantile = 0.025
	upperQuantile = 0.975
)

// retrySeedSalt reseeds the single retry after an unstable draw set.
const retrySeedSalt uint64 = 0x9e3779b97f4a7c15

// Simulation errors.
var (
	ErrInvalidIterations = fmt.Errorf("iterations must be between %d and %d", MinIterations, MaxIterations)
	ErrInvalidPoint      = errors.New("point estimate must be finite and non-negative")
	ErrInvalidSpread     = errors.New("uncertainty percent must be finite and non-negative")

	// ErrSimulationInstability indicates the draw set produced non-finite
	// percentiles twice, once with the caller's seed and once reseeded.
	// Fatal for the row.
	ErrSimulationInstability = errors.New("simulation produced non-finite percentiles")
)

// Interval is a 95% confidence interval around a point estimate, in kgCO2e.
type Interval struct {
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
}

// Engine runs Monte Carlo simulations with a configured default iteration
// count. The zero-value Engine is not usable; construct with NewEngine.
type Engine struct {
	defaultIterations int
}

// NewEngine creates an Engine. A zero iterations selects DefaultIterations.
func NewEngine(iterations int) (*Engine, error) {
	if iterations == 0 {
		iterations = DefaultIterations
	}
	if iterations < MinIterations || iterations > MaxIterations {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidIterations, iterations)
	}
	return &Engine{defaultIterations: iterations}, nil
}

// DefaultIterations returns the engine's configured iteration count.
func (e *Engine) DefaultIterations() int {
	return e.defaultIterations
}

// Simulate draws the configured number of samples around pointEstimate with
// the given relative spread and returns the 2.5th/97.5th percentile bounds.
//
// A zero uncertaintyPercent short-circuits to (pointEstimate, pointEstimate)
// without touching the sampler, as does a zero point estimate (any relative
// spread of zero is zero). Identical (pointEstimate, uncertaintyPercent,
// iterations, seed) inputs always yield the same interval.
func (e *Engine) Simulate(pointEstimate, uncertaintyPercent float64, seed uint64) (Interval, error) {
	return e.SimulateN(pointEstimate, uncertaintyPercent, e.defaultIterations, seed)
}

// SimulateN is Simulate with an explicit iteration count.
func (e *Engine) SimulateN(pointEstimate, uncertaintyPercent float64, iterations int, seed uint64) (Interval, error) {
	if math.IsInf(pointEstimate, 0) || math.IsNaN(pointEstimate) || pointEstimate < 0 {
		return Interval{}, fmt.Errorf("%w: got %g", ErrInvalidPoint, pointEstimate)
	}
	if math.IsInf(uncertaintyPercent, 0) || math.IsNaN(uncertaintyPercent) || uncertaintyPercent < 0 {
		return Interval{}, fmt.Errorf("%w: got %g", ErrInvalidSpread, uncertaintyPercent)
	}
	if iterations < MinIterations || iterations > MaxIterations {
		return Interval{}, fmt.Errorf("%w: got %d", ErrInvalidIterations, iterations)
	}

	// Explicit short-circuits: no spread or no signal means no sampling.
	if uncertaintyPercent == 0 || pointEstimate == 0 {
		return Interval{Lower: pointEstimate, Upper: pointEstimate}, nil
	}

	interval, ok := e.sample(pointEstimate, uncertaintyPercent, iterations, seed)
	if ok {
		return interval, nil
	}

	// One reseeded retry before declaring the row unstable.
	interval, ok = e.sample(pointEstimate, uncertaintyPercent, iterations, seed^retrySeedSalt)
	if !ok {
		return Interval{}, fmt.Errorf("%w: point=%g spread=%g%%",
			ErrSimulationInstability, pointEstimate, uncertaintyPercent)
	}
	return interval, nil
}

// sample runs one full draw-sort-quantile pass. The draw loop fills a single
// preallocated slice and the percentiles come from one sort, keeping the
// whole pass a batch numeric operation over the sample set.
func (e *Engine) sample(point, spreadPercent float64, iterations int, seed uint64) (Interval, bool) {
	// Log-normal construction: sigma from the relative spread, mu shifted by
	// sigma^2/2 so the distribution's mean is the point estimate.
	sigma := math.Log1p(spreadPercent / 100)
	mu := math.Log(point) - sigma*sigma/2

	dist := distuv.LogNormal{
		Mu:    mu,
		Sigma: sigma,
		Src:   rand.NewSource(seed),
	}

	samples := make([]float64, iterations)
	for i := range samples {
		samples[i] = dist.Rand()
	}
	sort.Float64s(samples)

	lower := stat.Quantile(lowerQuantile, stat.Empirical, samples, nil)
	upper := stat.Quantile(upperQuantile, stat.Empirical, samples, nil)

	if math.IsInf(lower, 0) || math.IsNaN(lower) ||
		math.IsInf(upper, 0) || math.IsNaN(upper) {
		return Interval{}, false
	}

	return Interval{Lower: lower, Upper: upper}, true
}

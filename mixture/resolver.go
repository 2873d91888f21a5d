package mixture

import (
	"fmt"

	"github.com/cwbudde/algo-unmix/optimize"
)

const (
	defaultTolerance     = 1e-5
	defaultMaxIterations = 500
)

// Config holds resolver parameters. Zero values select the defaults.
type Config struct {
	Tolerance     float64 // absolute tolerance on a1 (default 1e-5)
	MaxIterations int     // objective evaluation cap (default 500)
	Epsilon       float64 // zero threshold for averaged feature values (default 1e-9)
}

// Solution is the optimal mixture for one observation.
type Solution struct {
	A1  float64
	A2  float64 // always 1 - A1
	SSR float64

	// Predicted is the mixture vector for A1, in feature order.
	Predicted []float64
	// Mixture maps feature name to its predicted value.
	Mixture map[string]float64

	Evaluations int
	Converged   bool
}

// Resolver finds optimal mixture fractions against a fixed endmember pair.
type Resolver struct {
	pair Pair
	cfg  Config
}

// NewResolver creates a resolver for pair. The pair must come from NewPair.
func NewResolver(pair Pair, cfg Config) *Resolver {
	return &Resolver{pair: pair, cfg: normalizeConfig(cfg)}
}

// Resolve is a one-shot resolve of a single observation.
func Resolve(observed []float64, pair Pair, cfg Config) (Solution, error) {
	return NewResolver(pair, cfg).Resolve(observed)
}

// Pair returns the endmember pair the resolver was built with.
func (r *Resolver) Pair() Pair {
	return r.pair
}

// Config returns the effective configuration with defaults applied.
func (r *Resolver) Config() Config {
	return r.cfg
}

// Resolve finds the a1 in [0,1] minimizing the residual for observed.
// observed is not modified.
func (r *Resolver) Resolve(observed []float64) (Solution, error) {
	n := r.pair.Len()
	if len(observed) != n {
		return Solution{}, fmt.Errorf("%w: observation has %d values for %d features", ErrShape, len(observed), n)
	}
	if i := firstNonFinite(observed); i >= 0 {
		return Solution{}, fmt.Errorf("%w: feature %q = %v", ErrNonFinite, r.pair.Features[i], observed[i])
	}

	e1, e2 := r.pair.First.Values, r.pair.Second.Values
	pred := make([]float64, n)
	tmp := make([]float64, n)
	eps := r.cfg.Epsilon

	objective := func(a1 float64) float64 {
		return residual(a1, observed, e1, e2, pred, tmp, eps)
	}

	res, err := optimize.Bounded(objective, 0, 1, optimize.Options{
		XTol:           r.cfg.Tolerance,
		MaxEvaluations: r.cfg.MaxIterations,
	})
	if err != nil {
		return Solution{}, fmt.Errorf("mixture: resolve: %w", err)
	}

	a1 := res.X
	a2 := 1 - a1

	predicted := make([]float64, n)
	predictInto(predicted, tmp, e1, e2, a1)

	mix := make(map[string]float64, n)
	for i, name := range r.pair.Features {
		mix[name] = predicted[i]
	}

	return Solution{
		A1:          a1,
		A2:          a2,
		SSR:         res.F,
		Predicted:   predicted,
		Mixture:     mix,
		Evaluations: res.Evaluations,
		Converged:   res.Converged,
	}, nil
}

func normalizeConfig(cfg Config) Config {
	if cfg.Tolerance <= 0 {
		cfg.Tolerance = defaultTolerance
	}
	if cfg.MaxIterations <= 0 {
		cfg.MaxIterations = defaultMaxIterations
	}
	if cfg.Epsilon <= 0 {
		cfg.Epsilon = DefaultEpsilon
	}
	return cfg
}

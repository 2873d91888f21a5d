// Package optimize provides derivative-free minimization of scalar
// functions of one variable.
//
// Bounded implements Brent's method restricted to a closed interval: each
// iteration tries a parabolic step through the three best points seen so
// far and falls back to a golden-section step whenever the parabola is
// unusable or would leave the bracket. The minimizer never evaluates the
// objective outside [lo, hi].
//
// # Usage
//
//	res, err := optimize.Bounded(func(x float64) float64 {
//	    return (x - 0.3) * (x - 0.3)
//	}, 0, 1, optimize.Options{})
//	// res.X ~ 0.3, res.F ~ 0
//
// # Limitations
//
// The objective is assumed to be unimodal on the interval. This is not
// checked; for multimodal functions the result is a local minimum inside
// the bracket, not necessarily the global one.
package optimize

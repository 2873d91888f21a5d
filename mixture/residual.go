package mixture

import (
	"math"

	"github.com/cwbudde/algo-vecmath"
)

// DefaultEpsilon is the magnitude below which an averaged feature value is
// treated as zero by the residual.
const DefaultEpsilon = 1e-9

// RelativeDifference returns (predicted - observed) divided by the mean of
// the two values, or 0 when that mean is within eps of zero.
//
// Swapping the arguments negates the result; the denominator is the same
// either way.
func RelativeDifference(observed, predicted, eps float64) float64 {
	mean := (observed + predicted) / 2
	if !(math.Abs(mean) > eps) {
		return 0
	}

	return (predicted - observed) / mean
}

// Predict writes a1*e1 + (1-a1)*e2 into dst. All slices must have equal
// length. a1 is used as given; callers clamp it when needed.
func Predict(dst, e1, e2 []float64, a1 float64) {
	tmp := make([]float64, len(dst))
	predictInto(dst, tmp, e1, e2, a1)
}

// predictInto is Predict with caller-provided scratch of len(dst).
func predictInto(dst, tmp, e1, e2 []float64, a1 float64) {
	vecmath.ScaleBlock(dst, e1, a1)
	vecmath.ScaleBlock(tmp, e2, 1-a1)
	vecmath.AddBlockInPlace(dst, tmp)
}

// Residual returns the sum of squared relative differences between the
// observed vector and the mixture predicted for a1, using DefaultEpsilon.
// a1 is clamped to [0,1] first.
func Residual(a1 float64, observed, e1, e2 []float64) float64 {
	n := len(observed)
	return residual(a1, observed, e1, e2, make([]float64, n), make([]float64, n), DefaultEpsilon)
}

func residual(a1 float64, observed, e1, e2, pred, tmp []float64, eps float64) float64 {
	a1 = clamp01(a1)
	predictInto(pred, tmp, e1, e2, a1)

	var ssr float64
	for i, d := range observed {
		r := RelativeDifference(d, pred[i], eps)
		ssr += r * r
	}

	return ssr
}

func clamp01(x float64) float64 {
	switch {
	case x < 0:
		return 0
	case x > 1:
		return 1
	default:
		return x
	}
}

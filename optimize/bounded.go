package optimize

import (
	"errors"
	"math"
)

const (
	defaultXTol           = 1e-5
	defaultMaxEvaluations = 500
)

var (
	// goldenMean is (3 - sqrt(5)) / 2, the golden-section step fraction.
	goldenMean = 0.5 * (3.0 - math.Sqrt(5.0))
	sqrtEps    = math.Sqrt(2.2e-16)
)

// Errors returned by Bounded.
var (
	ErrInvalidBracket = errors.New("optimize: invalid bracket")
	ErrNonFinite      = errors.New("optimize: objective is not finite at the minimum")
	ErrNilObjective   = errors.New("optimize: objective is nil")
)

// Options controls the stopping criteria of Bounded.
type Options struct {
	// XTol is the absolute tolerance on the abscissa. A relative term
	// sqrt(eps)*|x| is added on top. Defaults to 1e-5.
	XTol float64
	// MaxEvaluations caps the number of objective evaluations. Defaults to 500.
	MaxEvaluations int
}

// Result holds the outcome of a bounded minimization.
type Result struct {
	X           float64 // best abscissa found
	F           float64 // objective at X
	Evaluations int     // number of objective evaluations
	Converged   bool    // false if MaxEvaluations was reached first
}

func normalizeOptions(opts Options) Options {
	if opts.XTol <= 0 || math.IsNaN(opts.XTol) {
		opts.XTol = defaultXTol
	}
	if opts.MaxEvaluations <= 0 {
		opts.MaxEvaluations = defaultMaxEvaluations
	}
	return opts
}

// Bounded minimizes f on the closed interval [lo, hi].
//
// Reaching MaxEvaluations is not an error: the best point found so far is
// returned with Converged set to false. An error is returned only for an
// invalid bracket or when the objective is NaN or infinite at the
// returned point.
//
//nolint:funlen,cyclop
func Bounded(f func(float64) float64, lo, hi float64, opts Options) (Result, error) {
	if f == nil {
		return Result{}, ErrNilObjective
	}
	if math.IsNaN(lo) || math.IsNaN(hi) || math.IsInf(lo, 0) || math.IsInf(hi, 0) || lo > hi {
		return Result{}, ErrInvalidBracket
	}

	opts = normalizeOptions(opts)

	a, b := lo, hi

	// x: best point, w: second best, v: previous value of w.
	x := a + goldenMean*(b-a)
	w, v := x, x
	fx := f(x)
	fw, fv := fx, fx
	evals := 1

	var d, e float64 // current step, step before last
	fu := math.Inf(1)

	xm := 0.5 * (a + b)
	tol1 := sqrtEps*math.Abs(x) + opts.XTol/3.0
	tol2 := 2.0 * tol1
	converged := true

	for math.Abs(x-xm) > tol2-0.5*(b-a) {
		golden := true

		if math.Abs(e) > tol1 {
			golden = false

			r := (x - w) * (fx - fv)
			q := (x - v) * (fx - fw)
			p := (x-v)*q - (x-w)*r
			q = 2.0 * (q - r)
			if q > 0 {
				p = -p
			}
			q = math.Abs(q)
			r = e
			e = d

			// Accept the parabolic step only if it falls inside the bracket
			// and moves less than half the step before last.
			if math.Abs(p) < math.Abs(0.5*q*r) && p > q*(a-x) && p < q*(b-x) {
				d = p / q
				u := x + d
				if u-a < tol2 || b-u < tol2 {
					d = tol1 * signOrOne(xm-x)
				}
			} else {
				golden = true
			}
		}

		if golden {
			if x >= xm {
				e = a - x
			} else {
				e = b - x
			}
			d = goldenMean * e
		}

		u := x + signOrOne(d)*math.Max(math.Abs(d), tol1)
		fu = f(u)
		evals++

		if fu <= fx {
			if u >= x {
				a = x
			} else {
				b = x
			}
			v, fv = w, fw
			w, fw = x, fx
			x, fx = u, fu
		} else {
			if u < x {
				a = u
			} else {
				b = u
			}
			switch {
			case fu <= fw || w == x:
				v, fv = w, fw
				w, fw = u, fu
			case fu <= fv || v == x || v == w:
				v, fv = u, fu
			}
		}

		xm = 0.5 * (a + b)
		tol1 = sqrtEps*math.Abs(x) + opts.XTol/3.0
		tol2 = 2.0 * tol1

		if evals >= opts.MaxEvaluations {
			converged = false
			break
		}
	}

	res := Result{X: x, F: fx, Evaluations: evals, Converged: converged}
	if math.IsNaN(x) || math.IsNaN(fx) || math.IsInf(fx, 0) || math.IsNaN(fu) {
		return res, ErrNonFinite
	}

	return res, nil
}

// signOrOne returns the sign of v, treating zero as positive.
func signOrOne(v float64) float64 {
	if v < 0 {
		return -1
	}
	return 1
}

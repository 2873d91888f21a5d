package optimize

import (
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/algo-unmix/internal/testutil"
)

func TestBoundedQuadratic(t *testing.T) {
	tests := []struct {
		name   string
		center float64
		lo, hi float64
		wantX  float64
	}{
		{"interior", 0.3, 0, 1, 0.3},
		{"near lower", 0.01, 0, 1, 0.01},
		{"near upper", 0.97, 0, 1, 0.97},
		{"wide bracket", 2.5, -10, 10, 2.5},
		{"minimum left of bracket", -0.5, 0, 1, 0},
		{"minimum right of bracket", 1.5, 0, 1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := func(x float64) float64 {
				return (x - tt.center) * (x - tt.center)
			}

			res, err := Bounded(f, tt.lo, tt.hi, Options{})
			if err != nil {
				t.Fatalf("Bounded() error = %v", err)
			}
			if !res.Converged {
				t.Fatalf("Bounded() did not converge after %d evaluations", res.Evaluations)
			}
			testutil.RequireNearlyEqual(t, "x", res.X, tt.wantX, 1e-4)
			if res.X < tt.lo || res.X > tt.hi {
				t.Fatalf("x = %v outside [%v, %v]", res.X, tt.lo, tt.hi)
			}
			testutil.RequireNearlyEqual(t, "f", res.F, f(res.X), 0)
		})
	}
}

func TestBoundedNeverLeavesBracket(t *testing.T) {
	lo, hi := 0.0, 1.0
	f := func(x float64) float64 {
		if x < lo || x > hi {
			t.Fatalf("objective evaluated at %v outside [%v, %v]", x, lo, hi)
		}
		return math.Abs(x - 1)
	}

	if _, err := Bounded(f, lo, hi, Options{}); err != nil {
		t.Fatalf("Bounded() error = %v", err)
	}
}

func TestBoundedNonSmooth(t *testing.T) {
	res, err := Bounded(func(x float64) float64 { return math.Abs(x - 0.42) }, 0, 1, Options{})
	if err != nil {
		t.Fatal(err)
	}
	testutil.RequireNearlyEqual(t, "x", res.X, 0.42, 1e-4)
}

func TestBoundedTolerance(t *testing.T) {
	f := func(x float64) float64 { return math.Cos(x) }

	coarse, err := Bounded(f, 3, 4, Options{XTol: 1e-2})
	if err != nil {
		t.Fatal(err)
	}
	fine, err := Bounded(f, 3, 4, Options{XTol: 1e-9})
	if err != nil {
		t.Fatal(err)
	}

	if coarse.Evaluations > fine.Evaluations {
		t.Errorf("coarse tolerance used %d evaluations, fine used %d", coarse.Evaluations, fine.Evaluations)
	}
	testutil.RequireNearlyEqual(t, "fine x", fine.X, math.Pi, 1e-6)
	testutil.RequireNearlyEqual(t, "coarse x", coarse.X, math.Pi, 3e-2)
}

func TestBoundedEvaluationCap(t *testing.T) {
	calls := 0
	f := func(x float64) float64 {
		calls++
		return math.Sin(10 * x)
	}

	res, err := Bounded(f, 0, 1, Options{MaxEvaluations: 3})
	if err != nil {
		t.Fatalf("reaching the cap must not be an error, got %v", err)
	}
	if res.Converged {
		t.Error("Converged = true, want false when the cap is hit")
	}
	if res.Evaluations != 3 || calls != 3 {
		t.Errorf("evaluations = %d (calls %d), want 3", res.Evaluations, calls)
	}
	testutil.RequireFinite(t, res.X, res.F)
}

func TestBoundedDegenerateBracket(t *testing.T) {
	res, err := Bounded(func(x float64) float64 { return x * x }, 0.25, 0.25, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if res.X != 0.25 {
		t.Errorf("x = %v, want 0.25", res.X)
	}
	if res.Evaluations != 1 {
		t.Errorf("evaluations = %d, want 1", res.Evaluations)
	}
}

func TestBoundedErrors(t *testing.T) {
	quad := func(x float64) float64 { return x * x }

	tests := []struct {
		name    string
		f       func(float64) float64
		lo, hi  float64
		wantErr error
	}{
		{"reversed", quad, 1, 0, ErrInvalidBracket},
		{"nan bound", quad, math.NaN(), 1, ErrInvalidBracket},
		{"inf bound", quad, 0, math.Inf(1), ErrInvalidBracket},
		{"nil objective", nil, 0, 1, ErrNilObjective},
		{"nan objective", func(float64) float64 { return math.NaN() }, 0, 1, ErrNonFinite},
		{"inf objective", func(float64) float64 { return math.Inf(1) }, 0, 1, ErrNonFinite},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Bounded(tt.f, tt.lo, tt.hi, Options{})
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Bounded() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestBoundedDeterministic(t *testing.T) {
	f := func(x float64) float64 { return (x-0.123)*(x-0.123) + 0.5*math.Sin(x) }

	first, err := Bounded(f, 0, 1, Options{})
	if err != nil {
		t.Fatal(err)
	}
	second, err := Bounded(f, 0, 1, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if first != second {
		t.Errorf("repeat run differs: %+v vs %+v", first, second)
	}
}

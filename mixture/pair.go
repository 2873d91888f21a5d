package mixture

import (
	"errors"
	"fmt"
	"math"
)

// Errors returned by the mixture package.
var (
	ErrShape     = errors.New("mixture: feature vector shape mismatch")
	ErrEmpty     = errors.New("mixture: no features")
	ErrNonFinite = errors.New("mixture: non-finite feature value")
)

// Endmember is a named reference feature vector.
type Endmember struct {
	ID     string
	Values []float64
}

// Pair is the validated two-endmember table. Features names the columns
// of both value vectors, in order.
type Pair struct {
	Features []string
	First    Endmember
	Second   Endmember
}

// NewPair validates that both endmembers carry one finite value per
// feature and returns the pair. The slices are copied.
func NewPair(features []string, first, second Endmember) (Pair, error) {
	n := len(features)
	if n == 0 {
		return Pair{}, ErrEmpty
	}

	for _, em := range []Endmember{first, second} {
		if len(em.Values) != n {
			return Pair{}, fmt.Errorf("%w: endmember %q has %d values for %d features",
				ErrShape, em.ID, len(em.Values), n)
		}
		if i := firstNonFinite(em.Values); i >= 0 {
			return Pair{}, fmt.Errorf("%w: endmember %q feature %q = %v",
				ErrNonFinite, em.ID, features[i], em.Values[i])
		}
	}

	return Pair{
		Features: append([]string(nil), features...),
		First:    Endmember{ID: first.ID, Values: append([]float64(nil), first.Values...)},
		Second:   Endmember{ID: second.ID, Values: append([]float64(nil), second.Values...)},
	}, nil
}

// Len returns the number of features.
func (p Pair) Len() int {
	return len(p.Features)
}

func firstNonFinite(values []float64) int {
	for i, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return i
		}
	}
	return -1
}

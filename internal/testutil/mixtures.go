package testutil

import "math/rand"

// Blend returns a1*e1 + (1-a1)*e2 computed element by element in plain
// scalar arithmetic, for checking vectorized predictions against.
func Blend(e1, e2 []float64, a1 float64) []float64 {
	out := make([]float64, len(e1))
	for i := range out {
		out[i] = e1[i]*a1 + e2[i]*(1-a1)
	}
	return out
}

// DeterministicFeatures returns a feature vector with values in
// [offset, offset+span), drawn from a fixed seed.
func DeterministicFeatures(seed int64, offset, span float64, length int) []float64 {
	out := make([]float64, length)
	rng := rand.New(rand.NewSource(seed))
	for i := range out {
		out[i] = offset + rng.Float64()*span
	}
	return out
}

// Constant returns a vector of length n filled with value.
func Constant(value float64, length int) []float64 {
	out := make([]float64, length)
	for i := range out {
		out[i] = value
	}
	return out
}

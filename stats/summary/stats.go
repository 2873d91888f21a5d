// Package summary computes descriptive statistics over per-row results
// such as mixture fractions and residuals.
package summary

import (
	"math"
	"slices"
)

// Stats holds descriptive statistics of a value series.
type Stats struct {
	Count    int
	Mean     float64
	RMS      float64
	Min      float64
	MinPos   int
	Max      float64
	MaxPos   int
	Range    float64 // max - min
	Variance float64 // population variance
	StdDev   float64
	Skewness float64
	Kurtosis float64 // excess kurtosis
}

// Calculate computes all statistics in a single pass using Welford's
// online algorithm for the higher moments.
func Calculate(values []float64) Stats {
	var acc Accumulator
	for _, x := range values {
		acc.Add(x)
	}

	return acc.Result()
}

// Accumulator gathers statistics one value at a time. The zero value is
// ready to use. Feeding the same values in the same order yields results
// identical to Calculate.
type Accumulator struct {
	n      int
	mean   float64
	m2     float64
	m3     float64
	m4     float64
	sumSq  float64
	maxVal float64
	maxPos int
	minVal float64
	minPos int
}

// Add folds x into the running statistics.
func (a *Accumulator) Add(x float64) {
	a.n++
	ni := float64(a.n)

	delta := x - a.mean
	deltaN := delta / ni
	deltaN2 := deltaN * deltaN
	term1 := delta * deltaN * float64(a.n-1)

	// M4 must be updated before M3, and M3 before M2.
	a.m4 += term1*deltaN2*(ni*ni-3*ni+3) + 6*deltaN2*a.m2 - 4*deltaN*a.m3
	a.m3 += term1*deltaN*(float64(a.n-1)-1) - 3*deltaN*a.m2
	a.m2 += term1
	a.mean += deltaN

	a.sumSq += x * x

	if a.n == 1 || x > a.maxVal {
		a.maxVal = x
		a.maxPos = a.n - 1
	}
	if a.n == 1 || x < a.minVal {
		a.minVal = x
		a.minPos = a.n - 1
	}
}

// Count returns the number of values added so far.
func (a *Accumulator) Count() int {
	return a.n
}

// Result returns the statistics of the values added so far. An empty
// accumulator yields a zero Stats with NaN extrema.
func (a *Accumulator) Result() Stats {
	if a.n == 0 {
		return Stats{Min: math.NaN(), Max: math.NaN(), Range: math.NaN()}
	}

	nf := float64(a.n)
	variance := a.m2 / nf

	var skewness, kurtosis float64
	if variance > 0 {
		skewness = (a.m3 / nf) / (variance * math.Sqrt(variance))
		kurtosis = (a.m4/nf)/(variance*variance) - 3
	}

	return Stats{
		Count:    a.n,
		Mean:     a.mean,
		RMS:      math.Sqrt(a.sumSq / nf),
		Min:      a.minVal,
		MinPos:   a.minPos,
		Max:      a.maxVal,
		MaxPos:   a.maxPos,
		Range:    a.maxVal - a.minVal,
		Variance: variance,
		StdDev:   math.Sqrt(variance),
		Skewness: skewness,
		Kurtosis: kurtosis,
	}
}

// Quantile returns the q-quantile (0 <= q <= 1) of values using linear
// interpolation between closest ranks. values is not modified. Returns NaN
// for empty input or q outside [0,1].
func Quantile(values []float64, q float64) float64 {
	if len(values) == 0 || q < 0 || q > 1 || math.IsNaN(q) {
		return math.NaN()
	}

	sorted := slices.Clone(values)
	slices.Sort(sorted)

	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	frac := pos - float64(lo)

	return sorted[lo] + (sorted[hi]-sorted[lo])*frac
}

// Median returns the 0.5-quantile of values.
func Median(values []float64) float64 {
	return Quantile(values, 0.5)
}

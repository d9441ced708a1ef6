// Package numerics holds small shared floating-point helpers used by
// the selector and the analyzer, adapted from the
// arithmetic conventions of the original trader's pkg/formulas.
package numerics

import "gonum.org/v1/gonum/floats"

// WeightedSum returns sum_i(weights[i] * values[i]) via gonum's Dot,
// used wherever a probability-weighted statistic is needed.
func WeightedSum(weights, values []float64) float64 {
	return floats.Dot(weights, values)
}

// ClampEpsilon zeroes out values within eps of zero, used to present
// near-zero solver fractions as exactly 0.
func ClampEpsilon(v, eps float64) float64 {
	if v > eps || v < -eps {
		return v
	}
	return 0
}

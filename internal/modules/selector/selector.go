// Package selector chooses the final allocation among viable Newton
// solutions using the diversification and expected-return tie-breaks
// of spec §4.6.
package selector

import (
	"github.com/aristath/charlie/internal/modules/outcomes"
	"github.com/aristath/charlie/internal/modules/solver"
	"github.com/aristath/charlie/pkg/numerics"
)

const positiveEpsilon = 1e-9

// Select picks the winning fractions among viable results:
//  1. highest count of strictly positive fractions (most diversified)
//  2. highest portfolio expected return
//  3. lowest sum of fractions (least leverage)
//
// Zero or near-zero fractions are clamped to 0 in the returned slice.
func Select(viable []solver.Result, set outcomes.Set) []float64 {
	if len(viable) == 0 {
		return nil
	}

	best := viable[0]
	bestReturn := expectedReturn(set, best.F)
	bestLeverage := sum(best.F)

	for _, r := range viable[1:] {
		if r.PositiveCount > best.PositiveCount {
			best, bestReturn, bestLeverage = r, expectedReturn(set, r.F), sum(r.F)
			continue
		}
		if r.PositiveCount < best.PositiveCount {
			continue
		}

		ret := expectedReturn(set, r.F)
		if ret > bestReturn {
			best, bestReturn, bestLeverage = r, ret, sum(r.F)
			continue
		}
		if ret < bestReturn {
			continue
		}

		lev := sum(r.F)
		if lev < bestLeverage {
			best, bestReturn, bestLeverage = r, ret, lev
		}
	}

	out := make([]float64, len(best.F))
	for j, fj := range best.F {
		out[j] = numerics.ClampEpsilon(fj, positiveEpsilon)
	}
	return out
}

func expectedReturn(set outcomes.Set, f []float64) float64 {
	returns := make([]float64, set.N())
	for i := 0; i < set.N(); i++ {
		returns[i] = set.PortfolioReturn(i, f)
	}
	return numerics.WeightedSum(set.P, returns)
}

func sum(f []float64) float64 {
	total := 0.0
	for _, v := range f {
		total += v
	}
	return total
}

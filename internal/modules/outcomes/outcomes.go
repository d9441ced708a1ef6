// Package outcomes builds the joint outcome cross-product over a set
// of companies' scenarios: every combination of one scenario per
// company, with its joint probability and per-company return vector.
package outcomes

import (
	"gonum.org/v1/gonum/floats"

	"github.com/aristath/charlie/internal/domain"
)

// Set is the outcome cross-product for a fixed slice of companies.
// Company 0 varies fastest in the iteration order, matching spec §4.2.
type Set struct {
	Companies []domain.Company
	// P holds one joint probability per outcome, len(P) == N.
	P []float64
	// K holds one return vector per outcome; K[i][j] is company j's
	// return in outcome i.
	K [][]float64
}

// Build enumerates the full cartesian product of scenario indices
// across companies. N is bounded only by the product of each
// company's scenario count.
func Build(companies []domain.Company) Set {
	nc := len(companies)
	counts := make([]int, nc)
	n := 1
	for j, c := range companies {
		counts[j] = len(c.Scenarios)
		n *= counts[j]
	}

	set := Set{
		Companies: companies,
		P:         make([]float64, n),
		K:         make([][]float64, n),
	}

	idx := make([]int, nc)
	for i := 0; i < n; i++ {
		p := 1.0
		k := make([]float64, nc)
		for j, c := range companies {
			s := c.Scenarios[idx[j]]
			p *= s.Probability
			k[j] = (s.IntrinsicValue - c.MarketCap) / c.MarketCap
		}
		set.P[i] = p
		set.K[i] = k

		// odometer increment, company 0 fastest
		for j := 0; j < nc; j++ {
			idx[j]++
			if idx[j] < counts[j] {
				break
			}
			idx[j] = 0
		}
	}

	return set
}

// N returns the number of joint outcomes.
func (s Set) N() int {
	return len(s.P)
}

// TotalProbability sums P over all outcomes; should be 1 within
// floating-point tolerance for a validated input.
func (s Set) TotalProbability() float64 {
	return floats.Sum(s.P)
}

// PortfolioReturn returns the portfolio return of outcome i under
// fractions f (len(f) == len(s.Companies)).
func (s Set) PortfolioReturn(i int, f []float64) float64 {
	return floats.Dot(f, s.K[i])
}

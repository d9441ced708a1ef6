// Package analysis computes the portfolio statistics of spec §4.7 —
// expected return, cumulative probability of loss, and the worst-case
// outcome — over a joint outcome cross-product.
package analysis

import (
	"github.com/aristath/charlie/internal/domain"
	"github.com/aristath/charlie/internal/modules/outcomes"
	"github.com/aristath/charlie/pkg/numerics"
)

// Analyze computes the AnalysisResult for fractions f over set.
func Analyze(set outcomes.Set, f []float64) domain.AnalysisResult {
	n := set.N()
	portfolioReturn := make([]float64, n)
	weighted := make([]float64, n)

	for i := 0; i < n; i++ {
		portfolioReturn[i] = set.PortfolioReturn(i, f)
		weighted[i] = set.P[i] * portfolioReturn[i]
	}

	expectedReturn := numerics.WeightedSum(set.P, portfolioReturn)

	cumulativeLoss := 0.0
	worstIdx := 0
	worstWeighted := weighted[0]
	for i := 0; i < n; i++ {
		if portfolioReturn[i] < 0 {
			cumulativeLoss += set.P[i]
		}
		if weighted[i] < worstWeighted {
			worstWeighted = weighted[i]
			worstIdx = i
		}
	}

	return domain.AnalysisResult{
		ExpectedReturn:              expectedReturn,
		CumulativeProbabilityOfLoss: cumulativeLoss,
		WorstCaseOutcome: domain.WorstCaseOutcome{
			Probability:               set.P[worstIdx],
			PortfolioReturn:           portfolioReturn[worstIdx],
			ProbabilityWeightedReturn: weighted[worstIdx],
		},
	}
}

package driver

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/charlie/internal/domain"
	"github.com/aristath/charlie/internal/modules/constraints"
	"github.com/aristath/charlie/internal/modules/outcomes"
	"github.com/aristath/charlie/internal/modules/selector"
)

func fiftyFifty(ticker string) domain.Company {
	return domain.Company{
		Ticker:    ticker,
		MarketCap: 1,
		Scenarios: []domain.Scenario{
			{Thesis: "up", IntrinsicValue: 2, Probability: 0.5},
			{Thesis: "down", IntrinsicValue: 0.5, Probability: 0.5},
		},
	}
}

func TestRun_FiveIdenticalBets_Unconstrained(t *testing.T) {
	companies := make([]domain.Company, 5)
	for i := range companies {
		companies[i] = fiftyFifty(string(rune('A' + i)))
	}
	set := outcomes.Build(companies)

	out, err := Run(context.Background(), set, nil)
	require.NoError(t, err)
	require.NotEmpty(t, out.Viable)

	f := selector.Select(out.Viable, set)
	sum := 0.0
	for _, fj := range f {
		assert.InDelta(t, 0.35, fj, 0.05)
		sum += fj
	}
	assert.InDelta(t, 1.75, sum, 0.1)
}

func TestRun_FiveIdenticalBets_ZeroLeverage(t *testing.T) {
	companies := make([]domain.Company, 5)
	for i := range companies {
		companies[i] = fiftyFifty(string(rune('A' + i)))
	}
	set := outcomes.Build(companies)
	cons := []constraints.Constraint{constraints.MaxLeverage{N: 5, Leverage: 0}}

	out, err := Run(context.Background(), set, cons)
	require.NoError(t, err)
	require.NotEmpty(t, out.Viable)

	f := selector.Select(out.Viable, set)
	sum := 0.0
	for _, fj := range f {
		assert.InDelta(t, 0.2, fj, 0.02)
		sum += fj
	}
	assert.InDelta(t, 1.0, sum, 1e-4)
}

func TestRun_EmptyPatternSpace_NoConstraints(t *testing.T) {
	set := outcomes.Build([]domain.Company{fiftyFifty("A")})
	out, err := Run(context.Background(), set, nil)
	require.NoError(t, err)
	assert.Len(t, out.Viable, 1) // 2^0 = 1 pattern
}

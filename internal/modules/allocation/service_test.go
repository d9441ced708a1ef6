package allocation

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/charlie/internal/domain"
)

func fiftyFiftyCompany(ticker string) domain.Company {
	return domain.Company{
		Ticker:    ticker,
		MarketCap: 1,
		Scenarios: []domain.Scenario{
			{Thesis: "up", IntrinsicValue: 2, Probability: 0.5},
			{Thesis: "down", IntrinsicValue: 0.5, Probability: 0.5},
		},
	}
}

func newTestService() *Service {
	return NewService(zerolog.Nop())
}

func TestAllocate_Unconstrained(t *testing.T) {
	svc := newTestService()
	resp := svc.Allocate(context.Background(), domain.AllocationInput{
		Candidates: []domain.Company{fiftyFiftyCompany("A")},
	})

	require.Nil(t, resp.Error)
	require.NotNil(t, resp.Result)
	assert.Len(t, resp.Result.Allocations, 1)
	assert.InDelta(t, 0.5, resp.Result.Allocations[0].Fraction, 1e-3)
}

func TestAllocate_ValidationErrorShortCircuits(t *testing.T) {
	svc := newTestService()
	bad := fiftyFiftyCompany("A")
	bad.MarketCap = 0

	resp := svc.Allocate(context.Background(), domain.AllocationInput{
		Candidates: []domain.Company{bad},
	})

	require.Nil(t, resp.Result)
	require.NotNil(t, resp.Error)
	assert.Equal(t, domain.KindValidationError, resp.Error.Kind)
}

func TestAllocate_PermanentLossWithoutLongOnlyIsValidationError(t *testing.T) {
	svc := newTestService()
	resp := svc.Allocate(context.Background(), domain.AllocationInput{
		Candidates: []domain.Company{fiftyFiftyCompany("A")},
		MaxPermanentLossOfCapital: &domain.PermanentLossLimit{
			ProbabilityOfLoss: 0.05,
			FractionOfCapital: 0.5,
		},
	})

	require.NotNil(t, resp.Error)
	assert.Equal(t, domain.KindValidationError, resp.Error.Kind)
}

func TestAllocate_NoDownsideSoleCandidateIsValidationError(t *testing.T) {
	svc := newTestService()
	noDownside := domain.Company{
		Ticker:    "SAFE",
		MarketCap: 1,
		Scenarios: []domain.Scenario{
			{Thesis: "flat", IntrinsicValue: 1, Probability: 0.5},
			{Thesis: "up", IntrinsicValue: 2, Probability: 0.5},
		},
	}

	resp := svc.Allocate(context.Background(), domain.AllocationInput{
		Candidates: []domain.Company{noDownside},
	})

	require.NotNil(t, resp.Error)
	assert.Equal(t, domain.KindValidationError, resp.Error.Kind)
}

func TestAllocate_KellyFractionCapScalesResult(t *testing.T) {
	svc := newTestService()
	cap := 0.5
	longOnly := true

	resp := svc.Allocate(context.Background(), domain.AllocationInput{
		Candidates:       []domain.Company{fiftyFiftyCompany("A")},
		LongOnly:         &longOnly,
		KellyFractionCap: &cap,
	})

	require.NotNil(t, resp.Result)
	assert.InDelta(t, 0.25, resp.Result.Allocations[0].Fraction, 1e-3)
}

func TestAnalyze_ComputesStatsWithoutSolving(t *testing.T) {
	svc := newTestService()
	resp := svc.Analyze(domain.Portfolio{
		Companies: []domain.PortfolioCompany{
			{Company: fiftyFiftyCompany("A"), Fraction: 0.5},
		},
	})

	require.Nil(t, resp.Error)
	require.NotNil(t, resp.Result)
	assert.InDelta(t, 0.125, resp.Result.ExpectedReturn, 1e-9)
}

func modestBetCompany(ticker string) domain.Company {
	return domain.Company{
		Ticker:    ticker,
		MarketCap: 1,
		Scenarios: []domain.Scenario{
			{Thesis: "up", IntrinsicValue: 1.5, Probability: 0.6},
			{Thesis: "down", IntrinsicValue: 0.7, Probability: 0.4},
		},
	}
}

func allocationsByTicker(allocs []domain.TickerAllocation) map[string]float64 {
	m := make(map[string]float64, len(allocs))
	for _, a := range allocs {
		m[a.Ticker] = a.Fraction
	}
	return m
}

// Permutation invariance (spec §8 laws): permuting candidates permutes
// allocations the same way without changing the fractions.
func TestAllocate_PermutationInvariance(t *testing.T) {
	svc := newTestService()
	a := fiftyFiftyCompany("A")
	b := modestBetCompany("B")

	forward := svc.Allocate(context.Background(), domain.AllocationInput{
		Candidates: []domain.Company{a, b},
	})
	reversed := svc.Allocate(context.Background(), domain.AllocationInput{
		Candidates: []domain.Company{b, a},
	})

	require.NotNil(t, forward.Result)
	require.NotNil(t, reversed.Result)

	fwd := allocationsByTicker(forward.Result.Allocations)
	rev := allocationsByTicker(reversed.Result.Allocations)

	assert.InDelta(t, fwd["A"], rev["A"], 1e-6)
	assert.InDelta(t, fwd["B"], rev["B"], 1e-6)
}

// Scaling invariance of market cap (spec §8 laws): multiplying a
// candidate's market_cap and all its intrinsic_value figures by the
// same positive constant leaves every return, and therefore every
// allocation, unchanged.
func TestAllocate_MarketCapScalingInvariance(t *testing.T) {
	svc := newTestService()
	a := fiftyFiftyCompany("A")
	b := modestBetCompany("B")

	scaledB := b
	scaledB.MarketCap = b.MarketCap * 1000
	scaledB.Scenarios = make([]domain.Scenario, len(b.Scenarios))
	for i, s := range b.Scenarios {
		s.IntrinsicValue *= 1000
		scaledB.Scenarios[i] = s
	}

	base := svc.Allocate(context.Background(), domain.AllocationInput{
		Candidates: []domain.Company{a, b},
	})
	scaled := svc.Allocate(context.Background(), domain.AllocationInput{
		Candidates: []domain.Company{a, scaledB},
	})

	require.NotNil(t, base.Result)
	require.NotNil(t, scaled.Result)

	baseF := allocationsByTicker(base.Result.Allocations)
	scaledF := allocationsByTicker(scaled.Result.Allocations)

	assert.InDelta(t, baseF["A"], scaledF["A"], 1e-6)
	assert.InDelta(t, baseF["B"], scaledF["B"], 1e-6)
}

// Filtering idempotence (spec §8 laws): adding a candidate with no
// downside or non-positive EV does not change the allocation of the
// remaining candidates.
func TestAllocate_FilteringIdempotence(t *testing.T) {
	svc := newTestService()
	a := fiftyFiftyCompany("A")
	noDownside := domain.Company{
		Ticker:    "SAFE",
		MarketCap: 1,
		Scenarios: []domain.Scenario{
			{Thesis: "flat", IntrinsicValue: 1, Probability: 0.5},
			{Thesis: "up", IntrinsicValue: 2, Probability: 0.5},
		},
	}

	without := svc.Allocate(context.Background(), domain.AllocationInput{
		Candidates: []domain.Company{a},
	})
	with := svc.Allocate(context.Background(), domain.AllocationInput{
		Candidates: []domain.Company{a, noDownside},
	})

	require.NotNil(t, without.Result)
	require.NotNil(t, with.Result)
	require.Len(t, with.Result.Allocations, 1) // SAFE filtered out

	assert.InDelta(t,
		without.Result.Allocations[0].Fraction,
		with.Result.Allocations[0].Fraction,
		1e-6,
	)
}

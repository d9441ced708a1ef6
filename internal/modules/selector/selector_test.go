package selector

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aristath/charlie/internal/domain"
	"github.com/aristath/charlie/internal/modules/outcomes"
	"github.com/aristath/charlie/internal/modules/solver"
)

func twoBetSet() outcomes.Set {
	return outcomes.Build([]domain.Company{{
		Ticker:    "A",
		MarketCap: 1,
		Scenarios: []domain.Scenario{
			{Thesis: "up", IntrinsicValue: 2, Probability: 0.5},
			{Thesis: "down", IntrinsicValue: 0.5, Probability: 0.5},
		},
	}})
}

func TestSelect_PrefersMoreDiversified(t *testing.T) {
	set := twoBetSet()
	viable := []solver.Result{
		{F: []float64{0.1}, PositiveCount: 1},
		{F: []float64{0.1}, PositiveCount: 0},
	}

	got := Select(viable, set)
	assert.Equal(t, []float64{0.1}, got)
}

func TestSelect_TieBreaksOnExpectedReturn(t *testing.T) {
	set := twoBetSet()
	viable := []solver.Result{
		{F: []float64{0.2}, PositiveCount: 1},
		{F: []float64{0.5}, PositiveCount: 1},
	}

	got := Select(viable, set)
	assert.Equal(t, []float64{0.5}, got) // higher f -> higher expected return here
}

func TestSelect_ClampsNearZeroFractions(t *testing.T) {
	set := twoBetSet()
	viable := []solver.Result{{F: []float64{1e-12}, PositiveCount: 0}}

	got := Select(viable, set)
	assert.Equal(t, 0.0, got[0])
}

func TestSelect_EmptyViableReturnsNil(t *testing.T) {
	assert.Nil(t, Select(nil, twoBetSet()))
}

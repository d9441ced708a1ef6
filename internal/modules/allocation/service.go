package allocation

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/aristath/charlie/internal/domain"
	"github.com/aristath/charlie/internal/modules/analysis"
	"github.com/aristath/charlie/internal/modules/constraints"
	"github.com/aristath/charlie/internal/modules/driver"
	"github.com/aristath/charlie/internal/modules/outcomes"
	"github.com/aristath/charlie/internal/modules/selector"
	"github.com/aristath/charlie/internal/modules/validation"
)

// Service is the facade over components A–G: it orchestrates one
// allocate or analyze call end to end. It holds no state across
// calls and no global logger, per spec §5's shared-resource policy.
type Service struct {
	log zerolog.Logger
}

// NewService constructs the facade with its injected logger.
func NewService(log zerolog.Logger) *Service {
	return &Service{log: log.With().Str("component", "allocation").Logger()}
}

// Allocate runs validation, builds the outcome cross-product and
// constraint set, drives the Newton solve over every activation
// pattern, selects the winner, and analyzes it. See spec §4.1–§4.8.
func (s *Service) Allocate(ctx context.Context, input domain.AllocationInput) *domain.AllocationResponse {
	longOnly := input.LongOnly != nil && *input.LongOnly
	if input.MaxPermanentLossOfCapital != nil && !longOnly {
		return &domain.AllocationResponse{
			ValidationProblems: []domain.ValidationResult{{
				Code:     "PERMANENT_LOSS_REQUIRES_LONG_ONLY",
				Message:  "max_permanent_loss_of_capital requires long_only to be enabled",
				Severity: domain.SeverityError,
			}},
			Error: domain.NewError(domain.KindValidationError, "max_permanent_loss_of_capital requires long_only"),
		}
	}

	vres := validation.Validate(input, s.log)
	if vres.HasError {
		return &domain.AllocationResponse{
			ValidationProblems: vres.Diagnostics,
			Error:              domain.NewError(domain.KindValidationError, "input failed validation"),
		}
	}

	set := outcomes.Build(vres.Candidates)
	nc := len(vres.Candidates)

	var worstWeighted []float64
	var lossParams *constraints.PermanentLossParams
	if input.MaxPermanentLossOfCapital != nil {
		worstWeighted = constraints.WorstWeightedReturns(set.P, set.K, nc)
		lossParams = &constraints.PermanentLossParams{
			ProbabilityOfLoss: input.MaxPermanentLossOfCapital.ProbabilityOfLoss,
			FractionOfCapital: input.MaxPermanentLossOfCapital.FractionOfCapital,
		}
	}

	cons := constraints.Build(nc, constraints.Options{
		LongOnly:                longOnly,
		MaxIndividualAllocation: input.MaxIndividualAllocation,
		MaxTotalLeverageRatio:   input.MaxTotalLeverageRatio,
		MaxPermanentLossOfLoss:  lossParams,
	}, worstWeighted)

	out, err := driver.Run(ctx, set, cons)
	if err != nil {
		if derr, ok := err.(*domain.Error); ok {
			return &domain.AllocationResponse{Error: derr}
		}
		return &domain.AllocationResponse{Error: domain.NewError(domain.KindCancelled, "%s", err.Error())}
	}

	if len(out.Viable) == 0 {
		if out.AnyNonNumerical {
			return &domain.AllocationResponse{
				ValidationProblems: vres.Diagnostics,
				Error:              domain.NewError(domain.KindNoFeasibleSolution, "no activation pattern produced a viable solution"),
			}
		}
		return &domain.AllocationResponse{
			ValidationProblems: vres.Diagnostics,
			Error:              domain.NewError(domain.KindNumericalError, "every activation pattern failed numerically"),
		}
	}

	f := selector.Select(out.Viable, set)

	if input.KellyFractionCap != nil {
		kellyCap := *input.KellyFractionCap
		for j := range f {
			f[j] *= kellyCap
		}
	}

	result := domain.AllocationResult{
		Allocations: make([]domain.TickerAllocation, nc),
		Analysis:    analysis.Analyze(set, f),
	}
	for j, c := range vres.Candidates {
		result.Allocations[j] = domain.TickerAllocation{Ticker: c.Ticker, Fraction: f[j]}
	}

	s.log.Info().Int("candidates", nc).Int("viable_patterns", len(out.Viable)).Msg("allocation computed")

	return &domain.AllocationResponse{
		Result:             &result,
		ValidationProblems: vres.Diagnostics,
	}
}

// Analyze computes portfolio statistics directly from an already
// decided allocation, skipping validation and the solver entirely.
func (s *Service) Analyze(portfolio domain.Portfolio) *domain.AnalysisResponse {
	companies := make([]domain.Company, len(portfolio.Companies))
	f := make([]float64, len(portfolio.Companies))
	for j, pc := range portfolio.Companies {
		companies[j] = pc.Company
		f[j] = pc.Fraction
	}

	set := outcomes.Build(companies)
	result := analysis.Analyze(set, f)
	return &domain.AnalysisResponse{Result: &result}
}

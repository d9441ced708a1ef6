// Package validation enforces the input invariants of spec §4.1 before
// any numerical work runs, producing ERROR/WARNING diagnostics and
// filtering non-viable candidates.
package validation

import (
	"fmt"
	"math"

	"github.com/rs/zerolog"

	"github.com/aristath/charlie/internal/domain"
)

const probabilityTolerance = 1e-6

// Result is the outcome of validating an AllocationInput: the filtered
// candidates that survive, and every diagnostic raised along the way.
type Result struct {
	Candidates  []domain.Company
	Diagnostics []domain.ValidationResult
	HasError    bool
}

// Validate runs every rule of spec §4.1 against the input: first the
// duplicate-ticker check across candidates, then the per-candidate
// rules (skipping duplicated tickers), then the post-filter emptiness
// check.
func Validate(input domain.AllocationInput, log zerolog.Logger) Result {
	var res Result

	seenTickers := make(map[string]bool, len(input.Candidates))
	duplicate := make(map[string]bool)
	for _, c := range input.Candidates {
		if seenTickers[c.Ticker] {
			duplicate[c.Ticker] = true
		}
		seenTickers[c.Ticker] = true
	}
	for ticker := range duplicate {
		res.Diagnostics = append(res.Diagnostics, errf("DUPLICATE_TICKER", "ticker %q is duplicated across candidates", ticker))
		res.HasError = true
	}

	for _, c := range input.Candidates {
		if duplicate[c.Ticker] {
			continue
		}

		if c.MarketCap <= 0 {
			res.Diagnostics = append(res.Diagnostics, errf("INVALID_MARKET_CAP", "%s: market_cap must be > 0, got %g", c.Ticker, c.MarketCap))
			res.HasError = true
			continue
		}
		if len(c.Scenarios) == 0 {
			res.Diagnostics = append(res.Diagnostics, errf("EMPTY_SCENARIOS", "%s: has no scenarios", c.Ticker))
			res.HasError = true
			continue
		}

		badRange := false
		probSum := 0.0
		hasDownside := false
		expectedReturn := 0.0
		for _, s := range c.Scenarios {
			if s.Probability < 0 || s.Probability > 1 {
				res.Diagnostics = append(res.Diagnostics, errf("INVALID_PROBABILITY", "%s: scenario %q has probability %g outside [0,1]", c.Ticker, s.Thesis, s.Probability))
				res.HasError = true
				badRange = true
			}
			if s.IntrinsicValue < 0 {
				res.Diagnostics = append(res.Diagnostics, errf("INVALID_INTRINSIC_VALUE", "%s: scenario %q has negative intrinsic_value %g", c.Ticker, s.Thesis, s.IntrinsicValue))
				res.HasError = true
				badRange = true
			}
			probSum += s.Probability
			if s.IntrinsicValue < c.MarketCap {
				hasDownside = true
			}
			expectedReturn += s.Probability * (s.IntrinsicValue - c.MarketCap) / c.MarketCap
		}
		if badRange {
			continue
		}

		if math.Abs(probSum-1) > probabilityTolerance {
			res.Diagnostics = append(res.Diagnostics, errf("PROBABILITY_SUM", "%s: scenario probabilities sum to %g, expected 1", c.Ticker, probSum))
			res.HasError = true
			continue
		}

		if expectedReturn <= 0 {
			log.Warn().Str("ticker", c.Ticker).Float64("expected_return", expectedReturn).Msg("filtering candidate: non-positive expected return")
			res.Diagnostics = append(res.Diagnostics, domain.ValidationResult{
				Code:     "NON_POSITIVE_EXPECTED_RETURN",
				Message:  fmt.Sprintf("%s: filtered, expected return %.6f <= 0", c.Ticker, expectedReturn),
				Severity: domain.SeverityWarning,
			})
			continue
		}

		if !hasDownside {
			log.Warn().Str("ticker", c.Ticker).Msg("filtering candidate: no downside scenario")
			res.Diagnostics = append(res.Diagnostics, domain.ValidationResult{
				Code:     "NO_DOWNSIDE",
				Message:  fmt.Sprintf("%s: filtered, no scenario has intrinsic_value below market_cap", c.Ticker),
				Severity: domain.SeverityWarning,
			})
			continue
		}

		res.Candidates = append(res.Candidates, c)
	}

	if !res.HasError && len(res.Candidates) == 0 {
		res.Diagnostics = append(res.Diagnostics, errf("NO_SURVIVING_CANDIDATES", "all candidates were filtered by warnings, nothing left to allocate"))
		res.HasError = true
	}

	return res
}

func errf(code, format string, args ...interface{}) domain.ValidationResult {
	return domain.ValidationResult{
		Code:     code,
		Message:  fmt.Sprintf(format, args...),
		Severity: domain.SeverityError,
	}
}

// Package domain contains the data model shared across the allocation
// engine: the candidate/scenario inputs, the joint outcome
// cross-product, the constraint and solver variable shapes, and the
// error taxonomy returned at the API boundary.
package domain

import "fmt"

// Scenario is one discrete future outcome for a company: a thesis, an
// estimated intrinsic value, and the probability the thesis plays out.
type Scenario struct {
	Thesis         string  `json:"thesis" yaml:"thesis"`
	IntrinsicValue float64 `json:"intrinsic_value" yaml:"intrinsic_value"`
	Probability    float64 `json:"probability" yaml:"probability"`
}

// Company is a candidate investment: its current market cap and the
// ordered sequence of scenarios describing its possible futures.
type Company struct {
	Name        string     `json:"name" yaml:"name"`
	Ticker      string     `json:"ticker" yaml:"ticker"`
	Description string     `json:"description" yaml:"description"`
	MarketCap   float64    `json:"market_cap" yaml:"market_cap"`
	Scenarios   []Scenario `json:"scenarios" yaml:"scenarios"`
}

// PortfolioCompany pairs a company with the fraction of capital
// already allocated to it, used by the analyze path.
type PortfolioCompany struct {
	Company  Company `json:"company" yaml:"company"`
	Fraction float64 `json:"fraction" yaml:"fraction"`
}

// Portfolio is a pre-built set of companies and fractions submitted
// directly to the analyze endpoint.
type Portfolio struct {
	Companies []PortfolioCompany `json:"companies" yaml:"companies"`
}

// PermanentLossLimit bounds the probability-weighted worst-case loss
// of capital: probability_of_loss * fraction_of_capital.
type PermanentLossLimit struct {
	ProbabilityOfLoss float64 `json:"probability_of_loss" yaml:"probability_of_loss"`
	FractionOfCapital float64 `json:"fraction_of_capital" yaml:"fraction_of_capital"`
}

// AllocationInput is the request to allocate(): the candidate universe
// plus the optional inequality constraints to enforce.
type AllocationInput struct {
	Candidates                []Company            `json:"candidates" yaml:"candidates"`
	LongOnly                  *bool                `json:"long_only,omitempty" yaml:"long_only,omitempty"`
	MaxIndividualAllocation   *float64              `json:"max_individual_allocation,omitempty" yaml:"max_individual_allocation,omitempty"`
	MaxTotalLeverageRatio     *float64              `json:"max_total_leverage_ratio,omitempty" yaml:"max_total_leverage_ratio,omitempty"`
	MaxPermanentLossOfCapital *PermanentLossLimit  `json:"max_permanent_loss_of_capital,omitempty" yaml:"max_permanent_loss_of_capital,omitempty"`
	// KellyFractionCap dampens the solved allocation by a constant
	// factor in (0, 1]; absent means full Kelly (factor 1).
	KellyFractionCap *float64 `json:"kelly_fraction_cap,omitempty" yaml:"kelly_fraction_cap,omitempty"`
}

// TickerAllocation is one line of the final answer: a surviving
// candidate's ticker and the fraction of capital assigned to it.
type TickerAllocation struct {
	Ticker   string  `json:"ticker"`
	Fraction float64 `json:"fraction"`
}

// WorstCaseOutcome reports the single joint outcome with the lowest
// probability-weighted portfolio return.
type WorstCaseOutcome struct {
	Probability               float64 `json:"probability"`
	PortfolioReturn           float64 `json:"portfolio_return"`
	ProbabilityWeightedReturn float64 `json:"probability_weighted_return"`
}

// AnalysisResult summarizes a portfolio's return distribution over the
// joint outcome cross-product.
type AnalysisResult struct {
	ExpectedReturn              float64          `json:"expected_return"`
	CumulativeProbabilityOfLoss float64          `json:"cumulative_probability_of_loss"`
	WorstCaseOutcome            WorstCaseOutcome `json:"worst_case_outcome"`
}

// AllocationResult is the successful output of allocate(): the chosen
// fractions plus the portfolio statistics they produce.
type AllocationResult struct {
	Allocations []TickerAllocation `json:"allocations"`
	Analysis    AnalysisResult     `json:"analysis"`
}

// Severity classifies a ValidationResult.
type Severity string

const (
	SeverityError   Severity = "ERROR"
	SeverityWarning Severity = "WARNING"
)

// ValidationResult is one diagnostic produced by the validator.
type ValidationResult struct {
	Code     string   `json:"code"`
	Message  string   `json:"message"`
	Severity Severity `json:"severity"`
}

// AllocationResponse is the wire shape returned by allocate(): exactly
// one of Result or Error is set; ValidationProblems may accompany
// either (warnings alongside Result, or the ERRORs that blocked it).
type AllocationResponse struct {
	Result             *AllocationResult  `json:"result,omitempty"`
	ValidationProblems []ValidationResult `json:"validation_problems,omitempty"`
	Error              *Error             `json:"error,omitempty"`
}

// AnalysisResponse is the wire shape returned by analyze().
type AnalysisResponse struct {
	Result *AnalysisResult `json:"result,omitempty"`
	Error  *Error          `json:"error,omitempty"`
}

// ErrorKind enumerates the error taxonomy of spec §7.
type ErrorKind string

const (
	KindValidationError    ErrorKind = "VALIDATION_ERROR"
	KindNoFeasibleSolution ErrorKind = "NO_FEASIBLE_SOLUTION"
	KindNumericalError     ErrorKind = "NUMERICAL_ERROR"
	KindCancelled          ErrorKind = "CANCELLED"
	KindInternalError      ErrorKind = "INTERNAL_ERROR"
)

// Error is the core's error type, carrying a machine-readable Kind in
// addition to a human message. The HTTP shell returns it in-band in the
// response body, with Kind serialized as the error_code string.
type Error struct {
	Kind    ErrorKind `json:"error_code"`
	Message string    `json:"message"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// NewError constructs a domain Error of the given kind.
func NewError(kind ErrorKind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

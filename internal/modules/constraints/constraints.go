// Package constraints implements the constraint kernel of spec §4.3: a
// closed tagged union of inequality constraints I(f) + s = 0, each
// exposing its value, gradient, and Hessian with respect to the
// fraction vector f.
package constraints

// Constraint is one inequality I(f) <= 0 built into the solver. All
// four built-ins have a zero Hessian; the interface still exposes one
// so a future non-linear constraint would not need a new abstraction.
type Constraint interface {
	// Tag identifies the constraint family, for diagnostics.
	Tag() string
	// Value returns I(f).
	Value(f []float64) float64
	// Gradient returns dI/df_j for j in [0, len(f)).
	Gradient(f []float64) []float64
	// Hessian returns d2I/df_i df_j, an N_c x N_c matrix.
	Hessian(f []float64) [][]float64
}

func zeroHessian(n int) [][]float64 {
	h := make([][]float64, n)
	for i := range h {
		h[i] = make([]float64, n)
	}
	return h
}

// LongOnly is one constraint per candidate j: I_j = -f_j <= 0.
type LongOnly struct {
	N     int // total candidate count
	Index int // which candidate this instance constrains
}

func (c LongOnly) Tag() string { return "long_only" }

func (c LongOnly) Value(f []float64) float64 { return -f[c.Index] }

func (c LongOnly) Gradient(f []float64) []float64 {
	g := make([]float64, c.N)
	g[c.Index] = -1
	return g
}

func (c LongOnly) Hessian(f []float64) [][]float64 { return zeroHessian(c.N) }

// MaxLeverage is the single total-exposure constraint:
// I = sum_j f_j - (1+L) <= 0.
type MaxLeverage struct {
	N       int
	Leverage float64
}

func (c MaxLeverage) Tag() string { return "max_total_leverage_ratio" }

func (c MaxLeverage) Value(f []float64) float64 {
	sum := 0.0
	for _, fj := range f {
		sum += fj
	}
	return sum - (1 + c.Leverage)
}

func (c MaxLeverage) Gradient(f []float64) []float64 {
	g := make([]float64, c.N)
	for j := range g {
		g[j] = 1
	}
	return g
}

func (c MaxLeverage) Hessian(f []float64) [][]float64 { return zeroHessian(c.N) }

// MaxIndividual is one constraint per candidate j:
// I_j = f_j - M <= 0, the same bound M for every candidate.
type MaxIndividual struct {
	N     int
	Index int
	Bound float64
}

func (c MaxIndividual) Tag() string { return "max_individual_allocation" }

func (c MaxIndividual) Value(f []float64) float64 { return f[c.Index] - c.Bound }

func (c MaxIndividual) Gradient(f []float64) []float64 {
	g := make([]float64, c.N)
	g[c.Index] = 1
	return g
}

func (c MaxIndividual) Hessian(f []float64) [][]float64 { return zeroHessian(c.N) }

// MaxPermanentLoss is the single worst-case-loss constraint:
// I = -sum_j f_j*w_j - P*K <= 0, where W[j] is the worst
// probability-weighted single-outcome return contributed by
// candidate j (a non-positive number), precomputed by the caller.
type MaxPermanentLoss struct {
	N int
	W []float64 // per-candidate worst probability-weighted return
	P float64   // probability_of_loss
	K float64   // fraction_of_capital
}

func (c MaxPermanentLoss) Tag() string { return "max_permanent_loss_of_capital" }

func (c MaxPermanentLoss) Value(f []float64) float64 {
	sum := 0.0
	for j, fj := range f {
		sum += fj * c.W[j]
	}
	return -sum - c.P*c.K
}

func (c MaxPermanentLoss) Gradient(f []float64) []float64 {
	g := make([]float64, c.N)
	for j := range g {
		g[j] = -c.W[j]
	}
	return g
}

func (c MaxPermanentLoss) Hessian(f []float64) [][]float64 { return zeroHessian(c.N) }

// WorstWeightedReturns computes W[j] = min_i(p_i * k_ij) across the
// outcome cross-product, used to parameterize MaxPermanentLoss.
func WorstWeightedReturns(p []float64, k [][]float64, nc int) []float64 {
	w := make([]float64, nc)
	for j := 0; j < nc; j++ {
		best := 0.0
		first := true
		for i := range p {
			v := p[i] * k[i][j]
			if first || v < best {
				best = v
				first = false
			}
		}
		w[j] = best
	}
	return w
}

// Options selects which constraint groups Build enables; a nil pointer
// or false disables its group.
type Options struct {
	LongOnly                 bool
	MaxIndividualAllocation  *float64
	MaxTotalLeverageRatio    *float64
	MaxPermanentLossOfLoss   *PermanentLossParams
}

// PermanentLossParams mirrors domain.PermanentLossLimit without
// importing the domain package, keeping this package dependency-free.
type PermanentLossParams struct {
	ProbabilityOfLoss float64
	FractionOfCapital float64
}

// Build assembles the full ordered constraint list for an input,
// given the candidate count and the precomputed worst weighted
// returns (needed only when max_permanent_loss_of_capital is set).
// The order is: long-only (one per candidate), max leverage, max
// individual (one per candidate), max permanent loss — matching the
// "2*N_c + 2" count in spec §4.3 when every group is enabled.
func Build(nc int, opts Options, worstWeighted []float64) []Constraint {
	var out []Constraint

	if opts.LongOnly {
		for j := 0; j < nc; j++ {
			out = append(out, LongOnly{N: nc, Index: j})
		}
	}

	if opts.MaxTotalLeverageRatio != nil {
		out = append(out, MaxLeverage{N: nc, Leverage: *opts.MaxTotalLeverageRatio})
	}

	if opts.MaxIndividualAllocation != nil {
		for j := 0; j < nc; j++ {
			out = append(out, MaxIndividual{N: nc, Index: j, Bound: *opts.MaxIndividualAllocation})
		}
	}

	if opts.MaxPermanentLossOfLoss != nil {
		out = append(out, MaxPermanentLoss{
			N: nc,
			W: worstWeighted,
			P: opts.MaxPermanentLossOfLoss.ProbabilityOfLoss,
			K: opts.MaxPermanentLossOfLoss.FractionOfCapital,
		})
	}

	return out
}

// Package solver implements the Newton–Raphson stationarity solve of
// spec §4.4: given one activation pattern over the constraint set, it
// finds fractions and auxiliary variables satisfying the KKT system
// for the generalized-Kelly Lagrangian, or reports the pattern
// non-viable.
package solver

import (
	"context"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/aristath/charlie/internal/domain"
	"github.com/aristath/charlie/internal/modules/constraints"
	"github.com/aristath/charlie/internal/modules/outcomes"
)

const (
	maxIterations  = 100
	convergenceTol = 1e-8
	slackTol       = -1e-9
)

// Outcome classifies how a single activation pattern's Newton solve
// ended.
type Outcome int

const (
	// Viable: converged and satisfied all sign constraints.
	Viable Outcome = iota
	// ConvergedNotViable: Newton converged but a slack or multiplier
	// had the wrong sign.
	ConvergedNotViable
	// NumericalFailure: singular Jacobian, non-convergence, or a
	// non-finite value from a total-loss denominator.
	NumericalFailure
)

// Result is the outcome of solving one activation pattern.
type Result struct {
	Pattern       uint64
	F             []float64
	Outcome       Outcome
	PositiveCount int
}

// Solve runs Newton–Raphson on the KKT system for activation pattern
// (bit l set means constraint l is active), checking ctx between
// iterations so long runs can be cancelled.
func Solve(ctx context.Context, set outcomes.Set, cons []constraints.Constraint, pattern uint64) (Result, error) {
	nc := len(set.Companies)
	l := len(cons)
	dim := nc + l

	x := make([]float64, dim)
	for j := 0; j < nc; j++ {
		x[j] = 1.0 / float64(nc)
	}

	active := func(li int) bool { return pattern&(1<<uint(li)) != 0 }

	for iter := 0; iter < maxIterations; iter++ {
		select {
		case <-ctx.Done():
			return Result{Pattern: pattern, Outcome: NumericalFailure}, domain.NewError(domain.KindCancelled, "solver cancelled")
		default:
		}

		f := x[:nc]

		denom := make([]float64, set.N())
		for i := 0; i < set.N(); i++ {
			denom[i] = 1 + set.PortfolioReturn(i, f)
			if denom[i] <= 0 || math.IsNaN(denom[i]) {
				return Result{Pattern: pattern, Outcome: NumericalFailure}, nil
			}
		}

		grads := make([][]float64, l)
		hesses := make([][][]float64, l)
		values := make([]float64, l)
		for li, c := range cons {
			grads[li] = c.Gradient(f)
			hesses[li] = c.Hessian(f)
			values[li] = c.Value(f)
		}

		// Residual F: stationarity block (length nc) + constraint block (length l).
		residual := make([]float64, dim)
		for j := 0; j < nc; j++ {
			sum := 0.0
			for i := 0; i < set.N(); i++ {
				sum += set.P[i] * set.K[i][j] / denom[i]
			}
			for li := range cons {
				if active(li) {
					lambda := x[nc+li]
					sum -= lambda * grads[li][j]
				}
			}
			residual[j] = sum
		}
		for li := range cons {
			if active(li) {
				residual[nc+li] = -values[li]
			} else {
				residual[nc+li] = -values[li] - x[nc+li]
			}
		}

		if anyNonFinite(residual) {
			return Result{Pattern: pattern, Outcome: NumericalFailure}, nil
		}

		// Jacobian J.
		jac := mat.NewDense(dim, dim, nil)
		for i := 0; i < nc; i++ {
			for j := 0; j < nc; j++ {
				h := 0.0
				for o := 0; o < set.N(); o++ {
					h -= set.P[o] * set.K[o][i] * set.K[o][j] / (denom[o] * denom[o])
				}
				for li := range cons {
					if active(li) {
						lambda := x[nc+li]
						h -= lambda * hesses[li][i][j]
					}
				}
				jac.Set(i, j, h)
			}
		}
		for li := range cons {
			col := nc + li
			for j := 0; j < nc; j++ {
				// bottom-left row li: -dI_l/df_j, for every pattern.
				jac.Set(col, j, -grads[li][j])
				// top-right column li: -dI_l/df_j only when active.
				if active(li) {
					jac.Set(j, col, -grads[li][j])
				}
			}
			if !active(li) {
				jac.Set(col, col, -1)
			}
		}

		negResidual := make([]float64, dim)
		for i := 0; i < dim; i++ {
			negResidual[i] = -residual[i]
		}
		rhs := mat.NewDense(dim, 1, negResidual)

		var delta mat.Dense
		if err := delta.Solve(jac, rhs); err != nil {
			return Result{Pattern: pattern, Outcome: NumericalFailure}, nil
		}

		maxAbs := 0.0
		for i := 0; i < dim; i++ {
			d := delta.At(i, 0)
			if math.IsNaN(d) || math.IsInf(d, 0) {
				return Result{Pattern: pattern, Outcome: NumericalFailure}, nil
			}
			x[i] += d
			if a := math.Abs(d); a > maxAbs {
				maxAbs = a
			}
		}

		if maxAbs < convergenceTol {
			return finalize(pattern, x, nc, l, active), nil
		}
	}

	return Result{Pattern: pattern, Outcome: NumericalFailure}, nil
}

func finalize(pattern uint64, x []float64, nc, l int, active func(int) bool) Result {
	f := append([]float64(nil), x[:nc]...)
	for _, v := range f {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return Result{Pattern: pattern, Outcome: NumericalFailure}
		}
	}

	viable := true
	for li := 0; li < l; li++ {
		aux := x[nc+li]
		if active(li) {
			if aux < slackTol {
				viable = false
			}
		} else {
			if aux < slackTol {
				viable = false
			}
		}
	}

	positive := 0
	for _, fj := range f {
		if fj > 1e-9 {
			positive++
		}
	}

	outcome := ConvergedNotViable
	if viable {
		outcome = Viable
	}

	return Result{Pattern: pattern, F: f, Outcome: outcome, PositiveCount: positive}
}

func anyNonFinite(v []float64) bool {
	for _, x := range v {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return true
		}
	}
	return false
}

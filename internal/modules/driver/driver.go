// Package driver enumerates every constraint activation pattern and
// invokes the solver for each, collecting the viable results. Patterns
// are independent, so the driver spreads them over a bounded worker
// pool (spec §5).
package driver

import (
	"context"
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/aristath/charlie/internal/modules/constraints"
	"github.com/aristath/charlie/internal/modules/outcomes"
	"github.com/aristath/charlie/internal/modules/solver"
)

// Outcome is the result of driving every activation pattern: the
// viable solutions found, plus whether any pattern got far enough to
// converge (even if not viable) — used to distinguish
// NO_FEASIBLE_SOLUTION from NUMERICAL_ERROR at the facade.
type Outcome struct {
	Viable          []solver.Result
	AnyNonNumerical bool
}

// maxWorkers bounds the worker pool; activation-pattern solves are
// pure CPU work with no I/O, so one worker per core is the natural
// cap.
func maxWorkers() int {
	if n := runtime.GOMAXPROCS(0); n > 0 {
		return n
	}
	return 1
}

// Run enumerates patterns [0, 2^L) and solves each, respecting ctx
// cancellation between patterns.
func Run(ctx context.Context, set outcomes.Set, cons []constraints.Constraint) (Outcome, error) {
	l := len(cons)
	total := uint64(1) << uint(l)

	var mu sync.Mutex
	var out Outcome

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxWorkers())

	for pattern := uint64(0); pattern < total; pattern++ {
		pattern := pattern
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}

			res, err := solver.Solve(gctx, set, cons, pattern)
			if err != nil {
				// Cancellation propagates; individual pattern math
				// failures never do (spec §7: recorded, not surfaced).
				return err
			}

			mu.Lock()
			defer mu.Unlock()
			if res.Outcome == solver.Viable {
				out.Viable = append(out.Viable, res)
				out.AnyNonNumerical = true
			} else if res.Outcome == solver.ConvergedNotViable {
				out.AnyNonNumerical = true
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return Outcome{}, err
	}

	return out, nil
}

package remat

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// SweepPoint is one entry of a cost-vs-budget curve.
type SweepPoint struct {
	Budget   Budget
	Cost     int64 // CostInfeasible when Feasible is false
	Feasible bool
}

// Sweep solves the sequence once per candidate budget, all candidates
// concurrently. Solves share no mutable state, so the only coordination
// needed is the errgroup. Results are ordered like budgetBytes; a
// BudgetTooSmall outcome is recorded as an infeasible point, any other
// error aborts the sweep. The resulting curve is non-increasing in budget.
func Sweep(ctx context.Context, solver Solver, seq *Sequence, budgetBytes []int64, levels int) ([]SweepPoint, error) {
	points := make([]SweepPoint, len(budgetBytes))
	g, ctx := errgroup.WithContext(ctx)
	for idx, bytes := range budgetBytes {
		idx, bytes := idx, bytes
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			budget := Budget{Bytes: bytes, Levels: levels}
			table, err := solver.Solve(seq, budget)
			if errors.Is(err, ErrBudgetTooSmall) {
				points[idx] = SweepPoint{Budget: budget, Cost: CostInfeasible}
				return nil
			}
			if err != nil {
				return fmt.Errorf("solving budget %d: %w", bytes, err)
			}
			points[idx] = SweepPoint{
				Budget:   budget,
				Cost:     table.Cost(levels-1, 0, seq.Len()),
				Feasible: true,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return points, nil
}

// MinimalFeasibleBudget binary-searches the smallest byte budget (at a
// fixed level count) under which the sequence is schedulable. Each probe
// is an independent solve; the search issues them sequentially because
// every probe depends on the previous outcome.
func MinimalFeasibleBudget(ctx context.Context, solver Solver, seq *Sequence, levels int) (int64, error) {
	feasible := func(bytes int64) (bool, error) {
		if err := ctx.Err(); err != nil {
			return false, err
		}
		_, err := solver.Solve(seq, Budget{Bytes: bytes, Levels: levels})
		if errors.Is(err, ErrBudgetTooSmall) {
			return false, nil
		}
		if err != nil {
			return false, err
		}
		return true, nil
	}

	// Full retention fits once the budget absorbs every per-node ceil, so
	// starting near the total activation size converges fast; the doubling
	// loop covers the rounding slack the discretization introduces.
	hi := seq.TotalMemBytes()
	if hi < 1 {
		hi = 1
	}
	found := false
	for i := 0; i < 62; i++ {
		ok, err := feasible(hi)
		if err != nil {
			return 0, err
		}
		if ok {
			found = true
			break
		}
		hi *= 2
	}
	if !found {
		// With too few levels (e.g. Levels == 1 and several non-zero
		// nodes) no byte budget is schedulable.
		return 0, &BudgetTooSmallError{Budget: Budget{Bytes: hi, Levels: levels}}
	}

	lo := int64(1)
	for lo < hi {
		mid := lo + (hi-lo)/2
		ok, err := feasible(mid)
		if err != nil {
			return 0, err
		}
		if ok {
			hi = mid
		} else {
			lo = mid + 1
		}
	}
	return hi, nil
}

// Package rotor implements the rematerialization DP recurrence twice:
// Reference is the readable top-down formulation over nested tables, Arena
// is the tight bottom-up formulation over the flat OptTable arenas. The
// two must stay in lockstep cell for cell; remat.Compare is the harness
// that checks them against each other.
package rotor

import (
	"github.com/sirupsen/logrus"

	"github.com/remat-rotor/remat-rotor/remat"
)

// Reference solves the recurrence the way it is written on paper: a
// memoized recursion over nested [m][i][j] tables. It is the ground truth
// the Arena backend is checked against, and it is orders of magnitude
// slower at sequence lengths in the hundreds.
type Reference struct{}

// NewReference returns the reference backend.
func NewReference() *Reference {
	return &Reference{}
}

// Name implements remat.Solver.
func (s *Reference) Name() string {
	return "reference"
}

// Solve implements remat.Solver.
func (s *Reference) Solve(seq *remat.Sequence, budget remat.Budget) (*remat.OptTable, error) {
	if err := remat.ValidateSolveInput(seq, budget); err != nil {
		return nil, err
	}
	n := seq.Len()
	lv := budget.NodeLevels(seq)
	logrus.Debugf("[reference] solving %d nodes, %d levels, unit=%d bytes", n, budget.Levels, budget.Unit())

	cost := make([][][]int64, budget.Levels)
	dec := make([][][]int32, budget.Levels)
	done := make([][][]bool, budget.Levels)
	for m := range cost {
		cost[m] = make([][]int64, n+1)
		dec[m] = make([][]int32, n+1)
		done[m] = make([][]bool, n+1)
		for i := 0; i <= n; i++ {
			cost[m][i] = make([]int64, n+1)
			dec[m][i] = make([]int32, n+1)
			done[m][i] = make([]bool, n+1)
		}
	}

	var solveSpan func(m, i, j int) int64
	solveSpan = func(m, i, j int) int64 {
		if done[m][i][j] {
			return cost[m][i][j]
		}
		done[m][i][j] = true
		if i == j {
			cost[m][i][j] = 0
			dec[m][i][j] = remat.DecisionSequential
			return 0
		}

		best := remat.CostInfeasible
		choice := remat.DecisionNone

		// Full retention: keep every activation in [i, j), recompute
		// nothing. Valid when the span's total footprint fits the cap of
		// m+1 units.
		var spanLevels int64
		for t := i; t < j; t++ {
			spanLevels += lv[t]
		}
		if spanLevels <= int64(m)+1 {
			best = seq.SumFwd(i, j) + seq.SumBwd(i, j)
			choice = remat.DecisionSequential
		}

		// Checkpoint boundary k: stream forward through [i, k), hold
		// activation k, solve the right segment under m, replay the left
		// segment under the budget reduced by the held boundary. Smallest
		// k wins ties (strict improvement only), keeping the choice
		// implementation-independent.
		for k := i + 1; k < j; k++ {
			if lv[k] > int64(m) {
				continue
			}
			right := solveSpan(m, k, j)
			if right == remat.CostInfeasible {
				continue
			}
			left := solveSpan(m-int(lv[k]), i, k)
			if left == remat.CostInfeasible {
				continue
			}
			c := seq.SumFwd(i, k) + right + left
			if c < best {
				best = c
				choice = int32(k)
			}
		}

		cost[m][i][j] = best
		dec[m][i][j] = choice
		return best
	}

	// The consistency contract covers every cell, not just those reachable
	// from the top query, so force-compute the whole table.
	for m := 0; m < budget.Levels; m++ {
		for i := 0; i <= n; i++ {
			for j := i; j <= n; j++ {
				solveSpan(m, i, j)
			}
		}
	}

	table := remat.NewOptTable(seq, budget)
	for m := 0; m < budget.Levels; m++ {
		for i := 0; i <= n; i++ {
			for j := i; j <= n; j++ {
				table.SetCell(m, i, j, cost[m][i][j], dec[m][i][j])
			}
		}
	}
	return remat.FinishSolve(table, seq, budget)
}

package rotor

import (
	"github.com/sirupsen/logrus"

	"github.com/remat-rotor/remat-rotor/remat"
)

// Arena is the accelerated backend: the same recurrence as Reference,
// computed bottom-up straight into the flat OptTable arenas with no
// recursion and no per-cell allocation. Cells are filled in strict
// dependency order — span length d ascending — so every sub-range a cell
// reads is already final. Candidate evaluation order and arithmetic match
// Reference exactly; that is what keeps the two backends bit-identical.
type Arena struct{}

// NewArena returns the accelerated backend.
func NewArena() *Arena {
	return &Arena{}
}

// Name implements remat.Solver.
func (s *Arena) Name() string {
	return "arena"
}

// Solve implements remat.Solver.
func (s *Arena) Solve(seq *remat.Sequence, budget remat.Budget) (*remat.OptTable, error) {
	if err := remat.ValidateSolveInput(seq, budget); err != nil {
		return nil, err
	}
	n := seq.Len()
	lv := budget.NodeLevels(seq)
	logrus.Debugf("[arena] solving %d nodes, %d levels, unit=%d bytes", n, budget.Levels, budget.Unit())

	// Prefix of discretized levels; integer sums, so the value of a span
	// footprint is identical to Reference's direct summation.
	lvPrefix := make([]int64, n+1)
	for i := 0; i < n; i++ {
		lvPrefix[i+1] = lvPrefix[i] + lv[i]
	}

	table := remat.NewOptTable(seq, budget)

	// Base cases (i == j, cost 0) come pre-filled from NewOptTable.
	// Checkpoint candidates read (m, k, j) and (m-lv[k], i, k), both of
	// strictly smaller span length, so d-ascending order alone satisfies
	// the dependencies regardless of m order.
	for m := 0; m < budget.Levels; m++ {
		capUnits := int64(m) + 1
		for d := 1; d <= n; d++ {
			for i := 0; i+d <= n; i++ {
				j := i + d

				best := remat.CostInfeasible
				choice := remat.DecisionNone
				if lvPrefix[j]-lvPrefix[i] <= capUnits {
					best = seq.SumFwd(i, j) + seq.SumBwd(i, j)
					choice = remat.DecisionSequential
				}
				for k := i + 1; k < j; k++ {
					if lv[k] > int64(m) {
						continue
					}
					right := table.Cost(m, k, j)
					if right == remat.CostInfeasible {
						continue
					}
					left := table.Cost(m-int(lv[k]), i, k)
					if left == remat.CostInfeasible {
						continue
					}
					c := seq.SumFwd(i, k) + right + left
					if c < best {
						best = c
						choice = int32(k)
					}
				}
				table.SetCell(m, i, j, best, choice)
			}
		}
	}
	return remat.FinishSolve(table, seq, budget)
}

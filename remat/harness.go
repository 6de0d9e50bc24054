package remat

import (
	"errors"
	"fmt"
)

// MismatchKind classifies a divergence found by Compare.
type MismatchKind int

const (
	// MismatchCell is a differing OptTable cost at one (m, i, j).
	MismatchCell MismatchKind = iota

	// MismatchOpLength is a differing operation-sequence length.
	MismatchOpLength

	// MismatchOp is a differing operation at one position.
	MismatchOp

	// MismatchOutcome is one backend failing where the other succeeds,
	// or the two failing with different error classes.
	MismatchOutcome
)

// Mismatch localizes one divergence between two solver backends: the
// coordinate where it occurred and both rendered values, never just a
// boolean. Mismatches are reported, not corrected.
type Mismatch struct {
	Kind    MismatchKind
	M, I, J int // OptTable coordinate, for MismatchCell
	Pos     int // operation index, for MismatchOp
	A, B    string
}

func (mm Mismatch) String() string {
	switch mm.Kind {
	case MismatchCell:
		return fmt.Sprintf("cell (%d, %d, %d): %s vs %s", mm.M, mm.I, mm.J, mm.A, mm.B)
	case MismatchOpLength:
		return fmt.Sprintf("operation count: %s vs %s", mm.A, mm.B)
	case MismatchOp:
		return fmt.Sprintf("operation %d: %s vs %s", mm.Pos, mm.A, mm.B)
	default:
		return fmt.Sprintf("outcome: %s vs %s", mm.A, mm.B)
	}
}

// Compare runs two solver backends on the same input and diffs every
// OptTable cell with i < j (cost values, not just feasibility) and both
// materialized operation sequences position by position. An empty result
// means the backends agree. Both backends failing with the same error
// class (e.g. BudgetTooSmall on an infeasible input) counts as agreement.
func Compare(a, b Solver, seq *Sequence, budget Budget) ([]Mismatch, error) {
	ta, errA := a.Solve(seq, budget)
	tb, errB := b.Solve(seq, budget)

	if errA != nil || errB != nil {
		if sameErrorClass(errA, errB) {
			return nil, nil
		}
		return []Mismatch{{
			Kind: MismatchOutcome,
			A:    fmt.Sprintf("%s: %v", a.Name(), errA),
			B:    fmt.Sprintf("%s: %v", b.Name(), errB),
		}}, nil
	}

	var mismatches []Mismatch
	n := seq.Len()
	for m := 0; m < budget.Levels; m++ {
		for d := 1; d <= n; d++ {
			for i := 0; i+d <= n; i++ {
				ca, cb := ta.Cost(m, i, i+d), tb.Cost(m, i, i+d)
				if ca != cb {
					mismatches = append(mismatches, Mismatch{
						Kind: MismatchCell, M: m, I: i, J: i + d,
						A: renderCost(ca), B: renderCost(cb),
					})
				}
			}
		}
	}

	opsA, errA := Materialize(ta, seq)
	if errA != nil {
		return nil, fmt.Errorf("materializing %s table: %w", a.Name(), errA)
	}
	opsB, errB := Materialize(tb, seq)
	if errB != nil {
		return nil, fmt.Errorf("materializing %s table: %w", b.Name(), errB)
	}
	if len(opsA) != len(opsB) {
		mismatches = append(mismatches, Mismatch{
			Kind: MismatchOpLength,
			A:    fmt.Sprintf("%d ops", len(opsA)),
			B:    fmt.Sprintf("%d ops", len(opsB)),
		})
		return mismatches, nil
	}
	for pos := range opsA {
		if opsA[pos].Kind != opsB[pos].Kind || opsA[pos].Node != opsB[pos].Node {
			mismatches = append(mismatches, Mismatch{
				Kind: MismatchOp, Pos: pos,
				A: opsA[pos].String(), B: opsB[pos].String(),
			})
		}
	}
	return mismatches, nil
}

func sameErrorClass(a, b error) bool {
	if (a == nil) != (b == nil) {
		return false
	}
	if a == nil {
		return true
	}
	return errors.Is(a, ErrBudgetTooSmall) == errors.Is(b, ErrBudgetTooSmall) &&
		errors.Is(a, ErrProfilingIncomplete) == errors.Is(b, ErrProfilingIncomplete)
}

func renderCost(c int64) string {
	if c == CostInfeasible {
		return "Infeasible"
	}
	return fmt.Sprintf("%d", c)
}

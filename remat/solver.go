package remat

import "fmt"

// Solver computes an optimal activation-rematerialization table for a
// Sequence under a Budget. Solve is a pure function of its inputs: no I/O,
// no global state, synchronous and blocking. Independent solves (e.g. for
// different candidate budgets) may run concurrently; a returned OptTable is
// exclusively owned by its caller and read-only.
//
// Two implementations exist in remat/rotor: Reference (top-down memoized,
// nested tables, written for readability) and Arena (bottom-up over flat
// arenas, written for speed). Both must produce identical tables for
// identical inputs; see Compare.
type Solver interface {
	// Name identifies the backend in harness reports.
	Name() string

	// Solve computes the full OptTable. If the top-level cell
	// (Levels-1, 0, N) is infeasible, Solve fails with a
	// *BudgetTooSmallError and returns no table.
	Solve(seq *Sequence, budget Budget) (*OptTable, error)
}

// Backend constructors, set by remat/rotor's init(). The indirection
// breaks the import cycle between remat (interface owner) and remat/rotor
// (implementations): package remat's own tests obtain backends through
// these variables after a blank import of remat/rotor.
var (
	NewReferenceSolverFunc func() Solver
	NewArenaSolverFunc     func() Solver
)

// ValidateSolveInput performs the input checks shared by both backends.
func ValidateSolveInput(seq *Sequence, budget Budget) error {
	if seq == nil || seq.Len() == 0 {
		return fmt.Errorf("sequence must contain at least one node")
	}
	return budget.Validate()
}

// FinishSolve applies the top-level feasibility contract shared by both
// backends: an infeasible (Levels-1, 0, N) cell fails the solve with
// BudgetTooSmall, carrying the minimal budget increment when one is
// computable (a single node larger than the whole budget).
func FinishSolve(table *OptTable, seq *Sequence, budget Budget) (*OptTable, error) {
	if table.Feasible(budget.Levels-1, 0, seq.Len()) {
		return table, nil
	}
	err := &BudgetTooSmallError{Budget: budget}
	if max := seq.MaxMemBytes(); max > budget.Bytes {
		err.MinRequiredBytes = max
	}
	return nil, err
}

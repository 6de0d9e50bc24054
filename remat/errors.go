package remat

import (
	"errors"
	"fmt"
)

// ErrProfilingIncomplete reports a node with missing cost metadata.
// Missing costs are never defaulted to zero: a zero-cost node would make
// the optimizer prefer recomputing it for free and corrupt the schedule.
var ErrProfilingIncomplete = errors.New("profiling incomplete")

// ErrBudgetTooSmall reports that no feasible schedule exists under the
// requested budget, even with maximal recomputation.
var ErrBudgetTooSmall = errors.New("memory budget too small")

// ErrCorruptTable reports an internal invariant violation while unwinding
// an OptTable. It indicates a solver bug and is never expected in correct
// operation.
var ErrCorruptTable = errors.New("corrupt opt table")

// BudgetTooSmallError carries the failing budget and, when computable, the
// minimal number of extra bytes that would make the solve feasible.
type BudgetTooSmallError struct {
	Budget Budget

	// MinRequiredBytes is the smallest budget known to be necessary, or 0
	// when no increment hint could be computed. It is a lower bound, not a
	// guarantee of feasibility.
	MinRequiredBytes int64
}

func (e *BudgetTooSmallError) Error() string {
	if e.MinRequiredBytes > 0 {
		return fmt.Sprintf("memory budget too small: %d bytes over %d levels, need at least %d bytes",
			e.Budget.Bytes, e.Budget.Levels, e.MinRequiredBytes)
	}
	return fmt.Sprintf("memory budget too small: %d bytes over %d levels", e.Budget.Bytes, e.Budget.Levels)
}

// Is makes errors.Is(err, ErrBudgetTooSmall) match.
func (e *BudgetTooSmallError) Is(target error) bool {
	return target == ErrBudgetTooSmall
}

package remat

import (
	"fmt"
	"math"
)

// CostInfeasible marks an OptTable cell for which no schedule fits under
// the cell's budget level. It is a sentinel, not an error: callers must
// treat Infeasible entries as requiring a larger Budget.
const CostInfeasible = int64(math.MaxInt64)

// Decision encodings stored alongside each cell's cost. Non-negative values
// are checkpoint boundary indices.
const (
	// DecisionNone marks an unset or infeasible cell.
	DecisionNone = int32(-1)

	// DecisionSequential marks a cell solved by full retention: every
	// activation in the span is kept and nothing is recomputed.
	DecisionSequential = int32(-2)
)

// Budget is a memory ceiling in bytes, quantized into Levels discrete
// levels for the DP recursion.
//
// Discretization rule: one level unit is ceil(Bytes/Levels) bytes; a node
// occupies ceil(MemBytes/unit) units; budget level m caps the resident
// activation total at m+1 units. The rule is fixed and deterministic so
// that both solver backends discretize identically.
type Budget struct {
	Bytes  int64
	Levels int
}

// Validate checks the budget parameters.
func (b Budget) Validate() error {
	if b.Bytes <= 0 {
		return fmt.Errorf("budget bytes must be positive, got %d", b.Bytes)
	}
	if b.Levels <= 0 {
		return fmt.Errorf("budget levels must be positive, got %d", b.Levels)
	}
	return nil
}

// Unit returns the size of one budget level in bytes: ceil(Bytes/Levels).
func (b Budget) Unit() int64 {
	return (b.Bytes + int64(b.Levels) - 1) / int64(b.Levels)
}

// NodeLevels returns, per node, the number of budget units the node's
// activation occupies: ceil(MemBytes/unit). A zero-byte activation
// occupies zero units.
func (b Budget) NodeLevels(seq *Sequence) []int64 {
	unit := b.Unit()
	lv := make([]int64, seq.Len())
	for i := range lv {
		lv[i] = (seq.Node(i).MemBytes + unit - 1) / unit
	}
	return lv
}

// OptTable is the DP memo of optimal sub-schedule costs. Cell (m, i, j)
// holds the minimum total compute cost to forward-and-backward-execute
// nodes [i, j) without exceeding budget level m, together with the chosen
// decision (a checkpoint boundary, DecisionSequential, or DecisionNone
// when the cell is infeasible).
//
// Cells live in two flat arenas indexed m*(N+1)*(N+1) + i*(N+1) + j; a
// single allocation per arena keeps the hot DP loops cache-friendly.
// Backends fill the table through SetCell during Solve; afterwards the
// table is read-only.
type OptTable struct {
	n      int // sequence length N; spans use indices 0..N inclusive
	levels int
	budget Budget
	nodeLv []int64
	cost   []int64
	dec    []int32
}

// NewOptTable allocates a table for seq under budget. All cells start
// Infeasible except the i == j base cases, which are 0.
func NewOptTable(seq *Sequence, budget Budget) *OptTable {
	n := seq.Len()
	side := n + 1
	t := &OptTable{
		n:      n,
		levels: budget.Levels,
		budget: budget,
		nodeLv: budget.NodeLevels(seq),
		cost:   make([]int64, budget.Levels*side*side),
		dec:    make([]int32, budget.Levels*side*side),
	}
	for idx := range t.cost {
		t.cost[idx] = CostInfeasible
		t.dec[idx] = DecisionNone
	}
	for m := 0; m < budget.Levels; m++ {
		for i := 0; i <= n; i++ {
			t.cost[t.idx(m, i, i)] = 0
			t.dec[t.idx(m, i, i)] = DecisionSequential
		}
	}
	return t
}

func (t *OptTable) idx(m, i, j int) int {
	side := t.n + 1
	return m*side*side + i*side + j
}

// Len returns the sequence length N the table was solved for.
func (t *OptTable) Len() int {
	return t.n
}

// Levels returns the number of budget levels M.
func (t *OptTable) Levels() int {
	return t.levels
}

// Budget returns the budget the table was solved under.
func (t *OptTable) Budget() Budget {
	return t.budget
}

// NodeLevel returns the discretized unit count of node i's activation.
func (t *OptTable) NodeLevel(i int) int64 {
	return t.nodeLv[i]
}

// Cost returns the minimal total compute cost for cell (m, i, j), or
// CostInfeasible.
func (t *OptTable) Cost(m, i, j int) int64 {
	return t.cost[t.idx(m, i, j)]
}

// Decision returns the stored decision for cell (m, i, j).
func (t *OptTable) Decision(m, i, j int) int32 {
	return t.dec[t.idx(m, i, j)]
}

// Feasible reports whether cell (m, i, j) admits any schedule.
func (t *OptTable) Feasible(m, i, j int) bool {
	return t.cost[t.idx(m, i, j)] != CostInfeasible
}

// SetCell stores a solved cell. It is the write path used by solver
// backends; callers must not mutate a table after Solve returns it.
func (t *OptTable) SetCell(m, i, j int, cost int64, decision int32) {
	idx := t.idx(m, i, j)
	t.cost[idx] = cost
	t.dec[idx] = decision
}

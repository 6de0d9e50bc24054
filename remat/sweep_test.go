package remat

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func uniformSequence(t *testing.T, n int, mem, fwd, bwd int64) *Sequence {
	t.Helper()
	nodes := make([]Node, n)
	for i := range nodes {
		nodes[i] = Node{Index: i, MemBytes: mem, FwdTime: fwd, BwdTime: bwd}
	}
	seq, err := NewSequence(nodes)
	require.NoError(t, err)
	return seq
}

func TestSweep_CurveNonIncreasing(t *testing.T) {
	require.NotNil(t, NewArenaSolverFunc, "rotor backends not registered")
	solver := NewArenaSolverFunc()
	seq := uniformSequence(t, 10, 10, 3, 5)

	budgets := []int64{10, 20, 40, 60, 80, 100}
	points, err := Sweep(context.Background(), solver, seq, budgets, 5)
	require.NoError(t, err)
	require.Len(t, points, len(budgets))

	// Once feasible, larger budgets stay feasible and never cost more.
	seenFeasible := false
	prev := CostInfeasible
	for i, pt := range points {
		assert.Equal(t, budgets[i], pt.Budget.Bytes)
		if seenFeasible {
			assert.True(t, pt.Feasible, "budget %d: feasibility must be monotone", pt.Budget.Bytes)
		}
		if pt.Feasible {
			seenFeasible = true
			assert.LessOrEqual(t, pt.Cost, prev, "budget %d: cost must be non-increasing", pt.Budget.Bytes)
			prev = pt.Cost
		}
	}
	assert.True(t, seenFeasible, "at least the largest budget must be feasible")
}

func TestSweep_InfeasibleBudgetRecordedNotFatal(t *testing.T) {
	require.NotNil(t, NewArenaSolverFunc, "rotor backends not registered")
	solver := NewArenaSolverFunc()
	seq := uniformSequence(t, 3, 1000, 1, 1)

	points, err := Sweep(context.Background(), solver, seq, []int64{1, 5000}, 4)
	require.NoError(t, err)

	assert.False(t, points[0].Feasible)
	assert.Equal(t, CostInfeasible, points[0].Cost)
	assert.True(t, points[1].Feasible)
}

func TestMinimalFeasibleBudget_SingleNode(t *testing.T) {
	require.NotNil(t, NewReferenceSolverFunc, "rotor backends not registered")
	solver := NewReferenceSolverFunc()
	seq := uniformSequence(t, 1, 100, 1, 1)

	// With one level, the node fits exactly when the budget reaches its size.
	got, err := MinimalFeasibleBudget(context.Background(), solver, seq, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(100), got)
}

func TestMinimalFeasibleBudget_DiscretizationRounding(t *testing.T) {
	require.NotNil(t, NewArenaSolverFunc, "rotor backends not registered")
	solver := NewArenaSolverFunc()
	seq := uniformSequence(t, 2, 60, 1, 1)

	// Two 60-byte nodes over 2 levels: each node must round to one unit,
	// so unit >= 60, i.e. bytes >= 119 (ceil(119/2) = 60).
	got, err := MinimalFeasibleBudget(context.Background(), solver, seq, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(119), got)
}

func TestMinimalFeasibleBudget_Cancellation(t *testing.T) {
	require.NotNil(t, NewArenaSolverFunc, "rotor backends not registered")
	solver := NewArenaSolverFunc()
	seq := uniformSequence(t, 4, 10, 1, 1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := MinimalFeasibleBudget(ctx, solver, seq, 4)
	assert.ErrorIs(t, err, context.Canceled)
}

package rotor

import (
	"testing"

	"github.com/remat-rotor/remat-rotor/remat"
)

// backends returns both solver implementations; property tests iterate
// over them so every contract is pinned on each backend independently.
func backends() []remat.Solver {
	return []remat.Solver{NewReference(), NewArena()}
}

func uniformSeq(t *testing.T, n int, mem, fwd, bwd int64) *remat.Sequence {
	t.Helper()
	nodes := make([]remat.Node, n)
	for i := range nodes {
		nodes[i] = remat.Node{Index: i, MemBytes: mem, FwdTime: fwd, BwdTime: bwd}
	}
	seq, err := remat.NewSequence(nodes)
	if err != nil {
		t.Fatalf("NewSequence: %v", err)
	}
	return seq
}

func seqFromNodes(t *testing.T, nodes []remat.Node) *remat.Sequence {
	t.Helper()
	for i := range nodes {
		nodes[i].Index = i
	}
	seq, err := remat.NewSequence(nodes)
	if err != nil {
		t.Fatalf("NewSequence: %v", err)
	}
	return seq
}

func mustSolve(t *testing.T, s remat.Solver, seq *remat.Sequence, budget remat.Budget) *remat.OptTable {
	t.Helper()
	table, err := s.Solve(seq, budget)
	if err != nil {
		t.Fatalf("%s.Solve: %v", s.Name(), err)
	}
	return table
}

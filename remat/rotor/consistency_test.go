package rotor

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/remat-rotor/remat-rotor/remat"
	"github.com/remat-rotor/remat-rotor/remat/graphgen"
)

// TestConsistency_RandomizedInputs is the dual-backend contract: for
// seeded random sequences and budgets, every OptTable cell and every
// materialized operation must be identical across Reference and Arena.
func TestConsistency_RandomizedInputs(t *testing.T) {
	ref := NewReference()
	arena := NewArena()
	rng := rand.New(rand.NewSource(7))

	for c := 0; c < 40; c++ {
		n := 2 + rng.Intn(14)
		seq, err := graphgen.Generate(rng, graphgen.Spec{
			Nodes: n,
			Mem:   graphgen.ExponentialSampler{Mean: 256, Min: 1},
			Fwd:   graphgen.UniformSampler{Min: 0, Max: 50},
			Bwd:   graphgen.UniformSampler{Min: 0, Max: 100},
		})
		if err != nil {
			t.Fatalf("case %d: Generate: %v", c, err)
		}
		budget := remat.Budget{
			Bytes:  1 + rng.Int63n(seq.TotalMemBytes()),
			Levels: 2 + rng.Intn(7),
		}

		mismatches, err := remat.Compare(ref, arena, seq, budget)
		if err != nil {
			t.Fatalf("case %d: Compare: %v", c, err)
		}
		for _, mm := range mismatches {
			t.Errorf("case %d (n=%d, budget=%+v): %s", c, n, budget, mm)
		}
	}
}

func TestConsistency_AdversarialCases(t *testing.T) {
	ref := NewReference()
	arena := NewArena()

	cases, err := graphgen.AdversarialCases()
	if err != nil {
		t.Fatalf("AdversarialCases: %v", err)
	}
	for _, tc := range cases {
		mismatches, err := remat.Compare(ref, arena, tc.Seq, tc.Budget)
		if err != nil {
			t.Fatalf("case %s: Compare: %v", tc.Name, err)
		}
		for _, mm := range mismatches {
			t.Errorf("case %s: %s", tc.Name, mm)
		}
	}
}

// TestConsistency_ReplayCostMatchesTable pins the materializer guarantee
// on solver-produced tables: replaying the schedule reproduces exactly the
// top-level table cost.
func TestConsistency_ReplayCostMatchesTable(t *testing.T) {
	rng := rand.New(rand.NewSource(11))

	for c := 0; c < 20; c++ {
		n := 2 + rng.Intn(12)
		seq, err := graphgen.Generate(rng, graphgen.Spec{
			Nodes: n,
			Mem:   graphgen.GaussianSampler{Mean: 100, StdDev: 40, Min: 1, Max: 400},
			Fwd:   graphgen.UniformSampler{Min: 1, Max: 30},
			Bwd:   graphgen.UniformSampler{Min: 1, Max: 60},
		})
		if err != nil {
			t.Fatalf("case %d: Generate: %v", c, err)
		}
		budget := remat.Budget{
			Bytes:  1 + seq.TotalMemBytes()/2,
			Levels: 2 + rng.Intn(6),
		}

		for _, s := range backends() {
			table, err := s.Solve(seq, budget)
			if errors.Is(err, remat.ErrBudgetTooSmall) {
				continue
			}
			if err != nil {
				t.Fatalf("case %d: %s.Solve: %v", c, s.Name(), err)
			}
			ops, err := remat.Materialize(table, seq)
			if err != nil {
				t.Fatalf("case %d: %s: Materialize: %v", c, s.Name(), err)
			}
			want := table.Cost(budget.Levels-1, 0, seq.Len())
			if got := remat.ReplayCost(seq, ops); got != want {
				t.Errorf("case %d: %s: replay cost %d, table cost %d", c, s.Name(), got, want)
			}
		}
	}
}

// TestScenario_FullRetentionWithinBudget: 50 uniform nodes of 10 memory
// units each under a budget covering exactly 500 units must schedule with
// zero recomputation.
func TestScenario_FullRetentionWithinBudget(t *testing.T) {
	seq := uniformSeq(t, 50, 10, 3, 5)
	budget := remat.Budget{Bytes: 500, Levels: 50} // unit=10, cap 50 units

	baseline := seq.SumFwd(0, 50) + seq.SumBwd(0, 50)

	table := mustSolve(t, NewArena(), seq, budget)
	if got := table.Cost(49, 0, 50); got != baseline {
		t.Errorf("Cost(49,0,50): got %d, want no-recompute baseline %d", got, baseline)
	}
	if got := table.Decision(49, 0, 50); got != remat.DecisionSequential {
		t.Errorf("Decision(49,0,50): got %d, want sequential", got)
	}
}

// TestScenario_TightBudgetForcesRecomputation: the same 50 nodes under a
// budget covering only 50 units must still be schedulable, at a cost
// strictly above the no-recomputation baseline.
func TestScenario_TightBudgetForcesRecomputation(t *testing.T) {
	seq := uniformSeq(t, 50, 10, 3, 5)
	budget := remat.Budget{Bytes: 50, Levels: 5} // unit=10, cap 5 units

	baseline := seq.SumFwd(0, 50) + seq.SumBwd(0, 50)

	table := mustSolve(t, NewArena(), seq, budget)
	got := table.Cost(4, 0, 50)
	if got == remat.CostInfeasible {
		t.Fatal("expected a feasible schedule under the tight budget")
	}
	if got <= baseline {
		t.Errorf("Cost(4,0,50): got %d, want > baseline %d (checkpointing must cost extra)", got, baseline)
	}

	ops, err := remat.Materialize(table, seq)
	if err != nil {
		t.Fatalf("Materialize: %v", err)
	}
	if got := remat.ReplayCost(seq, ops); got != table.Cost(4, 0, 50) {
		t.Errorf("replay cost %d, table cost %d", got, table.Cost(4, 0, 50))
	}
}

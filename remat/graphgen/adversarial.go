package graphgen

import (
	"fmt"

	"github.com/remat-rotor/remat-rotor/remat"
)

// Case is one fixed harness input: a sequence plus the budget to solve it
// under.
type Case struct {
	Name   string
	Seq    *remat.Sequence
	Budget remat.Budget
}

// AdversarialCases returns hand-crafted inputs that stress the solver's
// edge behavior: tight budgets that force deep recomputation chains, a
// memory spike that dominates the budget, zero-cost nodes that create cost
// ties, and an infeasible input on which both backends must fail alike.
func AdversarialCases() ([]Case, error) {
	var cases []Case
	add := func(name string, nodes []remat.Node, budget remat.Budget) error {
		seq, err := remat.NewSequence(nodes)
		if err != nil {
			return fmt.Errorf("case %s: %w", name, err)
		}
		cases = append(cases, Case{Name: name, Seq: seq, Budget: budget})
		return nil
	}

	uniform, err := UniformChain(12, 100, 7, 11)
	if err != nil {
		return nil, err
	}
	cases = append(cases,
		Case{Name: "uniform_tight", Seq: uniform, Budget: remat.Budget{Bytes: 300, Levels: 3}},
		Case{Name: "uniform_roomy", Seq: uniform, Budget: remat.Budget{Bytes: 1200, Levels: 12}},
	)

	spike := make([]remat.Node, 9)
	for i := range spike {
		spike[i] = remat.Node{Index: i, Name: fmt.Sprintf("n%d", i), MemBytes: 50, FwdTime: 5, BwdTime: 9}
	}
	spike[4].MemBytes = 400
	if err := add("mid_spike", spike, remat.Budget{Bytes: 600, Levels: 6}); err != nil {
		return nil, err
	}

	// Zero compute times make many candidates cost-equal; the smallest-k
	// tie-break is the only thing keeping backends aligned here.
	ties := make([]remat.Node, 10)
	for i := range ties {
		ties[i] = remat.Node{Index: i, Name: fmt.Sprintf("n%d", i), MemBytes: 64}
	}
	if err := add("all_zero_time", ties, remat.Budget{Bytes: 256, Levels: 4}); err != nil {
		return nil, err
	}

	ramp := make([]remat.Node, 8)
	for i := range ramp {
		ramp[i] = remat.Node{
			Index:    i,
			Name:     fmt.Sprintf("n%d", i),
			MemBytes: int64(8-i) * 100,
			FwdTime:  int64(i + 1),
			BwdTime:  int64(2 * (i + 1)),
		}
	}
	if err := add("decreasing_mem", ramp, remat.Budget{Bytes: 1000, Levels: 5}); err != nil {
		return nil, err
	}

	giant := []remat.Node{
		{Index: 0, Name: "small", MemBytes: 10, FwdTime: 1, BwdTime: 1},
		{Index: 1, Name: "giant", MemBytes: 100_000, FwdTime: 1, BwdTime: 1},
		{Index: 2, Name: "small2", MemBytes: 10, FwdTime: 1, BwdTime: 1},
	}
	if err := add("infeasible_giant", giant, remat.Budget{Bytes: 500, Levels: 5}); err != nil {
		return nil, err
	}
	return cases, nil
}

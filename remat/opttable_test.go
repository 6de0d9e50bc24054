package remat

import "testing"

func TestBudget_Unit_CeilDivision(t *testing.T) {
	b := Budget{Bytes: 100, Levels: 8}
	if got := b.Unit(); got != 13 {
		t.Errorf("Unit: got %d, want 13 (ceil(100/8))", got)
	}
	if got := (Budget{Bytes: 100, Levels: 10}).Unit(); got != 10 {
		t.Errorf("Unit exact division: got %d, want 10", got)
	}
}

func TestBudget_NodeLevels(t *testing.T) {
	seq, err := NewSequence(testNodes(
		[]int64{0, 13, 14, 100},
		[]int64{1, 1, 1, 1},
		[]int64{1, 1, 1, 1},
	))
	if err != nil {
		t.Fatalf("NewSequence: %v", err)
	}
	b := Budget{Bytes: 100, Levels: 8} // unit = 13

	got := b.NodeLevels(seq)
	want := []int64{0, 1, 2, 8}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("NodeLevels[%d]: got %d, want %d", i, got[i], want[i])
		}
	}
}

func TestBudget_Validate(t *testing.T) {
	if err := (Budget{Bytes: 0, Levels: 4}).Validate(); err == nil {
		t.Error("zero bytes: expected error")
	}
	if err := (Budget{Bytes: 100, Levels: 0}).Validate(); err == nil {
		t.Error("zero levels: expected error")
	}
	if err := (Budget{Bytes: 100, Levels: 4}).Validate(); err != nil {
		t.Errorf("valid budget: unexpected error %v", err)
	}
}

func TestNewOptTable_BaseCasesZero_OthersInfeasible(t *testing.T) {
	seq, err := NewSequence(testNodes(
		[]int64{10, 10, 10},
		[]int64{1, 1, 1},
		[]int64{1, 1, 1},
	))
	if err != nil {
		t.Fatalf("NewSequence: %v", err)
	}
	tbl := NewOptTable(seq, Budget{Bytes: 30, Levels: 4})

	for m := 0; m < 4; m++ {
		for i := 0; i <= 3; i++ {
			if got := tbl.Cost(m, i, i); got != 0 {
				t.Errorf("base cell (%d,%d,%d): got %d, want 0", m, i, i, got)
			}
			for j := i + 1; j <= 3; j++ {
				if tbl.Feasible(m, i, j) {
					t.Errorf("fresh cell (%d,%d,%d): expected Infeasible", m, i, j)
				}
			}
		}
	}
}

func TestOptTable_SetCellRoundtrip(t *testing.T) {
	seq, err := NewSequence(testNodes(
		[]int64{10, 10}, []int64{1, 1}, []int64{1, 1},
	))
	if err != nil {
		t.Fatalf("NewSequence: %v", err)
	}
	tbl := NewOptTable(seq, Budget{Bytes: 20, Levels: 3})

	tbl.SetCell(2, 0, 2, 42, DecisionSequential)
	tbl.SetCell(0, 1, 2, 7, 1)

	if got := tbl.Cost(2, 0, 2); got != 42 {
		t.Errorf("Cost(2,0,2): got %d, want 42", got)
	}
	if got := tbl.Decision(2, 0, 2); got != DecisionSequential {
		t.Errorf("Decision(2,0,2): got %d, want sequential", got)
	}
	if got := tbl.Cost(0, 1, 2); got != 7 {
		t.Errorf("Cost(0,1,2): got %d, want 7", got)
	}
	if got := tbl.Decision(0, 1, 2); got != 1 {
		t.Errorf("Decision(0,1,2): got %d, want 1", got)
	}
	// Neighboring cells untouched
	if tbl.Feasible(1, 0, 2) {
		t.Error("Cost(1,0,2): expected still Infeasible")
	}
}

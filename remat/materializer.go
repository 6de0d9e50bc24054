package remat

import "fmt"

// Materialize unwinds a fully solved OptTable from the top-level query
// (Levels-1, 0, N) into a flat, executable operation sequence.
//
// Sequential cells emit grad-enabled forwards in execution order, the Loss
// at the end of the global forward chain, then backwards in reverse order.
// Checkpoint cells emit a streaming pass through the left segment
// (ForwardCheckpoint on the first pass, ForwardNoGrad inside a replay),
// then the right segment, then the left-segment replay under its reduced
// budget — re-running dropped nodes exactly where backward needs them.
//
// Materialize fails with ErrCorruptTable if it reaches an infeasible cell;
// that cannot happen on a table returned by a successful Solve.
func Materialize(table *OptTable, seq *Sequence) ([]Operation, error) {
	if table.Len() != seq.Len() {
		return nil, fmt.Errorf("table solved for %d nodes, sequence has %d", table.Len(), seq.Len())
	}
	ops := make([]Operation, 0, 4*seq.Len())
	if err := unwind(table, seq, table.Levels()-1, 0, seq.Len(), false, &ops); err != nil {
		return nil, err
	}
	return ops, nil
}

func unwind(t *OptTable, seq *Sequence, m, i, j int, replay bool, ops *[]Operation) error {
	if i == j {
		return nil
	}
	if !t.Feasible(m, i, j) {
		return fmt.Errorf("unwinding infeasible cell (%d, %d, %d): %w", m, i, j, ErrCorruptTable)
	}
	dec := t.Decision(m, i, j)
	switch {
	case dec == DecisionSequential:
		for n := i; n < j; n++ {
			*ops = append(*ops, Operation{Kind: OpForward, Node: n, MemDelta: seq.Node(n).MemBytes})
		}
		if j == seq.Len() && !replay {
			*ops = append(*ops, Operation{Kind: OpLoss, Node: -1})
		}
		for n := j - 1; n >= i; n-- {
			*ops = append(*ops, Operation{Kind: OpBackward, Node: n, MemDelta: -seq.Node(n).MemBytes})
		}
		return nil

	case int(dec) > i && int(dec) < j:
		k := int(dec)
		streamKind := OpForwardCheckpoint
		if replay {
			streamKind = OpForwardNoGrad
		}
		for n := i; n < k; n++ {
			*ops = append(*ops, Operation{Kind: streamKind, Node: n})
		}
		if err := unwind(t, seq, m, k, j, replay, ops); err != nil {
			return err
		}
		reduced := m - int(t.NodeLevel(k))
		if reduced < 0 {
			return fmt.Errorf("cell (%d, %d, %d): checkpoint %d needs %d levels: %w",
				m, i, j, k, t.NodeLevel(k), ErrCorruptTable)
		}
		return unwind(t, seq, reduced, i, k, true, ops)

	default:
		return fmt.Errorf("cell (%d, %d, %d): invalid decision %d: %w", m, i, j, dec, ErrCorruptTable)
	}
}

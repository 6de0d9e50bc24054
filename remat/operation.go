package remat

import "fmt"

// OpKind enumerates the schedule IR vocabulary consumed by downstream code
// generation. The rotor materializer emits the first five kinds; Offload
// and Prefetch belong to offloading schedules produced by other planners
// and are carried so one Operation type covers the whole IR.
type OpKind int

const (
	// OpForward runs a node with autograd state, keeping its activation.
	OpForward OpKind = iota

	// OpForwardCheckpoint runs a node and drops its activation; the node
	// will be recomputed when backward needs it.
	OpForwardCheckpoint

	// OpForwardNoGrad runs a node without autograd state, during a replay
	// pass that only needs to reach a checkpoint boundary.
	OpForwardNoGrad

	// OpBackward backpropagates through a node and frees its activation.
	OpBackward

	// OpLoss computes the loss at the end of the forward chain.
	OpLoss

	// OpOffload moves an activation to host memory.
	OpOffload

	// OpPrefetch moves an offloaded activation back to device memory.
	OpPrefetch
)

func (k OpKind) String() string {
	switch k {
	case OpForward:
		return "F"
	case OpForwardCheckpoint:
		return "Fck"
	case OpForwardNoGrad:
		return "Fng"
	case OpBackward:
		return "B"
	case OpLoss:
		return "Loss"
	case OpOffload:
		return "Off"
	case OpPrefetch:
		return "Pre"
	default:
		return fmt.Sprintf("OpKind(%d)", int(k))
	}
}

// Operation is one scheduling decision: run, drop, or backpropagate a
// node. Node is -1 for OpLoss. MemDelta is the change in resident
// activation bytes the operation causes: positive for retaining forwards,
// negative for backwards, zero for streamed passes.
type Operation struct {
	Kind     OpKind
	Node     int
	MemDelta int64
}

func (op Operation) String() string {
	if op.Kind == OpLoss {
		return "Loss"
	}
	return fmt.Sprintf("%s(%d)", op.Kind, op.Node)
}

// ReplayCost sums the compute cost of an operation sequence: forward time
// for every forward kind (retained or streamed), backward time for
// backwards. Replaying a materialized schedule must reproduce exactly the
// top-level OptTable cost.
func ReplayCost(seq *Sequence, ops []Operation) int64 {
	var total int64
	for _, op := range ops {
		switch op.Kind {
		case OpForward, OpForwardCheckpoint, OpForwardNoGrad:
			total += seq.Node(op.Node).FwdTime
		case OpBackward:
			total += seq.Node(op.Node).BwdTime
		}
	}
	return total
}

package remat

import "fmt"

// Node is one unit of computation in the traced forward path.
// MemBytes is the size of the activation that must stay resident if the
// node is kept as a checkpoint boundary. FwdTime and BwdTime are device-time
// ticks. Nodes are immutable once the Sequence is built.
type Node struct {
	Index    int
	Name     string
	MemBytes int64
	FwdTime  int64
	BwdTime  int64
}

// Sequence is the ordered forward computation path being scheduled.
// Indices are contiguous and 0-based; this total order is what the DP
// recursion consumes. Prefix sums are precomputed once so that both solver
// backends answer range-sum queries with identical integer arithmetic.
type Sequence struct {
	nodes     []Node
	fwdPrefix []int64 // fwdPrefix[i] = sum of FwdTime over nodes [0, i)
	bwdPrefix []int64
}

// NewSequence validates the node list and builds prefix sums.
func NewSequence(nodes []Node) (*Sequence, error) {
	if len(nodes) == 0 {
		return nil, fmt.Errorf("sequence must contain at least one node")
	}
	for i, nd := range nodes {
		if nd.Index != i {
			return nil, fmt.Errorf("node %d: index must be %d (contiguous, 0-based), got %d", i, i, nd.Index)
		}
		if nd.MemBytes < 0 {
			return nil, fmt.Errorf("node %d (%s): memory must be non-negative, got %d", i, nd.Name, nd.MemBytes)
		}
		if nd.FwdTime < 0 || nd.BwdTime < 0 {
			return nil, fmt.Errorf("node %d (%s): compute time must be non-negative, got fwd=%d bwd=%d",
				i, nd.Name, nd.FwdTime, nd.BwdTime)
		}
	}
	s := &Sequence{
		nodes:     append([]Node(nil), nodes...),
		fwdPrefix: make([]int64, len(nodes)+1),
		bwdPrefix: make([]int64, len(nodes)+1),
	}
	for i, nd := range nodes {
		s.fwdPrefix[i+1] = s.fwdPrefix[i] + nd.FwdTime
		s.bwdPrefix[i+1] = s.bwdPrefix[i] + nd.BwdTime
	}
	return s, nil
}

// Len returns the number of nodes N.
func (s *Sequence) Len() int {
	return len(s.nodes)
}

// Node returns the node at index i.
func (s *Sequence) Node(i int) Node {
	return s.nodes[i]
}

// SumFwd returns the total forward time of nodes [i, j).
func (s *Sequence) SumFwd(i, j int) int64 {
	return s.fwdPrefix[j] - s.fwdPrefix[i]
}

// SumBwd returns the total backward time of nodes [i, j).
func (s *Sequence) SumBwd(i, j int) int64 {
	return s.bwdPrefix[j] - s.bwdPrefix[i]
}

// MaxMemBytes returns the largest single-node activation size.
func (s *Sequence) MaxMemBytes() int64 {
	var max int64
	for _, nd := range s.nodes {
		if nd.MemBytes > max {
			max = nd.MemBytes
		}
	}
	return max
}

// TotalMemBytes returns the sum of all activation sizes.
func (s *Sequence) TotalMemBytes() int64 {
	var total int64
	for _, nd := range s.nodes {
		total += nd.MemBytes
	}
	return total
}

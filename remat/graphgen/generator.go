// Package graphgen builds profiled sequences for the dual-backend
// consistency harness: seeded random chains for property tests and a
// fixed set of adversarial fixtures. Generation is deterministic given
// the caller's *rand.Rand.
package graphgen

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/remat-rotor/remat-rotor/remat"
)

// Sampler generates per-node cost samples.
type Sampler interface {
	// Sample returns a non-negative value.
	Sample(rng *rand.Rand) int64
}

// UniformSampler draws uniformly from [Min, Max].
type UniformSampler struct {
	Min, Max int64
}

func (s UniformSampler) Sample(rng *rand.Rand) int64 {
	if s.Min >= s.Max {
		return s.Min
	}
	return s.Min + rng.Int63n(s.Max-s.Min+1)
}

// GaussianSampler draws clamped Gaussian samples.
type GaussianSampler struct {
	Mean, StdDev float64
	Min, Max     int64
}

func (s GaussianSampler) Sample(rng *rand.Rand) int64 {
	if s.Min == s.Max {
		return s.Min
	}
	val := rng.NormFloat64()*s.StdDev + s.Mean
	clamped := math.Min(float64(s.Max), math.Max(float64(s.Min), val))
	return int64(math.Round(clamped))
}

// ExponentialSampler draws exponentially-distributed samples with a floor.
type ExponentialSampler struct {
	Mean float64
	Min  int64
}

func (s ExponentialSampler) Sample(rng *rand.Rand) int64 {
	val := int64(math.Round(rng.ExpFloat64() * s.Mean))
	if val < s.Min {
		return s.Min
	}
	return val
}

// Spec describes one random sequence to generate.
type Spec struct {
	Nodes int
	Mem   Sampler
	Fwd   Sampler
	Bwd   Sampler
}

// Generate draws a valid Sequence according to the given Spec.
func Generate(rng *rand.Rand, spec Spec) (*remat.Sequence, error) {
	if spec.Nodes <= 0 {
		return nil, fmt.Errorf("spec nodes must be positive, got %d", spec.Nodes)
	}
	nodes := make([]remat.Node, spec.Nodes)
	for i := range nodes {
		nodes[i] = remat.Node{
			Index:    i,
			Name:     fmt.Sprintf("node_%d", i),
			MemBytes: spec.Mem.Sample(rng),
			FwdTime:  spec.Fwd.Sample(rng),
			BwdTime:  spec.Bwd.Sample(rng),
		}
	}
	return remat.NewSequence(nodes)
}

// UniformChain builds a fixed chain of n identical nodes.
func UniformChain(n int, mem, fwd, bwd int64) (*remat.Sequence, error) {
	nodes := make([]remat.Node, n)
	for i := range nodes {
		nodes[i] = remat.Node{
			Index:    i,
			Name:     fmt.Sprintf("layer_%d", i),
			MemBytes: mem,
			FwdTime:  fwd,
			BwdTime:  bwd,
		}
	}
	return remat.NewSequence(nodes)
}

package remat

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
)

// MissingTime marks an unmeasured time in a NodeProfile. YAML and JSON
// decode absent fields to zero, which is a legal measurement, so absence
// is encoded explicitly as a negative value by the loaders.
const MissingTime = float64(-1)

// NodeProfile is the raw per-node measurement produced by the external
// graph profiler. Times are microseconds; negative means not measured.
// FwdFLOPs/BwdFLOPs optionally allow deriving missing times through a
// fitted FLOPs calibration.
type NodeProfile struct {
	Name      string
	MemBytes  int64
	FwdMicros float64
	BwdMicros float64
	FwdFLOPs  float64
	BwdFLOPs  float64
}

// CostModel converts profiler output into a cost-annotated Sequence.
// A node whose memory or time cannot be determined fails the conversion
// with ErrProfilingIncomplete; nothing is ever defaulted to zero.
type CostModel struct {
	// TicksPerMicro scales measured microseconds to solver ticks.
	// Zero means 1.
	TicksPerMicro float64

	// Calibration, when set, derives times for nodes profiled with FLOP
	// counts only.
	Calibration *FLOPsCalibration
}

// Annotate builds the solver's Sequence from raw profiles.
func (cm *CostModel) Annotate(profiles []NodeProfile) (*Sequence, error) {
	if len(profiles) == 0 {
		return nil, fmt.Errorf("no profiled nodes: %w", ErrProfilingIncomplete)
	}
	scale := cm.TicksPerMicro
	if scale == 0 {
		scale = 1
	}
	nodes := make([]Node, len(profiles))
	for i, p := range profiles {
		if p.MemBytes < 0 {
			return nil, fmt.Errorf("node %d (%s): missing memory cost: %w", i, p.Name, ErrProfilingIncomplete)
		}
		fwd, err := cm.micros(p.FwdMicros, p.FwdFLOPs)
		if err != nil {
			return nil, fmt.Errorf("node %d (%s): forward time: %w", i, p.Name, err)
		}
		bwd, err := cm.micros(p.BwdMicros, p.BwdFLOPs)
		if err != nil {
			return nil, fmt.Errorf("node %d (%s): backward time: %w", i, p.Name, err)
		}
		nodes[i] = Node{
			Index:    i,
			Name:     p.Name,
			MemBytes: p.MemBytes,
			FwdTime:  int64(math.Round(fwd * scale)),
			BwdTime:  int64(math.Round(bwd * scale)),
		}
	}
	return NewSequence(nodes)
}

func (cm *CostModel) micros(measured, flops float64) (float64, error) {
	if measured >= 0 {
		return measured, nil
	}
	if flops > 0 && cm.Calibration != nil {
		est := cm.Calibration.Micros(flops)
		if est < 0 || math.IsNaN(est) || math.IsInf(est, 0) {
			return 0, fmt.Errorf("calibration produced invalid time %v for %v FLOPs: %w",
				est, flops, ErrProfilingIncomplete)
		}
		return est, nil
	}
	return 0, ErrProfilingIncomplete
}

// FLOPsCalibration maps per-node FLOP counts to device microseconds via a
// least-squares linear fit: micros = alpha + beta*flops. It plays the role
// of measured-coefficient latency models where direct per-node timing is
// unavailable.
type FLOPsCalibration struct {
	Alpha float64
	Beta  float64
}

// FitFLOPsCalibration fits the calibration from measured (flops, micros)
// pairs.
func FitFLOPsCalibration(flops, micros []float64) (*FLOPsCalibration, error) {
	if len(flops) != len(micros) {
		return nil, fmt.Errorf("calibration inputs must have equal length, got %d and %d", len(flops), len(micros))
	}
	if len(flops) < 2 {
		return nil, fmt.Errorf("calibration needs at least 2 points, got %d", len(flops))
	}
	alpha, beta := stat.LinearRegression(flops, micros, nil, false)
	if math.IsNaN(alpha) || math.IsNaN(beta) || math.IsInf(alpha, 0) || math.IsInf(beta, 0) {
		return nil, fmt.Errorf("calibration fit is degenerate (alpha=%v, beta=%v)", alpha, beta)
	}
	return &FLOPsCalibration{Alpha: alpha, Beta: beta}, nil
}

// Micros estimates device time for a FLOP count.
func (c *FLOPsCalibration) Micros(flops float64) float64 {
	return c.Alpha + c.Beta*flops
}

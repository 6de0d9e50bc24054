package cmd

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/remat-rotor/remat-rotor/remat"
)

// GraphConfig is the YAML schema for a profiled computation graph. Nodes
// are listed in forward execution order. Times are microseconds; a node
// may carry measured times, or FLOP counts resolved through the
// calibration block.
type GraphConfig struct {
	TicksPerMicro float64           `yaml:"ticks_per_micro,omitempty"`
	Nodes         []GraphNodeConfig `yaml:"nodes"`
	Calibration   *CalibConfig      `yaml:"calibration,omitempty"`
}

// GraphNodeConfig is one profiled node. Micros fields are pointers so a
// genuinely absent measurement is distinguishable from a measured zero.
type GraphNodeConfig struct {
	Name      string   `yaml:"name"`
	MemBytes  int64    `yaml:"mem_bytes"`
	FwdMicros *float64 `yaml:"fwd_micros,omitempty"`
	BwdMicros *float64 `yaml:"bwd_micros,omitempty"`
	FwdFLOPs  float64  `yaml:"fwd_flops,omitempty"`
	BwdFLOPs  float64  `yaml:"bwd_flops,omitempty"`
}

// CalibConfig holds measured (flops, micros) pairs for the linear
// FLOPs-to-time fit.
type CalibConfig struct {
	FLOPs  []float64 `yaml:"flops"`
	Micros []float64 `yaml:"micros"`
}

// LoadGraphConfig reads and parses a profiled-graph YAML file.
func LoadGraphConfig(path string) (*GraphConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading graph config: %w", err)
	}
	var cfg GraphConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing graph config: %w", err)
	}
	if len(cfg.Nodes) == 0 {
		return nil, fmt.Errorf("graph config %s contains no nodes", path)
	}
	return &cfg, nil
}

// BuildSequence converts the parsed config into the solver's Sequence via
// the cost model.
func (cfg *GraphConfig) BuildSequence() (*remat.Sequence, error) {
	cm := &remat.CostModel{TicksPerMicro: cfg.TicksPerMicro}
	if cfg.Calibration != nil {
		calib, err := remat.FitFLOPsCalibration(cfg.Calibration.FLOPs, cfg.Calibration.Micros)
		if err != nil {
			return nil, fmt.Errorf("fitting calibration: %w", err)
		}
		cm.Calibration = calib
	}
	profiles := make([]remat.NodeProfile, len(cfg.Nodes))
	for i, nc := range cfg.Nodes {
		p := remat.NodeProfile{
			Name:      nc.Name,
			MemBytes:  nc.MemBytes,
			FwdMicros: remat.MissingTime,
			BwdMicros: remat.MissingTime,
			FwdFLOPs:  nc.FwdFLOPs,
			BwdFLOPs:  nc.BwdFLOPs,
		}
		if nc.FwdMicros != nil {
			p.FwdMicros = *nc.FwdMicros
		}
		if nc.BwdMicros != nil {
			p.BwdMicros = *nc.BwdMicros
		}
		profiles[i] = p
	}
	return cm.Annotate(profiles)
}

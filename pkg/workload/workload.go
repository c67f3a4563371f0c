// Package workload loads a declarative process mix from YAML so a
// simulation run can be reproduced from a file instead of flags.
package workload

import (
	"fmt"
	"os"

	"github.com/cfssim/cfssim/pkg/simcpu"
	"gopkg.in/yaml.v3"
)

// Process describes one process entry in a workload file.
type Process struct {
	Name      string `yaml:"name"`
	Nice      int    `yaml:"nice"`
	WorkTicks uint32 `yaml:"workTicks"`
}

// Mix is a full workload: a set of processes and how many virtual CPUs
// should service them.
type Mix struct {
	CPUs      int       `yaml:"cpus"`
	Processes []Process `yaml:"processes"`
}

// Load reads and validates a workload file.
func Load(path string) (Mix, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Mix{}, fmt.Errorf("read workload: %w", err)
	}
	var m Mix
	if err := yaml.Unmarshal(b, &m); err != nil {
		return Mix{}, fmt.Errorf("parse workload: %w", err)
	}
	if m.CPUs <= 0 {
		m.CPUs = 1
	}
	if len(m.Processes) == 0 {
		return Mix{}, fmt.Errorf("workload %s: no processes defined", path)
	}
	for _, p := range m.Processes {
		if p.Nice < 0 || p.Nice > 39 {
			return Mix{}, fmt.Errorf("workload %s: process %q has invalid nice %d (want 0..39)", path, p.Name, p.Nice)
		}
	}
	return m, nil
}

// Specs converts the mix's processes into simcpu.ProcessSpec values.
func (m Mix) Specs() []simcpu.ProcessSpec {
	specs := make([]simcpu.ProcessSpec, len(m.Processes))
	for i, p := range m.Processes {
		specs[i] = simcpu.ProcessSpec{
			Name:      p.Name,
			Nice:      uint8(p.Nice),
			TotalWork: p.WorkTicks,
		}
	}
	return specs
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package benchdata holds the hand-entered HPL benchmark figures rendered by
// the chart and deck stages, plus the few ratios derived from them.
package benchdata

import (
	_ "embed"
	"fmt"
	"os"

	"go.yaml.in/yaml/v3"
)

//go:embed data/hpl.yaml
var defaultData []byte

// CPURun is one HPL run on the laptop.
type CPURun struct {
	N       int     `yaml:"n"`
	NB      int     `yaml:"nb"`
	Grid    string  `yaml:"grid"`
	Seconds float64 `yaml:"seconds"`
	GFLOPS  float64 `yaml:"gflops"`
	Passed  bool    `yaml:"passed"`
}

// EfficiencyEntry is one bar of the efficiency comparison chart.
type EfficiencyEntry struct {
	Label   string  `yaml:"label"`
	Percent float64 `yaml:"percent"`
}

// CPU groups the laptop results.
type CPU struct {
	PeakGFLOPS float64           `yaml:"peak_gflops"`
	Runs       []CPURun          `yaml:"runs"`
	Efficiency []EfficiencyEntry `yaml:"efficiency"`
}

// GPURun holds the GFLOPS measured at one problem size with one and two GPUs.
type GPURun struct {
	N      int     `yaml:"n"`
	OneGPU float64 `yaml:"one"`
	TwoGPU float64 `yaml:"two"`
}

// Speedup is the two-GPU throughput over the single-GPU throughput.
func (r GPURun) Speedup() float64 {
	return r.TwoGPU / r.OneGPU
}

// Degradation is the relative change when going from one to two GPUs.
// Negative values mean the second GPU made the run slower.
func (r GPURun) Degradation() float64 {
	return r.TwoGPU/r.OneGPU - 1
}

// ParallelEfficiency is the two-GPU throughput over twice the single-GPU one.
func (r GPURun) ParallelEfficiency() float64 {
	return r.TwoGPU / (2 * r.OneGPU)
}

// GPU describes one accelerator and its runs.
type GPU struct {
	Name       string   `yaml:"name"`
	Arch       string   `yaml:"arch"`
	Partition  string   `yaml:"partition"`
	Memory     string   `yaml:"memory"`
	CUDACores  int      `yaml:"cuda_cores"`
	PeakTFLOPS float64  `yaml:"peak_tflops"`
	PeakGFLOPS float64  `yaml:"peak_gflops"`
	Runs       []GPURun `yaml:"runs"`
}

// Best returns the run at the largest problem size.
func (g GPU) Best() GPURun {
	var best GPURun
	for _, r := range g.Runs {
		if r.N > best.N {
			best = r
		}
	}
	return best
}

// Efficiency is the best single-GPU result over the theoretical peak.
func (g GPU) Efficiency() float64 {
	return g.Best().OneGPU / g.PeakGFLOPS
}

// TwoGPUEfficiency is the best two-GPU result over twice the peak.
func (g GPU) TwoGPUEfficiency() float64 {
	return g.Best().TwoGPU / (2 * g.PeakGFLOPS)
}

// RunAt returns the run at problem size n.
func (g GPU) RunAt(n int) (GPURun, bool) {
	for _, r := range g.Runs {
		if r.N == n {
			return r, true
		}
	}
	return GPURun{}, false
}

// GPUConfig is the HPL.dat configuration used for every GPU run.
type GPUConfig struct {
	NB    int    `yaml:"nb"`
	Grid  string `yaml:"grid"`
	BCAST int    `yaml:"bcast"`
}

// GPUResults groups the accelerator results.
type GPUResults struct {
	Config  GPUConfig `yaml:"config"`
	Devices []GPU     `yaml:"devices"`
}

// Dataset is the full set of figures.
type Dataset struct {
	CPU CPU        `yaml:"cpu"`
	GPU GPUResults `yaml:"gpu"`
}

// Default decodes the embedded dataset. It panics only if the embedded
// document is malformed, which the package tests rule out.
func Default() *Dataset {
	ds, err := Parse(defaultData)
	if err != nil {
		panic(fmt.Sprintf("benchdata: embedded dataset: %v", err))
	}
	return ds
}

// Load reads a dataset from a YAML file. An empty path returns the
// embedded dataset.
func Load(path string) (*Dataset, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading dataset: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates a YAML dataset.
func Parse(data []byte) (*Dataset, error) {
	var ds Dataset
	if err := yaml.Unmarshal(data, &ds); err != nil {
		return nil, fmt.Errorf("parsing dataset: %w", err)
	}
	if err := ds.validate(); err != nil {
		return nil, err
	}
	return &ds, nil
}

func (ds *Dataset) validate() error {
	for i, r := range ds.CPU.Runs {
		if r.N <= 0 || r.GFLOPS <= 0 {
			return fmt.Errorf("cpu run %d: n and gflops must be positive", i)
		}
	}
	for _, g := range ds.GPU.Devices {
		if g.Name == "" {
			return fmt.Errorf("gpu device without a name")
		}
		if g.PeakGFLOPS <= 0 {
			return fmt.Errorf("gpu %s: peak_gflops must be positive", g.Name)
		}
		for _, r := range g.Runs {
			if r.OneGPU <= 0 {
				return fmt.Errorf("gpu %s n=%d: single-GPU result must be positive", g.Name, r.N)
			}
		}
	}
	return nil
}

// Device returns the GPU with the given name.
func (ds *Dataset) Device(name string) (GPU, error) {
	for _, g := range ds.GPU.Devices {
		if g.Name == name {
			return g, nil
		}
	}
	return GPU{}, fmt.Errorf("gpu %q not in dataset", name)
}

// RunsWithNB returns the laptop runs made with block size nb, in input order.
func (ds *Dataset) RunsWithNB(nb int) []CPURun {
	var out []CPURun
	for _, r := range ds.CPU.Runs {
		if r.NB == nb {
			out = append(out, r)
		}
	}
	return out
}

// BestCPURun returns the laptop run with the highest GFLOPS.
func (ds *Dataset) BestCPURun() CPURun {
	var best CPURun
	for _, r := range ds.CPU.Runs {
		if r.GFLOPS > best.GFLOPS {
			best = r
		}
	}
	return best
}

// NBGain is the relative GFLOPS gain of block size tuned over base at size n.
func (ds *Dataset) NBGain(n, base, tuned int) (float64, error) {
	var b, t float64
	for _, r := range ds.CPU.Runs {
		if r.N != n {
			continue
		}
		switch r.NB {
		case base:
			b = r.GFLOPS
		case tuned:
			t = r.GFLOPS
		}
	}
	if b == 0 || t == 0 {
		return 0, fmt.Errorf("no runs for n=%d with nb=%d and nb=%d", n, base, tuned)
	}
	return t/b - 1, nil
}

// TheoreticalFlops is the HPL operation count model 2/3·N³.
func TheoreticalFlops(n int) float64 {
	f := float64(n)
	return 2.0 / 3.0 * f * f * f
}

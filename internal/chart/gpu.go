// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package chart

import (
	"fmt"
	"strings"

	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/pdiddy/hpl-deck/internal/benchdata"
)

// ComparisonFile is the A100 against H100 chart embedded by the results deck.
const ComparisonFile = "a100-h100-hpl.png"

// DeviceFile is the per-device chart name, e.g. "hpl-a100.png".
func DeviceFile(name string) string {
	return "hpl-" + strings.ToLower(name) + ".png"
}

var gpuCharts = []Chart{
	deviceChart("A100"),
	deviceChart("H100"),
	{
		File: ComparisonFile, Width: 8 * vg.Inch, Height: 5 * vg.Inch,
		Build: func(ds *benchdata.Dataset, _ int) (Figure, error) {
			a, err := ds.Device("A100")
			if err != nil {
				return nil, err
			}
			h, err := ds.Device("H100")
			if err != nil {
				return nil, err
			}
			return ComparisonChart(a, h).Plot()
		},
	},
}

func deviceChart(name string) Chart {
	return Chart{
		File: DeviceFile(name), Width: 8 * vg.Inch, Height: 5 * vg.Inch,
		Build: func(ds *benchdata.Dataset, _ int) (Figure, error) {
			g, err := ds.Device(name)
			if err != nil {
				return nil, err
			}
			return DeviceChart(g).Plot()
		},
	}
}

func gpuNs(g benchdata.GPU) []int {
	ns := make([]int, len(g.Runs))
	for i, r := range g.Runs {
		ns[i] = r.N
	}
	return ns
}

// DeviceChart plots one and two GPU throughput against N.
func DeviceChart(g benchdata.GPU) LineChart {
	one := Series{Name: "1 GPU", Color: Teal, Line: true}
	two := Series{Name: "2 GPUs", Color: Clay, Line: true, Glyph: draw.BoxGlyph{}}
	for _, r := range g.Runs {
		one.Points = append(one.Points, plotter.XY{X: float64(r.N), Y: r.OneGPU})
		two.Points = append(two.Points, plotter.XY{X: float64(r.N), Y: r.TwoGPU})
		two.Labels = append(two.Labels, benchdata.Factor(r.Speedup()))
	}
	return LineChart{
		Title:  fmt.Sprintf("HPL sur GPU %s (%s)", g.Name, g.Arch),
		XLabel: "Taille du Problème (N)",
		YLabel: "GFLOPS",
		Series: []Series{one, two},
		XTicks: nTicks(gpuNs(g)),
		Legend: true,
	}
}

// ComparisonChart plots single-GPU throughput of both devices, labelling
// the faster one with its ratio over the slower at each N.
func ComparisonChart(a, h benchdata.GPU) LineChart {
	sa := Series{Name: a.Name, Color: Teal, Line: true}
	sh := Series{Name: h.Name, Color: Clay, Line: true, Glyph: draw.BoxGlyph{}}
	for _, r := range a.Runs {
		sa.Points = append(sa.Points, plotter.XY{X: float64(r.N), Y: r.OneGPU})
		o, ok := h.RunAt(r.N)
		if !ok {
			continue
		}
		sh.Points = append(sh.Points, plotter.XY{X: float64(r.N), Y: o.OneGPU})
		sh.Labels = append(sh.Labels, benchdata.Factor(o.OneGPU/r.OneGPU))
	}
	return LineChart{
		Title:  fmt.Sprintf("%s vs %s (1 GPU)", a.Name, h.Name),
		XLabel: "Taille du Problème (N)",
		YLabel: "GFLOPS",
		Series: []Series{sa, sh},
		XTicks: nTicks(gpuNs(a)),
		Legend: true,
	}
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package chart

import (
	"fmt"
	"image/color"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/dustin/go-humanize"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/pdiddy/hpl-deck/internal/benchdata"
	"github.com/pdiddy/hpl-deck/pkg/types"
)

// Chart set names.
const (
	SetPresentation   = "presentation"
	SetPresentationFR = "presentation_fr"
	SetGPU            = "gpu"
)

// DefaultDPI is the raster resolution when none is configured.
const DefaultDPI = 150

// Chart is one PNG file of a set.
type Chart struct {
	File          string
	Width, Height vg.Length
	Build         func(ds *benchdata.Dataset, dpi int) (Figure, error)
}

// Set is a named group of charts rendered together.
type Set struct {
	Name   string
	Charts []Chart
}

// Sets returns every chart set in render order.
func Sets() []Set {
	return []Set{
		{SetPresentation, presentationCharts},
		{SetPresentationFR, presentationFRCharts},
		{SetGPU, gpuCharts},
	}
}

// SetNames lists the names accepted in types.ChartConfig.Sets.
func SetNames() []string {
	var out []string
	for _, s := range Sets() {
		out = append(out, s.Name)
	}
	return out
}

// Render draws the configured sets (all of them when cfg.Sets is empty)
// into cfg.OutDir and returns the written paths.
func Render(cfg types.ChartConfig, ds *benchdata.Dataset, w io.Writer) ([]string, error) {
	dpi := cfg.DPI
	if dpi <= 0 {
		dpi = DefaultDPI
	}
	for _, name := range cfg.Sets {
		if !slices.Contains(SetNames(), name) {
			return nil, fmt.Errorf("unknown chart set %q (want one of %s)", name, strings.Join(SetNames(), ", "))
		}
	}
	if err := os.MkdirAll(cfg.OutDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating chart directory: %w", err)
	}

	var written []string
	for _, set := range Sets() {
		if len(cfg.Sets) > 0 && !slices.Contains(cfg.Sets, set.Name) {
			continue
		}
		for _, c := range set.Charts {
			fig, err := c.Build(ds, dpi)
			if err != nil {
				return written, fmt.Errorf("building %s: %w", c.File, err)
			}
			path := filepath.Join(cfg.OutDir, c.File)
			if err := Save(fig, c.Width, c.Height, dpi, path); err != nil {
				return written, err
			}
			written = append(written, path)
		}
		fmt.Fprintf(w, "✓ %s: %d charts\n", set.Name, len(set.Charts))
		for _, c := range set.Charts {
			fmt.Fprintf(w, "  - %s\n", c.File)
		}
	}
	fmt.Fprintf(w, "\nFiles saved in: %s\n", cfg.OutDir)
	return written, nil
}

// Save draws fig on a w×h canvas at dpi and writes it as PNG.
func Save(fig Figure, w, h vg.Length, dpi int, path string) error {
	c := vgimg.NewWith(vgimg.UseWH(w, h), vgimg.UseDPI(dpi), vgimg.UseBackgroundColor(color.White))
	fig.Draw(draw.New(c))

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if _, err := (vgimg.PngCanvas{Canvas: c}).WriteTo(f); err != nil {
		f.Close()
		return fmt.Errorf("encoding %s: %w", path, err)
	}
	return f.Close()
}

// nLabel is "N = 10,000" in the English set and "N = 10 000" in the French one.
func nLabel(n int, french bool) string {
	if french {
		return "N = " + benchdata.Thousands(int64(n))
	}
	return "N = " + humanize.Comma(int64(n))
}

func nTicks(ns []int) []plot.Tick {
	ticks := make([]plot.Tick, len(ns))
	for i, n := range ns {
		ticks[i] = plot.Tick{Value: float64(n), Label: benchdata.CompactN(n)}
	}
	return ticks
}

func scalingRuns(ds *benchdata.Dataset) ([]benchdata.CPURun, error) {
	runs := ds.RunsWithNB(192)
	if len(runs) == 0 {
		return nil, fmt.Errorf("no laptop runs with NB=192")
	}
	return runs, nil
}

// GFLOPSBars are the NB=192 scaling bars, one per problem size.
func GFLOPSBars(runs []benchdata.CPURun, french bool) []Bar {
	colors := []color.Color{Blue, Emerald, Red}
	bars := make([]Bar, len(runs))
	for i, r := range runs {
		bars[i] = Bar{
			Label: nLabel(r.N, french),
			Value: r.GFLOPS,
			Color: colors[i%len(colors)],
			Text:  fmt.Sprintf("%.1f", r.GFLOPS),
		}
	}
	return bars
}

// TimeBars are the NB=192 execution times. French labels use minutes.
func TimeBars(runs []benchdata.CPURun, french bool) []Bar {
	bars := make([]Bar, len(runs))
	for i, r := range runs {
		text := fmt.Sprintf("%.1fs", r.Seconds)
		if french {
			text = benchdata.ShortDuration(r.Seconds)
		}
		bars[i] = Bar{Label: nLabel(r.N, french), Value: r.Seconds, Color: Purple, Text: text}
	}
	return bars
}

var presentationCharts = []Chart{
	{
		File: "graph1_gflops_vs_n.png", Width: 10 * vg.Inch, Height: 6 * vg.Inch,
		Build: func(ds *benchdata.Dataset, _ int) (Figure, error) {
			runs, err := scalingRuns(ds)
			if err != nil {
				return nil, err
			}
			return BarChart{
				Title:  "Performance HPL vs Taille du Problème",
				XLabel: "Taille du problème (N)",
				YLabel: "GFLOPS (milliards d'opérations/seconde)",
				Bars:   GFLOPSBars(runs, false),
			}.Plot(10 * vg.Inch)
		},
	},
	{
		File: "graph2_time_vs_n.png", Width: 10 * vg.Inch, Height: 6 * vg.Inch,
		Build: func(ds *benchdata.Dataset, _ int) (Figure, error) {
			runs, err := scalingRuns(ds)
			if err != nil {
				return nil, err
			}
			return BarChart{
				Title:  "Temps d'Exécution vs Taille du Problème",
				XLabel: "Taille du problème (N)",
				YLabel: "Temps d'exécution (secondes)",
				Bars:   TimeBars(runs, false),
			}.Plot(10 * vg.Inch)
		},
	},
	{
		File: "graph3_gflops_trend.png", Width: 10 * vg.Inch, Height: 6 * vg.Inch,
		Build: func(ds *benchdata.Dataset, _ int) (Figure, error) {
			runs, err := scalingRuns(ds)
			if err != nil {
				return nil, err
			}
			s := cpuSeries("", runs, Red)
			last := runs[len(runs)-1]
			return LineChart{
				Title:  "Évolution des GFLOPS avec N",
				XLabel: "Taille du problème (N)",
				YLabel: "GFLOPS",
				Series: []Series{s},
				XTicks: nTicks(runNs(runs)),
				Notes:  []Note{{X: float64(last.N) - 3000, Y: last.GFLOPS - 8.2, Text: "Throttling\nthermique?"}},
			}.Plot()
		},
	},
	{
		File: "graph4_results_table.png", Width: 10 * vg.Inch, Height: 4 * vg.Inch,
		Build: func(ds *benchdata.Dataset, dpi int) (Figure, error) {
			runs, err := scalingRuns(ds)
			if err != nil {
				return nil, err
			}
			rows := [][]string{{"N", "NB", "P×Q", "Temps (s)", "GFLOPS", "Statut"}}
			for _, r := range runs {
				rows = append(rows, []string{
					benchdata.Thousands(int64(r.N)), fmt.Sprint(r.NB), r.Grid,
					fmt.Sprintf("%.1f", r.Seconds), fmt.Sprintf("%.1f", r.GFLOPS), status(r.Passed, false),
				})
			}
			return Table{Title: "Résultats des Expériences HPL", Rows: rows, FontSize: vg.Points(14)}, nil
		},
	},
}

func runNs(runs []benchdata.CPURun) []int {
	ns := make([]int, len(runs))
	for i, r := range runs {
		ns[i] = r.N
	}
	return ns
}

func cpuSeries(name string, runs []benchdata.CPURun, c color.Color) Series {
	s := Series{Name: name, Color: c, Line: true, Radius: vg.Points(7)}
	for _, r := range runs {
		s.Points = append(s.Points, plotter.XY{X: float64(r.N), Y: r.GFLOPS})
		s.Labels = append(s.Labels, fmt.Sprintf("%.1f", r.GFLOPS))
	}
	return s
}

func status(passed, french bool) string {
	switch {
	case passed && french:
		return "VALIDÉ"
	case passed:
		return "PASSED"
	case french:
		return "ÉCHEC"
	default:
		return "FAILED"
	}
}

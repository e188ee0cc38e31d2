// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package chart

import (
	"cmp"
	"fmt"
	"image/color"
	"slices"
	"strconv"

	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/pdiddy/hpl-deck/internal/benchdata"
)

// tuningN is the problem size at which block sizes were compared.
const tuningN = 30000

var presentationFRCharts = []Chart{
	{
		File: "graphique1_gflops.png", Width: 10 * vg.Inch, Height: 6 * vg.Inch,
		Build: func(ds *benchdata.Dataset, _ int) (Figure, error) {
			runs, err := scalingRuns(ds)
			if err != nil {
				return nil, err
			}
			return BarChart{
				Title:     "Performance HPL vs Taille du Problème (NB=192)",
				XLabel:    "Taille du Problème (N)",
				YLabel:    "GFLOPS",
				Bars:      GFLOPSBars(runs, true),
				Width:     0.6,
				Headroom:  1.25,
				LabelSize: vg.Points(16),
			}.Plot(10 * vg.Inch)
		},
	},
	{
		File: "graphique2_tuning_nb.png", Width: 10 * vg.Inch, Height: 6 * vg.Inch,
		Build: func(ds *benchdata.Dataset, _ int) (Figure, error) {
			bars, gain, err := TuningBars(ds, tuningN)
			if err != nil {
				return nil, err
			}
			return BarChart{
				Title:     fmt.Sprintf("Impact de la Taille de Bloc sur la Performance (N=%s)", benchdata.Thousands(tuningN)),
				XLabel:    "Taille de Bloc (NB)",
				YLabel:    "GFLOPS",
				Bars:      bars,
				Width:     0.5,
				YMax:      55,
				LabelSize: vg.Points(18),
				Notes: []Note{{
					X: 0.3, Y: 48, Color: Green, Size: vg.Points(14),
					Text: fmt.Sprintf("%+.1f%%", gain*100),
				}},
			}.Plot(10 * vg.Inch)
		},
	},
	{
		File: "graphique3_evolution.png", Width: 11 * vg.Inch, Height: 6 * vg.Inch,
		Build: func(ds *benchdata.Dataset, _ int) (Figure, error) {
			runs, err := scalingRuns(ds)
			if err != nil {
				return nil, err
			}
			best := ds.BestCPURun()
			scaling := cpuSeries("NB=192", runs, Blue)
			tuned := Series{
				Name:   fmt.Sprintf("NB=%d (optimisé)", best.NB),
				Points: plotter.XYs{{X: float64(best.N), Y: best.GFLOPS}},
				Color:  Green,
				Glyph:  draw.BoxGlyph{},
				Radius: vg.Points(8),
			}
			return LineChart{
				Title:  "Évolution de la Performance avec Tuning",
				XLabel: "Taille du Problème (N)",
				YLabel: "GFLOPS",
				Series: []Series{scaling, tuned},
				XTicks: nTicks(runNs(runs)),
				XMin:   5000,
				XMax:   35000,
				YMax:   55,
				Legend: true,
				Notes: []Note{{
					X: float64(best.N) - 4000, Y: best.GFLOPS + 4, Color: Green,
					Text: fmt.Sprintf("%.1f GFLOPS\n(NB=%d)", best.GFLOPS, best.NB),
				}},
			}.Plot()
		},
	},
	{
		File: "graphique4_tableau.png", Width: 14 * vg.Inch, Height: 5 * vg.Inch,
		Build: func(ds *benchdata.Dataset, dpi int) (Figure, error) {
			return ResultsTable(ds), nil
		},
	},
	{
		File: "graphique5_efficacite.png", Width: 10 * vg.Inch, Height: 6 * vg.Inch,
		Build: func(ds *benchdata.Dataset, _ int) (Figure, error) {
			return HBarChart{
				Title:   "Comparaison de l'Efficacité HPL",
				XLabel:  "Efficacité (%)",
				Bars:    EfficiencyBars(ds),
				XMax:    100,
				Ref:     70,
				RefText: `Seuil "Bon"`,
			}.Plot(6 * vg.Inch)
		},
	},
	{
		File: "graphique6_temps.png", Width: 10 * vg.Inch, Height: 6 * vg.Inch,
		Build: func(ds *benchdata.Dataset, _ int) (Figure, error) {
			runs, err := scalingRuns(ds)
			if err != nil {
				return nil, err
			}
			return BarChart{
				Title:  "Temps d'Exécution vs Taille du Problème",
				XLabel: "Taille du Problème (N)",
				YLabel: "Temps (secondes)",
				Bars:   TimeBars(runs, true),
				Width:  0.6,
			}.Plot(10 * vg.Inch)
		},
	},
}

// TuningBars compares the block sizes tried at problem size n, smallest NB
// first. The best bar is green and the others red. gain is the best result
// over the NB=192 baseline.
func TuningBars(ds *benchdata.Dataset, n int) (bars []Bar, gain float64, err error) {
	var runs []benchdata.CPURun
	for _, r := range ds.CPU.Runs {
		if r.N == n {
			runs = append(runs, r)
		}
	}
	if len(runs) < 2 {
		return nil, 0, fmt.Errorf("need two block sizes at N=%d, have %d", n, len(runs))
	}
	slices.SortFunc(runs, func(a, b benchdata.CPURun) int { return cmp.Compare(a.NB, b.NB) })

	best := slices.MaxFunc(runs, func(a, b benchdata.CPURun) int { return cmp.Compare(a.GFLOPS, b.GFLOPS) })
	for _, r := range runs {
		c := color.Color(Red)
		if r.NB == best.NB {
			c = Green
		}
		bars = append(bars, Bar{
			Label: "NB = " + strconv.Itoa(r.NB),
			Value: r.GFLOPS,
			Color: c,
			Text:  fmt.Sprintf("%.1f", r.GFLOPS),
		})
	}
	gain, err = ds.NBGain(n, 192, best.NB)
	if err != nil {
		return nil, 0, err
	}
	return bars, gain, nil
}

// EfficiencyBars are the efficiency comparison entries in input order.
func EfficiencyBars(ds *benchdata.Dataset) []Bar {
	colors := []color.Color{Red, Green, Blue}
	bars := make([]Bar, len(ds.CPU.Efficiency))
	for i, e := range ds.CPU.Efficiency {
		bars[i] = Bar{
			Label: e.Label,
			Value: e.Percent,
			Color: colors[i%len(colors)],
			Text:  fmt.Sprintf("%g%%", e.Percent),
		}
	}
	return bars
}

// ResultsTable lists every laptop run. The best run is highlighted and its
// GFLOPS set in green.
func ResultsTable(ds *benchdata.Dataset) Table {
	best := ds.BestCPURun()
	rows := [][]string{{"N", "NB", "P×Q", "Temps", "GFLOPS", "Statut"}}
	bestRow := -1
	for _, r := range ds.CPU.Runs {
		g := fmt.Sprintf("%.1f", r.GFLOPS)
		if r == best {
			g += " " + starMark
			bestRow = len(rows)
		}
		st := status(r.Passed, true)
		if r.Passed {
			st = checkMark + " " + st
		}
		rows = append(rows, []string{
			benchdata.Thousands(int64(r.N)), strconv.Itoa(r.NB), r.Grid,
			benchdata.Duration(r.Seconds), g, st,
		})
	}
	return Table{
		Title:     "Tableau Récapitulatif des Résultats HPL",
		Rows:      rows,
		ColWidths: []float64{0.12, 0.08, 0.08, 0.14, 0.12, 0.12},
		Style: func(row, col int) CellStyle {
			st := StripedStyle(row, col)
			if row == 0 {
				return st
			}
			if row == bestRow {
				st.Fill = Mint
				if col == 4 {
					st.Text, st.Bold, st.Size = Green, true, vg.Points(14)
				}
			}
			if col == 5 {
				st.Text, st.Bold = Green, true
				if !ds.CPU.Runs[row-1].Passed {
					st.Text = Red
				}
			}
			return st
		},
	}
}

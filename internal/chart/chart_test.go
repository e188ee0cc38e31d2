// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package chart

import (
	"bytes"
	"image"
	"image/color"
	_ "image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/plot/vg"
	vgdraw "gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/pdiddy/hpl-deck/internal/benchdata"
	"github.com/pdiddy/hpl-deck/pkg/types"
)

func pngSize(t *testing.T, path string) image.Point {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	cfg, format, err := image.DecodeConfig(f)
	require.NoError(t, err)
	require.Equal(t, "png", format)
	return image.Pt(cfg.Width, cfg.Height)
}

func TestRenderAllSets(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "images")
	var out bytes.Buffer

	written, err := Render(types.ChartConfig{OutDir: dir, DPI: 40}, benchdata.Default(), &out)
	require.NoError(t, err)
	require.Len(t, written, 13)

	for _, p := range written {
		assert.FileExists(t, p)
	}
	assert.Equal(t, image.Pt(400, 240), pngSize(t, filepath.Join(dir, "graph1_gflops_vs_n.png")))
	assert.Equal(t, image.Pt(440, 240), pngSize(t, filepath.Join(dir, "graphique3_evolution.png")))
	assert.Equal(t, image.Pt(560, 200), pngSize(t, filepath.Join(dir, "graphique4_tableau.png")))
	assert.Equal(t, image.Pt(320, 200), pngSize(t, filepath.Join(dir, DeviceFile("H100"))))

	msg := out.String()
	assert.Contains(t, msg, "✓ presentation_fr: 6 charts")
	assert.Contains(t, msg, "  - graphique2_tuning_nb.png")
	assert.Contains(t, msg, "Files saved in: "+dir)
}

func TestRenderSubset(t *testing.T) {
	dir := t.TempDir()
	written, err := Render(types.ChartConfig{OutDir: dir, DPI: 30, Sets: []string{SetGPU}}, benchdata.Default(), &bytes.Buffer{})
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "hpl-a100.png"),
		filepath.Join(dir, "hpl-h100.png"),
		filepath.Join(dir, ComparisonFile),
	}, written)
}

func TestRenderUnknownSet(t *testing.T) {
	_, err := Render(types.ChartConfig{OutDir: t.TempDir(), Sets: []string{"slides"}}, benchdata.Default(), &bytes.Buffer{})
	require.ErrorContains(t, err, `unknown chart set "slides"`)
}

func TestRenderMissingDevice(t *testing.T) {
	ds := benchdata.Default()
	ds.GPU.Devices = ds.GPU.Devices[1:]
	_, err := Render(types.ChartConfig{OutDir: t.TempDir(), DPI: 30, Sets: []string{SetGPU}}, ds, &bytes.Buffer{})
	require.Error(t, err)
}

func TestScalingBars(t *testing.T) {
	runs := benchdata.Default().RunsWithNB(192)

	tests := []struct {
		name   string
		bars   []Bar
		values []float64
		labels []string
		texts  []string
	}{
		{
			name:   "gflops english",
			bars:   GFLOPSBars(runs, false),
			values: []float64{15.7, 41.0, 38.2},
			labels: []string{"N = 10,000", "N = 20,000", "N = 30,000"},
			texts:  []string{"15.7", "41.0", "38.2"},
		},
		{
			name:   "gflops french",
			bars:   GFLOPSBars(runs, true),
			values: []float64{15.7, 41.0, 38.2},
			labels: []string{"N = 10 000", "N = 20 000", "N = 30 000"},
			texts:  []string{"15.7", "41.0", "38.2"},
		},
		{
			name:   "time english",
			bars:   TimeBars(runs, false),
			values: []float64{42.5, 130.0, 471.2},
			labels: []string{"N = 10,000", "N = 20,000", "N = 30,000"},
			texts:  []string{"42.5s", "130.0s", "471.2s"},
		},
		{
			name:   "time french",
			bars:   TimeBars(runs, true),
			values: []float64{42.5, 130.0, 471.2},
			labels: []string{"N = 10 000", "N = 20 000", "N = 30 000"},
			texts:  []string{"42s", "2m 10s", "7m 51s"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Len(t, tt.bars, len(tt.values))
			for i, b := range tt.bars {
				assert.Equal(t, tt.values[i], b.Value)
				assert.Equal(t, tt.labels[i], b.Label)
				assert.Equal(t, tt.texts[i], b.Text)
			}
		})
	}
}

func TestTuningBars(t *testing.T) {
	bars, gain, err := TuningBars(benchdata.Default(), 30000)
	require.NoError(t, err)
	require.Len(t, bars, 2)

	assert.Equal(t, "NB = 128", bars[0].Label)
	assert.Equal(t, 44.2, bars[0].Value)
	assert.Equal(t, Green, bars[0].Color)
	assert.Equal(t, "NB = 192", bars[1].Label)
	assert.Equal(t, Red, bars[1].Color)
	assert.InDelta(t, 0.157, gain, 0.001)

	_, _, err = TuningBars(benchdata.Default(), 10000)
	require.Error(t, err)
}

func TestEfficiencyBars(t *testing.T) {
	bars := EfficiencyBars(benchdata.Default())
	require.Len(t, bars, 3)
	assert.Equal(t, "10%", bars[0].Text)
	assert.Equal(t, "11%", bars[1].Text)
	assert.Equal(t, 75.0, bars[2].Value)
	assert.Equal(t, "Cluster HPC\n(Typique)", bars[2].Label)
}

func TestResultsTable(t *testing.T) {
	tbl := ResultsTable(benchdata.Default())
	require.Len(t, tbl.Rows, 5)

	assert.Equal(t, []string{"N", "NB", "P×Q", "Temps", "GFLOPS", "Statut"}, tbl.Rows[0])
	assert.Equal(t, []string{"20 000", "192", "2×4", "2 min 10 s", "41.0", "✓ VALIDÉ"}, tbl.Rows[2])
	assert.Equal(t, "6 min 48 s", tbl.Rows[4][3])
	assert.Equal(t, "44.2 ⭐", tbl.Rows[4][4])
	assert.Equal(t, "Tableau Récapitulatif des Résultats HPL", tbl.Title)

	assert.Equal(t, HeaderStyle, tbl.Style(0, 3))
	assert.Equal(t, Mint, tbl.Style(4, 0).Fill)
	assert.Equal(t, Cloud, tbl.Style(2, 0).Fill)
	assert.Equal(t, vg.Points(14), tbl.Style(4, 4).Size)
	st := tbl.Style(1, 5)
	assert.Equal(t, Green, st.Text)
	assert.True(t, st.Bold)
}

func TestSplitMarks(t *testing.T) {
	tests := []struct {
		in          string
		body        string
		check, star bool
	}{
		{"✓ VALIDÉ", "VALIDÉ", true, false},
		{"44.2 ⭐", "44.2", false, true},
		{"P×Q", "P×Q", false, false},
		{"✓", "✓", false, false},
	}
	for _, tt := range tests {
		body, check, star := splitMarks(tt.in)
		assert.Equal(t, tt.body, body, tt.in)
		assert.Equal(t, tt.check, check, tt.in)
		assert.Equal(t, tt.star, star, tt.in)
	}
}

func TestTableLayout(t *testing.T) {
	tbl := Table{
		Title:     "Résultats",
		Rows:      [][]string{{"N", "NB", "P×Q"}, {"10 000", "192", "2×4"}},
		ColWidths: []float64{2, 1, 1},
	}
	r := vg.Rectangle{Max: vg.Point{X: 6 * vg.Inch, Y: 3 * vg.Inch}}
	title, cells := tbl.layout(r)

	assert.Equal(t, 3*vg.Inch, title.X)
	require.Len(t, cells, 2)
	require.Len(t, cells[0], 3)
	assert.InDelta(t, float64(2*cells[0][1].Size().X), float64(cells[0][0].Size().X), 1e-9)
	assert.Equal(t, cells[0][0].Min.Y, cells[1][0].Max.Y)
	assert.Less(t, float64(cells[0][0].Max.Y), float64(title.Y))
	assert.GreaterOrEqual(t, float64(cells[1][0].Min.Y), 0.0)

	// A short canvas squeezes the rows to fit.
	short := vg.Rectangle{Max: vg.Point{X: 6 * vg.Inch, Y: vg.Inch}}
	_, cells = tbl.layout(short)
	assert.GreaterOrEqual(t, float64(cells[1][0].Min.Y), 0.0)
}

func TestTableDraw(t *testing.T) {
	const dpi = 100
	tbl := ResultsTable(benchdata.Default())
	w, h := 14*vg.Inch, 5*vg.Inch
	c := vgimg.NewWith(vgimg.UseWH(w, h), vgimg.UseDPI(dpi))
	tbl.Draw(vgdraw.New(c))
	img := c.Image()

	_, cells := tbl.layout(vg.Rectangle{Max: vg.Point{X: w, Y: h}})
	px := func(p vg.Point) (int, int) {
		return int(p.X.Dots(dpi)), int((h - p.Y).Dots(dpi))
	}

	// Header background, clear of the centred label.
	head := cells[0][0]
	x, y := px(vg.Point{X: head.Min.X + vg.Points(3), Y: (head.Min.Y + head.Max.Y) / 2})
	assert.Equal(t, color.RGBAModel.Convert(Navy), color.RGBAModel.Convert(img.At(x, y)))

	// The best GFLOPS cell carries a gold star.
	best := cells[4][4]
	x0, y0 := px(vg.Point{X: best.Min.X, Y: best.Max.Y})
	x1, y1 := px(vg.Point{X: best.Max.X, Y: best.Min.Y})
	gold := color.RGBAModel.Convert(Gold)
	found := false
	for py := y0; py < y1 && !found; py++ {
		for qx := x0; qx < x1; qx++ {
			if color.RGBAModel.Convert(img.At(qx, py)) == gold {
				found = true
				break
			}
		}
	}
	assert.True(t, found, "no star in best cell")
}

func TestBarChartPlot(t *testing.T) {
	bars := []Bar{{Label: "a", Value: 10, Color: Blue}, {Label: "b", Value: 40, Color: Red}}

	p, err := BarChart{Bars: bars}.Plot(10 * vg.Inch)
	require.NoError(t, err)
	assert.Equal(t, 0.0, p.Y.Min)
	assert.InDelta(t, 48.0, p.Y.Max, 1e-9)

	p, err = BarChart{Bars: bars, Headroom: 1.25}.Plot(10 * vg.Inch)
	require.NoError(t, err)
	assert.InDelta(t, 50.0, p.Y.Max, 1e-9)

	p, err = BarChart{Bars: bars, YMax: 55}.Plot(10 * vg.Inch)
	require.NoError(t, err)
	assert.Equal(t, 55.0, p.Y.Max)

	_, err = BarChart{Title: "empty"}.Plot(10 * vg.Inch)
	require.Error(t, err)
	_, err = HBarChart{Title: "empty"}.Plot(6 * vg.Inch)
	require.Error(t, err)
	_, err = LineChart{Title: "empty"}.Plot()
	require.Error(t, err)
}

func TestComparisonChart(t *testing.T) {
	ds := benchdata.Default()
	a, err := ds.Device("A100")
	require.NoError(t, err)
	h, err := ds.Device("H100")
	require.NoError(t, err)

	lc := ComparisonChart(a, h)
	require.Len(t, lc.Series, 2)
	assert.Len(t, lc.Series[1].Points, 5)
	assert.Equal(t, "2,53x", lc.Series[1].Labels[4])
	assert.Equal(t, "20K", lc.XTicks[0].Label)

	dc := DeviceChart(a)
	assert.Equal(t, "HPL sur GPU A100 (Ampere)", dc.Title)
	assert.Equal(t, "0,94x", dc.Series[1].Labels[0])
}

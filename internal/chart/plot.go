// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package chart renders the benchmark figures as PNG files with gonum/plot.
// Bar, horizontal bar and line charts go through plot.Plot; the results
// tables are drawn cell by cell on the same canvas.
package chart

import (
	"fmt"
	"image/color"
	"strconv"

	xfont "golang.org/x/image/font"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// Figure is anything that can be drawn onto a full-page canvas.
type Figure interface {
	Draw(dc draw.Canvas)
}

// Bar is one bar with its own colour and value label.
type Bar struct {
	Label string
	Value float64
	Color color.Color
	Text  string
}

// Note is free text placed at data coordinates.
type Note struct {
	X, Y  float64
	Text  string
	Color color.Color
	Size  vg.Length
}

// BarChart is a vertical bar chart. The y axis runs from zero to the largest
// value times Headroom, unless YMax is set.
type BarChart struct {
	Title, XLabel, YLabel string
	Bars                  []Bar
	Width                 float64 // fraction of the slot a bar fills
	Headroom              float64
	YMax                  float64
	LabelSize             vg.Length
	Notes                 []Note
}

// HBarChart is a horizontal bar chart with an optional dashed reference
// line at Ref.
type HBarChart struct {
	Title, XLabel string
	Bars          []Bar
	XMax          float64
	Ref           float64
	RefText       string
	Notes         []Note
}

// Series is one line of a LineChart.
type Series struct {
	Name   string
	Points plotter.XYs
	Color  color.Color
	Glyph  draw.GlyphDrawer
	Radius vg.Length
	Line   bool
	Labels []string
}

// LineChart plots one or more series against shared axes.
type LineChart struct {
	Title, XLabel, YLabel string
	Series                []Series
	XTicks                []plot.Tick
	XMin, XMax            float64
	YMin, YMax            float64
	Legend                bool
	Notes                 []Note
}

// Default series colours.
var (
	Blue    = hex("3498db")
	Emerald = hex("2ecc71")
	Red     = hex("e74c3c")
	Purple  = hex("9b59b6")
	Green   = hex("27ae60")
	Navy    = hex("2c3e50")
	Cloud   = hex("ecf0f1")
	Mint    = hex("d5f5e3")
	Teal    = hex("0E7C7B")
	Clay    = hex("E07A5F")
	Gray    = hex("808080")
	Black   = color.Black
)

func hex(s string) color.RGBA {
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil || len(s) != 6 {
		panic(fmt.Sprintf("chart: bad colour %q", s))
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}
}

func newPlot(title string) *plot.Plot {
	p := plot.New()
	p.Title.Text = title
	p.Title.TextStyle.Font.Size = vg.Points(16)
	p.Title.TextStyle.Font.Weight = xfont.WeightBold
	p.Title.Padding = vg.Points(10)
	for _, a := range []*plot.Axis{&p.X, &p.Y} {
		a.Label.TextStyle.Font.Size = vg.Points(14)
		a.Label.TextStyle.Font.Weight = xfont.WeightBold
		a.Tick.Label.Font.Size = vg.Points(12)
	}

	grid := plotter.NewGrid()
	grid.Vertical.Color = color.Gray{Y: 0xd8}
	grid.Horizontal.Color = color.Gray{Y: 0xd8}
	p.Add(grid)
	return p
}

func boldStyle(size vg.Length, c color.Color) text.Style {
	f := plot.DefaultFont
	f.Size = size
	f.Weight = xfont.WeightBold
	return text.Style{Color: c, Font: f, Handler: plot.DefaultTextHandler}
}

// addNotes places each note as a label anchored at its data point.
func addNotes(p *plot.Plot, notes []Note) error {
	for _, n := range notes {
		l, err := plotter.NewLabels(plotter.XYLabels{
			XYs:    plotter.XYs{{X: n.X, Y: n.Y}},
			Labels: []string{n.Text},
		})
		if err != nil {
			return fmt.Errorf("note %q: %w", n.Text, err)
		}
		size := n.Size
		if size == 0 {
			size = vg.Points(11)
		}
		c := n.Color
		if c == nil {
			c = Gray
		}
		l.TextStyle[0] = boldStyle(size, c)
		l.TextStyle[0].XAlign = draw.XCenter
		p.Add(l)
	}
	return nil
}

// Plot builds the chart for a figure w wide.
func (b BarChart) Plot(w vg.Length) (*plot.Plot, error) {
	if len(b.Bars) == 0 {
		return nil, fmt.Errorf("bar chart %q has no bars", b.Title)
	}
	p := newPlot(b.Title)
	p.X.Label.Text = b.XLabel
	p.Y.Label.Text = b.YLabel

	frac := b.Width
	if frac == 0 {
		frac = 0.8
	}
	// The data area is roughly the figure less an inch of axis furniture.
	slot := (w - vg.Inch) / vg.Length(len(b.Bars))
	width := vg.Length(frac) * slot

	names := make([]string, len(b.Bars))
	labels := plotter.XYLabels{}
	top := 0.0
	for i, bar := range b.Bars {
		names[i] = bar.Label
		bc, err := plotter.NewBarChart(plotter.Values{bar.Value}, width)
		if err != nil {
			return nil, fmt.Errorf("bar %q: %w", bar.Label, err)
		}
		bc.XMin = float64(i)
		bc.Color = bar.Color
		bc.LineStyle.Color = Black
		bc.LineStyle.Width = vg.Points(1.5)
		p.Add(bc)

		labels.XYs = append(labels.XYs, plotter.XY{X: float64(i), Y: bar.Value})
		labels.Labels = append(labels.Labels, bar.Text)
		top = max(top, bar.Value)
	}
	p.NominalX(names...)

	lbl, err := plotter.NewLabels(labels)
	if err != nil {
		return nil, err
	}
	size := b.LabelSize
	if size == 0 {
		size = vg.Points(14)
	}
	for i := range lbl.TextStyle {
		lbl.TextStyle[i] = boldStyle(size, Black)
		lbl.TextStyle[i].XAlign = draw.XCenter
	}
	lbl.Offset = vg.Point{Y: vg.Points(5)}
	p.Add(lbl)

	p.Y.Min = 0
	switch {
	case b.YMax > 0:
		p.Y.Max = b.YMax
	case b.Headroom > 0:
		p.Y.Max = top * b.Headroom
	default:
		p.Y.Max = top * 1.2
	}
	if err := addNotes(p, b.Notes); err != nil {
		return nil, err
	}
	return p, nil
}

// Plot builds the chart for a figure h tall.
func (b HBarChart) Plot(h vg.Length) (*plot.Plot, error) {
	if len(b.Bars) == 0 {
		return nil, fmt.Errorf("bar chart %q has no bars", b.Title)
	}
	p := newPlot(b.Title)
	p.X.Label.Text = b.XLabel

	slot := (h - vg.Inch) / vg.Length(len(b.Bars))
	width := slot / 2

	names := make([]string, len(b.Bars))
	labels := plotter.XYLabels{}
	for i, bar := range b.Bars {
		names[i] = bar.Label
		bc, err := plotter.NewBarChart(plotter.Values{bar.Value}, width)
		if err != nil {
			return nil, fmt.Errorf("bar %q: %w", bar.Label, err)
		}
		bc.Horizontal = true
		bc.XMin = float64(i)
		bc.Color = bar.Color
		bc.LineStyle.Color = Black
		bc.LineStyle.Width = vg.Points(1.5)
		p.Add(bc)

		labels.XYs = append(labels.XYs, plotter.XY{X: bar.Value + 2, Y: float64(i)})
		labels.Labels = append(labels.Labels, bar.Text)
	}
	p.NominalY(names...)

	if b.Ref > 0 {
		ref, err := plotter.NewLine(plotter.XYs{
			{X: b.Ref, Y: -0.5},
			{X: b.Ref, Y: float64(len(b.Bars)) - 0.5},
		})
		if err != nil {
			return nil, err
		}
		ref.LineStyle.Color = Gray
		ref.LineStyle.Dashes = []vg.Length{vg.Points(6), vg.Points(4)}
		p.Add(ref)
	}

	lbl, err := plotter.NewLabels(labels)
	if err != nil {
		return nil, err
	}
	for i := range lbl.TextStyle {
		lbl.TextStyle[i] = boldStyle(vg.Points(14), Black)
		lbl.TextStyle[i].YAlign = draw.YCenter
	}
	p.Add(lbl)

	p.X.Min = 0
	p.X.Max = b.XMax
	notes := b.Notes
	if b.Ref > 0 && b.RefText != "" {
		notes = append(notes, Note{X: b.Ref + 8, Y: float64(len(b.Bars)-1) + 0.3, Text: b.RefText, Size: vg.Points(10)})
	}
	if err := addNotes(p, notes); err != nil {
		return nil, err
	}
	return p, nil
}

// Plot builds the chart.
func (l LineChart) Plot() (*plot.Plot, error) {
	if len(l.Series) == 0 {
		return nil, fmt.Errorf("line chart %q has no series", l.Title)
	}
	p := newPlot(l.Title)
	p.X.Label.Text = l.XLabel
	p.Y.Label.Text = l.YLabel

	for _, s := range l.Series {
		thumbs, err := addSeries(p, s)
		if err != nil {
			return nil, fmt.Errorf("series %q: %w", s.Name, err)
		}
		if l.Legend && s.Name != "" {
			p.Legend.Add(s.Name, thumbs...)
		}
	}
	p.Legend.Top = true
	p.Legend.Left = true
	p.Legend.TextStyle.Font.Size = vg.Points(12)

	if len(l.XTicks) > 0 {
		p.X.Tick.Marker = plot.ConstantTicks(l.XTicks)
	}
	if l.XMax > l.XMin {
		p.X.Min, p.X.Max = l.XMin, l.XMax
	}
	if l.YMax > l.YMin {
		p.Y.Min, p.Y.Max = l.YMin, l.YMax
	}
	if err := addNotes(p, l.Notes); err != nil {
		return nil, err
	}
	return p, nil
}

func addSeries(p *plot.Plot, s Series) ([]plot.Thumbnailer, error) {
	var thumbs []plot.Thumbnailer
	sc, err := plotter.NewScatter(s.Points)
	if err != nil {
		return nil, err
	}
	glyph := s.Glyph
	if glyph == nil {
		glyph = draw.RingGlyph{}
	}
	radius := s.Radius
	if radius == 0 {
		radius = vg.Points(6)
	}
	sc.GlyphStyle = draw.GlyphStyle{Color: s.Color, Radius: radius, Shape: glyph}

	if s.Line {
		ln, err := plotter.NewLine(s.Points)
		if err != nil {
			return nil, err
		}
		ln.LineStyle.Color = s.Color
		ln.LineStyle.Width = vg.Points(3)
		p.Add(ln)
		thumbs = append(thumbs, ln)
	}
	p.Add(sc)
	thumbs = append(thumbs, sc)

	if len(s.Labels) > 0 {
		lbl, err := plotter.NewLabels(plotter.XYLabels{XYs: s.Points, Labels: s.Labels})
		if err != nil {
			return nil, err
		}
		for i := range lbl.TextStyle {
			lbl.TextStyle[i] = boldStyle(vg.Points(12), Black)
		}
		lbl.Offset = vg.Point{X: vg.Points(10), Y: vg.Points(10)}
		p.Add(lbl)
	}
	return thumbs, nil
}
